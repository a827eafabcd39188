package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/ryadom-food/restaurant-backend/models"
	"github.com/ryadom-food/restaurant-backend/pricing"
)

// GeoPoint is a resolved coordinate pair.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Suggestion is one address-autocomplete candidate.
type Suggestion struct {
	Value string  `json:"value"`
	Lat   float64 `json:"lat,omitempty"`
	Lng   float64 `json:"lng,omitempty"`
}

// Geocoder is the external address provider. Geocode returns (nil, nil)
// for an address the provider cannot resolve; that is a distinct outcome,
// not an error (it must never surface as a zero-cost delivery).
type Geocoder interface {
	Suggest(ctx context.Context, query string) ([]Suggestion, error)
	Geocode(ctx context.Context, address string) (*GeoPoint, error)
}

// HTTPGeocoder talks to the provider's REST API.
type HTTPGeocoder struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

func NewHTTPGeocoder(baseURL, apiKey string) *HTTPGeocoder {
	return &HTTPGeocoder{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (g *HTTPGeocoder) post(ctx context.Context, path string, body, out interface{}) (int, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if g.APIKey != "" {
		req.Header.Set("Authorization", "Token "+g.APIKey)
	}

	resp, err := g.Client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return resp.StatusCode, nil
	}
	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, fmt.Errorf("geocoder returned %d", resp.StatusCode)
	}
	return resp.StatusCode, json.NewDecoder(resp.Body).Decode(out)
}

func (g *HTTPGeocoder) Suggest(ctx context.Context, query string) ([]Suggestion, error) {
	var out struct {
		Suggestions []Suggestion `json:"suggestions"`
	}
	if _, err := g.post(ctx, "/suggest", map[string]string{"query": query}, &out); err != nil {
		return nil, err
	}
	return out.Suggestions, nil
}

func (g *HTTPGeocoder) Geocode(ctx context.Context, address string) (*GeoPoint, error) {
	var out GeoPoint
	code, err := g.post(ctx, "/geocode", map[string]string{"address": address}, &out)
	if err != nil {
		return nil, err
	}
	if code == http.StatusNotFound || (out.Lat == 0 && out.Lng == 0) {
		return nil, nil
	}
	return &out, nil
}

// DeliveryResult is the current delivery context for an address.
type DeliveryResult struct {
	Distance    float64  `json:"distance"`
	Cost        int      `json:"cost"`
	IsFree      bool     `json:"is_free"`
	Address     string   `json:"address"`
	Coordinates GeoPoint `json:"coordinates"`
}

type DeliveryService struct {
	DB       *gorm.DB
	Geocoder Geocoder
}

func NewDeliveryService(db *gorm.DB, geocoder Geocoder) *DeliveryService {
	return &DeliveryService{DB: db, Geocoder: geocoder}
}

// Calculate resolves an address to a delivery cost. Returns (nil, nil)
// when the address cannot be resolved so the caller keeps its previous
// delivery state and shows an error.
func (s *DeliveryService) Calculate(ctx context.Context, address string) (*DeliveryResult, error) {
	var settings models.Settings
	if err := s.DB.First(&settings).Error; err != nil {
		return nil, err
	}

	address = strings.TrimSpace(address)
	if address == "" {
		return nil, nil
	}

	// Ordering to the restaurant's own address is always free.
	if strings.EqualFold(address, strings.TrimSpace(settings.Address)) {
		return &DeliveryResult{
			IsFree:      true,
			Address:     settings.Address,
			Coordinates: GeoPoint{Lat: settings.Latitude, Lng: settings.Longitude},
		}, nil
	}

	point, err := s.Geocoder.Geocode(ctx, address)
	if err != nil {
		return nil, err
	}
	if point == nil {
		return nil, nil
	}

	distance := haversineKm(settings.Latitude, settings.Longitude, point.Lat, point.Lng)
	cost, isFree := pricing.DeliveryCost(distance, false)

	return &DeliveryResult{
		Distance:    math.Round(distance*10) / 10,
		Cost:        cost,
		IsFree:      isFree,
		Address:     address,
		Coordinates: *point,
	}, nil
}

// RestaurantPoint returns the restaurant location and free-delivery
// radius for the checkout map.
func (s *DeliveryService) RestaurantPoint() (*models.Settings, float64, error) {
	var settings models.Settings
	if err := s.DB.First(&settings).Error; err != nil {
		return nil, 0, err
	}
	return &settings, pricing.FreeDeliveryRadiusKm, nil
}

const earthRadiusKm = 6371.0

func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
