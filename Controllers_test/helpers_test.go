package Controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ryadom-food/restaurant-backend/models"
	"github.com/ryadom-food/restaurant-backend/schedule"
	"github.com/ryadom-food/restaurant-backend/services"
	"github.com/ryadom-food/restaurant-backend/utils"
)

// stubGeocoder resolves every address to a point ~4.4 km from the
// restaurant unless asked to fail.
type stubGeocoder struct {
	unresolvable bool
}

func (s *stubGeocoder) Suggest(_ context.Context, query string) ([]services.Suggestion, error) {
	return []services.Suggestion{{Value: query + ", дом 1"}}, nil
}

func (s *stubGeocoder) Geocode(_ context.Context, _ string) (*services.GeoPoint, error) {
	if s.unresolvable {
		return nil, nil
	}
	return &services.GeoPoint{Lat: 55.7975, Lng: 37.6136}, nil
}

// memoryDSN names the in-memory database after the test so every
// pooled connection sees the same tables and tests stay isolated.
func memoryDSN(t *testing.T) string {
	return "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	utils.InitLogger()

	db, err := gorm.Open(sqlite.Open(memoryDSN(t)), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Product{}, &models.HeroSlide{},
		&models.Settings{}, &models.Order{}, &models.OrderItem{},
		&models.OrderStatusLog{}, &models.DBChange{},
	))

	db.Create(&models.Settings{
		Name:      "Рядом",
		Address:   "Москва, Тверская 1",
		Latitude:  55.7575,
		Longitude: 37.6136,
		IsActive:  true,
		OpeningHours: models.OpeningHours{
			Monday:    schedule.Day{Open: "10:00", Close: "22:00"},
			Tuesday:   schedule.Day{Open: "10:00", Close: "22:00"},
			Wednesday: schedule.Day{Open: "10:00", Close: "22:00"},
			Thursday:  schedule.Day{Open: "10:00", Close: "22:00"},
			Friday:    schedule.Day{Open: "10:00", Close: "23:00"},
			Saturday:  schedule.Day{Open: "11:00", Close: "23:00"},
			Sunday:    schedule.Day{IsClosed: true},
		},
		OrderSeries: "А",
	})
	db.Create(&models.Product{Slug: "margherita", Title: "Margherita", Price: 650, Category: "pizza", IsAvailable: true})
	db.Create(&models.Product{Slug: "pepperoni", Title: "Pepperoni", Price: 850, Category: "pizza", IsAvailable: true})
	return db
}

func newOrderService(db *gorm.DB) *services.OrderService {
	return services.NewOrderService(db, services.NewDeliveryService(db, &stubGeocoder{}))
}

func doJSON(t *testing.T, r *gin.Engine, method, url string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, _ := resp["data"].(map[string]interface{})
	return data
}
