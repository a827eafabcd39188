package Controllers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ryadom-food/restaurant-backend/controllers"
	"github.com/ryadom-food/restaurant-backend/services"
)

func setupDeliveryRouter(db *gorm.DB, geo services.Geocoder) *gin.Engine {
	gin.SetMode(gin.TestMode)
	ctrl := controllers.NewDeliveryController(services.NewDeliveryService(db, geo))

	r := gin.New()
	r.POST("/api/delivery/suggestions", ctrl.Suggestions)
	r.POST("/api/delivery/calculate", ctrl.Calculate)
	r.GET("/api/delivery/restaurant", ctrl.Restaurant)
	return r
}

func TestDeliveryCalculate(t *testing.T) {
	db := setupTestDB(t)
	r := setupDeliveryRouter(db, &stubGeocoder{})

	w := doJSON(t, r, http.MethodPost, "/api/delivery/calculate",
		map[string]string{"address": "Москва, Лесная 7"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	data := decodeData(t, w)
	assert.EqualValues(t, 225, data["cost"])
	assert.Equal(t, false, data["is_free"])
}

func TestDeliveryCalculateUnresolvableIs404(t *testing.T) {
	db := setupTestDB(t)
	r := setupDeliveryRouter(db, &stubGeocoder{unresolvable: true})

	w := doJSON(t, r, http.MethodPost, "/api/delivery/calculate",
		map[string]string{"address": "нигде"})
	assert.Equal(t, http.StatusNotFound, w.Code, "must never respond with a zero cost")
}

func TestDeliverySuggestions(t *testing.T) {
	db := setupTestDB(t)
	r := setupDeliveryRouter(db, &stubGeocoder{})

	w := doJSON(t, r, http.MethodPost, "/api/delivery/suggestions",
		map[string]string{"query": "Лесная"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Лесная, дом 1")
}

func TestDeliveryRestaurantPoint(t *testing.T) {
	db := setupTestDB(t)
	r := setupDeliveryRouter(db, &stubGeocoder{})

	w := doJSON(t, r, http.MethodGet, "/api/delivery/restaurant", nil)
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeData(t, w)
	assert.Equal(t, "Рядом", data["name"])
	assert.EqualValues(t, 2, data["free_radius_km"])
}
