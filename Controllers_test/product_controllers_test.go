package Controllers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ryadom-food/restaurant-backend/controllers"
	"github.com/ryadom-food/restaurant-backend/models"
	"github.com/ryadom-food/restaurant-backend/services"
)

func setupProductRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	ctrl := controllers.NewProductController(db, services.NewCatalogService(db, nil))

	r := gin.New()
	r.GET("/api/products", ctrl.GetAllProducts)
	r.GET("/api/products/stats", ctrl.GetStats)
	r.GET("/api/products/category/:category", ctrl.GetByCategory)
	r.GET("/api/products/:id", ctrl.GetProduct)
	r.POST("/api/products", ctrl.CreateProduct)
	r.PUT("/api/products/:id", ctrl.UpdateProduct)
	r.DELETE("/api/products/:id", ctrl.DeleteProduct)
	r.PATCH("/api/products/:id/availability", ctrl.PatchAvailability)
	r.PATCH("/api/products/:id/featured", ctrl.PatchFeatured)
	return r
}

func TestCatalogGroupedWithHash(t *testing.T) {
	db := setupTestDB(t)
	r := setupProductRouter(db)

	w := doJSON(t, r, http.MethodGet, "/api/products", nil)
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeData(t, w)
	assert.NotEmpty(t, data["hash"])
	categories := data["categories"].([]interface{})
	require.Len(t, categories, 1)

	first := categories[0].(map[string]interface{})
	assert.Equal(t, "pizza", first["category"])
	assert.Len(t, first["products"], 2)
}

func TestCreateProductGeneratesSlug(t *testing.T) {
	db := setupTestDB(t)
	r := setupProductRouter(db)

	w := doJSON(t, r, http.MethodPost, "/api/products", map[string]interface{}{
		"title":    "Четыре Сыра",
		"price":    800,
		"category": "pizza",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	data := decodeData(t, w)
	assert.Equal(t, "четыресыра", data["id"])
	assert.Equal(t, true, data["is_available"])

	w = doJSON(t, r, http.MethodGet, "/api/products/четыресыра", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreateUnavailableProductStaysUnavailable(t *testing.T) {
	db := setupTestDB(t)
	r := setupProductRouter(db)

	available := false
	w := doJSON(t, r, http.MethodPost, "/api/products", map[string]interface{}{
		"title":        "Сезонный суп",
		"price":        450,
		"category":     "soups",
		"is_available": &available,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, false, decodeData(t, w)["is_available"])

	// The false flag must survive the insert, not revert to a column
	// default.
	var product models.Product
	require.NoError(t, db.Where("slug = ?", "сезонныйсуп").First(&product).Error)
	assert.False(t, product.IsAvailable)

	var changes int64
	db.Model(&models.DBChange{}).Where("table_name = ?", "products").Count(&changes)
	assert.EqualValues(t, 1, changes)
}

func TestPatchAvailability(t *testing.T) {
	db := setupTestDB(t)
	r := setupProductRouter(db)

	value := false
	w := doJSON(t, r, http.MethodPatch, "/api/products/margherita/availability",
		map[string]interface{}{"value": &value})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodGet, "/api/products/margherita", nil)
	data := decodeData(t, w)
	assert.Equal(t, false, data["is_available"])

	// Unknown slug is a 404.
	w = doJSON(t, r, http.MethodPatch, "/api/products/nope/availability",
		map[string]interface{}{"value": &value})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetByCategory(t *testing.T) {
	db := setupTestDB(t)
	r := setupProductRouter(db)

	w := doJSON(t, r, http.MethodGet, "/api/products/category/pizza", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 2)

	w = doJSON(t, r, http.MethodGet, "/api/products/category/sushi", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Data)
}

func TestDeleteProduct(t *testing.T) {
	db := setupTestDB(t)
	r := setupProductRouter(db)

	w := doJSON(t, r, http.MethodDelete, "/api/products/margherita", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/products/margherita", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProductStats(t *testing.T) {
	db := setupTestDB(t)
	r := setupProductRouter(db)

	w := doJSON(t, r, http.MethodGet, "/api/products/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.EqualValues(t, 2, data["total"])
}
