package Controllers_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ryadom-food/restaurant-backend/controllers"
	"github.com/ryadom-food/restaurant-backend/models"
)

func setupSettingsRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	ctrl := controllers.NewSettingsController(db)

	r := gin.New()
	r.GET("/api/settings", ctrl.GetSettings)
	r.PUT("/api/settings", ctrl.UpdateSettings)
	r.GET("/api/settings/status", ctrl.GetStatus)
	return r
}

func TestGetSettings(t *testing.T) {
	db := setupTestDB(t)
	r := setupSettingsRouter(db)

	w := doJSON(t, r, http.MethodGet, "/api/settings", nil)
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeData(t, w)
	assert.Equal(t, "Рядом", data["name"])
	assert.Equal(t, true, data["isActive"])
}

func TestUpdateSettings(t *testing.T) {
	db := setupTestDB(t)
	r := setupSettingsRouter(db)

	active := false
	w := doJSON(t, r, http.MethodPut, "/api/settings", map[string]interface{}{
		"name":     "Рядом на Лесной",
		"address":  "Москва, Лесная 7",
		"isActive": &active,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var settings models.Settings
	require.NoError(t, db.First(&settings).Error)
	assert.Equal(t, "Рядом на Лесной", settings.Name)
	assert.False(t, settings.IsActive)
}

func TestFirstSettingsWritePersistsInactive(t *testing.T) {
	db := setupTestDB(t)
	r := setupSettingsRouter(db)

	// Start from an empty table: the very first insert must store the
	// false flag, not silently flip it to a column default.
	require.NoError(t, db.Where("1 = 1").Delete(&models.Settings{}).Error)

	active := false
	w := doJSON(t, r, http.MethodPut, "/api/settings", map[string]interface{}{
		"name":     "Рядом",
		"address":  "Москва, Тверская 1",
		"isActive": &active,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var settings models.Settings
	require.NoError(t, db.First(&settings).Error)
	assert.False(t, settings.IsActive)

	w = doJSON(t, r, http.MethodGet, "/api/settings/status", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decodeData(t, w)["isOpen"])

	var changes int64
	db.Model(&models.DBChange{}).Where("table_name = ?", "settings").Count(&changes)
	assert.EqualValues(t, 1, changes)
}

func TestStatusReflectsInactiveFlag(t *testing.T) {
	db := setupTestDB(t)
	r := setupSettingsRouter(db)

	w := doJSON(t, r, http.MethodGet, "/api/settings/status", nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Deactivate and re-check: isOpen must be false no matter the clock.
	require.NoError(t, db.Model(&models.Settings{}).
		Where("1 = 1").Update("is_active", false).Error)

	w = doJSON(t, r, http.MethodGet, "/api/settings/status", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, false, data["isOpen"])
	assert.NotEmpty(t, data["message"])
}
