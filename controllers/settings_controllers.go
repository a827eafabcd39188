package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ryadom-food/restaurant-backend/models"
	"github.com/ryadom-food/restaurant-backend/schedule"
	"github.com/ryadom-food/restaurant-backend/utils"
)

type SettingsController struct {
	DB *gorm.DB
}

func NewSettingsController(db *gorm.DB) *SettingsController {
	return &SettingsController{DB: db}
}

func (sc *SettingsController) GetSettings(c *gin.Context) {
	var settings models.Settings
	if err := sc.DB.First(&settings).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Settings", settings)
}

type settingsRequest struct {
	Name         string              `json:"name" binding:"required"`
	Address      string              `json:"address" binding:"required"`
	Phone        string              `json:"phone"`
	Lat          float64             `json:"lat"`
	Lng          float64             `json:"lng"`
	OpeningHours models.OpeningHours `json:"openingHours"`
	IsActive     *bool               `json:"isActive" binding:"required"`
	OrderSeries  string              `json:"order_series"`
}

func (sc *SettingsController) UpdateSettings(c *gin.Context) {
	var req settingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var settings models.Settings
	if err := sc.DB.First(&settings).Error; err != nil {
		// First write creates the singleton row.
		settings = models.Settings{}
	}

	settings.Name = req.Name
	settings.Address = req.Address
	settings.Phone = req.Phone
	settings.Latitude = req.Lat
	settings.Longitude = req.Lng
	settings.OpeningHours = req.OpeningHours
	settings.IsActive = *req.IsActive
	if req.OrderSeries != "" {
		settings.OrderSeries = req.OrderSeries
	}

	if err := sc.DB.Save(&settings).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	if err := sc.DB.Create(&models.DBChange{
		TableName:  "settings",
		RecordID:   settings.ID,
		ActionType: "UPDATE",
		ChangedAt:  time.Now(),
	}).Error; err != nil {
		utils.ErrorLogger.Errorf("settings: change feed write failed: %v", err)
	}
	utils.RespondJSON(c, http.StatusOK, "Settings updated", settings)
}

// GetStatus resolves the current open/closed state. Clients poll this
// every 60 seconds; time is the only input besides settings, so there is
// nothing to cache.
func (sc *SettingsController) GetStatus(c *gin.Context) {
	var settings models.Settings
	if err := sc.DB.First(&settings).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	status := schedule.Resolve(settings.OpeningHours.Week(), settings.IsActive, time.Now())
	utils.RespondJSON(c, http.StatusOK, "Restaurant status", status)
}
