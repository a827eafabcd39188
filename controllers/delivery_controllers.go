package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ryadom-food/restaurant-backend/services"
	"github.com/ryadom-food/restaurant-backend/utils"
)

type DeliveryController struct {
	Delivery *services.DeliveryService
}

func NewDeliveryController(delivery *services.DeliveryService) *DeliveryController {
	return &DeliveryController{Delivery: delivery}
}

type addressRequest struct {
	Query   string `json:"query"`
	Address string `json:"address"`
}

func (dc *DeliveryController) Suggestions(c *gin.Context) {
	var req addressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Query == "" {
		req.Query = req.Address
	}

	suggestions, err := dc.Delivery.Geocoder.Suggest(c.Request.Context(), req.Query)
	if err != nil {
		utils.RespondError(c, http.StatusBadGateway, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Suggestions", suggestions)
}

// Calculate returns the delivery cost for an address. An unresolvable
// address is a 404, not a zero-cost success: the client must keep its
// previous delivery state.
func (dc *DeliveryController) Calculate(c *gin.Context) {
	var req addressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Address == "" {
		req.Address = req.Query
	}

	result, err := dc.Delivery.Calculate(c.Request.Context(), req.Address)
	if err != nil {
		utils.RespondError(c, http.StatusBadGateway, err)
		return
	}
	if result == nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("адрес не найден"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Delivery cost", result)
}

// Restaurant exposes the restaurant point and free radius for the map.
func (dc *DeliveryController) Restaurant(c *gin.Context) {
	settings, radius, err := dc.Delivery.RestaurantPoint()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Restaurant", gin.H{
		"name":           settings.Name,
		"address":        settings.Address,
		"coordinates":    gin.H{"lat": settings.Latitude, "lng": settings.Longitude},
		"free_radius_km": radius,
	})
}
