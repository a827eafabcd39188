package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ryadom-food/restaurant-backend/services"
	"github.com/ryadom-food/restaurant-backend/utils"
)

// OrderController handles the customer-facing order endpoints.
type OrderController struct {
	Orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{Orders: orders}
}

// CreateOrder validates and submits an order draft. Validation failures
// are 422 so the client shows them inline; nothing is persisted on
// failure and the draft stays retryable.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var req services.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Orders.Create(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyCart),
			errors.Is(err, services.ErrNameTooShort),
			errors.Is(err, services.ErrBadPhone),
			errors.Is(err, services.ErrAddressRequired),
			errors.Is(err, services.ErrBadFulfillment),
			errors.Is(err, services.ErrBadIdempotencyKey),
			errors.Is(err, services.ErrUnknownProduct),
			errors.Is(err, services.ErrUnavailableProduct):
			utils.RespondError(c, http.StatusUnprocessableEntity, err)
		case errors.Is(err, services.ErrAddressUnresolved):
			utils.RespondError(c, http.StatusNotFound, err)
		default:
			utils.RespondError(c, http.StatusInternalServerError, err)
		}
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Order created", order)
}

// TrackOrder searches by order number or phone.
func (oc *OrderController) TrackOrder(c *gin.Context) {
	var req struct {
		Query string `json:"query" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	orders, err := oc.Orders.Track(req.Query)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Orders", orders)
}

// GetProfileOrder returns one order for the tracking page.
func (oc *OrderController) GetProfileOrder(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid order id"))
		return
	}

	order, err := oc.Orders.Get(uint(id))
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			utils.RespondError(c, http.StatusNotFound, err)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order", order)
}
