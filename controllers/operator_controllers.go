package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/ryadom-food/restaurant-backend/events"
	"github.com/ryadom-food/restaurant-backend/models"
	"github.com/ryadom-food/restaurant-backend/services"
	"github.com/ryadom-food/restaurant-backend/utils"
)

// OperatorController serves the back-office order pipeline.
type OperatorController struct {
	Orders *services.OrderService
	Hub    *events.Hub
}

func NewOperatorController(orders *services.OrderService, hub *events.Hub) *OperatorController {
	return &OperatorController{Orders: orders, Hub: hub}
}

// orderView decorates an order with the elapsed time shown on cards.
type orderView struct {
	models.Order
	ElapsedSeconds int64 `json:"elapsed_seconds"`
}

func toViews(orders []models.Order, now time.Time) []orderView {
	views := make([]orderView, len(orders))
	for i, o := range orders {
		views[i] = orderView{Order: o, ElapsedSeconds: int64(o.Elapsed(now).Seconds())}
	}
	return views
}

// ListOrders returns one dashboard bucket (queue by default).
func (opc *OperatorController) ListOrders(c *gin.Context) {
	orders, err := opc.Orders.ListOperator(c.DefaultQuery("view", services.ViewQueue))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Orders", toViews(orders, time.Now()))
}

func (opc *OperatorController) GetOrder(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid order id"))
		return
	}

	order, err := opc.Orders.Get(uint(id))
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			utils.RespondError(c, http.StatusNotFound, err)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	view := orderView{Order: *order, ElapsedSeconds: int64(order.Elapsed(time.Now()).Seconds())}
	utils.RespondJSON(c, http.StatusOK, "Order", view)
}

// ChangeStatus applies one operator transition. Illegal transitions are
// 422; cancellation requires a reason.
func (opc *OperatorController) ChangeStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid order id"))
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	changedBy := "operator"
	if name, ok := c.Get("userID"); ok {
		changedBy = "operator:" + strconv.Itoa(int(name.(uint)))
	}

	order, err := opc.Orders.ChangeStatus(uint(id), req.Status, changedBy, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrOrderNotFound):
			utils.RespondError(c, http.StatusNotFound, err)
		case errors.Is(err, services.ErrIllegalTransition), errors.Is(err, services.ErrCancelNeedsReason):
			utils.RespondError(c, http.StatusUnprocessableEntity, err)
		default:
			utils.RespondError(c, http.StatusInternalServerError, err)
		}
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Status updated", order)
}

func (opc *OperatorController) DeleteOrder(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid order id"))
		return
	}

	if err := opc.Orders.Delete(uint(id)); err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			utils.RespondError(c, http.StatusNotFound, err)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order deleted", nil)
}

func (opc *OperatorController) GetStats(c *gin.Context) {
	stats, err := opc.Orders.Stats()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order stats", stats)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Events upgrades to websocket and streams order events until the client
// disconnects. Auth ran in middleware (token query param on handshake).
func (opc *OperatorController) Events(c *gin.Context) {
	role, _ := c.Get("role")
	roleStr, _ := role.(string)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.Errorf("events: upgrade failed: %v", err)
		return
	}

	opc.Hub.Register(conn, roleStr)
	go func() {
		defer opc.Hub.Unregister(conn)
		for {
			// Drain control/ping frames; the feed is one-way.
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
