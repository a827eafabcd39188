package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ryadom-food/restaurant-backend/models"
	"github.com/ryadom-food/restaurant-backend/pricing"
	"github.com/ryadom-food/restaurant-backend/utils"
)

const giftItemTitle = "Подарок от ресторана"

var (
	ErrEmptyCart          = errors.New("корзина пуста")
	ErrNameTooShort       = errors.New("укажите имя (минимум 2 символа)")
	ErrBadPhone           = errors.New("укажите телефон в формате +7XXXXXXXXXX")
	ErrAddressRequired    = errors.New("укажите адрес доставки")
	ErrAddressUnresolved  = errors.New("не удалось определить адрес доставки")
	ErrUnknownProduct     = errors.New("товар не найден")
	ErrBadFulfillment     = errors.New("неизвестный способ получения")
	ErrBadIdempotencyKey  = errors.New("некорректный ключ идемпотентности")
	ErrOrderNotFound      = errors.New("заказ не найден")
	ErrIllegalTransition  = errors.New("недопустимый переход статуса")
	ErrCancelNeedsReason  = errors.New("укажите причину отмены")
	ErrUnavailableProduct = errors.New("товар временно недоступен")
)

type OrderItemRequest struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

type CreateOrderRequest struct {
	Name            string             `json:"name"`
	Phone           string             `json:"phone"`
	Comment         string             `json:"comment"`
	CutleryCount    int                `json:"cutlery_count"`
	FulfillmentType string             `json:"fulfillment_type"`
	Address         string             `json:"address"`
	PaymentMethod   string             `json:"payment_method"`
	Items           []OrderItemRequest `json:"items"`
	IdempotencyKey  string             `json:"idempotency_key"`
}

type OrderService struct {
	DB       *gorm.DB
	Delivery *DeliveryService
}

func NewOrderService(db *gorm.DB, delivery *DeliveryService) *OrderService {
	return &OrderService{DB: db, Delivery: delivery}
}

// validate applies the pre-submission rules. Nothing is written until
// every rule passes.
func (s *OrderService) validate(req *CreateOrderRequest) error {
	if len(req.Items) == 0 {
		return ErrEmptyCart
	}
	// Runes, not bytes: "И" is one character.
	if utf8.RuneCountInString(strings.TrimSpace(req.Name)) < 2 {
		return ErrNameTooShort
	}
	phone, ok := utils.NormalizePhone(req.Phone)
	if !ok {
		return ErrBadPhone
	}
	req.Phone = phone

	switch req.FulfillmentType {
	case models.FulfillmentDelivery:
		if strings.TrimSpace(req.Address) == "" {
			return ErrAddressRequired
		}
	case models.FulfillmentPickup:
	default:
		return ErrBadFulfillment
	}

	if req.IdempotencyKey != "" {
		if _, err := uuid.Parse(req.IdempotencyKey); err != nil {
			return ErrBadIdempotencyKey
		}
	}
	return nil
}

// Create validates the draft, prices it from the catalog and persists the
// order. A replayed idempotency key returns the originally created order
// instead of a duplicate.
func (s *OrderService) Create(ctx context.Context, req CreateOrderRequest) (*models.Order, error) {
	if err := s.validate(&req); err != nil {
		return nil, err
	}

	if req.IdempotencyKey != "" {
		var existing models.Order
		err := s.DB.Preload("Items").Where("idempotency_key = ?", req.IdempotencyKey).First(&existing).Error
		if err == nil {
			return &existing, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	// Prices always come from the catalog, never from the client.
	items := make([]models.OrderItem, 0, len(req.Items))
	subtotal := 0
	for _, line := range req.Items {
		if line.Quantity < 1 {
			continue
		}
		var product models.Product
		if err := s.DB.Where("slug = ?", line.ID).First(&product).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: %s", ErrUnknownProduct, line.ID)
			}
			return nil, err
		}
		if !product.IsAvailable {
			return nil, fmt.Errorf("%w: %s", ErrUnavailableProduct, product.Title)
		}
		items = append(items, models.OrderItem{
			ProductID: product.Slug,
			Title:     product.Title,
			Price:     product.Price,
			Quantity:  line.Quantity,
		})
		subtotal += product.Price * line.Quantity
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	deliveryCost := 0
	var distance *float64
	if req.FulfillmentType == models.FulfillmentDelivery {
		result, err := s.Delivery.Calculate(ctx, req.Address)
		if err != nil {
			return nil, err
		}
		if result == nil {
			return nil, ErrAddressUnresolved
		}
		deliveryCost = result.Cost
		distance = &result.Distance
		req.Address = result.Address
	}

	totals := pricing.Calculate(subtotal, pricing.FulfillmentType(req.FulfillmentType), deliveryCost)
	if totals.GiftEligible {
		items = append(items, models.OrderItem{
			ProductID: "gift",
			Title:     giftItemTitle,
			Price:     0,
			Quantity:  1,
			IsGift:    true,
		})
	}

	order := models.Order{
		CustomerName:     strings.TrimSpace(req.Name),
		CustomerPhone:    req.Phone,
		Comment:          req.Comment,
		CutleryCount:     req.CutleryCount,
		FulfillmentType:  req.FulfillmentType,
		Address:          req.Address,
		DeliveryDistance: distance,
		PaymentMethod:    req.PaymentMethod,
		ProductsTotal:    totals.ProductsTotal,
		PickupDiscount:   totals.PickupDiscount,
		DeliveryCost:     totals.DeliveryCost,
		FinalTotal:       totals.FinalTotal,
		GiftIncluded:     totals.GiftEligible,
		Status:           models.StatusPending,
		Items:            items,
	}
	if req.IdempotencyKey != "" {
		key := req.IdempotencyKey
		order.IdempotencyKey = &key
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		number, day, err := s.nextNumber(tx)
		if err != nil {
			return err
		}
		order.Number = number
		order.Day = day
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		return recordChange(tx, "orders", order.ID, "INSERT")
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// nextNumber builds "<series letter>-<daily sequence>" plus the local
// date that scopes it. The sequence restarts every day; uniqueness is on
// (number, day), so yesterday's numbers are reissued safely. Past 9999
// the sequence grows a fifth digit instead of wrapping into a collision.
func (s *OrderService) nextNumber(tx *gorm.DB) (string, string, error) {
	var settings models.Settings
	series := "А"
	if err := tx.First(&settings).Error; err == nil && settings.OrderSeries != "" {
		series = settings.OrderSeries
	}

	day := time.Now().Format("2006-01-02")
	var count int64
	if err := tx.Model(&models.Order{}).Where("day = ?", day).Count(&count).Error; err != nil {
		return "", "", err
	}
	return fmt.Sprintf("%s-%d", series, count+1), day, nil
}

// ChangeStatus applies an operator transition. Legality is enforced here:
// the flow is strictly forward, cancellation needs a reason, terminal
// orders are immutable.
func (s *OrderService) ChangeStatus(orderID uint, to, changedBy, reason string) (*models.Order, error) {
	if !models.IsValidStatus(to) {
		return nil, ErrIllegalTransition
	}

	var order models.Order
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if !order.CanTransition(to) {
			return ErrIllegalTransition
		}

		var reasonPtr *string
		if to == models.StatusCancelled {
			if strings.TrimSpace(reason) == "" {
				return ErrCancelNeedsReason
			}
			r := strings.TrimSpace(reason)
			reasonPtr = &r
			order.CancelReason = reasonPtr
		}

		now := time.Now()
		log := models.OrderStatusLog{
			OrderID:    order.ID,
			FromStatus: order.Status,
			ToStatus:   to,
			ChangedBy:  changedBy,
			Reason:     reasonPtr,
			CreatedAt:  now,
		}

		switch to {
		case models.StatusConfirmed:
			order.ConfirmedAt = &now
		case models.StatusCompleted, models.StatusCancelled:
			order.CompletedAt = &now
		}
		order.Status = to

		if err := tx.Save(&order).Error; err != nil {
			return err
		}
		if err := tx.Create(&log).Error; err != nil {
			return err
		}
		return recordChange(tx, "orders", order.ID, "UPDATE")
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Operator dashboard views.
const (
	ViewQueue     = "queue"
	ViewPickup    = "pickup"
	ViewDelivery  = "delivery"
	ViewCompleted = "completed"
)

// ListOperator returns one dashboard bucket, sorted by status priority
// and then FIFO by creation time.
func (s *OrderService) ListOperator(view string) ([]models.Order, error) {
	q := s.DB.Preload("Items")
	switch view {
	case ViewQueue, "":
		q = q.Where("status NOT IN ?", []string{models.StatusCompleted, models.StatusCancelled})
	case ViewPickup:
		q = q.Where("fulfillment_type = ? AND status NOT IN ?",
			models.FulfillmentPickup, []string{models.StatusCompleted, models.StatusCancelled})
	case ViewDelivery:
		q = q.Where("fulfillment_type = ? AND status NOT IN ?",
			models.FulfillmentDelivery, []string{models.StatusCompleted, models.StatusCancelled})
	case ViewCompleted:
		q = q.Where("status IN ?", []string{models.StatusCompleted, models.StatusCancelled})
	default:
		return nil, fmt.Errorf("unknown view %q", view)
	}

	var orders []models.Order
	if err := q.Find(&orders).Error; err != nil {
		return nil, err
	}
	SortForDashboard(orders)
	return orders, nil
}

// SortForDashboard orders by status priority, oldest first within the
// same priority.
func SortForDashboard(orders []models.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		pi, pj := models.StatusPriority(orders[i].Status), models.StatusPriority(orders[j].Status)
		if pi != pj {
			return pi < pj
		}
		return orders[i].CreatedAt.Before(orders[j].CreatedAt)
	})
}

// Track finds orders by order number ("а123" and "А-123" both work) or by
// customer phone.
func (s *OrderService) Track(query string) ([]models.Order, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	var orders []models.Order
	normalized := utils.FormatOrderNumberQuery(query)
	if utils.IsOrderNumber(normalized) {
		// The same number recurs across days; newest first.
		err := s.DB.Preload("Items").Preload("StatusLogs").
			Where("number = ?", strings.ToUpper(normalized)).
			Order("created_at DESC").Find(&orders).Error
		return orders, err
	}

	if phone, ok := utils.NormalizePhone(query); ok {
		err := s.DB.Preload("Items").Preload("StatusLogs").
			Where("customer_phone = ?", phone).Order("created_at DESC").Find(&orders).Error
		return orders, err
	}

	err := s.DB.Preload("Items").Preload("StatusLogs").
		Where("customer_name LIKE ?", "%"+query+"%").Order("created_at DESC").Find(&orders).Error
	return orders, err
}

// Get loads one order with its items and history.
func (s *OrderService) Get(orderID uint) (*models.Order, error) {
	var order models.Order
	err := s.DB.Preload("Items").Preload("StatusLogs").First(&order, orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Delete removes an order entirely (operator cleanup of test/junk orders).
func (s *OrderService) Delete(orderID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", orderID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("order_id = ?", orderID).Delete(&models.OrderStatusLog{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Order{}, orderID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrOrderNotFound
		}
		return recordChange(tx, "orders", orderID, "DELETE")
	})
}

// Stats counts orders per status for the dashboard header.
func (s *OrderService) Stats() (map[string]int64, error) {
	type row struct {
		Status string
		Total  int64
	}
	var rows []row
	if err := s.DB.Model(&models.Order{}).
		Select("status, count(*) as total").Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}
	stats := make(map[string]int64, len(rows))
	for _, r := range rows {
		stats[r.Status] = r.Total
	}
	return stats, nil
}

// recordChange appends to the feed consumed by the event monitor.
func recordChange(tx *gorm.DB, table string, recordID uint, action string) error {
	return tx.Create(&models.DBChange{
		TableName:  table,
		RecordID:   recordID,
		ActionType: action,
		ChangedAt:  time.Now(),
	}).Error
}
