package models

import "time"

// Order statuses. Transitions move strictly forward; cancelled is
// reachable from any non-terminal state.
const (
	StatusPending    = "pending"
	StatusConfirmed  = "confirmed"
	StatusPreparing  = "preparing"
	StatusReady      = "ready"
	StatusInDelivery = "in_delivery"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

const (
	FulfillmentDelivery = "delivery"
	FulfillmentPickup   = "pickup"
)

// statusPriority ranks statuses for the operator dashboard, most urgent
// first. Lower value sorts earlier.
var statusPriority = map[string]int{
	StatusInDelivery: 0,
	StatusReady:      1,
	StatusPreparing:  2,
	StatusConfirmed:  3,
	StatusPending:    4,
	StatusCompleted:  5,
	StatusCancelled:  6,
}

func StatusPriority(status string) int {
	if p, ok := statusPriority[status]; ok {
		return p
	}
	return len(statusPriority)
}

func IsValidStatus(status string) bool {
	_, ok := statusPriority[status]
	return ok
}

func IsTerminalStatus(status string) bool {
	return status == StatusCompleted || status == StatusCancelled
}

type Order struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Number string `gorm:"type:varchar(10);not null;uniqueIndex:idx_order_number_day" json:"order_number"`
	// Day (local date) scopes the daily number sequence: numbers repeat
	// across days but never within one.
	Day            string  `gorm:"type:varchar(10);not null;uniqueIndex:idx_order_number_day" json:"-"`
	IdempotencyKey *string `gorm:"type:varchar(64);uniqueIndex" json:"-"`

	CustomerName  string `gorm:"type:varchar(100);not null" json:"customer_name"`
	CustomerPhone string `gorm:"type:varchar(20);index;not null" json:"customer_phone"`
	Comment       string `gorm:"type:text" json:"comment"`
	CutleryCount  int    `gorm:"not null;default:0" json:"cutlery_count"`

	FulfillmentType  string   `gorm:"type:varchar(10);not null" json:"fulfillment_type"`
	Address          string   `gorm:"type:varchar(255)" json:"address,omitempty"`
	DeliveryDistance *float64 `json:"delivery_distance,omitempty"`
	PaymentMethod    string   `gorm:"type:varchar(20);not null" json:"payment_method"`

	ProductsTotal  int  `gorm:"not null" json:"products_total"`
	PickupDiscount int  `gorm:"not null;default:0" json:"pickup_discount"`
	DeliveryCost   int  `gorm:"not null;default:0" json:"delivery_cost"`
	FinalTotal     int  `gorm:"not null" json:"final_total"`
	GiftIncluded   bool `gorm:"not null;default:false" json:"gift_included"`

	Status       string     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CancelReason *string    `gorm:"type:text" json:"cancel_reason,omitempty"`
	ConfirmedAt  *time.Time `json:"confirmed_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`

	Items      []OrderItem      `gorm:"foreignKey:OrderID" json:"items"`
	StatusLogs []OrderStatusLog `gorm:"foreignKey:OrderID" json:"status_history,omitempty"`
}

// CanTransition reports whether the operator may move the order to the
// target status. in_delivery exists only for delivery orders; pickup
// orders jump from ready straight to completed.
func (o *Order) CanTransition(to string) bool {
	if IsTerminalStatus(o.Status) {
		return false
	}
	if to == StatusCancelled {
		return true
	}
	switch o.Status {
	case StatusPending:
		return to == StatusConfirmed
	case StatusConfirmed:
		return to == StatusPreparing
	case StatusPreparing:
		return to == StatusReady
	case StatusReady:
		if o.FulfillmentType == FulfillmentDelivery {
			return to == StatusInDelivery
		}
		return to == StatusCompleted
	case StatusInDelivery:
		return to == StatusCompleted
	}
	return false
}

// Elapsed is the wall-clock duration shown on operator cards: time since
// confirmation, frozen at completion for terminal orders. Zero before
// the order is confirmed.
func (o *Order) Elapsed(now time.Time) time.Duration {
	if o.ConfirmedAt == nil {
		return 0
	}
	end := now
	if IsTerminalStatus(o.Status) {
		if o.CompletedAt == nil {
			return 0
		}
		end = *o.CompletedAt
	}
	if end.Before(*o.ConfirmedAt) {
		return 0
	}
	return end.Sub(*o.ConfirmedAt)
}

type OrderItem struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	OrderID   uint   `gorm:"index;not null" json:"-"`
	ProductID string `gorm:"type:varchar(255);not null" json:"product_id"`
	Title     string `gorm:"type:varchar(255);not null" json:"title"`
	Price     int    `gorm:"not null" json:"price"`
	Quantity  int    `gorm:"not null" json:"quantity"`
	IsGift    bool   `gorm:"not null;default:false" json:"is_gift"`
}

type OrderStatusLog struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	OrderID    uint      `gorm:"index;not null" json:"-"`
	FromStatus string    `gorm:"type:varchar(20);not null" json:"from"`
	ToStatus   string    `gorm:"type:varchar(20);not null" json:"to"`
	ChangedBy  string    `gorm:"type:varchar(100)" json:"changed_by"`
	Reason     *string   `gorm:"type:text" json:"reason,omitempty"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
}
