package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/ryadom-food/restaurant-backend/schedule"
)

// OpeningHours is the weekly table stored as a JSON column. Keys follow
// the public API shape (monday..sunday).
type OpeningHours struct {
	Monday    schedule.Day `json:"monday"`
	Tuesday   schedule.Day `json:"tuesday"`
	Wednesday schedule.Day `json:"wednesday"`
	Thursday  schedule.Day `json:"thursday"`
	Friday    schedule.Day `json:"friday"`
	Saturday  schedule.Day `json:"saturday"`
	Sunday    schedule.Day `json:"sunday"`
}

// Week reorders the table into the resolver's Sunday-first layout.
func (h OpeningHours) Week() schedule.Week {
	return schedule.Week{
		time.Sunday:    h.Sunday,
		time.Monday:    h.Monday,
		time.Tuesday:   h.Tuesday,
		time.Wednesday: h.Wednesday,
		time.Thursday:  h.Thursday,
		time.Friday:    h.Friday,
		time.Saturday:  h.Saturday,
	}
}

func (h OpeningHours) Value() (driver.Value, error) {
	return json.Marshal(h)
}

func (h *OpeningHours) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, h)
	case string:
		return json.Unmarshal([]byte(v), h)
	default:
		return errors.New("unsupported opening_hours column type")
	}
}

// Settings is the single restaurant configuration row.
type Settings struct {
	ID           uint         `gorm:"primaryKey" json:"-"`
	Name         string       `gorm:"type:varchar(255);not null" json:"name"`
	Address      string       `gorm:"type:varchar(255);not null" json:"address"`
	Phone        string       `gorm:"type:varchar(20)" json:"phone"`
	Latitude     float64      `gorm:"not null;default:0" json:"lat"`
	Longitude    float64      `gorm:"not null;default:0" json:"lng"`
	OpeningHours OpeningHours `gorm:"type:json" json:"openingHours"`
	// IsActive=false forces the closed status no matter the schedule.
	// No default tag: a false on the first insert must reach the column.
	IsActive bool `gorm:"not null" json:"isActive"`
	// OrderSeries is the letter prefix of generated order numbers.
	OrderSeries string    `gorm:"type:varchar(4);not null;default:'А'" json:"order_series"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}
