package models

import "time"

type Product struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	Slug        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"id"`
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Price       int       `gorm:"not null" json:"price"`
	Category    string    `gorm:"type:varchar(100);index;not null" json:"category"`
	ImageURL    string    `gorm:"type:varchar(255)" json:"image,omitempty"`
	// No default tag: gorm must write false, not fall back to a column
	// default.
	IsAvailable bool      `gorm:"not null" json:"is_available"`
	IsFeatured  bool      `gorm:"not null;default:false" json:"is_featured"`
	SortOrder   int       `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}
