package models

import "time"

type HeroSlide struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Title      string    `gorm:"type:varchar(255);not null" json:"title"`
	Subtitle   string    `gorm:"type:varchar(255)" json:"subtitle"`
	ImageURL   string    `gorm:"type:varchar(255);not null" json:"image"`
	ButtonText string    `gorm:"type:varchar(100)" json:"button_text"`
	ButtonLink string    `gorm:"type:varchar(255)" json:"button_link"`
	IsActive   bool      `gorm:"not null" json:"is_active"`
	SortOrder  int       `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}
