package models

import "time"

// DBChange is the change feed consumed by the event monitor. Services
// append a row on every mutation worth pushing to operator clients.
type DBChange struct {
	ID         uint      `gorm:"primaryKey"`
	TableName  string    `gorm:"type:varchar(50);not null"`
	RecordID   uint      `gorm:"not null"`
	ActionType string    `gorm:"type:varchar(20);not null"`
	ChangedAt  time.Time `gorm:"not null"`
	Processed  bool      `gorm:"not null;default:false;index"`
}
