package models

import (
	"time"

	"gorm.io/gorm"
)

type Notification struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	UserID        *uint          `gorm:"index" json:"user_id,omitempty"` // nil for admin-wide notifications
	TransactionID *uint          `gorm:"index" json:"transaction_id,omitempty"`
	Type          string         `gorm:"size:50;not null;index" json:"type"`
	Title         string         `gorm:"size:255" json:"title"`
	Message       string         `gorm:"type:text" json:"message"`
	Data          string         `gorm:"type:text" json:"data,omitempty"` // JSON payload
	ReadAt        *time.Time     `json:"read_at,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Notification) TableName() string { return "notifications" }
