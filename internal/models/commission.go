package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Commission is one referral level's share of a settled transaction.
type Commission struct {
	ID             uint `gorm:"primaryKey" json:"id"`
	ReferrerUserID uint `gorm:"not null;index" json:"referrer_user_id"`
	ReferredUserID uint `gorm:"not null;index" json:"referred_user_id"`
	TransactionID  uint `gorm:"not null;index" json:"transaction_id"`
	Level          int  `gorm:"not null;default:1" json:"level"`

	CommissionPercent decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"commission_percent"`
	BaseAmount        decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"base_amount"`
	CommissionAmount  decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"commission_amount"`

	Status     string     `gorm:"size:20;not null;default:'pending'" json:"status"` // pending, credited, cancelled
	CreditedAt *time.Time `json:"credited_at,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Referrer    User        `gorm:"foreignKey:ReferrerUserID" json:"-"`
	Referred    User        `gorm:"foreignKey:ReferredUserID" json:"-"`
	Transaction Transaction `gorm:"foreignKey:TransactionID" json:"-"`
}

func (Commission) TableName() string { return "commissions" }
