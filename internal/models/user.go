package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type User struct {
	ID               uint    `gorm:"primaryKey" json:"id"`
	PhoneNumber      string  `gorm:"uniqueIndex;size:15;not null" json:"phone_number"`
	PasswordHash     string  `gorm:"size:255;not null" json:"-"`
	ReferralCode     string  `gorm:"uniqueIndex;size:20;not null" json:"referral_code"`
	ReferredByCode   string  `gorm:"size:20" json:"referred_by_code,omitempty"`
	ReferredByUserID *uint   `gorm:"index" json:"referred_by_user_id,omitempty"`
	Name             string  `gorm:"size:100" json:"name,omitempty"`
	Email            string  `gorm:"size:100" json:"email,omitempty"`

	WalletBalance         decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"wallet_balance"`
	TotalDeposited        decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"total_deposited"`
	TotalWithdrawn        decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"total_withdrawn"`
	TotalCommissionEarned decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"total_commission_earned"`
	TotalCryptoSent       decimal.Decimal `gorm:"type:decimal(15,6);not null;default:0" json:"total_crypto_sent"`

	// Payout details; transactions snapshot these at creation time.
	UpiID         string `gorm:"size:100" json:"upi_id,omitempty"`
	UpiHolderName string `gorm:"size:100" json:"upi_holder_name,omitempty"`
	BankName      string `gorm:"size:100" json:"bank_name,omitempty"`
	IsUpiBound    bool   `gorm:"default:false" json:"is_upi_bound"`

	IsActive  bool `gorm:"default:true" json:"is_active"`
	IsBlocked bool `gorm:"default:false" json:"is_blocked"`

	LastLoginAt *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }
