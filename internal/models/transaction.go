package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transaction is the ledger event record. Monetary invariant at creation:
// net_inr_amount = gross_inr_amount - platform_fee_amount + bonus_amount.
// Once status leaves pending the row is terminal; only the review
// operation mutates it.
type Transaction struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	TransactionUID string `gorm:"uniqueIndex;size:50;not null" json:"transaction_uid"`
	UserID         uint   `gorm:"not null;index" json:"user_id"`
	Type           string `gorm:"size:20;not null;index" json:"type"`
	Status         string `gorm:"size:20;not null;index;default:'pending'" json:"status"`

	CryptoNetwork       string          `gorm:"size:20" json:"crypto_network,omitempty"`
	CryptoWalletAddress string          `gorm:"size:100" json:"crypto_wallet_address,omitempty"`
	CryptoAmount        decimal.Decimal `gorm:"type:decimal(15,6);default:0" json:"crypto_amount"`
	CryptoTxHash        string          `gorm:"size:100" json:"crypto_tx_hash,omitempty"`
	RemainingCrypto     decimal.Decimal `gorm:"type:decimal(15,6);default:0" json:"remaining_crypto"`

	ScreenshotURL string `gorm:"size:500" json:"screenshot_url,omitempty"`
	UserNotes     string `gorm:"type:text" json:"user_notes,omitempty"`

	ExchangeRate       decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"exchange_rate"`
	PlatformFeePercent decimal.Decimal `gorm:"type:decimal(5,2);default:0" json:"platform_fee_percent"`
	PlatformFeeAmount  decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"platform_fee_amount"`
	BonusPercent       decimal.Decimal `gorm:"type:decimal(5,2);default:0" json:"bonus_percent"`
	BonusAmount        decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"bonus_amount"`
	GrossInrAmount     decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"gross_inr_amount"`
	NetInrAmount       decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"net_inr_amount"`

	// Snapshot of the user's payout details at creation time.
	UserUpiID    string `gorm:"size:100" json:"user_upi_id,omitempty"`
	UserBankName string `gorm:"size:100" json:"user_bank_name,omitempty"`

	AdminID         *uint      `gorm:"index" json:"admin_id,omitempty"`
	AdminReviewedAt *time.Time `json:"admin_reviewed_at,omitempty"`
	AdminNotes      string     `gorm:"type:text" json:"admin_notes,omitempty"`
	RejectionReason string     `gorm:"type:text" json:"rejection_reason,omitempty"`

	PaymentReference   string     `gorm:"size:100" json:"payment_reference,omitempty"`
	PaymentCompletedAt *time.Time `json:"payment_completed_at,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	User  User   `gorm:"foreignKey:UserID" json:"-"`
	Admin *Admin `gorm:"foreignKey:AdminID" json:"-"`
}

func (Transaction) TableName() string { return "transactions" }
