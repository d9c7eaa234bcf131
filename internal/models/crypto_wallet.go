package models

import "time"

// CryptoWallet is a platform deposit address for one network.
type CryptoWallet struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	NetworkType      string    `gorm:"size:20;not null" json:"network_type"` // TRC20, ERC20
	WalletAddress    string    `gorm:"uniqueIndex;size:100;not null" json:"wallet_address"`
	Currency         string    `gorm:"size:10;default:'USDT'" json:"currency"`
	IsActive         bool      `gorm:"default:true" json:"is_active"`
	AssignedToUserID *uint     `gorm:"index" json:"assigned_to_user_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (CryptoWallet) TableName() string { return "crypto_wallets" }
