package database

import (
	"errors"
	"log"
	"os"

	"dollarpay/internal/domain"
	"dollarpay/internal/models"
	"dollarpay/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultSettings are inserted on first boot. Admins change them at
// runtime; the settings service never falls back to these at read time.
func DefaultSettings() []models.PlatformSetting {
	return []models.PlatformSetting{
		{SettingKey: domain.SettingUsdtToInrRate, SettingValue: "98.94", DataType: "number", Description: "Current USDT to INR exchange rate"},
		{SettingKey: domain.SettingPlatformFeePercent, SettingValue: "2", DataType: "number", Description: "Platform fee percentage on deposits"},
		{SettingKey: domain.SettingBonusPercent, SettingValue: "2", DataType: "number", Description: "Bonus percentage on deposits"},
		{SettingKey: domain.SettingInrBonusRatio, SettingValue: "4", DataType: "number", Description: "INR deposit bonus ratio"},
		{SettingKey: domain.SettingCommissionPercent, SettingValue: "1", DataType: "number", Description: "Referral commission percentage per level"},
		{SettingKey: domain.SettingCommissionLevels, SettingValue: "3", DataType: "number", Description: "Referral levels that earn commission"},
		{SettingKey: domain.SettingMinDepositUsdt, SettingValue: "10", DataType: "number", Description: "Minimum deposit amount in USDT"},
		{SettingKey: domain.SettingMaxDepositUsdt, SettingValue: "10000", DataType: "number", Description: "Maximum deposit amount in USDT"},
		{SettingKey: domain.SettingMinWithdrawalInr, SettingValue: "500", DataType: "number", Description: "Minimum withdrawal amount in INR"},
		{SettingKey: domain.SettingMaxWithdrawalInr, SettingValue: "500000", DataType: "number", Description: "Maximum withdrawal amount in INR"},
		{SettingKey: domain.SettingMaxReferralDepth, SettingValue: "20", DataType: "number", Description: "Maximum ancestor depth recorded per registration"},
		{SettingKey: domain.SettingTelegramSupportURL, SettingValue: "https://t.me/dollarpay_support", DataType: "string", Description: "Telegram support link"},
		{SettingKey: domain.SettingTrc20WalletAddress, SettingValue: "", DataType: "string", Description: "TRC-20 USDT deposit address"},
		{SettingKey: domain.SettingErc20WalletAddress, SettingValue: "", DataType: "string", Description: "ERC-20 USDT deposit address"},
	}
}

// SeedSettings inserts missing default platform settings.
func SeedSettings(db *gorm.DB) {
	if err := repository.NewSettingRepository(db).SeedDefaults(DefaultSettings()); err != nil {
		log.Printf("[seed] settings: %v", err)
	}
}

// SeedAdmin creates the initial admin account if none exists. Credentials
// come from ADMIN_USERNAME / ADMIN_PASSWORD.
func SeedAdmin(db *gorm.DB) {
	username := os.Getenv("ADMIN_USERNAME")
	password := os.Getenv("ADMIN_PASSWORD")
	if username == "" || password == "" {
		return
	}
	var existing models.Admin
	err := db.Where("username = ?", username).First(&existing).Error
	if err == nil {
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("[seed] admin lookup: %v", err)
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("[seed] admin hash: %v", err)
		return
	}
	admin := &models.Admin{
		Username:     username,
		Email:        os.Getenv("ADMIN_EMAIL"),
		PasswordHash: string(hash),
		Role:         "super_admin",
	}
	if err := db.Create(admin).Error; err != nil {
		log.Printf("[seed] admin create: %v", err)
		return
	}
	log.Printf("[seed] created admin %q", username)
}
