package repository

import (
	"dollarpay/internal/models"

	"gorm.io/gorm"
)

type CryptoWalletRepository struct {
	db *gorm.DB
}

func NewCryptoWalletRepository(db *gorm.DB) *CryptoWalletRepository {
	return &CryptoWalletRepository{db: db}
}

func (r *CryptoWalletRepository) ListActive() ([]models.CryptoWallet, error) {
	var list []models.CryptoWallet
	err := r.db.Where("is_active = ?", true).Order("network_type ASC").Find(&list).Error
	return list, err
}

func (r *CryptoWalletRepository) GetActiveByNetwork(network string) (*models.CryptoWallet, error) {
	var w models.CryptoWallet
	err := r.db.Where("network_type = ? AND is_active = ?", network, true).First(&w).Error
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *CryptoWalletRepository) Create(w *models.CryptoWallet) error {
	return r.db.Create(w).Error
}

func (r *CryptoWalletRepository) Update(w *models.CryptoWallet) error {
	return r.db.Save(w).Error
}
