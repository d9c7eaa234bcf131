package repository

import (
	"database/sql"

	"dollarpay/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CommissionRepository struct {
	db *gorm.DB
}

func NewCommissionRepository(db *gorm.DB) *CommissionRepository {
	return &CommissionRepository{db: db}
}

func (r *CommissionRepository) ListByReferrer(referrerID uint, limit, offset int) ([]models.Commission, error) {
	var list []models.Commission
	err := r.db.Where("referrer_user_id = ?", referrerID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&list).Error
	return list, err
}

// SumCreditedByReferrer returns the total credited commission amount for a user.
func (r *CommissionRepository) SumCreditedByReferrer(referrerID uint) (decimal.Decimal, error) {
	var raw sql.NullString
	err := r.db.Model(&models.Commission{}).
		Where("referrer_user_id = ? AND status = 'credited'", referrerID).
		Select("SUM(commission_amount)").
		Row().Scan(&raw)
	if err != nil || !raw.Valid {
		return decimal.Zero, err
	}
	return decimal.NewFromString(raw.String)
}

func (r *CommissionRepository) ListByTransaction(transactionID uint) ([]models.Commission, error) {
	var list []models.Commission
	err := r.db.Where("transaction_id = ?", transactionID).
		Order("level ASC").
		Find(&list).Error
	return list, err
}
