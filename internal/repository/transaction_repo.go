package repository

import (
	"dollarpay/internal/domain"
	"dollarpay/internal/models"

	"gorm.io/gorm"
)

type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) GetByID(id uint) (*models.Transaction, error) {
	var t models.Transaction
	err := r.db.First(&t, id).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TransactionRepository) GetByUID(uid string) (*models.Transaction, error) {
	var t models.Transaction
	err := r.db.Where("transaction_uid = ?", uid).First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TransactionRepository) ListByUserID(userID uint, limit, offset int) ([]models.Transaction, error) {
	var list []models.Transaction
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&list).Error
	return list, err
}

func (r *TransactionRepository) ListPending(limit, offset int) ([]models.Transaction, error) {
	var list []models.Transaction
	err := r.db.Where("status = ?", domain.TxStatusPending).
		Order("created_at ASC").
		Limit(limit).Offset(offset).
		Find(&list).Error
	return list, err
}

func (r *TransactionRepository) ListAll(status string, limit, offset int) ([]models.Transaction, error) {
	q := r.db.Order("created_at DESC").Limit(limit).Offset(offset)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var list []models.Transaction
	err := q.Find(&list).Error
	return list, err
}

// SearchByPhone returns transactions belonging to users whose phone number
// matches the given fragment.
func (r *TransactionRepository) SearchByPhone(phone string, limit, offset int) ([]models.Transaction, error) {
	var list []models.Transaction
	err := r.db.
		Joins("JOIN users ON users.id = transactions.user_id").
		Where("users.phone_number LIKE ?", "%"+phone+"%").
		Order("transactions.created_at DESC").
		Limit(limit).Offset(offset).
		Find(&list).Error
	return list, err
}
