package service

import (
	"encoding/json"
	"log"

	"dollarpay/internal/domain"
	"dollarpay/internal/models"
	"dollarpay/internal/repository"
	"dollarpay/internal/ws"

	"github.com/shopspring/decimal"
)

// NotificationService persists notification rows and pushes events to
// connected admin sockets. All of it is best-effort: a notification
// failure must never fail the ledger operation that produced it.
type NotificationService struct {
	repo *repository.NotificationRepository
	hub  *ws.Hub // may be nil (e.g. in tests)
}

func NewNotificationService(repo *repository.NotificationRepository, hub *ws.Hub) *NotificationService {
	return &NotificationService{repo: repo, hub: hub}
}

// NewTransactionEvent is the payload broadcast to admins when a user
// creates a deposit, withdrawal or payout request.
type NewTransactionEvent struct {
	Type            string          `json:"type"`
	TransactionID   uint            `json:"transaction_id"`
	TransactionUID  string          `json:"transaction_uid"`
	UserID          uint            `json:"user_id"`
	TransactionType string          `json:"transaction_type"`
	Amount          decimal.Decimal `json:"amount"`
	Network         string          `json:"network,omitempty"`
	Message         string          `json:"message"`
}

// NotifyNewTransaction records an admin-wide notification and broadcasts
// it to the admin hub.
func (s *NotificationService) NotifyNewTransaction(t *models.Transaction, amount decimal.Decimal, message string) {
	event := NewTransactionEvent{
		Type:            domain.NotifTypeNewTransaction,
		TransactionID:   t.ID,
		TransactionUID:  t.TransactionUID,
		UserID:          t.UserID,
		TransactionType: t.Type,
		Amount:          amount,
		Network:         t.CryptoNetwork,
		Message:         message,
	}
	data, _ := json.Marshal(event)
	txID := t.ID
	if err := s.repo.Create(&models.Notification{
		TransactionID: &txID,
		Type:          domain.NotifTypeNewTransaction,
		Title:         "New transaction",
		Message:       message,
		Data:          string(data),
	}); err != nil {
		log.Printf("[notify] failed to record new_transaction for %s: %v", t.TransactionUID, err)
	}
	if s.hub != nil {
		s.hub.BroadcastAdmins(data)
	}
}

// NotifyReviewed records a user-facing notification after an admin review.
func (s *NotificationService) NotifyReviewed(t *models.Transaction, message string) {
	userID := t.UserID
	txID := t.ID
	if err := s.repo.Create(&models.Notification{
		UserID:        &userID,
		TransactionID: &txID,
		Type:          domain.NotifTypeTransactionReviewed,
		Title:         "Transaction " + t.Status,
		Message:       message,
	}); err != nil {
		log.Printf("[notify] failed to record review notice for %s: %v", t.TransactionUID, err)
	}
}
