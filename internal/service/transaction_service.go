package service

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"dollarpay/internal/domain"
	"dollarpay/internal/models"
	"dollarpay/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrPayoutDetailsMissing = errors.New("UPI details not bound")
	ErrInsufficientBalance  = errors.New("insufficient wallet balance")
	ErrAlreadyReviewed      = errors.New("transaction already reviewed")
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrInvalidNetwork       = errors.New("unsupported crypto network")
	ErrInvalidReviewStatus  = errors.New("review status must be approved or rejected")
	ErrUIDExhausted         = errors.New("could not allocate a unique transaction uid")
)

// AmountRangeError reports an amount outside the configured limits.
type AmountRangeError struct {
	Amount decimal.Decimal
	Min    decimal.Decimal
	Max    decimal.Decimal
	Unit   string
}

func (e *AmountRangeError) Error() string {
	return fmt.Sprintf("amount %s %s outside allowed range %s-%s %s",
		e.Amount, e.Unit, e.Min, e.Max, e.Unit)
}

var hundred = decimal.NewFromInt(100)

// inrAmounts holds the money legs of a transaction.
type inrAmounts struct {
	gross, fee, bonus, net decimal.Decimal
}

// computeInrAmounts applies the platform fee and bonus to a gross INR
// amount. Fee and bonus are computed from the full-precision gross and
// rounded half-up to 2 decimal places; net is derived from the rounded
// components so net = gross - fee + bonus holds exactly on stored fields.
func computeInrAmounts(gross, feePercent, bonusPercent decimal.Decimal) inrAmounts {
	fee := gross.Mul(feePercent).Div(hundred).Round(2)
	bonus := gross.Mul(bonusPercent).Div(hundred).Round(2)
	grossR := gross.Round(2)
	return inrAmounts{
		gross: grossR,
		fee:   fee,
		bonus: bonus,
		net:   grossR.Sub(fee).Add(bonus),
	}
}

// newTransactionUID returns PREFIX plus the first 8 hex characters of a
// random UUID, uppercased (e.g. DEP3F2C1B0A).
func newTransactionUID(prefix string) string {
	u := uuid.New()
	return prefix + strings.ToUpper(hex.EncodeToString(u[:4]))
}

// uniqueTransactionUID allocates a UID inside tx, retrying the vanishingly
// rare collision a bounded number of times.
func uniqueTransactionUID(tx *gorm.DB, prefix string) (string, error) {
	for i := 0; i < 3; i++ {
		uid := newTransactionUID(prefix)
		var count int64
		if err := tx.Model(&models.Transaction{}).
			Where("transaction_uid = ?", uid).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return uid, nil
		}
	}
	return "", ErrUIDExhausted
}

// TransactionService creates deposit/withdrawal/payout transactions and
// drives the admin review state machine. Every balance mutation happens
// through SQL expression updates inside a single gorm transaction, so a
// failure anywhere in the unit rolls back status, balances, the chained
// payout and commission rows together.
type TransactionService struct {
	db       *gorm.DB
	userRepo *repository.UserRepository
	txRepo   *repository.TransactionRepository
	settings *SettingsService
	notifier *NotificationService // may be nil
}

func NewTransactionService(
	db *gorm.DB,
	userRepo *repository.UserRepository,
	txRepo *repository.TransactionRepository,
	settings *SettingsService,
	notifier *NotificationService,
) *TransactionService {
	return &TransactionService{db: db, userRepo: userRepo, txRepo: txRepo, settings: settings, notifier: notifier}
}

func normalizeNetwork(network string) (string, error) {
	switch strings.ToUpper(network) {
	case domain.NetworkTRC20:
		return domain.NetworkTRC20, nil
	case domain.NetworkERC20:
		return domain.NetworkERC20, nil
	default:
		return "", ErrInvalidNetwork
	}
}

// DepositInput describes a user's crypto deposit request.
type DepositInput struct {
	UserID        uint
	Network       string
	CryptoAmount  decimal.Decimal
	CryptoTxHash  string
	UserNotes     string
	ScreenshotURL string
}

// CreateDeposit validates and records a pending crypto_deposit transaction.
// No balance is touched until an admin approves it.
func (s *TransactionService) CreateDeposit(in DepositInput) (*models.Transaction, error) {
	ps, err := s.settings.Load()
	if err != nil {
		return nil, err
	}
	network, err := normalizeNetwork(in.Network)
	if err != nil {
		return nil, err
	}
	if in.CryptoAmount.LessThan(ps.MinDepositUsdt) || in.CryptoAmount.GreaterThan(ps.MaxDepositUsdt) {
		return nil, &AmountRangeError{Amount: in.CryptoAmount, Min: ps.MinDepositUsdt, Max: ps.MaxDepositUsdt, Unit: "USDT"}
	}
	user, err := s.userRepo.GetByID(in.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !user.IsUpiBound {
		return nil, ErrPayoutDetailsMissing
	}

	amounts := computeInrAmounts(in.CryptoAmount.Mul(ps.UsdtToInrRate), ps.PlatformFeePercent, ps.BonusPercent)
	walletAddress := ps.Trc20WalletAddress
	if network == domain.NetworkERC20 {
		walletAddress = ps.Erc20WalletAddress
	}

	var txn *models.Transaction
	err = s.db.Transaction(func(tx *gorm.DB) error {
		uid, err := uniqueTransactionUID(tx, domain.UIDPrefixDeposit)
		if err != nil {
			return err
		}
		txn = &models.Transaction{
			TransactionUID:      uid,
			UserID:              user.ID,
			Type:                domain.TxTypeCryptoDeposit,
			Status:              domain.TxStatusPending,
			CryptoNetwork:       network,
			CryptoWalletAddress: walletAddress,
			CryptoAmount:        in.CryptoAmount.Round(6),
			CryptoTxHash:        in.CryptoTxHash,
			ScreenshotURL:       in.ScreenshotURL,
			UserNotes:           in.UserNotes,
			ExchangeRate:        ps.UsdtToInrRate,
			PlatformFeePercent:  ps.PlatformFeePercent,
			PlatformFeeAmount:   amounts.fee,
			BonusPercent:        ps.BonusPercent,
			BonusAmount:         amounts.bonus,
			GrossInrAmount:      amounts.gross,
			NetInrAmount:        amounts.net,
			UserUpiID:           user.UpiID,
			UserBankName:        user.BankName,
		}
		return tx.Create(txn).Error
	})
	if err != nil {
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.NotifyNewTransaction(txn, txn.CryptoAmount,
			fmt.Sprintf("New crypto deposit request from user %d", user.ID))
	}
	return txn, nil
}

// CreateWithdrawal records a pending withdrawal. The amount is checked
// against the current balance but not debited: a pending withdrawal is a
// hold request, the debit happens on admin approval.
func (s *TransactionService) CreateWithdrawal(userID uint, amount decimal.Decimal) (*models.Transaction, error) {
	ps, err := s.settings.Load()
	if err != nil {
		return nil, err
	}
	if amount.LessThan(ps.MinWithdrawalInr) || amount.GreaterThan(ps.MaxWithdrawalInr) {
		return nil, &AmountRangeError{Amount: amount, Min: ps.MinWithdrawalInr, Max: ps.MaxWithdrawalInr, Unit: "INR"}
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !user.IsUpiBound {
		return nil, ErrPayoutDetailsMissing
	}
	if amount.GreaterThan(user.WalletBalance) {
		return nil, ErrInsufficientBalance
	}

	amount = amount.Round(2)
	var txn *models.Transaction
	err = s.db.Transaction(func(tx *gorm.DB) error {
		uid, err := uniqueTransactionUID(tx, domain.UIDPrefixWithdrawal)
		if err != nil {
			return err
		}
		txn = &models.Transaction{
			TransactionUID: uid,
			UserID:         user.ID,
			Type:           domain.TxTypeWithdrawal,
			Status:         domain.TxStatusPending,
			ExchangeRate:   decimal.NewFromInt(1),
			GrossInrAmount: amount,
			NetInrAmount:   amount,
			UserUpiID:      user.UpiID,
			UserBankName:   user.BankName,
		}
		return tx.Create(txn).Error
	})
	if err != nil {
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.NotifyNewTransaction(txn, txn.GrossInrAmount,
			fmt.Sprintf("New withdrawal request from user %d", user.ID))
	}
	return txn, nil
}

// UpiPayoutInput describes a UPI payout request.
type UpiPayoutInput struct {
	UserPhone        string // user lookup key for the user-facing path
	UserID           uint   // used by the admin path instead of phone
	UpiAmount        decimal.Decimal
	PaymentReference string
	CryptoAmount     decimal.Decimal
	RemainingCrypto  decimal.Decimal
	Network          string
	UserNotes        string
	AdminNotes       string
}

// CreateUpiPayout records a pending upi_payout request for the user with
// the given phone number and bumps their total crypto sent.
func (s *TransactionService) CreateUpiPayout(in UpiPayoutInput) (*models.Transaction, error) {
	ps, err := s.settings.Load()
	if err != nil {
		return nil, err
	}
	network, err := normalizeNetwork(in.Network)
	if err != nil {
		return nil, err
	}
	if in.UpiAmount.LessThan(ps.MinWithdrawalInr) || in.UpiAmount.GreaterThan(ps.MaxWithdrawalInr) {
		return nil, &AmountRangeError{Amount: in.UpiAmount, Min: ps.MinWithdrawalInr, Max: ps.MaxWithdrawalInr, Unit: "INR"}
	}
	user, err := s.userRepo.GetByPhone(in.UserPhone)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !user.IsUpiBound {
		return nil, ErrPayoutDetailsMissing
	}

	amounts := computeInrAmounts(in.UpiAmount, ps.PlatformFeePercent, ps.BonusPercent)
	var txn *models.Transaction
	err = s.db.Transaction(func(tx *gorm.DB) error {
		uid, err := uniqueTransactionUID(tx, domain.UIDPrefixUpiPayout)
		if err != nil {
			return err
		}
		txn = &models.Transaction{
			TransactionUID:     uid,
			UserID:             user.ID,
			Type:               domain.TxTypeUpiPayout,
			Status:             domain.TxStatusPending,
			CryptoNetwork:      network,
			CryptoAmount:       in.CryptoAmount.Round(6),
			RemainingCrypto:    in.RemainingCrypto.Round(6),
			UserNotes:          in.UserNotes,
			ExchangeRate:       decimal.NewFromInt(1),
			PlatformFeePercent: ps.PlatformFeePercent,
			PlatformFeeAmount:  amounts.fee,
			BonusPercent:       ps.BonusPercent,
			BonusAmount:        amounts.bonus,
			GrossInrAmount:     amounts.gross,
			NetInrAmount:       amounts.net,
			UserUpiID:          user.UpiID,
			UserBankName:       user.BankName,
			PaymentReference:   in.PaymentReference,
		}
		if err := tx.Create(txn).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", user.ID).
			Update("total_crypto_sent", gorm.Expr("total_crypto_sent + ?", txn.CryptoAmount)).Error
	})
	if err != nil {
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.NotifyNewTransaction(txn, txn.GrossInrAmount,
			fmt.Sprintf("New UPI payout request from user %d (%s)", user.ID, user.PhoneNumber))
	}
	return txn, nil
}

// AdminCreateUpiPayout records a payout an admin already sent: the
// transaction is created completed and the balance is credited inline.
func (s *TransactionService) AdminCreateUpiPayout(adminID uint, in UpiPayoutInput) (*models.Transaction, error) {
	ps, err := s.settings.Load()
	if err != nil {
		return nil, err
	}
	network, err := normalizeNetwork(in.Network)
	if err != nil {
		return nil, err
	}
	if in.UpiAmount.LessThan(ps.MinWithdrawalInr) || in.UpiAmount.GreaterThan(ps.MaxWithdrawalInr) {
		return nil, &AmountRangeError{Amount: in.UpiAmount, Min: ps.MinWithdrawalInr, Max: ps.MaxWithdrawalInr, Unit: "INR"}
	}
	user, err := s.userRepo.GetByID(in.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !user.IsUpiBound {
		return nil, ErrPayoutDetailsMissing
	}

	amounts := computeInrAmounts(in.UpiAmount, ps.PlatformFeePercent, ps.BonusPercent)
	now := time.Now()
	var txn *models.Transaction
	err = s.db.Transaction(func(tx *gorm.DB) error {
		uid, err := uniqueTransactionUID(tx, domain.UIDPrefixUpiPayout)
		if err != nil {
			return err
		}
		txn = &models.Transaction{
			TransactionUID:     uid,
			UserID:             user.ID,
			Type:               domain.TxTypeUpiPayout,
			Status:             domain.TxStatusCompleted,
			CryptoNetwork:      network,
			CryptoAmount:       in.CryptoAmount.Round(6),
			RemainingCrypto:    in.RemainingCrypto.Round(6),
			UserNotes:          in.UserNotes,
			AdminNotes:         in.AdminNotes,
			ExchangeRate:       decimal.NewFromInt(1),
			PlatformFeePercent: ps.PlatformFeePercent,
			PlatformFeeAmount:  amounts.fee,
			BonusPercent:       ps.BonusPercent,
			BonusAmount:        amounts.bonus,
			GrossInrAmount:     amounts.gross,
			NetInrAmount:       amounts.net,
			UserUpiID:          user.UpiID,
			UserBankName:       user.BankName,
			PaymentReference:   in.PaymentReference,
			AdminID:            &adminID,
			PaymentCompletedAt: &now,
		}
		if err := tx.Create(txn).Error; err != nil {
			return err
		}
		res := tx.Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
			"wallet_balance":    gorm.Expr("wallet_balance + ?", txn.NetInrAmount),
			"total_deposited":   gorm.Expr("total_deposited + ?", txn.NetInrAmount),
			"total_crypto_sent": gorm.Expr("total_crypto_sent + ?", txn.CryptoAmount),
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrUserNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return txn, nil
}

// ReviewInput carries the admin's decision on a pending transaction.
type ReviewInput struct {
	AdminID          uint
	Status           string // approved or rejected
	AdminNotes       string
	RejectionReason  string
	PaymentReference string
	TransactionFee   decimal.Decimal
	PlatformFee      decimal.Decimal
}

// ReviewTransaction performs the single allowed state transition of a
// pending transaction. The status flip, balance mutations, chained payout
// and commission rows commit or roll back as one unit; the compare-and-set
// on status guarantees that two concurrent reviews yield exactly one
// success and one ErrAlreadyReviewed.
func (s *TransactionService) ReviewTransaction(txID uint, in ReviewInput) (*models.Transaction, error) {
	if in.Status != domain.TxStatusApproved && in.Status != domain.TxStatusRejected {
		return nil, ErrInvalidReviewStatus
	}
	var ps *PlatformSettings
	if in.Status == domain.TxStatusApproved {
		loaded, err := s.settings.Load()
		if err != nil {
			return nil, err
		}
		ps = loaded
	}

	var reviewed models.Transaction
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var txn models.Transaction
		if err := tx.First(&txn, txID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTransactionNotFound
			}
			return err
		}
		now := time.Now()
		updates := map[string]interface{}{
			"status":            in.Status,
			"admin_id":          in.AdminID,
			"admin_reviewed_at": now,
			"admin_notes":       in.AdminNotes,
		}
		if in.Status == domain.TxStatusRejected {
			updates["rejection_reason"] = in.RejectionReason
		}
		res := tx.Model(&models.Transaction{}).
			Where("id = ? AND status = ?", txID, domain.TxStatusPending).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyReviewed
		}

		if in.Status == domain.TxStatusApproved {
			switch txn.Type {
			case domain.TxTypeCryptoDeposit:
				if err := s.settleDeposit(tx, ps, &txn, in, now); err != nil {
					return err
				}
			case domain.TxTypeWithdrawal:
				if err := s.settleWithdrawal(tx, &txn, in, now); err != nil {
					return err
				}
			}
		}
		return tx.First(&reviewed, txID).Error
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		switch reviewed.Status {
		case domain.TxStatusApproved:
			s.notifier.NotifyReviewed(&reviewed,
				fmt.Sprintf("Your transaction %s was approved", reviewed.TransactionUID))
		case domain.TxStatusRejected:
			msg := fmt.Sprintf("Your transaction %s was rejected", reviewed.TransactionUID)
			if in.RejectionReason != "" {
				msg += ": " + in.RejectionReason
			}
			s.notifier.NotifyReviewed(&reviewed, msg)
		}
	}
	return &reviewed, nil
}

// settleDeposit credits the depositor, creates the chained completed
// payout leg and the per-level commission rows. Runs inside the review
// transaction.
func (s *TransactionService) settleDeposit(tx *gorm.DB, ps *PlatformSettings, txn *models.Transaction, in ReviewInput, now time.Time) error {
	res := tx.Model(&models.User{}).Where("id = ?", txn.UserID).Updates(map[string]interface{}{
		"wallet_balance":  gorm.Expr("wallet_balance + ?", txn.NetInrAmount),
		"total_deposited": gorm.Expr("total_deposited + ?", txn.NetInrAmount),
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}

	uid, err := uniqueTransactionUID(tx, domain.UIDPrefixChainedPayout)
	if err != nil {
		return err
	}
	fees := in.TransactionFee.Add(in.PlatformFee).Round(2)
	payout := &models.Transaction{
		TransactionUID:     uid,
		UserID:             txn.UserID,
		Type:               domain.TxTypeUpiPayout,
		Status:             domain.TxStatusCompleted,
		ExchangeRate:       decimal.NewFromInt(1),
		GrossInrAmount:     txn.NetInrAmount,
		PlatformFeeAmount:  fees,
		NetInrAmount:       txn.NetInrAmount.Sub(fees),
		UserUpiID:          txn.UserUpiID,
		UserBankName:       txn.UserBankName,
		PaymentReference:   in.PaymentReference,
		AdminID:            &in.AdminID,
		PaymentCompletedAt: &now,
	}
	if err := tx.Create(payout).Error; err != nil {
		return err
	}
	return s.creditCommissions(tx, ps, txn, now)
}

// creditCommissions walks the depositor's ancestor chain up to the
// configured level cap and credits each referrer's share.
func (s *TransactionService) creditCommissions(tx *gorm.DB, ps *PlatformSettings, txn *models.Transaction, now time.Time) error {
	if ps.CommissionLevels <= 0 || ps.CommissionPercent.IsZero() {
		return nil
	}
	var ancestors []models.TeamMember
	if err := tx.Where("child_user_id = ? AND level <= ?", txn.UserID, ps.CommissionLevels).
		Order("level ASC").
		Find(&ancestors).Error; err != nil {
		return err
	}
	base := txn.NetInrAmount
	amount := base.Mul(ps.CommissionPercent).Div(hundred).Round(2)
	if amount.IsZero() {
		return nil
	}
	for _, edge := range ancestors {
		creditedAt := now
		comm := &models.Commission{
			ReferrerUserID:    edge.ParentUserID,
			ReferredUserID:    txn.UserID,
			TransactionID:     txn.ID,
			Level:             edge.Level,
			CommissionPercent: ps.CommissionPercent,
			BaseAmount:        base,
			CommissionAmount:  amount,
			Status:            domain.CommissionCredited,
			CreditedAt:        &creditedAt,
		}
		if err := tx.Create(comm).Error; err != nil {
			return err
		}
		res := tx.Model(&models.User{}).Where("id = ?", edge.ParentUserID).Updates(map[string]interface{}{
			"wallet_balance":          gorm.Expr("wallet_balance + ?", amount),
			"total_commission_earned": gorm.Expr("total_commission_earned + ?", amount),
		})
		if res.Error != nil {
			return res.Error
		}
	}
	return nil
}

// settleWithdrawal debits the user. The balance is re-checked at approval
// time inside the UPDATE predicate: it may have dropped since the request
// was created, and two approvals racing a deposit must never drive the
// balance negative.
func (s *TransactionService) settleWithdrawal(tx *gorm.DB, txn *models.Transaction, in ReviewInput, now time.Time) error {
	res := tx.Model(&models.User{}).
		Where("id = ? AND wallet_balance >= ?", txn.UserID, txn.GrossInrAmount).
		Updates(map[string]interface{}{
			"wallet_balance":  gorm.Expr("wallet_balance - ?", txn.GrossInrAmount),
			"total_withdrawn": gorm.Expr("total_withdrawn + ?", txn.GrossInrAmount),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientBalance
	}
	return tx.Model(&models.Transaction{}).Where("id = ?", txn.ID).Updates(map[string]interface{}{
		"payment_reference":    in.PaymentReference,
		"payment_completed_at": now,
	}).Error
}
