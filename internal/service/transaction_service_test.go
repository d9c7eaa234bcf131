package service

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"dollarpay/internal/domain"
	"dollarpay/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// rate 90 keeps the arithmetic in the assertions easy to follow.
var depositOverrides = map[string]string{
	domain.SettingUsdtToInrRate: "90",
}

func TestComputeInrAmounts(t *testing.T) {
	cases := []struct {
		gross, feePct, bonusPct       string
		wantGross, wantFee, wantBonus string
	}{
		{"9000", "2", "2", "9000", "180", "180"},
		{"1234.567", "2", "2", "1234.57", "24.69", "24.69"},
		{"100", "0", "0", "100", "0", "0"},
		{"0.01", "2", "2", "0.01", "0", "0"},
	}
	for _, c := range cases {
		got := computeInrAmounts(dec(t, c.gross), dec(t, c.feePct), dec(t, c.bonusPct))
		requireDecimalEqual(t, c.wantGross, got.gross)
		requireDecimalEqual(t, c.wantFee, got.fee)
		requireDecimalEqual(t, c.wantBonus, got.bonus)
		// Stored identity: net = gross - fee + bonus, exactly.
		requireDecimalEqual(t, got.gross.Sub(got.fee).Add(got.bonus).String(), got.net)
	}
}

func (f *fixture) createDeposit(t *testing.T, userID uint, usdt string) *models.Transaction {
	t.Helper()
	txn, err := f.txSvc.CreateDeposit(DepositInput{
		UserID:       userID,
		Network:      domain.NetworkTRC20,
		CryptoAmount: dec(t, usdt),
		CryptoTxHash: "0xabc",
	})
	require.NoError(t, err)
	return txn
}

func (f *fixture) reloadTx(t *testing.T, id uint) *models.Transaction {
	t.Helper()
	var txn models.Transaction
	require.NoError(t, f.db.First(&txn, id).Error)
	return &txn
}

func TestCreateDeposit(t *testing.T) {
	f := newFixture(t, depositOverrides)
	u := f.registerUser(t, "9100000001", "")

	txn := f.createDeposit(t, u.ID, "100")

	require.Equal(t, domain.TxTypeCryptoDeposit, txn.Type)
	require.Equal(t, domain.TxStatusPending, txn.Status)
	require.True(t, strings.HasPrefix(txn.TransactionUID, domain.UIDPrefixDeposit))
	require.Len(t, txn.TransactionUID, len(domain.UIDPrefixDeposit)+8)
	requireDecimalEqual(t, "9000", txn.GrossInrAmount)
	requireDecimalEqual(t, "180", txn.PlatformFeeAmount)
	requireDecimalEqual(t, "180", txn.BonusAmount)
	requireDecimalEqual(t, "9000", txn.NetInrAmount)
	require.Equal(t, u.UpiID, txn.UserUpiID)

	// No money moves until the admin approves.
	require.True(t, f.getUser(t, u.ID).WalletBalance.IsZero())
}

func TestCreateDepositBounds(t *testing.T) {
	f := newFixture(t, depositOverrides)
	u := f.registerUser(t, "9100000001", "")

	_, err := f.txSvc.CreateDeposit(DepositInput{
		UserID: u.ID, Network: domain.NetworkTRC20, CryptoAmount: dec(t, "9.99"),
	})
	var rangeErr *AmountRangeError
	require.ErrorAs(t, err, &rangeErr)
	requireDecimalEqual(t, "10", rangeErr.Min)
	require.Equal(t, "USDT", rangeErr.Unit)

	// The minimum itself is allowed.
	f.createDeposit(t, u.ID, "10")

	_, err = f.txSvc.CreateDeposit(DepositInput{
		UserID: u.ID, Network: domain.NetworkTRC20, CryptoAmount: dec(t, "10000.01"),
	})
	require.ErrorAs(t, err, &rangeErr)
}

func TestCreateDepositRequiresUpiBinding(t *testing.T) {
	f := newFixture(t, depositOverrides)
	u, _, err := f.authSvc.Register("9100000001", "secret123", "")
	require.NoError(t, err)

	_, err = f.txSvc.CreateDeposit(DepositInput{
		UserID: u.ID, Network: domain.NetworkTRC20, CryptoAmount: dec(t, "100"),
	})
	require.ErrorIs(t, err, ErrPayoutDetailsMissing)
}

func TestCreateDepositInvalidNetwork(t *testing.T) {
	f := newFixture(t, depositOverrides)
	u := f.registerUser(t, "9100000001", "")

	_, err := f.txSvc.CreateDeposit(DepositInput{
		UserID: u.ID, Network: "BEP20", CryptoAmount: dec(t, "100"),
	})
	require.ErrorIs(t, err, ErrInvalidNetwork)
}

func TestApproveDepositCreditsAndChainsPayout(t *testing.T) {
	f := newFixture(t, depositOverrides)
	u := f.registerUser(t, "9100000001", "")
	txn := f.createDeposit(t, u.ID, "100")

	reviewed, err := f.txSvc.ReviewTransaction(txn.ID, ReviewInput{
		AdminID:          1,
		Status:           domain.TxStatusApproved,
		PaymentReference: "UTR-1",
		TransactionFee:   dec(t, "50"),
		PlatformFee:      dec(t, "10"),
	})
	require.NoError(t, err)
	require.Equal(t, domain.TxStatusApproved, reviewed.Status)
	require.NotNil(t, reviewed.AdminID)
	require.NotNil(t, reviewed.AdminReviewedAt)

	after := f.getUser(t, u.ID)
	requireDecimalEqual(t, "9000", after.WalletBalance)
	requireDecimalEqual(t, "9000", after.TotalDeposited)

	var payout models.Transaction
	require.NoError(t, f.db.Where("user_id = ? AND type = ?", u.ID, domain.TxTypeUpiPayout).
		First(&payout).Error)
	require.True(t, strings.HasPrefix(payout.TransactionUID, domain.UIDPrefixChainedPayout))
	require.Equal(t, domain.TxStatusCompleted, payout.Status)
	requireDecimalEqual(t, "9000", payout.GrossInrAmount)
	requireDecimalEqual(t, "60", payout.PlatformFeeAmount)
	requireDecimalEqual(t, "8940", payout.NetInrAmount)
	require.Equal(t, "UTR-1", payout.PaymentReference)
	require.NotNil(t, payout.PaymentCompletedAt)
	require.True(t, payout.NetInrAmount.LessThanOrEqual(reviewed.NetInrAmount))
}

func TestReviewIsSingleShot(t *testing.T) {
	f := newFixture(t, depositOverrides)
	u := f.registerUser(t, "9100000001", "")
	txn := f.createDeposit(t, u.ID, "100")

	_, err := f.txSvc.ReviewTransaction(txn.ID, ReviewInput{
		AdminID: 1, Status: domain.TxStatusApproved,
	})
	require.NoError(t, err)

	_, err = f.txSvc.ReviewTransaction(txn.ID, ReviewInput{
		AdminID: 2, Status: domain.TxStatusApproved,
	})
	require.ErrorIs(t, err, ErrAlreadyReviewed)
	_, err = f.txSvc.ReviewTransaction(txn.ID, ReviewInput{
		AdminID: 2, Status: domain.TxStatusRejected,
	})
	require.ErrorIs(t, err, ErrAlreadyReviewed)

	// Credited exactly once.
	requireDecimalEqual(t, "9000", f.getUser(t, u.ID).WalletBalance)
}

func TestConcurrentApprovalsCreditOnce(t *testing.T) {
	f := newFixture(t, depositOverrides)
	u := f.registerUser(t, "9100000001", "")
	txn := f.createDeposit(t, u.ID, "100")

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.txSvc.ReviewTransaction(txn.ID, ReviewInput{
				AdminID: uint(i + 1), Status: domain.TxStatusApproved,
			})
		}(i)
	}
	wg.Wait()

	var ok, dup int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrAlreadyReviewed):
			dup++
		default:
			t.Fatalf("unexpected review error: %v", err)
		}
	}
	require.Equal(t, 1, ok)
	require.Equal(t, 1, dup)

	requireDecimalEqual(t, "9000", f.getUser(t, u.ID).WalletBalance)
	var payouts int64
	require.NoError(t, f.db.Model(&models.Transaction{}).
		Where("user_id = ? AND type = ?", u.ID, domain.TxTypeUpiPayout).
		Count(&payouts).Error)
	require.EqualValues(t, 1, payouts)
}

func TestRejectDepositLeavesBalanceUntouched(t *testing.T) {
	f := newFixture(t, depositOverrides)
	u := f.registerUser(t, "9100000001", "")
	txn := f.createDeposit(t, u.ID, "100")

	reviewed, err := f.txSvc.ReviewTransaction(txn.ID, ReviewInput{
		AdminID:         1,
		Status:          domain.TxStatusRejected,
		RejectionReason: "hash not found on chain",
	})
	require.NoError(t, err)
	require.Equal(t, domain.TxStatusRejected, reviewed.Status)
	require.Equal(t, "hash not found on chain", reviewed.RejectionReason)

	after := f.getUser(t, u.ID)
	require.True(t, after.WalletBalance.IsZero())
	require.True(t, after.TotalDeposited.IsZero())

	var payouts int64
	require.NoError(t, f.db.Model(&models.Transaction{}).
		Where("user_id = ? AND type = ?", u.ID, domain.TxTypeUpiPayout).
		Count(&payouts).Error)
	require.Zero(t, payouts)
}

func TestReviewRequiresTerminalStatus(t *testing.T) {
	f := newFixture(t, depositOverrides)
	u := f.registerUser(t, "9100000001", "")
	txn := f.createDeposit(t, u.ID, "100")

	_, err := f.txSvc.ReviewTransaction(txn.ID, ReviewInput{
		AdminID: 1, Status: domain.TxStatusProcessing,
	})
	require.ErrorIs(t, err, ErrInvalidReviewStatus)

	_, err = f.txSvc.ReviewTransaction(99999, ReviewInput{
		AdminID: 1, Status: domain.TxStatusApproved,
	})
	require.ErrorIs(t, err, ErrTransactionNotFound)
}

func TestApprovalRollsBackAsOneUnit(t *testing.T) {
	f := newFixture(t, depositOverrides)
	u := f.registerUser(t, "9100000001", "")
	txn := f.createDeposit(t, u.ID, "100")

	// Fail the chained payout insert so the whole review unit must roll
	// back: status flip, balance credit and payout together.
	boom := errors.New("payout insert failed")
	require.NoError(t, f.db.Callback().Create().Before("gorm:create").
		Register("test:fail_chained_payout", func(d *gorm.DB) {
			if p, ok := d.Statement.Dest.(*models.Transaction); ok &&
				strings.HasPrefix(p.TransactionUID, domain.UIDPrefixChainedPayout) {
				d.AddError(boom)
			}
		}))
	defer f.db.Callback().Create().Remove("test:fail_chained_payout")

	_, err := f.txSvc.ReviewTransaction(txn.ID, ReviewInput{
		AdminID: 1, Status: domain.TxStatusApproved,
	})
	require.ErrorIs(t, err, boom)

	require.Equal(t, domain.TxStatusPending, f.reloadTx(t, txn.ID).Status)
	require.True(t, f.getUser(t, u.ID).WalletBalance.IsZero())
}

func TestCommissionsCreditedPerLevelWithCap(t *testing.T) {
	overrides := map[string]string{
		domain.SettingUsdtToInrRate:    "90",
		domain.SettingCommissionLevels: "2",
	}
	f := newFixture(t, overrides)

	a := f.registerUser(t, "9100000001", "")
	b := f.registerUser(t, "9100000002", a.ReferralCode)
	c := f.registerUser(t, "9100000003", b.ReferralCode)
	d := f.registerUser(t, "9100000004", c.ReferralCode)

	txn := f.createDeposit(t, d.ID, "100") // net 9000, 1% per level
	_, err := f.txSvc.ReviewTransaction(txn.ID, ReviewInput{
		AdminID: 1, Status: domain.TxStatusApproved,
	})
	require.NoError(t, err)

	var comms []models.Commission
	require.NoError(t, f.db.Where("transaction_id = ?", txn.ID).Order("level ASC").Find(&comms).Error)
	require.Len(t, comms, 2)
	require.Equal(t, c.ID, comms[0].ReferrerUserID)
	require.Equal(t, 1, comms[0].Level)
	require.Equal(t, b.ID, comms[1].ReferrerUserID)
	require.Equal(t, 2, comms[1].Level)
	for _, comm := range comms {
		require.Equal(t, d.ID, comm.ReferredUserID)
		require.Equal(t, domain.CommissionCredited, comm.Status)
		require.NotNil(t, comm.CreditedAt)
		requireDecimalEqual(t, "9000", comm.BaseAmount)
		requireDecimalEqual(t, "90", comm.CommissionAmount)
	}

	for _, referrer := range []*models.User{b, c} {
		after := f.getUser(t, referrer.ID)
		requireDecimalEqual(t, "90", after.WalletBalance)
		requireDecimalEqual(t, "90", after.TotalCommissionEarned)
	}
	// A sits at level 3, beyond the cap.
	require.True(t, f.getUser(t, a.ID).WalletBalance.IsZero())
	// Depositor keeps the full net credit.
	requireDecimalEqual(t, "9000", f.getUser(t, d.ID).WalletBalance)
}

func TestWithdrawalLifecycle(t *testing.T) {
	f := newFixture(t, nil)
	u := f.registerUser(t, "9100000001", "")
	f.setBalance(t, u.ID, "10000")

	// Request above the balance fails at creation.
	_, err := f.txSvc.CreateWithdrawal(u.ID, dec(t, "50000"))
	require.ErrorIs(t, err, ErrInsufficientBalance)

	// Balance rises before the user retries.
	f.setBalance(t, u.ID, "60000")
	txn, err := f.txSvc.CreateWithdrawal(u.ID, dec(t, "50000"))
	require.NoError(t, err)
	require.Equal(t, domain.TxStatusPending, txn.Status)
	require.True(t, strings.HasPrefix(txn.TransactionUID, domain.UIDPrefixWithdrawal))

	// A pending withdrawal is a hold request, not a debit.
	requireDecimalEqual(t, "60000", f.getUser(t, u.ID).WalletBalance)

	reviewed, err := f.txSvc.ReviewTransaction(txn.ID, ReviewInput{
		AdminID: 1, Status: domain.TxStatusApproved, PaymentReference: "UTR-9",
	})
	require.NoError(t, err)
	require.Equal(t, domain.TxStatusApproved, reviewed.Status)
	require.Equal(t, "UTR-9", reviewed.PaymentReference)
	require.NotNil(t, reviewed.PaymentCompletedAt)

	after := f.getUser(t, u.ID)
	requireDecimalEqual(t, "10000", after.WalletBalance)
	requireDecimalEqual(t, "50000", after.TotalWithdrawn)
}

func TestWithdrawalApprovalRechecksBalance(t *testing.T) {
	f := newFixture(t, nil)
	u := f.registerUser(t, "9100000001", "")
	f.setBalance(t, u.ID, "5000")

	txn, err := f.txSvc.CreateWithdrawal(u.ID, dec(t, "1000"))
	require.NoError(t, err)

	// Balance drops while the request sits in the queue.
	f.setBalance(t, u.ID, "500")

	_, err = f.txSvc.ReviewTransaction(txn.ID, ReviewInput{
		AdminID: 1, Status: domain.TxStatusApproved,
	})
	require.ErrorIs(t, err, ErrInsufficientBalance)

	// The failed approval left the request pending and the balance alone.
	require.Equal(t, domain.TxStatusPending, f.reloadTx(t, txn.ID).Status)
	requireDecimalEqual(t, "500", f.getUser(t, u.ID).WalletBalance)
}

func TestWithdrawalBounds(t *testing.T) {
	f := newFixture(t, nil)
	u := f.registerUser(t, "9100000001", "")
	f.setBalance(t, u.ID, "1000000")

	_, err := f.txSvc.CreateWithdrawal(u.ID, dec(t, "499.99"))
	var rangeErr *AmountRangeError
	require.ErrorAs(t, err, &rangeErr)
	require.Equal(t, "INR", rangeErr.Unit)

	txn, err := f.txSvc.CreateWithdrawal(u.ID, dec(t, "500"))
	require.NoError(t, err)
	requireDecimalEqual(t, "500", txn.GrossInrAmount)
	requireDecimalEqual(t, "500", txn.NetInrAmount)

	_, err = f.txSvc.CreateWithdrawal(u.ID, dec(t, "500000.01"))
	require.ErrorAs(t, err, &rangeErr)
}

func TestCreateUpiPayoutPending(t *testing.T) {
	f := newFixture(t, nil)
	u := f.registerUser(t, "9100000001", "")

	txn, err := f.txSvc.CreateUpiPayout(UpiPayoutInput{
		UserPhone:    "9100000001",
		UpiAmount:    dec(t, "1000"),
		CryptoAmount: dec(t, "11.5"),
		Network:      domain.NetworkTRC20,
	})
	require.NoError(t, err)
	require.Equal(t, domain.TxTypeUpiPayout, txn.Type)
	require.Equal(t, domain.TxStatusPending, txn.Status)
	require.True(t, strings.HasPrefix(txn.TransactionUID, domain.UIDPrefixUpiPayout))
	requireDecimalEqual(t, "1000", txn.GrossInrAmount)
	requireDecimalEqual(t, "1000", txn.NetInrAmount) // 2% fee offset by 2% bonus

	after := f.getUser(t, u.ID)
	requireDecimalEqual(t, "11.5", after.TotalCryptoSent)
	require.True(t, after.WalletBalance.IsZero())

	_, err = f.txSvc.CreateUpiPayout(UpiPayoutInput{
		UserPhone: "0000000000", UpiAmount: dec(t, "1000"), Network: domain.NetworkTRC20,
	})
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestAdminCreateUpiPayoutCreditsInline(t *testing.T) {
	f := newFixture(t, nil)
	u := f.registerUser(t, "9100000001", "")

	txn, err := f.txSvc.AdminCreateUpiPayout(7, UpiPayoutInput{
		UserID:           u.ID,
		UpiAmount:        dec(t, "1000"),
		CryptoAmount:     dec(t, "11.5"),
		Network:          domain.NetworkTRC20,
		PaymentReference: "UTR-7",
	})
	require.NoError(t, err)
	require.Equal(t, domain.TxStatusCompleted, txn.Status)
	require.NotNil(t, txn.AdminID)
	require.EqualValues(t, 7, *txn.AdminID)
	require.NotNil(t, txn.PaymentCompletedAt)

	after := f.getUser(t, u.ID)
	requireDecimalEqual(t, "1000", after.WalletBalance)
	requireDecimalEqual(t, "1000", after.TotalDeposited)
	requireDecimalEqual(t, "11.5", after.TotalCryptoSent)
}
