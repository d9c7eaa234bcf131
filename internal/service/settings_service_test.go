package service

import (
	"testing"

	"dollarpay/internal/domain"
	"dollarpay/internal/models"

	"github.com/stretchr/testify/require"
)

func TestSettingsLoadSnapshot(t *testing.T) {
	f := newFixture(t, map[string]string{
		domain.SettingUsdtToInrRate: "90",
	})

	ps, err := f.settings.Load()
	require.NoError(t, err)

	requireDecimalEqual(t, "90", ps.UsdtToInrRate)
	requireDecimalEqual(t, "2", ps.PlatformFeePercent)
	requireDecimalEqual(t, "2", ps.BonusPercent)
	requireDecimalEqual(t, "1", ps.CommissionPercent)
	require.Equal(t, 3, ps.CommissionLevels)
	require.Equal(t, 20, ps.MaxReferralDepth)
	requireDecimalEqual(t, "10", ps.MinDepositUsdt)
	requireDecimalEqual(t, "500000", ps.MaxWithdrawalInr)
}

func TestSettingsLoadMissingKey(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.db.Unscoped().
		Where("setting_key = ?", domain.SettingUsdtToInrRate).
		Delete(&models.PlatformSetting{}).Error)

	_, err := f.settings.Load()
	require.ErrorIs(t, err, ErrMissingSetting)
	require.Contains(t, err.Error(), domain.SettingUsdtToInrRate)
}

func TestSettingsLoadBadNumber(t *testing.T) {
	f := newFixture(t, map[string]string{
		domain.SettingPlatformFeePercent: "two percent",
	})

	_, err := f.settings.Load()
	require.ErrorIs(t, err, ErrSettingType)
}

func TestSettingsLoadNonIntegerLevels(t *testing.T) {
	f := newFixture(t, map[string]string{
		domain.SettingCommissionLevels: "2.5",
	})

	_, err := f.settings.Load()
	require.ErrorIs(t, err, ErrSettingType)
}

func TestSettingsLoadFailsOperations(t *testing.T) {
	f := newFixture(t, map[string]string{
		domain.SettingMinDepositUsdt: "not-a-number",
	})
	u := f.registerUser(t, "9100000001", "")

	_, err := f.txSvc.CreateDeposit(DepositInput{
		UserID:       u.ID,
		Network:      domain.NetworkTRC20,
		CryptoAmount: dec(t, "100"),
	})
	require.ErrorIs(t, err, ErrSettingType)
}
