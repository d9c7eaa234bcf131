package service

import (
	"errors"
	"fmt"

	"dollarpay/internal/domain"
	"dollarpay/internal/repository"

	"github.com/shopspring/decimal"
)

var (
	ErrMissingSetting = errors.New("platform setting missing")
	ErrSettingType    = errors.New("platform setting has wrong type")
)

// PlatformSettings is an immutable snapshot of the platform configuration,
// loaded fresh per operation. Numeric values are exact decimals, never floats.
type PlatformSettings struct {
	UsdtToInrRate      decimal.Decimal
	PlatformFeePercent decimal.Decimal
	BonusPercent       decimal.Decimal
	InrBonusRatio      decimal.Decimal
	CommissionPercent  decimal.Decimal
	CommissionLevels   int
	MinDepositUsdt     decimal.Decimal
	MaxDepositUsdt     decimal.Decimal
	MinWithdrawalInr   decimal.Decimal
	MaxWithdrawalInr   decimal.Decimal
	MaxReferralDepth   int

	TelegramSupportURL string
	Trc20WalletAddress string
	Erc20WalletAddress string
}

type SettingsService struct {
	repo *repository.SettingRepository
}

func NewSettingsService(repo *repository.SettingRepository) *SettingsService {
	return &SettingsService{repo: repo}
}

// Load reads all platform settings and returns a typed snapshot.
// A missing required key or an unparseable number fails; settings are never
// silently defaulted at read time, a misconfigured deployment must surface.
func (s *SettingsService) Load() (*PlatformSettings, error) {
	rows, err := s.repo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("load platform settings: %w", err)
	}
	values := make(map[string]string, len(rows))
	for _, row := range rows {
		values[row.SettingKey] = row.SettingValue
	}

	ps := &PlatformSettings{}
	numbers := []struct {
		key  string
		dest *decimal.Decimal
	}{
		{domain.SettingUsdtToInrRate, &ps.UsdtToInrRate},
		{domain.SettingPlatformFeePercent, &ps.PlatformFeePercent},
		{domain.SettingBonusPercent, &ps.BonusPercent},
		{domain.SettingInrBonusRatio, &ps.InrBonusRatio},
		{domain.SettingCommissionPercent, &ps.CommissionPercent},
		{domain.SettingMinDepositUsdt, &ps.MinDepositUsdt},
		{domain.SettingMaxDepositUsdt, &ps.MaxDepositUsdt},
		{domain.SettingMinWithdrawalInr, &ps.MinWithdrawalInr},
		{domain.SettingMaxWithdrawalInr, &ps.MaxWithdrawalInr},
	}
	for _, n := range numbers {
		raw, ok := values[n.key]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingSetting, n.key)
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s=%q is not a number", ErrSettingType, n.key, raw)
		}
		*n.dest = d
	}

	ints := []struct {
		key  string
		dest *int
	}{
		{domain.SettingCommissionLevels, &ps.CommissionLevels},
		{domain.SettingMaxReferralDepth, &ps.MaxReferralDepth},
	}
	for _, n := range ints {
		raw, ok := values[n.key]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingSetting, n.key)
		}
		d, err := decimal.NewFromString(raw)
		if err != nil || !d.IsInteger() {
			return nil, fmt.Errorf("%w: %s=%q is not an integer", ErrSettingType, n.key, raw)
		}
		*n.dest = int(d.IntPart())
	}

	ps.TelegramSupportURL = values[domain.SettingTelegramSupportURL]
	ps.Trc20WalletAddress = values[domain.SettingTrc20WalletAddress]
	ps.Erc20WalletAddress = values[domain.SettingErc20WalletAddress]
	return ps, nil
}
