package domain

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// Transaction types
const (
	TxTypeCryptoDeposit = "crypto_deposit"
	TxTypeUpiPayout     = "upi_payout"
	TxTypeWithdrawal    = "withdrawal"
	TxTypeCommission    = "commission"
)

// Transaction statuses
const (
	TxStatusPending    = "pending"
	TxStatusProcessing = "processing"
	TxStatusApproved   = "approved"
	TxStatusRejected   = "rejected"
	TxStatusCompleted  = "completed"
	TxStatusFailed     = "failed"
)

// Transaction UID prefixes, e.g. DEP3F2C1B0A
const (
	UIDPrefixDeposit       = "DEP"
	UIDPrefixWithdrawal    = "WDR"
	UIDPrefixUpiPayout     = "UPI"
	UIDPrefixChainedPayout = "PAY"
)

// Commission statuses
const (
	CommissionPending   = "pending"
	CommissionCredited  = "credited"
	CommissionCancelled = "cancelled"
)

// Supported crypto networks
const (
	NetworkTRC20 = "TRC20"
	NetworkERC20 = "ERC20"
)

// Platform setting keys (platform_settings table)
const (
	SettingUsdtToInrRate      = "usdt_to_inr_rate"
	SettingPlatformFeePercent = "platform_fee_percent"
	SettingBonusPercent       = "bonus_percent"
	SettingInrBonusRatio      = "inr_bonus_ratio"
	SettingCommissionPercent  = "commission_percent"
	SettingCommissionLevels   = "commission_levels"
	SettingMinDepositUsdt     = "min_deposit_usdt"
	SettingMaxDepositUsdt     = "max_deposit_usdt"
	SettingMinWithdrawalInr   = "min_withdrawal_inr"
	SettingMaxWithdrawalInr   = "max_withdrawal_inr"
	SettingMaxReferralDepth   = "max_referral_depth"
	SettingTelegramSupportURL = "telegram_support_url"
	SettingTrc20WalletAddress = "trc20_wallet_address"
	SettingErc20WalletAddress = "erc20_wallet_address"
)

// Notification event types
const (
	NotifTypeNewTransaction      = "new_transaction"
	NotifTypeTransactionReviewed = "transaction_reviewed"
	NotifTypeCommissionEarned    = "commission_earned"
)
