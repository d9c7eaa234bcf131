package service

import (
	"testing"
	"time"

	"dollarpay/config"
	"dollarpay/internal/database"
	"dollarpay/internal/models"
	"dollarpay/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Serialize access so concurrent callers exercise the CAS, not sqlite
	// write locking.
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.AutoMigrate(db))
	return db
}

// seedSettings inserts the default platform settings, with overrides for
// the scenario under test.
func seedSettings(t *testing.T, db *gorm.DB, overrides map[string]string) {
	t.Helper()
	for _, s := range database.DefaultSettings() {
		if v, ok := overrides[s.SettingKey]; ok {
			s.SettingValue = v
		}
		require.NoError(t, db.Create(&s).Error)
	}
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			AccessSecret: "test-secret",
			AccessExpiry: time.Hour,
			Issuer:       "test",
		},
	}
}

type fixture struct {
	db       *gorm.DB
	authSvc  *AuthService
	txSvc    *TransactionService
	teamSvc  *TeamService
	settings *SettingsService
}

func newFixture(t *testing.T, overrides map[string]string) *fixture {
	t.Helper()
	db := newTestDB(t)
	seedSettings(t, db, overrides)

	userRepo := repository.NewUserRepository(db)
	adminRepo := repository.NewAdminRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	txRepo := repository.NewTransactionRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	notifRepo := repository.NewNotificationRepository(db)

	settingsSvc := NewSettingsService(settingRepo)
	teamSvc := NewTeamService(teamRepo)
	authSvc := NewAuthService(testConfig(), db, userRepo, adminRepo, settingsSvc, teamSvc)
	notifSvc := NewNotificationService(notifRepo, nil)
	txSvc := NewTransactionService(db, userRepo, txRepo, settingsSvc, notifSvc)

	return &fixture{db: db, authSvc: authSvc, txSvc: txSvc, teamSvc: teamSvc, settings: settingsSvc}
}

// registerUser registers a user with bound payout details.
func (f *fixture) registerUser(t *testing.T, phone, referralCode string) *models.User {
	t.Helper()
	u, _, err := f.authSvc.Register(phone, "secret123", referralCode)
	require.NoError(t, err)
	require.NoError(t, repository.NewUserRepository(f.db).BindUpiDetails(u.ID, phone+"@upi", "Holder "+phone, "Test Bank"))
	u, err = repository.NewUserRepository(f.db).GetByID(u.ID)
	require.NoError(t, err)
	return u
}

func (f *fixture) getUser(t *testing.T, id uint) *models.User {
	t.Helper()
	u, err := repository.NewUserRepository(f.db).GetByID(id)
	require.NoError(t, err)
	return u
}

func (f *fixture) setBalance(t *testing.T, userID uint, amount string) {
	t.Helper()
	d, err := decimal.NewFromString(amount)
	require.NoError(t, err)
	require.NoError(t, f.db.Model(&models.User{}).Where("id = ?", userID).
		Update("wallet_balance", d).Error)
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func requireDecimalEqual(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	w, err := decimal.NewFromString(want)
	require.NoError(t, err)
	require.True(t, w.Equal(got), "want %s, got %s", w, got)
}
