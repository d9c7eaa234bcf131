package service

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"dollarpay/config"
	"dollarpay/internal/auth"
	"dollarpay/internal/domain"
	"dollarpay/internal/models"
	"dollarpay/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrPhoneExists         = errors.New("phone number already registered")
	ErrInvalidReferralCode = errors.New("invalid referral code")
	ErrInvalidCredentials  = errors.New("invalid phone number or password")
	ErrAccountInactive     = errors.New("account is inactive")
	ErrAccountBlocked      = errors.New("account is blocked")
)

type AuthService struct {
	cfg       *config.Config
	db        *gorm.DB
	userRepo  *repository.UserRepository
	adminRepo *repository.AdminRepository
	settings  *SettingsService
	team      *TeamService
}

func NewAuthService(
	cfg *config.Config,
	db *gorm.DB,
	userRepo *repository.UserRepository,
	adminRepo *repository.AdminRepository,
	settings *SettingsService,
	team *TeamService,
) *AuthService {
	return &AuthService{cfg: cfg, db: db, userRepo: userRepo, adminRepo: adminRepo, settings: settings, team: team}
}

const referralCodeChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// generateReferralCode returns an 8-character uppercase alphanumeric code.
func generateReferralCode() (string, error) {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	for i := range b {
		b[i] = referralCodeChars[int(b[i])%len(referralCodeChars)]
	}
	return string(b), nil
}

func (s *AuthService) uniqueReferralCode() (string, error) {
	for i := 0; i < 10; i++ {
		code, err := generateReferralCode()
		if err != nil {
			return "", err
		}
		exists, err := s.userRepo.ReferralCodeExists(code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", fmt.Errorf("failed to generate a unique referral code after retries")
}

// Register creates a user and, if a referral code was supplied, the full
// ancestor chain in one transaction. Returns the user and an access token.
func (s *AuthService) Register(phone, password, referralCode string) (*models.User, string, error) {
	if _, err := s.userRepo.GetByPhone(phone); err == nil {
		return nil, "", ErrPhoneExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", err
	}

	var referrer *models.User
	maxDepth := 0
	if referralCode != "" {
		u, err := s.userRepo.GetByReferralCode(referralCode)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, "", ErrInvalidReferralCode
			}
			return nil, "", err
		}
		referrer = u
		ps, err := s.settings.Load()
		if err != nil {
			return nil, "", err
		}
		maxDepth = ps.MaxReferralDepth
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}
	code, err := s.uniqueReferralCode()
	if err != nil {
		return nil, "", err
	}

	u := &models.User{
		PhoneNumber:    phone,
		PasswordHash:   string(hash),
		ReferralCode:   code,
		ReferredByCode: referralCode,
	}
	if referrer != nil {
		u.ReferredByUserID = &referrer.ID
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(u).Error; err != nil {
			return err
		}
		if referrer != nil {
			if _, err := s.team.BuildAncestry(tx, referrer.ID, u.ID, maxDepth); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	token, err := auth.GenerateAccessToken(&s.cfg.JWT, u.ID, u.PhoneNumber, domain.RoleUser)
	if err != nil {
		return u, "", err
	}
	return u, token, nil
}

func (s *AuthService) Login(phone, password string) (*models.User, string, error) {
	u, err := s.userRepo.GetByPhone(phone)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, "", ErrAccountInactive
	}
	if u.IsBlocked {
		return nil, "", ErrAccountBlocked
	}
	now := time.Now()
	u.LastLoginAt = &now
	if err := s.userRepo.Update(u); err != nil {
		return nil, "", err
	}
	token, err := auth.GenerateAccessToken(&s.cfg.JWT, u.ID, u.PhoneNumber, domain.RoleUser)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *AuthService) AdminLogin(username, password string) (*models.Admin, string, error) {
	a, err := s.adminRepo.GetByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}
	if !a.IsActive {
		return nil, "", ErrAccountInactive
	}
	now := time.Now()
	a.LastLoginAt = &now
	if err := s.adminRepo.Update(a); err != nil {
		return nil, "", err
	}
	token, err := auth.GenerateAccessToken(&s.cfg.JWT, a.ID, a.Username, domain.RoleAdmin)
	if err != nil {
		return nil, "", err
	}
	return a, token, nil
}
