package handler

import (
	"errors"
	"net/http"
	"strconv"

	"dollarpay/internal/middleware"
	"dollarpay/internal/models"
	"dollarpay/internal/repository"
	"dollarpay/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type AdminHandler struct {
	authSvc     *service.AuthService
	txSvc       *service.TransactionService
	txRepo      *repository.TransactionRepository
	settingRepo *repository.SettingRepository
	walletRepo  *repository.CryptoWalletRepository
	notifRepo   *repository.NotificationRepository
}

func NewAdminHandler(
	authSvc *service.AuthService,
	txSvc *service.TransactionService,
	txRepo *repository.TransactionRepository,
	settingRepo *repository.SettingRepository,
	walletRepo *repository.CryptoWalletRepository,
	notifRepo *repository.NotificationRepository,
) *AdminHandler {
	return &AdminHandler{
		authSvc:     authSvc,
		txSvc:       txSvc,
		txRepo:      txRepo,
		settingRepo: settingRepo,
		walletRepo:  walletRepo,
		notifRepo:   notifRepo,
	}
}

// Login handles POST /admin/login.
func (h *AdminHandler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a, token, err := h.authSvc.AdminLogin(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) || errors.Is(err, service.ErrAccountInactive) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"admin":        a,
		"access_token": token,
		"token_type":   "bearer",
	})
}

// PendingTransactions handles GET /admin/transactions/pending.
func (h *AdminHandler) PendingTransactions(c *gin.Context) {
	limit, offset := pagination(c)
	list, err := h.txRepo.ListPending(limit, offset)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": list})
}

// AllTransactions handles GET /admin/transactions?status=.
func (h *AdminHandler) AllTransactions(c *gin.Context) {
	limit, offset := pagination(c)
	list, err := h.txRepo.ListAll(c.Query("status"), limit, offset)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": list})
}

// SearchTransactions handles GET /admin/transactions/search?phone=.
func (h *AdminHandler) SearchTransactions(c *gin.Context) {
	phone := c.Query("phone")
	if phone == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "phone query parameter required"})
		return
	}
	limit, offset := pagination(c)
	list, err := h.txRepo.SearchByPhone(phone, limit, offset)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": list})
}

// TransactionDetail handles GET /admin/transactions/:id.
func (h *AdminHandler) TransactionDetail(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction id"})
		return
	}
	txn, err := h.txRepo.GetByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "transaction not found"})
		return
	}
	c.JSON(http.StatusOK, txn)
}

type ReviewRequest struct {
	Status           string          `json:"status" binding:"required,oneof=approved rejected"`
	AdminNotes       string          `json:"admin_notes"`
	RejectionReason  string          `json:"rejection_reason"`
	PaymentReference string          `json:"payment_reference"`
	TransactionFee   decimal.Decimal `json:"transaction_fee"`
	PlatformFee      decimal.Decimal `json:"platform_fee"`
}

// Review handles POST /admin/transactions/:id/review.
func (h *AdminHandler) Review(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction id"})
		return
	}
	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	txn, err := h.txSvc.ReviewTransaction(uint(id), service.ReviewInput{
		AdminID:          middleware.GetUserID(c),
		Status:           req.Status,
		AdminNotes:       req.AdminNotes,
		RejectionReason:  req.RejectionReason,
		PaymentReference: req.PaymentReference,
		TransactionFee:   req.TransactionFee,
		PlatformFee:      req.PlatformFee,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, txn)
}

type AdminPayoutRequest struct {
	UserID           uint            `json:"user_id" binding:"required"`
	UpiAmount        decimal.Decimal `json:"upi_amount" binding:"required"`
	PaymentReference string          `json:"payment_reference" binding:"required"`
	CryptoAmount     decimal.Decimal `json:"crypto_amount"`
	RemainingCrypto  decimal.Decimal `json:"remaining_crypto"`
	Network          string          `json:"network" binding:"required"`
	UserNotes        string          `json:"user_notes"`
	AdminNotes       string          `json:"admin_notes"`
}

// CreatePayout handles POST /admin/payouts — records a payout already sent
// outside the platform and credits the user inline.
func (h *AdminHandler) CreatePayout(c *gin.Context) {
	var req AdminPayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	txn, err := h.txSvc.AdminCreateUpiPayout(middleware.GetUserID(c), service.UpiPayoutInput{
		UserID:           req.UserID,
		UpiAmount:        req.UpiAmount,
		PaymentReference: req.PaymentReference,
		CryptoAmount:     req.CryptoAmount,
		RemainingCrypto:  req.RemainingCrypto,
		Network:          req.Network,
		UserNotes:        req.UserNotes,
		AdminNotes:       req.AdminNotes,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, txn)
}

// Settings handles GET /admin/settings.
func (h *AdminHandler) Settings(c *gin.Context) {
	list, err := h.settingRepo.GetAll()
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": list})
}

type UpdateSettingRequest struct {
	Value    string `json:"value" binding:"required"`
	DataType string `json:"data_type" binding:"omitempty,oneof=string number boolean json"`
}

// UpdateSetting handles PUT /admin/settings/:key.
func (h *AdminHandler) UpdateSetting(c *gin.Context) {
	key := c.Param("key")
	var req UpdateSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	dataType := req.DataType
	if dataType == "" {
		if existing, err := h.settingRepo.Get(key); err == nil {
			dataType = existing.DataType
		} else {
			dataType = "string"
		}
	}
	adminID := middleware.GetUserID(c)
	if err := h.settingRepo.Set(key, req.Value, dataType, &adminID); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "setting updated", "key": key})
}

// Notifications handles GET /admin/notifications.
func (h *AdminHandler) Notifications(c *gin.Context) {
	limit, offset := pagination(c)
	list, err := h.notifRepo.ListAdmin(limit, offset)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": list})
}

// Wallets handles GET /admin/wallets.
func (h *AdminHandler) Wallets(c *gin.Context) {
	list, err := h.walletRepo.ListActive()
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"wallets": list})
}

type CreateWalletRequest struct {
	NetworkType   string `json:"network_type" binding:"required,oneof=TRC20 ERC20"`
	WalletAddress string `json:"wallet_address" binding:"required"`
	Currency      string `json:"currency"`
}

// CreateWallet handles POST /admin/wallets.
func (h *AdminHandler) CreateWallet(c *gin.Context) {
	var req CreateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Currency == "" {
		req.Currency = "USDT"
	}
	w := &models.CryptoWallet{
		NetworkType:   req.NetworkType,
		WalletAddress: req.WalletAddress,
		Currency:      req.Currency,
		IsActive:      true,
	}
	if err := h.walletRepo.Create(w); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, w)
}
