package handler

import (
	"net/http"
	"strconv"

	"dollarpay/internal/middleware"
	"dollarpay/internal/repository"
	"dollarpay/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type TransactionHandler struct {
	svc      *service.TransactionService
	txRepo   *repository.TransactionRepository
	userRepo *repository.UserRepository
}

func NewTransactionHandler(
	svc *service.TransactionService,
	txRepo *repository.TransactionRepository,
	userRepo *repository.UserRepository,
) *TransactionHandler {
	return &TransactionHandler{svc: svc, txRepo: txRepo, userRepo: userRepo}
}

type DepositRequest struct {
	Network       string          `json:"network" binding:"required"`
	CryptoAmount  decimal.Decimal `json:"crypto_amount" binding:"required"`
	CryptoTxHash  string          `json:"crypto_tx_hash"`
	UserNotes     string          `json:"user_notes"`
	ScreenshotURL string          `json:"screenshot_url"`
}

// CreateDeposit handles POST /transactions/deposit.
func (h *TransactionHandler) CreateDeposit(c *gin.Context) {
	var req DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	txn, err := h.svc.CreateDeposit(service.DepositInput{
		UserID:        middleware.GetUserID(c),
		Network:       req.Network,
		CryptoAmount:  req.CryptoAmount,
		CryptoTxHash:  req.CryptoTxHash,
		UserNotes:     req.UserNotes,
		ScreenshotURL: req.ScreenshotURL,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, txn)
}

type WithdrawalRequest struct {
	AmountInr decimal.Decimal `json:"amount_inr" binding:"required"`
}

// CreateWithdrawal handles POST /transactions/withdrawal.
func (h *TransactionHandler) CreateWithdrawal(c *gin.Context) {
	var req WithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	txn, err := h.svc.CreateWithdrawal(middleware.GetUserID(c), req.AmountInr)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, txn)
}

type UpiPayoutRequest struct {
	PhoneNumber      string          `json:"phone_number" binding:"required"`
	UpiAmount        decimal.Decimal `json:"upi_amount" binding:"required"`
	PaymentReference string          `json:"payment_reference"`
	CryptoAmount     decimal.Decimal `json:"crypto_amount"`
	RemainingCrypto  decimal.Decimal `json:"remaining_crypto"`
	Network          string          `json:"network" binding:"required"`
	UserNotes        string          `json:"user_notes"`
}

// CreateUpiPayout handles POST /transactions/upi-payout.
func (h *TransactionHandler) CreateUpiPayout(c *gin.Context) {
	var req UpiPayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	txn, err := h.svc.CreateUpiPayout(service.UpiPayoutInput{
		UserPhone:        req.PhoneNumber,
		UpiAmount:        req.UpiAmount,
		PaymentReference: req.PaymentReference,
		CryptoAmount:     req.CryptoAmount,
		RemainingCrypto:  req.RemainingCrypto,
		Network:          req.Network,
		UserNotes:        req.UserNotes,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, txn)
}

// ListMine handles GET /transactions.
func (h *TransactionHandler) ListMine(c *gin.Context) {
	limit, offset := pagination(c)
	list, err := h.txRepo.ListByUserID(middleware.GetUserID(c), limit, offset)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": list})
}

// Detail handles GET /transactions/:id. Users can only see their own rows.
func (h *TransactionHandler) Detail(c *gin.Context) {
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
	if txn.UserID != middleware.GetUserID(c) {
		c.JSON(http.StatusNotFound, gin.H{"error": "transaction not found"})
		return
	}
	c.JSON(http.StatusOK, txn)
}

// Balance handles GET /balance.
func (h *TransactionHandler) Balance(c *gin.Context) {
	u, err := h.userRepo.GetByID(middleware.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"wallet_balance":          u.WalletBalance,
		"total_deposited":         u.TotalDeposited,
		"total_withdrawn":         u.TotalWithdrawn,
		"total_commission_earned": u.TotalCommissionEarned,
		"total_crypto_sent":       u.TotalCryptoSent,
	})
}

func pagination(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
