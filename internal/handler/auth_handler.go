package handler

import (
	"errors"
	"net/http"

	"dollarpay/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type RegisterRequest struct {
	PhoneNumber  string `json:"phone_number" binding:"required,min=8,max=15"`
	Password     string `json:"password" binding:"required,min=6"`
	ReferralCode string `json:"referral_code"` // optional: referrer's code
}

type LoginRequest struct {
	PhoneNumber string `json:"phone_number" binding:"required"`
	Password    string `json:"password" binding:"required"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, token, err := h.svc.Register(req.PhoneNumber, req.Password, req.ReferralCode)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPhoneExists):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrInvalidReferralCode):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			writeServiceError(c, err)
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"user":         u,
		"access_token": token,
		"token_type":   "bearer",
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, token, err := h.svc.Login(req.PhoneNumber, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrAccountInactive), errors.Is(err, service.ErrAccountBlocked):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			writeServiceError(c, err)
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":         u,
		"access_token": token,
		"token_type":   "bearer",
	})
}
