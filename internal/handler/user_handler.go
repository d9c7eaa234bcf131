package handler

import (
	"net/http"
	"strconv"

	"dollarpay/internal/middleware"
	"dollarpay/internal/repository"
	"dollarpay/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userRepo       *repository.UserRepository
	teamSvc        *service.TeamService
	commissionRepo *repository.CommissionRepository
	notifRepo      *repository.NotificationRepository
}

func NewUserHandler(
	userRepo *repository.UserRepository,
	teamSvc *service.TeamService,
	commissionRepo *repository.CommissionRepository,
	notifRepo *repository.NotificationRepository,
) *UserHandler {
	return &UserHandler{userRepo: userRepo, teamSvc: teamSvc, commissionRepo: commissionRepo, notifRepo: notifRepo}
}

// Profile handles GET /me.
func (h *UserHandler) Profile(c *gin.Context) {
	userID := middleware.GetUserID(c)
	u, err := h.userRepo.GetByID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	stats, err := h.teamSvc.Stats(userID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	totalCommission, err := h.commissionRepo.SumCreditedByReferrer(userID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":             u,
		"team":             stats,
		"total_commission": totalCommission,
	})
}

// Team handles GET /me/team.
func (h *UserHandler) Team(c *gin.Context) {
	limit, offset := pagination(c)
	members, err := h.teamSvc.Members(middleware.GetUserID(c), limit, offset)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	type memberView struct {
		UserID      uint   `json:"user_id"`
		PhoneNumber string `json:"phone_number"`
		Name        string `json:"name,omitempty"`
		Level       int    `json:"level"`
		JoinedAt    string `json:"joined_at"`
	}
	out := make([]memberView, 0, len(members))
	for _, m := range members {
		out = append(out, memberView{
			UserID:      m.ChildUserID,
			PhoneNumber: m.Child.PhoneNumber,
			Name:        m.Child.Name,
			Level:       m.Level,
			JoinedAt:    m.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	c.JSON(http.StatusOK, gin.H{"members": out})
}

// Commissions handles GET /me/commissions.
func (h *UserHandler) Commissions(c *gin.Context) {
	limit, offset := pagination(c)
	list, err := h.commissionRepo.ListByReferrer(middleware.GetUserID(c), limit, offset)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"commissions": list})
}

type BindUpiRequest struct {
	UpiID         string `json:"upi_id" binding:"required"`
	UpiHolderName string `json:"upi_holder_name" binding:"required"`
	BankName      string `json:"bank_name"`
}

// BindUpi handles POST /me/upi — sets payout details required before any
// deposit or withdrawal request.
func (h *UserHandler) BindUpi(c *gin.Context) {
	var req BindUpiRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID := middleware.GetUserID(c)
	if err := h.userRepo.BindUpiDetails(userID, req.UpiID, req.UpiHolderName, req.BankName); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "UPI details bound"})
}

// Notifications handles GET /me/notifications.
func (h *UserHandler) Notifications(c *gin.Context) {
	limit, offset := pagination(c)
	list, err := h.notifRepo.ListByUserID(middleware.GetUserID(c), limit, offset)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": list})
}

// MarkNotificationRead handles POST /me/notifications/:id/read.
func (h *UserHandler) MarkNotificationRead(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
		return
	}
	if err := h.notifRepo.MarkRead(uint(id), middleware.GetUserID(c)); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}
