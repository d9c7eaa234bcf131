package handler

import (
	"errors"
	"log"
	"net/http"

	"dollarpay/internal/service"

	"github.com/gin-gonic/gin"
)

// writeServiceError maps engine errors onto HTTP responses.
func writeServiceError(c *gin.Context, err error) {
	var rangeErr *service.AmountRangeError
	switch {
	case errors.As(err, &rangeErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": rangeErr.Error()})
	case errors.Is(err, service.ErrInvalidNetwork),
		errors.Is(err, service.ErrPayoutDetailsMissing),
		errors.Is(err, service.ErrInsufficientBalance),
		errors.Is(err, service.ErrInvalidReviewStatus),
		errors.Is(err, service.ErrInvalidReferralCode):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrTransactionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrAlreadyReviewed),
		errors.Is(err, service.ErrPhoneExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		log.Printf("[http] internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
