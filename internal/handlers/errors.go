package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/customer_ledger/internal/apperrors"
	"github.com/SscSPs/customer_ledger/internal/dto"
	"github.com/SscSPs/customer_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// respondServiceError writes the status matching err. fallback is the message used for
// unexpected failures so internals are not leaked.
func respondServiceError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	var dup *apperrors.DuplicateError
	switch {
	case errors.As(err, &dup):
		logger.Warn("Duplicate resource", slog.String("field", dup.Field), slog.String("existing_id", dup.ExistingID))
		c.JSON(http.StatusConflict, dto.DuplicateCustomerResponse{
			Error:              err.Error(),
			Field:              dup.Field,
			ExistingCustomerID: dup.ExistingID,
		})
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Resource not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
	case errors.Is(err, apperrors.ErrDuplicate):
		logger.Warn("Duplicate resource", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrInvariantViolation):
		logger.Error("Ledger invariant violated", slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		logger.Warn("Forbidden", slog.String("error", err.Error()))
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

// requireUserID reads the operator ID set by AuthMiddleware and answers 401 when it is missing.
func requireUserID(c *gin.Context, logger *slog.Logger) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	}
	return userID, ok
}
