package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/treasury_app/internal/apperrors"
	"github.com/SscSPs/treasury_app/internal/core/domain"
	"github.com/SscSPs/treasury_app/internal/dto"
	"github.com/SscSPs/treasury_app/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// respondError maps a service error onto the HTTP response. Unexpected errors are
// logged and reported as "Failed to <action>" without their details.
func respondError(c *gin.Context, logger *slog.Logger, err error, action string) {
	var conflict *domain.VersionConflictError
	if errors.As(err, &conflict) {
		logger.Warn("Version conflict", slog.Int("current_version", conflict.CurrentVersion), slog.Int("expected_version", conflict.ExpectedVersion))
		c.JSON(http.StatusConflict, dto.ToVersionConflictResponse(conflict))
		return
	}

	var transition *domain.StatusTransitionError
	if errors.As(err, &transition) {
		logger.Warn("Status transition rejected", slog.String("reason", string(transition.Reason)))
		c.JSON(http.StatusUnprocessableEntity, dto.StatusTransitionErrorResponse{Error: transition.Error(), Reason: transition.Reason})
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrDuplicate):
		status = http.StatusBadRequest
	case errors.Is(err, apperrors.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, apperrors.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, apperrors.ErrUnauthorized):
		status = http.StatusUnauthorized
	}

	if status == http.StatusInternalServerError {
		logger.Error("Failed to "+action, slog.String("error", err.Error()))
		c.JSON(status, gin.H{"error": "Failed to " + action})
		return
	}
	logger.Warn("Request rejected", slog.String("action", action), slog.Int("status", status), slog.String("error", err.Error()))
	c.JSON(status, gin.H{"error": apperrors.Message(err)})
}

// respondBindingError reports a malformed body or query string.
func respondBindingError(c *gin.Context, logger *slog.Logger, err error) {
	logger.Warn("Failed to bind request", slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
}

// requireUserID returns the authenticated caller, answering 401 when there is none.
func requireUserID(c *gin.Context, logger *slog.Logger) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return userID, true
}

// pathIDs reads UUID path parameters in order. A malformed ID cannot name an
// existing resource, so it is answered with 404 for the entity it identifies.
func pathIDs(c *gin.Context, params ...pathParam) ([]string, bool) {
	ids := make([]string, len(params))
	for i, p := range params {
		raw := c.Param(p.name)
		if _, err := uuid.Parse(raw); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": p.entity + " not found"})
			return nil, false
		}
		ids[i] = raw
	}
	return ids, true
}

type pathParam struct {
	name   string
	entity string
}

var (
	orgParam         = pathParam{name: "orgID", entity: "organization"}
	accountParam     = pathParam{name: "accountID", entity: "account"}
	transactionParam = pathParam{name: "transactionID", entity: "transaction"}
	vendorParam      = pathParam{name: "vendorID", entity: "vendor"}
)
