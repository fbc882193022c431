package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/treasury_app/internal/core/ports/services"
	"github.com/SscSPs/treasury_app/internal/dto"
	"github.com/SscSPs/treasury_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// statusHandler handles reconciliation status changes and reporting.
type statusHandler struct {
	statusService portssvc.StatusSvcFacade
}

func newStatusHandler(ss portssvc.StatusSvcFacade) *statusHandler {
	return &statusHandler{
		statusService: ss,
	}
}

func registerStatusRoutes(account *gin.RouterGroup, statusService portssvc.StatusSvcFacade) {
	h := newStatusHandler(statusService)

	account.GET("/reconciliation-summary", h.getReconciliationSummary)
	account.POST("/transactions/bulk-status", h.bulkChangeStatus)
	account.POST("/transactions/:transactionID/status", h.changeStatus)
	account.GET("/transactions/:transactionID/status-history", h.getStatusHistory)
}

func (h *statusHandler) changeStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ids, ok := pathIDs(c, orgParam, accountParam, transactionParam)
	if !ok {
		return
	}
	var req dto.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, logger, err)
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}
	logger = logger.With(slog.String("transaction_id", ids[2]), slog.String("status", string(req.Status)))

	entry, err := h.statusService.ChangeStatus(c.Request.Context(), ids[0], ids[1], ids[2], userID, req.ToInput())
	if err != nil {
		respondError(c, logger, err, "change transaction status")
		return
	}

	logger.Info("Transaction status changed")
	c.JSON(http.StatusOK, entry)
}

// bulkChangeStatus answers 200 when every transaction moved and 207 otherwise, with
// the successful and failed halves in the body either way.
func (h *statusHandler) bulkChangeStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ids, ok := pathIDs(c, orgParam, accountParam)
	if !ok {
		return
	}
	var req dto.BulkChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, logger, err)
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}
	logger = logger.With(slog.String("account_id", ids[1]), slog.String("status", string(req.Status)))

	result, err := h.statusService.BulkChangeStatus(c.Request.Context(), ids[0], ids[1], userID, req.ToInput())
	if err != nil {
		respondError(c, logger, err, "change transaction statuses")
		return
	}

	logger.Info("Bulk status change finished", slog.Int("successful", len(result.Successful)), slog.Int("failed", len(result.Failed)))
	status := http.StatusOK
	if !result.AllSucceeded() {
		status = http.StatusMultiStatus
	}
	c.JSON(status, result)
}

func (h *statusHandler) getReconciliationSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ids, ok := pathIDs(c, orgParam, accountParam)
	if !ok {
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	summary, err := h.statusService.GetReconciliationSummary(c.Request.Context(), ids[0], ids[1], userID)
	if err != nil {
		respondError(c, logger, err, "retrieve reconciliation summary")
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *statusHandler) getStatusHistory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ids, ok := pathIDs(c, orgParam, accountParam, transactionParam)
	if !ok {
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	history, err := h.statusService.GetStatusHistory(c.Request.Context(), ids[0], ids[1], ids[2], userID)
	if err != nil {
		respondError(c, logger, err, "retrieve status history")
		return
	}
	c.JSON(http.StatusOK, dto.StatusHistoryResponse{History: history})
}
