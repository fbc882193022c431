package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/treasury_app/internal/core/ports/services"
	"github.com/SscSPs/treasury_app/internal/dto"
	"github.com/SscSPs/treasury_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// transactionHandler handles HTTP requests for the ledger transactions of an account.
type transactionHandler struct {
	transactionService portssvc.TransactionSvcFacade
	guard              portssvc.ReconciledGuardSvc
}

func newTransactionHandler(ts portssvc.TransactionSvcFacade, guard portssvc.ReconciledGuardSvc) *transactionHandler {
	return &transactionHandler{
		transactionService: ts,
		guard:              guard,
	}
}

func registerTransactionRoutes(account *gin.RouterGroup, transactionService portssvc.TransactionSvcFacade, guard portssvc.ReconciledGuardSvc) {
	h := newTransactionHandler(transactionService, guard)

	transactions := account.Group("/transactions")
	{
		transactions.POST("", h.createTransaction)
		transactions.GET("", h.listTransactions)
		transactions.GET("/:transactionID", h.getTransaction)
		transactions.PATCH("/:transactionID", h.updateTransaction)
		transactions.DELETE("/:transactionID", h.deleteTransaction)
		transactions.GET("/:transactionID/history", h.getEditHistory)
	}
}

// createTransaction records an income, expense or transfer and moves the balances.
func (h *transactionHandler) createTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ids, ok := pathIDs(c, orgParam, accountParam)
	if !ok {
		return
	}
	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, logger, err)
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("account_id", ids[1]))
	logger.Info("Received request to create transaction",
		slog.String("transaction_type", string(req.TransactionType)),
		slog.String("amount", req.Amount.String()),
		slog.Int("splits", len(req.Splits)))

	txn, err := h.transactionService.CreateTransaction(c.Request.Context(), ids[0], ids[1], req.ToCreateTransactionInput(userID))
	if err != nil {
		respondError(c, logger, err, "create transaction")
		return
	}

	logger.Info("Transaction created successfully", slog.String("transaction_id", txn.TransactionID))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// listTransactions pages through an account's transactions, newest first.
func (h *transactionHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ids, ok := pathIDs(c, orgParam, accountParam)
	if !ok {
		return
	}
	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindingError(c, logger, err)
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	txns, nextToken, err := h.transactionService.ListTransactions(c.Request.Context(), ids[0], ids[1], userID, params.ToFilter())
	if err != nil {
		respondError(c, logger, err, "list transactions")
		return
	}
	c.JSON(http.StatusOK, dto.ListTransactionsResponse{
		Transactions: dto.ToTransactionResponses(txns),
		NextToken:    nextToken,
	})
}

func (h *transactionHandler) getTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ids, ok := pathIDs(c, orgParam, accountParam, transactionParam)
	if !ok {
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	txn, err := h.transactionService.GetTransaction(c.Request.Context(), ids[0], ids[1], ids[2], userID)
	if err != nil {
		respondError(c, logger, err, "retrieve transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// updateTransaction applies a partial update. A stale version answers 409 with the
// current server state.
func (h *transactionHandler) updateTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ids, ok := pathIDs(c, orgParam, accountParam, transactionParam)
	if !ok {
		return
	}
	var req dto.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, logger, err)
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}
	logger = logger.With(slog.String("transaction_id", ids[2]))

	policy, err := req.VersionPolicy()
	if err != nil {
		respondError(c, logger, err, "update transaction")
		return
	}
	if err := h.guard.ValidateNotReconciledForAccount(c.Request.Context(), ids[0], ids[1], ids[2], userID); err != nil {
		respondError(c, logger, err, "update transaction")
		return
	}

	txn, err := h.transactionService.UpdateTransaction(c.Request.Context(), ids[0], ids[1], ids[2], req.ToPatch(), policy, userID)
	if err != nil {
		respondError(c, logger, err, "update transaction")
		return
	}

	logger.Info("Transaction updated successfully", slog.Int("version", txn.Version), slog.Bool("force", req.Force))
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// deleteTransaction removes a transaction that is not reconciled and reverses its effect.
func (h *transactionHandler) deleteTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ids, ok := pathIDs(c, orgParam, accountParam, transactionParam)
	if !ok {
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}
	logger = logger.With(slog.String("transaction_id", ids[2]))

	if err := h.guard.ValidateNotReconciledForAccount(c.Request.Context(), ids[0], ids[1], ids[2], userID); err != nil {
		respondError(c, logger, err, "delete transaction")
		return
	}
	if err := h.transactionService.DeleteTransaction(c.Request.Context(), ids[0], ids[1], ids[2], userID); err != nil {
		respondError(c, logger, err, "delete transaction")
		return
	}

	logger.Info("Transaction deleted successfully")
	c.Status(http.StatusNoContent)
}

func (h *transactionHandler) getEditHistory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ids, ok := pathIDs(c, orgParam, accountParam, transactionParam)
	if !ok {
		return
	}
	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	history, err := h.transactionService.GetEditHistory(c.Request.Context(), ids[0], ids[1], ids[2], userID)
	if err != nil {
		respondError(c, logger, err, "retrieve edit history")
		return
	}
	c.JSON(http.StatusOK, dto.EditHistoryResponse{History: history})
}
