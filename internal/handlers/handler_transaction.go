package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/customer_ledger/internal/core/ports/services"
	"github.com/SscSPs/customer_ledger/internal/dto"
	"github.com/SscSPs/customer_ledger/internal/middleware"
	"github.com/SscSPs/customer_ledger/internal/utils"
	"github.com/gin-gonic/gin"
)

// transactionHandler handles the append-only ledger write path and transaction listing.
type transactionHandler struct {
	transactionService portssvc.TransactionSvcFacade
	posthogClient      *utils.PosthogClientWrapper
}

func newTransactionHandler(ts portssvc.TransactionSvcFacade, posthogClient *utils.PosthogClientWrapper) *transactionHandler {
	return &transactionHandler{transactionService: ts, posthogClient: posthogClient}
}

// RegisterTransactionRoutes registers routes that record and list a customer's transactions,
// plus cross-customer transaction search. posthogClient may be nil.
func RegisterTransactionRoutes(rg *gin.RouterGroup, transactionService portssvc.TransactionSvcFacade, posthogClient *utils.PosthogClientWrapper) {
	h := newTransactionHandler(transactionService, posthogClient)

	customerTxns := rg.Group("/customers/:customer_id/transactions")
	{
		customerTxns.POST("/stock", h.recordStock)
		customerTxns.POST("/payment", h.recordPayment)
		customerTxns.GET("", h.listTransactions)
	}
	rg.GET("/transactions/search", h.searchTransactions)
}

// recordStock godoc
// @Summary Record stock deliveries
// @Description Appends one record per line. Either every line is recorded or none is.
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   customer_id path string true "Customer ID"
// @Param   stock body dto.RecordStockRequest true "Stock lines"
// @Success 201 {array} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Customer not found"
// @Failure 422 {object} map[string]string "Ledger invariant violated"
// @Failure 500 {object} map[string]string "Failed to record stock"
// @Security BearerAuth
// @Router /customers/{customer_id}/transactions/stock [post]
func (h *transactionHandler) recordStock(c *gin.Context) {
	customerID := c.Param("customer_id")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("customer_id", customerID))

	var req dto.RecordStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RecordStock", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	records, err := h.transactionService.RecordStockTransactions(c.Request.Context(), customerID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to record stock")
		return
	}

	middleware.PosthogEvent(c, h.posthogClient, "stock_recorded", map[string]any{
		"customer_id": customerID,
		"lines":       len(records),
	})
	c.JSON(http.StatusCreated, dto.ToListTransactionResponse(records))
}

// recordPayment godoc
// @Summary Record a payment
// @Description Appends a payment received from the customer. Bank transfers must name one of the customer's bank accounts.
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   customer_id path string true "Customer ID"
// @Param   payment body dto.RecordPaymentRequest true "Payment details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Customer not found"
// @Failure 422 {object} map[string]string "Ledger invariant violated"
// @Failure 500 {object} map[string]string "Failed to record payment"
// @Security BearerAuth
// @Router /customers/{customer_id}/transactions/payment [post]
func (h *transactionHandler) recordPayment(c *gin.Context) {
	customerID := c.Param("customer_id")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("customer_id", customerID))

	var req dto.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RecordPayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	record, err := h.transactionService.RecordPayment(c.Request.Context(), customerID, req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to record payment")
		return
	}

	middleware.PosthogEvent(c, h.posthogClient, "payment_recorded", map[string]any{
		"customer_id": customerID,
		"method":      string(record.Payment.Method),
	})
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(record))
}

// listTransactions godoc
// @Summary List a customer's transactions
// @Description Newest first, with reconciled running balance and payment status. Pass nextToken from the previous page to continue.
// @Tags transactions
// @Produce  json
// @Param   customer_id path string true "Customer ID"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Customer not found"
// @Failure 422 {object} map[string]string "Ledger invariant violated"
// @Failure 500 {object} map[string]string "Failed to list transactions"
// @Security BearerAuth
// @Router /customers/{customer_id}/transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	customerID := c.Param("customer_id")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("customer_id", customerID))

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListTransactions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.transactionService.ListTransactions(c.Request.Context(), customerID, params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// searchTransactions godoc
// @Summary Search transactions
// @Description Matches notes, external references and customer names across all customers
// @Tags transactions
// @Produce  json
// @Param   query query string true "Search text"
// @Param   limit query int false "Limit number of results" default(20)
// @Param   offset query int false "Offset for pagination" default(0)
// @Success 200 {array} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to search transactions"
// @Security BearerAuth
// @Router /transactions/search [get]
func (h *transactionHandler) searchTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.SearchTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for SearchTransactions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	records, err := h.transactionService.SearchTransactions(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to search transactions")
		return
	}
	c.JSON(http.StatusOK, dto.ToListTransactionResponse(records))
}
