package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/customer_ledger/internal/core/ports/services"
	"github.com/SscSPs/customer_ledger/internal/dto"
	"github.com/SscSPs/customer_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ledgerHandler serves reconciliation results. Every response is recomputed from the records.
type ledgerHandler struct {
	ledgerService portssvc.LedgerReaderSvc
}

func newLedgerHandler(ls portssvc.LedgerReaderSvc) *ledgerHandler {
	return &ledgerHandler{ledgerService: ls}
}

// RegisterLedgerRoutes registers balance, ledger and insights routes on rg.
func RegisterLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerReaderSvc) {
	h := newLedgerHandler(ledgerService)

	rg.GET("/customers/:customer_id/balance", h.getBalance)
	rg.GET("/customers/:customer_id/ledger", h.getLedger)
	rg.GET("/transactions/insights", h.getInsights)
}

// getBalance godoc
// @Summary Get a customer's balance
// @Description Total pending, total paid and net balance. A negative net balance is an advance held for the customer.
// @Tags ledger
// @Produce  json
// @Param   customer_id path string true "Customer ID"
// @Success 200 {object} dto.BalanceResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Customer not found"
// @Failure 422 {object} map[string]string "Ledger invariant violated"
// @Failure 500 {object} map[string]string "Failed to compute balance"
// @Security BearerAuth
// @Router /customers/{customer_id}/balance [get]
func (h *ledgerHandler) getBalance(c *gin.Context) {
	customerID := c.Param("customer_id")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("customer_id", customerID))

	summary, err := h.ledgerService.GetBalance(c.Request.Context(), customerID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to compute balance")
		return
	}
	c.JSON(http.StatusOK, dto.ToBalanceResponse(customerID, *summary))
}

// getLedger godoc
// @Summary Get a customer's reconciled ledger
// @Description Every record in chronological order with running balance, payment status and allocation details
// @Tags ledger
// @Produce  json
// @Param   customer_id path string true "Customer ID"
// @Success 200 {object} dto.LedgerResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Customer not found"
// @Failure 422 {object} map[string]string "Ledger invariant violated"
// @Failure 500 {object} map[string]string "Failed to reconcile ledger"
// @Security BearerAuth
// @Router /customers/{customer_id}/ledger [get]
func (h *ledgerHandler) getLedger(c *gin.Context) {
	customerID := c.Param("customer_id")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("customer_id", customerID))

	res, err := h.ledgerService.ReconcileCustomer(c.Request.Context(), customerID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to reconcile ledger")
		return
	}
	c.JSON(http.StatusOK, dto.ToLedgerResponse(res))
}

// getInsights godoc
// @Summary Stock insights
// @Description Purchases per quality category and per day for a time window (today, week, month, all)
// @Tags ledger
// @Produce  json
// @Param   timeFrame query string false "Time window" Enums(today, week, month, all)
// @Param   qualityTypes[] query []string false "Quality categories" collectionFormat(multi)
// @Param   customerID query string false "Restrict to one customer"
// @Success 200 {object} dto.InsightsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Customer not found"
// @Failure 500 {object} map[string]string "Failed to compute insights"
// @Security BearerAuth
// @Router /transactions/insights [get]
func (h *ledgerHandler) getInsights(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.InsightsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for Insights", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	res, err := h.ledgerService.GetInsights(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to compute insights")
		return
	}
	c.JSON(http.StatusOK, dto.ToInsightsResponse(res))
}
