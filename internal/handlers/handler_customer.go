package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/customer_ledger/internal/core/ports/services"
	"github.com/SscSPs/customer_ledger/internal/dto"
	"github.com/SscSPs/customer_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// customerHandler handles HTTP requests related to customers and their bank accounts.
type customerHandler struct {
	customerService portssvc.CustomerSvcFacade
}

func newCustomerHandler(cs portssvc.CustomerSvcFacade) *customerHandler {
	return &customerHandler{customerService: cs}
}

// RegisterCustomerRoutes registers customer and bank account routes on rg.
func RegisterCustomerRoutes(rg *gin.RouterGroup, customerService portssvc.CustomerSvcFacade) {
	h := newCustomerHandler(customerService)

	customers := rg.Group("/customers")
	{
		customers.POST("", h.createCustomer)
		customers.GET("/search", h.searchCustomers)
		customers.GET("/:customer_id", h.getCustomer)
		customers.POST("/:customer_id/bank-accounts", h.addBankAccount)
		customers.GET("/:customer_id/bank-accounts", h.listBankAccounts)
		customers.PUT("/:customer_id/bank-accounts/:bank_account_id/default", h.setDefaultBankAccount)
	}
}

// createCustomer godoc
// @Summary Create a customer
// @Description Creates a customer with optional bank accounts. PAN and GST numbers must be unique.
// @Tags customers
// @Accept  json
// @Produce  json
// @Param   customer body dto.CreateCustomerRequest true "Customer details"
// @Success 201 {object} dto.CustomerResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} dto.DuplicateCustomerResponse "PAN or GST number already in use"
// @Failure 500 {object} map[string]string "Failed to create customer"
// @Security BearerAuth
// @Router /customers [post]
func (h *customerHandler) createCustomer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateCustomer", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	customer, accounts, err := h.customerService.CreateCustomer(c.Request.Context(), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create customer")
		return
	}

	logger.Info("Customer created successfully", slog.String("customer_id", customer.CustomerID))
	c.JSON(http.StatusCreated, dto.ToCustomerResponse(customer, accounts))
}

// getCustomer godoc
// @Summary Get a customer by ID
// @Description Retrieves a customer and its bank accounts
// @Tags customers
// @Produce  json
// @Param   customer_id path string true "Customer ID"
// @Success 200 {object} dto.CustomerResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Customer not found"
// @Failure 500 {object} map[string]string "Failed to retrieve customer"
// @Security BearerAuth
// @Router /customers/{customer_id} [get]
func (h *customerHandler) getCustomer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("customer_id", c.Param("customer_id")))

	customer, accounts, err := h.customerService.GetCustomer(c.Request.Context(), c.Param("customer_id"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve customer")
		return
	}
	c.JSON(http.StatusOK, dto.ToCustomerResponse(customer, accounts))
}

// searchCustomers godoc
// @Summary Search customers
// @Description Case-insensitive match on name, phone, email, company, PAN and GST
// @Tags customers
// @Produce  json
// @Param   query query string true "Search text"
// @Param   limit query int false "Limit number of results" default(20)
// @Param   offset query int false "Offset for pagination" default(0)
// @Success 200 {object} dto.ListCustomersResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to search customers"
// @Security BearerAuth
// @Router /customers/search [get]
func (h *customerHandler) searchCustomers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.SearchCustomersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for SearchCustomers", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	customers, err := h.customerService.SearchCustomers(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to search customers")
		return
	}
	c.JSON(http.StatusOK, dto.ListCustomersResponse{Customers: dto.ToListCustomerResponse(customers)})
}

// addBankAccount godoc
// @Summary Add a bank account
// @Description Adds a bank account to a customer. The first account, or one flagged isDefault, becomes the default.
// @Tags bank-accounts
// @Accept  json
// @Produce  json
// @Param   customer_id path string true "Customer ID"
// @Param   account body dto.CreateBankAccountRequest true "Bank account details"
// @Success 201 {object} dto.BankAccountResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Customer not found"
// @Failure 500 {object} map[string]string "Failed to add bank account"
// @Security BearerAuth
// @Router /customers/{customer_id}/bank-accounts [post]
func (h *customerHandler) addBankAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("customer_id", c.Param("customer_id")))
	var req dto.CreateBankAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AddBankAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	account, err := h.customerService.AddBankAccount(c.Request.Context(), c.Param("customer_id"), req, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to add bank account")
		return
	}

	logger.Info("Bank account added", slog.String("bank_account_id", account.BankAccountID), slog.Bool("is_default", account.IsDefault))
	c.JSON(http.StatusCreated, dto.ToBankAccountResponse(account))
}

// listBankAccounts godoc
// @Summary List bank accounts
// @Description Lists a customer's bank accounts, default first
// @Tags bank-accounts
// @Produce  json
// @Param   customer_id path string true "Customer ID"
// @Success 200 {object} dto.ListBankAccountsResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Customer not found"
// @Failure 500 {object} map[string]string "Failed to list bank accounts"
// @Security BearerAuth
// @Router /customers/{customer_id}/bank-accounts [get]
func (h *customerHandler) listBankAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("customer_id", c.Param("customer_id")))

	accounts, err := h.customerService.ListBankAccounts(c.Request.Context(), c.Param("customer_id"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list bank accounts")
		return
	}
	c.JSON(http.StatusOK, dto.ListBankAccountsResponse{BankAccounts: dto.ToListBankAccountResponse(accounts)})
}

// setDefaultBankAccount godoc
// @Summary Set the default bank account
// @Description Makes the account the customer's only default account
// @Tags bank-accounts
// @Produce  json
// @Param   customer_id path string true "Customer ID"
// @Param   bank_account_id path string true "Bank account ID"
// @Success 200 {object} dto.BankAccountResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Customer or bank account not found"
// @Failure 500 {object} map[string]string "Failed to set default bank account"
// @Security BearerAuth
// @Router /customers/{customer_id}/bank-accounts/{bank_account_id}/default [put]
func (h *customerHandler) setDefaultBankAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(
		slog.String("customer_id", c.Param("customer_id")),
		slog.String("bank_account_id", c.Param("bank_account_id")),
	)

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	account, err := h.customerService.SetDefaultBankAccount(c.Request.Context(), c.Param("customer_id"), c.Param("bank_account_id"), userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to set default bank account")
		return
	}

	logger.Info("Default bank account changed")
	c.JSON(http.StatusOK, dto.ToBankAccountResponse(account))
}
