package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nathanyu/balance-transfer/internal/domain"
	"github.com/nathanyu/balance-transfer/internal/engine"
	"github.com/shopspring/decimal"
)

// Handler contains all HTTP handlers
type Handler struct {
	engine *engine.TransferEngine
}

// NewHandler creates a new handler over the transfer engine.
func NewHandler(eng *engine.TransferEngine) *Handler {
	return &Handler{engine: eng}
}

// TransferRequest is the request body for the transfer endpoint
type TransferRequest struct {
	SourceAccountID      string          `json:"source_account_id" binding:"required"`
	DestinationAccountID string          `json:"destination_account_id" binding:"required"`
	Amount               decimal.Decimal `json:"amount" binding:"required"`
}

// TransferResponse is the response body for the transfer endpoint
type TransferResponse struct {
	TransactionID string `json:"transaction_id"`
	Success       bool   `json:"success"`
	Message       string `json:"message,omitempty"`
}

// Transfer handles POST /v1/transfer
func (h *Handler) Transfer(c *gin.Context) {
	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	// Schema-level check; the engine re-validates inside the critical section.
	if !req.Amount.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "transfer amount must be positive",
		})
		return
	}

	txnID := uuid.Must(uuid.NewV7()).String()

	err := h.engine.Transfer(c.Request.Context(), txnID, domain.TransferRequest{
		SourceAccountID:      req.SourceAccountID,
		DestinationAccountID: req.DestinationAccountID,
		Amount:               req.Amount,
	})
	if err != nil {
		h.respondError(c, txnID, err)
		return
	}

	c.JSON(http.StatusOK, TransferResponse{
		TransactionID: txnID,
		Success:       true,
		Message:       "transfer completed",
	})
}

// respondError maps a typed engine failure to an HTTP response. Caller
// errors carry their message; anything unexpected becomes a generic 500 with
// the detail kept in the log.
func (h *Handler) respondError(c *gin.Context, txnID string, err error) {
	if domain.IsCallerError(err) {
		c.JSON(http.StatusBadRequest, TransferResponse{
			TransactionID: txnID,
			Success:       false,
			Message:       err.Error(),
		})
		return
	}

	slog.ErrorContext(c.Request.Context(), "transfer failed unexpectedly",
		slog.String("transaction_id", txnID),
		slog.String("error", err.Error()),
	)
	c.JSON(http.StatusInternalServerError, TransferResponse{
		TransactionID: txnID,
		Success:       false,
		Message:       "an unexpected error occurred",
	})
}

// CreateAccountRequest is the request body for account creation
type CreateAccountRequest struct {
	AccountID string          `json:"account_id" binding:"required"`
	Balance   decimal.Decimal `json:"balance"`
}

// CreateAccount handles POST /v1/accounts
func (h *Handler) CreateAccount(c *gin.Context) {
	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	account := domain.NewAccount(req.AccountID, req.Balance)
	if err := h.engine.CreateAccount(c.Request.Context(), account); err != nil {
		if domain.IsCallerError(err) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": err.Error(),
			})
			return
		}
		slog.ErrorContext(c.Request.Context(), "account creation failed unexpectedly",
			slog.String("account", req.AccountID),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "an unexpected error occurred",
		})
		return
	}

	c.JSON(http.StatusCreated, account)
}

// GetAccount handles GET /v1/accounts/:account_id
func (h *Handler) GetAccount(c *gin.Context) {
	accountID := c.Param("account_id")

	account, exists := h.engine.GetAccount(c.Request.Context(), accountID)
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "account not found: " + accountID,
		})
		return
	}

	c.JSON(http.StatusOK, account)
}

// AllAccountsResponse is the response for the account listing endpoint
type AllAccountsResponse struct {
	Accounts     map[string]domain.Account `json:"accounts"`
	TotalBalance decimal.Decimal           `json:"total_balance"`
	AccountCount int                       `json:"account_count"`
}

// ListAccounts handles GET /v1/accounts
func (h *Handler) ListAccounts(c *gin.Context) {
	accounts := h.engine.Accounts()

	total := decimal.Zero
	for _, account := range accounts {
		total = total.Add(account.Balance)
	}

	c.JSON(http.StatusOK, AllAccountsResponse{
		Accounts:     accounts,
		TotalBalance: total,
		AccountCount: len(accounts),
	})
}

// HealthResponse is the response for health check endpoint
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// Health handles GET /health
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

// SetupRoutes configures all API routes
func SetupRoutes(r *gin.Engine, h *Handler) {
	r.GET("/health", h.Health)

	v1 := r.Group("/v1")
	{
		v1.POST("/transfer", h.Transfer)
		v1.POST("/accounts", h.CreateAccount)
		v1.GET("/accounts", h.ListAccounts)
		v1.GET("/accounts/:account_id", h.GetAccount)
	}
}
