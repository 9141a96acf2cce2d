package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nathanyu/balance-transfer/internal/engine"
	"github.com/nathanyu/balance-transfer/internal/notify"
	"github.com/nathanyu/balance-transfer/internal/store"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) (*gin.Engine, *engine.TransferEngine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	accounts := store.NewAccountStore()
	eng := engine.NewTransferEngine(accounts, notify.NewLogNotifier())
	t.Cleanup(eng.Close)

	router := gin.New()
	SetupRoutes(router, NewHandler(eng))
	return router, eng
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func createAccountHTTP(t *testing.T, router *gin.Engine, id string, balance string) {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/v1/accounts", gin.H{
		"account_id": id,
		"balance":    balance,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestCreateAccountEndpoint(t *testing.T) {
	router, eng := setupRouter(t)

	createAccountHTTP(t, router, "alice", "500")

	account, exists := eng.GetAccount(context.Background(), "alice")
	require.True(t, exists)
	assert.True(t, account.Balance.Equal(decimal.NewFromInt(500)))
}

func TestCreateDuplicateAccountEndpoint(t *testing.T) {
	router, _ := setupRouter(t)

	createAccountHTTP(t, router, "alice", "500")

	w := doJSON(t, router, http.MethodPost, "/v1/accounts", gin.H{
		"account_id": "alice",
		"balance":    "100",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already exists")
}

func TestGetAccountEndpoint(t *testing.T) {
	router, _ := setupRouter(t)
	createAccountHTTP(t, router, "alice", "500")

	w := doJSON(t, router, http.MethodGet, "/v1/accounts/alice", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		AccountID string          `json:"account_id"`
		Balance   decimal.Decimal `json:"balance"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "alice", resp.AccountID)
	assert.True(t, resp.Balance.Equal(decimal.NewFromInt(500)))
}

func TestGetUnknownAccountEndpoint(t *testing.T) {
	router, _ := setupRouter(t)

	w := doJSON(t, router, http.MethodGet, "/v1/accounts/ghost", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "ghost")
}

func TestListAccountsEndpoint(t *testing.T) {
	router, _ := setupRouter(t)
	createAccountHTTP(t, router, "a", "100")
	createAccountHTTP(t, router, "b", "250")

	w := doJSON(t, router, http.MethodGet, "/v1/accounts", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp AllAccountsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.AccountCount)
	assert.True(t, resp.TotalBalance.Equal(decimal.NewFromInt(350)))
}

func TestTransferEndpointSuccess(t *testing.T) {
	router, eng := setupRouter(t)
	createAccountHTTP(t, router, "x", "500")
	createAccountHTTP(t, router, "y", "200")

	w := doJSON(t, router, http.MethodPost, "/v1/transfer", gin.H{
		"source_account_id":      "x",
		"destination_account_id": "y",
		"amount":                 "100",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp TransferResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.TransactionID)

	x, _ := eng.GetAccount(context.Background(), "x")
	y, _ := eng.GetAccount(context.Background(), "y")
	assert.True(t, x.Balance.Equal(decimal.NewFromInt(400)))
	assert.True(t, y.Balance.Equal(decimal.NewFromInt(300)))
}

func TestTransferEndpointInsufficientFunds(t *testing.T) {
	router, eng := setupRouter(t)
	createAccountHTTP(t, router, "x", "300")
	createAccountHTTP(t, router, "y", "0")

	w := doJSON(t, router, http.MethodPost, "/v1/transfer", gin.H{
		"source_account_id":      "x",
		"destination_account_id": "y",
		"amount":                 "400",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "insufficient funds")

	x, _ := eng.GetAccount(context.Background(), "x")
	assert.True(t, x.Balance.Equal(decimal.NewFromInt(300)))
}

func TestTransferEndpointUnknownAccount(t *testing.T) {
	router, _ := setupRouter(t)
	createAccountHTTP(t, router, "y", "200")

	w := doJSON(t, router, http.MethodPost, "/v1/transfer", gin.H{
		"source_account_id":      "ghost",
		"destination_account_id": "y",
		"amount":                 "100",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "ghost")
}

func TestTransferEndpointNegativeAmount(t *testing.T) {
	router, _ := setupRouter(t)
	createAccountHTTP(t, router, "x", "500")
	createAccountHTTP(t, router, "y", "200")

	w := doJSON(t, router, http.MethodPost, "/v1/transfer", gin.H{
		"source_account_id":      "x",
		"destination_account_id": "y",
		"amount":                 "-100",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "positive")
}

func TestTransferEndpointMissingFields(t *testing.T) {
	router, _ := setupRouter(t)

	w := doJSON(t, router, http.MethodPost, "/v1/transfer", gin.H{
		"source_account_id": "x",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTransferEndpointMalformedBody(t *testing.T) {
	router, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/transfer", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := setupRouter(t)

	w := doJSON(t, router, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}
