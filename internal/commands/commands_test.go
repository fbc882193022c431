package commands

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SscSPs/treasury_app/internal/core/domain"
	"github.com/SscSPs/treasury_app/internal/core/services"
	"github.com/SscSPs/treasury_app/internal/dto"
	"github.com/SscSPs/treasury_app/internal/middleware"
	"github.com/SscSPs/treasury_app/internal/platform/config"
	"github.com/SscSPs/treasury_app/internal/repositories/memory"
)

func memoryConfig() *config.Config {
	return &config.Config{
		Port:            "0",
		StorageDriver:   config.StorageMemory,
		JWTSecret:       "commands-test-secret",
		CacheMaxEntries: 100,
		CacheTTL:        time.Minute,
		RateLimit:       "100-M",
	}
}

func TestRootCommand_Subcommands(t *testing.T) {
	root := NewRootCommand()

	for _, path := range [][]string{{"serve"}, {"migrate", "up"}, {"migrate", "down"}, {"audit-balances"}, {"dev-token"}} {
		cmd, _, err := root.Find(path)
		require.NoError(t, err, "command %v", path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}
	assert.Contains(t, root.Version, "dev")
}

func TestAuditBalancesCommand_Flags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"missing org", []string{"audit-balances"}, `required flag(s) "org" not set`},
		{"malformed org", []string{"audit-balances", "--org", "not-a-uuid"}, "invalid organization ID"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := NewRootCommand()
			root.SetOut(io.Discard)
			root.SetErr(io.Discard)
			root.SetArgs(tt.args)

			err := root.Execute()

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDevTokenCommand(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", config.StorageMemory)
	t.Setenv("JWT_SECRET", "dev-token-secret")
	userID := uuid.NewString()
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"dev-token", "--user", userID, "--ttl", "1h"})

	require.NoError(t, root.Execute())

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", middleware.AuthMiddleware("dev-token-secret"), func(c *gin.Context) {
		id, _ := middleware.GetUserIDFromContext(c)
		c.String(http.StatusOK, id)
	})
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(out.String()))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID, w.Body.String())
}

func TestMigrateCommand_RequiresPostgres(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", config.StorageMemory)
	root := NewRootCommand()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"migrate", "up"})

	err := root.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "migrations require STORAGE_DRIVER=postgres")
}

func TestRunAudit(t *testing.T) {
	ctx := context.Background()
	cfg := memoryConfig()
	b := &backend{repos: memory.NewRepositoryProvider(), close: func() {}}
	caches, closeCaches, err := processCaches(cfg)
	require.NoError(t, err)
	defer closeCaches()
	container := newContainer(b, caches)

	userID := uuid.NewString()
	org, err := container.Organization.CreateOrganization(ctx, dto.CreateOrganizationRequest{Name: "Audit Org"}, userID)
	require.NoError(t, err)
	opening := decimal.NewFromInt(300)
	acc, err := container.Account.CreateAccount(ctx, org.OrganizationID,
		dto.CreateAccountRequest{Name: "Operating", AccountType: domain.Checking, CurrencyCode: "USD", OpeningBalance: &opening}, userID)
	require.NoError(t, err)
	_, err = container.Transaction.CreateTransaction(ctx, org.OrganizationID, acc.AccountID, domain.CreateTransactionInput{
		UserID:          userID,
		TransactionType: domain.Expense,
		Amount:          decimal.NewFromInt(45),
		Date:            time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC),
		Splits:          []domain.SplitInput{{Amount: decimal.NewFromInt(45), Category: domain.CategoryRef{CategoryName: "Supplies"}}},
	})
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, runAudit(ctx, &out, container.Audit, org.OrganizationID))
	assert.Contains(t, out.String(), "255.00")
	assert.Contains(t, out.String(), "1 accounts audited, 0 drifted")

	// Move the stored balance behind the ledger's back.
	tx, err := b.repos.TransactionRepo.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, b.repos.AccountRepo.UpdateAccountBalancesInTx(ctx, tx,
		map[string]decimal.Decimal{acc.AccountID: decimal.NewFromInt(7)}, userID, time.Now()))
	require.NoError(t, b.repos.TransactionRepo.Commit(ctx, tx))

	out.Reset()
	err = runAudit(ctx, &out, container.Audit, org.OrganizationID)
	assert.ErrorIs(t, err, ErrBalanceDrift)
	assert.Contains(t, out.String(), "7.00 !")
	assert.Contains(t, out.String(), "1 accounts audited, 1 drifted")
}

func TestNewRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := memoryConfig()
	b, err := openBackend(context.Background(), cfg, true)
	require.NoError(t, err)
	defer b.close()

	router, err := newRouter(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), newContainer(b, services.Caches{}))
	require.NoError(t, err)

	t.Run("health is public", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "OK", w.Body.String())
		assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
	})

	t.Run("api requires a token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/organizations", nil)
		req.Header.Set(middleware.RequestIDHeader, "req-123")
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "req-123", w.Header().Get(middleware.RequestIDHeader))
	})

	t.Run("invalid rate limit is rejected", func(t *testing.T) {
		bad := memoryConfig()
		bad.RateLimit = "lots"
		_, err := newRouter(bad, slog.Default(), newContainer(b, services.Caches{}))
		assert.Error(t, err)
	})
}
