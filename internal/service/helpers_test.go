package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/hance08/keabank/internal/model"
	"github.com/hance08/keabank/internal/store"
	"github.com/hance08/keabank/migrations"
)

type fixedRate string

func (r fixedRate) ExchangeRate(context.Context) (decimal.Decimal, error) {
	return decimal.RequireFromString(string(r)), nil
}

type fixedIdentity string

func (i fixedIdentity) CurrentIdentity(context.Context) (string, error) {
	return string(i), nil
}

type testEnv struct {
	store store.Store
	svc   *Service
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "keabank.db"), migrations.FS, 5*time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

// forEachBackend runs fn against the SQLite store and, when
// KEABANK_TEST_POSTGRES_DSN names a scratch database, the PostgreSQL store.
// SQLite serializes every writer, so only the PostgreSQL run exercises the
// row locks.
func forEachBackend(t *testing.T, fn func(t *testing.T, env *testEnv)) {
	t.Run("sqlite", func(t *testing.T) {
		fn(t, newTestEnv(t))
	})
	t.Run("postgres", func(t *testing.T) {
		dsn := os.Getenv("KEABANK_TEST_POSTGRES_DSN")
		if dsn == "" {
			t.Skip("KEABANK_TEST_POSTGRES_DSN not set")
		}
		st, err := store.NewPostgresStore(context.Background(), dsn, 16, migrations.FS, 5*time.Second)
		require.NoError(t, err)
		t.Cleanup(func() { _ = st.Close() })
		fn(t, &testEnv{store: st, svc: newTestService(t, st)})
	})
}

func newTestService(t *testing.T, st store.Store) *Service {
	t.Helper()
	cfg := Config{OpeningBalances: map[model.Currency]decimal.Decimal{
		model.CurrencyUSD: decimal.RequireFromString("1000"),
		model.CurrencyEUR: decimal.RequireFromString("500"),
	}}
	svc := NewService(st, fixedRate("0.92"), fixedIdentity(""), cfg, zaptest.NewLogger(t))
	require.NoError(t, svc.Account.EnsureSystemAccounts(context.Background()))
	return svc
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	st := newTestStore(t)
	return &testEnv{store: st, svc: newTestService(t, st)}
}

// seedUser registers a user directly and opens one account per entry of
// balances.
func (e *testEnv) seedUser(t *testing.T, balances map[model.Currency]string) (*model.User, map[model.Currency]*model.Account) {
	t.Helper()
	ctx := context.Background()

	id, err := uuid.NewV7()
	require.NoError(t, err)
	user := &model.User{ID: id.String(), Email: id.String() + "@example.com", CreatedAt: time.Now().UTC()}
	require.NoError(t, e.store.CreateUser(ctx, user))

	accounts := make(map[model.Currency]*model.Account)
	for currency, balance := range balances {
		acc, err := e.svc.Transaction.OpenAccount(ctx, user.ID, currency, decimal.RequireFromString(balance))
		require.NoError(t, err)
		accounts[currency] = acc
	}
	return user, accounts
}

func (e *testEnv) balance(t *testing.T, accountID string) string {
	t.Helper()
	b, err := e.svc.Account.GetBalance(context.Background(), accountID)
	require.NoError(t, err)
	return b.StringFixed(2)
}

func (e *testEnv) assertReconciled(t *testing.T, accounts ...*model.Account) {
	t.Helper()
	for _, acc := range accounts {
		rec, err := e.svc.Ledger.Reconcile(context.Background(), acc.ID)
		require.NoError(t, err)
		assert.True(t, rec.Balanced, "account %s: stored %s, ledger %s",
			acc.ID, rec.StoredBalance, rec.LedgerBalance)
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
