package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hance08/keabank/internal/model"
	"github.com/hance08/keabank/migrations"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "keabank.db"), migrations.FS, 2*time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStore(t *testing.T) {
	runStoreTests(t, func(t *testing.T) Store { return newTestSQLiteStore(t) })
}

func TestSQLiteStore_MigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keabank.db")

	s, err := NewSQLiteStore(path, migrations.FS, time.Second)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = NewSQLiteStore(path, migrations.FS, time.Second)
	require.NoError(t, err)
	defer s.Close()

	system, err := s.GetUserByID(context.Background(), "00000000-0000-0000-0000-000000000000")
	require.NoError(t, err)
	assert.True(t, system.IsSystem)

	users, err := s.GetAllUsers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users, "the system user is not listed")
}

func TestSQLiteStore_LedgerIsAppendOnly(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLiteStore(t)
	alice := seedUser(t, s)
	from := seedAccount(t, s, alice.ID, model.CurrencyUSD, "10")
	to := seedAccount(t, s, alice.ID, model.CurrencyEUR, "0")
	tx := seedTransfer(t, s, alice.ID, from, to, "1", time.Now().UTC())

	entry := &model.LedgerEntry{
		ID: newID(t), AccountID: from.ID, TransactionID: tx.ID,
		Amount: decimal.RequireFromString("-1"), Type: model.EntryTypeDebit,
		Currency: model.CurrencyUSD, CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, s.CreateLedgerEntry(ctx, entry))

	_, err := s.conn.ExecContext(ctx, "UPDATE ledger_entries SET amount = -2 WHERE id = ?", entry.ID)
	assert.ErrorContains(t, err, "append-only")

	_, err = s.conn.ExecContext(ctx, "DELETE FROM ledger_entries WHERE id = ?", entry.ID)
	assert.ErrorContains(t, err, "append-only")

	entries, err := s.GetEntriesByTransaction(ctx, tx.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "-1", entries[0].Amount.String())
}

func TestSQLiteStore_ExecTxIsNotReentrant(t *testing.T) {
	s := newTestSQLiteStore(t)
	err := s.ExecTx(context.Background(), func(uow UnitOfWork) error {
		inner, ok := uow.(Store)
		require.True(t, ok)
		return inner.ExecTx(context.Background(), func(UnitOfWork) error { return nil })
	})
	assert.ErrorContains(t, err, "already in a transaction")
}
