package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hance08/keabank/internal/apperr"
	"github.com/hance08/keabank/internal/model"
	"github.com/hance08/keabank/internal/store"
)

func TestValidateTransactionBalance_NoEntries(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	err := env.svc.Ledger.ValidateTransactionBalance(ctx, env.store, "0190b6a4-7c1e-7c3a-9a4f-1c2d3e4f5a6b")
	assert.True(t, apperr.Is(err, apperr.CodeUnbalanced))
}

func TestCreateTransferEntries(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice, a := env.seedUser(t, map[model.Currency]string{model.CurrencyUSD: "50"})
	_, b := env.seedUser(t, map[model.Currency]string{model.CurrencyUSD: "0"})
	from, to := a[model.CurrencyUSD], b[model.CurrencyUSD]

	tx, err := newTransaction(alice.ID, model.TransactionTypeTransfer, dec("20"), model.CurrencyUSD)
	require.NoError(t, err)
	tx.FromAccountID, tx.ToAccountID = &from.ID, &to.ID

	var entries []*model.LedgerEntry
	err = env.store.ExecTx(ctx, func(uow store.UnitOfWork) error {
		if err := uow.CreateTransaction(ctx, tx); err != nil {
			return err
		}
		entries, err = env.svc.Ledger.CreateTransferEntries(ctx, uow, from.ID, to.ID, dec("20"), tx.ID, model.CurrencyUSD)
		return err
	})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	stored, err := env.svc.Ledger.FindByTransactionID(ctx, tx.ID)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, model.EntryTypeDebit, stored[0].Type)
	assert.Equal(t, "-20.00", stored[0].Amount.StringFixed(2))
	assert.Equal(t, model.EntryTypeCredit, stored[1].Type)
	assert.Equal(t, "20.00", stored[1].Amount.StringFixed(2))

	assert.Equal(t, "30.00", env.balance(t, from.ID))
	assert.Equal(t, "20.00", env.balance(t, to.ID))
	env.assertReconciled(t, from, to)
}

func TestCreateTransferEntries_CurrencyMismatch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice, a := env.seedUser(t, map[model.Currency]string{model.CurrencyUSD: "50", model.CurrencyEUR: "0"})

	tx, err := newTransaction(alice.ID, model.TransactionTypeTransfer, dec("1"), model.CurrencyUSD)
	require.NoError(t, err)

	err = env.store.ExecTx(ctx, func(uow store.UnitOfWork) error {
		if err := uow.CreateTransaction(ctx, tx); err != nil {
			return err
		}
		_, err := env.svc.Ledger.CreateTransferEntries(ctx, uow,
			a[model.CurrencyUSD].ID, a[model.CurrencyEUR].ID, dec("1"), tx.ID, model.CurrencyUSD)
		return err
	})
	assert.True(t, apperr.Is(err, apperr.CodeInvalidOperation))
	assert.Equal(t, "50.00", env.balance(t, a[model.CurrencyUSD].ID))
}

func TestReconcileAndHistory(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice, a := env.seedUser(t, map[model.Currency]string{model.CurrencyUSD: "100"})
	bob, b := env.seedUser(t, map[model.Currency]string{model.CurrencyUSD: "0"})

	for range 3 {
		_, err := env.svc.Transaction.Transfer(ctx, TransferParams{
			FromUserID: alice.ID, ToUserID: bob.ID, Amount: dec("10.10"), Currency: model.CurrencyUSD,
		})
		require.NoError(t, err)
	}

	rec, err := env.svc.Ledger.Reconcile(ctx, a[model.CurrencyUSD].ID)
	require.NoError(t, err)
	assert.True(t, rec.Balanced)
	assert.Equal(t, "69.70", rec.StoredBalance.StringFixed(2))
	assert.Equal(t, "69.70", rec.LedgerBalance.StringFixed(2))
	assert.True(t, rec.Difference.IsZero())

	sum, err := env.svc.Ledger.SumEntriesForAccount(ctx, b[model.CurrencyUSD].ID)
	require.NoError(t, err)
	assert.Equal(t, "30.30", sum.StringFixed(2))

	history, err := env.svc.Ledger.FindByAccountID(ctx, a[model.CurrencyUSD].ID, store.EntryFilter{})
	require.NoError(t, err)
	require.Len(t, history, 4, "opening credit plus three debits")
	assert.Equal(t, model.EntryTypeDebit, history[0].Type)
	assert.Equal(t, model.EntryTypeCredit, history[3].Type)

	history, err = env.svc.Ledger.FindByAccountID(ctx, a[model.CurrencyUSD].ID, store.EntryFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, history, 2)

	history, err = env.svc.Ledger.FindByAccountID(ctx, a[model.CurrencyUSD].ID,
		store.EntryFilter{From: time.Now().Add(time.Hour)})
	require.NoError(t, err)
	assert.Empty(t, history)

	_, err = env.svc.Ledger.FindByAccountID(ctx, a[model.CurrencyUSD].ID, store.EntryFilter{Offset: -1})
	assert.True(t, apperr.Is(err, apperr.CodeValidation))
}
