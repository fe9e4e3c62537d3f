package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hance08/keabank/internal/model"
)

// The same behavior is checked against every driver.
func runStoreTests(t *testing.T, open func(t *testing.T) Store) {
	t.Run("UserAndAccount", func(t *testing.T) { testUserAndAccount(t, open(t)) })
	t.Run("DuplicateAccount", func(t *testing.T) { testDuplicateAccount(t, open(t)) })
	t.Run("NegativeBalanceRejected", func(t *testing.T) { testNegativeBalanceRejected(t, open(t)) })
	t.Run("ExecTxRollback", func(t *testing.T) { testExecTxRollback(t, open(t)) })
	t.Run("LockAccount", func(t *testing.T) { testLockAccount(t, open(t)) })
	t.Run("LockAfterReferencingInsert", func(t *testing.T) { testLockAfterReferencingInsert(t, open(t)) })
	t.Run("LedgerEntries", func(t *testing.T) { testLedgerEntries(t, open(t)) })
	t.Run("ListTransactions", func(t *testing.T) { testListTransactions(t, open(t)) })
}

func newID(t *testing.T) string {
	t.Helper()
	id, err := uuid.NewV7()
	require.NoError(t, err)
	return id.String()
}

func seedUser(t *testing.T, s Store) *model.User {
	t.Helper()
	id := newID(t)
	user := &model.User{ID: id, Email: id + "@example.com", CreatedAt: time.Now().UTC()}
	require.NoError(t, s.CreateUser(context.Background(), user))
	return user
}

func seedAccount(t *testing.T, s Store, userID string, currency model.Currency, balance string) *model.Account {
	t.Helper()
	now := time.Now().UTC()
	acc := &model.Account{
		ID:        newID(t),
		UserID:    userID,
		Currency:  currency,
		Balance:   decimal.RequireFromString(balance),
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, s.CreateAccount(context.Background(), acc))
	return acc
}

func seedTransfer(t *testing.T, s Store, userID string, from, to *model.Account, amount string, at time.Time) *model.Transaction {
	t.Helper()
	tx := &model.Transaction{
		ID:            newID(t),
		UserID:        userID,
		Type:          model.TransactionTypeTransfer,
		Status:        model.TransactionStatusCompleted,
		Amount:        decimal.RequireFromString(amount),
		Currency:      from.Currency,
		FromAccountID: &from.ID,
		ToAccountID:   &to.ID,
		ToUserID:      &to.UserID,
		CreatedAt:     at,
		UpdatedAt:     at,
	}
	require.NoError(t, s.CreateTransaction(context.Background(), tx))
	return tx
}

func testUserAndAccount(t *testing.T, s Store) {
	ctx := context.Background()
	user := seedUser(t, s)

	exists, err := s.UserExists(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = s.UserExists(ctx, newID(t))
	require.NoError(t, err)
	assert.False(t, exists)

	got, err := s.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, got.Email)

	_, err = s.GetUserByID(ctx, newID(t))
	assert.ErrorIs(t, err, ErrRecordNotFound)

	usd := seedAccount(t, s, user.ID, model.CurrencyUSD, "1000.00")
	seedAccount(t, s, user.ID, model.CurrencyEUR, "500.50")

	acc, err := s.GetAccountByID(ctx, usd.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, acc.UserID)
	assert.Equal(t, model.CurrencyUSD, acc.Currency)
	assert.True(t, decimal.RequireFromString("1000").Equal(acc.Balance))

	acc, err = s.GetAccountByUserAndCurrency(ctx, user.ID, model.CurrencyEUR)
	require.NoError(t, err)
	assert.Equal(t, "500.5", acc.Balance.String())

	_, err = s.GetAccountByUserAndCurrency(ctx, user.ID, model.CurrencyGBP)
	assert.ErrorIs(t, err, ErrRecordNotFound)

	accounts, err := s.GetAccountsByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, model.CurrencyEUR, accounts[0].Currency)
	assert.Equal(t, model.CurrencyUSD, accounts[1].Currency)

	require.NoError(t, s.UpdateAccountBalance(ctx, usd.ID, decimal.RequireFromString("12.34"), time.Now().UTC()))
	acc, err = s.GetAccountByID(ctx, usd.ID)
	require.NoError(t, err)
	assert.Equal(t, "12.34", acc.Balance.String())

	err = s.UpdateAccountBalance(ctx, newID(t), decimal.Zero, time.Now().UTC())
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func testDuplicateAccount(t *testing.T, s Store) {
	user := seedUser(t, s)
	seedAccount(t, s, user.ID, model.CurrencyUSD, "0")

	now := time.Now().UTC()
	err := s.CreateAccount(context.Background(), &model.Account{
		ID: newID(t), UserID: user.ID, Currency: model.CurrencyUSD, CreatedAt: now, UpdatedAt: now,
	})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func testNegativeBalanceRejected(t *testing.T, s Store) {
	user := seedUser(t, s)
	acc := seedAccount(t, s, user.ID, model.CurrencyUSD, "10")

	err := s.UpdateAccountBalance(context.Background(), acc.ID, decimal.RequireFromString("-0.01"), time.Now().UTC())
	assert.ErrorIs(t, err, ErrConstraintViolation)
}

func testExecTxRollback(t *testing.T, s Store) {
	ctx := context.Background()
	user := seedUser(t, s)
	acc := seedAccount(t, s, user.ID, model.CurrencyUSD, "100")

	boom := errors.New("boom")
	err := s.ExecTx(ctx, func(uow UnitOfWork) error {
		if err := uow.UpdateAccountBalance(ctx, acc.ID, decimal.RequireFromString("1"), time.Now().UTC()); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := s.GetAccountByID(ctx, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, "100", got.Balance.String())

	err = s.ExecTx(ctx, func(uow UnitOfWork) error {
		return uow.UpdateAccountBalance(ctx, acc.ID, decimal.RequireFromString("7.5"), time.Now().UTC())
	})
	require.NoError(t, err)

	got, err = s.GetAccountByID(ctx, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, "7.5", got.Balance.String())

	assert.Panics(t, func() {
		_ = s.ExecTx(ctx, func(uow UnitOfWork) error {
			_ = uow.UpdateAccountBalance(ctx, acc.ID, decimal.Zero, time.Now().UTC())
			panic("unexpected")
		})
	})
	got, err = s.GetAccountByID(ctx, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, "7.5", got.Balance.String())
}

func testLockAccount(t *testing.T, s Store) {
	ctx := context.Background()
	user := seedUser(t, s)
	acc := seedAccount(t, s, user.ID, model.CurrencyEUR, "3")

	uow, ok := s.(UnitOfWork)
	require.True(t, ok)
	_, err := uow.LockAccount(ctx, acc.ID)
	assert.Error(t, err, "locking outside a unit of work must fail")

	err = s.ExecTx(ctx, func(uow UnitOfWork) error {
		locked, err := uow.LockAccount(ctx, acc.ID)
		if err != nil {
			return err
		}
		assert.Equal(t, "3", locked.Balance.String())

		_, err = uow.LockAccount(ctx, newID(t))
		assert.ErrorIs(t, err, ErrRecordNotFound)
		return nil
	})
	require.NoError(t, err)
}

func testLedgerEntries(t *testing.T, s Store) {
	ctx := context.Background()
	alice := seedUser(t, s)
	bob := seedUser(t, s)
	from := seedAccount(t, s, alice.ID, model.CurrencyUSD, "100")
	to := seedAccount(t, s, bob.ID, model.CurrencyUSD, "0")

	base := time.Now().UTC().Truncate(time.Second)
	var txIDs []string
	for i := range 3 {
		at := base.Add(time.Duration(i) * time.Minute)
		tx := seedTransfer(t, s, alice.ID, from, to, "10", at)
		txIDs = append(txIDs, tx.ID)

		debit := &model.LedgerEntry{
			ID: newID(t), AccountID: from.ID, TransactionID: tx.ID,
			Amount: decimal.RequireFromString("-10"), Type: model.EntryTypeDebit,
			Currency: model.CurrencyUSD, CreatedAt: at,
		}
		credit := &model.LedgerEntry{
			ID: newID(t), AccountID: to.ID, TransactionID: tx.ID,
			Amount: decimal.RequireFromString("10"), Type: model.EntryTypeCredit,
			Currency: model.CurrencyUSD, CreatedAt: at,
		}
		require.NoError(t, s.CreateLedgerEntry(ctx, debit))
		require.NoError(t, s.CreateLedgerEntry(ctx, credit))
	}

	entries, err := s.GetEntriesByTransaction(ctx, txIDs[0])
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, model.EntryTypeDebit, entries[0].Type)
	assert.Equal(t, model.EntryTypeCredit, entries[1].Type)

	sum, err := s.SumEntriesByAccount(ctx, from.ID)
	require.NoError(t, err)
	assert.Equal(t, "-30", sum.String())

	sum, err = s.SumEntriesByAccount(ctx, seedAccount(t, s, bob.ID, model.CurrencyEUR, "0").ID)
	require.NoError(t, err)
	assert.True(t, sum.IsZero())

	history, err := s.GetEntriesByAccount(ctx, to.ID, EntryFilter{})
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, txIDs[2], history[0].TransactionID, "newest first")

	history, err = s.GetEntriesByAccount(ctx, to.ID, EntryFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, txIDs[1], history[0].TransactionID)

	history, err = s.GetEntriesByAccount(ctx, to.ID, EntryFilter{Offset: 2})
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, txIDs[0], history[0].TransactionID)

	history, err = s.GetEntriesByAccount(ctx, to.ID, EntryFilter{From: base.Add(30 * time.Second)})
	require.NoError(t, err)
	assert.Len(t, history, 2)

	bad := &model.LedgerEntry{
		ID: newID(t), AccountID: to.ID, TransactionID: txIDs[0],
		Amount: decimal.RequireFromString("5"), Type: model.EntryTypeDebit,
		Currency: model.CurrencyUSD, CreatedAt: base,
	}
	assert.ErrorIs(t, s.CreateLedgerEntry(ctx, bad), ErrConstraintViolation, "debits must be negative")
}

func testListTransactions(t *testing.T, s Store) {
	ctx := context.Background()
	alice := seedUser(t, s)
	bob := seedUser(t, s)
	usd := seedAccount(t, s, alice.ID, model.CurrencyUSD, "100")
	eur := seedAccount(t, s, alice.ID, model.CurrencyEUR, "100")
	bobUSD := seedAccount(t, s, bob.ID, model.CurrencyUSD, "0")

	base := time.Now().UTC().Truncate(time.Second)
	for i := range 5 {
		seedTransfer(t, s, alice.ID, usd, bobUSD, "1", base.Add(time.Duration(i)*time.Second))
	}

	at := base.Add(10 * time.Second)
	exchange := &model.Transaction{
		ID:              newID(t),
		UserID:          alice.ID,
		Type:            model.TransactionTypeExchange,
		Status:          model.TransactionStatusCompleted,
		Amount:          decimal.RequireFromString("100"),
		Currency:        model.CurrencyUSD,
		FromAccountID:   &usd.ID,
		ToAccountID:     &eur.ID,
		ExchangeRate:    decimal.NewNullDecimal(decimal.RequireFromString("0.92")),
		ConvertedAmount: decimal.NewNullDecimal(decimal.RequireFromString("92")),
		CreatedAt:       at,
		UpdatedAt:       at,
	}
	require.NoError(t, s.CreateTransaction(ctx, exchange))

	page, total, err := s.ListTransactions(ctx, TransactionFilter{UserID: alice.ID, Limit: 4, Offset: 0})
	require.NoError(t, err)
	assert.Equal(t, 6, total)
	require.Len(t, page, 4)
	assert.Equal(t, exchange.ID, page[0].ID)
	assert.True(t, page[0].ExchangeRate.Valid)
	assert.Equal(t, "0.92", page[0].ExchangeRate.Decimal.String())
	assert.Equal(t, "92", page[0].ConvertedAmount.Decimal.String())
	assert.Nil(t, page[0].ToUserID)

	page, _, err = s.ListTransactions(ctx, TransactionFilter{UserID: alice.ID, Limit: 4, Offset: 4})
	require.NoError(t, err)
	assert.Len(t, page, 2)

	txType := model.TransactionTypeTransfer
	page, total, err = s.ListTransactions(ctx, TransactionFilter{UserID: alice.ID, Type: &txType, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, page, 5)
	assert.False(t, page[0].ExchangeRate.Valid)
	require.NotNil(t, page[0].ToUserID)
	assert.Equal(t, bob.ID, *page[0].ToUserID)

	page, total, err = s.ListTransactions(ctx, TransactionFilter{UserID: bob.ID, Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, page)

	got, err := s.GetTransactionByID(ctx, exchange.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TransactionTypeExchange, got.Type)
	assert.True(t, got.CreatedAt.Equal(at))

	_, err = s.GetTransactionByID(ctx, newID(t))
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

// Units of work that record a transaction against an account before locking
// it must queue on the lock, not deadlock on the foreign key.
func testLockAfterReferencingInsert(t *testing.T, s Store) {
	ctx := context.Background()
	user := seedUser(t, s)
	from := seedAccount(t, s, user.ID, model.CurrencyUSD, "10.00")
	to := seedAccount(t, s, seedUser(t, s).ID, model.CurrencyUSD, "0.00")

	const n = 4
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = s.ExecTx(ctx, func(uow UnitOfWork) error {
				now := time.Now().UTC()
				tx := &model.Transaction{
					ID:            uuid.Must(uuid.NewV7()).String(),
					UserID:        user.ID,
					Type:          model.TransactionTypeTransfer,
					Status:        model.TransactionStatusCompleted,
					Amount:        decimal.RequireFromString("1.00"),
					Currency:      model.CurrencyUSD,
					FromAccountID: &from.ID,
					ToAccountID:   &to.ID,
					ToUserID:      &to.UserID,
					CreatedAt:     now,
					UpdatedAt:     now,
				}
				if err := uow.CreateTransaction(ctx, tx); err != nil {
					return err
				}
				acc, err := uow.LockAccount(ctx, from.ID)
				if err != nil {
					return err
				}
				return uow.UpdateAccountBalance(ctx, from.ID, acc.Balance.Sub(decimal.NewFromInt(1)), now)
			})
		}()
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	got, err := s.GetAccountByID(ctx, from.ID)
	require.NoError(t, err)
	assert.Equal(t, "6.00", got.Balance.StringFixed(2))
}
