package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/hance08/keabank/internal/apperr"
	"github.com/hance08/keabank/internal/constants"
	"github.com/hance08/keabank/internal/model"
	"github.com/hance08/keabank/internal/money"
	"github.com/hance08/keabank/internal/store"
)

// LedgerService writes the append-only entries that settle a transaction
// and applies their balance changes.
type LedgerService struct {
	store     store.Store
	accounts  *AccountService
	logger    *zap.Logger
	tolerance decimal.Decimal
}

func NewLedgerService(st store.Store, accounts *AccountService, logger *zap.Logger) *LedgerService {
	return &LedgerService{
		store:     st,
		accounts:  accounts,
		logger:    logger,
		tolerance: decimal.RequireFromString(constants.BalanceTolerance),
	}
}

// Reconciliation compares an account's stored balance with the sum of its
// ledger history.
type Reconciliation struct {
	Account       *model.Account
	StoredBalance decimal.Decimal
	LedgerBalance decimal.Decimal
	Difference    decimal.Decimal
	Balanced      bool
}

// CreateTransferEntries settles a same-currency movement: a debit on fromID
// and a credit on toID, both for amount. Both accounts are locked before
// anything is written.
func (ls *LedgerService) CreateTransferEntries(ctx context.Context, uow store.UnitOfWork, fromID, toID string, amount decimal.Decimal, txID string, currency model.Currency) ([]*model.LedgerEntry, error) {
	amount, err := normalizePositive(amount)
	if err != nil {
		return nil, err
	}
	if fromID == toID {
		return nil, apperr.InvalidOperation("cannot move money from an account to itself")
	}

	locked, err := ls.accounts.LockInOrder(ctx, uow, fromID, toID)
	if err != nil {
		return nil, err
	}
	if err := checkCurrency(locked[fromID], currency); err != nil {
		return nil, err
	}
	if err := checkCurrency(locked[toID], currency); err != nil {
		return nil, err
	}

	entries, err := ls.writePair(ctx, uow, txID,
		fromID, amount, currency,
		toID, amount, currency)
	if err != nil {
		return nil, err
	}

	if err := ls.ValidateTransactionBalance(ctx, uow, txID); err != nil {
		return nil, err
	}

	if err := ls.apply(ctx, uow, fromID, amount, toID, amount); err != nil {
		return nil, err
	}
	return entries, nil
}

// CreateExchangeEntries settles a cross-currency movement. The legs are in
// different currencies, so instead of a zero sum the transaction must hold
// exactly one debit and one credit.
func (ls *LedgerService) CreateExchangeEntries(ctx context.Context, uow store.UnitOfWork, fromID, toID string, fromAmount, toAmount decimal.Decimal, txID string, fromCurrency, toCurrency model.Currency) ([]*model.LedgerEntry, error) {
	fromAmount, err := normalizePositive(fromAmount)
	if err != nil {
		return nil, err
	}
	toAmount, err = normalizePositive(toAmount)
	if err != nil {
		return nil, err
	}
	if fromID == toID {
		return nil, apperr.InvalidOperation("cannot exchange within a single account")
	}

	locked, err := ls.accounts.LockInOrder(ctx, uow, fromID, toID)
	if err != nil {
		return nil, err
	}
	if err := checkCurrency(locked[fromID], fromCurrency); err != nil {
		return nil, err
	}
	if err := checkCurrency(locked[toID], toCurrency); err != nil {
		return nil, err
	}

	entries, err := ls.writePair(ctx, uow, txID,
		fromID, fromAmount, fromCurrency,
		toID, toAmount, toCurrency)
	if err != nil {
		return nil, err
	}

	if err := ls.validateExchangeEntries(ctx, uow, txID); err != nil {
		return nil, err
	}

	if err := ls.apply(ctx, uow, fromID, fromAmount, toID, toAmount); err != nil {
		return nil, err
	}
	return entries, nil
}

// ValidateTransactionBalance checks that the entries of txID sum to zero
// within the balance tolerance. A transaction without entries is unbalanced.
func (ls *LedgerService) ValidateTransactionBalance(ctx context.Context, repo store.Repository, txID string) error {
	entries, err := repo.GetEntriesByTransaction(ctx, txID)
	if err != nil {
		return storeError(err, "transaction %s not found", txID)
	}
	if len(entries) == 0 {
		return apperr.Unbalanced(txID, decimal.Zero)
	}

	sum := decimal.Zero
	for _, e := range entries {
		sum = sum.Add(e.Amount)
	}
	sum = money.Round(sum)

	if sum.Abs().GreaterThan(ls.tolerance) {
		ls.logger.Error("unbalanced transaction", zap.String("tx_id", txID), zap.String("sum", sum.String()))
		return apperr.Unbalanced(txID, sum)
	}
	return nil
}

func (ls *LedgerService) validateExchangeEntries(ctx context.Context, repo store.Repository, txID string) error {
	entries, err := repo.GetEntriesByTransaction(ctx, txID)
	if err != nil {
		return storeError(err, "transaction %s not found", txID)
	}

	var debits, credits int
	for _, e := range entries {
		if e.TransactionID != txID {
			return apperr.Internal(fmt.Errorf("entry %s belongs to %s, not %s", e.ID, e.TransactionID, txID))
		}
		switch e.Type {
		case model.EntryTypeDebit:
			debits++
		case model.EntryTypeCredit:
			credits++
		}
	}
	if debits != 1 || credits != 1 {
		ls.logger.Error("malformed exchange",
			zap.String("tx_id", txID), zap.Int("debits", debits), zap.Int("credits", credits))
		return apperr.Unbalanced(txID, decimal.Zero)
	}
	return nil
}

// SumEntriesForAccount returns the balance implied by the account's history.
func (ls *LedgerService) SumEntriesForAccount(ctx context.Context, accountID string) (decimal.Decimal, error) {
	sum, err := ls.store.SumEntriesByAccount(ctx, accountID)
	if err != nil {
		return decimal.Zero, storeError(err, "account %s not found", accountID)
	}
	return money.Round(sum), nil
}

func (ls *LedgerService) Reconcile(ctx context.Context, accountID string) (*Reconciliation, error) {
	acc, err := ls.accounts.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	sum, err := ls.SumEntriesForAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	stored := money.Round(acc.Balance)
	diff := stored.Sub(sum)
	return &Reconciliation{
		Account:       acc,
		StoredBalance: stored,
		LedgerBalance: sum,
		Difference:    diff,
		Balanced:      diff.IsZero(),
	}, nil
}

func (ls *LedgerService) FindByTransactionID(ctx context.Context, txID string) ([]*model.LedgerEntry, error) {
	entries, err := ls.store.GetEntriesByTransaction(ctx, txID)
	if err != nil {
		return nil, storeError(err, "transaction %s not found", txID)
	}
	return entries, nil
}

// FindByAccountID returns the account's history, newest first.
func (ls *LedgerService) FindByAccountID(ctx context.Context, accountID string, filter store.EntryFilter) ([]*model.LedgerEntry, error) {
	if filter.Limit < 0 || filter.Offset < 0 {
		return nil, apperr.Validation("limit and offset can't be negative")
	}
	entries, err := ls.store.GetEntriesByAccount(ctx, accountID, filter)
	if err != nil {
		return nil, storeError(err, "account %s not found", accountID)
	}
	return entries, nil
}

// writePair writes the debit then the credit of one settlement.
func (ls *LedgerService) writePair(ctx context.Context, uow store.UnitOfWork, txID string,
	debitID string, debitAmount decimal.Decimal, debitCurrency model.Currency,
	creditID string, creditAmount decimal.Decimal, creditCurrency model.Currency,
) ([]*model.LedgerEntry, error) {
	now := time.Now().UTC()

	debit, err := newEntry(debitID, txID, debitAmount.Neg(), model.EntryTypeDebit, debitCurrency, now)
	if err != nil {
		return nil, err
	}
	credit, err := newEntry(creditID, txID, creditAmount, model.EntryTypeCredit, creditCurrency, now)
	if err != nil {
		return nil, err
	}

	for _, e := range []*model.LedgerEntry{debit, credit} {
		if err := uow.CreateLedgerEntry(ctx, e); err != nil {
			return nil, storeError(err, "account %s not found", e.AccountID)
		}
	}
	return []*model.LedgerEntry{debit, credit}, nil
}

func (ls *LedgerService) apply(ctx context.Context, uow store.UnitOfWork, fromID string, fromAmount decimal.Decimal, toID string, toAmount decimal.Decimal) error {
	if _, err := ls.accounts.MutateBalanceLocked(ctx, uow, fromID, fromAmount.Neg()); err != nil {
		return err
	}
	if _, err := ls.accounts.MutateBalanceLocked(ctx, uow, toID, toAmount); err != nil {
		return err
	}
	return nil
}

func newEntry(accountID, txID string, amount decimal.Decimal, entryType model.EntryType, currency model.Currency, at time.Time) (*model.LedgerEntry, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("failed to generate entry id: %w", err))
	}
	return &model.LedgerEntry{
		ID:            id.String(),
		AccountID:     accountID,
		TransactionID: txID,
		Amount:        amount,
		Type:          entryType,
		Currency:      currency,
		CreatedAt:     at,
	}, nil
}

func checkCurrency(acc *model.Account, currency model.Currency) error {
	if acc.Currency != currency {
		return apperr.InvalidOperation("account %s holds %s, not %s", acc.ID, acc.Currency, currency)
	}
	return nil
}

func normalizePositive(amount decimal.Decimal) (decimal.Decimal, error) {
	amount, err := money.Normalize(amount)
	if err != nil {
		return decimal.Zero, err
	}
	if !amount.IsPositive() {
		return decimal.Zero, apperr.Validation("amount must be greater than 0")
	}
	return amount, nil
}
