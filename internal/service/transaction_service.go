package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/hance08/keabank/internal/apperr"
	"github.com/hance08/keabank/internal/model"
	"github.com/hance08/keabank/internal/money"
	"github.com/hance08/keabank/internal/store"
	"github.com/hance08/keabank/internal/validation"
)

// TransactionService validates money movements and settles each one in a
// single unit of work: the transaction row, its ledger entries and the
// balance changes commit together or not at all.
type TransactionService struct {
	store    store.Store
	users    UserDirectory
	accounts *AccountService
	ledger   *LedgerService
	rates    RateProvider
	logger   *zap.Logger
}

func NewTransactionService(st store.Store, users UserDirectory, accounts *AccountService, ledger *LedgerService, rates RateProvider, logger *zap.Logger) *TransactionService {
	return &TransactionService{
		store:    st,
		users:    users,
		accounts: accounts,
		ledger:   ledger,
		rates:    rates,
		logger:   logger,
	}
}

func (ts *TransactionService) Transfer(ctx context.Context, p TransferParams) (*model.Transaction, error) {
	if p.FromUserID == "" || p.ToUserID == "" {
		return nil, apperr.Validation("sender and recipient are required")
	}
	if p.FromUserID == p.ToUserID {
		return nil, apperr.InvalidOperation("cannot transfer to yourself")
	}
	if !p.Currency.Valid() {
		return nil, apperr.Validation("unsupported currency %q", p.Currency)
	}
	amount, err := normalizePositive(p.Amount)
	if err != nil {
		return nil, err
	}

	for _, id := range []string{p.FromUserID, p.ToUserID} {
		exists, err := ts.users.UserExists(ctx, id)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, apperr.NotFound("user %s not found", id)
		}
	}

	from, err := ts.requireAccount(ctx, p.FromUserID, p.Currency)
	if err != nil {
		return nil, err
	}
	to, err := ts.requireAccount(ctx, p.ToUserID, p.Currency)
	if err != nil {
		return nil, err
	}

	if err := ts.accounts.ValidateSufficientFunds(ctx, from.ID, amount); err != nil {
		return nil, err
	}

	tx, err := newTransaction(p.FromUserID, model.TransactionTypeTransfer, amount, p.Currency)
	if err != nil {
		return nil, err
	}
	tx.FromAccountID = &from.ID
	tx.ToAccountID = &to.ID
	tx.ToUserID = &to.UserID

	err = ts.store.ExecTx(ctx, func(uow store.UnitOfWork) error {
		if _, err := ts.accounts.LockInOrder(ctx, uow, from.ID, to.ID); err != nil {
			return err
		}
		if err := uow.CreateTransaction(ctx, tx); err != nil {
			return storeError(err, "accounts of transfer %s not found", tx.ID)
		}
		_, err := ts.ledger.CreateTransferEntries(ctx, uow, from.ID, to.ID, amount, tx.ID, p.Currency)
		return err
	})
	if err != nil {
		return nil, ts.aborted(tx, err)
	}

	ts.settled(tx)
	return tx, nil
}

func (ts *TransactionService) Exchange(ctx context.Context, p ExchangeParams) (*model.Transaction, error) {
	if p.UserID == "" {
		return nil, apperr.Validation("user is required")
	}
	if !p.FromCurrency.Valid() || !p.ToCurrency.Valid() {
		return nil, apperr.Validation("unsupported currency %q or %q", p.FromCurrency, p.ToCurrency)
	}
	if p.FromCurrency == p.ToCurrency {
		return nil, apperr.InvalidOperation("cannot exchange %s to the same currency", p.FromCurrency)
	}
	if !supportedPair(p.FromCurrency, p.ToCurrency) {
		return nil, apperr.UnsupportedPair(p.FromCurrency.String(), p.ToCurrency.String())
	}
	amount, err := normalizePositive(p.Amount)
	if err != nil {
		return nil, err
	}

	from, err := ts.requireAccount(ctx, p.UserID, p.FromCurrency)
	if err != nil {
		return nil, err
	}
	to, err := ts.requireAccount(ctx, p.UserID, p.ToCurrency)
	if err != nil {
		return nil, err
	}
	for _, acc := range []*model.Account{from, to} {
		if err := ts.accounts.ValidateOwnership(ctx, acc.ID, p.UserID); err != nil {
			return nil, err
		}
	}

	if err := ts.accounts.ValidateSufficientFunds(ctx, from.ID, amount); err != nil {
		return nil, err
	}

	base, err := ts.rates.ExchangeRate(ctx)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("failed to get exchange rate: %w", err))
	}
	quote, err := QuoteExchange(p.FromCurrency, p.ToCurrency, amount, base)
	if err != nil {
		return nil, err
	}
	if !quote.Converted.IsPositive() {
		return nil, apperr.Validation("amount %s %s is too small to exchange", money.Format(amount), p.FromCurrency)
	}

	tx, err := newTransaction(p.UserID, model.TransactionTypeExchange, amount, p.FromCurrency)
	if err != nil {
		return nil, err
	}
	tx.FromAccountID = &from.ID
	tx.ToAccountID = &to.ID
	tx.ExchangeRate = decimal.NewNullDecimal(quote.Rate)
	tx.ConvertedAmount = decimal.NewNullDecimal(quote.Converted)

	err = ts.store.ExecTx(ctx, func(uow store.UnitOfWork) error {
		if _, err := ts.accounts.LockInOrder(ctx, uow, from.ID, to.ID); err != nil {
			return err
		}
		if err := uow.CreateTransaction(ctx, tx); err != nil {
			return storeError(err, "accounts of exchange %s not found", tx.ID)
		}
		_, err := ts.ledger.CreateExchangeEntries(ctx, uow, from.ID, to.ID, amount, quote.Converted,
			tx.ID, p.FromCurrency, p.ToCurrency)
		return err
	})
	if err != nil {
		return nil, ts.aborted(tx, err)
	}

	ts.settled(tx)
	return tx, nil
}

// OpenAccount creates an account for userID and funds it with
// initialBalance from the system opening-balance account.
func (ts *TransactionService) OpenAccount(ctx context.Context, userID string, currency model.Currency, initialBalance decimal.Decimal) (*model.Account, error) {
	if !currency.Valid() {
		return nil, apperr.Validation("unsupported currency %q", currency)
	}
	initialBalance, err := money.Normalize(initialBalance)
	if err != nil {
		return nil, err
	}
	if initialBalance.IsNegative() {
		return nil, apperr.Validation("initial balance can't be negative")
	}

	exists, err := ts.users.UserExists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.NotFound("user %s not found", userID)
	}

	existing, err := ts.accounts.FindByUserAndCurrency(ctx, userID, currency)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.InvalidOperation("user %s already has a %s account", userID, currency)
	}

	var acc *model.Account
	var opening *model.Transaction
	err = ts.store.ExecTx(ctx, func(uow store.UnitOfWork) error {
		var err error
		acc, opening, err = ts.openAccountTx(ctx, uow, userID, currency, initialBalance)
		return err
	})
	if err != nil {
		return nil, storeError(err, "user %s not found", userID)
	}
	if opening != nil {
		ts.settled(opening)
	}
	return acc, nil
}

// openAccountTx creates the account and, for a positive balance, the
// opening transaction that funds it. The transaction is nil otherwise.
func (ts *TransactionService) openAccountTx(ctx context.Context, uow store.UnitOfWork, userID string, currency model.Currency, initialBalance decimal.Decimal) (*model.Account, *model.Transaction, error) {
	acc, err := ts.accounts.CreateAccount(ctx, uow, userID, currency, false)
	if err != nil {
		return nil, nil, err
	}
	if initialBalance.IsZero() {
		return acc, nil, nil
	}

	equity, err := ts.accounts.systemAccount(ctx, uow, currency)
	if err != nil {
		return nil, nil, err
	}

	tx, err := newTransaction(userID, model.TransactionTypeOpening, initialBalance, currency)
	if err != nil {
		return nil, nil, err
	}
	tx.FromAccountID = &equity.ID
	tx.ToAccountID = &acc.ID

	if _, err := ts.accounts.LockInOrder(ctx, uow, equity.ID, acc.ID); err != nil {
		return nil, nil, err
	}
	if err := uow.CreateTransaction(ctx, tx); err != nil {
		return nil, nil, storeError(err, "accounts of opening transaction %s not found", tx.ID)
	}
	if _, err := ts.ledger.CreateTransferEntries(ctx, uow, equity.ID, acc.ID, initialBalance, tx.ID, currency); err != nil {
		return nil, nil, err
	}

	acc.Balance = initialBalance
	return acc, tx, nil
}

// FindAll returns one page of the user's transactions, newest first.
func (ts *TransactionService) FindAll(ctx context.Context, p FindAllParams) (*PaginatedResult, error) {
	if p.UserID == "" {
		return nil, apperr.Validation("user is required")
	}
	page, limit, err := validation.ResolvePage(p.Page, p.Limit)
	if err != nil {
		return nil, err
	}

	offset, err := validation.PageOffset(page, limit)
	if err != nil {
		return nil, err
	}

	txs, total, err := ts.store.ListTransactions(ctx, store.TransactionFilter{
		UserID: p.UserID,
		Type:   p.Type,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, storeError(err, "transactions of user %s not found", p.UserID)
	}
	if txs == nil {
		txs = []*model.Transaction{}
	}

	return &PaginatedResult{
		Transactions: txs,
		Total:        total,
		Page:         page,
		Limit:        limit,
		TotalPages:   (total + limit - 1) / limit,
	}, nil
}

// FindByID returns the transaction. A non-empty userID must be its owner.
func (ts *TransactionService) FindByID(ctx context.Context, txID, userID string) (*model.Transaction, error) {
	tx, err := ts.store.GetTransactionByID(ctx, txID)
	if err != nil {
		return nil, storeError(err, "transaction %s not found", txID)
	}
	if userID != "" && tx.UserID != userID {
		return nil, apperr.Forbidden("transaction %s does not belong to user %s", txID, userID)
	}
	return tx, nil
}

func (ts *TransactionService) GetDetail(ctx context.Context, txID, userID string) (*TransactionDetail, error) {
	tx, err := ts.FindByID(ctx, txID, userID)
	if err != nil {
		return nil, err
	}
	entries, err := ts.ledger.FindByTransactionID(ctx, txID)
	if err != nil {
		return nil, err
	}
	return &TransactionDetail{Transaction: tx, Entries: entries}, nil
}

func (ts *TransactionService) requireAccount(ctx context.Context, userID string, currency model.Currency) (*model.Account, error) {
	acc, err := ts.accounts.FindByUserAndCurrency(ctx, userID, currency)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, apperr.NotFound("%s account not found for user %s", currency, userID)
	}
	return acc, nil
}

func (ts *TransactionService) settled(tx *model.Transaction) {
	ts.logger.Info("transaction settled",
		zap.String("tx_id", tx.ID),
		zap.String("type", string(tx.Type)),
		zap.String("user_id", tx.UserID),
		zap.String("amount", money.Format(tx.Amount)),
		zap.String("currency", tx.Currency.String()))
}

func (ts *TransactionService) aborted(tx *model.Transaction, err error) error {
	err = storeError(err, "%s %s could not be settled", tx.Type, tx.ID)
	ts.logger.Warn("settlement aborted",
		zap.String("tx_id", tx.ID),
		zap.String("type", string(tx.Type)),
		zap.String("user_id", tx.UserID),
		zap.String("code", string(apperr.CodeOf(err))),
		zap.Error(err))
	return err
}

func newTransaction(userID string, txType model.TransactionType, amount decimal.Decimal, currency model.Currency) (*model.Transaction, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("failed to generate transaction id: %w", err))
	}
	now := time.Now().UTC()
	return &model.Transaction{
		ID:        id.String(),
		UserID:    userID,
		Type:      txType,
		Status:    model.TransactionStatusCompleted,
		Amount:    amount,
		Currency:  currency,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
