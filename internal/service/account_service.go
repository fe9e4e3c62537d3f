package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
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

// AccountService owns account rows and the only code path that changes a
// balance.
type AccountService struct {
	store  store.Store
	logger *zap.Logger
}

func NewAccountService(st store.Store, logger *zap.Logger) *AccountService {
	return &AccountService{store: st, logger: logger}
}

// CreateAccount inserts a zero-balance account. Funding goes through the
// ledger, see TransactionService.OpenAccount.
func (as *AccountService) CreateAccount(ctx context.Context, uow store.UnitOfWork, userID string, currency model.Currency, system bool) (*model.Account, error) {
	if !currency.Valid() {
		return nil, apperr.Validation("unsupported currency %q", currency)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("failed to generate account id: %w", err))
	}

	now := time.Now().UTC()
	acc := &model.Account{
		ID:        id.String(),
		UserID:    userID,
		Currency:  currency,
		Balance:   decimal.Zero,
		IsSystem:  system,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uow.CreateAccount(ctx, acc); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperr.InvalidOperation("user %s already has a %s account", userID, currency)
		}
		return nil, storeError(err, "user %s not found", userID)
	}
	return acc, nil
}

// EnsureSystemAccounts creates the opening-balance equity account of every
// supported currency that does not have one yet.
func (as *AccountService) EnsureSystemAccounts(ctx context.Context) error {
	for _, currency := range model.SupportedCurrencies {
		existing, err := as.FindByUserAndCurrency(ctx, constants.SystemUserID, currency)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}

		err = as.store.ExecTx(ctx, func(uow store.UnitOfWork) error {
			_, err := as.CreateAccount(ctx, uow, constants.SystemUserID, currency, true)
			return err
		})
		if apperr.Is(err, apperr.CodeInvalidOperation) {
			continue // created concurrently
		}
		if err != nil {
			return storeError(err, "system user missing")
		}
		as.logger.Info("created system account",
			zap.String("name", constants.SystemAccountOpeningBalance),
			zap.String("currency", currency.String()))
	}
	return nil
}

func (as *AccountService) systemAccount(ctx context.Context, repo store.Repository, currency model.Currency) (*model.Account, error) {
	acc, err := repo.GetAccountByUserAndCurrency(ctx, constants.SystemUserID, currency)
	if err != nil {
		return nil, storeError(err, "%s account for %s is missing", constants.SystemAccountOpeningBalance, currency)
	}
	return acc, nil
}

func (as *AccountService) FindByID(ctx context.Context, id string) (*model.Account, error) {
	acc, err := as.store.GetAccountByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "account %s not found", id)
	}
	return acc, nil
}

// FindByUserAndCurrency returns nil, nil when the user has no account in
// that currency.
func (as *AccountService) FindByUserAndCurrency(ctx context.Context, userID string, currency model.Currency) (*model.Account, error) {
	acc, err := as.store.GetAccountByUserAndCurrency(ctx, userID, currency)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, storeError(err, "%s account of user %s not found", currency, userID)
	}
	return acc, nil
}

func (as *AccountService) ListByUser(ctx context.Context, userID string) ([]*model.Account, error) {
	accounts, err := as.store.GetAccountsByUser(ctx, userID)
	if err != nil {
		return nil, storeError(err, "accounts of user %s not found", userID)
	}
	return accounts, nil
}

func (as *AccountService) GetBalance(ctx context.Context, id string) (decimal.Decimal, error) {
	acc, err := as.FindByID(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}
	return money.Round(acc.Balance), nil
}

// ValidateSufficientFunds is the fast-fail check made before a unit of work
// opens. MutateBalanceLocked repeats it under the lock.
func (as *AccountService) ValidateSufficientFunds(ctx context.Context, id string, amount decimal.Decimal) error {
	amount, err := money.Normalize(amount)
	if err != nil {
		return err
	}
	acc, err := as.FindByID(ctx, id)
	if err != nil {
		return err
	}
	balance := money.Round(acc.Balance)
	if !acc.IsSystem && balance.LessThan(amount) {
		return apperr.InsufficientFunds(acc.ID, balance, amount)
	}
	return nil
}

func (as *AccountService) ValidateOwnership(ctx context.Context, id, userID string) error {
	acc, err := as.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if acc.UserID != userID {
		return apperr.Forbidden("account %s does not belong to user %s", id, userID)
	}
	return nil
}

// LockInOrder locks the given accounts in ascending id order, the single
// global order every multi-account operation uses.
func (as *AccountService) LockInOrder(ctx context.Context, uow store.UnitOfWork, ids ...string) (map[string]*model.Account, error) {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	locked := make(map[string]*model.Account, len(sorted))
	for _, id := range sorted {
		acc, err := uow.LockAccount(ctx, id)
		if err != nil {
			return nil, storeError(err, "account %s not found", id)
		}
		locked[id] = acc
	}
	return locked, nil
}

// MutateBalanceLocked adds delta to the account's balance under its row
// lock. A non-system account never goes below zero.
func (as *AccountService) MutateBalanceLocked(ctx context.Context, uow store.UnitOfWork, id string, delta decimal.Decimal) (*model.Account, error) {
	delta, err := money.Normalize(delta)
	if err != nil {
		return nil, err
	}

	acc, err := uow.LockAccount(ctx, id)
	if err != nil {
		return nil, storeError(err, "account %s not found", id)
	}

	balance := money.Round(acc.Balance.Add(delta))
	if balance.IsNegative() && !acc.IsSystem {
		return nil, apperr.InsufficientFunds(acc.ID, money.Round(acc.Balance), delta.Neg())
	}
	if balance.Abs().GreaterThan(money.MaxAmount) {
		return nil, apperr.Validation("balance of account %s would exceed the maximum of %s", id, money.Format(money.MaxAmount))
	}

	now := time.Now().UTC()
	if err := uow.UpdateAccountBalance(ctx, id, balance, now); err != nil {
		return nil, storeError(err, "account %s not found", id)
	}

	acc.Balance = balance
	acc.UpdatedAt = now
	return acc, nil
}
