package service

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/hance08/keabank/internal/apperr"
	"github.com/hance08/keabank/internal/model"
	"github.com/hance08/keabank/internal/store"
)

type Config struct {
	// OpeningBalances lists the accounts a newly provisioned user receives
	// and the amount each one is funded with.
	OpeningBalances map[model.Currency]decimal.Decimal
}

type Service struct {
	User        *UserService
	Account     *AccountService
	Ledger      *LedgerService
	Transaction *TransactionService

	identity IdentityProvider
}

func NewService(st store.Store, rates RateProvider, identity IdentityProvider, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}

	accounts := NewAccountService(st, logger)
	ledger := NewLedgerService(st, accounts, logger)
	users := NewUserService(st, cfg, logger)
	transactions := NewTransactionService(st, users, accounts, ledger, rates, logger)
	users.transactions = transactions

	return &Service{
		User:        users,
		Account:     accounts,
		Ledger:      ledger,
		Transaction: transactions,
		identity:    identity,
	}
}

// CurrentUser resolves the acting identity to a registered user.
func (s *Service) CurrentUser(ctx context.Context) (*model.User, error) {
	if s.identity == nil {
		return nil, apperr.Validation("no identity provider configured")
	}
	id, err := s.identity.CurrentIdentity(ctx)
	if err != nil {
		return nil, err
	}
	return s.User.GetByID(ctx, id)
}
