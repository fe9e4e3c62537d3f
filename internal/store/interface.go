package store

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hance08/keabank/internal/model"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	// UserExists ignores the system user.
	UserExists(ctx context.Context, id string) (bool, error)
	GetAllUsers(ctx context.Context) ([]*model.User, error)
}

type AccountRepository interface {
	CreateAccount(ctx context.Context, acc *model.Account) error
	GetAccountByID(ctx context.Context, id string) (*model.Account, error)
	GetAccountByUserAndCurrency(ctx context.Context, userID string, currency model.Currency) (*model.Account, error)
	GetAccountsByUser(ctx context.Context, userID string) ([]*model.Account, error)
	UpdateAccountBalance(ctx context.Context, id string, balance decimal.Decimal, updatedAt time.Time) error
}

// EntryFilter narrows an account's ledger history. Zero values mean no limit.
type EntryFilter struct {
	Limit  int
	Offset int
	From   time.Time
	To     time.Time
}

type LedgerRepository interface {
	CreateLedgerEntry(ctx context.Context, entry *model.LedgerEntry) error
	GetEntriesByTransaction(ctx context.Context, txID string) ([]*model.LedgerEntry, error)
	GetEntriesByAccount(ctx context.Context, accountID string, filter EntryFilter) ([]*model.LedgerEntry, error)
	SumEntriesByAccount(ctx context.Context, accountID string) (decimal.Decimal, error)
}

// TransactionFilter selects one page of a user's transactions, newest first.
type TransactionFilter struct {
	UserID string
	Type   *model.TransactionType
	Limit  int
	Offset int
}

type TransactionRepository interface {
	CreateTransaction(ctx context.Context, tx *model.Transaction) error
	GetTransactionByID(ctx context.Context, id string) (*model.Transaction, error)
	// ListTransactions returns the requested page and the total number of
	// rows matching the filter.
	ListTransactions(ctx context.Context, filter TransactionFilter) ([]*model.Transaction, int, error)
}

type Repository interface {
	UserRepository
	AccountRepository
	LedgerRepository
	TransactionRepository
}

// UnitOfWork is a Repository bound to one open database transaction. All
// writes made through it commit or roll back together.
type UnitOfWork interface {
	Repository

	// LockAccount reads the account while holding an exclusive lock on it
	// until the unit of work ends. Other units of work that lock the same
	// account wait, up to the store's lock timeout.
	LockAccount(ctx context.Context, id string) (*model.Account, error)
}

type Store interface {
	Repository

	// ExecTx runs fn inside a new unit of work. It commits when fn returns
	// nil and rolls back on error or panic.
	ExecTx(ctx context.Context, fn func(uow UnitOfWork) error) error
	Close() error
}
