package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/hance08/keabank/internal/model"
	"github.com/hance08/keabank/internal/money"
)

const pgAccountColumns = "id::text, user_id::text, currency, balance, is_system, created_at, updated_at"

func (s *PostgresStore) CreateAccount(ctx context.Context, acc *model.Account) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO accounts (id, user_id, currency, balance, is_system, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, acc.ID, acc.UserID, string(acc.Currency), money.ToMinor(acc.Balance), acc.IsSystem,
		acc.CreatedAt, acc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert %s account for user %s: %w", acc.Currency, acc.UserID, mapPostgresErr(err))
	}
	return nil
}

func (s *PostgresStore) GetAccountByID(ctx context.Context, id string) (*model.Account, error) {
	row := s.db.QueryRow(ctx, "SELECT "+pgAccountColumns+" FROM accounts WHERE id = $1", id)
	return s.accountFromRow(row, fmt.Sprintf("account with ID %s", id))
}

// LockAccount holds the row lock until the surrounding transaction ends.
// A wait longer than lock_timeout fails with ErrBusy. NO KEY UPDATE does not
// conflict with the FOR KEY SHARE locks that foreign keys into accounts take.
func (s *PostgresStore) LockAccount(ctx context.Context, id string) (*model.Account, error) {
	if _, ok := s.db.(pgx.Tx); !ok {
		return nil, fmt.Errorf("LockAccount must be called within a unit of work")
	}
	row := s.db.QueryRow(ctx, "SELECT "+pgAccountColumns+" FROM accounts WHERE id = $1 FOR NO KEY UPDATE", id)
	return s.accountFromRow(row, fmt.Sprintf("account with ID %s", id))
}

func (s *PostgresStore) GetAccountByUserAndCurrency(ctx context.Context, userID string, currency model.Currency) (*model.Account, error) {
	row := s.db.QueryRow(ctx,
		"SELECT "+pgAccountColumns+" FROM accounts WHERE user_id = $1 AND currency = $2",
		userID, string(currency))
	return s.accountFromRow(row, fmt.Sprintf("%s account of user %s", currency, userID))
}

func (s *PostgresStore) GetAccountsByUser(ctx context.Context, userID string) ([]*model.Account, error) {
	rows, err := s.db.Query(ctx,
		"SELECT "+pgAccountColumns+" FROM accounts WHERE user_id = $1 ORDER BY currency", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", mapPostgresErr(err))
	}
	defer rows.Close()

	var accounts []*model.Account
	for rows.Next() {
		acc, err := scanPostgresAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, acc)
	}
	return accounts, rows.Err()
}

func (s *PostgresStore) UpdateAccountBalance(ctx context.Context, id string, balance decimal.Decimal, updatedAt time.Time) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE accounts
		SET balance = $1, updated_at = $2
		WHERE id = $3
	`, money.ToMinor(balance), updatedAt, id)
	if err != nil {
		return fmt.Errorf("failed to update balance of account %s: %w", id, mapPostgresErr(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account with ID %s: %w", id, ErrRecordNotFound)
	}
	return nil
}

func (s *PostgresStore) accountFromRow(row pgx.Row, what string) (*model.Account, error) {
	acc, err := scanPostgresAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", what, ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to query %s: %w", what, mapPostgresErr(err))
	}
	return acc, nil
}

func scanPostgresAccount(row pgx.Row) (*model.Account, error) {
	acc := &model.Account{}
	var currency string
	var balance int64

	err := row.Scan(&acc.ID, &acc.UserID, &currency, &balance, &acc.IsSystem, &acc.CreatedAt, &acc.UpdatedAt)
	if err != nil {
		return nil, err
	}

	acc.Currency = model.Currency(currency)
	acc.Balance = money.FromMinor(balance)
	return acc, nil
}
