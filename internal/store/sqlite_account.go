package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hance08/keabank/internal/model"
	"github.com/hance08/keabank/internal/money"
)

const sqliteAccountColumns = "id, user_id, currency, balance, is_system, created_at, updated_at"

func (s *SQLiteStore) CreateAccount(ctx context.Context, acc *model.Account) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts (id, user_id, currency, balance, is_system, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, acc.ID, acc.UserID, string(acc.Currency), money.ToMinor(acc.Balance), acc.IsSystem,
		toUnixMicro(acc.CreatedAt), toUnixMicro(acc.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert %s account for user %s: %w", acc.Currency, acc.UserID, mapSQLiteErr(err))
	}
	return nil
}

func (s *SQLiteStore) GetAccountByID(ctx context.Context, id string) (*model.Account, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+sqliteAccountColumns+" FROM accounts WHERE id = ?", id)

	acc, err := scanSQLiteAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("account with ID %s: %w", id, ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to query account with ID %s: %w", id, err)
	}
	return acc, nil
}

// LockAccount relies on the RESERVED lock taken by BEGIN IMMEDIATE; the read
// itself is an ordinary SELECT.
func (s *SQLiteStore) LockAccount(ctx context.Context, id string) (*model.Account, error) {
	if _, ok := s.db.(*sql.Tx); !ok {
		return nil, fmt.Errorf("LockAccount must be called within a unit of work")
	}
	return s.GetAccountByID(ctx, id)
}

func (s *SQLiteStore) GetAccountByUserAndCurrency(ctx context.Context, userID string, currency model.Currency) (*model.Account, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+sqliteAccountColumns+" FROM accounts WHERE user_id = ? AND currency = ?",
		userID, string(currency))

	acc, err := scanSQLiteAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s account of user %s: %w", currency, userID, ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to query %s account of user %s: %w", currency, userID, err)
	}
	return acc, nil
}

func (s *SQLiteStore) GetAccountsByUser(ctx context.Context, userID string) ([]*model.Account, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+sqliteAccountColumns+" FROM accounts WHERE user_id = ? ORDER BY currency", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*model.Account
	for rows.Next() {
		acc, err := scanSQLiteAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, acc)
	}
	return accounts, rows.Err()
}

func (s *SQLiteStore) UpdateAccountBalance(ctx context.Context, id string, balance decimal.Decimal, updatedAt time.Time) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE accounts
		SET balance = ?, updated_at = ?
		WHERE id = ?
	`, money.ToMinor(balance), toUnixMicro(updatedAt), id)
	if err != nil {
		return fmt.Errorf("failed to update balance of account %s: %w", id, mapSQLiteErr(err))
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("account with ID %s: %w", id, ErrRecordNotFound)
	}
	return nil
}

func scanSQLiteAccount(row rowScanner) (*model.Account, error) {
	acc := &model.Account{}
	var currency string
	var balance, createdAt, updatedAt int64

	err := row.Scan(&acc.ID, &acc.UserID, &currency, &balance, &acc.IsSystem, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	acc.Currency = model.Currency(currency)
	acc.Balance = money.FromMinor(balance)
	acc.CreatedAt = fromUnixMicro(createdAt)
	acc.UpdatedAt = fromUnixMicro(updatedAt)
	return acc, nil
}
