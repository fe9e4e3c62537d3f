package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/hance08/keabank/internal/model"
	"github.com/hance08/keabank/internal/money"
)

const sqliteTransactionColumns = `id, user_id, type, status, amount, currency,
	from_account_id, to_account_id, to_user_id, exchange_rate, converted_amount,
	created_at, updated_at`

func (s *SQLiteStore) CreateTransaction(ctx context.Context, tx *model.Transaction) error {
	var rate sql.NullString
	if tx.ExchangeRate.Valid {
		rate = sql.NullString{String: tx.ExchangeRate.Decimal.String(), Valid: true}
	}
	var converted sql.NullInt64
	if tx.ConvertedAmount.Valid {
		converted = sql.NullInt64{Int64: money.ToMinor(tx.ConvertedAmount.Decimal), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions (`+sqliteTransactionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, tx.ID, tx.UserID, string(tx.Type), string(tx.Status), money.ToMinor(tx.Amount), string(tx.Currency),
		tx.FromAccountID, tx.ToAccountID, tx.ToUserID, rate, converted,
		toUnixMicro(tx.CreatedAt), toUnixMicro(tx.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert transaction : %w", mapSQLiteErr(err))
	}
	return nil
}

func (s *SQLiteStore) GetTransactionByID(ctx context.Context, id string) (*model.Transaction, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+sqliteTransactionColumns+" FROM transactions WHERE id = ?", id)

	tx, err := scanSQLiteTransaction(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("transaction with ID %s: %w", id, ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to query transaction: %w", err)
	}
	return tx, nil
}

func (s *SQLiteStore) ListTransactions(ctx context.Context, filter TransactionFilter) ([]*model.Transaction, int, error) {
	where := " WHERE user_id = ?"
	args := []any{filter.UserID}
	if filter.Type != nil {
		where += " AND type = ?"
		args = append(args, string(*filter.Type))
	}

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM transactions"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+sqliteTransactionColumns+" FROM transactions"+where+
			" ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?",
		append(args, filter.Limit, filter.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*model.Transaction
	for rows.Next() {
		tx, err := scanSQLiteTransaction(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, tx)
	}
	return transactions, total, rows.Err()
}

func scanSQLiteTransaction(row rowScanner) (*model.Transaction, error) {
	tx := &model.Transaction{}
	var txType, status, currency string
	var amount, createdAt, updatedAt int64
	var fromAccountID, toAccountID, toUserID, rate sql.NullString
	var converted sql.NullInt64

	err := row.Scan(
		&tx.ID, &tx.UserID, &txType, &status, &amount, &currency,
		&fromAccountID, &toAccountID, &toUserID, &rate, &converted,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	tx.Type = model.TransactionType(txType)
	tx.Status = model.TransactionStatus(status)
	tx.Amount = money.FromMinor(amount)
	tx.Currency = model.Currency(currency)
	tx.FromAccountID = nullStringPtr(fromAccountID)
	tx.ToAccountID = nullStringPtr(toAccountID)
	tx.ToUserID = nullStringPtr(toUserID)
	if rate.Valid {
		d, err := decimal.NewFromString(rate.String)
		if err != nil {
			return nil, fmt.Errorf("invalid exchange rate %q: %w", rate.String, err)
		}
		tx.ExchangeRate = decimal.NewNullDecimal(d)
	}
	if converted.Valid {
		tx.ConvertedAmount = decimal.NewNullDecimal(money.FromMinor(converted.Int64))
	}
	tx.CreatedAt = fromUnixMicro(createdAt)
	tx.UpdatedAt = fromUnixMicro(updatedAt)
	return tx, nil
}

func nullStringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
