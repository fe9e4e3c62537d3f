package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/hance08/keabank/internal/model"
	"github.com/hance08/keabank/internal/money"
)

const pgTransactionColumns = `id::text, user_id::text, type, status, amount, currency,
	from_account_id::text, to_account_id::text, to_user_id::text,
	exchange_rate::text, converted_amount, created_at, updated_at`

func (s *PostgresStore) CreateTransaction(ctx context.Context, tx *model.Transaction) error {
	var rate *string
	if tx.ExchangeRate.Valid {
		r := tx.ExchangeRate.Decimal.String()
		rate = &r
	}
	var converted *int64
	if tx.ConvertedAmount.Valid {
		c := money.ToMinor(tx.ConvertedAmount.Decimal)
		converted = &c
	}

	_, err := s.db.Exec(ctx, `
		INSERT INTO transactions (id, user_id, type, status, amount, currency,
			from_account_id, to_account_id, to_user_id, exchange_rate, converted_amount,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10::text::numeric, $11, $12, $13)
	`, tx.ID, tx.UserID, string(tx.Type), string(tx.Status), money.ToMinor(tx.Amount), string(tx.Currency),
		tx.FromAccountID, tx.ToAccountID, tx.ToUserID, rate, converted,
		tx.CreatedAt, tx.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert transaction : %w", mapPostgresErr(err))
	}
	return nil
}

func (s *PostgresStore) GetTransactionByID(ctx context.Context, id string) (*model.Transaction, error) {
	row := s.db.QueryRow(ctx, "SELECT "+pgTransactionColumns+" FROM transactions WHERE id = $1", id)

	tx, err := scanPostgresTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("transaction with ID %s: %w", id, ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to query transaction: %w", mapPostgresErr(err))
	}
	return tx, nil
}

func (s *PostgresStore) ListTransactions(ctx context.Context, filter TransactionFilter) ([]*model.Transaction, int, error) {
	where := " WHERE user_id = $1"
	args := []any{filter.UserID}
	if filter.Type != nil {
		where += " AND type = $2"
		args = append(args, string(*filter.Type))
	}

	var total int
	if err := s.db.QueryRow(ctx, "SELECT COUNT(*) FROM transactions"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", mapPostgresErr(err))
	}

	query := fmt.Sprintf("SELECT %s FROM transactions%s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d",
		pgTransactionColumns, where, len(args)+1, len(args)+2)
	rows, err := s.db.Query(ctx, query, append(args, filter.Limit, filter.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query transactions: %w", mapPostgresErr(err))
	}
	defer rows.Close()

	var transactions []*model.Transaction
	for rows.Next() {
		tx, err := scanPostgresTransaction(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, tx)
	}
	return transactions, total, rows.Err()
}

func scanPostgresTransaction(row pgx.Row) (*model.Transaction, error) {
	tx := &model.Transaction{}
	var txType, status, currency string
	var amount int64
	var rate *string
	var converted *int64

	err := row.Scan(
		&tx.ID, &tx.UserID, &txType, &status, &amount, &currency,
		&tx.FromAccountID, &tx.ToAccountID, &tx.ToUserID, &rate, &converted,
		&tx.CreatedAt, &tx.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	tx.Type = model.TransactionType(txType)
	tx.Status = model.TransactionStatus(status)
	tx.Amount = money.FromMinor(amount)
	tx.Currency = model.Currency(currency)
	if rate != nil {
		d, err := decimal.NewFromString(*rate)
		if err != nil {
			return nil, fmt.Errorf("invalid exchange rate %q: %w", *rate, err)
		}
		tx.ExchangeRate = decimal.NewNullDecimal(d)
	}
	if converted != nil {
		tx.ConvertedAmount = decimal.NewNullDecimal(money.FromMinor(*converted))
	}
	tx.CreatedAt = tx.CreatedAt.UTC()
	tx.UpdatedAt = tx.UpdatedAt.UTC()
	return tx, nil
}
