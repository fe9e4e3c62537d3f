package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/hance08/keabank/internal/model"
	"github.com/hance08/keabank/internal/money"
)

const pgEntryColumns = "id::text, account_id::text, transaction_id::text, amount, type, currency, created_at"

func (s *PostgresStore) CreateLedgerEntry(ctx context.Context, entry *model.LedgerEntry) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO ledger_entries (id, account_id, transaction_id, amount, type, currency, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, entry.ID, entry.AccountID, entry.TransactionID, money.ToMinor(entry.Amount),
		string(entry.Type), string(entry.Currency), entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert ledger entry : %w", mapPostgresErr(err))
	}
	return nil
}

// GetEntriesByTransaction returns the entries in write order. Entry IDs are
// UUIDv7, so they break ties on created_at.
func (s *PostgresStore) GetEntriesByTransaction(ctx context.Context, txID string) ([]*model.LedgerEntry, error) {
	rows, err := s.db.Query(ctx,
		"SELECT "+pgEntryColumns+" FROM ledger_entries WHERE transaction_id = $1 ORDER BY created_at, id",
		txID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger entries: %w", mapPostgresErr(err))
	}
	return collectPostgresEntries(rows)
}

func (s *PostgresStore) GetEntriesByAccount(ctx context.Context, accountID string, filter EntryFilter) ([]*model.LedgerEntry, error) {
	var query strings.Builder
	args := []any{accountID}

	query.WriteString("SELECT " + pgEntryColumns + " FROM ledger_entries WHERE account_id = $1")
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		fmt.Fprintf(&query, " AND created_at >= $%d", len(args))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		fmt.Fprintf(&query, " AND created_at <= $%d", len(args))
	}
	query.WriteString(" ORDER BY created_at DESC, id DESC")
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		fmt.Fprintf(&query, " LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		fmt.Fprintf(&query, " OFFSET $%d", len(args))
	}

	rows, err := s.db.Query(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger entries: %w", mapPostgresErr(err))
	}
	return collectPostgresEntries(rows)
}

func (s *PostgresStore) SumEntriesByAccount(ctx context.Context, accountID string) (decimal.Decimal, error) {
	var sum int64
	err := s.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0)::bigint
		FROM ledger_entries
		WHERE account_id = $1
	`, accountID).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to calculate balance: %w", mapPostgresErr(err))
	}
	return money.FromMinor(sum), nil
}

func collectPostgresEntries(rows pgx.Rows) ([]*model.LedgerEntry, error) {
	defer rows.Close()

	var entries []*model.LedgerEntry
	for rows.Next() {
		entry := &model.LedgerEntry{}
		var amount int64
		var entryType, currency string

		err := rows.Scan(
			&entry.ID, &entry.AccountID, &entry.TransactionID,
			&amount, &entryType, &currency, &entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}

		entry.Amount = money.FromMinor(amount)
		entry.Type = model.EntryType(entryType)
		entry.Currency = model.Currency(currency)
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger entries: %w", err)
	}
	return entries, nil
}
