package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/hance08/keabank/internal/model"
	"github.com/hance08/keabank/internal/money"
)

const sqliteEntryColumns = "id, account_id, transaction_id, amount, type, currency, created_at"

func (s *SQLiteStore) CreateLedgerEntry(ctx context.Context, entry *model.LedgerEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ledger_entries (id, account_id, transaction_id, amount, type, currency, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.AccountID, entry.TransactionID, money.ToMinor(entry.Amount),
		string(entry.Type), string(entry.Currency), toUnixMicro(entry.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert ledger entry : %w", mapSQLiteErr(err))
	}
	return nil
}

// GetEntriesByTransaction returns the entries in write order (debit first).
func (s *SQLiteStore) GetEntriesByTransaction(ctx context.Context, txID string) ([]*model.LedgerEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+sqliteEntryColumns+" FROM ledger_entries WHERE transaction_id = ? ORDER BY created_at, rowid",
		txID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger entries: %w", err)
	}
	return collectSQLiteEntries(rows)
}

// GetEntriesByAccount returns the account's history, newest first.
func (s *SQLiteStore) GetEntriesByAccount(ctx context.Context, accountID string, filter EntryFilter) ([]*model.LedgerEntry, error) {
	var query strings.Builder
	args := []any{accountID}

	query.WriteString("SELECT " + sqliteEntryColumns + " FROM ledger_entries WHERE account_id = ?")
	if !filter.From.IsZero() {
		query.WriteString(" AND created_at >= ?")
		args = append(args, toUnixMicro(filter.From))
	}
	if !filter.To.IsZero() {
		query.WriteString(" AND created_at <= ?")
		args = append(args, toUnixMicro(filter.To))
	}
	query.WriteString(" ORDER BY created_at DESC, rowid DESC")

	// SQLite only accepts OFFSET after LIMIT; -1 means unbounded.
	if filter.Limit > 0 || filter.Offset > 0 {
		limit := filter.Limit
		if limit <= 0 {
			limit = -1
		}
		query.WriteString(" LIMIT ? OFFSET ?")
		args = append(args, limit, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger entries: %w", err)
	}
	return collectSQLiteEntries(rows)
}

func (s *SQLiteStore) SumEntriesByAccount(ctx context.Context, accountID string) (decimal.Decimal, error) {
	var sum sql.NullInt64
	err := s.db.QueryRowContext(ctx, `
		SELECT SUM(amount)
		FROM ledger_entries
		WHERE account_id = ?
	`, accountID).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to calculate balance: %w", err)
	}

	if sum.Valid {
		return money.FromMinor(sum.Int64), nil
	}
	return decimal.Zero, nil
}

func collectSQLiteEntries(rows *sql.Rows) ([]*model.LedgerEntry, error) {
	defer rows.Close()

	var entries []*model.LedgerEntry
	for rows.Next() {
		entry := &model.LedgerEntry{}
		var amount, createdAt int64
		var entryType, currency string

		err := rows.Scan(
			&entry.ID, &entry.AccountID, &entry.TransactionID,
			&amount, &entryType, &currency, &createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}

		entry.Amount = money.FromMinor(amount)
		entry.Type = model.EntryType(entryType)
		entry.Currency = model.Currency(currency)
		entry.CreatedAt = fromUnixMicro(createdAt)
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger entries: %w", err)
	}
	return entries, nil
}
