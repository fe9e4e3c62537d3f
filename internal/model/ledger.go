package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type EntryType string

const (
	EntryTypeDebit  EntryType = "debit"
	EntryTypeCredit EntryType = "credit"
)

// LedgerEntry is one immutable signed movement against one account.
// Debits are negative, credits positive.
type LedgerEntry struct {
	ID            string
	AccountID     string
	TransactionID string
	Amount        decimal.Decimal
	Type          EntryType
	Currency      Currency
	CreatedAt     time.Time
}
