package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeTransfer TransactionType = "transfer"
	TransactionTypeExchange TransactionType = "exchange"
	TransactionTypeOpening  TransactionType = "opening"
)

func ParseTransactionType(s string) (TransactionType, error) {
	switch t := TransactionType(strings.ToLower(strings.TrimSpace(s))); t {
	case TransactionTypeTransfer, TransactionTypeExchange, TransactionTypeOpening:
		return t, nil
	default:
		return "", fmt.Errorf("unknown transaction type %q (must be transfer, exchange or opening)", s)
	}
}

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
)

// Transaction summarizes one settled money movement. Its ledger entries
// carry the authoritative per-account amounts.
type Transaction struct {
	ID              string
	UserID          string
	Type            TransactionType
	Status          TransactionStatus
	Amount          decimal.Decimal
	Currency        Currency
	FromAccountID   *string
	ToAccountID     *string
	ToUserID        *string
	ExchangeRate    decimal.NullDecimal
	ConvertedAmount decimal.NullDecimal
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
