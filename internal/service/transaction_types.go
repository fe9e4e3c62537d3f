package service

import (
	"github.com/shopspring/decimal"

	"github.com/hance08/keabank/internal/model"
)

type TransferParams struct {
	FromUserID string
	ToUserID   string
	Amount     decimal.Decimal
	Currency   model.Currency
}

type ExchangeParams struct {
	UserID       string
	FromCurrency model.Currency
	ToCurrency   model.Currency
	Amount       decimal.Decimal
}

// FindAllParams selects a page of a user's history. Zero Page or Limit
// means the default; Type nil means every type.
type FindAllParams struct {
	UserID string
	Type   *model.TransactionType
	Page   int
	Limit  int
}

type PaginatedResult struct {
	Transactions []*model.Transaction
	Total        int
	Page         int
	Limit        int
	TotalPages   int
}

// TransactionDetail is a transaction with the entries that settled it.
type TransactionDetail struct {
	Transaction *model.Transaction
	Entries     []*model.LedgerEntry
}
