package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Account struct {
	ID        string
	UserID    string
	Currency  Currency
	Balance   decimal.Decimal
	IsSystem  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type User struct {
	ID        string
	Email     string
	IsSystem  bool
	CreatedAt time.Time
}
