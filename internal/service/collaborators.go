package service

import (
	"context"

	"github.com/shopspring/decimal"
)

// UserDirectory answers whether a user id belongs to a registered user.
type UserDirectory interface {
	UserExists(ctx context.Context, userID string) (bool, error)
}

// IdentityProvider names the user on whose behalf an operation runs.
type IdentityProvider interface {
	CurrentIdentity(ctx context.Context) (string, error)
}

// RateProvider supplies the USD to EUR base rate.
type RateProvider interface {
	ExchangeRate(ctx context.Context) (decimal.Decimal, error)
}
