// Package fxrate supplies the USD to EUR base rate used by exchanges.
package fxrate

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultUSDToEUR is used when no rate is configured.
var DefaultUSDToEUR = decimal.RequireFromString("0.92")

// Static serves a fixed rate from configuration.
type Static struct {
	rate decimal.Decimal
}

func NewStatic(rate decimal.Decimal) (*Static, error) {
	if !rate.IsPositive() {
		return nil, fmt.Errorf("exchange rate must be greater than 0, got %s", rate)
	}
	return &Static{rate: rate}, nil
}

func (s *Static) ExchangeRate(context.Context) (decimal.Decimal, error) {
	return s.rate, nil
}
