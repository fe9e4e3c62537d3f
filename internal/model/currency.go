package model

import (
	"fmt"
	"strings"
)

type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
)

// SupportedCurrencies is the closed set of account currencies, in display order.
var SupportedCurrencies = []Currency{CurrencyEUR, CurrencyGBP, CurrencyUSD}

func (c Currency) Valid() bool {
	for _, s := range SupportedCurrencies {
		if c == s {
			return true
		}
	}
	return false
}

func (c Currency) String() string {
	return string(c)
}

// ParseCurrency accepts a case-insensitive ISO code from the closed set.
func ParseCurrency(s string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("unsupported currency %q (must be one of %v)", s, SupportedCurrencies)
	}
	return c, nil
}
