package service

import (
	"github.com/shopspring/decimal"

	"github.com/hance08/keabank/internal/apperr"
	"github.com/hance08/keabank/internal/model"
	"github.com/hance08/keabank/internal/money"
)

// Quote is the rate applied to one exchange and the amount it yields.
type Quote struct {
	Rate      decimal.Decimal
	Converted decimal.Decimal
}

func supportedPair(from, to model.Currency) bool {
	return (from == model.CurrencyUSD && to == model.CurrencyEUR) ||
		(from == model.CurrencyEUR && to == model.CurrencyUSD)
}

// QuoteExchange converts amount from one currency to the other using the
// USD to EUR base rate. The recorded rate is rounded to two places; the
// converted amount is computed from the unrounded rate.
func QuoteExchange(from, to model.Currency, amount, base decimal.Decimal) (Quote, error) {
	if !base.IsPositive() {
		return Quote{}, apperr.Validation("exchange rate must be greater than 0, got %s", base.String())
	}

	switch {
	case from == model.CurrencyUSD && to == model.CurrencyEUR:
		return Quote{
			Rate:      money.Round(base),
			Converted: money.Round(amount.Mul(base)),
		}, nil
	case from == model.CurrencyEUR && to == model.CurrencyUSD:
		return Quote{
			Rate:      money.Round(decimal.NewFromInt(1).Div(base)),
			Converted: money.Round(amount.Div(base)),
		}, nil
	default:
		return Quote{}, apperr.UnsupportedPair(from.String(), to.String())
	}
}
