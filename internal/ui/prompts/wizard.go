package prompts

import (
	"github.com/hance08/keabank/internal/model"
)

// PromptInitCurrency runs on first start, before defaults.currency is set.
func PromptInitCurrency(currDefault model.Currency) (model.Currency, error) {
	return PromptCurrency(
		"Welcome to keabank! Please choose the default currency for transfers:",
		model.SupportedCurrencies,
		currDefault,
	)
}

func PromptCurrency(message string, options []model.Currency, currDefault model.Currency) (model.Currency, error) {
	labels := make([]string, len(options))
	for i, c := range options {
		labels[i] = c.String()
	}
	return PromptSelect(message, labels, options, currDefault)
}
