package ui

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/shopspring/decimal"

	"github.com/hance08/keabank/internal/model"
	"github.com/hance08/keabank/internal/money"
)

func PrintL1Title(format string, a ...interface{}) {
	style := pterm.NewStyle(pterm.BgCyan, pterm.FgBlack, pterm.Bold)

	text := fmt.Sprintf(format, a...)

	paddedText := fmt.Sprintf(" %s   ", text)

	style.Println(paddedText)
}

func PrintL2Title(format string, a ...interface{}) {
	style := pterm.NewStyle(pterm.FgCyan, pterm.Bold)

	text := fmt.Sprintf(format, a...)

	paddedText := fmt.Sprintf("# %s   ", text)

	style.Println(paddedText)
}

func Separator() {
	pterm.Println(pterm.Green("----------------------------------------"))
}

// Amount formats an amount with its currency code.
func Amount(amount decimal.Decimal, currency model.Currency) string {
	return fmt.Sprintf("%s %s", money.Format(amount), currency)
}

// SignedAmount colors credits green and debits red.
func SignedAmount(amount decimal.Decimal, currency model.Currency) string {
	text := Amount(amount, currency)
	switch {
	case amount.IsPositive():
		return pterm.Green("+" + text)
	case amount.IsNegative():
		return pterm.Red(text)
	default:
		return text
	}
}

// ShortID keeps the random tail of a UUIDv7, enough to tell rows apart in a
// table.
func ShortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[len(id)-8:]
}
