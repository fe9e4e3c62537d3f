package views

import (
	"github.com/pterm/pterm"
	"github.com/shopspring/decimal"

	"github.com/hance08/keabank/internal/model"
	"github.com/hance08/keabank/internal/money"
	"github.com/hance08/keabank/internal/service"
	"github.com/hance08/keabank/internal/ui"
)

type TransferSummaryItem struct {
	From     string
	To       string
	Amount   decimal.Decimal
	Currency model.Currency
}

func RenderTransferSummary(data TransferSummaryItem) error {
	pterm.DefaultSection.Println("Transfer Summary")

	tableData := pterm.TableData{
		{"Field", "Value"},
		{"From", data.From},
		{"To", data.To},
		{"Amount", ui.Amount(data.Amount, data.Currency)},
	}
	return pterm.DefaultTable.WithHasHeader().WithData(tableData).Render()
}

type ExchangeSummaryItem struct {
	From   model.Currency
	To     model.Currency
	Amount decimal.Decimal
	Quote  service.Quote
}

func RenderExchangeSummary(data ExchangeSummaryItem) error {
	pterm.DefaultSection.Println("Exchange Summary")

	tableData := pterm.TableData{
		{"Field", "Value"},
		{"Sell", ui.Amount(data.Amount, data.From)},
		{"Buy", ui.Amount(data.Quote.Converted, data.To)},
		{"Rate", money.Format(data.Quote.Rate)},
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(tableData).Render(); err != nil {
		return err
	}
	pterm.Info.Println("The rate is fixed when the exchange settles and may differ from this quote.")
	return nil
}

func RenderTransactionSuccess(tx *model.Transaction) {
	ui.Separator()
	pterm.Success.Printf("%s %s completed (ID: %s)\n", typeLabel(tx.Type), ui.Amount(tx.Amount, tx.Currency), tx.ID)
	if tx.ConvertedAmount.Valid {
		pterm.Info.Printf("Converted amount: %s at rate %s\n",
			tx.ConvertedAmount.Decimal.StringFixed(2), tx.ExchangeRate.Decimal.StringFixed(2))
	}
}
