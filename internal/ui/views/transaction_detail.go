package views

import (
	"github.com/pterm/pterm"

	"github.com/hance08/keabank/internal/constants"
	"github.com/hance08/keabank/internal/service"
	"github.com/hance08/keabank/internal/ui"
)

func RenderTransactionDetail(detail *service.TransactionDetail) error {
	tx := detail.Transaction

	pterm.Println()
	ui.PrintL1Title("Transaction %s", ui.ShortID(tx.ID))
	ui.PrintL2Title("Transaction Info")
	infoData := pterm.TableData{
		{"Field", "Value"},
		{"ID", tx.ID},
		{"Date", tx.CreatedAt.Local().Format(constants.DateTimeFormat)},
		{"Type", typeLabel(tx.Type)},
		{"Status", statusLabel(tx.Status)},
		{"Amount", ui.Amount(tx.Amount, tx.Currency)},
		{"From Account", deref(tx.FromAccountID)},
		{"To Account", deref(tx.ToAccountID)},
	}
	if tx.ToUserID != nil {
		infoData = append(infoData, []string{"Recipient", *tx.ToUserID})
	}
	if tx.ExchangeRate.Valid {
		infoData = append(infoData, []string{"Exchange Rate", tx.ExchangeRate.Decimal.StringFixed(2)})
	}
	if tx.ConvertedAmount.Valid {
		infoData = append(infoData, []string{"Converted Amount", tx.ConvertedAmount.Decimal.StringFixed(2)})
	}
	if err := pterm.DefaultTable.
		WithHasHeader().
		WithHeaderStyle(pterm.NewStyle(pterm.FgGray)).
		WithData(infoData).
		Render(); err != nil {
		return err
	}

	pterm.Println()
	ui.PrintL2Title("Ledger Entries")
	entryData := pterm.TableData{
		{"Account", "Role", "Type", "Amount"},
	}
	for _, e := range detail.Entries {
		entryData = append(entryData, []string{
			e.AccountID,
			EntryRoleLabel(tx, e),
			string(e.Type),
			ui.SignedAmount(e.Amount, e.Currency),
		})
	}

	return pterm.DefaultTable.
		WithHasHeader().
		WithHeaderStyle(pterm.NewStyle(pterm.FgGray)).
		WithData(entryData).
		Render()
}
