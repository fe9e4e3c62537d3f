package views

import (
	"github.com/pterm/pterm"

	"github.com/hance08/keabank/internal/constants"
	"github.com/hance08/keabank/internal/model"
	"github.com/hance08/keabank/internal/service"
	"github.com/hance08/keabank/internal/ui"
)

func RenderReconciliation(recs []*service.Reconciliation) error {
	tableData := pterm.TableData{{"Account", "Currency", "Stored", "Ledger", "Difference", "Status"}}

	broken := 0
	for _, r := range recs {
		status := pterm.Green("OK")
		if !r.Balanced {
			status = pterm.Red("MISMATCH")
			broken++
		}
		tableData = append(tableData, []string{
			ui.ShortID(r.Account.ID),
			r.Account.Currency.String(),
			r.StoredBalance.StringFixed(2),
			r.LedgerBalance.StringFixed(2),
			r.Difference.StringFixed(2),
			status,
		})
	}

	pterm.DefaultSection.Printf("Reconciliation")
	if err := pterm.DefaultTable.WithHasHeader().WithData(tableData).Render(); err != nil {
		return err
	}

	if broken > 0 {
		pterm.Error.Printf("%d account(s) do not match their ledger\n", broken)
	} else {
		pterm.Success.Println("All balances match the ledger")
	}
	return nil
}

func RenderEntries(acc *model.Account, entries []*model.LedgerEntry) error {
	if len(entries) == 0 {
		pterm.Warning.Println("No ledger entries found")
		return nil
	}

	pterm.DefaultSection.Printf("Ledger history of %s account %s", acc.Currency, acc.ID)

	tableData := pterm.TableData{{"Date", "Transaction", "Type", "Amount"}}
	for _, e := range entries {
		tableData = append(tableData, []string{
			e.CreatedAt.Local().Format(constants.DateTimeFormat),
			ui.ShortID(e.TransactionID),
			string(e.Type),
			ui.SignedAmount(e.Amount, e.Currency),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(tableData).Render()
}
