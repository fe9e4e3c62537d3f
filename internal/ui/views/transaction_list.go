package views

import (
	"fmt"

	"github.com/pterm/pterm"

	"github.com/hance08/keabank/internal/constants"
	"github.com/hance08/keabank/internal/service"
	"github.com/hance08/keabank/internal/ui"
)

func RenderTransactionPage(page *service.PaginatedResult) error {
	if len(page.Transactions) == 0 {
		pterm.Warning.Println("No transactions found")
		return nil
	}

	pterm.DefaultSection.Printf("Transactions (page %d of %d)", page.Page, page.TotalPages)

	tableData := pterm.TableData{
		{"ID", "Date", "Type", "Amount", "Converted", "Status"},
	}

	for _, tx := range page.Transactions {
		label := typeLabel(tx.Type)
		amount := ui.Amount(tx.Amount, tx.Currency)

		var coloredType string
		switch tx.Type {
		case "transfer":
			coloredType = pterm.Blue(label)
		case "exchange":
			coloredType = pterm.Magenta(label)
		default:
			coloredType = pterm.Gray(label)
		}

		converted := "-"
		if tx.ConvertedAmount.Valid {
			converted = fmt.Sprintf("%s @ %s", tx.ConvertedAmount.Decimal.StringFixed(2), tx.ExchangeRate.Decimal.StringFixed(2))
		}

		tableData = append(tableData, []string{
			tx.ID,
			tx.CreatedAt.Local().Format(constants.DateTimeFormat),
			coloredType,
			amount,
			converted,
			statusLabel(tx.Status),
		})
	}

	if err := pterm.DefaultTable.WithHasHeader().WithData(tableData).Render(); err != nil {
		return err
	}
	pterm.Info.Printf("Showing %d of %d transactions (limit %d)\n", len(page.Transactions), page.Total, page.Limit)
	return nil
}
