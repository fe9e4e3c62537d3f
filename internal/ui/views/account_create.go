package views

import (
	"github.com/pterm/pterm"

	"github.com/hance08/keabank/internal/model"
	"github.com/hance08/keabank/internal/ui"
)

func RenderAccountSuccess(acc *model.Account) error {
	ui.Separator()

	tableData := pterm.TableData{
		{pterm.Blue("Account ID"), acc.ID},
		{pterm.Blue("Currency"), acc.Currency.String()},
		{pterm.Blue("Balance"), ui.Amount(acc.Balance, acc.Currency)},
	}

	if err := pterm.DefaultTable.WithData(tableData).Render(); err != nil {
		return err
	}

	pterm.Success.Print("Account opened successfully!\n")
	return nil
}

func RenderUserSuccess(user *model.User, accounts []*model.Account) error {
	ui.Separator()

	tableData := pterm.TableData{
		{pterm.Blue("User ID"), user.ID},
		{pterm.Blue("Email"), user.Email},
	}
	for _, acc := range accounts {
		tableData = append(tableData, []string{
			pterm.Blue(acc.Currency.String() + " account"),
			acc.ID + "  " + ui.Amount(acc.Balance, acc.Currency),
		})
	}

	if err := pterm.DefaultTable.WithData(tableData).Render(); err != nil {
		return err
	}

	pterm.Success.Print("User created successfully!\n")
	pterm.Info.Printf("Act as this user with --as %s\n", user.ID)
	return nil
}
