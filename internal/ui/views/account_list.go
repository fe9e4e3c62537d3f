package views

import (
	"github.com/pterm/pterm"

	"github.com/hance08/keabank/internal/model"
	"github.com/hance08/keabank/internal/ui"
)

func RenderAccountList(accounts []*model.Account) error {
	if len(accounts) == 0 {
		pterm.Warning.Println("No accounts found")
		return nil
	}

	tableData := pterm.TableData{{"Currency", "Balance", "Account ID", "Opened"}}
	for _, acc := range accounts {
		balance := ui.Amount(acc.Balance, acc.Currency)
		if acc.IsSystem {
			balance = pterm.Gray(balance)
		} else if acc.Balance.IsZero() {
			balance = pterm.Yellow(balance)
		} else {
			balance = pterm.Green(balance)
		}

		tableData = append(tableData, []string{
			acc.Currency.String(),
			balance,
			acc.ID,
			acc.CreatedAt.Local().Format("2006-01-02"),
		})
	}

	pterm.DefaultSection.Printf("Account List")
	if err := pterm.DefaultTable.WithHasHeader().WithData(tableData).Render(); err != nil {
		return err
	}

	pterm.Info.Printf("Total: %d accounts\n", len(accounts))
	return nil
}

func RenderUserList(users []*model.User) error {
	if len(users) == 0 {
		pterm.Warning.Println("No users found")
		return nil
	}

	tableData := pterm.TableData{{"User ID", "Email", "Registered"}}
	for _, u := range users {
		tableData = append(tableData, []string{u.ID, u.Email, u.CreatedAt.Local().Format("2006-01-02 15:04")})
	}

	pterm.DefaultSection.Printf("Users")
	return pterm.DefaultTable.WithHasHeader().WithData(tableData).Render()
}
