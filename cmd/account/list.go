package account

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/hance08/keabank/internal/app"
	"github.com/hance08/keabank/internal/apperr"
	"github.com/hance08/keabank/internal/model"
	"github.com/hance08/keabank/internal/ui"
	"github.com/hance08/keabank/internal/ui/views"
	"github.com/hance08/keabank/internal/validation"
)

type ListCommandRunner struct {
	app *app.App
	cmd *cobra.Command
}

func NewListCmd(application *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your accounts with their balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &ListCommandRunner{
				app: application,
				cmd: cmd,
			}
			return runner.Run()
		},
	}
}

func (r *ListCommandRunner) Run() error {
	ctx := r.cmd.Context()

	user, err := r.app.Service.CurrentUser(ctx)
	if err != nil {
		return err
	}

	accounts, err := r.app.Service.Account.ListByUser(ctx, user.ID)
	if err != nil {
		return err
	}

	pterm.Info.Printf("Accounts of %s\n", user.Email)
	return views.RenderAccountList(accounts)
}

type BalanceCommandRunner struct {
	app *app.App
	cmd *cobra.Command
}

func NewBalanceCmd(application *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "balance <currency>",
		Short: "Show the balance of your account in one currency",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &BalanceCommandRunner{
				app: application,
				cmd: cmd,
			}
			return runner.Run(args)
		},
	}
}

func (r *BalanceCommandRunner) Run(args []string) error {
	ctx := r.cmd.Context()

	if err := validation.ValidateCurrency(args[0]); err != nil {
		return err
	}
	currency, _ := model.ParseCurrency(args[0])

	user, err := r.app.Service.CurrentUser(ctx)
	if err != nil {
		return err
	}

	acc, err := r.app.Service.Account.FindByUserAndCurrency(ctx, user.ID, currency)
	if err != nil {
		return err
	}
	if acc == nil {
		return apperr.NotFound("no %s account for user %s", currency, user.ID)
	}

	balance, err := r.app.Service.Account.GetBalance(ctx, acc.ID)
	if err != nil {
		return err
	}

	pterm.Info.Printf("%s account %s\n", currency, acc.ID)
	pterm.Println(pterm.Bold.Sprint(ui.Amount(balance, currency)))
	return nil
}
