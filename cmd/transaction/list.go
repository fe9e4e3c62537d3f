package transaction

import (
	"github.com/spf13/cobra"

	"github.com/hance08/keabank/internal/app"
	"github.com/hance08/keabank/internal/apperr"
	"github.com/hance08/keabank/internal/model"
	"github.com/hance08/keabank/internal/service"
	"github.com/hance08/keabank/internal/ui/views"
)

type listFlags struct {
	Type  string
	Page  int
	Limit int
}

type ListCommandRunner struct {
	app   *app.App
	flags *listFlags
	cmd   *cobra.Command
}

func NewListCmd(application *app.App) *cobra.Command {
	flags := &listFlags{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the transactions you initiated, newest first",
		Long: `List the transactions you initiated, newest first.
Transfers you received are not listed here; see "account entries" for the
full history of an account.

Examples:
	keabank transaction list
	keabank transaction list --type exchange --page 2 --limit 20`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &ListCommandRunner{
				app:   application,
				flags: flags,
				cmd:   cmd,
			}
			return runner.Run()
		},
	}

	cmd.Flags().StringVarP(&flags.Type, "type", "t", "", "Filter by type (transfer, exchange, opening)")
	cmd.Flags().IntVarP(&flags.Page, "page", "p", 1, "Page number, starting at 1")
	cmd.Flags().IntVarP(&flags.Limit, "limit", "l", 10, "Transactions per page (max 100)")

	return cmd
}

func (r *ListCommandRunner) Run() error {
	ctx := r.cmd.Context()

	user, err := r.app.Service.CurrentUser(ctx)
	if err != nil {
		return err
	}

	params := service.FindAllParams{
		UserID: user.ID,
		Page:   r.flags.Page,
		Limit:  r.flags.Limit,
	}
	if r.flags.Type != "" {
		t, err := model.ParseTransactionType(r.flags.Type)
		if err != nil {
			return apperr.Validation("%s", err.Error())
		}
		params.Type = &t
	}

	page, err := r.app.Service.Transaction.FindAll(ctx, params)
	if err != nil {
		return err
	}

	return views.RenderTransactionPage(page)
}
