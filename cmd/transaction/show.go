package transaction

import (
	"github.com/spf13/cobra"

	"github.com/hance08/keabank/internal/app"
	"github.com/hance08/keabank/internal/ui/views"
	"github.com/hance08/keabank/internal/validation"
)

type ShowCommandRunner struct {
	app *app.App
	cmd *cobra.Command
}

func NewShowCmd(application *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <transaction-id>",
		Short: "Show transaction details and its ledger entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &ShowCommandRunner{
				app: application,
				cmd: cmd,
			}
			return runner.Run(args)
		},
	}
}

func (r *ShowCommandRunner) Run(args []string) error {
	ctx := r.cmd.Context()

	if err := validation.ValidateID("transaction", args[0]); err != nil {
		return err
	}

	user, err := r.app.Service.CurrentUser(ctx)
	if err != nil {
		return err
	}

	detail, err := r.app.Service.Transaction.GetDetail(ctx, args[0], user.ID)
	if err != nil {
		return err
	}

	return views.RenderTransactionDetail(detail)
}
