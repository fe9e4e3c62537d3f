package account

import (
	"github.com/spf13/cobra"

	"github.com/hance08/keabank/internal/app"
	"github.com/hance08/keabank/internal/apperr"
	"github.com/hance08/keabank/internal/constants"
	"github.com/hance08/keabank/internal/model"
	"github.com/hance08/keabank/internal/service"
	"github.com/hance08/keabank/internal/ui/views"
)

type reconcileFlags struct {
	All bool
}

type ReconcileCommandRunner struct {
	app   *app.App
	flags *reconcileFlags
	cmd   *cobra.Command
}

func NewReconcileCmd(application *app.App) *cobra.Command {
	flags := &reconcileFlags{}

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Compare stored balances with the sum of their ledger entries",
		Long: `Compare each stored balance with the sum of its ledger entries.
By default only the acting user's accounts are checked; --all checks every
user's accounts and the system equity accounts.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &ReconcileCommandRunner{
				app:   application,
				flags: flags,
				cmd:   cmd,
			}
			return runner.Run()
		},
	}

	cmd.Flags().BoolVarP(&flags.All, "all", "a", false, "Check every account, including system accounts")

	return cmd
}

func (r *ReconcileCommandRunner) Run() error {
	accounts, err := r.accounts()
	if err != nil {
		return err
	}

	recs := make([]*service.Reconciliation, 0, len(accounts))
	for _, acc := range accounts {
		rec, err := r.app.Service.Ledger.Reconcile(r.cmd.Context(), acc.ID)
		if err != nil {
			return err
		}
		recs = append(recs, rec)
	}

	if err := views.RenderReconciliation(recs); err != nil {
		return err
	}
	for _, rec := range recs {
		if !rec.Balanced {
			return apperr.InvalidOperation("ledger and stored balances disagree")
		}
	}
	return nil
}

func (r *ReconcileCommandRunner) accounts() ([]*model.Account, error) {
	ctx := r.cmd.Context()
	svc := r.app.Service

	if !r.flags.All {
		user, err := svc.CurrentUser(ctx)
		if err != nil {
			return nil, err
		}
		return svc.Account.ListByUser(ctx, user.ID)
	}

	users, err := svc.User.List(ctx)
	if err != nil {
		return nil, err
	}
	ids := []string{constants.SystemUserID}
	for _, u := range users {
		ids = append(ids, u.ID)
	}

	var all []*model.Account
	for _, id := range ids {
		accounts, err := svc.Account.ListByUser(ctx, id)
		if err != nil {
			return nil, err
		}
		all = append(all, accounts...)
	}
	return all, nil
}
