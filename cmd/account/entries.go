package account

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/hance08/keabank/internal/app"
	"github.com/hance08/keabank/internal/apperr"
	"github.com/hance08/keabank/internal/constants"
	"github.com/hance08/keabank/internal/model"
	"github.com/hance08/keabank/internal/store"
	"github.com/hance08/keabank/internal/ui/views"
	"github.com/hance08/keabank/internal/validation"
)

type entriesFlags struct {
	Limit  int
	Offset int
	From   string
	To     string
}

type EntriesCommandRunner struct {
	app   *app.App
	flags *entriesFlags
	cmd   *cobra.Command
}

func NewEntriesCmd(application *app.App) *cobra.Command {
	flags := &entriesFlags{}

	cmd := &cobra.Command{
		Use:   "entries <currency>",
		Short: "Show the ledger history of one of your accounts",
		Long: `Show the ledger entries of one of your accounts, newest first.

Examples:
	keabank account entries USD
	keabank account entries EUR --from 2025-01-01 --to 2025-01-31 --limit 50`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &EntriesCommandRunner{
				app:   application,
				flags: flags,
				cmd:   cmd,
			}
			return runner.Run(args)
		},
	}

	cmd.Flags().IntVarP(&flags.Limit, "limit", "l", 20, "Maximum number of entries (0 for all)")
	cmd.Flags().IntVar(&flags.Offset, "offset", 0, "Number of newest entries to skip")
	cmd.Flags().StringVar(&flags.From, "from", "", "Only entries on or after this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&flags.To, "to", "", "Only entries before the end of this date (YYYY-MM-DD)")

	return cmd
}

func (r *EntriesCommandRunner) Run(args []string) error {
	ctx := r.cmd.Context()

	if err := validation.ValidateCurrency(args[0]); err != nil {
		return err
	}
	currency, _ := model.ParseCurrency(args[0])

	filter := store.EntryFilter{Limit: r.flags.Limit, Offset: r.flags.Offset}
	if r.flags.From != "" {
		from, err := parseDate(r.flags.From)
		if err != nil {
			return err
		}
		filter.From = from
	}
	if r.flags.To != "" {
		to, err := parseDate(r.flags.To)
		if err != nil {
			return err
		}
		filter.To = to.AddDate(0, 0, 1)
	}

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

	entries, err := r.app.Service.Ledger.FindByAccountID(ctx, acc.ID, filter)
	if err != nil {
		return err
	}

	return views.RenderEntries(acc, entries)
}

func parseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(constants.DateFormat, s, time.Local)
	if err != nil {
		return time.Time{}, apperr.Validation("invalid date %q (expected YYYY-MM-DD)", s)
	}
	return t, nil
}
