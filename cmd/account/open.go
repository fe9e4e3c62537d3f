package account

import (
	"github.com/spf13/cobra"

	"github.com/hance08/keabank/internal/app"
	"github.com/hance08/keabank/internal/apperr"
	"github.com/hance08/keabank/internal/model"
	"github.com/hance08/keabank/internal/money"
	"github.com/hance08/keabank/internal/ui/prompts"
	"github.com/hance08/keabank/internal/ui/views"
	"github.com/hance08/keabank/internal/validation"
)

type openFlags struct {
	Initial string
}

type OpenCommandRunner struct {
	app   *app.App
	flags *openFlags
	cmd   *cobra.Command
}

func NewOpenCmd(application *app.App) *cobra.Command {
	flags := &openFlags{}

	cmd := &cobra.Command{
		Use:   "open [currency]",
		Short: "Open an account in a currency you don't hold yet",
		Long: `Open an account in a currency you don't hold yet.
A non-zero --initial balance is funded from the system equity account and
recorded as an opening transaction.

Examples:
	keabank account open GBP
	keabank account open GBP --initial 250`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &OpenCommandRunner{
				app:   application,
				flags: flags,
				cmd:   cmd,
			}
			return runner.Run(args)
		},
	}

	cmd.Flags().StringVarP(&flags.Initial, "initial", "i", "0", "Opening balance funded from system equity")

	return cmd
}

func (r *OpenCommandRunner) Run(args []string) error {
	ctx := r.cmd.Context()

	user, err := r.app.Service.CurrentUser(ctx)
	if err != nil {
		return err
	}

	var currency model.Currency
	if len(args) == 1 {
		currency, err = model.ParseCurrency(args[0])
		if err != nil {
			return apperr.Validation("%s", err.Error())
		}
	} else {
		currency, err = r.promptCurrency(user.ID)
		if err != nil {
			return err
		}
	}

	if err := validation.ValidateBalance(r.flags.Initial); err != nil {
		return err
	}
	initial, err := money.Parse(r.flags.Initial)
	if err != nil {
		return err
	}

	acc, err := r.app.Service.Transaction.OpenAccount(ctx, user.ID, currency, initial)
	if err != nil {
		return err
	}

	return views.RenderAccountSuccess(acc)
}

// promptCurrency offers only the currencies the user has no account in.
func (r *OpenCommandRunner) promptCurrency(userID string) (model.Currency, error) {
	held, err := r.app.Service.Account.ListByUser(r.cmd.Context(), userID)
	if err != nil {
		return "", err
	}

	var options []model.Currency
	for _, c := range model.SupportedCurrencies {
		missing := true
		for _, acc := range held {
			if acc.Currency == c {
				missing = false
				break
			}
		}
		if missing {
			options = append(options, c)
		}
	}
	if len(options) == 0 {
		return "", apperr.InvalidOperation("you already hold an account in every supported currency")
	}

	return prompts.PromptCurrency("Currency of the new account:", options, options[0])
}
