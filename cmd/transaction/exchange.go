package transaction

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/hance08/keabank/internal/app"
	"github.com/hance08/keabank/internal/apperr"
	"github.com/hance08/keabank/internal/model"
	"github.com/hance08/keabank/internal/service"
	"github.com/hance08/keabank/internal/ui/prompts"
	"github.com/hance08/keabank/internal/ui/views"
	"github.com/hance08/keabank/internal/validation"
)

type exchangeFlags struct {
	From   string
	To     string
	Amount string
	Yes    bool
}

type ExchangeCommandRunner struct {
	app   *app.App
	flags *exchangeFlags
	cmd   *cobra.Command
}

func NewExchangeCmd(application *app.App) *cobra.Command {
	flags := &exchangeFlags{}

	cmd := &cobra.Command{
		Use:   "exchange",
		Short: "Convert money between your own USD and EUR accounts",
		Long: `Convert money between your own USD and EUR accounts at the current rate.

Examples:
	keabank transaction exchange
	keabank transaction exchange --from USD --to EUR --amount 100 --yes`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &ExchangeCommandRunner{
				app:   application,
				flags: flags,
				cmd:   cmd,
			}
			return runner.Run()
		},
	}

	cmd.Flags().StringVarP(&flags.From, "from", "f", "", "Currency to sell")
	cmd.Flags().StringVarP(&flags.To, "to", "t", "", "Currency to buy")
	cmd.Flags().StringVarP(&flags.Amount, "amount", "a", "", "Amount to sell, in the --from currency")
	cmd.Flags().BoolVarP(&flags.Yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

func (r *ExchangeCommandRunner) Run() error {
	ctx := r.cmd.Context()

	user, err := r.app.Service.CurrentUser(ctx)
	if err != nil {
		return err
	}

	params, err := r.collect(user.ID)
	if err != nil {
		return err
	}

	if !r.flags.Yes {
		base, err := r.app.Rates.ExchangeRate(ctx)
		if err != nil {
			return err
		}
		quote, err := service.QuoteExchange(params.FromCurrency, params.ToCurrency, params.Amount, base)
		if err != nil {
			return err
		}

		if err := views.RenderExchangeSummary(views.ExchangeSummaryItem{
			From:   params.FromCurrency,
			To:     params.ToCurrency,
			Amount: params.Amount,
			Quote:  quote,
		}); err != nil {
			return err
		}

		confirm, err := prompts.PromptConfirm("Exchange now?", true)
		if err != nil {
			return err
		}
		if !confirm {
			pterm.Warning.Println("Exchange cancelled")
			return nil
		}
	}

	tx, err := r.app.Service.Transaction.Exchange(ctx, params)
	if err != nil {
		return err
	}

	views.RenderTransactionSuccess(tx)
	return nil
}

func (r *ExchangeCommandRunner) collect(userID string) (service.ExchangeParams, error) {
	params := service.ExchangeParams{UserID: userID}

	from, err := r.currency(r.flags.From, "Currency to sell:", model.CurrencyUSD)
	if err != nil {
		return params, err
	}
	params.FromCurrency = from

	counter := model.CurrencyEUR
	if from == model.CurrencyEUR {
		counter = model.CurrencyUSD
	}
	to, err := r.currency(r.flags.To, "Currency to buy:", counter)
	if err != nil {
		return params, err
	}
	params.ToCurrency = to

	amount := r.flags.Amount
	if amount == "" {
		amount, err = prompts.PromptAmount("Amount:", "How much "+from.String()+" to sell", validation.ValidateAmount)
		if err != nil {
			return params, err
		}
	}
	if params.Amount, err = parseAmount(amount); err != nil {
		return params, err
	}

	return params, nil
}

func (r *ExchangeCommandRunner) currency(flag, message string, def model.Currency) (model.Currency, error) {
	if flag == "" {
		return prompts.PromptCurrency(message, []model.Currency{model.CurrencyUSD, model.CurrencyEUR}, def)
	}
	c, err := model.ParseCurrency(flag)
	if err != nil {
		return "", apperr.Validation("%s", err.Error())
	}
	return c, nil
}
