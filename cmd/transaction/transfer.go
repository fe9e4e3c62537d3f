package transaction

import (
	"github.com/pterm/pterm"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/hance08/keabank/internal/app"
	"github.com/hance08/keabank/internal/apperr"
	"github.com/hance08/keabank/internal/model"
	"github.com/hance08/keabank/internal/money"
	"github.com/hance08/keabank/internal/service"
	"github.com/hance08/keabank/internal/ui/prompts"
	"github.com/hance08/keabank/internal/ui/views"
	"github.com/hance08/keabank/internal/validation"
)

type transferFlags struct {
	To       string
	Amount   string
	Currency string
	Yes      bool
}

type TransferCommandRunner struct {
	app   *app.App
	flags *transferFlags
	cmd   *cobra.Command
}

func NewTransferCmd(application *app.App) *cobra.Command {
	flags := &transferFlags{}

	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Send money to another user",
		Long: `Send money from your account to another user's account in the same currency.
Missing flags are asked for interactively.

Examples:
	# Interactive mode
	keabank transaction transfer

	# Quick mode with flags
	keabank transaction transfer --to 0199... --amount 100 --currency USD --yes`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &TransferCommandRunner{
				app:   application,
				flags: flags,
				cmd:   cmd,
			}
			return runner.Run()
		},
	}

	cmd.Flags().StringVarP(&flags.To, "to", "t", "", "Recipient user ID")
	cmd.Flags().StringVarP(&flags.Amount, "amount", "a", "", "Amount to send (e.g., 100 or 100.50)")
	cmd.Flags().StringVarP(&flags.Currency, "currency", "C", "", "Currency of the transfer (default: defaults.currency)")
	cmd.Flags().BoolVarP(&flags.Yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

func (r *TransferCommandRunner) Run() error {
	ctx := r.cmd.Context()

	sender, err := r.app.Service.CurrentUser(ctx)
	if err != nil {
		return err
	}

	params, err := r.collect(sender)
	if err != nil {
		return err
	}

	recipient, err := r.app.Service.User.GetByID(ctx, params.ToUserID)
	if err != nil {
		return err
	}

	if !r.flags.Yes {
		if err := views.RenderTransferSummary(views.TransferSummaryItem{
			From:     sender.Email,
			To:       recipient.Email,
			Amount:   params.Amount,
			Currency: params.Currency,
		}); err != nil {
			return err
		}

		confirm, err := prompts.PromptConfirm("Send this transfer?", true)
		if err != nil {
			return err
		}
		if !confirm {
			pterm.Warning.Println("Transfer cancelled")
			return nil
		}
	}

	tx, err := r.app.Service.Transaction.Transfer(ctx, params)
	if err != nil {
		return err
	}

	views.RenderTransactionSuccess(tx)
	return nil
}

func (r *TransferCommandRunner) collect(sender *model.User) (service.TransferParams, error) {
	ctx := r.cmd.Context()
	params := service.TransferParams{FromUserID: sender.ID}

	params.ToUserID = r.flags.To
	if params.ToUserID == "" {
		users, err := r.app.Service.User.List(ctx)
		if err != nil {
			return params, err
		}
		if params.ToUserID, err = prompts.PromptRecipient(users, sender.ID); err != nil {
			return params, err
		}
	} else if err := validation.ValidateID("user", params.ToUserID); err != nil {
		return params, err
	}

	currency := r.flags.Currency
	if currency == "" {
		currency = r.app.Config.Defaults.Currency
	}
	c, err := model.ParseCurrency(currency)
	if err != nil {
		return params, apperr.Validation("%s", err.Error())
	}
	params.Currency = c

	amount := r.flags.Amount
	if amount == "" {
		amount, err = prompts.PromptAmount("Amount:", "How much "+c.String()+" to send", validation.ValidateAmount)
		if err != nil {
			return params, err
		}
	}
	if params.Amount, err = parseAmount(amount); err != nil {
		return params, err
	}

	return params, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	return money.ParsePositive(s)
}
