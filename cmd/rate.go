package cmd

import (
	"github.com/pterm/pterm"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/hance08/keabank/internal/app"
	"github.com/hance08/keabank/internal/apperr"
	"github.com/hance08/keabank/internal/fxrate"
	"github.com/hance08/keabank/internal/model"
	"github.com/hance08/keabank/internal/money"
	"github.com/hance08/keabank/internal/service"
)

func NewRateCmd(application *app.App) *cobra.Command {
	rateCmd := &cobra.Command{
		Use:   "rate",
		Short: "Show or publish the USD to EUR exchange rate",
	}

	rateCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the rate exchanges currently settle at",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showRate(cmd, application)
		},
	})

	rateCmd.AddCommand(&cobra.Command{
		Use:   "set <usd-to-eur>",
		Short: "Publish a new USD to EUR rate (exchange.source must be redis)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			publisher, err := requirePublisher(application)
			if err != nil {
				return err
			}
			rate, err := decimal.NewFromString(args[0])
			if err != nil {
				return apperr.Validation("invalid rate: %s", args[0])
			}
			if err := publisher.Publish(cmd.Context(), rate); err != nil {
				return err
			}
			pterm.Success.Printf("USD to EUR rate set to %s\n", rate.String())
			return nil
		},
	})

	rateCmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove the published rate and fall back to exchange.usd_to_eur",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			publisher, err := requirePublisher(application)
			if err != nil {
				return err
			}
			if err := publisher.Clear(cmd.Context()); err != nil {
				return err
			}
			pterm.Success.Println("Published rate cleared")
			return nil
		},
	})

	return rateCmd
}

func showRate(cmd *cobra.Command, application *app.App) error {
	base, err := application.Rates.ExchangeRate(cmd.Context())
	if err != nil {
		return err
	}

	one := decimal.NewFromInt(1)
	tableData := pterm.TableData{{"Pair", "Rate"}}
	for _, pair := range [][2]model.Currency{
		{model.CurrencyUSD, model.CurrencyEUR},
		{model.CurrencyEUR, model.CurrencyUSD},
	} {
		quote, err := service.QuoteExchange(pair[0], pair[1], one, base)
		if err != nil {
			return err
		}
		tableData = append(tableData, []string{pair[0].String() + " → " + pair[1].String(), money.Format(quote.Rate)})
	}

	pterm.DefaultSection.Printf("Exchange Rates (%s)", application.Config.Exchange.Source)
	return pterm.DefaultTable.WithHasHeader().WithData(tableData).Render()
}

func requirePublisher(application *app.App) (*fxrate.Redis, error) {
	if application.Publisher == nil {
		return nil, apperr.InvalidOperation("rates can only be published when exchange.source is redis")
	}
	return application.Publisher, nil
}
