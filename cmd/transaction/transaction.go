package transaction

import (
	"github.com/spf13/cobra"

	"github.com/hance08/keabank/internal/app"
)

func NewTransactionCmd(application *app.App) *cobra.Command {
	transactionCmd := &cobra.Command{
		Use:     "transaction",
		Aliases: []string{"tx"},
		Short:   "Move money and browse your transaction history",
		Long: `Transfer money to other users, exchange between your own currency
accounts, and view the transactions you initiated.`,
	}

	transactionCmd.AddCommand(NewTransferCmd(application))
	transactionCmd.AddCommand(NewExchangeCmd(application))
	transactionCmd.AddCommand(NewListCmd(application))
	transactionCmd.AddCommand(NewShowCmd(application))

	return transactionCmd
}
