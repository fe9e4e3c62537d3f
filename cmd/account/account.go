package account

import (
	"github.com/spf13/cobra"

	"github.com/hance08/keabank/internal/app"
)

func NewAccountCmd(application *app.App) *cobra.Command {
	accountCmd := &cobra.Command{
		Use:   "account",
		Short: "List, open and reconcile the acting user's accounts",
		Long: `List, open and reconcile the acting user's accounts.
Pick the user with --as <user-id> or identity.user_id in the config file.`,
	}

	accountCmd.AddCommand(NewListCmd(application))
	accountCmd.AddCommand(NewBalanceCmd(application))
	accountCmd.AddCommand(NewOpenCmd(application))
	accountCmd.AddCommand(NewEntriesCmd(application))
	accountCmd.AddCommand(NewReconcileCmd(application))

	return accountCmd
}
