package cmd

import (
	"github.com/spf13/cobra"

	"github.com/hance08/keabank/internal/app"
	"github.com/hance08/keabank/internal/ui/prompts"
	"github.com/hance08/keabank/internal/ui/views"
	"github.com/hance08/keabank/internal/validation"
)

func NewUserCmd(application *app.App) *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Register users and list them",
	}

	userCmd.AddCommand(newUserCreateCmd(application))
	userCmd.AddCommand(newUserListCmd(application))

	return userCmd
}

type userCreateRunner struct {
	app *app.App
	cmd *cobra.Command
}

func newUserCreateCmd(application *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "create [email]",
		Short: "Register a user and open their starting accounts",
		Long: `Register a user by email. The user receives one account per configured
opening balance (USD 1000.00 and EUR 500.00 by default), funded from the
system equity accounts.

Examples:
	keabank user create alice@example.com
	keabank user create   # prompts for the email`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &userCreateRunner{
				app: application,
				cmd: cmd,
			}
			return runner.Run(args)
		},
	}
}

func (r *userCreateRunner) Run(args []string) error {
	var email string
	if len(args) == 1 {
		email = args[0]
	} else {
		var err error
		email, err = prompts.PromptInput("Email:", "", validation.ValidateEmail)
		if err != nil {
			return err
		}
	}

	user, accounts, err := r.app.Service.User.Provision(r.cmd.Context(), email)
	if err != nil {
		return err
	}

	return views.RenderUserSuccess(user, accounts)
}

func newUserListCmd(application *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := application.Service.User.List(cmd.Context())
			if err != nil {
				return err
			}
			return views.RenderUserList(users)
		},
	}
}
