package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hance08/keabank/internal/app"
	"github.com/hance08/keabank/internal/config"
	"github.com/hance08/keabank/internal/money"
	"github.com/hance08/keabank/internal/ui/views"
)

type infoRunner struct {
	app *app.App
	cmd *cobra.Command
}

func NewInfoCmd(application *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Display application information",
		Long:  `Display current configuration, database location, exchange rate source and acting user.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &infoRunner{
				app: application,
				cmd: cmd,
			}

			return runner.Run()
		},
	}
}

func (r *infoRunner) Run() error {
	cfg := r.app.Config

	configPath := cfg.ConfigPath
	if configPath == "" {
		configPath = "(None, using defaults)"
	}

	appDir := getAppDataDirOrUnknown()

	location := "(DSN hidden)"
	dbExists := false
	if cfg.Database.Driver == config.DriverSQLite {
		location = cfg.Database.Path
		if location == "" {
			location = filepath.Join(appDir, "keabank.db")
		}
		if _, err := os.Stat(location); err == nil {
			dbExists = true
		}
	}

	rate := "unavailable"
	if current, err := r.app.Rates.ExchangeRate(r.cmd.Context()); err == nil {
		rate = money.Format(current)
	}

	identity := ""
	if user, err := r.app.Service.CurrentUser(r.cmd.Context()); err == nil {
		identity = user.Email + " (" + user.ID + ")"
	}

	items := views.SystemInfoItem{
		ConfigPath:      configPath,
		Driver:          cfg.Database.Driver,
		DBLocation:      location,
		DBExists:        dbExists,
		DefaultCurrency: cfg.Defaults.Currency,
		RateSource:      cfg.Exchange.Source,
		CurrentRate:     rate,
		Identity:        identity,
		AppDataDir:      appDir,
	}

	return views.RenderSystemInfo(items)
}

func getAppDataDirOrUnknown() string {
	dir, err := app.AppDataDir()
	if err != nil {
		return "Unknown"
	}
	return dir
}
