package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/joho/godotenv"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/hance08/keabank/cmd/account"
	"github.com/hance08/keabank/cmd/transaction"
	"github.com/hance08/keabank/internal/app"
	"github.com/hance08/keabank/internal/config"
	"github.com/hance08/keabank/internal/errhandler"
	"github.com/hance08/keabank/internal/model"
	"github.com/hance08/keabank/internal/ui/prompts"
)

const envPrefix = "KEABANK"

var (
	cfgFile string
	asUser  string
	cfg     *config.Config
)

func Execute(migrations fs.FS) {
	pterm.Error.Prefix = pterm.Prefix{
		Text:  " ERROR ",
		Style: pterm.NewStyle(pterm.BgLightRed, pterm.FgBlack),
	}

	os.Exit(run(migrations))
}

func run(migrations fs.FS) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// --config and --as are needed before the app exists, so they are read
	// ahead of cobra.
	preParseFlags(os.Args[1:])

	if err := initConfig(); err != nil {
		return errhandler.HandleError(err)
	}

	application, cleanup, err := app.NewApp(ctx, cfg, asUser, migrations)
	if err != nil {
		return errhandler.HandleError(err)
	}
	defer cleanup()

	rootCmd := &cobra.Command{
		Use:   "keabank",
		Short: "keabank is a multi-currency personal banking ledger",
		Long: `keabank keeps USD and EUR accounts for registered users.
Every transfer and currency exchange is recorded as a balanced pair of
append-only ledger entries.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	addGlobalFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(account.NewAccountCmd(application))
	rootCmd.AddCommand(transaction.NewTransactionCmd(application))

	rootCmd.AddCommand(NewUserCmd(application))
	rootCmd.AddCommand(NewRateCmd(application))
	rootCmd.AddCommand(NewInfoCmd(application))

	return errhandler.HandleError(rootCmd.ExecuteContext(ctx))
}

func addGlobalFlags(flags *pflag.FlagSet) {
	flags.StringVarP(&cfgFile, "config", "c", "", "set the config file path")
	flags.StringVar(&asUser, "as", "", "user ID to act as (overrides identity.user_id)")
}

func preParseFlags(args []string) {
	flags := pflag.NewFlagSet("keabank", pflag.ContinueOnError)
	flags.ParseErrorsWhitelist.UnknownFlags = true
	flags.SetOutput(io.Discard)
	flags.Usage = func() {}
	flags.BoolP("help", "h", false, "")
	addGlobalFlags(flags)
	// Cobra reports any real flag error later.
	_ = flags.Parse(args)
}

func initConfig() error {
	// A missing .env is normal.
	_ = godotenv.Load()

	cfg = config.NewDefault()
	for key, value := range cfg.Settings() {
		viper.SetDefault(key, value)
	}

	created := false
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		appDir, err := app.AppDataDir()
		if err != nil {
			return fmt.Errorf("error getting app dir: %w", err)
		}

		viper.AddConfigPath(appDir)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")

		created, err = createDefaultConfig(appDir)
		if err != nil {
			return fmt.Errorf("failed to ensure config file: %w", err)
		}
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // allow using environment variables to override

	if err := viper.ReadInConfig(); err != nil {
		if cfgFile != "" {
			return fmt.Errorf("failed to read config file: %w", err)
		}

		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return fmt.Errorf("config file error: %w", err)
		}
	}

	if created {
		if err := initWizard(); err != nil {
			return err
		}
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("unable to decode into struct, %v", err)
	}

	cfg.ConfigPath = viper.ConfigFileUsed()
	cfg.Database.Path, _ = expandPath(cfg.Database.Path)

	return nil
}

// initWizard asks for the default currency the first time keabank runs.
// Without a terminal the configured default is kept.
func initWizard() error {
	current, err := model.ParseCurrency(viper.GetString("defaults.currency"))
	if err != nil {
		current = model.CurrencyUSD
	}

	currency, err := prompts.PromptInitCurrency(current)
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return err
		}
		pterm.Warning.Printf("Skipping setup wizard: %v\n", err)
		return nil
	}

	viper.Set("defaults.currency", currency.String())

	if err := viper.WriteConfig(); err != nil {
		return fmt.Errorf("failed to save config to file: %w", err)
	}

	pterm.Success.Printf("Configuration saved. Default currency set to: %s\n", currency)

	return nil
}

func expandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if path == "~" {
			return home, nil
		}
		if strings.HasPrefix(path, "~/") || strings.HasPrefix(path, "~\\") {
			return filepath.Join(home, path[2:]), nil
		}
	}
	return path, nil
}

// createDefaultConfig writes the defaults to appDir/config.yaml unless the
// file already exists. It reports whether it wrote one.
func createDefaultConfig(appDir string) (bool, error) {
	if err := os.MkdirAll(appDir, 0755); err != nil {
		return false, fmt.Errorf("failed to create config directory: %w", err)
	}

	configPath := filepath.Join(appDir, "config.yaml")

	if _, err := os.Stat(configPath); err == nil {
		return false, nil
	}

	if err := viper.WriteConfigAs(configPath); err != nil {
		return false, fmt.Errorf("failed to write config file: %w", err)
	}

	return true, nil
}
