package config

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hance08/keabank/internal/logging"
	"github.com/hance08/keabank/internal/model"
	"github.com/hance08/keabank/internal/money"
)

// database.driver values. The sqlite store takes the database write lock
// for every unit of work, so writers never run in parallel, even on
// unrelated accounts. Only the postgres store locks per account row; use it
// when several processes write concurrently.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	RateSourceStatic = "static"
	RateSourceRedis  = "redis"
)

type Config struct {
	Database   DatabaseConfig `mapstructure:"database"`
	Defaults   DefaultsConfig `mapstructure:"defaults"`
	Accounts   AccountsConfig `mapstructure:"accounts"`
	Exchange   ExchangeConfig `mapstructure:"exchange"`
	Redis      RedisConfig    `mapstructure:"redis"`
	Identity   IdentityConfig `mapstructure:"identity"`
	Log        logging.Config `mapstructure:"log"`
	ConfigPath string         `mapstructure:"-"`
}

type DatabaseConfig struct {
	Driver      string        `mapstructure:"driver"`
	Path        string        `mapstructure:"path"`
	DSN         string        `mapstructure:"dsn"`
	LockTimeout time.Duration `mapstructure:"lock_timeout"`
	MaxConns    int32         `mapstructure:"max_conns"`
}

type DefaultsConfig struct {
	Currency string `mapstructure:"currency"`
}

type AccountsConfig struct {
	// OpeningBalances maps a currency code to the amount a new user's
	// account in that currency starts with.
	OpeningBalances map[string]string `mapstructure:"opening_balances"`
}

type ExchangeConfig struct {
	Source   string `mapstructure:"source"`
	USDToEUR string `mapstructure:"usd_to_eur"`
	RedisKey string `mapstructure:"redis_key"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type IdentityConfig struct {
	UserID string `mapstructure:"user_id"`
}

func NewDefault() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver:      DriverSQLite,
			Path:        "",
			LockTimeout: 5 * time.Second,
			MaxConns:    10,
		},
		Defaults: DefaultsConfig{Currency: "USD"},
		Accounts: AccountsConfig{OpeningBalances: map[string]string{
			"USD": "1000.00",
			"EUR": "500.00",
		}},
		Exchange: ExchangeConfig{
			Source:   RateSourceStatic,
			USDToEUR: "0.92",
			RedisKey: "keabank:fx:usd_eur",
		},
		Redis: RedisConfig{Addr: "localhost:6379"},
		Log:   logging.Config{Level: "warn", Format: "console", Outputs: []string{"stderr"}},
	}
}

// Settings flattens the defaults into dotted keys, the form viper.SetDefault
// and the generated config file use.
func (c *Config) Settings() map[string]any {
	return map[string]any{
		"database.driver":           c.Database.Driver,
		"database.path":             c.Database.Path,
		"database.dsn":              c.Database.DSN,
		"database.lock_timeout":     c.Database.LockTimeout.String(),
		"database.max_conns":        c.Database.MaxConns,
		"defaults.currency":         c.Defaults.Currency,
		"accounts.opening_balances": c.Accounts.OpeningBalances,
		"exchange.source":           c.Exchange.Source,
		"exchange.usd_to_eur":       c.Exchange.USDToEUR,
		"exchange.redis_key":        c.Exchange.RedisKey,
		"redis.addr":                c.Redis.Addr,
		"redis.password":            c.Redis.Password,
		"redis.db":                  c.Redis.DB,
		"identity.user_id":          c.Identity.UserID,
		"log.level":                 c.Log.Level,
		"log.format":                c.Log.Format,
		"log.outputs":               c.Log.Outputs,
	}
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite:
	case DriverPostgres:
		if c.Database.DSN == "" {
			return fmt.Errorf("database.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("invalid database.driver %q (must be sqlite or postgres)", c.Database.Driver)
	}
	if c.Database.LockTimeout <= 0 {
		return fmt.Errorf("database.lock_timeout must be positive")
	}
	if c.Database.MaxConns < 0 {
		return fmt.Errorf("database.max_conns can't be negative")
	}

	if _, err := c.DefaultCurrency(); err != nil {
		return fmt.Errorf("defaults.currency: %w", err)
	}
	if _, err := c.OpeningBalances(); err != nil {
		return err
	}

	switch c.Exchange.Source {
	case RateSourceStatic:
	case RateSourceRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("redis.addr is required when exchange.source is redis")
		}
	default:
		return fmt.Errorf("invalid exchange.source %q (must be static or redis)", c.Exchange.Source)
	}
	if _, err := c.USDToEUR(); err != nil {
		return err
	}
	return nil
}

func (c *Config) DefaultCurrency() (model.Currency, error) {
	return model.ParseCurrency(c.Defaults.Currency)
}

// OpeningBalances parses accounts.opening_balances. Keys are matched case
// insensitively since viper lowercases map keys.
func (c *Config) OpeningBalances() (map[model.Currency]decimal.Decimal, error) {
	balances := make(map[model.Currency]decimal.Decimal, len(c.Accounts.OpeningBalances))
	for code, raw := range c.Accounts.OpeningBalances {
		currency, err := model.ParseCurrency(code)
		if err != nil {
			return nil, fmt.Errorf("accounts.opening_balances: %w", err)
		}
		amount, err := money.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("accounts.opening_balances.%s: %w", code, err)
		}
		if amount.IsNegative() {
			return nil, fmt.Errorf("accounts.opening_balances.%s can't be negative", code)
		}
		balances[currency] = amount
	}
	return balances, nil
}

func (c *Config) USDToEUR() (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(c.Exchange.USDToEUR)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid exchange.usd_to_eur %q", c.Exchange.USDToEUR)
	}
	if !rate.IsPositive() {
		return decimal.Zero, fmt.Errorf("exchange.usd_to_eur must be greater than 0")
	}
	return rate, nil
}
