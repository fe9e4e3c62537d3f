package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hance08/keabank/internal/model"
)

func TestNewDefault_IsValid(t *testing.T) {
	cfg := NewDefault()
	require.NoError(t, cfg.Validate())

	balances, err := cfg.OpeningBalances()
	require.NoError(t, err)
	assert.Equal(t, "1000.00", balances[model.CurrencyUSD].StringFixed(2))
	assert.Equal(t, "500.00", balances[model.CurrencyEUR].StringFixed(2))

	rate, err := cfg.USDToEUR()
	require.NoError(t, err)
	assert.Equal(t, "0.92", rate.String())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"unknown driver", func(c *Config) { c.Database.Driver = "mysql" }, "invalid database.driver"},
		{"postgres without dsn", func(c *Config) { c.Database.Driver = DriverPostgres }, "database.dsn is required"},
		{"zero lock timeout", func(c *Config) { c.Database.LockTimeout = 0 }, "lock_timeout"},
		{"bad currency", func(c *Config) { c.Defaults.Currency = "JPY" }, "defaults.currency"},
		{"bad opening balance", func(c *Config) { c.Accounts.OpeningBalances = map[string]string{"usd": "1.001"} }, "opening_balances"},
		{"negative opening balance", func(c *Config) { c.Accounts.OpeningBalances = map[string]string{"usd": "-1"} }, "can't be negative"},
		{"unknown rate source", func(c *Config) { c.Exchange.Source = "ecb" }, "exchange.source"},
		{"zero rate", func(c *Config) { c.Exchange.USDToEUR = "0" }, "usd_to_eur"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefault()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.errMsg)
		})
	}
}

func TestViperRoundTrip(t *testing.T) {
	v := viper.New()
	for key, value := range NewDefault().Settings() {
		v.SetDefault(key, value)
	}
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(`
database:
  driver: postgres
  dsn: postgres://localhost/keabank
  lock_timeout: 750ms
accounts:
  opening_balances:
    GBP: 20.5
`)))

	cfg := NewDefault()
	require.NoError(t, v.Unmarshal(cfg))
	require.NoError(t, cfg.Validate())

	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, 750*time.Millisecond, cfg.Database.LockTimeout)
	assert.Equal(t, "0.92", cfg.Exchange.USDToEUR)

	balances, err := cfg.OpeningBalances()
	require.NoError(t, err)
	assert.Equal(t, "20.50", balances[model.CurrencyGBP].StringFixed(2))
}
