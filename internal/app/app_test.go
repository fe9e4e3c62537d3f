package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hance08/keabank/internal/config"
	"github.com/hance08/keabank/internal/model"
	"github.com/hance08/keabank/internal/service"
	"github.com/hance08/keabank/migrations"
)

func testConfig(t *testing.T) *config.Config {
	cfg := config.NewDefault()
	cfg.Database.Path = filepath.Join(t.TempDir(), "keabank.db")
	cfg.Log.Outputs = []string{filepath.Join(t.TempDir(), "keabank.log")}
	return cfg
}

func TestNewApp_SQLiteStatic(t *testing.T) {
	ctx := context.Background()
	application, cleanup, err := NewApp(ctx, testConfig(t), "", migrations.FS)
	require.NoError(t, err)
	defer cleanup()

	assert.Nil(t, application.Publisher)

	user, accounts, err := application.Service.User.Provision(ctx, "dana@example.com")
	require.NoError(t, err)
	assert.Len(t, accounts, 2)

	_, err = application.Service.Transaction.Exchange(ctx, exchangeParams(user.ID))
	require.NoError(t, err)
}

func TestNewApp_RedisRates(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	cfg := testConfig(t)
	cfg.Exchange.Source = config.RateSourceRedis
	cfg.Redis.Addr = mr.Addr()

	application, cleanup, err := NewApp(ctx, cfg, "", migrations.FS)
	require.NoError(t, err)
	defer cleanup()
	require.NotNil(t, application.Publisher)

	rate, err := application.Rates.ExchangeRate(ctx)
	require.NoError(t, err)
	assert.Equal(t, "0.92", rate.String())

	require.NoError(t, mr.Set(cfg.Exchange.RedisKey, "0.5"))
	user, _, err := application.Service.User.Provision(ctx, "erin@example.com")
	require.NoError(t, err)

	tx, err := application.Service.Transaction.Exchange(ctx, exchangeParams(user.ID))
	require.NoError(t, err)
	assert.Equal(t, "50.00", tx.ConvertedAmount.Decimal.StringFixed(2))
}

func TestNewApp_InvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Database.Driver = "oracle"

	_, _, err := NewApp(context.Background(), cfg, "", migrations.FS)
	assert.ErrorContains(t, err, "invalid configuration")
}

func TestNewApp_Identity(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	application, cleanup, err := NewApp(ctx, cfg, "", migrations.FS)
	require.NoError(t, err)
	user, _, err := application.Service.User.Provision(ctx, "finn@example.com")
	require.NoError(t, err)
	cleanup()

	application, cleanup, err = NewApp(ctx, cfg, user.ID, migrations.FS)
	require.NoError(t, err)
	defer cleanup()

	current, err := application.Service.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, user.ID, current.ID)
}

func exchangeParams(userID string) service.ExchangeParams {
	return service.ExchangeParams{
		UserID:       userID,
		FromCurrency: model.CurrencyUSD,
		ToCurrency:   model.CurrencyEUR,
		Amount:       decimal.RequireFromString("100"),
	}
}
