package app

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/hance08/keabank/internal/config"
	"github.com/hance08/keabank/internal/fxrate"
	"github.com/hance08/keabank/internal/identity"
	"github.com/hance08/keabank/internal/logging"
	"github.com/hance08/keabank/internal/service"
	"github.com/hance08/keabank/internal/store"
)

type App struct {
	Service *service.Service
	Store   store.Store
	Logger  *zap.Logger
	Config  *config.Config
	// Rates is the provider exchanges use; Publisher is set only when the
	// rate comes from redis.
	Rates     service.RateProvider
	Publisher *fxrate.Redis
}

// NewApp opens the configured store, builds the services and makes sure the
// system accounts exist. asUser is the value of the --as flag.
func NewApp(ctx context.Context, cfg *config.Config, asUser string, migrationFS fs.FS) (*App, func(), error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return nil, nil, err
	}

	dbStore, err := openStore(ctx, cfg, migrationFS)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	rates, publisher, err := newRateProvider(cfg, logger)
	if err != nil {
		dbStore.Close()
		return nil, nil, err
	}

	balances, err := cfg.OpeningBalances()
	if err != nil {
		dbStore.Close()
		return nil, nil, err
	}

	svc := service.NewService(
		dbStore,
		rates,
		identity.New(asUser, cfg.Identity.UserID),
		service.Config{OpeningBalances: balances},
		logger,
	)

	if err := svc.Account.EnsureSystemAccounts(ctx); err != nil {
		dbStore.Close()
		return nil, nil, fmt.Errorf("failed to create system accounts: %w", err)
	}

	cleanup := func() {
		if publisher != nil {
			if err := publisher.Close(); err != nil {
				logger.Warn("closing redis client", zap.Error(err))
			}
		}
		if err := dbStore.Close(); err != nil {
			fmt.Printf("Error closing DB: %v\n", err)
		}
		_ = logger.Sync()
	}

	return &App{
		Service:   svc,
		Store:     dbStore,
		Logger:    logger,
		Config:    cfg,
		Rates:     rates,
		Publisher: publisher,
	}, cleanup, nil
}

func openStore(ctx context.Context, cfg *config.Config, migrationFS fs.FS) (store.Store, error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		return store.NewPostgresStore(ctx, cfg.Database.DSN, cfg.Database.MaxConns, migrationFS, cfg.Database.LockTimeout)
	default:
		dbPath := cfg.Database.Path
		if dbPath == "" {
			appDir, err := AppDataDir()
			if err != nil {
				return nil, err
			}
			dbPath = filepath.Join(appDir, "keabank.db")
		}
		return store.NewSQLiteStore(dbPath, migrationFS, cfg.Database.LockTimeout)
	}
}

func newRateProvider(cfg *config.Config, logger *zap.Logger) (service.RateProvider, *fxrate.Redis, error) {
	base, err := cfg.USDToEUR()
	if err != nil {
		return nil, nil, err
	}
	static, err := fxrate.NewStatic(base)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Exchange.Source != config.RateSourceRedis {
		return static, nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	r := fxrate.NewRedis(client, cfg.Exchange.RedisKey, static, logger)
	return r, r, nil
}

// AppDataDir is where the config file and the default database live.
func AppDataDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("unable to determine user home directory: %w", err)
		}
		return filepath.Join(home, ".keabank"), nil
	}

	return filepath.Join(configDir, "keabank"), nil
}
