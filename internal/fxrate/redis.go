package fxrate

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const DefaultRedisKey = "keabank:fx:usd_eur"

// Redis reads the rate another process published under a key. A missing key
// falls back to the static rate.
type Redis struct {
	client   redis.UniversalClient
	key      string
	fallback *Static
	logger   *zap.Logger
}

func NewRedis(client redis.UniversalClient, key string, fallback *Static, logger *zap.Logger) *Redis {
	if key == "" {
		key = DefaultRedisKey
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Redis{client: client, key: key, fallback: fallback, logger: logger}
}

func (r *Redis) ExchangeRate(ctx context.Context) (decimal.Decimal, error) {
	raw, err := r.client.Get(ctx, r.key).Result()
	if errors.Is(err, redis.Nil) {
		r.logger.Debug("no published exchange rate, using static rate", zap.String("key", r.key))
		return r.fallback.ExchangeRate(ctx)
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to read exchange rate from redis: %w", err)
	}

	rate, err := decimal.NewFromString(raw)
	if err != nil || !rate.IsPositive() {
		return decimal.Zero, fmt.Errorf("invalid exchange rate %q under %s", raw, r.key)
	}
	return rate, nil
}

// Publish stores a new rate for every reader of the key.
func (r *Redis) Publish(ctx context.Context, rate decimal.Decimal) error {
	if !rate.IsPositive() {
		return fmt.Errorf("exchange rate must be greater than 0, got %s", rate)
	}
	if err := r.client.Set(ctx, r.key, rate.String(), 0).Err(); err != nil {
		return fmt.Errorf("failed to publish exchange rate: %w", err)
	}
	r.logger.Info("exchange rate published", zap.String("key", r.key), zap.String("rate", rate.String()))
	return nil
}

// Clear removes the published rate so readers fall back to the static one.
func (r *Redis) Clear(ctx context.Context) error {
	return r.client.Del(ctx, r.key).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}
