package fxrate

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestStatic(t *testing.T) {
	s, err := NewStatic(DefaultUSDToEUR)
	require.NoError(t, err)

	rate, err := s.ExchangeRate(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "0.92", rate.String())

	_, err = NewStatic(decimal.Zero)
	assert.Error(t, err)
}

func newTestRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	fallback, err := NewStatic(DefaultUSDToEUR)
	require.NoError(t, err)
	return NewRedis(client, "", fallback, zaptest.NewLogger(t)), mr
}

func TestRedis_FallsBackWhenUnpublished(t *testing.T) {
	r, _ := newTestRedis(t)

	rate, err := r.ExchangeRate(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "0.92", rate.String())
}

func TestRedis_PublishAndRead(t *testing.T) {
	r, mr := newTestRedis(t)

	require.NoError(t, r.Publish(t.Context(), decimal.RequireFromString("0.95")))
	stored, err := mr.Get(DefaultRedisKey)
	require.NoError(t, err)
	assert.Equal(t, "0.95", stored)

	rate, err := r.ExchangeRate(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "0.95", rate.String())

	require.NoError(t, r.Clear(t.Context()))
	rate, err = r.ExchangeRate(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "0.92", rate.String())

	assert.Error(t, r.Publish(t.Context(), decimal.RequireFromString("-1")))
}

func TestRedis_RejectsGarbage(t *testing.T) {
	r, mr := newTestRedis(t)
	require.NoError(t, mr.Set(DefaultRedisKey, "abc"))

	_, err := r.ExchangeRate(t.Context())
	assert.ErrorContains(t, err, "invalid exchange rate")
}

func TestRedis_Unavailable(t *testing.T) {
	r, mr := newTestRedis(t)
	mr.Close()

	_, err := r.ExchangeRate(t.Context())
	assert.ErrorContains(t, err, "failed to read exchange rate")
}
