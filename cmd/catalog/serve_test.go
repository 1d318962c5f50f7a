package main

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/product-catalog/pkg/config"
)

func TestConnectRedis(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	client, closeRedis := connectRedis(ctx, config.Redis{Enabled: true, Addr: mr.Addr()})
	require.NotNil(t, client)
	require.NoError(t, client.Ping(ctx).Err())

	closeRedis()
	assert.ErrorIs(t, client.Ping(ctx).Err(), redis.ErrClosed)
}

func TestConnectRedisFallsBackToNil(t *testing.T) {
	ctx := context.Background()

	client, closeRedis := connectRedis(ctx, config.Redis{Enabled: false})
	assert.Nil(t, client)
	assert.NotPanics(t, closeRedis)

	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	client, closeRedis = connectRedis(ctx, config.Redis{Enabled: true, Addr: addr})
	assert.Nil(t, client)
	assert.NotPanics(t, closeRedis)
}
