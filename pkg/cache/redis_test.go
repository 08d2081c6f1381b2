package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisCache(t *testing.T) {
	ctx := context.Background()
	db, mock := redismock.NewClientMock()
	c := NewRedisCacheWithClient(db, "tradelens")

	t.Run("get decodes json", func(t *testing.T) {
		mock.ExpectGet("tradelens:p").SetVal(`{"name":"btc","price":1.5}`)
		var got payload
		require.NoError(t, c.Get(ctx, "p", &got))
		assert.Equal(t, payload{Name: "btc", Price: 1.5}, got)
	})

	t.Run("miss maps to ErrCacheMiss", func(t *testing.T) {
		mock.ExpectGet("tradelens:none").RedisNil()
		var got payload
		assert.ErrorIs(t, c.Get(ctx, "none", &got), ErrCacheMiss)
	})

	t.Run("backend error is returned", func(t *testing.T) {
		boom := errors.New("connection refused")
		mock.ExpectGet("tradelens:err").SetErr(boom)
		var got payload
		assert.ErrorIs(t, c.Get(ctx, "err", &got), boom)
	})

	t.Run("setnx", func(t *testing.T) {
		mock.ExpectSetNX("tradelens:lock", "v", time.Minute).SetVal(true)
		ok, err := c.SetNX(ctx, "lock", "v", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)

		mock.ExpectSetNX("tradelens:lock", "v", time.Minute).SetVal(false)
		ok, err = c.SetNX(ctx, "lock", "v", time.Minute)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("delete by pattern scans every page", func(t *testing.T) {
		mock.ExpectScan(0, "tradelens:prediction:*", scanBatch).SetVal([]string{"tradelens:prediction:a:1h"}, 7)
		mock.ExpectUnlink("tradelens:prediction:a:1h").SetVal(1)
		mock.ExpectScan(7, "tradelens:prediction:*", scanBatch).SetVal([]string{}, 0)
		require.NoError(t, c.DeleteByPattern(ctx, "prediction:*"))
	})

	require.NoError(t, mock.ExpectationsWereMet())
}
