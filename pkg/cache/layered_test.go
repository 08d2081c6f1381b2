package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayeredCache(t *testing.T) {
	ctx := context.Background()
	l2, _ := newTestMemory(t)
	lc := NewLayeredCache(l2, WithLayeredMemoryTTL(time.Minute))
	t.Cleanup(func() { _ = lc.memCache.Close() })

	require.NoError(t, lc.Set(ctx, "k", payload{Name: "a"}, time.Hour))
	var got payload
	require.NoError(t, l2.Get(ctx, "k", &got))
	assert.Equal(t, "a", got.Name)

	// L2 populated elsewhere is promoted on first read
	require.NoError(t, l2.Set(ctx, "other", payload{Name: "b"}, time.Hour))
	require.NoError(t, lc.Get(ctx, "other", &got))
	assert.Equal(t, "b", got.Name)
	ok, _ := lc.memCache.Exists(ctx, "other")
	assert.True(t, ok)

	ok, err := lc.SetNX(ctx, "k", payload{Name: "c"}, time.Hour)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, lc.DeleteByPattern(ctx, "*"))
	assert.ErrorIs(t, lc.Get(ctx, "k", &got), ErrCacheMiss)
}
