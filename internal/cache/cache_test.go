package cache

import (
	"context"
	"testing"
	"time"

	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStore(t *testing.T) {
	client := testhelpers.SetupRedis(t)
	store := NewRedisStore(client, "test")
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, store.Set(ctx, "shortlink:abcde", "42", time.Minute))
	val, err := store.Get(ctx, "shortlink:abcde")
	require.NoError(t, err)
	assert.Equal(t, "42", val)

	// keys are namespaced
	raw, err := client.Get(ctx, "test:shortlink:abcde").Result()
	require.NoError(t, err)
	assert.Equal(t, "42", raw)

	ok, err := store.Exists(ctx, "shortlink:abcde")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, store.Delete(ctx, "shortlink:abcde"))
	ok, err = store.Exists(ctx, "shortlink:abcde")
	require.NoError(t, err)
	assert.False(t, ok)
}
