package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestStore creates an option store connected to a miniredis instance
func setupTestStore(t *testing.T) (*OptionStore, *miniredis.Miniredis) {
	mr := miniredis.NewMiniRedis()
	require.NoError(t, mr.Start())
	t.Cleanup(mr.Close)

	s, err := New(&redis.Options{Addr: mr.Addr()}, "test")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	return s, mr
}

func TestNew(t *testing.T) {
	t.Run("rejects empty namespace", func(t *testing.T) {
		_, err := New(&redis.Options{Addr: "localhost:6379"}, "")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "namespace cannot be empty")
	})

	t.Run("pings", func(t *testing.T) {
		s, _ := setupTestStore(t)
		assert.NoError(t, s.Ping(context.Background()))
	})
}

func TestGetSetOption(t *testing.T) {
	s, mr := setupTestStore(t)
	ctx := context.Background()

	_, ok, err := s.GetOption(ctx, "goob_settings")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SetOption(ctx, "goob_settings", "{}"))

	value, ok, err := s.GetOption(ctx, "goob_settings")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "{}", value)

	raw, err := mr.Get("test:option:goob_settings")
	require.NoError(t, err)
	assert.Equal(t, "{}", raw)
}

func TestAddOption(t *testing.T) {
	s, _ := setupTestStore(t)
	ctx := context.Background()

	added, err := s.AddOption(ctx, "goob_fresh_install", "yes")
	require.NoError(t, err)
	assert.True(t, added)

	added, err = s.AddOption(ctx, "goob_fresh_install", "no")
	require.NoError(t, err)
	assert.False(t, added)

	value, _, err := s.GetOption(ctx, "goob_fresh_install")
	require.NoError(t, err)
	assert.Equal(t, "yes", value)
}
