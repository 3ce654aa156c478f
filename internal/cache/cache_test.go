package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type point struct {
	Date  string  `json:"date"`
	Close float64 `json:"close"`
}

func TestMemoryStore_SetGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	var out []point
	assert.ErrorIs(t, s.Get(ctx, "k", &out), ErrMiss)

	in := []point{{"20240301", 3.9}, {"20240304", 3.95}}
	require.NoError(t, s.Set(ctx, "k", in, time.Minute))
	require.NoError(t, s.Get(ctx, "k", &out))
	assert.Equal(t, in, out)
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Set(ctx, "short", 1, time.Hour))
	require.NoError(t, s.Set(ctx, "forever", 2, 0))

	now = now.Add(59 * time.Minute)
	var v int
	require.NoError(t, s.Get(ctx, "short", &v))
	assert.Equal(t, 1, v)

	now = now.Add(time.Minute)
	assert.ErrorIs(t, s.Get(ctx, "short", &v), ErrMiss)
	assert.Equal(t, 1, s.Len())

	require.NoError(t, s.Get(ctx, "forever", &v))
	assert.Equal(t, 2, v)
}

func TestMemoryStore_SetSweepsExpired(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Set(ctx, "bars:20240101:20240301", 1, time.Second))
	require.NoError(t, s.Set(ctx, "meta", 2, time.Hour))
	require.NoError(t, s.Set(ctx, "forever", 3, 0))

	// Within the sweep interval nothing is scanned.
	now = now.Add(30 * time.Second)
	require.NoError(t, s.Set(ctx, "bars:20240102:20240302", 4, time.Second))
	assert.Equal(t, 4, s.Len())

	now = now.Add(2 * time.Minute)
	require.NoError(t, s.Set(ctx, "bars:20240103:20240303", 5, time.Second))
	assert.Equal(t, 3, s.Len())

	var v int
	assert.ErrorIs(t, s.Get(ctx, "bars:20240101:20240301", &v), ErrMiss)
	require.NoError(t, s.Get(ctx, "meta", &v))
	assert.Equal(t, 2, v)
}

func TestMemoryStore_DecodesLikeJSON(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Set(ctx, "m", map[string]any{"volume": int64(12)}, 0))

	var out map[string]any
	require.NoError(t, s.Get(ctx, "m", &out))
	assert.Equal(t, float64(12), out["volume"])
}

func TestMemoryStore_Concurrent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = s.Set(ctx, "shared", i, time.Minute)
			var v int
			_ = s.Get(ctx, "shared", &v)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 1, s.Len())
}

func TestNewRedisStore_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := NewRedisStore(ctx, RedisOptions{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
}
