package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// runStoreContract exercises the Store behavior both implementations
// must share.
func runStoreContract(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("get missing key", func(t *testing.T) {
		var p payload
		hit, err := s.GetJSON(ctx, "missing", &p)
		require.NoError(t, err)
		assert.False(t, hit)
	})

	t.Run("set then get", func(t *testing.T) {
		want := payload{Name: "amazon", Count: 3}
		require.NoError(t, s.SetJSON(ctx, "k1", want, time.Minute))

		var got payload
		hit, err := s.GetJSON(ctx, "k1", &got)
		require.NoError(t, err)
		assert.True(t, hit)
		assert.Equal(t, want, got)
	})

	t.Run("window counter increments", func(t *testing.T) {
		for i := int64(1); i <= 5; i++ {
			count, err := s.IncrWindow(ctx, "ctr", time.Minute)
			require.NoError(t, err)
			assert.Equal(t, i, count)
		}
	})

	t.Run("counters are independent per key", func(t *testing.T) {
		count, err := s.IncrWindow(ctx, "other-ctr", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, s.Ping(ctx))
	})
}

func TestMemoryStoreContract(t *testing.T) {
	runStoreContract(t, NewMemoryStore())
}

func TestRedisStoreContract(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	runStoreContract(t, NewRedisStore(client))
}

func TestRedisStoreWindowExpiry(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	s := NewRedisStore(client)
	ctx := context.Background()

	count, err := s.IncrWindow(ctx, "win", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = s.IncrWindow(ctx, "win", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	// Window elapses; the counter resets.
	mr.FastForward(61 * time.Second)

	count, err = s.IncrWindow(ctx, "win", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRedisStoreCacheTTL(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	s := NewRedisStore(client)
	ctx := context.Background()

	require.NoError(t, s.SetJSON(ctx, "snap", payload{Name: "x"}, 24*time.Hour))

	var p payload
	hit, err := s.GetJSON(ctx, "snap", &p)
	require.NoError(t, err)
	assert.True(t, hit)

	mr.FastForward(25 * time.Hour)

	hit, err = s.GetJSON(ctx, "snap", &p)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestMemoryStoreExpiry(t *testing.T) {
	s := NewMemoryStore()
	now := time.Now()
	s.SetClock(func() time.Time { return now })
	ctx := context.Background()

	require.NoError(t, s.SetJSON(ctx, "k", payload{Name: "y"}, time.Hour))
	_, err := s.IncrWindow(ctx, "c", time.Minute)
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)

	var p payload
	hit, err := s.GetJSON(ctx, "k", &p)
	require.NoError(t, err)
	assert.False(t, hit)

	count, err := s.IncrWindow(ctx, "c", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "counter resets after its window")
}

func TestMemoryStoreConcurrentCounters(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.IncrWindow(ctx, "shared", time.Minute)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	count, err := s.IncrWindow(ctx, "shared", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(51), count)
}
