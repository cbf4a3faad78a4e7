package cache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	require.NoError(t, c.Set(ctx, "key", []byte("value"), time.Hour))
	data, hit, err := c.Get(ctx, "key")
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Nil(t, data)
	assert.NoError(t, c.Delete(ctx, "key"))

	cleared, err := Clear(ctx, c)
	assert.False(t, cleared)
	assert.NoError(t, err)
}

func TestHash(t *testing.T) {
	assert.Equal(t, Hash([]byte("hello")), Hash([]byte("hello")))
	assert.NotEqual(t, Hash([]byte("hello")), Hash([]byte("world")))
	assert.Len(t, Hash([]byte("hello")), 64)
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()
	opts := ChartKeyOpts{
		Date: "1990-02-05", Time: "14:30", Timezone: "Asia/Kolkata",
		Latitude: 28.61, Longitude: 77.21, Ayanamsa: "lahiri",
		HouseSystem: "whole_sign", Nodes: "mean",
	}

	key := k.ChartKey("chart", opts)
	assert.Equal(t, key, k.ChartKey("chart", opts), "keys must be deterministic")
	assert.Regexp(t, `^chart:chart:[0-9a-f]{64}$`, key)
	assert.NotEqual(t, key, k.ChartKey("dasha", opts), "section is part of the key")

	deeper := opts
	deeper.DashaDepth = 3
	assert.NotEqual(t, k.ChartKey("dasha", opts), k.ChartKey("dasha", deeper))

	moved := opts
	moved.Latitude = 28.62
	assert.NotEqual(t, key, k.ChartKey("chart", moved))

	svg := k.ArtifactKey(key, ArtifactKeyOpts{Format: "svg", Kind: "aspects"})
	dot := k.ArtifactKey(key, ArtifactKeyOpts{Format: "dot", Kind: "aspects"})
	assert.NotEqual(t, svg, dot)
	assert.Regexp(t, `^artifact:`, svg)
}

func TestChartKeyIgnoresSetOrder(t *testing.T) {
	k := NewDefaultKeyer()
	base := ChartKeyOpts{Date: "1990-02-05", Timezone: "UTC"}

	a, b := base, base
	a.Charts = []string{"D10", "D9"}
	b.Charts = []string{"D9", "D10", "D9"}
	assert.Equal(t, k.ChartKey("divisional", a), k.ChartKey("divisional", b))
	assert.Equal(t, []string{"D10", "D9"}, a.Charts, "caller slice must not be reordered")

	a.Sections = []string{"yogas", "dasha"}
	b.Sections = []string{"dasha", "yogas"}
	assert.Equal(t, k.ChartKey("chart", a), k.ChartKey("chart", b))

	b.Sections = []string{"dasha"}
	assert.NotEqual(t, k.ChartKey("chart", a), k.ChartKey("chart", b))
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(NewDefaultKeyer(), "test:")
	inner := NewDefaultKeyer()
	opts := ChartKeyOpts{Date: "2000-01-01"}

	assert.Equal(t, "test:"+inner.ChartKey("yogas", opts), scoped.ChartKey("yogas", opts))
	assert.Equal(t, "test:"+inner.ArtifactKey("k", ArtifactKeyOpts{}), scoped.ArtifactKey("k", ArtifactKeyOpts{}))

	nilInner := NewScopedKeyer(nil, "p:")
	assert.Equal(t, "p:"+inner.ChartKey("chart", opts), nilInner.ChartKey("chart", opts))
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(10, time.Minute)

	_, hit, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.Set(ctx, "a", []byte("1"), 0))
	data, hit, err := c.Get(ctx, "a")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []byte("1"), data)

	data[0] = 'x'
	again, _, _ := c.Get(ctx, "a")
	assert.Equal(t, []byte("1"), again, "returned slices must not alias stored data")

	require.NoError(t, c.Delete(ctx, "a"))
	_, hit, _ = c.Get(ctx, "a")
	assert.False(t, hit)
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryCache(10, time.Minute)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "short", []byte("s"), time.Second))
	require.NoError(t, c.Set(ctx, "default", []byte("d"), 0))

	now = now.Add(2 * time.Second)
	_, hit, _ := c.Get(ctx, "short")
	assert.False(t, hit, "entry past its TTL must miss")
	_, hit, _ = c.Get(ctx, "default")
	assert.True(t, hit)

	now = now.Add(time.Minute)
	_, hit, _ = c.Get(ctx, "default")
	assert.False(t, hit)
	assert.Equal(t, 0, c.Len())
}

func TestMemoryCacheEvictsExpiredFirst(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryCache(3, time.Hour)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "live", []byte("l"), time.Hour))
	require.NoError(t, c.Set(ctx, "old", []byte("o"), time.Second))
	require.NoError(t, c.Set(ctx, "older", []byte("o"), 2*time.Second))

	now = now.Add(time.Minute)
	require.NoError(t, c.Set(ctx, "new", []byte("n"), 0))

	assert.Equal(t, 3, c.Len())
	assert.Contains(t, c.entries, "live", "unexpired entry must survive while expired ones remain")
	assert.Contains(t, c.entries, "new")
	assert.NotContains(t, c.entries, "old", "the oldest expired entry goes first")
	assert.Contains(t, c.entries, "older", "only one slot is freed")
}

func TestMemoryCacheEvictsArbitraryWhenFull(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(5, time.Hour)
	for i := 0; i < 20; i++ {
		require.NoError(t, c.Set(ctx, fmt.Sprintf("k%d", i), []byte{byte(i)}, 0))
		assert.LessOrEqual(t, c.Len(), 5)
	}
	_, hit, _ := c.Get(ctx, "k19")
	assert.True(t, hit, "the newest entry is always stored")

	// Overwriting an existing key never evicts.
	require.NoError(t, c.Set(ctx, "k19", []byte("again"), 0))
	assert.Equal(t, 5, c.Len())
}

func TestMemoryCacheClear(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(0, 0)
	require.NoError(t, c.Set(ctx, "a", []byte("1"), 0))

	cleared, err := Clear(ctx, c)
	require.NoError(t, err)
	assert.True(t, cleared)
	assert.Equal(t, 0, c.Len())
}

func TestMemoryCacheConcurrent(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(50, time.Minute)
	done := make(chan struct{})
	for w := 0; w < 8; w++ {
		go func(w int) {
			defer func() { done <- struct{}{} }()
			for i := 0; i < 200; i++ {
				key := fmt.Sprintf("w%d-%d", w, i%60)
				_ = c.Set(ctx, key, []byte(key), 0)
				_, _, _ = c.Get(ctx, key)
			}
		}(w)
	}
	for w := 0; w < 8; w++ {
		<-done
	}
	assert.LessOrEqual(t, c.Len(), 50)
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Set(ctx, "chart:x", []byte(`{"ok":true}`), time.Hour))
	data, hit, err := c.Get(ctx, "chart:x")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.JSONEq(t, `{"ok":true}`, string(data))

	h := Hash([]byte("chart:x"))
	_, err = os.Stat(filepath.Join(dir, h[:2], h[2:]+".json"))
	assert.NoError(t, err, "entries fan out by hash prefix")

	require.NoError(t, c.Delete(ctx, "chart:x"))
	_, hit, _ = c.Get(ctx, "chart:x")
	assert.False(t, hit)
	assert.NoError(t, c.Delete(ctx, "chart:x"), "deleting a missing key is fine")
}

func TestFileCacheExpiredAndCorrupt(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, c.Set(ctx, "gone", []byte("x"), time.Nanosecond))
	time.Sleep(time.Millisecond)
	_, hit, err := c.Get(ctx, "gone")
	require.NoError(t, err)
	assert.False(t, hit)

	path := c.path("bad")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))
	_, hit, err = c.Get(ctx, "bad")
	require.NoError(t, err)
	assert.False(t, hit)
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "corrupt entries are removed")
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(filepath.Join(t.TempDir(), "cache"))
	require.NoError(t, err)
	require.NoError(t, c.Set(ctx, "a", []byte("1"), 0))

	cleared, err := Clear(ctx, c)
	require.NoError(t, err)
	assert.True(t, cleared)

	_, hit, _ := c.Get(ctx, "a")
	assert.False(t, hit)
	_, err = os.Stat(c.Dir())
	assert.NoError(t, err, "directory is recreated")
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	c, err := Open(ctx, Config{})
	require.NoError(t, err)
	assert.IsType(t, &MemoryCache{}, c)

	c, err = Open(ctx, Config{Backend: BackendNone})
	require.NoError(t, err)
	assert.IsType(t, &NullCache{}, c)

	c, err = Open(ctx, Config{Backend: BackendFile, Dir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &FileCache{}, c)

	_, err = Open(ctx, Config{Backend: BackendFile})
	assert.Error(t, err)

	_, err = Open(ctx, Config{Backend: "memcached"})
	assert.ErrorContains(t, err, "unsupported cache backend")
}

func TestRedisUnavailable(t *testing.T) {
	retryDelay = time.Millisecond
	defer func() { retryDelay = 250 * time.Millisecond }()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := NewRedisCache(ctx, RedisConfig{Addr: "127.0.0.1:1"})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestRetryableError(t *testing.T) {
	assert.Nil(t, Retryable(nil))

	err := Retryable(ErrUnavailable)
	require.Error(t, err)
	assert.True(t, IsRetryable(err))
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, ErrUnavailable.Error(), err.Error())
	assert.False(t, IsRetryable(ErrUnavailable))
}

func TestRetryWithBackoff(t *testing.T) {
	retryDelay = time.Millisecond
	defer func() { retryDelay = 250 * time.Millisecond }()
	ctx := context.Background()

	calls := 0
	require.NoError(t, RetryWithBackoff(ctx, func() error { calls++; return nil }))
	assert.Equal(t, 1, calls)

	calls = 0
	err := RetryWithBackoff(ctx, func() error { calls++; return ErrUnavailable })
	assert.Equal(t, ErrUnavailable, err)
	assert.Equal(t, 1, calls, "non-retryable errors are returned immediately")

	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(ErrUnavailable)
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 2, calls)

	calls = 0
	err = RetryWithBackoff(ctx, func() error { calls++; return Retryable(ErrUnavailable) })
	assert.True(t, IsRetryable(err))
	assert.Equal(t, 3, calls)
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := RetryWithBackoff(ctx, func() error { return Retryable(ErrUnavailable) })
	assert.Equal(t, context.Canceled, err)
}
