package jobs

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/jyotish/pkg/errors"
	"github.com/matzehuels/jyotish/pkg/observability"
)

func TestStatusDone(t *testing.T) {
	assert.False(t, StatusPending.Done())
	assert.False(t, StatusRunning.Done())
	assert.True(t, StatusComplete.Done())
	assert.True(t, StatusError.Done())
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	job, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, job)

	require.NoError(t, s.Put(ctx, &Job{ID: "a", Status: StatusPending}))
	require.NoError(t, s.Put(ctx, &Job{ID: "a", Status: StatusRunning}))
	assert.Equal(t, 1, s.Len())

	job, err = s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, StatusRunning, job.Status)

	job.Status = StatusError
	again, _ := s.Get(ctx, "a")
	assert.Equal(t, StatusRunning, again.Status, "callers get a copy")
}

func TestQueueComplete(t *testing.T) {
	ctx := context.Background()
	q := NewQueue(nil, nil)
	defer q.Close()

	id, err := q.Submit(ctx, func(context.Context) (any, error) {
		return map[string]int{"yogas": 3}, nil
	})
	require.NoError(t, err)
	assert.Len(t, id, 36)

	job, err := q.Wait(ctx, id, time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, StatusComplete, job.Status)
	assert.JSONEq(t, `{"yogas":3}`, string(job.Result))
	assert.Empty(t, job.Error)
	assert.False(t, job.UpdatedAt.Before(job.CreatedAt))
}

func TestQueueError(t *testing.T) {
	ctx := context.Background()
	q := NewQueue(NewMemoryStore(), nil)
	defer q.Close()

	id, err := q.Submit(ctx, func(context.Context) (any, error) {
		return nil, errors.New(errors.ErrCodeInvalidCoordinates, "latitude 91 out of range")
	})
	require.NoError(t, err)

	job, err := q.Wait(ctx, id, time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, StatusError, job.Status)
	assert.Equal(t, "latitude 91 out of range", job.Error)
	assert.Equal(t, string(errors.ErrCodeInvalidCoordinates), job.ErrorCode)
	assert.Nil(t, job.Result)
}

func TestQueuePanicBecomesError(t *testing.T) {
	ctx := context.Background()
	q := NewQueue(nil, nil)
	defer q.Close()

	id, err := q.Submit(ctx, func(context.Context) (any, error) {
		panic("boom")
	})
	require.NoError(t, err)

	q.Drain()
	job, err := q.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, StatusError, job.Status)
	assert.Contains(t, job.Error, "boom")
	assert.Equal(t, string(errors.ErrCodeInternal), job.ErrorCode)
}

func TestQueueOutlivesSubmitContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	q := NewQueue(nil, nil)
	defer q.Close()

	release := make(chan struct{})
	id, err := q.Submit(ctx, func(ctx context.Context) (any, error) {
		<-release
		return "done", ctx.Err()
	})
	require.NoError(t, err)

	cancel()
	close(release)
	q.Drain()

	job, err := q.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, StatusComplete, job.Status)
	assert.JSONEq(t, `"done"`, string(job.Result))
}

func TestQueueGetUnknown(t *testing.T) {
	q := NewQueue(nil, nil)
	_, err := q.Get(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeJobNotFound))
	assert.Equal(t, errors.KindNotFound, errors.KindOf(err))
}

func TestQueueWaitHonorsContext(t *testing.T) {
	q := NewQueue(nil, nil)
	defer q.Close()

	release := make(chan struct{})
	defer close(release)
	id, err := q.Submit(context.Background(), func(context.Context) (any, error) {
		<-release
		return nil, nil
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = q.Wait(ctx, id, time.Millisecond)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestQueueConcurrentSubmit(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	q := NewQueue(store, nil)

	var wg sync.WaitGroup
	ids := make([]string, 50)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, err := q.Submit(ctx, func(context.Context) (any, error) { return i, nil })
			assert.NoError(t, err)
			ids[i] = id
		}(i)
	}
	wg.Wait()
	require.NoError(t, q.Close())

	assert.Equal(t, 50, store.Len())
	for i, id := range ids {
		job, err := q.Get(ctx, id)
		require.NoError(t, err)
		var got int
		require.NoError(t, json.Unmarshal(job.Result, &got))
		assert.Equal(t, i, got)
	}
}

type recordingJobHooks struct {
	observability.NoopJobHooks
	mu       sync.Mutex
	finished map[string]string
}

func (h *recordingJobHooks) OnJobFinished(_ context.Context, id, status string, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.finished[id] = status
}

func TestQueueReportsToHooks(t *testing.T) {
	hooks := &recordingJobHooks{finished: map[string]string{}}
	observability.SetJobHooks(hooks)
	defer observability.Reset()

	q := NewQueue(nil, nil)
	id, err := q.Submit(context.Background(), func(context.Context) (any, error) { return 1, nil })
	require.NoError(t, err)
	q.Drain()

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	assert.Equal(t, "complete", hooks.finished[id])
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("JYOTISH_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("JYOTISH_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	s := NewRedisStore(redis.NewClient(&redis.Options{Addr: addr}), time.Minute)
	defer s.Close()

	job, err := s.Get(ctx, "missing-job")
	require.NoError(t, err)
	assert.Nil(t, job)

	in := &Job{ID: "redis-test", Status: StatusComplete, Result: json.RawMessage(`{"ok":true}`)}
	require.NoError(t, s.Put(ctx, in))
	out, err := s.Get(ctx, in.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusComplete, out.Status)
	assert.JSONEq(t, `{"ok":true}`, string(out.Result))
}
