package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/jyotish/pkg/errors"
	"github.com/matzehuels/jyotish/pkg/observability"
)

// Func is the work a job performs. Its result is stored as JSON.
type Func func(ctx context.Context) (any, error)

// Queue starts jobs and records their progress in a Store.
type Queue struct {
	Store  Store
	Logger *log.Logger

	wg  sync.WaitGroup
	now func() time.Time
}

// NewQueue creates a queue over store. Nil arguments get an in-memory store
// and a discarding logger.
func NewQueue(store Store, logger *log.Logger) *Queue {
	if store == nil {
		store = NewMemoryStore()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Queue{Store: store, Logger: logger, now: time.Now}
}

// Submit records a pending job and starts fn on its own goroutine. The job
// outlives ctx; only values are inherited from it.
func (q *Queue) Submit(ctx context.Context, fn Func) (string, error) {
	now := q.now()
	job := &Job{
		ID:        uuid.NewString(),
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := q.Store.Put(ctx, job); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "store job")
	}
	observability.Jobs().OnJobSubmitted(ctx, job.ID)
	q.Logger.Debug("job submitted", "id", job.ID)

	q.wg.Add(1)
	go q.run(context.WithoutCancel(ctx), *job, fn)
	return job.ID, nil
}

func (q *Queue) run(ctx context.Context, job Job, fn Func) {
	defer q.wg.Done()
	start := q.now()

	job.Status = StatusRunning
	job.UpdatedAt = start
	q.put(ctx, &job)

	result, err := q.call(ctx, fn)
	if err == nil {
		job.Result, err = json.Marshal(result)
	}
	if err != nil {
		job.Status = StatusError
		job.Error = errors.UserMessage(err)
		job.ErrorCode = string(errors.GetCode(err))
		job.Result = nil
		q.Logger.Warn("job failed", "id", job.ID, "error", err)
	} else {
		job.Status = StatusComplete
		q.Logger.Debug("job complete", "id", job.ID, "bytes", len(job.Result))
	}
	job.UpdatedAt = q.now()
	q.put(ctx, &job)

	observability.Jobs().OnJobFinished(ctx, job.ID, string(job.Status), job.UpdatedAt.Sub(start))
}

// call runs fn, turning a panic into an internal error.
func (q *Queue) call(ctx context.Context, fn Func) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.New(errors.ErrCodeInternal, "job panicked: %v", r)
		}
	}()
	return fn(ctx)
}

func (q *Queue) put(ctx context.Context, job *Job) {
	if err := q.Store.Put(ctx, job); err != nil {
		q.Logger.Error("store job", "id", job.ID, "status", job.Status, "error", err)
	}
}

// Get returns the job with id, or a JOB_NOT_FOUND error.
func (q *Queue) Get(ctx context.Context, id string) (*Job, error) {
	job, err := q.Store.Get(ctx, id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load job %s", id)
	}
	if job == nil {
		return nil, errors.New(errors.ErrCodeJobNotFound, "job %s not found", id)
	}
	return job, nil
}

// Wait polls until job id reaches a final state or ctx ends.
func (q *Queue) Wait(ctx context.Context, id string, interval time.Duration) (*Job, error) {
	if interval <= 0 {
		interval = 10 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		job, err := q.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if job.Status.Done() {
			return job, nil
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("wait for job %s: %w", id, ctx.Err())
		case <-ticker.C:
		}
	}
}

// Drain blocks until every started job has finished.
func (q *Queue) Drain() { q.wg.Wait() }

func (q *Queue) Close() error {
	q.Drain()
	return q.Store.Close()
}
