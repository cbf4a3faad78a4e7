// Package jobs runs chart computations asynchronously and tracks their state.
//
// A job moves from pending to running to either complete or error. Jobs are
// fire-and-forget: once submitted they run to completion on their own
// goroutine and cannot be cancelled.
//
// # Storage
//
// Job records live in a Store:
//   - MemoryStore: process-local, for the CLI server and tests
//   - RedisStore: shared between server instances, with a TTL per record
//
// # Usage
//
//	q := jobs.NewQueue(jobs.NewMemoryStore(), logger)
//	id, err := q.Submit(ctx, func(ctx context.Context) (any, error) {
//	    return runner.Execute(ctx, opts)
//	})
//	job, err := q.Get(ctx, id)
package jobs

import (
	"context"
	"encoding/json"
	"time"
)

// Status is the lifecycle state of a job.
type Status string

const (
	StatusPending  Status = "pending"
	StatusRunning  Status = "running"
	StatusComplete Status = "complete"
	StatusError    Status = "error"
)

// Done reports whether s is a final state.
func (s Status) Done() bool { return s == StatusComplete || s == StatusError }

// Job is a submitted computation and, once finished, its outcome.
type Job struct {
	ID        string          `json:"id"`
	Status    Status          `json:"status"`
	Result    json.RawMessage `json:"result,omitempty"`
	Error     string          `json:"error,omitempty"`
	ErrorCode string          `json:"error_code,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Store persists job records.
type Store interface {
	// Get returns the job with id, or nil, nil if there is none.
	Get(ctx context.Context, id string) (*Job, error)

	// Put creates or replaces a job record.
	Put(ctx context.Context, job *Job) error

	Close() error
}
