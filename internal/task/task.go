package task

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Standard per-job budgets. Ingestion work tolerates retries; outbound
// notifications are fire-once so a retry can never double-post.
const (
	IngestTimeLimit = 900 * time.Second
	NotifyTimeLimit = 300 * time.Second
	SmokeTimeLimit  = 30 * time.Second

	IngestMaxRetries = 3
	NotifyMaxRetries = 0
)

// Job is one schedulable unit of work. Run returns a human-readable
// status string; a non-nil error makes the delivery attempt count
// against MaxRetries.
type Job struct {
	Name       string
	TimeLimit  time.Duration
	MaxRetries int
	Run        func(ctx context.Context) (string, error)
}

// Handle identifies a submitted job.
type Handle string

// NewHandle generates a unique job handle.
func NewHandle() Handle {
	return Handle(uuid.NewString())
}

// Queue accepts jobs for asynchronous execution with at-least-once
// semantics.
type Queue interface {
	Submit(ctx context.Context, job Job) (Handle, error)
}
