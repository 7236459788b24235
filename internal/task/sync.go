package task

import (
	"context"
	"sync"
)

// SyncQueue runs every submitted job inline and records the outcome.
// It exists for tests and for the CLI's one-shot commands, where
// deferred execution would only obscure results.
type SyncQueue struct {
	mu       sync.Mutex
	Statuses []string
	Errors   []error
	Names    []string
}

// Submit executes the job immediately, honoring its time limit.
func (q *SyncQueue) Submit(ctx context.Context, job Job) (Handle, error) {
	runCtx := ctx
	if job.TimeLimit > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, job.TimeLimit)
		defer cancel()
	}

	status, err := job.Run(runCtx)

	q.mu.Lock()
	defer q.mu.Unlock()
	q.Names = append(q.Names, job.Name)
	q.Statuses = append(q.Statuses, status)
	q.Errors = append(q.Errors, err)
	return NewHandle(), nil
}
