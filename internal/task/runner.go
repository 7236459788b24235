package task

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const defaultQueueDepth = 256

// Runner executes submitted jobs on a bounded in-process worker pool.
// Each job runs under its own deadline and is retried up to its
// MaxRetries budget.
type Runner struct {
	jobs    chan queued
	workers int
	logger  zerolog.Logger
}

type queued struct {
	handle Handle
	job    Job
}

// NewRunner creates a Runner with the given worker count.
func NewRunner(workers int, logger zerolog.Logger) *Runner {
	if workers <= 0 {
		workers = 4
	}
	return &Runner{
		jobs:    make(chan queued, defaultQueueDepth),
		workers: workers,
		logger:  logger,
	}
}

// Submit enqueues a job. It fails only when the queue is full or the
// context is done; execution errors surface in logs, not here.
func (r *Runner) Submit(ctx context.Context, job Job) (Handle, error) {
	handle := NewHandle()
	select {
	case r.jobs <- queued{handle: handle, job: job}:
		return handle, nil
	case <-ctx.Done():
		return "", ctx.Err()
	default:
		return "", fmt.Errorf("queue full, dropping job %s", job.Name)
	}
}

// Run processes jobs until ctx is cancelled, then drains in-flight work
// and returns.
func (r *Runner) Run(ctx context.Context) error {
	g, groupCtx := errgroup.WithContext(ctx)
	for i := 0; i < r.workers; i++ {
		g.Go(func() error {
			for {
				select {
				case <-groupCtx.Done():
					return nil
				case q := <-r.jobs:
					r.execute(groupCtx, q)
				}
			}
		})
	}
	return g.Wait()
}

// execute runs one job to completion, honoring its time limit and
// retry budget. Exceeding the time limit aborts the attempt; side
// effects already committed by the job body stand.
func (r *Runner) execute(ctx context.Context, q queued) {
	logger := r.logger.With().
		Str("job", q.job.Name).
		Str("handle", string(q.handle)).
		Logger()

	for attempt := 0; attempt <= q.job.MaxRetries; attempt++ {
		start := time.Now()
		status, err := r.runOnce(ctx, q.job)
		elapsed := time.Since(start)

		if err == nil {
			logger.Info().Dur("duration", elapsed).Str("status", status).Msg("job completed")
			return
		}

		if errors.Is(err, context.Canceled) && ctx.Err() != nil {
			logger.Warn().Msg("job abandoned, runner shutting down")
			return
		}

		logger.Error().
			Dur("duration", elapsed).
			Int("attempt", attempt+1).
			Int("budget", q.job.MaxRetries+1).
			Err(err).
			Msg("job failed")
	}
}

func (r *Runner) runOnce(ctx context.Context, job Job) (string, error) {
	if job.TimeLimit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, job.TimeLimit)
		defer cancel()
	}
	return job.Run(ctx)
}
