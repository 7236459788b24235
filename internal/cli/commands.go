package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/techgrid/eventscout/internal/event"
	"github.com/techgrid/eventscout/internal/ingest"
	"github.com/techgrid/eventscout/internal/notify"
	"github.com/techgrid/eventscout/internal/task"
)

var flagIngestGroups []string

func newIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Pull upcoming events for the registered groups",
		RunE:  runIngest,
	}
	cmd.Flags().StringSliceVar(&flagIngestGroups, "group", nil, "Limit ingestion to the named groups")
	return cmd
}

func runIngest(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	orch, cleanup := a.newOrchestrator()
	defer cleanup()

	queue := &task.SyncQueue{}
	dispatcher := a.newDispatcher(queue)
	orch.OnEventCreated(func(ctx context.Context, evt *event.Event) {
		dispatcher.EventCreated(ctx, evt)
	})

	ctx := cmd.Context()
	if len(flagIngestGroups) > 0 {
		for _, group := range flagIngestGroups {
			if err := submitNamedIngest(ctx, a, orch, queue, group); err != nil {
				return err
			}
		}
		return report(queue)
	}

	if _, err := orch.LaunchIngestion(ctx, queue); err != nil {
		return err
	}
	return report(queue)
}

// submitNamedIngest runs ingestion for one group, picking the platform
// the group is registered under.
func submitNamedIngest(ctx context.Context, a *app, orch *ingest.Orchestrator, queue *task.SyncQueue, group string) error {
	g, err := a.db.GetGroup(ctx, group)
	if err != nil {
		return fmt.Errorf("looking up group %s: %w", group, err)
	}
	run := orch.IngestMeetupGroup
	name := "ingest.meetup/" + group
	if g.Platform == ingest.PlatformEventbrite {
		run = orch.IngestEventbriteGroup
		name = "ingest.eventbrite/" + group
	}
	_, err = queue.Submit(ctx, task.Job{
		Name:       name,
		TimeLimit:  task.IngestTimeLimit,
		MaxRetries: task.IngestMaxRetries,
		Run: func(jobCtx context.Context) (string, error) {
			return run(jobCtx, group)
		},
	})
	return err
}

func newDetailsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "details",
		Short: "Refresh group descriptions and organizer links",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			orch, cleanup := a.newOrchestrator()
			defer cleanup()

			queue := &task.SyncQueue{}
			if _, err := orch.LaunchDetailsRefresh(cmd.Context(), queue); err != nil {
				return err
			}
			return report(queue)
		},
	}
}

func newNotifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Send scheduled notifications",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "reminders",
		Short: "Remind about events happening tomorrow",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSweep(cmd.Context(), func(ctx context.Context, d *notify.Dispatcher) (string, error) {
				return d.ReminderSweep(ctx, time.Now())
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "weekly",
		Short: "Post the weekly event summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSweep(cmd.Context(), func(ctx context.Context, d *notify.Dispatcher) (string, error) {
				return d.WeeklySweep(ctx, time.Now())
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "event <external-id>",
		Short: "Re-announce a stored event on every channel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			ctx := cmd.Context()
			evt, err := a.db.GetEventByKey(ctx, args[0], "", time.Time{})
			if err != nil {
				return fmt.Errorf("loading event %s: %w", args[0], err)
			}
			queue := &task.SyncQueue{}
			a.newDispatcher(queue).EventCreated(ctx, evt)
			return report(queue)
		},
	})
	return cmd
}

func runSweep(ctx context.Context, sweep func(context.Context, *notify.Dispatcher) (string, error)) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	queue := &task.SyncQueue{}
	dispatcher := a.newDispatcher(queue)
	status, err := sweep(ctx, dispatcher)
	if err != nil {
		return err
	}
	fmt.Println(status)
	return report(queue)
}

var (
	flagWorkers         int
	flagIngestInterval  time.Duration
	flagDetailsInterval time.Duration
	flagReminderAt      time.Duration
	flagWeeklyInterval  time.Duration
)

func newWorkerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Run the ingestion and notification scheduler",
		Long: `worker runs until interrupted, periodically launching ingestion,
details refreshes, reminder sweeps, and the weekly summary on an
in-process job queue.`,
		RunE: runWorker,
	}
	cmd.Flags().IntVar(&flagWorkers, "workers", 4, "Concurrent job workers")
	cmd.Flags().DurationVar(&flagIngestInterval, "ingest-interval", 6*time.Hour, "Time between ingestion runs")
	cmd.Flags().DurationVar(&flagDetailsInterval, "details-interval", 24*time.Hour, "Time between details refreshes")
	cmd.Flags().DurationVar(&flagReminderAt, "reminder-interval", 24*time.Hour, "Time between reminder sweeps")
	cmd.Flags().DurationVar(&flagWeeklyInterval, "weekly-interval", 7*24*time.Hour, "Time between weekly summaries")
	return cmd
}

func runWorker(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	orch, cleanup := a.newOrchestrator()
	defer cleanup()

	runner := task.NewRunner(flagWorkers, a.logger)
	dispatcher := a.newDispatcher(runner)
	orch.OnEventCreated(func(ctx context.Context, evt *event.Event) {
		dispatcher.EventCreated(ctx, evt)
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Ingest and details launches are idempotent, so they run right
	// away. The notification sweeps post outbound messages and must
	// wait for their next boundary, or every worker restart would
	// re-send the day's reminders and the weekly summary.
	schedule(ctx, a.logger, flagIngestInterval, "ingest", true, func(c context.Context) (string, error) {
		return orch.LaunchIngestion(c, runner)
	})
	schedule(ctx, a.logger, flagDetailsInterval, "details", true, func(c context.Context) (string, error) {
		return orch.LaunchDetailsRefresh(c, runner)
	})
	schedule(ctx, a.logger, flagReminderAt, "reminders", false, func(c context.Context) (string, error) {
		return dispatcher.ReminderSweep(c, time.Now())
	})
	schedule(ctx, a.logger, flagWeeklyInterval, "weekly", false, func(c context.Context) (string, error) {
		return dispatcher.WeeklySweep(c, time.Now())
	})

	a.logger.Info().Int("workers", flagWorkers).Msg("worker started")
	return runner.Run(ctx)
}

// schedule runs fn once per interval until ctx is cancelled. With
// runAtStart the first run happens immediately instead of waiting for
// the first tick.
func schedule(ctx context.Context, logger zerolog.Logger, interval time.Duration, name string, runAtStart bool,
	fn func(context.Context) (string, error)) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		if !runAtStart {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
		for {
			status, err := fn(ctx)
			if err != nil {
				logger.Error().Err(err).Str("schedule", name).Msg("scheduled run failed")
			} else {
				logger.Info().Str("schedule", name).Str("status", status).Msg("scheduled run launched")
			}
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			if ctx.Err() != nil {
				return
			}
		}
	}()
}

func newSmokeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "smoke",
		Short: "Verify the database and configuration are usable",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			queue := &task.SyncQueue{}
			_, err = queue.Submit(cmd.Context(), task.Job{
				Name:      "smoke",
				TimeLimit: task.SmokeTimeLimit,
				Run: func(jobCtx context.Context) (string, error) {
					count, err := a.db.CountEvents(jobCtx)
					if err != nil {
						return "", fmt.Errorf("counting events: %w", err)
					}
					return fmt.Sprintf("ok, %d events stored", count), nil
				},
			})
			if err != nil {
				return err
			}
			return report(queue)
		},
	}
}
