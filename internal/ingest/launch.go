package ingest

import (
	"context"
	"fmt"

	"github.com/techgrid/eventscout/internal/store"
	"github.com/techgrid/eventscout/internal/task"
)

// LaunchIngestion submits one ingestion job per enabled group on each
// platform. The parent does no scraping itself; per-group jobs carry
// their own time limits and retry budgets.
func (o *Orchestrator) LaunchIngestion(ctx context.Context, queue task.Queue) (string, error) {
	submitted := 0

	meetupGroups, err := o.db.GroupsByPlatform(ctx, PlatformMeetup)
	if err != nil {
		return "", fmt.Errorf("listing meetup groups: %w", err)
	}
	for _, g := range meetupGroups {
		if err := o.submitGroupJob(ctx, queue, "ingest.meetup", g, o.IngestMeetupGroup); err != nil {
			return "", err
		}
		submitted++
	}

	ebGroups, err := o.db.GroupsByPlatform(ctx, PlatformEventbrite)
	if err != nil {
		return "", fmt.Errorf("listing eventbrite groups: %w", err)
	}
	for _, g := range ebGroups {
		if err := o.submitGroupJob(ctx, queue, "ingest.eventbrite", g, o.IngestEventbriteGroup); err != nil {
			return "", err
		}
		submitted++
	}

	return fmt.Sprintf("submitted %d ingestion jobs", submitted), nil
}

// LaunchDetailsRefresh submits one details-refresh job per enabled
// group on each platform.
func (o *Orchestrator) LaunchDetailsRefresh(ctx context.Context, queue task.Queue) (string, error) {
	submitted := 0

	meetupGroups, err := o.db.GroupsByPlatform(ctx, PlatformMeetup)
	if err != nil {
		return "", fmt.Errorf("listing meetup groups: %w", err)
	}
	for _, g := range meetupGroups {
		if err := o.submitGroupJob(ctx, queue, "details.meetup", g, o.IngestMeetupGroupDetails); err != nil {
			return "", err
		}
		submitted++
	}

	ebGroups, err := o.db.GroupsByPlatform(ctx, PlatformEventbrite)
	if err != nil {
		return "", fmt.Errorf("listing eventbrite groups: %w", err)
	}
	for _, g := range ebGroups {
		if err := o.submitGroupJob(ctx, queue, "details.eventbrite", g, o.IngestEventbriteOrganizationDetails); err != nil {
			return "", err
		}
		submitted++
	}

	return fmt.Sprintf("submitted %d details jobs", submitted), nil
}

func (o *Orchestrator) submitGroupJob(ctx context.Context, queue task.Queue, prefix string, g store.Group,
	run func(context.Context, string) (string, error)) error {
	job := task.Job{
		Name:       prefix + "/" + g.Name,
		TimeLimit:  task.IngestTimeLimit,
		MaxRetries: task.IngestMaxRetries,
		Run: func(jobCtx context.Context) (string, error) {
			return run(jobCtx, g.Name)
		},
	}
	if _, err := queue.Submit(ctx, job); err != nil {
		return fmt.Errorf("submitting %s job for %s: %w", prefix, g.Name, err)
	}
	return nil
}
