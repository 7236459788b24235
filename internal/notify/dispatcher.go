package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/techgrid/eventscout/internal/event"
	"github.com/techgrid/eventscout/internal/store"
	"github.com/techgrid/eventscout/internal/task"
)

// EventLister is the slice of the store the dispatcher needs. *store.DB
// satisfies it.
type EventLister interface {
	EventsBetween(ctx context.Context, from, to time.Time) ([]*event.Event, error)
}

// Dispatcher fans an event notification out to every registered
// channel. Each delivery is submitted as its own fire-once job so a
// failing channel never blocks or retries at the expense of the others.
type Dispatcher struct {
	queue         task.Queue
	events        EventLister
	channels      []Notifier
	groupChannels map[string][]Notifier
	logger        zerolog.Logger
}

// NewDispatcher returns a Dispatcher submitting delivery jobs to queue.
func NewDispatcher(queue task.Queue, events EventLister, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		queue:         queue,
		events:        events,
		groupChannels: make(map[string][]Notifier),
		logger:        logger.With().Str("component", "dispatcher").Logger(),
	}
}

// AddChannel registers a channel that receives every notification.
func (d *Dispatcher) AddChannel(n Notifier) {
	d.channels = append(d.channels, n)
}

// AddGroupChannel registers a channel that only receives notifications
// for groupName's events.
func (d *Dispatcher) AddGroupChannel(groupName string, n Notifier) {
	d.groupChannels[groupName] = append(d.groupChannels[groupName], n)
}

// EventCreated announces a newly ingested event on every channel. It
// matches the ingest package's created hook signature.
func (d *Dispatcher) EventCreated(ctx context.Context, evt *event.Event) {
	if err := d.dispatch(ctx, evt, TriggerCreated); err != nil {
		d.logger.Error().Err(err).Str("event", evt.Name).Msg("dispatching created notifications")
	}
}

// ReminderSweep sends reminders for every event happening tomorrow, as
// seen in the display timezone.
func (d *Dispatcher) ReminderSweep(ctx context.Context, now time.Time) (string, error) {
	local := event.ToDisplay(now)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, event.DisplayZone()).AddDate(0, 0, 1)
	end := start.AddDate(0, 0, 1)

	events, err := d.events.EventsBetween(ctx, start.UTC(), end.UTC())
	if err != nil {
		return "", fmt.Errorf("listing tomorrow's events: %w", err)
	}
	for _, evt := range events {
		if err := d.dispatch(ctx, evt, TriggerReminder); err != nil {
			return "", err
		}
	}
	return fmt.Sprintf("sending reminders for %d events", len(events)), nil
}

// WeeklySweep posts a summary of the current week's events (Monday
// through Sunday in the display timezone) on channels that support it.
func (d *Dispatcher) WeeklySweep(ctx context.Context, now time.Time) (string, error) {
	local := event.ToDisplay(now)
	daysSinceMonday := (int(local.Weekday()) + 6) % 7
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, event.DisplayZone()).
		AddDate(0, 0, -daysSinceMonday)
	end := start.AddDate(0, 0, 7)

	events, err := d.events.EventsBetween(ctx, start.UTC(), end.UTC())
	if err != nil {
		return "", fmt.Errorf("listing this week's events: %w", err)
	}
	if len(events) == 0 {
		return "no events found for the week", nil
	}

	submitted := 0
	for _, ch := range d.channels {
		wn, ok := ch.(WeeklyNotifier)
		if !ok {
			continue
		}
		job := task.Job{
			Name:       "notify." + ch.Name() + ".weekly",
			TimeLimit:  task.NotifyTimeLimit,
			MaxRetries: task.NotifyMaxRetries,
			Run: func(jobCtx context.Context) (string, error) {
				return wn.WeeklySummary(jobCtx, events)
			},
		}
		if _, err := d.queue.Submit(ctx, job); err != nil {
			return "", fmt.Errorf("submitting weekly summary for %s: %w", ch.Name(), err)
		}
		submitted++
	}
	return fmt.Sprintf("submitted weekly summary of %d events to %d channels", len(events), submitted), nil
}

func (d *Dispatcher) dispatch(ctx context.Context, evt *event.Event, trigger Trigger) error {
	for _, ch := range d.channelsFor(evt) {
		job := task.Job{
			Name:       "notify." + ch.Name(),
			TimeLimit:  task.NotifyTimeLimit,
			MaxRetries: task.NotifyMaxRetries,
			Run: func(jobCtx context.Context) (string, error) {
				return ch.Notify(jobCtx, evt, trigger)
			},
		}
		if _, err := d.queue.Submit(ctx, job); err != nil {
			return fmt.Errorf("submitting %s notification for %s: %w", trigger, ch.Name(), err)
		}
	}
	return nil
}

func (d *Dispatcher) channelsFor(evt *event.Event) []Notifier {
	extra := d.groupChannels[evt.GroupName]
	if len(extra) == 0 {
		return d.channels
	}
	all := make([]Notifier, 0, len(d.channels)+len(extra))
	all = append(all, d.channels...)
	return append(all, extra...)
}

var _ EventLister = (*store.DB)(nil)
