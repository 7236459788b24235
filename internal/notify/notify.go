package notify

import (
	"context"

	"github.com/techgrid/eventscout/internal/event"
)

// Trigger identifies why a notification is being sent.
type Trigger string

const (
	// TriggerCreated announces a newly ingested event.
	TriggerCreated Trigger = "created"
	// TriggerReminder reminds about an event happening tomorrow.
	TriggerReminder Trigger = "reminder"
	// TriggerWeekly summarizes the current week's events.
	TriggerWeekly Trigger = "weekly"
)

// Notifier delivers a single event notification to one channel. The
// returned status is a human-readable outcome; an unconfigured channel
// reports that in the status and returns a nil error.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, evt *event.Event, trigger Trigger) (string, error)
}

// WeeklyNotifier is implemented by channels that can post a weekly
// summary covering several events at once.
type WeeklyNotifier interface {
	Notifier
	WeeklySummary(ctx context.Context, events []*event.Event) (string, error)
}
