package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/techgrid/eventscout/internal/event"
	"github.com/techgrid/eventscout/internal/notify"
)

// dryRunChannel prints what would be posted instead of sending it.
type dryRunChannel struct {
	out io.Writer
}

func newDryRunChannel(out io.Writer) *dryRunChannel {
	return &dryRunChannel{out: out}
}

func (c *dryRunChannel) Name() string { return "dry-run" }

func (c *dryRunChannel) Notify(ctx context.Context, evt *event.Event, trigger notify.Trigger) (string, error) {
	fmt.Fprintf(c.out, "[dry-run] %s: %s on %s (%s)\n",
		trigger, evt.Name, event.DisplayLong(evt.StartTime), evt.URL)
	return fmt.Sprintf("dry-run %s for %s", trigger, evt.Name), nil
}

func (c *dryRunChannel) WeeklySummary(ctx context.Context, events []*event.Event) (string, error) {
	fmt.Fprintf(c.out, "[dry-run] weekly summary of %d events:\n", len(events))
	for _, evt := range events {
		fmt.Fprintf(c.out, "  - %s on %s\n", evt.Name, event.DisplayLong(evt.StartTime))
	}
	return fmt.Sprintf("dry-run weekly summary of %d events", len(events)), nil
}
