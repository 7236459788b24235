package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/techgrid/eventscout/internal/calendar"
	"github.com/techgrid/eventscout/internal/event"
	"github.com/techgrid/eventscout/internal/filter"
	"github.com/techgrid/eventscout/internal/store"
)

var (
	flagEventsGroups   []string
	flagEventsTags     []string
	flagEventsSearch   string
	flagEventsRange    string
	flagEventsWeekends bool
	flagEventsICSPath  string
)

func newEventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "List stored events, optionally exporting an iCalendar feed",
		RunE:  runEvents,
	}
	cmd.Flags().StringSliceVar(&flagEventsGroups, "group", nil, "Only events hosted by these groups")
	cmd.Flags().StringSliceVar(&flagEventsTags, "tag", nil, "Only events carrying one of these tags")
	cmd.Flags().StringVar(&flagEventsSearch, "search", "", "Only events whose name or description contains this text")
	cmd.Flags().StringVar(&flagEventsRange, "range", "", "Date range, e.g. 'Mar 1-15' or 'March' (default: next 90 days)")
	cmd.Flags().BoolVar(&flagEventsWeekends, "weekends", false, "Only weekend events")
	cmd.Flags().StringVar(&flagEventsICSPath, "ics", "", "Write an iCalendar feed to this path instead of listing")
	return cmd
}

func runEvents(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	f := filter.New()
	f.Groups = flagEventsGroups
	f.Tags = flagEventsTags
	f.Text = flagEventsSearch
	f.WeekendsOnly = flagEventsWeekends

	from := time.Now().UTC()
	to := from.AddDate(0, 0, 90)
	if flagEventsRange != "" {
		rangeFrom, rangeTo, err := filter.ParseDateRange(flagEventsRange)
		if err != nil {
			return err
		}
		from, to = *rangeFrom, *rangeTo
	}

	events, err := a.db.EventsBetween(cmd.Context(), from, to)
	if err != nil {
		return fmt.Errorf("listing events: %w", err)
	}
	attachEventTags(cmd.Context(), a.db, events)
	events = f.Apply(events)

	if flagEventsICSPath != "" {
		feed := calendar.Feed(events)
		if err := os.WriteFile(flagEventsICSPath, []byte(feed), 0o644); err != nil {
			return fmt.Errorf("writing calendar feed: %w", err)
		}
		fmt.Printf("wrote %d events to %s\n", len(events), flagEventsICSPath)
		return nil
	}

	if len(events) == 0 {
		fmt.Println("no events found")
		return nil
	}
	for _, evt := range events {
		fmt.Printf("%s  %s (%s)\n", event.DisplayLong(evt.StartTime), evt.Name, evt.GroupName)
	}
	return nil
}

// attachEventTags loads stored tags onto each event. Tags are keyed by
// the external platform id; natural-key events have none to load, and
// an empty id must not query, or it would match every natural-key row.
func attachEventTags(ctx context.Context, db *store.DB, events []*event.Event) {
	for _, evt := range events {
		if evt.SocialPlatformID == "" {
			continue
		}
		tags, err := db.EventTags(ctx, evt.SocialPlatformID)
		if err == nil {
			evt.Tags = tags
		}
	}
}
