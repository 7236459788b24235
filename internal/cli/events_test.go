package cli

import (
	"context"
	"testing"
	"time"

	"github.com/techgrid/eventscout/internal/event"
	"github.com/techgrid/eventscout/internal/store"
)

func TestAttachEventTagsSkipsNaturalKeyEvents(t *testing.T) {
	db, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	if err := db.CreatePlatform(ctx, "Meetup", "https://www.meetup.com"); err != nil {
		t.Fatalf("creating platform: %v", err)
	}
	if err := db.CreateGroup(ctx, "Spokane Python User Group", "Meetup"); err != nil {
		t.Fatalf("creating group: %v", err)
	}

	tagged := &event.Event{
		Name:             "DevOps Night",
		StartTime:        time.Date(2025, 2, 1, 2, 0, 0, 0, time.UTC),
		SocialPlatformID: "987654321",
		GroupName:        "Spokane Python User Group",
		Tags:             []string{"DevOps"},
	}
	naturalA := &event.Event{
		Name:      "Python Meetup",
		StartTime: time.Date(2025, 1, 7, 3, 0, 0, 0, time.UTC),
		GroupName: "Spokane Python User Group",
		Tags:      []string{"Python"},
	}
	naturalB := &event.Event{
		Name:      "Go Hack Night",
		StartTime: time.Date(2025, 1, 12, 3, 0, 0, 0, time.UTC),
		GroupName: "Spokane Python User Group",
		Tags:      []string{"Go"},
	}
	for _, evt := range []*event.Event{tagged, naturalA, naturalB} {
		if _, err := db.UpsertEvent(ctx, evt); err != nil {
			t.Fatalf("upserting %s: %v", evt.Name, err)
		}
	}

	listed := []*event.Event{
		{Name: "DevOps Night", SocialPlatformID: "987654321"},
		{Name: "Python Meetup"},
		{Name: "Go Hack Night"},
	}
	attachEventTags(ctx, db, listed)

	if len(listed[0].Tags) != 1 || listed[0].Tags[0] != "DevOps" {
		t.Errorf("tagged event tags = %v", listed[0].Tags)
	}
	// Platformless events share the empty external id, so a lookup for
	// them would sweep in every natural-key row's tags. They must stay
	// untagged instead of each carrying the union.
	for i := 1; i < len(listed); i++ {
		if len(listed[i].Tags) != 0 {
			t.Errorf("%s tags = %v, want none", listed[i].Name, listed[i].Tags)
		}
	}
}
