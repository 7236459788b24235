package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/techgrid/eventscout/internal/event"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
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
	return db
}

func testEvent() *event.Event {
	return &event.Event{
		Name:             "Python Meetup",
		Description:      "<p>Talks and pizza.</p>",
		StartTime:        time.Date(2025, 1, 7, 3, 0, 0, 0, time.UTC),
		SocialPlatformID: "123456",
		URL:              "https://www.meetup.com/python-spokane/events/123456/",
		GroupName:        "Spokane Python User Group",
	}
}

func TestUpsertEventIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	created, err := db.UpsertEvent(ctx, testEvent())
	if err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}
	if !created {
		t.Error("first upsert should create")
	}

	created, err = db.UpsertEvent(ctx, testEvent())
	if err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}
	if created {
		t.Error("second upsert of unchanged data should not create")
	}

	n, err := db.CountEvents(ctx)
	if err != nil {
		t.Fatalf("counting events: %v", err)
	}
	if n != 1 {
		t.Errorf("event count = %d, want 1", n)
	}
}

func TestUpsertExternalIDWinsOverName(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if _, err := db.UpsertEvent(ctx, testEvent()); err != nil {
		t.Fatalf("seed upsert failed: %v", err)
	}

	renamed := testEvent()
	renamed.Name = "Python Meetup (Renamed)"
	created, err := db.UpsertEvent(ctx, renamed)
	if err != nil {
		t.Fatalf("renamed upsert failed: %v", err)
	}
	if created {
		t.Error("matching external id must update, never duplicate")
	}

	n, _ := db.CountEvents(ctx)
	if n != 1 {
		t.Errorf("event count = %d, want 1", n)
	}

	got, err := db.GetEventByKey(ctx, "123456", "", time.Time{})
	if err != nil {
		t.Fatalf("fetching event: %v", err)
	}
	if got.Name != "Python Meetup (Renamed)" {
		t.Errorf("Name = %q, want the incoming name", got.Name)
	}
}

func TestUpsertNaturalKeyWhenNoExternalID(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	evt := testEvent()
	evt.SocialPlatformID = ""
	if _, err := db.UpsertEvent(ctx, evt); err != nil {
		t.Fatalf("first upsert failed: %v", err)
	}

	again := testEvent()
	again.SocialPlatformID = ""
	again.Description = "<p>Updated agenda.</p>"
	created, err := db.UpsertEvent(ctx, again)
	if err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}
	if created {
		t.Error("same (name, start) must update, not create")
	}

	different := testEvent()
	different.SocialPlatformID = ""
	different.StartTime = different.StartTime.AddDate(0, 1, 0)
	created, err = db.UpsertEvent(ctx, different)
	if err != nil {
		t.Fatalf("third upsert failed: %v", err)
	}
	if !created {
		t.Error("a different start time is a different event")
	}
}

func TestUpsertPreservesCuratedFields(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	full := testEvent()
	full.LocationName = "Fuel Coworking"
	full.MapLink = "https://www.google.com/maps?q=somewhere"
	if _, err := db.UpsertEvent(ctx, full); err != nil {
		t.Fatalf("seed upsert failed: %v", err)
	}

	// A later scrape misses the optional fields; they must survive.
	sparse := testEvent()
	sparse.Description = ""
	sparse.LocationName = ""
	sparse.MapLink = ""
	if _, err := db.UpsertEvent(ctx, sparse); err != nil {
		t.Fatalf("sparse upsert failed: %v", err)
	}

	got, err := db.GetEventByKey(ctx, "123456", "", time.Time{})
	if err != nil {
		t.Fatalf("fetching event: %v", err)
	}
	if got.LocationName != "Fuel Coworking" {
		t.Errorf("LocationName = %q, curated value was erased", got.LocationName)
	}
	if got.Description != "<p>Talks and pizza.</p>" {
		t.Errorf("Description = %q, curated value was erased", got.Description)
	}
}

func TestUpsertRejectsNamelessEvent(t *testing.T) {
	db := newTestDB(t)

	evt := testEvent()
	evt.Name = "  "
	if _, err := db.UpsertEvent(context.Background(), evt); err == nil {
		t.Fatal("expected an error for a nameless event")
	}
}

func TestUpsertAttachesTags(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	evt := testEvent()
	evt.Tags = []string{"python", "spokane"}
	if _, err := db.UpsertEvent(ctx, evt); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	// Re-upserting with an overlapping tag set must not duplicate.
	evt.Tags = []string{"python", "talks"}
	if _, err := db.UpsertEvent(ctx, evt); err != nil {
		t.Fatalf("second upsert failed: %v", err)
	}

	tags, err := db.EventTags(ctx, "123456")
	if err != nil {
		t.Fatalf("listing tags: %v", err)
	}
	want := []string{"python", "spokane", "talks"}
	if len(tags) != len(want) {
		t.Fatalf("tags = %v, want %v", tags, want)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Errorf("tags[%d] = %q, want %q", i, tags[i], want[i])
		}
	}
}

func TestEventsBetween(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	base := time.Date(2025, 1, 7, 3, 0, 0, 0, time.UTC)
	for i, id := range []string{"1", "2", "3"} {
		evt := testEvent()
		evt.SocialPlatformID = id
		evt.Name = "Event " + id
		evt.StartTime = base.AddDate(0, 0, i)
		if _, err := db.UpsertEvent(ctx, evt); err != nil {
			t.Fatalf("upsert %s failed: %v", id, err)
		}
	}

	events, err := db.EventsBetween(ctx, base, base.AddDate(0, 0, 2))
	if err != nil {
		t.Fatalf("EventsBetween failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].Name != "Event 1" || events[1].Name != "Event 2" {
		t.Errorf("unexpected order: %s, %s", events[0].Name, events[1].Name)
	}
	if events[0].GroupName != "Spokane Python User Group" {
		t.Errorf("GroupName = %q", events[0].GroupName)
	}
}

func TestEventsBetweenExcludesDisabledGroups(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if _, err := db.UpsertEvent(ctx, testEvent()); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}
	if err := db.SetGroupEnabled(ctx, "Spokane Python User Group", false); err != nil {
		t.Fatalf("disabling group: %v", err)
	}

	events, err := db.EventsBetween(ctx,
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("EventsBetween failed: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("expected no events from disabled groups, got %d", len(events))
	}
}

func TestGroupProfileLinks(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	g, err := db.GetGroup(ctx, "Spokane Python User Group")
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}

	if _, err := db.GroupProfileLinks(ctx, *g); !errors.Is(err, ErrNoLink) {
		t.Errorf("expected ErrNoLink before any link exists, got %v", err)
	}

	created, err := db.AttachGroupLink(ctx, g.Name, g.ProfileLinkName(), "https://www.meetup.com/python-spokane")
	if err != nil {
		t.Fatalf("AttachGroupLink failed: %v", err)
	}
	if !created {
		t.Error("expected link creation")
	}

	// Attaching the same URL again is a no-op.
	created, err = db.AttachGroupLink(ctx, g.Name, g.ProfileLinkName(), "https://www.meetup.com/python-spokane")
	if err != nil {
		t.Fatalf("repeat AttachGroupLink failed: %v", err)
	}
	if created {
		t.Error("attaching an existing URL should be a no-op")
	}

	urls, err := db.GroupProfileLinks(ctx, *g)
	if err != nil {
		t.Fatalf("GroupProfileLinks failed: %v", err)
	}
	if len(urls) != 1 || urls[0] != "https://www.meetup.com/python-spokane" {
		t.Errorf("urls = %v", urls)
	}
}

func TestUpdateGroupDescription(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	changed, err := db.UpdateGroupDescription(ctx, "Spokane Python User Group", "A friendly group.")
	if err != nil {
		t.Fatalf("UpdateGroupDescription failed: %v", err)
	}
	if !changed {
		t.Error("expected a change on first update")
	}

	changed, err = db.UpdateGroupDescription(ctx, "Spokane Python User Group", "A friendly group.")
	if err != nil {
		t.Fatalf("repeat UpdateGroupDescription failed: %v", err)
	}
	if changed {
		t.Error("identical description should report no change")
	}
}

func TestGroupsByPlatform(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := db.CreatePlatform(ctx, "Eventbrite", "https://www.eventbrite.com"); err != nil {
		t.Fatalf("creating platform: %v", err)
	}
	if err := db.CreateGroup(ctx, "Spokane DevOps", "Eventbrite"); err != nil {
		t.Fatalf("creating group: %v", err)
	}
	if err := db.CreateGroup(ctx, "Disabled Group", "Meetup"); err != nil {
		t.Fatalf("creating group: %v", err)
	}
	if err := db.SetGroupEnabled(ctx, "Disabled Group", false); err != nil {
		t.Fatalf("disabling group: %v", err)
	}

	groups, err := db.GroupsByPlatform(ctx, "Meetup")
	if err != nil {
		t.Fatalf("GroupsByPlatform failed: %v", err)
	}
	if len(groups) != 1 || groups[0].Name != "Spokane Python User Group" {
		t.Errorf("groups = %+v", groups)
	}
	if groups[0].Platform != "Meetup" {
		t.Errorf("Platform = %q", groups[0].Platform)
	}
}
