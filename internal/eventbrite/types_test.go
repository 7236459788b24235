package eventbrite

import (
	"testing"
	"time"
)

func TestNormalize(t *testing.T) {
	item := OrgEvent{
		ID:          "555",
		URL:         "https://evt.example/e/555",
		Name:        &TextField{Text: "Go Night"},
		Description: &TextField{Text: "Lightning talks."},
		Start:       &TimeField{UTC: "2025-01-10T02:00:00Z"},
		End:         &TimeField{UTC: "2025-01-10T04:00:00Z"},
	}
	detail := &EventDetail{
		ID: "555",
		PrimaryVenue: &Venue{
			Name:    "The Hive",
			Address: Address{LocalizedAddressDisplay: "120 N Pine St, Spokane, WA"},
		},
		Tags: []Tag{{DisplayName: "golang"}, {DisplayName: ""}},
	}

	evt := Normalize("Spokane Go Users", item, detail)

	if evt.Name != "Go Night" {
		t.Errorf("Name = %q", evt.Name)
	}
	if evt.SocialPlatformID != "555" {
		t.Errorf("SocialPlatformID = %q", evt.SocialPlatformID)
	}
	if evt.GroupName != "Spokane Go Users" {
		t.Errorf("GroupName = %q", evt.GroupName)
	}
	if want := time.Date(2025, 1, 10, 2, 0, 0, 0, time.UTC); !evt.StartTime.Equal(want) {
		t.Errorf("StartTime = %v, want %v", evt.StartTime, want)
	}
	if evt.EndTime == nil || !evt.EndTime.Equal(time.Date(2025, 1, 10, 4, 0, 0, 0, time.UTC)) {
		t.Errorf("EndTime = %v", evt.EndTime)
	}
	if evt.LocationName != "The Hive" {
		t.Errorf("LocationName = %q", evt.LocationName)
	}
	if evt.MapLink != "https://www.google.com/maps?q=120+N+Pine+St,+Spokane,+WA" {
		t.Errorf("MapLink = %q", evt.MapLink)
	}
	if len(evt.Tags) != 1 || evt.Tags[0] != "golang" {
		t.Errorf("Tags = %v (empty display names should be dropped)", evt.Tags)
	}
}

func TestNormalizeDefensiveAgainstAbsentSubObjects(t *testing.T) {
	// Nested name/description/start/end objects can be missing from the
	// listing payload entirely; normalization must not panic and must
	// degrade to empty values.
	evt := Normalize("Spokane Go Users", OrgEvent{ID: "556"}, nil)

	if evt.Name != "" || evt.Description != "" {
		t.Errorf("expected empty text fields, got %q / %q", evt.Name, evt.Description)
	}
	if !evt.StartTime.IsZero() {
		t.Errorf("StartTime = %v, want zero", evt.StartTime)
	}
	if evt.EndTime != nil {
		t.Errorf("EndTime = %v, want nil", evt.EndTime)
	}
	if evt.LocationName != "" || evt.MapLink != "" {
		t.Errorf("expected empty venue fields, got %q / %q", evt.LocationName, evt.MapLink)
	}
	if evt.SocialPlatformID != "556" {
		t.Errorf("SocialPlatformID = %q", evt.SocialPlatformID)
	}
}
