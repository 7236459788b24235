package event

import (
	"strings"
	"time"
)

// Event is the canonical, source-agnostic representation of an event.
// Timestamps are stored in UTC; presentation code converts via ToDisplay.
type Event struct {
	Name             string     `json:"name"`
	Description      string     `json:"description,omitempty"`
	StartTime        time.Time  `json:"start_datetime"`
	EndTime          *time.Time `json:"end_datetime,omitempty"`
	LocationName     string     `json:"location_name,omitempty"`
	LocationAddress  string     `json:"location_address,omitempty"`
	MapLink          string     `json:"map_link,omitempty"`
	URL              string     `json:"url,omitempty"`
	SocialPlatformID string     `json:"social_platform_id,omitempty"`
	GroupName        string     `json:"group,omitempty"`
	Tags             []string   `json:"tags,omitempty"`
}

// Key returns the deduplication key used for upserts. The external
// platform identifier wins when present; otherwise the natural key is
// the normalized name combined with the UTC start time. Repeated
// scrapes of unchanged source data always produce the same key.
func (e *Event) Key() string {
	if e.SocialPlatformID != "" {
		return "ext:" + e.SocialPlatformID
	}
	name := strings.ToLower(strings.TrimSpace(e.Name))
	return "nat:" + name + "|" + e.StartTime.UTC().Format(time.RFC3339)
}

// HasName reports whether the record carries a usable event name.
// Nameless records must never be upserted.
func (e *Event) HasName() bool {
	return strings.TrimSpace(e.Name) != ""
}

// GoogleMapLink builds a Google Maps link for a raw address. Spaces and
// '#' are the only characters the upstream address strings contain that
// need escaping.
func GoogleMapLink(address string) string {
	if address == "" {
		return ""
	}
	address = strings.ReplaceAll(address, " ", "+")
	address = strings.ReplaceAll(address, "#", "%23")
	return "https://www.google.com/maps?q=" + address
}
