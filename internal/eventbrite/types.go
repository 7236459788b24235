package eventbrite

import (
	"time"

	"github.com/techgrid/eventscout/internal/event"
)

// Organization is the organizer block returned by the organizers
// endpoint.
type Organization struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Website         string    `json:"website"`
	LongDescription TextField `json:"long_description"`
}

// OrgEvent is one entry from an organization's event listing. Nested
// name/description/start/end objects may be absent entirely; accessors
// degrade to empty values.
type OrgEvent struct {
	ID          string     `json:"id"`
	URL         string     `json:"url"`
	Name        *TextField `json:"name"`
	Description *TextField `json:"description"`
	Start       *TimeField `json:"start"`
	End         *TimeField `json:"end"`
}

// EventDetail is the expanded record from the destination events
// endpoint.
type EventDetail struct {
	ID           string `json:"id"`
	PrimaryVenue *Venue `json:"primary_venue"`
	Tags         []Tag  `json:"tags"`
}

// Venue describes where an event is hosted.
type Venue struct {
	Name    string  `json:"name"`
	Address Address `json:"address"`
}

// Address carries the display form of a venue address.
type Address struct {
	LocalizedAddressDisplay string `json:"localized_address_display"`
}

// Tag is an Eventbrite topic tag.
type Tag struct {
	DisplayName string `json:"display_name"`
}

// TextField is Eventbrite's {"text": ...} wrapper.
type TextField struct {
	Text string `json:"text"`
}

// TimeField is Eventbrite's {"utc": ...} wrapper.
type TimeField struct {
	UTC string `json:"utc"`
}

type organizersResponse struct {
	Organizers []Organization `json:"organizers"`
}

type eventsResponse struct {
	Events []OrgEvent `json:"events"`
}

type eventDetailsResponse struct {
	Events []EventDetail `json:"events"`
}

// text returns the wrapped text or "" when the field is absent.
func text(f *TextField) string {
	if f == nil {
		return ""
	}
	return f.Text
}

// utcTime parses the wrapped UTC timestamp; absent or unparseable
// fields yield the zero time.
func utcTime(f *TimeField) time.Time {
	if f == nil || f.UTC == "" {
		return time.Time{}
	}
	t, err := time.Parse(timeLayout, f.UTC)
	if err != nil {
		if t, err = time.Parse(time.RFC3339, f.UTC); err != nil {
			return time.Time{}
		}
	}
	return t.UTC()
}

// Normalize maps a listing entry plus its expanded details into the
// canonical event record for group. A nil detail leaves venue and tag
// fields empty.
func Normalize(group string, item OrgEvent, detail *EventDetail) *event.Event {
	evt := &event.Event{
		Name:             text(item.Name),
		Description:      text(item.Description),
		URL:              item.URL,
		SocialPlatformID: item.ID,
		StartTime:        utcTime(item.Start),
		GroupName:        group,
	}

	if end := utcTime(item.End); !end.IsZero() {
		evt.EndTime = &end
	}

	if detail != nil && detail.PrimaryVenue != nil {
		evt.LocationName = detail.PrimaryVenue.Name
		evt.LocationAddress = detail.PrimaryVenue.Address.LocalizedAddressDisplay
		evt.MapLink = event.GoogleMapLink(evt.LocationAddress)
	}
	if detail != nil {
		for _, tag := range detail.Tags {
			if tag.DisplayName != "" {
				evt.Tags = append(evt.Tags, tag.DisplayName)
			}
		}
	}
	return evt
}
