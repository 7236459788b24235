// Package filter narrows stored event lists for listings and calendar
// exports.
//
// Criteria combine with AND semantics; values within one criterion
// combine with OR:
//
//	f := filter.New()
//	f.Groups = []string{"Spokane Python User Group"}
//	f.WeekendsOnly = true
//	upcoming := f.Apply(events)
package filter

import (
	"strings"
	"time"

	"github.com/techgrid/eventscout/internal/event"
)

// Filter holds event selection criteria. The zero value matches
// everything.
type Filter struct {
	// Start-time range, inclusive on both ends.
	DateFrom *time.Time
	DateTo   *time.Time

	// Hosting group names, case-insensitive exact match.
	Groups []string

	// Tag names, case-insensitive exact match.
	Tags []string

	// Free-text search over name and description, case-insensitive
	// substring match.
	Text string

	// Events falling on Saturday or Sunday in the display timezone.
	WeekendsOnly bool
}

// New returns an empty filter.
func New() *Filter {
	return &Filter{}
}

// IsEmpty reports whether the filter matches everything.
func (f *Filter) IsEmpty() bool {
	return f.DateFrom == nil && f.DateTo == nil &&
		len(f.Groups) == 0 && len(f.Tags) == 0 &&
		f.Text == "" && !f.WeekendsOnly
}

// Apply returns the events matching the filter, preserving order.
func (f *Filter) Apply(events []*event.Event) []*event.Event {
	if f.IsEmpty() {
		return events
	}
	var matched []*event.Event
	for _, evt := range events {
		if f.Matches(evt) {
			matched = append(matched, evt)
		}
	}
	return matched
}

// Matches reports whether a single event satisfies every criterion.
func (f *Filter) Matches(evt *event.Event) bool {
	if f.DateFrom != nil && evt.StartTime.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && evt.StartTime.After(*f.DateTo) {
		return false
	}
	if len(f.Groups) > 0 && !containsFold(f.Groups, evt.GroupName) {
		return false
	}
	if len(f.Tags) > 0 && !anyTagMatches(f.Tags, evt.Tags) {
		return false
	}
	if f.Text != "" && !textMatches(f.Text, evt) {
		return false
	}
	if f.WeekendsOnly && !isWeekend(evt.StartTime) {
		return false
	}
	return true
}

func containsFold(haystack []string, needle string) bool {
	for _, s := range haystack {
		if strings.EqualFold(strings.TrimSpace(s), strings.TrimSpace(needle)) {
			return true
		}
	}
	return false
}

func anyTagMatches(wanted, tags []string) bool {
	for _, tag := range tags {
		if containsFold(wanted, tag) {
			return true
		}
	}
	return false
}

func textMatches(text string, evt *event.Event) bool {
	text = strings.ToLower(text)
	return strings.Contains(strings.ToLower(evt.Name), text) ||
		strings.Contains(strings.ToLower(evt.Description), text)
}

func isWeekend(t time.Time) bool {
	day := event.ToDisplay(t).Weekday()
	return day == time.Saturday || day == time.Sunday
}
