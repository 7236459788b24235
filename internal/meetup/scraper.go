package meetup

import (
	"context"
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/techgrid/eventscout/internal/event"
)

// Renderer produces fully client-rendered HTML for a URL. Empty content
// means the page could not be fetched.
type Renderer interface {
	Render(ctx context.Context, url string) (string, error)
}

// Fetcher retrieves raw page content over plain HTTP.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Selectors holds the markup-specific CSS selectors the scraper relies
// on. They are data, not code, so a layout change is a config change.
type Selectors struct {
	EventName        string
	EventDescription string
	EventTime        string
	GroupDescription string
}

// DefaultSelectors matches the production Meetup markup.
func DefaultSelectors() Selectors {
	return Selectors{
		EventName:        "h1",
		EventDescription: `div[class*="break-words"]`,
		EventTime:        "time",
		GroupDescription: `div[class*="utils_description"]`,
	}
}

// Upcoming-event URLs embed a numeric event id; recurring templates use
// alphanumeric ids and must not be ingested as concrete events.
var (
	eventURLRe  = regexp.MustCompile(`"eventUrl":"(https://www\.meetup\.com/[^/"]+/events/(\d+)/)"`)
	eventIDRe   = regexp.MustCompile(`/events/([^/]+)/`)
	venueNameRe = regexp.MustCompile(`"__typename":"Venue","id":"\d+","name":"([^"]+)"`)
	venueAddrRe = regexp.MustCompile(`"__typename":"Venue","id":"\d+","name":"[^"]+","address":"([^"]+)","city":"([^"]+)","state":"([^"]+)","country":"([^"]+)"`)
	mapLinkRe   = regexp.MustCompile(`<a[^>]*data-testid="map-link"[^>]*href="([^"]+)"`)
)

// Scraper extracts event and group data from Meetup pages.
type Scraper struct {
	renderer  Renderer
	fetcher   Fetcher
	selectors Selectors
	logger    zerolog.Logger
}

// New creates a Scraper with the default production selectors.
func New(renderer Renderer, fetcher Fetcher, logger zerolog.Logger) *Scraper {
	return NewWithSelectors(renderer, fetcher, DefaultSelectors(), logger)
}

// NewWithSelectors creates a Scraper with custom selectors.
func NewWithSelectors(renderer Renderer, fetcher Fetcher, selectors Selectors, logger zerolog.Logger) *Scraper {
	return &Scraper{
		renderer:  renderer,
		fetcher:   fetcher,
		selectors: selectors,
		logger:    logger,
	}
}

// EventLinks returns the URLs of upcoming events listed on a group's
// events page. Only numeric-id URLs are kept; Meetup conflates
// recurring templates (alphanumeric ids) with concrete instances, and
// letting templates through creates duplicate or phantom events.
// An unfetchable or unparseable listing yields an empty slice.
func (s *Scraper) EventLinks(ctx context.Context, groupURL string) ([]string, error) {
	listingURL := strings.TrimRight(groupURL, "/") + "/events/?type=upcoming"

	page, err := s.renderer.Render(ctx, listingURL)
	if err != nil {
		return nil, err
	}
	if page == "" {
		return nil, nil
	}

	matches := eventURLRe.FindAllStringSubmatch(page, -1)
	seen := make(map[string]bool, len(matches))
	links := make([]string, 0, len(matches))
	for _, m := range matches {
		if seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		links = append(links, m[1])
	}
	return links, nil
}

// EventInformation extracts a partial canonical record from an event
// page. Any field that cannot be located is left at its zero value;
// callers must treat a missing name as "skip this record". A page that
// cannot be fetched at all yields nil.
func (s *Scraper) EventInformation(ctx context.Context, eventURL string) (*event.Event, error) {
	page, err := s.renderer.Render(ctx, eventURL)
	if err != nil {
		return nil, err
	}
	if page == "" {
		return nil, nil
	}

	evt := &event.Event{URL: eventURL}

	if m := eventIDRe.FindStringSubmatch(eventURL); m != nil {
		evt.SocialPlatformID = m[1]
	}

	doc, docErr := goquery.NewDocumentFromReader(strings.NewReader(page))
	if docErr == nil {
		evt.Name = strings.TrimSpace(doc.Find(s.selectors.EventName).First().Text())

		if descHTML, err := doc.Find(s.selectors.EventDescription).First().Html(); err == nil {
			evt.Description = strings.TrimSpace(descHTML)
		}

		timeSel := doc.Find(s.selectors.EventTime).First()
		if datetime, ok := timeSel.Attr("datetime"); ok {
			if start, err := time.Parse(time.RFC3339, datetime); err == nil {
				evt.StartTime = start.UTC()
				evt.EndTime = endFromTimeText(start, timeSel.Text())
			} else {
				s.logger.Warn().Str("url", eventURL).Str("datetime", datetime).Msg("unparseable event datetime")
			}
		}
	}

	// Venue details live in an inline script blob, not the visible DOM.
	if m := venueNameRe.FindStringSubmatch(page); m != nil {
		evt.LocationName = m[1]
	}
	if m := venueAddrRe.FindStringSubmatch(page); m != nil {
		evt.LocationAddress = m[1] + ", " + m[2] + ", " + m[3] + ", " + strings.ToUpper(m[4])
	}
	if m := mapLinkRe.FindStringSubmatch(page); m != nil {
		evt.MapLink = html.UnescapeString(m[1])
	}

	return evt, nil
}

// GroupDescription returns the inner HTML of a group's long-form
// description, or an empty string when the node is absent.
func (s *Scraper) GroupDescription(ctx context.Context, groupURL string) (string, error) {
	page, err := s.fetcher.Get(ctx, groupURL)
	if err != nil {
		return "", err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(page)))
	if err != nil {
		return "", nil
	}

	sel := doc.Find(s.selectors.GroupDescription).First()
	if sel.Length() == 0 {
		return "", nil
	}
	descHTML, err := sel.Html()
	if err != nil {
		return "", nil
	}
	return strings.TrimSpace(descHTML), nil
}

// endFromTimeText derives the event end from the visible time text,
// e.g. "Monday, January 6, 2025 7:00 PM to 9:00 PM PST". The end shares
// the start's date and zone offset; only the wall-clock time comes from
// the text.
func endFromTimeText(start time.Time, timeText string) *time.Time {
	idx := strings.LastIndex(timeText, " to ")
	if idx < 0 {
		return nil
	}

	fields := strings.Fields(timeText[idx+len(" to "):])
	if len(fields) < 2 {
		return nil
	}

	clock, err := time.Parse("3:04 PM", fields[0]+" "+fields[1])
	if err != nil {
		return nil
	}

	end := time.Date(start.Year(), start.Month(), start.Day(),
		clock.Hour(), clock.Minute(), 0, 0, start.Location())
	// Events that cross midnight end on the next day.
	if end.Before(start) {
		end = end.AddDate(0, 0, 1)
	}
	end = end.UTC()
	return &end
}
