package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/techgrid/eventscout/internal/event"
	"github.com/techgrid/eventscout/internal/eventbrite"
	"github.com/techgrid/eventscout/internal/store"
)

// Platform names as seeded in the store.
const (
	PlatformMeetup     = "Meetup"
	PlatformEventbrite = "Eventbrite"
)

// MeetupScraper reads a group's page and event pages. *meetup.Scraper
// satisfies it.
type MeetupScraper interface {
	EventLinks(ctx context.Context, groupURL string) ([]string, error)
	EventInformation(ctx context.Context, eventURL string) (*event.Event, error)
	GroupDescription(ctx context.Context, groupURL string) (string, error)
}

// EventbriteAPI reads an organization's listings and event details.
// *eventbrite.Client satisfies it.
type EventbriteAPI interface {
	OrganizationDetails(ctx context.Context, organizationID string) (*eventbrite.Organization, error)
	OrganizationEvents(ctx context.Context, organizationID string) ([]eventbrite.OrgEvent, error)
	EventDetails(ctx context.Context, eventID string) (*eventbrite.EventDetail, error)
}

// CreatedHook runs after a genuinely new event lands in the store.
type CreatedHook func(ctx context.Context, evt *event.Event)

// Orchestrator drives ingestion for the groups registered in the store.
type Orchestrator struct {
	db         *store.DB
	meetup     MeetupScraper
	eventbrite EventbriteAPI
	hooks      []CreatedHook
	logger     zerolog.Logger
}

// New returns an Orchestrator. Either source may be nil when only the
// other platform is being ingested.
func New(db *store.DB, meetup MeetupScraper, eb EventbriteAPI, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		db:         db,
		meetup:     meetup,
		eventbrite: eb,
		logger:     logger.With().Str("component", "ingest").Logger(),
	}
}

// OnEventCreated registers a hook fired for each newly created event.
func (o *Orchestrator) OnEventCreated(hook CreatedHook) {
	o.hooks = append(o.hooks, hook)
}

func (o *Orchestrator) created(ctx context.Context, evt *event.Event) {
	for _, hook := range o.hooks {
		hook(ctx, evt)
	}
}

// IngestMeetupGroup scrapes every upcoming event for the named group
// and upserts them. Events without a name are skipped, not fatal.
func (o *Orchestrator) IngestMeetupGroup(ctx context.Context, groupName string) (string, error) {
	links, status, err := o.profileLinks(ctx, groupName)
	if links == nil {
		return status, err
	}

	found, added := 0, 0
	for _, link := range links {
		eventLinks, err := o.meetup.EventLinks(ctx, link)
		if err != nil {
			return "", fmt.Errorf("listing events for %s: %w", groupName, err)
		}
		found += len(eventLinks)
		for _, eventLink := range eventLinks {
			evt, err := o.meetup.EventInformation(ctx, eventLink)
			if err != nil {
				o.logger.Warn().Err(err).Str("url", eventLink).Msg("scraping event page failed")
				continue
			}
			// A nil event with no error means the page never rendered.
			if evt == nil {
				o.logger.Warn().Str("url", eventLink).Msg("no event data rendered, skipping")
				continue
			}
			if !evt.HasName() {
				o.logger.Warn().Str("url", eventLink).Msg("event has no name, skipping")
				continue
			}
			evt.GroupName = groupName
			if err := o.saveEvent(ctx, evt, &added); err != nil {
				return "", err
			}
		}
	}
	return fmt.Sprintf("found %d upcoming events for %s; added %d new events", found, groupName, added), nil
}

// IngestEventbriteGroup pulls the group's organization listing and
// upserts each event, enriched with venue and tag details when the
// details call succeeds.
func (o *Orchestrator) IngestEventbriteGroup(ctx context.Context, groupName string) (string, error) {
	links, status, err := o.profileLinks(ctx, groupName)
	if links == nil {
		return status, err
	}

	added := 0
	for _, link := range links {
		orgID := organizationID(link)
		if orgID == "" {
			o.logger.Warn().Str("url", link).Msg("profile link has no organization id")
			continue
		}
		items, err := o.eventbrite.OrganizationEvents(ctx, orgID)
		if err != nil {
			return "", fmt.Errorf("listing eventbrite events for %s: %w", groupName, err)
		}
		for _, item := range items {
			detail, err := o.eventbrite.EventDetails(ctx, item.ID)
			if err != nil {
				o.logger.Warn().Err(err).Str("event_id", item.ID).Msg("fetching event details failed")
				detail = nil
			}
			evt := eventbrite.Normalize(groupName, item, detail)
			if !evt.HasName() {
				o.logger.Warn().Str("event_id", item.ID).Msg("event has no name, skipping")
				continue
			}
			if err := o.saveEvent(ctx, evt, &added); err != nil {
				return "", err
			}
		}
	}
	return fmt.Sprintf("added %d new events for %s", added, groupName), nil
}

// IngestMeetupGroupDetails refreshes the group's description from its
// Meetup page.
func (o *Orchestrator) IngestMeetupGroupDetails(ctx context.Context, groupName string) (string, error) {
	links, status, err := o.profileLinks(ctx, groupName)
	if links == nil {
		return status, err
	}

	changed := false
	for _, link := range links {
		description, err := o.meetup.GroupDescription(ctx, link)
		if err != nil {
			return "", fmt.Errorf("fetching group description for %s: %w", groupName, err)
		}
		if description == "" {
			continue
		}
		updated, err := o.db.UpdateGroupDescription(ctx, groupName, description)
		if err != nil {
			return "", fmt.Errorf("updating description for %s: %w", groupName, err)
		}
		changed = changed || updated
	}
	return detailStatus(groupName, changed), nil
}

// IngestEventbriteOrganizationDetails refreshes the group's description
// from its Eventbrite organizer record and records the organizer's
// website as an additional group link.
func (o *Orchestrator) IngestEventbriteOrganizationDetails(ctx context.Context, groupName string) (string, error) {
	links, status, err := o.profileLinks(ctx, groupName)
	if links == nil {
		return status, err
	}

	changed := false
	for _, link := range links {
		orgID := organizationID(link)
		if orgID == "" {
			continue
		}
		org, err := o.eventbrite.OrganizationDetails(ctx, orgID)
		if err != nil {
			return "", fmt.Errorf("fetching organizer details for %s: %w", groupName, err)
		}
		if org == nil {
			continue
		}
		if description := org.LongDescription.Text; description != "" {
			updated, err := o.db.UpdateGroupDescription(ctx, groupName, description)
			if err != nil {
				return "", fmt.Errorf("updating description for %s: %w", groupName, err)
			}
			changed = changed || updated
		}
		if org.Website != "" {
			created, err := o.db.AttachGroupLink(ctx, groupName, groupName+" website", org.Website)
			if err != nil {
				return "", fmt.Errorf("attaching website link for %s: %w", groupName, err)
			}
			changed = changed || created
		}
	}
	return detailStatus(groupName, changed), nil
}

// profileLinks resolves the group's platform profile URLs. A nil slice
// means the caller should return the accompanying status and error
// as-is: a group without links is a reported no-op, not a failure.
func (o *Orchestrator) profileLinks(ctx context.Context, groupName string) ([]string, string, error) {
	g, err := o.db.GetGroup(ctx, groupName)
	if err != nil {
		return nil, "", fmt.Errorf("loading group %s: %w", groupName, err)
	}
	links, err := o.db.GroupProfileLinks(ctx, *g)
	if err != nil {
		if errors.Is(err, store.ErrNoLink) {
			return nil, fmt.Sprintf("no links found for %s", groupName), nil
		}
		return nil, "", fmt.Errorf("loading profile links for %s: %w", groupName, err)
	}
	return links, "", nil
}

func (o *Orchestrator) saveEvent(ctx context.Context, evt *event.Event, added *int) error {
	created, err := o.db.UpsertEvent(ctx, evt)
	if err != nil {
		return fmt.Errorf("saving event %s: %w", evt.Name, err)
	}
	if created {
		*added++
		o.created(ctx, evt)
	}
	return nil
}

func detailStatus(groupName string, changed bool) string {
	if changed {
		return fmt.Sprintf("updated details for %s", groupName)
	}
	return fmt.Sprintf("no updates needed for %s", groupName)
}

// organizationID extracts the numeric organizer id from a profile URL
// like https://www.eventbrite.com/o/some-group-1234567890.
func organizationID(link string) string {
	link = strings.TrimRight(link, "/")
	idx := strings.LastIndex(link, "-")
	if idx < 0 || idx == len(link)-1 {
		return ""
	}
	return link[idx+1:]
}
