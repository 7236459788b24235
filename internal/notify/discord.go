package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/techgrid/eventscout/internal/event"
)

const discordTimeout = 15 * time.Second

// Discord posts event notifications to Discord webhooks. Besides the
// main webhook it can fan out to per-group webhooks so communities get
// their own copy of announcements about their events.
type Discord struct {
	webhookURL    string
	groupWebhooks map[string]string
	composer      *Composer
	httpClient    *http.Client
	logger        zerolog.Logger
}

// NewDiscord returns a Discord channel. webhookURL may be empty, in
// which case every Notify call is a reported no-op.
func NewDiscord(webhookURL string, composer *Composer, logger zerolog.Logger) *Discord {
	return &Discord{
		webhookURL:    webhookURL,
		groupWebhooks: make(map[string]string),
		composer:      composer,
		httpClient:    &http.Client{Timeout: discordTimeout},
		logger:        logger.With().Str("channel", "discord").Logger(),
	}
}

// AddGroupWebhook registers an additional webhook that receives
// notifications for a single group's events.
func (d *Discord) AddGroupWebhook(groupName, webhookURL string) {
	d.groupWebhooks[groupName] = webhookURL
}

func (d *Discord) Name() string { return "discord" }

// Notify posts a created or reminder message for evt to the main
// webhook and, when one is registered, the group's own webhook.
func (d *Discord) Notify(ctx context.Context, evt *event.Event, trigger Trigger) (string, error) {
	if d.webhookURL == "" {
		return "Discord webhook URL not configured. Skipping post.", nil
	}

	var content string
	switch trigger {
	case TriggerReminder:
		content = d.composer.ReminderContent(ctx, evt)
	default:
		content = d.composer.CreatedContent(ctx, evt, "Discord")
	}

	payload := webhookPayload{
		Content: content,
		Embeds:  []embed{eventEmbed(evt)},
	}
	if err := d.send(ctx, d.webhookURL, payload); err != nil {
		return "", fmt.Errorf("posting to discord: %w", err)
	}
	if groupURL, ok := d.groupWebhooks[evt.GroupName]; ok && groupURL != "" {
		if err := d.send(ctx, groupURL, payload); err != nil {
			return "", fmt.Errorf("posting to %s discord: %w", evt.GroupName, err)
		}
	}
	d.logger.Info().Str("event", evt.Name).Str("trigger", string(trigger)).Msg("posted to discord")
	return fmt.Sprintf("%s message for %s posted to Discord", trigger, evt.Name), nil
}

// WeeklySummary posts one message listing every event in the coming
// week, with a generated header and one embed per event.
func (d *Discord) WeeklySummary(ctx context.Context, events []*event.Event) (string, error) {
	if d.webhookURL == "" {
		return "Discord webhook URL not configured. Skipping post.", nil
	}
	payload := webhookPayload{Content: d.composer.WeeklyHeader(ctx, len(events))}
	for _, evt := range events {
		payload.Embeds = append(payload.Embeds, eventEmbed(evt))
	}
	if err := d.send(ctx, d.webhookURL, payload); err != nil {
		return "", fmt.Errorf("posting weekly summary to discord: %w", err)
	}
	return "Weekly event summary posted to Discord successfully.", nil
}

func (d *Discord) send(ctx context.Context, url string, payload webhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding webhook payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending webhook request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, detail)
	}
	return nil
}

type webhookPayload struct {
	Content string  `json:"content"`
	Embeds  []embed `json:"embeds"`
}

type embed struct {
	Title  string       `json:"title"`
	URL    string       `json:"url,omitempty"`
	Fields []embedField `json:"fields,omitempty"`
	Footer *embedFooter `json:"footer,omitempty"`
}

type embedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type embedFooter struct {
	Text string `json:"text"`
}

func eventEmbed(evt *event.Event) embed {
	e := embed{
		Title:  evt.Name,
		URL:    evt.URL,
		Footer: &embedFooter{Text: "Hosted by " + evt.GroupName},
	}
	if evt.LocationName != "" {
		e.Fields = append(e.Fields, embedField{Name: "📍 Location", Value: evt.LocationName, Inline: true})
	}
	e.Fields = append(e.Fields,
		embedField{Name: "📅 Date", Value: event.DisplayDate(evt.StartTime), Inline: true},
		embedField{Name: "⏰ Time", Value: timeRange(evt), Inline: true},
	)
	return e
}

func timeRange(evt *event.Event) string {
	if evt.EndTime != nil {
		return event.DisplayClock(evt.StartTime) + " - " + event.DisplayClock(*evt.EndTime)
	}
	return event.DisplayClock(evt.StartTime)
}
