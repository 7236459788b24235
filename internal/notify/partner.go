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
	"github.com/techgrid/eventscout/internal/htmltext"
)

// Partner pushes newly created events to an external partner calendar
// over a token-authenticated JSON API. Reminders and weekly summaries
// are not forwarded; partners only want the event record once.
type Partner struct {
	name       string
	apiURL     string
	token      string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewPartner returns a Partner channel named name. apiURL or token may
// be empty, in which case Notify is a reported no-op.
func NewPartner(name, apiURL, token string, logger zerolog.Logger) *Partner {
	return &Partner{
		name:       name,
		apiURL:     apiURL,
		token:      token,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger.With().Str("channel", name).Logger(),
	}
}

func (p *Partner) Name() string { return p.name }

type partnerEvent struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	StartDateTime string `json:"start_date_time"`
	EndDateTime   string `json:"end_date_time,omitempty"`
	Location      string `json:"location,omitempty"`
	URL           string `json:"url,omitempty"`
}

// Notify posts evt to the partner API. Only created events are sent.
func (p *Partner) Notify(ctx context.Context, evt *event.Event, trigger Trigger) (string, error) {
	if p.apiURL == "" || p.token == "" {
		return fmt.Sprintf("%s API credentials not configured. Skipping post.", p.name), nil
	}
	if trigger != TriggerCreated {
		return fmt.Sprintf("%s only receives new events. Skipping %s post.", p.name, trigger), nil
	}

	payload := partnerEvent{
		Name:          evt.Name,
		Description:   htmltext.Clean(evt.Description),
		StartDateTime: evt.StartTime.Format(time.RFC3339),
		Location:      evt.LocationName,
		URL:           evt.URL,
	}
	if evt.EndTime != nil {
		payload.EndDateTime = evt.EndTime.Format(time.RFC3339)
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encoding partner payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building partner request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Token "+p.token)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("posting to %s: %w", p.name, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%s returned status %d: %s", p.name, resp.StatusCode, detail)
	}
	p.logger.Info().Str("event", evt.Name).Msg("posted to partner")
	return fmt.Sprintf("Event %s posted to %s successfully.", evt.Name, p.name), nil
}
