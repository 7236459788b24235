package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/techgrid/eventscout/internal/event"
	"github.com/techgrid/eventscout/internal/htmltext"
)

const (
	linkedinBaseURL = "https://api.linkedin.com/rest/posts"
	linkedinVersion = "202506"
	// Versioned REST endpoints require the Restli protocol header or
	// the API rejects the request outright.
	restliProtocolVersion = "2.0.0"

	linkedinDescriptionLimit = 500
)

// LinkedIn publishes event posts to an organization page through the
// versioned posts API.
type LinkedIn struct {
	accessToken string
	orgURN      string
	baseURL     string
	http        *resty.Client
	logger      zerolog.Logger
}

// NewLinkedIn returns a LinkedIn channel posting as orgURN. Either
// credential may be empty, in which case Notify is a reported no-op.
func NewLinkedIn(accessToken, orgURN string, logger zerolog.Logger) *LinkedIn {
	return &LinkedIn{
		accessToken: accessToken,
		orgURN:      orgURN,
		baseURL:     linkedinBaseURL,
		http:        resty.New().SetTimeout(15 * time.Second),
		logger:      logger.With().Str("channel", "linkedin").Logger(),
	}
}

func (l *LinkedIn) Name() string { return "linkedin" }

type linkedinPost struct {
	Author       string               `json:"author"`
	Commentary   string               `json:"commentary"`
	Visibility   string               `json:"visibility"`
	Distribution linkedinDistribution `json:"distribution"`
	Content      *linkedinContent     `json:"content,omitempty"`
	Lifecycle    string               `json:"lifecycleState"`
	NoReshare    bool                 `json:"isReshareDisabledByAuthor"`
}

type linkedinDistribution struct {
	FeedDistribution string `json:"feedDistribution"`
}

type linkedinContent struct {
	Article linkedinArticle `json:"article"`
}

type linkedinArticle struct {
	Source      string `json:"source"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Notify publishes a created or reminder post for evt.
func (l *LinkedIn) Notify(ctx context.Context, evt *event.Event, trigger Trigger) (string, error) {
	if l.accessToken == "" || l.orgURN == "" {
		return "LinkedIn API credentials not configured. Skipping post.", nil
	}

	post := linkedinPost{
		Author:       l.orgURN,
		Commentary:   l.commentary(evt, trigger),
		Visibility:   "PUBLIC",
		Distribution: linkedinDistribution{FeedDistribution: "MAIN_FEED"},
		Lifecycle:    "PUBLISHED",
	}
	if evt.URL != "" {
		post.Content = &linkedinContent{Article: linkedinArticle{
			Source:      evt.URL,
			Title:       evt.Name,
			Description: htmltext.Truncate(htmltext.Clean(evt.Description), linkedinDescriptionLimit),
		}}
	}

	resp, err := l.http.R().
		SetContext(ctx).
		SetAuthToken(l.accessToken).
		SetHeader("LinkedIn-Version", linkedinVersion).
		SetHeader("X-Restli-Protocol-Version", restliProtocolVersion).
		SetHeader("Content-Type", "application/json").
		SetBody(post).
		Post(l.baseURL)
	if err != nil {
		return "", fmt.Errorf("posting to linkedin: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("linkedin post returned status %d: %s", resp.StatusCode(), resp.String())
	}
	l.logger.Info().Str("event", evt.Name).Str("trigger", string(trigger)).Msg("posted to linkedin")
	return fmt.Sprintf("%s post for %s published to LinkedIn", trigger, evt.Name), nil
}

func (l *LinkedIn) commentary(evt *event.Event, trigger Trigger) string {
	when := event.DisplayLong(evt.StartTime)
	var text string
	switch trigger {
	case TriggerReminder:
		text = fmt.Sprintf("⏰ Happening tomorrow: %s by %s on %s.", evt.Name, evt.GroupName, when)
	default:
		text = fmt.Sprintf("📢 %s just announced a new event: %s on %s.", evt.GroupName, evt.Name, when)
	}
	if evt.LocationName != "" {
		text += fmt.Sprintf("\n📍 %s", evt.LocationName)
	}
	return text
}
