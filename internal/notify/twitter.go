package notify

import (
	"context"
	"fmt"

	"github.com/dghubble/go-twitter/twitter" //nolint:staticcheck // Using stable v1.1 API
	"github.com/dghubble/oauth1"
	"github.com/rs/zerolog"

	"github.com/techgrid/eventscout/internal/event"
)

const tweetLimit = 280

// Twitter posts event announcements to an X/Twitter account.
type Twitter struct {
	client *twitter.Client
	logger zerolog.Logger
}

// NewTwitter returns a Twitter channel. If any credential is empty the
// channel is unconfigured and Notify is a reported no-op.
func NewTwitter(apiKey, apiSecret, accessToken, accessSecret string, logger zerolog.Logger) *Twitter {
	t := &Twitter{logger: logger.With().Str("channel", "twitter").Logger()}
	if apiKey == "" || apiSecret == "" || accessToken == "" || accessSecret == "" {
		return t
	}
	config := oauth1.NewConfig(apiKey, apiSecret)
	token := oauth1.NewToken(accessToken, accessSecret)
	t.client = twitter.NewClient(config.Client(oauth1.NoContext, token))
	return t
}

func (t *Twitter) Name() string { return "twitter" }

// Notify posts a tweet announcing evt.
func (t *Twitter) Notify(ctx context.Context, evt *event.Event, trigger Trigger) (string, error) {
	if t.client == nil {
		return "Twitter API credentials not configured. Skipping post.", nil
	}

	text := formatTweet(evt, trigger)
	_, _, err := t.client.Statuses.Update(text, nil)
	if err != nil {
		return "", fmt.Errorf("posting tweet for event %s: %w", evt.Name, err)
	}
	t.logger.Info().Str("event", evt.Name).Str("trigger", string(trigger)).Msg("posted tweet")
	return fmt.Sprintf("%s tweet for %s posted", trigger, evt.Name), nil
}

func formatTweet(evt *event.Event, trigger Trigger) string {
	var text string
	switch trigger {
	case TriggerReminder:
		text = fmt.Sprintf("⏰ Tomorrow: %s\n\n", evt.Name)
	default:
		text = fmt.Sprintf("📢 New event: %s\n\n", evt.Name)
	}
	text += fmt.Sprintf("📅 %s\n", event.DisplayLong(evt.StartTime))
	if evt.LocationName != "" {
		text += fmt.Sprintf("📍 %s\n", evt.LocationName)
	}
	if evt.URL != "" {
		text += fmt.Sprintf("\n🔗 %s", evt.URL)
	}

	if len(text) > tweetLimit {
		text = text[:tweetLimit-3] + "..."
	}
	return text
}
