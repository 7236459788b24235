package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/techgrid/eventscout/internal/event"
	"github.com/techgrid/eventscout/internal/genai"
	"github.com/techgrid/eventscout/internal/htmltext"
)

// TextGenerator produces message copy from a prompt. *genai.Client
// satisfies it.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Composer builds the text body of a notification. With a generator it
// asks for tailored copy; without one, or when generation fails, it
// falls back to deterministic templates so delivery never depends on
// the generative service being up.
type Composer struct {
	gen    TextGenerator
	logger zerolog.Logger
}

// NewComposer returns a Composer. gen may be nil.
func NewComposer(gen TextGenerator, logger zerolog.Logger) *Composer {
	return &Composer{gen: gen, logger: logger.With().Str("component", "composer").Logger()}
}

// CreatedContent returns the announcement body for a new event.
func (c *Composer) CreatedContent(ctx context.Context, evt *event.Event, platformName string) string {
	fallback := fmt.Sprintf("📢 A new event from %s has just been created!\n\n👉 RSVP here: %s",
		evt.GroupName, evt.URL)
	if c.gen == nil {
		return fallback
	}
	prompt := genai.NewEventPrompt(htmltext.Clean(evt.Description), platformName, evt.GroupName)
	return c.generate(ctx, prompt, fallback)
}

// ReminderContent returns the body for a day-before reminder.
func (c *Composer) ReminderContent(ctx context.Context, evt *event.Event) string {
	fallback := fmt.Sprintf("🚀 Don't miss out! RSVP now for the next %s event! 🎉\n\n👉 %s",
		evt.GroupName, evt.URL)
	if c.gen == nil {
		return fallback
	}
	prompt := genai.ReminderPrompt(htmltext.Clean(evt.Description))
	return c.generate(ctx, prompt, fallback)
}

// WeeklyHeader returns the header line for a weekly summary covering
// eventCount events.
func (c *Composer) WeeklyHeader(ctx context.Context, eventCount int) string {
	fallback := fmt.Sprintf("🗓️ %d community events are happening this week. Come check them out!", eventCount)
	if c.gen == nil {
		return fallback
	}
	return c.generate(ctx, genai.WeeklyHeaderPrompt(eventCount), fallback)
}

func (c *Composer) generate(ctx context.Context, prompt, fallback string) string {
	text, err := c.gen.Generate(ctx, prompt)
	if err != nil {
		c.logger.Warn().Err(err).Msg("text generation failed, using fallback copy")
		return fallback
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return fallback
	}
	return text
}
