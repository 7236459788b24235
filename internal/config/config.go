// Package config loads runtime settings from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config carries every setting the binary reads. Channel credentials
// are optional: a channel without credentials reports itself as
// unconfigured instead of failing.
type Config struct {
	DatabasePath string

	EventbriteToken string
	GeminiAPIKey    string

	DiscordWebhookURL    string
	DiscordGroupWebhooks map[string]string

	LinkedInAccessToken string
	LinkedInOrgURN      string

	PartnerName   string
	PartnerAPIURL string
	PartnerToken  string

	TwitterAPIKey       string
	TwitterAPISecret    string
	TwitterAccessToken  string
	TwitterAccessSecret string
}

// Load reads configuration from the environment. A .env file in the
// working directory is loaded first when present; real environment
// variables win over file values.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading .env file: %w", err)
	}

	groupWebhooks, err := parseGroupWebhooks(os.Getenv("DISCORD_GROUP_WEBHOOKS"))
	if err != nil {
		return nil, err
	}

	return &Config{
		DatabasePath: getenv("DATABASE_PATH", "eventscout.db"),

		EventbriteToken: os.Getenv("EVENTBRITE_API_TOKEN"),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),

		DiscordWebhookURL:    os.Getenv("DISCORD_WEBHOOK_URL"),
		DiscordGroupWebhooks: groupWebhooks,

		LinkedInAccessToken: os.Getenv("LINKEDIN_ACCESS_TOKEN"),
		LinkedInOrgURN:      os.Getenv("LINKEDIN_ORGANIZATION_URN"),

		PartnerName:   getenv("PARTNER_NAME", "partner"),
		PartnerAPIURL: os.Getenv("PARTNER_API_URL"),
		PartnerToken:  os.Getenv("PARTNER_API_TOKEN"),

		TwitterAPIKey:       os.Getenv("TWITTER_API_KEY"),
		TwitterAPISecret:    os.Getenv("TWITTER_API_SECRET"),
		TwitterAccessToken:  os.Getenv("TWITTER_ACCESS_TOKEN"),
		TwitterAccessSecret: os.Getenv("TWITTER_ACCESS_SECRET"),
	}, nil
}

// parseGroupWebhooks parses "Group Name=url;Other Group=url" into a
// map. Semicolons separate entries so group names can contain commas.
func parseGroupWebhooks(raw string) (map[string]string, error) {
	webhooks := make(map[string]string)
	if strings.TrimSpace(raw) == "" {
		return webhooks, nil
	}
	for _, entry := range strings.Split(raw, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, url, ok := strings.Cut(entry, "=")
		name, url = strings.TrimSpace(name), strings.TrimSpace(url)
		if !ok || name == "" || url == "" {
			return nil, fmt.Errorf("malformed DISCORD_GROUP_WEBHOOKS entry %q", entry)
		}
		webhooks[name] = url
	}
	return webhooks, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
