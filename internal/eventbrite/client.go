package eventbrite

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

const (
	defaultAPIBaseURL    = "https://www.eventbriteapi.com/v3"
	defaultPublicBaseURL = "https://www.eventbrite.com/api/v3"

	// DefaultWindowDays bounds how far into the future organization
	// events are listed.
	DefaultWindowDays = 14

	maxRetries     = 5
	initialBackoff = 1 * time.Second
	maxBackoff     = 60 * time.Second
	requestTimeout = 15 * time.Second
	timeLayout     = "2006-01-02T15:04:05Z"
)

// Client calls the Eventbrite API. An empty API token is not an error:
// authenticated listings simply return no data.
type Client struct {
	apiToken      string
	apiBaseURL    string
	publicBaseURL string
	windowDays    int
	http          *resty.Client
	sleep         func(time.Duration)
	now           func() time.Time
	logger        zerolog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURLs overrides the API endpoints, used by tests.
func WithBaseURLs(api, public string) Option {
	return func(c *Client) {
		c.apiBaseURL = api
		c.publicBaseURL = public
	}
}

// WithWindowDays overrides the future-event listing window.
func WithWindowDays(days int) Option {
	return func(c *Client) { c.windowDays = days }
}

// WithClock overrides the time source, used by tests.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// WithSleep overrides the backoff sleeper, used by tests.
func WithSleep(sleep func(time.Duration)) Option {
	return func(c *Client) { c.sleep = sleep }
}

// NewClient creates an Eventbrite API client.
func NewClient(apiToken string, logger zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		apiToken:      apiToken,
		apiBaseURL:    defaultAPIBaseURL,
		publicBaseURL: defaultPublicBaseURL,
		windowDays:    DefaultWindowDays,
		http:          resty.New().SetTimeout(requestTimeout),
		sleep:         time.Sleep,
		now:           time.Now,
		logger:        logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OrganizationDetails returns the organizer block for an organization.
func (c *Client) OrganizationDetails(ctx context.Context, organizationID string) (*Organization, error) {
	url := fmt.Sprintf("%s/organizers/?ids=%s", c.publicBaseURL, organizationID)

	var result organizersResponse
	if err := c.getWithRetry(ctx, url, "", &result); err != nil {
		return nil, fmt.Errorf("fetching organization %s: %w", organizationID, err)
	}
	if len(result.Organizers) == 0 {
		return nil, fmt.Errorf("organization %s not found", organizationID)
	}
	return &result.Organizers[0], nil
}

// OrganizationEvents lists an organization's events starting within the
// configured future window. Without an API token the result is empty,
// not an error.
func (c *Client) OrganizationEvents(ctx context.Context, organizationID string) ([]OrgEvent, error) {
	if c.apiToken == "" {
		c.logger.Debug().Msg("no eventbrite api token configured, skipping organization events")
		return nil, nil
	}

	now := c.now().UTC()
	url := fmt.Sprintf("%s/organizers/%s/events/?start_date.range_start=%s&start_date.range_end=%s",
		c.apiBaseURL, organizationID,
		now.Format(timeLayout),
		now.AddDate(0, 0, c.windowDays).Format(timeLayout))

	var result eventsResponse
	if err := c.getWithRetry(ctx, url, c.apiToken, &result); err != nil {
		return nil, fmt.Errorf("listing events for organization %s: %w", organizationID, err)
	}
	return result.Events, nil
}

// EventDetails fetches full event details including the primary venue
// and tags.
func (c *Client) EventDetails(ctx context.Context, eventID string) (*EventDetail, error) {
	url := fmt.Sprintf("%s/destination/events/?event_ids=%s&expand=primary_venue", c.publicBaseURL, eventID)

	var result eventDetailsResponse
	if err := c.getWithRetry(ctx, url, "", &result); err != nil {
		return nil, fmt.Errorf("fetching details for event %s: %w", eventID, err)
	}
	if len(result.Events) == 0 {
		return nil, fmt.Errorf("event %s not found", eventID)
	}
	return &result.Events[0], nil
}

// getWithRetry performs a GET with the package retry policy: 429s honor
// Retry-After when present and otherwise back off exponentially with
// jitter (base 1s, doubling, capped at 60s); other failures back off
// linearly at 3s intervals. The retry budget is shared across both
// failure kinds; exhaustion returns the last error.
func (c *Client) getWithRetry(ctx context.Context, url, bearer string, out any) error {
	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = initialBackoff
	expo.MaxInterval = maxBackoff
	expo.Multiplier = 2
	expo.MaxElapsedTime = 0
	expo.Reset()

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		req := c.http.R().SetContext(ctx).SetResult(out)
		if bearer != "" {
			req.SetAuthToken(bearer)
		}

		resp, err := req.Get(url)
		switch {
		case err != nil:
			lastErr = err
		case resp.StatusCode() == http.StatusTooManyRequests:
			lastErr = &APIError{URL: url, StatusCode: resp.StatusCode()}
			if attempt < maxRetries {
				wait := retryAfter(resp)
				if wait <= 0 {
					wait = expo.NextBackOff()
				}
				c.logger.Warn().Str("url", url).Dur("wait", wait).Msg("rate limited by eventbrite, backing off")
				c.sleep(wait)
			}
			continue
		case resp.StatusCode() >= 400:
			lastErr = &APIError{URL: url, StatusCode: resp.StatusCode()}
		default:
			return nil
		}

		if attempt < maxRetries {
			wait := time.Duration(3*(attempt+1)) * time.Second
			c.logger.Warn().Str("url", url).Err(lastErr).Dur("wait", wait).Msg("eventbrite request failed, retrying")
			c.sleep(wait)
		}
	}
	return fmt.Errorf("max retries reached: %w", lastErr)
}

// retryAfter parses a Retry-After header expressed in seconds.
func retryAfter(resp *resty.Response) time.Duration {
	header := resp.Header().Get("Retry-After")
	if header == "" {
		return 0
	}
	seconds, err := strconv.ParseFloat(header, 64)
	if err != nil {
		return 0
	}
	return time.Duration(seconds * float64(time.Second))
}

// APIError reports a non-success response from the Eventbrite API.
type APIError struct {
	URL        string
	StatusCode int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("eventbrite API returned status %d for %s", e.StatusCode, e.URL)
}
