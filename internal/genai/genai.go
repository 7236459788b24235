// Package genai generates post copy through the Gemini API. Callers
// must treat any failure as recoverable and fall back to a
// deterministic template; text generation is optional polish, never a
// delivery dependency.
package genai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	// DefaultModel balances quality and cost for short social posts.
	DefaultModel = "gemini-2.5-flash-lite"

	requestTimeout = 15 * time.Second
)

// ErrNoAPIKey indicates the generative service is not configured.
var ErrNoAPIKey = errors.New("generative api key is not set")

// Client calls the Gemini generateContent endpoint.
type Client struct {
	apiKey  string
	baseURL string
	model   string
	http    *resty.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint, used by tests.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithModel overrides the generation model.
func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

// NewClient creates a Gemini client. An empty apiKey is allowed; calls
// will fail with ErrNoAPIKey so callers can fall back.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		model:   DefaultModel,
		http:    resty.New().SetTimeout(requestTimeout),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Generate produces text for a prompt. Configuration and HTTP errors
// are returned as-is for the caller's fallback logic.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", ErrNoAPIKey
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	var result generateResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("x-goog-api-key", c.apiKey).
		SetBody(generateRequest{Contents: []content{{Parts: []part{{Text: prompt}}}}}).
		SetResult(&result).
		Post(url)
	if err != nil {
		return "", fmt.Errorf("calling generative api: %w", err)
	}
	if resp.StatusCode() >= 400 {
		return "", fmt.Errorf("generative api returned status %d", resp.StatusCode())
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("unexpected response shape from generative api")
	}
	return result.Candidates[0].Content.Parts[0].Text, nil
}
