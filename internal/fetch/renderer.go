package fetch

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog"
)

const (
	// DefaultRenderTimeout bounds one navigation attempt.
	DefaultRenderTimeout = 30 * time.Second
	// DefaultRenderRetries is how many navigation attempts are made
	// before giving up and returning an empty result.
	DefaultRenderRetries = 3
)

// Renderer fetches fully client-rendered HTML through a headless
// browser. It owns a long-lived browser context; construct once and
// call Close on shutdown.
type Renderer struct {
	allocCtx    context.Context
	cancelAlloc context.CancelFunc
	browserCtx  context.Context
	cancelBr    context.CancelFunc

	timeout time.Duration
	retries int
	sleep   func(time.Duration)
	// attempt performs one navigation; swappable in tests.
	attempt func(ctx context.Context, url string) (string, error)
	logger  zerolog.Logger
}

// NewRenderer starts a reusable headless browser.
func NewRenderer(logger zerolog.Logger) *Renderer {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.UserAgent(userAgent),
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, cancelBr := chromedp.NewContext(allocCtx)

	r := &Renderer{
		allocCtx:    allocCtx,
		cancelAlloc: cancelAlloc,
		browserCtx:  browserCtx,
		cancelBr:    cancelBr,
		timeout:     DefaultRenderTimeout,
		retries:     DefaultRenderRetries,
		sleep:       time.Sleep,
		logger:      logger,
	}
	r.attempt = r.renderOnce
	return r
}

// Close tears down the browser.
func (r *Renderer) Close() {
	if r.cancelBr != nil {
		r.cancelBr()
	}
	if r.cancelAlloc != nil {
		r.cancelAlloc()
	}
}

// Render navigates to url and returns the fully rendered DOM. Each
// attempt has a fixed timeout; failed attempts back off linearly
// (2+attempt seconds). After exhausting retries it returns an empty
// string and no error — empty content means "no data available".
func (r *Renderer) Render(ctx context.Context, url string) (string, error) {
	for attempt := 0; attempt < r.retries; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		html, err := r.attempt(ctx, url)
		if err == nil {
			return html, nil
		}

		r.logger.Warn().
			Str("url", url).
			Int("attempt", attempt+1).
			Int("retries", r.retries).
			Err(err).
			Msg("render attempt failed")

		if attempt < r.retries-1 {
			r.sleep(time.Duration(2+attempt) * time.Second)
		}
	}

	r.logger.Error().Str("url", url).Msg("max render retries reached, returning empty content")
	return "", nil
}

func (r *Renderer) renderOnce(ctx context.Context, url string) (string, error) {
	// Navigation runs in the shared browser tab but honors both the
	// caller's context and the per-attempt timeout.
	tabCtx, cancelTab := chromedp.NewContext(r.browserCtx)
	defer cancelTab()

	attemptCtx, cancel := context.WithTimeout(tabCtx, r.timeout)
	defer cancel()

	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-done:
		}
	}()
	defer close(done)

	var html string
	err := chromedp.Run(attemptCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", err
	}
	return html, nil
}
