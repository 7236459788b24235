package fetch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// testRenderer builds a Renderer with an injected attempt func and a
// recording sleep, skipping browser startup entirely.
func testRenderer(attempt func(ctx context.Context, url string) (string, error), slept *[]time.Duration) *Renderer {
	return &Renderer{
		timeout: DefaultRenderTimeout,
		retries: DefaultRenderRetries,
		sleep:   func(d time.Duration) { *slept = append(*slept, d) },
		attempt: attempt,
		logger:  zerolog.Nop(),
	}
}

func TestRenderFirstAttemptSucceeds(t *testing.T) {
	var slept []time.Duration
	attempts := 0
	r := testRenderer(func(ctx context.Context, url string) (string, error) {
		attempts++
		return "<html><body>rendered</body></html>", nil
	}, &slept)

	html, err := r.Render(context.Background(), "https://www.meetup.com/python-spokane")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if html == "" {
		t.Error("empty html on success")
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
	if len(slept) != 0 {
		t.Errorf("slept %v, want no sleeps", slept)
	}
}

func TestRenderRetriesWithLinearBackoff(t *testing.T) {
	var slept []time.Duration
	attempts := 0
	r := testRenderer(func(ctx context.Context, url string) (string, error) {
		attempts++
		if attempts < 3 {
			return "", errors.New("navigation timed out")
		}
		return "<html></html>", nil
	}, &slept)

	html, err := r.Render(context.Background(), "https://www.meetup.com/python-spokane")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if html == "" {
		t.Error("empty html after eventual success")
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
	want := []time.Duration{2 * time.Second, 3 * time.Second}
	if len(slept) != len(want) {
		t.Fatalf("slept %v, want %v", slept, want)
	}
	for i := range want {
		if slept[i] != want[i] {
			t.Errorf("sleep %d = %v, want %v", i, slept[i], want[i])
		}
	}
}

func TestRenderExhaustionReturnsEmptyNotError(t *testing.T) {
	var slept []time.Duration
	attempts := 0
	r := testRenderer(func(ctx context.Context, url string) (string, error) {
		attempts++
		return "", errors.New("navigation timed out")
	}, &slept)

	html, err := r.Render(context.Background(), "https://www.meetup.com/python-spokane")
	if err != nil {
		t.Fatalf("Render after exhausted retries: %v", err)
	}
	if html != "" {
		t.Errorf("html = %q, want empty", html)
	}
	if attempts != DefaultRenderRetries {
		t.Errorf("attempts = %d, want %d", attempts, DefaultRenderRetries)
	}
	// No sleep after the final attempt.
	if len(slept) != DefaultRenderRetries-1 {
		t.Errorf("sleeps = %d, want %d", len(slept), DefaultRenderRetries-1)
	}
}

func TestRenderStopsWhenContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var slept []time.Duration
	r := testRenderer(func(ctx context.Context, url string) (string, error) {
		t.Error("attempt ran with cancelled context")
		return "", nil
	}, &slept)

	if _, err := r.Render(ctx, "https://www.meetup.com/python-spokane"); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
