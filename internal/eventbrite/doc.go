// Package eventbrite is a client for the Eventbrite JSON API: organizer
// lookup, an organization's upcoming events within a bounded future
// window, and per-event details.
//
// Unlike the Meetup scrapers, API errors here are an operational signal
// and are not swallowed: 429 responses are retried honoring the
// server's Retry-After hint (falling back to exponential backoff with
// jitter), other HTTP errors are retried with linear backoff, and
// exhaustion propagates the error to the caller.
package eventbrite
