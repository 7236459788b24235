// Package event defines the canonical event record shared by the
// ingestion and notification layers, along with the deduplication key
// used for idempotent upserts and helpers for converting stored UTC
// timestamps to the display timezone.
package event
