// Package ingest orchestrates pulling events from external platforms
// (Meetup pages, the Eventbrite API) into the store. Ingestion is
// idempotent: running it twice adds nothing new, and only genuinely
// new events fire the created hooks.
package ingest
