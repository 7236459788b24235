// Package store persists groups, links, and events in SQLite and
// implements the idempotent upsert the ingestion pipeline relies on.
//
// An event is identified for upsert purposes by its external platform
// id when present, otherwise by its (name, start time) natural key.
// Updates only overwrite fields the incoming payload carries, so
// repeated scrapes never erase manually curated data.
package store
