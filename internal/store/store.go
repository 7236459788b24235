package store

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrNoLink is returned when a group has no external profile link.
var ErrNoLink = errors.New("no profile link for group")

const schema = `
CREATE TABLE IF NOT EXISTS social_platforms (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	name     TEXT NOT NULL UNIQUE,
	enabled  INTEGER NOT NULL DEFAULT 1,
	base_url TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS tech_groups (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	name        TEXT NOT NULL UNIQUE,
	description TEXT NOT NULL DEFAULT '',
	enabled     INTEGER NOT NULL DEFAULT 1,
	platform_id INTEGER NOT NULL REFERENCES social_platforms(id)
);

CREATE TABLE IF NOT EXISTS links (
	id   INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL DEFAULT '',
	url  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS group_links (
	group_id INTEGER NOT NULL REFERENCES tech_groups(id),
	link_id  INTEGER NOT NULL REFERENCES links(id),
	PRIMARY KEY (group_id, link_id)
);

CREATE TABLE IF NOT EXISTS tags (
	id    INTEGER PRIMARY KEY AUTOINCREMENT,
	value TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS events (
	id                 INTEGER PRIMARY KEY AUTOINCREMENT,
	name               TEXT NOT NULL,
	description        TEXT NOT NULL DEFAULT '',
	start_datetime     TEXT NOT NULL,
	end_datetime       TEXT,
	location_name      TEXT NOT NULL DEFAULT '',
	location_address   TEXT NOT NULL DEFAULT '',
	map_link           TEXT NOT NULL DEFAULT '',
	url                TEXT NOT NULL DEFAULT '',
	social_platform_id TEXT NOT NULL DEFAULT '',
	group_id           INTEGER REFERENCES tech_groups(id)
);

CREATE INDEX IF NOT EXISTS idx_events_external ON events(social_platform_id) WHERE social_platform_id != '';
CREATE INDEX IF NOT EXISTS idx_events_start ON events(start_datetime);

CREATE TABLE IF NOT EXISTS event_tags (
	event_id INTEGER NOT NULL REFERENCES events(id),
	tag_id   INTEGER NOT NULL REFERENCES tags(id),
	PRIMARY KEY (event_id, tag_id)
);
`

// DB wraps the SQLite database.
type DB struct {
	db *sql.DB
}

// Open opens (creating if necessary) the database at path and applies
// the schema. Use ":memory:" for an ephemeral database.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// A single connection keeps in-memory databases coherent and avoids
	// SQLITE_BUSY on concurrent writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}
	return &DB{db: db}, nil
}

// Close releases the underlying database handle.
func (d *DB) Close() error {
	return d.db.Close()
}
