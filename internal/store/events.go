package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/techgrid/eventscout/internal/event"
)

// UpsertEvent creates or updates an event using the dedup key: the
// external platform id when present, else (name, start time). Returns
// whether a new row was created. Only fields present in the incoming
// record are overwritten; empty optional fields never erase stored
// values.
func (d *DB) UpsertEvent(ctx context.Context, evt *event.Event) (bool, error) {
	if !evt.HasName() {
		return false, fmt.Errorf("refusing to upsert a nameless event (url=%s)", evt.URL)
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("upserting event %q: %w", evt.Name, err)
	}
	defer tx.Rollback()

	var groupID sql.NullInt64
	if evt.GroupName != "" {
		err := tx.QueryRowContext(ctx,
			`SELECT id FROM tech_groups WHERE name = ?`, evt.GroupName).Scan(&groupID.Int64)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return false, fmt.Errorf("resolving group %q: %w", evt.GroupName, err)
		}
		groupID.Valid = err == nil
	}

	var id int64
	if evt.SocialPlatformID != "" {
		err = tx.QueryRowContext(ctx,
			`SELECT id FROM events WHERE social_platform_id = ?`, evt.SocialPlatformID).Scan(&id)
	} else {
		err = tx.QueryRowContext(ctx,
			`SELECT id FROM events WHERE social_platform_id = '' AND name = ? AND start_datetime = ?`,
			evt.Name, formatTime(evt.StartTime)).Scan(&id)
	}

	created := false
	switch {
	case errors.Is(err, sql.ErrNoRows):
		res, err := tx.ExecContext(ctx,
			`INSERT INTO events (name, description, start_datetime, end_datetime,
				location_name, location_address, map_link, url, social_platform_id, group_id)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			evt.Name, evt.Description, formatTime(evt.StartTime), formatTimePtr(evt.EndTime),
			evt.LocationName, evt.LocationAddress, evt.MapLink, evt.URL,
			evt.SocialPlatformID, groupID)
		if err != nil {
			return false, fmt.Errorf("inserting event %q: %w", evt.Name, err)
		}
		if id, err = res.LastInsertId(); err != nil {
			return false, fmt.Errorf("inserting event %q: %w", evt.Name, err)
		}
		created = true
	case err != nil:
		return false, fmt.Errorf("looking up event %q: %w", evt.Name, err)
	default:
		if err := updateEvent(ctx, tx, id, evt, groupID); err != nil {
			return false, err
		}
	}

	if err := attachTags(ctx, tx, id, evt.Tags); err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("upserting event %q: %w", evt.Name, err)
	}
	return created, nil
}

// updateEvent overwrites only the columns the incoming record carries.
func updateEvent(ctx context.Context, tx *sql.Tx, id int64, evt *event.Event, groupID sql.NullInt64) error {
	set := "name = ?, start_datetime = ?"
	args := []any{evt.Name, formatTime(evt.StartTime)}

	optional := []struct {
		column  string
		value   any
		present bool
	}{
		{"description", evt.Description, evt.Description != ""},
		{"end_datetime", formatTimePtr(evt.EndTime), evt.EndTime != nil},
		{"location_name", evt.LocationName, evt.LocationName != ""},
		{"location_address", evt.LocationAddress, evt.LocationAddress != ""},
		{"map_link", evt.MapLink, evt.MapLink != ""},
		{"url", evt.URL, evt.URL != ""},
		{"group_id", groupID, groupID.Valid},
	}
	for _, opt := range optional {
		if opt.present {
			set += ", " + opt.column + " = ?"
			args = append(args, opt.value)
		}
	}

	args = append(args, id)
	if _, err := tx.ExecContext(ctx, "UPDATE events SET "+set+" WHERE id = ?", args...); err != nil {
		return fmt.Errorf("updating event %q: %w", evt.Name, err)
	}
	return nil
}

// attachTags get-or-creates each tag by its unique value and attaches
// it to the event. Attachment is additive.
func attachTags(ctx context.Context, tx *sql.Tx, eventID int64, tags []string) error {
	for _, tag := range tags {
		if tag == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO tags (value) VALUES (?) ON CONFLICT(value) DO NOTHING`, tag); err != nil {
			return fmt.Errorf("creating tag %q: %w", tag, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO event_tags (event_id, tag_id)
			 SELECT ?, id FROM tags WHERE value = ?
			 ON CONFLICT DO NOTHING`, eventID, tag); err != nil {
			return fmt.Errorf("attaching tag %q: %w", tag, err)
		}
	}
	return nil
}

// EventsBetween returns events from enabled groups with a start time in
// [from, to), ordered by start time.
func (d *DB) EventsBetween(ctx context.Context, from, to time.Time) ([]*event.Event, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT e.name, e.description, e.start_datetime, e.end_datetime,
			e.location_name, e.location_address, e.map_link, e.url,
			e.social_platform_id, COALESCE(g.name, '')
		 FROM events e
		 LEFT JOIN tech_groups g ON g.id = e.group_id
		 WHERE e.start_datetime >= ? AND e.start_datetime < ?
		   AND (e.group_id IS NULL OR g.enabled = 1)
		 ORDER BY e.start_datetime`,
		formatTime(from), formatTime(to))
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	defer rows.Close()

	var events []*event.Event
	for rows.Next() {
		evt, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, evt)
	}
	return events, rows.Err()
}

// GetEventByKey fetches one event by its dedup key components: external
// id when non-empty, else name and start time.
func (d *DB) GetEventByKey(ctx context.Context, externalID, name string, start time.Time) (*event.Event, error) {
	var row *sql.Row
	if externalID != "" {
		row = d.db.QueryRowContext(ctx,
			`SELECT e.name, e.description, e.start_datetime, e.end_datetime,
				e.location_name, e.location_address, e.map_link, e.url,
				e.social_platform_id, COALESCE(g.name, '')
			 FROM events e LEFT JOIN tech_groups g ON g.id = e.group_id
			 WHERE e.social_platform_id = ?`, externalID)
	} else {
		row = d.db.QueryRowContext(ctx,
			`SELECT e.name, e.description, e.start_datetime, e.end_datetime,
				e.location_name, e.location_address, e.map_link, e.url,
				e.social_platform_id, COALESCE(g.name, '')
			 FROM events e LEFT JOIN tech_groups g ON g.id = e.group_id
			 WHERE e.social_platform_id = '' AND e.name = ? AND e.start_datetime = ?`,
			name, formatTime(start))
	}

	evt, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return evt, err
}

// CountEvents returns the total number of stored events.
func (d *DB) CountEvents(ctx context.Context) (int, error) {
	var n int
	if err := d.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting events: %w", err)
	}
	return n, nil
}

// EventTags returns the tag values attached to the event with the given
// external id, sorted.
func (d *DB) EventTags(ctx context.Context, externalID string) ([]string, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT t.value FROM tags t
		 JOIN event_tags et ON et.tag_id = t.id
		 JOIN events e ON e.id = et.event_id
		 WHERE e.social_platform_id = ?
		 ORDER BY t.value`, externalID)
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

func scanEvent(row rowScanner) (*event.Event, error) {
	var evt event.Event
	var start string
	var end sql.NullString
	if err := row.Scan(&evt.Name, &evt.Description, &start, &end,
		&evt.LocationName, &evt.LocationAddress, &evt.MapLink, &evt.URL,
		&evt.SocialPlatformID, &evt.GroupName); err != nil {
		return nil, err
	}

	t, err := time.Parse(time.RFC3339, start)
	if err != nil {
		return nil, fmt.Errorf("parsing stored start time %q: %w", start, err)
	}
	evt.StartTime = t.UTC()

	if end.Valid && end.String != "" {
		t, err := time.Parse(time.RFC3339, end.String)
		if err != nil {
			return nil, fmt.Errorf("parsing stored end time %q: %w", end.String, err)
		}
		u := t.UTC()
		evt.EndTime = &u
	}
	return &evt, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}
