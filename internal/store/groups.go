package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Group is a community group that organizes events.
type Group struct {
	ID          int64
	Name        string
	Description string
	Enabled     bool
	Platform    string
}

// ProfileLinkName is the naming convention under which a group's
// external profile page is stored; the parsers rely on it.
func (g Group) ProfileLinkName() string {
	return fmt.Sprintf("%s %s page", g.Name, g.Platform)
}

// CreatePlatform inserts a social platform if it does not already exist.
func (d *DB) CreatePlatform(ctx context.Context, name, baseURL string) error {
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO social_platforms (name, base_url) VALUES (?, ?)
		 ON CONFLICT(name) DO NOTHING`, name, baseURL)
	if err != nil {
		return fmt.Errorf("creating platform %s: %w", name, err)
	}
	return nil
}

// CreateGroup inserts a group hosted on platform. The platform must
// already exist.
func (d *DB) CreateGroup(ctx context.Context, name, platform string) error {
	res, err := d.db.ExecContext(ctx,
		`INSERT INTO tech_groups (name, platform_id)
		 SELECT ?, id FROM social_platforms WHERE name = ?
		 ON CONFLICT(name) DO NOTHING`, name, platform)
	if err != nil {
		return fmt.Errorf("creating group %s: %w", name, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// Either the group exists (fine) or the platform is missing.
		var exists bool
		if err := d.db.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM tech_groups WHERE name = ?)`, name).Scan(&exists); err == nil && !exists {
			return fmt.Errorf("creating group %s: platform %s not found", name, platform)
		}
	}
	return nil
}

// SetGroupEnabled toggles a group's enabled flag.
func (d *DB) SetGroupEnabled(ctx context.Context, name string, enabled bool) error {
	_, err := d.db.ExecContext(ctx,
		`UPDATE tech_groups SET enabled = ? WHERE name = ?`, boolInt(enabled), name)
	if err != nil {
		return fmt.Errorf("updating group %s: %w", name, err)
	}
	return nil
}

// GetGroup looks up a group by name.
func (d *DB) GetGroup(ctx context.Context, name string) (*Group, error) {
	row := d.db.QueryRowContext(ctx,
		`SELECT g.id, g.name, g.description, g.enabled, p.name
		 FROM tech_groups g JOIN social_platforms p ON p.id = g.platform_id
		 WHERE g.name = ?`, name)
	return scanGroup(row)
}

// GroupsByPlatform returns the enabled groups hosted on platform.
func (d *DB) GroupsByPlatform(ctx context.Context, platform string) ([]Group, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT g.id, g.name, g.description, g.enabled, p.name
		 FROM tech_groups g JOIN social_platforms p ON p.id = g.platform_id
		 WHERE g.enabled = 1 AND p.name = ?
		 ORDER BY g.name`, platform)
	if err != nil {
		return nil, fmt.Errorf("listing groups for %s: %w", platform, err)
	}
	defer rows.Close()

	var groups []Group
	for rows.Next() {
		g, err := scanGroupRow(rows)
		if err != nil {
			return nil, err
		}
		groups = append(groups, *g)
	}
	return groups, rows.Err()
}

// UpdateGroupDescription stores a new description for the group and
// reports whether anything changed.
func (d *DB) UpdateGroupDescription(ctx context.Context, name, description string) (bool, error) {
	res, err := d.db.ExecContext(ctx,
		`UPDATE tech_groups SET description = ? WHERE name = ? AND description != ?`,
		description, name, description)
	if err != nil {
		return false, fmt.Errorf("updating description for %s: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("updating description for %s: %w", name, err)
	}
	return n > 0, nil
}

// GroupProfileLinks returns the URLs stored under the group's profile
// link naming convention. ErrNoLink is returned when none exist —  a
// recoverable "no data" condition, not a fatal one.
func (d *DB) GroupProfileLinks(ctx context.Context, g Group) ([]string, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT DISTINCT l.url FROM links l
		 JOIN group_links gl ON gl.link_id = l.id
		 WHERE gl.group_id = ? AND l.name = ?
		 ORDER BY l.url`, g.ID, g.ProfileLinkName())
	if err != nil {
		return nil, fmt.Errorf("listing profile links for %s: %w", g.Name, err)
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(urls) == 0 {
		return nil, ErrNoLink
	}
	return urls, nil
}

// AttachGroupLink attaches a named link to the group unless a link with
// the same URL is already attached. Additive only; returns whether a
// new link was created.
func (d *DB) AttachGroupLink(ctx context.Context, groupName, linkName, url string) (bool, error) {
	g, err := d.GetGroup(ctx, groupName)
	if err != nil {
		return false, err
	}

	var exists bool
	err = d.db.QueryRowContext(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM links l JOIN group_links gl ON gl.link_id = l.id
			WHERE gl.group_id = ? AND l.url = ?)`, g.ID, url).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking links for %s: %w", groupName, err)
	}
	if exists {
		return false, nil
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("attaching link to %s: %w", groupName, err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `INSERT INTO links (name, url) VALUES (?, ?)`, linkName, url)
	if err != nil {
		return false, fmt.Errorf("attaching link to %s: %w", groupName, err)
	}
	linkID, err := res.LastInsertId()
	if err != nil {
		return false, fmt.Errorf("attaching link to %s: %w", groupName, err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO group_links (group_id, link_id) VALUES (?, ?)`, g.ID, linkID); err != nil {
		return false, fmt.Errorf("attaching link to %s: %w", groupName, err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("attaching link to %s: %w", groupName, err)
	}
	return true, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGroup(row *sql.Row) (*Group, error) {
	g, err := scanGroupRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return g, err
}

func scanGroupRow(row rowScanner) (*Group, error) {
	var g Group
	var enabled int
	if err := row.Scan(&g.ID, &g.Name, &g.Description, &enabled, &g.Platform); err != nil {
		return nil, err
	}
	g.Enabled = enabled != 0
	return &g, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
