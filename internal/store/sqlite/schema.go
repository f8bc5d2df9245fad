package sqlite

import (
	"context"
	"fmt"
	"strings"
)

const entityTableColumns = `
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		name       TEXT NOT NULL DEFAULT '',
		type_id    INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL,
		deleted_at INTEGER`

func (c *Client) EnsureSchema(ctx context.Context) error {
	ddl := `
	CREATE TABLE IF NOT EXISTS rooms (` + entityTableColumns + `
	);

	CREATE TABLE IF NOT EXISTS furniture (` + entityTableColumns + `,
		room_id    INTEGER NOT NULL REFERENCES rooms(id)
	);

	CREATE TABLE IF NOT EXISTS places (` + entityTableColumns + `
	);

	CREATE TABLE IF NOT EXISTS containers (` + entityTableColumns + `
	);

	CREATE TABLE IF NOT EXISTS items (` + entityTableColumns + `
	);

	-- Append-only. Exactly one mover column is set per row.
	CREATE TABLE IF NOT EXISTS transitions (
		id               INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at       INTEGER NOT NULL,
		item_id          INTEGER REFERENCES items(id),
		container_id     INTEGER REFERENCES containers(id),
		place_id         INTEGER REFERENCES places(id),
		destination_type TEXT NOT NULL CHECK (destination_type IN ('room', 'furniture', 'place', 'container')),
		destination_id   INTEGER NOT NULL,
		CHECK ((item_id IS NOT NULL) + (container_id IS NOT NULL) + (place_id IS NOT NULL) = 1)
	);

	CREATE INDEX IF NOT EXISTS idx_furniture_room ON furniture (room_id);
	CREATE INDEX IF NOT EXISTS idx_transitions_item ON transitions (item_id, created_at) WHERE item_id IS NOT NULL;
	CREATE INDEX IF NOT EXISTS idx_transitions_container ON transitions (container_id, created_at) WHERE container_id IS NOT NULL;
	CREATE INDEX IF NOT EXISTS idx_transitions_place ON transitions (place_id, created_at) WHERE place_id IS NOT NULL;
	CREATE INDEX IF NOT EXISTS idx_transitions_destination ON transitions (destination_type, destination_id);

	-- Live entity names, kept in step with the kind tables by the client.
	CREATE VIRTUAL TABLE IF NOT EXISTS entity_search USING fts5(
		kind UNINDEXED,
		entity_id UNINDEXED,
		name
	);
	`

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range splitStatements(ddl) {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("executing DDL: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing schema transaction: %w", err)
	}
	return nil
}

// splitStatements breaks ddl at lines ending in ";" and drops comment lines.
func splitStatements(ddl string) []string {
	var statements []string
	var current strings.Builder

	for _, line := range strings.Split(ddl, "\n") {
		stripped := strings.TrimSpace(line)
		if strings.HasPrefix(stripped, "--") {
			continue
		}
		current.WriteString(line)
		current.WriteString("\n")

		if strings.HasSuffix(stripped, ";") {
			statements = append(statements, current.String())
			current.Reset()
		}
	}

	if strings.TrimSpace(current.String()) != "" {
		statements = append(statements, current.String())
	}
	return statements
}
