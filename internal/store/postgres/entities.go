package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"stowage/internal/inventory"
	"stowage/internal/store"
)

func entityColumns(kind inventory.Kind) string {
	if kind == inventory.KindFurniture {
		return "id, name, type_id, created_at, deleted_at, room_id"
	}
	return "id, name, type_id, created_at, deleted_at, 0::bigint"
}

func scanEntity(row pgx.Row, kind inventory.Kind) (inventory.Entity, error) {
	e := inventory.Entity{Kind: kind}
	var deletedAt *time.Time
	if err := row.Scan(&e.ID, &e.Name, &e.TypeID, &e.CreatedAt, &deletedAt, &e.RoomID); err != nil {
		return inventory.Entity{}, err
	}
	e.CreatedAt = e.CreatedAt.UTC()
	if deletedAt != nil {
		t := deletedAt.UTC()
		e.DeletedAt = &t
	}
	return e, nil
}

func (c *Client) UpsertEntity(ctx context.Context, in inventory.EntityInput) (inventory.Entity, error) {
	table, err := store.Table(in.Kind)
	if err != nil {
		return inventory.Entity{}, err
	}
	furniture := in.Kind == inventory.KindFurniture
	if furniture && in.RoomID <= 0 {
		return inventory.Entity{}, fmt.Errorf("furniture %q needs a room", in.Name)
	}

	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return inventory.Entity{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if furniture {
		var live bool
		err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM rooms WHERE id = $1 AND deleted_at IS NULL)`, in.RoomID).Scan(&live)
		if err != nil {
			return inventory.Entity{}, fmt.Errorf("checking room %d: %w", in.RoomID, err)
		}
		if !live {
			return inventory.Entity{}, fmt.Errorf("furniture %q: room %d: %w", in.Name, in.RoomID, store.ErrDestinationGone)
		}
	}

	columns := []string{"name", "type_id"}
	args := []any{strings.TrimSpace(in.Name), in.TypeID}
	updates := []string{"name = EXCLUDED.name", "type_id = EXCLUDED.type_id"}
	if furniture {
		columns = append(columns, "room_id")
		args = append(args, in.RoomID)
		updates = append(updates, "room_id = EXCLUDED.room_id")
	}
	if in.ID > 0 {
		columns = append([]string{"id"}, columns...)
		args = append([]any{in.ID}, args...)
	}
	placeholders := make([]string, len(columns))
	for i := range columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf(`
INSERT INTO %s (%s)
VALUES (%s)
ON CONFLICT (id) DO UPDATE SET %s
RETURNING %s
`, table, strings.Join(columns, ", "), strings.Join(placeholders, ", "), strings.Join(updates, ", "), entityColumns(in.Kind))

	e, err := scanEntity(tx.QueryRow(ctx, query, args...), in.Kind)
	if err != nil {
		return inventory.Entity{}, fmt.Errorf("upserting %s: %w", in.Kind, err)
	}

	// Explicit ids bypass the identity sequence; move it past them.
	if in.ID > 0 {
		_, err := tx.Exec(ctx, fmt.Sprintf(
			`SELECT setval(pg_get_serial_sequence('%s', 'id'), GREATEST((SELECT MAX(id) FROM %s), 1))`, table, table))
		if err != nil {
			return inventory.Entity{}, fmt.Errorf("advancing %s id sequence: %w", table, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return inventory.Entity{}, fmt.Errorf("committing upsert: %w", err)
	}
	return e, nil
}

func (c *Client) GetEntity(ctx context.Context, ref inventory.Ref) (*inventory.Entity, error) {
	table, err := store.Table(ref.Kind)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, entityColumns(ref.Kind), table)

	e, err := scanEntity(c.pool.QueryRow(ctx, query, ref.ID), ref.Kind)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting %s: %w", ref, err)
	}
	return &e, nil
}

func (c *Client) ListEntities(ctx context.Context, filter store.ListFilter) ([]inventory.Entity, error) {
	kinds := inventory.Kinds
	if filter.Kind != "" {
		if !filter.Kind.Valid() {
			return nil, fmt.Errorf("unknown entity kind: %q", filter.Kind)
		}
		kinds = []inventory.Kind{filter.Kind}
	}

	entities := []inventory.Entity{}
	for _, kind := range kinds {
		table, _ := store.Table(kind)
		query := fmt.Sprintf(`
SELECT %s FROM %s
WHERE ($1 OR deleted_at IS NULL)
ORDER BY id
`, entityColumns(kind), table)

		rows, err := c.pool.Query(ctx, query, filter.IncludeDeleted)
		if err != nil {
			return nil, fmt.Errorf("listing %s: %w", kind.Plural(), err)
		}
		for rows.Next() {
			e, err := scanEntity(rows, kind)
			if err != nil {
				rows.Close()
				return nil, fmt.Errorf("scanning %s: %w", kind, err)
			}
			entities = append(entities, e)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("iterating %s: %w", kind.Plural(), err)
		}
	}
	return entities, nil
}

func (c *Client) SoftDeleteEntity(ctx context.Context, ref inventory.Ref, at time.Time) (bool, error) {
	table, err := store.Table(ref.Kind)
	if err != nil {
		return false, err
	}
	if at.IsZero() {
		at = time.Now()
	}
	tag, err := c.pool.Exec(ctx, fmt.Sprintf(`UPDATE %s SET deleted_at = $1 WHERE id = $2 AND deleted_at IS NULL`, table), at.UTC(), ref.ID)
	if err != nil {
		return false, fmt.Errorf("deleting %s: %w", ref, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (c *Client) FetchEntityNames(ctx context.Context, kind inventory.Kind, ids []int64) (map[int64]string, error) {
	table, err := store.Table(kind)
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	rows, err := c.pool.Query(ctx, fmt.Sprintf(`SELECT id, name FROM %s WHERE deleted_at IS NULL AND id = ANY($1)`, table), ids)
	if err != nil {
		return nil, fmt.Errorf("fetching %s names: %w", kind, err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scanning %s name: %w", kind, err)
		}
		names[id] = name
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s names: %w", kind, err)
	}
	return names, nil
}

func (c *Client) FetchFurnitureRooms(ctx context.Context, furnitureIDs []int64) (map[int64]int64, error) {
	return c.furnitureRooms(ctx, "id", furnitureIDs)
}

func (c *Client) FetchRoomFurniture(ctx context.Context, roomIDs []int64) (map[int64]int64, error) {
	return c.furnitureRooms(ctx, "room_id", roomIDs)
}

func (c *Client) furnitureRooms(ctx context.Context, column string, ids []int64) (map[int64]int64, error) {
	rooms := make(map[int64]int64, len(ids))
	if len(ids) == 0 {
		return rooms, nil
	}

	rows, err := c.pool.Query(ctx, fmt.Sprintf(`SELECT id, room_id FROM furniture WHERE %s = ANY($1)`, column), ids)
	if err != nil {
		return nil, fmt.Errorf("fetching furniture rooms: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, roomID int64
		if err := rows.Scan(&id, &roomID); err != nil {
			return nil, fmt.Errorf("scanning furniture room: %w", err)
		}
		rooms[id] = roomID
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating furniture rooms: %w", err)
	}
	return rooms, nil
}
