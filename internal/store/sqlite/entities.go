package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"stowage/internal/inventory"
	"stowage/internal/store"
)

type rowScanner interface {
	Scan(dest ...any) error
}

func entityColumns(kind inventory.Kind) string {
	if kind == inventory.KindFurniture {
		return "id, name, type_id, created_at, deleted_at, room_id"
	}
	return "id, name, type_id, created_at, deleted_at, 0"
}

func scanEntity(row rowScanner, kind inventory.Kind) (inventory.Entity, error) {
	e := inventory.Entity{Kind: kind}
	var createdAt int64
	var deletedAt sql.NullInt64
	if err := row.Scan(&e.ID, &e.Name, &e.TypeID, &createdAt, &deletedAt, &e.RoomID); err != nil {
		return inventory.Entity{}, err
	}
	e.CreatedAt = fromNanos(createdAt)
	e.DeletedAt = nullableTime(deletedAt)
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

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return inventory.Entity{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if furniture {
		var live int
		err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM rooms WHERE id = ? AND deleted_at IS NULL`, in.RoomID).Scan(&live)
		if err != nil {
			return inventory.Entity{}, fmt.Errorf("checking room %d: %w", in.RoomID, err)
		}
		if live == 0 {
			return inventory.Entity{}, fmt.Errorf("furniture %q: room %d: %w", in.Name, in.RoomID, store.ErrDestinationGone)
		}
	}

	columns := []string{"name", "type_id", "created_at"}
	args := []any{strings.TrimSpace(in.Name), in.TypeID, toNanos(time.Now())}
	updates := []string{"name = excluded.name", "type_id = excluded.type_id"}
	if furniture {
		columns = append(columns, "room_id")
		args = append(args, in.RoomID)
		updates = append(updates, "room_id = excluded.room_id")
	}
	if in.ID > 0 {
		columns = append([]string{"id"}, columns...)
		args = append([]any{in.ID}, args...)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")

	query := fmt.Sprintf(`
	INSERT INTO %s (%s)
	VALUES (%s)
	ON CONFLICT (id) DO UPDATE SET %s
	RETURNING %s
	`, table, strings.Join(columns, ", "), placeholders, strings.Join(updates, ", "), entityColumns(in.Kind))

	e, err := scanEntity(tx.QueryRowContext(ctx, query, args...), in.Kind)
	if err != nil {
		return inventory.Entity{}, fmt.Errorf("upserting %s: %w", in.Kind, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM entity_search WHERE kind = ? AND entity_id = ?`, string(e.Kind), e.ID); err != nil {
		return inventory.Entity{}, fmt.Errorf("clearing search row: %w", err)
	}
	if !e.Deleted() {
		if _, err := tx.ExecContext(ctx, `INSERT INTO entity_search (kind, entity_id, name) VALUES (?, ?, ?)`, string(e.Kind), e.ID, e.Name); err != nil {
			return inventory.Entity{}, fmt.Errorf("indexing %s: %w", e.Ref(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return inventory.Entity{}, fmt.Errorf("committing upsert: %w", err)
	}
	return e, nil
}

// GetEntity returns the entity whether or not it was deleted, or nil when it never existed.
func (c *Client) GetEntity(ctx context.Context, ref inventory.Ref) (*inventory.Entity, error) {
	table, err := store.Table(ref.Kind)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = ?`, entityColumns(ref.Kind), table)

	e, err := scanEntity(c.db.QueryRowContext(ctx, query, ref.ID), ref.Kind)
	if errors.Is(err, sql.ErrNoRows) {
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
		WHERE (? OR deleted_at IS NULL)
		ORDER BY id
		`, entityColumns(kind), table)

		rows, err := c.db.QueryContext(ctx, query, filter.IncludeDeleted)
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
		err = rows.Err()
		rows.Close()
		if err != nil {
			return nil, fmt.Errorf("iterating %s: %w", kind.Plural(), err)
		}
	}
	return entities, nil
}

// SoftDeleteEntity marks the entity deleted. Transitions that mention it are kept.
func (c *Client) SoftDeleteEntity(ctx context.Context, ref inventory.Ref, at time.Time) (bool, error) {
	table, err := store.Table(ref.Kind)
	if err != nil {
		return false, err
	}
	if at.IsZero() {
		at = time.Now()
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, fmt.Sprintf(`UPDATE %s SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`, table), toNanos(at), ref.ID)
	if err != nil {
		return false, fmt.Errorf("deleting %s: %w", ref, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deleting %s: %w", ref, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM entity_search WHERE kind = ? AND entity_id = ?`, string(ref.Kind), ref.ID); err != nil {
		return false, fmt.Errorf("unindexing %s: %w", ref, err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("committing delete: %w", err)
	}
	return affected > 0, nil
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

	ph, args := inClauseArgs(ids)
	query := fmt.Sprintf(`SELECT id, name FROM %s WHERE deleted_at IS NULL AND id IN (%s)`, table, ph)
	rows, err := c.db.QueryContext(ctx, query, args...)
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

// furnitureRooms maps furniture to its room, selecting on column. Deleted
// furniture is included: its room_id still places whatever it holds.
func (c *Client) furnitureRooms(ctx context.Context, column string, ids []int64) (map[int64]int64, error) {
	rooms := make(map[int64]int64, len(ids))
	if len(ids) == 0 {
		return rooms, nil
	}

	ph, args := inClauseArgs(ids)
	query := fmt.Sprintf(`SELECT id, room_id FROM furniture WHERE %s IN (%s)`, column, ph)
	rows, err := c.db.QueryContext(ctx, query, args...)
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
