package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"stowage/internal/inventory"
	"stowage/internal/store"
)

const transitionColumns = `id, created_at, item_id, container_id, place_id, destination_type, destination_id`

func scanTransition(row rowScanner) (inventory.Transition, error) {
	var t inventory.Transition
	var createdAt int64
	var itemID, containerID, placeID sql.NullInt64
	var destType string
	if err := row.Scan(&t.ID, &createdAt, &itemID, &containerID, &placeID, &destType, &t.Destination.ID); err != nil {
		return inventory.Transition{}, err
	}
	mover, err := inventory.MoverColumns{
		ItemID:      nullableID(itemID),
		ContainerID: nullableID(containerID),
		PlaceID:     nullableID(placeID),
	}.Ref()
	if err != nil {
		return inventory.Transition{}, fmt.Errorf("transition %d: %w", t.ID, err)
	}
	t.Mover = mover
	t.Destination.Kind = inventory.Kind(destType)
	t.CreatedAt = fromNanos(createdAt)
	return t, nil
}

func nullableID(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	id := n.Int64
	return &id
}

func (c *Client) FetchTransitions(ctx context.Context, filter inventory.TransitionFilter) ([]inventory.Transition, error) {
	if store.FilterIsEmpty(filter) {
		return []inventory.Transition{}, nil
	}

	var where []string
	var args []any
	if filter.HasMovers() {
		column, err := store.MoverColumn(filter.MoverKind)
		if err != nil {
			return nil, err
		}
		if len(filter.MoverIDs) > 0 {
			ph, ids := inClauseArgs(filter.MoverIDs)
			where = append(where, fmt.Sprintf("%s IN (%s)", column, ph))
			args = append(args, ids...)
		} else {
			where = append(where, column+" IS NOT NULL")
		}
	}
	if filter.HasDestinations() {
		where = append(where, "destination_type = ?")
		args = append(args, string(filter.DestinationKind))
		if len(filter.DestinationIDs) > 0 {
			ph, ids := inClauseArgs(filter.DestinationIDs)
			where = append(where, fmt.Sprintf("destination_id IN (%s)", ph))
			args = append(args, ids...)
		}
	}
	if !filter.Until.IsZero() {
		where = append(where, "created_at <= ?")
		args = append(args, toNanos(filter.Until))
	}

	query := fmt.Sprintf(`SELECT %s FROM transitions WHERE %s`, transitionColumns, strings.Join(where, " AND "))
	return c.queryTransitions(ctx, query, args...)
}

func (c *Client) queryTransitions(ctx context.Context, query string, args ...any) ([]inventory.Transition, error) {
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying transitions: %w", err)
	}
	defer rows.Close()

	transitions := []inventory.Transition{}
	for rows.Next() {
		t, err := scanTransition(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transition: %w", err)
		}
		transitions = append(transitions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transitions: %w", err)
	}
	return transitions, nil
}

// RecordTransition appends one move. The destination must be live at insert time.
func (c *Client) RecordTransition(ctx context.Context, in inventory.TransitionInput) (inventory.Transition, error) {
	if err := in.Mover.Validate(); err != nil {
		return inventory.Transition{}, err
	}
	if err := in.Destination.Validate(); err != nil {
		return inventory.Transition{}, err
	}
	destTable, _ := store.Table(in.Destination.Kind)
	at := in.CreatedAt
	if at.IsZero() {
		at = time.Now()
	}
	cols := in.Mover.Columns()

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return inventory.Transition{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var live int
	err = tx.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE id = ? AND deleted_at IS NULL`, destTable), in.Destination.ID).Scan(&live)
	if err != nil {
		return inventory.Transition{}, fmt.Errorf("checking %s: %w", in.Destination, err)
	}
	if live == 0 {
		return inventory.Transition{}, fmt.Errorf("recording move into %s: %w", in.Destination, store.ErrDestinationGone)
	}

	row := tx.QueryRowContext(ctx, `
	INSERT INTO transitions (created_at, item_id, container_id, place_id, destination_type, destination_id)
	VALUES (?, ?, ?, ?, ?, ?)
	RETURNING `+transitionColumns,
		toNanos(at), cols.ItemID, cols.ContainerID, cols.PlaceID, string(in.Destination.Kind), in.Destination.ID,
	)
	t, err := scanTransition(row)
	if err != nil {
		return inventory.Transition{}, fmt.Errorf("inserting transition: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return inventory.Transition{}, fmt.Errorf("committing transition: %w", err)
	}
	return t, nil
}

// History lists transitions that moved ref or moved something into it, newest first.
func (c *Client) History(ctx context.Context, ref inventory.Ref, limit int) ([]inventory.Transition, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = store.DefaultHistoryLimit
	}

	conds := []string{"(destination_type = ? AND destination_id = ?)"}
	args := []any{string(ref.Kind), ref.ID}
	if column, err := store.MoverColumn(ref.Kind); err == nil {
		conds = append(conds, column+" = ?")
		args = append(args, ref.ID)
	}
	args = append(args, limit)

	query := fmt.Sprintf(`
	SELECT %s FROM transitions
	WHERE %s
	ORDER BY created_at DESC, id DESC
	LIMIT ?
	`, transitionColumns, strings.Join(conds, " OR "))
	return c.queryTransitions(ctx, query, args...)
}
