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

const transitionColumns = `id, created_at, item_id, container_id, place_id, destination_type, destination_id`

func scanTransition(row pgx.Row) (inventory.Transition, error) {
	var t inventory.Transition
	var cols inventory.MoverColumns
	var destType string
	if err := row.Scan(&t.ID, &t.CreatedAt, &cols.ItemID, &cols.ContainerID, &cols.PlaceID, &destType, &t.Destination.ID); err != nil {
		return inventory.Transition{}, err
	}
	mover, err := cols.Ref()
	if err != nil {
		return inventory.Transition{}, fmt.Errorf("transition %d: %w", t.ID, err)
	}
	t.Mover = mover
	t.Destination.Kind = inventory.Kind(destType)
	t.CreatedAt = t.CreatedAt.UTC()
	return t, nil
}

func (c *Client) FetchTransitions(ctx context.Context, filter inventory.TransitionFilter) ([]inventory.Transition, error) {
	if store.FilterIsEmpty(filter) {
		return []inventory.Transition{}, nil
	}

	var where []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.HasMovers() {
		column, err := store.MoverColumn(filter.MoverKind)
		if err != nil {
			return nil, err
		}
		if len(filter.MoverIDs) > 0 {
			where = append(where, fmt.Sprintf("%s = ANY(%s)", column, arg(filter.MoverIDs)))
		} else {
			where = append(where, column+" IS NOT NULL")
		}
	}
	if filter.HasDestinations() {
		where = append(where, "destination_type = "+arg(string(filter.DestinationKind)))
		if len(filter.DestinationIDs) > 0 {
			where = append(where, fmt.Sprintf("destination_id = ANY(%s)", arg(filter.DestinationIDs)))
		}
	}
	if !filter.Until.IsZero() {
		where = append(where, "created_at <= "+arg(filter.Until.UTC()))
	}

	query := fmt.Sprintf(`SELECT %s FROM transitions WHERE %s`, transitionColumns, strings.Join(where, " AND "))
	return c.queryTransitions(ctx, query, args...)
}

func (c *Client) queryTransitions(ctx context.Context, query string, args ...any) ([]inventory.Transition, error) {
	rows, err := c.pool.Query(ctx, query, args...)
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

	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return inventory.Transition{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Lock the destination row so it cannot be deleted before the insert commits.
	var id int64
	err = tx.QueryRow(ctx, fmt.Sprintf(`SELECT id FROM %s WHERE id = $1 AND deleted_at IS NULL FOR SHARE`, destTable), in.Destination.ID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return inventory.Transition{}, fmt.Errorf("recording move into %s: %w", in.Destination, store.ErrDestinationGone)
	}
	if err != nil {
		return inventory.Transition{}, fmt.Errorf("checking %s: %w", in.Destination, err)
	}

	row := tx.QueryRow(ctx, `
INSERT INTO transitions (created_at, item_id, container_id, place_id, destination_type, destination_id)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING `+transitionColumns,
		at.UTC(), cols.ItemID, cols.ContainerID, cols.PlaceID, string(in.Destination.Kind), in.Destination.ID,
	)
	t, err := scanTransition(row)
	if err != nil {
		return inventory.Transition{}, fmt.Errorf("inserting transition: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return inventory.Transition{}, fmt.Errorf("committing transition: %w", err)
	}
	return t, nil
}

func (c *Client) History(ctx context.Context, ref inventory.Ref, limit int) ([]inventory.Transition, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = store.DefaultHistoryLimit
	}

	conds := []string{"(destination_type = $1 AND destination_id = $2)"}
	if column, err := store.MoverColumn(ref.Kind); err == nil {
		conds = append(conds, column+" = $2")
	}

	query := fmt.Sprintf(`
SELECT %s FROM transitions
WHERE %s
ORDER BY created_at DESC, id DESC
LIMIT $3
`, transitionColumns, strings.Join(conds, " OR "))
	return c.queryTransitions(ctx, query, string(ref.Kind), ref.ID, limit)
}
