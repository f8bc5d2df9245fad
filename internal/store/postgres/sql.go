package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"stowage/internal/store"
)

// RunSQL runs a read-only query. Parameters keyed "1", "2", ... bind to $n;
// any other key binds to @name.
func (c *Client) RunSQL(ctx context.Context, query string, params map[string]any) ([]map[string]any, error) {
	if err := store.ReadOnly(query); err != nil {
		return nil, err
	}
	positional, named, err := store.SplitParams(params)
	if err != nil {
		return nil, err
	}
	if len(positional) > 0 && len(named) > 0 {
		return nil, fmt.Errorf("cannot mix positional and named parameters")
	}
	args := positional
	if len(named) > 0 {
		args = []any{pgx.NamedArgs(named)}
	}

	rows, err := c.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("running sql: %w", err)
	}
	defer rows.Close()

	fieldDescriptions := rows.FieldDescriptions()
	results := make([]map[string]any, 0)

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("getting row values: %w", err)
		}
		row := make(map[string]any, len(fieldDescriptions))
		for i, fd := range fieldDescriptions {
			row[fd.Name] = values[i]
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sql rows: %w", err)
	}
	return results, nil
}
