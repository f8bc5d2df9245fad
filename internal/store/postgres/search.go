package postgres

import (
	"context"
	"fmt"
	"strings"

	"stowage/internal/inventory"
	"stowage/internal/store"
)

func (c *Client) Search(ctx context.Context, query string, kind inventory.Kind) ([]store.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query must not be empty")
	}
	kinds := inventory.Kinds
	if kind != "" {
		if !kind.Valid() {
			return nil, fmt.Errorf("unknown entity kind: %q", kind)
		}
		kinds = []inventory.Kind{kind}
	}

	parts := make([]string, 0, len(kinds))
	for _, k := range kinds {
		table, _ := store.Table(k)
		parts = append(parts, fmt.Sprintf(`
SELECT '%s' AS kind, id, name,
    ts_rank(search_vector, q) AS score,
    ts_headline('simple', name, q, 'StartSel=**, StopSel=**') AS snippet
FROM %s, websearch_to_tsquery('simple', $1) q
WHERE deleted_at IS NULL AND search_vector @@ q`, k, table))
	}
	sql := strings.Join(parts, "\nUNION ALL") + "\nORDER BY score DESC, id ASC\nLIMIT 50"

	rows, err := c.pool.Query(ctx, sql, query)
	if err != nil {
		return nil, fmt.Errorf("searching entities: %w", err)
	}
	defer rows.Close()

	results := []store.SearchResult{}
	for rows.Next() {
		var r store.SearchResult
		var k string
		var score float32
		if err := rows.Scan(&k, &r.Ref.ID, &r.Name, &score, &r.Snippet); err != nil {
			return nil, fmt.Errorf("scanning search result: %w", err)
		}
		r.Ref.Kind = inventory.Kind(k)
		r.Score = float64(score)
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating search results: %w", err)
	}
	return results, nil
}
