package sqlite

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
	if kind != "" && !kind.Valid() {
		return nil, fmt.Errorf("unknown entity kind: %q", kind)
	}

	sqlQuery := `
	SELECT kind, entity_id, name,
		   bm25(entity_search) AS score,
		   snippet(entity_search, 2, '**', '**', '...', 16) AS snippet
	FROM entity_search
	WHERE entity_search MATCH ?
	  AND (? = '' OR kind = ?)
	ORDER BY score ASC, entity_id ASC
	LIMIT 50
	`

	rows, err := c.db.QueryContext(ctx, sqlQuery, convertWebsearchToFTS5(query), string(kind), string(kind))
	if err != nil {
		return nil, fmt.Errorf("searching entities: %w", err)
	}
	defer rows.Close()

	results := []store.SearchResult{}
	for rows.Next() {
		var r store.SearchResult
		var k string
		var bm25 float64
		if err := rows.Scan(&k, &r.Ref.ID, &r.Name, &bm25, &r.Snippet); err != nil {
			return nil, fmt.Errorf("scanning search result: %w", err)
		}
		r.Ref.Kind = inventory.Kind(k)
		// bm25 is lower for better matches.
		r.Score = -bm25
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating search results: %w", err)
	}
	return results, nil
}

// convertWebsearchToFTS5 rewrites a web-style query into FTS5 syntax. Bare
// terms are quoted so punctuation in labels like "A-12" is matched literally.
func convertWebsearchToFTS5(query string) string {
	var result strings.Builder
	var current strings.Builder
	inQuote := false

	join := func() {
		if result.Len() == 0 {
			return
		}
		switch lastWord(result.String()) {
		case "AND", "OR", "NOT":
			result.WriteString(" ")
		default:
			result.WriteString(" AND ")
		}
	}

	flushToken := func() {
		token := current.String()
		current.Reset()
		if token == "" {
			return
		}

		switch upper := strings.ToUpper(token); upper {
		case "AND", "OR", "NOT":
			if result.Len() > 0 {
				result.WriteString(" ")
			}
			result.WriteString(upper)
			return
		}

		if strings.HasPrefix(token, "-") && len(token) > 1 {
			token = token[1:]
			// FTS5 NOT is binary, so a negation needs a plain term on its left.
			switch lastWord(result.String()) {
			case "", "AND", "OR", "NOT":
				join()
			default:
				result.WriteString(" NOT ")
			}
		} else {
			join()
		}
		prefix := strings.HasSuffix(token, "*") && len(token) > 1
		token = strings.TrimSuffix(token, "*")
		result.WriteString(quoteTerm(token))
		if prefix {
			result.WriteString("*")
		}
	}

	for i := 0; i < len(query); i++ {
		ch := query[i]
		switch {
		case ch == '"':
			if inQuote {
				inQuote = false
				phrase := current.String()
				current.Reset()
				if strings.TrimSpace(phrase) != "" {
					join()
					result.WriteString(quoteTerm(phrase))
				}
			} else {
				flushToken()
				inQuote = true
			}
		case inQuote:
			current.WriteByte(ch)
		case ch == ' ' || ch == '\t':
			flushToken()
		default:
			current.WriteByte(ch)
		}
	}
	flushToken()

	return result.String()
}

func quoteTerm(term string) string {
	return `"` + strings.ReplaceAll(term, `"`, `""`) + `"`
}

func lastWord(s string) string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return ""
	}
	return words[len(words)-1]
}
