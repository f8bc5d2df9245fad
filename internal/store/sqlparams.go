package store

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// SplitParams separates positional parameters ("1", "2", ...) from named
// ones. Positional keys must run from 1 without gaps.
func SplitParams(params map[string]any) (positional []any, named map[string]any, err error) {
	named = make(map[string]any)
	var indexes []int
	for key, val := range params {
		if n, convErr := strconv.Atoi(key); convErr == nil {
			if n < 1 {
				return nil, nil, fmt.Errorf("invalid positional parameter %q", key)
			}
			indexes = append(indexes, n)
			continue
		}
		named[strings.TrimPrefix(key, ":")] = val
	}
	sort.Ints(indexes)
	for i, n := range indexes {
		if n != i+1 {
			return nil, nil, fmt.Errorf("positional parameters must be numbered from 1 without gaps, missing %d", i+1)
		}
		positional = append(positional, params[strconv.Itoa(n)])
	}
	return positional, named, nil
}

// ReadOnly rejects statements other than queries.
func ReadOnly(query string) error {
	fields := strings.Fields(strings.TrimSpace(query))
	if len(fields) == 0 {
		return fmt.Errorf("query must not be empty")
	}
	switch strings.ToUpper(fields[0]) {
	case "SELECT", "WITH", "EXPLAIN", "VALUES":
		return nil
	}
	return fmt.Errorf("only read-only queries are allowed, got %s", strings.ToUpper(fields[0]))
}
