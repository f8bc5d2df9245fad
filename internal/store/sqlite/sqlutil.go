package sqlite

import "strings"

// inClauseArgs builds "?, ?, ?" and matching args for an IN (...) clause.
// An empty list yields NULL, which matches nothing.
func inClauseArgs(ids []int64) (string, []any) {
	if len(ids) == 0 {
		return "NULL", nil
	}
	ph := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		ph[i] = "?"
		args[i] = id
	}
	return strings.Join(ph, ", "), args
}
