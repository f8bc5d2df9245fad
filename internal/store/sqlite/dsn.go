package sqlite

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// parseDSN turns sqlite://path into a driver DSN. Relative paths are
// anchored at the working directory; any ?query is passed through.
func parseDSN(dsn string) (driverDSN string, memory bool, err error) {
	rest, ok := strings.CutPrefix(dsn, "sqlite://")
	if !ok {
		return "", false, fmt.Errorf("invalid sqlite DSN scheme, expected sqlite://")
	}

	path, query, _ := strings.Cut(rest, "?")
	if path == ":memory:" {
		if query != "" {
			return ":memory:?" + query, true, nil
		}
		return ":memory:", true, nil
	}
	if path == "" {
		return "", false, fmt.Errorf("sqlite DSN has no path")
	}

	unescaped, err := url.PathUnescape(path)
	if err != nil {
		return "", false, fmt.Errorf("unescaping path: %w", err)
	}
	path = unescaped
	if !filepath.IsAbs(path) && !strings.HasPrefix(path, "./") {
		path = "./" + path
	}

	if query != "" {
		return path + "?" + query, false, nil
	}
	return path, false, nil
}
