package main

import (
	"fmt"
	"strings"
	"time"

	"stowage/internal/inventory"
)

// parseTimeFlag accepts RFC 3339 timestamps and bare dates. Empty means zero.
func parseTimeFlag(name, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid --%s %q: want RFC 3339 or YYYY-MM-DD", name, value)
}

func parseMover(value string) (inventory.MoverRef, error) {
	ref, err := inventory.ParseRef(value)
	if err != nil {
		return inventory.MoverRef{}, err
	}
	mover, ok := ref.AsMover()
	if !ok {
		return inventory.MoverRef{}, fmt.Errorf("%s cannot be moved", ref)
	}
	return mover, nil
}

func parseDest(value string) (inventory.DestRef, error) {
	ref, err := inventory.ParseRef(value)
	if err != nil {
		return inventory.DestRef{}, err
	}
	dest, ok := ref.AsDest()
	if !ok {
		return inventory.DestRef{}, fmt.Errorf("%s cannot hold anything", ref)
	}
	return dest, nil
}

func parseOptionalKind(value string) (inventory.Kind, error) {
	if strings.TrimSpace(value) == "" {
		return "", nil
	}
	return inventory.ParseKind(value)
}

func parseParamPairs(pairs []string) (map[string]any, error) {
	params := make(map[string]any)
	for _, pair := range pairs {
		if pair == "" {
			continue
		}
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid param %q: expected key=value", pair)
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("invalid param %q: empty key", pair)
		}
		params[key] = strings.TrimSpace(value)
	}
	return params, nil
}
