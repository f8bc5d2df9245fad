package postgres

import (
	"context"
	"fmt"
	"strings"

	"stowage/internal/inventory"
)

func entityTable(name string, furniture bool) string {
	roomColumn := ""
	if furniture {
		roomColumn = "\n    room_id       BIGINT NOT NULL REFERENCES rooms(id),"
	}
	return fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
    id            BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
    name          TEXT NOT NULL DEFAULT '',
    type_id       BIGINT NOT NULL DEFAULT 0,%s
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
    deleted_at    TIMESTAMPTZ,
    search_vector TSVECTOR GENERATED ALWAYS AS (to_tsvector('simple', name)) STORED
);
CREATE INDEX IF NOT EXISTS idx_%s_search ON %s USING GIN (search_vector);
`, name, roomColumn, name, name)
}

func (c *Client) EnsureSchema(ctx context.Context) error {
	var ddl strings.Builder
	// rooms first: furniture references it.
	for _, kind := range []inventory.Kind{inventory.KindRoom, inventory.KindFurniture, inventory.KindPlace, inventory.KindContainer, inventory.KindItem} {
		ddl.WriteString(entityTable(kind.Plural(), kind == inventory.KindFurniture))
	}
	ddl.WriteString(`
CREATE INDEX IF NOT EXISTS idx_furniture_room ON furniture (room_id);

CREATE TABLE IF NOT EXISTS transitions (
    id               BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
    item_id          BIGINT REFERENCES items(id),
    container_id     BIGINT REFERENCES containers(id),
    place_id         BIGINT REFERENCES places(id),
    destination_type TEXT NOT NULL CHECK (destination_type IN ('room', 'furniture', 'place', 'container')),
    destination_id   BIGINT NOT NULL,
    CONSTRAINT transitions_one_mover CHECK (num_nonnulls(item_id, container_id, place_id) = 1)
);

CREATE INDEX IF NOT EXISTS idx_transitions_item ON transitions (item_id, created_at) WHERE item_id IS NOT NULL;
CREATE INDEX IF NOT EXISTS idx_transitions_container ON transitions (container_id, created_at) WHERE container_id IS NOT NULL;
CREATE INDEX IF NOT EXISTS idx_transitions_place ON transitions (place_id, created_at) WHERE place_id IS NOT NULL;
CREATE INDEX IF NOT EXISTS idx_transitions_destination ON transitions (destination_type, destination_id);
`)

	// A multi-statement Exec runs in one implicit transaction.
	if _, err := c.pool.Exec(ctx, ddl.String()); err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}
	return nil
}
