package locate

import (
	"context"
	"time"

	"stowage/internal/inventory"
)

// Source is the read side of the persistence layer. Every method is batched:
// the engine never calls it once per entity.
type Source interface {
	// FetchTransitions returns every stored transition matching the filter, in no particular order.
	FetchTransitions(ctx context.Context, filter inventory.TransitionFilter) ([]inventory.Transition, error)
	// FetchEntityNames returns names of live entities. Deleted or unknown ids are absent.
	FetchEntityNames(ctx context.Context, kind inventory.Kind, ids []int64) (map[int64]string, error)
	// FetchFurnitureRooms maps furniture ids to their room id, deleted furniture included.
	// Liveness comes from FetchEntityNames.
	FetchFurnitureRooms(ctx context.Context, furnitureIDs []int64) (map[int64]int64, error)
	// FetchRoomFurniture maps the ids of furniture standing in the given rooms, deleted or not, to their room id.
	FetchRoomFurniture(ctx context.Context, roomIDs []int64) (map[int64]int64, error)
}

// Recorder appends one transition to the log.
type Recorder interface {
	RecordTransition(ctx context.Context, in inventory.TransitionInput) (inventory.Transition, error)
}

// MetricsRecorder receives the outcome of each engine operation.
type MetricsRecorder interface {
	Observe(ctx context.Context, operation string, success bool, duration time.Duration)
}
