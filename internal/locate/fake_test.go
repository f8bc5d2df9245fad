package locate

import (
	"context"
	"errors"
	"sync"
	"time"

	"stowage/internal/inventory"
)

var errBoom = errors.New("boom")

// fakeSource is an in-memory Source and Recorder that counts every call.
type fakeSource struct {
	mu          sync.Mutex
	transitions []inventory.Transition
	live        map[inventory.Ref]string
	rooms       map[int64]int64
	calls       map[string]int
	failOn      string
	nextID      int64
	recorded    []inventory.TransitionInput
}

func newFake() *fakeSource {
	return &fakeSource{
		live:  make(map[inventory.Ref]string),
		rooms: make(map[int64]int64),
		calls: make(map[string]int),
	}
}

func (f *fakeSource) add(kind inventory.Kind, id int64, name string) *fakeSource {
	f.live[inventory.Ref{Kind: kind, ID: id}] = name
	return f
}

func (f *fakeSource) addFurniture(id, roomID int64, name string) *fakeSource {
	f.add(inventory.KindFurniture, id, name)
	f.rooms[id] = roomID
	return f
}

func (f *fakeSource) remove(kind inventory.Kind, id int64) {
	delete(f.live, inventory.Ref{Kind: kind, ID: id})
}

func (f *fakeSource) move(moverKind inventory.Kind, moverID int64, destKind inventory.Kind, destID int64, at time.Time) inventory.Transition {
	f.nextID++
	t := inventory.Transition{
		ID:          f.nextID,
		CreatedAt:   at,
		Mover:       inventory.MoverRef{Kind: moverKind, ID: moverID},
		Destination: inventory.DestRef{Kind: destKind, ID: destID},
	}
	f.transitions = append(f.transitions, t)
	return t
}

func (f *fakeSource) count(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *fakeSource) enter(method string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[method]++
	if f.failOn == method {
		return errBoom
	}
	return nil
}

func (f *fakeSource) FetchTransitions(ctx context.Context, filter inventory.TransitionFilter) ([]inventory.Transition, error) {
	if err := f.enter("FetchTransitions"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	out := []inventory.Transition{}
	for _, t := range f.transitions {
		if filter.HasMovers() && (t.Mover.Kind != filter.MoverKind || (len(filter.MoverIDs) > 0 && !containsID(filter.MoverIDs, t.Mover.ID))) {
			continue
		}
		if filter.HasDestinations() && (t.Destination.Kind != filter.DestinationKind || (len(filter.DestinationIDs) > 0 && !containsID(filter.DestinationIDs, t.Destination.ID))) {
			continue
		}
		if !filter.Until.IsZero() && t.CreatedAt.After(filter.Until) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeSource) FetchEntityNames(ctx context.Context, kind inventory.Kind, ids []int64) (map[int64]string, error) {
	if err := f.enter("FetchEntityNames"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make(map[int64]string)
	for _, id := range ids {
		if name, ok := f.live[inventory.Ref{Kind: kind, ID: id}]; ok {
			out[id] = name
		}
	}
	return out, nil
}

func (f *fakeSource) FetchFurnitureRooms(ctx context.Context, furnitureIDs []int64) (map[int64]int64, error) {
	if err := f.enter("FetchFurnitureRooms"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make(map[int64]int64)
	for _, id := range furnitureIDs {
		if room, ok := f.rooms[id]; ok {
			out[id] = room
		}
	}
	return out, nil
}

func (f *fakeSource) FetchRoomFurniture(ctx context.Context, roomIDs []int64) (map[int64]int64, error) {
	if err := f.enter("FetchRoomFurniture"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make(map[int64]int64)
	for id, room := range f.rooms {
		if containsID(roomIDs, room) {
			out[id] = room
		}
	}
	return out, nil
}

func (f *fakeSource) RecordTransition(ctx context.Context, in inventory.TransitionInput) (inventory.Transition, error) {
	if err := f.enter("RecordTransition"); err != nil {
		return inventory.Transition{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	f.recorded = append(f.recorded, in)
	f.nextID++
	t := inventory.Transition{ID: f.nextID, CreatedAt: in.CreatedAt, Mover: in.Mover, Destination: in.Destination}
	f.transitions = append(f.transitions, t)
	return t, nil
}

func containsID(ids []int64, id int64) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

type recordedObservation struct {
	operation string
	success   bool
}

type mockMetrics struct {
	mu  sync.Mutex
	obs []recordedObservation
}

func (m *mockMetrics) Observe(ctx context.Context, operation string, success bool, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.obs = append(m.obs, recordedObservation{operation: operation, success: success})
}

var t0 = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func at(minutes int) time.Time {
	return t0.Add(time.Duration(minutes) * time.Minute)
}

func ref(kind inventory.Kind, id int64) inventory.Ref {
	return inventory.Ref{Kind: kind, ID: id}
}
