package locate

import (
	"context"
	"errors"
	"testing"

	"stowage/internal/inventory"
)

func TestLatestFor(t *testing.T) {
	ctx := context.Background()

	t.Run("picks newest per mover", func(t *testing.T) {
		src := newFake()
		src.move(inventory.KindItem, 5, inventory.KindContainer, 10, at(1))
		src.move(inventory.KindItem, 5, inventory.KindPlace, 3, at(2))
		src.move(inventory.KindItem, 6, inventory.KindRoom, 7, at(5))
		tie := src.move(inventory.KindItem, 6, inventory.KindPlace, 3, at(5))
		src.move(inventory.KindContainer, 5, inventory.KindRoom, 7, at(9))

		e := New(src, Options{})
		latest, err := e.LatestFor(ctx, inventory.KindItem, []int64{5, 6, 9, 5})
		if err != nil {
			t.Fatalf("LatestFor() error: %v", err)
		}
		if len(latest) != 2 {
			t.Fatalf("expected 2 movers, got %d: %+v", len(latest), latest)
		}
		if got := latest[5].Destination; got != (inventory.DestRef{Kind: inventory.KindPlace, ID: 3}) {
			t.Errorf("item 5 destination = %s, want place/3", got)
		}
		if latest[6].ID != tie.ID {
			t.Errorf("item 6 tie broken to transition %d, want %d", latest[6].ID, tie.ID)
		}
		if _, ok := latest[9]; ok {
			t.Error("item 9 never moved and should be absent")
		}
		if got := src.count("FetchTransitions"); got != 1 {
			t.Errorf("expected one batched fetch, got %d", got)
		}
	})

	t.Run("stable across calls", func(t *testing.T) {
		src := newFake()
		src.move(inventory.KindItem, 1, inventory.KindRoom, 7, at(1))
		src.move(inventory.KindItem, 1, inventory.KindRoom, 8, at(1))

		e := New(src, Options{})
		first, err := e.LatestFor(ctx, inventory.KindItem, []int64{1})
		if err != nil {
			t.Fatalf("LatestFor() error: %v", err)
		}
		for i := 0; i < 5; i++ {
			again, err := e.LatestFor(ctx, inventory.KindItem, []int64{1})
			if err != nil {
				t.Fatalf("LatestFor() error: %v", err)
			}
			if again[1] != first[1] {
				t.Fatalf("call %d returned %+v, want %+v", i, again[1], first[1])
			}
		}
	})

	t.Run("empty ids skip the store", func(t *testing.T) {
		src := newFake()
		latest, err := New(src, Options{}).LatestFor(ctx, inventory.KindItem, nil)
		if err != nil {
			t.Fatalf("LatestFor() error: %v", err)
		}
		if latest == nil || len(latest) != 0 {
			t.Errorf("expected empty non-nil map, got %#v", latest)
		}
		if got := src.count("FetchTransitions"); got != 0 {
			t.Errorf("expected no fetch, got %d", got)
		}
	})

	t.Run("rejects kinds that never move", func(t *testing.T) {
		_, err := New(newFake(), Options{}).LatestFor(ctx, inventory.KindRoom, []int64{1})
		if !errors.Is(err, ErrNotMover) {
			t.Errorf("expected ErrNotMover, got %v", err)
		}
	})

	t.Run("store failure is not an empty result", func(t *testing.T) {
		src := newFake()
		src.failOn = "FetchTransitions"
		latest, err := New(src, Options{}).LatestFor(ctx, inventory.KindItem, []int64{1})
		if !errors.Is(err, errBoom) {
			t.Fatalf("expected wrapped store error, got %v", err)
		}
		if latest != nil {
			t.Errorf("expected nil map on failure, got %#v", latest)
		}
	})
}

func TestLatestByMover(t *testing.T) {
	transitions := []inventory.Transition{
		{ID: 1, CreatedAt: at(1), Mover: inventory.MoverRef{Kind: inventory.KindItem, ID: 1}},
		{ID: 3, CreatedAt: at(3), Mover: inventory.MoverRef{Kind: inventory.KindItem, ID: 1}},
		{ID: 2, CreatedAt: at(3), Mover: inventory.MoverRef{Kind: inventory.KindItem, ID: 1}},
		{ID: 4, CreatedAt: at(0), Mover: inventory.MoverRef{Kind: inventory.KindItem, ID: 2}},
	}

	latest := LatestByMover(transitions)
	if latest[1].ID != 3 {
		t.Errorf("mover 1 latest = %d, want 3", latest[1].ID)
	}
	if latest[2].ID != 4 {
		t.Errorf("mover 2 latest = %d, want 4", latest[2].ID)
	}
	if transitions[0].ID != 1 {
		t.Error("input slice was reordered")
	}
}
