package locate

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"stowage/internal/inventory"
)

func TestResolve(t *testing.T) {
	ctx := context.Background()

	t.Run("never placed yields empty chain", func(t *testing.T) {
		src := newFake().add(inventory.KindItem, 1, "Hammer")
		chain, err := New(src, Options{}).Resolve(ctx, ref(inventory.KindItem, 1))
		if err != nil {
			t.Fatalf("Resolve() error: %v", err)
		}
		if chain == nil || len(chain) != 0 {
			t.Errorf("expected empty chain, got %#v", chain)
		}
	})

	t.Run("later transition supersedes earlier one", func(t *testing.T) {
		src := newFake().
			add(inventory.KindItem, 5, "Drill").
			add(inventory.KindContainer, 10, "Toolbox").
			add(inventory.KindPlace, 3, "Top shelf").
			add(inventory.KindRoom, 7, "Garage")
		src.move(inventory.KindItem, 5, inventory.KindContainer, 10, at(1))
		src.move(inventory.KindItem, 5, inventory.KindPlace, 3, at(2))
		src.move(inventory.KindContainer, 10, inventory.KindRoom, 7, at(0))

		chain, err := New(src, Options{}).Resolve(ctx, ref(inventory.KindItem, 5))
		if err != nil {
			t.Fatalf("Resolve() error: %v", err)
		}
		want := inventory.Chain{{Kind: inventory.KindPlace, ID: 3, Name: "Top shelf", MovedAt: at(2)}}
		if !reflect.DeepEqual(chain, want) {
			t.Errorf("chain = %+v, want %+v", chain, want)
		}
		if _, ok := chain.Room(); ok {
			t.Error("dangling chain should not report a room")
		}
	})

	t.Run("full chain through furniture", func(t *testing.T) {
		src := newFake().
			add(inventory.KindItem, 1, "Screwdriver").
			add(inventory.KindContainer, 2, "Toolbox").
			add(inventory.KindPlace, 3, "Shelf 2").
			addFurniture(4, 7, "Rack").
			add(inventory.KindRoom, 7, "Garage")
		src.move(inventory.KindItem, 1, inventory.KindContainer, 2, at(3))
		src.move(inventory.KindContainer, 2, inventory.KindPlace, 3, at(2))
		src.move(inventory.KindPlace, 3, inventory.KindFurniture, 4, at(1))

		chain, err := New(src, Options{}).Resolve(ctx, ref(inventory.KindItem, 1))
		if err != nil {
			t.Fatalf("Resolve() error: %v", err)
		}
		want := inventory.Chain{
			{Kind: inventory.KindContainer, ID: 2, Name: "Toolbox", MovedAt: at(3)},
			{Kind: inventory.KindPlace, ID: 3, Name: "Shelf 2", MovedAt: at(2)},
			{Kind: inventory.KindFurniture, ID: 4, Name: "Rack", MovedAt: at(1)},
			{Kind: inventory.KindRoom, ID: 7, Name: "Garage", Fixed: true},
		}
		if !reflect.DeepEqual(chain, want) {
			t.Fatalf("chain = %+v, want %+v", chain, want)
		}
		if got := chain.String(); got != "room Garage > furniture Rack > place Shelf 2 > container Toolbox" {
			t.Errorf("String() = %q", got)
		}
		if got := src.count("FetchFurnitureRooms"); got != 1 {
			t.Errorf("expected one furniture lookup, got %d", got)
		}
	})

	t.Run("room has no location", func(t *testing.T) {
		src := newFake().add(inventory.KindRoom, 7, "Garage")
		chain, err := New(src, Options{}).Resolve(ctx, ref(inventory.KindRoom, 7))
		if err != nil {
			t.Fatalf("Resolve() error: %v", err)
		}
		if len(chain) != 0 {
			t.Errorf("expected empty chain, got %+v", chain)
		}
		if got := src.count("FetchTransitions"); got != 0 {
			t.Errorf("rooms should not query transitions, got %d", got)
		}
	})

	t.Run("deleted destination stays in the chain", func(t *testing.T) {
		src := newFake().
			add(inventory.KindItem, 5, "Drill").
			add(inventory.KindContainer, 10, "Toolbox").
			add(inventory.KindRoom, 7, "Garage")
		src.move(inventory.KindItem, 5, inventory.KindContainer, 10, at(2))
		src.move(inventory.KindContainer, 10, inventory.KindRoom, 7, at(1))
		src.remove(inventory.KindContainer, 10)

		chain, err := New(src, Options{}).Resolve(ctx, ref(inventory.KindItem, 5))
		if err != nil {
			t.Fatalf("Resolve() error: %v", err)
		}
		if len(chain) != 2 {
			t.Fatalf("expected 2 steps, got %+v", chain)
		}
		if !chain[0].Gone || chain[0].Name != "" {
			t.Errorf("container step should be gone: %+v", chain[0])
		}
		if room, ok := chain.Room(); !ok || room.Name != "Garage" {
			t.Errorf("expected chain to reach Garage, got %+v", chain)
		}
	})

	t.Run("deleted furniture still reaches its room", func(t *testing.T) {
		src := newFake().
			add(inventory.KindItem, 6, "Saw").
			addFurniture(2, 7, "Shelf").
			add(inventory.KindRoom, 7, "Garage")
		src.move(inventory.KindItem, 6, inventory.KindFurniture, 2, at(1))
		src.remove(inventory.KindFurniture, 2)

		chain, err := New(src, Options{}).Resolve(ctx, ref(inventory.KindItem, 6))
		if err != nil {
			t.Fatalf("Resolve() error: %v", err)
		}
		if len(chain) != 2 {
			t.Fatalf("expected 2 steps, got %+v", chain)
		}
		if !chain[0].Gone || chain[0].Kind != inventory.KindFurniture {
			t.Errorf("furniture step should be gone: %+v", chain[0])
		}
		if !chain[1].Fixed {
			t.Errorf("room step should come from the furniture's room: %+v", chain[1])
		}
		if room, ok := chain.Room(); !ok || room.Name != "Garage" {
			t.Errorf("expected chain to reach Garage, got %+v", chain)
		}
	})

	t.Run("missing or deleted entity", func(t *testing.T) {
		src := newFake().add(inventory.KindItem, 1, "Hammer")
		src.remove(inventory.KindItem, 1)

		_, err := New(src, Options{}).Resolve(ctx, ref(inventory.KindItem, 1))
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
		var nf *NotFoundError
		if !errors.As(err, &nf) || nf.Ref != ref(inventory.KindItem, 1) {
			t.Errorf("expected NotFoundError for item/1, got %v", err)
		}
	})

	t.Run("self reference is a cycle at depth 1", func(t *testing.T) {
		src := newFake().add(inventory.KindContainer, 10, "Box")
		src.move(inventory.KindContainer, 10, inventory.KindContainer, 10, at(1))

		_, err := New(src, Options{}).Resolve(ctx, ref(inventory.KindContainer, 10))
		var anomaly *AnomalyError
		if !errors.As(err, &anomaly) {
			t.Fatalf("expected AnomalyError, got %v", err)
		}
		if !anomaly.Cycle || anomaly.Depth != 1 {
			t.Errorf("anomaly = %+v, want cycle at depth 1", anomaly)
		}
	})

	t.Run("two containers inside each other", func(t *testing.T) {
		src := newFake().
			add(inventory.KindItem, 1, "Pen").
			add(inventory.KindContainer, 1, "A").
			add(inventory.KindContainer, 2, "B")
		src.move(inventory.KindItem, 1, inventory.KindContainer, 1, at(1))
		src.move(inventory.KindContainer, 1, inventory.KindContainer, 2, at(1))
		src.move(inventory.KindContainer, 2, inventory.KindContainer, 1, at(2))

		metrics := &mockMetrics{}
		_, err := New(src, Options{Metrics: metrics}).Resolve(ctx, ref(inventory.KindItem, 1))
		if !errors.Is(err, ErrDepthExceeded) {
			t.Fatalf("expected ErrDepthExceeded, got %v", err)
		}
		if len(metrics.obs) != 1 || metrics.obs[0].success {
			t.Errorf("expected one failed observation, got %+v", metrics.obs)
		}
	})

	t.Run("depth limit", func(t *testing.T) {
		src := newFake().
			add(inventory.KindItem, 1, "Pen").
			add(inventory.KindContainer, 1, "Pouch").
			add(inventory.KindContainer, 2, "Bag").
			add(inventory.KindPlace, 3, "Hook")
		src.move(inventory.KindItem, 1, inventory.KindContainer, 1, at(1))
		src.move(inventory.KindContainer, 1, inventory.KindContainer, 2, at(1))
		src.move(inventory.KindContainer, 2, inventory.KindPlace, 3, at(1))

		_, err := New(src, Options{MaxDepth: 2}).Resolve(ctx, ref(inventory.KindItem, 1))
		var anomaly *AnomalyError
		if !errors.As(err, &anomaly) {
			t.Fatalf("expected AnomalyError, got %v", err)
		}
		if anomaly.Cycle || anomaly.Depth != 3 || anomaly.Limit != 2 {
			t.Errorf("anomaly = %+v, want limit hit at depth 3", anomaly)
		}

		if _, err := New(src, Options{MaxDepth: 3}).Resolve(ctx, ref(inventory.KindItem, 1)); err != nil {
			t.Errorf("chain of exactly MaxDepth should resolve, got %v", err)
		}
	})

	t.Run("store failure is wrapped", func(t *testing.T) {
		src := newFake().add(inventory.KindItem, 1, "Pen")
		src.failOn = "FetchTransitions"

		_, err := New(src, Options{}).Resolve(ctx, ref(inventory.KindItem, 1))
		if !errors.Is(err, errBoom) {
			t.Errorf("expected store error, got %v", err)
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		src := newFake().
			add(inventory.KindItem, 1, "Pen").
			add(inventory.KindRoom, 7, "Office")
		src.move(inventory.KindItem, 1, inventory.KindRoom, 7, at(1))

		e := New(src, Options{})
		first, err := e.Resolve(ctx, ref(inventory.KindItem, 1))
		if err != nil {
			t.Fatalf("Resolve() error: %v", err)
		}
		second, err := e.Resolve(ctx, ref(inventory.KindItem, 1))
		if err != nil {
			t.Fatalf("Resolve() error: %v", err)
		}
		if !reflect.DeepEqual(first, second) {
			t.Errorf("results differ: %+v vs %+v", first, second)
		}
	})

	t.Run("as of an earlier time", func(t *testing.T) {
		src := newFake().
			add(inventory.KindItem, 5, "Drill").
			add(inventory.KindContainer, 10, "Toolbox").
			add(inventory.KindPlace, 3, "Shelf")
		src.move(inventory.KindItem, 5, inventory.KindContainer, 10, at(1))
		src.move(inventory.KindItem, 5, inventory.KindPlace, 3, at(5))

		chain, err := New(src, Options{}).AsOf(at(2)).Resolve(ctx, ref(inventory.KindItem, 5))
		if err != nil {
			t.Fatalf("Resolve() error: %v", err)
		}
		if len(chain) != 1 || chain[0].Kind != inventory.KindContainer {
			t.Errorf("expected toolbox as of minute 2, got %+v", chain)
		}
	})
}
