package locate

import (
	"context"
	"errors"
	"testing"
	"time"

	"stowage/internal/inventory"
)

func mover(kind inventory.Kind, id int64) inventory.MoverRef {
	return inventory.MoverRef{Kind: kind, ID: id}
}

func dest(kind inventory.Kind, id int64) inventory.DestRef {
	return inventory.DestRef{Kind: kind, ID: id}
}

func TestMove(t *testing.T) {
	ctx := context.Background()

	newWorkshop := func() *fakeSource {
		src := newFake().
			add(inventory.KindRoom, 7, "Workshop").
			add(inventory.KindContainer, 10, "Crate").
			add(inventory.KindContainer, 11, "Tray").
			add(inventory.KindPlace, 3, "Bench").
			add(inventory.KindItem, 5, "Saw")
		src.move(inventory.KindContainer, 10, inventory.KindRoom, 7, at(1))
		src.move(inventory.KindContainer, 11, inventory.KindContainer, 10, at(2))
		return src
	}

	t.Run("records one transition", func(t *testing.T) {
		src := newWorkshop()
		metrics := &mockMetrics{}
		e := New(src, Options{Metrics: metrics})

		got, err := e.Move(ctx, src, mover(inventory.KindItem, 5), dest(inventory.KindContainer, 11), at(3))
		if err != nil {
			t.Fatalf("Move() error: %v", err)
		}
		if len(src.recorded) != 1 || got.Mover != mover(inventory.KindItem, 5) {
			t.Fatalf("recorded %+v, returned %+v", src.recorded, got)
		}
		chain, err := e.Resolve(ctx, ref(inventory.KindItem, 5))
		if err != nil {
			t.Fatalf("Resolve() error: %v", err)
		}
		if got := chain.String(); got != "room Workshop > container Crate > container Tray" {
			t.Errorf("chain after move = %q", got)
		}
		if len(metrics.obs) == 0 || metrics.obs[0].operation != "move" || !metrics.obs[0].success {
			t.Errorf("observations = %+v", metrics.obs)
		}
	})

	t.Run("zero time means now", func(t *testing.T) {
		src := newWorkshop()
		before := time.Now()
		got, err := New(src, Options{}).Move(ctx, src, mover(inventory.KindItem, 5), dest(inventory.KindRoom, 7), time.Time{})
		if err != nil {
			t.Fatalf("Move() error: %v", err)
		}
		if got.CreatedAt.Before(before.Add(-time.Second)) {
			t.Errorf("CreatedAt = %v, want about now", got.CreatedAt)
		}
	})

	tests := []struct {
		name    string
		mover   inventory.MoverRef
		dest    inventory.DestRef
		wantErr error
	}{
		{"destination cannot hold mover kind", mover(inventory.KindPlace, 3), dest(inventory.KindContainer, 10), ErrNotAccepted},
		{"into itself", mover(inventory.KindContainer, 10), dest(inventory.KindContainer, 10), ErrWouldCycle},
		{"into own descendant", mover(inventory.KindContainer, 10), dest(inventory.KindContainer, 11), ErrWouldCycle},
		{"unknown destination", mover(inventory.KindItem, 5), dest(inventory.KindPlace, 99), ErrNotFound},
		{"rooms never move", mover(inventory.KindRoom, 7), dest(inventory.KindRoom, 7), ErrNotMover},
		{"items hold nothing", mover(inventory.KindItem, 5), dest(inventory.KindItem, 5), ErrNotHolder},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := newWorkshop()
			_, err := New(src, Options{}).Move(ctx, src, tt.mover, tt.dest, at(5))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if len(src.recorded) != 0 {
				t.Errorf("rejected move was recorded: %+v", src.recorded)
			}
		})
	}

	t.Run("historical engine validates against now", func(t *testing.T) {
		src := newWorkshop()
		_, err := New(src, Options{}).AsOf(at(0)).Move(ctx, src, mover(inventory.KindContainer, 10), dest(inventory.KindContainer, 11), at(5))
		if !errors.Is(err, ErrWouldCycle) {
			t.Errorf("expected ErrWouldCycle, got %v", err)
		}
	})

	t.Run("recorder failure", func(t *testing.T) {
		src := newWorkshop()
		src.failOn = "RecordTransition"
		_, err := New(src, Options{}).Move(ctx, src, mover(inventory.KindItem, 5), dest(inventory.KindRoom, 7), at(5))
		if !errors.Is(err, errBoom) {
			t.Errorf("expected recorder error, got %v", err)
		}
	})
}
