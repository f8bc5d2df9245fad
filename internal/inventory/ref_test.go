package inventory

import (
	"errors"
	"testing"
	"time"
)

func TestParseRef(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Ref
		wantErr bool
	}{
		{name: "slash", input: "container/10", want: Ref{Kind: KindContainer, ID: 10}},
		{name: "colon", input: "item:5", want: Ref{Kind: KindItem, ID: 5}},
		{name: "plural and case", input: "Rooms/7", want: Ref{Kind: KindRoom, ID: 7}},
		{name: "furniture", input: " furniture/2 ", want: Ref{Kind: KindFurniture, ID: 2}},
		{name: "missing id", input: "item/", wantErr: true},
		{name: "missing kind", input: "/5", wantErr: true},
		{name: "unknown kind", input: "building/1", wantErr: true},
		{name: "zero id", input: "item/0", wantErr: true},
		{name: "not a number", input: "item/five", wantErr: true},
		{name: "no separator", input: "item5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRef(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseRef(%q) expected error, got %v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRef(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseRef(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestMoverAndDestRoles(t *testing.T) {
	for _, kind := range []Kind{KindItem, KindContainer, KindPlace} {
		if _, err := NewMoverRef(kind, 1); err != nil {
			t.Errorf("NewMoverRef(%s) unexpected error: %v", kind, err)
		}
	}
	for _, kind := range []Kind{KindRoom, KindFurniture} {
		if _, err := NewMoverRef(kind, 1); err == nil {
			t.Errorf("NewMoverRef(%s) expected error", kind)
		}
	}
	for _, kind := range []Kind{KindRoom, KindFurniture, KindPlace, KindContainer} {
		if _, err := NewDestRef(kind, 1); err != nil {
			t.Errorf("NewDestRef(%s) unexpected error: %v", kind, err)
		}
	}
	if _, err := NewDestRef(KindItem, 1); err == nil {
		t.Errorf("NewDestRef(item) expected error")
	}
}

func TestMoverColumns(t *testing.T) {
	id := int64(4)
	other := int64(9)

	t.Run("round trip", func(t *testing.T) {
		for _, kind := range MoverKinds {
			ref := MoverRef{Kind: kind, ID: id}
			got, err := ref.Columns().Ref()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != ref {
				t.Errorf("got %v, want %v", got, ref)
			}
		}
	})

	t.Run("none set", func(t *testing.T) {
		if _, err := (MoverColumns{}).Ref(); !errors.Is(err, ErrInvalidMover) {
			t.Fatalf("expected ErrInvalidMover, got %v", err)
		}
	})

	t.Run("two set", func(t *testing.T) {
		cols := MoverColumns{ItemID: &id, PlaceID: &other}
		if _, err := cols.Ref(); !errors.Is(err, ErrInvalidMover) {
			t.Fatalf("expected ErrInvalidMover, got %v", err)
		}
	})
}

func TestTransitionNewer(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	a := Transition{ID: 1, CreatedAt: now}
	b := Transition{ID: 2, CreatedAt: now}
	c := Transition{ID: 0, CreatedAt: now.Add(time.Millisecond)}

	if !b.Newer(a) {
		t.Errorf("same timestamp: higher id should be newer")
	}
	if a.Newer(b) {
		t.Errorf("same timestamp: lower id should not be newer")
	}
	if !c.Newer(b) {
		t.Errorf("later timestamp should win over id")
	}
}

func TestChain(t *testing.T) {
	chain := Chain{
		{Kind: KindContainer, ID: 10, Name: "Toolbox"},
		{Kind: KindPlace, ID: 3},
		{Kind: KindRoom, ID: 7, Name: "Garage"},
	}
	room, ok := chain.Room()
	if !ok || room.ID != 7 {
		t.Fatalf("expected room 7, got %v (%v)", room, ok)
	}
	if !chain.Contains(Ref{Kind: KindPlace, ID: 3}) {
		t.Errorf("expected chain to contain place/3")
	}
	if got, want := chain.String(), "room Garage > place/3 > container Toolbox"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if _, ok := chain[:2].Room(); ok {
		t.Errorf("incomplete chain should not report a room")
	}
}

func TestContents(t *testing.T) {
	holder := DestRef{Kind: KindRoom, ID: 7}
	var c Contents
	c.Add(Member{Ref: Ref{Kind: KindItem, ID: 9}, Holder: DestRef{Kind: KindContainer, ID: 10}, Depth: 2})
	c.Add(Member{Ref: Ref{Kind: KindItem, ID: 5}, Holder: holder, Depth: 1})
	c.Add(Member{Ref: Ref{Kind: KindContainer, ID: 10}, Holder: holder, Depth: 1})
	c.Sort()

	if len(c.Items) != 2 || c.Items[0].Ref.ID != 5 {
		t.Fatalf("unexpected item order: %+v", c.Items)
	}
	if len(c.Direct(KindItem)) != 1 {
		t.Errorf("expected one direct item, got %d", len(c.Direct(KindItem)))
	}
	if !c.Has(Ref{Kind: KindContainer, ID: 10}) {
		t.Errorf("expected container/10")
	}
	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3", c.Len())
	}
}
