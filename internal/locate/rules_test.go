package locate

import (
	"reflect"
	"testing"

	"stowage/internal/inventory"
)

func TestHeldKinds(t *testing.T) {
	tests := []struct {
		holder inventory.Kind
		want   []inventory.Kind
	}{
		{inventory.KindItem, []inventory.Kind{}},
		{inventory.KindContainer, []inventory.Kind{inventory.KindItem, inventory.KindContainer}},
		{inventory.KindPlace, []inventory.Kind{inventory.KindItem, inventory.KindContainer}},
		{inventory.KindFurniture, []inventory.Kind{inventory.KindItem, inventory.KindContainer, inventory.KindPlace}},
		{inventory.KindRoom, []inventory.Kind{inventory.KindItem, inventory.KindContainer, inventory.KindPlace, inventory.KindFurniture}},
	}
	for _, tt := range tests {
		t.Run(string(tt.holder), func(t *testing.T) {
			if got := HeldKinds(tt.holder); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("HeldKinds(%s) = %v, want %v", tt.holder, got, tt.want)
			}
		})
	}
}

func TestAccepts(t *testing.T) {
	tests := []struct {
		dest, mover inventory.Kind
		want        bool
	}{
		{inventory.KindRoom, inventory.KindPlace, true},
		{inventory.KindRoom, inventory.KindFurniture, false},
		{inventory.KindFurniture, inventory.KindPlace, true},
		{inventory.KindPlace, inventory.KindPlace, false},
		{inventory.KindContainer, inventory.KindContainer, true},
		{inventory.KindItem, inventory.KindItem, false},
	}
	for _, tt := range tests {
		if got := Accepts(tt.dest, tt.mover); got != tt.want {
			t.Errorf("Accepts(%s, %s) = %v, want %v", tt.dest, tt.mover, got, tt.want)
		}
	}
}
