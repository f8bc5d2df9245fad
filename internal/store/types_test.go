package store

import (
	"testing"

	"stowage/internal/inventory"
)

func TestMoverColumn(t *testing.T) {
	tests := []struct {
		kind    inventory.Kind
		want    string
		wantErr bool
	}{
		{inventory.KindItem, "item_id", false},
		{inventory.KindContainer, "container_id", false},
		{inventory.KindPlace, "place_id", false},
		{inventory.KindFurniture, "", true},
		{inventory.KindRoom, "", true},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			got, err := MoverColumn(tt.kind)
			if (err != nil) != tt.wantErr {
				t.Fatalf("MoverColumn(%s) error = %v, wantErr %v", tt.kind, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("MoverColumn(%s) = %q, want %q", tt.kind, got, tt.want)
			}
		})
	}
}

func TestTable(t *testing.T) {
	if got, _ := Table(inventory.KindFurniture); got != "furniture" {
		t.Errorf("Table(furniture) = %q", got)
	}
	if got, _ := Table(inventory.KindPlace); got != "places" {
		t.Errorf("Table(place) = %q", got)
	}
	if _, err := Table("shelf"); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestFilterIsEmpty(t *testing.T) {
	if !FilterIsEmpty(inventory.TransitionFilter{MoverKind: inventory.KindItem}) {
		t.Error("filter without ids should be empty")
	}
	if FilterIsEmpty(inventory.TransitionFilter{DestinationKind: inventory.KindRoom, DestinationIDs: []int64{7}}) {
		t.Error("filter with destination ids should not be empty")
	}
}
