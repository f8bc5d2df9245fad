package metrics

import (
	"context"

	"stowage/internal/inventory"
	"stowage/internal/locate"
)

type instrumented struct {
	src locate.Source
	rec *Recorder
}

// Instrument counts every batched call made through src.
func Instrument(src locate.Source, rec *Recorder) locate.Source {
	if rec == nil {
		return src
	}
	return &instrumented{src: src, rec: rec}
}

func (i *instrumented) FetchTransitions(ctx context.Context, filter inventory.TransitionFilter) ([]inventory.Transition, error) {
	kind := filter.MoverKind
	if kind == "" {
		kind = filter.DestinationKind
	}
	out, err := i.src.FetchTransitions(ctx, filter)
	i.rec.fetched("transitions", kind.String(), err)
	return out, err
}

func (i *instrumented) FetchEntityNames(ctx context.Context, kind inventory.Kind, ids []int64) (map[int64]string, error) {
	out, err := i.src.FetchEntityNames(ctx, kind, ids)
	i.rec.fetched("names", kind.String(), err)
	return out, err
}

func (i *instrumented) FetchFurnitureRooms(ctx context.Context, furnitureIDs []int64) (map[int64]int64, error) {
	out, err := i.src.FetchFurnitureRooms(ctx, furnitureIDs)
	i.rec.fetched("furniture_rooms", inventory.KindFurniture.String(), err)
	return out, err
}

func (i *instrumented) FetchRoomFurniture(ctx context.Context, roomIDs []int64) (map[int64]int64, error) {
	out, err := i.src.FetchRoomFurniture(ctx, roomIDs)
	i.rec.fetched("room_furniture", inventory.KindRoom.String(), err)
	return out, err
}
