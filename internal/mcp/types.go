package mcp

import (
	"time"

	"stowage/internal/config"
	"stowage/internal/inventory"
	"stowage/internal/locate"
	"stowage/internal/store"
)

type WhereIsInput struct {
	Ref  string `json:"ref" jsonschema:"entity reference such as item/5"`
	AsOf string `json:"as_of,omitempty" jsonschema:"RFC 3339 time to resolve at instead of now"`
}

type ContentsOfInput struct {
	Ref    string `json:"ref" jsonschema:"holder reference such as room/7"`
	Direct bool   `json:"direct,omitempty" jsonschema:"only list direct members"`
	AsOf   string `json:"as_of,omitempty" jsonschema:"RFC 3339 time to resolve at instead of now"`
}

type QuickMoveInput struct {
	First  string `json:"first" jsonschema:"first scanned reference"`
	Second string `json:"second" jsonschema:"second scanned reference"`
}

type MoveEntityInput struct {
	Mover string `json:"mover" jsonschema:"item, container or place to move"`
	To    string `json:"to" jsonschema:"destination holder"`
}

type GetHistoryInput struct {
	Ref   string `json:"ref" jsonschema:"entity reference"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of transitions"`
}

type ListEntitiesInput struct {
	Kind           string `json:"kind,omitempty" jsonschema:"entity kind filter"`
	IncludeDeleted bool   `json:"include_deleted,omitempty" jsonschema:"also list deleted entities"`
}

type SearchEntitiesInput struct {
	Query string `json:"query" jsonschema:"search terms"`
	Kind  string `json:"kind,omitempty" jsonschema:"restrict to one entity kind"`
}

type GetCatalogInput struct{}

type LocationOutput struct {
	Ref     string `json:"ref"`
	Name    string `json:"name"`
	Gone    bool   `json:"gone,omitempty"`
	Fixed   bool   `json:"fixed,omitempty"`
	MovedAt string `json:"moved_at,omitempty"`
}

type WhereIsOutput struct {
	Ref      string           `json:"ref"`
	Chain    []LocationOutput `json:"chain"`
	Path     string           `json:"path"`
	Room     *LocationOutput  `json:"room,omitempty"`
	Complete bool             `json:"complete"`
}

type MemberOutput struct {
	Ref    string `json:"ref"`
	Name   string `json:"name"`
	Holder string `json:"holder"`
	Depth  int    `json:"depth"`
}

type ContentsOutput struct {
	Holder     string         `json:"holder"`
	Holds      []string       `json:"holds"`
	Items      []MemberOutput `json:"items"`
	Containers []MemberOutput `json:"containers"`
	Places     []MemberOutput `json:"places"`
	Furniture  []MemberOutput `json:"furniture"`
}

type TransitionOutput struct {
	ID          int64  `json:"id"`
	Mover       string `json:"mover"`
	Destination string `json:"destination"`
	CreatedAt   string `json:"created_at"`
}

type MoveOutput struct {
	Mover       string           `json:"mover"`
	Destination string           `json:"destination"`
	Transition  TransitionOutput `json:"transition"`
}

type HistoryOutput struct {
	Transitions []TransitionOutput `json:"transitions"`
}

type EntityOutput struct {
	Ref      string `json:"ref"`
	Name     string `json:"name"`
	TypeID   int64  `json:"type_id,omitempty"`
	TypeName string `json:"type_name,omitempty"`
	RoomID   int64  `json:"room_id,omitempty"`
	Deleted  bool   `json:"deleted,omitempty"`
}

type ListEntitiesOutput struct {
	Entities []EntityOutput `json:"entities"`
}

type SearchResultOutput struct {
	Ref     string  `json:"ref"`
	Name    string  `json:"name"`
	Score   float64 `json:"score"`
	Snippet string  `json:"snippet,omitempty"`
}

type SearchEntitiesOutput struct {
	Results []SearchResultOutput `json:"results"`
}

type CatalogOutput struct {
	Kinds map[string][]config.Type `json:"kinds"`
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func locationOutput(l inventory.Location) LocationOutput {
	return LocationOutput{
		Ref:     l.Ref().String(),
		Name:    l.Name,
		Gone:    l.Gone,
		Fixed:   l.Fixed,
		MovedAt: formatTime(l.MovedAt),
	}
}

func whereIsOutput(ref inventory.Ref, chain inventory.Chain) WhereIsOutput {
	out := WhereIsOutput{
		Ref:   ref.String(),
		Chain: make([]LocationOutput, 0, len(chain)),
		Path:  chain.String(),
	}
	for _, step := range chain {
		out.Chain = append(out.Chain, locationOutput(step))
	}
	if room, ok := chain.Room(); ok {
		loc := locationOutput(room)
		out.Room = &loc
		out.Complete = true
	}
	return out
}

func membersOutput(members []inventory.Member) []MemberOutput {
	out := make([]MemberOutput, 0, len(members))
	for _, m := range members {
		out = append(out, MemberOutput{
			Ref:    m.Ref.String(),
			Name:   m.Name,
			Holder: m.Holder.String(),
			Depth:  m.Depth,
		})
	}
	return out
}

func contentsOutput(contents inventory.Contents, direct bool) ContentsOutput {
	pick := contents.All
	if direct {
		pick = contents.Direct
	}
	held := locate.HeldKinds(contents.Holder.Kind)
	holds := make([]string, 0, len(held))
	for _, kind := range held {
		holds = append(holds, string(kind))
	}
	return ContentsOutput{
		Holder:     contents.Holder.String(),
		Holds:      holds,
		Items:      membersOutput(pick(inventory.KindItem)),
		Containers: membersOutput(pick(inventory.KindContainer)),
		Places:     membersOutput(pick(inventory.KindPlace)),
		Furniture:  membersOutput(pick(inventory.KindFurniture)),
	}
}

func transitionOutput(t inventory.Transition) TransitionOutput {
	return TransitionOutput{
		ID:          t.ID,
		Mover:       t.Mover.String(),
		Destination: t.Destination.String(),
		CreatedAt:   formatTime(t.CreatedAt),
	}
}

func moveOutput(d locate.Decision, t inventory.Transition) MoveOutput {
	return MoveOutput{
		Mover:       d.Mover.String(),
		Destination: d.Destination.String(),
		Transition:  transitionOutput(t),
	}
}

func entityOutput(e inventory.Entity, catalog *config.Catalog) EntityOutput {
	out := EntityOutput{
		Ref:     e.Ref().String(),
		Name:    e.Name,
		TypeID:  e.TypeID,
		RoomID:  e.RoomID,
		Deleted: e.Deleted(),
	}
	if name, ok := catalog.TypeName(e.Kind, e.TypeID); ok {
		out.TypeName = name
	}
	return out
}

func searchResultOutput(r store.SearchResult) SearchResultOutput {
	return SearchResultOutput{
		Ref:     r.Ref.String(),
		Name:    r.Name,
		Score:   r.Score,
		Snippet: r.Snippet,
	}
}
