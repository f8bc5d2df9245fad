package inventory

import (
	"sort"
	"strings"
	"time"
)

// Location is one derived placement step.
type Location struct {
	Kind    Kind      `json:"kind"`
	ID      int64     `json:"id"`
	Name    string    `json:"name,omitempty"`
	Gone    bool      `json:"gone,omitempty"`
	MovedAt time.Time `json:"moved_at"`
	// Fixed marks the furniture-to-room step, which comes from a foreign key.
	Fixed bool `json:"fixed,omitempty"`
}

func (l Location) Ref() Ref {
	return Ref{Kind: l.Kind, ID: l.ID}
}

// Chain is the ancestry of an entity, immediate location first.
type Chain []Location

// Room returns the enclosing room when the chain is complete.
func (c Chain) Room() (Location, bool) {
	if len(c) == 0 {
		return Location{}, false
	}
	last := c[len(c)-1]
	if last.Kind != KindRoom {
		return Location{}, false
	}
	return last, true
}

func (c Chain) Contains(ref Ref) bool {
	for _, loc := range c {
		if loc.Kind == ref.Kind && loc.ID == ref.ID {
			return true
		}
	}
	return false
}

// String renders the chain as "room Garage > place Shelf 2 > container 10".
func (c Chain) String() string {
	parts := make([]string, 0, len(c))
	for i := len(c) - 1; i >= 0; i-- {
		parts = append(parts, c[i].Label())
	}
	return strings.Join(parts, " > ")
}

// Label is a short human-readable name for the step.
func (l Location) Label() string {
	switch {
	case l.Gone:
		return l.Ref().String() + " (deleted)"
	case l.Name != "":
		return string(l.Kind) + " " + l.Name
	default:
		return l.Ref().String()
	}
}

// Member is one entity found inside a holder.
type Member struct {
	Ref    Ref     `json:"ref"`
	Name   string  `json:"name,omitempty"`
	Holder DestRef `json:"holder"`
	// Depth is 1 for direct members.
	Depth int `json:"depth"`
}

// Contents is everything currently inside a holder, direct and transitive.
type Contents struct {
	Holder     DestRef  `json:"holder"`
	Items      []Member `json:"items"`
	Containers []Member `json:"containers"`
	Places     []Member `json:"places"`
	Furniture  []Member `json:"furniture"`
}

func (c *Contents) bucket(kind Kind) *[]Member {
	switch kind {
	case KindItem:
		return &c.Items
	case KindContainer:
		return &c.Containers
	case KindPlace:
		return &c.Places
	case KindFurniture:
		return &c.Furniture
	}
	return nil
}

// Add appends m to the list for its kind.
func (c *Contents) Add(m Member) {
	if b := c.bucket(m.Ref.Kind); b != nil {
		*b = append(*b, m)
	}
}

// All returns every member of the kind regardless of depth.
func (c Contents) All(kind Kind) []Member {
	if b := c.bucket(kind); b != nil {
		return *b
	}
	return nil
}

// Direct returns members of the kind whose holder is the queried location itself.
func (c Contents) Direct(kind Kind) []Member {
	var out []Member
	for _, m := range c.All(kind) {
		if m.Depth == 1 {
			out = append(out, m)
		}
	}
	return out
}

func (c Contents) Has(ref Ref) bool {
	for _, m := range c.All(ref.Kind) {
		if m.Ref == ref {
			return true
		}
	}
	return false
}

func (c Contents) Len() int {
	return len(c.Items) + len(c.Containers) + len(c.Places) + len(c.Furniture)
}

// Sort orders each list by depth, then id, for stable output.
func (c *Contents) Sort() {
	for _, kind := range []Kind{KindItem, KindContainer, KindPlace, KindFurniture} {
		b := c.bucket(kind)
		sort.SliceStable(*b, func(i, j int) bool {
			if (*b)[i].Depth != (*b)[j].Depth {
				return (*b)[i].Depth < (*b)[j].Depth
			}
			return (*b)[i].Ref.ID < (*b)[j].Ref.ID
		})
	}
}
