package inventory

import "time"

// Entity is one row of a kind table. Location is never stored on it.
type Entity struct {
	Kind      Kind
	ID        int64
	Name      string
	TypeID    int64
	CreatedAt time.Time
	DeletedAt *time.Time
	// RoomID is only set for furniture.
	RoomID int64
}

func (e Entity) Ref() Ref {
	return Ref{Kind: e.Kind, ID: e.ID}
}

func (e Entity) Deleted() bool {
	return e.DeletedAt != nil
}

// EntityInput creates or updates an entity. A zero ID lets the store assign one.
type EntityInput struct {
	Kind   Kind
	ID     int64
	Name   string
	TypeID int64
	RoomID int64
}

// Transition is one immutable movement event.
type Transition struct {
	ID          int64     `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	Mover       MoverRef  `json:"mover"`
	Destination DestRef   `json:"destination"`
}

// Newer orders transitions by time with the id as tiebreak.
func (t Transition) Newer(other Transition) bool {
	if !t.CreatedAt.Equal(other.CreatedAt) {
		return t.CreatedAt.After(other.CreatedAt)
	}
	return t.ID > other.ID
}

// TransitionInput is appended by a store; CreatedAt zero means now.
type TransitionInput struct {
	Mover       MoverRef
	Destination DestRef
	CreatedAt   time.Time
}

// TransitionFilter selects stored transitions. Empty fields do not filter,
// but at least one of MoverIDs or DestinationIDs must be given.
type TransitionFilter struct {
	MoverKind       Kind
	MoverIDs        []int64
	DestinationKind Kind
	DestinationIDs  []int64
	// Until excludes transitions created after it when non-zero.
	Until time.Time
}

func (f TransitionFilter) HasMovers() bool {
	return f.MoverKind != ""
}

func (f TransitionFilter) HasDestinations() bool {
	return f.DestinationKind != ""
}
