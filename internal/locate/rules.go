package locate

import "stowage/internal/inventory"

type placement int

const (
	// placedByTransition: the latest transition whose mover is the entity.
	placedByTransition placement = iota
	// placedByForeignKey: furniture.room_id.
	placedByForeignKey
	// placedAtRoot: rooms are the top of every chain.
	placedAtRoot
)

// kindRule is the per-kind behaviour shared by the resolver, the collector and Move.
type kindRule struct {
	placement placement
	// holds lists the mover kinds that may be moved directly into this kind.
	holds []inventory.Kind
	// roomFurniture is set for rooms, which hold furniture through room_id.
	roomFurniture bool
}

var rules = map[inventory.Kind]kindRule{
	inventory.KindItem: {
		placement: placedByTransition,
	},
	inventory.KindContainer: {
		placement: placedByTransition,
		holds:     []inventory.Kind{inventory.KindItem, inventory.KindContainer},
	},
	inventory.KindPlace: {
		placement: placedByTransition,
		holds:     []inventory.Kind{inventory.KindItem, inventory.KindContainer},
	},
	inventory.KindFurniture: {
		placement: placedByForeignKey,
		holds:     []inventory.Kind{inventory.KindItem, inventory.KindContainer, inventory.KindPlace},
	},
	inventory.KindRoom: {
		placement:     placedAtRoot,
		holds:         []inventory.Kind{inventory.KindItem, inventory.KindContainer, inventory.KindPlace},
		roomFurniture: true,
	},
}

// Accepts reports whether a mover of kind mover may be moved directly into dest.
func Accepts(dest, mover inventory.Kind) bool {
	for _, k := range rules[dest].holds {
		if k == mover {
			return true
		}
	}
	return false
}

// HeldKinds lists the kinds that can end up inside a holder of the given kind,
// directly or through nested holders.
func HeldKinds(holder inventory.Kind) []inventory.Kind {
	seen := map[inventory.Kind]bool{}
	var visit func(k inventory.Kind)
	visit = func(k inventory.Kind) {
		rule := rules[k]
		next := rule.holds
		if rule.roomFurniture {
			next = append([]inventory.Kind{inventory.KindFurniture}, next...)
		}
		for _, held := range next {
			if seen[held] {
				continue
			}
			seen[held] = true
			visit(held)
		}
	}
	visit(holder)

	out := make([]inventory.Kind, 0, len(seen))
	for _, k := range inventory.Kinds {
		if seen[k] {
			out = append(out, k)
		}
	}
	return out
}
