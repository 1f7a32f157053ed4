package rtree

// slab is an arena over a slice of T, indexed by a stable numeric id. A
// removed slot is never handed back out by insert: it is only parked on
// pendingRemoved, and the id space is reclaimed exclusively by compact,
// which renumbers every surviving slot densely from 0. This is what keeps
// a soft-deleted data id from colliding with whatever the very next insert
// allocates, matching the "no id reuse until compaction" contract
// ObjSpace's mark-as-removed / clone-shrink pair is built on. Grounded in
// shape on the storage described by original_source's ShrinkableStorage,
// expressed here as ordinary Go: no pack repo or ecosystem-grounded
// slab/arena library is wired anywhere in the retrieval pack (see
// DESIGN.md).
type slab[T any] struct {
	slots          []slabSlot[T]
	live           int
	pendingRemoved []uint32
}

type slabSlot[T any] struct {
	value T
	inUse bool
}

func newSlab[T any]() *slab[T] {
	return &slab[T]{}
}

// insert always allocates a brand new slot; it never reuses the id of a
// removed slot, since that reuse only happens through compact.
func (s *slab[T]) insert(value T) uint32 {
	s.slots = append(s.slots, slabSlot[T]{value: value, inUse: true})
	s.live++
	return uint32(len(s.slots) - 1)
}

// get returns a pointer to the slot's value. Panics if id was never
// allocated or has since been removed — reading through a dangling id is a
// precondition violation, not a recoverable condition.
func (s *slab[T]) get(id uint32) *T {
	if int(id) >= len(s.slots) || !s.slots[id].inUse {
		fail("slab.get", "id %d is not a live slot", id)
	}
	return &s.slots[id].value
}

// has reports whether id currently names a live slot.
func (s *slab[T]) has(id uint32) bool {
	return int(id) < len(s.slots) && s.slots[id].inUse
}

// remove parks id: it stops counting as live and get/has reject it, but its
// value is left in place and its id recorded on pendingRemoved so a later
// restoreAll can bring it back. Removing an already-parked id is a
// precondition violation.
func (s *slab[T]) remove(id uint32) {
	if int(id) >= len(s.slots) || !s.slots[id].inUse {
		fail("slab.remove", "id %d is not a live slot", id)
	}
	s.slots[id].inUse = false
	s.pendingRemoved = append(s.pendingRemoved, id)
	s.live--
}

// restoreAll un-parks every id removed since the last compaction, in the
// order they were removed.
func (s *slab[T]) restoreAll() {
	for _, id := range s.pendingRemoved {
		s.slots[id].inUse = true
		s.live++
	}
	s.pendingRemoved = nil
}

// len returns the number of currently live slots.
func (s *slab[T]) len() int { return s.live }

// ids returns the ids of every live slot, in ascending order.
func (s *slab[T]) ids() []uint32 {
	out := make([]uint32, 0, s.live)
	for i, slot := range s.slots {
		if slot.inUse {
			out = append(out, uint32(i))
		}
	}
	return out
}

// compact returns a new slab containing only the live values of s,
// renumbered densely from 0, along with the mapping from old id to new id.
// Parked ids are dropped for good here: this is the one place the id space
// is actually reclaimed. Used by ObjSpace's clone-shrink compaction path.
func (s *slab[T]) compact() (*slab[T], map[uint32]uint32) {
	fresh := newSlab[T]()
	remap := make(map[uint32]uint32, s.live)
	for i, slot := range s.slots {
		if slot.inUse {
			newID := fresh.insert(slot.value)
			remap[uint32(i)] = newID
		}
	}
	return fresh, remap
}
