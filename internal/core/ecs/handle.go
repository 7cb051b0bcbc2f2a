package ecs

import "fmt"

// Handle is a weak reference to an entity. It encodes a 32-bit slot index
// in the lower bits and a 32-bit generation in the upper bits. The
// generation is bumped every time a slot is recycled, so a handle captured
// before a destroy never resolves to the slot's next occupant.
//
// A Handle must be resolved through Manager.Entity on every use.
type Handle uint64

// Nil never refers to a live entity: slot generations start at 1.
const Nil Handle = 0

func NewHandle(index uint32, generation uint32) Handle {
	return Handle(uint64(generation)<<32 | uint64(index))
}

func (h Handle) Index() uint32      { return uint32(h) }
func (h Handle) Generation() uint32 { return uint32(h >> 32) }
func (h Handle) IsNil() bool        { return h == Nil }

func (h Handle) String() string {
	if h.IsNil() {
		return "entity(nil)"
	}
	return fmt.Sprintf("entity(%d@%d)", h.Index(), h.Generation())
}
