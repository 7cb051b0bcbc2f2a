package ecs

// Store holds every live component of one type, keyed by entity slot
// index. It is a sparse set: sparse maps a slot to its position in the
// dense arrays (offset by one so the zero value means absent), which keeps
// add, lookup and remove O(1) and iteration cache friendly.
type Store struct {
	typ    TypeID
	sparse []int32
	dense  []Component
	owners []uint32
}

func newStore(typ TypeID) *Store {
	return &Store{
		typ:    typ,
		dense:  make([]Component, 0, 64),
		owners: make([]uint32, 0, 64),
	}
}

func (s *Store) Type() TypeID  { return s.typ }
func (s *Store) Len() int      { return len(s.dense) }
func (s *Store) IsEmpty() bool { return len(s.dense) == 0 }

func (s *Store) Has(index uint32) bool {
	return int(index) < len(s.sparse) && s.sparse[index] != 0
}

// Get returns the component owned by slot index, or nil.
func (s *Store) Get(index uint32) Component {
	if !s.Has(index) {
		return nil
	}
	return s.dense[s.sparse[index]-1]
}

// Add stores c for slot index. If the slot already owns a component of
// this type the existing one is returned with false and c is discarded.
func (s *Store) Add(index uint32, c Component) (Component, bool) {
	if existing := s.Get(index); existing != nil {
		return existing, false
	}
	if int(index) >= len(s.sparse) {
		grown := make([]int32, int(index)+1, max(int(index)+1, 2*len(s.sparse)))
		copy(grown, s.sparse)
		s.sparse = grown
	}
	s.dense = append(s.dense, c)
	s.owners = append(s.owners, index)
	s.sparse[index] = int32(len(s.dense))
	return c, true
}

// Remove drops the component owned by slot index and returns it, or nil
// when there was none. The last dense element is swapped into the hole.
func (s *Store) Remove(index uint32) Component {
	if !s.Has(index) {
		return nil
	}
	pos := s.sparse[index] - 1
	removed := s.dense[pos]
	last := int32(len(s.dense) - 1)

	if pos != last {
		s.dense[pos] = s.dense[last]
		s.owners[pos] = s.owners[last]
		s.sparse[s.owners[pos]] = pos + 1
	}
	s.dense[last] = nil
	s.dense = s.dense[:last]
	s.owners = s.owners[:last]
	s.sparse[index] = 0
	return removed
}

// Each visits components in dense order. fn must not add or remove
// components of this type.
func (s *Store) Each(fn func(index uint32, c Component)) {
	for i, c := range s.dense {
		fn(s.owners[i], c)
	}
}
