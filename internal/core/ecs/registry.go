package ecs

import (
	"golang.org/x/text/cases"
)

// TypeID identifies a registered component type. Ids are dense, starting
// at 0, in registration order.
type TypeID uint32

// MaxComponentTypes bounds the registry so a type id always fits the
// per-entity component mask.
const MaxComponentTypes = 64

// Descriptor is everything the manager needs to know about a component
// type: how to build one, what it depends on and when it ticks.
type Descriptor struct {
	Name     string
	New      func() Component
	Requires []TypeID
	Tick     TickPolicy
}

// Types is the component type registry. Names are matched case-insensitively.
type Types struct {
	descs  []Descriptor
	byName map[string]TypeID
	fold   cases.Caser
}

func NewTypes() *Types {
	return &Types{
		descs:  make([]Descriptor, 0, 16),
		byName: make(map[string]TypeID, 16),
		fold:   cases.Fold(),
	}
}

// Register adds a type and returns its id. Required types must already be
// registered, which keeps the requirement graph acyclic.
func (t *Types) Register(d Descriptor) (TypeID, error) {
	if d.Name == "" || d.New == nil {
		return 0, ErrInvalidDescriptor
	}
	key := t.fold.String(d.Name)
	if _, dup := t.byName[key]; dup {
		return 0, ErrDuplicateTypeName
	}
	if len(t.descs) >= MaxComponentTypes {
		return 0, ErrTooManyComponentTypes
	}
	for _, req := range d.Requires {
		if !t.Known(req) {
			return 0, ErrUnknownComponentType
		}
	}
	id := TypeID(len(t.descs))
	d.Requires = append([]TypeID(nil), d.Requires...)
	t.descs = append(t.descs, d)
	t.byName[key] = id
	return id, nil
}

func (t *Types) Known(id TypeID) bool { return int(id) < len(t.descs) }

func (t *Types) Len() int { return len(t.descs) }

func (t *Types) Lookup(name string) (TypeID, bool) {
	id, ok := t.byName[t.fold.String(name)]
	return id, ok
}

func (t *Types) Descriptor(id TypeID) (Descriptor, bool) {
	if !t.Known(id) {
		return Descriptor{}, false
	}
	return t.descs[id], true
}

func (t *Types) Name(id TypeID) string {
	if !t.Known(id) {
		return ""
	}
	return t.descs[id].Name
}

// Required returns the direct requirements of id.
func (t *Types) Required(id TypeID) []TypeID {
	if !t.Known(id) {
		return nil
	}
	return append([]TypeID(nil), t.descs[id].Requires...)
}

// Closure returns id and everything it transitively requires, ordered so
// that every type comes after all of its requirements. id is last.
func (t *Types) Closure(id TypeID) []TypeID {
	if !t.Known(id) {
		return nil
	}
	var (
		order   []TypeID
		visited = make(map[TypeID]bool, 4)
	)
	var visit func(TypeID)
	visit = func(cur TypeID) {
		if visited[cur] {
			return
		}
		visited[cur] = true
		for _, req := range t.descs[cur].Requires {
			visit(req)
		}
		order = append(order, cur)
	}
	visit(id)
	return order
}
