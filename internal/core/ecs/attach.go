package ecs

import (
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// RegisterComponent makes sure a store exists for typ.
func (m *Manager) RegisterComponent(typ TypeID) error {
	if !m.types.Known(typ) {
		return ErrUnknownComponentType
	}
	if m.stores[typ] == nil {
		m.stores[typ] = newStore(typ)
	}
	return nil
}

// UnregisterComponent drops the store for typ. Stores that still hold
// components are kept and false is returned.
func (m *Manager) UnregisterComponent(typ TypeID) bool {
	s := m.stores[typ]
	if s == nil {
		return false
	}
	if !s.IsEmpty() {
		return false
	}
	delete(m.stores, typ)
	return true
}

// Store returns the store for typ, or nil if none was created yet.
func (m *Manager) Store(typ TypeID) *Store { return m.stores[typ] }

// RegisteredTypes lists the types that currently have a store.
func (m *Manager) RegisteredTypes() []TypeID {
	out := make([]TypeID, 0, len(m.stores))
	for i := 0; i < m.types.Len(); i++ {
		if m.stores[TypeID(i)] != nil {
			out = append(out, TypeID(i))
		}
	}
	return out
}

// AddComponent attaches typ to h together with every type it transitively
// requires, requirements first. Adding a type that is already attached
// returns the existing instance. New components are queued for Initialize
// and Start on the next drain.
func (m *Manager) AddComponent(h Handle, typ TypeID) (Component, error) {
	e := m.pool.resolve(h)
	if e == nil {
		return nil, ErrInvalidHandle
	}
	if !m.types.Known(typ) {
		return nil, ErrUnknownComponentType
	}
	if c := m.component(e, typ); c != nil {
		return c, nil
	}
	var added Component
	for _, t := range m.types.Closure(typ) {
		if c := m.component(e, t); c != nil {
			added = c
			continue
		}
		c, err := m.attach(e, t)
		if err != nil {
			return nil, eris.Wrapf(err, "attach %s to %s", m.types.Name(t), h)
		}
		added = c
	}
	return added, nil
}

func (m *Manager) attach(e *Entity, typ TypeID) (Component, error) {
	desc, _ := m.types.Descriptor(typ)
	c := desc.New()
	if c == nil {
		return nil, ErrNilComponent
	}
	b := c.base()
	b.entity = e.handle
	b.typ = typ
	b.tick = desc.Tick
	b.state = StatePendingInit

	if err := m.RegisterComponent(typ); err != nil {
		return nil, err
	}
	m.stores[typ].Add(e.handle.Index(), c)
	e.addType(typ)
	m.pendingInit = append(m.pendingInit, c)
	m.pendingStart = append(m.pendingStart, c)

	c.UpdateTransform(e.WorldTransform())
	emit(m, ComponentAdded{Entity: e.handle, Type: typ})
	m.log.Debug("component attached",
		zap.Stringer("entity", e.handle),
		zap.String("type", desc.Name))
	return c, nil
}

// RemoveComponent shuts down and releases typ on h right away. Components
// that require typ are left attached.
func (m *Manager) RemoveComponent(h Handle, typ TypeID) bool {
	e := m.pool.resolve(h)
	if e == nil {
		return false
	}
	c := m.component(e, typ)
	if c == nil {
		return false
	}
	m.dropComponent(c)
	m.teardown(e, typ)
	return true
}

func (m *Manager) GetComponent(h Handle, typ TypeID) Component {
	e := m.pool.resolve(h)
	if e == nil {
		return nil
	}
	return m.component(e, typ)
}

func (m *Manager) HasComponent(h Handle, typ TypeID) bool {
	e := m.pool.resolve(h)
	return e != nil && e.HasComponent(typ)
}

// GetComponents returns the components of h in attachment order.
func (m *Manager) GetComponents(h Handle) []Component {
	e := m.pool.resolve(h)
	if e == nil {
		return nil
	}
	out := make([]Component, 0, len(e.types))
	for _, typ := range e.types {
		if c := m.component(e, typ); c != nil {
			out = append(out, c)
		}
	}
	return out
}

// Get returns the first component of h whose concrete type is T.
func Get[T Component](m *Manager, h Handle) (T, bool) {
	var zero T
	e := m.pool.resolve(h)
	if e == nil {
		return zero, false
	}
	for _, typ := range e.types {
		if c, ok := m.component(e, typ).(T); ok {
			return c, true
		}
	}
	return zero, false
}
