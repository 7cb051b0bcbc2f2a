package ecs

import (
	"github.com/framewright/engine/internal/core/event"
	"github.com/framewright/engine/internal/core/transform"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultMaxEntities is used when Options.MaxEntities is not positive.
const DefaultMaxEntities = 4096

// RunState tells the manager whether the application is playing. Pending
// lifecycle work only drains, and TickWhenRunning components only tick,
// while IsRunning reports true.
type RunState interface {
	IsRunning() bool
}

type alwaysRunning struct{}

func (alwaysRunning) IsRunning() bool { return true }

type Options struct {
	MaxEntities int
	Types       *Types
	RunState    RunState
	Bus         *event.Bus
	Log         *zap.Logger
}

// Manager owns the entity arena, the component stores and the deferred
// queues that make structural changes visible only at frame boundaries.
// It is single-threaded: all calls must come from the frame loop.
type Manager struct {
	pool   pool
	types  *Types
	stores map[TypeID]*Store
	run    RunState
	bus    *event.Bus
	log    *zap.Logger

	active         []*Entity
	pendingAdd     []*Entity
	pendingDestroy []Handle
	pendingInit    []Component
	pendingStart   []Component

	uuids map[uuid.UUID]uint32

	scratch []TypeID
}

func NewManager(opts Options) *Manager {
	if opts.MaxEntities <= 0 {
		opts.MaxEntities = DefaultMaxEntities
	}
	if opts.Types == nil {
		opts.Types = NewTypes()
	}
	if opts.RunState == nil {
		opts.RunState = alwaysRunning{}
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	m := &Manager{
		types:  opts.Types,
		stores: make(map[TypeID]*Store, opts.Types.Len()),
		run:    opts.RunState,
		bus:    opts.Bus,
		log:    opts.Log,
		active: make([]*Entity, 0, opts.MaxEntities),
		uuids:  make(map[uuid.UUID]uint32, opts.MaxEntities),
	}
	m.pool = newPool(m, opts.MaxEntities)
	return m
}

func (m *Manager) Types() *Types    { return m.types }
func (m *Manager) Bus() *event.Bus  { return m.bus }
func (m *Manager) Capacity() int    { return len(m.pool.slots) }
func (m *Manager) Running() bool    { return m.run.IsRunning() }
func (m *Manager) Log() *zap.Logger { return m.log }

func emit[T any](m *Manager, ev T) {
	if m.bus != nil {
		event.Emit(m.bus, ev)
	}
}

// Allocate claims a free slot. The entity resolves immediately but only
// joins the active set at the next frame boundary.
func (m *Manager) Allocate() (Handle, error) {
	e := m.pool.acquire()
	if e == nil {
		m.log.Warn("entity allocation failed", zap.Int("capacity", m.Capacity()))
		return Nil, ErrCapacityExhausted
	}
	return m.activate(e, uuid.New()), nil
}

func (m *Manager) activate(e *Entity, id uuid.UUID) Handle {
	e.state = Active
	e.uuid = id
	e.local = transform.Identity()
	e.world = transform.Identity()
	e.worldDirty = false
	m.uuids[id] = e.handle.Index()
	m.pendingAdd = append(m.pendingAdd, e)
	emit(m, EntityAllocated{Entity: e.handle, UUID: id})
	return e.handle
}

// Destroy queues h for teardown at the next Cleanup. Invalid handles and
// entities already queued are ignored.
func (m *Manager) Destroy(h Handle) {
	e := m.pool.resolve(h)
	if e == nil || e.pendingDestroy {
		return
	}
	e.pendingDestroy = true
	m.pendingDestroy = append(m.pendingDestroy, h)
	m.dropQueued(h)
}

// DestroyAll queues every live entity, including ones not yet active.
func (m *Manager) DestroyAll() {
	for _, e := range m.active {
		m.Destroy(e.handle)
	}
	for _, e := range m.pendingAdd {
		m.Destroy(e.handle)
	}
	m.pendingInit = m.pendingInit[:0]
	m.pendingStart = m.pendingStart[:0]
}

// Entity resolves h. The result must not be kept across frames.
func (m *Manager) Entity(h Handle) *Entity { return m.pool.resolve(h) }

func (m *Manager) Valid(h Handle) bool { return m.pool.resolve(h) != nil }

func (m *Manager) GetEntityByUUID(id uuid.UUID) (Handle, bool) {
	idx, ok := m.uuids[id]
	if !ok {
		return Nil, false
	}
	e := &m.pool.slots[idx]
	if e.state != Active || e.uuid != id {
		return Nil, false
	}
	return e.handle, true
}

// GetRootLevelEntities returns the active entities without a live parent.
func (m *Manager) GetRootLevelEntities() []Handle {
	out := make([]Handle, 0, len(m.active))
	for _, e := range m.active {
		if !e.HasParent() {
			out = append(out, e.handle)
		}
	}
	return out
}

// ActiveEntities returns handles of the entities that joined the active
// set, in join order.
func (m *Manager) ActiveEntities() []Handle {
	out := make([]Handle, len(m.active))
	for i, e := range m.active {
		out[i] = e.handle
	}
	return out
}

// Len counts live entities, including ones allocated this frame.
func (m *Manager) Len() int { return len(m.active) + len(m.pendingAdd) }

// Shutdown tears down every entity and component immediately and drops
// all stores.
func (m *Manager) Shutdown() {
	m.DestroyAll()
	m.Cleanup()
	m.ForceAddEntities()
	clear(m.stores)
	m.log.Debug("entity manager shut down")
}

func (m *Manager) component(e *Entity, typ TypeID) Component {
	s := m.stores[typ]
	if s == nil {
		return nil
	}
	return s.Get(e.handle.Index())
}
