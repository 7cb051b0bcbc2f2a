package system

import (
	"time"

	"github.com/framewright/engine/internal/core/ecs"
	coresys "github.com/framewright/engine/internal/core/system"
)

// EntitySystem runs the manager's frame: deferred destruction, activation
// of new entities, pending Initialize/Start and component ticks.
// Phase 1 (Update).
type EntitySystem struct {
	m *ecs.Manager
}

func NewEntitySystem(m *ecs.Manager) *EntitySystem {
	return &EntitySystem{m: m}
}

func (s *EntitySystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *EntitySystem) Update(dt time.Duration) {
	s.m.Update(dt)
}

// TransformSystem propagates world transforms after every Update.
// Phase 2 (LateUpdate).
type TransformSystem struct {
	m *ecs.Manager
}

func NewTransformSystem(m *ecs.Manager) *TransformSystem {
	return &TransformSystem{m: m}
}

func (s *TransformSystem) Phase() coresys.Phase { return coresys.PhaseLateUpdate }

func (s *TransformSystem) Update(_ time.Duration) {
	s.m.LateUpdate()
}
