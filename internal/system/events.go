package system

import (
	"time"

	"github.com/framewright/engine/internal/core/event"
	coresys "github.com/framewright/engine/internal/core/system"
)

// EventSystem swaps the bus buffers and delivers last frame's events.
// Phase 0 (Events).
type EventSystem struct {
	bus *event.Bus
}

func NewEventSystem(bus *event.Bus) *EventSystem {
	return &EventSystem{bus: bus}
}

func (s *EventSystem) Phase() coresys.Phase { return coresys.PhaseEvents }

func (s *EventSystem) Update(_ time.Duration) {
	s.bus.SwapBuffers()
	s.bus.DispatchAll()
}
