package system

import "time"

// Phase defines execution ordering within a single frame.
type Phase int

const (
	PhaseEvents     Phase = iota // 0: swap + dispatch last frame's events
	PhaseUpdate                  // 1: cleanup, drain lifecycle queues, tick components
	PhaseLateUpdate              // 2: propagate transforms
	PhasePersist                 // 3: periodic snapshots
)

var phaseNames = [...]string{"events", "update", "late-update", "persist"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// System is the interface every frame system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
