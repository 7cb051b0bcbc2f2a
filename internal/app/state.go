// Package app holds process-wide application state that the frame loop
// consults, passed explicitly to whoever needs it.
package app

import "sync/atomic"

// State is the play/pause switch. The entity manager reads it every frame
// through ecs.RunState; it may be flipped from any goroutine (signal
// handlers, tooling).
type State struct {
	running atomic.Bool
}

func NewState(running bool) *State {
	s := &State{}
	s.running.Store(running)
	return s
}

func (s *State) IsRunning() bool { return s.running.Load() }
func (s *State) Play()           { s.running.Store(true) }
func (s *State) Pause()          { s.running.Store(false) }

// Toggle flips the state and returns the new value.
func (s *State) Toggle() bool {
	for {
		cur := s.running.Load()
		if s.running.CompareAndSwap(cur, !cur) {
			return !cur
		}
	}
}
