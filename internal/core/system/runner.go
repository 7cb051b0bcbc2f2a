package system

import "time"

// Runner executes systems bucketed by phase. Buckets run in ascending
// phase order; systems within a bucket keep their registration order.
type Runner struct {
	buckets [][]System
	n       int
}

func NewRunner() *Runner {
	return &Runner{buckets: make([][]System, len(phaseNames))}
}

func (r *Runner) Register(s System) {
	p := max(int(s.Phase()), 0)
	for len(r.buckets) <= p {
		r.buckets = append(r.buckets, nil)
	}
	r.buckets[p] = append(r.buckets[p], s)
	r.n++
}

// Tick runs one frame.
func (r *Runner) Tick(dt time.Duration) {
	for _, bucket := range r.buckets {
		for _, s := range bucket {
			s.Update(dt)
		}
	}
}

// TickPhase runs only the systems registered for phase.
func (r *Runner) TickPhase(phase Phase, dt time.Duration) {
	if phase < 0 || int(phase) >= len(r.buckets) {
		return
	}
	for _, s := range r.buckets[phase] {
		s.Update(dt)
	}
}

func (r *Runner) Len() int { return r.n }
