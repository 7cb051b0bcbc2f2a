package system

import (
	"context"
	"time"

	"github.com/framewright/engine/internal/core/ecs"
	coresys "github.com/framewright/engine/internal/core/system"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SnapshotStore persists one root entity archive. persist.SnapshotRepo
// implements it.
type SnapshotStore interface {
	Save(ctx context.Context, scene, name string, id uuid.UUID, doc []byte) (bool, error)
}

// SnapshotSystem periodically archives every root entity subtree.
// Phase 3 (Persist).
type SnapshotSystem struct {
	m         *ecs.Manager
	store     SnapshotStore
	scene     string
	log       *zap.Logger
	tickCount int
	interval  int // snapshot every N ticks, 0 = only on SaveAll
}

func NewSnapshotSystem(m *ecs.Manager, store SnapshotStore, scene string, log *zap.Logger, intervalTicks int) *SnapshotSystem {
	return &SnapshotSystem{
		m:        m,
		store:    store,
		scene:    scene,
		log:      log,
		interval: intervalTicks,
	}
}

func (s *SnapshotSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *SnapshotSystem) Update(_ time.Duration) {
	if s.interval <= 0 {
		return
	}
	s.tickCount++
	if s.tickCount < s.interval {
		return
	}
	s.tickCount = 0
	s.SaveAll()
}

// SaveAll archives every root entity now. Called on graceful shutdown as
// well as by the periodic tick. Returns the number of rows written.
func (s *SnapshotSystem) SaveAll() int {
	written, skipped := 0, 0
	for _, h := range s.m.GetRootLevelEntities() {
		e := s.m.Entity(h)
		if e == nil || e.PendingDestroy() {
			continue
		}
		doc, err := s.m.Serialize(h)
		if err != nil {
			s.log.Error("serialize entity failed", zap.Stringer("entity", h), zap.Error(err))
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		saved, err := s.store.Save(ctx, s.scene, e.Name(), e.UUID(), doc)
		cancel()
		if err != nil {
			s.log.Error("snapshot save failed", zap.Stringer("entity", h), zap.Error(err))
			continue
		}
		if saved {
			written++
		} else {
			skipped++
		}
	}
	if written > 0 {
		s.log.Info("snapshot complete",
			zap.String("scene", s.scene),
			zap.Int("written", written),
			zap.Int("unchanged", skipped))
	}
	return written
}
