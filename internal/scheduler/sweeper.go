package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"smart-collab/internal/repository"
	"smart-collab/internal/storage"
	"smart-collab/pkg/logger"
)

// Sweeper deletes stored objects that no file record points at. Objects
// younger than grace are left alone so in-flight uploads survive.
type Sweeper struct {
	store   *repository.Store
	objects storage.ObjectStore
	grace   time.Duration
	now     func() time.Time
}

func NewSweeper(store *repository.Store, objects storage.ObjectStore, grace time.Duration) *Sweeper {
	return &Sweeper{store: store, objects: objects, grace: grace, now: time.Now}
}

// Sweep removes unreferenced objects and returns how many were deleted.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	cutoff := s.now().Add(-s.grace)

	var candidates []string
	err := s.objects.Walk(ctx, func(o storage.Object) error {
		if o.ModTime.After(cutoff) {
			return nil
		}
		referenced, err := s.store.Files.ObjectPathExists(ctx, o.Path)
		if err != nil {
			return err
		}
		if !referenced {
			candidates = append(candidates, o.Path)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, p := range candidates {
		if err := s.objects.Delete(ctx, p); err != nil {
			logger.ErrorLogger.Error("Error deleting orphaned object", zap.String("path", p), zap.Error(err))
			continue
		}
		removed++
	}
	return removed, nil
}

// Job adapts Sweep for the scheduler.
func (s *Sweeper) Job(ctx context.Context) func() {
	return func() {
		removed, err := s.Sweep(ctx)
		if err != nil {
			logger.ErrorLogger.Error("Orphan sweep failed", zap.Error(err))
			return
		}
		if removed > 0 {
			logger.SystemLogger.Info("Orphan sweep finished", zap.Int("removed", removed))
		}
	}
}
