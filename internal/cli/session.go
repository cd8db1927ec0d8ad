package cli

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/rcliao/semplan/internal/plan"
	"github.com/rcliao/semplan/internal/store"
)

// session is a store plus an engine rebuilt from the stored catalog and the
// saved placements. Moves made through it are recorded in the history and
// saved on commit.
type session struct {
	store  *store.SQLiteStore
	engine *plan.Engine
}

func openStore() (*store.SQLiteStore, error) {
	return store.NewSQLiteStore(getDBPath())
}

func engineOptions() []plan.Option {
	return []plan.Option{
		plan.WithSemesters(cfg.Plan.Semesters),
		plan.WithOverloadThreshold(cfg.Plan.OverloadThreshold),
	}
}

func openSession(ctx context.Context) (*session, error) {
	s, err := openStore()
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	courses, err := s.Courses(ctx)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	if len(courses) == 0 {
		logger.Warn("catalog is empty; run `semplan fetch` first")
	}

	e := plan.New(courses, engineOptions()...)
	for _, code := range e.Dropped() {
		logger.Warn("duplicate course code in catalog", zap.String("code", code))
	}

	placements, err := s.Placements(ctx)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("load placements: %w", err)
	}
	restored, skipped := e.Restore(placements)
	for _, err := range skipped {
		logger.Warn("saved placement dropped", zap.Error(err))
	}
	logger.Debug("plan restored",
		zap.Int("courses", len(courses)),
		zap.Int("placed", restored),
		zap.Int("dropped", len(skipped)))

	sess := &session{store: s, engine: e}
	e.Subscribe(func(ev plan.Event) {
		if _, err := s.RecordMove(ctx, ev); err != nil {
			logger.Warn("record move", zap.Error(err))
		}
		if ev.Kind == plan.EventCommitted {
			if err := s.SavePlacements(ctx, e.Placements()); err != nil {
				logger.Error("save placements", zap.Error(err))
			}
		}
	})
	return sess, nil
}

func (s *session) Close() error {
	return s.store.Close()
}

// course resolves a course code against the catalog.
func (s *session) course(code string) (*courseView, error) {
	c, ok := s.engine.Course(code)
	if !ok {
		return nil, fmt.Errorf("course %s not in catalog", code)
	}
	where, _ := s.engine.Locate(code)
	return &courseView{Course: c, Semester: where}, nil
}
