package store

import (
	"context"
	"fmt"
	"time"

	"github.com/rcliao/semplan/internal/plan"
)

// PlanDocument is the portable form of a saved plan.
type PlanDocument struct {
	Version    int              `json:"version"`
	ExportedAt time.Time        `json:"exported_at"`
	Placements []plan.Placement `json:"placements"`
}

// ExportPlan returns the saved placements as a document.
func (s *SQLiteStore) ExportPlan(ctx context.Context) (*PlanDocument, error) {
	ps, err := s.Placements(ctx)
	if err != nil {
		return nil, err
	}
	if ps == nil {
		ps = []plan.Placement{}
	}
	return &PlanDocument{Version: 1, ExportedAt: s.now().Truncate(time.Second), Placements: ps}, nil
}

// ImportPlan validates doc against the stored catalog and engine settings
// and saves the placements that survive. The placements are replayed through
// the engine, so an imported plan obeys the same ordering rules as one built
// by hand. Returns the number imported and the placements that were skipped.
func (s *SQLiteStore) ImportPlan(ctx context.Context, doc *PlanDocument, opts ...plan.Option) (int, []error, error) {
	if doc.Version != 1 {
		return 0, nil, fmt.Errorf("unsupported plan version %d", doc.Version)
	}
	courses, err := s.Courses(ctx)
	if err != nil {
		return 0, nil, fmt.Errorf("load catalog: %w", err)
	}

	e := plan.New(courses, opts...)
	imported, skipped := e.Restore(doc.Placements)
	if err := s.SavePlacements(ctx, e.Placements()); err != nil {
		return 0, skipped, err
	}
	return imported, skipped, nil
}
