// Package store persists the course catalog, the placed courses of a study
// plan and the move history in SQLite.
package store

import (
	"context"
	"time"

	"github.com/rcliao/semplan/internal/model"
	"github.com/rcliao/semplan/internal/plan"
)

// SearchParams holds parameters for searching the catalog.
type SearchParams struct {
	Query       string
	Unplaced    bool // only courses not placed in any semester
	OfferedOnly bool
	Limit       int
}

// MoveRecord is one entry of the move history.
type MoveRecord struct {
	ID              string    `json:"id"`
	Code            string    `json:"code"`
	From            string    `json:"from"`
	To              string    `json:"to"`
	Outcome         string    `json:"outcome"`
	Rule            string    `json:"rule,omitempty"`
	Related         string    `json:"related,omitempty"`
	RelatedSemester string    `json:"related_semester,omitempty"`
	Message         string    `json:"message,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// Store defines the persistence interface used by the CLI.
type Store interface {
	// ReplaceCatalog swaps the stored catalog for courses. Placements are
	// kept; codes that vanished are reported when the plan is restored.
	ReplaceCatalog(ctx context.Context, source string, courses []model.Course) (int, error)

	// Courses returns the stored catalog in catalog order.
	Courses(ctx context.Context) ([]model.Course, error)

	// SavePlacements replaces the saved placements with ps.
	SavePlacements(ctx context.Context, ps []plan.Placement) error

	// Placements returns the saved placements.
	Placements(ctx context.Context) ([]plan.Placement, error)

	// RecordMove appends an entry to the move history.
	RecordMove(ctx context.Context, ev plan.Event) (*MoveRecord, error)

	// History lists the most recent moves, newest first.
	History(ctx context.Context, limit int) ([]MoveRecord, error)

	// Close closes the store.
	Close() error
}
