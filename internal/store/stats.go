package store

import (
	"context"
	"os"
	"sort"

	"github.com/rcliao/semplan/internal/plan"
)

// Stats holds database statistics.
type Stats struct {
	DBPath           string          `json:"db_path"`
	DBSizeBytes      int64           `json:"db_size_bytes"`
	CatalogSource    string          `json:"catalog_source,omitempty"`
	CatalogUpdatedAt string          `json:"catalog_updated_at,omitempty"`
	Courses          int             `json:"courses"`
	OfferedCourses   int             `json:"offered_courses"`
	PlacedCourses    int             `json:"placed_courses"`
	PlacedCredits    int             `json:"placed_credits"`
	Moves            int             `json:"moves"`
	RejectedMoves    int             `json:"rejected_moves"`
	Semesters        []SemesterStats `json:"semesters"`
}

// SemesterStats holds per-semester counts.
type SemesterStats struct {
	Semester string `json:"semester"`
	Courses  int    `json:"courses"`
	Credits  int    `json:"credits"`
}

// Stats returns database statistics.
func (s *SQLiteStore) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{
		DBPath:           dbPath,
		CatalogSource:    s.meta(ctx, "catalog_source"),
		CatalogUpdatedAt: s.meta(ctx, "catalog_updated_at"),
	}

	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM courses`).Scan(&st.Courses)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM courses WHERE offered = 1`).Scan(&st.OfferedCourses)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM moves`).Scan(&st.Moves)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM moves WHERE outcome = ?`, string(plan.EventRejected)).Scan(&st.RejectedMoves)

	rows, err := s.db.QueryContext(ctx, `
		SELECT p.semester, COUNT(*), COALESCE(SUM(c.total_credits), 0)
		FROM placements p LEFT JOIN courses c ON c.code = p.code
		GROUP BY p.semester`)
	if err != nil {
		return st, err
	}
	defer rows.Close()

	for rows.Next() {
		var sem SemesterStats
		if err := rows.Scan(&sem.Semester, &sem.Courses, &sem.Credits); err != nil {
			return st, err
		}
		st.PlacedCourses += sem.Courses
		st.PlacedCredits += sem.Credits
		st.Semesters = append(st.Semesters, sem)
	}
	sort.Slice(st.Semesters, func(i, j int) bool {
		return plan.ContainerID(st.Semesters[i].Semester).Ordinal() < plan.ContainerID(st.Semesters[j].Semester).Ordinal()
	})

	return st, rows.Err()
}
