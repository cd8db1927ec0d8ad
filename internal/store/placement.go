package store

import (
	"context"
	"fmt"
	"sort"

	"github.com/rcliao/semplan/internal/plan"
)

// SavePlacements replaces all saved placements with ps.
func (s *SQLiteStore) SavePlacements(ctx context.Context, ps []plan.Placement) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM placements`); err != nil {
		return fmt.Errorf("clear placements: %w", err)
	}
	for _, p := range ps {
		if !p.Semester.IsSemester() {
			return fmt.Errorf("placement %s: %q is not a semester", p.Code, p.Semester)
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO placements (code, semester, position) VALUES (?, ?, ?)`,
			p.Code, string(p.Semester), p.Position)
		if err != nil {
			return fmt.Errorf("insert placement %s: %w", p.Code, err)
		}
	}
	return tx.Commit()
}

// Placements returns saved placements ordered by semester and position.
func (s *SQLiteStore) Placements(ctx context.Context) ([]plan.Placement, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT code, semester, position FROM placements ORDER BY semester, position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ps []plan.Placement
	for rows.Next() {
		var p plan.Placement
		var sem string
		if err := rows.Scan(&p.Code, &sem, &p.Position); err != nil {
			return nil, err
		}
		p.Semester = plan.ContainerID(sem)
		ps = append(ps, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sort.SliceStable(ps, func(i, j int) bool {
		return ps[i].Semester.Ordinal() < ps[j].Semester.Ordinal()
	})
	return ps, nil
}
