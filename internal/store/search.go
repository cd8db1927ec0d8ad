package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/rcliao/semplan/internal/model"
)

// Search finds catalog courses whose code or names contain the query,
// case-insensitively. An empty query matches everything.
//
// SQLite's lower() only folds ASCII, so the text match runs in Go where
// Vietnamese capitals fold like any other letter.
func (s *SQLiteStore) Search(ctx context.Context, p SearchParams) ([]model.Course, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}
	query := strings.ToLower(strings.TrimSpace(p.Query))

	where := []string{"1 = 1"}
	if p.Unplaced {
		where = append(where, "c.code NOT IN (SELECT code FROM placements)")
	}
	if p.OfferedOnly {
		where = append(where, "c.offered = 1")
	}

	sql := fmt.Sprintf(`
		SELECT %s
		FROM courses c
		WHERE %s
		ORDER BY c.seq`, prefixed("c.", courseColumns), strings.Join(where, " AND "))

	rows, err := s.db.QueryContext(ctx, sql)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []model.Course
	for rows.Next() && len(results) < limit {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		if matches(c, query) {
			results = append(results, c)
		}
	}
	return results, rows.Err()
}

func matches(c model.Course, query string) bool {
	if query == "" {
		return true
	}
	for _, field := range []string{c.Code, c.Name, c.NameEN} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

func prefixed(prefix, columns string) string {
	cols := strings.Split(columns, ",")
	for i, c := range cols {
		cols[i] = prefix + strings.TrimSpace(c)
	}
	return strings.Join(cols, ", ")
}
