package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rcliao/semplan/internal/plan"
)

// RecordMove stores a committed or rejected move.
func (s *SQLiteStore) RecordMove(ctx context.Context, ev plan.Event) (*MoveRecord, error) {
	rec := &MoveRecord{
		ID:        s.newID(),
		Code:      ev.Code,
		From:      string(ev.From),
		To:        string(ev.To),
		Outcome:   string(ev.Kind),
		CreatedAt: s.now().Truncate(time.Second),
	}
	if rej := ev.Rejection; rej != nil {
		rec.Rule = string(rej.Rule)
		rec.Related = rej.Related.Code
		rec.RelatedSemester = string(rej.RelatedSemester)
		rec.Message = rej.Error()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO moves (id, code, from_id, to_id, outcome, rule, related, related_semester, message, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Code, rec.From, rec.To, rec.Outcome,
		nullable(rec.Rule), nullable(rec.Related), nullable(rec.RelatedSemester), nullable(rec.Message),
		rec.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("insert move: %w", err)
	}
	return rec, nil
}

// History lists recorded moves, newest first.
func (s *SQLiteStore) History(ctx context.Context, limit int) ([]MoveRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, code, from_id, to_id, outcome, rule, related, related_semester, message, created_at
		 FROM moves ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MoveRecord
	for rows.Next() {
		var m MoveRecord
		var rule, related, relatedSem, message sql.NullString
		var createdAt string
		if err := rows.Scan(&m.ID, &m.Code, &m.From, &m.To, &m.Outcome,
			&rule, &related, &relatedSem, &message, &createdAt); err != nil {
			return nil, err
		}
		m.Rule = rule.String
		m.Related = related.String
		m.RelatedSemester = relatedSem.String
		m.Message = message.String
		m.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		out = append(out, m)
	}
	return out, rows.Err()
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
