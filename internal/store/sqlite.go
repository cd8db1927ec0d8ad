package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/rcliao/semplan/internal/model"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db      *sql.DB
	entropy io.Reader
	now     func() time.Time
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{
		db:      db,
		entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
		now:     func() time.Time { return time.Now().UTC() },
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) newID() string {
	return ulid.MustNew(ulid.Timestamp(s.now()), s.entropy).String()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS courses (
		code             TEXT PRIMARY KEY,
		seq              INTEGER NOT NULL,
		stt              TEXT,
		name             TEXT NOT NULL,
		name_en          TEXT,
		offered          INTEGER NOT NULL DEFAULT 0,
		department       TEXT,
		category         TEXT,
		legacy_code      TEXT,
		equivalents      TEXT,
		corequisites     TEXT,
		prerequisites    TEXT,
		theory_credits   INTEGER NOT NULL DEFAULT 0,
		practice_credits INTEGER NOT NULL DEFAULT 0,
		total_credits    INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_courses_seq ON courses(seq);

	CREATE TABLE IF NOT EXISTS placements (
		code     TEXT PRIMARY KEY,
		semester TEXT NOT NULL,
		position INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_placements_semester ON placements(semester, position);

	CREATE TABLE IF NOT EXISTS moves (
		id               TEXT PRIMARY KEY,
		code             TEXT NOT NULL,
		from_id          TEXT NOT NULL,
		to_id            TEXT NOT NULL,
		outcome          TEXT NOT NULL,
		rule             TEXT,
		related          TEXT,
		related_semester TEXT,
		message          TEXT,
		created_at       TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_moves_created ON moves(created_at DESC);

	CREATE TABLE IF NOT EXISTS meta (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// ReplaceCatalog deletes the stored catalog and inserts courses in order.
// Later duplicates of a code are ignored. Returns the number stored.
func (s *SQLiteStore) ReplaceCatalog(ctx context.Context, source string, courses []model.Course) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM courses`); err != nil {
		return 0, fmt.Errorf("clear catalog: %w", err)
	}

	stored := 0
	for i, c := range courses {
		res, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO courses (code, seq, stt, name, name_en, offered, department, category,
			     legacy_code, equivalents, corequisites, prerequisites,
			     theory_credits, practice_credits, total_credits)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			c.Code, i, c.Seq, c.Name, c.NameEN, c.Offered, c.Department, c.Category,
			c.LegacyCode, encodeCodes(c.Equivalents), encodeCodes(c.Corequisites), encodeCodes(c.Prerequisites),
			c.TheoryCredits, c.PracticeCredits, c.TotalCredits)
		if err != nil {
			return 0, fmt.Errorf("insert course %s: %w", c.Code, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			stored++
		}
	}

	now := s.now().Format(time.RFC3339)
	for k, v := range map[string]string{"catalog_source": source, "catalog_updated_at": now} {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO meta (key, value) VALUES (?, ?)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, k, v); err != nil {
			return 0, fmt.Errorf("update meta: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return stored, nil
}

const courseColumns = `code, stt, name, name_en, offered, department, category, legacy_code,
	equivalents, corequisites, prerequisites, theory_credits, practice_credits, total_credits`

func (s *SQLiteStore) Courses(ctx context.Context) ([]model.Course, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+courseColumns+` FROM courses ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []model.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

func (s *SQLiteStore) meta(ctx context.Context, key string) string {
	var v string
	s.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = ?`, key).Scan(&v)
	return v
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanCourse(row scanner) (model.Course, error) {
	var c model.Course
	var stt, nameEN, department, category, legacy, equivalents, corequisites, prerequisites sql.NullString

	err := row.Scan(
		&c.Code, &stt, &c.Name, &nameEN, &c.Offered, &department, &category, &legacy,
		&equivalents, &corequisites, &prerequisites,
		&c.TheoryCredits, &c.PracticeCredits, &c.TotalCredits,
	)
	if err != nil {
		return c, err
	}

	c.Seq = stt.String
	c.NameEN = nameEN.String
	c.Department = department.String
	c.Category = category.String
	c.LegacyCode = legacy.String
	c.Equivalents = decodeCodes(equivalents)
	c.Corequisites = decodeCodes(corequisites)
	c.Prerequisites = decodeCodes(prerequisites)
	return c, nil
}

func encodeCodes(codes []string) string {
	if codes == nil {
		codes = []string{}
	}
	b, _ := json.Marshal(codes)
	return string(b)
}

func decodeCodes(v sql.NullString) []string {
	codes := []string{}
	if v.Valid && v.String != "" {
		json.Unmarshal([]byte(v.String), &codes)
	}
	return codes
}
