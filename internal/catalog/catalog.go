// Package catalog ingests the published course catalog: it fetches the
// catalog page, parses its course table, and reads or writes the JSON dump
// of the parsed records.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rcliao/semplan/internal/model"
)

// Source yields the course records of a catalog.
type Source interface {
	Courses(ctx context.Context) ([]model.Course, error)
}

// FileSource reads a JSON catalog dump from disk.
type FileSource struct {
	Path string
}

func (f FileSource) Courses(ctx context.Context) ([]model.Course, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return DecodeJSON(data)
}

// DecodeJSON parses a JSON array of courses. Totals are recomputed from the
// theory and practice credits and records without a code are dropped.
func DecodeJSON(data []byte) ([]model.Course, error) {
	var raw []model.Course
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse catalog json: %w", err)
	}
	courses := make([]model.Course, 0, len(raw))
	for _, c := range raw {
		if c.Code == "" {
			continue
		}
		courses = append(courses, model.NewCourse(c))
	}
	return courses, nil
}

// WriteJSON writes courses as an indented JSON array, creating parent
// directories as needed.
func WriteJSON(path string, courses []model.Course) error {
	if courses == nil {
		courses = []model.Course{}
	}
	b, err := json.MarshalIndent(courses, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal catalog: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create catalog dir: %w", err)
	}
	return os.WriteFile(path, b, 0o644)
}
