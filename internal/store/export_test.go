package store

import (
	"context"
	"errors"
	"testing"

	"github.com/rcliao/semplan/internal/plan"
)

func TestExportImportPlan(t *testing.T) {
	ctx := context.Background()
	src := newTestStore(t)
	seedCatalog(t, src)
	src.SavePlacements(ctx, []plan.Placement{
		{Code: "IT001", Semester: plan.SemesterID(1)},
		{Code: "IT002", Semester: plan.SemesterID(2)},
	})

	doc, err := src.ExportPlan(ctx)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if doc.Version != 1 || len(doc.Placements) != 2 {
		t.Fatalf("unexpected document: %+v", doc)
	}

	dst := newTestStore(t)
	seedCatalog(t, dst)
	n, skipped, err := dst.ImportPlan(ctx, doc)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if n != 2 || len(skipped) != 0 {
		t.Errorf("expected 2 imported, 0 skipped; got %d, %v", n, skipped)
	}
	got, _ := dst.Placements(ctx)
	if len(got) != 2 || got[1].Code != "IT002" {
		t.Errorf("unexpected placements after import: %+v", got)
	}
}

func TestImportPlanSkipsInvalidPlacements(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	seedCatalog(t, s)

	doc := &PlanDocument{Version: 1, Placements: []plan.Placement{
		{Code: "IT001", Semester: plan.SemesterID(2)},
		{Code: "IT002", Semester: plan.SemesterID(2), Position: 1},
		{Code: "GONE", Semester: plan.SemesterID(1)},
		{Code: "MA001", Semester: plan.SemesterID(12)},
	}}
	n, skipped, err := s.ImportPlan(ctx, doc, plan.WithSemesters(8))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if n != 1 || len(skipped) != 3 {
		t.Fatalf("expected 1 imported and 3 skipped, got %d and %v", n, skipped)
	}

	var rejected, unknown int
	for _, err := range skipped {
		if errors.Is(err, plan.ErrRejected) {
			rejected++
		}
		if errors.Is(err, plan.ErrUnknownContainer) {
			unknown++
		}
	}
	if rejected != 1 || unknown != 1 {
		t.Errorf("expected one rejection and one unknown semester, got %d and %d", rejected, unknown)
	}

	_, _, err = s.ImportPlan(ctx, &PlanDocument{Version: 2})
	if err == nil {
		t.Error("expected error for unsupported version")
	}
}
