package assessment_test

import (
	"context"
	"testing"
	"time"

	"github.com/campusgrid/assessment-service/internal/assessment"
	"github.com/campusgrid/assessment-service/internal/core"
	"github.com/campusgrid/assessment-service/internal/db"
)

func openStore(t *testing.T, dsn string) *assessment.SQLStore {
	t.Helper()
	dbh, err := db.Open(context.Background(), db.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = dbh.Close() })
	return assessment.NewSQLStore(dbh)
}

func TestSQLStore_ResultRevisionCAS(t *testing.T) {
	ctx := context.Background()
	st := openStore(t, "file:assessment_cas_test.db?mode=memory&cache=shared")

	due := time.Date(2026, 9, 20, 23, 59, 0, 0, time.UTC)
	a := assessment.Assessment{
		ID: "as-1", ClassID: "c1", Title: "Term Paper", Type: assessment.TypeAssignment,
		TotalPoints: 100, Weight: 0.4, DueDate: &due, IsActive: true, CreatedBy: "teacher-1",
	}
	if err := st.PutAssessment(ctx, a); err != nil {
		t.Fatalf("put assessment: %v", err)
	}

	if err := st.CreateResult(ctx, assessment.Result{ID: "r-1", AssessmentID: "as-1", StudentID: "s1"}); err != nil {
		t.Fatalf("create result: %v", err)
	}
	r, err := st.GetResult(ctx, "r-1")
	if err != nil {
		t.Fatalf("get result: %v", err)
	}
	if r.Status != assessment.ResultPending || r.Revision != 1 {
		t.Fatalf("fresh result wrong: %+v", r)
	}

	submitted, err := assessment.Submit(r, due.Add(-time.Hour), "https://files.example/paper.pdf")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	saved, err := st.SaveResult(ctx, submitted, r.Revision)
	if err != nil {
		t.Fatalf("save submitted: %v", err)
	}
	if saved.Revision != 2 || saved.Status != assessment.ResultSubmitted {
		t.Fatalf("saved result wrong: %+v", saved)
	}
	if saved.SubmittedAt == nil || !saved.SubmittedAt.Equal(due.Add(-time.Hour)) {
		t.Fatalf("submitted_at not round-tripped: %+v", saved.SubmittedAt)
	}

	// the stale write loses
	if _, err := st.SaveResult(ctx, submitted, r.Revision); !core.IsKind(err, core.KindConcurrentModification) {
		t.Fatalf("stale save: expected concurrent_modification, got %v", err)
	}

	// grade on the fresh revision
	loaded, err := st.GetAssessment(ctx, "as-1")
	if err != nil {
		t.Fatalf("get assessment: %v", err)
	}
	graded, err := assessment.Grade(loaded, saved, "teacher-1", 91, "excellent", due.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("grade: %v", err)
	}
	final, err := st.SaveResult(ctx, graded, saved.Revision)
	if err != nil {
		t.Fatalf("save graded: %v", err)
	}
	if final.Revision != 3 || final.Status != assessment.ResultGraded {
		t.Fatalf("final result wrong: %+v", final)
	}
	if final.Score == nil || *final.Score != 91 || final.GradedBy != "teacher-1" {
		t.Fatalf("grade fields not round-tripped: %+v", final)
	}

	// missing results stay distinguishable from conflicts
	ghost := graded
	ghost.ID = "nope"
	if _, err := st.SaveResult(ctx, ghost, 1); !core.IsKind(err, core.KindNotFound) {
		t.Fatalf("missing result: expected not_found, got %v", err)
	}

	byStudent, err := st.GetResultForStudent(ctx, "as-1", "s1")
	if err != nil {
		t.Fatalf("get by student: %v", err)
	}
	if byStudent.ID != "r-1" {
		t.Fatalf("wrong result by student: %+v", byStudent)
	}
}

func TestSQLStore_AssessmentCRUDAndCascade(t *testing.T) {
	ctx := context.Background()
	st := openStore(t, "file:assessment_crud_test.db?mode=memory&cache=shared")

	from := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	a := assessment.Assessment{
		ID: "as-1", ClassID: "c1", Title: "Lab Project", Type: assessment.TypeProject,
		TotalPoints: 50, Weight: 0.1, AvailableFrom: &from, IsActive: true, CreatedBy: "teacher-1",
	}
	if err := st.PutAssessment(ctx, a); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := st.GetAssessment(ctx, "as-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.AvailableFrom == nil || !got.AvailableFrom.Equal(from) {
		t.Fatalf("available_from not round-tripped: %+v", got.AvailableFrom)
	}
	if got.AvailableTo != nil || got.DueDate != nil {
		t.Fatalf("nil dates must stay nil: %+v", got)
	}

	got.Title = "Lab Project (revised)"
	got.Type = assessment.TypeExam // must NOT stick: type is immutable in the store
	if err := st.UpdateAssessment(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}
	got2, _ := st.GetAssessment(ctx, "as-1")
	if got2.Title != "Lab Project (revised)" {
		t.Fatalf("update lost: %+v", got2)
	}
	if got2.Type != assessment.TypeProject {
		t.Fatalf("type must not change on update: %+v", got2.Type)
	}

	list, err := st.ListAssessments(ctx, assessment.ListOpts{ClassID: "c1", ActiveOnly: true})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("want 1 assessment, got %d", len(list))
	}

	if err := st.CreateResult(ctx, assessment.Result{ID: "r-1", AssessmentID: "as-1", StudentID: "s1"}); err != nil {
		t.Fatalf("create result: %v", err)
	}
	if err := st.DeleteAssessment(ctx, "as-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := st.GetAssessment(ctx, "as-1"); !core.IsKind(err, core.KindNotFound) {
		t.Fatalf("deleted assessment: expected not_found, got %v", err)
	}
	if _, err := st.GetResult(ctx, "r-1"); !core.IsKind(err, core.KindNotFound) {
		t.Fatalf("cascade must remove results, got %v", err)
	}
}
