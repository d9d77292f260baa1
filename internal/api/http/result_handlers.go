package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/campusgrid/assessment-service/internal/assessment"
	"github.com/campusgrid/assessment-service/internal/core"
	"github.com/campusgrid/assessment-service/internal/eventlog"
	"github.com/campusgrid/assessment-service/internal/rbac"
)

type resultView struct {
	assessment.Result
	IsLate bool `json:"is_late"`
}

// POST /assessments/{assessmentID}/results  { "student_id": "..." }
// The enrollment hook: creates the student's pending result record.
func CreateResultHandler(store assessment.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assessmentID := chi.URLParam(r, "assessmentID")
		var req struct {
			StudentID string `json:"student_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.StudentID) == "" {
			writeErr(w, core.FieldError("student_id", "required"))
			return
		}
		if _, err := store.GetAssessment(r.Context(), assessmentID); err != nil {
			writeErr(w, err)
			return
		}
		res := assessment.Result{
			ID:           uuid.NewString(),
			AssessmentID: assessmentID,
			StudentID:    req.StudentID,
			Status:       assessment.ResultPending,
			Revision:     1,
		}
		if err := store.CreateResult(r.Context(), res); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, res)
	}
}

// GET /results/{resultID}
func GetResultHandler(store assessment.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := store.GetResult(r.Context(), chi.URLParam(r, "resultID"))
		if err != nil {
			writeErr(w, err)
			return
		}
		if isStudent(r) && res.StudentID != rbac.SubjectFromContext(r.Context()) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		a, err := store.GetAssessment(r.Context(), res.AssessmentID)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resultView{Result: res, IsLate: assessment.IsLate(res, a)})
	}
}

// POST /results/{resultID}/submit  { "attachment_url": "..." }
// Only the owning student delivers work.
func SubmitResultHandler(store assessment.Store, events *eventlog.Repo, nowFn func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := store.GetResult(r.Context(), chi.URLParam(r, "resultID"))
		if err != nil {
			writeErr(w, err)
			return
		}
		if res.StudentID != rbac.SubjectFromContext(r.Context()) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		var req struct {
			AttachmentURL string `json:"attachment_url"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		updated, err := assessment.Submit(res, nowFn(), req.AttachmentURL)
		if err != nil {
			writeErr(w, err)
			return
		}
		saved, err := store.SaveResult(r.Context(), updated, res.Revision)
		if err != nil {
			writeErr(w, err)
			return
		}
		_ = events.Append(r.Context(), eventlog.Event{Type: "ResultSubmitted", Key: saved.ID, Data: saved})
		writeJSON(w, http.StatusOK, saved)
	}
}

type gradeReq struct {
	Score    float64 `json:"score"`
	Feedback string  `json:"feedback"`
	// The revision the grader read; stale values are rejected instead of
	// silently overwriting a concurrent grade.
	Revision int64 `json:"revision"`
}

// POST /results/{resultID}/grade
// Authorization (creator-or-admin) is enforced by the RBAC layer on the
// route; this handler holds the data invariants only.
func GradeResultHandler(store assessment.Store, events *eventlog.Repo, nowFn func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req gradeReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		if req.Revision < 1 {
			writeErr(w, core.FieldError("revision", "the previously read revision is required"))
			return
		}
		res, err := store.GetResult(r.Context(), chi.URLParam(r, "resultID"))
		if err != nil {
			writeErr(w, err)
			return
		}
		a, err := store.GetAssessment(r.Context(), res.AssessmentID)
		if err != nil {
			writeErr(w, err)
			return
		}
		graderID := rbac.SubjectFromContext(r.Context())
		updated, err := assessment.Grade(a, res, graderID, req.Score, req.Feedback, nowFn())
		if err != nil {
			writeErr(w, err)
			return
		}
		saved, err := store.SaveResult(r.Context(), updated, req.Revision)
		if err != nil {
			writeErr(w, err)
			return
		}
		_ = events.Append(r.Context(), eventlog.Event{Type: "ResultGraded", Key: saved.ID, Data: saved})
		writeJSON(w, http.StatusOK, resultView{Result: saved, IsLate: assessment.IsLate(saved, a)})
	}
}

// GET /assessments/{assessmentID}/results?status=...&limit=50&offset=0
// Callers without result:view-all are scoped to their own results.
func ListResultsHandler(store assessment.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		studentID := strings.TrimSpace(r.URL.Query().Get("student_id"))
		if isStudent(r) {
			studentID = rbac.SubjectFromContext(r.Context())
		}
		list, err := store.ListResults(r.Context(), assessment.ResultListOpts{
			AssessmentID: chi.URLParam(r, "assessmentID"),
			StudentID:    studentID,
			Status:       assessment.ResultStatus(strings.TrimSpace(r.URL.Query().Get("status"))),
			Limit:        parseIntDefault(r.URL.Query().Get("limit"), 50),
			Offset:       parseIntDefault(r.URL.Query().Get("offset"), 0),
		})
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}
