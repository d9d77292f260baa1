package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/campusgrid/assessment-service/internal/assessment"
	"github.com/campusgrid/assessment-service/internal/rbac"
)

type assessmentView struct {
	assessment.Assessment
	Status assessment.Status `json:"status"`
}

func viewOf(a assessment.Assessment, now time.Time) assessmentView {
	return assessmentView{Assessment: a, Status: assessment.ComputeStatus(a, now)}
}

// POST /assessments
// created_by is stamped from the authenticated subject; a value in the
// payload is ignored.
func CreateAssessmentHandler(store assessment.Store, nowFn func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in assessment.Input
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		a, err := assessment.New(in, rbac.SubjectFromContext(r.Context()))
		if err != nil {
			writeErr(w, err)
			return
		}
		if err := store.PutAssessment(r.Context(), a); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, viewOf(a, nowFn()))
	}
}

// GET /assessments/{assessmentID}
func GetAssessmentHandler(store assessment.Store, nowFn func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := store.GetAssessment(r.Context(), chi.URLParam(r, "assessmentID"))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, viewOf(a, nowFn()))
	}
}

// PUT /assessments/{assessmentID}
func UpdateAssessmentHandler(store assessment.Store, nowFn func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		existing, err := store.GetAssessment(r.Context(), chi.URLParam(r, "assessmentID"))
		if err != nil {
			writeErr(w, err)
			return
		}
		var in assessment.Input
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		// re-validate the whole payload; identity and authorship stay as created
		a, err := assessment.New(in, existing.CreatedBy)
		if err != nil {
			writeErr(w, err)
			return
		}
		a.ID = existing.ID
		a.Type = existing.Type
		a.CreatedAt = existing.CreatedAt
		if err := store.UpdateAssessment(r.Context(), a); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, viewOf(a, nowFn()))
	}
}

// DELETE /assessments/{assessmentID} — cascades to results.
func DeleteAssessmentHandler(store assessment.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.DeleteAssessment(r.Context(), chi.URLParam(r, "assessmentID")); err != nil {
			writeErr(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// GET /assessments?class_id=...&active=1
func ListAssessmentsHandler(store assessment.Store, nowFn func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := store.ListAssessments(r.Context(), assessment.ListOpts{
			ClassID:    strings.TrimSpace(r.URL.Query().Get("class_id")),
			ActiveOnly: r.URL.Query().Get("active") == "1",
			Limit:      parseIntDefault(r.URL.Query().Get("limit"), 50),
			Offset:     parseIntDefault(r.URL.Query().Get("offset"), 0),
		})
		if err != nil {
			writeErr(w, err)
			return
		}
		now := nowFn()
		out := make([]assessmentView, 0, len(list))
		for _, a := range list {
			out = append(out, viewOf(a, now))
		}
		writeJSON(w, http.StatusOK, out)
	}
}
