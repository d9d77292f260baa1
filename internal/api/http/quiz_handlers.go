package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/campusgrid/assessment-service/internal/core"
	"github.com/campusgrid/assessment-service/internal/quiz"
	"github.com/campusgrid/assessment-service/internal/rbac"
)

// POST /quizzes
func CreateQuizHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in quiz.QuizInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		q, err := quiz.Validate(in)
		if err != nil {
			writeErr(w, err)
			return
		}
		if err := store.PutQuiz(r.Context(), q); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, q)
	}
}

// GET /quizzes/{quizID}
// Students get the student-safe view: no correctness flags, no explanations.
func GetQuizHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := store.GetQuiz(r.Context(), chi.URLParam(r, "quizID"))
		if err != nil {
			writeErr(w, err)
			return
		}
		if isStudent(r) {
			q.Questions = sanitizeQuestions(q.Questions)
		}
		writeJSON(w, http.StatusOK, q)
	}
}

// PUT /quizzes/{quizID}
// The quiz type is immutable: flipping practice/final changes grading
// semantics downstream, so it takes delete-and-recreate.
func UpdateQuizHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "quizID")
		existing, err := store.GetQuiz(r.Context(), id)
		if err != nil {
			writeErr(w, err)
			return
		}
		var in quiz.QuizInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		if in.Type == "" {
			in.Type = existing.Type
		}
		if in.Type != existing.Type {
			writeErr(w, core.FieldError("quiz_type", "immutable after creation; delete and recreate the quiz"))
			return
		}
		q, err := quiz.Validate(in)
		if err != nil {
			writeErr(w, err)
			return
		}
		q.ID = existing.ID
		q.CreatedAt = existing.CreatedAt
		if err := store.UpdateQuiz(r.Context(), q); err != nil {
			writeErr(w, err)
			return
		}
		q.Questions = existing.Questions
		writeJSON(w, http.StatusOK, q)
	}
}

// DELETE /quizzes/{quizID} — cascades to questions and attempts.
func DeleteQuizHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.DeleteQuiz(r.Context(), chi.URLParam(r, "quizID")); err != nil {
			writeErr(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// GET /quizzes?subject_id=...&active=1&limit=50&offset=0
func ListQuizzesHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := store.ListQuizzes(r.Context(), quiz.ListOpts{
			SubjectID:  strings.TrimSpace(r.URL.Query().Get("subject_id")),
			ActiveOnly: r.URL.Query().Get("active") == "1",
			Limit:      parseIntDefault(r.URL.Query().Get("limit"), 50),
			Offset:     parseIntDefault(r.URL.Query().Get("offset"), 0),
		})
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// GET /quizzes/{quizID}/review
// Full questions (answers, explanations) for a student who has finished at
// least one attempt, gated on the quiz's show-answers flag. Staff always may.
func ReviewQuizHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := store.GetQuiz(r.Context(), chi.URLParam(r, "quizID"))
		if err != nil {
			writeErr(w, err)
			return
		}
		if isStudent(r) {
			if !q.ShowAnswersAfterCompletion {
				http.Error(w, "answers are not shown for this quiz", http.StatusForbidden)
				return
			}
			n, err := store.CountAttempts(r.Context(), q.ID, rbac.SubjectFromContext(r.Context()))
			if err != nil {
				writeErr(w, err)
				return
			}
			if n == 0 {
				http.Error(w, "complete an attempt first", http.StatusForbidden)
				return
			}
		}
		writeJSON(w, http.StatusOK, quiz.PresentQuestions(q, nil))
	}
}

func isStudent(r *http.Request) bool {
	role := rbac.RoleFromContext(r.Context())
	return role != "teacher" && role != "admin"
}

func sanitizeQuestions(qs []quiz.Question) []quiz.Question {
	out := make([]quiz.Question, len(qs))
	copy(out, qs)
	for i := range out {
		opts := make([]quiz.Option, len(out[i].Options))
		copy(opts, out[i].Options)
		for j := range opts {
			opts[j].IsCorrect = false
		}
		out[i].Options = opts
		out[i].Explanation = ""
	}
	return out
}
