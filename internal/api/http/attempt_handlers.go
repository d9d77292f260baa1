package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/campusgrid/assessment-service/internal/core"
	"github.com/campusgrid/assessment-service/internal/eventlog"
	"github.com/campusgrid/assessment-service/internal/quiz"
	"github.com/campusgrid/assessment-service/internal/rbac"
	"github.com/campusgrid/assessment-service/internal/scoring"
)

// GET /quizzes/{quizID}/take
// The delivery view: retake gate applied, questions in delivery order,
// student-safe. The shuffle permutation is fresh per call and not persisted.
// PresentQuestions builds its own RNG per call; handlers run concurrently, so
// a shared rand.Rand here would race.
func TakeQuizHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := rbac.SubjectFromContext(r.Context())
		q, err := store.GetQuiz(r.Context(), chi.URLParam(r, "quizID"))
		if err != nil {
			writeErr(w, err)
			return
		}
		n, err := store.CountAttempts(r.Context(), q.ID, sub)
		if err != nil {
			writeErr(w, err)
			return
		}
		if !quiz.CanAttempt(q, n) {
			writeErr(w, core.New(core.KindInvalidTransition, "no attempts remaining for this quiz"))
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"quiz_id":            q.ID,
			"title":              q.Title,
			"instructions":       q.Instructions,
			"time_limit_minutes": q.TimeLimitMinutes,
			"questions":          sanitizeQuestions(quiz.PresentQuestions(q, nil)),
		})
	}
}

type submitAttemptReq struct {
	StartedAt int64            `json:"started_at"`
	Answers   map[string][]int `json:"answers"` // question id -> selected option indices
}

// POST /quizzes/{quizID}/attempts
// Scores a complete answer set and records the attempt. The retake gate and
// the scoring run off the same consistent read of the quiz and the history.
func SubmitQuizAttemptHandler(store quiz.Store, events *eventlog.Repo, nowFn func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub := rbac.SubjectFromContext(r.Context())
		var req submitAttemptReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		q, err := store.GetQuiz(r.Context(), chi.URLParam(r, "quizID"))
		if err != nil {
			writeErr(w, err)
			return
		}
		n, err := store.CountAttempts(r.Context(), q.ID, sub)
		if err != nil {
			writeErr(w, err)
			return
		}
		if !quiz.CanAttempt(q, n) {
			writeErr(w, core.New(core.KindInvalidTransition, "no attempts remaining for this quiz"))
			return
		}
		score, err := scoring.ScoreQuizAttempt(q, req.Answers)
		if err != nil {
			writeErr(w, err)
			return
		}
		now := nowFn()
		started := req.StartedAt
		if started == 0 {
			started = now.Unix()
		}
		a := quiz.Attempt{
			ID:         uuid.NewString(),
			QuizID:     q.ID,
			StudentID:  sub,
			RawScore:   score.RawScore,
			Percent:    score.Percent,
			Passed:     score.Passed,
			StartedAt:  started,
			FinishedAt: now.Unix(),
		}
		if err := store.PutAttempt(r.Context(), a); err != nil {
			writeErr(w, err)
			return
		}
		_ = events.Append(r.Context(), eventlog.Event{Type: "AttemptScored", Key: a.ID, Data: a})
		writeJSON(w, http.StatusCreated, a)
	}
}

// GET /attempts?quiz_id=...&student_id=...&limit=50&offset=0
// Callers without attempt:view-all are scoped to their own attempts.
func ListAttemptsHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		role := rbac.RoleFromContext(r.Context())
		sub := rbac.SubjectFromContext(r.Context())

		studentID := strings.TrimSpace(r.URL.Query().Get("student_id"))
		if role != "admin" && role != "teacher" {
			studentID = sub
		}
		list, err := store.ListAttempts(r.Context(), quiz.AttemptListOpts{
			QuizID:    strings.TrimSpace(r.URL.Query().Get("quiz_id")),
			StudentID: studentID,
			Limit:     parseIntDefault(r.URL.Query().Get("limit"), 50),
			Offset:    parseIntDefault(r.URL.Query().Get("offset"), 0),
		})
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}
