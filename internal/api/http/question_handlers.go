package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/campusgrid/assessment-service/internal/core"
	"github.com/campusgrid/assessment-service/internal/quiz"
)

// Structural edits are blocked once anyone has attempted the quiz: recorded
// scores would otherwise refer to questions that no longer exist or moved.
func blockIfAttempted(r *http.Request, store quiz.Store, quizID string) error {
	n, err := store.CountAttempts(r.Context(), quizID, "")
	if err != nil {
		return err
	}
	if n > 0 {
		return core.New(core.KindInvalidTransition, "quiz has recorded attempts; questions are locked")
	}
	return nil
}

// POST /quizzes/{quizID}/questions
func AddQuestionHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		quizID := chi.URLParam(r, "quizID")
		if err := blockIfAttempted(r, store, quizID); err != nil {
			writeErr(w, err)
			return
		}
		existing, err := store.GetQuiz(r.Context(), quizID)
		if err != nil {
			writeErr(w, err)
			return
		}
		var in quiz.QuestionInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		in.QuizID = quizID // owning quiz comes from the URL, not the payload
		q, err := quiz.ValidateQuestion(in)
		if err != nil {
			writeErr(w, err)
			return
		}
		q.Order = len(existing.Questions)
		if err := store.AddQuestion(r.Context(), q); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, q)
	}
}

// POST /quizzes/{quizID}/questions/reorder  { "from": 2, "to": 0 }
func ReorderQuestionsHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		quizID := chi.URLParam(r, "quizID")
		if err := blockIfAttempted(r, store, quizID); err != nil {
			writeErr(w, err)
			return
		}
		var req struct {
			From int `json:"from"`
			To   int `json:"to"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		q, err := store.GetQuiz(r.Context(), quizID)
		if err != nil {
			writeErr(w, err)
			return
		}
		reordered, err := quiz.Reorder(q.Questions, req.From, req.To)
		if err != nil {
			writeErr(w, err)
			return
		}
		if err := store.ReplaceQuestions(r.Context(), quizID, reordered); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, reordered)
	}
}
