package scoring

import (
	"math"

	"github.com/campusgrid/assessment-service/internal/core"
	"github.com/campusgrid/assessment-service/internal/quiz"
)

// Score is the outcome of auto-grading one quiz attempt.
type Score struct {
	RawScore int  `json:"raw_score"`
	Percent  int  `json:"percent"`
	Passed   bool `json:"passed"`
}

// ScoreQuizAttempt grades a complete answer set against the quiz. answers
// maps question id to the selected option indices. Credit is all-or-nothing
// per question: the selected set must equal the correct set exactly.
//
// The answer set must cover every question; collecting a full set before
// scoring is the delivery layer's job.
func ScoreQuizAttempt(q quiz.Quiz, answers map[string][]int) (Score, error) {
	if len(q.Questions) == 0 {
		return Score{}, core.FieldError("questions", "quiz has no questions to score")
	}
	total, raw := 0, 0
	for _, question := range q.Questions {
		selected, ok := answers[question.ID]
		if !ok {
			return Score{}, core.Newf(core.KindIncompleteAnswers, "missing answer for question %s", question.ID)
		}
		total += question.Points
		if answerCorrect(question, selected) {
			raw += question.Points
		}
	}
	percent := roundHalfUp(float64(raw) / float64(total) * 100)
	return Score{
		RawScore: raw,
		Percent:  percent,
		Passed:   percent >= q.PassingScorePercent, // threshold is inclusive
	}, nil
}

func answerCorrect(q quiz.Question, selected []int) bool {
	want := map[int]struct{}{}
	for i, o := range q.Options {
		if o.IsCorrect {
			want[i] = struct{}{}
		}
	}
	got := map[int]struct{}{}
	for _, i := range selected {
		if i < 0 || i >= len(q.Options) {
			return false
		}
		got[i] = struct{}{}
	}
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if _, ok := want[i]; !ok {
			return false
		}
	}
	return true
}

func roundHalfUp(v float64) int { return int(math.Floor(v + 0.5)) }
