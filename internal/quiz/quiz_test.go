package quiz_test

import (
	"math/rand"
	"testing"

	"github.com/campusgrid/assessment-service/internal/core"
	"github.com/campusgrid/assessment-service/internal/quiz"
)

func quizInput() quiz.QuizInput {
	return quiz.QuizInput{
		SubjectID:           "subj-1",
		Title:               "Unit 3 Review",
		TimeLimitMinutes:    30,
		PassingScorePercent: 70,
		Type:                quiz.TypePractice,
	}
}

func TestValidate_Ranges(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*quiz.QuizInput)
	}{
		{"time limit too short", func(in *quiz.QuizInput) { in.TimeLimitMinutes = 4 }},
		{"time limit too long", func(in *quiz.QuizInput) { in.TimeLimitMinutes = 181 }},
		{"passing score too low", func(in *quiz.QuizInput) { in.PassingScorePercent = 0 }},
		{"passing score too high", func(in *quiz.QuizInput) { in.PassingScorePercent = 101 }},
		{"bad type", func(in *quiz.QuizInput) { in.Type = "midterm" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := quizInput()
			tc.mutate(&in)
			if _, err := quiz.Validate(in); !core.IsKind(err, core.KindValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestValidate_FinalDefaults(t *testing.T) {
	in := quizInput()
	in.Type = quiz.TypeFinal
	q, err := quiz.Validate(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !q.IsRequired || q.AllowRetake || q.ShowAnswersAfterCompletion {
		t.Fatalf("final defaults wrong: %+v", q)
	}
	if !q.IsActive {
		t.Fatalf("quizzes default to active")
	}
}

func TestValidate_PracticeDefaults(t *testing.T) {
	q, err := quiz.Validate(quizInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.IsRequired || !q.AllowRetake || !q.ShowAnswersAfterCompletion {
		t.Fatalf("practice defaults wrong: %+v", q)
	}
}

func TestValidate_DefaultsAreOverridable(t *testing.T) {
	yes := true
	in := quizInput()
	in.Type = quiz.TypeFinal
	in.AllowRetake = &yes
	q, err := quiz.Validate(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !q.AllowRetake {
		t.Fatalf("explicit allow_retake must beat the final default")
	}
}

func TestCanAttempt(t *testing.T) {
	base := quiz.Quiz{IsActive: true, AllowRetake: true}

	if quiz.CanAttempt(quiz.Quiz{IsActive: false, AllowRetake: true}, 0) {
		t.Fatalf("inactive quiz must not be attemptable")
	}

	noRetake := base
	noRetake.AllowRetake = false
	noRetake.MaxAttempts = 5 // ignored without retakes
	if !quiz.CanAttempt(noRetake, 0) {
		t.Fatalf("first attempt must be allowed")
	}
	if quiz.CanAttempt(noRetake, 1) {
		t.Fatalf("no-retake quiz allows exactly one attempt")
	}

	limited := base
	limited.MaxAttempts = 3
	if !quiz.CanAttempt(limited, 2) {
		t.Fatalf("attempt 3 of 3 must be allowed")
	}
	if quiz.CanAttempt(limited, 3) {
		t.Fatalf("attempt 4 of 3 must be refused")
	}

	unlimited := base
	unlimited.MaxAttempts = 0
	if !quiz.CanAttempt(unlimited, 1000) {
		t.Fatalf("max_attempts=0 means unlimited")
	}
}

func TestPresentQuestions_SortedWhenNotShuffling(t *testing.T) {
	q := quiz.Quiz{
		Questions: []quiz.Question{
			{ID: "b", Order: 1},
			{ID: "c", Order: 2},
			{ID: "a", Order: 0},
		},
	}
	out := quiz.PresentQuestions(q, nil)
	want := []string{"a", "b", "c"}
	for i, id := range want {
		if out[i].ID != id {
			t.Fatalf("position %d: want %s, got %s", i, id, out[i].ID)
		}
	}
}

func TestPresentQuestions_ShufflePreservesSet(t *testing.T) {
	q := quiz.Quiz{
		ShuffleQuestions: true,
		Questions: []quiz.Question{
			{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}, {ID: "e"},
		},
	}
	rng := rand.New(rand.NewSource(1))
	out := quiz.PresentQuestions(q, rng)
	if len(out) != len(q.Questions) {
		t.Fatalf("shuffle changed question count: %d", len(out))
	}
	seen := map[string]bool{}
	for _, qu := range out {
		seen[qu.ID] = true
	}
	for _, qu := range q.Questions {
		if !seen[qu.ID] {
			t.Fatalf("shuffle lost question %s", qu.ID)
		}
	}
	// source slice stays put
	if q.Questions[0].ID != "a" || q.Questions[4].ID != "e" {
		t.Fatalf("shuffle mutated the quiz: %+v", q.Questions)
	}
}
