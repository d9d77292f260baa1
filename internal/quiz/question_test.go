package quiz_test

import (
	"testing"

	"github.com/campusgrid/assessment-service/internal/core"
	"github.com/campusgrid/assessment-service/internal/quiz"
)

func mcInput() quiz.QuestionInput {
	return quiz.QuestionInput{
		QuizID: "quiz-1",
		Kind:   quiz.KindMultipleChoice,
		Text:   "Which planet is closest to the sun?",
		Options: []quiz.OptionInput{
			{Text: "Mercury", IsCorrect: true},
			{Text: "Venus"},
			{Text: "Mars"},
		},
		Points:     10,
		Difficulty: 2,
	}
}

func TestValidateQuestion_MultipleChoice(t *testing.T) {
	q, err := quiz.ValidateQuestion(mcInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.ID == "" {
		t.Fatalf("expected generated id")
	}
	if len(q.Options) != 3 || !q.Options[0].IsCorrect {
		t.Fatalf("options not carried over: %+v", q.Options)
	}
}

func TestValidateQuestion_NoCorrectOption(t *testing.T) {
	in := mcInput()
	for i := range in.Options {
		in.Options[i].IsCorrect = false
	}
	_, err := quiz.ValidateQuestion(in)
	if !core.IsKind(err, core.KindNoCorrectOption) {
		t.Fatalf("expected no_correct_option, got %v", err)
	}
}

func TestValidateQuestion_PointsRange(t *testing.T) {
	in := mcInput()
	in.Points = 101
	if _, err := quiz.ValidateQuestion(in); !core.IsKind(err, core.KindValidation) {
		t.Fatalf("expected validation error for points=101, got %v", err)
	}
	in.Points = 0
	if _, err := quiz.ValidateQuestion(in); !core.IsKind(err, core.KindValidation) {
		t.Fatalf("expected validation error for points=0, got %v", err)
	}
}

func TestValidateQuestion_TrueFalseCanonicalized(t *testing.T) {
	in := quiz.QuestionInput{
		QuizID: "quiz-1",
		Kind:   quiz.KindTrueFalse,
		Text:   "The earth is flat.",
		Options: []quiz.OptionInput{
			{Text: "yep"},
			{Text: "nope", IsCorrect: true},
		},
		Points:     5,
		Difficulty: 1,
	}
	q, err := quiz.ValidateQuestion(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Options[0].Text != "True" || q.Options[1].Text != "False" {
		t.Fatalf("texts not canonicalized: %+v", q.Options)
	}
	if q.Options[0].IsCorrect || !q.Options[1].IsCorrect {
		t.Fatalf("correctness flags must be honored: %+v", q.Options)
	}
}

func TestValidateQuestion_TrueFalseShape(t *testing.T) {
	in := quiz.QuestionInput{
		QuizID: "quiz-1",
		Kind:   quiz.KindTrueFalse,
		Text:   "Water boils at 100C at sea level.",
		Options: []quiz.OptionInput{
			{Text: "True", IsCorrect: true},
			{Text: "False", IsCorrect: true},
		},
		Points:     5,
		Difficulty: 1,
	}
	if _, err := quiz.ValidateQuestion(in); !core.IsKind(err, core.KindValidation) {
		t.Fatalf("expected validation error for two correct options, got %v", err)
	}

	in.Options = []quiz.OptionInput{
		{Text: "True", IsCorrect: true},
		{Text: "False"},
		{Text: "Maybe"},
	}
	if _, err := quiz.ValidateQuestion(in); !core.IsKind(err, core.KindValidation) {
		t.Fatalf("expected validation error for 3 options, got %v", err)
	}
}

func threeQuestions() []quiz.Question {
	return []quiz.Question{
		{ID: "a", Order: 0},
		{ID: "b", Order: 1},
		{ID: "c", Order: 2},
	}
}

func TestReorder_MoveAndRenumber(t *testing.T) {
	qs := threeQuestions()
	out, err := quiz.Reorder(qs, 2, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantIDs := []string{"c", "a", "b"}
	for i, id := range wantIDs {
		if out[i].ID != id {
			t.Fatalf("position %d: want %s, got %s", i, id, out[i].ID)
		}
		if out[i].Order != i {
			t.Fatalf("position %d: order not renumbered, got %d", i, out[i].Order)
		}
	}
	// input must be untouched
	if qs[0].ID != "a" || qs[2].ID != "c" {
		t.Fatalf("input slice mutated: %+v", qs)
	}
}

func TestReorder_NoOpRoundTrip(t *testing.T) {
	qs := threeQuestions()
	moved, err := quiz.Reorder(qs, 0, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	back, err := quiz.Reorder(moved, 2, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range qs {
		if back[i].ID != qs[i].ID {
			t.Fatalf("round trip broke order at %d: want %s, got %s", i, qs[i].ID, back[i].ID)
		}
	}
}

func TestReorder_OutOfRange(t *testing.T) {
	qs := threeQuestions()
	for _, tc := range [][2]int{{-1, 0}, {0, -1}, {3, 0}, {0, 3}} {
		if _, err := quiz.Reorder(qs, tc[0], tc[1]); !core.IsKind(err, core.KindIndexOutOfRange) {
			t.Fatalf("reorder %d->%d: expected index_out_of_range, got %v", tc[0], tc[1], err)
		}
	}
}
