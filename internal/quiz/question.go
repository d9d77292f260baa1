package quiz

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/campusgrid/assessment-service/internal/core"
)

type OptionInput struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

type QuestionInput struct {
	QuizID      string        `json:"quiz_id" validate:"required"`
	Kind        QuestionKind  `json:"kind" validate:"required,oneof=multiple_choice true_false"`
	Text        string        `json:"text" validate:"required,min=3"`
	Options     []OptionInput `json:"options" validate:"required,min=2"`
	Explanation string        `json:"explanation"`
	Points      int           `json:"points" validate:"required,min=1,max=100"`
	Difficulty  int           `json:"difficulty" validate:"required,min=1,max=5"`
}

// ValidateQuestion checks an authoring payload and returns the question it
// describes. Pure: persistence is the caller's job.
//
// For true/false the option texts are fixed to "True"/"False" regardless of
// what the author sent; only the is_correct flags are honored.
func ValidateQuestion(in QuestionInput) (Question, error) {
	if err := core.Validator.Struct(in); err != nil {
		return Question{}, core.FromValidator(err)
	}

	opts := make([]Option, len(in.Options))
	correct := 0
	for i, o := range in.Options {
		opts[i] = Option{Text: strings.TrimSpace(o.Text), IsCorrect: o.IsCorrect}
		if o.IsCorrect {
			correct++
		}
	}
	if correct == 0 {
		return Question{}, core.New(core.KindNoCorrectOption, "at least one option must be marked correct")
	}

	switch in.Kind {
	case KindTrueFalse:
		if len(opts) != 2 {
			return Question{}, core.FieldError("options", "true/false takes exactly 2 options")
		}
		if correct != 1 {
			return Question{}, core.FieldError("options", "true/false takes exactly one correct option")
		}
		opts[0].Text = "True"
		opts[1].Text = "False"
	case KindMultipleChoice:
		for i, o := range opts {
			if o.Text == "" {
				return Question{}, core.FieldError(fmt.Sprintf("options[%d].text", i), "option text required")
			}
		}
	}

	return Question{
		ID:          uuid.NewString(),
		QuizID:      in.QuizID,
		Kind:        in.Kind,
		Text:        strings.TrimSpace(in.Text),
		Options:     opts,
		Explanation: strings.TrimSpace(in.Explanation),
		Points:      in.Points,
		Difficulty:  in.Difficulty,
	}, nil
}

// Reorder moves the question at from before the current element at to, then
// renumbers Order contiguously from 0. The input slice is not mutated.
func Reorder(questions []Question, from, to int) ([]Question, error) {
	if from < 0 || from >= len(questions) || to < 0 || to >= len(questions) {
		return nil, core.Newf(core.KindIndexOutOfRange, "reorder %d -> %d outside [0, %d)", from, to, len(questions))
	}
	out := make([]Question, len(questions))
	copy(out, questions)
	moved := out[from]
	out = append(out[:from], out[from+1:]...)
	out = append(out, Question{})
	copy(out[to+1:], out[to:])
	out[to] = moved
	for i := range out {
		out[i].Order = i
	}
	return out, nil
}
