package quiz

import (
	"math/rand"
	"sort"

	"github.com/google/uuid"

	"github.com/campusgrid/assessment-service/internal/core"
)

type QuizInput struct {
	SubjectID           string   `json:"subject_id" validate:"required"`
	Title               string   `json:"title" validate:"required,min=3"`
	Description         string   `json:"description"`
	Instructions        string   `json:"instructions"`
	TimeLimitMinutes    int      `json:"time_limit_minutes" validate:"required,min=5,max=180"`
	PassingScorePercent int      `json:"passing_score_percent" validate:"required,min=1,max=100"`
	Type                QuizType `json:"quiz_type" validate:"required,oneof=practice final"`
	MaxAttempts         int      `json:"max_attempts" validate:"min=0"`

	// nil means "not set"; ApplyTypeDefaults fills these from the quiz type.
	IsRequired                 *bool `json:"is_required"`
	IsActive                   *bool `json:"is_active"`
	AllowRetake                *bool `json:"allow_retake"`
	ShuffleQuestions           *bool `json:"shuffle_questions"`
	ShowAnswersAfterCompletion *bool `json:"show_answers_after_completion"`
}

// ApplyTypeDefaults fills the unset toggles from the quiz type: final quizzes
// default to required, no retakes, answers hidden; practice quizzes to the
// opposite. Authoring-time defaults only — every one of them is overridable.
func (in *QuizInput) ApplyTypeDefaults() {
	final := in.Type == TypeFinal
	if in.IsRequired == nil {
		in.IsRequired = boolPtr(final)
	}
	if in.AllowRetake == nil {
		in.AllowRetake = boolPtr(!final)
	}
	if in.ShowAnswersAfterCompletion == nil {
		in.ShowAnswersAfterCompletion = boolPtr(!final)
	}
	if in.IsActive == nil {
		in.IsActive = boolPtr(true)
	}
	if in.ShuffleQuestions == nil {
		in.ShuffleQuestions = boolPtr(false)
	}
}

func boolPtr(b bool) *bool { return &b }

// Validate checks a quiz authoring payload and returns the quiz it describes.
// Unset toggles get their type defaults first.
func Validate(in QuizInput) (Quiz, error) {
	if err := core.Validator.Struct(in); err != nil {
		return Quiz{}, core.FromValidator(err)
	}
	in.ApplyTypeDefaults()
	return Quiz{
		ID:                         uuid.NewString(),
		SubjectID:                  in.SubjectID,
		Title:                      in.Title,
		Description:                in.Description,
		Instructions:               in.Instructions,
		TimeLimitMinutes:           in.TimeLimitMinutes,
		PassingScorePercent:        in.PassingScorePercent,
		IsRequired:                 *in.IsRequired,
		IsActive:                   *in.IsActive,
		AllowRetake:                *in.AllowRetake,
		MaxAttempts:                in.MaxAttempts,
		ShuffleQuestions:           *in.ShuffleQuestions,
		ShowAnswersAfterCompletion: *in.ShowAnswersAfterCompletion,
		Type:                       in.Type,
	}, nil
}

// CanAttempt reports whether a student with attemptCount prior attempts may
// start another one. With AllowRetake off the stored MaxAttempts is ignored:
// the effective limit is a single attempt.
func CanAttempt(q Quiz, attemptCount int) bool {
	if !q.IsActive {
		return false
	}
	if !q.AllowRetake {
		return attemptCount < 1
	}
	if q.MaxAttempts > 0 && attemptCount >= q.MaxAttempts {
		return false
	}
	return true
}

// PresentQuestions returns the questions in delivery order: a fresh random
// permutation per call when shuffling, otherwise sorted by Order with id as
// the tiebreak. The permutation is never persisted.
func PresentQuestions(q Quiz, rng *rand.Rand) []Question {
	out := make([]Question, len(q.Questions))
	copy(out, q.Questions)
	if q.ShuffleQuestions {
		if rng == nil {
			rng = rand.New(rand.NewSource(rand.Int63()))
		}
		rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
		return out
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].ID < out[j].ID
	})
	return out
}
