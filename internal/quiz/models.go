package quiz

type QuestionKind string

const (
	KindMultipleChoice QuestionKind = "multiple_choice"
	KindTrueFalse      QuestionKind = "true_false"
)

type Option struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}

type Question struct {
	ID          string       `json:"id"`
	QuizID      string       `json:"quiz_id"`
	Kind        QuestionKind `json:"kind"`
	Text        string       `json:"text"`
	Options     []Option     `json:"options"`
	Explanation string       `json:"explanation,omitempty"`
	Points      int          `json:"points"`
	Difficulty  int          `json:"difficulty"` // 1..5
	Order       int          `json:"order"`      // 0-based position within the quiz
}

type QuizType string

const (
	TypePractice QuizType = "practice"
	TypeFinal    QuizType = "final"
)

type Quiz struct {
	ID                  string `json:"id"`
	SubjectID           string `json:"subject_id"`
	Title               string `json:"title"`
	Description         string `json:"description,omitempty"`
	Instructions        string `json:"instructions,omitempty"`
	TimeLimitMinutes    int    `json:"time_limit_minutes"`
	PassingScorePercent int    `json:"passing_score_percent"`
	IsRequired          bool   `json:"is_required"`
	IsActive            bool   `json:"is_active"`
	AllowRetake         bool   `json:"allow_retake"`
	// 0 = unlimited; only consulted when AllowRetake is set.
	MaxAttempts                int        `json:"max_attempts"`
	ShuffleQuestions           bool       `json:"shuffle_questions"`
	ShowAnswersAfterCompletion bool       `json:"show_answers_after_completion"`
	Type                       QuizType   `json:"quiz_type"`
	Questions                  []Question `json:"questions,omitempty"`

	CreatedAt int64 `json:"created_at,omitempty"`
}

// Attempt is one completed pass through a quiz by a student.
type Attempt struct {
	ID         string `json:"id"`
	QuizID     string `json:"quiz_id"`
	StudentID  string `json:"student_id"`
	RawScore   int    `json:"raw_score"`
	Percent    int    `json:"percent"`
	Passed     bool   `json:"passed"`
	StartedAt  int64  `json:"started_at"`
	FinishedAt int64  `json:"finished_at,omitempty"`
}

type QuizSummary struct {
	ID            string   `json:"id"`
	SubjectID     string   `json:"subject_id"`
	Title         string   `json:"title"`
	Type          QuizType `json:"quiz_type"`
	IsActive      bool     `json:"is_active"`
	QuestionCount int      `json:"question_count"`
}
