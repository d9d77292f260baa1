package quiz

import "context"

type ListOpts struct {
	SubjectID  string
	ActiveOnly bool
	Limit      int
	Offset     int
}

type AttemptListOpts struct {
	QuizID    string // filter by quiz
	StudentID string // filter by student
	Limit     int
	Offset    int
}

// Store is the persistence contract for quizzes, their questions and the
// recorded attempts. Questions live inside their quiz: they are written
// through it and removed only by deleting it.
type Store interface {
	PutQuiz(ctx context.Context, q Quiz) error
	GetQuiz(ctx context.Context, id string) (Quiz, error)
	UpdateQuiz(ctx context.Context, q Quiz) error
	DeleteQuiz(ctx context.Context, id string) error
	ListQuizzes(ctx context.Context, opts ListOpts) ([]QuizSummary, error)

	AddQuestion(ctx context.Context, q Question) error
	ReplaceQuestions(ctx context.Context, quizID string, qs []Question) error

	PutAttempt(ctx context.Context, a Attempt) error
	// CountAttempts with empty studentID counts attempts across all students.
	CountAttempts(ctx context.Context, quizID, studentID string) (int, error)
	ListAttempts(ctx context.Context, opts AttemptListOpts) ([]Attempt, error)
}
