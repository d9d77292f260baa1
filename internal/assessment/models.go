package assessment

import "time"

// Type of open-ended, manually graded student work.
type Type string

const (
	TypeExam          Type = "exam"
	TypeAssignment    Type = "assignment"
	TypeProject       Type = "project"
	TypeQuiz          Type = "quiz" // quiz-labelled manual work, not an auto-graded quiz
	TypePresentation  Type = "presentation"
	TypeParticipation Type = "participation"
)

type Assessment struct {
	ID            string     `json:"id"`
	ClassID       string     `json:"class_id"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	Type          Type       `json:"type"`
	TotalPoints   float64    `json:"total_points"`
	Weight        float64    `json:"weight"`
	AvailableFrom *time.Time `json:"available_from,omitempty"`
	AvailableTo   *time.Time `json:"available_to,omitempty"`
	DueDate       *time.Time `json:"due_date,omitempty"`
	IsActive      bool       `json:"is_active"`
	Instructions  string     `json:"instructions,omitempty"`
	// Stamped from the authenticated actor, never from caller input.
	CreatedBy string `json:"created_by"`
	CreatedAt int64  `json:"created_at,omitempty"`
}

// Status is the availability phase derived from the clock, not stored.
type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusInactive   Status = "inactive"
)

type ResultStatus string

const (
	ResultPending   ResultStatus = "pending"
	ResultSubmitted ResultStatus = "submitted"
	ResultGraded    ResultStatus = "graded"
)

// Result is one student's record for one assessment. Revision is the
// optimistic-concurrency token: it starts at 1 and bumps on every write.
type Result struct {
	ID            string       `json:"id"`
	AssessmentID  string       `json:"assessment_id"`
	StudentID     string       `json:"student_id"`
	Status        ResultStatus `json:"status"`
	SubmittedAt   *time.Time   `json:"submitted_at,omitempty"`
	GradedAt      *time.Time   `json:"graded_at,omitempty"`
	GradedBy      string       `json:"graded_by,omitempty"`
	Score         *float64     `json:"score,omitempty"`
	Feedback      string       `json:"feedback,omitempty"`
	AttachmentURL string       `json:"attachment_url,omitempty"`
	Revision      int64        `json:"revision"`
}
