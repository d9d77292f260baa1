package assessment

import "context"

type ListOpts struct {
	ClassID    string
	ActiveOnly bool
	Limit      int
	Offset     int
}

type ResultListOpts struct {
	AssessmentID string
	StudentID    string
	Status       ResultStatus
	Limit        int
	Offset       int
}

// Store is the persistence contract for assessments and their results.
// SaveResult is compare-and-swap: it only writes when the stored revision
// equals expectedRevision, and fails with a concurrent-modification error
// otherwise so the caller can re-read and retry.
type Store interface {
	PutAssessment(ctx context.Context, a Assessment) error
	GetAssessment(ctx context.Context, id string) (Assessment, error)
	UpdateAssessment(ctx context.Context, a Assessment) error
	DeleteAssessment(ctx context.Context, id string) error
	ListAssessments(ctx context.Context, opts ListOpts) ([]Assessment, error)

	// CreateResult inserts a pending result at revision 1 (enrollment hook).
	CreateResult(ctx context.Context, r Result) error
	GetResult(ctx context.Context, id string) (Result, error)
	GetResultForStudent(ctx context.Context, assessmentID, studentID string) (Result, error)
	SaveResult(ctx context.Context, r Result, expectedRevision int64) (Result, error)
	ListResults(ctx context.Context, opts ResultListOpts) ([]Result, error)
}
