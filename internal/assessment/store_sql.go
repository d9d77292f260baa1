package assessment

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/campusgrid/assessment-service/internal/core"
)

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) PutAssessment(ctx context.Context, a Assessment) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO assessments
		(id,class_id,title,description,type,total_points,weight,available_from,available_to,due_date,
		 is_active,instructions,created_by,created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		a.ID, a.ClassID, a.Title, a.Description, string(a.Type), a.TotalPoints, a.Weight,
		unixOrNil(a.AvailableFrom), unixOrNil(a.AvailableTo), unixOrNil(a.DueDate),
		a.IsActive, a.Instructions, a.CreatedBy, time.Now().Unix())
	return err
}

func (s *SQLStore) GetAssessment(ctx context.Context, id string) (Assessment, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,class_id,title,description,type,total_points,weight,
		available_from,available_to,due_date,is_active,instructions,created_by,created_at
		FROM assessments WHERE id=$1`, id)
	return scanAssessment(row)
}

func (s *SQLStore) UpdateAssessment(ctx context.Context, a Assessment) error {
	res, err := s.db.ExecContext(ctx, `UPDATE assessments SET class_id=$1,title=$2,description=$3,
		total_points=$4,weight=$5,available_from=$6,available_to=$7,due_date=$8,is_active=$9,
		instructions=$10 WHERE id=$11`,
		a.ClassID, a.Title, a.Description, a.TotalPoints, a.Weight,
		unixOrNil(a.AvailableFrom), unixOrNil(a.AvailableTo), unixOrNil(a.DueDate),
		a.IsActive, a.Instructions, a.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.New(core.KindNotFound, "assessment not found")
	}
	return nil
}

// DeleteAssessment cascades to results; explicit child delete for the same
// reason as the quiz store.
func (s *SQLStore) DeleteAssessment(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM assessment_results WHERE assessment_id=$1`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM assessments WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.New(core.KindNotFound, "assessment not found")
	}
	return tx.Commit()
}

func (s *SQLStore) ListAssessments(ctx context.Context, opts ListOpts) ([]Assessment, error) {
	limit := opts.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	q := `SELECT id,class_id,title,description,type,total_points,weight,
		available_from,available_to,due_date,is_active,instructions,created_by,created_at
		FROM assessments WHERE 1=1`
	args := []any{}
	i := 1
	if opts.ClassID != "" {
		q += ` AND class_id=$` + strconv.Itoa(i)
		args = append(args, opts.ClassID)
		i++
	}
	if opts.ActiveOnly {
		q += ` AND is_active`
	}
	q += ` ORDER BY created_at DESC LIMIT $` + strconv.Itoa(i) + ` OFFSET $` + strconv.Itoa(i+1)
	args = append(args, limit, opts.Offset)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Assessment{}
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLStore) CreateResult(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO assessment_results
		(id,assessment_id,student_id,status,revision) VALUES ($1,$2,$3,$4,1)`,
		r.ID, r.AssessmentID, r.StudentID, string(ResultPending))
	return err
}

func (s *SQLStore) GetResult(ctx context.Context, id string) (Result, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,assessment_id,student_id,status,submitted_at,graded_at,
		graded_by,score,feedback,attachment_url,revision FROM assessment_results WHERE id=$1`, id)
	return scanResult(row)
}

func (s *SQLStore) GetResultForStudent(ctx context.Context, assessmentID, studentID string) (Result, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,assessment_id,student_id,status,submitted_at,graded_at,
		graded_by,score,feedback,attachment_url,revision
		FROM assessment_results WHERE assessment_id=$1 AND student_id=$2`, assessmentID, studentID)
	return scanResult(row)
}

// SaveResult writes the result only when the stored revision still matches
// expectedRevision, bumping the revision in the same statement. Two graders
// racing on one result: the slower one gets a concurrent-modification error
// instead of silently overwriting.
func (s *SQLStore) SaveResult(ctx context.Context, r Result, expectedRevision int64) (Result, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE assessment_results SET status=$1,submitted_at=$2,
		graded_at=$3,graded_by=$4,score=$5,feedback=$6,attachment_url=$7,revision=revision+1
		WHERE id=$8 AND revision=$9`,
		string(r.Status), unixOrNil(r.SubmittedAt), unixOrNil(r.GradedAt), r.GradedBy,
		r.Score, r.Feedback, r.AttachmentURL, r.ID, expectedRevision)
	if err != nil {
		return Result{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := s.GetResult(ctx, r.ID); err != nil {
			return Result{}, err
		}
		return Result{}, core.New(core.KindConcurrentModification, "result changed since it was read; re-fetch and retry")
	}
	return s.GetResult(ctx, r.ID)
}

func (s *SQLStore) ListResults(ctx context.Context, opts ResultListOpts) ([]Result, error) {
	limit := opts.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	q := `SELECT id,assessment_id,student_id,status,submitted_at,graded_at,graded_by,score,feedback,
		attachment_url,revision FROM assessment_results WHERE 1=1`
	args := []any{}
	i := 1
	if opts.AssessmentID != "" {
		q += ` AND assessment_id=$` + strconv.Itoa(i)
		args = append(args, opts.AssessmentID)
		i++
	}
	if opts.StudentID != "" {
		q += ` AND student_id=$` + strconv.Itoa(i)
		args = append(args, opts.StudentID)
		i++
	}
	if opts.Status != "" {
		q += ` AND status=$` + strconv.Itoa(i)
		args = append(args, string(opts.Status))
		i++
	}
	q += ` ORDER BY student_id LIMIT $` + strconv.Itoa(i) + ` OFFSET $` + strconv.Itoa(i+1)
	args = append(args, limit, opts.Offset)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Result{}
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// --- scan helpers ---

type rowScanner interface{ Scan(dest ...any) error }

func scanAssessment(row rowScanner) (Assessment, error) {
	var a Assessment
	var typ string
	var from, to, due sql.NullInt64
	err := row.Scan(&a.ID, &a.ClassID, &a.Title, &a.Description, &typ, &a.TotalPoints, &a.Weight,
		&from, &to, &due, &a.IsActive, &a.Instructions, &a.CreatedBy, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Assessment{}, core.New(core.KindNotFound, "assessment not found")
		}
		return Assessment{}, err
	}
	a.Type = Type(typ)
	a.AvailableFrom = timeOrNil(from)
	a.AvailableTo = timeOrNil(to)
	a.DueDate = timeOrNil(due)
	return a, nil
}

func scanResult(row rowScanner) (Result, error) {
	var r Result
	var status string
	var submitted, graded sql.NullInt64
	var score sql.NullFloat64
	err := row.Scan(&r.ID, &r.AssessmentID, &r.StudentID, &status, &submitted, &graded,
		&r.GradedBy, &score, &r.Feedback, &r.AttachmentURL, &r.Revision)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Result{}, core.New(core.KindNotFound, "result not found")
		}
		return Result{}, err
	}
	r.Status = ResultStatus(status)
	r.SubmittedAt = timeOrNil(submitted)
	r.GradedAt = timeOrNil(graded)
	if score.Valid {
		r.Score = &score.Float64
	}
	return r, nil
}

func unixOrNil(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Unix()
}

func timeOrNil(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := time.Unix(v.Int64, 0).UTC()
	return &t
}
