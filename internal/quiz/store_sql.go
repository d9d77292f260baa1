package quiz

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/campusgrid/assessment-service/internal/core"
)

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) PutQuiz(ctx context.Context, q Quiz) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `INSERT INTO quizzes
		(id,subject_id,title,description,instructions,time_limit_minutes,passing_score_percent,
		 is_required,is_active,allow_retake,max_attempts,shuffle_questions,show_answers,quiz_type,created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`,
		q.ID, q.SubjectID, q.Title, q.Description, q.Instructions, q.TimeLimitMinutes, q.PassingScorePercent,
		q.IsRequired, q.IsActive, q.AllowRetake, q.MaxAttempts, q.ShuffleQuestions, q.ShowAnswersAfterCompletion,
		string(q.Type), time.Now().Unix())
	if err != nil {
		return err
	}
	for _, question := range q.Questions {
		if err := insertQuestion(ctx, tx, question); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLStore) GetQuiz(ctx context.Context, id string) (Quiz, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,subject_id,title,description,instructions,
		time_limit_minutes,passing_score_percent,is_required,is_active,allow_retake,max_attempts,
		shuffle_questions,show_answers,quiz_type,created_at FROM quizzes WHERE id=$1`, id)
	var q Quiz
	var typ string
	if err := row.Scan(&q.ID, &q.SubjectID, &q.Title, &q.Description, &q.Instructions,
		&q.TimeLimitMinutes, &q.PassingScorePercent, &q.IsRequired, &q.IsActive, &q.AllowRetake,
		&q.MaxAttempts, &q.ShuffleQuestions, &q.ShowAnswersAfterCompletion, &typ, &q.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Quiz{}, core.New(core.KindNotFound, "quiz not found")
		}
		return Quiz{}, err
	}
	q.Type = QuizType(typ)

	rows, err := s.db.QueryContext(ctx, `SELECT id,quiz_id,kind,text,options_json,explanation,points,difficulty,order_index
		FROM quiz_questions WHERE quiz_id=$1 ORDER BY order_index, id`, id)
	if err != nil {
		return Quiz{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var question Question
		var kind, optsJSON string
		if err := rows.Scan(&question.ID, &question.QuizID, &kind, &question.Text, &optsJSON,
			&question.Explanation, &question.Points, &question.Difficulty, &question.Order); err != nil {
			return Quiz{}, err
		}
		question.Kind = QuestionKind(kind)
		if err := json.Unmarshal([]byte(optsJSON), &question.Options); err != nil {
			return Quiz{}, err
		}
		q.Questions = append(q.Questions, question)
	}
	return q, rows.Err()
}

func (s *SQLStore) UpdateQuiz(ctx context.Context, q Quiz) error {
	res, err := s.db.ExecContext(ctx, `UPDATE quizzes SET subject_id=$1,title=$2,description=$3,
		instructions=$4,time_limit_minutes=$5,passing_score_percent=$6,is_required=$7,is_active=$8,
		allow_retake=$9,max_attempts=$10,shuffle_questions=$11,show_answers=$12 WHERE id=$13`,
		q.SubjectID, q.Title, q.Description, q.Instructions, q.TimeLimitMinutes, q.PassingScorePercent,
		q.IsRequired, q.IsActive, q.AllowRetake, q.MaxAttempts, q.ShuffleQuestions,
		q.ShowAnswersAfterCompletion, q.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.New(core.KindNotFound, "quiz not found")
	}
	return nil
}

// DeleteQuiz removes the quiz and, with it, its questions and attempts.
// Children are deleted explicitly so the cascade does not depend on the
// sqlite connection having foreign_keys on.
func (s *SQLStore) DeleteQuiz(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM quiz_questions WHERE quiz_id=$1`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM quiz_attempts WHERE quiz_id=$1`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM quizzes WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.New(core.KindNotFound, "quiz not found")
	}
	return tx.Commit()
}

func (s *SQLStore) ListQuizzes(ctx context.Context, opts ListOpts) ([]QuizSummary, error) {
	limit := opts.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	q := `SELECT q.id,q.subject_id,q.title,q.quiz_type,q.is_active,
			(SELECT COUNT(1) FROM quiz_questions qq WHERE qq.quiz_id=q.id)
		FROM quizzes q WHERE 1=1`
	args := []any{}
	i := 1
	if opts.SubjectID != "" {
		q += ` AND q.subject_id=$` + itoa(i)
		args = append(args, opts.SubjectID)
		i++
	}
	if opts.ActiveOnly {
		q += ` AND q.is_active`
	}
	q += ` ORDER BY q.created_at DESC LIMIT $` + itoa(i) + ` OFFSET $` + itoa(i+1)
	args = append(args, limit, opts.Offset)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []QuizSummary{}
	for rows.Next() {
		var sum QuizSummary
		var typ string
		if err := rows.Scan(&sum.ID, &sum.SubjectID, &sum.Title, &typ, &sum.IsActive, &sum.QuestionCount); err != nil {
			return nil, err
		}
		sum.Type = QuizType(typ)
		out = append(out, sum)
	}
	return out, rows.Err()
}

func (s *SQLStore) AddQuestion(ctx context.Context, q Question) error {
	return insertQuestion(ctx, s.db, q)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertQuestion(ctx context.Context, ex execer, q Question) error {
	oj, err := json.Marshal(q.Options)
	if err != nil {
		return err
	}
	_, err = ex.ExecContext(ctx, `INSERT INTO quiz_questions
		(id,quiz_id,kind,text,options_json,explanation,points,difficulty,order_index)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		q.ID, q.QuizID, string(q.Kind), q.Text, string(oj), q.Explanation, q.Points, q.Difficulty, q.Order)
	return err
}

func (s *SQLStore) ReplaceQuestions(ctx context.Context, quizID string, qs []Question) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM quiz_questions WHERE quiz_id=$1`, quizID); err != nil {
		return err
	}
	for _, q := range qs {
		q.QuizID = quizID
		if err := insertQuestion(ctx, tx, q); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLStore) PutAttempt(ctx context.Context, a Attempt) error {
	var finished any
	if a.FinishedAt != 0 {
		finished = a.FinishedAt
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO quiz_attempts
		(id,quiz_id,student_id,raw_score,percent,passed,started_at,finished_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		a.ID, a.QuizID, a.StudentID, a.RawScore, a.Percent, a.Passed, a.StartedAt, finished)
	return err
}

func (s *SQLStore) CountAttempts(ctx context.Context, quizID, studentID string) (int, error) {
	var n int
	var err error
	if studentID == "" {
		err = s.db.QueryRowContext(ctx,
			`SELECT COUNT(1) FROM quiz_attempts WHERE quiz_id=$1`, quizID).Scan(&n)
	} else {
		err = s.db.QueryRowContext(ctx,
			`SELECT COUNT(1) FROM quiz_attempts WHERE quiz_id=$1 AND student_id=$2`, quizID, studentID).Scan(&n)
	}
	return n, err
}

func (s *SQLStore) ListAttempts(ctx context.Context, opts AttemptListOpts) ([]Attempt, error) {
	limit := opts.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	q := `SELECT id,quiz_id,student_id,raw_score,percent,passed,started_at,COALESCE(finished_at,0)
		FROM quiz_attempts WHERE 1=1`
	args := []any{}
	i := 1
	if opts.QuizID != "" {
		q += ` AND quiz_id=$` + itoa(i)
		args = append(args, opts.QuizID)
		i++
	}
	if opts.StudentID != "" {
		q += ` AND student_id=$` + itoa(i)
		args = append(args, opts.StudentID)
		i++
	}
	q += ` ORDER BY started_at DESC LIMIT $` + itoa(i) + ` OFFSET $` + itoa(i+1)
	args = append(args, limit, opts.Offset)

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Attempt{}
	for rows.Next() {
		var a Attempt
		if err := rows.Scan(&a.ID, &a.QuizID, &a.StudentID, &a.RawScore, &a.Percent, &a.Passed,
			&a.StartedAt, &a.FinishedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func itoa(i int) string { return strconv.Itoa(i) }
