package quiz_test

import (
	"context"
	"testing"

	"github.com/campusgrid/assessment-service/internal/core"
	"github.com/campusgrid/assessment-service/internal/db"
	"github.com/campusgrid/assessment-service/internal/quiz"
)

func openStore(t *testing.T, dsn string) *quiz.SQLStore {
	t.Helper()
	dbh, err := db.Open(context.Background(), db.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = dbh.Close() })
	return quiz.NewSQLStore(dbh)
}

func sampleQuiz() quiz.Quiz {
	return quiz.Quiz{
		ID: "quiz-1", SubjectID: "subj-1", Title: "Unit 3 Review",
		TimeLimitMinutes: 30, PassingScorePercent: 70,
		IsActive: true, AllowRetake: true, MaxAttempts: 3,
		Type: quiz.TypePractice,
		Questions: []quiz.Question{
			{ID: "q2", QuizID: "quiz-1", Kind: quiz.KindTrueFalse, Text: "Second question",
				Options: []quiz.Option{{Text: "True", IsCorrect: true}, {Text: "False"}},
				Points:  5, Difficulty: 1, Order: 1},
			{ID: "q1", QuizID: "quiz-1", Kind: quiz.KindMultipleChoice, Text: "First question",
				Options:     []quiz.Option{{Text: "a"}, {Text: "b", IsCorrect: true}},
				Explanation: "b is right", Points: 10, Difficulty: 2, Order: 0},
		},
	}
}

func TestSQLStore_QuizRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := openStore(t, "file:quiz_roundtrip_test.db?mode=memory&cache=shared")

	if err := st.PutQuiz(ctx, sampleQuiz()); err != nil {
		t.Fatalf("put quiz: %v", err)
	}
	got, err := st.GetQuiz(ctx, "quiz-1")
	if err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	if got.Title != "Unit 3 Review" || got.Type != quiz.TypePractice || got.MaxAttempts != 3 {
		t.Fatalf("quiz fields wrong: %+v", got)
	}
	// questions come back in order_index order regardless of insert order
	if len(got.Questions) != 2 || got.Questions[0].ID != "q1" || got.Questions[1].ID != "q2" {
		t.Fatalf("question order wrong: %+v", got.Questions)
	}
	if !got.Questions[0].Options[1].IsCorrect || got.Questions[0].Explanation != "b is right" {
		t.Fatalf("options json not round-tripped: %+v", got.Questions[0])
	}
}

func TestSQLStore_ReplaceQuestions(t *testing.T) {
	ctx := context.Background()
	st := openStore(t, "file:quiz_replace_test.db?mode=memory&cache=shared")

	if err := st.PutQuiz(ctx, sampleQuiz()); err != nil {
		t.Fatalf("put quiz: %v", err)
	}
	got, _ := st.GetQuiz(ctx, "quiz-1")
	reordered, err := quiz.Reorder(got.Questions, 1, 0)
	if err != nil {
		t.Fatalf("reorder: %v", err)
	}
	if err := st.ReplaceQuestions(ctx, "quiz-1", reordered); err != nil {
		t.Fatalf("replace: %v", err)
	}
	after, _ := st.GetQuiz(ctx, "quiz-1")
	if after.Questions[0].ID != "q2" || after.Questions[1].ID != "q1" {
		t.Fatalf("replace did not stick: %+v", after.Questions)
	}
	if after.Questions[0].Order != 0 || after.Questions[1].Order != 1 {
		t.Fatalf("orders not renumbered: %+v", after.Questions)
	}
}

func TestSQLStore_AttemptsAndDelete(t *testing.T) {
	ctx := context.Background()
	st := openStore(t, "file:quiz_attempts_test.db?mode=memory&cache=shared")

	if err := st.PutQuiz(ctx, sampleQuiz()); err != nil {
		t.Fatalf("put quiz: %v", err)
	}
	attempts := []quiz.Attempt{
		{ID: "a1", QuizID: "quiz-1", StudentID: "s1", RawScore: 15, Percent: 100, Passed: true, StartedAt: 100, FinishedAt: 200},
		{ID: "a2", QuizID: "quiz-1", StudentID: "s1", RawScore: 5, Percent: 33, StartedAt: 300, FinishedAt: 350},
		{ID: "a3", QuizID: "quiz-1", StudentID: "s2", RawScore: 10, Percent: 67, StartedAt: 400},
	}
	for _, a := range attempts {
		if err := st.PutAttempt(ctx, a); err != nil {
			t.Fatalf("put attempt %s: %v", a.ID, err)
		}
	}

	if n, _ := st.CountAttempts(ctx, "quiz-1", "s1"); n != 2 {
		t.Fatalf("want 2 attempts for s1, got %d", n)
	}
	if n, _ := st.CountAttempts(ctx, "quiz-1", ""); n != 3 {
		t.Fatalf("want 3 attempts in total, got %d", n)
	}

	list, err := st.ListAttempts(ctx, quiz.AttemptListOpts{QuizID: "quiz-1", StudentID: "s1"})
	if err != nil {
		t.Fatalf("list attempts: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("want 2 listed, got %d", len(list))
	}
	// newest first
	if list[0].ID != "a2" {
		t.Fatalf("want a2 first, got %s", list[0].ID)
	}
	// NULL finished_at comes back as zero
	all, _ := st.ListAttempts(ctx, quiz.AttemptListOpts{QuizID: "quiz-1"})
	for _, a := range all {
		if a.ID == "a3" && a.FinishedAt != 0 {
			t.Fatalf("unfinished attempt must scan as 0, got %d", a.FinishedAt)
		}
	}

	if err := st.DeleteQuiz(ctx, "quiz-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := st.GetQuiz(ctx, "quiz-1"); !core.IsKind(err, core.KindNotFound) {
		t.Fatalf("deleted quiz: expected not_found, got %v", err)
	}
	if n, _ := st.CountAttempts(ctx, "quiz-1", ""); n != 0 {
		t.Fatalf("delete must cascade to attempts, got %d", n)
	}
	if err := st.DeleteQuiz(ctx, "quiz-1"); !core.IsKind(err, core.KindNotFound) {
		t.Fatalf("double delete: expected not_found, got %v", err)
	}
}

func TestSQLStore_ListQuizzes(t *testing.T) {
	ctx := context.Background()
	st := openStore(t, "file:quiz_list_test.db?mode=memory&cache=shared")

	q1 := sampleQuiz()
	if err := st.PutQuiz(ctx, q1); err != nil {
		t.Fatalf("put q1: %v", err)
	}
	q2 := quiz.Quiz{ID: "quiz-2", SubjectID: "subj-2", Title: "Other Subject",
		TimeLimitMinutes: 10, PassingScorePercent: 60, IsActive: false, Type: quiz.TypeFinal}
	if err := st.PutQuiz(ctx, q2); err != nil {
		t.Fatalf("put q2: %v", err)
	}

	bySubject, err := st.ListQuizzes(ctx, quiz.ListOpts{SubjectID: "subj-1"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(bySubject) != 1 || bySubject[0].ID != "quiz-1" || bySubject[0].QuestionCount != 2 {
		t.Fatalf("subject filter wrong: %+v", bySubject)
	}

	active, err := st.ListQuizzes(ctx, quiz.ListOpts{ActiveOnly: true})
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 1 || active[0].ID != "quiz-1" {
		t.Fatalf("active filter wrong: %+v", active)
	}
}
