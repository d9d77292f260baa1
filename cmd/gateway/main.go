package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	api "github.com/campusgrid/assessment-service/internal/api/http"
	"github.com/campusgrid/assessment-service/internal/assessment"
	"github.com/campusgrid/assessment-service/internal/auth"
	"github.com/campusgrid/assessment-service/internal/config"
	"github.com/campusgrid/assessment-service/internal/db"
	"github.com/campusgrid/assessment-service/internal/eventlog"
	"github.com/campusgrid/assessment-service/internal/quiz"
	"github.com/campusgrid/assessment-service/internal/rbac"
)

func main() {
	cfg := config.FromEnv()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}

	quizStore := quiz.NewSQLStore(dbh)
	assessStore := assessment.NewSQLStore(dbh)
	events := eventlog.NewRepo(dbh)

	authSvc := auth.NewAuthService(cfg.AuthSecret)
	if err := auth.EnsureAdmin(dbh, cfg.AdminUser, cfg.AdminPassHash); err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	now := time.Now

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", auth.LoginHandler(authSvc, dbh))

	// Protected API (JWT → role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		// Quizzes
		pr.With(rbac.Require("quiz:create")).
			Post("/quizzes", api.CreateQuizHandler(quizStore))
		pr.With(rbac.Require("quiz:view")).
			Get("/quizzes", api.ListQuizzesHandler(quizStore))
		pr.With(rbac.Require("quiz:view")).
			Get("/quizzes/{quizID}", api.GetQuizHandler(quizStore))
		pr.With(rbac.Require("quiz:edit")).
			Put("/quizzes/{quizID}", api.UpdateQuizHandler(quizStore))
		pr.With(rbac.Require("quiz:delete-own")).
			Delete("/quizzes/{quizID}", api.DeleteQuizHandler(quizStore))
		pr.With(rbac.Require("quiz:view")).
			Get("/quizzes/{quizID}/review", api.ReviewQuizHandler(quizStore))

		// Questions (structural edits)
		pr.With(rbac.Require("question:add")).
			Post("/quizzes/{quizID}/questions", api.AddQuestionHandler(quizStore))
		pr.With(rbac.Require("question:reorder")).
			Post("/quizzes/{quizID}/questions/reorder", api.ReorderQuestionsHandler(quizStore))

		// Attempts (student flow)
		pr.With(rbac.Require("quiz:take")).
			Get("/quizzes/{quizID}/take", api.TakeQuizHandler(quizStore))
		pr.With(rbac.Require("attempt:create")).
			Post("/quizzes/{quizID}/attempts", api.SubmitQuizAttemptHandler(quizStore, events, now))
		pr.With(rbac.RequireAny("attempt:view-own", "attempt:view-all")).
			Get("/attempts", api.ListAttemptsHandler(quizStore))

		// Assessments
		pr.With(rbac.Require("assessment:create")).
			Post("/assessments", api.CreateAssessmentHandler(assessStore, now))
		pr.With(rbac.Require("assessment:view")).
			Get("/assessments", api.ListAssessmentsHandler(assessStore, now))
		pr.With(rbac.Require("assessment:view")).
			Get("/assessments/{assessmentID}", api.GetAssessmentHandler(assessStore, now))
		pr.With(rbac.Require("assessment:edit")).
			Put("/assessments/{assessmentID}", api.UpdateAssessmentHandler(assessStore, now))
		pr.With(rbac.Require("assessment:delete-own")).
			Delete("/assessments/{assessmentID}", api.DeleteAssessmentHandler(assessStore))

		// Results
		pr.With(rbac.Require("result:create")).
			Post("/assessments/{assessmentID}/results", api.CreateResultHandler(assessStore))
		pr.With(rbac.RequireAny("result:view-own", "result:view-all")).
			Get("/assessments/{assessmentID}/results", api.ListResultsHandler(assessStore))
		pr.With(rbac.RequireAny("result:view-own", "result:view-all")).
			Get("/results/{resultID}", api.GetResultHandler(assessStore))
		pr.With(rbac.Require("result:submit")).
			Post("/results/{resultID}/submit", api.SubmitResultHandler(assessStore, events, now))
		pr.With(rbac.Require("result:grade")).
			Post("/results/{resultID}/grade", api.GradeResultHandler(assessStore, events, now))

		// Users (teacher/admin)
		pr.With(rbac.Require("users:bulk_upsert")).
			Post("/users/bulk", api.BulkUpsertUsersHandler(dbh))
		pr.With(rbac.Require("users:list")).
			Get("/users", api.ListUsersHandler(dbh))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := dbh.PingContext(r.Context()); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	log.Printf("listening on %s (db=%s)", cfg.HTTPAddr, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
