package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/rxstudy-api/internal/api"
	apiMiddleware "github.com/phrazzld/rxstudy-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all
// routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(app.userService, app.jwtService, app.logger)
	drugHandler := api.NewDrugHandler(app.drugService, app.logger)
	reviewHandler := api.NewReviewHandler(app.reviewService, app.logger)
	sessionHandler := api.NewSessionHandler(app.sessionService, app.logger)
	quizHandler := api.NewQuizHandler(app.quizService, app.logger)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Drug catalog
			r.Get("/drugs", drugHandler.ListDrugs)
			r.Post("/drugs", drugHandler.CreateDrug)
			r.Post("/drugs/draft", drugHandler.DraftDrugs)
			r.Get("/drugs/{id}", drugHandler.GetDrug)
			r.Put("/drugs/{id}", drugHandler.UpdateDrug)
			r.Delete("/drugs/{id}", drugHandler.DeleteDrug)
			r.Get("/systems", drugHandler.ListSystems)

			// Bookmarks and notes
			r.Post("/drugs/{id}/bookmark", drugHandler.BookmarkDrug)
			r.Delete("/drugs/{id}/bookmark", drugHandler.UnbookmarkDrug)
			r.Get("/bookmarks", drugHandler.ListBookmarks)
			r.Post("/drugs/{id}/notes", drugHandler.AddNote)
			r.Get("/drugs/{id}/notes", drugHandler.ListNotes)
			r.Put("/notes/{noteID}", drugHandler.UpdateNote)
			r.Delete("/notes/{noteID}", drugHandler.DeleteNote)

			// Spaced repetition reviews
			r.Get("/reviews/due", reviewHandler.GetDueCards)
			r.Post("/reviews/{drugID}/answer", reviewHandler.SubmitAnswer)

			// Study sessions and statistics
			r.Post("/sessions", sessionHandler.StartSession)
			r.Post("/sessions/{id}/answer", sessionHandler.RecordAnswer)
			r.Post("/sessions/{id}/end", sessionHandler.EndSession)
			r.Get("/statistics", sessionHandler.GetStatistics)
			r.Get("/achievements", sessionHandler.GetAchievements)

			// Quizzes
			r.Get("/quizzes", quizHandler.GenerateQuiz)
			r.Post("/quizzes/scores", quizHandler.SubmitQuiz)
			r.Get("/quizzes/scores", quizHandler.GetQuizHistory)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
