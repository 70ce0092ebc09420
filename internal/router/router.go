package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"smartlens-backend/internal/handlers"
	"smartlens-backend/internal/middleware"
)

func New(
	sessionAuth *middleware.SessionAuth,
	sessionHandler *handlers.SessionHandler,
	lessonHandler *handlers.LessonHandler,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Generation costs one upstream AI call, so it gets its own limiter.
	analyzeLimiter := middleware.NewRateLimiter(10, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Session Routes ────
		r.Post("/session", sessionHandler.Create)

		r.Group(func(r chi.Router) {
			r.Use(sessionAuth.Middleware)
			r.Get("/session/score", sessionHandler.Score)
		})

		// ──── Lesson Routes ────
		r.Route("/lessons", func(r chi.Router) {
			r.Use(sessionAuth.Middleware)

			r.Group(func(r chi.Router) {
				r.Use(analyzeLimiter.Middleware)
				r.Post("/analyze-video", lessonHandler.AnalyzeVideo)
				r.Post("/analyze-text", lessonHandler.AnalyzeText)
				r.Post("/analyze-file", lessonHandler.AnalyzeFile)
			})

			r.Get("/current", lessonHandler.Current)
			r.Delete("/current", lessonHandler.ClearCurrent)
			r.Get("/history", lessonHandler.History)
			r.Post("/history/{id}/load", lessonHandler.LoadHistory)
			r.Post("/answers", sessionHandler.SubmitAnswer)
		})
	})

	return r
}
