package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"memodeck-client/internal/handlers"
	"memodeck-client/internal/middleware"
	"memodeck-client/internal/websocket"
)

func New(
	jwtAuth *middleware.JWTAuth,
	generateHandler *handlers.GenerateHandler,
	studyHandler *handlers.StudyHandler,
	deckHandler *handlers.DeckHandler,
	wsHub *websocket.Hub,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Generate rate limiter (10 req/min per address)
	generateLimiter := middleware.NewRateLimiter(10, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Generation Routes ────
		r.Route("/generate", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.With(generateLimiter.Middleware).Post("/", generateHandler.Generate)
			r.Get("/status", generateHandler.Status)
			r.Delete("/", generateHandler.Cancel)
		})

		r.Route("/jobs", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/{id}", generateHandler.GetJob)
		})

		// ──── Deck Routes ────
		r.Route("/decks", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/", deckHandler.List)
			r.Get("/{id}", deckHandler.Get)
			r.Get("/{id}/stats", deckHandler.Stats)
			r.Put("/{id}/favorite", deckHandler.ToggleFavorite)
			r.Delete("/{id}", deckHandler.Delete)
		})

		// ──── Study Session Routes ────
		r.Route("/study", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/start", studyHandler.Start)
			r.Get("/current", studyHandler.Current)
			r.Delete("/current", studyHandler.ClearCurrent)
			r.Post("/review", studyHandler.Review)
			r.Post("/timer/start", studyHandler.TimerStart)
			r.Post("/timer/stop", studyHandler.TimerStop)

			r.Post("/sessions/{id}/timings", studyHandler.OpenTiming)
			r.Post("/sessions/{id}/timings/record", studyHandler.RecordTiming)
			r.Put("/sessions/{id}/totals", studyHandler.UpdateTotals)
			r.Get("/sessions/{id}/summary", studyHandler.Summary)
			r.Post("/timings/{id}/end", studyHandler.CloseTiming)
		})

		// ──── WebSocket ────
		r.Get("/ws", wsHub.HandleWebSocket)
	})

	return r
}
