package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/seolim/thoughtcast/internal/auth"
)

// NewRouter wires the HTTP surface. Everything under /api requires a bearer
// token; health does not.
func NewRouter(server *Server, verifier auth.TokenVerifier, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", server.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(Authenticator(verifier, logger))

		r.Route("/thoughts", func(r chi.Router) {
			r.Get("/", server.handleListThoughts)
			r.Post("/analyze", server.handleAnalyze)
			r.Post("/analyze/stream", server.handleAnalyzeStream)
			r.Post("/enhanced", server.handleEnhanced)
			r.Post("/voice", server.handleVoiceAware)
			r.Get("/{id}", server.handleGetThought)
			r.Delete("/{id}", server.handleDeleteThought)
		})

		r.Route("/voice", func(r chi.Router) {
			r.Get("/questions", server.handleDiscoveryQuestions)
			r.Post("/discovery", server.handleDiscovery)
			r.Post("/feedback", server.handleVoiceFeedback)
		})
	})

	return r
}
