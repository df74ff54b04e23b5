package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"chemchat/internal/handlers"
	"chemchat/internal/service"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Model service.ModelService
}

// NewRouter creates the stub ChemLLM router.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(CORS)

	chemllm := handlers.NewChemLLMHandler(deps.Model)

	r.Route("/chemllm", func(r chi.Router) {
		r.Get("/status", chemllm.Status)
		r.Post("/generate", chemllm.Generate)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	return r
}
