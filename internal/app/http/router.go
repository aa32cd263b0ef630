package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"funilaria-puma/backend/internal/app/config"
	"funilaria-puma/backend/internal/app/http/handlers"
	"funilaria-puma/backend/internal/app/http/middleware"
)

func NewRouter(cfg config.Config, h *handlers.Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSAllowOrigin))

	r.Get("/health", h.Health)

	r.Route("/orcamentos", func(r chi.Router) {
		r.Get("/", h.ListQuotes)
		r.Post("/", h.CreateQuote)
		r.Get("/{id}", h.GetQuote)
		r.Put("/{id}", h.UpdateQuote)
		r.Delete("/{id}", h.DeleteQuote)
		r.Get("/{id}/pdf", h.QuotePDF)
	})

	return r
}
