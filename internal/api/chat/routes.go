package chat

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers chat session routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/api/sessions", func(r chi.Router) {
		r.Post("/", h.StartSession)
		r.Get("/{id}", h.GetSession)
		r.Post("/{id}/upload", h.Upload)
		r.Post("/{id}/chat", h.Chat)
		r.Get("/{id}/transcript", h.Transcript)
	})
}
