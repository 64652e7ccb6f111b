package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all nanobot routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/nanobots", func(r chi.Router) {
		r.Post("/design", h.HandleDesign)
		r.Post("/delivery", h.HandleDelivery)
		r.Get("/payloads", h.HandlePayloads)
	})
}
