package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all reprogramming routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reprogramming", func(r chi.Router) {
		r.Post("/simulate", h.HandleSimulate)
		r.Post("/circuit", h.HandleCircuit)
		r.Post("/optimize", h.HandleOptimize)
	})
}
