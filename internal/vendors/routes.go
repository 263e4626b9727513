package vendors

import (
	"github.com/go-chi/chi/v5"
)

// MountRoutes registers vendor endpoints.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/vendors", h.List)
	r.Get("/vendors/{id}", h.Get)
	r.Post("/vendors", h.Create)
}
