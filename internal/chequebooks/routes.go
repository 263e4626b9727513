package chequebooks

import (
	"github.com/go-chi/chi/v5"
)

// MountRoutes registers cheque book endpoints.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/cheque-books", h.List)
	r.Get("/cheque-books/{id}", h.Get)
	r.Post("/cheque-books", h.Register)
	r.Post("/cheque-books/{id}/activate", h.Activate)
}
