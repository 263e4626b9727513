package templates

import (
	"github.com/go-chi/chi/v5"
)

// MountRoutes registers cheque layout endpoints.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/templates/{bank}", h.Resolve)
	r.Post("/templates/{bank}/calibrate", h.Calibrate)
}
