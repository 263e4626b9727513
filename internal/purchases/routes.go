package purchases

import (
	"github.com/go-chi/chi/v5"
)

// MountRoutes registers purchase entry endpoints.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/purchases/preview", h.Preview)
	r.Post("/purchases", h.Save)
	r.Get("/purchases", h.List)
	r.Get("/purchases/{id}", h.Get)
	r.Delete("/purchases/{id}", h.Delete)
	r.Post("/purchases/{id}/restore", h.Restore)
}
