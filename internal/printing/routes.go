package printing

import (
	"github.com/go-chi/chi/v5"
)

// MountRoutes registers print queue and ledger endpoints.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/print-queue", h.Enqueue)
	r.Get("/print-queue/{id}", h.GetQueueItem)
	r.Post("/print-queue/{id}/claim", h.ClaimLeaf)
	r.Get("/print-queue/{id}/bundle", h.Bundle)
	r.Post("/print-ledger", h.RecordOutcome)
	r.Post("/print-ledger/{id}/void", h.Void)
	r.Get("/print-ledger", h.QueryLedger)
}
