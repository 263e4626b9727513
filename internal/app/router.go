package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/khata-erp/khata-erp/internal/chequebooks"
	"github.com/khata-erp/khata-erp/internal/printing"
	"github.com/khata-erp/khata-erp/internal/purchases"
	"github.com/khata-erp/khata-erp/internal/templates"
	"github.com/khata-erp/khata-erp/internal/vendors"
	"github.com/khata-erp/khata-erp/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger             *slog.Logger
	Config             *Config
	VendorsHandler     *vendors.Handler
	PurchasesHandler   *purchases.Handler
	ChequeBooksHandler *chequebooks.Handler
	TemplatesHandler   *templates.Handler
	PrintingHandler    *printing.Handler
	JobHandler         *jobs.Handler
}

// NewRouter constructs the chi.Router with engine defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger: params.Logger,
		Config: params.Config,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(api chi.Router) {
		if params.VendorsHandler != nil {
			params.VendorsHandler.MountRoutes(api)
		}
		if params.PurchasesHandler != nil {
			params.PurchasesHandler.MountRoutes(api)
		}
		if params.ChequeBooksHandler != nil {
			params.ChequeBooksHandler.MountRoutes(api)
		}
		if params.TemplatesHandler != nil {
			params.TemplatesHandler.MountRoutes(api)
		}
		if params.PrintingHandler != nil {
			params.PrintingHandler.MountRoutes(api)
		}
		if params.JobHandler != nil {
			api.Route("/jobs", func(jr chi.Router) {
				params.JobHandler.MountRoutes(jr)
			})
		}
	})

	return r
}
