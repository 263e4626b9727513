package purchases

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/khata-erp/khata-erp/internal/platform/httpx"
)

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &t
}

// Handler exposes purchase entry endpoints to the UI collaborator.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a purchase handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// Preview recomputes totals from raw input without saving. The UI calls
// this on every field change.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	var req SavePurchaseRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	httpx.JSON(w, http.StatusOK, h.service.Preview(req))
}

func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	var req SavePurchaseRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	p, err := h.service.Save(r.Context(), req)
	if err != nil {
		h.respondError(w, err)
		return
	}
	status := http.StatusCreated
	if req.ID > 0 {
		status = http.StatusOK
	}
	httpx.JSON(w, status, p)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid purchase id")
		return
	}
	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	h.toggleDeleted(w, r, true)
}

func (h *Handler) Restore(w http.ResponseWriter, r *http.Request) {
	h.toggleDeleted(w, r, false)
}

func (h *Handler) toggleDeleted(w http.ResponseWriter, r *http.Request, deleted bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid purchase id")
		return
	}
	actorID, _ := strconv.ParseInt(r.URL.Query().Get("actor_id"), 10, 64)
	if deleted {
		err = h.service.Delete(r.Context(), actorID, id)
	} else {
		err = h.service.Restore(r.Context(), actorID, id)
	}
	if err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	req := ListPurchasesRequest{
		IncludeDeleted: r.URL.Query().Get("include_deleted") == "true",
	}
	req.Page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	req.VendorID, _ = strconv.ParseInt(r.URL.Query().Get("vendor_id"), 10, 64)
	if from := parseDate(r.URL.Query().Get("date_from")); from != nil {
		req.DateFrom = from
	}
	if to := parseDate(r.URL.Query().Get("date_to")); to != nil {
		req.DateTo = to
	}

	items, pagination, err := h.service.List(r.Context(), req)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"purchases": items, "pagination": pagination})
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	var vErr *ValidationError
	switch {
	case errors.As(err, &vErr):
		httpx.JSON(w, http.StatusBadRequest, map[string]any{
			"title":    "Validation Failed",
			"status":   http.StatusBadRequest,
			"problems": vErr.Problems,
		})
	case errors.Is(err, ErrValidation):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	default:
		h.logger.Error("purchases request failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
