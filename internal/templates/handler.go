package templates

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/khata-erp/khata-erp/internal/platform/httpx"
)

// Handler exposes layout resolution and calibration endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a template handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.service.Resolve(r.Context(), chi.URLParam(r, "bank"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, cfg)
}

type calibrateRequest struct {
	ActorID int64                 `json:"actor_id"`
	Deltas  map[string]FieldDelta `json:"deltas"`
}

func (h *Handler) Calibrate(w http.ResponseWriter, r *http.Request) {
	var req calibrateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	actorID := req.ActorID
	if actorID == 0 {
		actorID, _ = strconv.ParseInt(r.URL.Query().Get("actor_id"), 10, 64)
	}
	cfg, err := h.service.Calibrate(r.Context(), actorID, chi.URLParam(r, "bank"), req.Deltas)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, cfg)
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	default:
		h.logger.Error("templates request failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
