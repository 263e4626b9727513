package chequebooks

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/khata-erp/khata-erp/internal/platform/httpx"
)

// Handler exposes cheque book endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a cheque book handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

type registerBookRequest struct {
	ActorID     int64  `json:"actor_id"`
	BookName    string `json:"book_name"`
	BankName    string `json:"bank_name"`
	StartNumber int64  `json:"start_number"`
	EndNumber   int64  `json:"end_number"`
	IsActive    bool   `json:"is_active"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerBookRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	b, err := h.service.Register(r.Context(), req.ActorID, Book{
		BookName:    req.BookName,
		BankName:    req.BankName,
		StartNumber: req.StartNumber,
		EndNumber:   req.EndNumber,
		IsActive:    req.IsActive,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, b)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.service.List(r.Context(), r.URL.Query().Get("bank"))
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"books": books})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid book id")
		return
	}
	b, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"book":             b,
		"remaining_leaves": b.RemainingLeaves(),
		"exhausted":        b.Exhausted(),
	})
}

func (h *Handler) Activate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid book id")
		return
	}
	actorID, _ := strconv.ParseInt(r.URL.Query().Get("actor_id"), 10, 64)
	if err := h.service.SetActive(r.Context(), actorID, id); err != nil {
		h.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrValidation):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, ErrBookExhausted):
		httpx.Problem(w, http.StatusConflict, "Book Exhausted", err.Error())
	default:
		h.logger.Error("chequebooks request failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
