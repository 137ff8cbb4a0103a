package orders

import (
	"log/slog"
	"net/http"

	"github.com/supplyline/supplyline/internal/platform/httpx"
)

// Handler exposes order endpoints as JSON.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs the order handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	var (
		items []Order
		err   error
	)
	if q := r.URL.Query(); q.Has("q") {
		items, err = h.service.Search(r.Context(), q.Get("q"))
	} else {
		items, err = h.service.List(r.Context())
	}
	if err != nil {
		h.fail(w, "list orders", err)
		return
	}
	httpx.JSON(w, http.StatusOK, items)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	rec, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.fail(w, "get order", err)
		return
	}
	httpx.JSON(w, http.StatusOK, rec)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var rec Order
	if err := httpx.DecodeJSON(r, &rec); err != nil {
		httpx.RespondError(w, err)
		return
	}
	created, err := h.service.Create(r.Context(), rec)
	if err != nil {
		h.fail(w, "create order", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var rec Order
	if err := httpx.DecodeJSON(r, &rec); err != nil {
		httpx.RespondError(w, err)
		return
	}
	rec.ID = id
	if err := h.service.Update(r.Context(), rec); err != nil {
		h.fail(w, "update order", err)
		return
	}
	updated, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.fail(w, "reload order", err)
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.fail(w, "delete order", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) fail(w http.ResponseWriter, msg string, err error) {
	h.logger.Warn(msg, slog.Any("error", err))
	httpx.RespondError(w, err)
}
