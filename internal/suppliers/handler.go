package suppliers

import (
	"log/slog"
	"net/http"

	"github.com/supplyline/supplyline/internal/platform/httpx"
	"github.com/supplyline/supplyline/internal/shared"
)

// Handler exposes supplier endpoints as JSON.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	pageSize int
}

// NewHandler constructs the supplier handler.
func NewHandler(logger *slog.Logger, service *Service, pageSize int) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if pageSize <= 0 {
		pageSize = shared.DefaultPerPage
	}
	return &Handler{logger: logger, service: service, pageSize: pageSize}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Has("q") {
		items, err := h.service.Search(r.Context(), q.Get("q"))
		if err != nil {
			h.fail(w, "search suppliers", err)
			return
		}
		httpx.JSON(w, http.StatusOK, items)
		return
	}
	if q.Has("page") {
		page, err := httpx.IntQuery(r, "page", 1)
		if err != nil {
			h.fail(w, "list suppliers", err)
			return
		}
		size, err := httpx.IntQuery(r, "per_page", h.pageSize)
		if err != nil {
			h.fail(w, "list suppliers", err)
			return
		}
		result, err := h.service.ListPage(r.Context(), page, size)
		if err != nil {
			h.fail(w, "list suppliers", err)
			return
		}
		httpx.JSON(w, http.StatusOK, result)
		return
	}
	items, err := h.service.List(r.Context())
	if err != nil {
		h.fail(w, "list suppliers", err)
		return
	}
	httpx.JSON(w, http.StatusOK, items)
}

func (h *Handler) count(w http.ResponseWriter, r *http.Request) {
	n, err := h.service.Count(r.Context())
	if err != nil {
		h.fail(w, "count suppliers", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]int{"count": n})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	rec, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.fail(w, "get supplier", err)
		return
	}
	httpx.JSON(w, http.StatusOK, rec)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var rec Supplier
	if err := httpx.DecodeJSON(r, &rec); err != nil {
		httpx.RespondError(w, err)
		return
	}
	created, err := h.service.Create(r.Context(), rec)
	if err != nil {
		h.fail(w, "create supplier", err)
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
	var rec Supplier
	if err := httpx.DecodeJSON(r, &rec); err != nil {
		httpx.RespondError(w, err)
		return
	}
	rec.ID = id
	if err := h.service.Update(r.Context(), rec); err != nil {
		h.fail(w, "update supplier", err)
		return
	}
	updated, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.fail(w, "reload supplier", err)
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
		h.fail(w, "delete supplier", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) fail(w http.ResponseWriter, msg string, err error) {
	h.logger.Warn(msg, slog.Any("error", err))
	httpx.RespondError(w, err)
}
