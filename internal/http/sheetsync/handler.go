package sheetsync

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/kakeibo/internal/expense"
	"github.com/MrJamesThe3rd/kakeibo/internal/importer"
	"github.com/MrJamesThe3rd/kakeibo/internal/sheetsync"
)

type Handler struct {
	svc        *sheetsync.Service
	expenseSvc *expense.Service
}

func NewHandler(svc *sheetsync.Service, expenseSvc *expense.Service) *Handler {
	return &Handler{svc: svc, expenseSvc: expenseSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.sync)
	r.Post("/test", h.test)
	r.Post("/fetch", h.fetch)
}

func (h *Handler) sync(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.Sync(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

type testResponse struct {
	OK bool `json:"ok"`
}

func (h *Handler) test(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Test(r.Context()); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, testResponse{OK: true})
}

type fetchResponse struct {
	Fetched  int `json:"fetched"`
	Imported int `json:"imported"`
}

// fetch reads the sheet's rows. With ?import=true they are appended to the
// local collection.
func (h *Handler) fetch(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Fetch(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	resp := fetchResponse{Fetched: len(items)}

	if r.URL.Query().Get("import") == "true" {
		n, err := h.expenseSvc.Import(r.Context(), items)
		if err != nil {
			http.Error(w, "failed to save expenses", http.StatusInternalServerError)
			return
		}

		resp.Imported = n
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, sheetsync.ErrNotConfigured):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	case errors.Is(err, sheetsync.ErrInProgress):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, importer.ErrNoRows):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		slog.Warn("sync request failed", "error", err)
		http.Error(w, err.Error(), http.StatusBadGateway)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
