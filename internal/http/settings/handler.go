package settings

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/kakeibo/internal/expense"
)

type Handler struct {
	svc *expense.Service
}

func NewHandler(svc *expense.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.get)
	r.Patch("/", h.update)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.svc.LoadSettings(r.Context()))
}

// update merges the provided keys over the stored settings.
func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var patch expense.SettingsPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := patch.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	settings, err := h.svc.UpdateSettings(r.Context(), patch)
	if err != nil {
		if errors.Is(err, expense.ErrPersist) {
			http.Error(w, "failed to save settings", http.StatusInternalServerError)
			return
		}

		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	writeJSON(w, settings)
}

// SyncConfig returns the stored sync metadata.
func (h *Handler) SyncConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.svc.LoadSyncConfig(r.Context()))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
