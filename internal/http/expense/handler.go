package expense

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/kakeibo/internal/aggregate"
	"github.com/MrJamesThe3rd/kakeibo/internal/expense"
)

type Handler struct {
	svc *expense.Service
}

func NewHandler(svc *expense.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type createExpenseRequest struct {
	Date     string `json:"date"`
	Category string `json:"category"`
	Amount   int64  `json:"amount"`
	Memo     string `json:"memo"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	params := expense.CreateParams{
		Date:     req.Date,
		Category: req.Category,
		Amount:   req.Amount,
		Memo:     req.Memo,
	}

	if err := params.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	e, err := h.svc.Add(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toResponse(e))
}

// list returns the filtered collection, newest first.
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := aggregate.Filter{
		Start:    q.Get("start_date"),
		End:      q.Get("end_date"),
		Category: q.Get("category"),
		Query:    q.Get("q"),
	}

	records := filter.Apply(h.svc.LoadExpenses(r.Context()))
	records = aggregate.RecentExpenses(records, len(records))

	writeJSON(w, http.StatusOK, toResponseList(records))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	e, ok := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, "expense not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, toResponse(e))
}

type updateExpenseRequest struct {
	Date     *string `json:"date,omitempty"`
	Category *string `json:"category,omitempty"`
	Amount   *int64  `json:"amount,omitempty"`
	Memo     *string `json:"memo,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	patch := expense.Patch{
		Date:     req.Date,
		Category: req.Category,
		Amount:   req.Amount,
		Memo:     req.Memo,
	}

	if patch.IsEmpty() {
		http.Error(w, "no fields to update", http.StatusBadRequest)
		return
	}

	if err := patch.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	found, err := h.svc.Update(r.Context(), id, patch)
	if err != nil {
		writeError(w, err)
		return
	}

	if !found {
		http.Error(w, "expense not found", http.StatusNotFound)
		return
	}

	e, _ := h.svc.Get(r.Context(), id)
	writeJSON(w, http.StatusOK, toResponse(e))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	found, err := h.svc.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	if !found {
		http.Error(w, "expense not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type clearRequest struct {
	Confirm      bool `json:"confirm"`
	ConfirmAgain bool `json:"confirm_again"`
}

type clearResponse struct {
	Cleared bool `json:"cleared"`
}

// Clear deletes every expense. Both confirmations must be true.
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	var req clearRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	cleared, err := h.svc.ClearAll(r.Context(), expense.Confirmation{First: req.Confirm, Second: req.ConfirmAgain})
	if err != nil {
		writeError(w, err)
		return
	}

	if !cleared {
		http.Error(w, "both confirmations are required", http.StatusPreconditionFailed)
		return
	}

	writeJSON(w, http.StatusOK, clearResponse{Cleared: true})
}

// Categories lists the category table.
func (h *Handler) Categories(w http.ResponseWriter, _ *http.Request) {
	categories := expense.Categories()

	resp := make([]categoryResponse, len(categories))
	for i, c := range categories {
		resp[i] = categoryResponse{Name: c.Name, Icon: c.Icon, Color: c.Color, DarkColor: c.DarkColor}
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, expense.ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, expense.ErrPersist):
		http.Error(w, "failed to save expenses", http.StatusInternalServerError)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
