package analytics

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/kakeibo/internal/aggregate"
	"github.com/MrJamesThe3rd/kakeibo/internal/expense"
	"github.com/MrJamesThe3rd/kakeibo/internal/period"
)

type Handler struct {
	svc *expense.Service
	now func() time.Time
}

func NewHandler(svc *expense.Service) *Handler {
	return &Handler{svc: svc, now: time.Now}
}

// WithClock replaces time.Now for period resolution.
func (h *Handler) WithClock(now func() time.Time) *Handler {
	h.now = now
	return h
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/dashboard", h.dashboard)
	r.Get("/categories", h.categories)
	r.Get("/budget", h.budget)
	r.Get("/monthly", h.monthly)
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	summary := aggregate.Dashboard(h.svc.LoadExpenses(ctx), h.svc.LoadSettings(ctx), h.now())

	writeJSON(w, summary)
}

type categoriesResponse struct {
	Period     period.Range              `json:"period"`
	Total      int64                     `json:"total"`
	Categories []aggregate.CategoryShare `json:"categories"`
}

// categories breaks a period down by category. The period query takes week,
// month or lastMonth and defaults to month. A month query (YYYY-MM) selects
// that calendar month and takes precedence over period.
func (h *Handler) categories(w http.ResponseWriter, r *http.Request) {
	rng := period.Resolve(period.Kind(r.URL.Query().Get("period")), h.now())

	if key := r.URL.Query().Get("month"); key != "" {
		var err error
		if rng, err = period.Month(key); err != nil {
			http.Error(w, "month must be YYYY-MM", http.StatusBadRequest)
			return
		}
	}

	records := aggregate.FilterByDateRange(h.svc.LoadExpenses(r.Context()), rng.Start, rng.End)

	writeJSON(w, categoriesResponse{
		Period:     rng,
		Total:      aggregate.Total(records),
		Categories: aggregate.CategoryBreakdown(records),
	})
}

type budgetResponse struct {
	aggregate.Budget
	Period period.Range `json:"period"`
	IsSet  bool         `json:"is_set"`
}

// budget measures this month against the monthly budget.
func (h *Handler) budget(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rng := period.ThisMonth(h.now())
	records := aggregate.FilterByDateRange(h.svc.LoadExpenses(ctx), rng.Start, rng.End)
	status := aggregate.BudgetStatus(records, h.svc.LoadSettings(ctx).MonthlyBudget)

	writeJSON(w, budgetResponse{Budget: status, Period: rng, IsSet: status.Set()})
}

func (h *Handler) monthly(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, aggregate.MonthlyTotals(h.svc.LoadExpenses(r.Context())))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
