// Package aggregate derives read-only views from a collection of expenses.
// Every function is pure: inputs are never modified.
package aggregate

import (
	"cmp"
	"slices"
	"strings"

	"github.com/MrJamesThe3rd/kakeibo/internal/expense"
)

// CategoryTotal is the summed amount of one category.
type CategoryTotal struct {
	Category string `json:"category"`
	Total    int64  `json:"total"`
}

// Totals are per-category sums in the order each category was first seen.
type Totals []CategoryTotal

// Map returns the totals keyed by category.
func (t Totals) Map() map[string]int64 {
	m := make(map[string]int64, len(t))
	for _, ct := range t {
		m[ct.Category] = ct.Total
	}

	return m
}

// Sum is the grand total across categories.
func (t Totals) Sum() int64 {
	var sum int64
	for _, ct := range t {
		sum += ct.Total
	}

	return sum
}

// FilterByDateRange keeps records whose date lies within [start, end]. Dates are
// compared as ISO strings. An empty bound is open.
func FilterByDateRange(records []expense.Expense, start, end string) []expense.Expense {
	out := make([]expense.Expense, 0, len(records))
	for _, e := range records {
		if inRange(e.Date, start, end) {
			out = append(out, e)
		}
	}

	return out
}

// Filter narrows a collection to a date range, a category and a memo search.
// Zero-valued fields match everything.
type Filter struct {
	Start    string
	End      string
	Category string
	Query    string
}

func (f Filter) Apply(records []expense.Expense) []expense.Expense {
	query := strings.ToLower(strings.TrimSpace(f.Query))

	out := make([]expense.Expense, 0, len(records))
	for _, e := range records {
		if !inRange(e.Date, f.Start, f.End) {
			continue
		}

		if f.Category != "" && e.Category != f.Category {
			continue
		}

		if query != "" && !strings.Contains(strings.ToLower(e.Memo), query) {
			continue
		}

		out = append(out, e)
	}

	return out
}

func Total(records []expense.Expense) int64 {
	var total int64
	for _, e := range records {
		total += e.Amount
	}

	return total
}

// CategoryTotals sums amounts per category. Only categories that occur are present.
func CategoryTotals(records []expense.Expense) Totals {
	index := make(map[string]int)

	totals := Totals{}
	for _, e := range records {
		i, ok := index[e.Category]
		if !ok {
			i = len(totals)
			index[e.Category] = i
			totals = append(totals, CategoryTotal{Category: e.Category})
		}

		totals[i].Total += e.Amount
	}

	return totals
}

// Percentage is part/whole*100 rounded half away from zero, or 0 when whole is 0.
func Percentage(part, whole int64) int64 {
	if whole == 0 {
		return 0
	}

	n := part * 100
	if (n < 0) != (whole < 0) {
		return -roundedDiv(abs(n), abs(whole))
	}

	return roundedDiv(abs(n), abs(whole))
}

// TopCategories returns at most n category totals, largest first. Equal totals keep
// the order in which their categories were first seen.
func TopCategories(records []expense.Expense, n int) Totals {
	if n <= 0 {
		return Totals{}
	}

	totals := CategoryTotals(records)
	slices.SortStableFunc(totals, func(a, b CategoryTotal) int {
		return cmp.Compare(b.Total, a.Total)
	})

	return totals[:min(n, len(totals))]
}

// RecentExpenses returns the first n records by date, newest first. Records sharing
// a date keep their stored order.
func RecentExpenses(records []expense.Expense, n int) []expense.Expense {
	if n <= 0 {
		return []expense.Expense{}
	}

	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b expense.Expense) int {
		return strings.Compare(b.Date, a.Date)
	})

	return sorted[:min(n, len(sorted))]
}

// CategoryShare is a category total with its share of the grand total.
type CategoryShare struct {
	CategoryTotal
	Percentage int64 `json:"percentage"`
}

// CategoryBreakdown lists every category with its percentage of the grand total,
// largest first.
func CategoryBreakdown(records []expense.Expense) []CategoryShare {
	totals := CategoryTotals(records)
	sum := totals.Sum()

	slices.SortStableFunc(totals, func(a, b CategoryTotal) int {
		return cmp.Compare(b.Total, a.Total)
	})

	shares := make([]CategoryShare, len(totals))
	for i, ct := range totals {
		shares[i] = CategoryShare{CategoryTotal: ct, Percentage: Percentage(ct.Total, sum)}
	}

	return shares
}

// MonthTotal is the amount spent in one YYYY-MM month.
type MonthTotal struct {
	Month string `json:"month"`
	Total int64  `json:"total"`
}

// MonthlyTotals sums amounts per month, oldest first. Records with a date shorter
// than YYYY-MM are ignored.
func MonthlyTotals(records []expense.Expense) []MonthTotal {
	sums := make(map[string]int64)
	for _, e := range records {
		if len(e.Date) < len("2006-01") {
			continue
		}

		sums[e.Date[:7]] += e.Amount
	}

	out := make([]MonthTotal, 0, len(sums))
	for month, total := range sums {
		out = append(out, MonthTotal{Month: month, Total: total})
	}

	slices.SortFunc(out, func(a, b MonthTotal) int {
		return strings.Compare(a.Month, b.Month)
	})

	return out
}

// MonthOverMonth is the percentage change from previous to current, 0 when there
// was no previous spending.
func MonthOverMonth(current, previous int64) int64 {
	return Percentage(current-previous, previous)
}

func inRange(date, start, end string) bool {
	if start != "" && date < start {
		return false
	}

	if end != "" && date > end {
		return false
	}

	return true
}

func roundedDiv(n, d int64) int64 {
	return (n + d/2) / d
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}

	return n
}
