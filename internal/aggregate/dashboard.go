package aggregate

import (
	"time"

	"github.com/MrJamesThe3rd/kakeibo/internal/expense"
	"github.com/MrJamesThe3rd/kakeibo/internal/period"
)

// Dashboard list sizes.
const (
	DashboardTopCategories = 3
	DashboardRecent        = 5
)

// Summary is the home screen: this month against last month and the budget.
// TopCategories shares are relative to this month's total.
type Summary struct {
	Period        period.Range      `json:"period"`
	MonthTotal    int64             `json:"monthTotal"`
	LastMonth     int64             `json:"lastMonthTotal"`
	ChangePercent int64             `json:"changePercent"`
	Count         int               `json:"count"`
	Budget        Budget            `json:"budget"`
	TopCategories []CategoryShare   `json:"topCategories"`
	Recent        []expense.Expense `json:"recent"`
}

// Dashboard computes the home screen summary as of now.
func Dashboard(records []expense.Expense, settings expense.Settings, now time.Time) Summary {
	current := period.ThisMonth(now)
	previous := period.LastMonth(now)

	monthRecords := FilterByDateRange(records, current.Start, current.End)
	monthTotal := Total(monthRecords)
	lastTotal := Total(FilterByDateRange(records, previous.Start, previous.End))

	top := CategoryBreakdown(monthRecords)
	top = top[:min(DashboardTopCategories, len(top))]

	return Summary{
		Period:        current,
		MonthTotal:    monthTotal,
		LastMonth:     lastTotal,
		ChangePercent: MonthOverMonth(monthTotal, lastTotal),
		Count:         len(monthRecords),
		Budget:        BudgetStatus(monthRecords, settings.MonthlyBudget),
		TopCategories: top,
		Recent:        RecentExpenses(records, DashboardRecent),
	}
}
