package aggregate

import "github.com/MrJamesThe3rd/kakeibo/internal/expense"

// Level classifies budget usage for display.
type Level string

const (
	LevelOK      Level = "ok"
	LevelWarning Level = "warning"
	LevelOver    Level = "over"
)

// Usage thresholds, in percent, above which a budget is flagged.
const (
	WarningThreshold = 80
	OverThreshold    = 100
)

// Budget is the spending of a period measured against a threshold.
// Remaining is negative once the budget is exceeded.
type Budget struct {
	Budget       int64 `json:"budget"`
	Spent        int64 `json:"spent"`
	Remaining    int64 `json:"remaining"`
	UsagePercent int64 `json:"usagePercent"`
	Level        Level `json:"level"`
}

// Set reports whether a budget was configured. A zero budget means unset.
func (b Budget) Set() bool {
	return b.Budget > 0
}

// BudgetStatus measures the records' total against budget.
func BudgetStatus(records []expense.Expense, budget int64) Budget {
	spent := Total(records)
	usage := Percentage(spent, budget)

	return Budget{
		Budget:       budget,
		Spent:        spent,
		Remaining:    budget - spent,
		UsagePercent: usage,
		Level:        levelOf(usage),
	}
}

func levelOf(usage int64) Level {
	switch {
	case usage > OverThreshold:
		return LevelOver
	case usage > WarningThreshold:
		return LevelWarning
	default:
		return LevelOK
	}
}
