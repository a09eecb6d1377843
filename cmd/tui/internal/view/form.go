package view

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"

	"github.com/MrJamesThe3rd/kakeibo/internal/expense"
)

// expenseFormValues backs the add and edit forms. It is held by pointer so the
// bindings survive the model being copied between updates.
type expenseFormValues struct {
	Date     string
	Category string
	Amount   string
	Memo     string
}

func newExpenseFormValues() *expenseFormValues {
	return &expenseFormValues{Date: Today(), Category: expense.CategoryNames()[0]}
}

func expenseFormValuesFrom(e expense.Expense) *expenseFormValues {
	return &expenseFormValues{
		Date:     e.Date,
		Category: e.Category,
		Amount:   strconv.FormatInt(e.Amount, 10),
		Memo:     e.Memo,
	}
}

// params converts the bound strings. The form validators have already run.
func (v *expenseFormValues) params() (expense.CreateParams, error) {
	amount, err := expense.ParseAmount(v.Amount)
	if err != nil {
		return expense.CreateParams{}, err
	}

	return expense.CreateParams{Date: v.Date, Category: v.Category, Amount: amount, Memo: v.Memo}, nil
}

func newExpenseForm(v *expenseFormValues) *huh.Form {
	options := make([]huh.Option[string], 0, len(expense.Categories()))
	for _, c := range expense.Categories() {
		options = append(options, huh.NewOption(CategoryLabel(c.Name), c.Name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("date").
				Title("Date").
				Placeholder("YYYY-MM-DD").
				Value(&v.Date).
				Validate(validateDate),

			huh.NewSelect[string]().
				Key("category").
				Title("Category").
				Options(options...).
				Value(&v.Category),

			huh.NewInput().
				Key("amount").
				Title("Amount (¥)").
				Placeholder("1500").
				Value(&v.Amount).
				Validate(func(s string) error {
					n, err := expense.ParseAmount(s)
					if err != nil {
						return fmt.Errorf("amount must be a whole number")
					}
					if n <= 0 {
						return fmt.Errorf("amount must be positive")
					}
					return nil
				}),

			huh.NewInput().
				Key("memo").
				Title("Memo").
				CharLimit(expense.MaxMemoLength).
				Value(&v.Memo),
		),
	).WithWidth(45).WithShowHelp(false)
}
