package expense

import (
	"time"

	"github.com/MrJamesThe3rd/kakeibo/internal/expense"
)

type expenseResponse struct {
	ID           string    `json:"id"`
	Date         string    `json:"date"`
	Category     string    `json:"category"`
	CategoryIcon string    `json:"category_icon"`
	Amount       int64     `json:"amount"`
	Memo         string    `json:"memo"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type categoryResponse struct {
	Name      string `json:"name"`
	Icon      string `json:"icon"`
	Color     string `json:"color"`
	DarkColor string `json:"dark_color"`
}

func toResponse(e expense.Expense) expenseResponse {
	return expenseResponse{
		ID:           e.ID,
		Date:         e.Date,
		Category:     e.Category,
		CategoryIcon: expense.CategoryIcon(e.Category),
		Amount:       e.Amount,
		Memo:         e.Memo,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

func toResponseList(records []expense.Expense) []expenseResponse {
	resp := make([]expenseResponse, len(records))
	for i, e := range records {
		resp[i] = toResponse(e)
	}

	return resp
}
