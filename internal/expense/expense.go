package expense

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxMemoLength is the longest memo, in characters, accepted by Validate.
const MaxMemoLength = 200

// TimestampLayout is the ISO 8601 layout used when timestamps are rendered as text.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Expense is one logged spending event.
type Expense struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"` // YYYY-MM-DD
	Category  string    `json:"category"`
	Amount    int64     `json:"amount"` // whole currency units
	Memo      string    `json:"memo"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateParams holds the user-supplied fields of a new expense.
type CreateParams struct {
	Date     string
	Category string
	Amount   int64
	Memo     string
}

// Validate applies the rules a caller must check before handing params to the Store.
func (p CreateParams) Validate() error {
	if err := validateDate(p.Date); err != nil {
		return err
	}

	if err := validateCategory(p.Category); err != nil {
		return err
	}

	if err := validateAmount(p.Amount); err != nil {
		return err
	}

	return validateMemo(p.Memo)
}

// Imported is a candidate record parsed from an import payload.
// CreatedAt is nil when the payload did not carry a creation time.
type Imported struct {
	CreateParams
	CreatedAt *time.Time
}

// Patch lists the settable fields of an existing expense. Nil fields are left untouched.
type Patch struct {
	Date     *string
	Category *string
	Amount   *int64
	Memo     *string
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Date == nil && p.Category == nil && p.Amount == nil && p.Memo == nil
}

// Validate checks every field the patch sets.
func (p Patch) Validate() error {
	if p.Date != nil {
		if err := validateDate(*p.Date); err != nil {
			return err
		}
	}

	if p.Category != nil {
		if err := validateCategory(*p.Category); err != nil {
			return err
		}
	}

	if p.Amount != nil {
		if err := validateAmount(*p.Amount); err != nil {
			return err
		}
	}

	if p.Memo != nil {
		return validateMemo(*p.Memo)
	}

	return nil
}

// Apply merges the patch over e. The memo is sanitised on the way in.
func (p Patch) Apply(e *Expense) {
	if p.Date != nil {
		e.Date = *p.Date
	}

	if p.Category != nil {
		e.Category = *p.Category
	}

	if p.Amount != nil {
		e.Amount = *p.Amount
	}

	if p.Memo != nil {
		e.Memo = SanitizeMemo(*p.Memo)
	}
}

func validateDate(date string) error {
	if strings.TrimSpace(date) == "" {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if _, err := time.Parse(time.DateOnly, date); err != nil {
		return fmt.Errorf("%w: date %q is not YYYY-MM-DD", ErrInvalidInput, date)
	}

	return nil
}

func validateCategory(category string) error {
	if strings.TrimSpace(category) == "" {
		return fmt.Errorf("%w: category is required", ErrInvalidInput)
	}

	if !IsKnownCategory(category) {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidInput, category)
	}

	return nil
}

func validateAmount(amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: amount must be greater than 0", ErrInvalidInput)
	}

	return nil
}

func validateMemo(memo string) error {
	if utf8.RuneCountInString(memo) > MaxMemoLength {
		return fmt.Errorf("%w: memo longer than %d characters", ErrInvalidInput, MaxMemoLength)
	}

	return nil
}
