package view

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Today returns the local date as YYYY-MM-DD.
func Today() string {
	return time.Now().Format(dateLayout)
}

// FormatMonth turns a YYYY-MM key into 2024年6月.
func FormatMonth(key string) string {
	t, err := time.Parse("2006-01", key)
	if err != nil {
		return key
	}

	return fmt.Sprintf("%d年%d月", t.Year(), int(t.Month()))
}

func validateDate(s string) error {
	if _, err := time.Parse(dateLayout, s); err != nil {
		return fmt.Errorf("date must be YYYY-MM-DD")
	}

	return nil
}
