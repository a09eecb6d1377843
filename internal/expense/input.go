package expense

import (
	"html"
	"strconv"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// SanitizeMemo neutralises markup in free text. It is idempotent: text that was
// already escaped is not escaped twice, so exported memos survive re-import.
func SanitizeMemo(memo string) string {
	return html.EscapeString(html.UnescapeString(memo))
}

// ParseAmount coerces a form value to whole currency units.
// Currency signs, thousands separators and surrounding spaces are ignored.
func ParseAmount(s string) (int64, error) {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r == ',' || r == '¥' || r == '￥' || unicode.IsSpace(r):
			return -1
		}

		return r
	}, s)

	if clean == "" {
		return 0, ErrInvalidInput
	}

	amount, err := strconv.ParseInt(clean, 10, 64)
	if err != nil {
		return 0, ErrInvalidInput
	}

	return amount, nil
}

// NewID returns a time-ordered unique id: a millisecond timestamp followed by random bits.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return id.String()
}
