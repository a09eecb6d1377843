// Package period computes the calendar windows the analytics views filter by.
package period

import "time"

// Range is an inclusive window of ISO dates (YYYY-MM-DD).
type Range struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Kind names a predefined window.
type Kind string

const (
	KindWeek      Kind = "week"
	KindMonth     Kind = "month"
	KindLastMonth Kind = "lastMonth"
)

func (k Kind) String() string {
	switch k {
	case KindWeek:
		return "This Week"
	case KindMonth:
		return "This Month"
	case KindLastMonth:
		return "Last Month"
	}

	return "Unknown"
}

// Kinds lists the predefined windows in display order.
func Kinds() []Kind {
	return []Kind{KindWeek, KindMonth, KindLastMonth}
}

// ThisMonth is the first through the last calendar day of now's month.
func ThisMonth(now time.Time) Range {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return between(first, first.AddDate(0, 1, -1))
}

// LastMonth is the calendar month before now's month.
func LastMonth(now time.Time) Range {
	first := time.Date(now.Year(), now.Month()-1, 1, 0, 0, 0, 0, now.Location())
	return between(first, first.AddDate(0, 1, -1))
}

// ThisWeek is the Sunday to Saturday window containing now.
func ThisWeek(now time.Time) Range {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	sunday := day.AddDate(0, 0, -int(day.Weekday()))

	return between(sunday, sunday.AddDate(0, 0, 6))
}

// Resolve returns the window for kind. Unknown kinds resolve to this month.
func Resolve(kind Kind, now time.Time) Range {
	switch kind {
	case KindWeek:
		return ThisWeek(now)
	case KindLastMonth:
		return LastMonth(now)
	default:
		return ThisMonth(now)
	}
}

// Month returns the window of the YYYY-MM month key.
func Month(key string) (Range, error) {
	t, err := time.Parse("2006-01", key)
	if err != nil {
		return Range{}, err
	}

	return ThisMonth(t), nil
}

func between(start, end time.Time) Range {
	return Range{Start: start.Format(time.DateOnly), End: end.Format(time.DateOnly)}
}
