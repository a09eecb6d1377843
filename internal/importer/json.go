package importer

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/kakeibo/internal/expense"
)

// JSON reads an array of expense objects as produced by the JSON export. Ids and
// update times in the payload are ignored. Amounts may be numbers or numeric strings.
type JSON struct{}

func NewJSON() *JSON {
	return &JSON{}
}

type jsonRecord struct {
	Date      string          `json:"date"`
	Category  string          `json:"category"`
	Amount    json.RawMessage `json:"amount"`
	Memo      *string         `json:"memo"`
	CreatedAt *string         `json:"createdAt"`
}

func (p *JSON) Parse(r io.Reader) ([]expense.Imported, error) {
	var records []jsonRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("%w: decode json: %w", ErrMalformed, err)
	}

	var items []expense.Imported

	for _, rec := range records {
		amount, ok := parseJSONAmount(rec.Amount)
		if !ok || strings.TrimSpace(rec.Date) == "" || strings.TrimSpace(rec.Category) == "" {
			continue
		}

		item := expense.Imported{
			CreateParams: expense.CreateParams{
				Date:     strings.TrimSpace(rec.Date),
				Category: strings.TrimSpace(rec.Category),
				Amount:   amount,
			},
		}

		if rec.Memo != nil {
			item.Memo = *rec.Memo
		}

		if rec.CreatedAt != nil {
			item.CreatedAt = parseTimestamp(*rec.CreatedAt)
		}

		items = append(items, item)
	}

	return items, nil
}

func parseJSONAmount(raw json.RawMessage) (int64, bool) {
	if len(raw) == 0 {
		return 0, false
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		if v, err := n.Int64(); err == nil && v != 0 {
			return v, true
		}

		return 0, false
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, false
	}

	v, err := expense.ParseAmount(s)
	if err != nil || v == 0 {
		return 0, false
	}

	return v, true
}

// parseTimestamp returns nil for empty or unparseable values.
func parseTimestamp(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return nil
	}

	return &t
}
