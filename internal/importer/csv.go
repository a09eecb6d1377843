package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/MrJamesThe3rd/kakeibo/internal/expense"
)

// CSV reads files in the export column order: date, category, amount, memo,
// created at. The first row is a header. Rows with fewer than four cells, or
// without a date, category or numeric amount, are skipped.
type CSV struct{}

func NewCSV() *CSV {
	return &CSV{}
}

func (p *CSV) Parse(r io.Reader) ([]expense.Imported, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: read csv: %w", ErrMalformed, err)
	}

	if len(rows) == 0 {
		return nil, nil
	}

	var items []expense.Imported

	for _, row := range rows[1:] {
		if len(row) < 4 {
			continue
		}

		item, ok := parseRow(row)
		if !ok {
			continue
		}

		items = append(items, item)
	}

	return items, nil
}

func parseRow(row []string) (expense.Imported, bool) {
	date := strings.TrimSpace(row[0])
	category := strings.TrimSpace(row[1])
	if date == "" || category == "" {
		return expense.Imported{}, false
	}

	amount, err := expense.ParseAmount(row[2])
	if err != nil || amount == 0 {
		return expense.Imported{}, false
	}

	item := expense.Imported{
		CreateParams: expense.CreateParams{
			Date:     date,
			Category: category,
			Amount:   amount,
			Memo:     row[3],
		},
	}

	if len(row) > 4 {
		item.CreatedAt = parseTimestamp(row[4])
	}

	return item, true
}
