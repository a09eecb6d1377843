package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/MrJamesThe3rd/kakeibo/internal/expense"
)

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat accepts a format name in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatJSON:
		return f, nil
	}

	return "", fmt.Errorf("unsupported export format: %q", s)
}

func (f Format) ContentType() string {
	if f == FormatJSON {
		return "application/json"
	}

	return "text/csv; charset=utf-8"
}

var csvHeader = []string{"日付", "カテゴリ", "金額", "メモ", "作成日時"}

const bom = "\ufeff"

// CSV renders records as a BOM-prefixed UTF-8 table with every cell quoted, so
// spreadsheet tools open it with the right encoding.
func CSV(records []expense.Expense) []byte {
	var buf bytes.Buffer
	buf.WriteString(bom)
	writeRow(&buf, csvHeader)

	for _, e := range records {
		buf.WriteByte('\n')
		writeRow(&buf, []string{
			e.Date,
			e.Category,
			strconv.FormatInt(e.Amount, 10),
			e.Memo,
			e.CreatedAt.UTC().Format(expense.TimestampLayout),
		})
	}

	return buf.Bytes()
}

func writeRow(buf *bytes.Buffer, cells []string) {
	for i, cell := range cells {
		if i > 0 {
			buf.WriteByte(',')
		}

		buf.WriteByte('"')
		buf.WriteString(strings.ReplaceAll(cell, `"`, `""`))
		buf.WriteByte('"')
	}
}

// JSON renders records as an indented array.
func JSON(records []expense.Expense) ([]byte, error) {
	if records == nil {
		records = []expense.Expense{}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding expenses: %w", err)
	}

	return data, nil
}
