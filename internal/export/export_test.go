package export_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/kakeibo/internal/expense"
	"github.com/MrJamesThe3rd/kakeibo/internal/export"
)

type staticSource []expense.Expense

func (s staticSource) LoadExpenses(context.Context) []expense.Expense { return s }

var created = time.Date(2024, 6, 1, 3, 4, 5, 678000000, time.UTC)

func sample() []expense.Expense {
	return []expense.Expense{
		{ID: "a", Date: "2024-06-01", Category: "食費", Amount: 1500, Memo: "ランチ", CreatedAt: created, UpdatedAt: created},
		{ID: "b", Date: "2024-06-02", Category: "交通費", Amount: 300, Memo: `say "hi", ok`, CreatedAt: created, UpdatedAt: created},
	}
}

func TestCSV(t *testing.T) {
	got := string(export.CSV(sample()))

	require.True(t, strings.HasPrefix(got, "\ufeff"))

	lines := strings.Split(strings.TrimPrefix(got, "\ufeff"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, `"日付","カテゴリ","金額","メモ","作成日時"`, lines[0])
	assert.Equal(t, `"2024-06-01","食費","1500","ランチ","2024-06-01T03:04:05.678Z"`, lines[1])
	assert.Equal(t, `"2024-06-02","交通費","300","say ""hi"", ok","2024-06-01T03:04:05.678Z"`, lines[2])
}

func TestCSV_Empty(t *testing.T) {
	assert.Equal(t, "\ufeff"+`"日付","カテゴリ","金額","メモ","作成日時"`, string(export.CSV(nil)))
}

func TestJSON(t *testing.T) {
	data, err := export.JSON(sample())
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  {")

	var decoded []expense.Expense
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, sample(), decoded)

	empty, err := export.JSON(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(empty))
}

func TestParseFormat(t *testing.T) {
	f, err := export.ParseFormat(" CSV ")
	require.NoError(t, err)
	assert.Equal(t, export.FormatCSV, f)

	_, err = export.ParseFormat("xlsx")
	assert.Error(t, err)
}

func TestService_Export(t *testing.T) {
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.Local)

	type testCase struct {
		name     string
		format   export.Format
		wantFile string
	}

	tests := []testCase{
		{name: "CSV", format: export.FormatCSV, wantFile: "expenses_2024-06-15.csv"},
		{name: "JSON", format: export.FormatJSON, wantFile: "expenses_2024-06-15.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "out")
			svc := export.NewService(staticSource(sample()), export.WithClock(func() time.Time { return now }))

			path, err := svc.Export(context.Background(), tt.format, dir)
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(dir, tt.wantFile), path)

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.NotEmpty(t, data)
		})
	}
}

func TestService_Render(t *testing.T) {
	svc := export.NewService(staticSource(sample()))

	file, err := svc.Render(context.Background(), export.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "application/json", file.ContentType)
	assert.True(t, strings.HasSuffix(file.Name, ".json"))

	_, err = svc.Render(context.Background(), export.Format("pdf"))
	assert.Error(t, err)
}

func TestService_NothingToExport(t *testing.T) {
	svc := export.NewService(staticSource(nil))

	_, err := svc.Export(context.Background(), export.FormatCSV, t.TempDir())
	assert.ErrorIs(t, err, export.ErrNothingToExport)
}
