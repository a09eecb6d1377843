package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/MrJamesThe3rd/kakeibo/internal/expense"
)

// ErrNothingToExport is returned when the collection is empty.
var ErrNothingToExport = errors.New("no expenses to export")

// Source provides the records to export.
type Source interface {
	LoadExpenses(ctx context.Context) []expense.Expense
}

// File is a rendered export ready to be written or served.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Service renders the stored collection into export files.
type Service struct {
	source Source
	now    func() time.Time
}

type Option func(*Service)

// WithClock replaces time.Now when naming files.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a new export Service.
func NewService(source Source, opts ...Option) *Service {
	s := &Service{source: source, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Render builds the export file for format, named expenses_YYYY-MM-DD.<ext> after
// the local date.
func (s *Service) Render(ctx context.Context, format Format) (File, error) {
	records := s.source.LoadExpenses(ctx)
	if len(records) == 0 {
		return File{}, ErrNothingToExport
	}

	var data []byte

	switch format {
	case FormatCSV:
		data = CSV(records)
	case FormatJSON:
		var err error
		if data, err = JSON(records); err != nil {
			return File{}, err
		}
	default:
		return File{}, fmt.Errorf("unsupported export format: %q", format)
	}

	return File{
		Name:        fmt.Sprintf("expenses_%s.%s", s.now().Format(time.DateOnly), format),
		ContentType: format.ContentType(),
		Data:        data,
	}, nil
}

// Export writes the export file for format into outputDir and returns its path.
func (s *Service) Export(ctx context.Context, format Format, outputDir string) (string, error) {
	file, err := s.Render(ctx, format)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	path := filepath.Join(outputDir, file.Name)
	if err := os.WriteFile(path, file.Data, 0o644); err != nil {
		return "", fmt.Errorf("writing file: %w", err)
	}

	return path, nil
}
