package importer

import (
	"fmt"
	"io"

	enc "github.com/MrJamesThe3rd/kakeibo/internal/encoding"
	"github.com/MrJamesThe3rd/kakeibo/internal/expense"
)

type Service struct {
	csvImporter  Importer
	jsonImporter Importer
}

func NewService() *Service {
	return &Service{
		csvImporter:  NewCSV(),
		jsonImporter: NewJSON(),
	}
}

// Import decodes r to UTF-8 and parses it as format. It returns ErrNoRows when
// nothing usable was found.
func (s *Service) Import(format Format, r io.Reader) ([]expense.Imported, error) {
	var importer Importer

	switch format {
	case FormatCSV:
		importer = s.csvImporter
	case FormatJSON:
		importer = s.jsonImporter
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}

	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	items, err := importer.Parse(utf8r)
	if err != nil {
		return nil, err
	}

	if len(items) == 0 {
		return nil, ErrNoRows
	}

	return items, nil
}
