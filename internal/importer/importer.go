package importer

import (
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/MrJamesThe3rd/kakeibo/internal/expense"
)

// Format is the file format of an import payload.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

var (
	// ErrMalformed is returned when the payload cannot be parsed at all.
	ErrMalformed = errors.New("malformed import file")
	// ErrNoRows is returned when the payload parsed but held no usable records.
	ErrNoRows = errors.New("no importable rows")
	// ErrUnknownFormat is returned for file types other than csv and json.
	ErrUnknownFormat = errors.New("unknown import format")
)

type Importer interface {
	Parse(r io.Reader) ([]expense.Imported, error)
}

// FormatFromFilename picks the format from the file extension.
func FormatFromFilename(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	}

	return "", ErrUnknownFormat
}
