package ingest

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/joaohbaptista125/seafarers-dashboard/internal/core"
)

const (
	SourceCSV      SourceKind = "csv"
	SourceWorkbook SourceKind = "workbook"
)

// SourceKind is the declared format of an uploaded case file.
type SourceKind string

// KindForFilename guesses the source kind from the upload's extension.
func KindForFilename(name string) SourceKind {
	lower := strings.ToLower(name)
	if strings.HasSuffix(lower, ".xlsx") || strings.HasSuffix(lower, ".xls") {
		return SourceWorkbook
	}
	return SourceCSV
}

// ParseSource dispatches raw upload bytes to the parser for the declared
// kind.
func ParseSource(data []byte, kind SourceKind) ([]Row, error) {
	switch kind {
	case SourceCSV:
		return ParseCSV(bytes.NewReader(data))
	case SourceWorkbook:
		return ParseWorkbook(data)
	default:
		return nil, fmt.Errorf("%w: unknown source kind %q", core.ErrParseFailed, kind)
	}
}
