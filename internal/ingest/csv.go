package ingest

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/joaohbaptista125/seafarers-dashboard/internal/core"
)

// ParseCSV reads a comma-delimited export into rows keyed by the header
// line. Quoted fields containing the delimiter are respected. A file with
// only a header (or nothing at all) yields an empty slice; a file that
// cannot be decoded at all wraps core.ErrParseFailed so the caller can
// leave prior state untouched.
func ParseCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	matrix, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrParseFailed, err)
	}
	return rowsFromMatrix(matrix), nil
}
