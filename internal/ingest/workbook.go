package ingest

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/joaohbaptista125/seafarers-dashboard/internal/core"
)

// ParseWorkbook reads the first sheet of an xlsx workbook into header-keyed
// rows, same contract as ParseCSV. Cells are read raw so date columns keep
// their serial numbers for the date normalizer.
func ParseWorkbook(data []byte) ([]Row, error) {
	matrix, err := workbookMatrix(data)
	if err != nil {
		return nil, err
	}
	return rowsFromMatrix(matrix), nil
}

// WorkbookGrid reads the first sheet as a positional cell matrix, used by
// the fixed-layout weekly board import.
func WorkbookGrid(data []byte) ([][]string, error) {
	return workbookMatrix(data)
}

func workbookMatrix(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrParseFailed, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", core.ErrParseFailed)
	}
	matrix, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrParseFailed, err)
	}
	return matrix, nil
}
