package dataset

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ReadXLSX parses the first sheet of a workbook into raw rows, using the
// same header mapping as ReadCSV. Short rows are padded by GetRows already;
// sheets without a usable header fail the upload.
func ReadXLSX(data []byte) ([]RawRow, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	cells, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(cells) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheets[0])
	}

	idx, err := mapColumns(cells[0])
	if err != nil {
		return nil, err
	}
	rows := make([]RawRow, 0, len(cells)-1)
	for _, line := range cells[1:] {
		rows = append(rows, rowFromLine(line, idx))
	}
	return rows, nil
}
