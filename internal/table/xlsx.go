package table

import (
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// loadWorkbook reads the first worksheet of an .xlsx file with the same row
// rules as Read: first row is the header, blank rows are skipped.
func loadWorkbook(path string, cols []Column) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInputNotFound, path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoHeader
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q of %s: %w", sheets[0], path, err)
	}

	header := -1
	for i, row := range rows {
		if !blankRow(row) {
			header = i
			break
		}
	}
	if header < 0 {
		return nil, ErrNoHeader
	}

	cols = uniqueColumns(cols)
	t := newTable(rows[header], cols)
	for i := header + 1; i < len(rows); i++ {
		if blankRow(rows[i]) {
			continue
		}
		if err := t.appendRow(rows[i], cols, i+1); err != nil {
			var mre *MalformedRowError
			if errors.As(err, &mre) {
				mre.Path = path
			}
			return nil, err
		}
	}
	return t, nil
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}
	return true
}
