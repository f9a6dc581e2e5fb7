// Package workbook reads spreadsheet exports into raw cell rows.
package workbook

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// ErrNoSheets is returned for a workbook without any worksheet
var ErrNoSheets = errors.New("workbook has no sheets")

// Sheet is one worksheet as rows of cells. Cells are float64 for numeric
// and date cells (dates stay spreadsheet serials) and string otherwise.
type Sheet struct {
	Name string
	Rows [][]any
}

// Read loads the named worksheet, or the first one when name is empty
func Read(r io.Reader, name string) (*Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheets
	}
	if name == "" {
		name = sheets[0]
	}

	raw, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", name, err)
	}

	rows := make([][]any, len(raw))
	for i, r := range raw {
		row := make([]any, len(r))
		for j, v := range r {
			row[j] = typedCell(f, name, i, j, v)
		}
		rows[i] = row
	}
	return &Sheet{Name: name, Rows: rows}, nil
}

// typedCell restores numbers that GetRows hands back as text. Cells stored
// as strings keep their text even when it looks numeric, so phone numbers
// with leading zeros survive.
func typedCell(f *excelize.File, sheet string, row, col int, v string) any {
	if v == "" {
		return nil
	}
	ref, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return v
	}
	typ, err := f.GetCellType(sheet, ref)
	if err != nil {
		return v
	}
	switch typ {
	case excelize.CellTypeUnset, excelize.CellTypeNumber, excelize.CellTypeDate:
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			return n
		}
	}
	return v
}
