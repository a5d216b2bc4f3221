package parser

import (
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Cell is one worksheet cell as read from the workbook.
type Cell struct {
	// Raw is the stored value without number formatting applied.
	Raw string
	// Text is the value as displayed in the spreadsheet application.
	Text string
	// Number is set when the workbook stores the cell as a number rather
	// than as text.
	Number bool
}

// TextCell returns a cell whose raw and display values are both s.
func TextCell(s string) Cell {
	return Cell{Raw: s, Text: s}
}

// NumberCell returns a cell holding the number v.
func NumberCell(v float64) Cell {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	return Cell{Raw: s, Text: s, Number: true}
}

// Empty reports whether the cell has no content.
func (c Cell) Empty() bool {
	return strings.TrimSpace(c.Raw) == "" && strings.TrimSpace(c.Text) == ""
}

// Label returns the trimmed display text, falling back to the raw value.
func (c Cell) Label() string {
	if s := strings.TrimSpace(c.Text); s != "" {
		return s
	}
	return strings.TrimSpace(c.Raw)
}

// At returns the cell at a 0-based column index, or an empty cell when the
// row is shorter than that.
func At(row []Cell, col int) Cell {
	if col < 0 || col >= len(row) {
		return Cell{}
	}
	return row[col]
}

// IsBlankRow reports whether every cell in the row is empty.
func IsBlankRow(row []Cell) bool {
	for _, c := range row {
		if !c.Empty() {
			return false
		}
	}
	return true
}

// readRows reads every row of a sheet, pairing the raw stored values with
// the formatted ones. Trailing empty cells are dropped by excelize, so the
// two slices may differ in width. Cells whose raw value parses as a number
// are checked against the stored cell type, so numeric-looking text stays
// text.
func readRows(f *excelize.File, sheetName string) ([][]Cell, error) {
	raw, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}
	formatted, err := f.GetRows(sheetName)
	if err != nil {
		return nil, err
	}

	n := len(raw)
	if len(formatted) > n {
		n = len(formatted)
	}

	rows := make([][]Cell, n)
	for rowIdx := 0; rowIdx < n; rowIdx++ {
		var r, t []string
		if rowIdx < len(raw) {
			r = raw[rowIdx]
		}
		if rowIdx < len(formatted) {
			t = formatted[rowIdx]
		}

		width := len(r)
		if len(t) > width {
			width = len(t)
		}
		row := make([]Cell, width)
		for colIdx := range row {
			if colIdx < len(r) {
				row[colIdx].Raw = r[colIdx]
				numeric, err := storedAsNumber(f, sheetName, colIdx, rowIdx, r[colIdx])
				if err != nil {
					return nil, err
				}
				row[colIdx].Number = numeric
			}
			if colIdx < len(t) {
				row[colIdx].Text = t[colIdx]
			}
		}
		rows[rowIdx] = row
	}

	return rows, nil
}

func storedAsNumber(f *excelize.File, sheetName string, colIdx, rowIdx int, raw string) (bool, error) {
	if _, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err != nil {
		return false, nil
	}
	cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
	if err != nil {
		return false, err
	}
	typ, err := f.GetCellType(sheetName, cell)
	if err != nil {
		return false, err
	}
	return typ == excelize.CellTypeUnset || typ == excelize.CellTypeNumber, nil
}
