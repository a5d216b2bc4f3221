// Package parser loads report workbooks and turns their cells into
// validated values.
package parser

import (
	"io"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// Sheet is one worksheet held in memory as rows of cells.
type Sheet struct {
	Name string
	Rows [][]Cell
}

// NewSheet builds a sheet from already-read rows.
func NewSheet(name string, rows [][]Cell) *Sheet {
	return &Sheet{Name: name, Rows: rows}
}

// Header returns the row at index headerRow, or nil if the sheet is shorter.
func (s *Sheet) Header(headerRow int) []Cell {
	if headerRow < 0 || headerRow >= len(s.Rows) {
		return nil
	}
	return s.Rows[headerRow]
}

// DataRows returns all rows after the header row.
func (s *Sheet) DataRows(headerRow int) [][]Cell {
	if headerRow+1 >= len(s.Rows) {
		return nil
	}
	return s.Rows[headerRow+1:]
}

// CellAt returns the cell at an address such as "C36". Addresses outside
// the used range yield an empty cell.
func (s *Sheet) CellAt(address string) (Cell, error) {
	col, row, err := excelize.CellNameToCoordinates(address)
	if err != nil {
		return Cell{}, err
	}
	if row-1 >= len(s.Rows) {
		return Cell{}, nil
	}
	return At(s.Rows[row-1], col-1), nil
}

// Workbook is a fully-read workbook. It holds no file handle.
type Workbook struct {
	// Name is the workbook file name (no path).
	Name   string
	sheets []*Sheet
}

// NewWorkbook assembles a workbook from sheets in file order.
func NewWorkbook(name string, sheets ...*Sheet) *Workbook {
	return &Workbook{Name: name, sheets: sheets}
}

// SheetNames returns the sheet names in file order.
func (w *Workbook) SheetNames() []string {
	names := make([]string, len(w.sheets))
	for i, s := range w.sheets {
		names[i] = s.Name
	}
	return names
}

// Sheet returns the sheet at index i.
func (w *Workbook) Sheet(i int) *Sheet {
	return w.sheets[i]
}

// LoadWorkbook reads every sheet of the xlsx file at path. The file is
// closed before returning.
func LoadWorkbook(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &FileError{Path: path, Err: err}
	}
	defer f.Close()

	wb, err := readWorkbook(f, filepath.Base(path))
	if err != nil {
		return nil, &FileError{Path: path, Err: err}
	}
	return wb, nil
}

// ReadWorkbook reads a workbook from r.
func ReadWorkbook(r io.Reader, name string) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &FileError{Path: name, Err: err}
	}
	defer f.Close()

	wb, err := readWorkbook(f, name)
	if err != nil {
		return nil, &FileError{Path: name, Err: err}
	}
	return wb, nil
}

func readWorkbook(f *excelize.File, name string) (*Workbook, error) {
	sheetList := f.GetSheetList()
	wb := &Workbook{Name: name, sheets: make([]*Sheet, 0, len(sheetList))}
	for _, sheetName := range sheetList {
		rows, err := readRows(f, sheetName)
		if err != nil {
			return nil, NewSheetError(sheetName, err)
		}
		wb.sheets = append(wb.sheets, NewSheet(sheetName, rows))
	}
	return wb, nil
}
