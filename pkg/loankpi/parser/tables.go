package parser

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// SheetInfo summarises one sheet for layout diagnostics.
type SheetInfo struct {
	Name string `json:"name"`
	// Rows is the number of rows read, including blank ones.
	Rows int `json:"rows"`
	// NonBlankRows counts rows with at least one non-empty cell.
	NonBlankRows int `json:"non_blank_rows"`
	// DataRange is the bounding box of non-empty cells, e.g. "A1:D10".
	DataRange string `json:"data_range,omitempty"`
	// Header holds the first row's labels.
	Header []string `json:"header,omitempty"`
}

// Inspect describes every sheet in file order.
func (w *Workbook) Inspect() []SheetInfo {
	infos := make([]SheetInfo, 0, len(w.sheets))
	for _, s := range w.sheets {
		info := SheetInfo{
			Name:         s.Name,
			Rows:         len(s.Rows),
			NonBlankRows: countNonBlankRows(s.Rows),
			DataRange:    DataRange(s.Rows),
		}
		for _, c := range s.Header(0) {
			info.Header = append(info.Header, c.Label())
		}
		infos = append(infos, info)
	}
	return infos
}

// DataRange returns the bounding box of non-empty cells in range notation,
// or "" for a sheet with no data.
func DataRange(rows [][]Cell) string {
	minRow, maxRow, minCol, maxCol := findDataBounds(rows)
	if minRow < 0 {
		return ""
	}

	startCell, _ := excelize.CoordinatesToCellName(minCol+1, minRow+1)
	endCell, _ := excelize.CoordinatesToCellName(maxCol+1, maxRow+1)
	return fmt.Sprintf("%s:%s", startCell, endCell)
}

// findDataBounds finds the bounding box of non-empty cells.
func findDataBounds(rows [][]Cell) (minRow, maxRow, minCol, maxCol int) {
	minRow, maxRow = -1, -1
	minCol, maxCol = -1, -1

	for rowIdx, row := range rows {
		for colIdx, cell := range row {
			if cell.Empty() {
				continue
			}
			if minRow < 0 || rowIdx < minRow {
				minRow = rowIdx
			}
			if maxRow < 0 || rowIdx > maxRow {
				maxRow = rowIdx
			}
			if minCol < 0 || colIdx < minCol {
				minCol = colIdx
			}
			if maxCol < 0 || colIdx > maxCol {
				maxCol = colIdx
			}
		}
	}

	return
}

func countNonBlankRows(rows [][]Cell) int {
	count := 0
	for _, row := range rows {
		if !IsBlankRow(row) {
			count++
		}
	}
	return count
}
