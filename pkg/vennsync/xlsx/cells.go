package xlsx

import (
	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/vennsync/pkg/vennsync/models"
)

// ReadRange returns the formatted values of ext, row by row. Only the item and
// group columns are read: every row has at most two values.
func (w *Workbook) ReadRange(sheetID int, ext models.RangeExtent) ([][]string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	name, err := w.sheetName(sheetID)
	if err != nil {
		return nil, err
	}

	rows := make([][]string, 0, ext.Rows())
	for r := ext.StartRow; r <= ext.EndRow; r++ {
		lastCol := min(ext.EndCol, ext.StartCol+1)
		row := make([]string, 0, lastCol-ext.StartCol+1)
		for c := ext.StartCol; c <= lastCol; c++ {
			cell, err := excelize.CoordinatesToCellName(c, r)
			if err != nil {
				return nil, err
			}
			v, err := w.f.GetCellValue(name, cell)
			if err != nil {
				return nil, err
			}
			row = append(row, v)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// UsedExtent returns the bounding box of the non-empty cells of a sheet.
// It reports false for an empty sheet.
func (w *Workbook) UsedExtent(sheetID int) (models.RangeExtent, bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	name, err := w.sheetName(sheetID)
	if err != nil {
		return models.RangeExtent{}, false, err
	}
	rows, err := w.f.GetRows(name)
	if err != nil {
		return models.RangeExtent{}, false, err
	}

	minRow, maxRow, minCol, maxCol := findDataBounds(rows)
	if minRow < 0 {
		return models.RangeExtent{}, false, nil
	}
	return models.RangeExtent{
		StartRow: minRow + 1,
		StartCol: minCol + 1,
		EndRow:   maxRow + 1,
		EndCol:   maxCol + 1,
	}, true, nil
}

// findDataBounds finds the zero-based bounding box of non-empty cells.
func findDataBounds(rows [][]string) (minRow, maxRow, minCol, maxCol int) {
	minRow, maxRow = -1, -1
	minCol, maxCol = -1, -1

	for rowIdx, row := range rows {
		for colIdx, cell := range row {
			if cell == "" {
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
