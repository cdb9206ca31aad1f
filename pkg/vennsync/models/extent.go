// Package models defines data structures for bound diagrams and their source ranges.
package models

// RangeExtent represents the cell coordinate bounds of a rectangular range.
type RangeExtent struct {
	// StartRow is the first row (1-based).
	StartRow int `json:"r1"`
	// StartCol is the first column (1-based).
	StartCol int `json:"c1"`
	// EndRow is the last row (1-based, inclusive).
	EndRow int `json:"r2"`
	// EndCol is the last column (1-based, inclusive).
	EndCol int `json:"c2"`
}

// Rows returns the number of rows covered by the extent.
func (e RangeExtent) Rows() int {
	return e.EndRow - e.StartRow + 1
}

// Cols returns the number of columns covered by the extent.
func (e RangeExtent) Cols() int {
	return e.EndCol - e.StartCol + 1
}

// Edit represents a single edit event delivered by the host document.
type Edit struct {
	// SheetID is the id of the edited sheet.
	SheetID int `json:"sheet_id"`
	// Extent is the edited range.
	Extent RangeExtent `json:"extent"`
}
