// Package geometry provides pure functions over rectangular cell extents.
package geometry

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ukaji3/vennsync/pkg/vennsync/models"
	"github.com/xuri/excelize/v2"
)

var extentPattern = regexp.MustCompile(`^([A-Z]+)(\d+)(?::([A-Z]+)(\d+))?$`)

// FormatError indicates a malformed extent descriptor.
type FormatError struct {
	Text string
	Err  error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid extent %q: %v", e.Text, e.Err)
	}
	return fmt.Sprintf("invalid extent %q", e.Text)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// ParseExtent parses an extent descriptor such as "B2" or "B2:C10".
// A single cell yields an extent whose start equals its end.
// Reversed corners are normalized so that start <= end on both axes.
func ParseExtent(text string) (models.RangeExtent, error) {
	m := extentPattern.FindStringSubmatch(text)
	if m == nil {
		return models.RangeExtent{}, &FormatError{Text: text}
	}

	startCol, startRow, err := parseCell(m[1], m[2])
	if err != nil {
		return models.RangeExtent{}, &FormatError{Text: text, Err: err}
	}
	endCol, endRow := startCol, startRow
	if m[3] != "" {
		endCol, endRow, err = parseCell(m[3], m[4])
		if err != nil {
			return models.RangeExtent{}, &FormatError{Text: text, Err: err}
		}
	}

	return Normalize(models.RangeExtent{
		StartRow: startRow,
		StartCol: startCol,
		EndRow:   endRow,
		EndCol:   endCol,
	}), nil
}

func parseCell(colName, rowText string) (col, row int, err error) {
	col, err = excelize.ColumnNameToNumber(colName)
	if err != nil {
		return 0, 0, err
	}
	row, err = strconv.Atoi(rowText)
	if err != nil {
		return 0, 0, err
	}
	if row < 1 || row > excelize.TotalRows {
		return 0, 0, fmt.Errorf("row %d out of range", row)
	}
	return col, row, nil
}

// Normalize returns e with start and end swapped where needed so that start <= end.
func Normalize(e models.RangeExtent) models.RangeExtent {
	if e.StartRow > e.EndRow {
		e.StartRow, e.EndRow = e.EndRow, e.StartRow
	}
	if e.StartCol > e.EndCol {
		e.StartCol, e.EndCol = e.EndCol, e.StartCol
	}
	return e
}

// FormatExtent returns the descriptor of e: "B2" for a single cell, "B2:C10" otherwise.
func FormatExtent(e models.RangeExtent) (string, error) {
	start, err := excelize.CoordinatesToCellName(e.StartCol, e.StartRow)
	if err != nil {
		return "", err
	}
	if e.StartRow == e.EndRow && e.StartCol == e.EndCol {
		return start, nil
	}
	end, err := excelize.CoordinatesToCellName(e.EndCol, e.EndRow)
	if err != nil {
		return "", err
	}
	return start + ":" + end, nil
}

// ParseQualified parses a sheet-qualified reference such as 'Sheet 1'!$A$1:$B$9.
// The sheet part is optional; absolute markers are ignored.
func ParseQualified(ref string) (string, models.RangeExtent, error) {
	ref = strings.TrimSpace(ref)

	var sheet string
	rangeStr := ref
	if idx := strings.LastIndex(ref, "!"); idx >= 0 {
		sheet = strings.Trim(ref[:idx], "'")
		rangeStr = ref[idx+1:]
	}

	rangeStr = strings.ReplaceAll(rangeStr, "$", "")
	ext, err := ParseExtent(strings.ToUpper(rangeStr))
	if err != nil {
		return "", models.RangeExtent{}, err
	}
	return sheet, ext, nil
}
