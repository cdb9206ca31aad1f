// Package xlsx implements the document surface on top of an xlsx workbook.
//
// Cell data is read through excelize. Picture listings come from a direct scan
// of the workbook's DrawingML parts, which carry the placed size and identifier
// text of every picture.
package xlsx

import "math"

// EMUPerPixel is the number of EMUs per pixel at 96 DPI (914400 / 96).
const EMUPerPixel = 9525

// EMUToPixels converts EMU to pixels at 96 DPI.
func EMUToPixels(emu int64) int {
	return int(emu / EMUPerPixel)
}

// Column and row sizes used by excelize when a sheet sets none.
const (
	defaultColWidthPixels  = 64
	defaultRowHeightPixels = 20
)

// colWidthToPixels converts a column width in characters to pixels.
func colWidthToPixels(width float64) int {
	if width <= 0 {
		return 0
	}
	if width < 1 {
		return int(math.Ceil(width*12 + 0.5))
	}
	return int(math.Ceil(width*7 + 0.5 + 5))
}

// rowHeightToPixels converts a row height in points to pixels.
func rowHeightToPixels(height float64) int {
	return int(math.Ceil(4.0 / 3.4 * height))
}
