package xlsx

import (
	"bytes"
	"encoding/xml"
	"strconv"
)

type colSpan struct {
	min, max int
	pixels   int
}

// sheetMetrics holds the column widths and row heights of a worksheet part,
// in pixels.
type sheetMetrics struct {
	colDefault int
	rowDefault int
	cols       []colSpan
	rows       map[int]int
}

// parseSheetMetrics reads sheetFormatPr, cols and row heights from a
// worksheet part. A nil part yields the excelize defaults.
func parseSheetMetrics(data []byte) sheetMetrics {
	m := sheetMetrics{
		colDefault: defaultColWidthPixels,
		rowDefault: defaultRowHeightPixels,
		rows:       make(map[int]int),
	}
	if len(data) == 0 {
		return m
	}

	decoder := xml.NewDecoder(bytes.NewReader(data))
	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		se, ok := token.(xml.StartElement)
		if !ok {
			continue
		}
		switch se.Name.Local {
		case "sheetFormatPr":
			for _, attr := range se.Attr {
				v, err := strconv.ParseFloat(attr.Value, 64)
				if err != nil || v <= 0 {
					continue
				}
				switch attr.Name.Local {
				case "defaultColWidth":
					m.colDefault = colWidthToPixels(v)
				case "defaultRowHeight":
					m.rowDefault = rowHeightToPixels(v)
				}
			}
		case "col":
			var span colSpan
			var width float64
			for _, attr := range se.Attr {
				switch attr.Name.Local {
				case "min":
					span.min, _ = strconv.Atoi(attr.Value)
				case "max":
					span.max, _ = strconv.Atoi(attr.Value)
				case "width":
					width, _ = strconv.ParseFloat(attr.Value, 64)
				}
			}
			if span.min > 0 && span.max >= span.min && width > 0 {
				span.pixels = colWidthToPixels(width)
				m.cols = append(m.cols, span)
			}
		case "row":
			var r int
			var ht float64
			for _, attr := range se.Attr {
				switch attr.Name.Local {
				case "r":
					r, _ = strconv.Atoi(attr.Value)
				case "ht":
					ht, _ = strconv.ParseFloat(attr.Value, 64)
				}
			}
			if r > 0 && ht > 0 {
				m.rows[r] = rowHeightToPixels(ht)
			}
			_ = decoder.Skip()
		}
	}
	return m
}

// colWidth returns the width of a one-based column.
func (m sheetMetrics) colWidth(col int) int {
	width := m.colDefault
	for _, span := range m.cols {
		if col >= span.min && col <= span.max {
			width = span.pixels
		}
	}
	return width
}

// rowHeight returns the height of a one-based row.
func (m sheetMetrics) rowHeight(row int) int {
	if h, ok := m.rows[row]; ok {
		return h
	}
	return m.rowDefault
}

// span measures the pixel size of the area between two anchor markers.
func (m sheetMetrics) span(from, to marker) (width, height int) {
	width = EMUToPixels(to.colOff) - EMUToPixels(from.colOff)
	for c := from.col; c < to.col; c++ {
		width += m.colWidth(c + 1)
	}
	height = EMUToPixels(to.rowOff) - EMUToPixels(from.rowOff)
	for r := from.row; r < to.row; r++ {
		height += m.rowHeight(r + 1)
	}
	return max(width, 0), max(height, 0)
}
