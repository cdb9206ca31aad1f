package xlsx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// marker is a from/to anchor position: a zero-based cell and offsets in EMU.
type marker struct {
	col    int
	colOff int64
	row    int
	rowOff int64
}

// placedPicture is a picture anchored to a cell of a drawing.
type placedPicture struct {
	name   string
	alt    string
	col    int
	row    int
	width  int
	height int
	from   marker
	to     *marker
}

// cell returns the A1 name of the anchor cell.
func (p placedPicture) cell() string {
	name, _ := excelize.CoordinatesToCellName(p.col, p.row)
	return name
}

// scanPictures returns the pictures of every sheet, keyed by sheet id, in
// drawing order.
func scanPictures(data []byte) (map[int][]placedPicture, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	result := make(map[int][]placedPicture)
	for sheetID, part := range sheetDrawingMap(r) {
		drawingXML, err := readZipFile(r, part.drawing)
		if err != nil || drawingXML == nil {
			continue
		}
		pics := parseDrawingPictures(drawingXML)
		sizeFromMarkers(r, part.sheet, pics)
		result[sheetID] = pics
	}
	return result, nil
}

// sizeFromMarkers fills in the size of pictures whose drawing carries none,
// measuring the cells spanned by their anchor.
func sizeFromMarkers(r *zip.Reader, sheetPath string, pics []placedPicture) {
	var metrics *sheetMetrics
	for i := range pics {
		p := &pics[i]
		if (p.width > 0 && p.height > 0) || p.to == nil {
			continue
		}
		if metrics == nil {
			sheetXML, _ := readZipFile(r, sheetPath)
			m := parseSheetMetrics(sheetXML)
			metrics = &m
		}
		p.width, p.height = metrics.span(p.from, *p.to)
	}
}

// sheetPart locates the worksheet and drawing parts of a sheet.
type sheetPart struct {
	sheet   string
	drawing string
}

// sheetDrawingMap returns the parts of each sheet that has a drawing.
func sheetDrawingMap(r *zip.Reader) map[int]sheetPart {
	result := make(map[int]sheetPart)

	workbookXML, err := readZipFile(r, "xl/workbook.xml")
	if err != nil || workbookXML == nil {
		return result
	}
	sheets := parseWorkbookSheets(workbookXML)
	if len(sheets) == 0 {
		return result
	}

	wbRelsXML, err := readZipFile(r, "xl/_rels/workbook.xml.rels")
	if err != nil || wbRelsXML == nil {
		return result
	}

	for sheetID, sheetPath := range parseWorkbookRels(wbRelsXML, sheets) {
		relsPath := strings.Replace(sheetPath, "worksheets/", "worksheets/_rels/", 1)
		relsPath = strings.Replace(relsPath, ".xml", ".xml.rels", 1)

		sheetRelsXML, err := readZipFile(r, relsPath)
		if err != nil || sheetRelsXML == nil {
			continue
		}
		if target := findDrawingRelationship(sheetRelsXML); target != "" {
			result[sheetID] = sheetPart{
				sheet:   sheetPath,
				drawing: resolveRelativePath(target, "xl/drawings"),
			}
		}
	}
	return result
}

// parseDrawingPictures returns the cell-anchored pictures of a drawing part.
// Pictures inside groups and absolutely anchored pictures are not addressable
// by cell and are skipped.
func parseDrawingPictures(data []byte) []placedPicture {
	var results []placedPicture

	decoder := xml.NewDecoder(bytes.NewReader(data))
	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		if se, ok := token.(xml.StartElement); ok {
			switch se.Name.Local {
			case "twoCellAnchor", "oneCellAnchor":
				results = append(results, parseAnchor(decoder)...)
			}
		}
	}
	return results
}

func parseAnchor(decoder *xml.Decoder) []placedPicture {
	var results []placedPicture
	var from marker
	var to *marker
	var anchorW, anchorH int

	depth := 1
	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "from":
				from = parseMarker(decoder)
				depth--
			case "to":
				m := parseMarker(decoder)
				to = &m
				depth--
			case "ext":
				if w, h := parseExt(t); w > 0 || h > 0 {
					anchorW, anchorH = w, h
				}
			case "pic":
				results = append(results, parsePicture(decoder))
				depth--
			case "grpSp":
				_ = decoder.Skip()
				depth--
			}
		case xml.EndElement:
			depth--
		}
	}

	for i := range results {
		pic := &results[i]
		pic.from, pic.to = from, to
		pic.col, pic.row = from.col+1, from.row+1
		if pic.width == 0 && pic.height == 0 {
			pic.width, pic.height = anchorW, anchorH
		}
	}
	return results
}

// parseMarker parses a from/to marker.
func parseMarker(decoder *xml.Decoder) marker {
	var m marker
	depth := 1
	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			txt, err := readElementText(decoder)
			depth--
			if err != nil {
				continue
			}
			txt = strings.TrimSpace(txt)
			switch t.Name.Local {
			case "col":
				m.col, _ = strconv.Atoi(txt)
			case "colOff":
				m.colOff, _ = strconv.ParseInt(txt, 10, 64)
			case "row":
				m.row, _ = strconv.Atoi(txt)
			case "rowOff":
				m.rowOff, _ = strconv.ParseInt(txt, 10, 64)
			}
		case xml.EndElement:
			depth--
		}
	}
	return m
}

func parsePicture(decoder *xml.Decoder) placedPicture {
	var pic placedPicture

	depth := 1
	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "cNvPr":
				for _, attr := range t.Attr {
					switch attr.Name.Local {
					case "name":
						pic.name = attr.Value
					case "descr":
						pic.alt = attr.Value
					}
				}
			case "ext":
				if w, h := parseExt(t); w > 0 || h > 0 {
					pic.width, pic.height = w, h
				}
			}
		case xml.EndElement:
			depth--
		}
	}
	return pic
}

// parseExt reads the size of an ext element. Extension-list entries carry no
// size and yield zero.
func parseExt(se xml.StartElement) (width, height int) {
	for _, attr := range se.Attr {
		switch attr.Name.Local {
		case "cx":
			if cx, err := strconv.ParseInt(attr.Value, 10, 64); err == nil {
				width = EMUToPixels(cx)
			}
		case "cy":
			if cy, err := strconv.ParseInt(attr.Value, 10, 64); err == nil {
				height = EMUToPixels(cy)
			}
		}
	}
	return
}

func readZipFile(r *zip.Reader, name string) ([]byte, error) {
	for _, f := range r.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, nil
}

func readElementText(decoder *xml.Decoder) (string, error) {
	var b strings.Builder
	depth := 1
	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			return b.String(), err
		}
		switch t := token.(type) {
		case xml.CharData:
			b.Write(t)
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
		}
	}
	return b.String(), nil
}

func resolveRelativePath(target, baseDir string) string {
	if strings.HasPrefix(target, "../") {
		clean := target
		for strings.HasPrefix(clean, "../") {
			clean = strings.TrimPrefix(clean, "../")
		}
		return "xl/" + clean
	}
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return baseDir + "/" + target
}

// parseWorkbookSheets maps relationship ids to sheet ids.
func parseWorkbookSheets(data []byte) map[string]int {
	result := make(map[string]int)
	decoder := xml.NewDecoder(bytes.NewReader(data))

	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		if se, ok := token.(xml.StartElement); ok && se.Name.Local == "sheet" {
			var rID string
			sheetID := -1
			for _, attr := range se.Attr {
				switch attr.Name.Local {
				case "sheetId":
					if id, err := strconv.Atoi(attr.Value); err == nil {
						sheetID = id
					}
				case "id":
					rID = attr.Value
				}
			}
			if rID != "" && sheetID >= 0 {
				result[rID] = sheetID
			}
		}
	}
	return result
}

// parseWorkbookRels maps sheet ids to worksheet parts.
func parseWorkbookRels(data []byte, sheets map[string]int) map[int]string {
	result := make(map[int]string)
	decoder := xml.NewDecoder(bytes.NewReader(data))

	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		if se, ok := token.(xml.StartElement); ok && se.Name.Local == "Relationship" {
			var rID, target string
			for _, attr := range se.Attr {
				switch attr.Name.Local {
				case "Id":
					rID = attr.Value
				case "Target":
					target = attr.Value
				}
			}
			if sheetID, ok := sheets[rID]; ok && strings.Contains(strings.ToLower(target), "worksheet") {
				result[sheetID] = resolveRelativePath(target, "xl")
			}
		}
	}
	return result
}

// findDrawingRelationship returns the target of the DrawingML relationship.
// Legacy VML drawings used by comments are ignored.
func findDrawingRelationship(data []byte) string {
	decoder := xml.NewDecoder(bytes.NewReader(data))

	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		if se, ok := token.(xml.StartElement); ok && se.Name.Local == "Relationship" {
			var relType, target string
			for _, attr := range se.Attr {
				switch attr.Name.Local {
				case "Type":
					relType = attr.Value
				case "Target":
					target = attr.Value
				}
			}
			if strings.HasSuffix(relType, "/drawing") {
				return target
			}
		}
	}
	return ""
}
