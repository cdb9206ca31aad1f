package xlsx

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

const testDrawing = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<xdr:wsDr xmlns:xdr="http://schemas.openxmlformats.org/drawingml/2006/spreadsheetDrawing" xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">
  <xdr:twoCellAnchor editAs="oneCell">
    <xdr:from><xdr:col>3</xdr:col><xdr:colOff>0</xdr:colOff><xdr:row>1</xdr:row><xdr:rowOff>0</xdr:rowOff></xdr:from>
    <xdr:to><xdr:col>9</xdr:col><xdr:colOff>0</xdr:colOff><xdr:row>20</xdr:row><xdr:rowOff>0</xdr:rowOff></xdr:to>
    <xdr:pic>
      <xdr:nvPicPr><xdr:cNvPr id="2" name="Picture 1" descr="bound-diagram#venn#1#1#B2:C5"/><xdr:cNvPicPr/></xdr:nvPicPr>
      <xdr:blipFill><a:blip r:embed="rId1" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"/></xdr:blipFill>
      <xdr:spPr>
        <a:xfrm><a:off x="0" y="0"/><a:ext cx="5715000" cy="5715000"/></a:xfrm>
        <a:prstGeom prst="rect"><a:avLst/></a:prstGeom>
      </xdr:spPr>
    </xdr:pic>
    <xdr:clientData/>
  </xdr:twoCellAnchor>
  <xdr:twoCellAnchor>
    <xdr:from><xdr:col>0</xdr:col><xdr:colOff>0</xdr:colOff><xdr:row>0</xdr:row><xdr:rowOff>0</xdr:rowOff></xdr:from>
    <xdr:to><xdr:col>2</xdr:col><xdr:colOff>0</xdr:colOff><xdr:row>2</xdr:row><xdr:rowOff>0</xdr:rowOff></xdr:to>
    <xdr:sp>
      <xdr:nvSpPr><xdr:cNvPr id="3" name="Rectangle 2"/><xdr:cNvSpPr/></xdr:nvSpPr>
      <xdr:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="952500" cy="952500"/></a:xfrm></xdr:spPr>
    </xdr:sp>
    <xdr:clientData/>
  </xdr:twoCellAnchor>
  <xdr:oneCellAnchor>
    <xdr:from><xdr:col>3</xdr:col><xdr:colOff>0</xdr:colOff><xdr:row>1</xdr:row><xdr:rowOff>0</xdr:rowOff></xdr:from>
    <xdr:ext cx="1905000" cy="952500"/>
    <xdr:pic>
      <xdr:nvPicPr><xdr:cNvPr id="4" name="Picture 3"/><xdr:cNvPicPr/></xdr:nvPicPr>
      <xdr:spPr><a:prstGeom prst="rect"/></xdr:spPr>
    </xdr:pic>
    <xdr:clientData/>
  </xdr:oneCellAnchor>
  <xdr:twoCellAnchor>
    <xdr:from><xdr:col>5</xdr:col><xdr:colOff>0</xdr:colOff><xdr:row>5</xdr:row><xdr:rowOff>0</xdr:rowOff></xdr:from>
    <xdr:to><xdr:col>8</xdr:col><xdr:colOff>0</xdr:colOff><xdr:row>8</xdr:row><xdr:rowOff>0</xdr:rowOff></xdr:to>
    <xdr:grpSp>
      <xdr:pic><xdr:nvPicPr><xdr:cNvPr id="5" name="Grouped" descr="bound-diagram#venn#2#1#A1:B2"/></xdr:nvPicPr></xdr:pic>
    </xdr:grpSp>
    <xdr:clientData/>
  </xdr:twoCellAnchor>
  <xdr:absoluteAnchor>
    <xdr:pos x="0" y="0"/><xdr:ext cx="952500" cy="952500"/>
    <xdr:pic><xdr:nvPicPr><xdr:cNvPr id="6" name="Floating"/></xdr:nvPicPr></xdr:pic>
  </xdr:absoluteAnchor>
</xdr:wsDr>`

func TestParseDrawingPictures(t *testing.T) {
	got := parseDrawingPictures([]byte(testDrawing))
	want := []placedPicture{
		{
			name: "Picture 1", alt: "bound-diagram#venn#1#1#B2:C5", col: 4, row: 2, width: 600, height: 600,
			from: marker{col: 3, row: 1}, to: &marker{col: 9, row: 20},
		},
		{name: "Picture 3", col: 4, row: 2, width: 200, height: 100, from: marker{col: 3, row: 1}},
	}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(placedPicture{}, marker{})); diff != "" {
		t.Errorf("parseDrawingPictures() mismatch (-want +got):\n%s", diff)
	}
	if got[0].cell() != "D2" {
		t.Errorf("cell() = %q, expected D2", got[0].cell())
	}
}

func TestFindDrawingRelationship(t *testing.T) {
	rels := `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/vmlDrawing" Target="../drawings/vmlDrawing1.vml"/>
  <Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/drawing" Target="../drawings/drawing1.xml"/>
</Relationships>`

	if got := findDrawingRelationship([]byte(rels)); got != "../drawings/drawing1.xml" {
		t.Errorf("findDrawingRelationship() = %q", got)
	}
	if got := findDrawingRelationship([]byte(`<Relationships/>`)); got != "" {
		t.Errorf("findDrawingRelationship() = %q, expected empty", got)
	}
}

func TestResolveRelativePath(t *testing.T) {
	tests := []struct {
		target   string
		baseDir  string
		expected string
	}{
		{"../drawings/drawing1.xml", "xl/drawings", "xl/drawings/drawing1.xml"},
		{"drawing2.xml", "xl/drawings", "xl/drawings/drawing2.xml"},
		{"/xl/drawings/drawing3.xml", "xl/drawings", "xl/drawings/drawing3.xml"},
		{"worksheets/sheet1.xml", "xl", "xl/worksheets/sheet1.xml"},
	}

	for _, tt := range tests {
		if got := resolveRelativePath(tt.target, tt.baseDir); got != tt.expected {
			t.Errorf("resolveRelativePath(%q, %q) = %q, expected %q", tt.target, tt.baseDir, got, tt.expected)
		}
	}
}

func TestParseWorkbookSheets(t *testing.T) {
	wb := `<workbook xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
  <sheets>
    <sheet name="Data" sheetId="7" r:id="rId3"/>
    <sheet name="Summary" sheetId="2" r:id="rId1"/>
  </sheets>
</workbook>`
	rels := `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet" Target="worksheets/sheet1.xml"/>
  <Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>
  <Relationship Id="rId3" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet" Target="/xl/worksheets/sheet2.xml"/>
</Relationships>`

	sheets := parseWorkbookSheets([]byte(wb))
	if diff := cmp.Diff(map[string]int{"rId3": 7, "rId1": 2}, sheets); diff != "" {
		t.Errorf("parseWorkbookSheets() mismatch (-want +got):\n%s", diff)
	}

	got := parseWorkbookRels([]byte(rels), sheets)
	want := map[int]string{2: "xl/worksheets/sheet1.xml", 7: "xl/worksheets/sheet2.xml"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("parseWorkbookRels() mismatch (-want +got):\n%s", diff)
	}
}

func TestEMUToPixels(t *testing.T) {
	tests := []struct {
		emu      int64
		expected int
	}{
		{0, 0},
		{9525, 1},
		{5715000, 600},
		{9524, 0},
	}
	for _, tt := range tests {
		if got := EMUToPixels(tt.emu); got != tt.expected {
			t.Errorf("EMUToPixels(%d) = %d, expected %d", tt.emu, got, tt.expected)
		}
	}
}

const unsizedDrawing = `<xdr:wsDr xmlns:xdr="http://schemas.openxmlformats.org/drawingml/2006/spreadsheetDrawing" xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">
  <xdr:twoCellAnchor editAs="oneCell">
    <xdr:from><xdr:col>1</xdr:col><xdr:colOff>95250</xdr:colOff><xdr:row>1</xdr:row><xdr:rowOff>0</xdr:rowOff></xdr:from>
    <xdr:to><xdr:col>4</xdr:col><xdr:colOff>190500</xdr:colOff><xdr:row>3</xdr:row><xdr:rowOff>47625</xdr:rowOff></xdr:to>
    <xdr:pic>
      <xdr:nvPicPr><xdr:cNvPr id="2" name="Picture 1" descr="bound-diagram#venn#1#1#B2:C5"/><xdr:cNvPicPr/></xdr:nvPicPr>
      <xdr:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/></a:xfrm></xdr:spPr>
    </xdr:pic>
    <xdr:clientData/>
  </xdr:twoCellAnchor>
</xdr:wsDr>`

const unsizedSheet = `<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">
  <sheetFormatPr defaultRowHeight="15"/>
  <cols><col min="2" max="3" width="10.5" customWidth="1"/></cols>
  <sheetData>
    <row r="2" ht="17" customHeight="1"><c r="B2" t="s"><v>0</v></c></row>
    <row r="3"><c r="B3"><v>1</v></c></row>
  </sheetData>
</worksheet>`

func TestParseSheetMetrics(t *testing.T) {
	m := parseSheetMetrics([]byte(unsizedSheet))

	cols := []struct{ col, want int }{{1, 64}, {2, 79}, {3, 79}, {4, 64}}
	for _, tt := range cols {
		if got := m.colWidth(tt.col); got != tt.want {
			t.Errorf("colWidth(%d) = %d, expected %d", tt.col, got, tt.want)
		}
	}
	rows := []struct{ row, want int }{{1, 18}, {2, 20}, {3, 18}}
	for _, tt := range rows {
		if got := m.rowHeight(tt.row); got != tt.want {
			t.Errorf("rowHeight(%d) = %d, expected %d", tt.row, got, tt.want)
		}
	}

	empty := parseSheetMetrics(nil)
	if empty.colWidth(1) != defaultColWidthPixels || empty.rowHeight(1) != defaultRowHeightPixels {
		t.Errorf("defaults = %dx%d", empty.colWidth(1), empty.rowHeight(1))
	}
}

func TestSizeFromMarkers(t *testing.T) {
	pics := parseDrawingPictures([]byte(unsizedDrawing))
	if len(pics) != 1 || pics[0].width != 0 || pics[0].height != 0 {
		t.Fatalf("parseDrawingPictures() = %+v, expected one unsized picture", pics)
	}

	// cols B..D: 79 + 79 + 64, minus 10px start offset, plus 20px end offset
	// rows 2..3: 20 + 18, plus 5px end offset
	w, h := parseSheetMetrics([]byte(unsizedSheet)).span(pics[0].from, *pics[0].to)
	if w != 232 || h != 43 {
		t.Errorf("span() = %dx%d, expected 232x43", w, h)
	}
}

func TestColAndRowPixels(t *testing.T) {
	if got := colWidthToPixels(10.5); got != 79 {
		t.Errorf("colWidthToPixels(10.5) = %d, expected 79", got)
	}
	if got := colWidthToPixels(0); got != 0 {
		t.Errorf("colWidthToPixels(0) = %d, expected 0", got)
	}
	if got := rowHeightToPixels(15); got != 18 {
		t.Errorf("rowHeightToPixels(15) = %d, expected 18", got)
	}
	if got := rowHeightToPixels(17); got != 20 {
		t.Errorf("rowHeightToPixels(17) = %d, expected 20", got)
	}
}
