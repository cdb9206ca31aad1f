package binding

import (
	"testing"

	"github.com/ukaji3/vennsync/pkg/vennsync/models"
)

func TestEncode(t *testing.T) {
	got := Encode(models.DiagramVenn, 1700000000000, 7, "B2:C5")
	expected := "bound-diagram#venn#1700000000000#7#B2:C5"
	if got != expected {
		t.Errorf("Encode() = %q, expected %q", got, expected)
	}
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		uniqueID   int64
		sheetID    int
		extentText string
	}{
		{1700000000000, 7, "B2:C5"},
		{1, 0, "A1"},
		{42, 123456789, "AA10:AZ200"},
		{1723456789012, -1, "Z9"},
	}

	for _, tt := range tests {
		alt := Encode(models.DiagramVenn, tt.uniqueID, tt.sheetID, tt.extentText)
		b, ok := Decode(alt)
		if !ok {
			t.Errorf("Decode(%q) reported not a binding", alt)
			continue
		}
		if b.Type != models.DiagramVenn || b.UniqueID != tt.uniqueID || b.SheetID != tt.sheetID || b.ExtentText != tt.extentText {
			t.Errorf("Decode(%q) = %+v", alt, b)
		}
		if b.Alt != alt {
			t.Errorf("Decode(%q).Alt = %q", alt, b.Alt)
		}
	}
}

func TestDecodeRejects(t *testing.T) {
	inputs := []string{
		"",
		"#",
		"bound-diagram",
		"bound-diagram#",
		"bound-diagram#venn",
		"bound-diagram#venn#1#7",
		"bound-diagram#pie#1#7#A1",
		"bound-diagram#venn#x#7#A1",
		"bound-diagram#venn#1#seven#A1",
		"bound-diagramX#venn#1#7#A1",
		"Picture 3",
		"venn#1#7#A1",
		"\x00\xff#bound-diagram#venn#1#7#A1",
	}

	for _, input := range inputs {
		if b, ok := Decode(input); ok {
			t.Errorf("Decode(%q) = %+v, expected not a binding", input, b)
		}
	}
}

func TestDecodeKeepsTrailingSeparators(t *testing.T) {
	b, ok := Decode("bound-diagram#venn#1#7#A1#extra")
	if !ok {
		t.Fatal("Decode reported not a binding")
	}
	if b.ExtentText != "A1#extra" {
		t.Errorf("ExtentText = %q, expected %q", b.ExtentText, "A1#extra")
	}
}
