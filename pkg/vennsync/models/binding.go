package models

// DiagramType identifies the kind of diagram a binding renders.
type DiagramType string

const (
	// DiagramVenn is a multi-set overlap (Venn) diagram.
	DiagramVenn DiagramType = "venn"
)

// Valid reports whether t is a known diagram type.
func (t DiagramType) Valid() bool {
	return t == DiagramVenn
}

// Binding ties a generated diagram to the range that produced it.
type Binding struct {
	// Type is the diagram type.
	Type DiagramType `json:"type"`
	// UniqueID is the creation timestamp in milliseconds.
	UniqueID int64 `json:"unique_id"`
	// SheetID is the id of the sheet holding the source range.
	SheetID int `json:"sheet_id"`
	// ExtentText is the range in A1 notation as stored in the identifier.
	ExtentText string `json:"extent"`
	// Extent is ExtentText resolved to coordinates (zero until resolved).
	Extent RangeExtent `json:"range"`
	// Alt is the full identifier stored on the diagram.
	Alt string `json:"alt"`
}

// IndexEntry is the cached projection of a Binding used for intersection filtering.
type IndexEntry struct {
	// Alt is the diagram identifier.
	Alt string `json:"alt"`
	// SheetID is the id of the sheet holding the source range.
	SheetID int `json:"sheetId"`
	// RangeExtent is the bound range.
	RangeExtent RangeExtent `json:"rangeExtent"`
}
