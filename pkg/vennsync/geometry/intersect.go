package geometry

import "github.com/ukaji3/vennsync/pkg/vennsync/models"

// Intersects reports whether two extents share at least one cell.
// Extents whose edges touch intersect.
func Intersects(a, b models.RangeExtent) bool {
	if a.EndRow < b.StartRow || b.EndRow < a.StartRow {
		return false
	}
	if a.EndCol < b.StartCol || b.EndCol < a.StartCol {
		return false
	}
	return true
}
