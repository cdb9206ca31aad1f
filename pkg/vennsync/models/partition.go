package models

// GroupPartition holds per-region item counts for a set of groups.
type GroupPartition struct {
	// Groups lists the distinct group names in lexicographic order.
	// Group i owns bit (N-1-i) of a membership code.
	Groups []string `json:"groups"`
	// Counts maps a non-zero membership code to the number of items having exactly that membership.
	Counts map[uint]int `json:"counts"`
	// TotalItems is the number of distinct items observed.
	TotalItems int `json:"total_items"`
}

// SetCount returns the number of groups.
func (p GroupPartition) SetCount() int {
	return len(p.Groups)
}

// Regions returns the number of non-empty membership codes, 2^N - 1.
func (p GroupPartition) Regions() int {
	return 1<<len(p.Groups) - 1
}
