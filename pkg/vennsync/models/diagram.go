package models

// DiagramSpec is the fully resolved drawing instruction set for a Venn diagram.
type DiagramSpec struct {
	// Groups lists the group names, indexed like GroupPartition.Groups.
	Groups []string `json:"groups"`
	// Labels maps each non-zero membership code to its region label.
	Labels map[uint]string `json:"labels"`
	// Colors holds the fill color of each group, by group index.
	Colors []string `json:"colors"`
	// SetCount is the number of groups (2 to 6).
	SetCount int `json:"set_count"`
}
