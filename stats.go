package jsondiff

// Stats holds statistical metadata about a diff
type Stats struct {
	Left  int `json:"leftNodes"`  // count of nodes in the left tree
	Right int `json:"rightNodes"` // count of nodes in the right tree

	Adds     int `json:"adds,omitempty"`     // number of values added
	Removes  int `json:"removes,omitempty"`  // number of values removed
	Replaces int `json:"replaces,omitempty"` // number of values replaced
}

// NodeChange returns a count of the shift between left & right trees
func (s Stats) NodeChange() int {
	return s.Right - s.Left
}

// Edits is the total number of values added, removed or replaced
func (s Stats) Edits() int {
	return s.Adds + s.Removes + s.Replaces
}
