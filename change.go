package jsondiff

import (
	"encoding/json"
)

// ChangeType defines the kind of edit a Change makes
type ChangeType string

const (
	// ChangeAdd is a value present only in the right document
	ChangeAdd = ChangeType("+")
	// ChangeRemove is a value present only in the left document
	ChangeRemove = ChangeType("-")
	// ChangeReplace swaps one value for another at the same location, used
	// for differing scalars & values of different kinds
	ChangeReplace = ChangeType("~")
)

// Change is the exact edit at one path of a diff
type Change struct {
	// the type of change
	Type ChangeType
	// Path is where the change applies. array indexes count positions in the
	// document as it is being edited, so a Path is only meaningful when
	// changes are applied in the order Diff emitted them
	Path Path
	// Old is the removed or replaced value
	Old interface{}
	// New is the added or replacing value
	New interface{}
	// Removed lists every value of a run of consecutive array removals that
	// share this path, in left-document order. Old is always Removed[0]
	Removed []interface{}
}

// MarshalJSON encodes a change in a compact array form:
//   ["+", path, new]
//   ["-", path, removed...]
//   ["~", path, old, new]
func (c Change) MarshalJSON() ([]byte, error) {
	v := []interface{}{c.Type, c.Path.Pointer()}
	switch c.Type {
	case ChangeAdd:
		v = append(v, c.New)
	case ChangeRemove:
		if len(c.Removed) > 0 {
			v = append(v, c.Removed...)
		} else {
			v = append(v, c.Old)
		}
	case ChangeReplace:
		v = append(v, c.Old, c.New)
	}
	return json.Marshal(v)
}
