package jsondiff

import (
	"encoding/json"
	"sort"
)

// Result is the outcome of a Diff: exactly one Change per path, plus an index
// of the object keys added under each parent. a Result is immutable once Diff
// returns & safe for concurrent reads
type Result struct {
	// emission order
	changes []*Change
	byPath  map[string]*Change
	// parent path key -> keys added directly under it, in emission order
	addedKeys map[string][]string
}

func newResult() *Result {
	return &Result{
		byPath:    map[string]*Change{},
		addedKeys: map[string][]string{},
	}
}

func (r *Result) add(c *Change) {
	r.changes = append(r.changes, c)
	r.byPath[c.Path.key()] = c

	if c.Type != ChangeAdd {
		return
	}
	if last, ok := c.Path.Last(); ok && last.IsKey() {
		parent := c.Path.Parent().key()
		r.addedKeys[parent] = append(r.addedKeys[parent], last.String())
	}
}

// Len returns the number of changes
func (r *Result) Len() int { return len(r.changes) }

// Empty is true when both documents were equal
func (r *Result) Empty() bool { return len(r.changes) == 0 }

// Change returns the change recorded at path, if any
func (r *Result) Change(path Path) (Change, bool) {
	c, ok := r.byPath[path.key()]
	if !ok {
		return Change{}, false
	}
	return *c, true
}

// AddedKeys lists the object keys added directly under parent, in ascending
// order. array insertions are addressed by position & never listed here
func (r *Result) AddedKeys(parent Path) ([]string, bool) {
	keys, ok := r.addedKeys[parent.key()]
	if !ok {
		return nil, false
	}
	return append([]string(nil), keys...), true
}

// ChangesInRange returns the changes at or below the elements lo <= i < hi of
// the array at parent, in the order Diff emitted them
func (r *Result) ChangesInRange(parent Path, lo, hi int) []Change {
	var found []Change
	for _, c := range r.changes {
		if len(c.Path) <= len(parent) || !c.Path.HasPrefix(parent) {
			continue
		}
		if i, ok := c.Path[len(parent)].Index(); ok && i >= lo && i < hi {
			found = append(found, *c)
		}
	}
	return found
}

// Changes lists every change sorted by path
func (r *Result) Changes() []Change {
	cs := make([]Change, len(r.changes))
	for i, c := range r.changes {
		cs[i] = *c
	}
	sort.SliceStable(cs, func(i, j int) bool {
		return cs[i].Path.Compare(cs[j].Path) < 0
	})
	return cs
}

// Patch translates the diff into a patch that turns the left document into
// the right one. operations follow emission order, which array positions
// depend on
func (r *Result) Patch() Patch {
	p := make(Patch, 0, len(r.changes))
	for _, c := range r.changes {
		switch c.Type {
		case ChangeAdd:
			p = append(p, Operation{Op: OpAdd, Path: c.Path, Value: Clone(c.New)})
		case ChangeReplace:
			p = append(p, Operation{Op: OpReplace, Path: c.Path, Value: Clone(c.New)})
		case ChangeRemove:
			for range c.Removed {
				p = append(p, Operation{Op: OpRemove, Path: c.Path})
			}
		}
	}
	return p
}

// MarshalJSON encodes the changes sorted by path
func (r *Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Changes())
}
