package jsondiff

// Diff computes the changes that turn the document left into right. Diff
// never fails once handed two well-formed trees: values outside the document
// model compare unequal & show up as replacements
func Diff(left, right interface{}, opts ...DiffOption) *Result {
	cfg := &DiffConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	d := &diff{cfg: cfg, res: newResult()}
	d.walk(Path{}, left, right)

	if cfg.Stats != nil {
		d.calcStats(cfg.Stats, left, right)
	}
	return d.res
}

// ArrayPolicy selects how arrays are compared
type ArrayPolicy uint8

const (
	// ArrayLCS aligns arrays on a longest common subsequence, producing edits
	// proportional to the actual amount of change. this is the default
	ArrayLCS ArrayPolicy = iota
	// ArraySimple replaces an unequal array as a whole, skipping the O(m*n)
	// alignment
	ArraySimple
)

// String returns the configuration name of the policy
func (p ArrayPolicy) String() string {
	if p == ArraySimple {
		return "simple"
	}
	return "lcs"
}

// ParseArrayPolicy reads a policy name as written by ArrayPolicy.String
func ParseArrayPolicy(s string) (ArrayPolicy, bool) {
	switch s {
	case "lcs", "":
		return ArrayLCS, true
	case "simple":
		return ArraySimple, true
	}
	return ArrayLCS, false
}

// DiffConfig are any possible configuration parameters for calculating diffs
type DiffConfig struct {
	// how to compare arrays, applies to every array in the document
	Arrays ArrayPolicy
	// Provide a non-nil stats pointer & diff will populate it with data from
	// the diff process
	Stats *Stats
}

// DiffOption is a function that adjust a config, zero or more DiffOptions
// can be passed to the Diff function
type DiffOption func(cfg *DiffConfig)

// OptionArrayPolicy sets the array comparison policy
func OptionArrayPolicy(p ArrayPolicy) DiffOption {
	return func(cfg *DiffConfig) {
		cfg.Arrays = p
	}
}

// OptionSetStats will set the passed-in stats pointer when Diff is called
func OptionSetStats(st *Stats) DiffOption {
	return func(cfg *DiffConfig) {
		cfg.Stats = st
	}
}

// diff holds the state of one Diff call
type diff struct {
	cfg *DiffConfig
	res *Result
}

// walk compares the pair of values found at path
func (d *diff) walk(path Path, l, r interface{}) {
	kl, kr := KindOf(l), KindOf(r)
	if kl != kr {
		d.res.add(&Change{Type: ChangeReplace, Path: path, Old: l, New: r})
		return
	}

	switch kl {
	case KindObject:
		d.walkObject(path, l.(map[string]interface{}), r.(map[string]interface{}))
	case KindArray:
		if d.cfg.Arrays == ArraySimple {
			if !Equal(l, r) {
				d.res.add(&Change{Type: ChangeReplace, Path: path, Old: l, New: r})
			}
			return
		}
		d.walkArray(path, l.([]interface{}), r.([]interface{}))
	default:
		if !Equal(l, r) {
			d.res.add(&Change{Type: ChangeReplace, Path: path, Old: l, New: r})
		}
	}
}

// walkObject visits keys in sorted order so emitted changes come out in a
// stable order
func (d *diff) walkObject(path Path, l, r map[string]interface{}) {
	for _, k := range SortedKeys(l) {
		rv, ok := r[k]
		if !ok {
			d.remove(path.AppendKey(k), l[k])
			continue
		}
		d.walk(path.AppendKey(k), l[k], rv)
	}
	for _, k := range SortedKeys(r) {
		if _, ok := l[k]; !ok {
			d.res.add(&Change{Type: ChangeAdd, Path: path.AppendKey(k), New: r[k]})
		}
	}
}

// walkArray uses the longest common subsequence of l & r as anchors. out
// counts positions in the array being edited: removals leave it in place,
// additions & paired elements advance it. between two anchors elements present
// on both sides are paired positionally, surplus left elements are removed &
// surplus right elements added
func (d *diff) walkArray(path Path, l, r []interface{}) {
	anchors := LCS(l, r, Equal)
	// a trailing sentinel flushes whatever follows the last anchor
	anchors = append(anchors, Pair{A: len(l), B: len(r)})

	var i, j, out int
	for n, a := range anchors {
		for ; i < a.A && j < a.B; i, j, out = i+1, j+1, out+1 {
			d.walk(path.AppendIndex(out), l[i], r[j])
		}
		for ; i < a.A; i++ {
			d.remove(path.AppendIndex(out), l[i])
		}
		for ; j < a.B; j, out = j+1, out+1 {
			d.res.add(&Change{Type: ChangeAdd, Path: path.AppendIndex(out), New: r[j]})
		}
		if n < len(anchors)-1 {
			i, j, out = i+1, j+1, out+1
		}
	}
}

// remove records a removal, folding consecutive removals at the same
// position into one change
func (d *diff) remove(path Path, v interface{}) {
	if prev, ok := d.res.byPath[path.key()]; ok && prev.Type == ChangeRemove {
		prev.Removed = append(prev.Removed, v)
		return
	}
	d.res.add(&Change{Type: ChangeRemove, Path: path, Old: v, Removed: []interface{}{v}})
}

func (d *diff) calcStats(st *Stats, l, r interface{}) {
	st.Left = count(l)
	st.Right = count(r)
	for _, c := range d.res.changes {
		switch c.Type {
		case ChangeAdd:
			st.Adds++
		case ChangeRemove:
			st.Removes += len(c.Removed)
		case ChangeReplace:
			st.Replaces++
		}
	}
}
