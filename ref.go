package jsondiff

// Get resolves path against doc for reading. every token must name an
// existing entry; the append marker can never be read
func Get(doc interface{}, path Path) (interface{}, error) {
	cur := doc
	for i, tok := range path {
		next, err := child(cur, tok)
		if err != nil {
			err.Pointer = path[:i+1].Pointer()
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

func child(v interface{}, tok Token) (interface{}, *PointerError) {
	switch c := v.(type) {
	case map[string]interface{}:
		el, ok := c[tok.String()]
		if !ok {
			return nil, &PointerError{Err: ErrKeyNotFound, Token: tok.String()}
		}
		return el, nil
	case []interface{}:
		i, ok := tok.Index()
		if !ok {
			return nil, &PointerError{Err: ErrInvalidIndex, Token: tok.String()}
		}
		if i >= len(c) {
			return nil, &PointerError{Err: ErrIndexOutOfRange, Token: tok.String(), Index: i, Len: len(c)}
		}
		return c[i], nil
	default:
		return nil, &PointerError{Err: ErrNotContainer, Token: tok.String()}
	}
}

type refKind uint8

const (
	refRoot refKind = iota
	refSlot
	refAppend
	refEntry
)

// Ref is a writable location in a document, produced by Resolve. a Ref holds
// no pointers into the tree: every operation re-resolves its parent from the
// root by path, so a Ref stays valid only until something else modifies the
// document. use one Ref per operation & discard it
type Ref struct {
	root   *interface{}
	parent Path
	kind   refKind
	key    string
	index  int
}

// Resolve walks every token of path but the last as Get does, then classifies
// the last token against its parent. the addressed entry need not exist
func Resolve(root *interface{}, path Path) (*Ref, error) {
	if len(path) == 0 {
		return &Ref{root: root, kind: refRoot}, nil
	}

	parent := path.Parent()
	container, err := Get(*root, parent)
	if err != nil {
		return nil, err
	}

	tok, _ := path.Last()
	ref := &Ref{root: root, parent: parent}
	switch container.(type) {
	case map[string]interface{}:
		ref.kind = refEntry
		ref.key = tok.String()
	case []interface{}:
		switch {
		case tok.IsAppend():
			ref.kind = refAppend
		case tok.IsIndex():
			ref.kind = refSlot
			ref.index, _ = tok.Index()
		default:
			return nil, ref.fail(ErrInvalidIndex, tok.String(), 0, 0)
		}
	default:
		return nil, ref.fail(ErrNotContainer, tok.String(), 0, 0)
	}
	return ref, nil
}

// Path returns the location the reference names
func (r *Ref) Path() Path {
	switch r.kind {
	case refRoot:
		return Path{}
	case refSlot:
		return r.parent.AppendIndex(r.index)
	case refAppend:
		return r.parent.Append(Append())
	default:
		return r.parent.AppendKey(r.key)
	}
}

func (r *Ref) fail(kind error, token string, index, length int) *PointerError {
	return &PointerError{
		Err:     kind,
		Pointer: r.Path().Pointer(),
		Token:   token,
		Index:   index,
		Len:     length,
	}
}

// container re-resolves the parent of the referenced location
func (r *Ref) container() (interface{}, error) {
	return Get(*r.root, r.parent)
}

func (r *Ref) array() ([]interface{}, error) {
	c, err := r.container()
	if err != nil {
		return nil, err
	}
	arr, ok := c.([]interface{})
	if !ok {
		return nil, r.fail(ErrNotContainer, "", 0, 0)
	}
	return arr, nil
}

func (r *Ref) object() (map[string]interface{}, error) {
	c, err := r.container()
	if err != nil {
		return nil, err
	}
	obj, ok := c.(map[string]interface{})
	if !ok {
		return nil, r.fail(ErrNotContainer, "", 0, 0)
	}
	return obj, nil
}

// store writes a resized array back into its own parent. slices that change
// length get a new header that the parent must hold
func (r *Ref) store(arr []interface{}) error {
	if len(r.parent) == 0 {
		*r.root = arr
		return nil
	}
	up := &Ref{root: r.root, parent: r.parent.Parent()}
	tok, _ := r.parent.Last()
	gp, err := up.container()
	if err != nil {
		return err
	}
	switch c := gp.(type) {
	case map[string]interface{}:
		c[tok.String()] = arr
	case []interface{}:
		i, _ := tok.Index()
		c[i] = arr
	}
	return nil
}

// Get returns the referenced value, false if nothing is there
func (r *Ref) Get() (interface{}, bool) {
	switch r.kind {
	case refRoot:
		return *r.root, true
	case refEntry:
		obj, err := r.object()
		if err != nil {
			return nil, false
		}
		v, ok := obj[r.key]
		return v, ok
	case refSlot:
		arr, err := r.array()
		if err != nil || r.index >= len(arr) {
			return nil, false
		}
		return arr[r.index], true
	}
	return nil, false
}

// Set overwrites the referenced value in place. an array slot may be one past
// the end, and the append position grows the array by one
func (r *Ref) Set(v interface{}) error {
	switch r.kind {
	case refRoot:
		*r.root = v
		return nil
	case refEntry:
		obj, err := r.object()
		if err != nil {
			return err
		}
		obj[r.key] = v
		return nil
	case refAppend:
		return r.push(v)
	}

	arr, err := r.array()
	if err != nil {
		return err
	}
	switch {
	case r.index < len(arr):
		arr[r.index] = v
		return nil
	case r.index == len(arr):
		return r.store(append(arr, v))
	default:
		return r.fail(ErrIndexOutOfRange, "", r.index, len(arr))
	}
}

// Insert adds v at the referenced location. array slots shift every following
// element right, all other references behave like Set
func (r *Ref) Insert(v interface{}) error {
	if r.kind != refSlot {
		return r.Set(v)
	}

	arr, err := r.array()
	if err != nil {
		return err
	}
	if r.index > len(arr) {
		return r.fail(ErrIndexOutOfRange, "", r.index, len(arr))
	}
	arr = append(arr, nil)
	copy(arr[r.index+1:], arr[r.index:])
	arr[r.index] = v
	return r.store(arr)
}

// Replace overwrites an existing value, failing if there is none
func (r *Ref) Replace(v interface{}) error {
	switch r.kind {
	case refRoot:
		*r.root = v
		return nil
	case refAppend:
		return r.fail(ErrInvalidIndex, "-", 0, 0)
	case refEntry:
		obj, err := r.object()
		if err != nil {
			return err
		}
		if _, ok := obj[r.key]; !ok {
			return r.fail(ErrKeyNotFound, r.key, 0, 0)
		}
		obj[r.key] = v
		return nil
	}

	arr, err := r.array()
	if err != nil {
		return err
	}
	if r.index >= len(arr) {
		return r.fail(ErrIndexOutOfRange, "", r.index, len(arr))
	}
	arr[r.index] = v
	return nil
}

// Delete removes the referenced value & returns it. array elements after it
// shift left. the append position removes the last element, and fails on an
// empty array
func (r *Ref) Delete() (interface{}, error) {
	switch r.kind {
	case refRoot:
		return nil, r.fail(ErrCannotDeleteRoot, "", 0, 0)
	case refEntry:
		obj, err := r.object()
		if err != nil {
			return nil, err
		}
		v, ok := obj[r.key]
		if !ok {
			return nil, r.fail(ErrKeyNotFound, r.key, 0, 0)
		}
		delete(obj, r.key)
		return v, nil
	}

	arr, err := r.array()
	if err != nil {
		return nil, err
	}
	i := r.index
	if r.kind == refAppend {
		i = len(arr) - 1
		if i < 0 {
			return nil, r.fail(ErrIndexOutOfRange, "-", 0, 0)
		}
	}
	if i >= len(arr) {
		return nil, r.fail(ErrIndexOutOfRange, "", i, len(arr))
	}
	v := arr[i]
	copy(arr[i:], arr[i+1:])
	arr[len(arr)-1] = nil
	return v, r.store(arr[:len(arr)-1])
}

func (r *Ref) push(v interface{}) error {
	arr, err := r.array()
	if err != nil {
		return err
	}
	return r.store(append(arr, v))
}
