package jsondiff

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// OpType names a patch operation
type OpType string

// the RFC 6902 operation family
const (
	OpAdd     OpType = "add"
	OpRemove  OpType = "remove"
	OpReplace OpType = "replace"
	OpMove    OpType = "move"
	OpCopy    OpType = "copy"
	OpTest    OpType = "test"
)

func (o OpType) valid() bool {
	switch o {
	case OpAdd, OpRemove, OpReplace, OpMove, OpCopy, OpTest:
		return true
	}
	return false
}

// needsValue is true for operations that must carry a value
func (o OpType) needsValue() bool {
	return o == OpAdd || o == OpReplace || o == OpTest
}

// needsFrom is true for operations that read from a second location
func (o OpType) needsFrom() bool {
	return o == OpMove || o == OpCopy
}

// Operation is a single step of a patch
type Operation struct {
	Op   OpType
	Path Path
	// From is the source location of move & copy
	From Path
	// Value is the operand of add, replace & test. a nil Value is JSON null
	Value interface{}
}

// Patch is an ordered list of operations. order is significant: each
// operation sees the document left by the one before it
type Patch []Operation

// ParsePatch decodes a JSON patch document
func ParsePatch(data []byte) (Patch, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	p := make(Patch, len(raw))
	for i, r := range raw {
		op, err := ParseOperation(r)
		if err != nil {
			return nil, &OperationError{Index: i, Op: op.Op, Err: err}
		}
		p[i] = op
	}
	return p, nil
}

// ParseOperation decodes one operation record. fields other than op, path,
// value & from are ignored. an explicit null value counts as present
func ParseOperation(data []byte) (Operation, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return Operation{}, err
	}

	op := Operation{}
	raw, ok := fields["op"]
	if !ok {
		return op, fmt.Errorf("%w %q", ErrMissingField, "op")
	}
	var name string
	if err := json.Unmarshal(raw, &name); err != nil {
		return op, fmt.Errorf("op: %w", err)
	}
	if op.Op = OpType(name); !op.Op.valid() {
		return op, fmt.Errorf("%w %q", ErrUnsupportedOperation, name)
	}

	var err error
	if op.Path, err = pointerField(fields, "path", op.Op); err != nil {
		return op, err
	}
	if op.Op.needsFrom() {
		if op.From, err = pointerField(fields, "from", op.Op); err != nil {
			return op, err
		}
	}
	if op.Op.needsValue() {
		raw, ok := fields["value"]
		if !ok {
			return op, fmt.Errorf("%w %q for %s", ErrMissingField, "value", op.Op)
		}
		if op.Value, err = decodeValue(raw); err != nil {
			return op, fmt.Errorf("value: %w", err)
		}
	}
	return op, nil
}

func pointerField(fields map[string]json.RawMessage, name string, op OpType) (Path, error) {
	raw, ok := fields[name]
	if !ok {
		return nil, fmt.Errorf("%w %q for %s", ErrMissingField, name, op)
	}
	var ptr string
	if err := json.Unmarshal(raw, &ptr); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	p, err := ParsePointer(ptr)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return p, nil
}

// decodeValue keeps numbers as json.Number so large integers survive a
// round trip
func decodeValue(raw json.RawMessage) (interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// UnmarshalJSON implements json.Unmarshaler via ParseOperation
func (o *Operation) UnmarshalJSON(data []byte) error {
	op, err := ParseOperation(data)
	if err != nil {
		return err
	}
	*o = op
	return nil
}

// MarshalJSON encodes an operation record, writing only the fields its op uses
func (o Operation) MarshalJSON() ([]byte, error) {
	rec := struct {
		Op    OpType       `json:"op"`
		From  *string      `json:"from,omitempty"`
		Path  string       `json:"path"`
		Value *interface{} `json:"value,omitempty"`
	}{Op: o.Op, Path: o.Path.Pointer()}

	if o.Op.needsFrom() {
		from := o.From.Pointer()
		rec.From = &from
	}
	if o.Op.needsValue() {
		rec.Value = &o.Value
	}
	return json.Marshal(rec)
}

// Apply runs every operation of p against doc in order. doc is never
// modified: each operation works on a fresh copy of the document left by the
// one before it. on failure Apply returns the document as it stood before the
// failing operation alongside an *OperationError
func Apply(doc interface{}, p Patch) (interface{}, error) {
	cur := doc
	for i, op := range p {
		next, err := op.Apply(cur)
		if err != nil {
			return cur, &OperationError{Index: i, Op: op.Op, Err: err}
		}
		cur = next
	}
	return cur, nil
}

// ApplyJSON decodes doc & patch, applies the patch & encodes the result
func ApplyJSON(doc, patch []byte) ([]byte, error) {
	p, err := ParsePatch(patch)
	if err != nil {
		return nil, err
	}
	v, err := decodeValue(doc)
	if err != nil {
		return nil, err
	}
	res, err := Apply(v, p)
	if err != nil {
		return nil, err
	}
	return json.Marshal(res)
}

// Apply runs a single operation against a copy of doc
func (o Operation) Apply(doc interface{}) (interface{}, error) {
	if o.Op == OpTest {
		v, err := Get(doc, o.Path)
		if err != nil {
			return nil, err
		}
		if !Equal(v, o.Value) {
			return nil, &TestFailedError{Path: o.Path, Expected: o.Value, Actual: v}
		}
		return doc, nil
	}

	next := Clone(doc)
	if err := o.edit(doc, &next); err != nil {
		return nil, err
	}
	return next, nil
}

// edit applies a mutating operation to next, a private copy of prev
func (o Operation) edit(prev interface{}, next *interface{}) error {
	switch o.Op {
	case OpAdd:
		ref, err := Resolve(next, o.Path)
		if err != nil {
			return err
		}
		return ref.Insert(Clone(o.Value))

	case OpRemove:
		ref, err := Resolve(next, o.Path)
		if err != nil {
			return err
		}
		_, err = ref.Delete()
		return err

	case OpReplace:
		ref, err := Resolve(next, o.Path)
		if err != nil {
			return err
		}
		return ref.Replace(Clone(o.Value))

	case OpMove:
		if len(o.From) == 0 && len(o.Path) == 0 {
			return nil
		}
		// moving a value onto itself still requires it to exist: the
		// delete & insert below leave the document unchanged
		if !o.From.Equal(o.Path) && o.Path.HasPrefix(o.From) {
			return fmt.Errorf("%w: %q to %q", ErrMoveIntoChild, o.From.Pointer(), o.Path.Pointer())
		}
		from, err := Resolve(next, o.From)
		if err != nil {
			return err
		}
		v, err := from.Delete()
		if err != nil {
			return err
		}
		to, err := Resolve(next, o.Path)
		if err != nil {
			return err
		}
		return to.Insert(v)

	case OpCopy:
		// read from the document as it was before this operation
		v, err := Get(prev, o.From)
		if err != nil {
			return err
		}
		ref, err := Resolve(next, o.Path)
		if err != nil {
			return err
		}
		return ref.Insert(Clone(v))
	}

	return fmt.Errorf("%w %q", ErrUnsupportedOperation, o.Op)
}
