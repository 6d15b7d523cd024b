package jsondiff

import (
	"encoding/json"
	"fmt"
	"math/big"
	"sort"
)

// Kind defines all of the atoms in our universe, the kinds of data we
// will encounter while diffing or patching a document tree
type Kind uint8

const (
	// KindInvalid is any go type that isn't part of a document tree
	KindInvalid Kind = iota
	KindNull
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// String implements the stringer interface for Kind
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "invalid"
	}
}

// KindOf classifies a document value. Trees are made of the go types
// created by unmarshaling JSON:
//   map[string]interface{}
//   []interface{}
// plus the scalars string, bool, nil & number types. Numbers may be float64,
// json.Number or any of the go integer types YAML decoders produce
func KindOf(v interface{}) Kind {
	switch v.(type) {
	case nil:
		return KindNull
	case bool:
		return KindBool
	case float64, float32, json.Number,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return KindNumber
	case string:
		return KindString
	case []interface{}:
		return KindArray
	case map[string]interface{}:
		return KindObject
	default:
		return KindInvalid
	}
}

// Equal reports whether a and b are structurally the same document.
// numbers compare by value, so float64(1) equals json.Number("1")
func Equal(a, b interface{}) bool {
	ka, kb := KindOf(a), KindOf(b)
	if ka != kb {
		return false
	}

	switch ka {
	case KindNull:
		return true
	case KindBool:
		return a.(bool) == b.(bool)
	case KindString:
		return a.(string) == b.(string)
	case KindNumber:
		return numberEqual(a, b)
	case KindArray:
		x, y := a.([]interface{}), b.([]interface{})
		if len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case KindObject:
		x, y := a.(map[string]interface{}), b.(map[string]interface{})
		if len(x) != len(y) {
			return false
		}
		for k, xv := range x {
			yv, ok := y[k]
			if !ok || !Equal(xv, yv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func numberEqual(a, b interface{}) bool {
	if x, ok := a.(json.Number); ok {
		if y, ok := b.(json.Number); ok && x == y {
			return true
		}
	}
	if x, ok := a.(float64); ok {
		if y, ok := b.(float64); ok {
			return x == y
		}
	}
	ra, ok := rat(a)
	if !ok {
		return false
	}
	rb, ok := rat(b)
	if !ok {
		return false
	}
	return ra.Cmp(rb) == 0
}

// rat converts a number to an exact rational. NaN & infinities have no
// rational form and report false
func rat(v interface{}) (*big.Rat, bool) {
	switch n := v.(type) {
	case float64:
		r := new(big.Rat)
		if r.SetFloat64(n) == nil {
			return nil, false
		}
		return r, true
	case float32:
		return rat(float64(n))
	case json.Number:
		return new(big.Rat).SetString(string(n))
	case int:
		return new(big.Rat).SetInt64(int64(n)), true
	case int8:
		return new(big.Rat).SetInt64(int64(n)), true
	case int16:
		return new(big.Rat).SetInt64(int64(n)), true
	case int32:
		return new(big.Rat).SetInt64(int64(n)), true
	case int64:
		return new(big.Rat).SetInt64(n), true
	case uint:
		return new(big.Rat).SetInt(new(big.Int).SetUint64(uint64(n))), true
	case uint8:
		return new(big.Rat).SetInt64(int64(n)), true
	case uint16:
		return new(big.Rat).SetInt64(int64(n)), true
	case uint32:
		return new(big.Rat).SetInt64(int64(n)), true
	case uint64:
		return new(big.Rat).SetInt(new(big.Int).SetUint64(n)), true
	}
	return nil, false
}

// Clone makes a deep copy of a document tree. scalars are immutable and
// returned as-is
func Clone(v interface{}) interface{} {
	switch x := v.(type) {
	case []interface{}:
		cp := make([]interface{}, len(x))
		for i, el := range x {
			cp[i] = Clone(el)
		}
		return cp
	case map[string]interface{}:
		cp := make(map[string]interface{}, len(x))
		for k, el := range x {
			cp[k] = Clone(el)
		}
		return cp
	default:
		return v
	}
}

// Normalize converts decoder output into a document tree, rewriting
// map[interface{}]interface{} objects, typed slices & typed maps into their
// generic forms. it fails for values no document can hold
func Normalize(v interface{}) (interface{}, error) {
	switch x := v.(type) {
	case []interface{}:
		for i, el := range x {
			n, err := Normalize(el)
			if err != nil {
				return nil, err
			}
			x[i] = n
		}
		return x, nil
	case []map[string]interface{}:
		arr := make([]interface{}, len(x))
		for i, el := range x {
			n, err := Normalize(el)
			if err != nil {
				return nil, err
			}
			arr[i] = n
		}
		return arr, nil
	case map[string]interface{}:
		for k, el := range x {
			n, err := Normalize(el)
			if err != nil {
				return nil, err
			}
			x[k] = n
		}
		return x, nil
	case map[interface{}]interface{}:
		obj := make(map[string]interface{}, len(x))
		for k, el := range x {
			n, err := Normalize(el)
			if err != nil {
				return nil, err
			}
			obj[fmt.Sprint(k)] = n
		}
		return obj, nil
	case float32:
		return float64(x), nil
	}

	if KindOf(v) == KindInvalid {
		return nil, fmt.Errorf("%w: %T", ErrInvalidValue, v)
	}
	return v, nil
}

// SortedKeys lists the keys of an object in ascending order, giving objects
// a stable iteration order
func SortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// count returns the number of nodes in a tree, containers included
func count(v interface{}) int {
	switch x := v.(type) {
	case []interface{}:
		n := 1
		for _, el := range x {
			n += count(el)
		}
		return n
	case map[string]interface{}:
		n := 1
		for _, el := range x {
			n += count(el)
		}
		return n
	default:
		return 1
	}
}
