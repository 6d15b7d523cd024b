// Package jsondiff computes structural differences between JSON-like
// documents & applies RFC 6902 patches to them.
//
// Diffing structured data carries additional complexity when compared to the
// standard unix diff utility, which operates on lines of text. By using the
// structure of data itself, jsondiff reports changes by the path they occur
// at, and ignores semantically irrelevant changes like whitespace or the order
// of object keys
//
// Instead of operating on JSON directly, jsondiff operates on document trees
// consisting of the go types created by unmarshaling from JSON, two complex types:
//   map[string]interface{}
//   []interface{}
// and the scalar types:
//   string, float64 (or json.Number & go integers), bool, nil
//
// by operating on native go types jsondiff can compare documents encoded in
// different formats, for example decoded YAML.
//
// Arrays are aligned on their longest common subsequence, so inserting an
// element at the head of a large array produces one addition rather than a
// replacement of every following element. a Diff Result holds exactly one
// Change per path, and answers the queries a renderer needs: the change at a
// path, the keys added under an object & the changes inside a range of array
// positions.
//
// Locations are named by a Path, which round trips to an RFC 6901 JSON
// pointer. Patch documents are lists of add, remove, replace, move, copy &
// test operations, applied in order. Apply never modifies its input
package jsondiff
