package jsondiff

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"testing"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

type TestCase struct {
	description string // description of what test is checking
	src, dst    string // express test cases as json strings
	expect      []Change
}

// RunTestCases runs a slice of test cases. each diff is checked against the
// expected changes, then translated to a patch & applied to src, which must
// produce dst
func RunTestCases(t *testing.T, cases []TestCase, opts ...DiffOption) {
	t.Helper()
	for _, c := range cases {
		t.Run(c.description, func(t *testing.T) {
			src := mustDecode(t, c.src)
			dst := mustDecode(t, c.dst)

			res := Diff(src, dst, opts...)
			if diff := cmp.Diff(c.expect, res.Changes(), cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("diff response mismatch (-want +got):\n%s", diff)
			}

			patched, err := Apply(src, res.Patch())
			if err != nil {
				t.Fatalf("error patching source: %s", err)
			}
			if diff := cmp.Diff(dst, patched); diff != "" {
				t.Errorf("patched result mismatch:\nsrc  : %s\ndst  : %s\ndiff (-want +got):\n%s", c.src, c.dst, diff)
			}
		})
	}
}

func mustDecode(t *testing.T, s string) interface{} {
	t.Helper()
	var v interface{}
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		t.Fatal(err)
	}
	return v
}

func TestBasicDiffing(t *testing.T) {
	cases := []TestCase{
		{"equal documents",
			`{"a":[1,2],"b":{"c":null}}`,
			`{"b":{"c":null},"a":[1,2]}`,
			nil,
		},
		{"replace leaf",
			`{"x":true}`,
			`{"x":false}`,
			[]Change{
				{Type: ChangeReplace, Path: Path{Key("x")}, Old: true, New: false},
			},
		},
		{"add key",
			`{"a":1}`,
			`{"a":1,"new":false}`,
			[]Change{
				{Type: ChangeAdd, Path: Path{Key("new")}, New: false},
			},
		},
		{"remove key",
			`{"a":1,"old":false}`,
			`{"a":1}`,
			[]Change{
				{Type: ChangeRemove, Path: Path{Key("old")}, Old: false, Removed: []interface{}{false}},
			},
		},
		{"kind change",
			`{"a":{"b":1}}`,
			`{"a":[1]}`,
			[]Change{
				{Type: ChangeReplace, Path: Path{Key("a")},
					Old: map[string]interface{}{"b": float64(1)},
					New: []interface{}{float64(1)}},
			},
		},
		{"root scalar",
			`1`,
			`"1"`,
			[]Change{
				{Type: ChangeReplace, Path: Path{}, Old: float64(1), New: "1"},
			},
		},
		{"null to value",
			`{"a":null}`,
			`{"a":0}`,
			[]Change{
				{Type: ChangeReplace, Path: Path{Key("a")}, Old: nil, New: float64(0)},
			},
		},
		{"keys needing escapes",
			`{"a/b":1,"~":2}`,
			`{"a/b":2,"~":2,"_x":true}`,
			[]Change{
				{Type: ChangeAdd, Path: Path{Key("_x")}, New: true},
				{Type: ChangeReplace, Path: Path{Key("a/b")}, Old: float64(1), New: float64(2)},
			},
		},
	}

	RunTestCases(t, cases)
}

func TestArrayDiffing(t *testing.T) {
	cases := []TestCase{
		{"lcs alignment",
			`{"a":[1,2,3,6,7,8,9,10]}`,
			`{"a":[0,1,3,7,8,9,13]}`,
			[]Change{
				{Type: ChangeAdd, Path: Path{Key("a"), Index(0)}, New: float64(0)},
				{Type: ChangeRemove, Path: Path{Key("a"), Index(2)}, Old: float64(2), Removed: []interface{}{float64(2)}},
				{Type: ChangeRemove, Path: Path{Key("a"), Index(3)}, Old: float64(6), Removed: []interface{}{float64(6)}},
				{Type: ChangeReplace, Path: Path{Key("a"), Index(6)}, Old: float64(10), New: float64(13)},
			},
		},
		{"insert at head",
			`[1,2,3]`,
			`[0,1,2,3]`,
			[]Change{
				{Type: ChangeAdd, Path: Path{Index(0)}, New: float64(0)},
			},
		},
		{"append to tail",
			`[1]`,
			`[1,2,3]`,
			[]Change{
				{Type: ChangeAdd, Path: Path{Index(1)}, New: float64(2)},
				{Type: ChangeAdd, Path: Path{Index(2)}, New: float64(3)},
			},
		},
		{"consecutive removals",
			`[1,2,3,4]`,
			`[1,4]`,
			[]Change{
				{Type: ChangeRemove, Path: Path{Index(1)}, Old: float64(2), Removed: []interface{}{float64(2), float64(3)}},
			},
		},
		{"pair then add between anchors",
			`[1,2,3]`,
			`[1,9,8,3]`,
			[]Change{
				{Type: ChangeReplace, Path: Path{Index(1)}, Old: float64(2), New: float64(9)},
				{Type: ChangeAdd, Path: Path{Index(2)}, New: float64(8)},
			},
		},
		{"nested element change",
			`{"a":[{"b":1},{"c":2}]}`,
			`{"a":[{"b":1},{"c":3}]}`,
			[]Change{
				{Type: ChangeReplace, Path: Path{Key("a"), Index(1), Key("c")}, Old: float64(2), New: float64(3)},
			},
		},
		{"empty to full",
			`[]`,
			`[true]`,
			[]Change{
				{Type: ChangeAdd, Path: Path{Index(0)}, New: true},
			},
		},
		{"full to empty",
			`[true,false]`,
			`[]`,
			[]Change{
				{Type: ChangeRemove, Path: Path{Index(0)}, Old: true, Removed: []interface{}{true, false}},
			},
		},
	}

	RunTestCases(t, cases)
}

func TestSimpleArrayPolicy(t *testing.T) {
	cases := []TestCase{
		{"unequal arrays are replaced whole",
			`{"a":[1,2]}`,
			`{"a":[1,3]}`,
			[]Change{
				{Type: ChangeReplace, Path: Path{Key("a")},
					Old: []interface{}{float64(1), float64(2)},
					New: []interface{}{float64(1), float64(3)}},
			},
		},
		{"equal arrays",
			`{"a":[1,2]}`,
			`{"a":[1,2]}`,
			nil,
		},
	}

	RunTestCases(t, cases, OptionArrayPolicy(ArraySimple))
}

func TestResultQueries(t *testing.T) {
	l := mustDecode(t, `{"a":{},"arr":[1,2,3,6,7,8,9,10]}`)
	r := mustDecode(t, `{"a":{"y":1,"x":2},"arr":[0,1,3,7,8,9,13],"z":3}`)
	res := Diff(l, r)

	keys, ok := res.AddedKeys(Path{Key("a")})
	if !ok {
		t.Fatal("expected added keys under /a")
	}
	if diff := cmp.Diff([]string{"x", "y"}, keys); diff != "" {
		t.Errorf("added keys mismatch (-want +got):\n%s", diff)
	}
	keys, _ = res.AddedKeys(Path{})
	if diff := cmp.Diff([]string{"z"}, keys); diff != "" {
		t.Errorf("root added keys mismatch (-want +got):\n%s", diff)
	}
	if _, ok := res.AddedKeys(Path{Key("arr")}); ok {
		t.Error("array insertions must not be indexed as added keys")
	}

	got, ok := res.Change(MustParsePointer("/arr/6"))
	if !ok {
		t.Fatal("expected a change at /arr/6")
	}
	want := Change{Type: ChangeReplace, Path: Path{Key("arr"), Index(6)}, Old: float64(10), New: float64(13)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("change mismatch (-want +got):\n%s", diff)
	}
	if _, ok := res.Change(MustParsePointer("/arr/1")); ok {
		t.Error("expected no change at an anchor")
	}

	inRange := res.ChangesInRange(Path{Key("arr")}, 0, 3)
	paths := make([]string, len(inRange))
	for i, c := range inRange {
		paths[i] = c.Path.String()
	}
	if diff := cmp.Diff([]string{"/arr/_0", "/arr/_2"}, paths); diff != "" {
		t.Errorf("range query mismatch (-want +got):\n%s", diff)
	}

	if res.Len() != 7 {
		t.Errorf("expected 7 changes, got %d", res.Len())
	}
}

func TestDiffNoOp(t *testing.T) {
	docs := []string{
		`null`, `true`, `1.5`, `"s"`, `[]`, `{}`,
		`{"a":[1,{"b":[null,"x"]}],"c":{"d":{}}}`,
	}
	for _, d := range docs {
		v := mustDecode(t, d)
		if res := Diff(v, Clone(v)); !res.Empty() {
			t.Errorf("%s: expected empty diff, got %d changes", d, res.Len())
		}
	}
}

func TestNumericEquality(t *testing.T) {
	l := map[string]interface{}{"a": float64(1), "b": int64(2), "c": uint64(3)}
	r := map[string]interface{}{"a": json.Number("1.0"), "b": 2, "c": json.Number("3")}
	if res := Diff(l, r); !res.Empty() {
		t.Errorf("numbers of different go types should compare by value, got %d changes", res.Len())
	}
}

// TestDeterministicOutput guards against map iteration order leaking into
// diff output
func TestDeterministicOutput(t *testing.T) {
	l := mustDecode(t, `{"body":[],"commit":{"message":"created","path":"/a","title":"t"},"meta":{"title":"x"},"s":{"k":[1,2,3]}}`)
	r := mustDecode(t, `{"body":[["Avatar",178],["Spectre",148]],"commit":{"title":""},"meta":{"title":"y"},"name":"ds","s":{"k":[3,2,1]}}`)

	expect, err := json.Marshal(Diff(l, r).Patch())
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 100; i++ {
		got, err := json.Marshal(Diff(l, r).Patch())
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != string(expect) {
			t.Fatalf("non-deterministic result on run %d:\nwant: %s\ngot:  %s", i, expect, got)
		}
	}
}

// TestPatchConformance checks generated patches against an independent
// RFC 6902 implementation over randomly generated document pairs
func TestPatchConformance(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 300; i++ {
		// the reference implementation only accepts container documents
		l := map[string]interface{}{"v": randomValue(rng, 3)}
		var r interface{} = map[string]interface{}{"v": randomValue(rng, 3)}
		if i%2 == 0 {
			// mostly similar documents exercise alignment
			r = mutate(rng, Clone(l), 3)
		}

		res := Diff(l, r)
		patched, err := Apply(l, res.Patch())
		if err != nil {
			t.Fatalf("case %d: apply error: %s", i, err)
		}
		if !Equal(r, patched) {
			t.Fatalf("case %d: patched result mismatch\nleft : %s\nright: %s\ngot  : %s", i, jsonString(l), jsonString(r), jsonString(patched))
		}

		patchJSON, err := json.Marshal(res.Patch())
		if err != nil {
			t.Fatal(err)
		}
		ref, err := jsonpatch.DecodePatch(patchJSON)
		if err != nil {
			t.Fatalf("case %d: reference decode: %s", i, err)
		}
		leftJSON, _ := json.Marshal(l)
		out, err := ref.Apply(leftJSON)
		if err != nil {
			t.Fatalf("case %d: reference apply: %s\npatch: %s", i, err, patchJSON)
		}
		var got interface{}
		if err := json.Unmarshal(out, &got); err != nil {
			t.Fatalf("case %d: decoding reference result: %s", i, err)
		}
		if !Equal(r, got) {
			t.Fatalf("case %d: reference result mismatch\nwant: %s\ngot : %s", i, jsonString(r), out)
		}
	}
}

func randomValue(rng *rand.Rand, depth int) interface{} {
	n := rng.Intn(7)
	if depth <= 0 && n >= 5 {
		n = rng.Intn(5)
	}
	switch n {
	case 0:
		return nil
	case 1:
		return rng.Intn(2) == 0
	case 2, 3:
		return float64(rng.Intn(5))
	case 4:
		return fmt.Sprintf("s%d", rng.Intn(3))
	case 5:
		arr := make([]interface{}, rng.Intn(6))
		for i := range arr {
			arr[i] = randomValue(rng, depth-1)
		}
		return arr
	default:
		obj := map[string]interface{}{}
		for i := rng.Intn(4); i > 0; i-- {
			obj[fmt.Sprintf("k%d", rng.Intn(5))] = randomValue(rng, depth-1)
		}
		return obj
	}
}

// mutate makes a handful of random edits to v
func mutate(rng *rand.Rand, v interface{}, depth int) interface{} {
	switch x := v.(type) {
	case []interface{}:
		for i := range x {
			if rng.Intn(3) == 0 {
				x[i] = mutate(rng, x[i], depth-1)
			}
		}
		switch rng.Intn(3) {
		case 0:
			if len(x) > 0 {
				i := rng.Intn(len(x))
				x = append(x[:i], x[i+1:]...)
			}
		case 1:
			i := rng.Intn(len(x) + 1)
			x = append(x, nil)
			copy(x[i+1:], x[i:])
			x[i] = randomValue(rng, depth-1)
		}
		return x
	case map[string]interface{}:
		for k := range x {
			switch rng.Intn(4) {
			case 0:
				delete(x, k)
			case 1:
				x[k] = mutate(rng, x[k], depth-1)
			}
		}
		if rng.Intn(2) == 0 {
			x[fmt.Sprintf("n%d", rng.Intn(3))] = randomValue(rng, depth-1)
		}
		return x
	default:
		if rng.Intn(2) == 0 {
			return randomValue(rng, depth-1)
		}
		return v
	}
}
