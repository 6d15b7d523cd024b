package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/qri-io/jsondiff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, s string) interface{} {
	t.Helper()
	var v interface{}
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func render(t *testing.T, left, right string, opts Options) string {
	t.Helper()
	l, r := decode(t, left), decode(t, right)
	buf := &bytes.Buffer{}
	require.NoError(t, Render(buf, l, jsondiff.Diff(l, r), opts))
	return buf.String()
}

func TestRender(t *testing.T) {
	tests := []struct {
		name     string
		left     string
		right    string
		expected string
	}{
		{
			name:  "objects and arrays",
			left:  `{"a":1,"b":[1,2,3],"c":{"d":true}}`,
			right: `{"a":2,"b":[0,1,3],"c":{"d":true,"e":null}}`,
			expected: ` {
-  "a": 1
+  "a": 2
   "b": [
+    0
     1
-    2
     3
   ]
   "c": {
+    "e": null
     "d": true
   }
 }
`,
		},
		{
			name:  "run of removals",
			left:  `[1,2,3,4]`,
			right: `[1,4]`,
			expected: ` [
   1
-  2
-  3
   4
 ]
`,
		},
		{
			name:  "trailing additions",
			left:  `[1]`,
			right: `[1,2,3]`,
			expected: ` [
   1
+  2
+  3
 ]
`,
		},
		{
			name:  "removed container",
			left:  `{"a":{"b":[1]}}`,
			right: `{}`,
			expected: ` {
-  "a": {
-    "b": [
-      1
-    ]
-  }
 }
`,
		},
		{
			name:  "root replacement",
			left:  `1`,
			right: `"x"`,
			expected: `-1
+"x"
`,
		},
		{
			name:  "nested change inside array element",
			left:  `[{"k":"v"},{"k":"w"}]`,
			right: `[{"k":"v"},{"k":"x"}]`,
			expected: ` [
   {
     "k": "v"
   }
   {
-    "k": "w"
+    "k": "x"
   }
 ]
`,
		},
		{
			name:  "removal before a kept container",
			left:  `[1,{"k":1},2]`,
			right: `[{"k":1},2]`,
			expected: ` [
-  1
   {
     "k": 1
   }
   2
 ]
`,
		},
		{
			name:  "removal followed by a nested change",
			left:  `[1,2,{"k":"v"}]`,
			right: `[2,{"k":"w"}]`,
			expected: ` [
-  1
   2
   {
-    "k": "v"
+    "k": "w"
   }
 ]
`,
		},
		{
			name:     "equal documents",
			left:     `{"a":"<b>"}`,
			right:    `{"a":"<b>"}`,
			expected: " {\n   \"a\": \"<b>\"\n }\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.Indent = 2
			assert.Equal(t, tt.expected, render(t, tt.left, tt.right, opts))
		})
	}
}

func TestRender_InlineStrings(t *testing.T) {
	opts := Options{Indent: 2, InlineStrings: true}
	got := render(t, `{"s":"abc","n":1}`, `{"s":"abd","n":2}`, opts)

	expected := ` {
-  "n": 1
+  "n": 2
~  "s": "ab[-c-]{+d+}"
 }
`
	assert.Equal(t, expected, got)
}

func TestRender_Color(t *testing.T) {
	got := render(t, `{"a":1}`, `{"a":2,"b":3}`, Options{Indent: 2, Color: true})
	assert.Contains(t, got, "\x1b[32m")
	assert.Contains(t, got, "\x1b[31m")

	got = render(t, `{"a":1}`, `{"a":2,"b":3}`, Options{Indent: 2})
	assert.NotContains(t, got, "\x1b[")
}

type failingWriter struct{ n int }

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.n == 0 {
		return 0, errors.New("disk full")
	}
	w.n--
	return len(p), nil
}

func TestRender_WriteError(t *testing.T) {
	l, r := decode(t, `[1,2,3]`), decode(t, `[1]`)
	err := Render(&failingWriter{n: 2}, l, jsondiff.Diff(l, r), DefaultOptions())
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "disk full"))
}
