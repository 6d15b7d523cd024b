// Package render prints a diff as the left document with every change spliced
// in, one line per value, in the style of a unified diff
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/qri-io/jsondiff"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// Options configure a Renderer
type Options struct {
	// spaces per nesting level
	Indent int
	// Color adds ANSI colors: red for removed lines, green for added ones
	Color bool
	// InlineStrings shows a replaced string as one line with the changed runs
	// of characters marked, instead of a removed & an added line
	InlineStrings bool
}

// DefaultOptions match the command defaults
func DefaultOptions() Options {
	return Options{Indent: 4}
}

// line prefixes
const (
	opKeep    = " "
	opAdd     = "+"
	opRemove  = "-"
	opReplace = "~"
)

// Renderer writes a diff result against the left document it was computed
// from. it only reads the result through its query methods
type Renderer struct {
	opts Options
	res  *jsondiff.Result
	w    io.Writer
	err  error

	add, remove, replace *color.Color
}

// New creates a renderer for res
func New(w io.Writer, res *jsondiff.Result, opts Options) *Renderer {
	r := &Renderer{
		opts:    opts,
		res:     res,
		w:       w,
		add:     color.New(color.FgGreen),
		remove:  color.New(color.FgRed),
		replace: color.New(color.FgBlue),
	}
	for _, c := range []*color.Color{r.add, r.remove, r.replace} {
		if opts.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return r
}

// Render writes left with the changes of res spliced in
func Render(w io.Writer, left interface{}, res *jsondiff.Result, opts Options) error {
	return New(w, res, opts).Render(left)
}

// Render writes the document. the first write error stops output & is
// returned
func (r *Renderer) Render(left interface{}) error {
	r.walk(jsondiff.Path{}, left, "", 0)
	return r.err
}

// walk prints the left value v found at path, or the change recorded there
func (r *Renderer) walk(path jsondiff.Path, v interface{}, label string, depth int) {
	if c, ok := r.res.Change(path); ok {
		r.change(c, label, depth)
		return
	}
	r.walkValue(path, v, label, depth)
}

// walkValue prints v & descends into it without looking up a change at path
// itself
func (r *Renderer) walkValue(path jsondiff.Path, v interface{}, label string, depth int) {
	switch x := v.(type) {
	case map[string]interface{}:
		r.line(opKeep, depth, label+"{")
		keys, _ := r.res.AddedKeys(path)
		for _, k := range keys {
			c, _ := r.res.Change(path.AppendKey(k))
			r.value(opAdd, c.New, keyLabel(k), depth+1)
		}
		for _, k := range jsondiff.SortedKeys(x) {
			r.walk(path.AppendKey(k), x[k], keyLabel(k), depth+1)
		}
		r.line(opKeep, depth, "}")
	case []interface{}:
		r.line(opKeep, depth, label+"[")
		r.walkArray(path, x, depth+1)
		r.line(opKeep, depth, "]")
	default:
		r.value(opKeep, v, label, depth)
	}
}

// walkArray steps through the left elements & the positions of the edited
// array together. changes are addressed by edited position: a removal leaves
// the position in place, so the element after a run of removals shares its
// position with the run. that element is an alignment anchor & never changed
func (r *Renderer) walkArray(path jsondiff.Path, arr []interface{}, depth int) {
	i, out := 0, 0
	skip := false
	for {
		if !skip {
			if c, ok := r.res.Change(path.AppendIndex(out)); ok {
				switch c.Type {
				case jsondiff.ChangeAdd:
					r.change(c, "", depth)
					out++
				case jsondiff.ChangeRemove:
					r.change(c, "", depth)
					i += len(c.Removed)
					skip = true
				case jsondiff.ChangeReplace:
					r.change(c, "", depth)
					i++
					out++
				}
				continue
			}
		}
		if i >= len(arr) {
			return
		}
		if skip || len(r.res.ChangesInRange(path, out, out+1)) == 0 {
			r.value(opKeep, arr[i], "", depth)
		} else {
			r.walkValue(path.AppendIndex(out), arr[i], "", depth)
		}
		skip = false
		i++
		out++
	}
}

func (r *Renderer) change(c jsondiff.Change, label string, depth int) {
	switch c.Type {
	case jsondiff.ChangeAdd:
		r.value(opAdd, c.New, label, depth)
	case jsondiff.ChangeRemove:
		for _, v := range c.Removed {
			r.value(opRemove, v, label, depth)
		}
	case jsondiff.ChangeReplace:
		old, oldOK := c.Old.(string)
		nw, newOK := c.New.(string)
		if r.opts.InlineStrings && oldOK && newOK {
			r.inline(old, nw, label, depth)
			return
		}
		r.value(opRemove, c.Old, label, depth)
		r.value(opAdd, c.New, label, depth)
	}
}

// value prints a whole value, every line carrying the same prefix
func (r *Renderer) value(op string, v interface{}, label string, depth int) {
	switch x := v.(type) {
	case map[string]interface{}:
		r.line(op, depth, label+"{")
		for _, k := range jsondiff.SortedKeys(x) {
			r.value(op, x[k], keyLabel(k), depth+1)
		}
		r.line(op, depth, "}")
	case []interface{}:
		r.line(op, depth, label+"[")
		for _, el := range x {
			r.value(op, el, "", depth+1)
		}
		r.line(op, depth, "]")
	default:
		r.line(op, depth, label+scalar(v))
	}
}

// inline prints a replaced string as a single line, marking deleted runs
// [-like this-] & inserted runs {+like this+}
func (r *Renderer) inline(old, nw, label string, depth int) {
	dmp := diffpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(old, nw, false))

	b := &strings.Builder{}
	b.WriteByte('"')
	for _, d := range diffs {
		text := escape(d.Text)
		switch d.Type {
		case diffpatch.DiffEqual:
			b.WriteString(text)
		case diffpatch.DiffDelete:
			b.WriteString(r.remove.Sprint("[-" + text + "-]"))
		case diffpatch.DiffInsert:
			b.WriteString(r.add.Sprint("{+" + text + "+}"))
		}
	}
	b.WriteByte('"')

	r.write(r.replace.Sprint(opReplace) + r.indent(depth) + label + b.String())
}

func (r *Renderer) line(op string, depth int, text string) {
	s := op + r.indent(depth) + text
	switch op {
	case opAdd:
		s = r.add.Sprint(s)
	case opRemove:
		s = r.remove.Sprint(s)
	}
	r.write(s)
}

func (r *Renderer) write(s string) {
	if r.err != nil {
		return
	}
	_, r.err = fmt.Fprintln(r.w, s)
}

func (r *Renderer) indent(depth int) string {
	return strings.Repeat(" ", depth*r.opts.Indent)
}

func keyLabel(k string) string {
	return `"` + escape(k) + `": `
}

func scalar(v interface{}) string {
	s, err := marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return s
}

// escape JSON-escapes s without the surrounding quotes
func escape(s string) string {
	q, err := marshal(s)
	if err != nil {
		return s
	}
	return q[1 : len(q)-1]
}

// marshal encodes v as JSON, leaving <, > & & unescaped
func marshal(v interface{}) (string, error) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
