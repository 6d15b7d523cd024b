// Package decode reads documents from JSON or YAML into jsondiff trees, and
// writes trees back out in either format
package decode

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	gyaml "github.com/goccy/go-yaml"
	"github.com/qri-io/jsondiff"
)

// Format is a document encoding
type Format int

const (
	JSON Format = iota
	YAML
)

// String implements the stringer interface for Format
func (f Format) String() string {
	if f == YAML {
		return "yaml"
	}
	return "json"
}

// ErrTrailingData is returned when a JSON document holds more than one value
var ErrTrailingData = errors.New("unexpected data after top-level value")

// FormatFor picks a format from a file extension. anything that isn't
// .yaml or .yml is read as JSON
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML
	}
	return JSON
}

// File reads & decodes the document at path
func File(path string) (interface{}, Format, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, JSON, err
	}
	f := FormatFor(path)
	v, err := Bytes(data, f)
	return v, f, err
}

// Bytes decodes a single document
func Bytes(data []byte, f Format) (interface{}, error) {
	if f == YAML {
		return decodeYAML(data)
	}
	return decodeJSON(data)
}

// decodeJSON keeps numbers as json.Number so large integers & exact decimals
// survive a diff or patch unchanged
func decodeJSON(data []byte) (interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, ErrTrailingData
	}
	return v, nil
}

func decodeYAML(data []byte) (interface{}, error) {
	var v interface{}
	if err := gyaml.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	n, err := jsondiff.Normalize(v)
	if err != nil {
		return nil, fmt.Errorf("yaml: %w", err)
	}
	return n, nil
}

// Encode writes v to w. JSON output is indented by indent spaces, zero
// writes compact JSON
func Encode(w io.Writer, v interface{}, f Format, indent int) error {
	if f == YAML {
		opts := []gyaml.EncodeOption{}
		if indent > 0 {
			opts = append(opts, gyaml.Indent(indent))
		}
		data, err := gyaml.MarshalWithOptions(plainNumbers(v), opts...)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if indent > 0 {
		enc.SetIndent("", strings.Repeat(" ", indent))
	}
	return enc.Encode(v)
}

// plainNumbers rewrites json.Number values as go numbers, which YAML encoders
// write unquoted
func plainNumbers(v interface{}) interface{} {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	case []interface{}:
		cp := make([]interface{}, len(x))
		for i, el := range x {
			cp[i] = plainNumbers(el)
		}
		return cp
	case map[string]interface{}:
		cp := make(map[string]interface{}, len(x))
		for k, el := range x {
			cp[k] = plainNumbers(el)
		}
		return cp
	}
	return v
}
