// Package dataset holds the source-agnostic shapes that transformed API
// content takes before it is reported on and rendered.
package dataset

import (
	"sort"
)

// Kind tells which representation a Data carries
type Kind int

const (
	// KindTable is tabular data held in Data.Table
	KindTable Kind = iota
	// KindBinary is an opaque payload held in Data.Payload
	KindBinary
)

// String returns a human-readable name for the kind
func (k Kind) String() string {
	if k == KindBinary {
		return "binary"
	}
	return "table"
}

// Data is the normalized result of a transform
type Data struct {
	// Source is the name of the data source that produced the data
	Source string

	// Caption optionally describes the data (e.g. an as-of date)
	Caption string

	// Table is set for tabular data
	Table *Table

	// Payload and ContentType are set for binary data
	Payload     []byte
	ContentType string
}

// Kind returns KindBinary when the data carries no table
func (d *Data) Kind() Kind {
	if d.Table == nil {
		return KindBinary
	}
	return KindTable
}

// Flatten turns a nested JSON object into fields with dotted names, sorted by
// name. Arrays are kept as values.
func Flatten(obj map[string]any) []Field {
	var fields []Field
	flatten("", obj, &fields)
	sort.Slice(fields, func(i, j int) bool {
		return fields[i].Name < fields[j].Name
	})
	return fields
}

func flatten(prefix string, obj map[string]any, out *[]Field) {
	for key, value := range obj {
		name := key
		if prefix != "" {
			name = prefix + "." + key
		}
		if nested, ok := value.(map[string]any); ok && len(nested) > 0 {
			flatten(name, nested, out)
			continue
		}
		*out = append(*out, Field{Name: name, Value: value})
	}
}
