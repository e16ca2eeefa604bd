// Package schema describes import targets as data.
//
// A Definition lists the fields of a dynamic Record and where each comes
// from. Definitions are written in Go (see internal/tables) or loaded from
// YAML files, and compiled into a core.Schema.
package schema

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/JonMunkholm/sheetmap/internal/core"
)

// ErrRequired flags a required field whose cell held no usable value.
var ErrRequired = errors.New("value required")

// Record is the dynamic record type: field name to converted value.
// Unset fields hold nil.
type Record map[string]any

// FieldDef describes one field of a Definition.
type FieldDef struct {
	Name      string   `yaml:"name" json:"name"`
	Type      string   `yaml:"type,omitempty" json:"type"`                   // text, int, float, bool, date
	Column    string   `yaml:"column,omitempty" json:"column,omitempty"`     // header text to match
	Index     *int     `yaml:"index,omitempty" json:"index,omitempty"`       // fixed column, zero-based
	Pattern   string   `yaml:"pattern,omitempty" json:"pattern,omitempty"`   // Go time layout for dates
	Normalize []string `yaml:"normalize,omitempty" json:"normalize,omitempty"`
	Required  bool     `yaml:"required,omitempty" json:"required,omitempty"`
}

// Definition is a named import target.
type Definition struct {
	Key    string     `yaml:"key" json:"key"`       // unique identifier: "ns_customers"
	Group  string     `yaml:"group" json:"group"`   // data source: "NS", "Anrok"
	Label  string     `yaml:"label" json:"label"`   // display name: "Customers"
	Table  string     `yaml:"table,omitempty" json:"table,omitempty"`
	Fields []FieldDef `yaml:"fields" json:"fields"`
}

// TableName returns the destination table, defaulting to the key.
func (d Definition) TableName() string {
	if d.Table != "" {
		return d.Table
	}
	return d.Key
}

// FieldNames returns the field names in declaration order.
func (d Definition) FieldNames() []string {
	names := make([]string, len(d.Fields))
	for i, f := range d.Fields {
		names[i] = f.Name
	}
	return names
}

// Parse decodes a YAML definition. Unknown keys are rejected.
func Parse(data []byte) (Definition, error) {
	var def Definition
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&def); err != nil {
		return Definition{}, fmt.Errorf("parse schema definition: %w", err)
	}
	return def, nil
}

// Compile validates the definition and builds its schema.
func (d Definition) Compile() (*core.Schema[Record], error) {
	if d.Key == "" {
		return nil, fmt.Errorf("%w: definition has no key", core.ErrInvalidBinding)
	}
	if len(d.Fields) == 0 {
		return nil, fmt.Errorf("schema %s: %w: no fields", d.Key, core.ErrInvalidBinding)
	}

	bindings := make([]core.Binding[Record], 0, len(d.Fields))
	for _, f := range d.Fields {
		b, err := f.binding()
		if err != nil {
			return nil, fmt.Errorf("schema %s: %w", d.Key, err)
		}
		bindings = append(bindings, b)
	}

	names := d.FieldNames()
	newRecord := func() (Record, error) {
		rec := make(Record, len(names))
		for _, n := range names {
			rec[n] = nil
		}
		return rec, nil
	}

	return core.NewSchema(d.Key, newRecord, bindings...)
}

func (f FieldDef) binding() (core.Binding[Record], error) {
	if f.Index != nil && *f.Index < 0 {
		return core.Binding[Record]{}, fmt.Errorf("field %q: %w: negative index %d", f.Name, core.ErrInvalidBinding, *f.Index)
	}

	typeName := f.Type
	if typeName == "" {
		typeName = "text"
	}
	typ, err := core.ParseFieldType(typeName)
	if err != nil {
		return core.Binding[Record]{}, fmt.Errorf("field %q: %w", f.Name, err)
	}

	norm, err := chain(f.Normalize)
	if err != nil {
		return core.Binding[Record]{}, fmt.Errorf("field %q: %w", f.Name, err)
	}
	if norm != nil && typ != core.FieldText {
		return core.Binding[Record]{}, fmt.Errorf("field %q: %w: normalizers apply to text fields only",
			f.Name, core.ErrInvalidBinding)
	}

	name, required := f.Name, f.Required
	b := core.Bind(name, typ, func(rec Record, v any) error {
		if v == nil {
			if required {
				return ErrRequired
			}
			return nil
		}
		if s, ok := v.(string); ok && norm != nil {
			v = norm(s)
		}
		rec[name] = v
		return nil
	})

	if f.Column != "" {
		b = b.Named(f.Column)
	}
	if f.Index != nil {
		b = b.At(*f.Index)
	}
	return b.WithPattern(f.Pattern), nil
}
