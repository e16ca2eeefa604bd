package core

// schema.go defines the binding table for a record type.
//
// A Schema is built once per record type from explicit Binding values, each
// carrying its own setter closure. Nothing is discovered at runtime:
//
//	people := core.MustSchema("people", core.Alloc[Person],
//	    core.Text("name", func(p *Person, v string) { p.Name = v }).Named("Name"),
//	    core.Int("age", func(p *Person, v int64) { p.Age = &v }).Named("Age"),
//	    core.Date("born", func(p *Person, v time.Time) { p.Born = v }).At(4).WithPattern("02.01.2006"),
//	)

import (
	"fmt"
	"reflect"
	"time"
)

// NoIndex marks a binding without a declared column index.
const NoIndex = -1

// Setter assigns a converted value to one field of rec. value is nil when
// the converter found nothing usable in the cell.
type Setter[T any] func(rec T, value any) error

// Binding associates one field of T with a source column.
type Binding[T any] struct {
	// Field is the field identifier, unique within a schema.
	Field string
	// Type selects the converter.
	Type FieldType
	// Name is the header text to match. Empty if the field is bound by index.
	Name string
	// Index is the column index, or NoIndex.
	Index int
	// Pattern is passed to the converter (a time layout for dates).
	Pattern string
	// Set assigns the converted value.
	Set Setter[T]
}

// Bind returns a binding without column metadata. Unless Named or At is
// applied, the field binds to its declaration position.
func Bind[T any](field string, typ FieldType, set Setter[T]) Binding[T] {
	return Binding[T]{Field: field, Type: typ, Index: NoIndex, Set: set}
}

// Named returns a copy bound to the header column whose text matches name.
func (b Binding[T]) Named(name string) Binding[T] {
	b.Name = name
	return b
}

// At returns a copy bound to a fixed column index.
func (b Binding[T]) At(index int) Binding[T] {
	b.Index = index
	return b
}

// WithPattern returns a copy with a converter pattern.
func (b Binding[T]) WithPattern(pattern string) Binding[T] {
	b.Pattern = pattern
	return b
}

// Text binds a string field.
func Text[T any](field string, set func(T, string)) Binding[T] {
	return Bind(field, FieldText, typedSetter(set))
}

// Int binds an integer field.
func Int[T any](field string, set func(T, int64)) Binding[T] {
	return Bind(field, FieldInt, typedSetter(set))
}

// Float binds a floating-point field.
func Float[T any](field string, set func(T, float64)) Binding[T] {
	return Bind(field, FieldFloat, typedSetter(set))
}

// Bool binds a boolean field.
func Bool[T any](field string, set func(T, bool)) Binding[T] {
	return Bind(field, FieldBool, typedSetter(set))
}

// Date binds a time field.
func Date[T any](field string, set func(T, time.Time)) Binding[T] {
	return Bind(field, FieldDate, typedSetter(set))
}

// typedSetter adapts a typed assignment. nil leaves the field untouched.
func typedSetter[T, V any](set func(T, V)) Setter[T] {
	if set == nil {
		return nil
	}
	return func(rec T, value any) error {
		if value == nil {
			return nil
		}
		v, ok := value.(V)
		if !ok {
			return fmt.Errorf("%w: got %T, want %s", ErrTypeMismatch, value, reflect.TypeFor[V]())
		}
		set(rec, v)
		return nil
	}
}

// Alloc is a record constructor for pointer records.
func Alloc[T any]() (*T, error) {
	return new(T), nil
}

// Schema is the immutable binding table of a record type.
type Schema[T any] struct {
	name      string
	newRecord func() (T, error)
	bindings  []Binding[T]
	byField   map[string]int
}

// NewSchema validates bindings and builds a schema. newRecord is called once
// per data row.
func NewSchema[T any](name string, newRecord func() (T, error), bindings ...Binding[T]) (*Schema[T], error) {
	if newRecord == nil {
		return nil, fmt.Errorf("schema %s: %w: nil record constructor", name, ErrInvalidBinding)
	}

	s := &Schema[T]{
		name:      name,
		newRecord: newRecord,
		bindings:  make([]Binding[T], len(bindings)),
		byField:   make(map[string]int, len(bindings)),
	}
	copy(s.bindings, bindings)

	for i, b := range s.bindings {
		if b.Field == "" {
			return nil, fmt.Errorf("schema %s: %w: binding %d has no field identifier", name, ErrInvalidBinding, i)
		}
		if _, dup := s.byField[b.Field]; dup {
			return nil, fmt.Errorf("schema %s: %w: duplicate field %q", name, ErrInvalidBinding, b.Field)
		}
		if b.Name != "" && b.Index != NoIndex {
			return nil, fmt.Errorf("schema %s: %w: field %q declares both column name %q and index %d",
				name, ErrInvalidBinding, b.Field, b.Name, b.Index)
		}
		if b.Index < NoIndex {
			return nil, fmt.Errorf("schema %s: %w: field %q has negative index %d", name, ErrInvalidBinding, b.Field, b.Index)
		}
		s.byField[b.Field] = i
	}

	return s, nil
}

// MustSchema is like NewSchema but panics on error.
// Use it for package-level schema variables.
func MustSchema[T any](name string, newRecord func() (T, error), bindings ...Binding[T]) *Schema[T] {
	s, err := NewSchema(name, newRecord, bindings...)
	if err != nil {
		panic(err)
	}
	return s
}

// Name returns the schema name.
func (s *Schema[T]) Name() string {
	return s.name
}

// Bindings returns a copy of the bindings in declaration order.
func (s *Schema[T]) Bindings() []Binding[T] {
	out := make([]Binding[T], len(s.bindings))
	copy(out, s.bindings)
	return out
}

// Fields returns the field identifiers in declaration order.
func (s *Schema[T]) Fields() []string {
	fields := make([]string, len(s.bindings))
	for i, b := range s.bindings {
		fields[i] = b.Field
	}
	return fields
}

// Binding returns the binding of a field.
func (s *Schema[T]) Binding(field string) (Binding[T], bool) {
	i, ok := s.byField[field]
	if !ok {
		return Binding[T]{}, false
	}
	return s.bindings[i], true
}
