package core

import (
	"fmt"
	"strconv"
)

// FieldType is the target primitive type of a bound field.
type FieldType int

const (
	FieldText FieldType = iota
	FieldInt
	FieldFloat
	FieldBool
	FieldDate
)

// String returns the lowercase name used in schema files and messages.
func (t FieldType) String() string {
	switch t {
	case FieldText:
		return "text"
	case FieldInt:
		return "int"
	case FieldFloat:
		return "float"
	case FieldBool:
		return "bool"
	case FieldDate:
		return "date"
	default:
		return "FieldType(" + strconv.Itoa(int(t)) + ")"
	}
}

// ParseFieldType is the inverse of FieldType.String. A few common aliases
// are accepted so hand-written schema files stay forgiving.
func ParseFieldType(s string) (FieldType, error) {
	switch s {
	case "text", "string":
		return FieldText, nil
	case "int", "integer":
		return FieldInt, nil
	case "float", "numeric", "number", "decimal":
		return FieldFloat, nil
	case "bool", "boolean":
		return FieldBool, nil
	case "date", "datetime", "time":
		return FieldDate, nil
	default:
		return 0, fmt.Errorf("%w: unknown field type %q", ErrInvalidBinding, s)
	}
}

// CellKind is the type tag of a raw spreadsheet cell.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellBool
	CellNumeric
	CellText
)

func (k CellKind) String() string {
	switch k {
	case CellBool:
		return "boolean"
	case CellNumeric:
		return "numeric"
	case CellText:
		return "text"
	default:
		return "empty"
	}
}

// Cell is the raw content of one spreadsheet cell.
// Value holds a bool for CellBool, a float64 for CellNumeric and a string
// for CellText. It is nil for CellEmpty.
type Cell struct {
	Kind  CellKind
	Value any
}

// EmptyCell is the zero Cell.
var EmptyCell = Cell{}

// BoolCell returns a boolean cell.
func BoolCell(b bool) Cell { return Cell{Kind: CellBool, Value: b} }

// NumericCell returns a numeric cell.
func NumericCell(f float64) Cell { return Cell{Kind: CellNumeric, Value: f} }

// TextCell returns a text cell.
func TextCell(s string) Cell { return Cell{Kind: CellText, Value: s} }

// Raw returns the value handed to converters. Empty cells yield nil.
func (c Cell) Raw() any {
	if c.Kind == CellEmpty {
		return nil
	}
	return c.Value
}

// Text returns the string value of a text cell.
func (c Cell) Text() (string, bool) {
	if c.Kind != CellText {
		return "", false
	}
	s, ok := c.Value.(string)
	return s, ok
}

// ColumnMap maps field identifiers to resolved column indices for one sheet.
// Fields absent from the map are unbound for that sheet.
type ColumnMap map[string]int

// RowResult is one materialized record plus its error state.
type RowResult[T any] struct {
	Record     T
	Sheet      string
	SheetIndex int
	Row        int
	HasError   bool
	Errors     []*CellError
}

// Result is the outcome of an import run.
type Result[T any] struct {
	// Records holds materialized records in encounter order across sheets.
	Records []T
	// ErrorRows holds flagged rows when Options.CollectErrorRows is set.
	ErrorRows []RowResult[T]
	// CellErrors holds every cell error of the run, flagged rows or not.
	CellErrors []*CellError
	// Sheets lists the names of the processed sheets in order.
	Sheets []string
	// DataRows counts rows that were materialized.
	DataRows int
	// FlaggedRows counts rows with at least one cell error.
	FlaggedRows int
}
