package tabular

import (
	"fmt"
	"time"

	"github.com/JonMunkholm/sheetmap/internal/core"
)

// Texts builds a row of text cells. Empty strings become empty cells.
func Texts(values ...string) []core.Cell {
	cells := make([]core.Cell, len(values))
	for i, v := range values {
		if v != "" {
			cells[i] = core.TextCell(v)
		}
	}
	return cells
}

// Values builds a row from Go values: nil is empty, bool is boolean,
// numbers are numeric, strings are text. time.Time is stored as text in
// RFC 3339 form. Any other type is formatted with %v as text.
func Values(values ...any) []core.Cell {
	cells := make([]core.Cell, len(values))
	for i, v := range values {
		cells[i] = ValueCell(v)
	}
	return cells
}

// ValueCell converts one Go value to a cell, following Values.
func ValueCell(v any) core.Cell {
	switch x := v.(type) {
	case nil:
		return core.EmptyCell
	case core.Cell:
		return x
	case bool:
		return core.BoolCell(x)
	case float64:
		return core.NumericCell(x)
	case float32:
		return core.NumericCell(float64(x))
	case int:
		return core.NumericCell(float64(x))
	case int32:
		return core.NumericCell(float64(x))
	case int64:
		return core.NumericCell(float64(x))
	case string:
		if x == "" {
			return core.EmptyCell
		}
		return core.TextCell(x)
	case time.Time:
		return core.TextCell(x.Format(time.RFC3339))
	default:
		return core.TextCell(fmt.Sprintf("%v", x))
	}
}
