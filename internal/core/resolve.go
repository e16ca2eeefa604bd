package core

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// HeaderIndex maps normalized header text to the first column carrying it.
type HeaderIndex map[string]int

// headerKey normalizes header text for case-insensitive matching.
func headerKey(s string) string {
	return strings.ToLower(CleanCell(s))
}

// headerText returns the text a header cell is matched by. Numbers are
// written in their shortest decimal form (2024, 1.5) and booleans as
// true or false. Empty cells have no text.
func headerText(c Cell) (string, bool) {
	switch v := c.Value.(type) {
	case string:
		return v, c.Kind == CellText
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), c.Kind == CellNumeric
	case bool:
		return strconv.FormatBool(v), c.Kind == CellBool
	}
	return "", false
}

// MakeHeaderIndex indexes the cells of a header row by their text. When a
// header repeats, the leftmost occurrence wins.
func MakeHeaderIndex(header Row) HeaderIndex {
	idx := make(HeaderIndex)
	if header == nil {
		return idx
	}
	for col, cell := range header.Cells() {
		text, ok := headerText(cell)
		if !ok {
			continue
		}
		key := headerKey(text)
		if key == "" {
			continue
		}
		if _, seen := idx[key]; !seen {
			idx[key] = col
		}
	}
	return idx
}

// ResolveHeader builds the column map of one sheet from its header row.
//
//   - name bindings match header text case-insensitively; no match leaves
//     the field unbound
//   - index bindings bind directly
//   - bindings with neither bind to their declaration position
func ResolveHeader[T any](s *Schema[T], header Row) ColumnMap {
	idx := MakeHeaderIndex(header)
	cols := make(ColumnMap, len(s.bindings))

	for pos, b := range s.bindings {
		switch {
		case b.Name != "":
			if col, ok := idx[headerKey(b.Name)]; ok {
				cols[b.Field] = col
			}
		case b.Index != NoIndex:
			cols[b.Field] = b.Index
		default:
			cols[b.Field] = pos
		}
	}

	return cols
}

// ResolveExplicit builds a column map from caller-supplied field indices.
// Every key must name a declared field.
func ResolveExplicit[T any](s *Schema[T], explicit map[string]int) (ColumnMap, error) {
	// Sorted so the reported field is deterministic.
	fields := make([]string, 0, len(explicit))
	for field := range explicit {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	cols := make(ColumnMap, len(explicit))
	for _, field := range fields {
		if _, ok := s.byField[field]; !ok {
			return nil, fmt.Errorf("schema %s: %w: %q", s.name, ErrFieldNotFound, field)
		}
		col := explicit[field]
		if col < 0 {
			return nil, fmt.Errorf("schema %s: %w: field %q mapped to negative column %d", s.name, ErrInvalidBinding, field, col)
		}
		cols[field] = col
	}
	return cols, nil
}

// Unbound returns the fields of s missing from cols, in declaration order.
func Unbound[T any](s *Schema[T], cols ColumnMap) []string {
	var missing []string
	for _, b := range s.bindings {
		if _, ok := cols[b.Field]; !ok {
			missing = append(missing, b.Field)
		}
	}
	return missing
}
