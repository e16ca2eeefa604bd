package core

import (
	"fmt"
	"log/slog"
)

// Materialize builds one record from a data row.
//
// A failing cell flags the row and is recorded, then the remaining fields
// are still processed. Only a constructor failure is returned as an error.
func (s *Schema[T]) Materialize(row Row, cols ColumnMap) (RowResult[T], error) {
	return s.materialize(row, cols, nil)
}

func (s *Schema[T]) materialize(row Row, cols ColumnMap, logger *slog.Logger) (RowResult[T], error) {
	rec, err := s.newRecord()
	if err != nil {
		return RowResult[T]{}, fmt.Errorf("schema %s row %d: %w: %w", s.name, row.Number(), ErrInstantiate, err)
	}

	result := RowResult[T]{Record: rec, Row: row.Number()}

	for _, b := range s.bindings {
		col, ok := cols[b.Field]
		if !ok {
			continue
		}

		conv, ok := ConverterFor(b.Type)
		if !ok {
			if logger != nil {
				logger.Debug("no converter for field type, skipping",
					"schema", s.name,
					"field", b.Field,
					"type", b.Type.String(),
				)
			}
			continue
		}

		var raw any
		if cell, present := row.Cell(col); present {
			raw = cell.Raw()
		}

		if err := assign(conv, b, rec, raw); err != nil {
			result.HasError = true
			result.Errors = append(result.Errors, &CellError{
				Row:    row.Number(),
				Column: col,
				Field:  b.Field,
				Value:  raw,
				Err:    err,
			})
		}
	}

	return result, nil
}

// assign converts raw and hands the result to the binding's setter.
// Panics from either step are reported as errors.
func assign[T any](conv Converter, b Binding[T], rec T, raw any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	value, err := conv.Convert(raw, b.Pattern)
	if err != nil {
		return fmt.Errorf("convert to %s: %w", b.Type, err)
	}
	if b.Set == nil {
		return ErrNoSetter
	}
	return b.Set(rec, value)
}
