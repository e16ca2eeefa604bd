package core

import (
	"errors"
	"fmt"
)

var (
	// ErrFieldNotFound is returned when an explicit column map names a field
	// the schema does not declare.
	ErrFieldNotFound = errors.New("field not found")

	// ErrInvalidBinding is returned for malformed binding declarations.
	ErrInvalidBinding = errors.New("invalid binding")

	// ErrInstantiate wraps record constructor failures.
	ErrInstantiate = errors.New("cannot instantiate record")

	// ErrNoSetter flags a bound field that has no setter.
	ErrNoSetter = errors.New("field has no setter")

	// ErrTypeMismatch flags a converted value the setter cannot accept.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrSheetNotFound is returned for sheet indices outside the document.
	ErrSheetNotFound = errors.New("sheet not found")

	// ErrInvalidOptions is returned for inconsistent import options.
	ErrInvalidOptions = errors.New("invalid import options")
)

// CellError describes one failed conversion or assignment.
type CellError struct {
	Sheet      string
	SheetIndex int
	Row        int
	Column     int
	Field      string
	Value      any
	Err        error
}

func (e *CellError) Error() string {
	return fmt.Sprintf("sheet %q row %d column %d (%s): %v", e.Sheet, e.Row, e.Column, e.Field, e.Err)
}

func (e *CellError) Unwrap() error {
	return e.Err
}
