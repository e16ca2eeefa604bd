package core

import (
	"fmt"
	"log/slog"
)

// DefaultMarkerStyle is the fill color used to mark failing cells.
const DefaultMarkerStyle = "FFC7CE"

// Options configures an import run.
type Options struct {
	// Columns switches to explicit map mode: field identifier to column
	// index. Header detection is skipped and every row is a data row.
	Columns map[string]int

	// Sheets lists the sheet indices to process, in order. Nil means all.
	Sheets []int

	// HeaderRow is the row number used to resolve name bindings.
	HeaderRow int

	// StartRow and EndRow bound the data rows, inclusive. Nil is unbounded.
	StartRow *int
	EndRow   *int

	// HandleCellErrors marks failing cells on the document once the run
	// completes and then calls OnAnnotated.
	HandleCellErrors bool

	// IncludeErrorRows keeps flagged rows in Result.Records.
	IncludeErrorRows bool

	// CollectErrorRows copies flagged rows into Result.ErrorRows.
	CollectErrorRows bool

	// MarkerStyle is passed to Document.MarkCellStyle.
	// If empty, DefaultMarkerStyle is used.
	MarkerStyle string

	// OnAnnotated receives the document after failing cells were marked.
	OnAnnotated func(Document) error

	// Logger receives engine diagnostics. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// DefaultOptions returns options for a header on row 0, all sheets, and
// flagged rows excluded from the result.
func DefaultOptions() Options {
	return Options{MarkerStyle: DefaultMarkerStyle}
}

// RowNum returns a pointer to n, for StartRow and EndRow.
func RowNum(n int) *int {
	return &n
}

// Explicit reports whether the run uses a caller-supplied column map.
func (o Options) Explicit() bool {
	return o.Columns != nil
}

// InRange reports whether a data row falls inside [StartRow, EndRow].
func (o Options) InRange(row int) bool {
	if o.StartRow != nil && row < *o.StartRow {
		return false
	}
	if o.EndRow != nil && row > *o.EndRow {
		return false
	}
	return true
}

// Marker returns the effective marker style.
func (o Options) Marker() string {
	if o.MarkerStyle == "" {
		return DefaultMarkerStyle
	}
	return o.MarkerStyle
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// Validate checks option consistency.
func (o Options) Validate() error {
	if o.HeaderRow < 0 {
		return fmt.Errorf("%w: header row %d is negative", ErrInvalidOptions, o.HeaderRow)
	}
	if o.StartRow != nil && *o.StartRow < 0 {
		return fmt.Errorf("%w: start row %d is negative", ErrInvalidOptions, *o.StartRow)
	}
	if o.StartRow != nil && o.EndRow != nil && *o.StartRow > *o.EndRow {
		return fmt.Errorf("%w: start row %d is after end row %d", ErrInvalidOptions, *o.StartRow, *o.EndRow)
	}
	for _, i := range o.Sheets {
		if i < 0 {
			return fmt.Errorf("%w: sheet index %d is negative", ErrInvalidOptions, i)
		}
	}
	return nil
}
