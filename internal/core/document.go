package core

import "iter"

// Document is the tabular view of a workbook the engine reads from.
// Implementations must already hold the document in memory or stream it
// without blocking on the network.
type Document interface {
	SheetCount() int
	SheetAt(i int) (Sheet, error)

	// MarkCellStyle applies a visual marker to one cell. The engine only
	// calls it once the whole run has completed.
	MarkCellStyle(sheet, row, col int, style string) error
}

// Sheet is one worksheet.
type Sheet interface {
	Name() string

	// Rows returns a forward-only iterator in row-number order. Callers
	// must Close it. A sheet may not support more than one pass.
	Rows() (RowIterator, error)
}

// RowIterator walks the rows of a sheet.
type RowIterator interface {
	Next() bool
	Row() Row
	Err() error
	Close() error
}

// Row is one spreadsheet row.
type Row interface {
	// Number is the zero-based row number within the sheet.
	Number() int

	// Cell returns the cell at a zero-based column index. The boolean is
	// false when the row has no cell at that index.
	Cell(col int) (Cell, bool)

	// Cells yields (column index, cell) pairs left to right.
	Cells() iter.Seq2[int, Cell]
}
