// Package tabular provides an in-memory core.Document.
//
// A Book holds sheets as plain cell grids. It backs CSV imports and is the
// document used throughout the engine tests. Cell markers are recorded
// rather than rendered, so callers can inspect which cells were flagged.
package tabular

import (
	"fmt"
	"iter"

	"github.com/JonMunkholm/sheetmap/internal/core"
)

// Mark is one cell marker applied through MarkCellStyle.
type Mark struct {
	Sheet int
	Row   int
	Col   int
	Style string
}

// Book is an in-memory workbook.
type Book struct {
	sheets []*Sheet
	marks  []Mark
}

// Sheet is one in-memory worksheet.
type Sheet struct {
	name string
	rows [][]core.Cell
}

// NewBook creates an empty book.
func NewBook() *Book {
	return &Book{}
}

// AddSheet appends a sheet with the given rows and returns it.
func (b *Book) AddSheet(name string, rows ...[]core.Cell) *Sheet {
	s := &Sheet{name: name, rows: rows}
	b.sheets = append(b.sheets, s)
	return s
}

// SheetCount implements core.Document.
func (b *Book) SheetCount() int {
	return len(b.sheets)
}

// SheetNames returns the sheet names in book order.
func (b *Book) SheetNames() []string {
	names := make([]string, len(b.sheets))
	for i, s := range b.sheets {
		names[i] = s.name
	}
	return names
}

// SheetAt implements core.Document.
func (b *Book) SheetAt(i int) (core.Sheet, error) {
	if i < 0 || i >= len(b.sheets) {
		return nil, fmt.Errorf("%w: index %d", core.ErrSheetNotFound, i)
	}
	return b.sheets[i], nil
}

// MarkCellStyle implements core.Document by recording the marker.
func (b *Book) MarkCellStyle(sheet, row, col int, style string) error {
	if sheet < 0 || sheet >= len(b.sheets) {
		return fmt.Errorf("%w: index %d", core.ErrSheetNotFound, sheet)
	}
	b.marks = append(b.marks, Mark{Sheet: sheet, Row: row, Col: col, Style: style})
	return nil
}

// Marks returns the recorded markers in application order.
func (b *Book) Marks() []Mark {
	out := make([]Mark, len(b.marks))
	copy(out, b.marks)
	return out
}

// Name implements core.Sheet.
func (s *Sheet) Name() string {
	return s.name
}

// Append adds a row at the end of the sheet.
func (s *Sheet) Append(cells ...core.Cell) {
	s.rows = append(s.rows, cells)
}

// Len returns the number of rows.
func (s *Sheet) Len() int {
	return len(s.rows)
}

// Rows implements core.Sheet. Rows are numbered from zero.
func (s *Sheet) Rows() (core.RowIterator, error) {
	return &rowIterator{rows: s.rows, pos: -1}, nil
}

type rowIterator struct {
	rows [][]core.Cell
	pos  int
}

func (it *rowIterator) Next() bool {
	if it.pos+1 >= len(it.rows) {
		it.pos = len(it.rows)
		return false
	}
	it.pos++
	return true
}

func (it *rowIterator) Row() core.Row {
	if it.pos < 0 || it.pos >= len(it.rows) {
		return nil
	}
	return row{number: it.pos, cells: it.rows[it.pos]}
}

func (it *rowIterator) Err() error   { return nil }
func (it *rowIterator) Close() error { return nil }

// row implements core.Row over a cell slice.
type row struct {
	number int
	cells  []core.Cell
}

// NewRow returns a core.Row with the given number and cells.
func NewRow(number int, cells ...core.Cell) core.Row {
	return row{number: number, cells: cells}
}

func (r row) Number() int { return r.number }

func (r row) Cell(col int) (core.Cell, bool) {
	if col < 0 || col >= len(r.cells) {
		return core.EmptyCell, false
	}
	return r.cells[col], true
}

func (r row) Cells() iter.Seq2[int, core.Cell] {
	return func(yield func(int, core.Cell) bool) {
		for i, c := range r.cells {
			if !yield(i, c) {
				return
			}
		}
	}
}
