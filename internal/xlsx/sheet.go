package xlsx

import (
	"fmt"
	"iter"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/sheetmap/internal/core"
)

type sheet struct {
	f    *excelize.File
	name string
}

func (s *sheet) Name() string { return s.name }

// Rows streams the rows stored in the sheet. Rows absent from the file are
// not yielded; the row numbers of the others match the sheet.
func (s *sheet) Rows() (core.RowIterator, error) {
	rows, err := s.f.Rows(s.name)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", s.name, err)
	}
	return &rowIterator{f: s.f, sheet: s.name, rows: rows, pos: -1}, nil
}

type rowIterator struct {
	f     *excelize.File
	sheet string
	rows  *excelize.Rows
	pos   int
	cur   *row
	err   error
}

func (it *rowIterator) Next() bool {
	for {
		if it.err != nil || !it.rows.Next() {
			it.cur = nil
			return false
		}
		it.pos++

		values, err := it.rows.Columns(excelize.Options{RawCellValue: true})
		if err != nil {
			it.err = fmt.Errorf("row %d: %w", it.pos, err)
			it.cur = nil
			return false
		}
		if len(values) == 0 {
			continue
		}
		return it.load(values)
	}
}

// load types the raw values of the current row.
func (it *rowIterator) load(values []string) bool {
	it.cur = nil
	cells := make([]core.Cell, len(values))
	for col, v := range values {
		if v == "" {
			continue
		}
		name, err := excelize.CoordinatesToCellName(col+1, it.pos+1)
		if err != nil {
			it.err = err
			return false
		}
		typ, err := it.f.GetCellType(it.sheet, name)
		if err != nil {
			it.err = fmt.Errorf("cell %s: %w", name, err)
			return false
		}
		cells[col] = classify(v, typ)
	}

	it.cur = &row{number: it.pos, cells: cells}
	return true
}

func (it *rowIterator) Row() core.Row {
	if it.cur == nil {
		return nil
	}
	return it.cur
}

func (it *rowIterator) Err() error {
	if it.err != nil {
		return it.err
	}
	return it.rows.Error()
}

func (it *rowIterator) Close() error {
	return it.rows.Close()
}

type row struct {
	number int
	cells  []core.Cell
}

func (r *row) Number() int { return r.number }

func (r *row) Cell(col int) (core.Cell, bool) {
	if col < 0 || col >= len(r.cells) {
		return core.EmptyCell, false
	}
	return r.cells[col], true
}

func (r *row) Cells() iter.Seq2[int, core.Cell] {
	return func(yield func(int, core.Cell) bool) {
		for i, c := range r.cells {
			if !yield(i, c) {
				return
			}
		}
	}
}
