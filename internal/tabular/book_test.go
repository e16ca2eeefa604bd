package tabular

import (
	"testing"

	"github.com/JonMunkholm/sheetmap/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBook_Sheets(t *testing.T) {
	book := NewBook()
	book.AddSheet("first", Texts("a", "b"))
	second := book.AddSheet("second")
	second.Append(Values(1, true, nil)...)

	assert.Equal(t, 2, book.SheetCount())
	assert.Equal(t, []string{"first", "second"}, book.SheetNames())

	s, err := book.SheetAt(1)
	require.NoError(t, err)
	assert.Equal(t, "second", s.Name())
	assert.Equal(t, 1, second.Len())

	_, err = book.SheetAt(2)
	assert.ErrorIs(t, err, core.ErrSheetNotFound)
	_, err = book.SheetAt(-1)
	assert.ErrorIs(t, err, core.ErrSheetNotFound)
}

func TestBook_RowIteration(t *testing.T) {
	book := NewBook()
	sheet := book.AddSheet("data",
		Texts("Name", "Age"),
		Values("Alice", 30),
		Values("Bob"),
	)

	rows := collect(t, sheet)
	require.Len(t, rows, 3)
	for i, r := range rows {
		assert.Equal(t, i, r.Number())
	}

	age, ok := rows[1].Cell(1)
	require.True(t, ok)
	assert.Equal(t, core.NumericCell(30), age)

	_, ok = rows[2].Cell(1)
	assert.False(t, ok, "short row has no cell past its end")
	_, ok = rows[2].Cell(-1)
	assert.False(t, ok)
}

func TestBook_RowIteratorExhausted(t *testing.T) {
	sheet := NewBook().AddSheet("empty")
	it, err := sheet.Rows()
	require.NoError(t, err)

	assert.Nil(t, it.Row(), "no row before Next")
	assert.False(t, it.Next())
	assert.False(t, it.Next())
	assert.Nil(t, it.Row())
	assert.NoError(t, it.Err())
	assert.NoError(t, it.Close())
}

func TestBook_MarkCellStyle(t *testing.T) {
	book := NewBook()
	book.AddSheet("data")

	require.NoError(t, book.MarkCellStyle(0, 3, 1, "FFC7CE"))
	require.NoError(t, book.MarkCellStyle(0, 4, 0, "FFC7CE"))
	assert.ErrorIs(t, book.MarkCellStyle(1, 0, 0, "FFC7CE"), core.ErrSheetNotFound)

	marks := book.Marks()
	assert.Equal(t, []Mark{
		{Sheet: 0, Row: 3, Col: 1, Style: "FFC7CE"},
		{Sheet: 0, Row: 4, Col: 0, Style: "FFC7CE"},
	}, marks)

	marks[0].Style = "changed"
	assert.Equal(t, "FFC7CE", book.Marks()[0].Style, "Marks returns a copy")
}

func TestRow_Cells(t *testing.T) {
	r := NewRow(7, Texts("x", "", "z")...)
	assert.Equal(t, 7, r.Number())

	var kinds []core.CellKind
	for _, c := range r.Cells() {
		kinds = append(kinds, c.Kind)
	}
	assert.Equal(t, []core.CellKind{core.CellText, core.CellEmpty, core.CellText}, kinds)

	var seen int
	for range r.Cells() {
		seen++
		break
	}
	assert.Equal(t, 1, seen)
}

func TestValueCell(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want core.Cell
	}{
		{"nil", nil, core.EmptyCell},
		{"empty string", "", core.EmptyCell},
		{"string", "abc", core.TextCell("abc")},
		{"bool", true, core.BoolCell(true)},
		{"int", 42, core.NumericCell(42)},
		{"int64", int64(7), core.NumericCell(7)},
		{"float", 1.5, core.NumericCell(1.5)},
		{"cell passthrough", core.BoolCell(false), core.BoolCell(false)},
		{"other", []int{1}, core.TextCell("[1]")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValueCell(tt.in))
		})
	}
}
