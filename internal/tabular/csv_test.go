package tabular

import (
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/JonMunkholm/sheetmap/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV(t *testing.T) {
	input := "\xEF\xBB\xBFName,Age\nAlice,30\nBob,\n"

	book, err := ReadCSV(strings.NewReader(input), CSVOptions{})
	require.NoError(t, err)
	require.Equal(t, 1, book.SheetCount())

	sheet, err := book.SheetAt(0)
	require.NoError(t, err)
	assert.Equal(t, "Sheet1", sheet.Name())

	rows := collect(t, sheet)
	require.Len(t, rows, 3)

	name, ok := rows[0].Cell(0)
	require.True(t, ok)
	text, _ := name.Text()
	assert.Equal(t, "Name", text, "BOM should be stripped from the first header")

	age, ok := rows[1].Cell(1)
	require.True(t, ok)
	assert.Equal(t, core.TextCell("30"), age)

	empty, ok := rows[2].Cell(1)
	require.True(t, ok)
	assert.Equal(t, core.CellEmpty, empty.Kind)
	assert.Nil(t, empty.Raw())
}

func TestReadCSV_Options(t *testing.T) {
	book, err := ReadCSV(strings.NewReader("id; total\n1; 9.5\n"), CSVOptions{
		SheetName:        "orders",
		Comma:            ';',
		TrimLeadingSpace: true,
	})
	require.NoError(t, err)

	sheet, err := book.SheetAt(0)
	require.NoError(t, err)
	assert.Equal(t, "orders", sheet.Name())

	rows := collect(t, sheet)
	require.Len(t, rows, 2)
	cell, _ := rows[1].Cell(1)
	assert.Equal(t, core.TextCell("9.5"), cell)
}

func TestReadCSV_LazyQuotes(t *testing.T) {
	book, err := ReadCSV(strings.NewReader("name,note\nAcme,say \"hi\"\n"), CSVOptions{})
	require.NoError(t, err)

	sheet, _ := book.SheetAt(0)
	rows := collect(t, sheet)
	require.Len(t, rows, 2)
	cell, _ := rows[1].Cell(1)
	assert.Equal(t, core.TextCell(`say "hi"`), cell)
}

func TestReadCSV_ReadError(t *testing.T) {
	boom := errors.New("disk gone")
	_, err := ReadCSV(iotest.ErrReader(boom), CSVOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "invalid csv")
}

func collect(t *testing.T, sheet core.Sheet) []core.Row {
	t.Helper()
	it, err := sheet.Rows()
	require.NoError(t, err)
	defer it.Close()

	var rows []core.Row
	for it.Next() {
		rows = append(rows, it.Row())
	}
	require.NoError(t, it.Err())
	return rows
}
