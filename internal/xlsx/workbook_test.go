package xlsx_test

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/sheetmap/internal/core"
	"github.com/JonMunkholm/sheetmap/internal/xlsx"
)

type employee struct {
	Name   string
	Age    int64
	Salary float64
	Remote bool
	Start  time.Time
}

var employees = core.MustSchema("employees", core.Alloc[employee],
	core.Text("name", func(e *employee, v string) { e.Name = v }).Named("Name"),
	core.Int("age", func(e *employee, v int64) { e.Age = v }).Named("Age"),
	core.Float("salary", func(e *employee, v float64) { e.Salary = v }).Named("Salary"),
	core.Bool("remote", func(e *employee, v bool) { e.Remote = v }).Named("Remote"),
	core.Date("start", func(e *employee, v time.Time) { e.Start = v }).Named("Start"),
)

// newWorkbook builds a two-sheet workbook in memory and reopens it the way
// an upload would arrive.
func newWorkbook(t *testing.T) *xlsx.Workbook {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	rows := [][]any{
		{"Name", "Age", "Salary", "Remote", "Start"},
		{"Alice", 30, 5120.5, true, time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)},
		{"Bob", "n/a", "$1,200.00", false, "2023-01-09"},
	}
	for r, values := range rows {
		cell, err := excelize.CoordinatesToCellName(1, r+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &values))
	}

	_, err := f.NewSheet("Notes")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Notes", "A3", "after a gap"))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	wb, err := xlsx.OpenReader(&buf)
	require.NoError(t, err)
	t.Cleanup(func() { _ = wb.Close() })
	return wb
}

func TestWorkbook_Sheets(t *testing.T) {
	wb := newWorkbook(t)

	assert.Equal(t, 2, wb.SheetCount())
	assert.Equal(t, []string{"Sheet1", "Notes"}, wb.SheetNames())

	idx, ok := wb.SheetIndex("Notes")
	assert.True(t, ok)
	assert.Equal(t, 1, idx)

	_, err := wb.SheetAt(5)
	assert.ErrorIs(t, err, core.ErrSheetNotFound)
}

func TestWorkbook_CellKinds(t *testing.T) {
	wb := newWorkbook(t)
	sheet, err := wb.SheetAt(0)
	require.NoError(t, err)

	it, err := sheet.Rows()
	require.NoError(t, err)
	defer it.Close()

	require.True(t, it.Next())
	require.True(t, it.Next())
	r := it.Row()
	assert.Equal(t, 1, r.Number())

	name, _ := r.Cell(0)
	assert.Equal(t, core.TextCell("Alice"), name)
	age, _ := r.Cell(1)
	assert.Equal(t, core.NumericCell(30), age)
	remote, _ := r.Cell(3)
	assert.Equal(t, core.BoolCell(true), remote)
	start, _ := r.Cell(4)
	assert.Equal(t, core.CellNumeric, start.Kind, "dates are stored as serial numbers")
}

func TestWorkbook_GapRowsKeepNumbering(t *testing.T) {
	wb := newWorkbook(t)
	sheet, err := wb.SheetAt(1)
	require.NoError(t, err)

	it, err := sheet.Rows()
	require.NoError(t, err)
	defer it.Close()

	var seen []core.Row
	for it.Next() {
		seen = append(seen, it.Row())
	}
	require.NoError(t, it.Err())
	require.Len(t, seen, 1, "rows absent from the sheet are not yielded")
	last := seen[0]
	assert.Equal(t, 2, last.Number())
	cell, ok := last.Cell(0)
	require.True(t, ok)
	assert.Equal(t, core.TextCell("after a gap"), cell)
}

func TestWorkbook_Import(t *testing.T) {
	wb := newWorkbook(t)

	opts := core.DefaultOptions()
	opts.Sheets = []int{0}

	res, err := core.Import(wb, employees, opts)
	require.NoError(t, err)
	require.Len(t, res.Records, 2)

	alice := res.Records[0]
	assert.Equal(t, "Alice", alice.Name)
	assert.Equal(t, int64(30), alice.Age)
	assert.InDelta(t, 5120.5, alice.Salary, 1e-9)
	assert.True(t, alice.Remote)
	assert.Equal(t, "2024-03-15", alice.Start.Format("2006-01-02"))

	bob := res.Records[1]
	assert.Zero(t, bob.Age, "text in a numeric column yields no value")
	assert.InDelta(t, 1200.0, bob.Salary, 1e-9)
	assert.False(t, bob.Remote)
	assert.Equal(t, "2023-01-09", bob.Start.Format("2006-01-02"))
}

func TestWorkbook_ImportSkipsMissingRows(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	for cell, v := range map[string]string{"A1": "Name", "A2": "Alice", "A4": "Bob"} {
		require.NoError(t, f.SetCellValue("Sheet1", cell, v))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	wb, err := xlsx.OpenReader(&buf)
	require.NoError(t, err)
	defer wb.Close()

	type named struct{ Name string }
	s := core.MustSchema("named", core.Alloc[named],
		core.Text("name", func(n *named, v string) { n.Name = v }).Named("Name"),
	)

	res, err := core.Import(wb, s, core.DefaultOptions())
	require.NoError(t, err)
	require.Len(t, res.Records, 2)
	assert.Equal(t, "Alice", res.Records[0].Name)
	assert.Equal(t, "Bob", res.Records[1].Name)
	assert.Equal(t, 2, res.DataRows)

	sheet, err := wb.SheetAt(0)
	require.NoError(t, err)
	it, err := sheet.Rows()
	require.NoError(t, err)
	defer it.Close()
	var numbers []int
	for it.Next() {
		numbers = append(numbers, it.Row().Number())
	}
	require.NoError(t, it.Err())
	assert.Equal(t, []int{0, 1, 3}, numbers)
}

func TestWorkbook_MarkAndWrite(t *testing.T) {
	wb := newWorkbook(t)

	require.NoError(t, wb.MarkCellStyle(0, 2, 1, core.DefaultMarkerStyle))
	require.NoError(t, wb.MarkCellStyle(0, 2, 2, core.DefaultMarkerStyle))
	assert.ErrorIs(t, wb.MarkCellStyle(9, 0, 0, core.DefaultMarkerStyle), core.ErrSheetNotFound)

	path := filepath.Join(t.TempDir(), "annotated.xlsx")
	require.NoError(t, wb.SaveAs(path))

	reopened, err := xlsx.Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	color, err := reopened.FillColor(0, 2, 1)
	require.NoError(t, err)
	assert.Contains(t, strings.ToUpper(color), core.DefaultMarkerStyle)

	color, err = reopened.FillColor(0, 1, 1)
	require.NoError(t, err)
	assert.Empty(t, color)

	data, err := reopened.Bytes()
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestOpen_Missing(t *testing.T) {
	_, err := xlsx.Open(filepath.Join(t.TempDir(), "missing.xlsx"))
	assert.Error(t, err)
}
