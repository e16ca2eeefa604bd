// Package xlsx adapts excelize workbooks to core.Document.
//
// Cells are read with their raw stored values so number formats never leak
// into conversion: a date cell arrives as its Excel serial number and a
// currency cell as a plain float. Failing cells are marked with a solid
// fill, and the annotated workbook can be written back out.
package xlsx

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/sheetmap/internal/core"
)

// Workbook is a core.Document backed by an excelize file.
type Workbook struct {
	f      *excelize.File
	sheets []string

	mu     sync.Mutex
	styles map[string]int // fill color -> style id
}

// Open reads the workbook at path.
func Open(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	return Wrap(f), nil
}

// OpenReader reads a workbook from r.
func OpenReader(r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	return Wrap(f), nil
}

// Wrap adapts an already opened file. The sheet list is captured now.
func Wrap(f *excelize.File) *Workbook {
	return &Workbook{
		f:      f,
		sheets: f.GetSheetList(),
		styles: make(map[string]int),
	}
}

// File returns the underlying excelize file.
func (w *Workbook) File() *excelize.File {
	return w.f
}

// SheetNames returns the sheet names in workbook order.
func (w *Workbook) SheetNames() []string {
	out := make([]string, len(w.sheets))
	copy(out, w.sheets)
	return out
}

// SheetCount implements core.Document.
func (w *Workbook) SheetCount() int {
	return len(w.sheets)
}

// SheetAt implements core.Document.
func (w *Workbook) SheetAt(i int) (core.Sheet, error) {
	if i < 0 || i >= len(w.sheets) {
		return nil, fmt.Errorf("%w: index %d", core.ErrSheetNotFound, i)
	}
	return &sheet{f: w.f, name: w.sheets[i]}, nil
}

// SheetIndex returns the position of the named sheet.
func (w *Workbook) SheetIndex(name string) (int, bool) {
	for i, s := range w.sheets {
		if s == name {
			return i, true
		}
	}
	return 0, false
}

// MarkCellStyle implements core.Document. style is an RGB hex fill color.
// One excelize style is created per distinct color.
func (w *Workbook) MarkCellStyle(sheetIdx, row, col int, style string) error {
	if sheetIdx < 0 || sheetIdx >= len(w.sheets) {
		return fmt.Errorf("%w: index %d", core.ErrSheetNotFound, sheetIdx)
	}

	id, err := w.fillStyle(style)
	if err != nil {
		return err
	}

	cell, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return fmt.Errorf("mark cell: %w", err)
	}
	if err := w.f.SetCellStyle(w.sheets[sheetIdx], cell, cell, id); err != nil {
		return fmt.Errorf("mark cell %s: %w", cell, err)
	}
	return nil
}

func (w *Workbook) fillStyle(color string) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if id, ok := w.styles[color]; ok {
		return id, nil
	}
	id, err := w.f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
	})
	if err != nil {
		return 0, fmt.Errorf("create fill style %q: %w", color, err)
	}
	w.styles[color] = id
	return id, nil
}

// FillColor returns the solid fill color of a cell, or "" when it has none.
func (w *Workbook) FillColor(sheetIdx, row, col int) (string, error) {
	if sheetIdx < 0 || sheetIdx >= len(w.sheets) {
		return "", fmt.Errorf("%w: index %d", core.ErrSheetNotFound, sheetIdx)
	}
	cell, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return "", err
	}
	id, err := w.f.GetCellStyle(w.sheets[sheetIdx], cell)
	if err != nil || id == 0 {
		return "", err
	}
	st, err := w.f.GetStyle(id)
	if err != nil {
		return "", err
	}
	if st.Fill.Pattern != 1 || len(st.Fill.Color) == 0 {
		return "", nil
	}
	return st.Fill.Color[0], nil
}

// Write serializes the workbook, markers included.
func (w *Workbook) Write(out io.Writer) error {
	if err := w.f.Write(out); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// Bytes returns the serialized workbook.
func (w *Workbook) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := w.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SaveAs writes the workbook to path.
func (w *Workbook) SaveAs(path string) error {
	if err := w.f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

// Close releases temporary files held by excelize.
func (w *Workbook) Close() error {
	return w.f.Close()
}

// classify turns a raw stored value into a typed cell.
func classify(raw string, typ excelize.CellType) core.Cell {
	if raw == "" {
		return core.EmptyCell
	}

	switch typ {
	case excelize.CellTypeBool:
		return core.BoolCell(raw == "1" || raw == "TRUE" || raw == "true")
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString,
		excelize.CellTypeFormula, excelize.CellTypeError:
		return core.TextCell(raw)
	}

	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return core.NumericCell(f)
	}
	return core.TextCell(raw)
}
