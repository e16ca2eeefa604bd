package core

import "fmt"

// BoundColumn describes where one field was bound.
type BoundColumn struct {
	Field  string `json:"field"`
	Column int    `json:"column"`
	Header string `json:"header,omitempty"`
}

// SheetBinding is the binding preview of one sheet.
type SheetBinding struct {
	Sheet      string        `json:"sheet"`
	SheetIndex int           `json:"sheetIndex"`
	HeaderRow  int           `json:"headerRow"`
	Found      bool          `json:"found"` // false if the sheet ended before the header row
	Columns    ColumnMap     `json:"columns"`
	Bound      []BoundColumn `json:"bound"`
	Unbound    []string      `json:"unbound"`
}

// Preview resolves the bindings of every selected sheet without
// materializing any data row. Only rows up to the header row are read.
func Preview[T any](doc Document, s *Schema[T], opts Options) ([]SheetBinding, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	sheets, err := selectSheets(doc, opts.Sheets)
	if err != nil {
		return nil, err
	}

	var explicit ColumnMap
	if opts.Explicit() {
		if explicit, err = ResolveExplicit(s, opts.Columns); err != nil {
			return nil, err
		}
	}

	previews := make([]SheetBinding, 0, len(sheets))
	for _, idx := range sheets {
		sheet, err := doc.SheetAt(idx)
		if err != nil {
			return nil, fmt.Errorf("open sheet %d: %w", idx, err)
		}

		p := SheetBinding{Sheet: sheet.Name(), SheetIndex: idx, HeaderRow: opts.HeaderRow}
		var header Row
		if explicit != nil {
			p.Columns = explicit
			p.Found = true
		} else {
			header, err = findHeader(sheet, opts.HeaderRow)
			if err != nil {
				return nil, err
			}
			if header != nil {
				p.Columns = ResolveHeader(s, header)
				p.Found = true
			} else {
				p.Columns = ColumnMap{}
			}
		}

		for _, b := range s.bindings {
			col, ok := p.Columns[b.Field]
			if !ok {
				continue
			}
			bc := BoundColumn{Field: b.Field, Column: col}
			if header != nil {
				if cell, ok := header.Cell(col); ok {
					bc.Header, _ = headerText(cell)
				}
			}
			p.Bound = append(p.Bound, bc)
		}
		p.Unbound = Unbound(s, p.Columns)
		previews = append(previews, p)
	}
	return previews, nil
}

// findHeader returns the row numbered headerRow, or nil if the sheet has no
// such row.
func findHeader(sheet Sheet, headerRow int) (row Row, err error) {
	rows, err := sheet.Rows()
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet.Name(), err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close sheet %q: %w", sheet.Name(), cerr)
		}
	}()

	for rows.Next() {
		r := rows.Row()
		if r.Number() == headerRow {
			return r, nil
		}
		if r.Number() > headerRow {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet.Name(), err)
	}
	return nil, nil
}
