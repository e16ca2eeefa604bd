package core

// import.go drives a whole run over a document:
//
//	for each selected sheet:
//	    header row  -> ResolveHeader (once per sheet)
//	    data rows   -> Materialize, then route to Records / ErrorRows
//	after the last sheet:
//	    mark failing cells, hand the document to OnAnnotated
//
// Every row other than the header row is a data row. Rows above the header
// have nothing bound yet and yield zero-valued records; StartRow excludes
// them. In explicit map mode the column map is resolved once up front and
// every row, row 0 included, is a data row.

import (
	"fmt"
	"log/slog"
)

// Import maps the rows of doc onto records of s.
func Import[T any](doc Document, s *Schema[T], opts Options) (*Result[T], error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	sheets, err := selectSheets(doc, opts.Sheets)
	if err != nil {
		return nil, err
	}

	var explicit ColumnMap
	if opts.Explicit() {
		explicit, err = ResolveExplicit(s, opts.Columns)
		if err != nil {
			return nil, err
		}
	}

	logger := opts.logger().With("schema", s.name)
	result := &Result[T]{}
	var pending []*CellError

	for _, idx := range sheets {
		sheet, err := doc.SheetAt(idx)
		if err != nil {
			return nil, fmt.Errorf("open sheet %d: %w", idx, err)
		}
		result.Sheets = append(result.Sheets, sheet.Name())

		cols := explicit
		if cols == nil {
			cols = ColumnMap{}
		}
		run := sheetRun[T]{
			schema: s,
			opts:   opts,
			index:  idx,
			name:   sheet.Name(),
			cols:   cols,
			logger: logger,
			result: result,
		}
		if err := run.process(sheet); err != nil {
			return nil, err
		}
		if opts.HandleCellErrors {
			pending = append(pending, run.failed...)
		}
	}

	logger.Info("import complete",
		"sheets", len(result.Sheets),
		"data_rows", result.DataRows,
		"records", len(result.Records),
		"flagged_rows", result.FlaggedRows,
		"cell_errors", len(result.CellErrors),
	)

	if opts.HandleCellErrors {
		if err := annotate(doc, pending, opts); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// selectSheets returns the sheet indices to process.
func selectSheets(doc Document, requested []int) ([]int, error) {
	count := doc.SheetCount()
	if requested == nil {
		all := make([]int, count)
		for i := range all {
			all[i] = i
		}
		return all, nil
	}

	for _, i := range requested {
		if i < 0 || i >= count {
			return nil, fmt.Errorf("%w: index %d, document has %d sheets", ErrSheetNotFound, i, count)
		}
	}
	return requested, nil
}

// sheetRun holds the per-sheet state of an import.
type sheetRun[T any] struct {
	schema *Schema[T]
	opts   Options
	index  int
	name   string
	cols   ColumnMap
	logger *slog.Logger
	result *Result[T]
	failed []*CellError
}

func (r *sheetRun[T]) process(sheet Sheet) (err error) {
	rows, err := sheet.Rows()
	if err != nil {
		return fmt.Errorf("read sheet %q: %w", r.name, err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close sheet %q: %w", r.name, cerr)
		}
	}()

	var dataRows, skipped int
	for rows.Next() {
		row := rows.Row()
		n := row.Number()

		if !r.opts.Explicit() && n == r.opts.HeaderRow {
			r.cols = ResolveHeader(r.schema, row)
			r.logger.Debug("header resolved",
				"sheet", r.name,
				"row", n,
				"bound", len(r.cols),
				"unbound", Unbound(r.schema, r.cols),
			)
			continue
		}

		if !r.opts.InRange(n) {
			skipped++
			continue
		}

		if err := r.dataRow(row); err != nil {
			return err
		}
		dataRows++
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("read sheet %q: %w", r.name, err)
	}

	r.logger.Debug("sheet done",
		"sheet", r.name,
		"data_rows", dataRows,
		"skipped_rows", skipped,
	)
	return nil
}

func (r *sheetRun[T]) dataRow(row Row) error {
	rr, err := r.schema.materialize(row, r.cols, r.logger)
	if err != nil {
		return err
	}
	rr.Sheet = r.name
	rr.SheetIndex = r.index
	for _, ce := range rr.Errors {
		ce.Sheet = r.name
		ce.SheetIndex = r.index
		r.logger.Debug("cell error",
			"sheet", ce.Sheet,
			"row", ce.Row,
			"column", ce.Column,
			"field", ce.Field,
			"error", ce.Err,
		)
	}

	res := r.result
	res.DataRows++
	res.CellErrors = append(res.CellErrors, rr.Errors...)
	r.failed = append(r.failed, rr.Errors...)

	if rr.HasError {
		res.FlaggedRows++
	}
	if !rr.HasError || r.opts.IncludeErrorRows {
		res.Records = append(res.Records, rr.Record)
	}
	if rr.HasError && r.opts.CollectErrorRows {
		res.ErrorRows = append(res.ErrorRows, rr)
	}
	return nil
}

// annotate applies the deferred cell markers and hands the document back.
func annotate(doc Document, failed []*CellError, opts Options) error {
	style := opts.Marker()
	for _, ce := range failed {
		if err := doc.MarkCellStyle(ce.SheetIndex, ce.Row, ce.Column, style); err != nil {
			return fmt.Errorf("mark cell %d:%d on sheet %q: %w", ce.Row, ce.Column, ce.Sheet, err)
		}
	}
	if opts.OnAnnotated != nil {
		if err := opts.OnAnnotated(doc); err != nil {
			return fmt.Errorf("annotated document callback: %w", err)
		}
	}
	return nil
}
