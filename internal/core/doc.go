// Package core maps spreadsheet rows onto typed records.
//
// This package is the binding and conversion engine. It knows nothing about
// file formats; workbooks are read through the [Document] interface, which
// the tabular and xlsx packages implement.
//
// # Schemas
//
// A [Schema] is the binding table of one record type. Each [Binding] names a
// field, its [FieldType], where its column comes from and a setter closure:
//
//	var people = core.MustSchema("people", core.Alloc[Person],
//	    core.Text("name", func(p *Person, v string) { p.Name = v }).Named("Name"),
//	    core.Int("age", func(p *Person, v int64) { p.Age = &v }).Named("Age"),
//	    core.Float("score", func(p *Person, v float64) { p.Score = v }).At(5),
//	)
//
// A binding is resolved by header name (case-insensitive, trimmed), by fixed
// column index, or, when it declares neither, by its declaration position.
//
// # Conversion
//
// Raw cell values go through a process-wide converter registry keyed by
// [FieldType]. Converters are lenient: text that does not parse yields nil,
// and nil leaves the field at its zero value without flagging the row.
//
// # Import
//
// [Import] walks the selected sheets row by row:
//
//  1. The row numbered Options.HeaderRow resolves the sheet's [ColumnMap]
//  2. Every other row inside [StartRow, EndRow] is materialized into a
//     record; rows above the header have no bound columns yet
//  3. A setter or converter failure flags the row; sibling fields still run
//  4. Flagged rows are dropped from Records unless IncludeErrorRows is set,
//     and copied to ErrorRows when CollectErrorRows is set
//  5. With HandleCellErrors, failing cells are marked on the document after
//     the last sheet and the document is passed to OnAnnotated
//
// With Options.Columns set, the caller's field-to-index map replaces header
// detection and every row is data.
//
// # Errors
//
// Only run-level problems are returned as errors: invalid options, unknown
// sheets, unknown fields in an explicit map ([ErrFieldNotFound]), record
// constructor failures ([ErrInstantiate]) and document read errors. Cell
// problems are reported as [CellError] values in the [Result].
package core
