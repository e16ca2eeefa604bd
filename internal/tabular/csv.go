package tabular

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

// CSVOptions configures ReadCSV.
type CSVOptions struct {
	// SheetName names the single sheet. If empty, "Sheet1" is used.
	SheetName string
	// Comma is the field delimiter. If zero, ',' is used.
	Comma rune
	// TrimLeadingSpace trims leading white space in fields.
	TrimLeadingSpace bool
}

// ReadCSV loads CSV data into a single-sheet book of text cells.
// Rows may have different lengths; empty fields become empty cells.
func ReadCSV(r io.Reader, opts CSVOptions) (*Book, error) {
	name := opts.SheetName
	if name == "" {
		name = "Sheet1"
	}

	cr := csv.NewReader(NewUTF8Sanitizer(SkipBOM(r)))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = opts.TrimLeadingSpace
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}

	book := NewBook()
	sheet := book.AddSheet(name)
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("invalid csv: %w", err)
		}
		sheet.Append(Texts(record...)...)
	}

	return book, nil
}
