package importer

import (
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/sheetmap/internal/core"
	"github.com/JonMunkholm/sheetmap/internal/schema"
)

// CellIssue is the serializable form of a core.CellError.
type CellIssue struct {
	Sheet  string `json:"sheet"`
	Row    int    `json:"row"`
	Column int    `json:"column"`
	Cell   string `json:"cell"` // A1 reference
	Field  string `json:"field"`
	Value  any    `json:"value"`
	Error  string `json:"error"`
}

// ErrorRow is a flagged row with its partially populated record.
type ErrorRow struct {
	Sheet  string        `json:"sheet"`
	Row    int           `json:"row"`
	Record schema.Record `json:"record"`
	Errors []CellIssue   `json:"errors"`
}

// Report is the outcome of one import run.
type Report struct {
	RunID      string          `json:"runId"`
	Schema     string          `json:"schema"`
	FileName   string          `json:"fileName"`
	Format     Format          `json:"format"`
	StartedAt  time.Time       `json:"startedAt"`
	DurationMS int64           `json:"durationMs"`
	Sheets     []string        `json:"sheets"`
	DataRows   int             `json:"dataRows"`
	Flagged    int             `json:"flaggedRows"`
	Persisted  int64           `json:"persisted"`
	Records    []schema.Record `json:"records"`
	ErrorRows  []ErrorRow      `json:"errorRows,omitempty"`
	CellErrors []CellIssue     `json:"cellErrors"`

	// Annotated holds the workbook with failing cells marked, when the run
	// asked for it and the upload was an xlsx file.
	Annotated    []byte `json:"-"`
	HasAnnotated bool   `json:"hasAnnotated"`
}

// Summary is the report without its records, for listings and logs.
type Summary struct {
	RunID     string    `json:"runId"`
	Schema    string    `json:"schema"`
	FileName  string    `json:"fileName"`
	StartedAt time.Time `json:"startedAt"`
	DataRows  int       `json:"dataRows"`
	Imported  int       `json:"imported"`
	Flagged   int       `json:"flaggedRows"`
	Persisted int64     `json:"persisted"`
}

// Summary returns the report's headline numbers.
func (r *Report) Summary() Summary {
	return Summary{
		RunID:     r.RunID,
		Schema:    r.Schema,
		FileName:  r.FileName,
		StartedAt: r.StartedAt,
		DataRows:  r.DataRows,
		Imported:  len(r.Records),
		Flagged:   r.Flagged,
		Persisted: r.Persisted,
	}
}

func newReport(res *core.Result[schema.Record]) *Report {
	r := &Report{
		Sheets:     res.Sheets,
		DataRows:   res.DataRows,
		Flagged:    res.FlaggedRows,
		Records:    res.Records,
		CellErrors: issues(res.CellErrors),
	}
	if r.Records == nil {
		r.Records = []schema.Record{}
	}
	for _, rr := range res.ErrorRows {
		r.ErrorRows = append(r.ErrorRows, ErrorRow{
			Sheet:  rr.Sheet,
			Row:    rr.Row,
			Record: rr.Record,
			Errors: issues(rr.Errors),
		})
	}
	return r
}

func issues(errs []*core.CellError) []CellIssue {
	out := make([]CellIssue, len(errs))
	for i, ce := range errs {
		out[i] = CellIssue{
			Sheet:  ce.Sheet,
			Row:    ce.Row,
			Column: ce.Column,
			Cell:   cellRef(ce.Row, ce.Column),
			Field:  ce.Field,
			Value:  ce.Value,
			Error:  ce.Err.Error(),
		}
	}
	return out
}

// cellRef returns the A1 reference of a zero-based row and column.
func cellRef(row, col int) string {
	name, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return ""
	}
	return name
}
