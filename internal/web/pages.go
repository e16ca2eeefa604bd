package web

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/sheetmap/internal/importer"
	"github.com/JonMunkholm/sheetmap/internal/schema"
)

const pageStyle = `body{font-family:system-ui,sans-serif;margin:2rem;color:#1f2937}
table{border-collapse:collapse;margin:1rem 0}th,td{border:1px solid #d1d5db;padding:.3rem .6rem;text-align:left}
th{background:#f3f4f6}.err{background:#ffc7ce}.muted{color:#6b7280}`

// page writes HTML through a sticky error so components read top to bottom.
type page struct {
	w   io.Writer
	err error
}

func (p *page) raw(s string) {
	if p.err == nil {
		_, p.err = io.WriteString(p.w, s)
	}
}

// text writes escaped, formatted text.
func (p *page) text(format string, args ...any) {
	p.raw(templ.EscapeString(fmt.Sprintf(format, args...)))
}

func (p *page) open(title string) {
	p.raw("<!DOCTYPE html><html><head><meta charset=\"utf-8\"><title>")
	p.text("%s", title)
	p.raw("</title><style>" + pageStyle + "</style></head><body><h1>")
	p.text("%s", title)
	p.raw("</h1>")
}

func (p *page) close() {
	p.raw("</body></html>")
}

func (p *page) row(cells ...any) {
	p.raw("<tr>")
	for _, c := range cells {
		p.raw("<td>")
		if c != nil {
			p.text("%v", c)
		}
		p.raw("</td>")
	}
	p.raw("</tr>")
}

func (p *page) head(cells ...string) {
	p.raw("<tr>")
	for _, c := range cells {
		p.raw("<th>")
		p.text("%s", c)
		p.raw("</th>")
	}
	p.raw("</tr>")
}

func reportURL(runID string) string {
	return "/import/" + url.PathEscape(runID)
}

// reportPage renders one import report.
func reportPage(r *importer.Report) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		p := &page{w: w}
		p.open("Import " + r.FileName)

		p.raw("<table>")
		p.row("Run", r.RunID)
		p.row("Schema", r.Schema)
		p.row("Format", r.Format)
		p.row("Started", r.StartedAt.Format("2006-01-02 15:04:05 MST"))
		p.row("Duration", fmt.Sprintf("%d ms", r.DurationMS))
		p.row("Sheets", len(r.Sheets))
		p.row("Data rows", r.DataRows)
		p.row("Imported", len(r.Records))
		p.row("Flagged rows", r.Flagged)
		p.row("Persisted", r.Persisted)
		p.raw("</table>")

		if r.HasAnnotated {
			p.raw(`<p><a href="/api/import/` + url.PathEscape(r.RunID) + `/annotated">Download workbook with errors marked</a></p>`)
		}

		p.raw("<h2>Cell errors</h2>")
		if len(r.CellErrors) == 0 {
			p.raw(`<p class="muted">None</p>`)
		} else {
			p.raw("<table>")
			p.head("Sheet", "Cell", "Field", "Value", "Error")
			for _, ci := range r.CellErrors {
				p.raw(`<tr class="err">`)
				for _, v := range []any{ci.Sheet, ci.Cell, ci.Field, ci.Value, ci.Error} {
					p.raw("<td>")
					if v != nil {
						p.text("%v", v)
					}
					p.raw("</td>")
				}
				p.raw("</tr>")
			}
			p.raw("</table>")
		}

		p.raw(`<p><a href="/">All imports</a></p>`)
		p.close()
		return p.err
	})
}

// runsPage lists recent imports and the available schemas.
func runsPage(runs []importer.Summary, tables []*schema.Table) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		p := &page{w: w}
		p.open("Imports")

		if len(runs) == 0 {
			p.raw(`<p class="muted">No imports yet.</p>`)
		} else {
			p.raw("<table>")
			p.head("Started", "Schema", "File", "Rows", "Imported", "Flagged", "")
			for _, s := range runs {
				p.raw("<tr>")
				for _, v := range []any{s.StartedAt.Format("2006-01-02 15:04:05"), s.Schema, s.FileName, s.DataRows, s.Imported, s.Flagged} {
					p.raw("<td>")
					p.text("%v", v)
					p.raw("</td>")
				}
				p.raw(`<td><a href="` + templ.EscapeString(reportURL(s.RunID)) + `">report</a></td></tr>`)
			}
			p.raw("</table>")
		}

		p.raw("<h2>Schemas</h2><table>")
		p.head("Key", "Group", "Label", "Fields")
		for _, t := range tables {
			p.row(t.Key, t.Group, t.Label, len(t.Fields))
		}
		p.raw("</table>")

		p.close()
		return p.err
	})
}
