package web

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/sheetmap/internal/core"
	"github.com/JonMunkholm/sheetmap/internal/importer"
	"github.com/JonMunkholm/sheetmap/internal/schema"
)

// SchemaInfo describes a registered schema.
type SchemaInfo struct {
	Key    string            `json:"key"`
	Group  string            `json:"group"`
	Label  string            `json:"label"`
	Table  string            `json:"table"`
	Fields []schema.FieldDef `json:"fields,omitempty"`
}

func schemaInfo(t *schema.Table, withFields bool) SchemaInfo {
	info := SchemaInfo{Key: t.Key, Group: t.Group, Label: t.Label, Table: t.TableName()}
	if withFields {
		info.Fields = t.Fields
	}
	return info
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, map[string]any{
		"status":  "ok",
		"imports": s.service.Status(),
		"schemas": schema.Count(),
	})
}

// handleListSchemas lists every schema, or one group's with ?group=.
func (s *Server) handleListSchemas(w http.ResponseWriter, r *http.Request) {
	tables := s.service.Schemas()
	if group := r.URL.Query().Get("group"); group != "" {
		tables = schema.ByGroup(group)
	}
	out := make([]SchemaInfo, len(tables))
	for i, t := range tables {
		out[i] = schemaInfo(t, false)
	}
	writeJSON(w, r, out)
}

func (s *Server) handleGetSchema(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "schema")
	t, ok := schema.Get(key)
	if !ok {
		respondError(w, r, fmt.Errorf("%w: %s", importer.ErrUnknownSchema, key))
		return
	}
	writeJSON(w, r, schemaInfo(t, true))
}

// FieldTypes lists what schema definitions may use.
type FieldTypes struct {
	Types       []string `json:"types"`
	Normalizers []string `json:"normalizers"`
}

func (s *Server) handleFieldTypes(w http.ResponseWriter, r *http.Request) {
	types := core.ConvertedTypes()
	out := FieldTypes{Types: make([]string, len(types)), Normalizers: schema.Normalizers()}
	for i, t := range types {
		out.Types[i] = t.String()
	}
	writeJSON(w, r, out)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseImportForm(w, r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	report, err := s.service.Import(r.Context(), req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if r.URL.Query().Get("view") == "summary" {
		writeJSON(w, r, report.Summary())
		return
	}
	writeJSON(w, r, report)
}

// PreviewResponse is the body of a preview request.
type PreviewResponse struct {
	Schema string              `json:"schema"`
	Sheets []core.SheetBinding `json:"sheets"`
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseImportForm(w, r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	sheets, err := s.service.Preview(r.Context(), req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, PreviewResponse{Schema: req.Schema, Sheets: sheets})
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, s.service.Runs())
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.service.Report(chi.URLParam(r, "runID"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, r, report)
}

func (s *Server) handleAnnotated(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")
	data, err := s.service.Annotated(runID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	report, _ := s.service.Report(runID)
	name := "annotated.xlsx"
	if report != nil {
		base := strings.TrimSuffix(filepath.Base(report.FileName), filepath.Ext(report.FileName))
		name = base + "_errors.xlsx"
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	_, _ = w.Write(data)
}

func (s *Server) handleReportPage(w http.ResponseWriter, r *http.Request) {
	report, err := s.service.Report(chi.URLParam(r, "runID"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	templ.Handler(reportPage(report)).ServeHTTP(w, r)
}

func (s *Server) handleRunsPage(w http.ResponseWriter, r *http.Request) {
	templ.Handler(runsPage(s.service.Runs(), s.service.Schemas())).ServeHTTP(w, r)
}
