package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/sheetmap/internal/core"
	"github.com/JonMunkholm/sheetmap/internal/importer"
)

// parseImportForm reads a multipart upload into an import request.
//
// Form fields: file, header_row, start_row, end_row, sheets (repeated or
// comma separated), mapping (JSON object of field to column index),
// include_error_rows, collect_error_rows, mark_errors, persist.
func (s *Server) parseImportForm(w http.ResponseWriter, r *http.Request) (importer.Request, error) {
	maxSize := s.cfg.Import.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+formOverhead)

	if err := r.ParseMultipartForm(formOverhead); err != nil {
		if isMaxBytes(err) {
			return importer.Request{}, importer.ErrFileTooLarge
		}
		if errors.Is(err, http.ErrNotMultipart) || errors.Is(err, http.ErrMissingBoundary) {
			return importer.Request{}, importer.ErrNoFile
		}
		return importer.Request{}, fmt.Errorf("%w: %v", core.ErrInvalidOptions, err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return importer.Request{}, importer.ErrNoFile
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return importer.Request{}, fmt.Errorf("read upload: %w", err)
	}

	req := importer.Request{
		Schema:   chi.URLParam(r, "schema"),
		FileName: header.Filename,
		Data:     data,
		Sheets:   formList(r, "sheets"),
	}

	if req.HeaderRow, err = formInt(r, "header_row"); err != nil {
		return importer.Request{}, err
	}
	if req.StartRow, err = formOptionalInt(r, "start_row"); err != nil {
		return importer.Request{}, err
	}
	if req.EndRow, err = formOptionalInt(r, "end_row"); err != nil {
		return importer.Request{}, err
	}

	if raw := strings.TrimSpace(r.FormValue("mapping")); raw != "" {
		if err := json.UnmarshalFromString(raw, &req.Mapping); err != nil {
			return importer.Request{}, fmt.Errorf("%w: mapping: %v", core.ErrInvalidBinding, err)
		}
	}

	for name, dst := range map[string]*bool{
		"include_error_rows": &req.IncludeErrorRows,
		"collect_error_rows": &req.CollectErrorRows,
		"mark_errors":        &req.MarkErrors,
		"persist":            &req.Persist,
	} {
		if *dst, err = formBool(r, name); err != nil {
			return importer.Request{}, err
		}
	}
	return req, nil
}

func formInt(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(r.FormValue(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer, got %q", core.ErrInvalidOptions, name, raw)
	}
	return n, nil
}

func formOptionalInt(r *http.Request, name string) (*int, error) {
	if strings.TrimSpace(r.FormValue(name)) == "" {
		return nil, nil
	}
	n, err := formInt(r, name)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// formBool accepts strconv booleans plus "on" from HTML checkboxes.
func formBool(r *http.Request, name string) (bool, error) {
	raw := strings.ToLower(strings.TrimSpace(r.FormValue(name)))
	switch raw {
	case "":
		return false, nil
	case "on", "yes":
		return true, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%w: %s must be a boolean, got %q", core.ErrInvalidOptions, name, raw)
	}
	return b, nil
}

func formList(r *http.Request, name string) []string {
	var out []string
	for _, v := range r.MultipartForm.Value[name] {
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
