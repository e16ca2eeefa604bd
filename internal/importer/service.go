// Package importer runs spreadsheet imports for registered schemas.
//
// The Service is shared by the HTTP server and the CLI. It bounds
// concurrent runs, opens uploads by file type, drives core.Import, can copy
// the records into PostgreSQL and keeps recent reports in memory.
package importer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru"

	"github.com/JonMunkholm/sheetmap/internal/config"
	"github.com/JonMunkholm/sheetmap/internal/core"
	"github.com/JonMunkholm/sheetmap/internal/logging"
	"github.com/JonMunkholm/sheetmap/internal/schema"
	"github.com/JonMunkholm/sheetmap/internal/store"
)

// DefaultReportCacheSize is the number of reports kept when Config leaves
// it unset.
const DefaultReportCacheSize = 100

// Config holds service settings.
type Config struct {
	MaxConcurrent   int
	MaxWait         time.Duration
	Timeout         time.Duration // per run; zero disables
	MaxFileSize     int64         // bytes; zero disables
	ReportCacheSize int
	MarkerStyle     string
}

// ConfigFrom converts the environment configuration.
func ConfigFrom(c config.ImportConfig) Config {
	return Config{
		MaxConcurrent:   c.MaxConcurrent,
		MaxWait:         c.MaxWait,
		Timeout:         c.Timeout,
		MaxFileSize:     c.MaxFileSize,
		ReportCacheSize: c.ReportCacheSize,
		MarkerStyle:     c.MarkerStyle,
	}
}

// Request describes one import or preview.
type Request struct {
	Schema   string
	FileName string
	Data     []byte

	HeaderRow int
	StartRow  *int
	EndRow    *int
	Sheets    []string       // sheet names; empty means all
	Mapping   map[string]int // field -> column; switches to explicit mode

	IncludeErrorRows bool
	CollectErrorRows bool
	MarkErrors       bool
	Persist          bool
}

// Service runs imports.
type Service struct {
	cfg     Config
	limiter *Limiter
	sink    *store.Sink // nil without a database
	reports *lru.Cache
}

// NewService creates a service. sink may be nil, in which case persisting
// requests fail with ErrNoDatabase.
func NewService(cfg Config, sink *store.Sink) (*Service, error) {
	size := cfg.ReportCacheSize
	if size <= 0 {
		size = DefaultReportCacheSize
	}
	cache, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("create report cache: %w", err)
	}

	return &Service{
		cfg:     cfg,
		limiter: NewLimiter(cfg.MaxConcurrent, cfg.MaxWait),
		sink:    sink,
		reports: cache,
	}, nil
}

// Schemas returns the registered schemas.
func (s *Service) Schemas() []*schema.Table {
	return schema.All()
}

// Import runs one import and caches its report.
func (s *Service) Import(ctx context.Context, req Request) (*Report, error) {
	tbl, err := s.prepare(req)
	if err != nil {
		return nil, err
	}
	if req.Persist && s.sink == nil {
		return nil, ErrNoDatabase
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	runID := uuid.NewString()
	logger := logging.WithFields(ctx, "run_id", runID, "schema", tbl.Key, "file", req.FileName)
	started := time.Now()

	up, err := OpenDocument(req.FileName, req.Data)
	if err != nil {
		return nil, err
	}
	defer up.Close()

	opts, err := req.options(up)
	if err != nil {
		return nil, err
	}
	opts.Logger = logger
	if s.cfg.MarkerStyle != "" {
		opts.MarkerStyle = s.cfg.MarkerStyle
	}

	var annotated []byte
	if req.MarkErrors {
		opts.HandleCellErrors = true
		if up.Workbook != nil {
			opts.OnAnnotated = func(core.Document) error {
				data, err := up.Workbook.Bytes()
				annotated = data
				return err
			}
		}
	}

	res, err := core.Import(up, tbl.Schema, opts)
	if err != nil {
		logger.Warn("import failed", "error", err)
		return nil, err
	}

	report := newReport(res)
	report.RunID = runID
	report.Schema = tbl.Key
	report.FileName = req.FileName
	report.Format = up.Format
	report.StartedAt = started.UTC()
	report.Annotated = annotated
	report.HasAnnotated = annotated != nil

	if req.Persist {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		n, err := s.sink.Write(ctx, tbl.Definition, res.Records)
		if err != nil {
			logger.Error("persist failed", "error", err)
			return nil, err
		}
		report.Persisted = n
	}

	report.DurationMS = time.Since(started).Milliseconds()
	s.reports.Add(runID, report)

	logger.Info("import finished",
		"records", len(report.Records),
		"flagged_rows", report.Flagged,
		"cell_errors", len(report.CellErrors),
		"persisted", report.Persisted,
		"duration_ms", report.DurationMS,
	)
	return report, nil
}

// Preview resolves column bindings without importing.
func (s *Service) Preview(ctx context.Context, req Request) ([]core.SheetBinding, error) {
	tbl, err := s.prepare(req)
	if err != nil {
		return nil, err
	}

	up, err := OpenDocument(req.FileName, req.Data)
	if err != nil {
		return nil, err
	}
	defer up.Close()

	opts, err := req.options(up)
	if err != nil {
		return nil, err
	}
	opts.Logger = logging.FromContext(ctx)
	return core.Preview(up, tbl.Schema, opts)
}

// Report returns a cached report.
func (s *Service) Report(runID string) (*Report, error) {
	v, ok := s.reports.Get(runID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return v.(*Report), nil
}

// Annotated returns the marked workbook of a cached run.
func (s *Service) Annotated(runID string) ([]byte, error) {
	r, err := s.Report(runID)
	if err != nil {
		return nil, err
	}
	if !r.HasAnnotated {
		return nil, fmt.Errorf("%w: %s", ErrNoAnnotated, runID)
	}
	return r.Annotated, nil
}

// Runs returns summaries of the cached reports, newest first.
func (s *Service) Runs() []Summary {
	keys := s.reports.Keys()
	out := make([]Summary, 0, len(keys))
	for i := len(keys) - 1; i >= 0; i-- {
		if v, ok := s.reports.Peek(keys[i]); ok {
			out = append(out, v.(*Report).Summary())
		}
	}
	return out
}

// Status returns the limiter state.
func (s *Service) Status() LimiterStatus {
	return s.limiter.Status()
}

// WaitForImports blocks until running imports finish or ctx is done.
func (s *Service) WaitForImports(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

func (s *Service) prepare(req Request) (*schema.Table, error) {
	tbl, ok := schema.Get(req.Schema)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSchema, req.Schema)
	}
	if len(req.Data) == 0 {
		return nil, ErrEmptyFile
	}
	if s.cfg.MaxFileSize > 0 && int64(len(req.Data)) > s.cfg.MaxFileSize {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrFileTooLarge, len(req.Data), s.cfg.MaxFileSize)
	}
	return tbl, nil
}

func (r Request) options(doc core.Document) (core.Options, error) {
	opts := core.DefaultOptions()
	opts.HeaderRow = r.HeaderRow
	opts.StartRow = r.StartRow
	opts.EndRow = r.EndRow
	opts.IncludeErrorRows = r.IncludeErrorRows
	opts.CollectErrorRows = r.CollectErrorRows
	if len(r.Mapping) > 0 {
		opts.Columns = r.Mapping
	}

	sheets, err := SheetIndices(doc, r.Sheets)
	if err != nil {
		return core.Options{}, err
	}
	opts.Sheets = sheets
	return opts, nil
}
