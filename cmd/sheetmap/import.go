package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/sheetmap/internal/config"
	"github.com/JonMunkholm/sheetmap/internal/importer"
	"github.com/JonMunkholm/sheetmap/internal/schema"
	"github.com/JonMunkholm/sheetmap/internal/store"
)

type importFlags struct {
	schema     string
	schemaFile string
	headerRow  int
	start      int
	end        int
	sheets     []string
	mappings   []string

	includeErrorRows bool
	errorsOut        string
	markErrors       string
	dryRun           bool
	persist          bool
	pretty           bool
}

func newImportCmd() *cobra.Command {
	f := &importFlags{}

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import a spreadsheet and print the records as JSON",
		Long: `Import reads an .xlsx, .csv or .tsv file, binds its columns to the
fields of a schema and prints the import report as JSON.

Columns are matched by header text unless --map gives explicit positions,
in which case every row is data.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, f, args[0])
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.schema, "schema", "", "registered schema key")
	fl.StringVar(&f.schemaFile, "schema-file", "", "YAML schema definition to use instead of --schema")
	fl.IntVar(&f.headerRow, "header-row", 0, "zero-based header row")
	fl.IntVar(&f.start, "start", -1, "first data row to import (zero-based)")
	fl.IntVar(&f.end, "end", -1, "last data row to import (zero-based, inclusive)")
	fl.StringSliceVar(&f.sheets, "sheet", nil, "sheet name or zero-based index; repeatable")
	fl.StringArrayVar(&f.mappings, "map", nil, "explicit binding field=column; repeatable")
	fl.BoolVar(&f.includeErrorRows, "include-error-rows", false, "keep flagged rows in the records")
	fl.StringVar(&f.errorsOut, "errors-out", "", "write flagged rows with their errors to this JSON file")
	fl.StringVar(&f.markErrors, "mark-errors", "", "write the workbook with failing cells marked to this path (xlsx only)")
	fl.BoolVar(&f.dryRun, "dry-run", false, "only show how columns bind")
	fl.BoolVar(&f.persist, "persist", false, "copy records into the schema's table (needs DATABASE_URL)")
	fl.BoolVar(&f.pretty, "pretty", false, "pretty-print JSON output")
	cmd.MarkFlagsMutuallyExclusive("schema", "schema-file")
	cmd.MarkFlagsOneRequired("schema", "schema-file")

	return cmd
}

func runImport(cmd *cobra.Command, f *importFlags, path string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	key, err := f.schemaKey()
	if err != nil {
		return err
	}
	mapping, err := parseMappings(f.mappings)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	req := importer.Request{
		Schema:           key,
		FileName:         filepath.Base(path),
		Data:             data,
		HeaderRow:        f.headerRow,
		StartRow:         optionalRow(f.start),
		EndRow:           optionalRow(f.end),
		Sheets:           f.sheets,
		Mapping:          mapping,
		IncludeErrorRows: f.includeErrorRows,
		CollectErrorRows: f.errorsOut != "",
		MarkErrors:       f.markErrors != "",
		Persist:          f.persist,
	}

	var sink *store.Sink
	if f.persist && !f.dryRun {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if !cfg.Database.Enabled() {
			return importer.ErrNoDatabase
		}
		pool, err := store.Connect(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer pool.Close()
		sink = store.NewSink(pool)
	}

	svc, err := importer.NewService(importer.Config{MaxConcurrent: 1, ReportCacheSize: 1}, sink)
	if err != nil {
		return err
	}

	if f.dryRun {
		bindings, err := svc.Preview(ctx, req)
		if err != nil {
			return userError(err)
		}
		return writeJSON(cmd.OutOrStdout(), bindings, f.pretty)
	}

	report, err := svc.Import(ctx, req)
	if err != nil {
		return userError(err)
	}

	if f.errorsOut != "" {
		rows := report.ErrorRows
		if rows == nil {
			rows = []importer.ErrorRow{}
		}
		if err := writeJSONFile(f.errorsOut, rows); err != nil {
			return fmt.Errorf("write error rows: %w", err)
		}
	}
	if f.markErrors != "" {
		if !report.HasAnnotated {
			slog.Warn("no annotated workbook produced; --mark-errors needs an xlsx input", "file", req.FileName)
		} else if err := os.WriteFile(f.markErrors, report.Annotated, 0o644); err != nil {
			return fmt.Errorf("write annotated workbook: %w", err)
		}
	}

	slog.Info("import finished",
		"records", len(report.Records),
		"flagged_rows", report.Flagged,
		"persisted", report.Persisted,
	)
	return writeJSON(cmd.OutOrStdout(), report, f.pretty)
}

// schemaKey returns --schema, or registers --schema-file and returns its key.
func (f *importFlags) schemaKey() (string, error) {
	if f.schemaFile == "" {
		return f.schema, nil
	}
	def, err := schema.LoadFile(f.schemaFile)
	if err != nil {
		return "", err
	}
	if _, err := schema.Add(def); err != nil {
		return "", err
	}
	return def.Key, nil
}

// parseMappings turns field=column pairs into a column map.
func parseMappings(pairs []string) (map[string]int, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	m := make(map[string]int, len(pairs))
	for _, p := range pairs {
		field, col, ok := strings.Cut(p, "=")
		field = strings.TrimSpace(field)
		if !ok || field == "" {
			return nil, fmt.Errorf("invalid --map %q: want field=column", p)
		}
		n, err := strconv.Atoi(strings.TrimSpace(col))
		if err != nil {
			return nil, fmt.Errorf("invalid --map %q: column must be an integer", p)
		}
		m[field] = n
	}
	return m, nil
}

func optionalRow(n int) *int {
	if n < 0 {
		return nil
	}
	return &n
}

// userError prefixes err with its support message when it has one.
func userError(err error) error {
	if !importer.IsUserFacing(err) {
		return err
	}
	return errors.Join(errors.New(importer.FormatUserError(err)), err)
}
