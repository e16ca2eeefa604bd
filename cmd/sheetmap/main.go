// Command sheetmap imports spreadsheet files against registered schemas
// and prints the result as JSON.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/sheetmap/internal/logging"
	"github.com/JonMunkholm/sheetmap/internal/schema"
	_ "github.com/JonMunkholm/sheetmap/internal/tables" // built-in schemas
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		logLevel  string
		schemaDir string
	)

	root := &cobra.Command{
		Use:          "sheetmap",
		Short:        "Map spreadsheet rows onto typed records",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// .env is optional; existing variables win.
			_ = godotenv.Load()
			slog.SetDefault(logging.New(cmd.ErrOrStderr(), logLevel, "text"))

			if schemaDir != "" {
				if _, err := schema.LoadDir(schemaDir); err != nil {
					return err
				}
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&schemaDir, "schema-dir", "", "directory of YAML schema definitions to register")

	root.AddCommand(newImportCmd(), newSchemasCmd())
	return root
}

// writeJSON encodes v to w, indented when pretty is set.
func writeJSON(w io.Writer, v any, pretty bool) error {
	var (
		data []byte
		err  error
	)
	if pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

// writeJSONFile writes v as indented JSON to path.
func writeJSONFile(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := writeJSON(f, v, true); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
