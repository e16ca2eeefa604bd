package importer

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/JonMunkholm/sheetmap/internal/core"
	"github.com/JonMunkholm/sheetmap/internal/tabular"
	"github.com/JonMunkholm/sheetmap/internal/xlsx"
)

// Format is the kind of uploaded document.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
	FormatTSV  Format = "tsv"
)

// DetectFormat picks the format from the file extension.
func DetectFormat(fileName string) (Format, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".tsv":
		return FormatTSV, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(fileName))
	}
}

// Upload is a parsed upload.
type Upload struct {
	core.Document
	Format   Format
	Workbook *xlsx.Workbook // nil unless Format is FormatXLSX
}

// Close releases the workbook, if any.
func (u *Upload) Close() error {
	if u.Workbook != nil {
		return u.Workbook.Close()
	}
	return nil
}

// SheetNames returns the sheet names of the parsed document.
func (u *Upload) SheetNames() []string {
	if u.Workbook != nil {
		return u.Workbook.SheetNames()
	}
	names, _ := SheetNames(u.Document)
	return names
}

// OpenDocument parses an upload held in memory.
func OpenDocument(fileName string, data []byte) (*Upload, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}
	format, err := DetectFormat(fileName)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatXLSX:
		wb, err := xlsx.OpenReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		return &Upload{Document: wb, Format: format, Workbook: wb}, nil
	default:
		opts := tabular.CSVOptions{SheetName: strings.TrimSuffix(filepath.Base(fileName), filepath.Ext(fileName))}
		if format == FormatTSV {
			opts.Comma = '\t'
		}
		book, err := tabular.ReadCSV(bytes.NewReader(data), opts)
		if err != nil {
			return nil, err
		}
		return &Upload{Document: book, Format: format}, nil
	}
}

// SheetNames returns the sheet names of doc in order.
func SheetNames(doc core.Document) ([]string, error) {
	if n, ok := doc.(interface{ SheetNames() []string }); ok {
		return n.SheetNames(), nil
	}
	names := make([]string, doc.SheetCount())
	for i := range names {
		s, err := doc.SheetAt(i)
		if err != nil {
			return nil, err
		}
		names[i] = s.Name()
	}
	return names, nil
}

// SheetIndices resolves sheet references to indices in request order.
// A reference is a sheet name, matched case-insensitively, or a zero-based
// index; names take precedence.
func SheetIndices(doc core.Document, refs []string) ([]int, error) {
	if len(refs) == 0 {
		return nil, nil
	}

	names, err := SheetNames(doc)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]int, len(names))
	for i := len(names) - 1; i >= 0; i-- {
		byName[strings.ToLower(names[i])] = i
	}

	indices := make([]int, 0, len(refs))
	for _, ref := range refs {
		ref = strings.TrimSpace(ref)
		if i, ok := byName[strings.ToLower(ref)]; ok {
			indices = append(indices, i)
			continue
		}
		i, err := strconv.Atoi(ref)
		if err != nil || i < 0 || i >= len(names) {
			return nil, fmt.Errorf("%w: %q (sheets: %s)", core.ErrSheetNotFound, ref, strings.Join(names, ", "))
		}
		indices = append(indices, i)
	}
	return indices, nil
}
