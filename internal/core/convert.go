package core

// convert.go holds the converters behind the registry.
//
// Spreadsheet data arrives in whatever shape the author typed it:
//   - numbers stored as text, often with currency symbols and thousand separators
//   - accounting negatives written as (123.45)
//   - booleans as yes/no, t/f, 1/0
//   - dates as Excel serial numbers or in a handful of regional layouts
//
// Converters return (nil, nil) for input they cannot make sense of. That is
// the "no value" outcome, not a failure; the row is not flagged for it.

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/xuri/excelize/v2"
)

// numericRegex validates a cleaned numeric string.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// TwoDigitYearPivot defines how 2-digit years are interpreted.
// Years more than this many years in the future are moved back a century.
var TwoDigitYearPivot = 20

var (
	fourDigitYearLayouts = []string{
		"2006-01-02", "2006/01/02", "2006.01.02",
		"1/2/2006", "01/02/2006", "1-2-2006", "01-02-2006", "1.2.2006", "01.02.2006",
		"Jan 2, 2006", "2 Jan 2006", "January 2, 2006",
		"2006-01-02 15:04:05", "2006-01-02T15:04:05",
		time.RFC3339,
		"20060102",
	}
	twoDigitYearLayouts = []string{
		"1/2/06", "01/02/06", "1-2-06", "1.2.06", "01.02.06",
	}
)

// float64 bounds of int64, exclusive at the top.
const (
	minInt64Float = -float64(1 << 63)
	maxInt64Float = float64(1 << 63)
)

// Converter produces a typed value from a raw cell value.
type Converter interface {
	Convert(raw any, pattern string) (any, error)
}

// ConverterFunc adapts a function to the Converter interface.
type ConverterFunc func(raw any, pattern string) (any, error)

func (f ConverterFunc) Convert(raw any, pattern string) (any, error) {
	return f(raw, pattern)
}

// ConvertText passes strings through unchanged. Any other input, numbers
// included, yields nil.
func ConvertText(raw any, _ string) (any, error) {
	s, ok := raw.(string)
	if !ok {
		return nil, nil
	}
	return s, nil
}

// ConvertFloat produces a float64.
func ConvertFloat(raw any, _ string) (any, error) {
	f, ok := toFloat(raw)
	if !ok {
		return nil, nil
	}
	return f, nil
}

// ConvertInt produces an int64. Fractional input yields nil rather than a
// truncated value.
func ConvertInt(raw any, _ string) (any, error) {
	switch v := raw.(type) {
	case int:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case uint8:
		return int64(v), nil
	case uint16:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case pgtype.Numeric:
		if !v.Valid {
			return nil, nil
		}
		i, err := v.Int64Value()
		if err != nil || !i.Valid {
			return nil, nil
		}
		return i.Int64, nil
	case string:
		s := strings.TrimSpace(v)
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i, nil
		}
	}

	f, ok := toFloat(raw)
	if !ok || f != math.Trunc(f) || f < minInt64Float || f >= maxInt64Float {
		return nil, nil
	}
	return int64(f), nil
}

// ConvertBool accepts booleans, numeric 1/0 and the usual textual forms.
func ConvertBool(raw any, _ string) (any, error) {
	switch v := raw.(type) {
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "t", "yes", "y", "1":
			return true, nil
		case "false", "f", "no", "n", "0":
			return false, nil
		}
		return nil, nil
	}

	f, ok := toFloat(raw)
	if !ok {
		return nil, nil
	}
	switch f {
	case 1:
		return true, nil
	case 0:
		return false, nil
	}
	return nil, nil
}

// ConvertDate produces a time.Time. Text is parsed with pattern, a Go
// reference layout, when one is given; otherwise the built-in layouts are
// tried. Numbers are read as Excel serial dates.
func ConvertDate(raw any, pattern string) (any, error) {
	switch v := raw.(type) {
	case time.Time:
		return v, nil
	case pgtype.Date:
		if !v.Valid || v.InfinityModifier != pgtype.Finite {
			return nil, nil
		}
		return v.Time, nil
	case string:
		t, ok := parseDate(v, pattern)
		if !ok {
			return nil, nil
		}
		return t, nil
	}

	f, ok := toFloat(raw)
	if !ok || f < 0 {
		return nil, nil
	}
	t, err := excelize.ExcelDateToTime(f, false)
	if err != nil {
		return nil, nil
	}
	return t, nil
}

// toFloat narrows any numeric input, decimal or textual, to a float64.
func toFloat(raw any) (float64, bool) {
	var f float64
	switch v := raw.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int8:
		f = float64(v)
	case int16:
		f = float64(v)
	case int32:
		f = float64(v)
	case int64:
		f = float64(v)
	case uint8:
		f = float64(v)
	case uint16:
		f = float64(v)
	case uint32:
		f = float64(v)
	case uint64:
		f = float64(v)
	case pgtype.Numeric:
		if !v.Valid {
			return 0, false
		}
		f8, err := v.Float64Value()
		if err != nil || !f8.Valid {
			return 0, false
		}
		f = f8.Float64
	case string:
		s, ok := cleanNumeric(v)
		if !ok {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// cleanNumeric strips currency symbols, thousands separators and the
// accounting negative format "(123.45)". It reports false when what is left
// is not a plain decimal number.
func cleanNumeric(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, "€", "") // Euro
	s = strings.ReplaceAll(s, "£", "") // Pound
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)

	if negative {
		s = "-" + s
	}

	if !numericRegex.MatchString(s) {
		return "", false
	}
	return s, true
}

func parseDate(s, pattern string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	if pattern != "" {
		t, err := time.Parse(pattern, s)
		return t, err == nil
	}

	for _, layout := range fourDigitYearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	pivotYear := time.Now().Year() + TwoDigitYearPivot
	for _, layout := range twoDigitYearLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			if t.Year() > pivotYear {
				t = t.AddDate(-100, 0, 0)
			}
			return t, true
		}
	}

	return time.Time{}, false
}

// CleanCell removes common spreadsheet artifacts from header text:
// surrounding whitespace, the ="..." formula wrapper and surrounding quotes.
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") && len(s) >= 3 {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	s = strings.Trim(s, `"'`)
	return strings.TrimSpace(s)
}
