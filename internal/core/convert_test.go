package core

import (
	"math"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ----------------------------------------------------------------------------
// cleanNumeric Tests
// ----------------------------------------------------------------------------

func TestCleanNumeric(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{"integer", "123", "123", true},
		{"negative", "-456", "-456", true},
		{"decimal", "123.45", "123.45", true},
		{"leading point", ".99", ".99", true},
		{"trailing point", "99.", "99.", true},
		{"scientific", "1.5e3", "1.5e3", true},
		{"dollar", "$1,234.56", "1234.56", true},
		{"euro", "€99", "99", true},
		{"pound", "£5", "5", true},
		{"accounting negative", "(1,234.56)", "-1234.56", true},
		{"accounting with currency", "($50.00)", "-50.00", true},
		{"surrounding spaces", "  42  ", "42", true},
		{"empty", "", "", false},
		{"whitespace only", "   ", "", false},
		{"letters", "abc", "", false},
		{"mixed", "12abc", "", false},
		{"two points", "1.2.3", "", false},
		{"lone sign", "-", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := cleanNumeric(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

// ----------------------------------------------------------------------------
// Converter Tests
// ----------------------------------------------------------------------------

func numeric(t *testing.T, s string) pgtype.Numeric {
	t.Helper()
	var n pgtype.Numeric
	require.NoError(t, n.Scan(s))
	return n
}

func TestConvertText(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want any
	}{
		{"string", "Alice", "Alice"},
		{"empty string kept", "", ""},
		{"whitespace kept", "  x ", "  x "},
		{"nil", nil, nil},
		{"number is not text", 42.0, nil},
		{"bool is not text", true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ConvertText(tt.raw, "")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConvertInt(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want any
	}{
		{"text", "42", int64(42)},
		{"text with spaces", " 42 ", int64(42)},
		{"negative text", "-7", int64(-7)},
		{"numeric cell", 30.0, int64(30)},
		{"int", 5, int64(5)},
		{"int64", int64(9), int64(9)},
		{"thousands separator", "1,000", int64(1000)},
		{"currency", "$1,200", int64(1200)},
		{"accounting negative", "(15)", int64(-15)},
		{"decimal numeric", numeric(t, "123"), int64(123)},
		{"fractional float", 1.5, nil},
		{"fractional text", "2.5", nil},
		{"fractional decimal", numeric(t, "1.25"), nil},
		{"malformed", "abc", nil},
		{"empty", "", nil},
		{"nil", nil, nil},
		{"bool", true, nil},
		{"out of range", 1e19, nil},
		{"nan", math.NaN(), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ConvertInt(tt.raw, "")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConvertFloat(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want any
	}{
		{"text", "3.14", 3.14},
		{"numeric cell", 2.5, 2.5},
		{"int", 3, 3.0},
		{"currency", "$1,234.56", 1234.56},
		{"accounting negative", "(10.50)", -10.5},
		{"decimal", numeric(t, "99.5"), 99.5},
		{"malformed", "abc", nil},
		{"empty", "", nil},
		{"nil", nil, nil},
		{"infinite", math.Inf(1), nil},
		{"invalid decimal", pgtype.Numeric{}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ConvertFloat(tt.raw, "")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConvertBool(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want any
	}{
		{"bool true", true, true},
		{"bool false", false, false},
		{"true", "true", true},
		{"TRUE", "TRUE", true},
		{"yes", "Yes", true},
		{"y", "y", true},
		{"t", "t", true},
		{"1 text", "1", true},
		{"false", "false", false},
		{"no", " no ", false},
		{"0 text", "0", false},
		{"numeric 1", 1.0, true},
		{"numeric 0", 0.0, false},
		{"numeric 2", 2.0, nil},
		{"maybe", "maybe", nil},
		{"nil", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ConvertBool(tt.raw, "")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConvertDate(t *testing.T) {
	day := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		name    string
		raw     any
		pattern string
		want    any
	}{
		{"iso", "2024-03-15", "", day(2024, time.March, 15)},
		{"us slash", "3/15/2024", "", day(2024, time.March, 15)},
		{"padded us slash", "03/15/2024", "", day(2024, time.March, 15)},
		{"month name", "Mar 15, 2024", "", day(2024, time.March, 15)},
		{"compact", "20240315", "", day(2024, time.March, 15)},
		{"two digit year", "3/15/24", "", day(2024, time.March, 15)},
		{"pattern", "15.03.2024", "02.01.2006", day(2024, time.March, 15)},
		{"pattern mismatch", "2024-03-15", "02.01.2006", nil},
		{"excel serial", 45366.0, "", day(2024, time.March, 15)},
		{"time passthrough", day(2020, time.January, 1), "", day(2020, time.January, 1)},
		{"pg date", pgtype.Date{Time: day(2021, time.May, 4), Valid: true}, "", day(2021, time.May, 4)},
		{"pg date infinity", pgtype.Date{InfinityModifier: pgtype.Infinity, Valid: true}, "", nil},
		{"negative serial", -1.0, "", nil},
		{"malformed", "not a date", "", nil},
		{"empty", "", "", nil},
		{"nil", nil, "", nil},
		{"bool", true, "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ConvertDate(tt.raw, tt.pattern)
			require.NoError(t, err)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			gotTime, ok := got.(time.Time)
			require.True(t, ok, "got %T", got)
			assert.True(t, tt.want.(time.Time).Equal(gotTime), "got %v, want %v", gotTime, tt.want)
		})
	}
}

func TestParseDate_TwoDigitPivot(t *testing.T) {
	future := (time.Now().Year() + TwoDigitYearPivot + 1) % 100
	s := time.Date(2000+future, time.January, 2, 0, 0, 0, 0, time.UTC).Format("1/2/06")

	got, ok := parseDate(s, "")
	require.True(t, ok)
	assert.Less(t, got.Year(), time.Now().Year(), "year past the pivot belongs to the previous century")
}

// ----------------------------------------------------------------------------
// Registry Tests
// ----------------------------------------------------------------------------

func TestConverterFor(t *testing.T) {
	for _, ft := range []FieldType{FieldText, FieldInt, FieldFloat, FieldBool, FieldDate} {
		c, ok := ConverterFor(ft)
		assert.True(t, ok, ft.String())
		assert.NotNil(t, c)
	}

	_, ok := ConverterFor(FieldType(99))
	assert.False(t, ok)

	assert.Equal(t, []FieldType{FieldText, FieldInt, FieldFloat, FieldBool, FieldDate}, ConvertedTypes())
}

func TestConverterFor_SharedAcrossCalls(t *testing.T) {
	a, _ := ConverterFor(FieldInt)
	b, _ := ConverterFor(FieldInt)

	got1, _ := a.Convert("7", "")
	got2, _ := b.Convert("7", "")
	assert.Equal(t, got1, got2)
}

// ----------------------------------------------------------------------------
// CleanCell Tests
// ----------------------------------------------------------------------------

func TestCleanCell(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"  Name  ", "Name"},
		{`="00123"`, "00123"},
		{"=SUM", "SUM"},
		{`"quoted"`, "quoted"},
		{`'single'`, "single"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanCell(tt.input))
		})
	}
}

func TestParseFieldType(t *testing.T) {
	for _, ft := range ConvertedTypes() {
		got, err := ParseFieldType(ft.String())
		require.NoError(t, err)
		assert.Equal(t, ft, got)
	}

	got, err := ParseFieldType("decimal")
	require.NoError(t, err)
	assert.Equal(t, FieldFloat, got)

	_, err = ParseFieldType("blob")
	assert.ErrorIs(t, err, ErrInvalidBinding)
}
