package core_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/JonMunkholm/sheetmap/internal/core"
	"github.com/JonMunkholm/sheetmap/internal/tabular"
)

// ============================================================================
// Converter Benchmarks
// ============================================================================

// BenchmarkConvertFloat covers the numeric cleanup path: currency symbols,
// thousands separators and accounting negatives.
func BenchmarkConvertFloat(b *testing.B) {
	inputs := []any{
		"123",
		"-456.78",
		"$1,234.56",
		"(123.45)",
		"  999.99  ",
		"€1234.56",
		4521.25,
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, in := range inputs {
			_, _ = core.ConvertFloat(in, "")
		}
	}
}

func BenchmarkConvertDate(b *testing.B) {
	inputs := []any{
		"2024-01-15",
		"01/15/2024",
		"Jan 15, 2024",
		"1/5/24",
		45366.0,
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, in := range inputs {
			_, _ = core.ConvertDate(in, "")
		}
	}
}

func BenchmarkConvertDate_Pattern(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = core.ConvertDate("15.01.2024", "02.01.2006")
	}
}

func BenchmarkCleanCell(b *testing.B) {
	inputs := []string{
		"normal value",
		"  padded  ",
		`="00123"`,
		"",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, in := range inputs {
			core.CleanCell(in)
		}
	}
}

// ============================================================================
// Binding Benchmarks
// ============================================================================

func BenchmarkMakeHeaderIndex_Large(b *testing.B) {
	headers := make([]string, 200)
	for i := range headers {
		headers[i] = fmt.Sprintf("  Column %d  ", i)
	}
	row := tabular.NewRow(0, tabular.Texts(headers...)...)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		core.MakeHeaderIndex(row)
	}
}

// ============================================================================
// Import Benchmarks
// ============================================================================

type invoice struct {
	Number string
	Amount float64
	Paid   bool
	Due    time.Time
	Lines  int64
}

var invoices = core.MustSchema("invoices", core.Alloc[invoice],
	core.Text("number", func(v *invoice, s string) { v.Number = s }).Named("Invoice #"),
	core.Float("amount", func(v *invoice, f float64) { v.Amount = f }).Named("Amount"),
	core.Bool("paid", func(v *invoice, p bool) { v.Paid = p }).Named("Paid"),
	core.Date("due", func(v *invoice, t time.Time) { v.Due = t }).Named("Due Date"),
	core.Int("lines", func(v *invoice, n int64) { v.Lines = n }).Named("Lines"),
)

func invoiceBook(rows int) *tabular.Book {
	book := tabular.NewBook()
	sheet := book.AddSheet("invoices", tabular.Texts("Due Date", "Invoice #", "Amount", "Paid", "Lines"))
	for i := 0; i < rows; i++ {
		sheet.Append(tabular.Texts(
			"2024-03-15",
			fmt.Sprintf("INV-%06d", i),
			fmt.Sprintf("$%d,%03d.50", i%100, i%1000),
			"yes",
			"3",
		)...)
	}
	return book
}

func benchmarkImport(b *testing.B, rows int) {
	book := invoiceBook(rows)
	opts := core.DefaultOptions()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		res, err := core.Import(book, invoices, opts)
		if err != nil {
			b.Fatal(err)
		}
		if len(res.Records) != rows {
			b.Fatalf("got %d records, want %d", len(res.Records), rows)
		}
	}
}

func BenchmarkImport_1K(b *testing.B)   { benchmarkImport(b, 1_000) }
func BenchmarkImport_100K(b *testing.B) { benchmarkImport(b, 100_000) }

func BenchmarkImportParallel(b *testing.B) {
	book := invoiceBook(1_000)
	opts := core.DefaultOptions()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := core.Import(book, invoices, opts); err != nil {
				b.Fatal(err)
			}
		}
	})
}
