// Package store persists imported records to PostgreSQL.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/JonMunkholm/sheetmap/internal/logging"
	"github.com/JonMunkholm/sheetmap/internal/schema"
)

// Copier is the subset of *pgxpool.Pool, *pgx.Conn and pgx.Tx the sink uses.
type Copier interface {
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// Sink writes records with the COPY protocol.
type Sink struct {
	db Copier
}

// NewSink creates a sink over db.
func NewSink(db Copier) *Sink {
	return &Sink{db: db}
}

// Write copies records into the definition's table. Columns are the field
// names in snake case, in declaration order. Returns the number of rows
// copied.
func (s *Sink) Write(ctx context.Context, def schema.Definition, records []schema.Record) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}

	fields := def.FieldNames()
	columns := make([]string, len(fields))
	for i, f := range fields {
		columns[i] = ColumnName(f)
	}

	table := Identifier(def.TableName())
	start := time.Now()

	n, err := s.db.CopyFrom(ctx, table, columns, pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
		return RowValues(fields, records[i]), nil
	}))
	if err != nil {
		return n, fmt.Errorf("copy into %s: %w", table.Sanitize(), err)
	}

	logging.FromContext(ctx).Info("records copied",
		slog.String("table", table.Sanitize()),
		slog.Int64("rows", n),
		slog.Duration("duration", time.Since(start)),
	)
	return n, nil
}

// RowValues returns the COPY values of one record in field order.
func RowValues(fields []string, rec schema.Record) []any {
	values := make([]any, len(fields))
	for i, f := range fields {
		values[i] = dbValue(rec[f])
	}
	return values
}

func dbValue(v any) any {
	switch x := v.(type) {
	case time.Time:
		return pgtype.Date{Time: x, Valid: true}
	default:
		return x
	}
}

// Identifier splits a possibly schema-qualified table name.
func Identifier(table string) pgx.Identifier {
	return pgx.Identifier(strings.Split(table, "."))
}

// ColumnName converts a field name to a snake case column name:
// "Customer ID" and "customerID" both become "customer_id".
func ColumnName(field string) string {
	var b strings.Builder
	runes := []rune(strings.TrimSpace(field))
	pendingSep := false

	for i, r := range runes {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if unicode.IsUpper(r) && i > 0 && b.Len() > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					pendingSep = true
				}
			}
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(unicode.ToLower(r))
		default:
			pendingSep = true
		}
	}
	return b.String()
}
