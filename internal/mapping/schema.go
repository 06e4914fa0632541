// Package mapping turns raw sheet value ranges into typed domain records.
//
// Columns are located by header name, never by position, and a sheet whose
// header row lacks a required column is rejected with *SchemaMismatch.
package mapping

import (
	"fmt"
	"strings"
)

// Column declares one field of a sheet schema and the header spellings it accepts.
type Column struct {
	Field    string
	Headers  []string
	Required bool
}

// Schema is the expected shape of one sheet.
type Schema struct {
	Sheet   string
	Columns []Column
}

// SchemaMismatch reports required columns missing from a sheet's header row.
type SchemaMismatch struct {
	Sheet   string
	Missing []string
	Headers []string
}

func (e *SchemaMismatch) Error() string {
	return fmt.Sprintf("sheet %s: missing required columns %s; got headers=%v", e.Sheet, strings.Join(e.Missing, ","), e.Headers)
}

// Binding maps schema fields to column indexes of a concrete header row.
type Binding struct {
	sheet   string
	indexes map[string]int
}

// Bind resolves every schema column against the header row.
func Bind(schema Schema, header []any) (Binding, error) {
	headers := make([]string, len(header))
	for i, h := range header {
		headers[i] = fmt.Sprint(h)
	}

	b := Binding{sheet: schema.Sheet, indexes: make(map[string]int, len(schema.Columns))}
	var missing []string
	for _, col := range schema.Columns {
		idx := indexOf(headers, col.Headers)
		if idx == -1 {
			if col.Required {
				missing = append(missing, col.Headers[0])
			}
			continue
		}
		b.indexes[col.Field] = idx
	}

	if len(missing) > 0 {
		return Binding{}, &SchemaMismatch{Sheet: schema.Sheet, Missing: missing, Headers: headers}
	}
	return b, nil
}

// Cell returns the value for field in row, or nil when the row is short or the column is absent.
func (b Binding) Cell(row []any, field string) any {
	idx, ok := b.indexes[field]
	if !ok || idx >= len(row) {
		return nil
	}
	return row[idx]
}

// Text returns the trimmed string value of a cell.
func (b Binding) Text(row []any, field string) string {
	v := b.Cell(row, field)
	if v == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

// Has reports whether field was bound to a column.
func (b Binding) Has(field string) bool {
	_, ok := b.indexes[field]
	return ok
}

func indexOf(headers []string, names []string) int {
	for _, name := range names {
		want := normalizeHeader(name)
		for i, h := range headers {
			if normalizeHeader(h) == want {
				return i
			}
		}
	}
	return -1
}

func normalizeHeader(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
