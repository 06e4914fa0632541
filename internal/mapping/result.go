package mapping

import (
	"fmt"
	"strings"
)

// Issue records a cell that failed to parse. Row is the 1-based sheet row.
type Issue struct {
	Row    int
	Column string
	Err    error
}

func (i Issue) String() string {
	return fmt.Sprintf("row %d %s: %v", i.Row, i.Column, i.Err)
}

// Result carries mapped records plus the cells that were defaulted or rows that were skipped.
type Result[T any] struct {
	Records []T
	Issues  []Issue
	Skipped int
}

func (r *Result[T]) issue(row int, column string, err error) {
	r.Issues = append(r.Issues, Issue{Row: row, Column: column, Err: err})
}

// mapRows binds the header and feeds every non-blank data row to fn.
// fn returns false to drop the row.
func mapRows[T any](schema Schema, values [][]any, fn func(b Binding, row []any, rowNum int, res *Result[T]) (T, bool)) (Result[T], error) {
	var res Result[T]
	if len(values) == 0 {
		return res, nil
	}

	b, err := Bind(schema, values[0])
	if err != nil {
		return res, err
	}

	res.Records = make([]T, 0, len(values)-1)
	for i, row := range values[1:] {
		if blankRow(row) {
			continue
		}
		rec, keep := fn(b, row, i+2, &res)
		if !keep {
			res.Skipped++
			continue
		}
		res.Records = append(res.Records, rec)
	}
	return res, nil
}

func blankRow(row []any) bool {
	for _, v := range row {
		if v != nil && strings.TrimSpace(fmt.Sprint(v)) != "" {
			return false
		}
	}
	return true
}
