// Package parse converts spreadsheet cell values into typed values.
//
// Every parser reports failures through *ParseError instead of silently
// substituting a value; callers decide whether to default or skip.
package parse

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Kind names the parser that rejected a cell.
type Kind string

const (
	KindCurrency Kind = "currency"
	KindPercent  Kind = "percent"
	KindDate     Kind = "date"
	KindInt      Kind = "int"
)

// ErrBlank is wrapped by ParseError when a required value is empty.
var ErrBlank = errors.New("blank value")

// ParseError describes a cell that could not be converted.
type ParseError struct {
	Kind  Kind
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s %q: %v", e.Kind, e.Input, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// text renders a raw cell as a trimmed string. Sheets returns formatted
// strings by default but numbers show up when a range is read unformatted.
func text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case fmt.Stringer:
		return strings.TrimSpace(t.String())
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

func isBlank(s string) bool {
	switch s {
	case "", "-", "—", "–":
		return true
	}
	return false
}
