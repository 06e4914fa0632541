package parse

import (
	"errors"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/mamadbah2/perfdash/internal/domain/models"
)

var dateLayouts = []string{
	"1/2/2006",
	"01/02/2006",
	"2006-01-02",
	"1/2/06",
	"Jan 2, 2006",
	"January 2, 2006",
	"2-Jan-2006",
}

var errUnknownLayout = errors.New("no matching date layout")

// Date parses a calendar date using an explicit list of layouts (M/d/yyyy first).
// It never falls back to the current date.
func Date(v any) (models.Date, error) {
	raw := text(v)
	if isBlank(raw) {
		return models.Date{}, &ParseError{Kind: KindDate, Input: raw, Err: ErrBlank}
	}

	s := raw
	// Sheets datetime cells come through as "3/14/2024 0:00:00".
	if i := strings.IndexByte(s, ' '); i > 0 && strings.Contains(s[i:], ":") {
		s = s[:i]
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return models.NewDate(t), nil
		}
	}
	return models.Date{}, &ParseError{Kind: KindDate, Input: raw, Err: errUnknownLayout}
}

// Int parses the first run of digits in a cell, so "Net 30" and "30 days" are both 30.
func Int(v any) (int, error) {
	raw := text(v)
	if isBlank(raw) {
		return 0, nil
	}
	digits := strings.FieldsFunc(raw, func(r rune) bool { return !unicode.IsDigit(r) })
	if len(digits) == 0 {
		return 0, &ParseError{Kind: KindInt, Input: raw, Err: strconv.ErrSyntax}
	}
	n, err := strconv.Atoi(digits[0])
	if err != nil {
		return 0, &ParseError{Kind: KindInt, Input: raw, Err: err}
	}
	return n, nil
}
