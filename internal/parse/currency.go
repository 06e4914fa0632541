package parse

import (
	"strings"

	"github.com/shopspring/decimal"
)

var currencyReplacer = strings.NewReplacer("$", "", ",", "", " ", "", "\u00a0", "")

// Currency parses values such as "$12,345.67", "(250.00)" or 1200.5.
// Blank cells and a lone dash are zero. The result is rounded to cents.
func Currency(v any) (decimal.Decimal, error) {
	switch n := v.(type) {
	case float64:
		return decimal.NewFromFloat(n).Round(2), nil
	case int:
		return decimal.NewFromInt(int64(n)), nil
	case int64:
		return decimal.NewFromInt(n), nil
	case decimal.Decimal:
		return n.Round(2), nil
	}

	raw := text(v)
	if isBlank(raw) {
		return decimal.Zero, nil
	}

	s := currencyReplacer.Replace(raw)
	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &ParseError{Kind: KindCurrency, Input: raw, Err: err}
	}
	if negative {
		d = d.Neg()
	}
	return d.Round(2), nil
}

// Percent parses "12.5%" as 12.5. Blank cells are zero.
func Percent(v any) (float64, error) {
	if f, ok := v.(float64); ok {
		return f, nil
	}
	raw := text(v)
	if isBlank(raw) {
		return 0, nil
	}
	s := strings.TrimSuffix(strings.ReplaceAll(raw, ",", ""), "%")
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, &ParseError{Kind: KindPercent, Input: raw, Err: err}
	}
	return d.InexactFloat64(), nil
}
