package aggregate

import (
	"strings"

	"github.com/mamadbah2/perfdash/internal/domain/models"
)

// Filter narrows performance rows by date range and label sets. Empty fields match everything.
type Filter struct {
	From        models.Date
	To          models.Date
	Networks    []string
	MediaBuyers []string
	Offers      []string
}

// Apply returns the rows that satisfy every set criterion, preserving order.
func (f Filter) Apply(rows []models.PerformanceRow) []models.PerformanceRow {
	networks := set(f.Networks)
	buyers := set(f.MediaBuyers)
	offers := set(f.Offers)

	out := make([]models.PerformanceRow, 0, len(rows))
	for _, r := range rows {
		if !f.From.IsZero() && r.Date.Before(f.From.Time) {
			continue
		}
		if !f.To.IsZero() && r.Date.After(f.To.Time) {
			continue
		}
		if !matches(networks, r.Network) || !matches(buyers, r.MediaBuyer) || !matches(offers, r.Offer) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func set(values []string) map[string]struct{} {
	out := map[string]struct{}{}
	for _, v := range values {
		if v = norm(v); v != "" {
			out[v] = struct{}{}
		}
	}
	return out
}

func matches(s map[string]struct{}, v string) bool {
	if len(s) == 0 {
		return true
	}
	_, ok := s[norm(v)]
	return ok
}

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
