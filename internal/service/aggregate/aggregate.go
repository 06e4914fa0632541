package aggregate

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/perfdash/internal/domain/models"
)

// KeyFunc extracts the grouping key from a performance row.
type KeyFunc func(models.PerformanceRow) string

var (
	ByNetwork    KeyFunc = func(r models.PerformanceRow) string { return Label(r.Network) }
	ByOffer      KeyFunc = func(r models.PerformanceRow) string { return Label(r.Offer) }
	ByMediaBuyer KeyFunc = func(r models.PerformanceRow) string { return Label(r.MediaBuyer) }
	ByDate       KeyFunc = func(r models.PerformanceRow) string { return r.Date.Key() }
	ByMonth      KeyFunc = func(r models.PerformanceRow) string { return r.Date.Month() }
	// ByNetworkOffer joins network and offer with a NUL byte, which sheet labels never contain.
	ByNetworkOffer KeyFunc = func(r models.PerformanceRow) string {
		return Label(r.Network) + "\x00" + Label(r.Offer)
	}
)

const unassigned = "Unassigned"

// Label trims s and substitutes "Unassigned" for blanks.
func Label(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return unassigned
	}
	return s
}

var hundred = decimal.NewFromInt(100)

// ROI is (revenue/spend - 1) * 100 rounded to two decimals, and 0 when spend is not positive.
func ROI(spend, revenue decimal.Decimal) float64 {
	if !spend.IsPositive() {
		return 0
	}
	return revenue.DivRound(spend, 8).Sub(decimal.NewFromInt(1)).Mul(hundred).Round(2).InexactFloat64()
}

// Group produces one aggregate per distinct key, in the order keys are first seen.
func Group(rows []models.PerformanceRow, key KeyFunc) []models.Aggregate {
	index := make(map[string]int)
	out := make([]models.Aggregate, 0)

	for _, r := range rows {
		k := key(r)
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, models.Aggregate{Key: k})
		}
		add(&out[i], r)
	}

	for i := range out {
		out[i].ROI = ROI(out[i].Spend, out[i].Revenue)
	}
	return out
}

// Totals rolls every row into a single aggregate.
func Totals(rows []models.PerformanceRow) models.Aggregate {
	agg := models.Aggregate{Key: "total"}
	for _, r := range rows {
		add(&agg, r)
	}
	agg.ROI = ROI(agg.Spend, agg.Revenue)
	return agg
}

func add(agg *models.Aggregate, r models.PerformanceRow) {
	agg.Spend = agg.Spend.Add(r.AdSpend)
	agg.Revenue = agg.Revenue.Add(r.TotalRevenue)
	agg.Margin = agg.Margin.Add(r.Margin)
	agg.Rows++
}

// PercentChange is the relative move from prev to cur in percent, 0 when prev is zero.
func PercentChange(prev, cur decimal.Decimal) float64 {
	if prev.IsZero() {
		return 0
	}
	return cur.Sub(prev).DivRound(prev.Abs(), 8).Mul(hundred).Round(2).InexactFloat64()
}

// Top returns the first n aggregates after sorting a copy by field descending.
func Top(aggs []models.Aggregate, field SortField, n int) []models.Aggregate {
	cp := append([]models.Aggregate(nil), aggs...)
	Sort(cp, field, Desc)
	if n >= 0 && len(cp) > n {
		cp = cp[:n]
	}
	return cp
}

// SortField selects the aggregate column to order by.
type SortField string

const (
	SortSpend   SortField = "spend"
	SortRevenue SortField = "revenue"
	SortMargin  SortField = "margin"
	SortROI     SortField = "roi"
	SortKey     SortField = "key"
)

// Direction is ascending or descending.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseSortField accepts a query string value, falling back to def.
func ParseSortField(s string, def SortField) SortField {
	switch f := SortField(strings.ToLower(strings.TrimSpace(s))); f {
	case SortSpend, SortRevenue, SortMargin, SortROI, SortKey:
		return f
	}
	return def
}

// ParseDirection accepts "asc"/"desc", falling back to def.
func ParseDirection(s string, def Direction) Direction {
	switch d := Direction(strings.ToLower(strings.TrimSpace(s))); d {
	case Asc, Desc:
		return d
	}
	return def
}

// Sort orders aggregates in place. Ties keep their existing order.
func Sort(aggs []models.Aggregate, field SortField, dir Direction) {
	cmp := compareBy(field)
	sort.SliceStable(aggs, func(i, j int) bool {
		c := cmp(aggs[i], aggs[j])
		if dir == Desc {
			return c > 0
		}
		return c < 0
	})
}

func compareBy(field SortField) func(a, b models.Aggregate) int {
	switch field {
	case SortRevenue:
		return func(a, b models.Aggregate) int { return a.Revenue.Cmp(b.Revenue) }
	case SortMargin:
		return func(a, b models.Aggregate) int { return a.Margin.Cmp(b.Margin) }
	case SortROI:
		return func(a, b models.Aggregate) int {
			switch {
			case a.ROI < b.ROI:
				return -1
			case a.ROI > b.ROI:
				return 1
			}
			return 0
		}
	case SortKey:
		return func(a, b models.Aggregate) int { return strings.Compare(a.Key, b.Key) }
	default:
		return func(a, b models.Aggregate) int { return a.Spend.Cmp(b.Spend) }
	}
}
