package cashflow

import (
	"github.com/shopspring/decimal"

	"github.com/mamadbah2/perfdash/internal/domain/models"
)

// DefaultSpendWindow is the trailing number of days averaged for the daily spend baseline.
const DefaultSpendWindow = 7

// AverageDailySpend averages ad spend over the window days before asOf.
// asOf itself is excluded. Only days that carry at least one row count
// toward the divisor; with no eligible data the result is zero.
func AverageDailySpend(rows []models.PerformanceRow, asOf models.Date, window int, excludeWeekends bool) decimal.Decimal {
	if window <= 0 || asOf.IsZero() {
		return decimal.Zero
	}
	from := asOf.AddDays(-window)

	perDay := map[string]decimal.Decimal{}
	for _, r := range rows {
		if r.Date.IsZero() || r.Date.Before(from.Time) || !r.Date.Before(asOf.Time) {
			continue
		}
		if excludeWeekends && r.Date.Weekend() {
			continue
		}
		k := r.Date.Key()
		perDay[k] = perDay[k].Add(r.AdSpend)
	}
	if len(perDay) == 0 {
		return decimal.Zero
	}

	total := decimal.Zero
	for _, v := range perDay {
		total = total.Add(v)
	}
	return total.DivRound(decimal.NewFromInt(int64(len(perDay))), 2)
}
