package dashboard

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/perfdash/internal/domain/models"
	"github.com/mamadbah2/perfdash/internal/service/aggregate"
	"github.com/mamadbah2/perfdash/internal/service/cashflow"
)

// topNetworks is how many networks the daily summary lists.
const topNetworks = 3

// Summary builds the KPI digest for day compared with the day before.
// Performance data is required; a missing balance sheet only adds a warning.
func (s *Service) Summary(ctx context.Context, day models.Date) (models.DailySummary, error) {
	if day.IsZero() {
		day = s.Today().AddDays(-1)
	}

	rows, err := s.performance(ctx)
	if err != nil {
		return models.DailySummary{}, err
	}

	summary := BuildSummary(rows, day)

	resources, err := s.resources(ctx)
	if err != nil {
		s.logger.Warn("summary without balance", zap.Error(err))
		summary.Warnings = append(summary.Warnings, fmt.Sprintf("balance unavailable: %v", err))
	} else {
		summary.CurrentBalance = cashflow.Balances(resources).CurrentBalance
	}
	return summary, nil
}

// BuildSummary compares the rows of day with those of the previous day.
func BuildSummary(rows []models.PerformanceRow, day models.Date) models.DailySummary {
	current := aggregate.Filter{From: day, To: day}.Apply(rows)
	previous := aggregate.Filter{From: day.AddDays(-1), To: day.AddDays(-1)}.Apply(rows)

	totals := aggregate.Totals(current)
	prev := aggregate.Totals(previous)

	summary := models.DailySummary{
		Date:          day,
		Totals:        totals,
		Previous:      prev,
		SpendChange:   aggregate.PercentChange(prev.Spend, totals.Spend),
		RevenueChange: aggregate.PercentChange(prev.Revenue, totals.Revenue),
		MarginChange:  aggregate.PercentChange(prev.Margin, totals.Margin),
		TopNetworks:   aggregate.Top(aggregate.Group(current, aggregate.ByNetwork), aggregate.SortMargin, topNetworks),
	}
	if len(current) == 0 {
		summary.Warnings = append(summary.Warnings, fmt.Sprintf("no performance rows for %s", day.Key()))
	}
	return summary
}
