package dashboard

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/perfdash/internal/domain/models"
	"github.com/mamadbah2/perfdash/internal/mapping"
	"github.com/mamadbah2/perfdash/internal/service/aggregate"
	"github.com/mamadbah2/perfdash/internal/service/campaign"
	"github.com/mamadbah2/perfdash/internal/service/cashflow"
)

// PerformanceQuery filters and orders the performance report.
type PerformanceQuery struct {
	Filter aggregate.Filter
	Sort   aggregate.SortField
	Dir    aggregate.Direction
}

// PerformanceReport is the payload of GET /api/performance.
type PerformanceReport struct {
	Rows         []models.PerformanceRow `json:"rows"`
	Totals       models.Aggregate        `json:"totals"`
	ByNetwork    []models.Aggregate      `json:"byNetwork"`
	ByMediaBuyer []models.Aggregate      `json:"byMediaBuyer"`
	ByOffer      []models.Aggregate      `json:"byOffer"`
	Daily        []models.Aggregate      `json:"daily"`
	Monthly      []models.Aggregate      `json:"monthly"`
}

// Performance filters the performance sheet and rolls it up along every dimension.
// Daily and monthly series are always in chronological order.
func (s *Service) Performance(ctx context.Context, q PerformanceQuery) (PerformanceReport, error) {
	rows, err := s.performance(ctx)
	if err != nil {
		return PerformanceReport{}, err
	}
	return BuildPerformance(rows, q), nil
}

// BuildPerformance is the pure part of Performance.
func BuildPerformance(rows []models.PerformanceRow, q PerformanceQuery) PerformanceReport {
	field := aggregate.ParseSortField(string(q.Sort), aggregate.SortSpend)
	dir := aggregate.ParseDirection(string(q.Dir), aggregate.Desc)

	rows = q.Filter.Apply(rows)
	report := PerformanceReport{
		Rows:         rows,
		Totals:       aggregate.Totals(rows),
		ByNetwork:    aggregate.Group(rows, aggregate.ByNetwork),
		ByMediaBuyer: aggregate.Group(rows, aggregate.ByMediaBuyer),
		ByOffer:      aggregate.Group(rows, aggregate.ByOffer),
		Daily:        aggregate.Group(rows, aggregate.ByDate),
		Monthly:      aggregate.Group(rows, aggregate.ByMonth),
	}
	aggregate.Sort(report.ByNetwork, field, dir)
	aggregate.Sort(report.ByMediaBuyer, field, dir)
	aggregate.Sort(report.ByOffer, field, dir)
	aggregate.Sort(report.Daily, aggregate.SortKey, aggregate.Asc)
	aggregate.Sort(report.Monthly, aggregate.SortKey, aggregate.Asc)
	return report
}

// Campaigns returns network+offer rollups joined with the payment terms sheet.
func (s *Service) Campaigns(ctx context.Context, filter aggregate.Filter) ([]models.CampaignSummary, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	perfRange, termsRange := s.opts.Ranges.Performance, s.opts.Ranges.NetworkTerms

	values, err := s.repo.ReadRanges(ctx, perfRange, termsRange)
	if err != nil {
		s.logger.Error("sheet batch read failed", zap.Error(err))
		return nil, err
	}
	rows, err := decode(s, perfRange, values[perfRange], mapping.Performance)
	if err != nil {
		return nil, err
	}
	terms, err := decode(s, termsRange, values[termsRange], mapping.NetworkTerms)
	if err != nil {
		return nil, err
	}
	return campaign.Enrich(filter.Apply(rows), campaign.NewMatcher(terms)), nil
}

// Financial returns the account list with cash and credit totals.
func (s *Service) Financial(ctx context.Context) (models.BalanceSummary, error) {
	resources, err := s.resources(ctx)
	if err != nil {
		return models.BalanceSummary{}, err
	}
	return cashflow.Balances(resources), nil
}

// Invoices returns invoices by due date; invoices without a usable date come last.
func (s *Service) Invoices(ctx context.Context) ([]models.Invoice, error) {
	invoices, err := s.invoices(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(invoices, func(i, j int) bool {
		a, b := invoices[i].DueDate, invoices[j].DueDate
		if a.IsZero() != b.IsZero() {
			return b.IsZero()
		}
		return a.Before(b.Time)
	})
	return invoices, nil
}

// Payroll returns the scheduled expenses in sheet order.
func (s *Service) Payroll(ctx context.Context) ([]models.PayrollExpense, error) {
	return s.payroll(ctx)
}

// NetworkTermsReport is the payload of GET /api/network-terms.
type NetworkTermsReport struct {
	Terms         []models.NetworkTerm     `json:"terms"`
	Exposure      []models.NetworkExposure `json:"exposure"`
	TotalExposure decimal.Decimal          `json:"totalExposure"`
}

// NetworkTerms returns the terms sheet with the unpaid exposure per network.
func (s *Service) NetworkTerms(ctx context.Context) (NetworkTermsReport, error) {
	terms, err := s.networkTerms(ctx)
	if err != nil {
		return NetworkTermsReport{}, err
	}
	report := NetworkTermsReport{Terms: terms, Exposure: campaign.Exposure(terms, s.Today())}
	for _, e := range report.Exposure {
		report.TotalExposure = report.TotalExposure.Add(e.Exposure)
	}
	return report, nil
}

// ProfitLossReport is the payload of GET /api/profit-loss.
type ProfitLossReport struct {
	Monthly       []models.MonthlySummary `json:"monthly"`
	Income        []models.CategoryTotal  `json:"incomeCategories"`
	Expenses      []models.CategoryTotal  `json:"expenseCategories"`
	TotalIncome   decimal.Decimal         `json:"totalIncome"`
	TotalExpenses decimal.Decimal         `json:"totalExpenses"`
	NetProfit     decimal.Decimal         `json:"netProfit"`
}

// ProfitLoss rolls the transactions ledger up by month and by category.
func (s *Service) ProfitLoss(ctx context.Context) (ProfitLossReport, error) {
	txs, err := s.transactions(ctx)
	if err != nil {
		return ProfitLossReport{}, err
	}

	report := ProfitLossReport{
		Monthly:  aggregate.Monthly(txs),
		Income:   aggregate.Categories(txs, models.KindIncome),
		Expenses: aggregate.Categories(txs, models.KindExpense),
	}
	for _, m := range report.Monthly {
		report.TotalIncome = report.TotalIncome.Add(m.Income)
		report.TotalExpenses = report.TotalExpenses.Add(m.Expenses)
	}
	report.NetProfit = report.TotalIncome.Sub(report.TotalExpenses)
	return report, nil
}
