package dashboard

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mamadbah2/perfdash/internal/domain/models"
	"github.com/mamadbah2/perfdash/internal/service/cashflow"
)

// CashFlowQuery overrides the configured projection defaults. Zero values keep them.
type CashFlowQuery struct {
	Days            int
	ExcludeWeekends *bool
}

// CashFlowReport is the payload of GET /api/cash-flow.
type CashFlowReport struct {
	models.Projection
	Balances        models.BalanceSummary `json:"balances"`
	ExcludeWeekends bool                  `json:"excludeWeekends"`
	Warnings        []string              `json:"warnings"`
}

// CashFlow reads the four source sheets concurrently and projects the balance
// forward from today. A source that fails to load is reported in Warnings and
// treated as empty.
func (s *Service) CashFlow(ctx context.Context, q CashFlowQuery) (CashFlowReport, error) {
	if err := s.ready(); err != nil {
		return CashFlowReport{}, err
	}

	days := q.Days
	if days <= 0 {
		days = s.opts.ProjectionDays
	}
	excludeWeekends := s.opts.ExcludeWeekends
	if q.ExcludeWeekends != nil {
		excludeWeekends = *q.ExcludeWeekends
	}

	var (
		resources []models.FinancialResource
		invoices  []models.Invoice
		payroll   []models.PayrollExpense
		rows      []models.PerformanceRow
		mu        sync.Mutex
		warnings  = []string{}
	)

	g, gctx := errgroup.WithContext(ctx)
	fetch := func(source string, fn func(context.Context) error) {
		g.Go(func() error {
			err := fn(gctx)
			if err == nil {
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.logger.Warn("cash flow source unavailable, using empty data", zap.String("source", source), zap.Error(err))
			mu.Lock()
			warnings = append(warnings, fmt.Sprintf("%s unavailable: %v", source, err))
			mu.Unlock()
			return nil
		})
	}

	fetch("financial resources", func(ctx context.Context) (err error) {
		resources, err = s.resources(ctx)
		return err
	})
	fetch("invoices", func(ctx context.Context) (err error) {
		invoices, err = s.invoices(ctx)
		return err
	})
	fetch("payroll", func(ctx context.Context) (err error) {
		payroll, err = s.payroll(ctx)
		return err
	})
	fetch("performance", func(ctx context.Context) (err error) {
		rows, err = s.performance(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return CashFlowReport{}, err
	}

	today := s.Today()
	balances := cashflow.Balances(resources)
	projection := cashflow.Project(cashflow.Input{
		Start:             today,
		Days:              days,
		StartingBalance:   balances.CurrentBalance,
		AverageDailySpend: cashflow.AverageDailySpend(rows, today, cashflow.DefaultSpendWindow, excludeWeekends),
		Invoices:          invoices,
		Payroll:           payroll,
		Cards:             resources,
	})
	if projection.Skipped > 0 {
		warnings = append(warnings, fmt.Sprintf("%d invoices or expenses skipped for missing due dates", projection.Skipped))
	}

	return CashFlowReport{
		Projection:      projection,
		Balances:        balances,
		ExcludeWeekends: excludeWeekends,
		Warnings:        warnings,
	}, nil
}
