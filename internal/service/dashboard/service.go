// Package dashboard loads the source sheets, maps them into domain records and
// assembles the reports served by the HTTP API and posted to Slack.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/perfdash/internal/config"
	"github.com/mamadbah2/perfdash/internal/domain/models"
	"github.com/mamadbah2/perfdash/internal/mapping"
	"github.com/mamadbah2/perfdash/internal/repository/sheets"
)

// ErrSourceNotConfigured is returned when the spreadsheet credentials or id are missing.
var ErrSourceNotConfigured = errors.New("google sheets source not configured")

// Options tunes report defaults.
type Options struct {
	Ranges          config.SheetRanges
	ProjectionDays  int
	ExcludeWeekends bool
	Location        *time.Location
	// Missing lists the configuration keys to name when repo is nil.
	Missing []string
}

// Service builds dashboard reports from the spreadsheet.
type Service struct {
	repo   sheets.Repository
	opts   Options
	now    func() time.Time
	logger *zap.Logger
}

// NewService wires the dashboard service. repo may be nil when Sheets is not configured.
func NewService(repo sheets.Repository, opts Options, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &Service{repo: repo, opts: opts, now: time.Now, logger: logger}
}

// Today is the current calendar day in the configured timezone.
func (s *Service) Today() models.Date {
	return models.NewDate(s.now().In(s.opts.Location))
}

func (s *Service) ready() error {
	if s.repo != nil {
		return nil
	}
	if len(s.opts.Missing) == 0 {
		return ErrSourceNotConfigured
	}
	return fmt.Errorf("%w: missing %s", ErrSourceNotConfigured, strings.Join(s.opts.Missing, ", "))
}

// load reads one range and maps it.
func load[T any](ctx context.Context, s *Service, sheetRange string, fn func([][]any) (mapping.Result[T], error)) ([]T, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	values, err := s.repo.ReadRange(ctx, sheetRange)
	if err != nil {
		s.logger.Error("sheet read failed", zap.String("range", sheetRange), zap.Error(err))
		return nil, err
	}
	return decode(s, sheetRange, values, fn)
}

// decode maps raw values, logging every cell issue at debug level.
func decode[T any](s *Service, sheetRange string, values [][]any, fn func([][]any) (mapping.Result[T], error)) ([]T, error) {
	res, err := fn(values)
	if err != nil {
		s.logger.Error("sheet does not match schema", zap.String("range", sheetRange), zap.Error(err))
		return nil, err
	}

	for _, issue := range res.Issues {
		s.logger.Debug("cell defaulted or row skipped",
			zap.String("range", sheetRange),
			zap.Int("row", issue.Row),
			zap.String("column", issue.Column),
			zap.Error(issue.Err))
	}
	if res.Skipped > 0 {
		s.logger.Debug("rows skipped", zap.String("range", sheetRange), zap.Int("count", res.Skipped))
	}
	return res.Records, nil
}

func (s *Service) performance(ctx context.Context) ([]models.PerformanceRow, error) {
	return load(ctx, s, s.opts.Ranges.Performance, mapping.Performance)
}

func (s *Service) resources(ctx context.Context) ([]models.FinancialResource, error) {
	return load(ctx, s, s.opts.Ranges.FinancialResources, mapping.FinancialResources)
}

func (s *Service) invoices(ctx context.Context) ([]models.Invoice, error) {
	return load(ctx, s, s.opts.Ranges.Invoices, mapping.Invoices)
}

func (s *Service) payroll(ctx context.Context) ([]models.PayrollExpense, error) {
	return load(ctx, s, s.opts.Ranges.Payroll, mapping.Payroll)
}

func (s *Service) networkTerms(ctx context.Context) ([]models.NetworkTerm, error) {
	return load(ctx, s, s.opts.Ranges.NetworkTerms, mapping.NetworkTerms)
}

func (s *Service) transactions(ctx context.Context) ([]models.Transaction, error) {
	return load(ctx, s, s.opts.Ranges.Transactions, mapping.Transactions)
}
