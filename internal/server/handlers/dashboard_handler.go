package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/perfdash/internal/domain/models"
	"github.com/mamadbah2/perfdash/internal/service/aggregate"
	"github.com/mamadbah2/perfdash/internal/service/dashboard"
)

const maxProjectionDays = 365

// DashboardService serves the spreadsheet backed reports.
type DashboardService interface {
	Performance(ctx context.Context, q dashboard.PerformanceQuery) (dashboard.PerformanceReport, error)
	Campaigns(ctx context.Context, filter aggregate.Filter) ([]models.CampaignSummary, error)
	Financial(ctx context.Context) (models.BalanceSummary, error)
	Invoices(ctx context.Context) ([]models.Invoice, error)
	Payroll(ctx context.Context) ([]models.PayrollExpense, error)
	NetworkTerms(ctx context.Context) (dashboard.NetworkTermsReport, error)
	ProfitLoss(ctx context.Context) (dashboard.ProfitLossReport, error)
	CashFlow(ctx context.Context, q dashboard.CashFlowQuery) (dashboard.CashFlowReport, error)
	Summary(ctx context.Context, day models.Date) (models.DailySummary, error)
}

// DashboardHandler exposes the read-only reporting endpoints.
type DashboardHandler struct {
	svc    DashboardService
	logger *zap.Logger
}

// NewDashboardHandler constructs the HTTP handler adapter.
func NewDashboardHandler(svc DashboardService, logger *zap.Logger) *DashboardHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardHandler{svc: svc, logger: logger}
}

// Performance serves GET /api/performance.
func (h *DashboardHandler) Performance(c *gin.Context) {
	filter, err := filterFromQuery(c)
	if err != nil {
		respondError(c, statusFor(err), "invalid filter", err)
		return
	}

	report, err := h.svc.Performance(c.Request.Context(), dashboard.PerformanceQuery{
		Filter: filter,
		Sort:   aggregate.SortField(c.Query("sort")),
		Dir:    aggregate.Direction(c.Query("dir")),
	})
	h.reply(c, "failed to fetch performance data", report, err)
}

// Campaigns serves GET /api/campaigns.
func (h *DashboardHandler) Campaigns(c *gin.Context) {
	filter, err := filterFromQuery(c)
	if err != nil {
		respondError(c, statusFor(err), "invalid filter", err)
		return
	}

	campaigns, err := h.svc.Campaigns(c.Request.Context(), filter)
	h.reply(c, "failed to fetch campaigns", campaigns, err)
}

// Financial serves GET /api/financial.
func (h *DashboardHandler) Financial(c *gin.Context) {
	summary, err := h.svc.Financial(c.Request.Context())
	h.reply(c, "failed to fetch financial resources", summary, err)
}

// Invoices serves GET /api/invoices.
func (h *DashboardHandler) Invoices(c *gin.Context) {
	invoices, err := h.svc.Invoices(c.Request.Context())
	h.reply(c, "failed to fetch invoices", invoices, err)
}

// Payroll serves GET /api/payroll.
func (h *DashboardHandler) Payroll(c *gin.Context) {
	payroll, err := h.svc.Payroll(c.Request.Context())
	h.reply(c, "failed to fetch payroll", payroll, err)
}

// NetworkTerms serves GET /api/network-terms.
func (h *DashboardHandler) NetworkTerms(c *gin.Context) {
	terms, err := h.svc.NetworkTerms(c.Request.Context())
	h.reply(c, "failed to fetch network terms", terms, err)
}

// ProfitLoss serves GET /api/profit-loss.
func (h *DashboardHandler) ProfitLoss(c *gin.Context) {
	report, err := h.svc.ProfitLoss(c.Request.Context())
	h.reply(c, "failed to fetch profit and loss", report, err)
}

// CashFlow serves GET /api/cash-flow?days=14&exclude_weekends=true.
func (h *DashboardHandler) CashFlow(c *gin.Context) {
	q, err := cashFlowQuery(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid cash flow query", err)
		return
	}

	report, err := h.svc.CashFlow(c.Request.Context(), q)
	if err == nil && len(report.Warnings) > 0 {
		h.logger.Warn("cash flow served with partial data", zap.Strings("warnings", report.Warnings))
	}
	h.reply(c, "failed to project cash flow", report, err)
}

// Summary serves GET /api/summary?date=YYYY-MM-DD (yesterday by default).
func (h *DashboardHandler) Summary(c *gin.Context) {
	day, err := dateParam(c, "date")
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid date", err)
		return
	}

	summary, err := h.svc.Summary(c.Request.Context(), day)
	h.reply(c, "failed to build summary", summary, err)
}

func (h *DashboardHandler) reply(c *gin.Context, message string, data any, err error) {
	if err != nil {
		h.logger.Error(message, zap.String("path", c.FullPath()), zap.Error(err))
		respondError(c, statusFor(err), message, err)
		return
	}
	respondOK(c, http.StatusOK, data)
}

func cashFlowQuery(c *gin.Context) (dashboard.CashFlowQuery, error) {
	var q dashboard.CashFlowQuery

	if raw := strings.TrimSpace(c.Query("days")); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil || days < 1 || days > maxProjectionDays {
			return q, fmt.Errorf("%w days: %q must be between 1 and %d", errInvalidQuery, raw, maxProjectionDays)
		}
		q.Days = days
	}

	if raw := strings.TrimSpace(c.Query("exclude_weekends")); raw != "" {
		exclude, err := strconv.ParseBool(raw)
		if err != nil {
			return q, fmt.Errorf("%w exclude_weekends: %w", errInvalidQuery, err)
		}
		q.ExcludeWeekends = &exclude
	}
	return q, nil
}
