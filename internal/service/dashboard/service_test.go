package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/perfdash/internal/config"
	"github.com/mamadbah2/perfdash/internal/domain/models"
	"github.com/mamadbah2/perfdash/internal/mapping"
	"github.com/mamadbah2/perfdash/internal/service/aggregate"
)

type fakeSheets struct {
	values map[string][][]any
	errs   map[string]error
}

func (f *fakeSheets) ReadRange(_ context.Context, rng string) ([][]interface{}, error) {
	if err := f.errs[rng]; err != nil {
		return nil, err
	}
	return f.values[rng], nil
}

func (f *fakeSheets) ReadRanges(ctx context.Context, rngs ...string) (map[string][][]interface{}, error) {
	out := map[string][][]interface{}{}
	for _, r := range rngs {
		v, err := f.ReadRange(ctx, r)
		if err != nil {
			return nil, err
		}
		out[r] = v
	}
	return out, nil
}

var ranges = config.SheetRanges{
	Performance:        "perf",
	FinancialResources: "fin",
	Invoices:           "inv",
	Payroll:            "pay",
	NetworkTerms:       "terms",
	Transactions:       "tx",
}

// Friday 2024-03-08.
var fixedNow = time.Date(2024, time.March, 8, 15, 0, 0, 0, time.UTC)

func fixture() *fakeSheets {
	return &fakeSheets{
		values: map[string][][]any{
			"perf": {
				{"Date", "Network", "Offer", "Media Buyer", "Ad Spend", "Total Revenue"},
				{"3/6/2024", "A", "Keto", "Sam", "$100", "$150"},
				{"3/7/2024", "A", "Keto", "Sam", "$200", "$260"},
				{"3/7/2024", "B", "Solar", "Lee", "$50", "$40"},
				{"bad date", "B", "Solar", "Lee", "$5", "$5"},
			},
			"fin": {
				{"Account", "Available", "Owing", "Limit"},
				{"Cash in Bank", "$1,000", "", ""},
				{"Chase CC", "0", "$500", "$2,000"},
			},
			"inv": {
				{"Network", "Due Date", "Amount Due"},
				{"A", "3/11/2024", "$200"},
				{"B", "not-a-date", "$999"},
				{"C", "3/9/2024", "$10"},
			},
			"pay": {
				{"Type", "Description", "Amount", "Due Date"},
				{"Salary", "Jo", "$300", "3/10/2024"},
			},
			"terms": {
				{"Network", "Offer", "Pay Period", "Net Terms", "Invoice Due", "Running Total", "Daily Cap"},
				{"A", "Keto", "Weekly", "Net 15", "3/20/2024", "$4,200", "$100"},
				{"B", "", "Monthly", "30", "", "$100", "Uncapped"},
			},
			"tx": {
				{"Date", "Description", "Category", "Amount", "Type"},
				{"3/1/2024", "Payout", "Network", "$1,000", "Income"},
				{"3/2/2024", "Ads", "Media", "$400", "Expense"},
			},
		},
		errs: map[string]error{},
	}
}

func newTestService(repo *fakeSheets) *Service {
	svc := NewService(repo, Options{Ranges: ranges, ProjectionDays: 7, ExcludeWeekends: true}, nil)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestPerformanceReport(t *testing.T) {
	svc := newTestService(fixture())

	report, err := svc.Performance(context.Background(), PerformanceQuery{Sort: aggregate.SortMargin, Dir: aggregate.Desc})
	require.NoError(t, err)

	assert.Len(t, report.Rows, 3)
	assert.True(t, report.Totals.Spend.Equal(dec("350")))
	require.Len(t, report.ByNetwork, 2)
	assert.Equal(t, "A", report.ByNetwork[0].Key)
	assert.True(t, report.ByNetwork[0].Margin.Equal(dec("110")))
	assert.Equal(t, []string{"2024-03-06", "2024-03-07"}, []string{report.Daily[0].Key, report.Daily[1].Key})
	assert.Equal(t, "2024-03", report.Monthly[0].Key)
}

func TestPerformanceFiltered(t *testing.T) {
	svc := newTestService(fixture())
	report, err := svc.Performance(context.Background(), PerformanceQuery{
		Filter: aggregate.Filter{MediaBuyers: []string{"lee"}},
	})
	require.NoError(t, err)
	require.Len(t, report.Rows, 1)
	assert.Equal(t, -20.0, report.Totals.ROI)
}

func TestNotConfigured(t *testing.T) {
	svc := NewService(nil, Options{Missing: []string{"GOOGLE_SHEET_ID"}}, nil)

	_, err := svc.Performance(context.Background(), PerformanceQuery{})
	assert.ErrorIs(t, err, ErrSourceNotConfigured)
	assert.Contains(t, err.Error(), "GOOGLE_SHEET_ID")

	_, err = svc.CashFlow(context.Background(), CashFlowQuery{})
	assert.ErrorIs(t, err, ErrSourceNotConfigured)
}

func TestSchemaMismatchSurfaces(t *testing.T) {
	repo := fixture()
	repo.values["perf"] = [][]any{{"When", "Network", "Ad Spend"}}

	_, err := newTestService(repo).Performance(context.Background(), PerformanceQuery{})
	var mismatch *mapping.SchemaMismatch
	require.True(t, errors.As(err, &mismatch))
	assert.Contains(t, mismatch.Missing, "Date")
}

func TestCampaigns(t *testing.T) {
	got, err := newTestService(fixture()).Campaigns(context.Background(), aggregate.Filter{})
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.True(t, got[0].Matched)
	assert.Equal(t, 15, got[0].NetTerms)
	assert.True(t, got[0].OverCap)
	assert.True(t, got[1].Matched, "network level terms apply to any offer")
	assert.False(t, got[1].OverCap)
}

func TestFinancialAndInvoices(t *testing.T) {
	svc := newTestService(fixture())

	fin, err := svc.Financial(context.Background())
	require.NoError(t, err)
	assert.True(t, fin.CurrentBalance.Equal(dec("1000")))
	assert.True(t, fin.CreditAvailable.Equal(dec("1500")))

	invoices, err := svc.Invoices(context.Background())
	require.NoError(t, err)
	require.Len(t, invoices, 3)
	assert.Equal(t, []string{"C", "A", "B"}, []string{invoices[0].Network, invoices[1].Network, invoices[2].Network})
}

func TestNetworkTermsAndProfitLoss(t *testing.T) {
	svc := newTestService(fixture())

	terms, err := svc.NetworkTerms(context.Background())
	require.NoError(t, err)
	assert.Len(t, terms.Terms, 2)
	assert.True(t, terms.TotalExposure.Equal(dec("4300")))

	pl, err := svc.ProfitLoss(context.Background())
	require.NoError(t, err)
	assert.True(t, pl.NetProfit.Equal(dec("600")))
	require.Len(t, pl.Expenses, 1)
	assert.Equal(t, "Media", pl.Expenses[0].Category)
}

func TestCashFlow(t *testing.T) {
	svc := newTestService(fixture())

	report, err := svc.CashFlow(context.Background(), CashFlowQuery{})
	require.NoError(t, err)

	require.Len(t, report.Days, 7)
	assert.Equal(t, models.DateOf(2024, time.March, 8), report.Days[0].Date)
	assert.True(t, report.StartingBalance.Equal(dec("1000")))
	// 3/6 and 3/7 are weekdays: (100 + 250) / 2.
	assert.True(t, report.AverageDailySpend.Equal(dec("175")))
	assert.True(t, report.Days[0].Outflows.Equal(dec("200")), report.Days[0].Outflows.String())
	assert.True(t, report.Days[1].Inflows.Equal(dec("10")))
	assert.True(t, report.Days[3].Inflows.Equal(dec("200")))
	assert.Equal(t, 1, report.Skipped)
	assert.Len(t, report.Warnings, 1)
}

func TestCashFlowDegradesPerSource(t *testing.T) {
	repo := fixture()
	repo.errs["pay"] = errors.New("quota exceeded")
	repo.values["inv"] = [][]any{{"Wrong"}}

	report, err := newTestService(repo).CashFlow(context.Background(), CashFlowQuery{Days: 3})
	require.NoError(t, err)
	require.Len(t, report.Days, 3)
	assert.True(t, report.TotalInflows.IsZero())

	joined := ""
	for _, w := range report.Warnings {
		joined += w + "\n"
	}
	assert.Contains(t, joined, "payroll unavailable: quota exceeded")
	assert.Contains(t, joined, "invoices unavailable")
}

func TestCashFlowCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	repo := fixture()
	repo.errs["perf"] = context.Canceled

	_, err := newTestService(repo).CashFlow(ctx, CashFlowQuery{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSummary(t *testing.T) {
	svc := newTestService(fixture())

	summary, err := svc.Summary(context.Background(), models.Date{})
	require.NoError(t, err)

	assert.Equal(t, models.DateOf(2024, time.March, 7), summary.Date)
	assert.True(t, summary.Totals.Spend.Equal(dec("250")))
	assert.True(t, summary.Previous.Spend.Equal(dec("100")))
	assert.Equal(t, 150.0, summary.SpendChange)
	require.Len(t, summary.TopNetworks, 2)
	assert.Equal(t, "A", summary.TopNetworks[0].Key)
	assert.True(t, summary.CurrentBalance.Equal(dec("1000")))
	assert.Empty(t, summary.Warnings)
}

func TestSummaryWithoutBalance(t *testing.T) {
	repo := fixture()
	repo.errs["fin"] = errors.New("forbidden")

	summary, err := newTestService(repo).Summary(context.Background(), models.DateOf(2024, time.March, 1))
	require.NoError(t, err)
	assert.Len(t, summary.Warnings, 2)
}
