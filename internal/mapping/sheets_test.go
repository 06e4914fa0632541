package mapping

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/perfdash/internal/domain/models"
	"github.com/mamadbah2/perfdash/internal/parse"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestPerformanceMapsByHeaderName(t *testing.T) {
	values := [][]any{
		{"Network", "date", "  AD SPEND ", "Total Revenue", "Offer", "Media Buyer"},
		{"A", "3/1/2024", "$100.00", "$150.00", "Keto", "sam"},
		{"B", "3/2/2024", "$1,000", "", "Solar"},
	}

	res, err := Performance(values)
	require.NoError(t, err)
	require.Len(t, res.Records, 2)

	a := res.Records[0]
	assert.Equal(t, "A", a.Network)
	assert.Equal(t, models.DateOf(2024, time.March, 1), a.Date)
	assert.True(t, a.AdSpend.Equal(dec("100")))
	assert.True(t, a.TotalRevenue.Equal(dec("150")))
	assert.True(t, a.Margin.Equal(dec("50")), "margin derived from revenue minus spend")
	assert.Equal(t, "sam", a.MediaBuyer)

	b := res.Records[1]
	assert.True(t, b.TotalRevenue.IsZero())
	assert.True(t, b.Margin.Equal(dec("-1000")))
	assert.Empty(t, b.MediaBuyer, "short row leaves trailing fields zero")
	assert.Empty(t, res.Issues)
}

func TestPerformanceDerivesTotalRevenue(t *testing.T) {
	values := [][]any{
		{"Date", "Network", "Ad Spend", "Ad Revenue", "Comment Revenue", "Margin"},
		{"3/1/2024", "A", "10", "20", "5", "-"},
	}
	res, err := Performance(values)
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.True(t, res.Records[0].TotalRevenue.Equal(dec("25")))
	assert.True(t, res.Records[0].Margin.Equal(dec("15")))
}

func TestPerformanceReadsReportedROI(t *testing.T) {
	values := [][]any{
		{"Date", "Network", "Ad Spend", "ROI %"},
		{"3/1/2024", "A", "10", "42.5%"},
		{"3/2/2024", "A", "10", ""},
		{"3/3/2024", "A", "10", "n/a%"},
	}
	res, err := Performance(values)
	require.NoError(t, err)
	require.Len(t, res.Records, 3)
	assert.InDelta(t, 42.5, res.Records[0].ReportedROI, 1e-9)
	assert.Zero(t, res.Records[1].ReportedROI)
	assert.Zero(t, res.Records[2].ReportedROI)
	require.Len(t, res.Issues, 1)
	assert.Equal(t, "roi", res.Issues[0].Column)
	assert.Equal(t, 4, res.Issues[0].Row)
}

func TestPerformanceSkipsBadDatesAndRecordsIssues(t *testing.T) {
	values := [][]any{
		{"Date", "Network", "Ad Spend"},
		{"garbage", "A", "10"},
		{},
		{"3/3/2024", "A", "ten"},
	}
	res, err := Performance(values)
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, 1, res.Skipped)
	require.Len(t, res.Issues, 2)
	assert.Equal(t, 2, res.Issues[0].Row)
	assert.Equal(t, "date", res.Issues[0].Column)
	assert.Equal(t, 4, res.Issues[1].Row)
	assert.True(t, res.Records[0].AdSpend.IsZero(), "bad money defaults to zero")
}

func TestSchemaMismatch(t *testing.T) {
	_, err := Performance([][]any{{"Day", "Spend"}, {"3/1/2024", "1"}})
	var mismatch *SchemaMismatch
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, []string{"Network"}, mismatch.Missing)
	assert.Contains(t, err.Error(), "performance")
}

func TestEmptySheet(t *testing.T) {
	res, err := Invoices(nil)
	require.NoError(t, err)
	assert.Empty(t, res.Records)

	res, err = Invoices([][]any{{"Network", "Due Date", "Amount Due"}})
	require.NoError(t, err)
	assert.Empty(t, res.Records)
}

func TestInvoicesKeepBadDueDateAsZero(t *testing.T) {
	values := [][]any{
		{"Network", "Period Start", "Period End", "Due Date", "Amount Due", "Invoice Number"},
		{"A", "3/1/2024", "3/15/2024", "not-a-date", "$200", "INV-1"},
		{"B", "", "", "4/1/2024", "$300"},
	}
	res, err := Invoices(values)
	require.NoError(t, err)
	require.Len(t, res.Records, 2)
	assert.True(t, res.Records[0].DueDate.IsZero())
	assert.Equal(t, "INV-1", res.Records[0].InvoiceNumber)
	require.Len(t, res.Issues, 1)

	var perr *parse.ParseError
	assert.True(t, errors.As(res.Issues[0].Err, &perr))
	assert.Equal(t, models.DateOf(2024, time.April, 1), res.Records[1].DueDate)
}

func TestFinancialResources(t *testing.T) {
	values := [][]any{
		{"Account", "Available", "Owing", "Limit"},
		{"Cash in Bank", "$1,000", "", ""},
		{"Chase CC", "0", "$500", "$2,000"},
		{"", "5"},
	}
	res, err := FinancialResources(values)
	require.NoError(t, err)
	require.Len(t, res.Records, 2)
	assert.False(t, res.Records[0].IsCredit())
	assert.True(t, res.Records[1].IsCredit())
	assert.Equal(t, 1, res.Skipped)
}

func TestNetworkTerms(t *testing.T) {
	values := [][]any{
		{"Network", "Offer", "Pay Period", "Net Terms", "Invoice Due", "Running Total", "Daily Cap"},
		{"A", "Keto", "Weekly", "Net 15", "3/20/2024", "$4,200", "Uncapped"},
		{"B", "Solar", "Monthly", "30", "", "$100", "$500"},
	}
	res, err := NetworkTerms(values)
	require.NoError(t, err)
	require.Len(t, res.Records, 2)
	assert.Equal(t, 15, res.Records[0].NetTerms)
	assert.Equal(t, "Uncapped", res.Records[0].DailyCap.Label)
	assert.True(t, res.Records[1].DailyCap.Limited())
	assert.True(t, res.Records[1].InvoiceDue.IsZero())
	assert.Empty(t, res.Issues)
}

func TestTransactions(t *testing.T) {
	values := [][]any{
		{"Date", "Description", "Category", "Amount", "Income/Expense"},
		{"3/1/2024", "Network A", "Revenue", "$1,000", "Income"},
		{"3/2/2024", "Facebook", "Ads", "-$400", "Expense"},
		{"3/3/2024", "Transfer", "Internal", "$50", "Transfer"},
	}
	res, err := Transactions(values)
	require.NoError(t, err)
	require.Len(t, res.Records, 2)
	assert.Equal(t, models.KindExpense, res.Records[1].Kind)
	assert.True(t, res.Records[1].Amount.Equal(dec("400")))
	assert.Equal(t, 1, res.Skipped)
}

func TestMappingIsIdempotent(t *testing.T) {
	values := [][]any{
		{"Date", "Network", "Ad Spend", "Total Revenue"},
		{"3/1/2024", "A", "100", "150"},
		{"3/2/2024", "B", "20", "10"},
	}
	first, err := Performance(values)
	require.NoError(t, err)
	second, err := Performance(values)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
