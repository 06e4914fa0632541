package cashflow

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/perfdash/internal/domain/models"
	"github.com/mamadbah2/perfdash/internal/mapping"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestBalancesScenario(t *testing.T) {
	res, err := mapping.FinancialResources([][]any{
		{"Account", "Available", "Owing", "Limit"},
		{"Cash in Bank", "1000", "", "0"},
		{"Chase CC", "0", "500", "2000"},
	})
	require.NoError(t, err)

	summary := Balances(res.Records)
	assert.True(t, summary.CurrentBalance.Equal(dec("1000")), summary.CurrentBalance.String())
	assert.True(t, summary.CreditAvailable.Equal(dec("1500")), summary.CreditAvailable.String())
	assert.True(t, summary.CreditOwing.Equal(dec("500")))
	assert.True(t, summary.CreditLimit.Equal(dec("2000")))
	assert.Len(t, summary.Accounts, 2)
}

func TestBalancesEmpty(t *testing.T) {
	summary := Balances(nil)
	assert.True(t, summary.CurrentBalance.IsZero())
	assert.NotNil(t, summary.Accounts)
}

func TestMinimumPayment(t *testing.T) {
	assert.True(t, MinimumPayment(decimal.Zero).IsZero())
	assert.True(t, MinimumPayment(dec("-10")).IsZero())
	assert.True(t, MinimumPayment(dec("500")).Equal(dec("25")))
	assert.True(t, MinimumPayment(dec("2000")).Equal(dec("60")))
	assert.True(t, MinimumPayment(dec("1234.56")).Equal(dec("37.04")))
}

func TestCardMinimums(t *testing.T) {
	events := CardMinimums([]models.FinancialResource{
		{Account: "Cash", Available: dec("100")},
		{Account: "Amex", Owing: dec("1000"), Limit: dec("5000")},
		{Account: "Visa", Limit: dec("1000")},
	})
	require.Len(t, events, 1)
	assert.Equal(t, "Amex", events[0].Label)
	assert.Equal(t, models.EventCardMinimum, events[0].Kind)
	assert.True(t, events[0].Amount.Equal(dec("30")))
}

func TestAverageDailySpend(t *testing.T) {
	asOf := models.DateOf(2024, time.March, 11) // Monday
	rows := []models.PerformanceRow{
		{Date: models.DateOf(2024, time.March, 4), AdSpend: dec("100")},
		{Date: models.DateOf(2024, time.March, 4), AdSpend: dec("50")},
		{Date: models.DateOf(2024, time.March, 8), AdSpend: dec("90")},
		{Date: models.DateOf(2024, time.March, 9), AdSpend: dec("300")},  // Saturday
		{Date: models.DateOf(2024, time.March, 11), AdSpend: dec("999")}, // asOf excluded
		{Date: models.DateOf(2024, time.March, 3), AdSpend: dec("999")},  // outside window
		{AdSpend: dec("999")},
	}

	assert.True(t, AverageDailySpend(rows, asOf, 7, false).Equal(dec("180")))
	assert.True(t, AverageDailySpend(rows, asOf, 7, true).Equal(dec("120")))
	assert.True(t, AverageDailySpend(nil, asOf, 7, true).IsZero())
	assert.True(t, AverageDailySpend(rows, asOf, 0, false).IsZero())
}
