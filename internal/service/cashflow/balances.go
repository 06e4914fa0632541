package cashflow

import (
	"github.com/shopspring/decimal"

	"github.com/mamadbah2/perfdash/internal/domain/models"
)

var (
	minimumRate  = decimal.RequireFromString("0.03")
	minimumFloor = decimal.NewFromInt(25)
)

// Balances splits financial resources into cash on hand and credit headroom.
// Cash accounts have no limit; credit lines contribute limit minus owing.
func Balances(resources []models.FinancialResource) models.BalanceSummary {
	summary := models.BalanceSummary{Accounts: resources}
	if summary.Accounts == nil {
		summary.Accounts = []models.FinancialResource{}
	}

	for _, r := range resources {
		if !r.IsCredit() {
			summary.CurrentBalance = summary.CurrentBalance.Add(r.Available)
			continue
		}
		summary.CreditLimit = summary.CreditLimit.Add(r.Limit)
		summary.CreditOwing = summary.CreditOwing.Add(r.Owing)
		summary.CreditAvailable = summary.CreditAvailable.Add(r.Limit.Sub(r.Owing))
	}
	return summary
}

// MinimumPayment is max(owing * 3%, 25), or zero when nothing is owed.
func MinimumPayment(owing decimal.Decimal) decimal.Decimal {
	if !owing.IsPositive() {
		return decimal.Zero
	}
	return decimal.Max(owing.Mul(minimumRate).Round(2), minimumFloor)
}

// CardMinimums returns one projection event per credit line with a balance owing.
func CardMinimums(resources []models.FinancialResource) []models.ProjectionEvent {
	var out []models.ProjectionEvent
	for _, r := range resources {
		if !r.IsCredit() || !r.Owing.IsPositive() {
			continue
		}
		out = append(out, models.ProjectionEvent{
			Kind:   models.EventCardMinimum,
			Label:  r.Account,
			Amount: MinimumPayment(r.Owing),
		})
	}
	return out
}
