package models

import "github.com/shopspring/decimal"

// EventKind classifies a dated inflow or outflow inside a projection day.
type EventKind string

const (
	EventInvoice           EventKind = "invoice"
	EventPayroll           EventKind = "payroll"
	EventCardMinimum       EventKind = "credit_card_minimum"
	EventAverageDailySpend EventKind = "ad_spend"
)

// ProjectionEvent explains one contribution to a projected day.
type ProjectionEvent struct {
	Kind   EventKind       `json:"kind"`
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

// DailyProjection is one day of the forward cash balance.
type DailyProjection struct {
	Date     Date              `json:"date"`
	Inflows  decimal.Decimal   `json:"inflows"`
	Outflows decimal.Decimal   `json:"outflows"`
	Balance  decimal.Decimal   `json:"balance"`
	Details  []ProjectionEvent `json:"details"`
}

// Projection is the full forward cash-flow result.
type Projection struct {
	StartingBalance   decimal.Decimal   `json:"startingBalance"`
	AverageDailySpend decimal.Decimal   `json:"averageDailySpend"`
	Days              []DailyProjection `json:"projections"`
	TotalInflows      decimal.Decimal   `json:"totalInflows"`
	TotalOutflows     decimal.Decimal   `json:"totalOutflows"`
	EndingBalance     decimal.Decimal   `json:"endingBalance"`
	LowestBalance     decimal.Decimal   `json:"lowestBalance"`
	LowestBalanceDate Date              `json:"lowestBalanceDate"`
	// Skipped counts invoices and expenses left out because their due date was unusable.
	Skipped int `json:"skipped"`
}
