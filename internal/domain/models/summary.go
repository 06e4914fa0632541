package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailySummary is the KPI digest posted to Slack and served at /api/summary.
type DailySummary struct {
	Date           Date            `json:"date"`
	Totals         Aggregate       `json:"totals"`
	Previous       Aggregate       `json:"previous"`
	SpendChange    float64         `json:"spendChange"`
	RevenueChange  float64         `json:"revenueChange"`
	MarginChange   float64         `json:"marginChange"`
	TopNetworks    []Aggregate     `json:"topNetworks"`
	CurrentBalance decimal.Decimal `json:"currentBalance"`
	Warnings       []string        `json:"warnings,omitempty"`
}

// SummarySnapshot archives a summary that was posted to Slack.
type SummarySnapshot struct {
	Summary   DailySummary `json:"summary"`
	Channel   string       `json:"channel"`
	Message   string       `json:"message"`
	CreatedAt time.Time    `json:"created_at"`
}
