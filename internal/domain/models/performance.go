package models

import "github.com/shopspring/decimal"

// PerformanceRow is one day of one offer on one network, as entered by a media buyer.
type PerformanceRow struct {
	Date            Date            `json:"date"`
	Network         string          `json:"network"`
	Offer           string          `json:"offer"`
	MediaBuyer      string          `json:"mediaBuyer"`
	AdSpend         decimal.Decimal `json:"adSpend"`
	AdRevenue       decimal.Decimal `json:"adRevenue"`
	CommentRevenue  decimal.Decimal `json:"commentRevenue"`
	TotalRevenue    decimal.Decimal `json:"totalRevenue"`
	Margin          decimal.Decimal `json:"margin"`
	ExpectedPayment decimal.Decimal `json:"expectedPayment"`
	RunningBalance  decimal.Decimal `json:"runningBalance"`
	// ReportedROI is the ROI % column as entered in the sheet, 0 when blank.
	ReportedROI     float64         `json:"reportedRoi"`
}

// Aggregate is the rollup of performance rows sharing one grouping key.
type Aggregate struct {
	Key     string          `json:"key"`
	Spend   decimal.Decimal `json:"spend"`
	Revenue decimal.Decimal `json:"revenue"`
	Margin  decimal.Decimal `json:"margin"`
	ROI     float64         `json:"roi"`
	Rows    int             `json:"rows"`
}

// CampaignSummary is a network+offer aggregate enriched with the matching network terms.
type CampaignSummary struct {
	Network   string    `json:"network"`
	Offer     string    `json:"offer"`
	Aggregate Aggregate `json:"totals"`
	Matched   bool      `json:"matched"`
	PayPeriod string    `json:"payPeriod,omitempty"`
	NetTerms  int       `json:"netTerms,omitempty"`
	DailyCap  *Cap      `json:"dailyCap,omitempty"`
	// AverageDailySpend is spend divided by the number of rows in the group.
	AverageDailySpend decimal.Decimal `json:"averageDailySpend"`
	OverCap           bool            `json:"overCap"`
}
