// Package campaign joins performance rollups with the network payment terms
// sheet, whose offer names rarely match the performance sheet exactly.
package campaign

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/perfdash/internal/domain/models"
	"github.com/mamadbah2/perfdash/internal/service/aggregate"
)

// Enrich groups rows per network and offer and attaches the matching terms.
// AverageDailySpend is the group spend divided by the number of distinct days
// it has rows for; OverCap is set when that average exceeds a numeric daily cap.
func Enrich(rows []models.PerformanceRow, m *Matcher) []models.CampaignSummary {
	type labels struct {
		network, offer string
		days           map[string]struct{}
	}
	groups := map[string]*labels{}
	for _, r := range rows {
		key := aggregate.ByNetworkOffer(r)
		g, ok := groups[key]
		if !ok {
			g = &labels{network: aggregate.Label(r.Network), offer: aggregate.Label(r.Offer), days: map[string]struct{}{}}
			groups[key] = g
		}
		g.days[r.Date.Key()] = struct{}{}
	}

	aggs := aggregate.Group(rows, aggregate.ByNetworkOffer)
	out := make([]models.CampaignSummary, 0, len(aggs))

	for _, agg := range aggs {
		g := groups[agg.Key]
		agg.Key = g.network + " / " + g.offer
		summary := models.CampaignSummary{Network: g.network, Offer: g.offer, Aggregate: agg}
		if len(g.days) > 0 {
			summary.AverageDailySpend = agg.Spend.DivRound(decimal.NewFromInt(int64(len(g.days))), 2)
		}

		if term, ok := m.Match(g.network, g.offer); ok {
			summary.Matched = true
			summary.PayPeriod = term.PayPeriod
			summary.NetTerms = term.NetTerms
			dailyCap := term.DailyCap
			summary.DailyCap = &dailyCap
			summary.OverCap = dailyCap.Limited() && summary.AverageDailySpend.GreaterThan(dailyCap.Amount)
		}
		out = append(out, summary)
	}
	return out
}

// Exposure sums the running totals owed per network, with the earliest upcoming invoice due date.
func Exposure(terms []models.NetworkTerm, today models.Date) []models.NetworkExposure {
	index := map[string]int{}
	out := make([]models.NetworkExposure, 0)

	for _, t := range terms {
		name := strings.TrimSpace(t.Network)
		key := Normalize(name)
		if key == "" {
			continue
		}
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, models.NetworkExposure{Network: name})
		}
		e := &out[i]
		e.Exposure = e.Exposure.Add(t.RunningTotal)
		e.Offers++
		if due := t.InvoiceDue; !due.IsZero() && !due.Before(today.Time) {
			if e.NextDue.IsZero() || due.Before(e.NextDue.Time) {
				e.NextDue = due
			}
		}
	}
	return out
}
