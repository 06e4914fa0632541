package aggregate

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/perfdash/internal/domain/models"
)

// Monthly sums income and expenses per yyyy-MM bucket, ordered by month.
func Monthly(txs []models.Transaction) []models.MonthlySummary {
	byMonth := map[string]*models.MonthlySummary{}
	for _, tx := range txs {
		m := tx.Date.Month()
		if m == "" {
			continue
		}
		s, ok := byMonth[m]
		if !ok {
			s = &models.MonthlySummary{Month: m}
			byMonth[m] = s
		}
		switch tx.Kind {
		case models.KindIncome:
			s.Income = s.Income.Add(tx.Amount)
		case models.KindExpense:
			s.Expenses = s.Expenses.Add(tx.Amount)
		}
	}

	out := make([]models.MonthlySummary, 0, len(byMonth))
	for _, s := range byMonth {
		s.NetProfit = s.Income.Sub(s.Expenses)
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// Categories totals transactions of one kind by category, largest first.
func Categories(txs []models.Transaction, kind models.TransactionKind) []models.CategoryTotal {
	index := map[string]int{}
	out := make([]models.CategoryTotal, 0)
	for _, tx := range txs {
		if tx.Kind != kind {
			continue
		}
		cat := strings.TrimSpace(tx.Category)
		if cat == "" {
			cat = "Uncategorized"
		}
		i, ok := index[cat]
		if !ok {
			i = len(out)
			index[cat] = i
			out = append(out, models.CategoryTotal{Category: cat, Amount: decimal.Zero})
		}
		out[i].Amount = out[i].Amount.Add(tx.Amount)
		out[i].Count++
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Amount.GreaterThan(out[j].Amount) })
	return out
}
