// Package cashflow projects the cash balance forward day by day from current
// balances, scheduled invoices and expenses, and a baseline daily ad spend.
package cashflow

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/perfdash/internal/domain/models"
)

// DefaultDays is the projection horizon used when the caller does not pick one.
const DefaultDays = 14

// Input carries everything the projector needs. Cards are the credit lines
// whose minimum payments are due; they are charged once, on day 0.
type Input struct {
	Start             models.Date
	Days              int
	StartingBalance   decimal.Decimal
	AverageDailySpend decimal.Decimal
	Invoices          []models.Invoice
	Payroll           []models.PayrollExpense
	Cards             []models.FinancialResource
}

// Project walks Days calendar days from Start. Every day appears in the
// output even when nothing is due. Entries with a zero due date are left out
// and counted in Skipped.
func Project(in Input) models.Projection {
	days := in.Days
	if days <= 0 {
		days = DefaultDays
	}

	inflows := map[string][]models.ProjectionEvent{}
	outflows := map[string][]models.ProjectionEvent{}
	skipped := 0

	for _, inv := range in.Invoices {
		if inv.DueDate.IsZero() {
			skipped++
			continue
		}
		k := inv.DueDate.Key()
		inflows[k] = append(inflows[k], models.ProjectionEvent{
			Kind:   models.EventInvoice,
			Label:  invoiceLabel(inv),
			Amount: inv.AmountDue,
		})
	}
	for _, exp := range in.Payroll {
		if exp.DueDate.IsZero() {
			skipped++
			continue
		}
		k := exp.DueDate.Key()
		outflows[k] = append(outflows[k], models.ProjectionEvent{
			Kind:   models.EventPayroll,
			Label:  payrollLabel(exp),
			Amount: exp.Amount,
		})
	}
	if !in.Start.IsZero() {
		k := in.Start.Key()
		outflows[k] = append(outflows[k], CardMinimums(in.Cards)...)
	}

	p := models.Projection{
		StartingBalance:   in.StartingBalance,
		AverageDailySpend: in.AverageDailySpend,
		Days:              make([]models.DailyProjection, 0, days),
		LowestBalance:     in.StartingBalance,
		Skipped:           skipped,
	}

	balance := in.StartingBalance
	for i := 0; i < days; i++ {
		date := in.Start.AddDays(i)
		k := date.Key()

		day := models.DailyProjection{Date: date, Details: []models.ProjectionEvent{}}
		for _, ev := range inflows[k] {
			day.Inflows = day.Inflows.Add(ev.Amount)
			day.Details = append(day.Details, ev)
		}
		for _, ev := range outflows[k] {
			day.Outflows = day.Outflows.Add(ev.Amount)
			day.Details = append(day.Details, ev)
		}
		if !in.AverageDailySpend.IsZero() {
			day.Outflows = day.Outflows.Add(in.AverageDailySpend)
			day.Details = append(day.Details, models.ProjectionEvent{
				Kind:   models.EventAverageDailySpend,
				Label:  "Average daily ad spend",
				Amount: in.AverageDailySpend,
			})
		}

		balance = balance.Add(day.Inflows).Sub(day.Outflows)
		day.Balance = balance

		p.TotalInflows = p.TotalInflows.Add(day.Inflows)
		p.TotalOutflows = p.TotalOutflows.Add(day.Outflows)
		if i == 0 || balance.LessThan(p.LowestBalance) {
			p.LowestBalance = balance
			p.LowestBalanceDate = date
		}
		p.Days = append(p.Days, day)
	}
	p.EndingBalance = balance
	return p
}

func invoiceLabel(inv models.Invoice) string {
	if inv.InvoiceNumber != "" {
		return fmt.Sprintf("%s invoice %s", inv.Network, inv.InvoiceNumber)
	}
	return inv.Network + " invoice"
}

func payrollLabel(exp models.PayrollExpense) string {
	switch {
	case exp.Description != "" && exp.Type != "":
		return exp.Type + ": " + exp.Description
	case exp.Description != "":
		return exp.Description
	}
	return exp.Type
}
