package mapping

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/perfdash/internal/domain/models"
	"github.com/mamadbah2/perfdash/internal/parse"
)

// Field names shared by schemas and mappers.
const (
	fieldDate            = "date"
	fieldNetwork         = "network"
	fieldOffer           = "offer"
	fieldMediaBuyer      = "mediaBuyer"
	fieldAdSpend         = "adSpend"
	fieldAdRevenue       = "adRevenue"
	fieldCommentRevenue  = "commentRevenue"
	fieldTotalRevenue    = "totalRevenue"
	fieldMargin          = "margin"
	fieldExpectedPayment = "expectedPayment"
	fieldRunningBalance  = "runningBalance"
	fieldROI             = "roi"
	fieldAccount         = "account"
	fieldAvailable       = "available"
	fieldOwing           = "owing"
	fieldLimit           = "limit"
	fieldPeriodStart     = "periodStart"
	fieldPeriodEnd       = "periodEnd"
	fieldDueDate         = "dueDate"
	fieldAmountDue       = "amountDue"
	fieldInvoiceNumber   = "invoiceNumber"
	fieldType            = "type"
	fieldDescription     = "description"
	fieldAmount          = "amount"
	fieldPayPeriod       = "payPeriod"
	fieldNetTerms        = "netTerms"
	fieldInvoiceDue      = "invoiceDue"
	fieldRunningTotal    = "runningTotal"
	fieldDailyCap        = "dailyCap"
	fieldCategory        = "category"
	fieldKind            = "kind"
)

// PerformanceSchema is the daily network performance sheet.
var PerformanceSchema = Schema{
	Sheet: "performance",
	Columns: []Column{
		{Field: fieldDate, Headers: []string{"Date", "Day"}, Required: true},
		{Field: fieldNetwork, Headers: []string{"Network"}, Required: true},
		{Field: fieldOffer, Headers: []string{"Offer", "Campaign"}},
		{Field: fieldMediaBuyer, Headers: []string{"Media Buyer", "Buyer"}},
		{Field: fieldAdSpend, Headers: []string{"Ad Spend", "Spend"}, Required: true},
		{Field: fieldAdRevenue, Headers: []string{"Ad Revenue"}},
		{Field: fieldCommentRevenue, Headers: []string{"Comment Revenue"}},
		{Field: fieldTotalRevenue, Headers: []string{"Total Revenue", "Revenue"}},
		{Field: fieldMargin, Headers: []string{"Margin", "Profit"}},
		{Field: fieldExpectedPayment, Headers: []string{"Expected Payment"}},
		{Field: fieldRunningBalance, Headers: []string{"Running Balance"}},
		{Field: fieldROI, Headers: []string{"ROI %", "ROI"}},
	},
}

// FinancialResourcesSchema is the bank and credit line snapshot sheet.
var FinancialResourcesSchema = Schema{
	Sheet: "financial resources",
	Columns: []Column{
		{Field: fieldAccount, Headers: []string{"Account", "Resource"}, Required: true},
		{Field: fieldAvailable, Headers: []string{"Available", "Balance"}, Required: true},
		{Field: fieldOwing, Headers: []string{"Owing", "Owed"}},
		{Field: fieldLimit, Headers: []string{"Limit", "Credit Limit"}},
	},
}

// InvoicesSchema is the network invoice sheet.
var InvoicesSchema = Schema{
	Sheet: "invoices",
	Columns: []Column{
		{Field: fieldNetwork, Headers: []string{"Network"}, Required: true},
		{Field: fieldPeriodStart, Headers: []string{"Period Start"}},
		{Field: fieldPeriodEnd, Headers: []string{"Period End"}},
		{Field: fieldDueDate, Headers: []string{"Due Date", "Invoice Due"}, Required: true},
		{Field: fieldAmountDue, Headers: []string{"Amount Due", "Amount"}, Required: true},
		{Field: fieldInvoiceNumber, Headers: []string{"Invoice Number", "Invoice #"}},
	},
}

// PayrollSchema is the payroll and recurring expenses sheet.
var PayrollSchema = Schema{
	Sheet: "payroll",
	Columns: []Column{
		{Field: fieldType, Headers: []string{"Type"}},
		{Field: fieldDescription, Headers: []string{"Description", "Name"}, Required: true},
		{Field: fieldAmount, Headers: []string{"Amount"}, Required: true},
		{Field: fieldDueDate, Headers: []string{"Due Date", "Date"}, Required: true},
	},
}

// NetworkTermsSchema is the network payment terms sheet.
var NetworkTermsSchema = Schema{
	Sheet: "network terms",
	Columns: []Column{
		{Field: fieldNetwork, Headers: []string{"Network"}, Required: true},
		{Field: fieldOffer, Headers: []string{"Offer"}},
		{Field: fieldPayPeriod, Headers: []string{"Pay Period"}},
		{Field: fieldNetTerms, Headers: []string{"Net Terms", "Terms"}},
		{Field: fieldPeriodStart, Headers: []string{"Period Start"}},
		{Field: fieldPeriodEnd, Headers: []string{"Period End"}},
		{Field: fieldInvoiceDue, Headers: []string{"Invoice Due", "Due Date"}},
		{Field: fieldRunningTotal, Headers: []string{"Running Total", "Exposure"}},
		{Field: fieldDailyCap, Headers: []string{"Daily Cap", "Cap"}},
	},
}

// TransactionsSchema is the profit-and-loss ledger sheet.
var TransactionsSchema = Schema{
	Sheet: "transactions",
	Columns: []Column{
		{Field: fieldDate, Headers: []string{"Date"}, Required: true},
		{Field: fieldDescription, Headers: []string{"Description"}},
		{Field: fieldCategory, Headers: []string{"Category"}},
		{Field: fieldAmount, Headers: []string{"Amount"}, Required: true},
		{Field: fieldKind, Headers: []string{"Income/Expense", "Type"}, Required: true},
	},
}

// Performance maps the performance sheet. Rows without a usable date are skipped.
func Performance(values [][]any) (Result[models.PerformanceRow], error) {
	return mapRows(PerformanceSchema, values, func(b Binding, row []any, n int, res *Result[models.PerformanceRow]) (models.PerformanceRow, bool) {
		date, err := parse.Date(b.Cell(row, fieldDate))
		if err != nil {
			res.issue(n, fieldDate, err)
			return models.PerformanceRow{}, false
		}

		r := models.PerformanceRow{
			Date:            date,
			Network:         b.Text(row, fieldNetwork),
			Offer:           b.Text(row, fieldOffer),
			MediaBuyer:      b.Text(row, fieldMediaBuyer),
			AdSpend:         money(b, row, fieldAdSpend, n, res),
			AdRevenue:       money(b, row, fieldAdRevenue, n, res),
			CommentRevenue:  money(b, row, fieldCommentRevenue, n, res),
			ExpectedPayment: money(b, row, fieldExpectedPayment, n, res),
			RunningBalance:  money(b, row, fieldRunningBalance, n, res),
			ReportedROI:     percent(b, row, fieldROI, n, res),
		}

		if empty(b.Text(row, fieldTotalRevenue)) {
			r.TotalRevenue = r.AdRevenue.Add(r.CommentRevenue)
		} else {
			r.TotalRevenue = money(b, row, fieldTotalRevenue, n, res)
		}

		if empty(b.Text(row, fieldMargin)) {
			r.Margin = r.TotalRevenue.Sub(r.AdSpend)
		} else {
			r.Margin = money(b, row, fieldMargin, n, res)
		}
		return r, true
	})
}

// FinancialResources maps the balances sheet.
func FinancialResources(values [][]any) (Result[models.FinancialResource], error) {
	return mapRows(FinancialResourcesSchema, values, func(b Binding, row []any, n int, res *Result[models.FinancialResource]) (models.FinancialResource, bool) {
		account := b.Text(row, fieldAccount)
		if account == "" {
			return models.FinancialResource{}, false
		}
		return models.FinancialResource{
			Account:   account,
			Available: money(b, row, fieldAvailable, n, res),
			Owing:     money(b, row, fieldOwing, n, res),
			Limit:     money(b, row, fieldLimit, n, res),
		}, true
	})
}

// Invoices maps the invoice sheet. An unparseable due date is recorded as an
// issue and left zero so the projector can exclude the invoice.
func Invoices(values [][]any) (Result[models.Invoice], error) {
	return mapRows(InvoicesSchema, values, func(b Binding, row []any, n int, res *Result[models.Invoice]) (models.Invoice, bool) {
		return models.Invoice{
			Network:       b.Text(row, fieldNetwork),
			PeriodStart:   optionalDate(b, row, fieldPeriodStart, n, res),
			PeriodEnd:     optionalDate(b, row, fieldPeriodEnd, n, res),
			DueDate:       requiredDate(b, row, fieldDueDate, n, res),
			AmountDue:     money(b, row, fieldAmountDue, n, res),
			InvoiceNumber: b.Text(row, fieldInvoiceNumber),
		}, true
	})
}

// Payroll maps the payroll sheet with the same zero-date policy as Invoices.
func Payroll(values [][]any) (Result[models.PayrollExpense], error) {
	return mapRows(PayrollSchema, values, func(b Binding, row []any, n int, res *Result[models.PayrollExpense]) (models.PayrollExpense, bool) {
		return models.PayrollExpense{
			Type:        b.Text(row, fieldType),
			Description: b.Text(row, fieldDescription),
			Amount:      money(b, row, fieldAmount, n, res),
			DueDate:     requiredDate(b, row, fieldDueDate, n, res),
		}, true
	})
}

// NetworkTerms maps the payment terms sheet.
func NetworkTerms(values [][]any) (Result[models.NetworkTerm], error) {
	return mapRows(NetworkTermsSchema, values, func(b Binding, row []any, n int, res *Result[models.NetworkTerm]) (models.NetworkTerm, bool) {
		netTerms, err := parse.Int(b.Cell(row, fieldNetTerms))
		if err != nil {
			res.issue(n, fieldNetTerms, err)
		}
		return models.NetworkTerm{
			Network:      b.Text(row, fieldNetwork),
			Offer:        b.Text(row, fieldOffer),
			PayPeriod:    b.Text(row, fieldPayPeriod),
			NetTerms:     netTerms,
			PeriodStart:  optionalDate(b, row, fieldPeriodStart, n, res),
			PeriodEnd:    optionalDate(b, row, fieldPeriodEnd, n, res),
			InvoiceDue:   optionalDate(b, row, fieldInvoiceDue, n, res),
			RunningTotal: money(b, row, fieldRunningTotal, n, res),
			DailyCap:     parse.Cap(b.Cell(row, fieldDailyCap)),
		}, true
	})
}

// Transactions maps the P&L ledger. Rows whose tag is neither Income nor
// Expense, or whose date cannot be parsed, are skipped.
func Transactions(values [][]any) (Result[models.Transaction], error) {
	return mapRows(TransactionsSchema, values, func(b Binding, row []any, n int, res *Result[models.Transaction]) (models.Transaction, bool) {
		kind, ok := transactionKind(b.Text(row, fieldKind))
		if !ok {
			return models.Transaction{}, false
		}
		date, err := parse.Date(b.Cell(row, fieldDate))
		if err != nil {
			res.issue(n, fieldDate, err)
			return models.Transaction{}, false
		}
		return models.Transaction{
			Date:        date,
			Description: b.Text(row, fieldDescription),
			Category:    b.Text(row, fieldCategory),
			Amount:      money(b, row, fieldAmount, n, res).Abs(),
			Kind:        kind,
		}, true
	})
}

func transactionKind(s string) (models.TransactionKind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income", "revenue":
		return models.KindIncome, true
	case "expense", "expenses", "cost":
		return models.KindExpense, true
	}
	return "", false
}

func money[T any](b Binding, row []any, field string, n int, res *Result[T]) decimal.Decimal {
	d, err := parse.Currency(b.Cell(row, field))
	if err != nil {
		res.issue(n, field, err)
		return decimal.Zero
	}
	return d
}

func percent[T any](b Binding, row []any, field string, n int, res *Result[T]) float64 {
	p, err := parse.Percent(b.Cell(row, field))
	if err != nil {
		res.issue(n, field, err)
		return 0
	}
	return p
}

func requiredDate[T any](b Binding, row []any, field string, n int, res *Result[T]) models.Date {
	d, err := parse.Date(b.Cell(row, field))
	if err != nil {
		res.issue(n, field, err)
		return models.Date{}
	}
	return d
}

func optionalDate[T any](b Binding, row []any, field string, n int, res *Result[T]) models.Date {
	if empty(b.Text(row, field)) {
		return models.Date{}
	}
	return requiredDate(b, row, field, n, res)
}

func empty(s string) bool {
	return s == "" || s == "-"
}
