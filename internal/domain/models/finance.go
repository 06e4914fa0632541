package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// FinancialResource is a snapshot of one bank account or credit line.
type FinancialResource struct {
	Account   string          `json:"account"`
	Available decimal.Decimal `json:"available"`
	Owing     decimal.Decimal `json:"owing"`
	Limit     decimal.Decimal `json:"limit"`
}

// IsCredit reports whether the resource is a credit line. A zero limit marks a cash account.
func (r FinancialResource) IsCredit() bool {
	return r.Limit.IsPositive()
}

// BalanceSummary rolls financial resources into the headline cash/credit figures.
type BalanceSummary struct {
	CurrentBalance  decimal.Decimal     `json:"currentBalance"`
	CreditAvailable decimal.Decimal     `json:"creditAvailable"`
	CreditOwing     decimal.Decimal     `json:"creditOwing"`
	CreditLimit     decimal.Decimal     `json:"creditLimit"`
	Accounts        []FinancialResource `json:"accounts"`
}

// Invoice is money owed to us by a network for a pay period.
type Invoice struct {
	Network       string          `json:"network"`
	PeriodStart   Date            `json:"periodStart"`
	PeriodEnd     Date            `json:"periodEnd"`
	DueDate       Date            `json:"dueDate"`
	AmountDue     decimal.Decimal `json:"amountDue"`
	InvoiceNumber string          `json:"invoiceNumber"`
}

// PayrollExpense is a scheduled outgoing payment.
type PayrollExpense struct {
	Type        string          `json:"type"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	DueDate     Date            `json:"dueDate"`
}

// NetworkTerm describes how and when a network pays for an offer.
type NetworkTerm struct {
	Network      string          `json:"network"`
	Offer        string          `json:"offer"`
	PayPeriod    string          `json:"payPeriod"`
	NetTerms     int             `json:"netTerms"`
	PeriodStart  Date            `json:"periodStart"`
	PeriodEnd    Date            `json:"periodEnd"`
	InvoiceDue   Date            `json:"invoiceDue"`
	RunningTotal decimal.Decimal `json:"runningTotal"`
	DailyCap     Cap             `json:"dailyCap"`
}

// NetworkExposure is the unpaid running total owed by one network.
type NetworkExposure struct {
	Network  string          `json:"network"`
	Exposure decimal.Decimal `json:"exposure"`
	Offers   int             `json:"offers"`
	NextDue  Date            `json:"nextDue"`
}

// Cap is a daily cap that is either an amount or a sentinel label such as "Uncapped".
type Cap struct {
	Amount decimal.Decimal
	Label  string
}

// Limited reports whether the cap carries a usable amount.
func (c Cap) Limited() bool {
	return c.Label == "" && c.Amount.IsPositive()
}

func (c Cap) MarshalJSON() ([]byte, error) {
	if c.Label != "" {
		return json.Marshal(c.Label)
	}
	return json.Marshal(c.Amount.InexactFloat64())
}

// TransactionKind tags a P&L transaction as money in or out.
type TransactionKind string

const (
	KindIncome  TransactionKind = "Income"
	KindExpense TransactionKind = "Expense"
)

// Transaction is one line of the profit-and-loss ledger sheet.
type Transaction struct {
	Date        Date            `json:"date"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Kind        TransactionKind `json:"kind"`
}

// MonthlySummary is income minus expenses for a yyyy-MM bucket.
type MonthlySummary struct {
	Month     string          `json:"month"`
	Income    decimal.Decimal `json:"income"`
	Expenses  decimal.Decimal `json:"expenses"`
	NetProfit decimal.Decimal `json:"netProfit"`
}

// CategoryTotal is the sum of transactions in one category.
type CategoryTotal struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Count    int             `json:"count"`
}
