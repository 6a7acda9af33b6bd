package models

import (
	"math"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-day format invoices are stamped with.
const DateLayout = "2006-01-02"

// InvoiceStatus is the payment state of an invoice.
type InvoiceStatus string

const (
	StatusPending InvoiceStatus = "pending"
	StatusPaid    InvoiceStatus = "paid"
)

// Valid reports whether s is one of the known statuses.
func (s InvoiceStatus) Valid() bool {
	return s == StatusPending || s == StatusPaid
}

// Invoice is a bill issued to a customer.
type Invoice struct {
	// ID is assigned by the store on create and never changes.
	ID string

	// CustomerID references the customer the invoice is billed to.
	CustomerID string

	// Amount is stored in integer cents.
	Amount int64

	// Status is either pending or paid.
	Status InvoiceStatus

	// Date is the creation day in DateLayout form. Updates do not touch it.
	Date string
}

var (
	hundred  = decimal.NewFromInt(100)
	minCents = decimal.NewFromInt(math.MinInt64)
	maxCents = decimal.NewFromInt(math.MaxInt64)
)

// FitsCents reports whether amount converts to int64 cents without
// overflow. ToCents is only meaningful for amounts that fit.
func FitsCents(amount decimal.Decimal) bool {
	c := amount.Mul(hundred).Round(0)
	return c.GreaterThanOrEqual(minCents) && c.LessThanOrEqual(maxCents)
}

// ToCents converts a currency amount to integer cents, rounding half away
// from zero. Two-decimal inputs convert exactly.
func ToCents(amount decimal.Decimal) int64 {
	return amount.Mul(hundred).Round(0).IntPart()
}

// FromCents converts integer cents back to a currency amount.
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}
