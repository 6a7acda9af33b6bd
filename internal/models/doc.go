// Package models defines the core domain models for invoicer.
//
// # Models
//
//   - Invoice: a bill for a customer, amount kept in integer cents
//   - InvoiceStatus: pending or paid
//   - User: an account that can sign in with email and password
//
// # Money
//
// Amounts arrive from forms as decimal strings and are converted with
// ToCents, which uses decimal arithmetic so that "12.50" is always 1250.
// Nothing in this package stores floating point currency.
//
// # Dates
//
// Invoice dates are UTC calendar days in DateLayout ("2006-01-02").
package models
