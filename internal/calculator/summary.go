package calculator

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/mmynk/invoicer/internal/models"
)

// Totals aggregates a set of invoices by status. All amounts are in cents.
type Totals struct {
	Count        int   `json:"count"`
	PaidCount    int   `json:"paidCount"`
	PendingCount int   `json:"pendingCount"`
	Paid         int64 `json:"paid"`
	Pending      int64 `json:"pending"`
}

// CustomerTotal is the outstanding and collected amount for one customer.
type CustomerTotal struct {
	CustomerID string `json:"customerId"`
	Paid       int64  `json:"paid"`
	Pending    int64  `json:"pending"`
}

// Summarize computes status totals for invoices.
// Invoices with an unknown status count toward Count only.
func Summarize(invoices []models.Invoice) Totals {
	var t Totals
	for _, inv := range invoices {
		t.Count++
		switch inv.Status {
		case models.StatusPaid:
			t.PaidCount++
			t.Paid += inv.Amount
		case models.StatusPending:
			t.PendingCount++
			t.Pending += inv.Amount
		}
	}
	return t
}

// ByCustomer groups totals per customer, in order of first appearance.
func ByCustomer(invoices []models.Invoice) []CustomerTotal {
	index := make(map[string]int)
	var out []CustomerTotal
	for _, inv := range invoices {
		i, ok := index[inv.CustomerID]
		if !ok {
			i = len(out)
			index[inv.CustomerID] = i
			out = append(out, CustomerTotal{CustomerID: inv.CustomerID})
		}
		switch inv.Status {
		case models.StatusPaid:
			out[i].Paid += inv.Amount
		case models.StatusPending:
			out[i].Pending += inv.Amount
		}
	}
	return out
}

var printer = message.NewPrinter(language.English)

// FormatCurrency renders cents as US dollars, e.g. 125000 -> "$1,250.00".
func FormatCurrency(cents int64) string {
	return printer.Sprintf("$%.2f", float64(cents)/100)
}
