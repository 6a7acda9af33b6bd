// Package dashboard renders the invoice listing view and keeps it cached
// until a write revalidates it.
package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"github.com/mmynk/invoicer/internal/cache"
	"github.com/mmynk/invoicer/internal/calculator"
	"github.com/mmynk/invoicer/internal/metrics"
	"github.com/mmynk/invoicer/internal/models"
)

// InvoicesPath is the logical path of the invoice listing. Writes revalidate
// it and redirect to it.
const InvoicesPath = "/dashboard/invoices"

// InvoiceLister is the storage the listing needs.
type InvoiceLister interface {
	ListInvoices(ctx context.Context) ([]models.Invoice, error)
}

// Row is one invoice as shown in the listing.
type Row struct {
	ID          string `json:"id"`
	CustomerID  string `json:"customerId"`
	Amount      string `json:"amount"`
	AmountCents int64  `json:"amountCents"`
	Status      string `json:"status"`
	Date        string `json:"date"`
}

// View is the rendered listing.
type View struct {
	Invoices  []Row                      `json:"invoices"`
	Totals    calculator.Totals          `json:"totals"`
	Customers []calculator.CustomerTotal `json:"customers"`
}

// Dashboard serves the listing view through a ViewCache.
type Dashboard struct {
	store   InvoiceLister
	cache   cache.ViewCache
	metrics *metrics.Metrics
	logger  *slog.Logger
	sf      singleflight.Group
}

// New creates a Dashboard. m may be nil.
func New(store InvoiceLister, c cache.ViewCache, m *metrics.Metrics, logger *slog.Logger) *Dashboard {
	return &Dashboard{store: store, cache: c, metrics: m, logger: logger}
}

// Invoices returns the rendered listing, computing it on a cache miss.
// Concurrent misses under the same cache generation share one store query.
// A fill that straddles a Revalidate is returned to its callers but never
// cached, and callers arriving after the Revalidate start a fresh query.
func (d *Dashboard) Invoices(ctx context.Context) ([]byte, error) {
	if b, ok, err := d.cache.Get(ctx, InvoicesPath); err != nil {
		d.logger.Warn("View cache read failed", "path", InvoicesPath, "error", err)
	} else if ok {
		d.metrics.ViewCacheLookup(true)
		return b, nil
	}
	d.metrics.ViewCacheLookup(false)

	gen, err := d.cache.Generation(ctx, InvoicesPath)
	cacheable := err == nil
	if err != nil {
		d.logger.Warn("View cache generation read failed", "path", InvoicesPath, "error", err)
	}

	// The shared fill must not die with whichever caller started it.
	fillCtx := context.WithoutCancel(ctx)
	fill := func() (interface{}, error) {
		list, err := d.store.ListInvoices(fillCtx)
		if err != nil {
			return nil, err
		}
		b, err := json.Marshal(Render(list))
		if err != nil {
			return nil, err
		}
		if cacheable {
			if err := d.cache.Set(fillCtx, InvoicesPath, gen, b); err != nil {
				d.logger.Warn("View cache write failed", "path", InvoicesPath, "error", err)
			}
		}
		return b, nil
	}

	if !cacheable {
		v, err := fill()
		if err != nil {
			return nil, err
		}
		return v.([]byte), nil
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-d.sf.DoChan(fmt.Sprintf("%s@%d", InvoicesPath, gen), fill):
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Val.([]byte), nil
	}
}

// Render builds the listing view from invoices.
func Render(invoices []models.Invoice) View {
	rows := make([]Row, len(invoices))
	for i, inv := range invoices {
		rows[i] = Row{
			ID:          inv.ID,
			CustomerID:  inv.CustomerID,
			Amount:      calculator.FormatCurrency(inv.Amount),
			AmountCents: inv.Amount,
			Status:      string(inv.Status),
			Date:        inv.Date,
		}
	}
	return View{
		Invoices:  rows,
		Totals:    calculator.Summarize(invoices),
		Customers: calculator.ByCustomer(invoices),
	}
}
