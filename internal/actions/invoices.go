// Package actions implements the server-side form actions: invoice
// create/update/delete and credential login.
package actions

import (
	"context"
	"log/slog"
	"time"

	"github.com/mmynk/invoicer/internal/cache"
	"github.com/mmynk/invoicer/internal/dashboard"
	"github.com/mmynk/invoicer/internal/metrics"
	"github.com/mmynk/invoicer/internal/models"
	"github.com/mmynk/invoicer/internal/storage"
	"github.com/mmynk/invoicer/internal/validation"
)

const (
	MsgCreateMissingFields = "Missing Fields: Failed to Create Invoice"
	MsgUpdateMissingFields = "Missing Fields: Failed to Update Invoice"
	MsgCreateDatabaseError = "Database Error: Failed to Create Invoice"
	MsgUpdateDatabaseError = "Database Error: Failed to Update Invoice"
	MsgDeleteDatabaseError = "Database Error: Failed to Delete Invoice"
)

// State is what a failed action hands back to the form for re-display.
type State struct {
	Errors  validation.FieldErrors `json:"errors,omitempty"`
	Message string                 `json:"message,omitempty"`
}

// Result is the outcome of an invoice action. On failure State is set; on
// success Redirect names the page to go to, or is empty when the caller
// should stay where it is.
type Result struct {
	State    *State
	Redirect string
}

// Failed reports whether the action was rejected.
func (r Result) Failed() bool {
	return r.State != nil
}

// InvoiceActions validates invoice forms and applies them to the store.
type InvoiceActions struct {
	store       storage.InvoiceStore
	revalidator cache.Revalidator
	metrics     *metrics.Metrics
	logger      *slog.Logger
	now         func() time.Time
}

// NewInvoiceActions wires the mutator. m may be nil.
func NewInvoiceActions(store storage.InvoiceStore, revalidator cache.Revalidator, m *metrics.Metrics, logger *slog.Logger) *InvoiceActions {
	return &InvoiceActions{
		store:       store,
		revalidator: revalidator,
		metrics:     m,
		logger:      logger,
		now:         time.Now,
	}
}

// CreateInvoice validates form and inserts a new invoice stamped with today's
// UTC date.
func (a *InvoiceActions) CreateInvoice(ctx context.Context, form validation.Form) Result {
	in, errs := validation.ParseCreateInvoice(form)
	if errs != nil {
		a.metrics.InvoiceAction("create", metrics.OutcomeValidationError)
		return Result{State: &State{Errors: errs, Message: MsgCreateMissingFields}}
	}

	inv := &models.Invoice{
		CustomerID: in.CustomerID,
		Amount:     in.Cents(),
		Status:     in.Status,
		Date:       a.now().UTC().Format(models.DateLayout),
	}
	if err := a.store.CreateInvoice(ctx, inv); err != nil {
		a.logger.Error("CreateInvoice failed", "customer_id", inv.CustomerID, "error", err)
		a.metrics.InvoiceAction("create", metrics.OutcomeDatabaseError)
		return Result{State: &State{Message: MsgCreateDatabaseError}}
	}

	a.logger.Info("Invoice created", "invoice_id", inv.ID, "amount", inv.Amount)
	a.metrics.InvoiceAction("create", metrics.OutcomeOK)
	a.revalidate(ctx, dashboard.InvoicesPath)
	return Result{Redirect: dashboard.InvoicesPath}
}

// UpdateInvoice validates form and rewrites customer, amount and status of id.
func (a *InvoiceActions) UpdateInvoice(ctx context.Context, id string, form validation.Form) Result {
	in, errs := validation.ParseUpdateInvoice(form)
	if errs != nil {
		a.metrics.InvoiceAction("update", metrics.OutcomeValidationError)
		return Result{State: &State{Errors: errs, Message: MsgUpdateMissingFields}}
	}

	inv := &models.Invoice{
		ID:         id,
		CustomerID: in.CustomerID,
		Amount:     in.Cents(),
		Status:     in.Status,
	}
	if err := a.store.UpdateInvoice(ctx, inv); err != nil {
		a.logger.Error("UpdateInvoice failed", "invoice_id", id, "error", err)
		a.metrics.InvoiceAction("update", metrics.OutcomeDatabaseError)
		return Result{State: &State{Message: MsgUpdateDatabaseError}}
	}

	a.logger.Info("Invoice updated", "invoice_id", id)
	a.metrics.InvoiceAction("update", metrics.OutcomeOK)
	a.revalidate(ctx, dashboard.InvoicesPath)
	return Result{Redirect: dashboard.InvoicesPath}
}

// DeleteInvoice removes id. The id is not validated and a missing invoice is
// not reported.
func (a *InvoiceActions) DeleteInvoice(ctx context.Context, id string) Result {
	if err := a.store.DeleteInvoice(ctx, id); err != nil {
		a.logger.Error("DeleteInvoice failed", "invoice_id", id, "error", err)
		a.metrics.InvoiceAction("delete", metrics.OutcomeDatabaseError)
		return Result{State: &State{Message: MsgDeleteDatabaseError}}
	}

	a.logger.Info("Invoice deleted", "invoice_id", id)
	a.metrics.InvoiceAction("delete", metrics.OutcomeOK)
	a.revalidate(ctx, dashboard.InvoicesPath)
	return Result{}
}

// revalidate is fire-and-forget: the write already succeeded, so a failed
// invalidation is only logged.
func (a *InvoiceActions) revalidate(ctx context.Context, path string) {
	err := a.revalidator.Revalidate(ctx, path)
	a.metrics.Revalidation(path, err)
	if err != nil {
		a.logger.Warn("Revalidate failed", "path", path, "error", err)
	}
}
