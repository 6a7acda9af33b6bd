// Package service exposes the invoice actions and sign-in over Connect RPC.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/invoicer/internal/actions"
	"github.com/mmynk/invoicer/internal/dashboard"
	"github.com/mmynk/invoicer/internal/middleware"
	"github.com/mmynk/invoicer/internal/validation"
)

// InvoiceFields is the editable part of an invoice, as the form submits it.
type InvoiceFields struct {
	CustomerID string `json:"customerId"`
	Amount     string `json:"amount"`
	Status     string `json:"status"`
}

func (f InvoiceFields) form() validation.Form {
	return validation.Form{
		"customerId": f.CustomerID,
		"amount":     f.Amount,
		"status":     f.Status,
	}
}

type CreateInvoiceRequest struct {
	InvoiceFields
}

type UpdateInvoiceRequest struct {
	ID string `json:"id"`
	InvoiceFields
}

type DeleteInvoiceRequest struct {
	ID string `json:"id"`
}

// ActionResponse mirrors actions.Result. Field errors are reported here
// rather than as an RPC error so clients can re-display them.
type ActionResponse struct {
	Errors   validation.FieldErrors `json:"errors,omitempty"`
	Message  string                 `json:"message,omitempty"`
	Redirect string                 `json:"redirect,omitempty"`
}

type ListInvoicesRequest struct{}

type ListInvoicesResponse struct {
	dashboard.View
}

// InvoiceService implements the Connect InvoiceService.
type InvoiceService struct {
	actions   *actions.InvoiceActions
	dashboard *dashboard.Dashboard
	logger    *slog.Logger
}

// NewInvoiceService creates a new InvoiceService.
func NewInvoiceService(a *actions.InvoiceActions, d *dashboard.Dashboard, logger *slog.Logger) *InvoiceService {
	return &InvoiceService{actions: a, dashboard: d, logger: logger}
}

// CreateInvoice validates and stores a new invoice.
func (s *InvoiceService) CreateInvoice(ctx context.Context, req *connect.Request[CreateInvoiceRequest]) (*connect.Response[ActionResponse], error) {
	s.logger.Debug("CreateInvoice request received", "customer_id", req.Msg.CustomerID, "user_id", middleware.GetUserID(ctx))
	return toResponse(s.actions.CreateInvoice(ctx, req.Msg.form()))
}

// UpdateInvoice validates and rewrites an existing invoice.
func (s *InvoiceService) UpdateInvoice(ctx context.Context, req *connect.Request[UpdateInvoiceRequest]) (*connect.Response[ActionResponse], error) {
	s.logger.Debug("UpdateInvoice request received", "invoice_id", req.Msg.ID, "user_id", middleware.GetUserID(ctx))
	return toResponse(s.actions.UpdateInvoice(ctx, req.Msg.ID, req.Msg.form()))
}

// DeleteInvoice removes an invoice.
func (s *InvoiceService) DeleteInvoice(ctx context.Context, req *connect.Request[DeleteInvoiceRequest]) (*connect.Response[ActionResponse], error) {
	s.logger.Debug("DeleteInvoice request received", "invoice_id", req.Msg.ID, "user_id", middleware.GetUserID(ctx))
	return toResponse(s.actions.DeleteInvoice(ctx, req.Msg.ID))
}

// ListInvoices returns the invoice listing with totals.
func (s *InvoiceService) ListInvoices(ctx context.Context, req *connect.Request[ListInvoicesRequest]) (*connect.Response[ListInvoicesResponse], error) {
	b, err := s.dashboard.Invoices(ctx)
	if err != nil {
		s.logger.Error("ListInvoices failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, errors.New("failed to list invoices"))
	}

	resp := &ListInvoicesResponse{}
	if err := json.Unmarshal(b, &resp.View); err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(resp), nil
}

// toResponse maps an action result onto the wire. A database failure becomes
// CodeInternal carrying the user-facing message.
func toResponse(res actions.Result) (*connect.Response[ActionResponse], error) {
	if res.Failed() && len(res.State.Errors) == 0 {
		return nil, connect.NewError(connect.CodeInternal, errors.New(res.State.Message))
	}

	resp := &ActionResponse{Redirect: res.Redirect}
	if res.Failed() {
		resp.Errors = res.State.Errors
		resp.Message = res.State.Message
	}
	return connect.NewResponse(resp), nil
}
