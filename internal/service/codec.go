package service

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

const (
	InvoiceServiceName = "invoicer.v1.InvoiceService"
	AuthServiceName    = "invoicer.v1.AuthService"

	CreateInvoiceProcedure = "/" + InvoiceServiceName + "/CreateInvoice"
	UpdateInvoiceProcedure = "/" + InvoiceServiceName + "/UpdateInvoice"
	DeleteInvoiceProcedure = "/" + InvoiceServiceName + "/DeleteInvoice"
	ListInvoicesProcedure  = "/" + InvoiceServiceName + "/ListInvoices"
	LoginProcedure         = "/" + AuthServiceName + "/Login"
)

// JSONCodec marshals plain Go structs with encoding/json. It takes the "json"
// codec name, so Connect clients speak application/json on the wire.
type JSONCodec struct{}

var _ connect.Codec = JSONCodec{}

func (JSONCodec) Name() string { return "json" }

func (JSONCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (JSONCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// NewInvoiceServiceHandler builds an HTTP handler for every InvoiceService
// procedure. It returns the path to mount it on.
func NewInvoiceServiceHandler(svc *InvoiceService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(JSONCodec{})}, opts...)
	mux := http.NewServeMux()
	mux.Handle(CreateInvoiceProcedure, connect.NewUnaryHandler(CreateInvoiceProcedure, svc.CreateInvoice, opts...))
	mux.Handle(UpdateInvoiceProcedure, connect.NewUnaryHandler(UpdateInvoiceProcedure, svc.UpdateInvoice, opts...))
	mux.Handle(DeleteInvoiceProcedure, connect.NewUnaryHandler(DeleteInvoiceProcedure, svc.DeleteInvoice, opts...))
	mux.Handle(ListInvoicesProcedure, connect.NewUnaryHandler(ListInvoicesProcedure, svc.ListInvoices, opts...))
	return "/" + InvoiceServiceName + "/", mux
}

// NewAuthServiceHandler builds an HTTP handler for AuthService.
func NewAuthServiceHandler(svc *AuthService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(JSONCodec{})}, opts...)
	mux := http.NewServeMux()
	mux.Handle(LoginProcedure, connect.NewUnaryHandler(LoginProcedure, svc.Login, opts...))
	return "/" + AuthServiceName + "/", mux
}

// InvoiceServiceClient calls InvoiceService over Connect.
type InvoiceServiceClient struct {
	create *connect.Client[CreateInvoiceRequest, ActionResponse]
	update *connect.Client[UpdateInvoiceRequest, ActionResponse]
	delete *connect.Client[DeleteInvoiceRequest, ActionResponse]
	list   *connect.Client[ListInvoicesRequest, ListInvoicesResponse]
}

// NewInvoiceServiceClient creates a client for the server at baseURL.
func NewInvoiceServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *InvoiceServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(JSONCodec{})}, opts...)
	return &InvoiceServiceClient{
		create: connect.NewClient[CreateInvoiceRequest, ActionResponse](httpClient, baseURL+CreateInvoiceProcedure, opts...),
		update: connect.NewClient[UpdateInvoiceRequest, ActionResponse](httpClient, baseURL+UpdateInvoiceProcedure, opts...),
		delete: connect.NewClient[DeleteInvoiceRequest, ActionResponse](httpClient, baseURL+DeleteInvoiceProcedure, opts...),
		list:   connect.NewClient[ListInvoicesRequest, ListInvoicesResponse](httpClient, baseURL+ListInvoicesProcedure, opts...),
	}
}

func (c *InvoiceServiceClient) CreateInvoice(ctx context.Context, req *connect.Request[CreateInvoiceRequest]) (*connect.Response[ActionResponse], error) {
	return c.create.CallUnary(ctx, req)
}

func (c *InvoiceServiceClient) UpdateInvoice(ctx context.Context, req *connect.Request[UpdateInvoiceRequest]) (*connect.Response[ActionResponse], error) {
	return c.update.CallUnary(ctx, req)
}

func (c *InvoiceServiceClient) DeleteInvoice(ctx context.Context, req *connect.Request[DeleteInvoiceRequest]) (*connect.Response[ActionResponse], error) {
	return c.delete.CallUnary(ctx, req)
}

func (c *InvoiceServiceClient) ListInvoices(ctx context.Context, req *connect.Request[ListInvoicesRequest]) (*connect.Response[ListInvoicesResponse], error) {
	return c.list.CallUnary(ctx, req)
}

// AuthServiceClient calls AuthService over Connect.
type AuthServiceClient struct {
	login *connect.Client[LoginRequest, LoginResponse]
}

// NewAuthServiceClient creates a client for the server at baseURL.
func NewAuthServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *AuthServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(JSONCodec{})}, opts...)
	return &AuthServiceClient{
		login: connect.NewClient[LoginRequest, LoginResponse](httpClient, baseURL+LoginProcedure, opts...),
	}
}

func (c *AuthServiceClient) Login(ctx context.Context, req *connect.Request[LoginRequest]) (*connect.Response[LoginResponse], error) {
	return c.login.CallUnary(ctx, req)
}
