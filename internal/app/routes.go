package app

import (
	"encoding/json"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/invoicer/internal/actions"
	"github.com/mmynk/invoicer/internal/auth"
	"github.com/mmynk/invoicer/internal/dashboard"
	"github.com/mmynk/invoicer/internal/handlers"
	"github.com/mmynk/invoicer/internal/middleware"
	"github.com/mmynk/invoicer/internal/service"
)

func (a *App) routes() http.Handler {
	tokens := auth.NewJWTManager(a.cfg.Auth.Secret, a.cfg.Auth.SessionTTL.Duration())
	framework := auth.NewFramework(tokens, auth.NewCredentialsProvider(a.store, a.logger))

	invoiceActions := actions.NewInvoiceActions(a.store, a.views, a.metrics, a.logger)
	login := actions.NewLogin(framework.SignIn, a.metrics, a.logger)
	listing := dashboard.New(a.store, a.views, a.metrics, a.logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", a.health)
	mux.Handle("GET /metrics", a.metrics.Handler())

	forms := handlers.New(invoiceActions, login, listing, a.logger, a.cfg.App.Production())
	forms.Register(mux, middleware.RequireSession(tokens, handlers.LoginPath))

	logging := middleware.LoggingInterceptor(a.logger)
	mux.Handle(service.NewInvoiceServiceHandler(
		service.NewInvoiceService(invoiceActions, listing, a.logger),
		connect.WithInterceptors(logging, middleware.RequireAuth(tokens)),
	))
	mux.Handle(service.NewAuthServiceHandler(
		service.NewAuthService(login, a.logger),
		connect.WithInterceptors(logging),
	))

	return middleware.RequestLogger(a.logger)(middleware.CORS(mux))
}

func (a *App) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"ok": true, "env": a.cfg.App.Env})
}
