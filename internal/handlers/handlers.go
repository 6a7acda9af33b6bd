// Package handlers serves the browser form actions over plain HTTP.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/mmynk/invoicer/internal/actions"
	"github.com/mmynk/invoicer/internal/auth"
	"github.com/mmynk/invoicer/internal/dashboard"
	"github.com/mmynk/invoicer/internal/validation"
)

const (
	LoginPath  = "/login"
	LogoutPath = "/logout"

	maxFormMemory = 1 << 20
)

// Handlers adapts the actions to HTTP form posts.
type Handlers struct {
	invoices      *actions.InvoiceActions
	login         *actions.Login
	dashboard     *dashboard.Dashboard
	logger        *slog.Logger
	secureCookies bool
}

// New creates the form handlers. secureCookies marks the session cookie
// Secure, which browsers only send over HTTPS.
func New(invoices *actions.InvoiceActions, login *actions.Login, d *dashboard.Dashboard, logger *slog.Logger, secureCookies bool) *Handlers {
	return &Handlers{
		invoices:      invoices,
		login:         login,
		dashboard:     d,
		logger:        logger,
		secureCookies: secureCookies,
	}
}

// Register mounts the routes on mux. Dashboard routes go through guard.
func (h *Handlers) Register(mux *http.ServeMux, guard func(http.Handler) http.Handler) {
	mux.Handle("GET "+dashboard.InvoicesPath, guard(http.HandlerFunc(h.ListInvoices)))
	mux.Handle("POST "+dashboard.InvoicesPath+"/create", guard(http.HandlerFunc(h.CreateInvoice)))
	mux.Handle("POST "+dashboard.InvoicesPath+"/{id}/update", guard(http.HandlerFunc(h.UpdateInvoice)))
	mux.Handle("POST "+dashboard.InvoicesPath+"/{id}/delete", guard(http.HandlerFunc(h.DeleteInvoice)))
	mux.HandleFunc("POST "+LoginPath, h.Login)
	mux.HandleFunc("POST "+LogoutPath, h.Logout)
}

func (h *Handlers) ListInvoices(w http.ResponseWriter, r *http.Request) {
	b, err := h.dashboard.Invoices(r.Context())
	if err != nil {
		h.logger.Error("ListInvoices failed", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(b)
}

func (h *Handlers) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	form, ok := h.parseForm(w, r)
	if !ok {
		return
	}
	h.writeResult(w, r, h.invoices.CreateInvoice(r.Context(), form))
}

func (h *Handlers) UpdateInvoice(w http.ResponseWriter, r *http.Request) {
	form, ok := h.parseForm(w, r)
	if !ok {
		return
	}
	h.writeResult(w, r, h.invoices.UpdateInvoice(r.Context(), r.PathValue("id"), form))
}

func (h *Handlers) DeleteInvoice(w http.ResponseWriter, r *http.Request) {
	h.writeResult(w, r, h.invoices.DeleteInvoice(r.Context(), r.PathValue("id")))
}

// Login runs the credential sign-in. On success the session token is set as
// a cookie and the browser is sent to the requested page.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	form, ok := h.parseForm(w, r)
	if !ok {
		return
	}
	if _, set := form["redirectTo"]; !set {
		if cb := r.URL.Query().Get("callbackUrl"); cb != "" {
			form["redirectTo"] = cb
		}
	}

	res, err := h.login.Authenticate(r.Context(), "", form)
	if err != nil {
		h.logger.Error("Login failed", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if res.Session == nil {
		status := http.StatusInternalServerError
		if res.Message == actions.MsgInvalidCredentials {
			status = http.StatusUnauthorized
		}
		writeJSON(w, status, actions.State{Message: res.Message})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    res.Session.Token,
		Path:     "/",
		Expires:  res.Session.ExpiresAt,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, res.Session.RedirectTo, http.StatusSeeOther)
}

// Logout clears the session cookie.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, LoginPath, http.StatusSeeOther)
}

// parseForm accepts urlencoded and multipart bodies.
func (h *Handlers) parseForm(w http.ResponseWriter, r *http.Request) (validation.Form, bool) {
	if err := r.ParseMultipartForm(maxFormMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		http.Error(w, "malformed form body", http.StatusBadRequest)
		return nil, false
	}
	return validation.FormFromValues(r.PostForm), true
}

func (h *Handlers) writeResult(w http.ResponseWriter, r *http.Request, res actions.Result) {
	switch {
	case res.Failed() && len(res.State.Errors) > 0:
		writeJSON(w, http.StatusUnprocessableEntity, res.State)
	case res.Failed():
		writeJSON(w, http.StatusInternalServerError, res.State)
	case res.Redirect != "":
		http.Redirect(w, r, res.Redirect, http.StatusSeeOther)
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
