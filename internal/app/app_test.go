package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/invoicer/internal/auth"
	"github.com/mmynk/invoicer/internal/config"
	"github.com/mmynk/invoicer/internal/storage"
)

func newTestApp(t *testing.T) *App {
	t.Helper()

	t.Setenv("AUTH_SECRET", "test-secret")
	t.Setenv("DB_PATH", filepath.Join(t.TempDir(), "app.db"))
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("config.Load failed: %v", err)
	}

	a, err := New(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func TestHealth(t *testing.T) {
	a := newTestApp(t)
	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok":true`) {
		t.Errorf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestMetricsAfterLogin(t *testing.T) {
	a := newTestApp(t)
	if _, err := auth.Register(context.Background(), a.Store(), "user@nextmail.com", "User", "123456", bcrypt.MinCost); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	form := url.Values{"email": {"user@nextmail.com"}, "password": {"nope-nope"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("login status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), `invoicer_logins_total{outcome="rejected"} 1`) {
		t.Errorf("login rejection not counted:\n%s", rec.Body.String())
	}
}

func TestDashboardRedirectsToLogin(t *testing.T) {
	a := newTestApp(t)
	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard/invoices", nil))
	if rec.Code != http.StatusSeeOther || !strings.HasPrefix(rec.Header().Get("Location"), "/login") {
		t.Errorf("status = %d, Location = %q", rec.Code, rec.Header().Get("Location"))
	}
}

type closeErrStore struct {
	storage.Store
	err error
}

func (s closeErrStore) Close() error { return s.err }

func TestCloseReportsEveryFailure(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	rdb.Close()

	storeErr := errors.New("store busy")
	a := &App{redis: rdb, store: closeErrStore{err: storeErr}}

	err := a.Close()
	if !errors.Is(err, storeErr) {
		t.Errorf("expected store error, got %v", err)
	}
	if err == nil || !strings.Contains(err.Error(), "redis close") {
		t.Errorf("expected redis error, got %v", err)
	}

	if err := (&App{store: closeErrStore{}}).Close(); err != nil {
		t.Errorf("clean Close: %v", err)
	}
}
