// Package metrics exposes Prometheus counters for invoice actions and sign-ins.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels.
const (
	OutcomeOK              = "ok"
	OutcomeValidationError = "validation_error"
	OutcomeDatabaseError   = "database_error"
	OutcomeRejected        = "rejected"
	OutcomeAuthError       = "auth_error"
	OutcomeError           = "error"
)

// Metrics holds the service's collectors. A nil *Metrics records nothing.
type Metrics struct {
	invoiceActions *prometheus.CounterVec
	logins         *prometheus.CounterVec
	revalidations  *prometheus.CounterVec
	viewCache      *prometheus.CounterVec
	gatherer       prometheus.Gatherer
}

// New registers the collectors on reg.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		invoiceActions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "invoicer",
			Name:      "invoice_actions_total",
			Help:      "Invoice create/update/delete calls by outcome.",
		}, []string{"action", "outcome"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "invoicer",
			Name:      "logins_total",
			Help:      "Credential sign-in attempts by outcome.",
		}, []string{"outcome"}),
		revalidations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "invoicer",
			Name:      "revalidations_total",
			Help:      "Cache invalidation signals by path and result.",
		}, []string{"path", "result"}),
		viewCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "invoicer",
			Name:      "view_cache_lookups_total",
			Help:      "Listing view cache lookups by result.",
		}, []string{"result"}),
		gatherer: reg,
	}
	reg.MustRegister(m.invoiceActions, m.logins, m.revalidations, m.viewCache)
	return m
}

// InvoiceAction counts one invoice mutation.
func (m *Metrics) InvoiceAction(action, outcome string) {
	if m == nil {
		return
	}
	m.invoiceActions.WithLabelValues(action, outcome).Inc()
}

// Login counts one sign-in attempt.
func (m *Metrics) Login(outcome string) {
	if m == nil {
		return
	}
	m.logins.WithLabelValues(outcome).Inc()
}

// Revalidation counts one invalidation signal.
func (m *Metrics) Revalidation(path string, err error) {
	if m == nil {
		return
	}
	result := OutcomeOK
	if err != nil {
		result = OutcomeError
	}
	m.revalidations.WithLabelValues(path, result).Inc()
}

// ViewCacheLookup counts a listing cache hit or miss.
func (m *Metrics) ViewCacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.viewCache.WithLabelValues(result).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
