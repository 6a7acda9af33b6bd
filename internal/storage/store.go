// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/mmynk/invoicer/internal/models"
)

// InvoiceStore defines invoice persistence. Each method issues a single
// statement; there is no existence check and no multi-statement transaction.
type InvoiceStore interface {
	// CreateInvoice inserts inv. The store assigns inv.ID.
	CreateInvoice(ctx context.Context, inv *models.Invoice) error

	// UpdateInvoice sets customer, amount and status for inv.ID.
	// The date is left untouched. Updating a missing ID is not an error.
	UpdateInvoice(ctx context.Context, inv *models.Invoice) error

	// DeleteInvoice removes the invoice. Deleting a missing ID is not an error.
	DeleteInvoice(ctx context.Context, id string) error

	// ListInvoices returns all invoices, newest date first.
	ListInvoices(ctx context.Context) ([]models.Invoice, error)
}

// UserStorage defines user lookups and provisioning.
type UserStorage interface {
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail returns nil, nil when no user has exactly this email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// Store is the full storage backend.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL)
// without changing the action layer.
type Store interface {
	InvoiceStore
	UserStorage

	// Close releases any resources held by the store.
	Close() error
}
