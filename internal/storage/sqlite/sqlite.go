// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/invoicer/internal/models"
	"github.com/mmynk/invoicer/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateInvoice inserts a new invoice, generating its ID if unset.
func (s *SQLiteStore) CreateInvoice(ctx context.Context, inv *models.Invoice) error {
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO invoices (id, customer_id, amount, status, date) VALUES (?, ?, ?, ?, ?)",
		inv.ID, inv.CustomerID, inv.Amount, string(inv.Status), inv.Date,
	)
	if err != nil {
		return fmt.Errorf("failed to insert invoice: %w", err)
	}
	return nil
}

// UpdateInvoice rewrites the editable columns of an invoice.
func (s *SQLiteStore) UpdateInvoice(ctx context.Context, inv *models.Invoice) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE invoices SET customer_id = ?, amount = ?, status = ? WHERE id = ?",
		inv.CustomerID, inv.Amount, string(inv.Status), inv.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update invoice: %w", err)
	}
	return nil
}

// DeleteInvoice hard-deletes an invoice by ID.
func (s *SQLiteStore) DeleteInvoice(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM invoices WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete invoice: %w", err)
	}
	return nil
}

// ListInvoices returns every invoice, newest first.
func (s *SQLiteStore) ListInvoices(ctx context.Context) ([]models.Invoice, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, customer_id, amount, status, date FROM invoices ORDER BY date DESC, id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	var invoices []models.Invoice
	for rows.Next() {
		var inv models.Invoice
		var status string
		if err := rows.Scan(&inv.ID, &inv.CustomerID, &inv.Amount, &status, &inv.Date); err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		inv.Status = models.InvoiceStatus(status)
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate invoices: %w", err)
	}

	return invoices, nil
}
