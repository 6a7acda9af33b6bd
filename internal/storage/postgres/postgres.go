// Package postgres provides a PostgreSQL implementation of storage.Store on pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mmynk/invoicer/internal/models"
	"github.com/mmynk/invoicer/internal/storage"
)

var _ storage.Store = (*Store)(nil)

// Store implements storage.Store using a pgx connection pool.
type Store struct {
	db *pgxpool.Pool
}

// New connects to dsn, pings the server and applies the schema.
func New(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("pg parse config: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MinConns = 2
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("pg connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg ping: %w", err)
	}

	if err := runMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg migrate: %w", err)
	}

	return &Store{db: pool}, nil
}

// Close closes the pool.
func (s *Store) Close() error {
	s.db.Close()
	return nil
}

// CreateInvoice inserts an invoice and reads back the ID the database assigned.
func (s *Store) CreateInvoice(ctx context.Context, inv *models.Invoice) error {
	query := `
		INSERT INTO invoices (customer_id, amount, status, date)
		VALUES ($1, $2, $3, $4)
		RETURNING id::text`
	err := s.db.QueryRow(ctx, query, inv.CustomerID, inv.Amount, string(inv.Status), inv.Date).Scan(&inv.ID)
	if err != nil {
		return fmt.Errorf("failed to insert invoice: %w", err)
	}
	return nil
}

// invoiceID converts id to the uuid key type so lookups use the primary key
// index. Text that is not a UUID cannot name any row.
func invoiceID(id string) (pgtype.UUID, bool) {
	u, err := uuid.Parse(id)
	if err != nil {
		return pgtype.UUID{}, false
	}
	return pgtype.UUID{Bytes: u, Valid: true}, true
}

// UpdateInvoice rewrites customer, amount and status. Updating an ID that
// matches no row is not an error.
func (s *Store) UpdateInvoice(ctx context.Context, inv *models.Invoice) error {
	id, ok := invoiceID(inv.ID)
	if !ok {
		return nil
	}
	query := `
		UPDATE invoices
		SET customer_id = $2, amount = $3, status = $4
		WHERE id = $1`
	if _, err := s.db.Exec(ctx, query, id, inv.CustomerID, inv.Amount, string(inv.Status)); err != nil {
		return fmt.Errorf("failed to update invoice: %w", err)
	}
	return nil
}

// DeleteInvoice hard-deletes an invoice. Deleting a missing ID succeeds.
func (s *Store) DeleteInvoice(ctx context.Context, id string) error {
	key, ok := invoiceID(id)
	if !ok {
		return nil
	}
	if _, err := s.db.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, key); err != nil {
		return fmt.Errorf("failed to delete invoice: %w", err)
	}
	return nil
}

// ListInvoices returns all invoices, newest first.
func (s *Store) ListInvoices(ctx context.Context) ([]models.Invoice, error) {
	query := `
		SELECT id::text, customer_id, amount, status, to_char(date, 'YYYY-MM-DD')
		FROM invoices
		ORDER BY date DESC, id`
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	var list []models.Invoice
	for rows.Next() {
		var inv models.Invoice
		var status string
		if err := rows.Scan(&inv.ID, &inv.CustomerID, &inv.Amount, &status, &inv.Date); err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		inv.Status = models.InvoiceStatus(status)
		list = append(list, inv)
	}
	return list, rows.Err()
}

// CreateUser inserts a user.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, name, email, password, created_at)
		VALUES ($1, $2, $3, $4, to_timestamp($5::bigint))`
	_, err := s.db.Exec(ctx, query, user.ID, user.Name, user.Email, user.PasswordHash, user.CreatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("email %s already registered: %w", user.Email, err)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUserByEmail returns nil, nil when no user matches.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id::text, name, email, password, extract(epoch FROM created_at)::bigint
		FROM users
		WHERE email = $1`
	u := &models.User{}
	err := s.db.QueryRow(ctx, query, email).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return u, nil
}

// IsUniqueViolation reports whether err is a PostgreSQL unique constraint violation (code 23505).
func IsUniqueViolation(err error) bool {
	var pge *pgconn.PgError
	if errors.As(err, &pge) {
		return pge.Code == "23505"
	}
	return false
}
