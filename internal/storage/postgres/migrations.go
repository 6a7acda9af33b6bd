package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema mirrors the hosted tables the dashboard was built against:
// UUID ids generated by the database and a DATE column for invoices.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    name VARCHAR(255) NOT NULL,
    email TEXT NOT NULL UNIQUE,
    password TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS invoices (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    customer_id TEXT NOT NULL,
    amount BIGINT NOT NULL,
    status VARCHAR(255) NOT NULL CHECK (status IN ('pending', 'paid')),
    date DATE NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_invoices_date ON invoices(date);
`

func runMigrations(ctx context.Context, db *pgxpool.Pool) error {
	_, err := db.Exec(ctx, schema)
	return err
}
