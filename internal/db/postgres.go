package db

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func ConnectPostgres(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_URL not set")
	}

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour

	db, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres connection failed: %w", err)
	}

	log.Println("✅ Connected to PostgreSQL")

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return db, nil
}

// WithTx runs fn inside a transaction, committing when fn returns nil.
func WithTx(ctx context.Context, db *pgxpool.Pool, fn func(tx pgx.Tx) error) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// initSchema creates or updates the database schema
func initSchema(ctx context.Context, db *pgxpool.Pool) error {
	statements := []struct {
		name string
		sql  string
	}{
		// -------------------------------
		// STAFF
		// -------------------------------
		{"users", `
			CREATE TABLE IF NOT EXISTS users (
				id UUID PRIMARY KEY,
				name VARCHAR(255) NOT NULL,
				pin_hash VARCHAR(255) NOT NULL,
				role VARCHAR(20) NOT NULL DEFAULT 'server',
				created_at TIMESTAMPTZ DEFAULT now()
			)
		`},

		// -------------------------------
		// MENU
		// -------------------------------
		{"menu_items", `
			CREATE TABLE IF NOT EXISTS menu_items (
				id UUID PRIMARY KEY,
				name VARCHAR(255) NOT NULL,
				price_cents BIGINT NOT NULL CHECK (price_cents >= 0),
				grp VARCHAR(20) NOT NULL,
				category VARCHAR(50) NOT NULL,
				is_available BOOLEAN NOT NULL DEFAULT TRUE,
				modifier_groups JSONB NOT NULL DEFAULT '[]',
				UNIQUE (grp, category, name)
			)
		`},

		// -------------------------------
		// TICKETS (one row per table / takeout slot)
		// -------------------------------
		{"tickets", `
			CREATE TABLE IF NOT EXISTS tickets (
				table_id VARCHAR(100) PRIMARY KEY,
				guest_count INT NOT NULL DEFAULT 0 CHECK (guest_count >= 0),
				items JSONB NOT NULL DEFAULT '[]',
				updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
			)
		`},

		// -------------------------------
		// KITCHEN
		// -------------------------------
		{"kitchen_orders", `
			CREATE TABLE IF NOT EXISTS kitchen_orders (
				id UUID PRIMARY KEY,
				number BIGINT NOT NULL,
				table_id VARCHAR(100) NOT NULL,
				server_name VARCHAR(255) NOT NULL,
				items JSONB NOT NULL,
				status VARCHAR(20) NOT NULL DEFAULT 'new',
				created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
			)
		`},
		{"kitchen_orders_status_idx", `
			CREATE INDEX IF NOT EXISTS kitchen_orders_status_idx
			ON kitchen_orders (status, created_at)
		`},
		{"kitchen_order_status_log", `
			CREATE TABLE IF NOT EXISTS kitchen_order_status_log (
				id BIGSERIAL PRIMARY KEY,
				order_id UUID NOT NULL REFERENCES kitchen_orders(id),
				from_status VARCHAR(20),
				to_status VARCHAR(20) NOT NULL,
				changed_at TIMESTAMPTZ NOT NULL DEFAULT now()
			)
		`},

		// -------------------------------
		// RECEIPTS (append only)
		// -------------------------------
		{"receipts", `
			CREATE TABLE IF NOT EXISTS receipts (
				id UUID PRIMARY KEY,
				table_id VARCHAR(100) NOT NULL,
				server_name VARCHAR(255) NOT NULL,
				items JSONB NOT NULL,
				subtotal_cents BIGINT NOT NULL,
				tax_cents BIGINT NOT NULL,
				tip_cents BIGINT NOT NULL,
				total_cents BIGINT NOT NULL,
				payment_method VARCHAR(50) NOT NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT now()
			)
		`},

		// -------------------------------
		// SETTINGS
		// -------------------------------
		{"settings", `
			CREATE TABLE IF NOT EXISTS settings (
				id VARCHAR(50) PRIMARY KEY,
				tax_rate NUMERIC(5,2) NOT NULL,
				tip1 INT NOT NULL,
				tip2 INT NOT NULL,
				tip3 INT NOT NULL,
				receipt_message TEXT NOT NULL DEFAULT ''
			)
		`},
	}

	for _, stmt := range statements {
		if _, err := db.Exec(ctx, stmt.sql); err != nil {
			return fmt.Errorf("%s: %w", stmt.name, err)
		}
	}

	log.Println("✅ Schema initialized successfully")
	return nil
}
