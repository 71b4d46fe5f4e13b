package main

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gostorefront/storefront/internal/user"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		email VARCHAR(255) NOT NULL UNIQUE,
		name VARCHAR(120) NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		is_admin BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id UUID PRIMARY KEY,
		name VARCHAR(200) NOT NULL,
		description TEXT,
		price NUMERIC(10,2) NOT NULL,
		stock INTEGER NOT NULL DEFAULT 0,
		image_url VARCHAR(500),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(id),
		total_amount NUMERIC(10,2) NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	// product_id is a plain column, not a foreign key: deleting a product
	// must leave historical items dangling rather than fail or cascade.
	`CREATE TABLE IF NOT EXISTS order_items (
		id UUID PRIMARY KEY,
		order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		product_id UUID NOT NULL,
		quantity INTEGER NOT NULL DEFAULT 1,
		unit_price NUMERIC(10,2) NOT NULL
	)`,
}

// initSchema creates the four tables, an admin account and a couple of
// sample products so a fresh install is browsable immediately.
func initSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}

	hash, err := user.HashPassword("admin123")
	if err != nil {
		return err
	}
	if _, err := pool.Exec(ctx, `
		INSERT INTO users (id, email, name, password_hash, is_admin, created_at)
		VALUES ($1, 'admin@example.com', 'Admin', $2, TRUE, NOW())
		ON CONFLICT (email) DO NOTHING
	`, uuid.NewString(), hash); err != nil {
		return err
	}

	var count int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	samples := []struct {
		name, desc, price string
		stock             int
	}{
		{"Wireless Headphones", "Noise-cancelling over-ear headphones.", "49.99", 20},
		{"Mechanical Keyboard", "RGB backlit, hot-swappable switches.", "69.99", 15},
		{"Smart Watch", "Heart-rate, GPS, 7-day battery.", "79.99", 30},
		{"USB-C Hub", "8-in-1 HDMI/PD/USB/SD.", "24.99", 50},
	}
	for _, s := range samples {
		if _, err := pool.Exec(ctx, `
			INSERT INTO products (id, name, description, price, stock, created_at)
			VALUES ($1,$2,$3,$4,$5,NOW())
		`, uuid.NewString(), s.name, s.desc, s.price, s.stock); err != nil {
			return err
		}
	}
	return nil
}
