package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateCatalogTables, downCreateCatalogTables)
}

func upCreateCatalogTables(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS restaurants (
			restaurant_id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			address TEXT,
			city TEXT,
			region TEXT,
			phone_number TEXT,
			website_url TEXT,
			avg_rating NUMERIC(2,1) NOT NULL DEFAULT 0,
			votes INTEGER NOT NULL DEFAULT 0 CHECK (votes >= 0),
			price_range INTEGER,
			dining_type TEXT,
			timings TEXT,
			rating_type TEXT
		);

		CREATE TABLE IF NOT EXISTS categories (
			category_id TEXT PRIMARY KEY,
			category_name TEXT NOT NULL UNIQUE
		);

		CREATE TABLE IF NOT EXISTS restaurant_categories (
			restaurant_id TEXT NOT NULL REFERENCES restaurants(restaurant_id) ON DELETE CASCADE,
			category_id TEXT NOT NULL REFERENCES categories(category_id) ON DELETE CASCADE,
			PRIMARY KEY (restaurant_id, category_id)
		);
	`)
	return err
}

func downCreateCatalogTables(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
		DROP TABLE IF EXISTS restaurant_categories;
		DROP TABLE IF EXISTS categories;
		DROP TABLE IF EXISTS restaurants;
	`)
	return err
}
