package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upAddCatalogIndexes, downAddCatalogIndexes)
}

// Listing order is avg_rating DESC, votes DESC, restaurant_id ASC.
func upAddCatalogIndexes(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS idx_restaurants_ranking
			ON restaurants (avg_rating DESC, votes DESC, restaurant_id);
		CREATE INDEX IF NOT EXISTS idx_restaurants_city ON restaurants (city);
		CREATE INDEX IF NOT EXISTS idx_restaurant_categories_category
			ON restaurant_categories (category_id);
	`)
	return err
}

func downAddCatalogIndexes(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
		DROP INDEX IF EXISTS idx_restaurant_categories_category;
		DROP INDEX IF EXISTS idx_restaurants_city;
		DROP INDEX IF EXISTS idx_restaurants_ranking;
	`)
	return err
}
