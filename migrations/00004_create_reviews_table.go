package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateReviewsTable, downCreateReviewsTable)
}

func upCreateReviewsTable(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS reviews (
			review_id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
			restaurant_id TEXT NOT NULL REFERENCES restaurants(restaurant_id) ON DELETE CASCADE,
			review_text TEXT NOT NULL CHECK (length(review_text) > 0),
			review_date TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
			helpful_count INTEGER NOT NULL DEFAULT 0,
			CONSTRAINT reviews_user_restaurant_key UNIQUE (user_id, restaurant_id)
		);

		CREATE INDEX IF NOT EXISTS idx_reviews_restaurant ON reviews(restaurant_id);
	`)
	return err
}

func downCreateReviewsTable(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS reviews;`)
	return err
}
