package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateRatingsTable, downCreateRatingsTable)
}

func upCreateRatingsTable(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS ratings (
			rating_id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
			restaurant_id TEXT NOT NULL REFERENCES restaurants(restaurant_id) ON DELETE CASCADE,
			rating_value DOUBLE PRECISION NOT NULL CHECK (rating_value BETWEEN 1 AND 5),
			rating_date TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now(),
			CONSTRAINT ratings_user_restaurant_key UNIQUE (user_id, restaurant_id)
		);

		CREATE INDEX IF NOT EXISTS idx_ratings_restaurant ON ratings(restaurant_id);
	`)
	return err
}

func downCreateRatingsTable(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS ratings;`)
	return err
}
