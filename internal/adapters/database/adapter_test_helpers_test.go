package database

import (
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/dinewise/backend/internal/infrastructure/clients/postgres"
)

func newMockClient(t *testing.T) (*postgres.Client, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return postgres.NewFromDB(db, time.Second), mock
}

var restaurantRowColumns = []string{
	"restaurant_id", "name", "address", "city", "region", "phone_number", "website_url",
	"avg_rating", "price_range", "dining_type", "timings", "votes", "rating_type",
}

// limitIs accepts both an inlined and a placeholder-bound LIMIT
func limitIs(query string, args []interface{}, want int) bool {
	if regexpContains(query, fmt.Sprintf(`LIMIT %d\b`, want)) {
		return true
	}
	for _, arg := range args {
		if fmt.Sprint(arg) == fmt.Sprint(want) {
			return true
		}
	}
	return false
}
