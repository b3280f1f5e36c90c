package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/dinewise/backend/internal/domain/entities"
	"github.com/dinewise/backend/internal/domain/repositories"
	"github.com/dinewise/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/dinewise/backend/pkg/errors"
)

// AnalyticsAdapter implements the AnalyticsRepository interface
type AnalyticsAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewAnalyticsAdapter creates a new analytics adapter
func NewAnalyticsAdapter(client *postgres.Client) repositories.AnalyticsRepository {
	return &AnalyticsAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// TopRated retrieves restaurants with at least minVotes votes, best first
func (a *AnalyticsAdapter) TopRated(ctx context.Context, minVotes, limit int) ([]*entities.TopRatedRestaurant, error) {
	ctx, cancel := a.client.WithTimeout(ctx)
	defer cancel()
	defer a.client.Observe(ctx, "analytics.top_rated", time.Now())

	query, args, err := a.db.From("restaurants").
		Select("restaurant_id", "name", "city", "avg_rating", "votes").
		Where(goqu.C("votes").Gte(minVotes)).
		Order(goqu.C("avg_rating").Desc(), goqu.C("votes").Desc(), goqu.C("restaurant_id").Asc()).
		Limit(uint(limit)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build top-rated query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageError(ctx, "failed to load top-rated restaurants", err)
	}
	defer rows.Close()

	results := []*entities.TopRatedRestaurant{}
	for rows.Next() {
		item := &entities.TopRatedRestaurant{}
		var city sql.NullString
		if err := rows.Scan(&item.ID, &item.Name, &city, &item.AvgRating, &item.Votes); err != nil {
			return nil, storageError(ctx, "failed to scan top-rated restaurant", err)
		}
		item.City = city.String
		results = append(results, item)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError(ctx, "failed to iterate top-rated restaurants", err)
	}

	return results, nil
}

// CityStats summarizes every city, ordered by city name
func (a *AnalyticsAdapter) CityStats(ctx context.Context) ([]*entities.CityStats, error) {
	ctx, cancel := a.client.WithTimeout(ctx)
	defer cancel()
	defer a.client.Observe(ctx, "analytics.city_stats", time.Now())

	query, args, err := a.db.From("restaurants").
		Select(
			goqu.C("city"),
			goqu.COUNT("*").As("total_restaurants"),
			goqu.L("COALESCE(ROUND(AVG(avg_rating)::numeric, 2), 0)").As("avg_rating"),
			goqu.L("COALESCE(SUM(votes), 0)").As("total_votes"),
		).
		Where(goqu.C("city").IsNotNull()).
		GroupBy(goqu.C("city")).
		Order(goqu.C("city").Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build city stats query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageError(ctx, "failed to load city stats", err)
	}
	defer rows.Close()

	stats := []*entities.CityStats{}
	for rows.Next() {
		item := &entities.CityStats{}
		if err := rows.Scan(&item.City, &item.TotalRestaurants, &item.AvgRating, &item.TotalVotes); err != nil {
			return nil, storageError(ctx, "failed to scan city stats", err)
		}
		stats = append(stats, item)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError(ctx, "failed to iterate city stats", err)
	}

	return stats, nil
}
