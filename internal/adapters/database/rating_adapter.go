package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"

	"github.com/dinewise/backend/internal/domain/entities"
	"github.com/dinewise/backend/internal/domain/repositories"
	"github.com/dinewise/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/dinewise/backend/pkg/errors"
)

// RatingAdapter implements the RatingRepository interface
type RatingAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewRatingAdapter creates a new rating adapter
func NewRatingAdapter(client *postgres.Client) repositories.RatingRepository {
	return &RatingAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Submit upserts the rating and recomputes the restaurant aggregate in one
// transaction. The restaurant row is locked first, so concurrent writers to
// the same restaurant recompute one after another and the last committer
// sees every committed rating.
func (a *RatingAdapter) Submit(ctx context.Context, rating *entities.Rating) (*entities.RatingSubmission, error) {
	defer a.client.Observe(ctx, "ratings.submit", time.Now())

	if rating.RatedAt.IsZero() {
		rating.RatedAt = time.Now().UTC()
	}
	newID := rating.ID
	if newID == "" {
		newID = uuid.New().String()
	}

	submission := &entities.RatingSubmission{
		RestaurantID: rating.RestaurantID,
		Value:        rating.Value,
	}

	err := a.client.WithTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := a.lockRestaurant(ctx, tx, rating.RestaurantID); err != nil {
			return err
		}

		ratingID, created, err := a.upsert(ctx, tx, newID, rating)
		if err != nil {
			return err
		}

		aggregate, err := a.recomputeAggregate(ctx, tx, rating.RestaurantID)
		if err != nil {
			return err
		}

		submission.RatingID = ratingID
		submission.Created = created
		submission.Aggregate = *aggregate
		return nil
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, storageError(ctx, "failed to submit rating", err)
	}

	rating.ID = submission.RatingID
	return submission, nil
}

func (a *RatingAdapter) lockRestaurant(ctx context.Context, tx *sql.Tx, restaurantID string) error {
	query, args, err := a.db.From("restaurants").
		Select("restaurant_id").
		Where(goqu.C("restaurant_id").Eq(restaurantID)).
		ForUpdate(exp.Wait).
		Prepared(true).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build lock query", err)
	}

	var id string
	err = tx.QueryRowContext(ctx, query, args...).Scan(&id)
	if err == sql.ErrNoRows {
		return apperrors.NewNotFoundError(fmt.Sprintf("restaurant %s not found", restaurantID))
	}
	if err != nil {
		return storageError(ctx, "failed to lock restaurant", err)
	}
	return nil
}

// upsert keeps the existing rating_id on conflict. xmax is zero only for
// a freshly inserted tuple.
func (a *RatingAdapter) upsert(ctx context.Context, tx *sql.Tx, newID string, rating *entities.Rating) (string, bool, error) {
	query, args, err := a.db.Insert("ratings").
		Rows(goqu.Record{
			"rating_id":     newID,
			"user_id":       rating.UserID,
			"restaurant_id": rating.RestaurantID,
			"rating_value":  rating.Value,
			"rating_date":   rating.RatedAt,
		}).
		OnConflict(goqu.DoUpdate("user_id, restaurant_id", goqu.Record{
			"rating_value": goqu.L("EXCLUDED.rating_value"),
			"rating_date":  goqu.L("EXCLUDED.rating_date"),
		})).
		Returning(goqu.C("rating_id"), goqu.L("(xmax = 0) AS inserted")).
		Prepared(true).
		ToSQL()
	if err != nil {
		return "", false, apperrors.NewInternalError("failed to build rating upsert", err)
	}

	var ratingID string
	var created bool
	err = tx.QueryRowContext(ctx, query, args...).Scan(&ratingID, &created)
	if isForeignKeyViolation(err) {
		return "", false, apperrors.NewNotFoundError("user or restaurant not found")
	}
	if err != nil {
		return "", false, storageError(ctx, "failed to upsert rating", err)
	}
	return ratingID, created, nil
}

func (a *RatingAdapter) recomputeAggregate(ctx context.Context, tx *sql.Tx, restaurantID string) (*entities.RatingAggregate, error) {
	query, args, err := a.db.Update("restaurants").
		Set(goqu.Record{
			"avg_rating": goqu.L("(SELECT COALESCE(ROUND(AVG(rating_value)::numeric, 1), 0) FROM ratings WHERE restaurant_id = ?)", restaurantID),
			"votes":      goqu.L("(SELECT COUNT(*) FROM ratings WHERE restaurant_id = ?)", restaurantID),
		}).
		Where(goqu.C("restaurant_id").Eq(restaurantID)).
		Returning(goqu.C("avg_rating"), goqu.C("votes")).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build aggregate update", err)
	}

	aggregate := &entities.RatingAggregate{}
	err = tx.QueryRowContext(ctx, query, args...).Scan(&aggregate.AvgRating, &aggregate.Votes)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewStorageError(
			fmt.Sprintf("aggregate recomputation for restaurant %s updated no rows", restaurantID), err)
	}
	if err != nil {
		return nil, storageError(ctx, "failed to recompute restaurant aggregate", err)
	}
	return aggregate, nil
}

// ListByUser retrieves a user's ratings, newest first
func (a *RatingAdapter) ListByUser(ctx context.Context, userID string) ([]*entities.Rating, error) {
	ctx, cancel := a.client.WithTimeout(ctx)
	defer cancel()
	defer a.client.Observe(ctx, "ratings.list_by_user", time.Now())

	query, args, err := a.db.From(goqu.T("ratings").As("rt")).
		Join(goqu.T("restaurants").As("r"), goqu.On(goqu.I("r.restaurant_id").Eq(goqu.I("rt.restaurant_id")))).
		Select(
			goqu.I("rt.rating_id"), goqu.I("rt.restaurant_id"), goqu.I("r.name"),
			goqu.I("rt.rating_value"), goqu.I("rt.rating_date"),
		).
		Where(goqu.I("rt.user_id").Eq(userID)).
		Order(goqu.I("rt.rating_date").Desc(), goqu.I("rt.rating_id").Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build ratings query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageError(ctx, "failed to list ratings", err)
	}
	defer rows.Close()

	ratings := []*entities.Rating{}
	for rows.Next() {
		rating := &entities.Rating{UserID: userID}
		if err := rows.Scan(
			&rating.ID,
			&rating.RestaurantID,
			&rating.RestaurantName,
			&rating.Value,
			&rating.RatedAt,
		); err != nil {
			return nil, storageError(ctx, "failed to scan rating", err)
		}
		ratings = append(ratings, rating)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError(ctx, "failed to iterate ratings", err)
	}

	return ratings, nil
}

// Distribution buckets the ratings of a restaurant by whole star. A
// restaurant without ratings, known or not, yields a zero-filled result.
func (a *RatingAdapter) Distribution(ctx context.Context, restaurantID string) (*entities.RatingDistribution, error) {
	ctx, cancel := a.client.WithTimeout(ctx)
	defer cancel()
	defer a.client.Observe(ctx, "ratings.distribution", time.Now())

	query, args, err := a.db.From("ratings").
		Select(
			goqu.L("FLOOR(rating_value)::int").As("bucket"),
			goqu.COUNT("*"),
			goqu.SUM("rating_value"),
		).
		Where(goqu.C("restaurant_id").Eq(restaurantID)).
		GroupBy(goqu.I("bucket")).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build distribution query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageError(ctx, "failed to load rating distribution", err)
	}
	defer rows.Close()

	distribution := entities.NewRatingDistribution()
	var sum float64
	for rows.Next() {
		var bucket, count int
		var bucketSum float64
		if err := rows.Scan(&bucket, &count, &bucketSum); err != nil {
			return nil, storageError(ctx, "failed to scan distribution bucket", err)
		}
		distribution.Distribution[entities.HistogramBucket(float64(bucket))] += count
		distribution.Total += count
		sum += bucketSum
	}
	if err := rows.Err(); err != nil {
		return nil, storageError(ctx, "failed to iterate distribution", err)
	}

	if distribution.Total > 0 {
		distribution.AvgRating = entities.RoundTo(sum/float64(distribution.Total), 1)
	}
	return distribution, nil
}
