package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	"github.com/dinewise/backend/internal/domain/entities"
	"github.com/dinewise/backend/internal/domain/repositories"
	"github.com/dinewise/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/dinewise/backend/pkg/errors"
)

// ReviewAdapter implements the ReviewRepository interface
type ReviewAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewReviewAdapter creates a new review adapter
func NewReviewAdapter(client *postgres.Client) repositories.ReviewRepository {
	return &ReviewAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Upsert creates the review or replaces its text and date, keeping the
// review_id and helpful_count of an existing one
func (a *ReviewAdapter) Upsert(ctx context.Context, review *entities.Review) (*entities.ReviewSubmission, error) {
	ctx, cancel := a.client.WithTimeout(ctx)
	defer cancel()
	defer a.client.Observe(ctx, "reviews.upsert", time.Now())

	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	if review.ReviewedAt.IsZero() {
		review.ReviewedAt = time.Now().UTC()
	}

	query, args, err := a.db.Insert("reviews").
		Rows(goqu.Record{
			"review_id":     review.ID,
			"user_id":       review.UserID,
			"restaurant_id": review.RestaurantID,
			"review_text":   review.Text,
			"review_date":   review.ReviewedAt,
		}).
		OnConflict(goqu.DoUpdate("user_id, restaurant_id", goqu.Record{
			"review_text": goqu.L("EXCLUDED.review_text"),
			"review_date": goqu.L("EXCLUDED.review_date"),
		})).
		Returning(goqu.C("review_id"), goqu.L("(xmax = 0) AS inserted")).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build review upsert", err)
	}

	submission := &entities.ReviewSubmission{}
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(&submission.ReviewID, &submission.Created)
	if isForeignKeyViolation(err) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("restaurant %s not found", review.RestaurantID))
	}
	if err != nil {
		return nil, storageError(ctx, "failed to upsert review", err)
	}

	review.ID = submission.ReviewID
	return submission, nil
}

// IncrementHelpful bumps the helpful counter. Repeat calls count again.
func (a *ReviewAdapter) IncrementHelpful(ctx context.Context, reviewID string) (int, error) {
	ctx, cancel := a.client.WithTimeout(ctx)
	defer cancel()
	defer a.client.Observe(ctx, "reviews.helpful", time.Now())

	query, args, err := a.db.Update("reviews").
		Set(goqu.Record{"helpful_count": goqu.L("helpful_count + 1")}).
		Where(goqu.C("review_id").Eq(reviewID)).
		Returning(goqu.C("helpful_count")).
		Prepared(true).
		ToSQL()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to build helpful update", err)
	}

	var count int
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(&count)
	if err == sql.ErrNoRows {
		return 0, apperrors.NewNotFoundError(fmt.Sprintf("review %s not found", reviewID))
	}
	if err != nil {
		return 0, storageError(ctx, "failed to mark review helpful", err)
	}
	return count, nil
}

// ListByRestaurant retrieves reviews of a restaurant with the author's
// username, newest first
func (a *ReviewAdapter) ListByRestaurant(ctx context.Context, restaurantID string) ([]*entities.Review, error) {
	ds := a.db.From(goqu.T("reviews").As("rv")).
		Join(goqu.T("users").As("u"), goqu.On(goqu.I("u.user_id").Eq(goqu.I("rv.user_id")))).
		Select(
			goqu.I("rv.review_id"), goqu.I("rv.user_id"), goqu.I("u.username"), goqu.I("rv.restaurant_id"),
			goqu.L("''"), goqu.I("rv.review_text"), goqu.I("rv.review_date"), goqu.I("rv.helpful_count"),
		).
		Where(goqu.I("rv.restaurant_id").Eq(restaurantID))

	return a.list(ctx, "reviews.list_by_restaurant", ds)
}

// ListByUser retrieves reviews written by a user with the restaurant name,
// newest first
func (a *ReviewAdapter) ListByUser(ctx context.Context, userID string) ([]*entities.Review, error) {
	ds := a.db.From(goqu.T("reviews").As("rv")).
		Join(goqu.T("restaurants").As("r"), goqu.On(goqu.I("r.restaurant_id").Eq(goqu.I("rv.restaurant_id")))).
		Select(
			goqu.I("rv.review_id"), goqu.I("rv.user_id"), goqu.L("''"), goqu.I("rv.restaurant_id"),
			goqu.I("r.name"), goqu.I("rv.review_text"), goqu.I("rv.review_date"), goqu.I("rv.helpful_count"),
		).
		Where(goqu.I("rv.user_id").Eq(userID))

	return a.list(ctx, "reviews.list_by_user", ds)
}

func (a *ReviewAdapter) list(ctx context.Context, operation string, ds *goqu.SelectDataset) ([]*entities.Review, error) {
	ctx, cancel := a.client.WithTimeout(ctx)
	defer cancel()
	defer a.client.Observe(ctx, operation, time.Now())

	query, args, err := ds.
		Order(goqu.I("rv.review_date").Desc(), goqu.I("rv.review_id").Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build reviews query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageError(ctx, "failed to list reviews", err)
	}
	defer rows.Close()

	reviews := []*entities.Review{}
	for rows.Next() {
		review := &entities.Review{}
		if err := rows.Scan(
			&review.ID,
			&review.UserID,
			&review.Username,
			&review.RestaurantID,
			&review.RestaurantName,
			&review.Text,
			&review.ReviewedAt,
			&review.HelpfulCount,
		); err != nil {
			return nil, storageError(ctx, "failed to scan review", err)
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError(ctx, "failed to iterate reviews", err)
	}

	return reviews, nil
}

// CountByRestaurant counts the reviews of a restaurant
func (a *ReviewAdapter) CountByRestaurant(ctx context.Context, restaurantID string) (int, error) {
	ctx, cancel := a.client.WithTimeout(ctx)
	defer cancel()
	defer a.client.Observe(ctx, "reviews.count", time.Now())

	query, args, err := a.db.From("reviews").
		Select(goqu.COUNT("*")).
		Where(goqu.C("restaurant_id").Eq(restaurantID)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to build review count query", err)
	}

	var count int
	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, storageError(ctx, "failed to count reviews", err)
	}
	return count, nil
}
