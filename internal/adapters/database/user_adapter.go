package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/dinewise/backend/internal/domain/entities"
	"github.com/dinewise/backend/internal/domain/repositories"
	"github.com/dinewise/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/dinewise/backend/pkg/errors"
)

// UserAdapter implements the UserRepository interface
type UserAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewUserAdapter creates a new user adapter
func NewUserAdapter(client *postgres.Client) repositories.UserRepository {
	return &UserAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var userColumns = []interface{}{"user_id", "username", "email", "role", "registration_date"}

// GetByID retrieves a user by ID
func (a *UserAdapter) GetByID(ctx context.Context, id string) (*entities.User, error) {
	return a.getOne(ctx, goqu.Ex{"user_id": id}, fmt.Sprintf("user %s not found", id))
}

// GetByEmail retrieves a user by email
func (a *UserAdapter) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	return a.getOne(ctx, goqu.Ex{"email": email}, "user not found")
}

func (a *UserAdapter) getOne(ctx context.Context, where goqu.Ex, notFound string) (*entities.User, error) {
	ctx, cancel := a.client.WithTimeout(ctx)
	defer cancel()
	defer a.client.Observe(ctx, "users.get", time.Now())

	query, args, err := a.db.From("users").
		Select(userColumns...).
		Where(where).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build user query", err)
	}

	user := &entities.User{}
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Role,
		&user.RegistrationDate,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(notFound)
	}
	if err != nil {
		return nil, storageError(ctx, "failed to get user", err)
	}
	return user, nil
}

// Update writes username and email
func (a *UserAdapter) Update(ctx context.Context, user *entities.User) error {
	ctx, cancel := a.client.WithTimeout(ctx)
	defer cancel()
	defer a.client.Observe(ctx, "users.update", time.Now())

	query, args, err := a.db.Update("users").
		Set(goqu.Record{
			"username": user.Username,
			"email":    user.Email,
		}).
		Where(goqu.C("user_id").Eq(user.ID)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build user update", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflictError("email already in use")
		}
		return storageError(ctx, "failed to update user", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return storageError(ctx, "failed to read update result", err)
	}
	if affected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("user %s not found", user.ID))
	}
	return nil
}

// Stats computes rating and review counts and the city the user rated most
func (a *UserAdapter) Stats(ctx context.Context, userID string) (*entities.ProfileStats, error) {
	ctx, cancel := a.client.WithTimeout(ctx)
	defer cancel()
	defer a.client.Observe(ctx, "users.stats", time.Now())

	query, args, err := a.db.Select(
		goqu.L("(SELECT COUNT(*) FROM ratings WHERE user_id = ?)", userID).As("ratings_count"),
		goqu.L("(SELECT COUNT(*) FROM reviews WHERE user_id = ?)", userID).As("reviews_count"),
		goqu.L(`COALESCE((SELECT r.city FROM ratings rt `+
			`JOIN restaurants r ON r.restaurant_id = rt.restaurant_id `+
			`WHERE rt.user_id = ? AND r.city IS NOT NULL `+
			`GROUP BY r.city ORDER BY COUNT(*) DESC, r.city ASC LIMIT 1), '')`, userID).As("favorite_city"),
	).Prepared(true).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build stats query", err)
	}

	stats := &entities.ProfileStats{}
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&stats.RatingsCount,
		&stats.ReviewsCount,
		&stats.FavoriteCity,
	)
	if err != nil {
		return nil, storageError(ctx, "failed to compute user stats", err)
	}
	return stats, nil
}
