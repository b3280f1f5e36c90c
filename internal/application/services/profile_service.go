package services

import (
	"context"
	"strings"

	"github.com/dinewise/backend/internal/domain/entities"
	"github.com/dinewise/backend/internal/domain/repositories"
	"github.com/dinewise/backend/internal/infrastructure/observability"
	apperrors "github.com/dinewise/backend/pkg/errors"
)

// ProfileService manages the authenticated user's own record
type ProfileService struct {
	users   repositories.UserRepository
	ratings repositories.RatingRepository
	reviews repositories.ReviewRepository
}

// NewProfileService creates a new profile service
func NewProfileService(
	users repositories.UserRepository,
	ratings repositories.RatingRepository,
	reviews repositories.ReviewRepository,
) *ProfileService {
	return &ProfileService{
		users:   users,
		ratings: ratings,
		reviews: reviews,
	}
}

// GetProfile returns the user with activity stats
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*entities.UserProfile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats, err := s.users.Stats(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &entities.UserProfile{User: *user, Stats: *stats}, nil
}

// UpdateProfile changes username and/or email
func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, update entities.ProfileUpdate) (*entities.User, error) {
	if update.Username == nil && update.Email == nil {
		return nil, apperrors.NewValidationError("no fields to update")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.Username != nil {
		username := strings.TrimSpace(*update.Username)
		if username == "" {
			return nil, apperrors.NewValidationError("username cannot be empty")
		}
		user.Username = username
	}

	if update.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*update.Email))
		if email == "" {
			return nil, apperrors.NewValidationError("email cannot be empty")
		}
		if email != user.Email {
			existing, err := s.users.GetByEmail(ctx, email)
			switch {
			case err == nil && existing.ID != userID:
				return nil, apperrors.NewConflictError("email already in use")
			case err != nil && !apperrors.Is(err, apperrors.ErrorTypeNotFound):
				return nil, err
			}
		}
		user.Email = email
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	observability.LoggerFromContext(ctx).Info().Str("user_id", userID).Msg("profile updated")
	return user, nil
}

// Activity lists the user's ratings and reviews, newest first
func (s *ProfileService) Activity(ctx context.Context, userID string) (*entities.UserActivity, error) {
	ratings, err := s.ratings.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	reviews, err := s.reviews.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &entities.UserActivity{Ratings: ratings, Reviews: reviews}, nil
}
