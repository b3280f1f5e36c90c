package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dinewise/backend/internal/application/services"
	"github.com/dinewise/backend/internal/domain/entities"
	apperrors "github.com/dinewise/backend/pkg/errors"
)

func TestReviewService_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("empty text is rejected", func(t *testing.T) {
		repo := new(MockReviewRepository)
		service := services.NewReviewService(repo)

		_, err := service.Submit(ctx, "U1", "R1", "   ")

		assert.True(t, apperrors.Is(err, apperrors.ErrorTypeValidation))
		repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})

	t.Run("text is trimmed and upserted", func(t *testing.T) {
		repo := new(MockReviewRepository)
		service := services.NewReviewService(repo)

		repo.On("Upsert", mock.Anything, mock.MatchedBy(func(r *entities.Review) bool {
			return r.Text == "Great pasta" && r.UserID == "U1" && r.RestaurantID == "R1"
		})).Return(&entities.ReviewSubmission{ReviewID: "REV1", Created: true}, nil)

		submission, err := service.Submit(ctx, "U1", "R1", "  Great pasta ")

		require.NoError(t, err)
		assert.Equal(t, "REV1", submission.ReviewID)
		assert.True(t, submission.Created)
	})
}

func TestReviewService_MarkHelpful(t *testing.T) {
	repo := new(MockReviewRepository)
	service := services.NewReviewService(repo)

	repo.On("IncrementHelpful", mock.Anything, "REV1").Return(1, nil).Once()
	repo.On("IncrementHelpful", mock.Anything, "REV1").Return(2, nil).Once()
	repo.On("IncrementHelpful", mock.Anything, "missing").Return(0, apperrors.NewNotFoundError("review missing not found"))

	first, err := service.MarkHelpful(context.Background(), "REV1")
	require.NoError(t, err)
	second, err := service.MarkHelpful(context.Background(), "REV1")
	require.NoError(t, err)
	_, err = service.MarkHelpful(context.Background(), "missing")

	assert.Equal(t, 1, first)
	assert.Equal(t, 2, second)
	assert.True(t, apperrors.Is(err, apperrors.ErrorTypeNotFound))
}
