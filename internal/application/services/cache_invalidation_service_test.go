package services_test

import (
	"context"
	"errors"
	"path"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dinewise/backend/internal/application/services"
	"github.com/dinewise/backend/internal/domain/providers"
)

func TestCacheInvalidationService_InvalidateCatalog(t *testing.T) {
	cache := new(MockCacheProvider)
	service := services.NewCacheInvalidationService(cache)

	swept := make(chan string, 1)
	cache.On("Incr", mock.Anything, providers.CatalogGenerationKey).Return(int64(8), nil)
	cache.On("DeletePattern", mock.Anything, "catalog:7:*").
		Run(func(args mock.Arguments) { swept <- args.String(1) }).
		Return(nil)

	err := service.InvalidateCatalog(context.Background())
	require.NoError(t, err)

	select {
	case pattern := <-swept:
		assert.Equal(t, "catalog:7:*", pattern)
	case <-time.After(time.Second):
		t.Fatal("previous generation was not swept")
	}
	service.Stop()
}

func TestCacheInvalidationService_InvalidateCatalog_PurgesWhenBumpFails(t *testing.T) {
	cache := new(MockCacheProvider)
	service := services.NewCacheInvalidationService(cache)
	defer service.Stop()

	cache.On("Incr", mock.Anything, providers.CatalogGenerationKey).Return(int64(0), errors.New("READONLY"))
	cache.On("DeletePattern", mock.Anything, providers.CatalogEntryPattern).Return(nil)

	err := service.InvalidateCatalog(context.Background())

	require.NoError(t, err)
	cache.AssertExpectations(t)
	cache.AssertNotCalled(t, "DeletePattern", mock.Anything, "catalog:*")
}

func TestCacheInvalidationService_InvalidateCatalog_FailsWhenPurgeFails(t *testing.T) {
	cache := new(MockCacheProvider)
	service := services.NewCacheInvalidationService(cache)
	defer service.Stop()

	cache.On("Incr", mock.Anything, providers.CatalogGenerationKey).Return(int64(0), errors.New("redis down"))
	cache.On("DeletePattern", mock.Anything, providers.CatalogEntryPattern).Return(errors.New("redis down"))

	err := service.InvalidateCatalog(context.Background())

	assert.Error(t, err)
}

func TestCatalogEntryPattern_SparesGenerationCounter(t *testing.T) {
	matches := func(key string) bool {
		ok, err := path.Match(providers.CatalogEntryPattern, key)
		require.NoError(t, err)
		return ok
	}

	assert.True(t, matches(providers.CatalogKey(0, "restaurant", "R1")))
	assert.True(t, matches(providers.CatalogKey(12, "list", "abc")))
	assert.False(t, matches(providers.CatalogGenerationKey))
}
