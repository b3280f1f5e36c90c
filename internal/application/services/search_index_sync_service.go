package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dinewise/backend/internal/domain/entities"
	"github.com/dinewise/backend/internal/domain/providers"
	"github.com/dinewise/backend/internal/domain/repositories"
	"github.com/dinewise/backend/internal/infrastructure/observability"
)

// SearchIndexSyncService keeps the search index in step with the catalog.
// Rating events re-index the affected restaurant; Rebuild walks the whole
// catalog.
type SearchIndexSyncService struct {
	restaurants repositories.RestaurantRepository
	indexer     providers.SearchIndexer
	eventBus    providers.EventBus
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
}

// NewSearchIndexSyncService creates a new search index sync service.
// eventBus may be nil when only Rebuild is used.
func NewSearchIndexSyncService(
	restaurants repositories.RestaurantRepository,
	indexer providers.SearchIndexer,
	eventBus providers.EventBus,
) *SearchIndexSyncService {
	ctx, cancel := context.WithCancel(context.Background())
	return &SearchIndexSyncService{
		restaurants: restaurants,
		indexer:     indexer,
		eventBus:    eventBus,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start begins listening for rating events
func (s *SearchIndexSyncService) Start() error {
	if s.eventBus == nil {
		return fmt.Errorf("search index sync requires an event bus")
	}

	events, err := s.eventBus.Subscribe(s.ctx, providers.EventChannelRatingUpdates)
	if err != nil {
		return fmt.Errorf("failed to subscribe to rating updates: %w", err)
	}

	s.wg.Add(1)
	go s.processEvents(events)
	observability.GetLogger().Info().Msg("search index sync service started")
	return nil
}

// Stop stops listening and waits for the in-flight event
func (s *SearchIndexSyncService) Stop() {
	s.cancel()
	s.wg.Wait()
	observability.GetLogger().Info().Msg("search index sync service stopped")
}

func (s *SearchIndexSyncService) processEvents(events <-chan *entities.RatingEvent) {
	defer s.wg.Done()
	for {
		select {
		case <-s.ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if event == nil {
				continue
			}
			s.handleEvent(event)
		}
	}
}

func (s *SearchIndexSyncService) handleEvent(event *entities.RatingEvent) {
	ctx, cancel := context.WithTimeout(s.ctx, 5*time.Second)
	defer cancel()

	if err := s.Reindex(ctx, event.RestaurantID); err != nil {
		observability.GetLogger().Warn().Err(err).
			Str("event_id", event.ID).
			Str("restaurant_id", event.RestaurantID).
			Msg("failed to re-index restaurant")
	}
}

// Reindex loads one restaurant with its cuisines and upserts it
func (s *SearchIndexSyncService) Reindex(ctx context.Context, restaurantID string) error {
	restaurant, err := s.restaurants.GetByID(ctx, restaurantID)
	if err != nil {
		return err
	}
	cuisines, err := s.restaurants.CuisinesByRestaurantIDs(ctx, []string{restaurantID})
	if err != nil {
		return err
	}
	restaurant.Cuisines = cuisines[restaurantID]
	return s.indexer.Index(ctx, restaurant)
}

// Rebuild indexes the whole catalog in pages of batchSize and returns the
// number of documents written
func (s *SearchIndexSyncService) Rebuild(ctx context.Context, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = repositories.DefaultListLimit
	}
	if err := s.indexer.EnsureCollection(ctx); err != nil {
		return 0, fmt.Errorf("failed to ensure search collection: %w", err)
	}

	indexed := 0
	for offset := 0; ; offset += batchSize {
		page, err := s.restaurants.List(ctx, repositories.RestaurantFilter{Limit: batchSize, Offset: offset})
		if err != nil {
			return indexed, fmt.Errorf("failed to load catalog page at offset %d: %w", offset, err)
		}
		if len(page) == 0 {
			break
		}

		ids := make([]string, len(page))
		for i, r := range page {
			ids[i] = r.ID
		}
		cuisines, err := s.restaurants.CuisinesByRestaurantIDs(ctx, ids)
		if err != nil {
			return indexed, fmt.Errorf("failed to load cuisines: %w", err)
		}

		for _, r := range page {
			r.Cuisines = cuisines[r.ID]
			if err := s.indexer.Index(ctx, r); err != nil {
				return indexed, fmt.Errorf("failed to index restaurant %s: %w", r.ID, err)
			}
			indexed++
		}

		if len(page) < batchSize {
			break
		}
	}

	observability.LoggerFromContext(ctx).Info().Int("indexed", indexed).Msg("search index rebuilt")
	return indexed, nil
}
