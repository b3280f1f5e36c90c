package providers

import (
	"context"

	"github.com/dinewise/backend/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to events
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.RatingEvent) error

	// Subscribe subscribes to events on a channel
	Subscribe(ctx context.Context, channel string) (<-chan *entities.RatingEvent, error)

	// Unsubscribe unsubscribes from a channel
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the event bus and all subscriptions
	Close() error
}

const (
	// EventChannelRatingUpdates carries every committed rating submission
	EventChannelRatingUpdates = "ratings:updates"

	// EventChannelRestaurantPrefix is the prefix for restaurant-specific channels
	EventChannelRestaurantPrefix = "restaurant:"
)

// GetRestaurantChannel returns the channel name for a specific restaurant
func GetRestaurantChannel(restaurantID string) string {
	return EventChannelRestaurantPrefix + restaurantID
}
