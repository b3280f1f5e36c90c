package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/dinewise/backend/internal/domain/entities"
	"github.com/dinewise/backend/internal/domain/providers"
	redisclient "github.com/dinewise/backend/internal/infrastructure/clients/redis"
)

const subscriberBuffer = 100

// topic is one Redis subscription fanned out to local subscribers
type topic struct {
	pubsub      *redis.PubSub
	subscribers map[chan *entities.RatingEvent]struct{}
}

// RedisEventBus implements providers.EventBus over Redis Pub/Sub. A slow
// subscriber never blocks the others: when its buffer is full the event is
// dropped for that subscriber only.
type RedisEventBus struct {
	client *redisclient.Client
	mu     sync.RWMutex
	topics map[string]*topic
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRedisEventBus creates a new Redis-based event bus
func NewRedisEventBus(client *redisclient.Client) providers.EventBus {
	ctx, cancel := context.WithCancel(context.Background())
	return &RedisEventBus{
		client: client,
		topics: make(map[string]*topic),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Publish serializes the event and publishes it on channel
func (b *RedisEventBus) Publish(ctx context.Context, channel string, event *entities.RatingEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal rating event: %w", err)
	}
	if err := b.client.Client().Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", channel, err)
	}
	log.Debug().Str("channel", channel).Str("event_id", event.ID).Msg("published rating event")
	return nil
}

// Subscribe returns a buffered stream of events on channel. The stream is
// closed when ctx ends, on Unsubscribe, or when the bus closes.
func (b *RedisEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.RatingEvent, error) {
	ch := make(chan *entities.RatingEvent, subscriberBuffer)

	b.mu.Lock()
	t, ok := b.topics[channel]
	if !ok {
		t = &topic{
			pubsub:      b.client.Client().Subscribe(b.ctx, channel),
			subscribers: make(map[chan *entities.RatingEvent]struct{}),
		}
		b.topics[channel] = t
		b.wg.Add(1)
		go b.listen(channel, t)
	}
	t.subscribers[ch] = struct{}{}
	count := len(t.subscribers)
	b.mu.Unlock()

	log.Info().Str("channel", channel).Int("subscribers", count).Msg("subscribed to channel")

	go func() {
		select {
		case <-ctx.Done():
			b.drop(channel, ch)
		case <-b.ctx.Done():
		}
	}()

	return ch, nil
}

func (b *RedisEventBus) listen(channel string, t *topic) {
	defer b.wg.Done()
	defer b.closeTopic(channel, t)

	for msg := range t.pubsub.Channel() {
		var event entities.RatingEvent
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			log.Warn().Err(err).Str("channel", channel).Msg("dropping malformed rating event")
			continue
		}
		b.deliver(channel, &event)
	}
}

// deliver hands the event to every subscriber of channel without blocking
func (b *RedisEventBus) deliver(channel string, event *entities.RatingEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	t, ok := b.topics[channel]
	if !ok {
		return
	}
	for ch := range t.subscribers {
		select {
		case ch <- event:
		default:
			log.Warn().Str("channel", channel).Str("event_id", event.ID).Msg("subscriber buffer full, dropping event")
		}
	}
}

// drop removes one subscriber; the last one out closes the Redis subscription
func (b *RedisEventBus) drop(channel string, ch chan *entities.RatingEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	t, ok := b.topics[channel]
	if !ok {
		return
	}
	if _, ok := t.subscribers[ch]; !ok {
		return
	}
	delete(t.subscribers, ch)
	close(ch)

	if len(t.subscribers) == 0 {
		delete(b.topics, channel)
		if t.pubsub != nil {
			_ = t.pubsub.Close()
		}
		log.Info().Str("channel", channel).Msg("closed subscription")
	}
}

// closeTopic closes every remaining subscriber of t
func (b *RedisEventBus) closeTopic(channel string, t *topic) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.topics[channel] == t {
		delete(b.topics, channel)
	}
	for ch := range t.subscribers {
		close(ch)
		delete(t.subscribers, ch)
	}
}

// detach unregisters topics and closes their Redis subscriptions. Listeners
// then close the subscriber streams.
func (b *RedisEventBus) detach(channels ...string) error {
	b.mu.Lock()
	var detached []*topic
	for _, channel := range channels {
		if t, ok := b.topics[channel]; ok {
			delete(b.topics, channel)
			detached = append(detached, t)
		}
	}
	b.mu.Unlock()

	var errs []error
	for _, t := range detached {
		if err := t.pubsub.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Unsubscribe closes the subscription to channel for every subscriber
func (b *RedisEventBus) Unsubscribe(ctx context.Context, channel string) error {
	if err := b.detach(channel); err != nil {
		return fmt.Errorf("failed to unsubscribe from %s: %w", channel, err)
	}
	log.Info().Str("channel", channel).Msg("unsubscribed")
	return nil
}

// Close closes every subscription and waits for the listeners to exit
func (b *RedisEventBus) Close() error {
	b.cancel()

	b.mu.RLock()
	channels := make([]string, 0, len(b.topics))
	for channel := range b.topics {
		channels = append(channels, channel)
	}
	b.mu.RUnlock()

	err := b.detach(channels...)
	b.wg.Wait()
	if err != nil {
		return fmt.Errorf("errors closing event bus: %w", err)
	}

	log.Info().Msg("event bus closed")
	return nil
}
