package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/tabelamed/backend/internal/domain/providers"
	redisclient "github.com/tabelamed/backend/internal/infrastructure/clients/redis"
)

// RedisEventBus implements the EventBus interface using Redis Pub/Sub.
// Each event type maps to one Redis channel.
type RedisEventBus struct {
	client        *redisclient.Client
	subscriptions map[providers.EventType]*redis.PubSub
	subscribers   map[providers.EventType]map[chan providers.Event]struct{}
	mu            sync.RWMutex
	ctx           context.Context
	cancel        context.CancelFunc
}

// NewRedisEventBus creates a new Redis-based event bus
func NewRedisEventBus(client *redisclient.Client) providers.EventBus {
	ctx, cancel := context.WithCancel(context.Background())
	return &RedisEventBus{
		client:        client,
		subscriptions: make(map[providers.EventType]*redis.PubSub),
		subscribers:   make(map[providers.EventType]map[chan providers.Event]struct{}),
		ctx:           ctx,
		cancel:        cancel,
	}
}

func channelFor(eventType providers.EventType) string {
	return fmt.Sprintf("events:%s", eventType)
}

// Publish publishes an event to all subscribers of its type
func (b *RedisEventBus) Publish(ctx context.Context, event providers.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.client.Client().Publish(ctx, channelFor(event.Type), data).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

// Subscribe returns a channel delivering events of the given types.
// The channel is closed when the context is cancelled.
func (b *RedisEventBus) Subscribe(ctx context.Context, types ...providers.EventType) (<-chan providers.Event, error) {
	if len(types) == 0 {
		return nil, fmt.Errorf("at least one event type is required")
	}

	eventChan := make(chan providers.Event, 100)

	b.mu.Lock()
	for _, eventType := range types {
		if _, exists := b.subscriptions[eventType]; !exists {
			pubsub := b.client.Client().Subscribe(b.ctx, channelFor(eventType))
			b.subscriptions[eventType] = pubsub
			go b.receiveMessages(eventType, pubsub)
		}
		if b.subscribers[eventType] == nil {
			b.subscribers[eventType] = make(map[chan providers.Event]struct{})
		}
		b.subscribers[eventType][eventChan] = struct{}{}
	}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.removeSubscriber(types, eventChan)
	}()

	return eventChan, nil
}

// receiveMessages receives messages from Redis and broadcasts them to subscribers
func (b *RedisEventBus) receiveMessages(eventType providers.EventType, pubsub *redis.PubSub) {
	ch := pubsub.Channel()
	for {
		select {
		case <-b.ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}

			var event providers.Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				log.Printf("Failed to unmarshal event from %s: %v", msg.Channel, err)
				continue
			}

			b.mu.RLock()
			for subscriber := range b.subscribers[eventType] {
				select {
				case subscriber <- event:
				default:
					// Subscriber channel full, skip event
					log.Printf("Subscriber channel full for %s, skipping event %s", eventType, event.EntityID)
				}
			}
			b.mu.RUnlock()
		}
	}
}

func (b *RedisEventBus) removeSubscriber(types []providers.EventType, eventChan chan providers.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	removed := false
	for _, eventType := range types {
		subscribers, exists := b.subscribers[eventType]
		if !exists {
			continue
		}
		if _, ok := subscribers[eventChan]; !ok {
			continue
		}
		delete(subscribers, eventChan)
		removed = true

		if len(subscribers) == 0 {
			delete(b.subscribers, eventType)
			if pubsub, ok := b.subscriptions[eventType]; ok {
				_ = pubsub.Close()
				delete(b.subscriptions, eventType)
			}
		}
	}
	if removed {
		close(eventChan)
	}
}

// Close closes the event bus and all subscriptions
func (b *RedisEventBus) Close() error {
	b.cancel()

	b.mu.Lock()
	defer b.mu.Unlock()

	var errs []error
	for eventType, pubsub := range b.subscriptions {
		if err := pubsub.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close subscription %s: %w", eventType, err))
		}
		delete(b.subscriptions, eventType)
	}
	for eventType, subscribers := range b.subscribers {
		for subscriber := range subscribers {
			close(subscriber)
		}
		delete(b.subscribers, eventType)
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors closing event bus: %v", errs)
	}
	return nil
}
