package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Event channels other services (and dashboards) subscribe to.
const (
	ParcelUpdatesChannel = "parcels:updates"
	RiderUpdatesChannel  = "riders:updates"
)

// EventPublisher publishes domain events to Redis pub/sub. Nothing here
// caches role or payment state; both must always be read from the store.
type EventPublisher struct {
	client *redis.Client
}

// NewEventPublisher connects to Redis and verifies the connection.
func NewEventPublisher(redisURL string) (*EventPublisher, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	client := redis.NewClient(opt)

	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return &EventPublisher{client: client}, nil
}

// PublishParcelUpdate announces a parcel state change (e.g. settlement).
func (p *EventPublisher) PublishParcelUpdate(ctx context.Context, parcelID uint, status string, data map[string]interface{}) error {
	event := map[string]interface{}{
		"parcelId":  parcelID,
		"status":    status,
		"data":      data,
		"timestamp": time.Now().Unix(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.client.Publish(ctx, ParcelUpdatesChannel, payload).Err()
}

// PublishRiderUpdate announces a rider application decision.
func (p *EventPublisher) PublishRiderUpdate(ctx context.Context, riderID uint, status, email string) error {
	event := map[string]interface{}{
		"riderId":   riderID,
		"status":    status,
		"email":     email,
		"timestamp": time.Now().Unix(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.client.Publish(ctx, RiderUpdatesChannel, payload).Err()
}

// Close releases the Redis connection.
func (p *EventPublisher) Close() error {
	return p.client.Close()
}
