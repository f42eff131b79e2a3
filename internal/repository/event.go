package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-lan/internal/entity"
)

// EventRepository is an append-only journal of game events.
type EventRepository interface {
	Append(ctx context.Context, event *entity.Event) error
	List(ctx context.Context, limit int64) ([]*entity.Event, error)
}

type dbEvent struct {
	client *redis.Client
	key    string
}

// NewEventRepository stores events in the Redis list at key, oldest first.
func NewEventRepository(client *redis.Client, key string) EventRepository {
	return &dbEvent{
		client: client,
		key:    key,
	}
}

func (that *dbEvent) Append(ctx context.Context, event *entity.Event) error {
	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("could not marshal event: %w", err)
	}

	if err = that.client.RPush(ctx, that.key, eventJSON).Err(); err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}

	return nil
}

// List returns the most recent limit events, oldest first. A limit of zero
// or less returns the whole journal.
func (that *dbEvent) List(ctx context.Context, limit int64) ([]*entity.Event, error) {
	start := int64(0)
	if limit > 0 {
		start = -limit
	}

	response, err := that.client.LRange(ctx, that.key, start, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	events := make([]*entity.Event, 0, len(response))
	for _, raw := range response {
		var event entity.Event
		if err = json.Unmarshal([]byte(raw), &event); err != nil {
			return nil, fmt.Errorf("failed to unmarshal event: %w", err)
		}

		events = append(events, &event)
	}

	return events, nil
}
