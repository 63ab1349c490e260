package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisPublisher fans events out over Redis pub/sub so every realtime gateway subscribed to the
// channel can push them to its clients.
type RedisPublisher struct {
	client  *redis.Client
	channel string
	timeout time.Duration
}

func NewRedisPublisher(client *redis.Client, channel string) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel, timeout: 2 * time.Second}
}

func (p *RedisPublisher) Publish(ctx context.Context, event Event) {
	body, err := json.Marshal(event)
	if err != nil {
		slog.Error("failed to encode event", "type", event.Type, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	if err := p.client.Publish(ctx, p.channel, body).Err(); err != nil {
		slog.Error("failed to publish event",
			"type", event.Type,
			"tournament_id", event.TournamentID,
			"channel", p.channel,
			"error", err)
	}
}
