package events

import (
	"context"
	"log/slog"
)

// LogPublisher is used when no broker is configured.
type LogPublisher struct{}

func NewLogPublisher() LogPublisher {
	return LogPublisher{}
}

func (LogPublisher) Publish(ctx context.Context, event Event) {
	slog.InfoContext(ctx, "event", "type", event.Type, "tournament_id", event.TournamentID, "payload", event.Payload)
}
