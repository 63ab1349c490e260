package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	LeaderboardUpdate Type = "leaderboard_update"
	TournamentUpdate  Type = "tournament_update"
	NewNotification   Type = "new_notification"
)

type Event struct {
	Type         Type      `json:"type"`
	TournamentID uuid.UUID `json:"tournament_id"`
	Payload      any       `json:"payload"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// TournamentPayload is carried by tournament_update. Action names what changed, e.g.
// "bracket_generated" or "result_recorded".
type TournamentPayload struct {
	Action string `json:"action"`
	Status string `json:"status,omitempty"`
	Paused bool   `json:"paused"`
}

// NotificationPayload is carried by new_notification. Clients show it only to UserID.
type NotificationPayload struct {
	UserID  string `json:"user_id"`
	Title   string `json:"title"`
	Message string `json:"message,omitempty"`
	Kind    string `json:"type"`
}

// Publisher broadcasts events to connected clients. It is one-way: failures are the publisher's
// concern and never reach the caller.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

func New(eventType Type, tournamentID uuid.UUID, payload any) Event {
	return Event{
		Type:         eventType,
		TournamentID: tournamentID,
		Payload:      payload,
		OccurredAt:   time.Now().UTC(),
	}
}
