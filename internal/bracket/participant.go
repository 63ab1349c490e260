package bracket

import (
	"time"

	"github.com/google/uuid"
)

type ParticipantStatus string

const (
	ParticipantPending  ParticipantStatus = "pending"
	ParticipantApproved ParticipantStatus = "approved"
)

func (s ParticipantStatus) Valid() bool {
	return s == ParticipantPending || s == ParticipantApproved
}

// Participant is an entry in a tournament roster. UserID is nil for name-only entries.
type Participant struct {
	ID           uuid.UUID         `db:"id" json:"id"`
	TournamentID uuid.UUID         `db:"tournament_id" json:"tournament_id"`
	UserID       *string           `db:"user_id" json:"user_id,omitempty"`
	Name         string            `db:"name" json:"name"`
	Status       ParticipantStatus `db:"status" json:"status"`
	Seed         int               `db:"seed" json:"seed"`
	CreatedAt    time.Time         `db:"created_at" json:"created_at"`
}

func (p *Participant) IsApproved() bool {
	return p.Status == ParticipantApproved
}

func (p *Participant) BelongsTo(userID string) bool {
	return p.UserID != nil && *p.UserID == userID
}
