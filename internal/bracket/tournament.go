package bracket

import (
	"time"

	"github.com/google/uuid"
)

type TournamentStatus string

const (
	TournamentSetup     TournamentStatus = "setup"
	TournamentActive    TournamentStatus = "active"
	TournamentCompleted TournamentStatus = "completed"
)

func (s TournamentStatus) Valid() bool {
	switch s {
	case TournamentSetup, TournamentActive, TournamentCompleted:
		return true
	}
	return false
}

type TournamentType string

const (
	SingleElimination TournamentType = "single_elimination"
)

type Tournament struct {
	ID                   uuid.UUID        `db:"id" json:"id"`
	Name                 string           `db:"name" json:"name"`
	Type                 TournamentType   `db:"tournament_type" json:"tournament_type"`
	MaxParticipants      int              `db:"max_participants" json:"max_participants"`
	Status               TournamentStatus `db:"status" json:"status"`
	IsPaused             bool             `db:"is_paused" json:"is_paused"`
	StartDate            time.Time        `db:"start_date" json:"start_date"`
	RegistrationDeadline *time.Time       `db:"registration_deadline" json:"registration_deadline,omitempty"`
	CreatedAt            time.Time        `db:"created_at" json:"created_at"`

	// Approved participants only, computed by the store on read
	ParticipantCount int `db:"participant_count" json:"participant_count"`
}

func (t *Tournament) IsFull() bool {
	return t.ParticipantCount >= t.MaxParticipants
}

// RegistrationOpen reports whether self-service join requests are accepted at the given time.
func (t *Tournament) RegistrationOpen(now time.Time) bool {
	if t.Status != TournamentSetup {
		return false
	}
	return t.RegistrationDeadline == nil || now.Before(*t.RegistrationDeadline)
}
