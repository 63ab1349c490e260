package bracket

import (
	"time"

	"github.com/google/uuid"
)

type Match struct {
	ID           uuid.UUID `db:"id" json:"id"`
	TournamentID uuid.UUID `db:"tournament_id" json:"tournament_id"`

	// Position in the bracket, round 1 is the first round and positions start at 0
	Round    int `db:"round" json:"round"`
	Position int `db:"position" json:"position"`

	// nil means TBD until the feeding match has a winner
	Participant1ID *uuid.UUID `db:"participant_1_id" json:"participant1_id"`
	Participant2ID *uuid.UUID `db:"participant_2_id" json:"participant2_id"`

	WinnerID *uuid.UUID `db:"winner_id" json:"winner_id"`
	Score    *string    `db:"score" json:"score"`
	IsBye    bool       `db:"is_bye" json:"is_bye"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

func (m *Match) IsDecided() bool {
	return m.WinnerID != nil
}

func (m *Match) IsReady() bool {
	return m.Participant1ID != nil && m.Participant2ID != nil
}

func (m *Match) HasParticipant(id uuid.UUID) bool {
	return (m.Participant1ID != nil && *m.Participant1ID == id) ||
		(m.Participant2ID != nil && *m.Participant2ID == id)
}

func (m *Match) IsWinner(id uuid.UUID) bool {
	return m.WinnerID != nil && *m.WinnerID == id
}

// IsLoser is true for the participant on the losing side of a decided match.
func (m *Match) IsLoser(id uuid.UUID) bool {
	return m.WinnerID != nil && *m.WinnerID != id && m.HasParticipant(id)
}

// slot returns a pointer to participant slot 1 or 2.
func (m *Match) slot(n int) **uuid.UUID {
	if n == 1 {
		return &m.Participant1ID
	}
	return &m.Participant2ID
}
