package bracket

import (
	"sort"

	"github.com/google/uuid"
)

type Standing struct {
	ParticipantID uuid.UUID `json:"participant_id"`
	Name          string    `json:"name"`
	Seed          int       `json:"seed"`
	Wins          int       `json:"wins"`
	Losses        int       `json:"losses"`
	Eliminated    bool      `json:"eliminated"`
	Champion      bool      `json:"champion"`
}

// Standings tallies decided matches per participant. Byes are not counted as wins. Ordered by wins,
// then name, then seed.
func Standings(participants []Participant, matches []Match) []Standing {
	index := make(map[uuid.UUID]*Standing, len(participants))
	board := make([]Standing, 0, len(participants))
	for _, p := range participants {
		if !p.IsApproved() {
			continue
		}
		board = append(board, Standing{ParticipantID: p.ID, Name: p.Name, Seed: p.Seed})
	}
	for i := range board {
		index[board[i].ParticipantID] = &board[i]
	}

	finalRound := 0
	for _, m := range matches {
		if m.Round > finalRound {
			finalRound = m.Round
		}
	}

	for _, m := range matches {
		if !m.IsDecided() || m.IsBye {
			continue
		}
		if s, ok := index[*m.WinnerID]; ok {
			s.Wins++
			if m.Round == finalRound {
				s.Champion = true
			}
		}
		for _, id := range []*uuid.UUID{m.Participant1ID, m.Participant2ID} {
			if id == nil || !m.IsLoser(*id) {
				continue
			}
			if s, ok := index[*id]; ok {
				s.Losses++
				s.Eliminated = true
			}
		}
	}

	sort.SliceStable(board, func(i, j int) bool {
		if board[i].Wins != board[j].Wins {
			return board[i].Wins > board[j].Wins
		}
		if board[i].Name != board[j].Name {
			return board[i].Name < board[j].Name
		}
		return board[i].Seed < board[j].Seed
	})

	return board
}
