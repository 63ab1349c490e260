package views

import (
	"fmt"
	"sort"

	"github.com/AdamBeresnev/gymit/internal/bracket"
	"github.com/google/uuid"
)

type MatchState string

const (
	MatchWaiting MatchState = "waiting"
	MatchReady   MatchState = "ready"
	MatchDecided MatchState = "decided"
	MatchBye     MatchState = "bye"
)

type ParticipantRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Seed int       `json:"seed"`
}

type MatchView struct {
	ID           uuid.UUID       `json:"id"`
	Round        int             `json:"round"`
	Position     int             `json:"position"`
	Participant1 *ParticipantRef `json:"participant1"`
	Participant2 *ParticipantRef `json:"participant2"`
	Winner       *ParticipantRef `json:"winner"`
	Score        *string         `json:"score"`
	State        MatchState      `json:"state"`
}

type RoundView struct {
	Number  int         `json:"number"`
	Name    string      `json:"name"`
	Matches []MatchView `json:"matches"`
}

type BracketData struct {
	Tournament *bracket.Tournament `json:"tournament"`
	Rounds     []RoundView         `json:"rounds"`
	Champion   *ParticipantRef     `json:"champion"`
}

// PrepareBracketData groups matches by round in position order and resolves participant names.
// TBD slots stay nil.
func PrepareBracketData(tournament *bracket.Tournament, participants []bracket.Participant, matches []bracket.Match) BracketData {
	entryMap := make(map[uuid.UUID]ParticipantRef, len(participants))
	for _, p := range participants {
		entryMap[p.ID] = ParticipantRef{ID: p.ID, Name: p.Name, Seed: p.Seed}
	}
	ref := func(id *uuid.UUID) *ParticipantRef {
		if id == nil {
			return nil
		}
		r, ok := entryMap[*id]
		if !ok {
			// Still shown when the roster was filtered
			return &ParticipantRef{ID: *id}
		}
		return &r
	}

	byRound := make(map[int][]bracket.Match)
	var roundNums []int
	for _, m := range matches {
		if _, exists := byRound[m.Round]; !exists {
			roundNums = append(roundNums, m.Round)
		}
		byRound[m.Round] = append(byRound[m.Round], m)
	}
	sort.Ints(roundNums)

	data := BracketData{Tournament: tournament, Rounds: make([]RoundView, 0, len(roundNums))}
	totalRounds := len(roundNums)
	for _, r := range roundNums {
		round := byRound[r]
		sort.Slice(round, func(i, j int) bool {
			return round[i].Position < round[j].Position
		})

		view := RoundView{Number: r, Name: roundName(r, totalRounds), Matches: make([]MatchView, 0, len(round))}
		for _, m := range round {
			view.Matches = append(view.Matches, MatchView{
				ID:           m.ID,
				Round:        m.Round,
				Position:     m.Position,
				Participant1: ref(m.Participant1ID),
				Participant2: ref(m.Participant2ID),
				Winner:       ref(m.WinnerID),
				Score:        m.Score,
				State:        matchState(&m),
			})
		}
		data.Rounds = append(data.Rounds, view)
	}

	if totalRounds > 0 {
		final := data.Rounds[totalRounds-1].Matches
		if len(final) == 1 && final[0].Winner != nil {
			data.Champion = final[0].Winner
		}
	}

	return data
}

func matchState(m *bracket.Match) MatchState {
	switch {
	case m.IsBye:
		return MatchBye
	case m.IsDecided():
		return MatchDecided
	case m.IsReady():
		return MatchReady
	}
	return MatchWaiting
}

func roundName(round, totalRounds int) string {
	switch totalRounds - round {
	case 0:
		return "Final"
	case 1:
		return "Semifinals"
	case 2:
		return "Quarterfinals"
	}
	return fmt.Sprintf("Round %d", round)
}
