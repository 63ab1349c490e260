package bracket

import (
	"math"

	"github.com/google/uuid"
)

// Gets the nearest power of 2 while rounding up, so with input 5 it returns 8 and so on
func calcBracketSize(count int) int {
	if count <= 0 {
		return 0
	}

	// Log2 -> Ceil -> 2^^log2 to round up
	log2 := math.Ceil(math.Log2(float64(count)))
	return int(math.Pow(2, log2))
}

// RoundCount is the number of rounds a single elimination bracket needs for count participants.
func RoundCount(count int) int {
	size := calcBracketSize(count)
	if size < 2 {
		return 0
	}
	return int(math.Log2(float64(size)))
}

// round1Slots lays out the first round in registration order. The first byes seeds sit alone in
// their match and the rest are paired sequentially, so 4 entries give 1v2, 3v4 and 5 entries give
// 1, 2, 3 (byes) and 4v5.
func round1Slots(count int) [][2]int {
	size := calcBracketSize(count)
	byes := size - count

	slots := make([][2]int, 0, size/2)
	for i := 0; i < byes; i++ {
		slots = append(slots, [2]int{i, -1})
	}
	for i := byes; i < count; i += 2 {
		slots = append(slots, [2]int{i, i + 1})
	}
	return slots
}

// Generate builds every match of a single elimination bracket. participants must be approved and
// ordered by seed. Round 1 is populated, later rounds start empty, and bye winners are already
// advanced into round 2.
func Generate(tournamentID uuid.UUID, participants []Participant) ([]Match, error) {
	if len(participants) < 2 {
		return nil, ErrInsufficientParticipants
	}

	bracketSize := calcBracketSize(len(participants))
	totalRounds := RoundCount(len(participants))

	matches := make([]Match, 0, bracketSize-1)
	for r := 1; r <= totalRounds; r++ {
		matchesInRound := bracketSize >> r
		for p := 0; p < matchesInRound; p++ {
			matches = append(matches, Match{
				ID:           uuid.New(),
				TournamentID: tournamentID,
				Round:        r,
				Position:     p,
			})
		}
	}

	b, err := NewBracket(matches)
	if err != nil {
		return nil, err
	}

	for pos, slot := range round1Slots(len(participants)) {
		m := b.At(1, pos)
		id1 := participants[slot[0]].ID
		m.Participant1ID = &id1

		if slot[1] < 0 {
			m.IsBye = true
			m.WinnerID = &id1
			b.advance(m)
			continue
		}
		id2 := participants[slot[1]].ID
		m.Participant2ID = &id2
	}

	return matches, nil
}
