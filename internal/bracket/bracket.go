package bracket

import (
	"fmt"

	"github.com/google/uuid"
)

// Bracket indexes a tournament's matches by (round, position). It holds pointers into the slice it
// was built from, so changes made through it are visible to the caller.
type Bracket struct {
	rounds [][]*Match
	byID   map[uuid.UUID]*Match
}

func NewBracket(matches []Match) (*Bracket, error) {
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: no matches", ErrMalformedBracket)
	}

	totalRounds := 0
	for i := range matches {
		if matches[i].Round > totalRounds {
			totalRounds = matches[i].Round
		}
	}

	b := &Bracket{
		rounds: make([][]*Match, totalRounds),
		byID:   make(map[uuid.UUID]*Match, len(matches)),
	}
	for r := 1; r <= totalRounds; r++ {
		b.rounds[r-1] = make([]*Match, 1<<(totalRounds-r))
	}

	for i := range matches {
		m := &matches[i]
		if m.Round < 1 || m.Position < 0 || m.Position >= len(b.rounds[m.Round-1]) {
			return nil, fmt.Errorf("%w: match %s at round %d position %d", ErrMalformedBracket, m.ID, m.Round, m.Position)
		}
		if b.rounds[m.Round-1][m.Position] != nil {
			return nil, fmt.Errorf("%w: duplicate match at round %d position %d", ErrMalformedBracket, m.Round, m.Position)
		}
		b.rounds[m.Round-1][m.Position] = m
		b.byID[m.ID] = m
	}

	for r, round := range b.rounds {
		for p, m := range round {
			if m == nil {
				return nil, fmt.Errorf("%w: missing match at round %d position %d", ErrMalformedBracket, r+1, p)
			}
		}
	}

	return b, nil
}

func (b *Bracket) Rounds() int {
	return len(b.rounds)
}

func (b *Bracket) At(round, position int) *Match {
	if round < 1 || round > len(b.rounds) {
		return nil
	}
	if position < 0 || position >= len(b.rounds[round-1]) {
		return nil
	}
	return b.rounds[round-1][position]
}

func (b *Bracket) Match(id uuid.UUID) *Match {
	return b.byID[id]
}

func (b *Bracket) Final() *Match {
	return b.At(len(b.rounds), 0)
}

func (b *Bracket) IsComplete() bool {
	return b.Final().IsDecided()
}

// Downstream returns the match fed by m's winner and the slot (1 or 2) it lands in. The final has
// no downstream match.
func (b *Bracket) Downstream(m *Match) (*Match, int) {
	next := b.At(m.Round+1, m.Position/2)
	if next == nil {
		return nil, 0
	}
	if m.Position%2 == 0 {
		return next, 1
	}
	return next, 2
}

func (b *Bracket) advance(m *Match) *Match {
	next, slot := b.Downstream(m)
	if next == nil {
		return nil
	}
	*next.slot(slot) = m.WinnerID
	return next
}

// Record sets the winner of a match and moves them into the downstream slot. It returns every
// match it changed.
func (b *Bracket) Record(matchID, winnerID uuid.UUID, score *string) ([]*Match, error) {
	m := b.Match(matchID)
	if m == nil {
		return nil, ErrMatchNotFound
	}
	if m.IsDecided() {
		return nil, ErrMatchAlreadyDecided
	}
	if !m.IsReady() {
		return nil, ErrIncompleteMatch
	}
	if !m.HasParticipant(winnerID) {
		return nil, ErrInvalidWinner
	}

	winner := winnerID
	m.WinnerID = &winner
	m.Score = score

	changed := []*Match{m}
	if next := b.advance(m); next != nil {
		changed = append(changed, next)
	}
	return changed, nil
}

// Clear removes a match result and walks toward the final, reverting every slot that consumed the
// cleared winner and clearing any result recorded on top of it. Sibling and earlier matches are
// left alone. It returns every match it changed.
func (b *Bracket) Clear(matchID uuid.UUID) ([]*Match, error) {
	m := b.Match(matchID)
	if m == nil {
		return nil, ErrMatchNotFound
	}
	if m.IsBye {
		return nil, ErrByeResult
	}
	if !m.IsDecided() {
		return nil, ErrNoResultToClear
	}

	var changed []*Match
	seen := make(map[uuid.UUID]bool)
	mark := func(x *Match) {
		if !seen[x.ID] {
			seen[x.ID] = true
			changed = append(changed, x)
		}
	}

	for cur := m; cur != nil; {
		cur.WinnerID = nil
		cur.Score = nil
		mark(cur)

		next, slot := b.Downstream(cur)
		if next == nil {
			break
		}
		*next.slot(slot) = nil
		mark(next)

		if !next.IsDecided() {
			break
		}
		cur = next
	}

	return changed, nil
}
