package service

import (
	"context"
	"fmt"

	"github.com/AdamBeresnev/gymit/internal/bracket"
	"github.com/AdamBeresnev/gymit/internal/events"
	"github.com/AdamBeresnev/gymit/internal/lock"
	"github.com/AdamBeresnev/gymit/internal/store"
	users "github.com/AdamBeresnev/gymit/internal/user"
	"github.com/AdamBeresnev/gymit/internal/utils"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type BracketService struct {
	core
}

func NewBracketService(db *sqlx.DB, store *store.TournamentStore, locker lock.Locker, publisher events.Publisher) *BracketService {
	return &BracketService{core: newCore(db, store, locker, publisher)}
}

type TournamentData struct {
	Tournament   *bracket.Tournament
	Participants []bracket.Participant
	Matches      []bracket.Match
}

// GenerateBracket builds the single elimination bracket from the approved roster and activates
// the tournament. It can only succeed once per tournament.
func (s *BracketService) GenerateBracket(ctx context.Context, actor users.Actor, tournamentID uuid.UUID) (*TournamentData, error) {
	if err := requirePrivileged(actor); err != nil {
		return nil, err
	}

	var data *TournamentData
	err := s.mutate(ctx, tournamentID, func(tx *sqlx.Tx) ([]events.Event, error) {
		t, err := s.loadTournament(ctx, tx, tournamentID)
		if err != nil {
			return nil, err
		}

		generated, err := s.store.HasMatches(ctx, tx, tournamentID)
		if err != nil {
			return nil, err
		}
		if generated {
			return nil, ErrAlreadyGenerated
		}
		if t.Status != bracket.TournamentSetup {
			return nil, fmt.Errorf("%w: bracket can only be generated during setup", ErrInvalidState)
		}

		participants, err := s.store.ListParticipants(ctx, tx, tournamentID, utils.Ptr(bracket.ParticipantApproved))
		if err != nil {
			return nil, fmt.Errorf("failed to get participants: %w", err)
		}

		matches, err := bracket.Generate(tournamentID, participants)
		if err != nil {
			return nil, err
		}

		if err := s.store.CreateMatches(ctx, tx, matches); err != nil {
			return nil, fmt.Errorf("failed to create matches: %w", err)
		}
		if err := s.store.UpdateTournamentStatus(ctx, tx, tournamentID, bracket.TournamentActive); err != nil {
			return nil, fmt.Errorf("failed to activate tournament: %w", err)
		}
		t.Status = bracket.TournamentActive

		data = &TournamentData{Tournament: t, Participants: participants, Matches: matches}
		return []events.Event{
			tournamentEvent(t, "bracket_generated"),
			leaderboardEvent(t.ID, participants, matches),
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

// GetBracket returns the tournament with its approved roster and matches. Matches is empty until
// the bracket is generated.
func (s *BracketService) GetBracket(ctx context.Context, tournamentID uuid.UUID) (*TournamentData, error) {
	data := &TournamentData{}
	err := s.read(ctx, func(tx *sqlx.Tx) error {
		t, err := s.loadTournament(ctx, tx, tournamentID)
		if err != nil {
			return err
		}
		data.Tournament = t

		data.Participants, err = s.store.ListParticipants(ctx, tx, tournamentID, utils.Ptr(bracket.ParticipantApproved))
		if err != nil {
			return fmt.Errorf("failed to get participants: %w", err)
		}

		data.Matches, err = s.store.GetMatches(ctx, tx, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to get matches: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

func leaderboardEvent(tournamentID uuid.UUID, participants []bracket.Participant, matches []bracket.Match) events.Event {
	return events.New(events.LeaderboardUpdate, tournamentID, bracket.Standings(participants, matches))
}
