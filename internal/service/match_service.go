package service

import (
	"context"
	"errors"
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

const maxScoreLength = 64

type MatchService struct {
	core
}

func NewMatchService(db *sqlx.DB, store *store.TournamentStore, locker lock.Locker, publisher events.Publisher) *MatchService {
	return &MatchService{core: newCore(db, store, locker, publisher)}
}

// RecordResult sets the winner of a ready match and moves them into the next round. Deciding the
// final completes the tournament.
func (s *MatchService) RecordResult(ctx context.Context, actor users.Actor, tournamentID, matchID, winnerID uuid.UUID, score *string) (*bracket.Match, error) {
	if err := requirePrivileged(actor); err != nil {
		return nil, err
	}
	score = utils.StringOrNil(utils.OrZero(score))
	if score != nil && len(*score) > maxScoreLength {
		return nil, validationError("score must be at most %d characters", maxScoreLength)
	}

	var recorded bracket.Match
	err := s.mutate(ctx, tournamentID, func(tx *sqlx.Tx) ([]events.Event, error) {
		t, err := s.loadTournament(ctx, tx, tournamentID)
		if err != nil {
			return nil, err
		}
		if t.IsPaused {
			return nil, ErrTournamentPaused
		}

		matches, b, err := s.loadBracket(ctx, tx, tournamentID)
		if err != nil {
			return nil, err
		}

		changed, err := b.Record(matchID, winnerID, score)
		if err != nil {
			return nil, err
		}
		if err := s.saveMatches(ctx, tx, changed); err != nil {
			return nil, err
		}
		recorded = *b.Match(matchID)

		pending := []events.Event{}
		action := "result_recorded"
		if b.IsComplete() {
			if err := s.store.UpdateTournamentStatus(ctx, tx, tournamentID, bracket.TournamentCompleted); err != nil {
				return nil, fmt.Errorf("failed to complete tournament: %w", err)
			}
			t.Status = bracket.TournamentCompleted
			action = "completed"

			champion, err := s.store.GetParticipant(ctx, tx, tournamentID, winnerID)
			if err != nil {
				return nil, fmt.Errorf("failed to get champion: %w", err)
			}
			if champion.UserID != nil {
				pending = append(pending, events.New(events.NewNotification, t.ID, events.NotificationPayload{
					UserID:  *champion.UserID,
					Title:   "Champion!",
					Message: fmt.Sprintf("You won the %s tournament.", t.Name),
					Kind:    "tournament",
				}))
			}
		}

		leaderboard, err := s.leaderboard(ctx, tx, t.ID, matches)
		if err != nil {
			return nil, err
		}
		return append([]events.Event{tournamentEvent(t, action), leaderboard}, pending...), nil
	})
	if err != nil {
		return nil, err
	}
	return &recorded, nil
}

// ClearResult removes a recorded result and invalidates every later match that depended on it.
// Clearing the final reopens a completed tournament.
func (s *MatchService) ClearResult(ctx context.Context, actor users.Actor, tournamentID, matchID uuid.UUID) ([]bracket.Match, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	var cleared []bracket.Match
	err := s.mutate(ctx, tournamentID, func(tx *sqlx.Tx) ([]events.Event, error) {
		t, err := s.loadTournament(ctx, tx, tournamentID)
		if err != nil {
			return nil, err
		}

		matches, b, err := s.loadBracket(ctx, tx, tournamentID)
		if err != nil {
			return nil, err
		}

		changed, err := b.Clear(matchID)
		if errors.Is(err, bracket.ErrByeResult) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidState, err)
		}
		if err != nil {
			return nil, err
		}
		if err := s.saveMatches(ctx, tx, changed); err != nil {
			return nil, err
		}
		for _, m := range changed {
			cleared = append(cleared, *m)
		}

		if t.Status == bracket.TournamentCompleted && !b.IsComplete() {
			if err := s.store.UpdateTournamentStatus(ctx, tx, tournamentID, bracket.TournamentActive); err != nil {
				return nil, fmt.Errorf("failed to reopen tournament: %w", err)
			}
			t.Status = bracket.TournamentActive
		}

		leaderboard, err := s.leaderboard(ctx, tx, t.ID, matches)
		if err != nil {
			return nil, err
		}
		return []events.Event{tournamentEvent(t, "result_cleared"), leaderboard}, nil
	})
	if err != nil {
		return nil, err
	}
	return cleared, nil
}

// GetStandings tallies wins and losses of the approved roster.
func (s *MatchService) GetStandings(ctx context.Context, tournamentID uuid.UUID) ([]bracket.Standing, error) {
	var standings []bracket.Standing
	err := s.read(ctx, func(tx *sqlx.Tx) error {
		if _, err := s.loadTournament(ctx, tx, tournamentID); err != nil {
			return err
		}
		participants, err := s.store.ListParticipants(ctx, tx, tournamentID, utils.Ptr(bracket.ParticipantApproved))
		if err != nil {
			return err
		}
		matches, err := s.store.GetMatches(ctx, tx, tournamentID)
		if err != nil {
			return err
		}
		standings = bracket.Standings(participants, matches)
		return nil
	})
	return standings, err
}

func (s *MatchService) saveMatches(ctx context.Context, tx *sqlx.Tx, changed []*bracket.Match) error {
	for _, m := range changed {
		if err := s.store.UpdateMatch(ctx, tx, m); err != nil {
			return fmt.Errorf("failed to update match %s: %w", m.ID, err)
		}
	}
	return nil
}

func (s *MatchService) leaderboard(ctx context.Context, tx *sqlx.Tx, tournamentID uuid.UUID, matches []bracket.Match) (events.Event, error) {
	participants, err := s.store.ListParticipants(ctx, tx, tournamentID, utils.Ptr(bracket.ParticipantApproved))
	if err != nil {
		return events.Event{}, fmt.Errorf("failed to get participants: %w", err)
	}
	return leaderboardEvent(tournamentID, participants, matches), nil
}
