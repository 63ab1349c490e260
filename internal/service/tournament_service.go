package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AdamBeresnev/gymit/internal/bracket"
	"github.com/AdamBeresnev/gymit/internal/events"
	"github.com/AdamBeresnev/gymit/internal/lock"
	"github.com/AdamBeresnev/gymit/internal/store"
	users "github.com/AdamBeresnev/gymit/internal/user"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type TournamentService struct {
	core
}

func NewTournamentService(db *sqlx.DB, store *store.TournamentStore, locker lock.Locker, publisher events.Publisher) *TournamentService {
	return &TournamentService{core: newCore(db, store, locker, publisher)}
}

type CreateTournamentInput struct {
	Name                 string                 `json:"name"`
	Type                 bracket.TournamentType `json:"tournament_type"`
	MaxParticipants      int                    `json:"max_participants"`
	StartDate            time.Time              `json:"start_date"`
	RegistrationDeadline *time.Time             `json:"registration_deadline"`
}

func (in *CreateTournamentInput) validate() error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return validationError("name is required")
	}
	if in.Type == "" {
		in.Type = bracket.SingleElimination
	}
	if in.Type != bracket.SingleElimination {
		return validationError("unsupported tournament type %q", in.Type)
	}
	if in.MaxParticipants < 2 {
		return validationError("max_participants must be at least 2")
	}
	if in.StartDate.IsZero() {
		return validationError("start_date is required")
	}
	return nil
}

func (s *TournamentService) CreateTournament(ctx context.Context, actor users.Actor, input CreateTournamentInput) (*bracket.Tournament, error) {
	if err := requirePrivileged(actor); err != nil {
		return nil, err
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	tournament := &bracket.Tournament{
		ID:                   uuid.New(),
		Name:                 input.Name,
		Type:                 input.Type,
		MaxParticipants:      input.MaxParticipants,
		Status:               bracket.TournamentSetup,
		IsPaused:             false,
		StartDate:            input.StartDate.UTC(),
		RegistrationDeadline: input.RegistrationDeadline,
		CreatedAt:            time.Now().UTC(),
	}
	if tournament.RegistrationDeadline != nil {
		deadline := tournament.RegistrationDeadline.UTC()
		tournament.RegistrationDeadline = &deadline
	}

	if err := s.store.CreateTournament(ctx, s.db, tournament); err != nil {
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}

	s.publisher.Publish(ctx, tournamentEvent(tournament, "created"))
	return tournament, nil
}

func (s *TournamentService) ListTournaments(ctx context.Context, status *bracket.TournamentStatus) ([]bracket.Tournament, error) {
	if status != nil && !status.Valid() {
		return nil, validationError("unknown status %q", *status)
	}
	return s.store.ListTournaments(ctx, s.db, store.TournamentFilter{Status: status})
}

func (s *TournamentService) GetTournament(ctx context.Context, id uuid.UUID) (*bracket.Tournament, error) {
	return s.loadTournament(ctx, s.db, id)
}

func (s *TournamentService) PauseTournament(ctx context.Context, actor users.Actor, id uuid.UUID) (*bracket.Tournament, error) {
	return s.setPaused(ctx, actor, id, true)
}

func (s *TournamentService) ResumeTournament(ctx context.Context, actor users.Actor, id uuid.UUID) (*bracket.Tournament, error) {
	return s.setPaused(ctx, actor, id, false)
}

// setPaused is idempotent: asking for the current state succeeds without writing or publishing.
func (s *TournamentService) setPaused(ctx context.Context, actor users.Actor, id uuid.UUID, paused bool) (*bracket.Tournament, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	var tournament *bracket.Tournament
	err := s.mutate(ctx, id, func(tx *sqlx.Tx) ([]events.Event, error) {
		t, err := s.loadTournament(ctx, tx, id)
		if err != nil {
			return nil, err
		}
		tournament = t

		if t.IsPaused == paused {
			return nil, nil
		}
		if err := s.store.SetPaused(ctx, tx, id, paused); err != nil {
			return nil, fmt.Errorf("failed to update pause state: %w", err)
		}
		t.IsPaused = paused

		action := "resumed"
		if paused {
			action = "paused"
		}
		return []events.Event{tournamentEvent(t, action)}, nil
	})
	if err != nil {
		return nil, err
	}
	return tournament, nil
}

func (s *TournamentService) DeleteTournament(ctx context.Context, actor users.Actor, id uuid.UUID) error {
	if err := requirePrivileged(actor); err != nil {
		return err
	}

	return s.mutate(ctx, id, func(tx *sqlx.Tx) ([]events.Event, error) {
		t, err := s.loadTournament(ctx, tx, id)
		if err != nil {
			return nil, err
		}
		if err := s.store.DeleteTournament(ctx, tx, id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, ErrTournamentNotFound
			}
			return nil, fmt.Errorf("failed to delete tournament: %w", err)
		}
		return []events.Event{tournamentEvent(t, "deleted")}, nil
	})
}
