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
	"github.com/AdamBeresnev/gymit/internal/utils"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type ParticipantService struct {
	core
	now func() time.Time
}

func NewParticipantService(db *sqlx.DB, store *store.TournamentStore, locker lock.Locker, publisher events.Publisher) *ParticipantService {
	return &ParticipantService{core: newCore(db, store, locker, publisher), now: time.Now}
}

// ParticipantInput is one roster entry. UserID is empty for name-only entries.
type ParticipantInput struct {
	Name   string  `json:"name"`
	UserID *string `json:"user_id"`
}

// AddParticipants adds approved entries on behalf of a trainer or admin. A member may only add
// themselves, which is handled as a join request.
func (s *ParticipantService) AddParticipants(ctx context.Context, actor users.Actor, tournamentID uuid.UUID, entries []ParticipantInput) ([]bracket.Participant, error) {
	if actor.UserID == "" {
		return nil, ErrUnauthenticated
	}
	if !actor.Role.IsPrivileged() {
		if len(entries) == 1 && entries[0].UserID != nil && *entries[0].UserID == actor.UserID {
			p, err := s.RequestJoin(ctx, actor, tournamentID, entries[0].Name)
			if err != nil {
				return nil, err
			}
			return []bracket.Participant{*p}, nil
		}
		return nil, ErrForbidden
	}

	if len(entries) == 0 {
		return nil, validationError("at least one entry is required")
	}
	seenUsers := make(map[string]bool)
	for i := range entries {
		entries[i].Name = strings.TrimSpace(entries[i].Name)
		if entries[i].Name == "" {
			return nil, validationError("entry %d has no name", i+1)
		}
		entries[i].UserID = utils.StringOrNil(utils.OrZero(entries[i].UserID))
		if entries[i].UserID != nil {
			if seenUsers[*entries[i].UserID] {
				return nil, fmt.Errorf("%w: user %s listed twice", ErrAlreadyRegistered, *entries[i].UserID)
			}
			seenUsers[*entries[i].UserID] = true
		}
	}

	var created []bracket.Participant
	err := s.mutate(ctx, tournamentID, func(tx *sqlx.Tx) ([]events.Event, error) {
		t, err := s.loadTournament(ctx, tx, tournamentID)
		if err != nil {
			return nil, err
		}
		if t.Status != bracket.TournamentSetup {
			return nil, fmt.Errorf("%w: participants can only be added during setup", ErrInvalidState)
		}
		if t.ParticipantCount+len(entries) > t.MaxParticipants {
			return nil, fmt.Errorf("%w: %d approved, %d requested, limit %d", ErrCapacityExceeded, t.ParticipantCount, len(entries), t.MaxParticipants)
		}

		for _, e := range entries {
			if e.UserID == nil {
				continue
			}
			_, err := s.store.FindParticipantByUser(ctx, tx, tournamentID, *e.UserID)
			if err == nil {
				return nil, fmt.Errorf("%w: user %s", ErrAlreadyRegistered, *e.UserID)
			}
			if !errors.Is(err, store.ErrNotFound) {
				return nil, err
			}
		}

		seed, err := s.store.MaxSeed(ctx, tx, tournamentID)
		if err != nil {
			return nil, err
		}

		now := s.now().UTC()
		created = make([]bracket.Participant, 0, len(entries))
		for _, e := range entries {
			seed++
			created = append(created, bracket.Participant{
				ID:           uuid.New(),
				TournamentID: tournamentID,
				UserID:       e.UserID,
				Name:         e.Name,
				Status:       bracket.ParticipantApproved,
				Seed:         seed,
				CreatedAt:    now,
			})
		}

		if err := s.store.CreateParticipants(ctx, tx, created); err != nil {
			return nil, fmt.Errorf("failed to create participants: %w", err)
		}

		t.ParticipantCount += len(created)
		return []events.Event{tournamentEvent(t, "participants_added")}, nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// AddParticipantsText adds one name-only entry per non-blank line of text.
func (s *ParticipantService) AddParticipantsText(ctx context.Context, actor users.Actor, tournamentID uuid.UUID, text string) ([]bracket.Participant, error) {
	lines := utils.NonEmptyLines(text)
	if len(lines) == 0 {
		return nil, validationError("no entries found")
	}

	entries := make([]ParticipantInput, len(lines))
	for i, line := range lines {
		entries[i] = ParticipantInput{Name: line}
	}
	return s.AddParticipants(ctx, actor, tournamentID, entries)
}

// RequestJoin creates a pending entry for the calling user. Name defaults to the actor's name.
// Trainers and admins joining their own tournament are added directly as approved entries.
func (s *ParticipantService) RequestJoin(ctx context.Context, actor users.Actor, tournamentID uuid.UUID, name string) (*bracket.Participant, error) {
	if actor.UserID == "" {
		return nil, ErrUnauthenticated
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = strings.TrimSpace(actor.Name)
	}
	if name == "" {
		return nil, validationError("name is required")
	}

	if actor.Role.IsPrivileged() {
		userID := actor.UserID
		added, err := s.AddParticipants(ctx, actor, tournamentID, []ParticipantInput{{Name: name, UserID: &userID}})
		if err != nil {
			return nil, err
		}
		return &added[0], nil
	}

	var participant *bracket.Participant
	err := s.mutate(ctx, tournamentID, func(tx *sqlx.Tx) ([]events.Event, error) {
		t, err := s.loadTournament(ctx, tx, tournamentID)
		if err != nil {
			return nil, err
		}
		if !t.RegistrationOpen(s.now()) {
			return nil, ErrRegistrationClosed
		}
		if t.IsFull() {
			return nil, ErrTournamentFull
		}

		_, err = s.store.FindParticipantByUser(ctx, tx, tournamentID, actor.UserID)
		if err == nil {
			return nil, ErrAlreadyRegistered
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}

		seed, err := s.store.MaxSeed(ctx, tx, tournamentID)
		if err != nil {
			return nil, err
		}

		userID := actor.UserID
		participant = &bracket.Participant{
			ID:           uuid.New(),
			TournamentID: tournamentID,
			UserID:       &userID,
			Name:         name,
			Status:       bracket.ParticipantPending,
			Seed:         seed + 1,
			CreatedAt:    s.now().UTC(),
		}
		if err := s.store.CreateParticipants(ctx, tx, []bracket.Participant{*participant}); err != nil {
			return nil, fmt.Errorf("failed to create participant: %w", err)
		}

		return []events.Event{tournamentEvent(t, "join_requested")}, nil
	})
	if err != nil {
		return nil, err
	}
	return participant, nil
}

func (s *ParticipantService) ApproveParticipant(ctx context.Context, actor users.Actor, tournamentID, participantID uuid.UUID) (*bracket.Participant, error) {
	if err := requirePrivileged(actor); err != nil {
		return nil, err
	}

	var participant *bracket.Participant
	err := s.mutate(ctx, tournamentID, func(tx *sqlx.Tx) ([]events.Event, error) {
		t, err := s.loadTournament(ctx, tx, tournamentID)
		if err != nil {
			return nil, err
		}

		p, err := s.store.GetParticipant(ctx, tx, tournamentID, participantID)
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrParticipantNotFound
		}
		if err != nil {
			return nil, err
		}
		if p.IsApproved() {
			return nil, ErrAlreadyApproved
		}
		if t.Status != bracket.TournamentSetup {
			return nil, fmt.Errorf("%w: participants can only be approved during setup", ErrInvalidState)
		}
		if t.IsFull() {
			return nil, ErrTournamentFull
		}

		if err := s.store.ApproveParticipant(ctx, tx, tournamentID, participantID); err != nil {
			return nil, fmt.Errorf("failed to approve participant: %w", err)
		}
		p.Status = bracket.ParticipantApproved
		participant = p
		t.ParticipantCount++

		pending := []events.Event{tournamentEvent(t, "participant_approved")}
		if p.UserID != nil {
			pending = append(pending, events.New(events.NewNotification, t.ID, events.NotificationPayload{
				UserID:  *p.UserID,
				Title:   "Registration approved",
				Message: fmt.Sprintf("You are in the %s tournament.", t.Name),
				Kind:    "tournament",
			}))
		}
		return pending, nil
	})
	if err != nil {
		return nil, err
	}
	return participant, nil
}

// GetParticipants lists the roster in seed order, optionally filtered by status.
func (s *ParticipantService) GetParticipants(ctx context.Context, tournamentID uuid.UUID, status *bracket.ParticipantStatus) ([]bracket.Participant, error) {
	if status != nil && !status.Valid() {
		return nil, validationError("unknown status %q", *status)
	}

	var participants []bracket.Participant
	err := s.read(ctx, func(tx *sqlx.Tx) error {
		if _, err := s.loadTournament(ctx, tx, tournamentID); err != nil {
			return err
		}
		var err error
		participants, err = s.store.ListParticipants(ctx, tx, tournamentID, status)
		return err
	})
	return participants, err
}
