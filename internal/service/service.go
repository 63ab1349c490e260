package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/AdamBeresnev/gymit/internal/bracket"
	"github.com/AdamBeresnev/gymit/internal/events"
	"github.com/AdamBeresnev/gymit/internal/lock"
	"github.com/AdamBeresnev/gymit/internal/store"
	users "github.com/AdamBeresnev/gymit/internal/user"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// core is shared by every service. Mutations of a tournament run under its lock and inside one
// transaction, and their events are published only after the commit.
type core struct {
	db        *sqlx.DB
	store     *store.TournamentStore
	locker    lock.Locker
	publisher events.Publisher
}

func newCore(db *sqlx.DB, store *store.TournamentStore, locker lock.Locker, publisher events.Publisher) core {
	return core{db: db, store: store, locker: locker, publisher: publisher}
}

type mutation func(tx *sqlx.Tx) ([]events.Event, error)

func (c *core) mutate(ctx context.Context, tournamentID uuid.UUID, fn mutation) error {
	unlock, err := c.locker.Lock(ctx, lock.TournamentKey(tournamentID))
	if err != nil {
		return err
	}
	defer unlock()

	tx, err := c.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	pending, err := fn(tx)
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	for _, event := range pending {
		c.publisher.Publish(ctx, event)
	}
	return nil
}

// readOptions pins every statement of a read to the snapshot taken by its first statement.
// go-sqlite3 ignores them, its single connection already serializes reads with writers.
var readOptions = &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}

// read runs fn in a read-only transaction so it sees one consistent snapshot of the tournament.
func (c *core) read(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := c.db.BeginTxx(ctx, readOptions)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (c *core) loadTournament(ctx context.Context, q sqlx.ExtContext, id uuid.UUID) (*bracket.Tournament, error) {
	t, err := c.store.GetTournament(ctx, q, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrTournamentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tournament: %w", err)
	}
	return t, nil
}

func (c *core) loadBracket(ctx context.Context, q sqlx.ExtContext, tournamentID uuid.UUID) ([]bracket.Match, *bracket.Bracket, error) {
	matches, err := c.store.GetMatches(ctx, q, tournamentID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get matches: %w", err)
	}
	if len(matches) == 0 {
		return nil, nil, ErrMatchNotFound
	}
	b, err := bracket.NewBracket(matches)
	if err != nil {
		return nil, nil, err
	}
	return matches, b, nil
}

func requirePrivileged(actor users.Actor) error {
	if actor.UserID == "" {
		return ErrUnauthenticated
	}
	if !actor.Role.IsPrivileged() {
		return ErrForbidden
	}
	return nil
}

func requireAdmin(actor users.Actor) error {
	if actor.UserID == "" {
		return ErrUnauthenticated
	}
	if !actor.Role.IsAdmin() {
		return ErrAdminOnly
	}
	return nil
}

func tournamentEvent(t *bracket.Tournament, action string) events.Event {
	return events.New(events.TournamentUpdate, t.ID, events.TournamentPayload{
		Action: action,
		Status: string(t.Status),
		Paused: t.IsPaused,
	})
}
