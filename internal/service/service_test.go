package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/AdamBeresnev/gymit/internal/bracket"
	"github.com/AdamBeresnev/gymit/internal/lock"
	"github.com/AdamBeresnev/gymit/internal/store"
	"github.com/AdamBeresnev/gymit/internal/testutil"
	users "github.com/AdamBeresnev/gymit/internal/user"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

var (
	admin   = users.Admin("admin-1")
	trainer = users.Trainer("trainer-1")
	member  = users.Member("member-1")
)

type testEnv struct {
	db       *sqlx.DB
	store    *store.TournamentStore
	locker   *lock.LocalLocker
	recorder *testutil.Recorder

	tournaments  *TournamentService
	participants *ParticipantService
	brackets     *BracketService
	matches      *MatchService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	return newTestEnvWithDB(t, testutil.NewTestDB(t, "file://../../migrations"))
}

func newTestEnvWithDB(t *testing.T, db *sqlx.DB) *testEnv {
	t.Helper()

	tournamentStore := store.NewTournamentStore()
	locker := lock.NewLocalLocker(2 * time.Second)
	recorder := &testutil.Recorder{}

	return &testEnv{
		db:           db,
		store:        tournamentStore,
		locker:       locker,
		recorder:     recorder,
		tournaments:  NewTournamentService(db, tournamentStore, locker, recorder),
		participants: NewParticipantService(db, tournamentStore, locker, recorder),
		brackets:     NewBracketService(db, tournamentStore, locker, recorder),
		matches:      NewMatchService(db, tournamentStore, locker, recorder),
	}
}

func (e *testEnv) createTournament(t *testing.T, maxParticipants int, deadline *time.Time) *bracket.Tournament {
	t.Helper()

	tournament, err := e.tournaments.CreateTournament(context.Background(), trainer, CreateTournamentInput{
		Name:                 "Gym Cup",
		MaxParticipants:      maxParticipants,
		StartDate:            time.Now().Add(7 * 24 * time.Hour),
		RegistrationDeadline: deadline,
	})
	require.NoError(t, err)
	return tournament
}

// addNamed adds approved name-only entries P1..Pn.
func (e *testEnv) addNamed(t *testing.T, tournamentID uuid.UUID, n int) []bracket.Participant {
	t.Helper()

	entries := make([]ParticipantInput, n)
	for i := range entries {
		entries[i] = ParticipantInput{Name: fmt.Sprintf("P%d", i+1)}
	}
	participants, err := e.participants.AddParticipants(context.Background(), trainer, tournamentID, entries)
	require.NoError(t, err)
	require.Len(t, participants, n)
	return participants
}

func (e *testEnv) bracket(t *testing.T, tournamentID uuid.UUID) *bracket.Bracket {
	t.Helper()

	matches, err := e.store.GetMatches(context.Background(), e.db, tournamentID)
	require.NoError(t, err)
	b, err := bracket.NewBracket(matches)
	require.NoError(t, err)
	return b
}

func (e *testEnv) status(t *testing.T, tournamentID uuid.UUID) bracket.TournamentStatus {
	t.Helper()

	tournament, err := e.tournaments.GetTournament(context.Background(), tournamentID)
	require.NoError(t, err)
	return tournament.Status
}
