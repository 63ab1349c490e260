package store

import (
	"context"
	"testing"
	"time"

	"github.com/AdamBeresnev/gymit/internal/bracket"
	"github.com/AdamBeresnev/gymit/internal/testutil"
	"github.com/AdamBeresnev/gymit/internal/utils"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	return testutil.NewTestDB(t, "file://../../migrations")
}

func createTestTournament(t *testing.T, db *sqlx.DB, store *TournamentStore, name string, status bracket.TournamentStatus, startDate time.Time) *bracket.Tournament {
	t.Helper()

	tournament := &bracket.Tournament{
		ID:              uuid.New(),
		Name:            name,
		Type:            bracket.SingleElimination,
		MaxParticipants: 8,
		Status:          status,
		StartDate:       startDate,
		CreatedAt:       time.Now().UTC(),
	}
	require.NoError(t, store.CreateTournament(context.Background(), db, tournament))
	return tournament
}

func createTestParticipants(t *testing.T, db *sqlx.DB, store *TournamentStore, tournamentID uuid.UUID, statuses ...bracket.ParticipantStatus) []bracket.Participant {
	t.Helper()

	participants := make([]bracket.Participant, len(statuses))
	for i, status := range statuses {
		participants[i] = bracket.Participant{
			ID:           uuid.New(),
			TournamentID: tournamentID,
			Name:         "Entry " + string(rune('A'+i)),
			Status:       status,
			Seed:         i + 1,
			CreatedAt:    time.Now().UTC(),
		}
	}
	require.NoError(t, store.CreateParticipants(context.Background(), db, participants))
	return participants
}

func TestCreateTournament(t *testing.T) {
	db := setupTestDB(t)
	store := NewTournamentStore()
	ctx := context.Background()

	deadline := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Second)
	tournament := &bracket.Tournament{
		ID:                   uuid.New(),
		Name:                 "Spring Deadlift Open",
		Type:                 bracket.SingleElimination,
		MaxParticipants:      16,
		Status:               bracket.TournamentSetup,
		StartDate:            time.Now().UTC().Add(48 * time.Hour),
		RegistrationDeadline: &deadline,
		CreatedAt:            time.Now().UTC(),
	}

	tx, err := db.BeginTxx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, store.CreateTournament(ctx, tx, tournament))
	require.NoError(t, tx.Commit())

	fetched, err := store.GetTournament(ctx, db, tournament.ID)
	require.NoError(t, err)

	assert.Equal(t, tournament.ID, fetched.ID)
	assert.Equal(t, tournament.Name, fetched.Name)
	assert.Equal(t, tournament.Type, fetched.Type)
	assert.Equal(t, tournament.MaxParticipants, fetched.MaxParticipants)
	assert.Equal(t, bracket.TournamentSetup, fetched.Status)
	assert.False(t, fetched.IsPaused)
	assert.Equal(t, 0, fetched.ParticipantCount)
	require.NotNil(t, fetched.RegistrationDeadline)
	assert.WithinDuration(t, deadline, *fetched.RegistrationDeadline, time.Second)
	assert.WithinDuration(t, tournament.StartDate, fetched.StartDate, time.Second)
}

func TestGetTournament_NotFound(t *testing.T) {
	db := setupTestDB(t)
	store := NewTournamentStore()

	_, err := store.GetTournament(context.Background(), db, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListTournaments_FilterByStatus(t *testing.T) {
	db := setupTestDB(t)
	store := NewTournamentStore()
	ctx := context.Background()

	now := time.Now().UTC()
	later := createTestTournament(t, db, store, "Later", bracket.TournamentSetup, now.Add(72*time.Hour))
	sooner := createTestTournament(t, db, store, "Sooner", bracket.TournamentSetup, now.Add(24*time.Hour))
	active := createTestTournament(t, db, store, "Running", bracket.TournamentActive, now)

	all, err := store.ListTournaments(ctx, db, TournamentFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, active.ID, all[0].ID)
	assert.Equal(t, sooner.ID, all[1].ID)
	assert.Equal(t, later.ID, all[2].ID)

	setup := bracket.TournamentSetup
	filtered, err := store.ListTournaments(ctx, db, TournamentFilter{Status: &setup})
	require.NoError(t, err)
	require.Len(t, filtered, 2)
	for _, tournament := range filtered {
		assert.Equal(t, bracket.TournamentSetup, tournament.Status)
	}

	page, err := store.ListTournaments(ctx, db, TournamentFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, sooner.ID, page[0].ID)
}

func TestUpdateTournamentStatusAndPause(t *testing.T) {
	db := setupTestDB(t)
	store := NewTournamentStore()
	ctx := context.Background()

	tournament := createTestTournament(t, db, store, "Bench Cup", bracket.TournamentSetup, time.Now().UTC())

	require.NoError(t, store.UpdateTournamentStatus(ctx, db, tournament.ID, bracket.TournamentActive))
	require.NoError(t, store.SetPaused(ctx, db, tournament.ID, true))

	fetched, err := store.GetTournament(ctx, db, tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, bracket.TournamentActive, fetched.Status)
	assert.True(t, fetched.IsPaused)

	// same value again still matches the row
	require.NoError(t, store.SetPaused(ctx, db, tournament.ID, true))

	assert.ErrorIs(t, store.SetPaused(ctx, db, uuid.New(), true), ErrNotFound)
	assert.ErrorIs(t, store.UpdateTournamentStatus(ctx, db, uuid.New(), bracket.TournamentActive), ErrNotFound)
}

func TestParticipants(t *testing.T) {
	db := setupTestDB(t)
	store := NewTournamentStore()
	ctx := context.Background()

	tournament := createTestTournament(t, db, store, "Row Relay", bracket.TournamentSetup, time.Now().UTC())
	participants := createTestParticipants(t, db, store, tournament.ID,
		bracket.ParticipantApproved, bracket.ParticipantPending, bracket.ParticipantApproved)

	member := bracket.Participant{
		ID:           uuid.New(),
		TournamentID: tournament.ID,
		UserID:       utils.StringOrNil("user-42"),
		Name:         "Member",
		Status:       bracket.ParticipantPending,
		Seed:         4,
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, store.CreateParticipants(ctx, db, []bracket.Participant{member}))

	all, err := store.ListParticipants(ctx, db, tournament.ID, nil)
	require.NoError(t, err)
	require.Len(t, all, 4)
	for i, p := range all {
		assert.Equal(t, i+1, p.Seed)
	}
	assert.Nil(t, all[0].UserID)

	approved := bracket.ParticipantApproved
	onlyApproved, err := store.ListParticipants(ctx, db, tournament.ID, &approved)
	require.NoError(t, err)
	require.Len(t, onlyApproved, 2)
	assert.Equal(t, participants[0].ID, onlyApproved[0].ID)
	assert.Equal(t, participants[2].ID, onlyApproved[1].ID)

	maxSeed, err := store.MaxSeed(ctx, db, tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, maxSeed)

	found, err := store.FindParticipantByUser(ctx, db, tournament.ID, "user-42")
	require.NoError(t, err)
	assert.Equal(t, member.ID, found.ID)

	_, err = store.FindParticipantByUser(ctx, db, tournament.ID, "user-7")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.ApproveParticipant(ctx, db, tournament.ID, member.ID))
	fetched, err := store.GetParticipant(ctx, db, tournament.ID, member.ID)
	require.NoError(t, err)
	assert.Equal(t, bracket.ParticipantApproved, fetched.Status)

	withCount, err := store.GetTournament(ctx, db, tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, withCount.ParticipantCount)

	_, err = store.GetParticipant(ctx, db, uuid.New(), member.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestParticipants_UserRegistersOnce(t *testing.T) {
	db := setupTestDB(t)
	store := NewTournamentStore()
	ctx := context.Background()

	tournament := createTestTournament(t, db, store, "Squat Series", bracket.TournamentSetup, time.Now().UTC())

	first := bracket.Participant{ID: uuid.New(), TournamentID: tournament.ID, UserID: utils.StringOrNil("u1"), Name: "A", Status: bracket.ParticipantPending, Seed: 1, CreatedAt: time.Now().UTC()}
	second := first
	second.ID = uuid.New()
	second.Seed = 2

	require.NoError(t, store.CreateParticipants(ctx, db, []bracket.Participant{first}))
	assert.Error(t, store.CreateParticipants(ctx, db, []bracket.Participant{second}))

	maxSeed, err := store.MaxSeed(ctx, db, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 0, maxSeed)
}

func TestMatches(t *testing.T) {
	db := setupTestDB(t)
	store := NewTournamentStore()
	ctx := context.Background()

	tournament := createTestTournament(t, db, store, "Kettlebell Clash", bracket.TournamentSetup, time.Now().UTC())
	participants := createTestParticipants(t, db, store, tournament.ID,
		bracket.ParticipantApproved, bracket.ParticipantApproved, bracket.ParticipantApproved)

	has, err := store.HasMatches(ctx, db, tournament.ID)
	require.NoError(t, err)
	assert.False(t, has)

	matches, err := bracket.Generate(tournament.ID, participants)
	require.NoError(t, err)

	tx, err := db.BeginTxx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, store.CreateMatches(ctx, tx, matches))
	require.NoError(t, tx.Commit())

	has, err = store.HasMatches(ctx, db, tournament.ID)
	require.NoError(t, err)
	assert.True(t, has)

	fetched, err := store.GetMatches(ctx, db, tournament.ID)
	require.NoError(t, err)
	require.Len(t, fetched, len(matches))

	b, err := bracket.NewBracket(fetched)
	require.NoError(t, err)

	bye := b.At(1, 0)
	assert.True(t, bye.IsBye)
	require.NotNil(t, bye.WinnerID)
	assert.Equal(t, participants[0].ID, *bye.WinnerID)
	assert.Nil(t, bye.Participant2ID)

	final := b.Final()
	require.NotNil(t, final.Participant1ID)
	assert.Equal(t, participants[0].ID, *final.Participant1ID)
	assert.Nil(t, final.Participant2ID)

	changed, err := b.Record(b.At(1, 1).ID, participants[2].ID, utils.StringOrNil("3-1"))
	require.NoError(t, err)
	for _, m := range changed {
		require.NoError(t, store.UpdateMatch(ctx, db, m))
	}

	refetched, err := store.GetMatches(ctx, db, tournament.ID)
	require.NoError(t, err)
	b, err = bracket.NewBracket(refetched)
	require.NoError(t, err)

	played := b.At(1, 1)
	require.NotNil(t, played.WinnerID)
	assert.Equal(t, participants[2].ID, *played.WinnerID)
	assert.Equal(t, "3-1", *played.Score)
	require.NotNil(t, b.Final().Participant2ID)
	assert.Equal(t, participants[2].ID, *b.Final().Participant2ID)

	assert.ErrorIs(t, store.UpdateMatch(ctx, db, &bracket.Match{ID: uuid.New()}), ErrNotFound)
}

func TestDeleteTournament(t *testing.T) {
	db := setupTestDB(t)
	store := NewTournamentStore()
	ctx := context.Background()

	tournament := createTestTournament(t, db, store, "Plank Finals", bracket.TournamentSetup, time.Now().UTC())
	participants := createTestParticipants(t, db, store, tournament.ID,
		bracket.ParticipantApproved, bracket.ParticipantApproved)
	matches, err := bracket.Generate(tournament.ID, participants)
	require.NoError(t, err)
	require.NoError(t, store.CreateMatches(ctx, db, matches))

	require.NoError(t, store.DeleteTournament(ctx, db, tournament.ID))

	_, err = store.GetTournament(ctx, db, tournament.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	remaining, err := store.ListParticipants(ctx, db, tournament.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	has, err := store.HasMatches(ctx, db, tournament.ID)
	require.NoError(t, err)
	assert.False(t, has)

	assert.ErrorIs(t, store.DeleteTournament(ctx, db, tournament.ID), ErrNotFound)
}
