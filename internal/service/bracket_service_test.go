package service

import (
	"context"
	"testing"

	"github.com/AdamBeresnev/gymit/internal/bracket"
	"github.com/AdamBeresnev/gymit/internal/events"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Four approved entries give P1 vs P2, P3 vs P4 and an empty final.
func TestScenarioA_GenerateBracket(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tournament := env.createTournament(t, 4, nil)
	p := env.addNamed(t, tournament.ID, 4)

	data, err := env.brackets.GenerateBracket(ctx, trainer, tournament.ID)
	require.NoError(t, err)
	assert.Len(t, data.Matches, 3)
	assert.Equal(t, bracket.TournamentActive, data.Tournament.Status)
	assert.Equal(t, bracket.TournamentActive, env.status(t, tournament.ID))

	b := env.bracket(t, tournament.ID)
	require.Equal(t, 2, b.Rounds())

	m1, m2, final := b.At(1, 0), b.At(1, 1), b.Final()
	assert.Equal(t, p[0].ID, *m1.Participant1ID)
	assert.Equal(t, p[1].ID, *m1.Participant2ID)
	assert.Equal(t, p[2].ID, *m2.Participant1ID)
	assert.Equal(t, p[3].ID, *m2.Participant2ID)
	assert.Nil(t, final.Participant1ID)
	assert.Nil(t, final.Participant2ID)
	for _, m := range []*bracket.Match{m1, m2, final} {
		assert.False(t, m.IsBye)
		assert.Nil(t, m.WinnerID)
	}

	published := env.recorder.OfType(events.TournamentUpdate)
	require.NotEmpty(t, published)
	last := published[len(published)-1].Payload.(events.TournamentPayload)
	assert.Equal(t, "bracket_generated", last.Action)
	assert.Equal(t, string(bracket.TournamentActive), last.Status)
	assert.Len(t, env.recorder.OfType(events.LeaderboardUpdate), 1)
}

func TestGenerateBracket_ByesAdvance(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tournament := env.createTournament(t, 8, nil)
	p := env.addNamed(t, tournament.ID, 5)

	_, err := env.brackets.GenerateBracket(ctx, trainer, tournament.ID)
	require.NoError(t, err)

	b := env.bracket(t, tournament.ID)
	require.Equal(t, 3, b.Rounds())

	for pos := 0; pos < 3; pos++ {
		m := b.At(1, pos)
		assert.True(t, m.IsBye)
		assert.Equal(t, p[pos].ID, *m.WinnerID)
	}
	last := b.At(1, 3)
	assert.False(t, last.IsBye)
	assert.Equal(t, p[3].ID, *last.Participant1ID)
	assert.Equal(t, p[4].ID, *last.Participant2ID)

	semi1, semi2 := b.At(2, 0), b.At(2, 1)
	assert.Equal(t, p[0].ID, *semi1.Participant1ID)
	assert.Equal(t, p[1].ID, *semi1.Participant2ID)
	assert.Equal(t, p[2].ID, *semi2.Participant1ID)
	assert.Nil(t, semi2.Participant2ID)
}

func TestGenerateBracket_OnlyApprovedCount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tournament := env.createTournament(t, 8, nil)

	env.addNamed(t, tournament.ID, 1)
	_, err := env.participants.RequestJoin(ctx, member, tournament.ID, "Pending")
	require.NoError(t, err)

	_, err = env.brackets.GenerateBracket(ctx, trainer, tournament.ID)
	assert.ErrorIs(t, err, ErrInsufficientParticipants)
	assert.Equal(t, bracket.TournamentSetup, env.status(t, tournament.ID))

	env.addNamed(t, tournament.ID, 1)
	data, err := env.brackets.GenerateBracket(ctx, trainer, tournament.ID)
	require.NoError(t, err)
	assert.Len(t, data.Matches, 1)
	assert.Len(t, data.Participants, 2)
}

func TestGenerateBracket_OneShot(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tournament := env.createTournament(t, 4, nil)
	env.addNamed(t, tournament.ID, 2)

	_, err := env.brackets.GenerateBracket(ctx, member, tournament.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = env.brackets.GenerateBracket(ctx, trainer, tournament.ID)
	require.NoError(t, err)

	_, err = env.brackets.GenerateBracket(ctx, admin, tournament.ID)
	assert.ErrorIs(t, err, ErrAlreadyGenerated)

	_, err = env.brackets.GenerateBracket(ctx, admin, uuid.New())
	assert.ErrorIs(t, err, ErrTournamentNotFound)
}

func TestGetBracket(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tournament := env.createTournament(t, 4, nil)
	env.addNamed(t, tournament.ID, 3)

	data, err := env.brackets.GetBracket(ctx, tournament.ID)
	require.NoError(t, err)
	assert.Empty(t, data.Matches)
	assert.Len(t, data.Participants, 3)

	_, err = env.brackets.GenerateBracket(ctx, trainer, tournament.ID)
	require.NoError(t, err)

	data, err = env.brackets.GetBracket(ctx, tournament.ID)
	require.NoError(t, err)
	assert.Len(t, data.Matches, 3)
	assert.Equal(t, bracket.TournamentActive, data.Tournament.Status)

	_, err = env.brackets.GetBracket(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrTournamentNotFound)
}
