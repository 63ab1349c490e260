package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/AdamBeresnev/gymit/internal/bracket"
	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var ErrNotFound = errors.New("record not found")

const tournamentColumns = `t.id, t.name, t.tournament_type, t.max_participants, t.status, t.is_paused,
	t.start_date, t.registration_deadline, t.created_at,
	(SELECT COUNT(*) FROM participants p WHERE p.tournament_id = t.id AND p.status = 'approved') AS participant_count`

// TournamentStore holds the SQL for tournaments, participants and matches. Every method takes the
// executor to run on, so callers decide whether a call joins a transaction.
type TournamentStore struct{}

func NewTournamentStore() *TournamentStore {
	return &TournamentStore{}
}

type TournamentFilter struct {
	Status *bracket.TournamentStatus
	Limit  uint64
	Offset uint64
}

func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return err
}

func (s *TournamentStore) CreateTournament(ctx context.Context, q sqlx.ExtContext, tournament *bracket.Tournament) error {
	_, err := sqlx.NamedExecContext(ctx, q, `INSERT INTO tournaments (id, name, tournament_type, max_participants, status, is_paused, start_date, registration_deadline, created_at)
		VALUES (:id, :name, :tournament_type, :max_participants, :status, :is_paused, :start_date, :registration_deadline, :created_at)`, tournament)
	return err
}

func (s *TournamentStore) GetTournament(ctx context.Context, q sqlx.ExtContext, id uuid.UUID) (*bracket.Tournament, error) {
	var tournament bracket.Tournament
	query := q.Rebind("SELECT " + tournamentColumns + " FROM tournaments t WHERE t.id = ?")
	if err := sqlx.GetContext(ctx, q, &tournament, query, id); err != nil {
		return nil, notFound(err, "tournament")
	}
	return &tournament, nil
}

func (s *TournamentStore) ListTournaments(ctx context.Context, q sqlx.ExtContext, filter TournamentFilter) ([]bracket.Tournament, error) {
	builder := sq.Select(tournamentColumns).
		From("tournaments t").
		OrderBy("t.start_date ASC", "t.created_at ASC")
	if filter.Status != nil {
		builder = builder.Where(sq.Eq{"t.status": string(*filter.Status)})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(filter.Limit).Offset(filter.Offset)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	tournaments := []bracket.Tournament{}
	err = sqlx.SelectContext(ctx, q, &tournaments, q.Rebind(query), args...)
	return tournaments, err
}

func (s *TournamentStore) UpdateTournamentStatus(ctx context.Context, q sqlx.ExtContext, id uuid.UUID, status bracket.TournamentStatus) error {
	res, err := q.ExecContext(ctx, q.Rebind("UPDATE tournaments SET status = ? WHERE id = ?"), status, id)
	return affected(res, err, "tournament")
}

func (s *TournamentStore) SetPaused(ctx context.Context, q sqlx.ExtContext, id uuid.UUID, paused bool) error {
	res, err := q.ExecContext(ctx, q.Rebind("UPDATE tournaments SET is_paused = ? WHERE id = ?"), paused, id)
	return affected(res, err, "tournament")
}

// DeleteTournament removes the tournament with its matches and participants. Children are deleted
// explicitly since matches reference participants.
func (s *TournamentStore) DeleteTournament(ctx context.Context, q sqlx.ExtContext, id uuid.UUID) error {
	if _, err := q.ExecContext(ctx, q.Rebind("DELETE FROM matches WHERE tournament_id = ?"), id); err != nil {
		return err
	}
	if _, err := q.ExecContext(ctx, q.Rebind("DELETE FROM participants WHERE tournament_id = ?"), id); err != nil {
		return err
	}
	res, err := q.ExecContext(ctx, q.Rebind("DELETE FROM tournaments WHERE id = ?"), id)
	return affected(res, err, "tournament")
}

func (s *TournamentStore) CreateParticipants(ctx context.Context, q sqlx.ExtContext, participants []bracket.Participant) error {
	if len(participants) == 0 {
		return nil
	}
	_, err := sqlx.NamedExecContext(ctx, q, `INSERT INTO participants (id, tournament_id, user_id, name, status, seed, created_at)
		VALUES (:id, :tournament_id, :user_id, :name, :status, :seed, :created_at)`, participants)
	return err
}

func (s *TournamentStore) GetParticipant(ctx context.Context, q sqlx.ExtContext, tournamentID, id uuid.UUID) (*bracket.Participant, error) {
	var participant bracket.Participant
	query := q.Rebind("SELECT * FROM participants WHERE id = ? AND tournament_id = ?")
	if err := sqlx.GetContext(ctx, q, &participant, query, id, tournamentID); err != nil {
		return nil, notFound(err, "participant")
	}
	return &participant, nil
}

// FindParticipantByUser returns the user's entry in the tournament, or ErrNotFound.
func (s *TournamentStore) FindParticipantByUser(ctx context.Context, q sqlx.ExtContext, tournamentID uuid.UUID, userID string) (*bracket.Participant, error) {
	var participant bracket.Participant
	query := q.Rebind("SELECT * FROM participants WHERE tournament_id = ? AND user_id = ?")
	if err := sqlx.GetContext(ctx, q, &participant, query, tournamentID, userID); err != nil {
		return nil, notFound(err, "participant")
	}
	return &participant, nil
}

// ListParticipants returns participants in seed order, optionally only those with the given status.
func (s *TournamentStore) ListParticipants(ctx context.Context, q sqlx.ExtContext, tournamentID uuid.UUID, status *bracket.ParticipantStatus) ([]bracket.Participant, error) {
	builder := sq.Select("*").
		From("participants").
		Where(sq.Eq{"tournament_id": tournamentID.String()}).
		OrderBy("seed ASC")
	if status != nil {
		builder = builder.Where(sq.Eq{"status": string(*status)})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	participants := []bracket.Participant{}
	err = sqlx.SelectContext(ctx, q, &participants, q.Rebind(query), args...)
	return participants, err
}

// MaxSeed returns the highest seed in the tournament, 0 when there are no participants.
func (s *TournamentStore) MaxSeed(ctx context.Context, q sqlx.ExtContext, tournamentID uuid.UUID) (int, error) {
	var seed int
	err := sqlx.GetContext(ctx, q, &seed, q.Rebind("SELECT COALESCE(MAX(seed), 0) FROM participants WHERE tournament_id = ?"), tournamentID)
	return seed, err
}

func (s *TournamentStore) ApproveParticipant(ctx context.Context, q sqlx.ExtContext, tournamentID, id uuid.UUID) error {
	res, err := q.ExecContext(ctx, q.Rebind("UPDATE participants SET status = ? WHERE id = ? AND tournament_id = ?"), bracket.ParticipantApproved, id, tournamentID)
	return affected(res, err, "participant")
}

func (s *TournamentStore) CreateMatches(ctx context.Context, q sqlx.ExtContext, matches []bracket.Match) error {
	if len(matches) == 0 {
		return nil
	}
	_, err := sqlx.NamedExecContext(ctx, q, `INSERT INTO matches (id, tournament_id, round, position, participant_1_id, participant_2_id, winner_id, score, is_bye, created_at)
		VALUES (:id, :tournament_id, :round, :position, :participant_1_id, :participant_2_id, :winner_id, :score, :is_bye, :created_at)`, matches)
	return err
}

func (s *TournamentStore) GetMatches(ctx context.Context, q sqlx.ExtContext, tournamentID uuid.UUID) ([]bracket.Match, error) {
	matches := []bracket.Match{}
	err := sqlx.SelectContext(ctx, q, &matches, q.Rebind("SELECT * FROM matches WHERE tournament_id = ? ORDER BY round ASC, position ASC"), tournamentID)
	return matches, err
}

func (s *TournamentStore) HasMatches(ctx context.Context, q sqlx.ExtContext, tournamentID uuid.UUID) (bool, error) {
	var count int
	err := sqlx.GetContext(ctx, q, &count, q.Rebind("SELECT COUNT(*) FROM matches WHERE tournament_id = ?"), tournamentID)
	return count > 0, err
}

// UpdateMatch writes the mutable fields of a match: its slots, winner, score and bye flag.
func (s *TournamentStore) UpdateMatch(ctx context.Context, q sqlx.ExtContext, match *bracket.Match) error {
	res, err := sqlx.NamedExecContext(ctx, q, `UPDATE matches
		SET participant_1_id = :participant_1_id, participant_2_id = :participant_2_id, winner_id = :winner_id, score = :score, is_bye = :is_bye
		WHERE id = :id`, match)
	return affected(res, err, "match")
}

func affected(res sql.Result, err error, what string) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}
