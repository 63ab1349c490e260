package main

import (
	"context"
	"net/http"
	"time"

	"github.com/AdamBeresnev/gymit/internal/bracket"
	"github.com/AdamBeresnev/gymit/internal/httputil"
	"github.com/AdamBeresnev/gymit/internal/middleware"
	"github.com/AdamBeresnev/gymit/internal/service"
	users "github.com/AdamBeresnev/gymit/internal/user"
	"github.com/AdamBeresnev/gymit/views"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func urlUUID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		httputil.BadRequest(w, r, "invalid "+param, err)
		return uuid.Nil, false
	}
	return id, true
}

func actor(r *http.Request) users.Actor {
	a, _ := middleware.GetActor(r.Context())
	return a
}

func (app *application) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := app.db.PingContext(ctx); err != nil {
		httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (app *application) listTournaments(w http.ResponseWriter, r *http.Request) {
	var status *bracket.TournamentStatus
	if s := r.URL.Query().Get("status"); s != "" {
		v := bracket.TournamentStatus(s)
		status = &v
	}

	tournaments, err := app.tournaments.ListTournaments(r.Context(), status)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, tournaments)
}

func (app *application) createTournament(w http.ResponseWriter, r *http.Request) {
	var input service.CreateTournamentInput
	if err := httputil.ReadJSON(w, r, &input); err != nil {
		httputil.BadRequest(w, r, "invalid request body", err)
		return
	}

	tournament, err := app.tournaments.CreateTournament(r.Context(), actor(r), input)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, tournament)
}

func (app *application) getTournament(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(w, r, "id")
	if !ok {
		return
	}

	tournament, err := app.tournaments.GetTournament(r.Context(), id)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, tournament)
}

func (app *application) deleteTournament(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(w, r, "id")
	if !ok {
		return
	}

	if err := app.tournaments.DeleteTournament(r.Context(), actor(r), id); err != nil {
		httputil.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (app *application) pauseTournament(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(w, r, "id")
	if !ok {
		return
	}

	tournament, err := app.tournaments.PauseTournament(r.Context(), actor(r), id)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, tournament)
}

func (app *application) resumeTournament(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(w, r, "id")
	if !ok {
		return
	}

	tournament, err := app.tournaments.ResumeTournament(r.Context(), actor(r), id)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, tournament)
}

func (app *application) getParticipants(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(w, r, "id")
	if !ok {
		return
	}

	var status *bracket.ParticipantStatus
	if s := r.URL.Query().Get("status"); s != "" {
		v := bracket.ParticipantStatus(s)
		status = &v
	}

	participants, err := app.participants.GetParticipants(r.Context(), id, status)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, participants)
}

type addParticipantsRequest struct {
	Entries []service.ParticipantInput `json:"entries"`
	// Newline separated names, an alternative to Entries
	Text string `json:"text"`
}

func (app *application) addParticipants(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(w, r, "id")
	if !ok {
		return
	}

	var req addParticipantsRequest
	if err := httputil.ReadJSON(w, r, &req); err != nil {
		httputil.BadRequest(w, r, "invalid request body", err)
		return
	}

	var (
		added []bracket.Participant
		err   error
	)
	if len(req.Entries) == 0 && req.Text != "" {
		added, err = app.participants.AddParticipantsText(r.Context(), actor(r), id, req.Text)
	} else {
		added, err = app.participants.AddParticipants(r.Context(), actor(r), id, req.Entries)
	}
	if err != nil {
		httputil.Error(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, added)
}

type joinRequest struct {
	Name string `json:"name"`
}

func (app *application) requestJoin(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(w, r, "id")
	if !ok {
		return
	}

	var req joinRequest
	if r.ContentLength != 0 {
		if err := httputil.ReadJSON(w, r, &req); err != nil {
			httputil.BadRequest(w, r, "invalid request body", err)
			return
		}
	}

	participant, err := app.participants.RequestJoin(r.Context(), actor(r), id, req.Name)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, participant)
}

func (app *application) approveParticipant(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(w, r, "id")
	if !ok {
		return
	}
	participantID, ok := urlUUID(w, r, "participantID")
	if !ok {
		return
	}

	participant, err := app.participants.ApproveParticipant(r.Context(), actor(r), id, participantID)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, participant)
}

func (app *application) generateBracket(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(w, r, "id")
	if !ok {
		return
	}

	data, err := app.brackets.GenerateBracket(r.Context(), actor(r), id)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, views.PrepareBracketData(data.Tournament, data.Participants, data.Matches))
}

func (app *application) getBracket(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(w, r, "id")
	if !ok {
		return
	}

	data, err := app.brackets.GetBracket(r.Context(), id)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, views.PrepareBracketData(data.Tournament, data.Participants, data.Matches))
}

type recordResultRequest struct {
	WinnerID uuid.UUID `json:"winner_id"`
	Score    *string   `json:"score"`
}

func (app *application) recordResult(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(w, r, "id")
	if !ok {
		return
	}
	matchID, ok := urlUUID(w, r, "matchID")
	if !ok {
		return
	}

	var req recordResultRequest
	if err := httputil.ReadJSON(w, r, &req); err != nil {
		httputil.BadRequest(w, r, "invalid request body", err)
		return
	}
	if req.WinnerID == uuid.Nil {
		httputil.BadRequest(w, r, "winner_id is required", nil)
		return
	}

	match, err := app.matches.RecordResult(r.Context(), actor(r), id, matchID, req.WinnerID, req.Score)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, match)
}

func (app *application) clearResult(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(w, r, "id")
	if !ok {
		return
	}
	matchID, ok := urlUUID(w, r, "matchID")
	if !ok {
		return
	}

	cleared, err := app.matches.ClearResult(r.Context(), actor(r), id, matchID)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"cleared": cleared})
}

func (app *application) getStandings(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(w, r, "id")
	if !ok {
		return
	}

	standings, err := app.matches.GetStandings(r.Context(), id)
	if err != nil {
		httputil.Error(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, standings)
}
