package main

import (
	"net/http"

	"github.com/AdamBeresnev/gymit/internal/events"
	"github.com/AdamBeresnev/gymit/internal/lock"
	"github.com/AdamBeresnev/gymit/internal/middleware"
	"github.com/AdamBeresnev/gymit/internal/service"
	"github.com/AdamBeresnev/gymit/internal/store"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"
)

type application struct {
	db           *sqlx.DB
	auth         *middleware.Authenticator
	tournaments  *service.TournamentService
	participants *service.ParticipantService
	brackets     *service.BracketService
	matches      *service.MatchService
}

func newApplication(db *sqlx.DB, locker lock.Locker, publisher events.Publisher, auth *middleware.Authenticator) *application {
	tournamentStore := store.NewTournamentStore()
	return &application{
		db:           db,
		auth:         auth,
		tournaments:  service.NewTournamentService(db, tournamentStore, locker, publisher),
		participants: service.NewParticipantService(db, tournamentStore, locker, publisher),
		brackets:     service.NewBracketService(db, tournamentStore, locker, publisher),
		matches:      service.NewMatchService(db, tournamentStore, locker, publisher),
	}
}

func newRouter(app *application, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{"Retry-After"},
		MaxAge:         300,
	}))

	r.Get("/health", app.health)

	r.Group(func(r chi.Router) {
		r.Use(app.auth.RequireAuth)

		r.Route("/tournaments", func(r chi.Router) {
			r.Get("/", app.listTournaments)
			r.Post("/", app.createTournament)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", app.getTournament)
				r.Delete("/", app.deleteTournament)
				r.Post("/pause", app.pauseTournament)
				r.Post("/resume", app.resumeTournament)

				r.Get("/participants", app.getParticipants)
				r.Post("/participants", app.addParticipants)
				r.Post("/participants/{participantID}/approve", app.approveParticipant)
				r.Post("/join", app.requestJoin)

				r.Get("/bracket", app.getBracket)
				r.Post("/bracket", app.generateBracket)

				r.Post("/matches/{matchID}/result", app.recordResult)
				r.Delete("/matches/{matchID}/result", app.clearResult)

				r.Get("/standings", app.getStandings)
			})
		})
	})

	return r
}
