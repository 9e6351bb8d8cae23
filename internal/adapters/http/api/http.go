// Package api wires the HTTP routes of the SyncSix service.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/okian/syncsix/internal/adapters/apisports"
	"github.com/okian/syncsix/internal/adapters/http/swagger"
	"github.com/okian/syncsix/internal/domain/model"
	"github.com/okian/syncsix/pkg/logger"
)

// Upstream proxies the api-sports endpoints.
type Upstream interface {
	Games(ctx context.Context, league, season, date string) ([]byte, error)
	GamesRange(ctx context.Context, league, season, from, to string) ([]byte, error)
	Roster(ctx context.Context, team, season string) ([]byte, error)
}

// Dependencies required by the handlers.
type Dependencies interface {
	Upstream
	StatsProvider

	// Rank scores and ranks players for one event.
	Rank(ctx context.Context, players []model.RawPlayer, event model.Event) []model.ScoredPlayer
	// Slate ranks the players of every game on date.
	Slate(ctx context.Context, league, season, date string) ([]model.SlateEntry, error)
}

const maxSyncBody = 4 << 20

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Server holds the handlers.
type Server struct {
	deps   Dependencies
	stats  *StatsHandler
	logger logger.Logger
}

// NewServer creates a new API server.
func NewServer(deps Dependencies, log logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	return &Server{
		deps:   deps,
		stats:  NewStatsHandler(deps),
		logger: log.Named("api"),
	}
}

// Routes builds the router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(AccessLog(s.logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", HeaderRequestID},
		ExposedHeaders: []string{HeaderRequestID},
		MaxAge:         300,
	}))

	r.With(MetricsMiddleware("healthz")).Method(http.MethodGet, "/healthz", HandleHealth())
	r.With(MetricsMiddleware("stats")).Method(http.MethodGet, "/stats", s.stats)
	swagger.Register(r)

	r.Route("/api", func(r chi.Router) {
		r.With(MetricsMiddleware("games")).Get("/games", s.handleGames)
		r.With(MetricsMiddleware("roster")).Get("/roster", s.handleRoster)
		r.With(MetricsMiddleware("sync")).Post("/sync", s.handleSync)
		r.With(MetricsMiddleware("slate")).Get("/slate", s.handleSlate)
	})
	return r
}

func (s *Server) handleGames(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_games"
	q := r.URL.Query()
	league, season := q.Get("league"), q.Get("season")

	if q.Has("from") || q.Has("to") {
		from, to := q.Get("from"), q.Get("to")
		if league == "" || season == "" || from == "" || to == "" {
			s.badRequest(w, r, op, "Missing parameters (league, season, from, or to)")
			return
		}
		body, err := s.deps.GamesRange(r.Context(), league, season, from, to)
		s.writeUpstream(w, r, op, body, err)
		return
	}

	date := q.Get("date")
	if league == "" || season == "" || date == "" {
		s.badRequest(w, r, op, "Missing parameters (league, season, or date)")
		return
	}
	body, err := s.deps.Games(r.Context(), league, season, date)
	s.writeUpstream(w, r, op, body, err)
}

func (s *Server) handleRoster(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_roster"
	q := r.URL.Query()
	team, season := q.Get("team"), q.Get("season")
	if team == "" || season == "" {
		s.badRequest(w, r, op, "Missing parameters (team or season)")
		return
	}
	body, err := s.deps.Roster(r.Context(), team, season)
	s.writeUpstream(w, r, op, body, err)
}

type syncRequest struct {
	Players []model.RawPlayer `json:"players"`
	Event   model.Event       `json:"event"`
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_sync"
	var req syncRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSyncBody))
	if err := dec.Decode(&req); err != nil {
		err = WrapKind(op, ErrBadRequest, err)
		s.logger.Debug(r.Context(), "rejecting sync body", logger.Error(err))
		writeError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.deps.Rank(r.Context(), req.Players, req.Event))
}

func (s *Server) handleSlate(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_slate"
	q := r.URL.Query()
	league, season, date := q.Get("league"), q.Get("season"), q.Get("date")
	if league == "" || season == "" || date == "" {
		s.badRequest(w, r, op, "Missing parameters (league, season, or date)")
		return
	}
	slate, err := s.deps.Slate(r.Context(), league, season, date)
	if err != nil {
		s.serverError(w, r, op, err)
		return
	}
	writeJSON(w, http.StatusOK, slate)
}

// writeUpstream sends an upstream body unchanged, or maps the failure.
func (s *Server) writeUpstream(w http.ResponseWriter, r *http.Request, op string, body []byte, err error) {
	if errors.Is(err, apisports.ErrRange) {
		writeError(w, http.StatusBadRequest, "Invalid date range", err.Error())
		return
	}
	if err != nil {
		s.serverError(w, r, op, err)
		return
	}
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (s *Server) badRequest(w http.ResponseWriter, r *http.Request, op, msg string) {
	s.logger.Debug(r.Context(), "bad request", logger.Error(NewKind(op, ErrBadRequest)), logger.String("reason", msg))
	writeError(w, http.StatusBadRequest, msg, "")
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, op string, err error) {
	s.logger.Error(r.Context(), "request failed",
		logger.Error(WrapKind(op, ErrUpstream, err)),
		logger.String("requestID", RequestIDFrom(r.Context())),
	)
	writeError(w, http.StatusInternalServerError, "Server error", err.Error())
}

// writeError sends {"error":msg,"details":details}; details is omitted when empty.
func writeError(w http.ResponseWriter, status int, msg, details string) {
	writeJSON(w, status, errorResponse{Error: msg, Details: details})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body = []byte(fmt.Sprintf(`{"error":"Server error","details":%q}`, err.Error()))
	}
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
