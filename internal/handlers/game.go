package handlers

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/ametelin/minesweeper-agent/internal/agent"
	"github.com/ametelin/minesweeper-agent/internal/config"
	"github.com/ametelin/minesweeper-agent/internal/game"
	"github.com/ametelin/minesweeper-agent/internal/grid"
	"github.com/ametelin/minesweeper-agent/internal/middleware"
	"github.com/ametelin/minesweeper-agent/internal/repository"
)

type Games struct {
	log     *logrus.Logger
	repo    repository.Queries
	cookies *config.Cookies
	ws      *config.WebSocket
	rnd     *rand.Rand
}

func NewGames(
	log *logrus.Logger,
	db *pgxpool.Pool,
	cookies *config.Cookies,
	ws *config.WebSocket,
	rnd *rand.Rand,
) *Games {
	return &Games{
		log:     log,
		repo:    repository.New(db),
		cookies: cookies,
		ws:      ws,
		rnd:     rnd,
	}
}

func (g Games) Create(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	dto, err := ParseNewGameDTO(query)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, g.log, wrapError(err))
		return
	}
	params := dto.GameParams()
	if err := params.Validate(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, g.log, wrapError(err))
		return
	}

	pos, err := ParsePosition(query)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, g.log, wrapError(err))
		return
	}
	start := grid.Cell{X: pos.X, Y: pos.Y}
	if !params.Size().Contains(start) {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, g.log, wrapError(fmt.Errorf("invalid cell position")))
		return
	}

	board, err := agent.NewBoard(params, start, g.rnd)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.log.WithError(err).Error("unable to generate a new board")
		return
	}
	state, err := game.Start(board, params, start)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.log.WithError(err).Error("unable to start a new game")
		return
	}

	var createParams repository.CreateGameSessionParams
	claims, loggedIn := r.Context().Value(middleware.CtxPlayerClaims).(*config.PlayerClaims)
	if loggedIn {
		g.log.WithField("username", claims.Username).Debug("creating player session")
		createParams.PlayerId = &claims.PlayerId
	} else {
		g.log.Debug("creating anonymous session")
	}

	session, err := g.repo.CreateGameSession(r.Context(), state, createParams)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.log.WithError(err).Error("unable to create game session")
		return
	}

	sendJSONOrLog(w, g.log, NewGameSessionDTO(session, state))
}

// fetchSession loads and decodes the session addressed by the {id}
// path segment, writing the error response itself when that fails.
func (g Games) fetchSession(
	w http.ResponseWriter, r *http.Request,
) (*repository.GameSession, *game.State, bool) {
	sessionId, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return nil, nil, false
	}

	session, err := g.repo.FetchGameSession(r.Context(), sessionId)
	if errors.Is(err, pgx.ErrNoRows) {
		w.WriteHeader(http.StatusNotFound)
		return nil, nil, false
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.log.WithError(err).Error("unable to fetch session from db")
		return nil, nil, false
	}

	state, err := session.GameState()
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.log.WithError(err).Error("db returned invalid game_session.state")
		return nil, nil, false
	}

	return session, state, true
}

// persist writes the mutated state back, stamping ended_at the first
// time the game reaches a terminal state.
func (g Games) persist(
	ctx context.Context, session *repository.GameSession, state *game.State,
) (*repository.GameSession, error) {
	encoded, err := state.Bytes()
	if err != nil {
		return nil, err
	}
	params := repository.UpdateGameSessionParams{
		Dead:    &state.Dead,
		Won:     &state.Won,
		Moves:   &session.Moves,
		Guesses: &session.Guesses,
		State:   &encoded,
	}
	if state.Finished() && !session.EndedAt.Valid {
		now := time.Now().UTC()
		params.EndedAt = &now
	}
	return g.repo.UpdateGameSession(ctx, session.GameSessionId, params)
}

func (g Games) Fetch(w http.ResponseWriter, r *http.Request) {
	session, state, ok := g.fetchSession(w, r)
	if !ok {
		return
	}
	sendJSONOrLog(w, g.log, NewGameSessionDTO(session, state))
}

// Probe opens one cell picked by the player rather than the agent.
func (g Games) Probe(w http.ResponseWriter, r *http.Request) {
	pos, err := ParsePosition(r.URL.Query())
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, g.log, wrapError(err))
		return
	}

	session, state, ok := g.fetchSession(w, r)
	if !ok {
		return
	}

	_, err = state.Probe(grid.Cell{X: pos.X, Y: pos.Y})
	if errors.Is(err, game.ErrOutOfBounds) {
		w.WriteHeader(http.StatusBadRequest)
		sendJSONOrLog(w, g.log, wrapError(err))
		return
	}
	if errors.Is(err, game.ErrFinished) {
		w.WriteHeader(http.StatusConflict)
		sendJSONOrLog(w, g.log, wrapError(err))
		return
	}
	session.Moves++

	session, err = g.persist(r.Context(), session, state)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.log.WithError(err).Error("unable to update session in db")
		return
	}

	sendJSONOrLog(w, g.log, NewGameSessionDTO(session, state))
}

type MoveDTO struct {
	X       int  `json:"x"`
	Y       int  `json:"y"`
	Certain bool `json:"certain"`
}

type StepDTO struct {
	*GameSessionDTO
	Move MoveDTO `json:"move"`
}

// Step lets the agent make a single move on the stored game.
func (g Games) Step(w http.ResponseWriter, r *http.Request) {
	session, state, ok := g.fetchSession(w, r)
	if !ok {
		return
	}

	a, err := agent.New(state, g.rnd)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.log.WithError(err).Error("unable to rebuild agent knowledge")
		return
	}

	move, err := a.Step()
	if errors.Is(err, game.ErrFinished) || errors.Is(err, agent.ErrNoMoves) {
		w.WriteHeader(http.StatusConflict)
		sendJSONOrLog(w, g.log, wrapError(err))
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.log.WithError(err).Error("agent step failed")
		return
	}
	session.Moves++
	if !move.Certain {
		session.Guesses++
	}

	session, err = g.persist(r.Context(), session, state)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.log.WithError(err).Error("unable to update session in db")
		return
	}

	sendJSONOrLog(w, g.log, StepDTO{
		GameSessionDTO: NewGameSessionDTO(session, state),
		Move:           MoveDTO{X: move.Cell.X, Y: move.Cell.Y, Certain: move.Certain},
	})
}

// Auto lets the agent play the stored game out to the end.
func (g Games) Auto(w http.ResponseWriter, r *http.Request) {
	session, state, ok := g.fetchSession(w, r)
	if !ok {
		return
	}

	a, err := agent.New(state, g.rnd)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.log.WithError(err).Error("unable to rebuild agent knowledge")
		return
	}

	res, err := a.Play()
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.log.WithError(err).Error("agent playthrough failed")
		return
	}
	session.Moves += res.Moves
	session.Guesses += res.Guesses

	session, err = g.persist(r.Context(), session, state)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.log.WithError(err).Error("unable to update session in db")
		return
	}

	sendJSONOrLog(w, g.log, NewGameSessionDTO(session, state))
}

func (g Games) Forfeit(w http.ResponseWriter, r *http.Request) {
	session, state, ok := g.fetchSession(w, r)
	if !ok {
		return
	}

	state.Forfeit()

	session, err := g.persist(r.Context(), session, state)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.log.WithError(err).Error("unable to update session in db")
		return
	}

	sendJSONOrLog(w, g.log, NewGameSessionDTO(session, state))
}

// Records serves the leaderboard, optionally narrowed by a "seed"
// (game params) and/or "username" query parameter.
func (g Games) Records(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := repository.RecordFilter{}

	if query.Has("seed") {
		gameParams, err := game.ParseSeed(query.Get("seed"))
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			sendJSONOrLog(w, g.log, wrapError(err))
			return
		}
		filter.GameParams = gameParams
	}

	if query.Has("username") {
		username := query.Get("username")
		filter.Username = &username
	}

	records, err := g.repo.GetRecords(r.Context(), filter)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		w.WriteHeader(http.StatusInternalServerError)
		g.log.WithError(err).Error("unable to fetch records")
		return
	}

	sendJSONOrLog(w, g.log, records)
}
