package handlers

import (
	"strconv"

	"github.com/gorilla/schema"

	"github.com/ametelin/minesweeper-agent/internal/game"
	"github.com/ametelin/minesweeper-agent/internal/repository"
)

var queryDecoder = func() *schema.Decoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	return dec
}()

type NewGameDTO struct {
	Width     int  `schema:"width,required"`
	Height    int  `schema:"height,required"`
	MineCount int  `schema:"mine_count,required"`
	Fair      bool `schema:"fair"`
}

func ParseNewGameDTO(src map[string][]string) (NewGameDTO, error) {
	var dto NewGameDTO
	err := queryDecoder.Decode(&dto, src)
	return dto, err
}

func (dto NewGameDTO) GameParams() game.Params {
	return game.Params{
		Width:     dto.Width,
		Height:    dto.Height,
		MineCount: dto.MineCount,
		Fair:      dto.Fair,
	}
}

type PositionDTO struct {
	X int `schema:"x,required"`
	Y int `schema:"y,required"`
}

func ParsePosition(src map[string][]string) (PositionDTO, error) {
	var dto PositionDTO
	err := queryDecoder.Decode(&dto, src)
	return dto, err
}

type GameSessionDTO struct {
	GameSessionId string    `json:"game_session_id"`
	View          game.View `json:"view"`
	Width         int       `json:"width"`
	Height        int       `json:"height"`
	MineCount     int       `json:"mine_count"`
	Fair          bool      `json:"fair"`
	Dead          bool      `json:"dead"`
	Won           bool      `json:"won"`
	Moves         int       `json:"moves"`
	Guesses       int       `json:"guesses"`
	StartedAt     int64     `json:"started_at"`
	EndedAt       *int64    `json:"ended_at,omitempty"`
}

func NewGameSessionDTO(session *repository.GameSession, state *game.State) *GameSessionDTO {
	var endedAt *int64
	if session.EndedAt.Valid {
		e := session.EndedAt.Time.UnixMilli()
		endedAt = &e
	}
	return &GameSessionDTO{
		GameSessionId: strconv.FormatInt(session.GameSessionId, 10),
		View:          state.View,
		Width:         state.Width,
		Height:        state.Height,
		MineCount:     state.MineCount,
		Fair:          state.Fair,
		Dead:          state.Dead,
		Won:           state.Won,
		Moves:         session.Moves,
		Guesses:       session.Guesses,
		StartedAt:     session.StartedAt.Time.UnixMilli(),
		EndedAt:       endedAt,
	}
}
