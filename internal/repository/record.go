package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/ametelin/minesweeper-agent/internal/game"
)

// Record is one entry of the finished-game leaderboard, fastest first.
type Record struct {
	GameSessionId int64   `json:"game_session_id"`
	Username      *string `json:"username"`
	Width         int     `json:"width"`
	Height        int     `json:"height"`
	MineCount     int     `json:"mine_count"`
	Fair          bool    `json:"fair"`
	Moves         int     `json:"moves"`
	Guesses       int     `json:"guesses"`
	PlaytimeMs    float64 `json:"playtime_ms"`
}

type RecordFilter struct {
	Username   *string
	GameParams *game.Params
}

func (f RecordFilter) WhereClause() (string, pgx.NamedArgs) {
	clauses := make([]string, 0)
	args := pgx.NamedArgs{}
	if f.Username != nil {
		clauses = append(clauses, "username = @username")
		args["username"] = *f.Username
	}
	if f.GameParams != nil {
		clauses = append(
			clauses,
			"width = @width",
			"height = @height",
			"mine_count = @mineCount",
			"fair = @fair",
		)
		args["width"] = f.GameParams.Width
		args["height"] = f.GameParams.Height
		args["mineCount"] = f.GameParams.MineCount
		args["fair"] = f.GameParams.Fair
	}
	return strings.Join(clauses, " AND "), args
}

func (q Queries) GetRecords(
	ctx context.Context, filter RecordFilter,
) ([]Record, error) {
	query := `
	SELECT
		game_session_id,
		username,
		width,
		height,
		mine_count,
		fair,
		moves,
		guesses,
		(
			extract('epoch' from ended_at) -
			extract('epoch' from started_at)
		) * 1000 playtime_ms
	FROM game_session
		LEFT OUTER JOIN player using (player_id)
	WHERE
		won = true
		AND dead = false
		AND ended_at IS NOT NULL
	`

	whereClause, args := filter.WhereClause()
	if whereClause != "" {
		query += " AND " + whereClause
	}

	query += " ORDER BY playtime_ms;"

	rows, err := q.db.Query(ctx, query, args)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[Record])
}
