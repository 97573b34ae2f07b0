package scoreboard

import (
	"context"
	"database/sql"
	"errors"

	"BlockJack/internal/game/table"
)

const pgSchema = `
CREATE TABLE IF NOT EXISTS team_tallies (
    team    TEXT PRIMARY KEY,
    wins    BIGINT NOT NULL DEFAULT 0,
    ties    BIGINT NOT NULL DEFAULT 0,
    losses  BIGINT NOT NULL DEFAULT 0
)`

type pgRepo struct {
	db *sql.DB
}

// NewPostgresRepo 建表（若不存在）后返回 Repo
func NewPostgresRepo(ctx context.Context, db *sql.DB) (Repo, error) {
	if _, err := db.ExecContext(ctx, pgSchema); err != nil {
		return nil, err
	}
	return &pgRepo{db: db}, nil
}

func (r *pgRepo) Record(ctx context.Context, team string, result table.Result) error {
	if err := checkResult(result); err != nil {
		return err
	}
	var w, t, l int64
	switch result {
	case table.Win:
		w = 1
	case table.Tie:
		t = 1
	case table.Loss:
		l = 1
	}
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO team_tallies(team, wins, ties, losses)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (team) DO UPDATE
          SET wins   = team_tallies.wins + EXCLUDED.wins,
              ties   = team_tallies.ties + EXCLUDED.ties,
              losses = team_tallies.losses + EXCLUDED.losses
    `, team, w, t, l)
	return err
}

func (r *pgRepo) Get(ctx context.Context, team string) (Tally, error) {
	out := Tally{Team: team}
	err := r.db.QueryRowContext(ctx,
		`SELECT wins, ties, losses FROM team_tallies WHERE team = $1`, team,
	).Scan(&out.Wins, &out.Ties, &out.Losses)
	if errors.Is(err, sql.ErrNoRows) {
		return out, nil
	}
	return out, err
}

func (r *pgRepo) Top(ctx context.Context, n int) ([]Tally, error) {
	if n < 0 {
		n = 1 << 30
	}
	rows, err := r.db.QueryContext(ctx, `
        SELECT team, wins, ties, losses FROM team_tallies
        ORDER BY wins DESC, team ASC
        LIMIT $1
    `, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Tally{}
	for rows.Next() {
		var t Tally
		if err := rows.Scan(&t.Team, &t.Wins, &t.Ties, &t.Losses); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
