package scoreboard

import (
	"context"
	"fmt"
	"strconv"

	"BlockJack/internal/game/table"

	"github.com/redis/go-redis/v9"
)

type redisRepo struct {
	rdb *redis.Client
}

func NewRedisRepo(rdb *redis.Client) Repo {
	return &redisRepo{rdb: rdb}
}

// key 约定：
//
//	hash: bj:team:{team}  -> wins / ties / losses
//	zset: bj:rank         -> member=team, score=-wins（输了也会以 0 分入榜）
//
// 分数取负：ZRANGE 升序即胜场降序，同分时 redis 按 member 字典序升序，正好是队名升序。
const rankKey = "bj:rank"

func teamKey(team string) string {
	return fmt.Sprintf("bj:team:%s", team)
}

func resultField(r table.Result) string {
	switch r {
	case table.Win:
		return "wins"
	case table.Tie:
		return "ties"
	default:
		return "losses"
	}
}

func (r *redisRepo) Record(ctx context.Context, team string, result table.Result) error {
	if err := checkResult(result); err != nil {
		return err
	}
	var inc float64
	if result == table.Win {
		inc = -1
	}
	p := r.rdb.TxPipeline()
	p.HIncrBy(ctx, teamKey(team), resultField(result), 1)
	p.ZIncrBy(ctx, rankKey, inc, team)
	_, err := p.Exec(ctx)
	return err
}

func (r *redisRepo) Get(ctx context.Context, team string) (Tally, error) {
	m, err := r.rdb.HGetAll(ctx, teamKey(team)).Result()
	if err != nil {
		return Tally{}, err
	}
	return tallyFromHash(team, m), nil
}

func (r *redisRepo) Top(ctx context.Context, n int) ([]Tally, error) {
	if n == 0 {
		return []Tally{}, nil
	}
	stop := int64(n - 1)
	if n < 0 {
		stop = -1
	}
	teams, err := r.rdb.ZRange(ctx, rankKey, 0, stop).Result()
	if err != nil {
		return nil, err
	}
	if len(teams) == 0 {
		return []Tally{}, nil
	}

	// 只取前 n 名的 hash
	p := r.rdb.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(teams))
	for i, team := range teams {
		cmds[i] = p.HGetAll(ctx, teamKey(team))
	}
	if _, err := p.Exec(ctx); err != nil {
		return nil, err
	}

	out := make([]Tally, len(teams))
	for i, team := range teams {
		out[i] = tallyFromHash(team, cmds[i].Val())
	}
	return out, nil
}

func tallyFromHash(team string, m map[string]string) Tally {
	parse := func(k string) int64 {
		v, _ := strconv.ParseInt(m[k], 10, 64)
		return v
	}
	return Tally{
		Team:   team,
		Wins:   parse("wins"),
		Ties:   parse("ties"),
		Losses: parse("losses"),
	}
}
