package scoreboard

import (
	"context"

	"BlockJack/internal/game/table"
)

// Tally 某支队伍的累计战绩
type Tally struct {
	Team   string `json:"team"`
	Wins   int64  `json:"wins"`
	Ties   int64  `json:"ties"`
	Losses int64  `json:"losses"`
}

func (t Tally) Rounds() int64 {
	return t.Wins + t.Ties + t.Losses
}

// Repo 定义积分榜的存储抽象
type Repo interface {
	// Record 记一局结果（只接受 Win/Tie/Loss）
	Record(ctx context.Context, team string, result table.Result) error
	// Get 查询单支队伍，不存在时返回零值 Tally
	Get(ctx context.Context, team string) (Tally, error)
	// Top 按胜场降序返回前 n 名，同分按队名升序
	Top(ctx context.Context, n int) ([]Tally, error)
}
