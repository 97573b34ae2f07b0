package scoreboard

import (
	"context"
	"fmt"
	"strings"

	"BlockJack/internal/game/table"
	"BlockJack/internal/session"
)

// Service 积分榜：把每局结算结果写入 Repo
type Service struct {
	repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{repo: repo}
}

func checkResult(r table.Result) error {
	switch r {
	case table.Win, table.Tie, table.Loss:
		return nil
	}
	return fmt.Errorf("cannot record unsettled result %v", r)
}

// normalizeTeam 空队名统一记为 "anonymous"
func normalizeTeam(team string) string {
	team = strings.TrimSpace(team)
	if team == "" {
		return "anonymous"
	}
	return team
}

// RoundSettled 作为 GameManager 的结算回调
func (s *Service) RoundSettled(ctx context.Context, r session.Report) error {
	return s.repo.Record(ctx, normalizeTeam(r.Team), r.Result)
}

func (s *Service) Team(ctx context.Context, team string) (Tally, error) {
	return s.repo.Get(ctx, normalizeTeam(team))
}

func (s *Service) Top(ctx context.Context, n int) ([]Tally, error) {
	return s.repo.Top(ctx, n)
}
