package scoreboard

import (
	"context"
	"sort"
	"sync"

	"BlockJack/internal/game/table"
)

type memRepo struct {
	mu      sync.Mutex
	tallies map[string]*Tally // team -> tally
}

func NewMemoryRepo() Repo {
	return &memRepo{
		tallies: make(map[string]*Tally),
	}
}

func (m *memRepo) Record(ctx context.Context, team string, result table.Result) error {
	if err := checkResult(result); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tallies[team]
	if !ok {
		t = &Tally{Team: team}
		m.tallies[team] = t
	}
	switch result {
	case table.Win:
		t.Wins++
	case table.Tie:
		t.Ties++
	case table.Loss:
		t.Losses++
	}
	return nil
}

func (m *memRepo) Get(ctx context.Context, team string) (Tally, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.tallies[team]; ok {
		return *t, nil
	}
	return Tally{Team: team}, nil
}

func (m *memRepo) Top(ctx context.Context, n int) ([]Tally, error) {
	m.mu.Lock()
	out := make([]Tally, 0, len(m.tallies))
	for _, t := range m.tallies {
		out = append(out, *t)
	}
	m.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Wins != out[j].Wins {
			return out[i].Wins > out[j].Wins
		}
		return out[i].Team < out[j].Team
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out, nil
}
