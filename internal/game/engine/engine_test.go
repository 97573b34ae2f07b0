package engine

import (
	"testing"
	"time"

	"BlockJack/internal/game/dealer"
	"BlockJack/internal/game/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cards(ranks ...int) []table.Card {
	out := make([]table.Card, len(ranks))
	for i, r := range ranks {
		out[i] = table.Card{Suit: i % 4, Rank: r}
	}
	return out
}

func newTestEngine(ranks ...int) *Engine {
	tbl := &table.Table{ID: "round-test", Team: "RanTeam", Round: 1, CreatedAt: time.Now()}
	return NewEngine(tbl, dealer.NewStacked(42, cards(ranks...)...))
}

func TestStartDealsPlayerPlayerDealer(t *testing.T) {
	e := newTestEngine(5, 6, 9)
	events, err := e.Start()
	require.NoError(t, err)
	require.Len(t, events, 3)

	assert.Equal(t, []Owner{ToPlayer, ToPlayer, ToDealer},
		[]Owner{events[0].Owner, events[1].Owner, events[2].Owner})
	for _, ev := range events {
		assert.Equal(t, table.Active, ev.Result)
	}
	assert.Len(t, e.Table.Player, 2)
	assert.Len(t, e.Table.Dealer, 1)
	assert.Equal(t, PlayerTurn, e.Phase())

	_, err = e.Start()
	assert.ErrorIs(t, err, ErrAlreadyDealt)
}

func TestNaturalTwentyOneIsNotSpecial(t *testing.T) {
	e := newTestEngine(1, 13, 10)
	_, err := e.Start()
	require.NoError(t, err)
	assert.Equal(t, PlayerTurn, e.Phase())
	assert.Equal(t, table.Active, e.Table.Result)
}

func TestHitBustIsLoss(t *testing.T) {
	e := newTestEngine(10, 6, 9, 8)
	_, err := e.Start()
	require.NoError(t, err)

	ev, err := e.Hit()
	require.NoError(t, err)
	assert.Equal(t, ToPlayer, ev.Owner)
	assert.Equal(t, table.Loss, ev.Result)
	assert.Equal(t, Settled, e.Phase())

	_, err = e.Hit()
	assert.ErrorIs(t, err, ErrNotPlayerTurn)
	_, err = e.Stand()
	assert.ErrorIs(t, err, ErrNotPlayerTurn)
}

func TestHitWithoutBustStaysInPlayerTurn(t *testing.T) {
	e := newTestEngine(5, 6, 9, 1)
	_, err := e.Start()
	require.NoError(t, err)

	ev, err := e.Hit()
	require.NoError(t, err)
	assert.Equal(t, table.Active, ev.Result)
	assert.Equal(t, PlayerTurn, e.Phase())
	assert.Equal(t, 12, e.Table.Player.Total())
}

func TestStandOutcomes(t *testing.T) {
	cases := []struct {
		name   string
		ranks  []int // player, player, dealer up, dealer draws...
		result table.Result
		draws  int
	}{
		{"dealer busts", []int{10, 8, 6, 10, 10}, table.Win, 2},
		{"player higher", []int{10, 10, 10, 8}, table.Win, 1},
		{"player lower", []int{10, 7, 10, 9}, table.Loss, 1},
		{"push", []int{10, 8, 10, 8}, table.Tie, 1},
		// 软 17 停牌：A + 6
		{"dealer stands on soft 17", []int{10, 8, 1, 6}, table.Win, 1},
		{"dealer draws on 16", []int{10, 7, 10, 6, 2}, table.Loss, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestEngine(tc.ranks...)
			_, err := e.Start()
			require.NoError(t, err)

			events, err := e.Stand()
			require.NoError(t, err)
			require.Len(t, events, tc.draws)
			for _, ev := range events[:len(events)-1] {
				assert.Equal(t, table.Active, ev.Result)
				assert.Equal(t, ToDealer, ev.Owner)
			}
			assert.Equal(t, tc.result, events[len(events)-1].Result)
			assert.Equal(t, tc.result, e.Table.Result)
			assert.Equal(t, Settled, e.Phase())
			assert.GreaterOrEqual(t, e.Table.Dealer.Total(), DealerStandsOn)
		})
	}
}

// ✅ 随机牌靴下：庄家从不在 17 以下停牌，结果由最终点数唯一决定
func TestRandomRoundsInvariants(t *testing.T) {
	d := dealer.NewDealer(2024)
	for i := 0; i < 2000; i++ {
		tbl := &table.Table{Round: i + 1}
		e := NewEngine(tbl, d)
		_, err := e.Start()
		require.NoError(t, err)

		// 简单策略：< 17 要牌
		for e.Phase() == PlayerTurn && tbl.Player.Total() < 17 {
			_, err := e.Hit()
			require.NoError(t, err)
		}
		if e.Phase() == PlayerTurn {
			_, err := e.Stand()
			require.NoError(t, err)
			assert.GreaterOrEqual(t, tbl.Dealer.Total(), DealerStandsOn)
		}

		require.Equal(t, Settled, e.Phase())
		assert.Contains(t, []table.Result{table.Tie, table.Loss, table.Win}, tbl.Result)

		p, dv := tbl.Player.Total(), tbl.Dealer.Total()
		var want table.Result
		switch {
		case p > 21:
			want = table.Loss
		case dv > 21, p > dv:
			want = table.Win
		case p < dv:
			want = table.Loss
		default:
			want = table.Tie
		}
		assert.Equal(t, want, tbl.Result, "player=%s dealer=%s", tbl.Player, tbl.Dealer)
	}
	// 2000 局必然多次抽空牌靴
	assert.Greater(t, d.Reshuffles(), 0)
}

func TestReshuffleMidRound(t *testing.T) {
	// 只堆 3 张，要牌时牌靴已空，自动换靴
	e := newTestEngine(2, 3, 10)
	_, err := e.Start()
	require.NoError(t, err)
	require.Equal(t, 0, e.Dealer.Remaining())

	_, err = e.Hit()
	require.NoError(t, err)
	assert.Len(t, e.Table.Player, 3)
	assert.Equal(t, 1, e.Dealer.Reshuffles())
}
