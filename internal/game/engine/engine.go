package engine

import (
	"errors"
	"fmt"

	"BlockJack/internal/game/dealer"
	"BlockJack/internal/game/table"
)

// ---------------------
//        PHASES
// ---------------------

type Phase string

const (
	Dealing    Phase = "dealing"
	PlayerTurn Phase = "player"
	DealerTurn Phase = "dealer"
	Settled    Phase = "settled"
)

// DealerStandsOn 庄家点数达到即停牌（含软 17）
const DealerStandsOn = 17

var (
	ErrNotPlayerTurn = errors.New("not player turn")
	ErrAlreadyDealt  = errors.New("round already dealt")
)

// Owner 牌发给谁
type Owner string

const (
	ToPlayer Owner = "player"
	ToDealer Owner = "dealer"
)

// Event 一次发牌事件；Result 为发完这张牌之后的回合结果
type Event struct {
	Owner  Owner
	Card   table.Card
	Result table.Result
}

// ---------------------
//       ENGINE
// ---------------------

// Engine 一局二十一点：发牌 -> 玩家回合 -> 庄家回合 -> 结算
type Engine struct {
	Table  *table.Table
	Dealer *dealer.Dealer
	phase  Phase
}

func NewEngine(t *table.Table, d *dealer.Dealer) *Engine {
	return &Engine{
		Table:  t,
		Dealer: d,
		phase:  Dealing,
	}
}

func (e *Engine) Phase() Phase {
	return e.phase
}

// Start 发初始三张：玩家两张 + 庄家明牌一张（庄家没有暗牌）
func (e *Engine) Start() ([]Event, error) {
	if e.phase != Dealing {
		return nil, ErrAlreadyDealt
	}
	e.Table.Result = table.Active
	events := []Event{
		e.deal(ToPlayer),
		e.deal(ToPlayer),
		e.deal(ToDealer),
	}
	e.phase = PlayerTurn
	return events, nil
}

// Hit 玩家要牌；爆牌直接判负
func (e *Engine) Hit() (Event, error) {
	if e.phase != PlayerTurn {
		return Event{}, fmt.Errorf("%w: hit during %s", ErrNotPlayerTurn, e.phase)
	}
	ev := e.deal(ToPlayer)
	if e.Table.Player.Bust() {
		e.settle(table.Loss)
		ev.Result = table.Loss
	}
	return ev, nil
}

// Stand 玩家停牌，庄家自动补牌直到 >= 17，然后结算。
// 返回庄家每次补牌的事件，最后一个事件携带最终结果。
func (e *Engine) Stand() ([]Event, error) {
	if e.phase != PlayerTurn {
		return nil, fmt.Errorf("%w: stand during %s", ErrNotPlayerTurn, e.phase)
	}
	e.phase = DealerTurn

	var events []Event
	for e.Table.Dealer.Total() < DealerStandsOn {
		events = append(events, e.deal(ToDealer))
	}

	res := e.outcome()
	e.settle(res)

	if len(events) == 0 {
		// 明牌已够 17 时没有新牌，用最后一张庄家牌携带结果
		last := e.Table.Dealer[len(e.Table.Dealer)-1]
		events = append(events, Event{Owner: ToDealer, Card: last})
	}
	events[len(events)-1].Result = res
	return events, nil
}

// outcome 按最终点数判定，玩家爆牌已在 Hit 中处理
func (e *Engine) outcome() table.Result {
	p := e.Table.Player.Total()
	d := e.Table.Dealer.Total()
	switch {
	case p > 21:
		return table.Loss
	case d > 21:
		return table.Win
	case p > d:
		return table.Win
	case p < d:
		return table.Loss
	default:
		return table.Tie
	}
}

func (e *Engine) deal(to Owner) Event {
	c := e.Dealer.Draw()
	if to == ToPlayer {
		e.Table.Player = append(e.Table.Player, c)
	} else {
		e.Table.Dealer = append(e.Table.Dealer, c)
	}
	return Event{Owner: to, Card: c, Result: table.Active}
}

func (e *Engine) settle(r table.Result) {
	e.Table.Result = r
	e.phase = Settled
}
