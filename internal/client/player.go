package client

import (
	"context"
	"fmt"
	"io"
	"net"

	"BlockJack/internal/client/strategy"
	"BlockJack/internal/game/table"
	"BlockJack/internal/protocol"

	"github.com/charmbracelet/log"
)

// Stats 一个 session 的战绩
type Stats struct {
	Rounds int `json:"rounds"`
	Wins   int `json:"wins"`
	Ties   int `json:"ties"`
	Losses int `json:"losses"`
}

func (s Stats) WinRate() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Rounds)
}

// RoundLog 单局客户端视角
type RoundLog struct {
	Round  int
	Player table.Hand
	Dealer table.Hand
	Result protocol.Result
}

// Player 客户端 session：发 Request，按策略打完所有局
type Player struct {
	Team    string
	Decide  strategy.Func
	OnRound func(RoundLog)
	logger  *log.Logger
}

func NewPlayer(team string, decide strategy.Func, logger *log.Logger) *Player {
	if decide == nil {
		decide = strategy.Decide
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Player{Team: team, Decide: decide, logger: logger}
}

// Dial 连接 offer 中的服务器
func Dial(ctx context.Context, addr string) (net.Conn, error) {
	var d net.Dialer
	return d.DialContext(ctx, "tcp", addr)
}

// Play 在 conn 上打 rounds 局。计牌器跨局保留，属于本 session。
func (p *Player) Play(ctx context.Context, conn io.ReadWriter, rounds uint8) (Stats, error) {
	var stats Stats
	if err := protocol.Write(conn, protocol.Request{Rounds: rounds, TeamName: p.Team}); err != nil {
		return stats, fmt.Errorf("send request: %w", err)
	}

	counter := strategy.NewCounter()
	for i := 1; i <= int(rounds); i++ {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		rl, err := p.playRound(conn, i, &counter)
		if err != nil {
			return stats, fmt.Errorf("round %d: %w", i, err)
		}
		stats.Rounds++
		switch rl.Result {
		case protocol.Win:
			stats.Wins++
		case protocol.Tie:
			stats.Ties++
		case protocol.Loss:
			stats.Losses++
		}
		if p.OnRound != nil {
			p.OnRound(rl)
		}
	}
	return stats, nil
}

func (p *Player) playRound(conn io.ReadWriter, round int, counter *strategy.Counter) (RoundLog, error) {
	rl := RoundLog{Round: round}

	// 初始三张：玩家、玩家、庄家明牌
	for i := 0; i < 3; i++ {
		sp, err := protocol.ReadServerPayload(conn)
		if err != nil {
			return rl, err
		}
		if sp.Result.Terminal() {
			return rl, fmt.Errorf("%w: terminal result during initial deal", protocol.ErrOutOfOrder)
		}
		c := cardOf(sp)
		counter.Seen(c.Rank)
		if i < 2 {
			rl.Player = append(rl.Player, c)
		} else {
			rl.Dealer = append(rl.Dealer, c)
		}
	}

	playerTurn := true
	for {
		if playerTurn {
			up := rl.Dealer[0]
			d := p.Decide(strategy.View{Hand: rl.Player, DealerUp: &up, Counter: *counter})
			if err := protocol.Write(conn, protocol.ClientPayload{Decision: d}); err != nil {
				return rl, err
			}
			p.logger.Debug("decision", "round", round, "hand", rl.Player.String(), "decision", string(d))
			playerTurn = d == protocol.Hit
		}

		sp, err := protocol.ReadServerPayload(conn)
		if err != nil {
			return rl, err
		}
		c := cardOf(sp)
		counter.Seen(c.Rank)
		// 要牌后收到的是玩家的牌，停牌后都是庄家补的牌
		if playerTurn {
			rl.Player = append(rl.Player, c)
		} else {
			rl.Dealer = append(rl.Dealer, c)
		}
		if sp.Result.Terminal() {
			rl.Result = sp.Result
			return rl, nil
		}
	}
}

func cardOf(sp protocol.ServerPayload) table.Card {
	return table.Card{Rank: int(sp.Rank), Suit: int(sp.Suit)}
}
