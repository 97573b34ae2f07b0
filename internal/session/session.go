package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"BlockJack/internal/game/dealer"
	"BlockJack/internal/game/engine"
	"BlockJack/internal/game/table"
	"BlockJack/internal/protocol"

	"github.com/charmbracelet/log"
)

type State string

const (
	AwaitingRequest State = "awaiting_request"
	RoundLoop       State = "round_loop"
	Closed          State = "closed"
)

// Report 一局结算后交给上层（积分榜、观战推送）
type Report struct {
	SessionID string       `json:"session"`
	Team      string       `json:"team"`
	Round     int          `json:"round"`
	Result    table.Result `json:"result"`
	Player    table.Hand   `json:"player"`
	Dealer    table.Hand   `json:"dealer"`
	SettledAt time.Time    `json:"settledAt"`
}

// Session 一条 TCP 连接对应一个 session，独占自己的 conn 与牌靴
type Session struct {
	ID              string
	Team            string
	RoundsRequested int
	RoundsCompleted int

	conn      io.ReadWriter
	dealer    *dealer.Dealer
	state     State
	current   *engine.Engine
	logger    *log.Logger
	onRequest func(team string, rounds int)
	onSettled func(Report)
}

type Option func(*Session)

func WithLogger(l *log.Logger) Option {
	return func(s *Session) { s.logger = l }
}

func WithDealer(d *dealer.Dealer) Option {
	return func(s *Session) { s.dealer = d }
}

// OnRequest 收到合法 Request 后回调
func OnRequest(fn func(team string, rounds int)) Option {
	return func(s *Session) { s.onRequest = fn }
}

// OnSettled 每局结算后回调，在 session 自己的 goroutine 上同步执行
func OnSettled(fn func(Report)) Option {
	return func(s *Session) { s.onSettled = fn }
}

func New(id string, conn io.ReadWriter, opts ...Option) *Session {
	s := &Session{
		ID:    id,
		conn:  conn,
		state: AwaitingRequest,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.dealer == nil {
		s.dealer = dealer.NewDealer(0)
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	return s
}

func (s *Session) State() State {
	return s.state
}

// Run 跑完整个 session。返回 nil 表示正常结束（含 rounds=0）。
// 任何协议错误只结束本 session，由调用方关闭连接。
func (s *Session) Run(ctx context.Context) error {
	defer func() { s.state = Closed }()

	req, err := protocol.ReadRequest(s.conn)
	if err != nil {
		return fmt.Errorf("read request: %w", err)
	}
	s.Team = req.TeamName
	s.RoundsRequested = int(req.Rounds)
	s.logger.Info("request", "session", s.ID, "team", s.Team, "rounds", s.RoundsRequested)
	if s.onRequest != nil {
		s.onRequest(s.Team, s.RoundsRequested)
	}

	if s.RoundsRequested == 0 {
		return nil
	}
	s.state = RoundLoop

	for s.RoundsCompleted < s.RoundsRequested {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.playRound(); err != nil {
			return fmt.Errorf("round %d: %w", s.RoundsCompleted+1, err)
		}
		s.RoundsCompleted++
	}
	return nil
}

func (s *Session) playRound() error {
	t := &table.Table{
		ID:        fmt.Sprintf("%s-%d", s.ID, s.RoundsCompleted+1),
		Team:      s.Team,
		Round:     s.RoundsCompleted + 1,
		CreatedAt: time.Now(),
	}
	s.current = engine.NewEngine(t, s.dealer)

	events, err := s.current.Start()
	if err != nil {
		return err
	}
	if err := s.send(events...); err != nil {
		return err
	}

	for s.current.Phase() == engine.PlayerTurn {
		p, err := protocol.ReadClientPayload(s.conn)
		if err != nil {
			return err
		}
		switch p.Decision {
		case protocol.Hit:
			ev, err := s.current.Hit()
			if err != nil {
				return outOfOrder(err)
			}
			if err := s.send(ev); err != nil {
				return err
			}
		case protocol.Stand:
			evs, err := s.current.Stand()
			if err != nil {
				return outOfOrder(err)
			}
			if err := s.send(evs...); err != nil {
				return err
			}
		}
	}

	s.logger.Debug("round settled",
		"session", s.ID, "round", t.Round, "result", t.Result,
		"player", t.Player.String(), "dealer", t.Dealer.String())

	if s.onSettled != nil {
		s.onSettled(Report{
			SessionID: s.ID,
			Team:      s.Team,
			Round:     t.Round,
			Result:    t.Result,
			Player:    t.Player,
			Dealer:    t.Dealer,
			SettledAt: time.Now(),
		})
	}
	return nil
}

// send 每个发牌事件恰好发送一条 ServerPayload
func (s *Session) send(events ...engine.Event) error {
	for _, ev := range events {
		msg := protocol.ServerPayload{
			Result: protocol.Result(ev.Result),
			Rank:   uint16(ev.Card.Rank),
			Suit:   uint8(ev.Card.Suit),
		}
		if err := protocol.Write(s.conn, msg); err != nil {
			return fmt.Errorf("send payload: %w", err)
		}
	}
	return nil
}

func outOfOrder(err error) error {
	if errors.Is(err, engine.ErrNotPlayerTurn) {
		return fmt.Errorf("%w: %w", protocol.ErrOutOfOrder, err)
	}
	return err
}
