package manager

import (
	"context"
	"io"
	"net"
	"sort"
	"sync"
	"time"

	"BlockJack/internal/game/dealer"
	"BlockJack/internal/session"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Hook 每局结算后调用；返回的错误只记日志，不影响 session
type Hook func(ctx context.Context, r session.Report) error

// Info 对外（HTTP /sessions）展示的 session 快照
type Info struct {
	ID              string    `json:"id"`
	Remote          string    `json:"remote"`
	Team            string    `json:"team"`
	RoundsRequested int       `json:"roundsRequested"`
	RoundsCompleted int       `json:"roundsCompleted"`
	StartedAt       time.Time `json:"startedAt"`
}

// GameManager 管理所有在线 session，每条连接一个 goroutine，互不共享状态
type GameManager struct {
	mu       sync.RWMutex
	sessions map[string]*Info // sessionID → info
	hooks    []Hook
	logger   *log.Logger
	wg       sync.WaitGroup

	// NewDealer 每个 session 一个牌靴；测试里可替换成固定牌序
	NewDealer func() *dealer.Dealer

	// HookTimeout 单个回调的最长时间，存储慢时不拖住下一局
	HookTimeout time.Duration
}

const defaultHookTimeout = 2 * time.Second

func NewGameManager(logger *log.Logger) *GameManager {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &GameManager{
		sessions:    make(map[string]*Info),
		logger:      logger,
		NewDealer:   func() *dealer.Dealer { return dealer.NewDealer(0) },
		HookTimeout: defaultHookTimeout,
	}
}

// OnRoundSettled 注册结算回调，需在 Start 之前调用
func (m *GameManager) OnRoundSettled(h Hook) {
	m.hooks = append(m.hooks, h)
}

// Start 为一条新连接创建 session 并异步运行，返回 session ID。
// ctx 取消时连接被关闭，session 随之结束。
func (m *GameManager) Start(ctx context.Context, conn net.Conn) string {
	id := uuid.NewString()
	info := &Info{
		ID:        id,
		Remote:    conn.RemoteAddr().String(),
		StartedAt: time.Now(),
	}

	m.mu.Lock()
	m.sessions[id] = info
	m.mu.Unlock()

	m.wg.Add(1)
	go m.run(ctx, id, conn)
	return id
}

func (m *GameManager) run(ctx context.Context, id string, conn net.Conn) {
	defer m.wg.Done()
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	s := session.New(id, conn,
		session.WithDealer(m.NewDealer()),
		session.WithLogger(m.logger),
		session.OnRequest(func(team string, rounds int) {
			m.update(id, func(i *Info) {
				i.Team = team
				i.RoundsRequested = rounds
			})
		}),
		session.OnSettled(func(r session.Report) {
			m.update(id, func(i *Info) { i.RoundsCompleted = r.Round })
			m.fire(ctx, r)
		}),
	)

	err := s.Run(ctx)
	_ = conn.Close()

	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()

	if err != nil {
		m.logger.Warn("session aborted", "session", id, "team", s.Team, "rounds", s.RoundsCompleted, "err", err)
		return
	}
	m.logger.Info("session finished", "session", id, "team", s.Team, "rounds", s.RoundsCompleted)
}

func (m *GameManager) update(id string, fn func(*Info)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i, ok := m.sessions[id]; ok {
		fn(i)
	}
}

func (m *GameManager) fire(ctx context.Context, r session.Report) {
	for _, h := range m.hooks {
		hctx, cancel := context.WithTimeout(ctx, m.HookTimeout)
		err := h(hctx, r)
		cancel()
		if err != nil {
			m.logger.Error("round hook failed", "session", r.SessionID, "err", err)
		}
	}
}

// Active 当前在线 session 快照，按开始时间排序
func (m *GameManager) Active() []Info {
	m.mu.RLock()
	out := make([]Info, 0, len(m.sessions))
	for _, i := range m.sessions {
		out = append(out, *i)
	}
	m.mu.RUnlock()

	sort.Slice(out, func(a, b int) bool { return out[a].StartedAt.Before(out[b].StartedAt) })
	return out
}

// Wait 等待所有 session 结束
func (m *GameManager) Wait() {
	m.wg.Wait()
}
