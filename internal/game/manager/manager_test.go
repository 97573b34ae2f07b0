package manager

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"BlockJack/internal/game/dealer"
	"BlockJack/internal/game/table"
	"BlockJack/internal/protocol"
	"BlockJack/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// hookRecorder 记录所有结算回调
type hookRecorder struct {
	mu      sync.Mutex
	reports []session.Report
}

func (h *hookRecorder) hook(_ context.Context, r session.Report) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.reports = append(h.reports, r)
	return nil
}

func (h *hookRecorder) len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.reports)
}

// 每局：玩家 10+10，庄家 10 -> 8，玩家 20 赢
func winningDealer() *dealer.Dealer {
	var cs []table.Card
	for i := 0; i < 20; i++ {
		cs = append(cs,
			table.Card{Suit: 0, Rank: 10}, table.Card{Suit: 1, Rank: 10},
			table.Card{Suit: 2, Rank: 10}, table.Card{Suit: 3, Rank: 8})
	}
	return dealer.NewStacked(1, cs...)
}

func playStandOnly(t *testing.T, c net.Conn, rounds int) {
	t.Helper()
	require.NoError(t, protocol.Write(c, protocol.Request{Rounds: uint8(rounds), TeamName: "mgr"}))
	for r := 0; r < rounds; r++ {
		for i := 0; i < 3; i++ {
			_, err := protocol.ReadServerPayload(c)
			require.NoError(t, err)
		}
		require.NoError(t, protocol.Write(c, protocol.ClientPayload{Decision: protocol.Stand}))
		p, err := protocol.ReadServerPayload(c)
		require.NoError(t, err)
		require.Equal(t, protocol.Win, p.Result)
	}
}

// ✅ TestGameManagerStartSession: 主测试用例
func TestGameManagerStartSession(t *testing.T) {
	mgr := NewGameManager(nil)
	mgr.NewDealer = winningDealer
	rec := &hookRecorder{}
	mgr.OnRoundSettled(rec.hook)

	srv, cli := net.Pipe()
	defer cli.Close()
	id := mgr.Start(context.Background(), srv)
	require.NotEmpty(t, id)

	active := mgr.Active()
	require.Len(t, active, 1)
	assert.Equal(t, id, active[0].ID)

	playStandOnly(t, cli, 3)
	mgr.Wait()

	assert.Empty(t, mgr.Active())
	assert.Equal(t, 3, rec.len())
	assert.Equal(t, "mgr", rec.reports[0].Team)
	assert.Equal(t, table.Win, rec.reports[2].Result)
}

// ✅ 回调失败只记日志，不打断 session
func TestGameManagerHookErrorIgnored(t *testing.T) {
	mgr := NewGameManager(nil)
	mgr.NewDealer = winningDealer
	mgr.OnRoundSettled(func(context.Context, session.Report) error { return errors.New("boom") })

	srv, cli := net.Pipe()
	defer cli.Close()
	mgr.Start(context.Background(), srv)

	playStandOnly(t, cli, 2)
	mgr.Wait()
}

// ✅ 一个 session 出错不影响其他 session
func TestGameManagerIsolation(t *testing.T) {
	mgr := NewGameManager(nil)
	mgr.NewDealer = winningDealer

	badSrv, badCli := net.Pipe()
	goodSrv, goodCli := net.Pipe()
	defer goodCli.Close()

	mgr.Start(context.Background(), badSrv)
	mgr.Start(context.Background(), goodSrv)

	_, err := badCli.Write([]byte("garbage-garbage-garbage-garbage-garbage"))
	// session 读满 38 字节即判错并关闭，剩余字节写入可能失败
	_ = err
	_ = badCli.Close()

	playStandOnly(t, goodCli, 2)
	mgr.Wait()
	assert.Empty(t, mgr.Active())
}

// ✅ ctx 取消会关闭阻塞中的连接
func TestGameManagerContextCancel(t *testing.T) {
	mgr := NewGameManager(nil)
	ctx, cancel := context.WithCancel(context.Background())

	srv, cli := net.Pipe()
	defer cli.Close()
	mgr.Start(ctx, srv)

	cancel()
	done := make(chan struct{})
	go func() {
		mgr.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("session not aborted on cancel")
	}
}

// ✅ 并发 session
func TestGameManagerConcurrency(t *testing.T) {
	mgr := NewGameManager(nil)
	mgr.NewDealer = winningDealer
	rec := &hookRecorder{}
	mgr.OnRoundSettled(rec.hook)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		srv, cli := net.Pipe()
		mgr.Start(context.Background(), srv)
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer cli.Close()
			playStandOnly(t, cli, 2)
		}()
	}
	wg.Wait()
	mgr.Wait()

	assert.Equal(t, 10, rec.len())
}

// ✅ 慢回调按 HookTimeout 截断，不拖住后续局
func TestGameManagerHookTimeout(t *testing.T) {
	mgr := NewGameManager(nil)
	mgr.NewDealer = winningDealer
	mgr.HookTimeout = 30 * time.Millisecond

	var mu sync.Mutex
	var errs []error
	mgr.OnRoundSettled(func(ctx context.Context, _ session.Report) error {
		<-ctx.Done()
		mu.Lock()
		errs = append(errs, ctx.Err())
		mu.Unlock()
		return ctx.Err()
	})

	srv, cli := net.Pipe()
	defer cli.Close()
	mgr.Start(context.Background(), srv)

	start := time.Now()
	playStandOnly(t, cli, 3)
	mgr.Wait()
	assert.Less(t, time.Since(start), 2*time.Second)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, errs, 3)
	for _, err := range errs {
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	}
}
