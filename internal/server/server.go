package server

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"time"

	"BlockJack/internal/game/manager"

	"github.com/charmbracelet/log"
)

const (
	minAcceptDelay = 5 * time.Millisecond
	maxAcceptDelay = time.Second
)

// Server TCP 接入：accept 之后交给 GameManager，每条连接一个 session
type Server struct {
	Addr    string
	Manager *manager.GameManager
	logger  *log.Logger

	mu    sync.Mutex
	ln    net.Listener
	ready chan struct{}
}

func New(addr string, mgr *manager.GameManager, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Server{
		Addr:    addr,
		Manager: mgr,
		logger:  logger,
		ready:   make(chan struct{}),
	}
}

// Listen 绑定端口；Addr 为 ":0" 时由系统分配，Port() 返回实际端口
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()
	close(s.ready)
	return nil
}

// Port 阻塞直到 Listen 成功
func (s *Server) Port() uint16 {
	<-s.ready
	s.mu.Lock()
	defer s.mu.Unlock()
	return uint16(s.ln.Addr().(*net.TCPAddr).Port)
}

// Serve accept 循环，ctx 取消后关闭监听并等待所有 session 结束
func (s *Server) Serve(ctx context.Context) error {
	<-s.ready
	stop := context.AfterFunc(ctx, func() { _ = s.ln.Close() })
	defer stop()

	s.logger.Info("tcp listening", "addr", s.ln.Addr().String())
	var delay time.Duration // accept 连续失败时的退避
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				s.Manager.Wait()
				return ctx.Err()
			}
			if delay == 0 {
				delay = minAcceptDelay
			} else {
				delay = min(delay*2, maxAcceptDelay)
			}
			s.logger.Error("accept failed", "err", err, "retry", delay)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
			}
			continue
		}
		delay = 0
		id := s.Manager.Start(ctx, conn)
		s.logger.Info("client connected", "session", id, "remote", conn.RemoteAddr().String())
	}
}

// ListenAndServe Listen + Serve
func (s *Server) ListenAndServe(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}
	return s.Serve(ctx)
}
