package discovery

import (
	"context"
	"fmt"
	"io"
	"net"
	"time"

	"BlockJack/internal/protocol"

	"github.com/charmbracelet/log"
)

const broadcastIPAddress = "255.255.255.255"

// Announcer 周期性 UDP 广播 Offer，与所有 session 独立运行
type Announcer struct {
	offer    []byte
	target   string
	interval time.Duration
	logger   *log.Logger
}

type Option func(*Announcer)

func WithInterval(i time.Duration) Option {
	return func(a *Announcer) { a.interval = i }
}

// WithTarget 覆盖默认广播地址，测试里用 127.0.0.1:port
func WithTarget(addr string) Option {
	return func(a *Announcer) { a.target = addr }
}

func WithLogger(l *log.Logger) Option {
	return func(a *Announcer) { a.logger = l }
}

func NewAnnouncer(serverName string, tcpPort uint16, opts ...Option) (*Announcer, error) {
	b, err := protocol.Offer{TCPPort: tcpPort, ServerName: serverName}.MarshalBinary()
	if err != nil {
		return nil, err
	}
	a := &Announcer{
		offer:    b,
		target:   fmt.Sprintf("%s:%d", broadcastIPAddress, protocol.OfferPort),
		interval: time.Second,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Run 立即发送一次，之后每个 interval 发送一次，直到 ctx 取消。
// 单次发送失败只记日志。
func (a *Announcer) Run(ctx context.Context) error {
	addr, err := net.ResolveUDPAddr("udp4", a.target)
	if err != nil {
		return err
	}
	conn, err := net.ListenUDP("udp4", nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	a.logger.Info("broadcasting offers", "target", a.target, "interval", a.interval)

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()
	for {
		if _, err := conn.WriteToUDP(a.offer, addr); err != nil {
			a.logger.Warn("offer send failed", "err", err)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
