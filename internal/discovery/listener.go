package discovery

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"BlockJack/internal/protocol"

	"github.com/charmbracelet/log"
)

// Entry 收到的一条合法 Offer 以及发送方 IP
type Entry struct {
	Offer protocol.Offer
	IP    net.IP
	Time  time.Time
}

// Addr 对应 session 服务器的 TCP 地址
func (e Entry) Addr() string {
	return net.JoinHostPort(e.IP.String(), fmt.Sprint(e.Offer.TCPPort))
}

// Listener 客户端监听 Offer
type Listener struct {
	conn   *net.UDPConn
	logger *log.Logger
}

// Listen addr 形如 ":13122"。端口以 SO_REUSEADDR/SO_REUSEPORT 绑定，
// 同一台机器上可以同时跑多个客户端。
func Listen(addr string, logger *log.Logger) (*Listener, error) {
	lc := net.ListenConfig{Control: reusePort}
	pc, err := lc.ListenPacket(context.Background(), "udp4", addr)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Listener{conn: pc.(*net.UDPConn), logger: logger}, nil
}

// WaitOffer 绑定、等第一条 Offer、关闭。每次 session 结束后重新调用，
// 不会拿到 session 期间积压的旧 Offer。
func WaitOffer(ctx context.Context, addr string, logger *log.Logger) (Entry, error) {
	l, err := Listen(addr, logger)
	if err != nil {
		return Entry{}, err
	}
	defer l.Close()
	return l.Wait(ctx)
}

func (l *Listener) LocalAddr() *net.UDPAddr {
	return l.conn.LocalAddr().(*net.UDPAddr)
}

// Wait 阻塞直到收到第一条合法 Offer；非法报文直接丢弃
func (l *Listener) Wait(ctx context.Context) (Entry, error) {
	_ = l.conn.SetReadDeadline(time.Time{})
	stop := context.AfterFunc(ctx, func() {
		_ = l.conn.SetReadDeadline(time.Now())
	})
	defer stop()

	buf := make([]byte, 1024)
	for {
		n, from, err := l.conn.ReadFromUDP(buf)
		if err != nil {
			if ctx.Err() != nil {
				return Entry{}, ctx.Err()
			}
			if errors.Is(err, net.ErrClosed) {
				return Entry{}, err
			}
			return Entry{}, fmt.Errorf("read offer: %w", err)
		}
		if n != protocol.OfferSize {
			l.logger.Debug("drop datagram", "from", from, "size", n)
			continue
		}
		var offer protocol.Offer
		if err := offer.UnmarshalBinary(buf[:n]); err != nil {
			l.logger.Debug("drop datagram", "from", from, "err", err)
			continue
		}
		return Entry{Offer: offer, IP: from.IP, Time: time.Now()}, nil
	}
}

func (l *Listener) Close() error {
	return l.conn.Close()
}
