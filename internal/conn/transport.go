package conn

import (
	"context"
	"time"

	"github.com/coder/websocket"
)

// Session is one open transport connection.
type Session interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, text string) error
	Close() error
}

type Dialer interface {
	Dial(ctx context.Context, endpoint string) (Session, error)
}

// Timer is a pending callback that can be invalidated.
type Timer interface {
	Stop() bool
}

type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// WebsocketDialer dials the relay with coder/websocket.
type WebsocketDialer struct {
	HandshakeTimeout time.Duration
	ReadLimit        int64
}

func (d WebsocketDialer) Dial(ctx context.Context, endpoint string) (Session, error) {
	if d.HandshakeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.HandshakeTimeout)
		defer cancel()
	}
	c, _, err := websocket.Dial(ctx, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if d.ReadLimit > 0 {
		c.SetReadLimit(d.ReadLimit)
	}
	return &wsSession{c: c}, nil
}

type wsSession struct {
	c *websocket.Conn
}

func (s *wsSession) Read(ctx context.Context) ([]byte, error) {
	_, data, err := s.c.Read(ctx)
	return data, err
}

func (s *wsSession) Write(ctx context.Context, text string) error {
	return s.c.Write(ctx, websocket.MessageText, []byte(text))
}

func (s *wsSession) Close() error {
	return s.c.Close(websocket.StatusNormalClosure, "bye")
}
