package ws

import (
	"context"
	"math/rand"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/DoyleJ11/radar-overlay/internal/hub"
	"github.com/DoyleJ11/radar-overlay/pkg/types"
)

const writeTimeout = 3 * time.Second

// Handler upgrades the request and streams every hub line to the client as a
// text frame. Inbound frames are heartbeats and are discarded.
func Handler(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("ws")

	return func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-h.Done():
			http.Error(w, "relay shutting down", http.StatusServiceUnavailable)
			return
		default:
		}

		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			log.Debug("upgrade failed", zap.Error(err))
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		out := make(chan []byte, 32)
		clientID := randID(6)
		log := log.With(zap.String("client", clientID), zap.String("remote", r.RemoteAddr))

		select {
		case h.Inbox() <- hub.Join{ClientID: clientID, Outbox: out}:
		case <-h.Done():
			conn.Close(websocket.StatusGoingAway, "relay shutting down")
			return
		}
		defer func() {
			select {
			case h.Inbox() <- hub.Leave{ClientID: clientID}:
			case <-h.Done():
			}
		}()

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		// Writer goroutine
		go func() {
			defer cancel()
			for line := range out {
				wctx, wcancel := context.WithTimeout(ctx, writeTimeout)
				err := conn.Write(wctx, websocket.MessageText, line)
				wcancel()
				if err != nil {
					log.Debug("write failed", zap.Error(err))
					return
				}
			}
			// hub closed our outbox: shutting down or we were too slow
			conn.Close(websocket.StatusGoingAway, "relay dropped client")
		}()

		// Reader loop
		for {
			_, data, err := conn.Read(ctx)
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				default:
					log.Debug("read ended", zap.Error(err))
				}
				return
			}
			if string(data) != types.Heartbeat {
				log.Debug("ignoring client message", zap.Int("bytes", len(data)))
			}
		}
	}
}

// IsUpgrade reports whether r asks for a websocket.
func IsUpgrade(r *http.Request) bool {
	return headerHas(r.Header.Values("Connection"), "upgrade") &&
		headerHas(r.Header.Values("Upgrade"), "websocket")
}

func randID(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}
