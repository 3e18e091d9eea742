package hub

import (
	"context"

	"go.uber.org/zap"
)

type HubMsg interface{ isHubMsg() }

type Join struct {
	ClientID string
	Outbox   chan []byte // where this client wants to receive lines
}

type Leave struct{ ClientID string }

// Broadcast fans one extractor line out to every client.
type Broadcast struct{ Line []byte }

type GetState struct {
	Reply chan View
}

type ShutdownHub struct{}

func (Join) isHubMsg()        {}
func (Leave) isHubMsg()       {}
func (Broadcast) isHubMsg()   {}
func (GetState) isHubMsg()    {}
func (ShutdownHub) isHubMsg() {}

type View struct {
	NumClients int
	Broadcasts int
	Dropped    int
}

type Hub struct {
	inbox      chan HubMsg
	clients    map[string]chan []byte
	broadcasts int
	dropped    int
	log        *zap.Logger
	ctx        context.Context
	cancel     context.CancelFunc
}

func NewHub(parent context.Context, log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(parent)
	h := &Hub{
		inbox:   make(chan HubMsg, 256),
		clients: make(map[string]chan []byte),
		log:     log.Named("hub"),
		ctx:     ctx,
		cancel:  cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

// Done is closed when the hub stops accepting messages.
func (h *Hub) Done() <-chan struct{} { return h.ctx.Done() }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case Join:
				h.clients[msg.ClientID] = msg.Outbox
				h.log.Info("client connected", zap.String("client", msg.ClientID), zap.Int("clients", len(h.clients)))

			case Leave:
				if ch, ok := h.clients[msg.ClientID]; ok {
					close(ch)
					delete(h.clients, msg.ClientID)
					h.log.Info("client disconnected", zap.String("client", msg.ClientID))
				}

			case Broadcast:
				h.broadcasts++
				h.broadcast(msg.Line)

			case GetState:
				msg.Reply <- View{NumClients: len(h.clients), Broadcasts: h.broadcasts, Dropped: h.dropped}

			case ShutdownHub:
				h.shutdown()
				return
			}
		}
	}
}

func (h *Hub) shutdown() {
	for id, ch := range h.clients {
		close(ch) // no more lines
		delete(h.clients, id)
	}
	h.cancel()
}

func (h *Hub) broadcast(line []byte) {
	for id, ch := range h.clients {
		select {
		case ch <- line:
			//ok
		default:
			// Client is slow/full - drop them.
			close(ch)
			delete(h.clients, id)
			h.dropped++
			h.log.Warn("dropped slow client", zap.String("client", id))
		}
	}
}
