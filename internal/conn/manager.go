package conn

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/DoyleJ11/radar-overlay/pkg/types"
)

const (
	DefaultReconnectDelay = time.Second
	DefaultHeartbeatDelay = time.Second
	heartbeatWriteTimeout = 3 * time.Second
)

type Options struct {
	Dialer         Dialer
	Clock          Clock
	Logger         *zap.Logger
	ReconnectDelay time.Duration
	HeartbeatDelay time.Duration

	// Callbacks run on the manager's goroutines and must not call back into
	// the Manager.
	OnFrame    func(data []byte)
	OnLiveness func(State)
}

// Manager keeps exactly one transport session alive. A failed or closed
// session is retried after ReconnectDelay, forever. Each Connect starts a new
// generation; events from older generations are ignored.
type Manager struct {
	opts Options
	log  *zap.Logger

	mu         sync.Mutex
	ctx        context.Context
	endpoint   string
	state      State
	gen        uint64
	session    Session
	sessCancel context.CancelFunc
	reconnect  Timer
	heartbeat  Timer
	stopped    bool
}

func NewManager(opts Options) *Manager {
	if opts.Dialer == nil {
		opts.Dialer = WebsocketDialer{HandshakeTimeout: 5 * time.Second, ReadLimit: 1 << 20}
	}
	if opts.Clock == nil {
		opts.Clock = realClock{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.ReconnectDelay <= 0 {
		opts.ReconnectDelay = DefaultReconnectDelay
	}
	if opts.HeartbeatDelay <= 0 {
		opts.HeartbeatDelay = DefaultHeartbeatDelay
	}
	if opts.OnFrame == nil {
		opts.OnFrame = func([]byte) {}
	}
	if opts.OnLiveness == nil {
		opts.OnLiveness = func(State) {}
	}
	return &Manager{
		opts:  opts,
		log:   opts.Logger.Named("conn"),
		ctx:   context.Background(),
		state: StateClosed,
	}
}

// Connect opens a session against endpoint, superseding any previous one.
func (m *Manager) Connect(ctx context.Context, endpoint string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ctx = ctx
	m.endpoint = endpoint
	m.stopped = false
	m.dialLocked()
}

// Close tears down the session and cancels pending timers. No reconnect follows.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopped = true
	m.gen++
	stopTimer(&m.reconnect)
	stopTimer(&m.heartbeat)
	m.dropSession()
	m.setState(StateClosed)
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// dialLocked starts a new generation. Caller holds mu.
func (m *Manager) dialLocked() {
	if m.stopped {
		return
	}
	m.gen++
	gen := m.gen
	m.apply(gen, event{typ: evDial})
	ctx, cancel := context.WithCancel(m.ctx)
	m.sessCancel = cancel

	go m.run(ctx, gen, m.endpoint)
}

func (m *Manager) run(ctx context.Context, gen uint64, endpoint string) {
	s, err := m.opts.Dialer.Dial(ctx, endpoint)
	if err != nil {
		m.handle(gen, event{typ: evClosed, err: err})
		return
	}
	if !m.handle(gen, event{typ: evOpened, session: s}) {
		return
	}

	for {
		data, err := s.Read(ctx)
		if err != nil {
			m.handle(gen, event{typ: evClosed, err: err})
			return
		}
		if !m.current(gen) {
			return
		}
		m.opts.OnFrame(data)
	}
}

// handle applies ev and reports whether gen is still the live generation.
func (m *Manager) handle(gen uint64, ev event) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.apply(gen, ev)
	return gen == m.gen
}

func (m *Manager) current(gen uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return gen == m.gen
}

// apply is the only place state changes. Caller holds mu.
func (m *Manager) apply(gen uint64, ev event) {
	if gen != m.gen {
		if ev.session != nil {
			_ = ev.session.Close()
		}
		return
	}

	switch ev.typ {
	case evDial:
		stopTimer(&m.reconnect)
		stopTimer(&m.heartbeat)
		m.dropSession()
		m.setState(StateConnecting)

	case evOpened:
		stopTimer(&m.reconnect)
		m.session = ev.session
		m.setState(StateOpen)
		m.heartbeat = m.opts.Clock.AfterFunc(m.opts.HeartbeatDelay, func() { m.sendHeartbeat(gen) })
		m.log.Info("session open", zap.String("endpoint", m.endpoint))

	case evClosed:
		stopTimer(&m.heartbeat)
		stopTimer(&m.reconnect)
		m.dropSession()
		m.setState(StateClosed)
		m.log.Info("session closed, retrying",
			zap.String("endpoint", m.endpoint),
			zap.Duration("delay", m.opts.ReconnectDelay),
			zap.Error(ev.err))
		if !m.stopped && m.ctx.Err() == nil {
			m.reconnect = m.opts.Clock.AfterFunc(m.opts.ReconnectDelay, func() { m.redial(gen) })
		}
	}
}

// redial runs from the reconnect timer. The generation check and the new dial
// share one lock hold so a Connect in between always wins.
func (m *Manager) redial(gen uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.gen {
		return
	}
	m.dialLocked()
}

// sendHeartbeat keeps idle intermediaries from dropping the session. A failed
// write is only logged; the read loop notices real disconnects.
func (m *Manager) sendHeartbeat(gen uint64) {
	m.mu.Lock()
	s := m.session
	ctx := m.ctx
	live := gen == m.gen
	m.mu.Unlock()
	if !live || s == nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, heartbeatWriteTimeout)
	defer cancel()
	if err := s.Write(ctx, types.Heartbeat); err != nil {
		m.log.Debug("heartbeat failed", zap.Error(err))
	}
}

func (m *Manager) setState(s State) {
	if m.state == s {
		return
	}
	m.state = s
	m.opts.OnLiveness(s)
}

func (m *Manager) dropSession() {
	if m.sessCancel != nil {
		m.sessCancel()
		m.sessCancel = nil
	}
	if m.session != nil {
		_ = m.session.Close()
		m.session = nil
	}
}

func stopTimer(t *Timer) {
	if *t != nil {
		(*t).Stop()
		*t = nil
	}
}
