package session

import (
	"context"

	"go.uber.org/zap"

	"github.com/DoyleJ11/radar-overlay/internal/calibration"
	"github.com/DoyleJ11/radar-overlay/internal/conn"
	"github.com/DoyleJ11/radar-overlay/internal/engine"
	"github.com/DoyleJ11/radar-overlay/internal/present"
	"github.com/DoyleJ11/radar-overlay/internal/snapshot"
)

type Msg interface{ isSessionMsg() }

// Frame is one raw transport message.
type Frame struct{ Data []byte }

func (Frame) isSessionMsg() {}

type Liveness struct{ State conn.State }

func (Liveness) isSessionMsg() {}

type SelectMap struct{ MapID string }

func (SelectMap) isSessionMsg() {}

type SelectRadarType struct{ RadarType calibration.RadarType }

func (SelectRadarType) isSessionMsg() {}

// Toggle flips the overlay between visible and hidden. The transport is untouched.
type Toggle struct{}

func (Toggle) isSessionMsg() {}

type Resize struct{ Width, Height float64 }

func (Resize) isSessionMsg() {}

type GetState struct {
	Reply chan Status
}

func (GetState) isSessionMsg() {}

type Shutdown struct{}

func (Shutdown) isSessionMsg() {}

// Status is a copy of the controller's state for callers outside the loop.
type Status struct {
	State  SessionState
	Last   engine.Output
	Frames int
}

type Options struct {
	MapID       string
	RadarType   calibration.RadarType
	Canvas      float64
	Presenter   present.Presenter
	Diagnostics DiagnosticSink
	Logger      *zap.Logger
}

// Controller owns the session state and turns frames into presenter calls,
// one message at a time, in arrival order.
type Controller struct {
	inbox     chan Msg
	state     SessionState
	presenter present.Presenter
	diag      DiagnosticSink
	log       *zap.Logger
	last      engine.Output
	frames    int
	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
}

func NewController(parent context.Context, opts Options) (*Controller, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.MapID == "" {
		opts.MapID = calibration.DefaultMap
	}
	if opts.RadarType == "" {
		opts.RadarType = calibration.DefaultRadarType
	}
	if opts.Canvas <= 0 {
		opts.Canvas = engine.ReferenceSize
	}
	if opts.Presenter == nil {
		opts.Presenter = &present.Recorder{}
	}
	if opts.Diagnostics == nil {
		opts.Diagnostics = NewLogSink(opts.Logger, 5, 10)
	}

	st, err := newSessionState(opts.MapID, opts.RadarType, opts.Canvas)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(parent)
	c := &Controller{
		inbox:     make(chan Msg, 64),
		state:     st,
		presenter: opts.Presenter,
		diag:      opts.Diagnostics,
		log:       opts.Logger.Named("session"),
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
	}
	c.presenter.SetMapImage(st.defaultMapImage())
	c.presenter.SetConnected(false)

	go c.loop()
	return c, nil
}

// Inbox accepts messages from the transport and the user.
func (c *Controller) Inbox() chan<- Msg { return c.inbox }

// Done is closed once the loop has exited.
func (c *Controller) Done() <-chan struct{} { return c.done }

// Send delivers msg unless the controller has stopped.
func (c *Controller) Send(msg Msg) error {
	select {
	case <-c.done:
		return ErrClosed
	default:
	}
	select {
	case c.inbox <- msg:
		return nil
	case <-c.done:
		return ErrClosed
	}
}

func (c *Controller) loop() {
	defer close(c.done)
	for {
		select {
		case <-c.ctx.Done():
			return

		case m := <-c.inbox:
			switch msg := m.(type) {
			case Frame:
				c.onFrame(msg.Data)

			case Liveness:
				c.state.liveness = msg.State
				switch msg.State {
				case conn.StateOpen:
					c.setConnected(true)
				case conn.StateClosed:
					c.setConnected(false)
				}

			case SelectMap:
				if err := c.state.selectMap(msg.MapID); err != nil {
					c.log.Warn("map not selected", zap.String("map", msg.MapID), zap.Error(err))
					break
				}
				c.presenter.SetMapImage(c.state.defaultMapImage())

			case SelectRadarType:
				if err := c.state.selectRadarType(msg.RadarType); err != nil {
					c.log.Warn("radar type not selected", zap.String("radar_type", string(msg.RadarType)), zap.Error(err))
					break
				}
				c.presenter.SetMapImage(c.state.defaultMapImage())

			case Toggle:
				c.state.toggle()
				if !c.state.visible {
					c.show(engine.Output{})
				}

			case Resize:
				if msg.Width > 0 && msg.Height > 0 {
					c.state.canvasWidth, c.state.canvasHeight = msg.Width, msg.Height
				}

			case GetState:
				msg.Reply <- Status{State: c.state, Last: c.last, Frames: c.frames}

			case Shutdown:
				c.cancel()
				return
			}
		}
	}
}

func (c *Controller) onFrame(data []byte) {
	// any traffic means the relay is up
	c.setConnected(true)

	f := snapshot.Classify(data)
	switch f.Kind {
	case snapshot.KindDiagnostic:
		c.state.lastDiag = f.Text
		c.state.diagCount++
		c.diag.Diagnostic(f.Text)

	case snapshot.KindMalformed:
		c.log.Debug("dropped malformed frame", zap.Int("bytes", len(data)))

	case snapshot.KindBatch:
		c.frames++
		layers := engine.ResolveLayers(f.Batch, c.state.calibration)
		c.show(engine.Render(f.Batch, layers, c.state.view()))
	}
}

func (c *Controller) show(out engine.Output) {
	c.last = out
	c.presenter.Present(out)
}

func (c *Controller) setConnected(connected bool) {
	if c.state.connected == connected {
		return
	}
	c.state.connected = connected
	c.presenter.SetConnected(connected)
}
