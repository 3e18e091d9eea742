package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/radar-overlay/internal/calibration"
	"github.com/DoyleJ11/radar-overlay/internal/conn"
	"github.com/DoyleJ11/radar-overlay/internal/engine"
	"github.com/DoyleJ11/radar-overlay/internal/present"
)

const (
	activeLower = `[{"name":"me","color":1,"health":100,"armor":100,"money":800,"team":3,"life_state":0,"weapon":"m4a1","position":{"x":-3453,"y":2887,"z":-600},"active_player":true},
{"name":"enemy","color":2,"health":100,"armor":0,"money":650,"team":2,"life_state":0,"weapon":"glock","position":{"x":-3000,"y":2000,"z":-100},"active_player":false}]`
	noActive = `[{"name":"enemy","color":2,"health":100,"armor":0,"money":650,"team":2,"life_state":0,"weapon":"glock","position":{"x":-3000,"y":2000,"z":-100},"active_player":false}]`
)

type recordingSink struct {
	mu    sync.Mutex
	lines []string
}

func (s *recordingSink) Diagnostic(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, line)
}

func (s *recordingSink) all() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.lines...)
}

func newController(t *testing.T) (*Controller, *present.Recorder, *recordingSink) {
	t.Helper()
	rec := &present.Recorder{}
	sink := &recordingSink{}
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	c, err := NewController(ctx, Options{Presenter: rec, Diagnostics: sink})
	require.NoError(t, err)
	return c, rec, sink
}

// helper: read controller state with a timeout so tests never hang
func status(t *testing.T, c *Controller) Status {
	t.Helper()
	reply := make(chan Status, 1)
	c.Inbox() <- GetState{Reply: reply}
	select {
	case s := <-reply:
		return s
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for status")
		return Status{}
	}
}

func TestController_Defaults(t *testing.T) {
	c, rec, _ := newController(t)
	st := status(t, c)

	assert.Equal(t, "de_nuke", st.State.MapID())
	assert.Equal(t, calibration.RadarCallouts, st.State.RadarType())
	assert.True(t, st.State.Visible())
	assert.False(t, st.State.Connected())
	assert.Equal(t, "callouts/de_nuke", rec.MapImage())
}

func TestController_RendersBatch(t *testing.T) {
	c, rec, _ := newController(t)
	c.Inbox() <- Frame{Data: []byte(activeLower)}
	st := status(t, c)

	assert.Equal(t, 1, st.Frames)
	assert.True(t, st.State.Connected())
	assert.Equal(t, "callouts/de_nuke_lower", st.Last.MapImage)
	assert.Len(t, st.Last.Roster.CT, 1)
	assert.Len(t, st.Last.Roster.T, 1)
	require.Len(t, st.Last.Dots, 2)
	assert.True(t, st.Last.Dots[1].Dimmed)
	assert.Equal(t, "callouts/de_nuke_lower", rec.MapImage())
	assert.True(t, rec.Connected())
}

func TestController_SameFrameTwiceSameOutput(t *testing.T) {
	c, rec, _ := newController(t)
	c.Inbox() <- Frame{Data: []byte(activeLower)}
	c.Inbox() <- Frame{Data: []byte(activeLower)}
	status(t, c)

	outs := rec.Outputs()
	require.Len(t, outs, 2)
	assert.Equal(t, outs[0], outs[1])
}

func TestController_DiagnosticLeavesRenderUnchanged(t *testing.T) {
	c, rec, sink := newController(t)
	c.Inbox() <- Frame{Data: []byte(activeLower)}
	before := status(t, c).Last

	c.Inbox() <- Frame{Data: []byte("offsets not found")}
	c.Inbox() <- Frame{Data: []byte(`{"not":"a batch"}`)}
	st := status(t, c)

	assert.Equal(t, before, st.Last)
	assert.Len(t, rec.Outputs(), 1)
	assert.Equal(t, []string{"offsets not found"}, sink.all())
	assert.Equal(t, "offsets not found", st.State.LastDiagnostic())
	assert.Equal(t, 1, st.State.Diagnostics())
	assert.True(t, st.State.Connected())
}

func TestController_NoActivePlayerResetsToDefaultLayer(t *testing.T) {
	c, rec, _ := newController(t)
	c.Inbox() <- Frame{Data: []byte(activeLower)}
	c.Inbox() <- Frame{Data: []byte(noActive)}
	st := status(t, c)

	assert.True(t, st.Last.Empty())
	assert.Equal(t, "callouts/de_nuke", st.Last.MapImage)
	assert.Equal(t, "callouts/de_nuke", rec.MapImage())
}

func TestController_ToggleHidesWithoutTouchingTransport(t *testing.T) {
	c, rec, _ := newController(t)
	c.Inbox() <- Liveness{State: conn.StateOpen}
	c.Inbox() <- Frame{Data: []byte(activeLower)}
	c.Inbox() <- Toggle{}
	st := status(t, c)

	assert.False(t, st.State.Visible())
	assert.Equal(t, conn.StateOpen, st.State.Liveness())
	last, ok := rec.Last()
	require.True(t, ok)
	assert.Equal(t, engine.Output{}, last)

	// frames while hidden render nothing and keep the background
	c.Inbox() <- Frame{Data: []byte(activeLower)}
	st = status(t, c)
	assert.True(t, st.Last.Empty())
	assert.Equal(t, "callouts/de_nuke_lower", rec.MapImage())

	c.Inbox() <- Toggle{}
	c.Inbox() <- Frame{Data: []byte(activeLower)}
	st = status(t, c)
	assert.True(t, st.State.Visible())
	assert.False(t, st.Last.Empty())
}

func TestController_Selection(t *testing.T) {
	c, rec, _ := newController(t)

	c.Inbox() <- SelectMap{MapID: "de_vertigo"}
	c.Inbox() <- SelectRadarType{RadarType: calibration.RadarElevations}
	st := status(t, c)
	assert.Equal(t, "de_vertigo", st.State.MapID())
	assert.Equal(t, "elevations/de_vertigo", rec.MapImage())
	assert.Equal(t, 11700.0, *st.State.Calibration().LowerThreshold)

	c.Inbox() <- SelectMap{MapID: "de_unknown"}
	c.Inbox() <- SelectRadarType{RadarType: "satellite"}
	st = status(t, c)
	assert.Equal(t, "de_vertigo", st.State.MapID())
	assert.Equal(t, calibration.RadarElevations, st.State.RadarType())
}

func TestController_ResizeScalesDots(t *testing.T) {
	c, _, _ := newController(t)
	c.Inbox() <- Resize{Width: 512, Height: 512}
	c.Inbox() <- Frame{Data: []byte(activeLower)}
	st := status(t, c)

	w, h := st.State.Canvas()
	assert.Equal(t, 512.0, w)
	assert.Equal(t, 512.0, h)
	require.NotEmpty(t, st.Last.Dots)
	assert.InDelta(t, 0, st.Last.Dots[0].X, 1e-9)
	assert.InDelta(t, 0, st.Last.Dots[0].Y, 1e-9)
	assert.InDelta(t, (453.0/7)*0.5, st.Last.Dots[1].X, 1e-9)
}

func TestController_LivenessIndicator(t *testing.T) {
	c, rec, _ := newController(t)
	c.Inbox() <- Liveness{State: conn.StateOpen}
	status(t, c)
	assert.True(t, rec.Connected())

	c.Inbox() <- Liveness{State: conn.StateClosed}
	st := status(t, c)
	assert.False(t, rec.Connected())
	assert.Equal(t, conn.StateClosed, st.State.Liveness())
}

func TestController_ShutdownStopsLoop(t *testing.T) {
	c, _, _ := newController(t)
	c.Inbox() <- Shutdown{}

	select {
	case <-c.Done():
	case <-time.After(time.Second):
		t.Fatalf("controller did not stop")
	}
	assert.ErrorIs(t, c.Send(Toggle{}), ErrClosed)
}

func TestNewController_UnknownMap(t *testing.T) {
	_, err := NewController(context.Background(), Options{MapID: "de_cache"})
	assert.ErrorIs(t, err, calibration.ErrUnknownMap)
}
