package session

import (
	"github.com/DoyleJ11/radar-overlay/internal/calibration"
	"github.com/DoyleJ11/radar-overlay/internal/conn"
	"github.com/DoyleJ11/radar-overlay/internal/engine"
)

// SessionState is everything that outlives a single frame. Only the
// Controller goroutine touches it.
type SessionState struct {
	mapID        string
	radarType    calibration.RadarType
	calibration  calibration.Calibration
	visible      bool
	canvasWidth  float64
	canvasHeight float64
	liveness     conn.State
	connected    bool
	lastDiag     string
	diagCount    int
}

func newSessionState(mapID string, rt calibration.RadarType, canvas float64) (SessionState, error) {
	c, err := calibration.Lookup(mapID)
	if err != nil {
		return SessionState{}, err
	}
	if _, err := calibration.ParseRadarType(string(rt)); err != nil {
		return SessionState{}, err
	}
	return SessionState{
		mapID:        mapID,
		radarType:    rt,
		calibration:  c,
		visible:      true,
		canvasWidth:  canvas,
		canvasHeight: canvas,
		liveness:     conn.StateClosed,
	}, nil
}

func (s SessionState) MapID() string                        { return s.mapID }
func (s SessionState) RadarType() calibration.RadarType     { return s.radarType }
func (s SessionState) Calibration() calibration.Calibration { return s.calibration }
func (s SessionState) Visible() bool                        { return s.visible }
func (s SessionState) Liveness() conn.State                 { return s.liveness }
func (s SessionState) Connected() bool                      { return s.connected }
func (s SessionState) LastDiagnostic() string               { return s.lastDiag }
func (s SessionState) Diagnostics() int                     { return s.diagCount }

func (s SessionState) Canvas() (width, height float64) { return s.canvasWidth, s.canvasHeight }

func (s *SessionState) selectMap(mapID string) error {
	c, err := calibration.Lookup(mapID)
	if err != nil {
		return err
	}
	s.mapID = mapID
	s.calibration = c
	return nil
}

func (s *SessionState) selectRadarType(rt calibration.RadarType) error {
	if _, err := calibration.ParseRadarType(string(rt)); err != nil {
		return err
	}
	s.radarType = rt
	return nil
}

func (s *SessionState) toggle() { s.visible = !s.visible }

func (s SessionState) defaultMapImage() string {
	return engine.MapImage(s.radarType, s.mapID, engine.LayerDefault)
}

func (s SessionState) view() engine.View {
	return engine.View{
		MapID:        s.mapID,
		RadarType:    s.radarType,
		Calibration:  s.calibration,
		CanvasWidth:  s.canvasWidth,
		CanvasHeight: s.canvasHeight,
		Visible:      s.visible,
	}
}
