package present

import "github.com/DoyleJ11/radar-overlay/internal/engine"

// Presenter applies engine output to a display surface. Implementations are
// driven from a single goroutine.
type Presenter interface {
	Present(out engine.Output)
	SetMapImage(name string)
	SetConnected(connected bool)
}
