package present

import (
	"sync"

	"github.com/DoyleJ11/radar-overlay/internal/engine"
)

// Recorder keeps everything it was asked to show. Safe for concurrent reads.
type Recorder struct {
	mu        sync.Mutex
	outputs   []engine.Output
	mapImage  string
	connected bool
}

func (r *Recorder) Present(out engine.Output) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outputs = append(r.outputs, out)
	if out.MapImage != "" {
		r.mapImage = out.MapImage
	}
}

func (r *Recorder) SetMapImage(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mapImage = name
}

func (r *Recorder) SetConnected(connected bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.connected = connected
}

func (r *Recorder) Outputs() []engine.Output {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]engine.Output(nil), r.outputs...)
}

// Last returns the most recent output and whether there was one.
func (r *Recorder) Last() (engine.Output, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.outputs) == 0 {
		return engine.Output{}, false
	}
	return r.outputs[len(r.outputs)-1], true
}

func (r *Recorder) MapImage() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mapImage
}

func (r *Recorder) Connected() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.connected
}
