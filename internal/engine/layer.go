package engine

import (
	"github.com/DoyleJ11/radar-overlay/internal/calibration"
	"github.com/DoyleJ11/radar-overlay/pkg/types"
)

type Layer int

const (
	LayerDefault Layer = iota
	LayerLower
)

func (l Layer) String() string {
	if l == LayerLower {
		return "lower"
	}
	return "default"
}

// Layers is the per-batch layer assignment. Players are indexed by their
// position in the batch.
type Layers struct {
	Active    Layer
	ActiveIdx int // -1 when the batch has no active player
	PerPlayer []Layer
}

// OffLayer reports whether player i sits on a different level than the viewer.
func (l Layers) OffLayer(i int) bool {
	if i < 0 || i >= len(l.PerPlayer) {
		return false
	}
	return l.PerPlayer[i] != l.Active
}

func layerOf(z float64, c calibration.Calibration) Layer {
	if c.LowerThreshold != nil && z < *c.LowerThreshold {
		return LayerLower
	}
	return LayerDefault
}

// ResolveLayers picks the visible map level from the active player's height
// and tags every player with its own level. Without an active player the whole
// batch is treated as being on the default level.
func ResolveLayers(batch types.Batch, c calibration.Calibration) Layers {
	out := Layers{
		Active:    LayerDefault,
		ActiveIdx: batch.Active(),
		PerPlayer: make([]Layer, len(batch)),
	}
	if out.ActiveIdx < 0 {
		return out
	}

	out.Active = layerOf(batch[out.ActiveIdx].Position.Z, c)
	for i, p := range batch {
		out.PerPlayer[i] = layerOf(p.Position.Z, c)
	}
	return out
}
