package engine

import (
	"github.com/DoyleJ11/radar-overlay/internal/calibration"
	"github.com/DoyleJ11/radar-overlay/pkg/types"
)

// ReferenceSize is the radar image resolution calibrations are measured against.
const ReferenceSize = 1024

type Point struct {
	X float64
	Y float64
}

// ToScreen projects a world position onto a canvas of the given size.
// World Y grows opposite to screen Y, hence the sign flip.
func ToScreen(pos types.Position, c calibration.Calibration, width, height float64) Point {
	return Point{
		X: ((pos.X - c.OriginX) / c.Scale) * (width / ReferenceSize),
		Y: -((pos.Y - c.OriginY) / c.Scale) * (height / ReferenceSize),
	}
}
