package calibration

import (
	"errors"
	"slices"
)

var ErrUnknownMap = errors.New("unknown map")
var ErrUnknownRadarType = errors.New("unknown radar type")

// Calibration maps world coordinates onto a 1024x1024 radar image.
//
// Rotate is map metadata only; no transform reads it. Zoom is a presentation
// hint applied by whoever draws the image.
type Calibration struct {
	OriginX        float64  `json:"x"`
	OriginY        float64  `json:"y"`
	Scale          float64  `json:"scale"`
	Rotate         bool     `json:"rotate"`
	Zoom           float64  `json:"zoom"`
	LowerThreshold *float64 `json:"lowerThreshold,omitempty"`
}

// HasLower reports whether the map has a second, lower playable level.
func (c Calibration) HasLower() bool { return c.LowerThreshold != nil }

type RadarType string

const (
	RadarClean      RadarType = "clean"
	RadarCallouts   RadarType = "callouts"
	RadarElevations RadarType = "elevations"
	RadarBoth       RadarType = "both"
)

var RadarTypes = []RadarType{RadarClean, RadarCallouts, RadarElevations, RadarBoth}

const (
	DefaultMap       = "de_nuke"
	DefaultRadarType = RadarCallouts
)

func threshold(z float64) *float64 { return &z }

var table = map[string]Calibration{
	"de_ancient":  {OriginX: -2953, OriginY: 2164, Scale: 5, Zoom: 1},
	"de_dust2":    {OriginX: -2476, OriginY: 3239, Scale: 4.4, Rotate: true, Zoom: 1.1},
	"de_inferno":  {OriginX: -2087, OriginY: 3870, Scale: 4.9, Zoom: 1},
	"de_mirage":   {OriginX: -3230, OriginY: 1713, Scale: 5, Zoom: 1},
	"de_nuke":     {OriginX: -3453, OriginY: 2887, Scale: 7, Zoom: 1, LowerThreshold: threshold(-495)},
	"de_overpass": {OriginX: -4831, OriginY: 1781, Scale: 5.2, Zoom: 1},
	"de_vertigo":  {OriginX: -3168, OriginY: 1762, Scale: 4, Zoom: 1, LowerThreshold: threshold(11700)},
}

// Lookup returns a copy of the calibration registered for mapID.
func Lookup(mapID string) (Calibration, error) {
	c, ok := table[mapID]
	if !ok {
		return Calibration{}, ErrUnknownMap
	}
	if c.LowerThreshold != nil {
		c.LowerThreshold = threshold(*c.LowerThreshold)
	}
	return c, nil
}

// Maps lists the registered map identifiers in sorted order.
func Maps() []string {
	ids := make([]string, 0, len(table))
	for id := range table {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// All returns a copy of the whole table.
func All() map[string]Calibration {
	out := make(map[string]Calibration, len(table))
	for _, id := range Maps() {
		out[id], _ = Lookup(id)
	}
	return out
}

func ParseRadarType(s string) (RadarType, error) {
	rt := RadarType(s)
	if !slices.Contains(RadarTypes, rt) {
		return "", ErrUnknownRadarType
	}
	return rt, nil
}
