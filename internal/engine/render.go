package engine

import (
	"fmt"

	"github.com/DoyleJ11/radar-overlay/internal/calibration"
	"github.com/DoyleJ11/radar-overlay/pkg/types"
)

const UnknownWeapon = "unknown"

// View is everything besides the batch that a frame depends on.
type View struct {
	MapID        string
	RadarType    calibration.RadarType
	Calibration  calibration.Calibration
	CanvasWidth  float64
	CanvasHeight float64
	Visible      bool
}

type RosterEntry struct {
	Name       string
	Health     int
	Armor      int
	Money      int
	Weapon     string
	WeaponIcon string
	Border     Color
	Highlight  bool // the local player
	Dimmed     bool // dead or otherwise out of play
}

// Dot carries position and hostility only. Enemy dots share one color so the
// overlay never tells enemies apart.
type Dot struct {
	X        float64
	Y        float64
	Color    Color
	Friendly bool
	Dimmed   bool // on another map level than the viewer
}

type Roster struct {
	T  []RosterEntry
	CT []RosterEntry
}

// Output is a complete frame. An empty MapImage leaves the current background
// in place.
type Output struct {
	Roster   Roster
	Dots     []Dot
	MapImage string
}

func (o Output) Empty() bool {
	return len(o.Roster.T) == 0 && len(o.Roster.CT) == 0 && len(o.Dots) == 0
}

// MapImage names the radar background for a layer, e.g. "callouts/de_nuke_lower".
func MapImage(rt calibration.RadarType, mapID string, l Layer) string {
	name := fmt.Sprintf("%s/%s", rt, mapID)
	if l == LayerLower {
		name += "_lower"
	}
	return name
}

func MapAssetPath(name string) string { return "/radars/" + name + ".png" }

func WeaponIconPath(weapon string) string { return "/icons/svg/" + weapon + ".svg" }

// Render rebuilds the overlay for one batch. It is a pure function of its
// inputs, so rendering the same batch twice yields the same Output.
func Render(batch types.Batch, layers Layers, v View) Output {
	if !v.Visible || len(batch) == 0 {
		return Output{}
	}

	if layers.ActiveIdx < 0 || layers.ActiveIdx >= len(batch) {
		return Output{MapImage: MapImage(v.RadarType, v.MapID, LayerDefault)}
	}
	active := batch[layers.ActiveIdx]

	out := Output{MapImage: MapImage(v.RadarType, v.MapID, layers.Active)}
	for i, p := range batch {
		switch p.Team {
		case types.TeamT:
			out.Roster.T = append(out.Roster.T, rosterEntry(p))
		case types.TeamCT:
			out.Roster.CT = append(out.Roster.CT, rosterEntry(p))
		}

		if !p.Alive() {
			continue
		}
		pt := ToScreen(p.Position, v.Calibration, v.CanvasWidth, v.CanvasHeight)
		friendly := p.Team == active.Team
		color := ColorHostile
		if friendly {
			color = PlayerColor(p.Color)
		}
		out.Dots = append(out.Dots, Dot{
			X:        pt.X,
			Y:        pt.Y,
			Color:    color,
			Friendly: friendly,
			Dimmed:   layers.OffLayer(i),
		})
	}
	return out
}

func rosterEntry(p types.PlayerSnapshot) RosterEntry {
	weapon := p.Weapon
	if weapon == "" {
		weapon = UnknownWeapon
	}
	armor := p.Armor
	if p.Health <= 0 {
		armor = 0
	}
	return RosterEntry{
		Name:       p.Name,
		Health:     p.Health,
		Armor:      armor,
		Money:      p.Money,
		Weapon:     weapon,
		WeaponIcon: WeaponIconPath(weapon),
		Border:     PlayerColor(p.Color),
		Highlight:  p.ActivePlayer,
		Dimmed:     !p.Alive(),
	}
}
