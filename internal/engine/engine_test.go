package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/radar-overlay/internal/calibration"
	"github.com/DoyleJ11/radar-overlay/pkg/types"
)

func nuke(t *testing.T) calibration.Calibration {
	t.Helper()
	c, err := calibration.Lookup("de_nuke")
	require.NoError(t, err)
	return c
}

func player(name string, team types.Team, z float64) types.PlayerSnapshot {
	return types.PlayerSnapshot{
		Name:     name,
		Color:    1,
		Health:   100,
		Armor:    100,
		Money:    800,
		Team:     team,
		Weapon:   "m4a1",
		Position: types.Position{X: -3453, Y: 2887, Z: z},
	}
}

func view(c calibration.Calibration) View {
	return View{
		MapID:        "de_nuke",
		RadarType:    calibration.RadarCallouts,
		Calibration:  c,
		CanvasWidth:  1024,
		CanvasHeight: 1024,
		Visible:      true,
	}
}

func TestToScreen(t *testing.T) {
	c := calibration.Calibration{OriginX: -3453, OriginY: 2887, Scale: 7}
	cases := []struct {
		name   string
		pos    types.Position
		w, h   float64
		wantPt Point
	}{
		{name: "origin maps to canvas origin", pos: types.Position{X: -3453, Y: 2887}, w: 1024, h: 1024, wantPt: Point{0, 0}},
		{name: "east and south", pos: types.Position{X: -3453 + 700, Y: 2887 - 1400}, w: 1024, h: 1024, wantPt: Point{100, 200}},
		{name: "half size canvas", pos: types.Position{X: -3453 + 700, Y: 2887 - 1400}, w: 512, h: 512, wantPt: Point{50, 100}},
		{name: "north of origin goes negative", pos: types.Position{X: -3453, Y: 2887 + 70}, w: 1024, h: 1024, wantPt: Point{0, -10}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ToScreen(tc.pos, c, tc.w, tc.h)
			assert.InDelta(t, tc.wantPt.X, got.X, 1e-9)
			assert.InDelta(t, tc.wantPt.Y, got.Y, 1e-9)
		})
	}
}

func TestResolveLayers_Threshold(t *testing.T) {
	c := nuke(t)
	cases := []struct {
		name     string
		activeZ  float64
		want     Layer
		wantName string
	}{
		{name: "below threshold", activeZ: -600, want: LayerLower, wantName: "callouts/de_nuke_lower"},
		{name: "above threshold", activeZ: -100, want: LayerDefault, wantName: "callouts/de_nuke"},
		{name: "exactly on threshold", activeZ: -495, want: LayerDefault, wantName: "callouts/de_nuke"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			me := player("me", types.TeamCT, tc.activeZ)
			me.ActivePlayer = true
			batch := types.Batch{me}

			l := ResolveLayers(batch, c)
			assert.Equal(t, tc.want, l.Active)

			out := Render(batch, l, view(c))
			assert.Equal(t, tc.wantName, out.MapImage)
		})
	}
}

func TestResolveLayers_NoThresholdIsAlwaysDefault(t *testing.T) {
	c, err := calibration.Lookup("de_mirage")
	require.NoError(t, err)

	for _, z := range []float64{-100000, -495, 0, 11700, 100000} {
		me := player("me", types.TeamT, z)
		me.ActivePlayer = true
		batch := types.Batch{me, player("a", types.TeamCT, -z), player("b", types.TeamT, z*2)}

		l := ResolveLayers(batch, c)
		assert.Equal(t, LayerDefault, l.Active)
		for i := range batch {
			assert.Equal(t, LayerDefault, l.PerPlayer[i])
			assert.False(t, l.OffLayer(i))
		}
	}
}

func TestResolveLayers_NoActivePlayer(t *testing.T) {
	batch := types.Batch{player("a", types.TeamT, -600), player("b", types.TeamCT, -600)}
	l := ResolveLayers(batch, nuke(t))

	assert.Equal(t, -1, l.ActiveIdx)
	assert.Equal(t, LayerDefault, l.Active)
	assert.Equal(t, []Layer{LayerDefault, LayerDefault}, l.PerPlayer)
}

func TestResolveLayers_TagsOffLayerPlayers(t *testing.T) {
	me := player("me", types.TeamCT, -100)
	me.ActivePlayer = true
	batch := types.Batch{me, player("upstairs", types.TeamT, 0), player("tunnels", types.TeamT, -700)}

	l := ResolveLayers(batch, nuke(t))
	assert.False(t, l.OffLayer(1))
	assert.True(t, l.OffLayer(2))

	out := Render(batch, l, view(nuke(t)))
	require.Len(t, out.Dots, 3)
	assert.False(t, out.Dots[1].Dimmed)
	assert.True(t, out.Dots[2].Dimmed)
}

func TestRender_Idempotent(t *testing.T) {
	c := nuke(t)
	me := player("me", types.TeamCT, -600)
	me.ActivePlayer = true
	dead := player("dead", types.TeamT, 0)
	dead.LifeState = 2
	batch := types.Batch{me, player("mate", types.TeamCT, -550), player("enemy", types.TeamT, 0), dead}

	first := Render(batch, ResolveLayers(batch, c), view(c))
	second := Render(batch, ResolveLayers(batch, c), view(c))
	assert.Equal(t, first, second)
}

func TestRender_NoActivePlayerClearsOverlay(t *testing.T) {
	c := nuke(t)
	batch := types.Batch{player("a", types.TeamT, -600), player("b", types.TeamCT, 0)}

	out := Render(batch, ResolveLayers(batch, c), view(c))
	assert.True(t, out.Empty())
	assert.Empty(t, out.Roster.T)
	assert.Empty(t, out.Roster.CT)
	assert.Empty(t, out.Dots)
	assert.Equal(t, "callouts/de_nuke", out.MapImage)
}

func TestRender_DeadPlayersHaveNoDot(t *testing.T) {
	c := nuke(t)
	me := player("me", types.TeamT, 0)
	me.ActivePlayer = true
	dead := player("dead", types.TeamCT, 0)
	dead.LifeState = 1
	dead.Health = 0
	dead.Armor = 80
	dead.Weapon = ""
	batch := types.Batch{me, dead}

	out := Render(batch, ResolveLayers(batch, c), view(c))
	require.Len(t, out.Dots, 1)
	assert.True(t, out.Dots[0].Friendly)

	require.Len(t, out.Roster.CT, 1)
	entry := out.Roster.CT[0]
	assert.True(t, entry.Dimmed)
	assert.Equal(t, 0, entry.Armor)
	assert.Equal(t, UnknownWeapon, entry.Weapon)
	assert.Equal(t, "/icons/svg/unknown.svg", entry.WeaponIcon)
}

func TestRender_HostilityColoring(t *testing.T) {
	c := nuke(t)
	me := player("me", types.TeamT, 0)
	me.ActivePlayer = true
	me.Color = 2
	mate := player("mate", types.TeamT, 0)
	mate.Color = 4
	enemy := player("enemy", types.TeamCT, 0)
	enemy.Color = 3
	spec := player("spec", types.TeamSpectator, 0)
	batch := types.Batch{me, mate, enemy, spec}

	out := Render(batch, ResolveLayers(batch, c), view(c))
	require.Len(t, out.Dots, 4)
	assert.Equal(t, ColorYellow, out.Dots[0].Color)
	assert.Equal(t, ColorPurple, out.Dots[1].Color)
	assert.Equal(t, ColorHostile, out.Dots[2].Color)
	assert.False(t, out.Dots[2].Friendly)
	assert.Equal(t, ColorHostile, out.Dots[3].Color)

	// spectators get a dot but no roster entry
	assert.Len(t, out.Roster.T, 2)
	assert.Len(t, out.Roster.CT, 1)
	assert.True(t, out.Roster.T[0].Highlight)
	assert.False(t, out.Roster.T[1].Highlight)
	assert.Equal(t, ColorOrange, out.Roster.CT[0].Border)
}

func TestRender_HiddenOrEmpty(t *testing.T) {
	c := nuke(t)
	me := player("me", types.TeamT, 0)
	me.ActivePlayer = true
	batch := types.Batch{me}

	hidden := view(c)
	hidden.Visible = false
	assert.Equal(t, Output{}, Render(batch, ResolveLayers(batch, c), hidden))
	assert.Equal(t, Output{}, Render(types.Batch{}, ResolveLayers(types.Batch{}, c), view(c)))
}

func TestPlayerColor_OutOfRange(t *testing.T) {
	assert.Equal(t, ColorBlue, PlayerColor(0))
	assert.Equal(t, ColorText, PlayerColor(5))
	assert.Equal(t, ColorText, PlayerColor(6))
	assert.Equal(t, ColorText, PlayerColor(-1))
}

func TestMapAssetPath(t *testing.T) {
	name := MapImage(calibration.RadarBoth, "de_vertigo", LayerLower)
	assert.Equal(t, "/radars/both/de_vertigo_lower.png", MapAssetPath(name))
}
