package types

// PlayerSnapshot is one player's state as emitted by the extractor.
//
//	name: string
//	color: 0..5 (blue, green, yellow, orange, purple, text)
//	health, armor, money: number
//	team: 0 none | 1 spectator | 2 t | 3 ct
//	life_state: number // 0 = alive
//	weapon: string     // "" when unknown
//	position: { x, y, z }
//	active_player: boolean
type PlayerSnapshot struct {
	Name         string   `json:"name"`
	Color        int      `json:"color"`
	Health       int      `json:"health"`
	Armor        int      `json:"armor"`
	Money        int      `json:"money"`
	Team         Team     `json:"team"`
	LifeState    int      `json:"life_state"`
	Weapon       string   `json:"weapon"`
	Position     Position `json:"position"`
	ActivePlayer bool     `json:"active_player"`
}

type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type Team int

const (
	TeamNone Team = iota
	TeamSpectator
	TeamT
	TeamCT
)

func (t Team) String() string {
	switch t {
	case TeamSpectator:
		return "spectator"
	case TeamT:
		return "t"
	case TeamCT:
		return "ct"
	default:
		return "none"
	}
}

// Batch is a single broadcast frame. At most one element is the active player.
type Batch []PlayerSnapshot

func (p PlayerSnapshot) Alive() bool { return p.LifeState == 0 }

// Active returns the index of the locally controlled player, or -1.
func (b Batch) Active() int {
	for i, p := range b {
		if p.ActivePlayer {
			return i
		}
	}
	return -1
}
