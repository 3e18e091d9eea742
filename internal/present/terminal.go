package present

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/DoyleJ11/radar-overlay/internal/engine"
)

// Terminal prints each frame as a text roster and dot summary.
type Terminal struct {
	w         io.Writer
	mapImage  string
	connected bool
}

func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{w: w}
}

func (t *Terminal) SetMapImage(name string) {
	if name == "" || name == t.mapImage {
		return
	}
	t.mapImage = name
	fmt.Fprintf(t.w, "map %s\n", engine.MapAssetPath(name))
}

func (t *Terminal) SetConnected(connected bool) {
	if connected == t.connected {
		return
	}
	t.connected = connected
	status := "disconnected"
	if connected {
		status = "connected"
	}
	fmt.Fprintf(t.w, "relay %s\n", status)
}

func (t *Terminal) Present(out engine.Output) {
	t.SetMapImage(out.MapImage)

	var b strings.Builder
	b.WriteString("----\n")
	writeTeam(&b, "T ", out.Roster.T)
	writeTeam(&b, "CT", out.Roster.CT)

	var friendly, offLayer int
	for _, d := range out.Dots {
		if d.Friendly {
			friendly++
		}
		if d.Dimmed {
			offLayer++
		}
	}
	fmt.Fprintf(&b, "dots %d (friendly %d, hostile %d, other level %d)\n",
		len(out.Dots), friendly, len(out.Dots)-friendly, offLayer)
	for _, d := range out.Dots {
		fmt.Fprintf(&b, "  %-6s %7.1f %7.1f%s\n", d.Color, d.X, d.Y, dimSuffix(d.Dimmed))
	}
	io.WriteString(t.w, b.String())
}

func writeTeam(b *strings.Builder, label string, entries []engine.RosterEntry) {
	for _, e := range entries {
		marker := " "
		if e.Highlight {
			marker = "*"
		}
		fmt.Fprintf(b, "%s %s%-16s hp %3d ar %3d $%-7s %s%s\n",
			label, marker, e.Name, e.Health, e.Armor, humanize.Comma(int64(e.Money)), e.Weapon, dimSuffix(e.Dimmed))
	}
}

func dimSuffix(dimmed bool) string {
	if dimmed {
		return " (dim)"
	}
	return ""
}
