package engine

type Color string

const (
	ColorBlue    Color = "blue"
	ColorGreen   Color = "green"
	ColorYellow  Color = "yellow"
	ColorOrange  Color = "orange"
	ColorPurple  Color = "purple"
	ColorText    Color = "text"
	ColorHostile Color = "red"
)

var palette = []Color{ColorBlue, ColorGreen, ColorYellow, ColorOrange, ColorPurple, ColorText}

// PlayerColor maps the extractor's color index to a palette entry.
func PlayerColor(idx int) Color {
	if idx < 0 || idx >= len(palette) {
		return ColorText
	}
	return palette[idx]
}
