package core

// Color represents a foreground color for a screen cell.
// Uses ANSI 256-color codes for terminal compatibility.
type Color uint8

// Predefined colors for game elements.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
)

// paletteCodes maps colors to ANSI 256-color palette indices.
var paletteCodes = [...]string{
	ColorDefault:       "",
	ColorRed:           "1",
	ColorGreen:         "2",
	ColorYellow:        "3",
	ColorBlue:          "4",
	ColorMagenta:       "5",
	ColorCyan:          "6",
	ColorWhite:         "7",
	ColorBrightRed:     "9",
	ColorBrightGreen:   "10",
	ColorBrightYellow:  "11",
	ColorBrightBlue:    "12",
	ColorBrightMagenta: "13",
	ColorBrightCyan:    "14",
	ColorBrightWhite:   "15",
	ColorOrange:        "208",
	ColorGray:          "245",
}

// Colors returns every predefined color, ColorDefault first.
func Colors() []Color {
	out := make([]Color, len(paletteCodes))
	for i := range out {
		out[i] = Color(i) //#nosec G115 -- palette is small
	}
	return out
}

// PaletteCode returns the ANSI 256-color index of c, or "" for the terminal default.
func (c Color) PaletteCode() string {
	if int(c) >= len(paletteCodes) {
		return ""
	}
	return paletteCodes[c]
}
