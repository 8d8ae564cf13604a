package core

// Color represents a foreground color for a screen glyph.
// Uses ANSI 256-color codes for terminal compatibility.
type Color uint8

// Colors used by the board renderer.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorCyan
	ColorBrightGreen
	ColorBrightWhite
	ColorGray
)
