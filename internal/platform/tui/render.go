package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/snake-task/internal/core"
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:     lipgloss.NewStyle(),
	core.ColorRed:         lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	core.ColorGreen:       lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	core.ColorYellow:      lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	core.ColorCyan:        lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	core.ColorBrightGreen: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	core.ColorBrightWhite: lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
	core.ColorGray:        lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}

// Board glyphs.
const (
	glyphHead = '█'
	glyphBody = '▓'
	glyphFood = '●'
	glyphGaze = '+'
)

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent glyphs with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.Get(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				g := s.Get(x, y)
				if g.Color != startColor {
					break
				}
				run.WriteRune(g.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// boardLayout places an N x N board on the terminal. Row 1 of the board is
// the bottom terminal line of the frame.
type boardLayout struct {
	size  int
	cellW int
	frame core.Rect
}

// hudLines is the number of terminal lines used around the frame.
const hudLines = 2

// fitBoard picks a cell width for the terminal size. Cells are two columns
// wide when there is room so the board looks square.
func fitBoard(width, height, size int) (boardLayout, bool) {
	if size <= 0 || height < size+2+hudLines {
		return boardLayout{}, false
	}
	cellW := 2
	if width < 2*size+2 {
		cellW = 1
	}
	if width < cellW*size+2 {
		return boardLayout{}, false
	}
	w := cellW*size + 2
	x := (width - w) / 2
	return boardLayout{
		size:  size,
		cellW: cellW,
		frame: core.NewRect(x, 1, w, size+2),
	}, true
}

// minTerminal returns the smallest terminal that fits the board.
func minTerminal(size int) (w, h int) {
	return size + 2, size + 2 + hudLines
}

// screenPos maps a board cell to the terminal column and line of its
// leftmost glyph.
func (b boardLayout) screenPos(c core.Cell) (x, y int) {
	x = b.frame.X + 1 + (c.Col-1)*b.cellW
	y = b.frame.Y + 1 + (b.size - c.Row)
	return x, y
}

func (b boardLayout) setCell(s *core.Screen, c core.Cell, r rune, color core.Color) {
	x, y := b.screenPos(c)
	for i := range b.cellW {
		s.Set(x+i, y, r, color)
	}
}

// drawBoard draws the frame, the snake and the food.
func drawBoard(s *core.Screen, b boardLayout, cells []core.Cell, food *core.Cell) {
	s.DrawBox(b.frame, core.ColorGray)
	if food != nil {
		x, y := b.screenPos(*food)
		s.Set(x, y, glyphFood, core.ColorRed)
	}
	for i := len(cells) - 1; i >= 0; i-- {
		if i == 0 {
			b.setCell(s, cells[i], glyphHead, core.ColorBrightGreen)
			continue
		}
		b.setCell(s, cells[i], glyphBody, core.ColorGreen)
	}
}

// drawGaze marks the cell under the participant's gaze without hiding the
// snake or the food.
func drawGaze(s *core.Screen, b boardLayout, c core.Cell) {
	x, y := b.screenPos(c)
	if s.Get(x, y).Rune != ' ' {
		return
	}
	s.Set(x, y, glyphGaze, core.ColorCyan)
}
