package core

// KeyCode is a normalized key press, abstracted from the physical keyboard
// or from a cognitive model pressing keys through the bridge.
type KeyCode int

const (
	KeyNone KeyCode = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeySpace
)

// String returns a human-readable name for the key.
func (k KeyCode) String() string {
	switch k {
	case KeyUp:
		return "UP"
	case KeyDown:
		return "DOWN"
	case KeyLeft:
		return "LEFT"
	case KeyRight:
		return "RIGHT"
	case KeySpace:
		return "SPACE"
	default:
		return "NONE"
	}
}

// Heading returns the direction requested by an arrow key.
// Non-arrow keys return HeadingNone.
func (k KeyCode) Heading() Heading {
	switch k {
	case KeyUp:
		return HeadingUp
	case KeyDown:
		return HeadingDown
	case KeyLeft:
		return HeadingLeft
	case KeyRight:
		return HeadingRight
	default:
		return HeadingNone
	}
}

// ParseKeyCode maps key names ("up", "LEFT", "space", "w") to a KeyCode.
// Unknown names return KeyNone.
func ParseKeyCode(name string) KeyCode {
	switch name {
	case "up", "UP", "Up", "w", "W":
		return KeyUp
	case "down", "DOWN", "Down", "s", "S":
		return KeyDown
	case "left", "LEFT", "Left", "a", "A":
		return KeyLeft
	case "right", "RIGHT", "Right", "d", "D":
		return KeyRight
	case "space", "SPACE", "Space", " ":
		return KeySpace
	default:
		return KeyNone
	}
}
