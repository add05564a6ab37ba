package event

// Engine event types pushed by the window collaborator.

// Mod is a modifier key bit set.
type Mod uint8

const (
	ModShift Mod = 1 << iota
	ModCtrl
	ModAlt
)

type KeyPressed struct {
	Window uint32
	Key    string // key name, or the character itself for printable keys
	Mods   Mod
}

type KeyReleased struct {
	Window uint32
	Key    string
	Mods   Mod
}

type WindowClose struct {
	Window uint32
}

type WindowResize struct {
	Window        uint32
	Width, Height int
}

// KeyRepeat is pushed instead of KeyPressed when a key arrives again while
// auto-repeating.
type KeyRepeat struct {
	Window uint32
	Key    string
	Mods   Mod
}

// MouseButton names a pointer button.
type MouseButton uint8

const (
	MouseLeft MouseButton = iota
	MouseRight
	MouseMiddle

	MouseButtonCount // number of defined buttons
)

// MouseButtons lists every button in index order.
func MouseButtons() []MouseButton {
	return []MouseButton{MouseLeft, MouseRight, MouseMiddle}
}

func (b MouseButton) String() string {
	switch b {
	case MouseLeft:
		return "left"
	case MouseRight:
		return "right"
	case MouseMiddle:
		return "middle"
	}
	return "unknown"
}

// Valid reports whether b is one of the defined buttons.
func (b MouseButton) Valid() bool { return b < MouseButtonCount }

type MouseButtonPressed struct {
	Window uint32
	Button MouseButton
	X, Y   int
	Mods   Mod
}

type MouseButtonReleased struct {
	Window uint32
	Button MouseButton
	X, Y   int
	Mods   Mod
}

// CursorPos is pushed whenever the pointer moves to a new cell.
type CursorPos struct {
	Window uint32
	X, Y   int
}

// MouseScroll carries wheel steps: positive DY is up, positive DX is right.
type MouseScroll struct {
	Window uint32
	DX, DY int
}
