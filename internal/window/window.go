// Package window installs terminal windows backed by tcell screens. Each
// window is an asset owned through a WindowComponent; the window system
// pumps screen events onto the event bus at UPDATE_BEGIN and stops the main
// loop when no window is left open.
package window

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/chilli/backbone/internal/core/asset"
)

// Window is a terminal surface. Screen is nil for headless windows.
type Window struct {
	ID     uint32
	Title  string
	Screen tcell.Screen
	Width  int
	Height int
	open   bool

	// pointer and key state used to derive press/release/repeat events
	buttons  tcell.ButtonMask
	cursorX  int
	cursorY  int
	hasCur   bool
	lastKey  string
	lastKeyT time.Time
}

func (w *Window) IsOpen() bool { return w.open }

// Close marks the window closed and releases its screen.
func (w *Window) Close() {
	if !w.open {
		return
	}
	w.open = false
	if w.Screen != nil {
		w.Screen.Fini()
	}
}

func (w *Window) Size() (int, int) { return w.Width, w.Height }

// Component ties an entity to its window asset. The window system opens a
// window for every Component whose Handle is not valid, including ones added
// after the extension was built. A window that failed to open is not retried.
type Component struct {
	Title  string
	Handle asset.Handle[Window]
	failed bool
}

// ScreenFactory creates the tcell screen for a new window.
type ScreenFactory func() (tcell.Screen, error)

// DefaultScreen opens the process terminal.
func DefaultScreen() (tcell.Screen, error) {
	return tcell.NewScreen()
}
