// Package input keeps per-frame key state built from window key events.
package input

import (
	"github.com/chilli/backbone/internal/core/app"
	"github.com/chilli/backbone/internal/core/event"
	"github.com/chilli/backbone/internal/core/service"
	"github.com/chilli/backbone/internal/core/system"
)

// Input is the key and pointer state service. Pressed holds keys pressed
// this frame; Down holds keys pressed and not yet released. Terminals never
// report key releases, so there Down only clears through Reset. Mouse
// buttons do report releases.
type Input struct {
	pressed  map[string]bool
	down     map[string]bool
	repeated map[string]bool

	mouseDown    [event.MouseButtonCount]bool
	mousePressed [event.MouseButtonCount]bool
	cursorX      int
	cursorY      int
	scrollX      int
	scrollY      int

	// modifiers carried by this frame's input events
	mods event.Mod
}

func New() *Input {
	return &Input{
		pressed:  make(map[string]bool, 16),
		down:     make(map[string]bool, 16),
		repeated: make(map[string]bool, 16),
	}
}

func (in *Input) Pressed(key string) bool { return in.pressed[key] }
func (in *Input) Down(key string) bool    { return in.down[key] }

// Repeated reports whether key auto-repeated this frame.
func (in *Input) Repeated(key string) bool { return in.repeated[key] }

// MouseDown reports whether b is held.
func (in *Input) MouseDown(b event.MouseButton) bool {
	return b.Valid() && in.mouseDown[b]
}

// MousePressed reports whether b went down this frame.
func (in *Input) MousePressed(b event.MouseButton) bool {
	return b.Valid() && in.mousePressed[b]
}

// Cursor is the last reported pointer cell.
func (in *Input) Cursor() (int, int) { return in.cursorX, in.cursorY }

// Scroll is the wheel movement accumulated this frame.
func (in *Input) Scroll() (int, int) { return in.scrollX, in.scrollY }

// ModDown reports whether every modifier in m was held during this frame's
// input events.
func (in *Input) ModDown(m event.Mod) bool { return m != 0 && in.mods&m == m }

// Mods returns the modifier state of this frame's input events.
func (in *Input) Mods() event.Mod { return in.mods }

// AnyPressed reports whether any key went down this frame.
func (in *Input) AnyPressed() bool { return len(in.pressed) > 0 }

func (in *Input) press(key string, m event.Mod) {
	in.pressed[key] = true
	in.down[key] = true
	in.mods |= m
}

func (in *Input) repeat(key string, m event.Mod) {
	in.repeated[key] = true
	in.down[key] = true
	in.mods |= m
}

func (in *Input) mousePress(b event.MouseButton, m event.Mod) {
	if !b.Valid() {
		return
	}
	in.mouseDown[b] = true
	in.mousePressed[b] = true
	in.mods |= m
}

func (in *Input) mouseRelease(b event.MouseButton) {
	if b.Valid() {
		in.mouseDown[b] = false
	}
}

func (in *Input) release(key string) {
	delete(in.down, key)
}

func (in *Input) endFrame() {
	clear(in.pressed)
	clear(in.repeated)
	in.mousePressed = [event.MouseButtonCount]bool{}
	in.scrollX, in.scrollY = 0, 0
	in.mods = 0
}

// Reset forgets all key and pointer state.
func (in *Input) Reset() {
	in.endFrame()
	clear(in.down)
	in.mouseDown = [event.MouseButtonCount]bool{}
}

// Extension registers the Input service and latches key and mouse events at
// the start of UPDATE, after windows have pumped.
type Extension struct{}

func (Extension) Name() string { return "input" }

func (Extension) Build(a *app.App) error {
	in := New()
	service.Register(a.Services, in)
	presses := event.Subscribe[event.KeyPressed](a.Events)
	releases := event.Subscribe[event.KeyReleased](a.Events)
	repeats := event.Subscribe[event.KeyRepeat](a.Events)
	mouseDowns := event.Subscribe[event.MouseButtonPressed](a.Events)
	mouseUps := event.Subscribe[event.MouseButtonReleased](a.Events)
	cursors := event.Subscribe[event.CursorPos](a.Events)
	scrolls := event.Subscribe[event.MouseScroll](a.Events)

	a.Scheduler.AddBeforeCallback(system.StageUpdate, func(*system.Context) {
		for _, ev := range presses.Drain() {
			in.press(ev.Key, ev.Mods)
		}
		for _, ev := range repeats.Drain() {
			in.repeat(ev.Key, ev.Mods)
		}
		for _, ev := range releases.Drain() {
			in.release(ev.Key)
		}
		for _, ev := range mouseDowns.Drain() {
			in.mousePress(ev.Button, ev.Mods)
		}
		for _, ev := range mouseUps.Drain() {
			in.mouseRelease(ev.Button)
		}
		for _, ev := range cursors.Drain() {
			in.cursorX, in.cursorY = ev.X, ev.Y
		}
		for _, ev := range scrolls.Drain() {
			in.scrollX += ev.DX
			in.scrollY += ev.DY
		}
	})
	a.Scheduler.AddCallback(system.StageUpdateEnd, func(*system.Context) {
		in.endFrame()
	})
	return nil
}
