package window

import (
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/chilli/backbone/internal/core/asset"
	"github.com/chilli/backbone/internal/core/ecs"
	"github.com/chilli/backbone/internal/core/event"
	"github.com/chilli/backbone/internal/core/system"
)

// System opens windows for new Components and pumps their events every frame.
type System struct {
	headless      bool
	width, height int
	newScreen     ScreenFactory
}

// repeatGap is the longest pause between identical key events that still
// counts as auto-repeat.
const repeatGap = 100 * time.Millisecond

func (s *System) Name() string { return "window" }

func (s *System) OnCreate(ctx *system.Context) {
	s.openPending(ctx, asset.RegisterStore[Window](ctx.Assets))
}

// openPending opens a window for every Component without a valid handle.
func (s *System) openPending(ctx *system.Context, store *asset.Store[Window]) {
	ecs.Each1(ctx.World, func(_ ecs.EntityID, c *Component) {
		if c.failed || store.IsValid(c.Handle) {
			return
		}
		w, err := s.open(c.Title)
		if err != nil {
			ctx.Log.Error("open window failed", zap.String("title", c.Title), zap.Error(err))
			c.Handle = asset.NilHandle[Window]()
			c.failed = true
			return
		}
		c.Handle = store.Add(w)
		if win, ok := store.Get(c.Handle); ok {
			win.ID = c.Handle.ID
		}
		ctx.Log.Info("window opened",
			zap.String("title", c.Title),
			zap.Int("width", w.Width),
			zap.Int("height", w.Height),
			zap.Bool("headless", w.Screen == nil))
	})
}

func (s *System) open(title string) (Window, error) {
	if s.headless {
		return Window{Title: title, Width: s.width, Height: s.height, open: true}, nil
	}
	scr, err := s.newScreen()
	if err != nil {
		return Window{}, err
	}
	if err := scr.Init(); err != nil {
		return Window{}, err
	}
	scr.SetTitle(title)
	scr.EnableMouse()
	w, h := scr.Size()
	return Window{Title: title, Screen: scr, Width: w, Height: h, open: true}, nil
}

func (s *System) Run(ctx *system.Context) {
	store, ok := asset.GetStore[Window](ctx.Assets)
	if !ok {
		return
	}
	s.openPending(ctx, store)
	anyOpen := false
	ecs.Each1(ctx.World, func(_ ecs.EntityID, c *Component) {
		w, ok := store.Get(c.Handle)
		if !ok || !w.IsOpen() {
			return
		}
		pump(ctx, w)
		if w.IsOpen() {
			anyOpen = true
		}
	})
	if f := ctx.Frame(); f != nil && !anyOpen && f.Running {
		ctx.Log.Info("all windows closed")
		f.Running = false
	}
}

func pump(ctx *system.Context, w *Window) {
	if w.Screen == nil {
		return
	}
	for w.Screen.HasPendingEvent() {
		switch ev := w.Screen.PollEvent().(type) {
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
				event.Push(ctx.Events, event.WindowClose{Window: w.ID})
				w.Close()
				return
			}
			pumpKey(ctx, w, ev)
		case *tcell.EventMouse:
			pumpMouse(ctx, w, ev)
		case *tcell.EventResize:
			w.Width, w.Height = ev.Size()
			event.Push(ctx.Events, event.WindowResize{Window: w.ID, Width: w.Width, Height: w.Height})
		case nil:
			w.Close()
			return
		}
	}
}

// pumpKey reports a key as KeyRepeat when the same key came in within
// repeatGap of the previous key event.
func pumpKey(ctx *system.Context, w *Window, ev *tcell.EventKey) {
	name, m := KeyName(ev), mods(ev.Modifiers())
	repeat := name == w.lastKey && ev.When().Sub(w.lastKeyT) < repeatGap
	w.lastKey, w.lastKeyT = name, ev.When()
	if repeat {
		event.Push(ctx.Events, event.KeyRepeat{Window: w.ID, Key: name, Mods: m})
		return
	}
	event.Push(ctx.Events, event.KeyPressed{Window: w.ID, Key: name, Mods: m})
}

var buttonMasks = [...]struct {
	mask   tcell.ButtonMask
	button event.MouseButton
}{
	{tcell.ButtonPrimary, event.MouseLeft},
	{tcell.ButtonSecondary, event.MouseRight},
	{tcell.ButtonMiddle, event.MouseMiddle},
}

// pumpMouse turns tcell's button-state snapshots into edge events.
func pumpMouse(ctx *system.Context, w *Window, ev *tcell.EventMouse) {
	x, y := ev.Position()
	m := mods(ev.Modifiers())
	if !w.hasCur || x != w.cursorX || y != w.cursorY {
		w.cursorX, w.cursorY, w.hasCur = x, y, true
		event.Push(ctx.Events, event.CursorPos{Window: w.ID, X: x, Y: y})
	}

	btn := ev.Buttons()
	for _, bm := range buttonMasks {
		was, is := w.buttons&bm.mask != 0, btn&bm.mask != 0
		switch {
		case is && !was:
			event.Push(ctx.Events, event.MouseButtonPressed{Window: w.ID, Button: bm.button, X: x, Y: y, Mods: m})
		case was && !is:
			event.Push(ctx.Events, event.MouseButtonReleased{Window: w.ID, Button: bm.button, X: x, Y: y, Mods: m})
		}
	}
	w.buttons = btn & (tcell.ButtonPrimary | tcell.ButtonSecondary | tcell.ButtonMiddle)

	var dx, dy int
	if btn&tcell.WheelUp != 0 {
		dy++
	}
	if btn&tcell.WheelDown != 0 {
		dy--
	}
	if btn&tcell.WheelRight != 0 {
		dx++
	}
	if btn&tcell.WheelLeft != 0 {
		dx--
	}
	if dx != 0 || dy != 0 {
		event.Push(ctx.Events, event.MouseScroll{Window: w.ID, DX: dx, DY: dy})
	}
}

// KeyName is the printable character for rune keys, else tcell's key name.
func KeyName(ev *tcell.EventKey) string {
	if ev.Key() == tcell.KeyRune {
		return string(ev.Rune())
	}
	if name, ok := tcell.KeyNames[ev.Key()]; ok {
		return name
	}
	return ev.Name()
}

func mods(m tcell.ModMask) event.Mod {
	var out event.Mod
	if m&tcell.ModShift != 0 {
		out |= event.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		out |= event.ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		out |= event.ModAlt
	}
	return out
}

func (s *System) OnTerminate(ctx *system.Context) {
	store, ok := asset.GetStore[Window](ctx.Assets)
	if !ok {
		return
	}
	ecs.Each1(ctx.World, func(_ ecs.EntityID, c *Component) {
		if w, ok := store.Get(c.Handle); ok {
			w.Close()
		}
		store.Remove(c.Handle)
	})
}
