package window

import (
	"errors"
	"testing"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/chilli/backbone/internal/core/app"
	"github.com/chilli/backbone/internal/core/ecs"
	"github.com/chilli/backbone/internal/core/event"
	"github.com/chilli/backbone/internal/core/system"
)

func simFactory(out *tcell.SimulationScreen) ScreenFactory {
	return func() (tcell.Screen, error) {
		s := tcell.NewSimulationScreen("UTF-8")
		*out = s
		return s, nil
	}
}

func TestWindowOpensAndPumpsKeys(t *testing.T) {
	var scr tcell.SimulationScreen
	a := app.New(zap.NewNop())
	if err := a.AddExtension(&Extension{Title: "test", NewScreen: simFactory(&scr)}); err != nil {
		t.Fatal(err)
	}
	ctx := a.Context()
	if len(Open(ctx)) != 1 {
		t.Fatal("window not opened during build")
	}

	if err := scr.PostEvent(tcell.NewEventKey(tcell.KeyRune, 'w', tcell.ModNone)); err != nil {
		t.Fatal(err)
	}
	if err := scr.PostEvent(tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModShift)); err != nil {
		t.Fatal(err)
	}
	reader := event.Subscribe[event.KeyPressed](ctx.Events)
	a.Scheduler.RunStage(system.StageUpdateBegin)

	var keys []event.KeyPressed
	keys = append(keys, reader.Drain()...)
	if len(keys) != 2 {
		t.Fatalf("keys = %v", keys)
	}
	if keys[0].Key != "w" || keys[1].Key != "Up" || keys[1].Mods&event.ModShift == 0 {
		t.Fatalf("keys = %+v", keys)
	}
	if !ctx.Frame().Running {
		t.Fatal("loop stopped while window open")
	}
}

func TestEscapeClosesWindowAndStopsLoop(t *testing.T) {
	var scr tcell.SimulationScreen
	a := app.New(zap.NewNop())
	if err := a.AddExtension(&Extension{Title: "test", NewScreen: simFactory(&scr)}); err != nil {
		t.Fatal(err)
	}
	ctx := a.Context()
	closes := event.Subscribe[event.WindowClose](ctx.Events)

	if err := scr.PostEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)); err != nil {
		t.Fatal(err)
	}
	a.Scheduler.RunStage(system.StageUpdateBegin)

	if closes.Len() != 1 {
		t.Fatalf("close events = %d", closes.Len())
	}
	if len(Open(ctx)) != 0 {
		t.Fatal("window still open")
	}
	if ctx.Frame().Running {
		t.Fatal("loop should stop once no window is open")
	}
}

func TestRunExitsWhenWindowCloses(t *testing.T) {
	var scr tcell.SimulationScreen
	a := app.New(zap.NewNop())
	if err := a.AddExtension(&Extension{Title: "test", NewScreen: simFactory(&scr)}); err != nil {
		t.Fatal(err)
	}
	frames := 0
	a.Scheduler.AddSystem(system.StageUpdate, system.Func(func(*system.Context) {
		frames++
		if frames == 3 {
			_ = scr.PostEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone))
		}
	}))
	if err := a.Run(); err != nil {
		t.Fatal(err)
	}
	if frames != 4 {
		t.Fatalf("frames = %d, want 4", frames)
	}
}

func TestHeadlessWindow(t *testing.T) {
	a := app.New(zap.NewNop(), app.WithMaxFrames(2))
	if err := a.AddExtension(&Extension{Title: "h", Headless: true, Width: 40, Height: 10}); err != nil {
		t.Fatal(err)
	}
	wins := Open(a.Context())
	if len(wins) != 1 || wins[0].Screen != nil {
		t.Fatalf("headless windows = %v", wins)
	}
	if w, h := wins[0].Size(); w != 40 || h != 10 {
		t.Fatalf("size = %dx%d", w, h)
	}
	if err := a.Run(); err != nil {
		t.Fatal(err)
	}
	if wins[0].IsOpen() {
		t.Fatal("window left open after terminate")
	}
}

func TestComponentAddedAfterBuildOpens(t *testing.T) {
	var screens []tcell.SimulationScreen
	factory := func() (tcell.Screen, error) {
		s := tcell.NewSimulationScreen("UTF-8")
		screens = append(screens, s)
		return s, nil
	}
	a := app.New(zap.NewNop())
	if err := a.AddExtension(&Extension{Title: "main", NewScreen: factory}); err != nil {
		t.Fatal(err)
	}
	late := a.World.CreateEntity()
	ecs.Add(a.World, late, Component{Title: "late"})

	ctx := a.Context()
	if n := len(Open(ctx)); n != 1 {
		t.Fatalf("open before pump = %d, want 1", n)
	}
	a.Scheduler.RunStage(system.StageUpdateBegin)

	wins := Open(ctx)
	if len(wins) != 2 || wins[0] == wins[1] {
		t.Fatalf("open windows = %v", wins)
	}
	if wins[1].Title != "late" || len(screens) != 2 {
		t.Fatalf("late window = %+v, screens = %d", wins[1], len(screens))
	}
	a.Scheduler.RunStage(system.StageUpdateBegin)
	if len(screens) != 2 {
		t.Fatal("open window reopened")
	}
}

func TestFailedOpenNotRetried(t *testing.T) {
	calls := 0
	factory := func() (tcell.Screen, error) {
		calls++
		return nil, errors.New("no tty")
	}
	a := app.New(zap.NewNop())
	if err := a.AddExtension(&Extension{Title: "x", NewScreen: factory}); err != nil {
		t.Fatal(err)
	}
	a.Scheduler.RunStage(system.StageUpdateBegin)
	a.Scheduler.RunStage(system.StageUpdateBegin)
	if calls != 1 {
		t.Fatalf("factory called %d times", calls)
	}
	if a.Context().Frame().Running {
		t.Fatal("loop should stop with no window")
	}
}

func TestMouseEventsPumped(t *testing.T) {
	var scr tcell.SimulationScreen
	a := app.New(zap.NewNop())
	if err := a.AddExtension(&Extension{Title: "m", NewScreen: simFactory(&scr)}); err != nil {
		t.Fatal(err)
	}
	ctx := a.Context()
	cursors := event.Subscribe[event.CursorPos](ctx.Events)
	downs := event.Subscribe[event.MouseButtonPressed](ctx.Events)
	ups := event.Subscribe[event.MouseButtonReleased](ctx.Events)
	scrolls := event.Subscribe[event.MouseScroll](ctx.Events)

	post := func(ev tcell.Event) {
		t.Helper()
		if err := scr.PostEvent(ev); err != nil {
			t.Fatal(err)
		}
	}
	post(tcell.NewEventMouse(3, 2, tcell.ButtonPrimary, tcell.ModCtrl))
	post(tcell.NewEventMouse(3, 2, tcell.ButtonNone, tcell.ModNone))
	post(tcell.NewEventMouse(5, 2, tcell.WheelUp, tcell.ModNone))
	a.Scheduler.RunStage(system.StageUpdateBegin)

	if c := cursors.Drain(); len(c) != 2 || c[0].X != 3 || c[1].X != 5 {
		t.Fatalf("cursor events = %+v", c)
	}
	d := downs.Drain()
	if len(d) != 1 || d[0].Button != event.MouseLeft || d[0].Mods&event.ModCtrl == 0 {
		t.Fatalf("press events = %+v", d)
	}
	if u := ups.Drain(); len(u) != 1 || u[0].Button != event.MouseLeft {
		t.Fatalf("release events = %+v", u)
	}
	if s := scrolls.Drain(); len(s) != 1 || s[0].DY != 1 {
		t.Fatalf("scroll events = %+v", s)
	}
}

func TestRepeatedKeyBecomesKeyRepeat(t *testing.T) {
	var scr tcell.SimulationScreen
	a := app.New(zap.NewNop())
	if err := a.AddExtension(&Extension{Title: "r", NewScreen: simFactory(&scr)}); err != nil {
		t.Fatal(err)
	}
	ctx := a.Context()
	presses := event.Subscribe[event.KeyPressed](ctx.Events)
	repeats := event.Subscribe[event.KeyRepeat](ctx.Events)
	for i := 0; i < 3; i++ {
		if err := scr.PostEvent(tcell.NewEventKey(tcell.KeyRune, 'j', tcell.ModNone)); err != nil {
			t.Fatal(err)
		}
	}
	a.Scheduler.RunStage(system.StageUpdateBegin)
	if presses.Len() != 1 || repeats.Len() != 2 {
		t.Fatalf("presses = %d, repeats = %d", presses.Len(), repeats.Len())
	}
}
