package input

import (
	"testing"

	"go.uber.org/zap"

	"github.com/chilli/backbone/internal/core/app"
	"github.com/chilli/backbone/internal/core/event"
	"github.com/chilli/backbone/internal/core/service"
	"github.com/chilli/backbone/internal/core/system"
)

func TestKeyStateFollowsEvents(t *testing.T) {
	a := app.New(zap.NewNop())
	if err := a.AddExtension(Extension{}); err != nil {
		t.Fatal(err)
	}
	in, ok := service.Get[*Input](a.Services)
	if !ok {
		t.Fatal("input service not registered")
	}

	event.Push(a.Events, event.KeyPressed{Key: "w"})
	a.Scheduler.RunStage(system.StageUpdate)
	if !in.Pressed("w") || !in.Down("w") {
		t.Fatal("w should be pressed and down")
	}
	a.Scheduler.RunStage(system.StageUpdateEnd)
	if in.Pressed("w") {
		t.Fatal("pressed should reset at UPDATE_END")
	}
	if !in.Down("w") {
		t.Fatal("down should persist until release")
	}

	a.Events.ClearAll()
	event.Push(a.Events, event.KeyReleased{Key: "w"})
	a.Scheduler.RunStage(system.StageUpdate)
	if in.Down("w") || in.AnyPressed() {
		t.Fatal("release not applied")
	}
}

func TestEventsConsumedOnce(t *testing.T) {
	a := app.New(zap.NewNop())
	if err := a.AddExtension(Extension{}); err != nil {
		t.Fatal(err)
	}
	in := service.MustGet[*Input](a.Services)
	event.Push(a.Events, event.KeyPressed{Key: "a"})
	a.Scheduler.RunStage(system.StageUpdate)
	a.Scheduler.RunStage(system.StageUpdateEnd)
	a.Scheduler.RunStage(system.StageUpdate)
	if in.Pressed("a") {
		t.Fatal("same event latched twice")
	}
	in.Reset()
	if in.Down("a") {
		t.Fatal("reset kept state")
	}
}

func TestMouseAndModState(t *testing.T) {
	a := app.New(zap.NewNop())
	if err := a.AddExtension(Extension{}); err != nil {
		t.Fatal(err)
	}
	in := service.MustGet[*Input](a.Services)

	event.Push(a.Events, event.CursorPos{X: 4, Y: 7})
	event.Push(a.Events, event.MouseButtonPressed{Button: event.MouseLeft, X: 4, Y: 7, Mods: event.ModCtrl})
	event.Push(a.Events, event.MouseScroll{DY: 1})
	event.Push(a.Events, event.MouseScroll{DY: 1})
	a.Scheduler.RunStage(system.StageUpdate)

	if x, y := in.Cursor(); x != 4 || y != 7 {
		t.Fatalf("cursor = %d,%d", x, y)
	}
	if !in.MousePressed(event.MouseLeft) || !in.MouseDown(event.MouseLeft) || in.MouseDown(event.MouseRight) {
		t.Fatal("left button state wrong")
	}
	if _, dy := in.Scroll(); dy != 2 {
		t.Fatalf("scroll dy = %d", dy)
	}
	if !in.ModDown(event.ModCtrl) || in.ModDown(event.ModCtrl|event.ModShift) {
		t.Fatalf("mods = %v", in.Mods())
	}

	a.Scheduler.RunStage(system.StageUpdateEnd)
	a.Events.ClearAll()
	if in.MousePressed(event.MouseLeft) || !in.MouseDown(event.MouseLeft) {
		t.Fatal("press edge should clear, hold should persist")
	}
	if _, dy := in.Scroll(); dy != 0 || in.Mods() != 0 {
		t.Fatal("per-frame scroll and mods not reset")
	}

	event.Push(a.Events, event.MouseButtonReleased{Button: event.MouseLeft})
	a.Scheduler.RunStage(system.StageUpdate)
	if in.MouseDown(event.MouseLeft) {
		t.Fatal("release not applied")
	}
	if in.MouseDown(event.MouseButton(9)) {
		t.Fatal("out of range button reported down")
	}
}

func TestKeyRepeatIsNotAPress(t *testing.T) {
	a := app.New(zap.NewNop())
	if err := a.AddExtension(Extension{}); err != nil {
		t.Fatal(err)
	}
	in := service.MustGet[*Input](a.Services)
	event.Push(a.Events, event.KeyRepeat{Key: "d", Mods: event.ModShift})
	a.Scheduler.RunStage(system.StageUpdate)
	if in.Pressed("d") || !in.Repeated("d") || !in.Down("d") {
		t.Fatal("repeat state wrong")
	}
	if !in.ModDown(event.ModShift) {
		t.Fatal("repeat mods dropped")
	}
}
