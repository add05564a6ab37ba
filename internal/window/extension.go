package window

import (
	"github.com/chilli/backbone/internal/core/app"
	"github.com/chilli/backbone/internal/core/asset"
	"github.com/chilli/backbone/internal/core/ecs"
	"github.com/chilli/backbone/internal/core/event"
	"github.com/chilli/backbone/internal/core/system"
)

// Extension spawns one window entity and installs the window system. More
// windows open by adding Components later.
type Extension struct {
	Title    string
	Headless bool
	Width    int // headless size
	Height   int
	// NewScreen defaults to DefaultScreen.
	NewScreen ScreenFactory
}

func (e *Extension) Name() string { return "window" }

func (e *Extension) Build(a *app.App) error {
	ecs.Register[Component](a.World)
	asset.RegisterStore[Window](a.Assets)
	event.Register[event.KeyPressed](a.Events)
	event.Register[event.KeyReleased](a.Events)
	event.Register[event.WindowClose](a.Events)
	event.Register[event.WindowResize](a.Events)
	event.Register[event.KeyRepeat](a.Events)
	event.Register[event.MouseButtonPressed](a.Events)
	event.Register[event.MouseButtonReleased](a.Events)
	event.Register[event.CursorPos](a.Events)
	event.Register[event.MouseScroll](a.Events)

	ent := a.World.CreateEntity()
	ecs.Add(a.World, ent, Component{Title: e.Title, Handle: asset.NilHandle[Window]()})

	newScreen := e.NewScreen
	if newScreen == nil {
		newScreen = DefaultScreen
	}
	a.Scheduler.AddSystem(system.StageUpdateBegin, &System{
		headless:  e.Headless,
		width:     e.Width,
		height:    e.Height,
		newScreen: newScreen,
	})
	return nil
}

// Open returns every open window, in entity order.
func Open(ctx *system.Context) []*Window {
	store, ok := asset.GetStore[Window](ctx.Assets)
	if !ok {
		return nil
	}
	var out []*Window
	ecs.Each1(ctx.World, func(_ ecs.EntityID, c *Component) {
		if w, ok := store.Get(c.Handle); ok && w.IsOpen() {
			out = append(out, w)
		}
	})
	return out
}
