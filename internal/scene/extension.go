package scene

import (
	"errors"
	"fmt"
	"io/fs"
	"math"

	"go.uber.org/zap"

	"github.com/chilli/backbone/internal/component"
	"github.com/chilli/backbone/internal/core/app"
	"github.com/chilli/backbone/internal/core/ecs"
	"github.com/chilli/backbone/internal/core/system"
	"github.com/chilli/backbone/internal/window"
)

// Extension spawns the scene at Path during STARTUP and installs Movement.
// A missing file is logged and skipped.
type Extension struct {
	Path string
}

func (Extension) Name() string { return "scene" }

func (e Extension) Build(a *app.App) error {
	ecs.Register[component.Position](a.World)
	ecs.Register[component.Velocity](a.World)
	ecs.Register[component.Sprite](a.World)
	ecs.Register[component.Name](a.World)

	var sc *Scene
	if e.Path != "" {
		var err error
		sc, err = Load(e.Path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			a.Log.Warn("scene file not found, skipping", zap.String("path", e.Path))
		case err != nil:
			return fmt.Errorf("load scene: %w", err)
		}
	}
	if sc != nil {
		a.Scheduler.AddCallback(system.StageStartup, func(ctx *system.Context) {
			n := Spawn(ctx.World, sc)
			ctx.Log.Info("scene spawned", zap.String("path", e.Path), zap.Int("entities", n))
		})
	}
	a.Scheduler.AddSystem(system.StageUpdate, &Movement{})
	return nil
}

// Spawn creates one entity per definition and returns how many it made.
func Spawn(w *ecs.World, sc *Scene) int {
	for i := range sc.Entities {
		d := &sc.Entities[i]
		id := w.CreateEntity()
		ecs.Add(w, id, component.Position{X: d.X, Y: d.Y})
		ecs.Add(w, id, component.Sprite{Glyph: d.Glyph, Style: d.Style(), Layer: d.Layer})
		if d.Name != "" {
			ecs.Add(w, id, component.Name{Value: d.Name})
		}
		if d.Velocity != nil {
			ecs.Add(w, id, component.Velocity{X: d.Velocity.X, Y: d.Velocity.Y})
		}
	}
	return len(sc.Entities)
}

// Movement advances Position by Velocity scaled by the frame delta,
// wrapping around the first open window.
type Movement struct{}

func (*Movement) Name() string { return "scene.movement" }

func (*Movement) Run(ctx *system.Context) {
	f := ctx.Frame()
	if f == nil {
		return
	}
	dt := f.Delta.Seconds()
	width, height := 0, 0
	if wins := window.Open(ctx); len(wins) > 0 {
		width, height = wins[0].Size()
	}
	ecs.Each2(ctx.World, func(_ ecs.EntityID, p *component.Position, v *component.Velocity) {
		p.X += step(&v.AccX, v.X*dt)
		p.Y += step(&v.AccY, v.Y*dt)
		p.X = wrap(p.X, width)
		p.Y = wrap(p.Y, height)
	})
}

// step adds d to the remainder and returns the whole cells to move.
func step(acc *float64, d float64) int {
	*acc += d
	whole := math.Trunc(*acc)
	*acc -= whole
	return int(whole)
}

func wrap(v, n int) int {
	if n <= 0 {
		return v
	}
	v %= n
	if v < 0 {
		v += n
	}
	return v
}
