package scene

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/chilli/backbone/internal/component"
	"github.com/chilli/backbone/internal/core/app"
	"github.com/chilli/backbone/internal/core/ecs"
	"github.com/chilli/backbone/internal/core/system"
	"github.com/chilli/backbone/internal/window"
)

const sample = `
entities:
  - name: player
    glyph: "@"
    color: yellow
    layer: 1
    x: 2
    y: 3
  - name: comet
    glyph: "*"
    x: 9
    y: 0
    velocity: {x: 2, y: 0}
`

func writeScene(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scene.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	sc, err := Load(writeScene(t, sample))
	if err != nil {
		t.Fatal(err)
	}
	if len(sc.Entities) != 2 {
		t.Fatalf("entities = %d", len(sc.Entities))
	}
	p := sc.Entities[0]
	if p.Name != "player" || p.X != 2 || p.Y != 3 || p.Velocity != nil {
		t.Fatalf("player = %+v", p)
	}
	if fg, _, _ := p.Style().Decompose(); fg != tcell.ColorYellow {
		t.Fatalf("fg = %v", fg)
	}
	if v := sc.Entities[1].Velocity; v == nil || v.X != 2 {
		t.Fatalf("comet velocity = %+v", v)
	}
}

func TestLoadRejects(t *testing.T) {
	_, err := Load(writeScene(t, "entities:\n  - name: ghost\n"))
	if err == nil || !strings.Contains(err.Error(), "no glyph") {
		t.Fatalf("err = %v", err)
	}
	_, err = Load(writeScene(t, "entities:\n  - glyph: x\n    color: notacolor\n"))
	if err == nil || !strings.Contains(err.Error(), "unknown color") {
		t.Fatalf("err = %v", err)
	}
	if _, err := Load(writeScene(t, "entities: [")); err == nil {
		t.Fatal("malformed yaml accepted")
	}
}

func TestMovementWrapsAtWindowEdge(t *testing.T) {
	base := time.Unix(0, 0)
	ticks := 0
	clock := func() time.Time {
		ticks++
		return base.Add(time.Duration(ticks) * 500 * time.Millisecond)
	}
	a := app.New(zap.NewNop(), app.WithClock(clock), app.WithMaxFrames(3))
	if err := a.AddExtension(&window.Extension{Title: "t", Headless: true, Width: 10, Height: 5}); err != nil {
		t.Fatal(err)
	}
	if err := a.AddExtension(Extension{Path: writeScene(t, sample)}); err != nil {
		t.Fatal(err)
	}

	var comet component.Position
	a.Scheduler.AddSystem(system.StageShutdown, system.Func(func(ctx *system.Context) {
		ecs.Each2(ctx.World, func(_ ecs.EntityID, p *component.Position, n *component.Name) {
			if n.Value == "comet" {
				comet = *p
			}
		})
	}))
	if err := a.Run(); err != nil {
		t.Fatal(err)
	}
	// 3 frames at 0.5s and 2 cells/s: 9 -> 10 -> 11 -> 12, wrapped by 10
	if comet != (component.Position{X: 2, Y: 0}) {
		t.Fatalf("comet = %+v", comet)
	}
}

func TestMissingSceneSkipped(t *testing.T) {
	a := app.New(zap.NewNop(), app.WithMaxFrames(1))
	if err := a.AddExtension(Extension{Path: filepath.Join(t.TempDir(), "none.yaml")}); err != nil {
		t.Fatal(err)
	}
	if err := a.Run(); err != nil {
		t.Fatal(err)
	}
}

func TestStep(t *testing.T) {
	acc := 0.0
	moved := 0
	for i := 0; i < 4; i++ {
		moved += step(&acc, 0.3)
	}
	if moved != 1 {
		t.Fatalf("moved = %d", moved)
	}
	if wrap(-1, 10) != 9 || wrap(7, 0) != 7 {
		t.Fatal("wrap")
	}
}
