// Package render draws Sprite components onto every open terminal window.
// RENDER_BEGIN clears, RENDER draws sprites and the HUD, RENDER_END shows.
package render

import (
	"fmt"
	"sort"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/chilli/backbone/internal/component"
	"github.com/chilli/backbone/internal/core/app"
	"github.com/chilli/backbone/internal/core/asset"
	"github.com/chilli/backbone/internal/core/ecs"
	"github.com/chilli/backbone/internal/core/system"
	"github.com/chilli/backbone/internal/window"
)

// Stats is the render statistics singleton, reset every frame.
type Stats struct {
	Sprites int // drawn this frame
	Clipped int // skipped because they fell outside the window
}

type drawItem struct {
	pos    component.Position
	sprite component.Sprite
}

// Extension installs the render stages. HUD toggles the status line.
type Extension struct {
	HUD bool
}

func (Extension) Name() string { return "render" }

func (e Extension) Build(a *app.App) error {
	ecs.Register[component.Position](a.World)
	ecs.Register[component.Sprite](a.World)
	asset.RegisterSingle[Stats](a.Assets)

	a.Scheduler.AddSystem(system.StageRenderBegin, &clearSystem{})
	a.Scheduler.AddCallback(system.StageRender, func(ctx *system.Context) {
		drawSprites(ctx)
		if e.HUD {
			drawHUD(ctx)
		}
	})
	a.Scheduler.AddCallback(system.StageRenderEnd, present)
	return nil
}

type clearSystem struct{}

func (*clearSystem) Name() string { return "render.clear" }

func (*clearSystem) Run(ctx *system.Context) {
	if st := asset.GetSingle[Stats](ctx.Assets); st != nil {
		*st = Stats{}
	}
	for _, w := range window.Open(ctx) {
		if w.Screen != nil {
			w.Screen.Clear()
		}
	}
}

func drawSprites(ctx *system.Context) {
	var items []drawItem
	ecs.Each2(ctx.World, func(_ ecs.EntityID, p *component.Position, s *component.Sprite) {
		items = append(items, drawItem{pos: *p, sprite: *s})
	})
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].sprite.Layer < items[j].sprite.Layer
	})

	st := asset.GetSingle[Stats](ctx.Assets)
	for _, w := range window.Open(ctx) {
		for _, it := range items {
			if DrawText(w.Screen, w.Width, w.Height, it.pos.X, it.pos.Y, it.sprite.Glyph, it.sprite.Style) {
				st.Sprites++
			} else {
				st.Clipped++
			}
		}
	}
}

func drawHUD(ctx *system.Context) {
	f := ctx.Frame()
	fps := 0.0
	if f.Delta > 0 {
		fps = 1 / f.Delta.Seconds()
	}
	line := fmt.Sprintf(" frame %d  %.0f fps  %d entities ", f.Frame, fps, ctx.World.LiveCount())
	style := tcell.StyleDefault.Reverse(true)
	for _, w := range window.Open(ctx) {
		DrawText(w.Screen, w.Width, w.Height, 0, 0, runewidth.Truncate(line, w.Width, ""), style)
	}
}

func present(ctx *system.Context) {
	for _, w := range window.Open(ctx) {
		if w.Screen != nil {
			w.Screen.Show()
		}
	}
}

// DrawText writes s at (x, y), advancing by each rune's cell width. It stops
// at the right edge and reports whether anything was drawn. A nil screen
// only does the clipping arithmetic.
func DrawText(scr tcell.Screen, width, height, x, y int, s string, st tcell.Style) bool {
	if y < 0 || y >= height || x < 0 || x >= width {
		return false
	}
	drawn := false
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		if x+rw > width {
			break
		}
		if scr != nil {
			scr.SetContent(x, y, r, nil, st)
		}
		drawn = true
		x += rw
	}
	return drawn
}
