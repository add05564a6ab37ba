package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/chilli/backbone/internal/component"
	"github.com/chilli/backbone/internal/core/ecs"
	"github.com/chilli/backbone/internal/core/service"
	"github.com/chilli/backbone/internal/input"
)

// openHostModule installs the global "chilli" table scripts use to reach
// the engine.
func (e *Engine) openHostModule() {
	mod := e.vm.SetFuncs(e.vm.NewTable(), map[string]lua.LGFunction{
		"log":          e.luaLog,
		"delta":        e.luaDelta,
		"frame":        e.luaFrame,
		"quit":         e.luaQuit,
		"key_pressed":  e.luaKeyPressed,
		"entity_count": e.luaEntityCount,
		"spawn":        e.luaSpawn,
	})
	e.vm.SetGlobal("chilli", mod)
}

// chilli.log(msg)
func (e *Engine) luaLog(L *lua.LState) int {
	e.log.Info("lua", zap.String("msg", L.CheckString(1)))
	return 0
}

// chilli.delta() -> seconds since the previous frame
func (e *Engine) luaDelta(L *lua.LState) int {
	if e.ctx == nil || e.ctx.Frame() == nil {
		L.Push(lua.LNumber(0))
		return 1
	}
	L.Push(lua.LNumber(e.ctx.Frame().Delta.Seconds()))
	return 1
}

// chilli.frame() -> current frame number
func (e *Engine) luaFrame(L *lua.LState) int {
	if e.ctx == nil || e.ctx.Frame() == nil {
		L.Push(lua.LNumber(0))
		return 1
	}
	L.Push(lua.LNumber(e.ctx.Frame().Frame))
	return 1
}

// chilli.quit() stops the main loop after this frame.
func (e *Engine) luaQuit(L *lua.LState) int {
	if e.ctx != nil {
		if f := e.ctx.Frame(); f != nil {
			f.Running = false
		}
	}
	return 0
}

// chilli.key_pressed(key) -> bool
func (e *Engine) luaKeyPressed(L *lua.LState) int {
	key := L.CheckString(1)
	pressed := false
	if e.ctx != nil {
		if in, ok := service.Get[*input.Input](e.ctx.Services); ok {
			pressed = in.Pressed(key)
		}
	}
	L.Push(lua.LBool(pressed))
	return 1
}

// chilli.entity_count() -> live entities
func (e *Engine) luaEntityCount(L *lua.LState) int {
	n := 0
	if e.ctx != nil {
		n = e.ctx.World.LiveCount()
	}
	L.Push(lua.LNumber(n))
	return 1
}

// chilli.spawn(glyph, x, y) -> entity index
func (e *Engine) luaSpawn(L *lua.LState) int {
	glyph := L.CheckString(1)
	x, y := L.CheckInt(2), L.CheckInt(3)
	if e.ctx == nil {
		L.RaiseError("spawn outside a system call")
		return 0
	}
	w := e.ctx.World
	id := w.CreateEntity()
	ecs.Add(w, id, component.Position{X: x, Y: y})
	ecs.Add(w, id, component.Sprite{Glyph: glyph})
	L.Push(lua.LNumber(id.Index()))
	return 1
}
