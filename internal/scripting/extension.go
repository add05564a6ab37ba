// Package scripting runs systems written in lua. Each script file returns a
// table naming its stage and hooks:
//
//	return {
//	  name = "spin",
//	  stage = "UPDATE",
//	  on_create = function() end,
//	  run = function() chilli.log("tick") end,
//	  on_terminate = function() end,
//	}
package scripting

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/chilli/backbone/internal/component"
	"github.com/chilli/backbone/internal/core/app"
	"github.com/chilli/backbone/internal/core/ecs"
	"github.com/chilli/backbone/internal/core/service"
	"github.com/chilli/backbone/internal/core/system"
)

// luaSystem adapts a Script to the scheduler's lifecycle hooks.
type luaSystem struct {
	eng *Engine
	sc  *Script
}

func (s *luaSystem) Name() string                    { return "lua:" + s.sc.Name }
func (s *luaSystem) OnCreate(ctx *system.Context)    { s.eng.call(s.sc, s.sc.onCreate, ctx) }
func (s *luaSystem) Run(ctx *system.Context)         { s.eng.call(s.sc, s.sc.run, ctx) }
func (s *luaSystem) OnTerminate(ctx *system.Context) { s.eng.call(s.sc, s.sc.onTerminate, ctx) }

// closer releases the VM. It is the last SHUTDOWN system, so its terminate
// hook runs after every script's.
type closer struct{ eng *Engine }

func (c *closer) Name() string                { return "lua.close" }
func (c *closer) Run(*system.Context)         {}
func (c *closer) OnTerminate(*system.Context) { c.eng.Close() }

// Extension loads Dir and schedules one system per script. The engine is
// registered as a service.
type Extension struct {
	Dir string
}

func (Extension) Name() string { return "scripting" }

func (e Extension) Build(a *app.App) error {
	ecs.Register[component.Position](a.World)
	ecs.Register[component.Sprite](a.World)

	eng := NewEngine(a.Log.Named("lua"))
	scripts, err := eng.LoadDir(e.Dir)
	if err != nil {
		eng.Close()
		return fmt.Errorf("load scripts from %s: %w", e.Dir, err)
	}
	service.Register(a.Services, eng)
	for _, sc := range scripts {
		a.Scheduler.AddSystem(sc.Stage, &luaSystem{eng: eng, sc: sc})
	}
	a.Scheduler.AddSystem(system.StageShutdown, &closer{eng: eng})
	a.Log.Info("lua systems loaded", zap.String("dir", e.Dir), zap.Int("count", len(scripts)))
	return nil
}
