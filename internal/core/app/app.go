// Package app is the application root. It owns the entity store, asset
// registry, service locator, event bus, scheduler and extension registry,
// and drives the main loop.
package app

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/chilli/backbone/internal/core/asset"
	"github.com/chilli/backbone/internal/core/ecs"
	"github.com/chilli/backbone/internal/core/event"
	"github.com/chilli/backbone/internal/core/service"
	"github.com/chilli/backbone/internal/core/system"
)

// ErrAlreadyRun is returned by a second call to Run.
var ErrAlreadyRun = errors.New("app already ran")

type App struct {
	World      *ecs.World
	Assets     *asset.Registry
	Services   *service.Locator
	Events     *event.Bus
	Scheduler  *system.Scheduler
	Extensions *ExtensionRegistry
	Log        *zap.Logger

	ctx   *system.Context
	clock func() time.Time
	ran   bool
}

type Option func(*App)

// WithClock replaces time.Now for frame delta measurement.
func WithClock(now func() time.Time) Option {
	return func(a *App) { a.clock = now }
}

// WithMaxFrames stops the loop after n frames by clearing FrameData.Running
// at the end of frame n. Zero means unbounded.
func WithMaxFrames(n uint64) Option {
	return func(a *App) {
		if n == 0 {
			return
		}
		a.Scheduler.AddCallback(system.StageRenderEnd, func(ctx *system.Context) {
			if f := ctx.Frame(); f.Frame >= n {
				f.Running = false
			}
		})
	}
}

func New(log *zap.Logger, opts ...Option) *App {
	a := &App{
		World:      ecs.NewWorld(),
		Assets:     asset.NewRegistry(),
		Services:   service.NewLocator(),
		Events:     event.NewBus(),
		Extensions: NewExtensionRegistry(),
		Log:        log,
		clock:      time.Now,
	}
	a.ctx = &system.Context{
		World:    a.World,
		Assets:   a.Assets,
		Services: a.Services,
		Events:   a.Events,
		Log:      log,
	}
	a.Scheduler = system.NewScheduler(a.ctx)
	asset.RegisterSingle[system.FrameData](a.Assets).Running = true
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Context is the bundle handed to systems.
func (a *App) Context() *system.Context { return a.ctx }

// AddExtension builds ext immediately and records it.
func (a *App) AddExtension(ext Extension) error {
	return a.Extensions.Add(ext, true, a)
}

// DeferExtension records ext to be built when Run starts.
func (a *App) DeferExtension(ext Extension) error {
	return a.Extensions.Add(ext, false, a)
}

var frameStages = [...]system.Stage{
	system.StageUpdateBegin,
	system.StageUpdate,
	system.StageUpdateEnd,
	system.StageRenderBegin,
	system.StageRender,
	system.StageRenderEnd,
}

// Run executes STARTUP, then frames until FrameData.Running is false, then
// SHUTDOWN, and finally terminates the scheduler and frees all assets.
func (a *App) Run() error {
	if a.ran {
		return ErrAlreadyRun
	}
	a.ran = true
	if err := a.Extensions.BuildAll(a); err != nil {
		return err
	}

	a.Log.Info("app starting", zap.Strings("extensions", a.Extensions.Names()))
	a.Scheduler.RunStage(system.StageStartup)

	frame := a.ctx.Frame()
	last := a.clock()
	for frame.Running {
		now := a.clock()
		frame.Delta = now.Sub(last)
		last = now
		frame.Frame++

		a.Events.ClearAll()
		for _, st := range frameStages {
			a.Scheduler.RunStage(st)
		}
		a.World.FlushDestroyQueue()
	}
	a.Log.Info("main loop finished", zap.Uint64("frames", frame.Frame))

	a.Scheduler.RunStage(system.StageShutdown)
	a.Scheduler.Terminate()
	a.Assets.Free()
	return nil
}
