package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/chilli/backbone/internal/core/asset"
	"github.com/chilli/backbone/internal/core/ecs"
	"github.com/chilli/backbone/internal/core/event"
	"github.com/chilli/backbone/internal/core/service"
)

// Stage is one phase of the fixed per-frame pipeline.
type Stage int

const (
	StageStartup     Stage = iota // once, before the first frame
	StageUpdateBegin              // window pumps, input latch
	StageUpdate                   // game logic
	StageUpdateEnd
	StageRenderBegin
	StageRender
	StageRenderEnd
	StageShutdown // once, after the last frame
	stageCount
)

var stageNames = [stageCount]string{
	"STARTUP", "UPDATE_BEGIN", "UPDATE", "UPDATE_END",
	"RENDER_BEGIN", "RENDER", "RENDER_END", "SHUTDOWN",
}

func (s Stage) String() string {
	if s < 0 || s >= stageCount {
		return "UNKNOWN"
	}
	return stageNames[s]
}

// Stages lists every stage in execution order.
func Stages() []Stage {
	out := make([]Stage, stageCount)
	for i := range out {
		out[i] = Stage(i)
	}
	return out
}

// ParseStage maps a stage name back to its Stage.
func ParseStage(name string) (Stage, bool) {
	for i, n := range stageNames {
		if n == name {
			return Stage(i), true
		}
	}
	return 0, false
}

// FrameData is the engine-wide per-frame singleton. The main loop keeps
// running while Running is true; the window collaborator clears it.
type FrameData struct {
	Delta   time.Duration
	Frame   uint64
	Running bool
}

// Context bundles the engine state handed to every system and callback.
type Context struct {
	World    *ecs.World
	Assets   *asset.Registry
	Services *service.Locator
	Events   *event.Bus
	Log      *zap.Logger
}

// Frame returns the FrameData singleton, or nil before the app installs it.
func (c *Context) Frame() *FrameData {
	return asset.GetSingle[FrameData](c.Assets)
}

// System is the interface every staged system implements. The lifecycle
// hooks below are optional.
type System interface {
	Run(ctx *Context)
}

type Creator interface {
	OnCreate(ctx *Context)
}

type BeforeRunner interface {
	OnBeforeRun(ctx *Context)
}

type AfterRunner interface {
	OnAfterRun(ctx *Context)
}

type Terminator interface {
	OnTerminate(ctx *Context)
}

// Named systems report a label for logs.
type Named interface {
	Name() string
}

// Callback is a plain per-stage function.
type Callback func(ctx *Context)

// Func adapts a function to the System interface.
type Func func(ctx *Context)

func (f Func) Run(ctx *Context) { f(ctx) }
