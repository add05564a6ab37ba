package system

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

type stageSlot struct {
	systems []System
	before  []Callback
	after   []Callback
}

// Scheduler executes systems and callbacks stage by stage. It is strictly
// single-threaded: every hook runs on the caller's goroutine.
type Scheduler struct {
	ctx        *Context
	stages     [stageCount]stageSlot
	terminated bool
}

func NewScheduler(ctx *Context) *Scheduler {
	return &Scheduler{ctx: ctx}
}

func (s *Scheduler) Context() *Context { return s.ctx }

func nameOf(sys System) string {
	if n, ok := sys.(Named); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", sys)
}

// AddSystem runs sys.OnCreate immediately, then appends sys to stage.
func (s *Scheduler) AddSystem(stage Stage, sys System) {
	if s.terminated || stage < 0 || stage >= stageCount {
		return
	}
	if c, ok := sys.(Creator); ok {
		start := time.Now()
		c.OnCreate(s.ctx)
		s.ctx.Log.Debug("system created",
			zap.String("system", nameOf(sys)),
			zap.Stringer("stage", stage),
			zap.Duration("took", time.Since(start)))
	}
	s.stages[stage].systems = append(s.stages[stage].systems, sys)
}

// AddCallback appends fn to the callbacks run after stage's systems.
func (s *Scheduler) AddCallback(stage Stage, fn Callback) {
	if s.terminated || stage < 0 || stage >= stageCount {
		return
	}
	s.stages[stage].after = append(s.stages[stage].after, fn)
}

// AddBeforeCallback appends fn to the callbacks run before stage's systems.
func (s *Scheduler) AddBeforeCallback(stage Stage, fn Callback) {
	if s.terminated || stage < 0 || stage >= stageCount {
		return
	}
	s.stages[stage].before = append(s.stages[stage].before, fn)
}

func (s *Scheduler) runSystems(stage Stage) {
	for _, sys := range s.stages[stage].systems {
		if b, ok := sys.(BeforeRunner); ok {
			b.OnBeforeRun(s.ctx)
		}
		sys.Run(s.ctx)
		if a, ok := sys.(AfterRunner); ok {
			a.OnAfterRun(s.ctx)
		}
	}
}

// RunStage runs the before callbacks, then every system's before/run/after
// triad in registration order, then the after callbacks.
func (s *Scheduler) RunStage(stage Stage) {
	if stage < 0 || stage >= stageCount {
		return
	}
	slot := &s.stages[stage]
	for _, fn := range slot.before {
		fn(s.ctx)
	}
	s.runSystems(stage)
	for _, fn := range slot.after {
		fn(s.ctx)
	}
}

// RunAll runs the system triad of every stage in order. Callbacks are only
// run by RunStage.
func (s *Scheduler) RunAll() {
	for stage := Stage(0); stage < stageCount; stage++ {
		s.runSystems(stage)
	}
}

// Terminate calls OnTerminate on every system of every stage, then drops all
// systems and callbacks. The scheduler accepts nothing afterwards.
func (s *Scheduler) Terminate() {
	if s.terminated {
		return
	}
	for stage := Stage(0); stage < stageCount; stage++ {
		for _, sys := range s.stages[stage].systems {
			if t, ok := sys.(Terminator); ok {
				t.OnTerminate(s.ctx)
			}
		}
	}
	s.stages = [stageCount]stageSlot{}
	s.terminated = true
}

// SystemCount is the number of systems registered at stage.
func (s *Scheduler) SystemCount(stage Stage) int {
	if stage < 0 || stage >= stageCount {
		return 0
	}
	return len(s.stages[stage].systems)
}

func (s *Scheduler) Terminated() bool { return s.terminated }
