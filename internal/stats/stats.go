// Package stats records frame times and paces the loop to a target rate.
package stats

import (
	"time"

	"go.uber.org/zap"

	"github.com/chilli/backbone/internal/core/app"
	"github.com/chilli/backbone/internal/core/asset"
	"github.com/chilli/backbone/internal/core/system"
)

// FrameStats counts every frame and keeps the first Limit frame deltas. The
// first frame's delta spans startup and is never recorded.
type FrameStats struct {
	Recorded []time.Duration
	Limit    int
	Frames   uint64
}

// observe counts the frame and records its delta when there is room.
func (s *FrameStats) observe(frame uint64, d time.Duration) {
	s.Frames++
	if frame > 1 && len(s.Recorded) < s.Limit {
		s.Recorded = append(s.Recorded, d)
	}
}

// Average is the mean recorded delta, zero when nothing was recorded.
func (s *FrameStats) Average() time.Duration {
	if len(s.Recorded) == 0 {
		return 0
	}
	var sum time.Duration
	for _, d := range s.Recorded {
		sum += d
	}
	return sum / time.Duration(len(s.Recorded))
}

// FPS derived from Average.
func (s *FrameStats) FPS() float64 {
	avg := s.Average()
	if avg <= 0 {
		return 0
	}
	return float64(time.Second) / float64(avg)
}

// Extension installs frame recording at RENDER_END and the shutdown report.
// A TargetFPS above zero sleeps off the rest of each frame.
type Extension struct {
	RecordCount int
	TargetFPS   int
	// Sleep defaults to time.Sleep.
	Sleep func(time.Duration)
	// Now defaults to time.Now.
	Now func() time.Time
}

func (Extension) Name() string { return "stats" }

func (e Extension) Build(a *app.App) error {
	st := asset.RegisterSingle[FrameStats](a.Assets)
	st.Limit = e.RecordCount

	sleep, now := e.Sleep, e.Now
	if sleep == nil {
		sleep = time.Sleep
	}
	if now == nil {
		now = time.Now
	}
	var budget time.Duration
	if e.TargetFPS > 0 {
		budget = time.Second / time.Duration(e.TargetFPS)
	}

	var frameStart time.Time
	a.Scheduler.AddBeforeCallback(system.StageUpdateBegin, func(*system.Context) {
		frameStart = now()
	})
	a.Scheduler.AddCallback(system.StageRenderEnd, func(ctx *system.Context) {
		if f := ctx.Frame(); f != nil {
			st.observe(f.Frame, f.Delta)
		}
		if budget > 0 {
			if spent := now().Sub(frameStart); spent < budget {
				sleep(budget - spent)
			}
		}
	})
	a.Scheduler.AddSystem(system.StageShutdown, &reporter{})
	return nil
}

type reporter struct{}

func (*reporter) Name() string { return "stats.report" }

func (*reporter) Run(ctx *system.Context) {
	st := asset.GetSingle[FrameStats](ctx.Assets)
	if st == nil {
		return
	}
	ctx.Log.Info("frame stats",
		zap.Uint64("frames", st.Frames),
		zap.Int("recorded", len(st.Recorded)),
		zap.Float64("avg_ms", float64(st.Average())/float64(time.Millisecond)),
		zap.Float64("fps", st.FPS()),
	)
}
