package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mattn/go-runewidth"
	"github.com/pkg/profile"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/chilli/backbone/internal/config"
	"github.com/chilli/backbone/internal/core/app"
	"github.com/chilli/backbone/internal/core/system"
	"github.com/chilli/backbone/internal/input"
	"github.com/chilli/backbone/internal/render"
	"github.com/chilli/backbone/internal/scene"
	"github.com/chilli/backbone/internal/scripting"
	"github.com/chilli/backbone/internal/stats"
	"github.com/chilli/backbone/internal/window"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printSection(title string) {
	lineLen := 46 - runewidth.StringWidth(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printSetting(label, value string) {
	dotsLen := 42 - runewidth.StringWidth(label) - runewidth.StringWidth(value)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), value)
}

func run() error {
	configPath := flag.String("config", "", "config file (default $CHILLI_CONFIG or config/chilli.toml)")
	headless := flag.Bool("headless", false, "run without a terminal window")
	frames := flag.Uint64("frames", 0, "stop after this many frames (0 = config value)")
	flag.Parse()

	// 1. Load configuration. Only the default path may be absent.
	path := *configPath
	if path == "" {
		path = os.Getenv("CHILLI_CONFIG")
	}
	load := config.Load
	if path == "" {
		path = "config/chilli.toml"
		load = config.LoadOrDefault
	}
	cfg, err := load(path)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if *headless {
		cfg.Window.Headless = true
	}
	if *frames > 0 {
		cfg.App.MaxFrames = *frames
	}
	if cfg.Window.Headless && cfg.App.MaxFrames == 0 {
		return fmt.Errorf("headless run needs app.max_frames or -frames")
	}

	// 2. Logger
	log, closeLog, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer closeLog()
	defer func() { _ = log.Sync() }()

	printSection(cfg.App.Name)
	printSetting("config", path)
	printSetting("scripts", cfg.Scripting.Dir)
	printSetting("scene", cfg.Scene.Path)
	fmt.Println()

	// 3. Profiling
	switch cfg.Profiling.Mode {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(cfg.Profiling.Path), profile.Quiet, profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath(cfg.Profiling.Path), profile.Quiet, profile.NoShutdownHook).Stop()
	}

	// 4. Application and extensions
	a := app.New(log, app.WithMaxFrames(cfg.App.MaxFrames))
	exts := []app.Extension{
		stats.Extension{RecordCount: cfg.App.FrameRecordCount, TargetFPS: cfg.App.TargetFPS},
		&window.Extension{
			Title:    cfg.Window.Title,
			Headless: cfg.Window.Headless,
			Width:    cfg.Window.Width,
			Height:   cfg.Window.Height,
		},
		input.Extension{},
		render.Extension{HUD: true},
		scene.Extension{Path: cfg.Scene.Path},
		scripting.Extension{Dir: cfg.Scripting.Dir},
		&signalExtension{},
	}
	for _, ext := range exts {
		if err := a.AddExtension(ext); err != nil {
			return err
		}
	}

	// 5. Main loop
	if err := a.Run(); err != nil {
		return err
	}
	log.Info("shutdown complete")
	return nil
}

// signalExtension stops the loop on SIGINT/SIGTERM. A live terminal window
// catches Ctrl-C itself, so this mostly serves headless runs. The frame in
// progress finishes; the handlers are released when the scheduler terminates.
type signalExtension struct {
	parent context.Context // defaults to context.Background
	ctx    context.Context
	stop   context.CancelFunc
}

func (*signalExtension) Name() string { return "signals" }

func (e *signalExtension) Build(a *app.App) error {
	parent := e.parent
	if parent == nil {
		parent = context.Background()
	}
	e.ctx, e.stop = signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	a.Scheduler.AddCallback(system.StageRenderEnd, func(ctx *system.Context) {
		if f := ctx.Frame(); e.ctx.Err() != nil && f.Running {
			ctx.Log.Info("interrupted, stopping main loop")
			f.Running = false
		}
	})
	a.Scheduler.AddSystem(system.StageShutdown, &signalRelease{stop: e.stop})
	return nil
}

type signalRelease struct{ stop context.CancelFunc }

func (*signalRelease) Name() string                  { return "signals.release" }
func (*signalRelease) Run(*system.Context)           {}
func (r *signalRelease) OnTerminate(*system.Context) { r.stop() }

// newLogger builds a single zap core: json or colored console, written to
// cfg.File or stderr. The returned func closes the sink.
func newLogger(cfg config.LoggingConfig) (*zap.Logger, func(), error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	out := cfg.File
	if out == "" {
		out = "stderr"
	}
	sink, closeSink, err := zap.Open(out)
	if err != nil {
		return nil, nil, fmt.Errorf("open log output %s: %w", out, err)
	}

	var enc zapcore.Encoder
	if cfg.Format == "json" {
		enc = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	} else {
		ec := zap.NewDevelopmentEncoderConfig()
		ec.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		ec.ConsoleSeparator = "  "
		ec.EncodeLevel = zapcore.CapitalLevelEncoder
		if cfg.File == "" {
			ec.EncodeLevel = zapcore.CapitalColorLevelEncoder // colors only on a terminal
		}
		enc = zapcore.NewConsoleEncoder(ec)
	}
	return zap.New(zapcore.NewCore(enc, sink, level)), closeSink, nil
}
