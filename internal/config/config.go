package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
)

type Config struct {
	App       AppConfig       `toml:"app"`
	Window    WindowConfig    `toml:"window"`
	Logging   LoggingConfig   `toml:"logging"`
	Scripting ScriptingConfig `toml:"scripting"`
	Scene     SceneConfig     `toml:"scene"`
	Profiling ProfilingConfig `toml:"profiling"`
}

type AppConfig struct {
	Name             string `toml:"name"`
	MaxFrames        uint64 `toml:"max_frames"`         // 0 = until the window closes
	TargetFPS        int    `toml:"target_fps"`         // 0 = no pacing
	FrameRecordCount int    `toml:"frame_record_count"` // frames kept for the shutdown report
}

type WindowConfig struct {
	Title    string `toml:"title"`
	Headless bool   `toml:"headless"`
	Width    int    `toml:"width"`  // headless only; a terminal reports its own size
	Height   int    `toml:"height"` // headless only
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
	File   string `toml:"file"`   // empty = stderr, which a live terminal window will overwrite
}

type ScriptingConfig struct {
	Dir string `toml:"dir"` // empty disables lua systems
}

type SceneConfig struct {
	Path string `toml:"path"` // empty disables the scene loader
}

type ProfilingConfig struct {
	Mode string `toml:"mode"` // "", "cpu" or "mem"
	Path string `toml:"path"`
}

// Load reads the config at path over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault is Load, except that a missing file yields the defaults.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return defaults(), nil
	}
	return cfg, err
}

func (c *Config) validate() error {
	if c.App.TargetFPS < 0 {
		return fmt.Errorf("app.target_fps must be >= 0, got %d", c.App.TargetFPS)
	}
	if c.App.FrameRecordCount < 0 {
		return fmt.Errorf("app.frame_record_count must be >= 0, got %d", c.App.FrameRecordCount)
	}
	switch c.Profiling.Mode {
	case "", "cpu", "mem":
	default:
		return fmt.Errorf("profiling.mode %q is not one of cpu, mem", c.Profiling.Mode)
	}
	return nil
}

func defaults() *Config {
	return &Config{
		App: AppConfig{
			Name:             "Chilli",
			FrameRecordCount: 200,
			TargetFPS:        60,
		},
		Window: WindowConfig{
			Title:  "Chilli",
			Width:  80,
			Height: 24,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Scripting: ScriptingConfig{
			Dir: "scripts",
		},
		Scene: SceneConfig{
			Path: "data/scene.yaml",
		},
		Profiling: ProfilingConfig{
			Path: ".",
		},
	}
}
