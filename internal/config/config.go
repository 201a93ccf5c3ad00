// Package config provides YAML-based configuration loading for girder:
// engine rules, animation timing, storage, level directories, the SSH
// server, and logging.
package config

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/girder/internal/platform/anim"
	"github.com/vovakirdan/girder/internal/puzzle"
)

// Config is the full girder configuration.
type Config struct {
	Engine    EngineConfig    `yaml:"engine"`
	Animation AnimationConfig `yaml:"animation"`
	Storage   StorageConfig   `yaml:"storage"`
	Levels    LevelsConfig    `yaml:"levels"`
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
}

// EngineConfig tunes the puzzle rules left open to the host.
type EngineConfig struct {
	UndoRequiresIdle bool   `yaml:"undo_requires_idle"`
	UndoLimit        int    `yaml:"undo_limit"` // 0 = unlimited
	WinSignal        string `yaml:"win_signal"` // "edge" or "level"
}

// AnimationConfig defines move and rotation playback.
type AnimationConfig struct {
	MoveMS   int    `yaml:"move_ms"`
	RotateMS int    `yaml:"rotate_ms"`
	Easing   string `yaml:"easing"`
	TickRate int    `yaml:"tick_rate"` // Frames per second
}

// StorageConfig locates the progress database.
type StorageConfig struct {
	DBPath string `yaml:"db_path"`
}

// LevelsConfig points at an optional extra level directory.
type LevelsConfig struct {
	Dir string `yaml:"dir"`
}

// ServerConfig defines the SSH server.
type ServerConfig struct {
	Address            string `yaml:"address"`
	HostKey            string `yaml:"host_key"`
	IdleTimeoutMinutes int    `yaml:"idle_timeout_minutes"`
}

// LogConfig defines the root logger.
type LogConfig struct {
	Level      string `yaml:"level"`
	Timestamps bool   `yaml:"timestamps"`
}

// Validate checks values that cannot be fixed up silently.
func (c Config) Validate() error {
	if _, err := parseWinSignal(c.Engine.WinSignal); err != nil {
		return fmt.Errorf("engine.win_signal: %w", err)
	}
	if c.Engine.UndoLimit < 0 {
		return fmt.Errorf("engine.undo_limit must not be negative, got %d", c.Engine.UndoLimit)
	}
	if c.Animation.MoveMS < 0 || c.Animation.RotateMS < 0 {
		return fmt.Errorf("animation durations must not be negative")
	}
	if c.Animation.TickRate <= 0 {
		return fmt.Errorf("animation.tick_rate must be positive, got %d", c.Animation.TickRate)
	}
	if _, err := anim.ParseEasing(c.Animation.Easing); err != nil {
		return fmt.Errorf("animation.easing: %w", err)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.Server.IdleTimeoutMinutes < 0 {
		return fmt.Errorf("server.idle_timeout_minutes must not be negative")
	}
	return nil
}

// EngineOptions converts the engine section for puzzle sessions.
// Call Validate first; an unknown win signal falls back to edge.
func (c Config) EngineOptions() puzzle.EngineOptions {
	ws, _ := parseWinSignal(c.Engine.WinSignal)
	return puzzle.EngineOptions{
		UndoRequiresIdle: c.Engine.UndoRequiresIdle,
		UndoLimit:        c.Engine.UndoLimit,
		WinSignal:        ws,
	}
}

// Timing converts the animation section for the animator.
func (c Config) Timing() anim.Timing {
	t := anim.Timing{
		Move:   time.Duration(c.Animation.MoveMS) * time.Millisecond,
		Rotate: time.Duration(c.Animation.RotateMS) * time.Millisecond,
	}
	if f, err := anim.ParseEasing(c.Animation.Easing); err == nil {
		t.Easing = f
	}
	return t
}

// IdleTimeout returns the SSH idle timeout, 0 meaning none.
func (c Config) IdleTimeout() time.Duration {
	return time.Duration(c.Server.IdleTimeoutMinutes) * time.Minute
}

// LogLevel returns the parsed log level, defaulting to info.
func (c Config) LogLevel() log.Level {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

func parseWinSignal(s string) (puzzle.WinSignal, error) {
	switch s {
	case "", "edge":
		return puzzle.WinSignalEdge, nil
	case "level":
		return puzzle.WinSignalLevel, nil
	default:
		return puzzle.WinSignalEdge, fmt.Errorf("unknown win signal %q (want edge or level)", s)
	}
}
