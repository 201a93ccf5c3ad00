package config

import (
	_ "embed"
)

//go:embed defaults/girder.yaml
var defaultYAML []byte

// DefaultConfig returns the hardcoded configuration. The embedded
// defaults/girder.yaml carries the same values.
func DefaultConfig() Config {
	return Config{
		Engine: EngineConfig{
			UndoRequiresIdle: false,
			UndoLimit:        0,
			WinSignal:        "edge",
		},
		Animation: AnimationConfig{
			MoveMS:   120,
			RotateMS: 160,
			Easing:   "out_quad",
			TickRate: 60,
		},
		Storage: StorageConfig{
			DBPath: "~/.girder/progress.db",
		},
		Server: ServerConfig{
			Address:            ":23235",
			HostKey:            "~/.girder/ssh_host_ed25519",
			IdleTimeoutMinutes: 30,
		},
		Log: LogConfig{
			Level:      "info",
			Timestamps: true,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
