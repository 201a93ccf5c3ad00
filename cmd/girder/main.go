// girder is a beam-carrier puzzle for the terminal: walk the carrier to the
// beam, lift it, and bring it onto a goal without hitting anything.
//
// Usage:
//
//	girder list                  - List level packs and levels
//	girder play [level]          - Play a level, or pick one from the menu
//	girder run <level> <script>  - Replay a command script headlessly
//	girder progress [pack]       - Show solved levels and best results
//	girder serve                 - Start SSH server for remote play
//	girder mcp [level]           - Serve a session over MCP on stdio
//
// Global flags:
//
//	--config <path>     - Config file (default: ~/.girder/config.yaml)
//	--db <path>         - Progress database (default: ~/.girder/progress.db)
//	--log-level <level> - debug, info, warn, error
//	--fps <rate>        - Animation tick rate
//	--theme <name>      - default or mono
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/girder/internal/config"
	"github.com/vovakirdan/girder/internal/core"
	"github.com/vovakirdan/girder/internal/levels"
	"github.com/vovakirdan/girder/internal/platform/tui"
	"github.com/vovakirdan/girder/internal/registry"
	"github.com/vovakirdan/girder/internal/storage"

	// Register the embedded level pack
	_ "github.com/vovakirdan/girder/internal/levels/builtin"
)

// localPackID is the registry ID of the levels.dir pack.
const localPackID = "local"

var (
	// Global flags
	flagConfig   string
	flagDBPath   string
	flagLogLevel string
	flagFPS      int
	flagTheme    string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "girder",
	Short: "girder - carry the beam onto the goal",
	Long: `girder is a grid puzzle played in the terminal. A carrier walks the
board, lifts a two-cell beam, and must stand on a goal tile while holding it.
Moves, turns and beam swings are blocked by walls and the board edge.

Available commands:
  list      - Show level packs and levels
  play      - Play a level (or pick from the menu)
  run       - Replay a command script without a UI
  progress  - Show solved levels and best results
  serve     - Start SSH server for remote play
  mcp       - Serve a session to an MCP client over stdio

Examples:
  girder list
  girder play
  girder play builtin/02-corner
  girder run 01-first-lift "E p E E S"
  girder serve --ssh :2222`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML (default: ~/.girder/config.yaml, then ./configs/girder.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to progress database (overrides storage.db_path)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error (overrides log.level)")
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Animation tick rate (overrides animation.tick_rate)")
	rootCmd.PersistentFlags().StringVar(&flagTheme, "theme", "default", "Color theme: default, mono")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
}

// env is the configuration and logger every subcommand starts from.
type env struct {
	cfg    config.Config
	logger *log.Logger
}

// loadEnv loads the config, applies flag overrides, builds the root logger,
// and registers the levels.dir pack. Exits on invalid configuration.
func loadEnv() env {
	cfg, source, err := config.Load(flagConfig)
	if err != nil {
		fatalf("Error loading config: %v", err)
	}
	if flagDBPath != "" {
		cfg.Storage.DBPath = flagDBPath
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	if flagFPS > 0 {
		cfg.Animation.TickRate = flagFPS
	}
	if err := cfg.Validate(); err != nil {
		fatalf("Invalid config: %v", err)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: cfg.Log.Timestamps,
		Prefix:          "girder",
		Level:           cfg.LogLevel(),
	})
	logger.Debug("config loaded", "source", source)

	if cfg.Levels.Dir != "" {
		registerLocalPack(config.ExpandHome(cfg.Levels.Dir), logger)
	}
	return env{cfg: cfg, logger: logger}
}

// registerLocalPack makes a directory of YAML levels available as pack "local".
func registerLocalPack(dir string, logger *log.Logger) {
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		logger.Warn("levels.dir is not a directory, skipping", "dir", dir)
		return
	}
	if registry.Exists(localPackID) {
		return
	}
	registry.Register(localPackID, func() registry.Pack {
		loader := levels.NewLoader(dir)
		loader.Logger = logger
		return levels.NewPack(localPackID, "Local", loader)
	})
	logger.Debug("registered level directory", "pack", localPackID, "dir", dir)
}

// openStore opens the progress database. Play continues without one, so a
// failure is only a warning.
func (e env) openStore() *storage.Store {
	store, err := storage.Open(e.cfg.Storage.DBPath)
	if err != nil {
		e.logger.Warn("could not open progress database", "path", e.cfg.Storage.DBPath, "error", err)
		return nil
	}
	return store
}

// playConfig builds the TUI settings for a screen of the given size.
func (e env) playConfig(width, height int) tui.PlayConfig {
	return tui.PlayConfig{
		Options: e.cfg.EngineOptions(),
		Timing:  e.cfg.Timing(),
		Runtime: core.RuntimeConfig{
			ScreenW:  width,
			ScreenH:  height,
			TickRate: e.cfg.Animation.TickRate,
		},
		Theme: tui.ThemeByName(flagTheme),
	}
}

// catalog loads every registered pack, warning about the ones that fail.
func (e env) catalog() []registry.Entry {
	entries, err := registry.Catalog()
	if err != nil {
		e.logger.Warn("some level packs failed to load", "error", err)
	}
	return entries
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
