package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/girder/internal/config"
	"github.com/vovakirdan/girder/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the girder SSH server",
	Long: `Start an SSH server that allows users to connect and play.

Each SSH connection gets its own puzzle sessions and level menu.
Progress is stored per-server (all users share the same database).

Host key handling:
  - If --host-key (or server.host_key) is set, uses that key file
  - Otherwise, auto-generates a key at ~/.girder/ssh_host_ed25519

Examples:
  girder serve                           # Listen on :23235
  girder serve --ssh :2222               # Listen on port 2222
  girder serve --host-key ./my_host_key  # Use specific host key
  girder serve --db ./progress.db        # Use specific database

Users can connect with:
  ssh localhost -p 23235`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address host:port (overrides server.address)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (overrides server.host_key)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", -1, "Idle timeout in minutes, 0 = none (overrides server.idle_timeout_minutes)")
}

func runServe(_ *cobra.Command, _ []string) {
	e := loadEnv()

	cfg := tui.SSHServerConfig{
		Address:     e.cfg.Server.Address,
		HostKeyPath: config.ExpandHome(e.cfg.Server.HostKey),
		IdleTimeout: e.cfg.IdleTimeout(),
		Play:        e.playConfig(80, 24),
	}
	if flagSSHAddr != "" {
		cfg.Address = flagSSHAddr
	}
	if flagHostKey != "" {
		cfg.HostKeyPath = config.ExpandHome(flagHostKey)
	}
	if flagIdleTimeout >= 0 {
		cfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	}

	store := e.openStore()
	if store != nil {
		defer store.Close()
	}

	server, err := tui.NewSSHServer(cfg, e.catalog(), store, e.logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting girder SSH server on %s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		if store != nil {
			store.Close()
		}
		fatalf("Server error: %v", err)
	}
}
