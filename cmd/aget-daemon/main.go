// aget-daemon hosts the compliance toolkit behind a per-instance unix
// socket. It is normally spawned by the aget proxy with an instance ID,
// but can be run standalone for a shared daemon.
package main

import (
	"fmt"
	"os"

	"github.com/aget-framework/aget-sub002/internal/config"
	"github.com/aget-framework/aget-sub002/internal/daemon"
	"github.com/aget-framework/aget-sub002/internal/logger"
)

func main() {
	var cfg *config.Config
	var err error

	if len(os.Args) > 1 {
		cfg, err = config.LoadWithInstance(os.Args[1])
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(logger.Config{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: cfg.LogFormat,
		Output: os.Stderr,
	})

	if err := cfg.EnsureDirectories(); err != nil {
		logger.Error("failed to ensure directories", "error", err)
		os.Exit(1)
	}

	lifecycleDir := cfg.BaseDir
	if cfg.InstanceDir != "" {
		lifecycleDir = cfg.InstanceDir
	}

	lifecycle := daemon.NewLifecycleManager(lifecycleDir, cfg.SocketPath)

	if err := lifecycle.AcquireInstanceLock(); err != nil {
		if lifecycle.IsSocketResponsive() {
			fmt.Println("Daemon already running")
			os.Exit(0)
		}
		logger.Error("cannot acquire instance lock", "error", err)
		os.Exit(1)
	}
	defer lifecycle.Cleanup()

	if err := lifecycle.RegisterRunningDaemon(); err != nil {
		logger.Error("failed to write PID file", "error", err)
		os.Exit(1)
	}

	d, err := daemon.NewDaemon(cfg)
	if err != nil {
		logger.Error("failed to create daemon", "error", err)
		os.Exit(1)
	}

	// Start listens, serves, and blocks until SIGINT/SIGTERM.
	if err := d.Start(); err != nil {
		logger.Error("daemon failed", "error", err)
		os.Exit(1)
	}
}
