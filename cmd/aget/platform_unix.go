//go:build unix

package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"
)

const daemonBinaryName = "aget-daemon"

// setupCleanupHandlers installs signal handlers for graceful shutdown.
func setupCleanupHandlers() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	go func() {
		<-sigChan
		cleanup()
		os.Exit(0)
	}()
}

// killDaemon asks the daemon to exit with SIGTERM, escalating to SIGKILL
// after five seconds.
func killDaemon(pid int) {
	syscall.Kill(pid, syscall.SIGTERM)

	for i := 0; i < 50; i++ {
		if err := syscall.Kill(pid, 0); err != nil {
			return
		}
		time.Sleep(100 * time.Millisecond)
	}

	syscall.Kill(pid, syscall.SIGKILL)
}
