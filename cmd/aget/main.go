// aget is the stdio entrypoint MCP clients launch. It spawns a private
// aget-daemon instance, proxies JSON-RPC between stdin/stdout and the
// daemon socket, and tears the instance down when the client goes away.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/sourcegraph/jsonrpc2"

	"github.com/aget-framework/aget-sub002/internal/config"
	"github.com/aget-framework/aget-sub002/internal/daemon"
	"github.com/aget-framework/aget-sub002/pkg/protocol"
)

var (
	daemonPID   int
	instanceDir string
	cleanupOnce sync.Once
)

func main() {
	instanceID := generateInstanceID()

	cfg, err := config.LoadWithInstance(instanceID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	instanceDir = cfg.InstanceDir

	setupCleanupHandlers()

	cmd, err := startDaemonForInstance(instanceID)
	if err != nil {
		cleanup()
		fmt.Fprintf(os.Stderr, "Failed to start daemon: %v\n", err)
		os.Exit(1)
	}
	daemonPID = cmd.Process.Pid

	if err := waitForDaemonReady(cfg.SocketPath, 10*time.Second); err != nil {
		cleanup()
		fmt.Fprintf(os.Stderr, "Daemon failed to become ready: %v\n", err)
		os.Exit(1)
	}

	go monitorDaemon(cmd)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, err := daemon.Dial(ctx, cfg.SocketPath)
	if err != nil {
		cleanup()
		fmt.Fprintf(os.Stderr, "Failed to connect to daemon: %v\n", err)
		os.Exit(1)
	}
	defer client.Close()

	if err := handleStdio(ctx, client); err != nil && ctx.Err() == nil {
		fmt.Fprintf(os.Stderr, "stdio error: %v\n", err)
	}

	cleanup()
}

func generateInstanceID() string {
	return fmt.Sprintf("%d-%d-%x", os.Getpid(), time.Now().UnixNano(), rand.Int63())
}

func startDaemonForInstance(instanceID string) (*exec.Cmd, error) {
	execPath, err := os.Executable()
	if err != nil {
		return nil, err
	}
	daemonPath := filepath.Join(filepath.Dir(execPath), daemonBinaryName)

	cmd := exec.Command(daemonPath, instanceID)
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start daemon: %w", err)
	}

	return cmd, nil
}

func waitForDaemonReady(socketPath string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		if daemon.Ping(socketPath, 500*time.Millisecond) {
			return nil
		}
		time.Sleep(100 * time.Millisecond)
	}

	return fmt.Errorf("daemon socket not ready after %v", timeout)
}

func monitorDaemon(cmd *exec.Cmd) {
	err := cmd.Wait()
	fmt.Fprintf(os.Stderr, "daemon process exited: %v\n", err)
	cleanup()
	os.Exit(1)
}

func cleanup() {
	cleanupOnce.Do(func() {
		if daemonPID > 0 {
			killDaemon(daemonPID)
		}
		if instanceDir != "" {
			os.RemoveAll(instanceDir)
		}
	})
}

func handleStdio(ctx context.Context, client *daemon.Client) error {
	decoder := json.NewDecoder(os.Stdin)
	writer := protocol.NewFlushWriter(os.Stdout)
	encoder := json.NewEncoder(writer)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		var req protocol.JSONRPCRequest
		if err := decoder.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("failed to decode request: %w", err)
		}

		// Notifications get forwarded without waiting for a response.
		if req.ID == nil {
			client.Notify(ctx, req.Method, req.Params)
			continue
		}

		resp := &protocol.JSONRPCResponse{JSONRPC: "2.0", ID: req.ID}

		var result json.RawMessage
		if err := client.Call(ctx, req.Method, req.Params, &result); err != nil {
			resp.Error = toRPCError(err)
		} else {
			resp.Result = result
		}

		if err := encoder.Encode(resp); err != nil {
			return nil
		}
		writer.Flush()
	}
}

func toRPCError(err error) *protocol.JSONRPCError {
	var rpcErr *jsonrpc2.Error
	if errors.As(err, &rpcErr) {
		return &protocol.JSONRPCError{Code: int(rpcErr.Code), Message: rpcErr.Message}
	}
	return &protocol.JSONRPCError{Code: -32603, Message: err.Error()}
}
