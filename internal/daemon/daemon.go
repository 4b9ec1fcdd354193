// Package daemon hosts the compliance toolkit behind a unix socket. One
// daemon per instance directory; stdio proxies connect and speak JSON-RPC.
package daemon

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/sourcegraph/jsonrpc2"

	"github.com/aget-framework/aget-sub002/internal/config"
	"github.com/aget-framework/aget-sub002/internal/findings"
	"github.com/aget-framework/aget-sub002/internal/logger"
	"github.com/aget-framework/aget-sub002/internal/mcp"
	"github.com/aget-framework/aget-sub002/internal/scan"
	"github.com/aget-framework/aget-sub002/internal/semver"
	"github.com/aget-framework/aget-sub002/internal/tools"
	"github.com/aget-framework/aget-sub002/internal/tools/check"
	"github.com/aget-framework/aget-sub002/internal/tools/sanitizer"
	"github.com/aget-framework/aget-sub002/internal/tools/versioning"
	"github.com/aget-framework/aget-sub002/internal/tools/vocabulary"
	"github.com/aget-framework/aget-sub002/internal/validate"
	"github.com/aget-framework/aget-sub002/internal/vocab"
	"github.com/aget-framework/aget-sub002/internal/watcher"
	"github.com/aget-framework/aget-sub002/pkg/version"
)

var log = logger.ForComponent("daemon")

type Daemon struct {
	cfg      *config.Config
	listener net.Listener
	registry *tools.Registry
	server   *mcp.Server

	store   *findings.Store
	scanner *scan.Worker
	watcher *watcher.Watcher
	vocab   *vocab.Registry

	conns        map[*jsonrpc2.Conn]bool
	connMu       sync.Mutex
	shutdown     chan struct{}
	shutdownOnce sync.Once
	startTime    time.Time
}

func NewDaemon(cfg *config.Config) (*Daemon, error) {
	d := &Daemon{
		cfg:       cfg,
		registry:  tools.NewRegistry(),
		conns:     make(map[*jsonrpc2.Conn]bool),
		shutdown:  make(chan struct{}),
		startTime: time.Now(),
	}

	d.server = mcp.NewServer(d.registry)

	if err := d.wireComponents(); err != nil {
		return nil, err
	}
	if err := d.registerAllTools(); err != nil {
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}

	return d, nil
}

func (d *Daemon) wireComponents() error {
	store, err := findings.Open(d.cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("open findings store: %w", err)
	}
	d.store = store

	toolVersion, err := semver.Parse(version.Version)
	if err != nil {
		return fmt.Errorf("tool version: %w", err)
	}

	registry, err := validate.LoadVocabulary(d.cfg.Validate.VocabularyFile)
	if err != nil {
		return fmt.Errorf("load vocabulary: %w", err)
	}
	d.vocab = registry

	validators := validate.Validators(d.cfg.Validate, toolVersion, registry)

	d.scanner = scan.NewWorker(store, validators, scan.WorkerConfig{
		WorkerCount:     d.cfg.Scan.WorkerCount,
		MaxQueueSize:    d.cfg.Scan.MaxQueueSize,
		RateLimit:       d.cfg.Scan.RateLimit,
		ExcludePatterns: d.cfg.Scan.ExcludePatterns,
	})

	if d.cfg.Watcher.Enabled {
		w, err := watcher.New(d.cfg.Watcher, d.scanner)
		if err != nil {
			return fmt.Errorf("create watcher: %w", err)
		}
		d.watcher = w
	}

	return nil
}

func (d *Daemon) registerAllTools() error {
	if err := d.registry.Register(tools.NewHealthTool()); err != nil {
		return err
	}

	for _, tool := range check.GetTools(d.scanner, d.store) {
		if err := d.registry.Register(tool); err != nil {
			return fmt.Errorf("check: %w", err)
		}
	}

	toolVersion, err := semver.Parse(version.Version)
	if err != nil {
		return err
	}
	for _, tool := range versioning.GetTools(toolVersion) {
		if err := d.registry.Register(tool); err != nil {
			return fmt.Errorf("versioning: %w", err)
		}
	}

	for _, tool := range sanitizer.GetTools(d.cfg.Scan.ExcludePatterns) {
		if err := d.registry.Register(tool); err != nil {
			return fmt.Errorf("sanitizer: %w", err)
		}
	}

	for _, tool := range vocabulary.GetTools(d.vocab, d.cfg.Scan.ExcludePatterns) {
		if err := d.registry.Register(tool); err != nil {
			return fmt.Errorf("vocabulary: %w", err)
		}
	}

	return nil
}

// Start listens on the unix socket and blocks until a shutdown signal.
func (d *Daemon) Start() error {
	socketPath := d.cfg.SocketPath

	if err := os.RemoveAll(socketPath); err != nil {
		return fmt.Errorf("failed to remove socket: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(socketPath), 0700); err != nil {
		return fmt.Errorf("failed to create socket dir: %w", err)
	}

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	d.listener = listener

	if err := os.Chmod(socketPath, 0700); err != nil {
		return fmt.Errorf("failed to chmod socket: %w", err)
	}

	d.scanner.Start()

	if d.watcher != nil {
		if err := d.watcher.Start(context.Background()); err != nil {
			return fmt.Errorf("start watcher: %w", err)
		}
		for _, root := range d.cfg.Watcher.Roots {
			if err := d.watcher.AddRoot(root); err != nil {
				log.Warn("cannot watch root", "root", root, "error", err)
			}
		}
	}

	log.Info("daemon listening", "socket", socketPath, "tools", len(d.registry.Names()))

	go d.acceptConnections()
	d.handleSignals()

	return nil
}

func (d *Daemon) acceptConnections() {
	for {
		conn, err := d.listener.Accept()
		if err != nil {
			select {
			case <-d.shutdown:
				return
			default:
				continue
			}
		}

		go d.handleConnection(conn)
	}
}

func (d *Daemon) handleConnection(netConn net.Conn) {
	stream := jsonrpc2.NewBufferedStream(netConn, jsonrpc2.PlainObjectCodec{})
	rpcConn := jsonrpc2.NewConn(context.Background(), stream, jsonrpc2.HandlerWithError(d.handleRPC))

	d.connMu.Lock()
	d.conns[rpcConn] = true
	d.connMu.Unlock()

	<-rpcConn.DisconnectNotify()

	d.connMu.Lock()
	delete(d.conns, rpcConn)
	d.connMu.Unlock()
}

func (d *Daemon) handleRPC(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (interface{}, error) {
	mcpReq := &mcp.Request{
		JSONRPC: "2.0",
		Method:  req.Method,
	}
	if req.Params != nil {
		if err := json.Unmarshal(*req.Params, &mcpReq.Params); err != nil {
			return nil, &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: err.Error()}
		}
	}

	resp := d.server.HandleRequest(mcpReq)
	if resp.Error != nil {
		return nil, &jsonrpc2.Error{Code: int64(resp.Error.Code), Message: resp.Error.Message}
	}
	return resp.Result, nil
}

func (d *Daemon) handleSignals() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	d.Shutdown()
}

func (d *Daemon) Shutdown() {
	d.shutdownOnce.Do(func() {
		log.Info("daemon shutting down")
		close(d.shutdown)

		if d.listener != nil {
			d.listener.Close()
		}

		d.connMu.Lock()
		for conn := range d.conns {
			conn.Close()
		}
		d.connMu.Unlock()

		if d.watcher != nil {
			d.watcher.Stop()
		}
		d.scanner.Stop()
		d.store.Close()

		os.Remove(d.cfg.SocketPath)
	})
}

func (d *Daemon) SocketPath() string {
	return d.cfg.SocketPath
}

func (d *Daemon) Uptime() time.Duration {
	return time.Since(d.startTime)
}

func (d *Daemon) ToolCount() int {
	return len(d.registry.Names())
}
