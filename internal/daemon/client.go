package daemon

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/sourcegraph/jsonrpc2"
)

// Client is the proxy side of the daemon socket.
type Client struct {
	conn *jsonrpc2.Conn
}

type noopHandler struct{}

func (noopHandler) Handle(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {}

func Dial(ctx context.Context, socketPath string) (*Client, error) {
	netConn, err := net.DialTimeout("unix", socketPath, 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("dial daemon: %w", err)
	}

	stream := jsonrpc2.NewBufferedStream(netConn, jsonrpc2.PlainObjectCodec{})
	conn := jsonrpc2.NewConn(ctx, stream, noopHandler{})

	return &Client{conn: conn}, nil
}

func (c *Client) Call(ctx context.Context, method string, params interface{}, result interface{}) error {
	return c.conn.Call(ctx, method, params, result)
}

func (c *Client) Notify(ctx context.Context, method string, params interface{}) error {
	return c.conn.Notify(ctx, method, params)
}

func (c *Client) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Ping reports whether the daemon behind socketPath answers.
func Ping(socketPath string, timeout time.Duration) bool {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client, err := Dial(ctx, socketPath)
	if err != nil {
		return false
	}
	defer client.Close()

	var result map[string]interface{}
	return client.Call(ctx, "ping", map[string]interface{}{}, &result) == nil
}
