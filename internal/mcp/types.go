package mcp

import "github.com/aget-framework/aget-sub002/pkg/protocol"

type Request = protocol.JSONRPCRequest
type Response = protocol.JSONRPCResponse

type ClientInfo struct {
	Name    string
	Version string
}
