// Package rpc implements the JSON-RPC 2.0 request handling shared by both
// transports.
//
// The stdio loop and the HTTP binding each hand raw message bytes to the
// same HandleMessage and write back whatever it returns, so the two
// transports cannot disagree about response content: for identical requests
// they emit identical bytes by construction.
package rpc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/TraceMachina/nativelink-mcp-server/internal/dispatch"
	"github.com/TraceMachina/nativelink-mcp-server/internal/registry"
)

// protocolVersion is the MCP revision this server speaks.
const protocolVersion = "2024-11-05"

// Request is one incoming JSON-RPC 2.0 message. ID may be a string, a
// number, or absent (notification).
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response is one outgoing JSON-RPC 2.0 message.
type Response struct {
	JSONRPC string       `json:"jsonrpc"`
	ID      any          `json:"id"`
	Result  any          `json:"result,omitempty"`
	Error   *ErrorObject `json:"error,omitempty"`
}

// ErrorObject is the JSON-RPC error member.
type ErrorObject struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type callParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

type serverInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type toolsCapability struct {
	ListChanged bool `json:"listChanged,omitempty"`
}

type capabilities struct {
	Tools toolsCapability `json:"tools"`
}

type initializeResult struct {
	ProtocolVersion string       `json:"protocolVersion"`
	Capabilities    capabilities `json:"capabilities"`
	ServerInfo      serverInfo   `json:"serverInfo"`
}

// Handler answers JSON-RPC messages using the shared registry and
// dispatcher.
type Handler struct {
	dispatcher *dispatch.Dispatcher
	reg        *registry.Registry
	name       string
	version    string
	log        *log.Logger
}

// NewHandler creates the shared message handler. name and version are
// reported in the initialize response.
func NewHandler(d *dispatch.Dispatcher, reg *registry.Registry, name, version string, logger *log.Logger) *Handler {
	return &Handler{dispatcher: d, reg: reg, name: name, version: version, log: logger}
}

// HandleMessage processes one raw JSON-RPC message and returns the
// serialized response, or nil when no response is owed (notifications).
func (h *Handler) HandleMessage(ctx context.Context, raw []byte) []byte {
	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		h.log.Warn("discarding malformed message", "error", err)
		return marshalResponse(Response{
			JSONRPC: "2.0",
			ID:      nil,
			Error:   &ErrorObject{Code: mcp.PARSE_ERROR, Message: fmt.Sprintf("parse error: %v", err)},
		})
	}

	if isNotification(req) {
		h.log.Debug("notification received", "method", req.Method)
		return nil
	}

	resp := h.handle(ctx, req)
	return marshalResponse(resp)
}

func (h *Handler) handle(ctx context.Context, req Request) Response {
	resp := Response{JSONRPC: "2.0", ID: req.ID}

	switch req.Method {
	case "initialize":
		resp.Result = initializeResult{
			ProtocolVersion: protocolVersion,
			Capabilities:    capabilities{Tools: toolsCapability{}},
			ServerInfo:      serverInfo{Name: h.name, Version: h.version},
		}

	case "ping":
		resp.Result = struct{}{}

	case "tools/list":
		resp.Result = mcp.ListToolsResult{Tools: h.reg.Tools()}

	case "tools/call":
		var params callParams
		if err := json.Unmarshal(req.Params, &params); err != nil {
			resp.Error = &ErrorObject{
				Code:    mcp.INVALID_PARAMS,
				Message: fmt.Sprintf("invalid tools/call params: %v", err),
			}
			break
		}
		result, derr := h.dispatcher.Dispatch(ctx, params.Name, params.Arguments)
		if derr != nil {
			resp.Error = &ErrorObject{Code: derr.Code, Message: derr.Message}
			break
		}
		resp.Result = result

	default:
		resp.Error = &ErrorObject{
			Code:    mcp.METHOD_NOT_FOUND,
			Message: fmt.Sprintf("method not found: %s", req.Method),
		}
	}

	return resp
}

// isNotification reports whether req carries no id and therefore must not
// be answered. The initialized notification is the usual case.
func isNotification(req Request) bool {
	return req.ID == nil
}

func marshalResponse(resp Response) []byte {
	out, err := json.Marshal(resp)
	if err != nil {
		// Response structures are built from marshalable values only;
		// reaching this means a programming error upstream.
		fallback := Response{
			JSONRPC: "2.0",
			ID:      resp.ID,
			Error:   &ErrorObject{Code: mcp.INTERNAL_ERROR, Message: "failed to encode response"},
		}
		out, _ = json.Marshal(fallback)
	}
	return out
}
