package rpc

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/TraceMachina/nativelink-mcp-server/internal/dispatch"
	"github.com/TraceMachina/nativelink-mcp-server/internal/registry"
	"github.com/TraceMachina/nativelink-mcp-server/internal/schema"
)

func testHandler(t *testing.T) *Handler {
	t.Helper()

	reg := registry.New()
	reg.Register(registry.Descriptor{
		Name:        "greet",
		Description: "Greet someone",
		Fields: []schema.Field{
			{Name: "name", Type: schema.TypeString, Required: true},
		},
		Handler: func(_ context.Context, args schema.Args) (string, error) {
			return "hello " + args.String("name"), nil
		},
	})
	reg.Register(registry.Descriptor{
		Name: "second",
		Handler: func(_ context.Context, _ schema.Args) (string, error) {
			return "ok", nil
		},
	})

	logger := log.New(io.Discard)
	return NewHandler(dispatch.New(reg, logger), reg, "test-server", "0.0.1", logger)
}

func handleJSON(t *testing.T, h *Handler, msg string) *Response {
	t.Helper()
	out := h.HandleMessage(context.Background(), []byte(msg))
	if out == nil {
		return nil
	}
	var resp Response
	if err := json.Unmarshal(out, &resp); err != nil {
		t.Fatalf("response is not valid JSON: %v\n%s", err, out)
	}
	return &resp
}

func TestHandleMessage_Initialize(t *testing.T) {
	resp := handleJSON(t, testHandler(t), `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`)
	if resp == nil || resp.Error != nil {
		t.Fatalf("initialize failed: %+v", resp)
	}
	result, ok := resp.Result.(map[string]any)
	if !ok {
		t.Fatalf("result is %T", resp.Result)
	}
	if result["protocolVersion"] != protocolVersion {
		t.Errorf("protocolVersion = %v", result["protocolVersion"])
	}
	info, _ := result["serverInfo"].(map[string]any)
	if info["name"] != "test-server" || info["version"] != "0.0.1" {
		t.Errorf("serverInfo = %v", info)
	}
}

func TestHandleMessage_Ping(t *testing.T) {
	resp := handleJSON(t, testHandler(t), `{"jsonrpc":"2.0","id":"p1","method":"ping"}`)
	if resp == nil || resp.Error != nil {
		t.Fatalf("ping failed: %+v", resp)
	}
	if resp.ID != "p1" {
		t.Errorf("ID = %v, want correlation id echoed back", resp.ID)
	}
}

func TestHandleMessage_ToolsListOrder(t *testing.T) {
	resp := handleJSON(t, testHandler(t), `{"jsonrpc":"2.0","id":2,"method":"tools/list"}`)
	if resp == nil || resp.Error != nil {
		t.Fatalf("tools/list failed: %+v", resp)
	}
	result, _ := resp.Result.(map[string]any)
	tools, _ := result["tools"].([]any)
	if len(tools) != 2 {
		t.Fatalf("got %d tools, want 2", len(tools))
	}
	first, _ := tools[0].(map[string]any)
	second, _ := tools[1].(map[string]any)
	if first["name"] != "greet" || second["name"] != "second" {
		t.Errorf("tool order = %v, %v; want registration order", first["name"], second["name"])
	}
	if _, ok := first["inputSchema"]; !ok {
		t.Error("tools/list entries must carry inputSchema")
	}
}

func TestHandleMessage_ToolsCallSuccess(t *testing.T) {
	resp := handleJSON(t, testHandler(t),
		`{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"greet","arguments":{"name":"world"}}}`)
	if resp == nil || resp.Error != nil {
		t.Fatalf("tools/call failed: %+v", resp)
	}
	result, _ := resp.Result.(map[string]any)
	content, _ := result["content"].([]any)
	if len(content) != 1 {
		t.Fatalf("content = %v, want one text item", content)
	}
	item, _ := content[0].(map[string]any)
	if item["type"] != "text" || item["text"] != "hello world" {
		t.Errorf("content item = %v", item)
	}
}

func TestHandleMessage_ToolsCallUnknownTool(t *testing.T) {
	resp := handleJSON(t, testHandler(t),
		`{"jsonrpc":"2.0","id":4,"method":"tools/call","params":{"name":"nonexistent","arguments":{}}}`)
	if resp == nil || resp.Error == nil {
		t.Fatalf("expected error response, got %+v", resp)
	}
	if resp.Error.Code != mcp.METHOD_NOT_FOUND {
		t.Errorf("Code = %d, want %d", resp.Error.Code, mcp.METHOD_NOT_FOUND)
	}
	if !strings.Contains(resp.Error.Message, "nonexistent") {
		t.Errorf("Message = %q, want tool name", resp.Error.Message)
	}
}

func TestHandleMessage_ToolsCallInvalidParams(t *testing.T) {
	resp := handleJSON(t, testHandler(t),
		`{"jsonrpc":"2.0","id":5,"method":"tools/call","params":{"name":"greet","arguments":{}}}`)
	if resp == nil || resp.Error == nil {
		t.Fatalf("expected error response, got %+v", resp)
	}
	if resp.Error.Code != mcp.INVALID_PARAMS {
		t.Errorf("Code = %d, want %d", resp.Error.Code, mcp.INVALID_PARAMS)
	}
	if !strings.Contains(resp.Error.Message, "name") {
		t.Errorf("Message = %q, want missing field named", resp.Error.Message)
	}
}

func TestHandleMessage_UnknownMethod(t *testing.T) {
	resp := handleJSON(t, testHandler(t), `{"jsonrpc":"2.0","id":6,"method":"resources/list"}`)
	if resp == nil || resp.Error == nil {
		t.Fatalf("expected error response, got %+v", resp)
	}
	if resp.Error.Code != mcp.METHOD_NOT_FOUND {
		t.Errorf("Code = %d, want %d", resp.Error.Code, mcp.METHOD_NOT_FOUND)
	}
	if !strings.Contains(resp.Error.Message, "resources/list") {
		t.Errorf("Message = %q, want method named", resp.Error.Message)
	}
}

func TestHandleMessage_MalformedJSON(t *testing.T) {
	resp := handleJSON(t, testHandler(t), `{not json`)
	if resp == nil || resp.Error == nil {
		t.Fatal("expected parse error response")
	}
	if resp.Error.Code != mcp.PARSE_ERROR {
		t.Errorf("Code = %d, want %d", resp.Error.Code, mcp.PARSE_ERROR)
	}
}

func TestHandleMessage_NotificationProducesNoResponse(t *testing.T) {
	out := testHandler(t).HandleMessage(context.Background(),
		[]byte(`{"jsonrpc":"2.0","method":"notifications/initialized"}`))
	if out != nil {
		t.Errorf("notification must not be answered, got %s", out)
	}
}

func TestHandleMessage_IDEchoedUnchanged(t *testing.T) {
	h := testHandler(t)
	for _, id := range []string{`42`, `"abc"`, `7.5`} {
		resp := handleJSON(t, h, `{"jsonrpc":"2.0","id":`+id+`,"method":"ping"}`)
		raw, _ := json.Marshal(resp.ID)
		if string(raw) != id {
			t.Errorf("ID round-trip = %s, want %s", raw, id)
		}
	}
}
