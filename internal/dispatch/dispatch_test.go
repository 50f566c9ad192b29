package dispatch

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/TraceMachina/nativelink-mcp-server/internal/registry"
	"github.com/TraceMachina/nativelink-mcp-server/internal/schema"
)

func testDispatcher(t *testing.T) *Dispatcher {
	t.Helper()

	reg := registry.New()
	reg.Register(registry.Descriptor{
		Name:        "echo",
		Description: "Echo the message back",
		Fields: []schema.Field{
			{Name: "message", Type: schema.TypeString, Required: true},
			{Name: "repeat", Type: schema.TypeNumber, Default: float64(1), Min: schema.Bound(1), Max: schema.Bound(10)},
			{Name: "mode", Type: schema.TypeString, Enum: []string{"plain", "loud"}},
		},
		Handler: func(_ context.Context, args schema.Args) (string, error) {
			return strings.Repeat(args.String("message"), args.Int("repeat")), nil
		},
	})
	reg.Register(registry.Descriptor{
		Name: "panicky",
		Handler: func(_ context.Context, _ schema.Args) (string, error) {
			panic("boom")
		},
	})
	reg.Register(registry.Descriptor{
		Name: "failing",
		Handler: func(_ context.Context, _ schema.Args) (string, error) {
			return "", errors.New("disk on fire")
		},
	})

	return New(reg, log.New(io.Discard))
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil {
		t.Fatal("nil result")
	}
	if len(result.Content) != 1 {
		t.Fatalf("got %d content items, want 1", len(result.Content))
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want TextContent", result.Content[0])
	}
	return text.Text
}

func TestDispatch_Success(t *testing.T) {
	d := testDispatcher(t)

	result, derr := d.Dispatch(context.Background(), "echo", map[string]any{
		"message": "hi",
		"repeat":  3,
	})
	if derr != nil {
		t.Fatalf("unexpected error: %v", derr)
	}
	if got := resultText(t, result); got != "hihihi" {
		t.Errorf("text = %q, want hihihi", got)
	}
}

func TestDispatch_UnknownTool(t *testing.T) {
	d := testDispatcher(t)

	result, derr := d.Dispatch(context.Background(), "nonexistent", nil)
	if result != nil {
		t.Error("expected no result for unknown tool")
	}
	if derr == nil {
		t.Fatal("expected MethodNotFound error")
	}
	if derr.Code != mcp.METHOD_NOT_FOUND {
		t.Errorf("Code = %d, want %d", derr.Code, mcp.METHOD_NOT_FOUND)
	}
	if !strings.Contains(derr.Message, "nonexistent") {
		t.Errorf("Message = %q, want requested tool named", derr.Message)
	}
}

func TestDispatch_InvalidParamsNamesEveryField(t *testing.T) {
	d := testDispatcher(t)

	_, derr := d.Dispatch(context.Background(), "echo", map[string]any{
		"repeat": 99,
		"mode":   "quiet",
	})
	if derr == nil {
		t.Fatal("expected InvalidParams error")
	}
	if derr.Code != mcp.INVALID_PARAMS {
		t.Errorf("Code = %d, want %d", derr.Code, mcp.INVALID_PARAMS)
	}
	for _, field := range []string{"message", "repeat", "mode"} {
		if !strings.Contains(derr.Message, field) {
			t.Errorf("Message = %q, missing violation for %q", derr.Message, field)
		}
	}
	if !strings.Contains(derr.Message, "; ") {
		t.Errorf("Message = %q, want violations joined by %q", derr.Message, "; ")
	}
}

func TestDispatch_HandlerPanicBecomesInternalError(t *testing.T) {
	d := testDispatcher(t)

	result, derr := d.Dispatch(context.Background(), "panicky", nil)
	if result != nil {
		t.Error("expected no result after panic")
	}
	if derr == nil {
		t.Fatal("expected InternalError")
	}
	if derr.Code != mcp.INTERNAL_ERROR {
		t.Errorf("Code = %d, want %d", derr.Code, mcp.INTERNAL_ERROR)
	}
	if !strings.Contains(derr.Message, "boom") {
		t.Errorf("Message = %q, want underlying panic message", derr.Message)
	}
}

func TestDispatch_HandlerErrorBecomesInternalError(t *testing.T) {
	d := testDispatcher(t)

	_, derr := d.Dispatch(context.Background(), "failing", nil)
	if derr == nil {
		t.Fatal("expected InternalError")
	}
	if derr.Code != mcp.INTERNAL_ERROR {
		t.Errorf("Code = %d, want %d", derr.Code, mcp.INTERNAL_ERROR)
	}
	if !strings.Contains(derr.Message, "disk on fire") {
		t.Errorf("Message = %q, want underlying error message", derr.Message)
	}
}

func TestDispatch_NeverPanics(t *testing.T) {
	d := testDispatcher(t)

	// Every call path must come back as an envelope, never a panic.
	calls := []struct {
		name string
		args map[string]any
	}{
		{"echo", map[string]any{"message": "x"}},
		{"echo", nil},
		{"panicky", nil},
		{"failing", nil},
		{"ghost", map[string]any{"anything": true}},
	}
	for _, call := range calls {
		result, derr := d.Dispatch(context.Background(), call.name, call.args)
		if (result == nil) == (derr == nil) {
			t.Errorf("%s: exactly one of result/error must be set (result=%v, err=%v)",
				call.name, result, derr)
		}
	}
}
