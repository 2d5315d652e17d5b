package scripted

import (
	"context"
	"errors"
	"testing"

	"cinedesk/internal/domain/services/llm"
)

func TestProvider_ReplaysInOrder(t *testing.T) {
	p := NewProvider(Call("list_documents", nil), Text("done"))
	ctx := context.Background()

	first, err := p.GenerateResponse(ctx, &llm.GenerateRequest{Model: "m"})
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	if !first.HasToolCalls() || first.ToolCalls[0].Name != "list_documents" {
		t.Errorf("first = %+v", first)
	}
	if first.Model != "m" {
		t.Errorf("Model = %q, want request model", first.Model)
	}

	second, err := p.GenerateResponse(ctx, &llm.GenerateRequest{})
	if err != nil || second.Content != "done" {
		t.Fatalf("second = %+v, %v", second, err)
	}

	if _, err := p.GenerateResponse(ctx, &llm.GenerateRequest{}); !errors.Is(err, ErrScriptExhausted) {
		t.Errorf("error = %v, want ErrScriptExhausted", err)
	}
	if got := len(p.Requests()); got != 3 {
		t.Errorf("recorded %d requests, want 3", got)
	}
}

func TestProvider_RecordsSnapshot(t *testing.T) {
	p := NewProvider(Text("a"))
	msgs := []llm.Message{{Role: llm.RoleUser, Content: "hi"}}

	if _, err := p.GenerateResponse(context.Background(), &llm.GenerateRequest{Messages: msgs}); err != nil {
		t.Fatal(err)
	}
	msgs[0].Content = "changed"

	if got := p.Requests()[0].Messages[0].Content; got != "hi" {
		t.Errorf("recorded message = %q, want snapshot", got)
	}
}

func TestToolCall_UniqueIDs(t *testing.T) {
	a, b := ToolCall("x", nil), ToolCall("x", nil)
	if a.ID == b.ID {
		t.Error("tool call ids should differ")
	}
}
