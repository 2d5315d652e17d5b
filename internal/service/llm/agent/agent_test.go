package agent

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"cinedesk/internal/domain/services/llm"
	"cinedesk/internal/repository/memory"
	"cinedesk/internal/service"
	"cinedesk/internal/service/llm/providers/scripted"
	"cinedesk/internal/service/llm/tools"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func documentRegistry(t *testing.T) (*tools.ToolRegistry, *memory.DocumentStore) {
	t.Helper()
	store := memory.NewDocumentStore()
	docs := service.NewDocumentService(store, store, discardLogger)
	return tools.NewToolRegistryBuilder(discardLogger).WithDocumentTools(docs).Build(), store
}

func userMessage(content string) []llm.Message {
	return []llm.Message{{Role: llm.RoleUser, Content: content}}
}

func TestAgent_RunWithTools(t *testing.T) {
	registry, store := documentRegistry(t)
	provider := scripted.NewProvider(
		scripted.Call(tools.ToolCreateDocument, map[string]interface{}{"title": "Ideas", "content": "Write more Go"}),
		scripted.Text("Created your document \"Ideas\"."),
	)

	a, err := New(Config{Name: "document_agent", Provider: provider, Model: "test", Tools: registry, Logger: discardLogger})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	res, err := a.Run(tools.WithUserID(context.Background(), 42), userMessage("save an idea"))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if res.Reply != "Created your document \"Ideas\"." {
		t.Errorf("Reply = %q", res.Reply)
	}
	if res.Iterations != 2 {
		t.Errorf("Iterations = %d, want 2", res.Iterations)
	}
	if len(res.Steps) != 1 || res.Steps[0].Result.IsError {
		t.Fatalf("Steps = %+v", res.Steps)
	}
	if store.Len() != 1 {
		t.Errorf("store has %d rows, want 1", store.Len())
	}

	// assistant(tool call), tool result, assistant(final)
	if len(res.Messages) != 3 || res.Messages[1].Role != llm.RoleTool {
		t.Errorf("Messages = %+v", res.Messages)
	}

	reqs := provider.Requests()
	if len(reqs[0].Tools) != registry.Len() {
		t.Errorf("model saw %d tools, want %d", len(reqs[0].Tools), registry.Len())
	}
	if got := len(reqs[1].Messages); got != 3 {
		t.Errorf("second model call saw %d messages, want 3", got)
	}
}

func TestAgent_ToolCallsRunInOrder(t *testing.T) {
	registry, _ := documentRegistry(t)
	provider := scripted.NewProvider(
		scripted.Calls(
			scripted.ToolCall(tools.ToolCreateDocument, map[string]interface{}{"title": "first", "content": "a"}),
			scripted.ToolCall(tools.ToolCreateDocument, map[string]interface{}{"title": "second", "content": "b"}),
			scripted.ToolCall(tools.ToolListDocuments, map[string]interface{}{"limit": 1}),
		),
		scripted.Text("ok"),
	)
	a, _ := New(Config{Name: "document_agent", Provider: provider, Tools: registry, Logger: discardLogger})

	res, err := a.Run(tools.WithUserID(context.Background(), 1), userMessage("go"))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(res.Steps) != 3 {
		t.Fatalf("Steps = %d, want 3", len(res.Steps))
	}
	list := res.Steps[2].Result.Result.(map[string]interface{})
	docs := list["documents"].([]map[string]interface{})
	if docs[0]["title"] != "second" {
		t.Errorf("list saw %v, want the second create to have run first", docs[0]["title"])
	}
}

func TestAgent_ToolErrorsReachModel(t *testing.T) {
	registry, _ := documentRegistry(t)
	provider := scripted.NewProvider(
		scripted.Call(tools.ToolGetDocument, map[string]interface{}{"document_id": 99}),
		scripted.Call("no_such_tool", nil),
		scripted.Text("That document does not exist."),
	)
	a, _ := New(Config{Name: "document_agent", Provider: provider, Tools: registry, Logger: discardLogger})

	res, err := a.Run(tools.WithUserID(context.Background(), 1), userMessage("show doc 99"))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	payload := res.Steps[0].Result.Result.(map[string]interface{})
	if payload["kind"] != string(tools.KindNotFound) {
		t.Errorf("payload = %v", payload)
	}
	if !res.Steps[1].Result.IsError {
		t.Error("unknown tool should produce an error result")
	}
}

func TestAgent_MaxIterations(t *testing.T) {
	registry, _ := documentRegistry(t)
	provider := scripted.NewProvider(
		scripted.Call(tools.ToolListDocuments, nil),
		scripted.Call(tools.ToolListDocuments, nil),
		scripted.Call(tools.ToolListDocuments, nil),
	)
	a, _ := New(Config{Name: "loop", Provider: provider, Tools: registry, MaxIterations: 2, Logger: discardLogger})

	_, err := a.Run(tools.WithUserID(context.Background(), 1), userMessage("loop"))
	if !errors.Is(err, ErrMaxIterations) {
		t.Fatalf("error = %v, want ErrMaxIterations", err)
	}
	if provider.Remaining() != 1 {
		t.Errorf("model called %d times, want 2", 3-provider.Remaining())
	}
}

func TestAgent_ProviderError(t *testing.T) {
	a, _ := New(Config{Name: "empty", Provider: scripted.NewProvider(), Logger: discardLogger})

	if _, err := a.Run(context.Background(), userMessage("hi")); !errors.Is(err, scripted.ErrScriptExhausted) {
		t.Fatalf("error = %v, want wrapped provider error", err)
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(Config{Provider: scripted.NewProvider()}); err == nil {
		t.Error("expected error for missing name")
	}
	if _, err := New(Config{Name: "x"}); err == nil {
		t.Error("expected error for missing provider")
	}

	a, err := New(Config{Name: "x", Provider: scripted.NewProvider()})
	if err != nil {
		t.Fatal(err)
	}
	if a.Tools().Len() != 0 || a.cfg.MaxIterations != DefaultMaxIterations {
		t.Errorf("defaults not applied: %+v", a.cfg)
	}
}
