package main

import (
	"context"
	"strings"
	"testing"

	"cinedesk/internal/domain/services/llm"
	"cinedesk/internal/service/llm/agent"
)

// echoRunner replies with the number of messages it received
type echoRunner struct {
	seen [][]llm.Message
}

func (e *echoRunner) Run(ctx context.Context, messages []llm.Message) (*agent.Result, error) {
	e.seen = append(e.seen, messages)
	return &agent.Result{Reply: "ack: " + messages[len(messages)-1].Content}, nil
}

func TestSession_KeepsHistory(t *testing.T) {
	r := &echoRunner{}
	s := &session{ctx: context.Background(), runner: r}

	if err := s.loop(strings.NewReader("first\nsecond\n\nignored\n")); err != nil {
		t.Fatalf("loop() error = %v", err)
	}

	if len(r.seen) != 2 {
		t.Fatalf("runs = %d, want 2 (empty line quits)", len(r.seen))
	}
	second := r.seen[1]
	want := []string{"first", "ack: first", "second"}
	if len(second) != len(want) {
		t.Fatalf("second run got %d messages, want %d", len(second), len(want))
	}
	for i, m := range second {
		if m.Content != want[i] {
			t.Errorf("message %d = %q, want %q", i, m.Content, want[i])
		}
	}
	if second[1].Role != llm.RoleAssistant {
		t.Errorf("message 1 role = %s, want assistant", second[1].Role)
	}
}
