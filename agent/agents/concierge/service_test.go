package concierge

import (
	"context"
	"fmt"
	"strings"
	"testing"

	actionx "github.com/tableside/concierge/agent/action"
	contractx "github.com/tableside/concierge/agent/contract"
	ledgerx "github.com/tableside/concierge/agent/ledger"
	recommendx "github.com/tableside/concierge/agent/recommend"
	storex "github.com/tableside/concierge/agent/store"
	groqx "github.com/tableside/concierge/pkg/groq"
)

type fakeModel struct {
	responses []string
	err       error
	calls     int
	prompts   []string
}

func (f *fakeModel) Complete(_ context.Context, _ string, prompt string) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	idx := f.calls - 1
	if idx >= len(f.responses) {
		idx = len(f.responses) - 1
	}
	return f.responses[idx], nil
}

func newTestConcierge(t *testing.T, model contractx.ChatModel) *Concierge {
	t.Helper()
	store := storex.NewMemoryStore()
	if err := storex.Seed(context.Background(), store); err != nil {
		t.Fatalf("seed: %v", err)
	}
	registry, err := actionx.New(store, ledgerx.New(store), recommendx.New(store))
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	c, err := New(registry, model)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestProcessMessageDispatchesDirective(t *testing.T) {
	t.Parallel()
	model := &fakeModel{responses: []string{
		`TOOL_CALL: {"tool": "search_restaurants", "parameters": {"cuisine": "Italian"}}`,
	}}
	c := newTestConcierge(t, model)

	reply, err := c.ProcessMessage(context.Background(), "any italian places?", nil)
	if err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}
	if !strings.Contains(reply, "La Bella Italia") {
		t.Errorf("reply does not list the matching restaurant:\n%s", reply)
	}
	if !strings.HasPrefix(reply, "Here are some restaurants") {
		t.Errorf("reply not rendered from the envelope:\n%s", reply)
	}
}

func TestProcessMessagePassesRawTextWithoutDirective(t *testing.T) {
	t.Parallel()
	raw := "Of course! What part of town works best for you?"
	model := &fakeModel{responses: []string{raw}}
	c := newTestConcierge(t, model)

	reply, err := c.ProcessMessage(context.Background(), "I want dinner", nil)
	if err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}
	if reply != raw {
		t.Errorf("reply = %q, want model text verbatim", reply)
	}
}

func TestProcessMessageMalformedDirectiveFallsThrough(t *testing.T) {
	t.Parallel()
	raw := `TOOL_CALL: {"tool": "search_restaurants", "parameters": {`
	model := &fakeModel{responses: []string{raw}}
	c := newTestConcierge(t, model)

	reply, err := c.ProcessMessage(context.Background(), "find food", nil)
	if err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}
	if reply != raw {
		t.Errorf("reply = %q, want original model text verbatim", reply)
	}
}

func TestProcessMessageUnknownActionFallsThrough(t *testing.T) {
	t.Parallel()
	raw := `TOOL_CALL: {"tool": "summon_chef", "parameters": {}}`
	model := &fakeModel{responses: []string{raw}}
	c := newTestConcierge(t, model)

	reply, err := c.ProcessMessage(context.Background(), "get me the chef", nil)
	if err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}
	if reply != raw {
		t.Errorf("reply = %q, want original model text verbatim", reply)
	}
}

func TestProcessMessageModelFailureYieldsApology(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"not configured", groqx.ErrNotConfigured, "not properly configured"},
		{"unauthorized", groqx.ErrUnauthorized, "authentication failed"},
		{"bad request", groqx.ErrBadRequest, "trouble understanding the request format"},
		{"unreachable", groqx.ErrUnreachable, "trouble connecting to the AI service"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			c := newTestConcierge(t, &fakeModel{err: tc.err})

			reply, err := c.ProcessMessage(context.Background(), "hello", nil)
			if err != nil {
				t.Fatalf("ProcessMessage: %v", err)
			}
			if !strings.HasPrefix(reply, "I apologize") || !strings.Contains(reply, tc.want) {
				t.Errorf("reply = %q, want apology containing %q", reply, tc.want)
			}
		})
	}
}

func TestProcessMessageInjectsUserInfo(t *testing.T) {
	t.Parallel()
	model := &fakeModel{responses: []string{
		`TOOL_CALL: {"tool": "make_reservation", "parameters": {"restaurant_id": 1, "date": "2026-09-12", "time": "19:00", "party_size": 2}}`,
	}}
	c := newTestConcierge(t, model)

	reply, err := c.ProcessMessage(context.Background(), "book it", map[string]any{"user_id": 1})
	if err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}
	if !strings.Contains(reply, "I've made your reservation at La Bella Italia") {
		t.Errorf("reservation not attributed through user info:\n%s", reply)
	}
}

func TestProcessMessageCommitsTurnsInOrder(t *testing.T) {
	t.Parallel()
	model := &fakeModel{responses: []string{"first reply", "second reply"}}
	c := newTestConcierge(t, model)

	for i, want := range []string{"first reply", "second reply"} {
		reply, err := c.ProcessMessage(context.Background(), fmt.Sprintf("message %d", i+1), nil)
		if err != nil {
			t.Fatalf("ProcessMessage %d: %v", i+1, err)
		}
		if reply != want {
			t.Fatalf("reply %d = %q, want %q", i+1, reply, want)
		}
	}

	// The second prompt must already see the first exchange.
	if len(model.prompts) != 2 {
		t.Fatalf("model called %d times, want 2", len(model.prompts))
	}
	if !strings.Contains(model.prompts[1], "assistant: first reply") {
		t.Errorf("second prompt missing committed first reply:\n%s", model.prompts[1])
	}
	if !strings.Contains(model.prompts[1], "user: message 1") {
		t.Errorf("second prompt missing first user turn:\n%s", model.prompts[1])
	}
}
