package conciergenode

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/cloudwego/eino/schema"

	contractx "github.com/tableside/concierge/agent/contract"
	statex "github.com/tableside/concierge/agent/state"
)

var testCatalog = []*schema.ToolInfo{
	{Name: "search_restaurants", Desc: "Search for restaurants"},
}

func TestBuildPromptShape(t *testing.T) {
	t.Parallel()
	conv := statex.NewConversation()

	state, err := BuildPrompt(GraphInput{Text: "find me italian food"}, conv, testCatalog)
	if err != nil {
		t.Fatalf("BuildPrompt: %v", err)
	}

	if !strings.Contains(state.Prompt, "- search_restaurants: Search for restaurants") {
		t.Error("catalog not interpolated into prompt")
	}
	if !strings.Contains(state.Prompt, "Conversation history:\n") {
		t.Error("history header missing")
	}
	if !strings.HasSuffix(state.Prompt, "\n\nassistant: Let me help you with that. ") {
		t.Errorf("priming suffix missing, prompt ends with %q", state.Prompt[len(state.Prompt)-40:])
	}
	if conv.Len() != 1 {
		t.Errorf("log length = %d, want 1 (user turn appended)", conv.Len())
	}
}

func TestBuildPromptSurfacesOnlyRecentTurns(t *testing.T) {
	t.Parallel()
	conv := statex.NewConversation()
	for i := 0; i < 6; i++ {
		conv.Append(contractx.RoleUser, fmt.Sprintf("old message %d", i))
		conv.Append(contractx.RoleAssistant, fmt.Sprintf("old reply %d", i))
	}

	state, err := BuildPrompt(GraphInput{Text: "what about tomorrow?"}, conv, testCatalog)
	if err != nil {
		t.Fatalf("BuildPrompt: %v", err)
	}

	if strings.Contains(state.Prompt, "old message 0") {
		t.Error("prompt surfaces turns beyond the window")
	}
	if !strings.Contains(state.Prompt, "old reply 5") {
		t.Error("prompt missing a turn inside the window")
	}
	if !strings.Contains(state.Prompt, "user: what about tomorrow?") {
		t.Error("prompt missing the new utterance")
	}
}

func TestBuildPromptRejectsEmptyMessage(t *testing.T) {
	t.Parallel()
	conv := statex.NewConversation()
	if _, err := BuildPrompt(GraphInput{Text: "   "}, conv, testCatalog); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
	if conv.Len() != 0 {
		t.Error("rejected message must not be logged")
	}
}
