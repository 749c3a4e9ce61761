package conciergenode

import (
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	contractx "github.com/tableside/concierge/agent/contract"
	promptx "github.com/tableside/concierge/agent/prompt"
	statex "github.com/tableside/concierge/agent/state"
)

// HistoryWindow is how many recent turns the prompt surfaces. The log
// itself is unbounded.
const HistoryWindow = 5

const assistantPriming = "\n\nassistant: Let me help you with that. "

// BuildPrompt appends the user turn to the conversation and assembles
// the full prompt: system instructions with the live catalog, the
// recent history as "role: content" lines, the new utterance, and a
// fixed assistant priming suffix.
func BuildPrompt(in GraphInput, conv *statex.Conversation, infos []*schema.ToolInfo) (*GraphState, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, fmt.Errorf("%w: message is empty", contractx.ErrValidation)
	}

	conv.Append(contractx.RoleUser, text)

	lines := make([]string, 0, HistoryWindow+1)
	for _, turn := range conv.Window(HistoryWindow) {
		lines = append(lines, fmt.Sprintf("%s: %s", turn.Role, turn.Content))
	}
	lines = append(lines, fmt.Sprintf("%s: %s", contractx.RoleUser, text))

	system := promptx.System(infos)
	prompt := system + "\n\nConversation history:\n" + strings.Join(lines, "\n") + assistantPriming

	return &GraphState{
		Text:     text,
		UserInfo: in.UserInfo,
		System:   system,
		Prompt:   prompt,
	}, nil
}
