package conciergenode

import (
	contractx "github.com/tableside/concierge/agent/contract"
	statex "github.com/tableside/concierge/agent/state"
)

// FinalizeReply commits the assistant turn to the log and hands the
// reply out. The turn must be committed before the next message starts
// processing, since prompt construction reads the log.
func FinalizeReply(in *GraphState, conv *statex.Conversation) (GraphOutput, error) {
	conv.Append(contractx.RoleAssistant, in.Reply)
	return GraphOutput{Reply: in.Reply}, nil
}
