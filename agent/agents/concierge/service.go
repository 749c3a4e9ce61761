// Package concierge is the conversational agent that fronts the
// reservation system: it owns one conversation log, talks to the
// language model, and dispatches directives through the action
// registry.
package concierge

import (
	"context"
	"errors"

	"github.com/cloudwego/eino/compose"

	contractx "github.com/tableside/concierge/agent/contract"
	nodex "github.com/tableside/concierge/agent/nodes/concierge"
	statex "github.com/tableside/concierge/agent/state"
)

type Concierge struct {
	registry contractx.ActionRegistry
	model    contractx.ChatModel
	conv     *statex.Conversation

	graphRunner compose.Runnable[nodex.GraphInput, nodex.GraphOutput]
}

func New(registry contractx.ActionRegistry, model contractx.ChatModel) (*Concierge, error) {
	if registry == nil {
		return nil, errors.New("action registry is required")
	}
	if model == nil {
		return nil, errors.New("chat model is required")
	}

	c := &Concierge{
		registry: registry,
		model:    model,
		conv:     statex.NewConversation(),
	}

	graphRunner, err := c.compileProcessMessageGraph(context.Background())
	if err != nil {
		return nil, err
	}
	c.graphRunner = graphRunner

	return c, nil
}

// ProcessMessage runs one user message through the pipeline and returns
// the reply. Messages for the same conversation must be processed one
// at a time; the reply for message N is committed to the log before
// N+1 builds its prompt.
func (c *Concierge) ProcessMessage(ctx context.Context, text string, userInfo map[string]any) (string, error) {
	out, err := c.graphRunner.Invoke(ctx, nodex.GraphInput{
		Text:     text,
		UserInfo: userInfo,
	})
	if err != nil {
		return "", err
	}
	return out.Reply, nil
}
