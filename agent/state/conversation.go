// Package state holds per-conversation memory. The log is append-only
// and private to its owning agent instance; prompts only ever see a
// bounded window of recent turns.
package state

import (
	"sync"
	"time"

	contractx "github.com/tableside/concierge/agent/contract"
)

type Conversation struct {
	mu    sync.Mutex
	turns []contractx.Turn
	now   func() time.Time
}

func NewConversation() *Conversation {
	return &Conversation{now: time.Now}
}

func (c *Conversation) Append(role, content string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.turns = append(c.turns, contractx.Turn{
		Role:      role,
		Content:   content,
		Timestamp: c.now(),
	})
}

// Window returns copies of the last n turns, oldest first.
func (c *Conversation) Window(n int) []contractx.Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n <= 0 || len(c.turns) == 0 {
		return nil
	}
	if n > len(c.turns) {
		n = len(c.turns)
	}
	out := make([]contractx.Turn, n)
	copy(out, c.turns[len(c.turns)-n:])
	return out
}

func (c *Conversation) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.turns)
}
