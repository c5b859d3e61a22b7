// Package ai defines the conversation kept with the recipe assistant
package ai

import (
	"sync"
	"time"

	"github.com/alchemorsel/recipeweb/internal/domain/recipe"
)

// MaxTranscript is how many messages a Transcript retains
const MaxTranscript = 50

// Role tells who wrote a chat message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is one turn of the conversation. Assistant turns carry the
// recipes the backend suggested.
type ChatMessage struct {
	Role    Role
	Content string
	Recipes []recipe.Recipe
	SentAt  time.Time
}

// Transcript is a bounded, concurrency-safe chat history
type Transcript struct {
	mu       sync.RWMutex
	messages []ChatMessage
	limit    int
}

// NewTranscript keeps at most limit messages; limit <= 0 means MaxTranscript
func NewTranscript(limit int) *Transcript {
	if limit <= 0 {
		limit = MaxTranscript
	}
	return &Transcript{limit: limit}
}

// Append adds a message, dropping the oldest ones past the limit
func (t *Transcript) Append(msg ChatMessage) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.messages = append(t.messages, msg)
	if over := len(t.messages) - t.limit; over > 0 {
		t.messages = append([]ChatMessage(nil), t.messages[over:]...)
	}
}

// Messages returns a copy of the history, oldest first
func (t *Transcript) Messages() []ChatMessage {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]ChatMessage(nil), t.messages...)
}

// Len returns the number of retained messages
func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.messages)
}

// Reset clears the history
func (t *Transcript) Reset() {
	t.mu.Lock()
	t.messages = nil
	t.mu.Unlock()
}
