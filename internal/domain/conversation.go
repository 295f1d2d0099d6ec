package domain

import "time"

// Message roles. A stored message is authored by the end user or the assistant.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Conversation is a chat session owning an ordered sequence of messages.
type Conversation struct {
	ID        int64     `json:"id"`
	OwnerID   string    `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Message is a single turn entry in a conversation. Immutable once stored;
// chronological order is insertion order (ties broken by id).
type Message struct {
	ID             int64     `json:"id"`
	ConversationID int64     `json:"conversationId"`
	OwnerID        string    `json:"ownerId"`
	Role           string    `json:"role"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"createdAt"`
}

// ToolInvocation records one tool call made during a chat turn: the tool name,
// the final argument set (including the injected owner id), and the result.
// Produced for response transparency only; never persisted.
type ToolInvocation struct {
	Tool       string         `json:"tool"`
	Parameters map[string]any `json:"parameters"`
	Result     map[string]any `json:"result"`
}
