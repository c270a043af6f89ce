package domain

import "time"

// MessageRole identifies the author of a chat message.
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleSystem    MessageRole = "system"
)

// Conversation is one AI assistant chat thread.
type Conversation struct {
	ConversationID string    `json:"conversationID"`
	Title          *string   `json:"title,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Message is one turn in a conversation.
type Message struct {
	MessageID      string      `json:"messageID"`
	ConversationID string      `json:"conversationID"`
	Role           MessageRole `json:"role"`
	Content        string      `json:"content"`
	CreatedAt      time.Time   `json:"createdAt"`
}
