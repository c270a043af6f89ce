package dto

// CreateConversationRequest starts a new assistant conversation.
type CreateConversationRequest struct {
	Title *string `json:"title"`
}

// SendMessageRequest appends a user message and runs the assistant loop.
type SendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// SendMessageResponse returns the assistant's reply for the turn.
type SendMessageResponse struct {
	Reply      string `json:"reply"`
	ToolRounds int    `json:"toolRounds"`
}
