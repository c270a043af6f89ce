// Package ai defines the ports to external language-model collaborators. The
// application never talks to a vendor SDK directly; everything goes through
// these interfaces so the assistant remains testable without network access.
package ai

import (
	"context"
	"encoding/json"
)

// ToolSpec describes one callable tool exposed to the model.
type ToolSpec struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"input_schema"`
}

// ToolCall is one tool invocation requested by the model.
type ToolCall struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// ChatMessage is one turn of model-visible conversation history.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatResponse is the model's reply for one round: free text plus zero or
// more tool calls to execute before the next round. Turn is the provider's
// raw assistant turn; callers hold it per conversation and hand it back to
// SubmitToolResults so tool results attach to the turn that requested them.
type ChatResponse struct {
	Content   string          `json:"content"`
	ToolCalls []ToolCall      `json:"toolCalls"`
	Turn      json.RawMessage `json:"-"`
}

// ChatClient drives the assistant conversation loop. Implementations must be
// safe for concurrent turns; all per-turn state travels through the
// ChatResponse.Turn round trip.
type ChatClient interface {
	Chat(ctx context.Context, system string, history []ChatMessage, tools []ToolSpec) (*ChatResponse, error)
	// SubmitToolResults feeds tool outputs for the given assistant turn back
	// and gets the next response.
	SubmitToolResults(ctx context.Context, system string, history []ChatMessage, tools []ToolSpec, turn json.RawMessage, results map[string]string) (*ChatResponse, error)
}

// Classifier suggests categories for transaction descriptions that no rule
// matched. Returns description -> category name; descriptions the model
// could not classify are absent from the map.
type Classifier interface {
	CategorizeBatch(ctx context.Context, descriptions []string, categoryNames []string) (map[string]string, error)
}

// TipSuggestion is one piece of advice proposed by the model.
type TipSuggestion struct {
	Content  string `json:"content"`
	TipType  string `json:"tipType"`
	Priority int    `json:"priority"`
}

// Advisor turns a plain-text summary of the household's finances into
// actionable tips.
type Advisor interface {
	SuggestTips(ctx context.Context, financialContext string) ([]TipSuggestion, error)
}
