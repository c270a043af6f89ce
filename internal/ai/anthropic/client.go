// Package anthropic is a minimal client for the Anthropic Messages API,
// covering only the subset the assistant and the classifier use. Fields
// mirror the documented wire format; unknown fields are omitted.
package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	aiport "github.com/hearthfin/hearth_backend/internal/core/ports/ai"
)

const (
	messagesURL = "https://api.anthropic.com/v1/messages"
	apiVersion  = "2023-06-01"

	chatModel       = "claude-3-5-sonnet-latest"
	classifierModel = "claude-3-5-haiku-latest"

	chatMaxTokens       = 2048
	classifierMaxTokens = 1024
)

// Client implements both the ChatClient and Classifier ports. The client
// itself is stateless; the assistant turn a set of tool results belongs to
// travels through ChatResponse.Turn, so concurrent conversations never share
// state.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{apiKey: apiKey, baseURL: messagesURL, http: http.DefaultClient}
}

var (
	_ aiport.ChatClient = (*Client)(nil)
	_ aiport.Classifier = (*Client)(nil)
	_ aiport.Advisor    = (*Client)(nil)
)

type messageRequest struct {
	Model     string           `json:"model"`
	MaxTokens int              `json:"max_tokens"`
	System    string           `json:"system,omitempty"`
	Messages  []apiMessage     `json:"messages"`
	Tools     []aiport.ToolSpec `json:"tools,omitempty"`
}

type apiMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentBlock struct {
	Type      string          `json:"type"`
	Text      string          `json:"text,omitempty"`
	ID        string          `json:"id,omitempty"`
	Name      string          `json:"name,omitempty"`
	Input     json.RawMessage `json:"input,omitempty"`
	ToolUseID string          `json:"tool_use_id,omitempty"`
	Content   string          `json:"content,omitempty"`
}

type messageResponse struct {
	Content    []contentBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
}

// Chat sends the conversation window and returns the model's reply.
func (c *Client) Chat(ctx context.Context, system string, history []aiport.ChatMessage, tools []aiport.ToolSpec) (*aiport.ChatResponse, error) {
	messages := make([]apiMessage, 0, len(history))
	for _, m := range history {
		messages = append(messages, apiMessage{Role: m.Role, Content: m.Content})
	}
	return c.roundTrip(ctx, chatModel, chatMaxTokens, system, messages, tools)
}

// SubmitToolResults echoes the given assistant turn, attaches one
// tool_result block per requested call and returns the next reply.
func (c *Client) SubmitToolResults(ctx context.Context, system string, history []aiport.ChatMessage, tools []aiport.ToolSpec, turn json.RawMessage, results map[string]string) (*aiport.ChatResponse, error) {
	if len(turn) == 0 {
		return nil, fmt.Errorf("anthropic: no assistant turn to attach tool results to")
	}
	var pending []contentBlock
	if err := json.Unmarshal(turn, &pending); err != nil {
		return nil, fmt.Errorf("anthropic: malformed assistant turn: %w", err)
	}

	resultBlocks := make([]contentBlock, 0, len(results))
	for _, block := range pending {
		if block.Type != "tool_use" {
			continue
		}
		resultBlocks = append(resultBlocks, contentBlock{
			Type:      "tool_result",
			ToolUseID: block.ID,
			Content:   results[block.ID],
		})
	}

	messages := make([]apiMessage, 0, len(history)+2)
	for _, m := range history {
		messages = append(messages, apiMessage{Role: m.Role, Content: m.Content})
	}
	messages = append(messages,
		apiMessage{Role: "assistant", Content: pending},
		apiMessage{Role: "user", Content: resultBlocks},
	)
	return c.roundTrip(ctx, chatModel, chatMaxTokens, system, messages, tools)
}

func (c *Client) roundTrip(ctx context.Context, model string, maxTokens int, system string, messages []apiMessage, tools []aiport.ToolSpec) (*aiport.ChatResponse, error) {
	resp, err := c.send(ctx, messageRequest{
		Model:     model,
		MaxTokens: maxTokens,
		System:    system,
		Messages:  messages,
		Tools:     tools,
	})
	if err != nil {
		return nil, err
	}

	out := &aiport.ChatResponse{}
	if turn, err := json.Marshal(resp.Content); err == nil {
		out.Turn = turn
	}
	var text strings.Builder
	for _, block := range resp.Content {
		switch block.Type {
		case "text":
			text.WriteString(block.Text)
		case "tool_use":
			out.ToolCalls = append(out.ToolCalls, aiport.ToolCall{
				ID:        block.ID,
				Name:      block.Name,
				Arguments: block.Input,
			})
		}
	}
	out.Content = text.String()
	return out, nil
}

// CategorizeBatch asks the model to map transaction descriptions onto the
// given category names. Descriptions the model leaves out or maps onto an
// unknown category are simply absent from the result.
func (c *Client) CategorizeBatch(ctx context.Context, descriptions []string, categoryNames []string) (map[string]string, error) {
	if len(descriptions) == 0 || len(categoryNames) == 0 {
		return map[string]string{}, nil
	}

	var prompt strings.Builder
	prompt.WriteString("Assign each bank transaction description to the best matching category.\n")
	prompt.WriteString("Categories: " + strings.Join(categoryNames, ", ") + "\n")
	prompt.WriteString("Descriptions:\n")
	for _, d := range descriptions {
		prompt.WriteString("- " + d + "\n")
	}
	prompt.WriteString("Reply with a single JSON object mapping each description to a category name. " +
		"Omit descriptions that fit no category. No other text.")

	resp, err := c.send(ctx, messageRequest{
		Model:     classifierModel,
		MaxTokens: classifierMaxTokens,
		Messages:  []apiMessage{{Role: "user", Content: prompt.String()}},
	})
	if err != nil {
		return nil, err
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	assignments := map[string]string{}
	if err := json.Unmarshal([]byte(extractJSONObject(text.String())), &assignments); err != nil {
		return nil, fmt.Errorf("anthropic: classifier reply is not a JSON object: %w", err)
	}
	return assignments, nil
}

// SuggestTips asks the model for a short list of tips grounded on the given
// financial summary. Suggestions with an unknown tipType are normalized by
// the caller, not here.
func (c *Client) SuggestTips(ctx context.Context, financialContext string) ([]aiport.TipSuggestion, error) {
	var prompt strings.Builder
	prompt.WriteString("You are a personal finance adviser. Based on the financial summary below, ")
	prompt.WriteString("suggest between 3 and 5 short, specific, actionable tips.\n\n")
	prompt.WriteString(financialContext)
	prompt.WriteString("\n\nReply with a single JSON array of objects with keys " +
		`"content" (one or two sentences), "tipType" (one of "tip", "warning", "insight") ` +
		`and "priority" (0-10, higher is more urgent). No other text.`)

	resp, err := c.send(ctx, messageRequest{
		Model:     classifierModel,
		MaxTokens: classifierMaxTokens,
		Messages:  []apiMessage{{Role: "user", Content: prompt.String()}},
	})
	if err != nil {
		return nil, err
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	var suggestions []aiport.TipSuggestion
	if err := json.Unmarshal([]byte(extractJSONArray(text.String())), &suggestions); err != nil {
		return nil, fmt.Errorf("anthropic: adviser reply is not a JSON array: %w", err)
	}
	return suggestions, nil
}

func (c *Client) send(ctx context.Context, req messageRequest) (*messageResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", apiVersion)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr map[string]any
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return nil, fmt.Errorf("anthropic: http %d: %v", resp.StatusCode, apiErr)
	}

	var out messageResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// extractJSONObject trims code fences and surrounding prose the model
// sometimes wraps around its JSON reply.
func extractJSONObject(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return s
	}
	return s[start : end+1]
}

func extractJSONArray(s string) string {
	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start < 0 || end < start {
		return s
	}
	return s[start : end+1]
}
