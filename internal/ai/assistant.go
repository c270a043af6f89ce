package ai

import (
	"context"
	"time"

	"github.com/hearthfin/hearth_backend/internal/core/domain"
	aiport "github.com/hearthfin/hearth_backend/internal/core/ports/ai"
	portssvc "github.com/hearthfin/hearth_backend/internal/core/ports/services"
	"github.com/hearthfin/hearth_backend/internal/dto"
	"github.com/hearthfin/hearth_backend/internal/middleware"
)

const maxHistoryMessages = 20

const systemPrompt = "You are a personal finance assistant with access to the user's double-entry ledger, " +
	"categories and property records through tools. Answer with concrete figures from the tools, " +
	"state amounts with two decimals, and never invent data you did not retrieve."

// Assistant runs the tool-use conversation loop: user message in, bounded
// rounds of model/tool exchange, assistant reply out. Each turn is capped by
// both a round count and a wall-clock budget.
type Assistant struct {
	chat            aiport.ChatClient
	registry        *Registry
	conversationSvc portssvc.ConversationSvcFacade
	maxToolRounds   int
	turnTimeout     time.Duration
}

// NewAssistant creates a new Assistant.
func NewAssistant(chat aiport.ChatClient, registry *Registry, conversationSvc portssvc.ConversationSvcFacade, maxToolRounds int, turnTimeout time.Duration) *Assistant {
	if maxToolRounds <= 0 {
		maxToolRounds = 8
	}
	if turnTimeout <= 0 {
		turnTimeout = time.Minute
	}
	return &Assistant{
		chat:            chat,
		registry:        registry,
		conversationSvc: conversationSvc,
		maxToolRounds:   maxToolRounds,
		turnTimeout:     turnTimeout,
	}
}

// SendMessage appends the user message, runs the assistant loop and persists
// the reply. Tool failures surface to the model as error payloads, not as
// turn failures.
func (a *Assistant) SendMessage(ctx context.Context, conversationID, content string) (*dto.SendMessageResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := a.conversationSvc.AppendMessage(ctx, conversationID, domain.RoleUser, content); err != nil {
		return nil, err
	}
	history, err := a.history(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	turnCtx, cancel := context.WithTimeout(ctx, a.turnTimeout)
	defer cancel()

	specs := a.registry.Specs()
	response, err := a.chat.Chat(turnCtx, systemPrompt, history, specs)
	if err != nil {
		return nil, err
	}

	rounds := 0
	for len(response.ToolCalls) > 0 && rounds < a.maxToolRounds {
		results := make(map[string]string, len(response.ToolCalls))
		for _, call := range response.ToolCalls {
			logger.Info("assistant tool call", "conversationID", conversationID, "tool", call.Name, "round", rounds+1)
			results[call.ID] = a.registry.Dispatch(turnCtx, call.Name, call.Arguments)
		}
		rounds++

		response, err = a.chat.SubmitToolResults(turnCtx, systemPrompt, history, specs, response.Turn, results)
		if err != nil {
			return nil, err
		}
	}

	if _, err := a.conversationSvc.AppendMessage(ctx, conversationID, domain.RoleAssistant, response.Content); err != nil {
		return nil, err
	}

	return &dto.SendMessageResponse{Reply: response.Content, ToolRounds: rounds}, nil
}

// history returns the model-visible window: the trailing user/assistant
// messages, capped at maxHistoryMessages.
func (a *Assistant) history(ctx context.Context, conversationID string) ([]aiport.ChatMessage, error) {
	messages, err := a.conversationSvc.ListMessages(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	filtered := make([]aiport.ChatMessage, 0, len(messages))
	for _, m := range messages {
		if m.Role != domain.RoleUser && m.Role != domain.RoleAssistant {
			continue
		}
		filtered = append(filtered, aiport.ChatMessage{Role: string(m.Role), Content: m.Content})
	}
	if len(filtered) > maxHistoryMessages {
		filtered = filtered[len(filtered)-maxHistoryMessages:]
	}
	return filtered, nil
}
