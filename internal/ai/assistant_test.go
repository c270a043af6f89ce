package ai_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/hearthfin/hearth_backend/internal/ai"
	"github.com/hearthfin/hearth_backend/internal/apperrors"
	"github.com/hearthfin/hearth_backend/internal/core/domain"
	aiport "github.com/hearthfin/hearth_backend/internal/core/ports/ai"
)

// scriptedChatClient replays a fixed sequence of responses and records what
// the assistant sent it.
type scriptedChatClient struct {
	responses []*aiport.ChatResponse
	calls     int

	lastHistory []aiport.ChatMessage
	lastResults map[string]string
	seenTurns   []json.RawMessage
}

func (c *scriptedChatClient) next() (*aiport.ChatResponse, error) {
	if c.calls >= len(c.responses) {
		return nil, fmt.Errorf("unexpected chat call %d", c.calls+1)
	}
	response := c.responses[c.calls]
	c.calls++
	return response, nil
}

func (c *scriptedChatClient) Chat(ctx context.Context, system string, history []aiport.ChatMessage, tools []aiport.ToolSpec) (*aiport.ChatResponse, error) {
	c.lastHistory = history
	return c.next()
}

func (c *scriptedChatClient) SubmitToolResults(ctx context.Context, system string, history []aiport.ChatMessage, tools []aiport.ToolSpec, turn json.RawMessage, results map[string]string) (*aiport.ChatResponse, error) {
	c.lastResults = results
	c.seenTurns = append(c.seenTurns, turn)
	return c.next()
}

type MockConversationSvc struct {
	mock.Mock
}

func (m *MockConversationSvc) CreateConversation(ctx context.Context, title *string) (*domain.Conversation, error) {
	args := m.Called(ctx, title)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Conversation), args.Error(1)
}

func (m *MockConversationSvc) GetConversation(ctx context.Context, conversationID string) (*domain.Conversation, error) {
	args := m.Called(ctx, conversationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Conversation), args.Error(1)
}

func (m *MockConversationSvc) ListConversations(ctx context.Context, limit int) ([]domain.Conversation, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Conversation), args.Error(1)
}

func (m *MockConversationSvc) AppendMessage(ctx context.Context, conversationID string, role domain.MessageRole, content string) (*domain.Message, error) {
	args := m.Called(ctx, conversationID, role, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Message), args.Error(1)
}

func (m *MockConversationSvc) ListMessages(ctx context.Context, conversationID string) ([]domain.Message, error) {
	args := m.Called(ctx, conversationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Message), args.Error(1)
}

type AssistantTestSuite struct {
	suite.Suite
	mockConversationSvc *MockConversationSvc
	registry            *ai.Registry
	toolCalls           []string
}

func (suite *AssistantTestSuite) SetupTest() {
	suite.mockConversationSvc = new(MockConversationSvc)
	suite.registry = ai.NewRegistry()
	suite.toolCalls = nil

	suite.Require().NoError(suite.registry.Register(ai.Tool{
		Name:        "get_net_worth",
		Description: "returns the net worth roll-up",
		InputSchema: json.RawMessage(`{"type":"object"}`),
		Handler: func(ctx context.Context, input json.RawMessage) (any, error) {
			suite.toolCalls = append(suite.toolCalls, "get_net_worth")
			return map[string]string{"netWorth": "-237800.00"}, nil
		},
	}))
}

func (suite *AssistantTestSuite) assistant(chat aiport.ChatClient) *ai.Assistant {
	return ai.NewAssistant(chat, suite.registry, suite.mockConversationSvc, 3, time.Minute)
}

func (suite *AssistantTestSuite) expectAppend(role domain.MessageRole) {
	suite.mockConversationSvc.On("AppendMessage", mock.Anything, "conv-1", role, mock.AnythingOfType("string")).
		Return(&domain.Message{MessageID: "msg", ConversationID: "conv-1", Role: role}, nil).Once()
}

func (suite *AssistantTestSuite) TestSendMessage_ToolRoundThenReply() {
	suite.expectAppend(domain.RoleUser)
	suite.expectAppend(domain.RoleAssistant)
	suite.mockConversationSvc.On("ListMessages", mock.Anything, "conv-1").Return([]domain.Message{
		{Role: domain.RoleUser, Content: "What is my net worth?"},
	}, nil).Once()

	chat := &scriptedChatClient{responses: []*aiport.ChatResponse{
		{
			ToolCalls: []aiport.ToolCall{{ID: "call-1", Name: "get_net_worth", Arguments: json.RawMessage(`{}`)}},
			Turn:      json.RawMessage(`[{"type":"tool_use","id":"call-1"}]`),
		},
		{Content: "Your net worth is -237,800.00."},
	}}

	response, err := suite.assistant(chat).SendMessage(context.Background(), "conv-1", "What is my net worth?")

	suite.Require().NoError(err)
	suite.Equal("Your net worth is -237,800.00.", response.Reply)
	suite.Equal(1, response.ToolRounds)
	suite.Equal([]string{"get_net_worth"}, suite.toolCalls)
	suite.JSONEq(`{"netWorth":"-237800.00"}`, chat.lastResults["call-1"])
	// The turn handed back with the results is the one that requested them.
	suite.Require().Len(chat.seenTurns, 1)
	suite.JSONEq(`[{"type":"tool_use","id":"call-1"}]`, string(chat.seenTurns[0]))
	suite.mockConversationSvc.AssertExpectations(suite.T())
}

func (suite *AssistantTestSuite) TestSendMessage_UnknownToolDoesNotFailTheTurn() {
	suite.expectAppend(domain.RoleUser)
	suite.expectAppend(domain.RoleAssistant)
	suite.mockConversationSvc.On("ListMessages", mock.Anything, "conv-1").Return([]domain.Message{
		{Role: domain.RoleUser, Content: "hello"},
	}, nil).Once()

	chat := &scriptedChatClient{responses: []*aiport.ChatResponse{
		{ToolCalls: []aiport.ToolCall{{ID: "call-1", Name: "delete_everything", Arguments: json.RawMessage(`{}`)}}},
		{Content: "I cannot do that."},
	}}

	response, err := suite.assistant(chat).SendMessage(context.Background(), "conv-1", "hello")

	suite.Require().NoError(err)
	suite.Equal("I cannot do that.", response.Reply)
	suite.JSONEq(`{"error":"unknown tool: delete_everything"}`, chat.lastResults["call-1"])
}

func (suite *AssistantTestSuite) TestSendMessage_StopsAtMaxToolRounds() {
	suite.expectAppend(domain.RoleUser)
	suite.expectAppend(domain.RoleAssistant)
	suite.mockConversationSvc.On("ListMessages", mock.Anything, "conv-1").Return([]domain.Message{
		{Role: domain.RoleUser, Content: "loop"},
	}, nil).Once()

	// The model asks for tools on every response. Only three rounds of
	// dispatch run; the fourth response comes back as the final reply with
	// its tool calls ignored.
	keepCalling := &aiport.ChatResponse{
		Content:   "still working",
		ToolCalls: []aiport.ToolCall{{ID: "call-n", Name: "get_net_worth", Arguments: json.RawMessage(`{}`)}},
	}
	chat := &scriptedChatClient{responses: []*aiport.ChatResponse{
		keepCalling, keepCalling, keepCalling, keepCalling,
	}}

	response, err := suite.assistant(chat).SendMessage(context.Background(), "conv-1", "loop")

	suite.Require().NoError(err)
	suite.Equal(3, response.ToolRounds)
	suite.Equal("still working", response.Reply)
	suite.Len(suite.toolCalls, 3)
}

func (suite *AssistantTestSuite) TestSendMessage_HistoryWindow() {
	suite.expectAppend(domain.RoleUser)
	suite.expectAppend(domain.RoleAssistant)

	// 25 alternating turns plus a system message; only the trailing 20
	// user/assistant messages reach the model.
	var stored []domain.Message
	stored = append(stored, domain.Message{Role: domain.RoleSystem, Content: "internal note"})
	for i := 0; i < 25; i++ {
		role := domain.RoleUser
		if i%2 == 1 {
			role = domain.RoleAssistant
		}
		stored = append(stored, domain.Message{Role: role, Content: fmt.Sprintf("turn %d", i)})
	}
	suite.mockConversationSvc.On("ListMessages", mock.Anything, "conv-1").Return(stored, nil).Once()

	chat := &scriptedChatClient{responses: []*aiport.ChatResponse{{Content: "ok"}}}

	_, err := suite.assistant(chat).SendMessage(context.Background(), "conv-1", "latest")

	suite.Require().NoError(err)
	suite.Require().Len(chat.lastHistory, 20)
	suite.Equal("turn 5", chat.lastHistory[0].Content)
	suite.Equal("turn 24", chat.lastHistory[19].Content)
	for _, m := range chat.lastHistory {
		suite.NotEqual(string(domain.RoleSystem), m.Role)
	}
}

func (suite *AssistantTestSuite) TestSendMessage_UnknownConversation() {
	suite.mockConversationSvc.On("AppendMessage", mock.Anything, "conv-missing", domain.RoleUser, "hello").
		Return(nil, apperrors.NewNotFoundError("conversation not found")).Once()

	_, err := suite.assistant(&scriptedChatClient{}).SendMessage(context.Background(), "conv-missing", "hello")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestAssistantTestSuite(t *testing.T) {
	suite.Run(t, new(AssistantTestSuite))
}
