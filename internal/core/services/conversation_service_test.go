package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/hearthfin/hearth_backend/internal/apperrors"
	"github.com/hearthfin/hearth_backend/internal/core/domain"
	"github.com/hearthfin/hearth_backend/internal/core/services"
)

type ConversationServiceTestSuite struct {
	suite.Suite
	mockConversationRepo *MockConversationRepository
	service              *services.ConversationService
}

func (suite *ConversationServiceTestSuite) SetupTest() {
	suite.mockConversationRepo = new(MockConversationRepository)
	suite.service = services.NewConversationService(suite.mockConversationRepo)
}

func (suite *ConversationServiceTestSuite) TestCreateConversation() {
	ctx := context.Background()
	title := "Monthly spending questions"

	var saved domain.Conversation
	suite.mockConversationRepo.On("SaveConversation", ctx, mock.AnythingOfType("domain.Conversation")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(domain.Conversation)
		}).Return(nil).Once()

	conversation, err := suite.service.CreateConversation(ctx, &title)

	suite.Require().NoError(err)
	suite.NotEmpty(conversation.ConversationID)
	suite.Equal(&title, saved.Title)
	suite.Equal(saved.CreatedAt, saved.UpdatedAt)
}

func (suite *ConversationServiceTestSuite) TestAppendMessage_TouchesConversation() {
	ctx := context.Background()

	suite.mockConversationRepo.On("FindConversationByID", ctx, "conv-1").
		Return(&domain.Conversation{ConversationID: "conv-1"}, nil).Once()

	var saved domain.Message
	suite.mockConversationRepo.On("SaveMessage", ctx, mock.AnythingOfType("domain.Message")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(domain.Message)
		}).Return(nil).Once()

	var touchedAt time.Time
	suite.mockConversationRepo.On("TouchConversation", ctx, "conv-1", mock.AnythingOfType("time.Time")).
		Run(func(args mock.Arguments) {
			touchedAt = args.Get(2).(time.Time)
		}).Return(nil).Once()

	message, err := suite.service.AppendMessage(ctx, "conv-1", domain.RoleUser, "How much did I spend on groceries?")

	suite.Require().NoError(err)
	suite.Equal("conv-1", saved.ConversationID)
	suite.Equal(domain.RoleUser, saved.Role)
	suite.Equal(message.CreatedAt, touchedAt, "Activity timestamp matches the appended message")
	suite.mockConversationRepo.AssertExpectations(suite.T())
}

func (suite *ConversationServiceTestSuite) TestAppendMessage_UnknownConversation() {
	ctx := context.Background()

	suite.mockConversationRepo.On("FindConversationByID", ctx, "conv-missing").
		Return(nil, apperrors.NewNotFoundError("conversation not found")).Once()

	_, err := suite.service.AppendMessage(ctx, "conv-missing", domain.RoleUser, "hello")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockConversationRepo.AssertNotCalled(suite.T(), "SaveMessage", mock.Anything, mock.Anything)
}

func (suite *ConversationServiceTestSuite) TestListMessages_UnknownConversation() {
	ctx := context.Background()

	suite.mockConversationRepo.On("FindConversationByID", ctx, "conv-missing").
		Return(nil, apperrors.NewNotFoundError("conversation not found")).Once()

	_, err := suite.service.ListMessages(ctx, "conv-missing")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockConversationRepo.AssertNotCalled(suite.T(), "ListMessages", mock.Anything, mock.Anything)
}

func TestConversationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ConversationServiceTestSuite))
}
