package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hearthfin/hearth_backend/internal/core/domain"
	"github.com/hearthfin/hearth_backend/internal/core/ports/repositories"
	portssvc "github.com/hearthfin/hearth_backend/internal/core/ports/services"
)

// ConversationService implements services.ConversationSvcFacade: plain CRUD
// over conversations and messages. The assistant loop itself lives in the ai
// package.
type ConversationService struct {
	conversationRepo repositories.ConversationRepositoryFacade
}

var _ portssvc.ConversationSvcFacade = (*ConversationService)(nil)

// NewConversationService creates a new ConversationService.
func NewConversationService(conversationRepo repositories.ConversationRepositoryFacade) *ConversationService {
	return &ConversationService{conversationRepo: conversationRepo}
}

// CreateConversation starts a new conversation.
func (s *ConversationService) CreateConversation(ctx context.Context, title *string) (*domain.Conversation, error) {
	now := time.Now().UTC()
	conversation := domain.Conversation{
		ConversationID: uuid.NewString(),
		Title:          title,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.conversationRepo.SaveConversation(ctx, conversation); err != nil {
		return nil, err
	}
	return &conversation, nil
}

// GetConversation retrieves a conversation by ID.
func (s *ConversationService) GetConversation(ctx context.Context, conversationID string) (*domain.Conversation, error) {
	return s.conversationRepo.FindConversationByID(ctx, conversationID)
}

// ListConversations retrieves the most recently active conversations.
func (s *ConversationService) ListConversations(ctx context.Context, limit int) ([]domain.Conversation, error) {
	return s.conversationRepo.ListConversations(ctx, limit)
}

// AppendMessage persists one message and bumps the conversation's activity
// timestamp.
func (s *ConversationService) AppendMessage(ctx context.Context, conversationID string, role domain.MessageRole, content string) (*domain.Message, error) {
	if _, err := s.conversationRepo.FindConversationByID(ctx, conversationID); err != nil {
		return nil, err
	}

	message := domain.Message{
		MessageID:      uuid.NewString(),
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.conversationRepo.SaveMessage(ctx, message); err != nil {
		return nil, err
	}
	if err := s.conversationRepo.TouchConversation(ctx, conversationID, message.CreatedAt); err != nil {
		return nil, err
	}
	return &message, nil
}

// ListMessages retrieves a conversation's messages oldest first.
func (s *ConversationService) ListMessages(ctx context.Context, conversationID string) ([]domain.Message, error) {
	if _, err := s.conversationRepo.FindConversationByID(ctx, conversationID); err != nil {
		return nil, err
	}
	return s.conversationRepo.ListMessages(ctx, conversationID)
}
