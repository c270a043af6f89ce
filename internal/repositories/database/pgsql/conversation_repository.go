package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hearthfin/hearth_backend/internal/apperrors"
	"github.com/hearthfin/hearth_backend/internal/core/domain"
	"github.com/hearthfin/hearth_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ConversationRepository implements repositories.ConversationRepositoryFacade
// using PostgreSQL.
type ConversationRepository struct {
	BaseRepository
}

var _ repositories.ConversationRepositoryFacade = (*ConversationRepository)(nil)

// NewConversationRepository creates a new ConversationRepository.
func NewConversationRepository(pool *pgxpool.Pool) *ConversationRepository {
	return &ConversationRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// SaveConversation persists a new conversation.
func (r *ConversationRepository) SaveConversation(ctx context.Context, conversation domain.Conversation) error {
	query := `
		INSERT INTO conversations (conversation_id, title, created_at, updated_at)
		VALUES ($1, $2, $3, $4)`
	_, err := r.Pool.Exec(ctx, query,
		conversation.ConversationID,
		conversation.Title,
		conversation.CreatedAt,
		conversation.UpdatedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save conversation", err)
	}
	return nil
}

// FindConversationByID retrieves a conversation by its ID.
func (r *ConversationRepository) FindConversationByID(ctx context.Context, conversationID string) (*domain.Conversation, error) {
	query := `SELECT conversation_id, title, created_at, updated_at FROM conversations WHERE conversation_id = $1`
	var c domain.Conversation
	err := r.Pool.QueryRow(ctx, query, conversationID).Scan(&c.ConversationID, &c.Title, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("conversation with ID %s not found", conversationID))
		}
		return nil, apperrors.NewAppError(500, "failed to find conversation", err)
	}
	return &c, nil
}

// ListConversations retrieves the most recently active conversations.
func (r *ConversationRepository) ListConversations(ctx context.Context, limit int) ([]domain.Conversation, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT conversation_id, title, created_at, updated_at FROM conversations ORDER BY updated_at DESC LIMIT $1`
	rows, err := r.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list conversations", err)
	}
	defer rows.Close()

	conversations := make([]domain.Conversation, 0)
	for rows.Next() {
		var c domain.Conversation
		if err := rows.Scan(&c.ConversationID, &c.Title, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan conversation", err)
		}
		conversations = append(conversations, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to read conversations", err)
	}
	return conversations, nil
}

// TouchConversation bumps a conversation's updated_at timestamp.
func (r *ConversationRepository) TouchConversation(ctx context.Context, conversationID string, updatedAt time.Time) error {
	query := `UPDATE conversations SET updated_at = $2 WHERE conversation_id = $1`
	tag, err := r.Pool.Exec(ctx, query, conversationID, updatedAt)
	if err != nil {
		return apperrors.NewAppError(500, "failed to touch conversation", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("conversation with ID %s not found", conversationID))
	}
	return nil
}

// SaveMessage persists one chat message.
func (r *ConversationRepository) SaveMessage(ctx context.Context, message domain.Message) error {
	query := `
		INSERT INTO messages (message_id, conversation_id, role, content, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.Pool.Exec(ctx, query,
		message.MessageID,
		message.ConversationID,
		message.Role,
		message.Content,
		message.CreatedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save message", err)
	}
	return nil
}

// ListMessages retrieves a conversation's messages oldest first.
func (r *ConversationRepository) ListMessages(ctx context.Context, conversationID string) ([]domain.Message, error) {
	query := `
		SELECT message_id, conversation_id, role, content, created_at
		FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at, message_id`
	rows, err := r.Pool.Query(ctx, query, conversationID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list messages", err)
	}
	defer rows.Close()

	messages := make([]domain.Message, 0)
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.MessageID, &m.ConversationID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan message", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to read messages", err)
	}
	return messages, nil
}
