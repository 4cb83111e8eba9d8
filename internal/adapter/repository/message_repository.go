package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/huddlehq/huddle-backend/internal/domain/model"
	"github.com/huddlehq/huddle-backend/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type messageRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *gorm.DB, logger *zap.Logger) repository.MessageRepository {
	return &messageRepository{
		db:     db,
		logger: logger,
	}
}

func (r *messageRepository) Create(ctx context.Context, message *model.Message) error {
	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		r.logger.Error("Failed to create message",
			zap.String("workspace_id", message.WorkspaceID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

// GetByID resolves a message regardless of its soft-delete flag so deleted
// rows remain directly addressable.
func (r *messageRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Message, error) {
	var message model.Message

	err := r.db.WithContext(ctx).Where("id = ?", id).First(&message).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to get message by ID",
			zap.String("message_id", id.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get message: %w", err)
	}

	return &message, nil
}

func (r *messageRepository) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]model.Message, error) {
	var messages []model.Message

	err := r.db.WithContext(ctx).
		Where("workspace_id = ? AND is_deleted = ?", workspaceID, false).
		Order("created_at ASC").
		Find(&messages).Error
	if err != nil {
		r.logger.Error("Failed to list messages",
			zap.String("workspace_id", workspaceID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	return messages, nil
}

func (r *messageRepository) Update(ctx context.Context, message *model.Message) error {
	if err := r.db.WithContext(ctx).Save(message).Error; err != nil {
		r.logger.Error("Failed to update message",
			zap.String("message_id", message.ID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to update message: %w", err)
	}
	return nil
}

// IncrementThreadCount bumps the reply counter in a single SQL statement so
// concurrent replies cannot lose an increment.
func (r *messageRepository) IncrementThreadCount(ctx context.Context, parentID uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Model(&model.Message{}).
		Where("id = ?", parentID).
		UpdateColumn("thread_count", gorm.Expr("thread_count + 1")).Error
	if err != nil {
		r.logger.Error("Failed to increment thread count",
			zap.String("message_id", parentID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to increment thread count: %w", err)
	}
	return nil
}

type reactionRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewReactionRepository creates a new reaction repository
func NewReactionRepository(db *gorm.DB, logger *zap.Logger) repository.ReactionRepository {
	return &reactionRepository{
		db:     db,
		logger: logger,
	}
}

func (r *reactionRepository) Create(ctx context.Context, reaction *model.Reaction) error {
	if err := r.db.WithContext(ctx).Create(reaction).Error; err != nil {
		r.logger.Error("Failed to create reaction",
			zap.String("message_id", reaction.MessageID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to create reaction: %w", err)
	}
	return nil
}

func (r *reactionRepository) Get(ctx context.Context, messageID, userID uuid.UUID, emoji string) (*model.Reaction, error) {
	var reaction model.Reaction

	err := r.db.WithContext(ctx).
		Where("message_id = ? AND user_id = ? AND emoji = ?", messageID, userID, emoji).
		First(&reaction).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to get reaction",
			zap.String("message_id", messageID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get reaction: %w", err)
	}

	return &reaction, nil
}

func (r *reactionRepository) ListByMessage(ctx context.Context, messageID uuid.UUID) ([]model.Reaction, error) {
	var reactions []model.Reaction

	err := r.db.WithContext(ctx).
		Where("message_id = ?", messageID).
		Order("created_at ASC").
		Find(&reactions).Error
	if err != nil {
		r.logger.Error("Failed to list reactions",
			zap.String("message_id", messageID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to list reactions: %w", err)
	}

	return reactions, nil
}

func (r *reactionRepository) Delete(ctx context.Context, id int64) error {
	err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Reaction{}).Error
	if err != nil {
		r.logger.Error("Failed to delete reaction",
			zap.Int64("reaction_id", id),
			zap.Error(err))
		return fmt.Errorf("failed to delete reaction: %w", err)
	}
	return nil
}

type messageReadRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewMessageReadRepository creates a new read receipt repository
func NewMessageReadRepository(db *gorm.DB, logger *zap.Logger) repository.MessageReadRepository {
	return &messageReadRepository{
		db:     db,
		logger: logger,
	}
}

// Upsert inserts the receipt, keeping the existing row untouched when the
// user already read the message.
func (r *messageReadRepository) Upsert(ctx context.Context, read *model.MessageRead) error {
	err := r.db.WithContext(ctx).
		Where("message_id = ? AND user_id = ?", read.MessageID, read.UserID).
		FirstOrCreate(read).Error
	if err != nil {
		r.logger.Error("Failed to upsert read receipt",
			zap.String("message_id", read.MessageID.String()),
			zap.String("user_id", read.UserID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to upsert read receipt: %w", err)
	}
	return nil
}

func (r *messageReadRepository) ListByMessage(ctx context.Context, messageID uuid.UUID) ([]model.MessageRead, error) {
	var reads []model.MessageRead

	err := r.db.WithContext(ctx).
		Where("message_id = ?", messageID).
		Order("read_at ASC").
		Find(&reads).Error
	if err != nil {
		r.logger.Error("Failed to list read receipts",
			zap.String("message_id", messageID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to list read receipts: %w", err)
	}

	return reads, nil
}

func (r *messageReadRepository) ListUnreadMessageIDs(ctx context.Context, workspaceID, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID

	err := r.db.WithContext(ctx).
		Model(&model.Message{}).
		Where("workspace_id = ? AND is_deleted = ?", workspaceID, false).
		Where("id NOT IN (?)", r.db.Model(&model.MessageRead{}).
			Select("message_id").
			Where("user_id = ?", userID)).
		Pluck("id", &ids).Error
	if err != nil {
		r.logger.Error("Failed to list unread messages",
			zap.String("workspace_id", workspaceID.String()),
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to list unread messages: %w", err)
	}

	return ids, nil
}
