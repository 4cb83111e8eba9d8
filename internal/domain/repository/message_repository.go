package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/huddlehq/huddle-backend/internal/domain/model"
)

type MessageRepository interface {
	Create(ctx context.Context, message *model.Message) error
	// GetByID resolves a message regardless of its soft-delete flag.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Message, error)
	// ListByWorkspace returns non-deleted messages, oldest first.
	ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]model.Message, error)
	Update(ctx context.Context, message *model.Message) error
	// IncrementThreadCount bumps the parent's reply counter with a single
	// atomic SQL update.
	IncrementThreadCount(ctx context.Context, parentID uuid.UUID) error
}

type ReactionRepository interface {
	Create(ctx context.Context, reaction *model.Reaction) error
	Get(ctx context.Context, messageID, userID uuid.UUID, emoji string) (*model.Reaction, error)
	ListByMessage(ctx context.Context, messageID uuid.UUID) ([]model.Reaction, error)
	Delete(ctx context.Context, id int64) error
}

type MessageReadRepository interface {
	// Upsert records the receipt, silently keeping the existing row if the
	// user already read the message.
	Upsert(ctx context.Context, read *model.MessageRead) error
	ListByMessage(ctx context.Context, messageID uuid.UUID) ([]model.MessageRead, error)
	// ListUnreadMessageIDs returns the ids of workspace messages the user
	// has no receipt for, excluding soft-deleted rows.
	ListUnreadMessageIDs(ctx context.Context, workspaceID, userID uuid.UUID) ([]uuid.UUID, error)
}
