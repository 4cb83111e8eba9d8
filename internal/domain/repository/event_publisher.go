package repository

import (
	"context"

	"github.com/google/uuid"
)

// WorkspaceEvent is a domain event published after a successful messaging
// mutation. Real-time delivery to clients is out of scope; publishing is
// the boundary.
type WorkspaceEvent struct {
	Kind        string     `json:"kind"`
	WorkspaceID uuid.UUID  `json:"workspace_id"`
	MessageID   uuid.UUID  `json:"message_id"`
	ActorID     uuid.UUID  `json:"actor_id"`
	ParentID    *uuid.UUID `json:"parent_id,omitempty"`
	Emoji       string     `json:"emoji,omitempty"`
}

// Event kinds.
const (
	EventMessageSent     = "message.sent"
	EventMessageDeleted  = "message.deleted"
	EventMessagePinned   = "message.pinned"
	EventMessageUnpinned = "message.unpinned"
	EventReactionAdded   = "reaction.added"
	EventReactionRemoved = "reaction.removed"
)

type EventPublisher interface {
	PublishWorkspaceEvent(ctx context.Context, event *WorkspaceEvent) error
}
