package model

import (
	"time"

	"github.com/google/uuid"
)

// MessageType tags the kind of message row.
type MessageType string

const (
	MessageTypeText   MessageType = "text"
	MessageTypeFile   MessageType = "file"
	MessageTypeSystem MessageType = "system"
)

// Message belongs to exactly one workspace. The organization ID is copied
// from the workspace at send time for fast-path authorization on reads.
// Deletion is always soft; the row is retained and excluded from list reads.
type Message struct {
	ID              uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	WorkspaceID     uuid.UUID   `gorm:"type:uuid;not null;index" json:"workspace_id"`
	OrganizationID  uuid.UUID   `gorm:"type:uuid;not null;index" json:"organization_id"`
	AuthorID        uuid.UUID   `gorm:"type:uuid;not null" json:"author_id"`
	Text            string      `gorm:"type:text;not null" json:"text"`
	Type            MessageType `gorm:"type:varchar(20);not null;default:'text'" json:"type"`
	ParentMessageID *uuid.UUID  `gorm:"type:uuid;index" json:"parent_message_id,omitempty"`
	ThreadCount     int         `gorm:"not null;default:0" json:"thread_count"`
	AttachmentID    *uuid.UUID  `gorm:"type:uuid" json:"attachment_id,omitempty"`
	Mentions        []uuid.UUID `gorm:"serializer:json" json:"mentions,omitempty"`
	IsPinned        bool        `gorm:"not null;default:false" json:"is_pinned"`
	IsEdited        bool        `gorm:"not null;default:false" json:"is_edited"`
	EditedAt        *time.Time  `json:"edited_at,omitempty"`
	IsDeleted       bool        `gorm:"not null;default:false;index" json:"is_deleted"`
	DeletedAt       *time.Time  `json:"deleted_at,omitempty"`
	DeletedBy       *uuid.UUID  `gorm:"type:uuid" json:"deleted_by,omitempty"`
	CreatedAt       time.Time   `gorm:"default:now()" json:"created_at"`
	UpdatedAt       time.Time   `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Message) TableName() string {
	return "messages"
}

// Reaction is a (message, user, emoji) triple. A user may react with the
// same emoji at most once per message.
type Reaction struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	MessageID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reaction_unique,priority:1" json:"message_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reaction_unique,priority:2" json:"user_id"`
	Emoji     string    `gorm:"not null;size:32;uniqueIndex:idx_reaction_unique,priority:3" json:"emoji"`
	CreatedAt time.Time `gorm:"default:now()" json:"created_at"`
}

// TableName specifies the table name for GORM
func (Reaction) TableName() string {
	return "reactions"
}

// MessageRead is an idempotent read receipt.
type MessageRead struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	MessageID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_message_read,priority:1" json:"message_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_message_read,priority:2" json:"user_id"`
	ReadAt    time.Time `gorm:"default:now()" json:"read_at"`
}

// TableName specifies the table name for GORM
func (MessageRead) TableName() string {
	return "message_reads"
}
