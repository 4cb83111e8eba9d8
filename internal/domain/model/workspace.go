package model

import (
	"time"

	"github.com/google/uuid"
)

// WorkspaceType categorizes a workspace.
type WorkspaceType string

const (
	WorkspaceTypePublic   WorkspaceType = "public"
	WorkspaceTypePrivate  WorkspaceType = "private"
	WorkspaceTypeArchived WorkspaceType = "archived"
)

// WorkspaceRole represents a member's role within a workspace.
type WorkspaceRole string

const (
	WorkspaceRoleAdmin  WorkspaceRole = "admin"
	WorkspaceRoleMember WorkspaceRole = "member"
	WorkspaceRoleViewer WorkspaceRole = "viewer"
)

// Workspace is a channel-like subdivision of an organization and the scope
// for messages. The owning organization ID is carried on every workspace,
// message and file row for fast-path authorization.
type Workspace struct {
	ID               uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	OrganizationID   uuid.UUID     `gorm:"type:uuid;not null;index" json:"organization_id"`
	Name             string        `gorm:"not null;size:100" json:"name"`
	Description      string        `gorm:"size:500" json:"description,omitempty"`
	Type             WorkspaceType `gorm:"type:varchar(20);not null;default:'public'" json:"type"`
	Purpose          string        `gorm:"size:100" json:"purpose,omitempty"`
	IsArchived       bool          `gorm:"not null;default:false" json:"is_archived"`
	CreatedBy        uuid.UUID     `gorm:"type:uuid;not null" json:"created_by"`
	AllowThreads     bool          `gorm:"not null;default:true" json:"allow_threads"`
	AllowFileUploads bool          `gorm:"not null;default:true" json:"allow_file_uploads"`
	RetentionDays    int           `gorm:"not null;default:0" json:"retention_days"`
	CreatedAt        time.Time     `gorm:"default:now()" json:"created_at"`
	UpdatedAt        time.Time     `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Workspace) TableName() string {
	return "workspaces"
}

// WorkspaceMember joins a user to a workspace. The organization ID is
// denormalized so that removing an organization member can cascade to all
// of their workspace memberships with a single scoped delete.
type WorkspaceMember struct {
	ID              int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	WorkspaceID     uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_workspace_member,priority:1" json:"workspace_id"`
	UserID          uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_workspace_member,priority:2" json:"user_id"`
	OrganizationID  uuid.UUID     `gorm:"type:uuid;not null;index" json:"organization_id"`
	Role            WorkspaceRole `gorm:"type:varchar(20);not null;default:'member'" json:"role"`
	NotificationsOn bool          `gorm:"not null;default:true" json:"notifications_on"`
	InvitedBy       *uuid.UUID    `gorm:"type:uuid" json:"invited_by,omitempty"`
	JoinedAt        time.Time     `gorm:"default:now()" json:"joined_at"`
}

// TableName specifies the table name for GORM
func (WorkspaceMember) TableName() string {
	return "workspace_members"
}

// IsAdmin reports whether the member may perform workspace-mutating operations.
func (m *WorkspaceMember) IsAdmin() bool {
	return m != nil && m.Role == WorkspaceRoleAdmin
}

// WorkspaceInvitation invites an existing active organization member into a
// workspace. A workspace invite cannot onboard a stranger to the
// organization. At most one pending invitation exists per (workspace, user).
type WorkspaceInvitation struct {
	ID             int64            `gorm:"primaryKey;autoIncrement" json:"id"`
	WorkspaceID    uuid.UUID        `gorm:"type:uuid;not null;index" json:"workspace_id"`
	OrganizationID uuid.UUID        `gorm:"type:uuid;not null;index" json:"organization_id"`
	UserID         uuid.UUID        `gorm:"type:uuid;not null;index" json:"user_id"`
	Role           WorkspaceRole    `gorm:"type:varchar(20);not null;default:'member'" json:"role"`
	InvitedBy      uuid.UUID        `gorm:"type:uuid;not null" json:"invited_by"`
	Status         InvitationStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CreatedAt      time.Time        `gorm:"default:now()" json:"created_at"`
	UpdatedAt      time.Time        `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (WorkspaceInvitation) TableName() string {
	return "workspace_invitations"
}
