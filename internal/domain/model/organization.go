package model

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
)

// OrgRole represents a member's role within an organization.
type OrgRole string

const (
	OrgRoleOwner  OrgRole = "owner"
	OrgRoleAdmin  OrgRole = "admin"
	OrgRoleMember OrgRole = "member"
	OrgRoleGuest  OrgRole = "guest"
)

// Scan implements sql.Scanner interface
func (r *OrgRole) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		*r = OrgRole(v)
	case []byte:
		*r = OrgRole(v)
	default:
		*r = OrgRoleMember
	}
	return nil
}

// Value implements driver.Valuer interface
func (r OrgRole) Value() (driver.Value, error) {
	return string(r), nil
}

// MemberStatus represents the lifecycle status of a membership row.
type MemberStatus string

const (
	MemberStatusActive            MemberStatus = "active"
	MemberStatusSuspended         MemberStatus = "suspended"
	MemberStatusPendingInvitation MemberStatus = "pending_invitation"
)

// Organization is the top-level tenant and billing boundary. Rows with
// IsActive=false are invisible to all reads.
type Organization struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name               string     `gorm:"not null;size:100" json:"name"`
	Slug               string     `gorm:"not null;uniqueIndex;size:50" json:"slug"`
	PlanTier           string     `gorm:"not null;size:20;default:'free'" json:"plan_tier"`
	SubscriptionStatus string     `gorm:"not null;size:20;default:'trialing'" json:"subscription_status"`
	TrialEndsAt        *time.Time `json:"trial_ends_at,omitempty"`
	MemberCap          int        `gorm:"not null;default:50" json:"member_cap"`
	IsActive           bool       `gorm:"not null;default:true" json:"is_active"`
	CreatedBy          uuid.UUID  `gorm:"type:uuid;not null" json:"created_by"`
	PublicJoin         bool       `gorm:"not null;default:false" json:"public_join"`
	AllowedEmailDomain string     `gorm:"size:100" json:"allowed_email_domain,omitempty"`
	CreatedAt          time.Time  `gorm:"default:now()" json:"created_at"`
	UpdatedAt          time.Time  `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Organization) TableName() string {
	return "organizations"
}

// OrganizationMember joins a user to an organization with a role and
// additive capability flags. A user holds at most one row per organization.
type OrganizationMember struct {
	ID                  int64        `gorm:"primaryKey;autoIncrement" json:"id"`
	OrganizationID      uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_org_member,priority:1" json:"organization_id"`
	UserID              uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_org_member,priority:2" json:"user_id"`
	Role                OrgRole      `gorm:"type:varchar(20);not null;default:'member'" json:"role"`
	CanCreateWorkspaces bool         `gorm:"not null;default:false" json:"can_create_workspaces"`
	CanInviteMembers    bool         `gorm:"not null;default:false" json:"can_invite_members"`
	CanManageBilling    bool         `gorm:"not null;default:false" json:"can_manage_billing"`
	Status              MemberStatus `gorm:"type:varchar(30);not null;default:'active'" json:"status"`
	JoinedAt            time.Time    `gorm:"default:now()" json:"joined_at"`
	UpdatedAt           time.Time    `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (OrganizationMember) TableName() string {
	return "organization_members"
}

// IsActive reports whether the membership grants any access at all.
func (m *OrganizationMember) IsActive() bool {
	return m != nil && m.Status == MemberStatusActive
}

// InvitationStatus represents the state of an invitation.
type InvitationStatus string

const (
	InvitationStatusPending      InvitationStatus = "pending"
	InvitationStatusAccepted     InvitationStatus = "accepted"
	InvitationStatusDeclined     InvitationStatus = "declined"
	InvitationStatusExpired      InvitationStatus = "expired"
	InvitationStatusRevoked      InvitationStatus = "revoked"
	InvitationStatusAutoAccepted InvitationStatus = "auto_accepted"
)

// OrganizationInvitation is a token-based membership grant addressed to an
// email that may not yet belong to a user. At most one pending invitation
// exists per (organization, email) pair.
type OrganizationInvitation struct {
	ID                  uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	OrganizationID      uuid.UUID        `gorm:"type:uuid;not null;index" json:"organization_id"`
	Email               string           `gorm:"not null;size:255;index" json:"email"`
	Token               string           `gorm:"not null;uniqueIndex;size:64" json:"token"`
	Role                OrgRole          `gorm:"type:varchar(20);not null;default:'member'" json:"role"`
	CanCreateWorkspaces bool             `gorm:"not null;default:false" json:"can_create_workspaces"`
	CanInviteMembers    bool             `gorm:"not null;default:false" json:"can_invite_members"`
	CanManageBilling    bool             `gorm:"not null;default:false" json:"can_manage_billing"`
	InvitedBy           uuid.UUID        `gorm:"type:uuid;not null" json:"invited_by"`
	Message             string           `gorm:"size:500" json:"message,omitempty"`
	Status              InvitationStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	ExpiresAt           time.Time        `gorm:"not null" json:"expires_at"`
	AcceptedAt          *time.Time       `json:"accepted_at,omitempty"`
	AcceptedBy          *uuid.UUID       `gorm:"type:uuid" json:"accepted_by,omitempty"`
	CreatedAt           time.Time        `gorm:"default:now()" json:"created_at"`
	UpdatedAt           time.Time        `gorm:"default:now()" json:"updated_at"`
}

// TableName specifies the table name for GORM
func (OrganizationInvitation) TableName() string {
	return "organization_invitations"
}

// IsExpired reports whether the invitation has passed its expiry. Expiry is
// observed lazily on read and accept, not by a background sweep.
func (i *OrganizationInvitation) IsExpired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}
