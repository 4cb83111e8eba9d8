package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/huddlehq/huddle-backend/internal/domain/model"
)

type OrgInvitationRepository interface {
	Create(ctx context.Context, invitation *model.OrganizationInvitation) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.OrganizationInvitation, error)
	GetByToken(ctx context.Context, token string) (*model.OrganizationInvitation, error)
	GetPendingByOrgAndEmail(ctx context.Context, orgID uuid.UUID, email string) (*model.OrganizationInvitation, error)
	ListByOrg(ctx context.Context, orgID uuid.UUID) ([]model.OrganizationInvitation, error)
	Update(ctx context.Context, invitation *model.OrganizationInvitation) error
	// ExpirePending flips pending rows past their expiry to expired and
	// reports how many changed.
	ExpirePending(ctx context.Context, before time.Time) (int64, error)
}

type WorkspaceInvitationRepository interface {
	Create(ctx context.Context, invitation *model.WorkspaceInvitation) error
	GetByID(ctx context.Context, id int64) (*model.WorkspaceInvitation, error)
	GetPendingByWorkspaceAndUser(ctx context.Context, workspaceID, userID uuid.UUID) (*model.WorkspaceInvitation, error)
	Update(ctx context.Context, invitation *model.WorkspaceInvitation) error
	// Delete hard-deletes the row; workspace invitations are not retained
	// for audit on revoke.
	Delete(ctx context.Context, id int64) error
}
