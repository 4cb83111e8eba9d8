package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/huddlehq/huddle-backend/internal/domain/model"
)

type WorkspaceRepository interface {
	Create(ctx context.Context, workspace *model.Workspace) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Workspace, error)
	Update(ctx context.Context, workspace *model.Workspace) error
}

type WorkspaceMemberRepository interface {
	Create(ctx context.Context, member *model.WorkspaceMember) error
	GetByWorkspaceAndUser(ctx context.Context, workspaceID, userID uuid.UUID) (*model.WorkspaceMember, error)
	ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]model.WorkspaceMember, error)
	Update(ctx context.Context, member *model.WorkspaceMember) error
	Delete(ctx context.Context, id int64) error
	CountAdmins(ctx context.Context, workspaceID uuid.UUID) (int64, error)
	// DeleteByOrgAndUser removes every workspace membership the user holds
	// inside the organization. Used when an organization member is removed.
	DeleteByOrgAndUser(ctx context.Context, orgID, userID uuid.UUID) error
}
