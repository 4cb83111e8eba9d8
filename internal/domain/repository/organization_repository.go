package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/huddlehq/huddle-backend/internal/domain/model"
)

type OrganizationRepository interface {
	Create(ctx context.Context, org *model.Organization) error
	// GetByID returns nil for unknown or deactivated organizations.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Organization, error)
	GetBySlug(ctx context.Context, slug string) (*model.Organization, error)
	Update(ctx context.Context, org *model.Organization) error
}

type OrgMemberRepository interface {
	Create(ctx context.Context, member *model.OrganizationMember) error
	GetByOrgAndUser(ctx context.Context, orgID, userID uuid.UUID) (*model.OrganizationMember, error)
	ListByOrg(ctx context.Context, orgID uuid.UUID) ([]model.OrganizationMember, error)
	Update(ctx context.Context, member *model.OrganizationMember) error
	Delete(ctx context.Context, id int64) error
	// CountActiveByRole counts active members holding the given role.
	CountActiveByRole(ctx context.Context, orgID uuid.UUID, role model.OrgRole) (int64, error)
}
