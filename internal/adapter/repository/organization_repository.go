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

type organizationRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewOrganizationRepository creates a new organization repository
func NewOrganizationRepository(db *gorm.DB, logger *zap.Logger) repository.OrganizationRepository {
	return &organizationRepository{
		db:     db,
		logger: logger,
	}
}

func (r *organizationRepository) Create(ctx context.Context, org *model.Organization) error {
	if err := r.db.WithContext(ctx).Create(org).Error; err != nil {
		r.logger.Error("Failed to create organization",
			zap.String("slug", org.Slug),
			zap.Error(err))
		return fmt.Errorf("failed to create organization: %w", err)
	}
	return nil
}

// GetByID returns the organization, or nil when it is unknown or has been
// deactivated. Inactive organizations are invisible to all reads.
func (r *organizationRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Organization, error) {
	var org model.Organization

	err := r.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&org).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to get organization by ID",
			zap.String("organization_id", id.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}

	return &org, nil
}

func (r *organizationRepository) GetBySlug(ctx context.Context, slug string) (*model.Organization, error) {
	var org model.Organization

	err := r.db.WithContext(ctx).
		Where("slug = ? AND is_active = ?", slug, true).
		First(&org).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to get organization by slug",
			zap.String("slug", slug),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}

	return &org, nil
}

func (r *organizationRepository) Update(ctx context.Context, org *model.Organization) error {
	if err := r.db.WithContext(ctx).Save(org).Error; err != nil {
		r.logger.Error("Failed to update organization",
			zap.String("organization_id", org.ID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to update organization: %w", err)
	}
	return nil
}

type orgMemberRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewOrgMemberRepository creates a new organization member repository
func NewOrgMemberRepository(db *gorm.DB, logger *zap.Logger) repository.OrgMemberRepository {
	return &orgMemberRepository{
		db:     db,
		logger: logger,
	}
}

func (r *orgMemberRepository) Create(ctx context.Context, member *model.OrganizationMember) error {
	if err := r.db.WithContext(ctx).Create(member).Error; err != nil {
		r.logger.Error("Failed to create organization member",
			zap.String("organization_id", member.OrganizationID.String()),
			zap.String("user_id", member.UserID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to create organization member: %w", err)
	}
	return nil
}

func (r *orgMemberRepository) GetByOrgAndUser(ctx context.Context, orgID, userID uuid.UUID) (*model.OrganizationMember, error) {
	var member model.OrganizationMember

	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND user_id = ?", orgID, userID).
		First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to get organization member",
			zap.String("organization_id", orgID.String()),
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get organization member: %w", err)
	}

	return &member, nil
}

func (r *orgMemberRepository) ListByOrg(ctx context.Context, orgID uuid.UUID) ([]model.OrganizationMember, error) {
	var members []model.OrganizationMember

	err := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Order("joined_at ASC").
		Find(&members).Error
	if err != nil {
		r.logger.Error("Failed to list organization members",
			zap.String("organization_id", orgID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to list organization members: %w", err)
	}

	return members, nil
}

func (r *orgMemberRepository) Update(ctx context.Context, member *model.OrganizationMember) error {
	if err := r.db.WithContext(ctx).Save(member).Error; err != nil {
		r.logger.Error("Failed to update organization member",
			zap.Int64("member_id", member.ID),
			zap.Error(err))
		return fmt.Errorf("failed to update organization member: %w", err)
	}
	return nil
}

func (r *orgMemberRepository) Delete(ctx context.Context, id int64) error {
	err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.OrganizationMember{}).Error
	if err != nil {
		r.logger.Error("Failed to delete organization member",
			zap.Int64("member_id", id),
			zap.Error(err))
		return fmt.Errorf("failed to delete organization member: %w", err)
	}
	return nil
}

func (r *orgMemberRepository) CountActiveByRole(ctx context.Context, orgID uuid.UUID, role model.OrgRole) (int64, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&model.OrganizationMember{}).
		Where("organization_id = ? AND role = ? AND status = ?", orgID, role, model.MemberStatusActive).
		Count(&count).Error
	if err != nil {
		r.logger.Error("Failed to count organization members by role",
			zap.String("organization_id", orgID.String()),
			zap.String("role", string(role)),
			zap.Error(err))
		return 0, fmt.Errorf("failed to count organization members: %w", err)
	}

	return count, nil
}
