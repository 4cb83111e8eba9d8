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

type workspaceRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewWorkspaceRepository creates a new workspace repository
func NewWorkspaceRepository(db *gorm.DB, logger *zap.Logger) repository.WorkspaceRepository {
	return &workspaceRepository{
		db:     db,
		logger: logger,
	}
}

func (r *workspaceRepository) Create(ctx context.Context, workspace *model.Workspace) error {
	if err := r.db.WithContext(ctx).Create(workspace).Error; err != nil {
		r.logger.Error("Failed to create workspace",
			zap.String("organization_id", workspace.OrganizationID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to create workspace: %w", err)
	}
	return nil
}

func (r *workspaceRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Workspace, error) {
	var workspace model.Workspace

	err := r.db.WithContext(ctx).Where("id = ?", id).First(&workspace).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to get workspace by ID",
			zap.String("workspace_id", id.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get workspace: %w", err)
	}

	return &workspace, nil
}

func (r *workspaceRepository) Update(ctx context.Context, workspace *model.Workspace) error {
	if err := r.db.WithContext(ctx).Save(workspace).Error; err != nil {
		r.logger.Error("Failed to update workspace",
			zap.String("workspace_id", workspace.ID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to update workspace: %w", err)
	}
	return nil
}

type workspaceMemberRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewWorkspaceMemberRepository creates a new workspace member repository
func NewWorkspaceMemberRepository(db *gorm.DB, logger *zap.Logger) repository.WorkspaceMemberRepository {
	return &workspaceMemberRepository{
		db:     db,
		logger: logger,
	}
}

func (r *workspaceMemberRepository) Create(ctx context.Context, member *model.WorkspaceMember) error {
	if err := r.db.WithContext(ctx).Create(member).Error; err != nil {
		r.logger.Error("Failed to create workspace member",
			zap.String("workspace_id", member.WorkspaceID.String()),
			zap.String("user_id", member.UserID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to create workspace member: %w", err)
	}
	return nil
}

func (r *workspaceMemberRepository) GetByWorkspaceAndUser(ctx context.Context, workspaceID, userID uuid.UUID) (*model.WorkspaceMember, error) {
	var member model.WorkspaceMember

	err := r.db.WithContext(ctx).
		Where("workspace_id = ? AND user_id = ?", workspaceID, userID).
		First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to get workspace member",
			zap.String("workspace_id", workspaceID.String()),
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get workspace member: %w", err)
	}

	return &member, nil
}

func (r *workspaceMemberRepository) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]model.WorkspaceMember, error) {
	var members []model.WorkspaceMember

	err := r.db.WithContext(ctx).
		Where("workspace_id = ?", workspaceID).
		Order("joined_at ASC").
		Find(&members).Error
	if err != nil {
		r.logger.Error("Failed to list workspace members",
			zap.String("workspace_id", workspaceID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to list workspace members: %w", err)
	}

	return members, nil
}

func (r *workspaceMemberRepository) Update(ctx context.Context, member *model.WorkspaceMember) error {
	if err := r.db.WithContext(ctx).Save(member).Error; err != nil {
		r.logger.Error("Failed to update workspace member",
			zap.Int64("member_id", member.ID),
			zap.Error(err))
		return fmt.Errorf("failed to update workspace member: %w", err)
	}
	return nil
}

func (r *workspaceMemberRepository) Delete(ctx context.Context, id int64) error {
	err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.WorkspaceMember{}).Error
	if err != nil {
		r.logger.Error("Failed to delete workspace member",
			zap.Int64("member_id", id),
			zap.Error(err))
		return fmt.Errorf("failed to delete workspace member: %w", err)
	}
	return nil
}

func (r *workspaceMemberRepository) CountAdmins(ctx context.Context, workspaceID uuid.UUID) (int64, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&model.WorkspaceMember{}).
		Where("workspace_id = ? AND role = ?", workspaceID, model.WorkspaceRoleAdmin).
		Count(&count).Error
	if err != nil {
		r.logger.Error("Failed to count workspace admins",
			zap.String("workspace_id", workspaceID.String()),
			zap.Error(err))
		return 0, fmt.Errorf("failed to count workspace admins: %w", err)
	}

	return count, nil
}

func (r *workspaceMemberRepository) DeleteByOrgAndUser(ctx context.Context, orgID, userID uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND user_id = ?", orgID, userID).
		Delete(&model.WorkspaceMember{}).Error
	if err != nil {
		r.logger.Error("Failed to cascade workspace memberships",
			zap.String("organization_id", orgID.String()),
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to delete workspace memberships: %w", err)
	}
	return nil
}
