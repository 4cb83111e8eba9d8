package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/huddlehq/huddle-backend/internal/domain/model"
	"github.com/huddlehq/huddle-backend/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type orgInvitationRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewOrgInvitationRepository creates a new organization invitation repository
func NewOrgInvitationRepository(db *gorm.DB, logger *zap.Logger) repository.OrgInvitationRepository {
	return &orgInvitationRepository{
		db:     db,
		logger: logger,
	}
}

func (r *orgInvitationRepository) Create(ctx context.Context, invitation *model.OrganizationInvitation) error {
	if err := r.db.WithContext(ctx).Create(invitation).Error; err != nil {
		r.logger.Error("Failed to create organization invitation",
			zap.String("organization_id", invitation.OrganizationID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to create organization invitation: %w", err)
	}
	return nil
}

func (r *orgInvitationRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.OrganizationInvitation, error) {
	var invitation model.OrganizationInvitation

	err := r.db.WithContext(ctx).Where("id = ?", id).First(&invitation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to get organization invitation by ID",
			zap.String("invitation_id", id.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get organization invitation: %w", err)
	}

	return &invitation, nil
}

func (r *orgInvitationRepository) GetByToken(ctx context.Context, token string) (*model.OrganizationInvitation, error) {
	var invitation model.OrganizationInvitation

	err := r.db.WithContext(ctx).Where("token = ?", token).First(&invitation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to get organization invitation by token", zap.Error(err))
		return nil, fmt.Errorf("failed to get organization invitation: %w", err)
	}

	return &invitation, nil
}

func (r *orgInvitationRepository) GetPendingByOrgAndEmail(ctx context.Context, orgID uuid.UUID, email string) (*model.OrganizationInvitation, error) {
	var invitation model.OrganizationInvitation

	err := r.db.WithContext(ctx).
		Where("organization_id = ? AND LOWER(email) = LOWER(?) AND status = ?",
			orgID, email, model.InvitationStatusPending).
		First(&invitation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to get pending organization invitation",
			zap.String("organization_id", orgID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get pending organization invitation: %w", err)
	}

	return &invitation, nil
}

func (r *orgInvitationRepository) ListByOrg(ctx context.Context, orgID uuid.UUID) ([]model.OrganizationInvitation, error) {
	var invitations []model.OrganizationInvitation

	err := r.db.WithContext(ctx).
		Where("organization_id = ?", orgID).
		Order("created_at DESC").
		Find(&invitations).Error
	if err != nil {
		r.logger.Error("Failed to list organization invitations",
			zap.String("organization_id", orgID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to list organization invitations: %w", err)
	}

	return invitations, nil
}

func (r *orgInvitationRepository) Update(ctx context.Context, invitation *model.OrganizationInvitation) error {
	if err := r.db.WithContext(ctx).Save(invitation).Error; err != nil {
		r.logger.Error("Failed to update organization invitation",
			zap.String("invitation_id", invitation.ID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to update organization invitation: %w", err)
	}
	return nil
}

func (r *orgInvitationRepository) ExpirePending(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.OrganizationInvitation{}).
		Where("status = ? AND expires_at < ?", model.InvitationStatusPending, before).
		Update("status", model.InvitationStatusExpired)
	if result.Error != nil {
		r.logger.Error("Failed to expire stale organization invitations", zap.Error(result.Error))
		return 0, fmt.Errorf("failed to expire stale organization invitations: %w", result.Error)
	}
	return result.RowsAffected, nil
}

type workspaceInvitationRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewWorkspaceInvitationRepository creates a new workspace invitation repository
func NewWorkspaceInvitationRepository(db *gorm.DB, logger *zap.Logger) repository.WorkspaceInvitationRepository {
	return &workspaceInvitationRepository{
		db:     db,
		logger: logger,
	}
}

func (r *workspaceInvitationRepository) Create(ctx context.Context, invitation *model.WorkspaceInvitation) error {
	if err := r.db.WithContext(ctx).Create(invitation).Error; err != nil {
		r.logger.Error("Failed to create workspace invitation",
			zap.String("workspace_id", invitation.WorkspaceID.String()),
			zap.String("user_id", invitation.UserID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to create workspace invitation: %w", err)
	}
	return nil
}

func (r *workspaceInvitationRepository) GetByID(ctx context.Context, id int64) (*model.WorkspaceInvitation, error) {
	var invitation model.WorkspaceInvitation

	err := r.db.WithContext(ctx).Where("id = ?", id).First(&invitation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to get workspace invitation",
			zap.Int64("invitation_id", id),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get workspace invitation: %w", err)
	}

	return &invitation, nil
}

func (r *workspaceInvitationRepository) GetPendingByWorkspaceAndUser(ctx context.Context, workspaceID, userID uuid.UUID) (*model.WorkspaceInvitation, error) {
	var invitation model.WorkspaceInvitation

	err := r.db.WithContext(ctx).
		Where("workspace_id = ? AND user_id = ? AND status = ?",
			workspaceID, userID, model.InvitationStatusPending).
		First(&invitation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to get pending workspace invitation",
			zap.String("workspace_id", workspaceID.String()),
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get pending workspace invitation: %w", err)
	}

	return &invitation, nil
}

func (r *workspaceInvitationRepository) Update(ctx context.Context, invitation *model.WorkspaceInvitation) error {
	if err := r.db.WithContext(ctx).Save(invitation).Error; err != nil {
		r.logger.Error("Failed to update workspace invitation",
			zap.Int64("invitation_id", invitation.ID),
			zap.Error(err))
		return fmt.Errorf("failed to update workspace invitation: %w", err)
	}
	return nil
}

func (r *workspaceInvitationRepository) Delete(ctx context.Context, id int64) error {
	err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.WorkspaceInvitation{}).Error
	if err != nil {
		r.logger.Error("Failed to delete workspace invitation",
			zap.Int64("invitation_id", id),
			zap.Error(err))
		return fmt.Errorf("failed to delete workspace invitation: %w", err)
	}
	return nil
}
