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

type fileRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewFileRepository creates a new file metadata repository
func NewFileRepository(db *gorm.DB, logger *zap.Logger) repository.FileRepository {
	return &fileRepository{
		db:     db,
		logger: logger,
	}
}

func (r *fileRepository) Create(ctx context.Context, file *model.File) error {
	if err := r.db.WithContext(ctx).Create(file).Error; err != nil {
		r.logger.Error("Failed to create file record",
			zap.String("context", string(file.Context)),
			zap.String("organization_id", file.OrganizationID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to create file record: %w", err)
	}
	return nil
}

func (r *fileRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.File, error) {
	var file model.File

	err := r.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&file).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to get file by ID",
			zap.String("file_id", id.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get file: %w", err)
	}

	return &file, nil
}

// GetActiveSlot looks up the live file occupying a single-slot context.
// The slot key depends on the context: profile pictures are per uploader,
// workspace logos per workspace, organization logos per organization.
func (r *fileRepository) GetActiveSlot(ctx context.Context, fileContext model.FileContext, orgID uuid.UUID, workspaceID, uploaderID *uuid.UUID) (*model.File, error) {
	query := r.db.WithContext(ctx).
		Where("context = ? AND organization_id = ? AND is_deleted = ?", fileContext, orgID, false)

	switch fileContext {
	case model.FileContextProfilePicture:
		if uploaderID == nil {
			return nil, fmt.Errorf("uploader is required for profile picture slot")
		}
		query = query.Where("uploaded_by = ?", *uploaderID)
	case model.FileContextWorkspaceLogo:
		if workspaceID == nil {
			return nil, fmt.Errorf("workspace is required for workspace logo slot")
		}
		query = query.Where("workspace_id = ?", *workspaceID)
	case model.FileContextOrgLogo:
		// organization scope alone identifies the slot
	default:
		return nil, fmt.Errorf("context %s has no single slot", fileContext)
	}

	var file model.File
	err := query.First(&file).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to get active file slot",
			zap.String("context", string(fileContext)),
			zap.String("organization_id", orgID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get active file slot: %w", err)
	}

	return &file, nil
}

func (r *fileRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Model(&model.File{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_deleted": true,
			"deleted_at": time.Now(),
		}).Error
	if err != nil {
		r.logger.Error("Failed to soft delete file",
			zap.String("file_id", id.String()),
			zap.Error(err))
		return fmt.Errorf("failed to soft delete file: %w", err)
	}
	return nil
}
