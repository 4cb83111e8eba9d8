package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/huddlehq/huddle-backend/internal/domain/model"
)

type FileRepository interface {
	Create(ctx context.Context, file *model.File) error
	// GetByID returns nil for soft-deleted rows.
	GetByID(ctx context.Context, id uuid.UUID) (*model.File, error)
	// GetActiveSlot finds the current occupant of a single-slot context.
	// The scope is (org, uploader) for profile pictures, (workspace) for
	// workspace logos and (org) for organization logos.
	GetActiveSlot(ctx context.Context, fileContext model.FileContext, orgID uuid.UUID, workspaceID, uploaderID *uuid.UUID) (*model.File, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

// BlobRepository is the external blob-store collaborator. This service never
// inspects blob bytes; it only issues URLs and deletes objects.
type BlobRepository interface {
	GenerateUploadURL(ctx context.Context, storageID, contentType string) (string, error)
	GetURL(ctx context.Context, storageID string) (string, error)
	Delete(ctx context.Context, storageID string) error
}
