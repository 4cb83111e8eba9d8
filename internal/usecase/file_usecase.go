package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/huddlehq/huddle-backend/internal/domain/model"
	"github.com/huddlehq/huddle-backend/internal/domain/repository"
	apperrors "github.com/huddlehq/huddle-backend/pkg/errors"
	"go.uber.org/zap"
)

type GenerateUploadURLRequest struct {
	Context        model.FileContext `json:"context"`
	FileName       string            `json:"file_name"`
	FileType       string            `json:"file_type"`
	FileSize       int64             `json:"file_size"`
	OrganizationID uuid.UUID         `json:"organization_id"`
	WorkspaceID    *uuid.UUID        `json:"workspace_id,omitempty"`
}

type StoreFileMetadataRequest struct {
	StorageID      string            `json:"storage_id"`
	Context        model.FileContext `json:"context"`
	FileName       string            `json:"file_name"`
	FileType       string            `json:"file_type"`
	FileSize       int64             `json:"file_size"`
	OrganizationID uuid.UUID         `json:"organization_id"`
	WorkspaceID    *uuid.UUID        `json:"workspace_id,omitempty"`
	MessageID      *uuid.UUID        `json:"message_id,omitempty"`
}

// UploadTicket is the handle returned by GenerateUploadURL. The client PUTs
// the blob to UploadURL, then registers it with StoreMetadata using the
// same StorageID.
type UploadTicket struct {
	StorageID string `json:"storage_id"`
	UploadURL string `json:"upload_url"`
}

// FileUseCase validates uploads per context, assigns access levels and
// enforces the single-active-slot rule for profile pictures and logos.
type FileUseCase struct {
	auth          Authenticator
	fileRepo      repository.FileRepository
	blobRepo      repository.BlobRepository
	orgRepo       repository.OrganizationRepository
	orgMemberRepo repository.OrgMemberRepository
	wsRepo        repository.WorkspaceRepository
	wsMemberRepo  repository.WorkspaceMemberRepository
	logger        *zap.Logger

	// slotMu guards slotLocks; each slot key gets its own mutex so that
	// replacements of the same slot are serialized while distinct slots
	// proceed in parallel.
	slotMu    sync.Mutex
	slotLocks map[string]*sync.Mutex
}

func NewFileUseCase(
	auth Authenticator,
	fileRepo repository.FileRepository,
	blobRepo repository.BlobRepository,
	orgRepo repository.OrganizationRepository,
	orgMemberRepo repository.OrgMemberRepository,
	wsRepo repository.WorkspaceRepository,
	wsMemberRepo repository.WorkspaceMemberRepository,
	logger *zap.Logger,
) *FileUseCase {
	return &FileUseCase{
		auth:          auth,
		fileRepo:      fileRepo,
		blobRepo:      blobRepo,
		orgRepo:       orgRepo,
		orgMemberRepo: orgMemberRepo,
		wsRepo:        wsRepo,
		wsMemberRepo:  wsMemberRepo,
		logger:        logger,
		slotLocks:     make(map[string]*sync.Mutex),
	}
}

func (u *FileUseCase) lockSlot(key string) func() {
	u.slotMu.Lock()
	mu, ok := u.slotLocks[key]
	if !ok {
		mu = &sync.Mutex{}
		u.slotLocks[key] = mu
	}
	u.slotMu.Unlock()

	mu.Lock()
	return mu.Unlock
}

// authorizeScope verifies the caller's organization membership and, when a
// workspace is given, that the workspace belongs to the organization and
// the caller is a member of it.
func (u *FileUseCase) authorizeScope(ctx context.Context, callerID, orgID uuid.UUID, workspaceID *uuid.UUID) (*model.OrganizationMember, error) {
	org, err := u.orgRepo.GetByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, apperrors.NewAppError(apperrors.ErrNotFound, "organization not found", nil)
	}

	orgMember, err := u.orgMemberRepo.GetByOrgAndUser(ctx, orgID, callerID)
	if err != nil {
		return nil, err
	}
	if !orgMember.IsActive() {
		return nil, apperrors.NewAppError(apperrors.ErrUnauthorized, "not an active organization member", nil)
	}

	if workspaceID != nil {
		ws, err := u.wsRepo.GetByID(ctx, *workspaceID)
		if err != nil {
			return nil, err
		}
		if ws == nil || ws.OrganizationID != orgID {
			return nil, apperrors.NewAppError(apperrors.ErrNotFound, "workspace not found", nil)
		}
		wsMember, err := u.wsMemberRepo.GetByWorkspaceAndUser(ctx, *workspaceID, callerID)
		if err != nil {
			return nil, err
		}
		if wsMember == nil {
			return nil, apperrors.NewAppError(apperrors.ErrUnauthorized, "not a workspace member", nil)
		}
	}

	return orgMember, nil
}

func validateFile(fileContext model.FileContext, fileName, fileType string, fileSize int64) error {
	if !fileContext.IsValid() {
		return apperrors.NewAppError(apperrors.ErrInvalidArgument, "unknown file context", nil)
	}
	if fileName == "" || fileType == "" {
		return apperrors.NewAppError(apperrors.ErrInvalidArgument, "file name and type are required", nil)
	}
	if fileSize <= 0 {
		return apperrors.NewAppError(apperrors.ErrInvalidArgument, "file size must be positive", nil)
	}
	if max := model.MaxFileSize(fileContext); fileSize > max {
		return apperrors.NewAppError(apperrors.ErrInvalidArgument,
			fmt.Sprintf("file exceeds the %d byte limit for %s", max, fileContext), nil)
	}
	if allowed := model.AllowedFileTypes(fileContext); len(allowed) > 0 {
		ok := false
		for _, t := range allowed {
			if t == fileType {
				ok = true
				break
			}
		}
		if !ok {
			return apperrors.NewAppError(apperrors.ErrInvalidArgument,
				fmt.Sprintf("file type %s is not allowed for %s", fileType, fileContext), nil)
		}
	}
	return nil
}

// accessLevelFor derives the access level from the upload context.
func accessLevelFor(fileContext model.FileContext, workspaceID *uuid.UUID) model.FileAccessLevel {
	switch fileContext {
	case model.FileContextProfilePicture:
		return model.FileAccessPrivate
	case model.FileContextWorkspaceLogo:
		return model.FileAccessWorkspace
	case model.FileContextOrgLogo:
		return model.FileAccessOrganization
	default:
		if workspaceID != nil {
			return model.FileAccessWorkspace
		}
		return model.FileAccessOrganization
	}
}

func slotKey(fileContext model.FileContext, orgID uuid.UUID, workspaceID, uploaderID *uuid.UUID) string {
	switch fileContext {
	case model.FileContextProfilePicture:
		return fmt.Sprintf("%s/%s/%s", fileContext, orgID, uploaderID)
	case model.FileContextWorkspaceLogo:
		return fmt.Sprintf("%s/%s", fileContext, workspaceID)
	default:
		return fmt.Sprintf("%s/%s", fileContext, orgID)
	}
}

// GenerateUploadURL validates the upload and issues a presigned PUT handle.
// Nothing is persisted yet; StoreMetadata re-checks everything afterwards.
func (u *FileUseCase) GenerateUploadURL(ctx context.Context, token string, req GenerateUploadURLRequest) (*UploadTicket, error) {
	caller, err := u.auth.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}

	if _, err := u.authorizeScope(ctx, caller.ID, req.OrganizationID, req.WorkspaceID); err != nil {
		return nil, err
	}
	if err := validateFile(req.Context, req.FileName, req.FileType, req.FileSize); err != nil {
		return nil, err
	}
	if req.Context == model.FileContextWorkspaceLogo && req.WorkspaceID == nil {
		return nil, apperrors.NewAppError(apperrors.ErrInvalidArgument, "workspace is required for a workspace logo", nil)
	}

	storageID := uuid.New().String()
	uploadURL, err := u.blobRepo.GenerateUploadURL(ctx, storageID, req.FileType)
	if err != nil {
		return nil, err
	}

	return &UploadTicket{
		StorageID: storageID,
		UploadURL: uploadURL,
	}, nil
}

// StoreMetadata registers an uploaded blob. Authorization and validation are
// re-run from scratch; the earlier URL generation is not trusted. For
// single-slot contexts the prior occupant's row is soft-deleted and its blob
// hard-deleted under the slot lock before the new row is inserted.
func (u *FileUseCase) StoreMetadata(ctx context.Context, token string, req StoreFileMetadataRequest) (*model.File, error) {
	caller, err := u.auth.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}

	if req.StorageID == "" {
		return nil, apperrors.NewAppError(apperrors.ErrInvalidArgument, "storage id is required", nil)
	}
	if _, err := u.authorizeScope(ctx, caller.ID, req.OrganizationID, req.WorkspaceID); err != nil {
		return nil, err
	}
	if err := validateFile(req.Context, req.FileName, req.FileType, req.FileSize); err != nil {
		return nil, err
	}
	if req.Context == model.FileContextWorkspaceLogo && req.WorkspaceID == nil {
		return nil, apperrors.NewAppError(apperrors.ErrInvalidArgument, "workspace is required for a workspace logo", nil)
	}

	if req.Context.IsSingleSlot() {
		unlock := u.lockSlot(slotKey(req.Context, req.OrganizationID, req.WorkspaceID, &caller.ID))
		defer unlock()

		prior, err := u.fileRepo.GetActiveSlot(ctx, req.Context, req.OrganizationID, req.WorkspaceID, &caller.ID)
		if err != nil {
			return nil, err
		}
		if prior != nil {
			if err := u.fileRepo.SoftDelete(ctx, prior.ID); err != nil {
				return nil, err
			}
			if err := u.blobRepo.Delete(ctx, prior.StorageID); err != nil {
				u.logger.Warn("Failed to delete replaced blob",
					zap.String("storage_id", prior.StorageID),
					zap.Error(err))
			}
		}
	}

	file := &model.File{
		ID:             uuid.New(),
		StorageID:      req.StorageID,
		OrganizationID: req.OrganizationID,
		WorkspaceID:    req.WorkspaceID,
		Context:        req.Context,
		FileName:       req.FileName,
		FileType:       req.FileType,
		FileSize:       req.FileSize,
		Category:       model.FileCategory(req.FileType),
		AccessLevel:    accessLevelFor(req.Context, req.WorkspaceID),
		UploadedBy:     caller.ID,
		MessageID:      req.MessageID,
	}
	if err := u.fileRepo.Create(ctx, file); err != nil {
		return nil, err
	}

	return file, nil
}

// GetFileURL re-derives access from the file's access level on every call
// and issues a presigned GET.
func (u *FileUseCase) GetFileURL(ctx context.Context, token string, fileID uuid.UUID) (string, error) {
	caller, err := u.auth.Authenticate(ctx, token)
	if err != nil {
		return "", err
	}

	file, err := u.fileRepo.GetByID(ctx, fileID)
	if err != nil {
		return "", err
	}
	if file == nil {
		return "", apperrors.NewAppError(apperrors.ErrNotFound, "file not found", nil)
	}

	switch file.AccessLevel {
	case model.FileAccessWorkspace:
		if file.WorkspaceID == nil {
			return "", apperrors.NewAppError(apperrors.ErrInvariantViolation, "workspace-scoped file has no workspace", nil)
		}
		member, err := u.wsMemberRepo.GetByWorkspaceAndUser(ctx, *file.WorkspaceID, caller.ID)
		if err != nil {
			return "", err
		}
		if member == nil {
			return "", apperrors.NewAppError(apperrors.ErrUnauthorized, "not a workspace member", nil)
		}
	case model.FileAccessPrivate:
		if file.UploadedBy != caller.ID {
			orgMember, err := u.orgMemberRepo.GetByOrgAndUser(ctx, file.OrganizationID, caller.ID)
			if err != nil {
				return "", err
			}
			if !HasOrgCapability(orgMember, CapabilityIsAdmin) {
				return "", apperrors.NewAppError(apperrors.ErrUnauthorized, "file is private", nil)
			}
		}
	default:
		orgMember, err := u.orgMemberRepo.GetByOrgAndUser(ctx, file.OrganizationID, caller.ID)
		if err != nil {
			return "", err
		}
		if !orgMember.IsActive() {
			return "", apperrors.NewAppError(apperrors.ErrUnauthorized, "not an organization member", nil)
		}
	}

	return u.blobRepo.GetURL(ctx, file.StorageID)
}

// Delete removes a file: the metadata row is soft-deleted, the blob is gone
// for good. Uploader or organization admin.
func (u *FileUseCase) Delete(ctx context.Context, token string, fileID uuid.UUID) error {
	caller, err := u.auth.Authenticate(ctx, token)
	if err != nil {
		return err
	}

	file, err := u.fileRepo.GetByID(ctx, fileID)
	if err != nil {
		return err
	}
	if file == nil {
		return apperrors.NewAppError(apperrors.ErrNotFound, "file not found", nil)
	}

	if file.UploadedBy != caller.ID {
		orgMember, err := u.orgMemberRepo.GetByOrgAndUser(ctx, file.OrganizationID, caller.ID)
		if err != nil {
			return err
		}
		if !HasOrgCapability(orgMember, CapabilityIsAdmin) {
			return apperrors.NewAppError(apperrors.ErrUnauthorized, "only the uploader or an organization admin may delete", nil)
		}
	}

	if err := u.fileRepo.SoftDelete(ctx, file.ID); err != nil {
		return err
	}

	if err := u.blobRepo.Delete(ctx, file.StorageID); err != nil {
		return fmt.Errorf("failed to delete blob: %w", err)
	}

	return nil
}
