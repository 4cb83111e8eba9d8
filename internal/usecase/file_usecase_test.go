package usecase_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/huddlehq/huddle-backend/internal/domain/model"
	"github.com/huddlehq/huddle-backend/internal/usecase"
	apperrors "github.com/huddlehq/huddle-backend/pkg/errors"
)

type fileFixture struct {
	fileRepo      *MockFileRepository
	blobRepo      *MockBlobRepository
	orgRepo       *MockOrganizationRepository
	orgMemberRepo *MockOrgMemberRepository
	wsRepo        *MockWorkspaceRepository
	wsMemberRepo  *MockWorkspaceMemberRepository
	files         *usecase.FileUseCase
}

func newFileFixture(caller *model.User) *fileFixture {
	f := &fileFixture{
		fileRepo:      new(MockFileRepository),
		blobRepo:      new(MockBlobRepository),
		orgRepo:       new(MockOrganizationRepository),
		orgMemberRepo: new(MockOrgMemberRepository),
		wsRepo:        new(MockWorkspaceRepository),
		wsMemberRepo:  new(MockWorkspaceMemberRepository),
	}
	f.files = usecase.NewFileUseCase(
		authAs(caller), f.fileRepo, f.blobRepo,
		f.orgRepo, f.orgMemberRepo, f.wsRepo, f.wsMemberRepo,
		zap.NewNop(),
	)
	return f
}

func (f *fileFixture) orgMemberScope(org *model.Organization, user *model.User, role model.OrgRole) {
	f.orgRepo.On("GetByID", mock.Anything, org.ID).Return(org, nil)
	f.orgMemberRepo.On("GetByOrgAndUser", mock.Anything, org.ID, user.ID).
		Return(orgMemberWith(org.ID, user.ID, role), nil)
}

func TestFileUseCase_GenerateUploadURL(t *testing.T) {
	ctx := context.Background()
	caller := &model.User{ID: uuid.New()}
	org := activeOrg(uuid.New())

	t.Run("issues a fresh storage id and presigned URL", func(t *testing.T) {
		f := newFileFixture(caller)
		f.orgMemberScope(org, caller, model.OrgRoleMember)

		f.blobRepo.On("GenerateUploadURL", ctx, mock.AnythingOfType("string"), "image/png").
			Return("https://blob/upload", nil)

		ticket, err := f.files.GenerateUploadURL(ctx, "token", usecase.GenerateUploadURLRequest{
			Context:        model.FileContextProfilePicture,
			FileName:       "me.png",
			FileType:       "image/png",
			FileSize:       1024,
			OrganizationID: org.ID,
		})

		assert.NoError(t, err)
		assert.NotEmpty(t, ticket.StorageID)
		assert.Equal(t, "https://blob/upload", ticket.UploadURL)
	})

	t.Run("rejects an unknown context", func(t *testing.T) {
		f := newFileFixture(caller)
		f.orgMemberScope(org, caller, model.OrgRoleMember)

		_, err := f.files.GenerateUploadURL(ctx, "token", usecase.GenerateUploadURLRequest{
			Context:        "mystery",
			FileName:       "x",
			FileType:       "image/png",
			FileSize:       1,
			OrganizationID: org.ID,
		})

		assert.True(t, apperrors.HasCode(err, apperrors.ErrInvalidArgument))
		f.blobRepo.AssertNotCalled(t, "GenerateUploadURL")
	})

	t.Run("rejects an oversized profile picture", func(t *testing.T) {
		f := newFileFixture(caller)
		f.orgMemberScope(org, caller, model.OrgRoleMember)

		_, err := f.files.GenerateUploadURL(ctx, "token", usecase.GenerateUploadURLRequest{
			Context:        model.FileContextProfilePicture,
			FileName:       "huge.png",
			FileType:       "image/png",
			FileSize:       6 << 20,
			OrganizationID: org.ID,
		})

		assert.True(t, apperrors.HasCode(err, apperrors.ErrInvalidArgument))
	})

	t.Run("rejects a disallowed content type for a logo", func(t *testing.T) {
		f := newFileFixture(caller)
		f.orgMemberScope(org, caller, model.OrgRoleMember)

		_, err := f.files.GenerateUploadURL(ctx, "token", usecase.GenerateUploadURLRequest{
			Context:        model.FileContextOrgLogo,
			FileName:       "logo.pdf",
			FileType:       "application/pdf",
			FileSize:       1024,
			OrganizationID: org.ID,
		})

		assert.True(t, apperrors.HasCode(err, apperrors.ErrInvalidArgument))
	})

	t.Run("workspace logo requires a workspace", func(t *testing.T) {
		f := newFileFixture(caller)
		f.orgMemberScope(org, caller, model.OrgRoleMember)

		_, err := f.files.GenerateUploadURL(ctx, "token", usecase.GenerateUploadURLRequest{
			Context:        model.FileContextWorkspaceLogo,
			FileName:       "logo.png",
			FileType:       "image/png",
			FileSize:       1024,
			OrganizationID: org.ID,
		})

		assert.True(t, apperrors.HasCode(err, apperrors.ErrInvalidArgument))
	})
}

func TestFileUseCase_StoreMetadata(t *testing.T) {
	ctx := context.Background()
	caller := &model.User{ID: uuid.New()}
	org := activeOrg(uuid.New())

	t.Run("chat attachment is stored without slot handling", func(t *testing.T) {
		f := newFileFixture(caller)
		f.orgMemberScope(org, caller, model.OrgRoleMember)

		wsID := uuid.New()
		f.wsRepo.On("GetByID", ctx, wsID).Return(&model.Workspace{ID: wsID, OrganizationID: org.ID}, nil)
		f.wsMemberRepo.On("GetByWorkspaceAndUser", ctx, wsID, caller.ID).
			Return(&model.WorkspaceMember{ID: 1, WorkspaceID: wsID, UserID: caller.ID, Role: model.WorkspaceRoleMember}, nil)
		f.fileRepo.On("Create", ctx, mock.AnythingOfType("*model.File")).Return(nil)

		file, err := f.files.StoreMetadata(ctx, "token", usecase.StoreFileMetadataRequest{
			StorageID:      "blob-1",
			Context:        model.FileContextChatAttachment,
			FileName:       "clip.mp4",
			FileType:       "video/mp4",
			FileSize:       10 << 20,
			OrganizationID: org.ID,
			WorkspaceID:    &wsID,
		})

		assert.NoError(t, err)
		assert.Equal(t, model.FileAccessWorkspace, file.AccessLevel)
		assert.Equal(t, "video", file.Category)
		f.fileRepo.AssertNotCalled(t, "GetActiveSlot")
	})

	t.Run("profile picture replaces the prior slot occupant", func(t *testing.T) {
		f := newFileFixture(caller)
		f.orgMemberScope(org, caller, model.OrgRoleMember)

		prior := &model.File{ID: uuid.New(), StorageID: "old-blob"}
		f.fileRepo.On("GetActiveSlot", ctx, model.FileContextProfilePicture, org.ID, (*uuid.UUID)(nil), &caller.ID).
			Return(prior, nil)
		f.fileRepo.On("SoftDelete", ctx, prior.ID).Return(nil)
		f.blobRepo.On("Delete", ctx, "old-blob").Return(nil)
		f.fileRepo.On("Create", ctx, mock.AnythingOfType("*model.File")).Return(nil)

		file, err := f.files.StoreMetadata(ctx, "token", usecase.StoreFileMetadataRequest{
			StorageID:      "new-blob",
			Context:        model.FileContextProfilePicture,
			FileName:       "me.png",
			FileType:       "image/png",
			FileSize:       1024,
			OrganizationID: org.ID,
		})

		assert.NoError(t, err)
		assert.Equal(t, model.FileAccessPrivate, file.AccessLevel)
		assert.Equal(t, "new-blob", file.StorageID)
		f.fileRepo.AssertCalled(t, "SoftDelete", ctx, prior.ID)
		f.blobRepo.AssertCalled(t, "Delete", ctx, "old-blob")
	})

	t.Run("replaced blob delete failure does not fail the upload", func(t *testing.T) {
		f := newFileFixture(caller)
		f.orgMemberScope(org, caller, model.OrgRoleMember)

		prior := &model.File{ID: uuid.New(), StorageID: "old-blob"}
		f.fileRepo.On("GetActiveSlot", ctx, model.FileContextProfilePicture, org.ID, (*uuid.UUID)(nil), &caller.ID).
			Return(prior, nil)
		f.fileRepo.On("SoftDelete", ctx, prior.ID).Return(nil)
		f.blobRepo.On("Delete", ctx, "old-blob").Return(assert.AnError)
		f.fileRepo.On("Create", ctx, mock.AnythingOfType("*model.File")).Return(nil)

		_, err := f.files.StoreMetadata(ctx, "token", usecase.StoreFileMetadataRequest{
			StorageID:      "new-blob",
			Context:        model.FileContextProfilePicture,
			FileName:       "me.png",
			FileType:       "image/png",
			FileSize:       1024,
			OrganizationID: org.ID,
		})

		assert.NoError(t, err)
	})

	t.Run("empty slot stores without deleting anything", func(t *testing.T) {
		f := newFileFixture(caller)
		f.orgMemberScope(org, caller, model.OrgRoleAdmin)

		f.fileRepo.On("GetActiveSlot", ctx, model.FileContextOrgLogo, org.ID, (*uuid.UUID)(nil), &caller.ID).
			Return(nil, nil)
		f.fileRepo.On("Create", ctx, mock.AnythingOfType("*model.File")).Return(nil)

		file, err := f.files.StoreMetadata(ctx, "token", usecase.StoreFileMetadataRequest{
			StorageID:      "logo-blob",
			Context:        model.FileContextOrgLogo,
			FileName:       "logo.png",
			FileType:       "image/png",
			FileSize:       1024,
			OrganizationID: org.ID,
		})

		assert.NoError(t, err)
		assert.Equal(t, model.FileAccessOrganization, file.AccessLevel)
		f.fileRepo.AssertNotCalled(t, "SoftDelete")
		f.blobRepo.AssertNotCalled(t, "Delete")
	})
}

func TestFileUseCase_GetFileURL(t *testing.T) {
	ctx := context.Background()
	caller := &model.User{ID: uuid.New()}
	orgID := uuid.New()

	t.Run("workspace-scoped file requires workspace membership", func(t *testing.T) {
		f := newFileFixture(caller)
		wsID := uuid.New()

		file := &model.File{
			ID:             uuid.New(),
			StorageID:      "blob-1",
			OrganizationID: orgID,
			WorkspaceID:    &wsID,
			AccessLevel:    model.FileAccessWorkspace,
		}
		f.fileRepo.On("GetByID", ctx, file.ID).Return(file, nil)
		f.wsMemberRepo.On("GetByWorkspaceAndUser", ctx, wsID, caller.ID).Return(nil, nil)

		_, err := f.files.GetFileURL(ctx, "token", file.ID)

		assert.True(t, apperrors.HasCode(err, apperrors.ErrUnauthorized))
	})

	t.Run("private file is visible to its uploader", func(t *testing.T) {
		f := newFileFixture(caller)

		file := &model.File{
			ID:             uuid.New(),
			StorageID:      "blob-2",
			OrganizationID: orgID,
			AccessLevel:    model.FileAccessPrivate,
			UploadedBy:     caller.ID,
		}
		f.fileRepo.On("GetByID", ctx, file.ID).Return(file, nil)
		f.blobRepo.On("GetURL", ctx, "blob-2").Return("https://blob/get", nil)

		url, err := f.files.GetFileURL(ctx, "token", file.ID)

		assert.NoError(t, err)
		assert.Equal(t, "https://blob/get", url)
	})

	t.Run("private file is hidden from other members", func(t *testing.T) {
		f := newFileFixture(caller)

		file := &model.File{
			ID:             uuid.New(),
			StorageID:      "blob-3",
			OrganizationID: orgID,
			AccessLevel:    model.FileAccessPrivate,
			UploadedBy:     uuid.New(),
		}
		f.fileRepo.On("GetByID", ctx, file.ID).Return(file, nil)
		f.orgMemberRepo.On("GetByOrgAndUser", ctx, orgID, caller.ID).
			Return(orgMemberWith(orgID, caller.ID, model.OrgRoleMember), nil)

		_, err := f.files.GetFileURL(ctx, "token", file.ID)

		assert.True(t, apperrors.HasCode(err, apperrors.ErrUnauthorized))
	})

	t.Run("private file is visible to an organization admin", func(t *testing.T) {
		f := newFileFixture(caller)

		file := &model.File{
			ID:             uuid.New(),
			StorageID:      "blob-4",
			OrganizationID: orgID,
			AccessLevel:    model.FileAccessPrivate,
			UploadedBy:     uuid.New(),
		}
		f.fileRepo.On("GetByID", ctx, file.ID).Return(file, nil)
		f.orgMemberRepo.On("GetByOrgAndUser", ctx, orgID, caller.ID).
			Return(orgMemberWith(orgID, caller.ID, model.OrgRoleAdmin), nil)
		f.blobRepo.On("GetURL", ctx, "blob-4").Return("https://blob/get", nil)

		_, err := f.files.GetFileURL(ctx, "token", file.ID)

		assert.NoError(t, err)
	})

	t.Run("deleted file is not found", func(t *testing.T) {
		f := newFileFixture(caller)
		fileID := uuid.New()

		f.fileRepo.On("GetByID", ctx, fileID).Return(nil, nil)

		_, err := f.files.GetFileURL(ctx, "token", fileID)

		assert.True(t, apperrors.HasCode(err, apperrors.ErrNotFound))
	})
}

func TestFileUseCase_Delete(t *testing.T) {
	ctx := context.Background()
	caller := &model.User{ID: uuid.New()}
	orgID := uuid.New()

	t.Run("uploader deletes the row and the blob", func(t *testing.T) {
		f := newFileFixture(caller)

		file := &model.File{ID: uuid.New(), StorageID: "blob-1", OrganizationID: orgID, UploadedBy: caller.ID}
		f.fileRepo.On("GetByID", ctx, file.ID).Return(file, nil)
		f.fileRepo.On("SoftDelete", ctx, file.ID).Return(nil)
		f.blobRepo.On("Delete", ctx, "blob-1").Return(nil)

		err := f.files.Delete(ctx, "token", file.ID)

		assert.NoError(t, err)
		f.fileRepo.AssertExpectations(t)
		f.blobRepo.AssertExpectations(t)
	})

	t.Run("a bystander cannot delete", func(t *testing.T) {
		f := newFileFixture(caller)

		file := &model.File{ID: uuid.New(), StorageID: "blob-2", OrganizationID: orgID, UploadedBy: uuid.New()}
		f.fileRepo.On("GetByID", ctx, file.ID).Return(file, nil)
		f.orgMemberRepo.On("GetByOrgAndUser", ctx, orgID, caller.ID).
			Return(orgMemberWith(orgID, caller.ID, model.OrgRoleMember), nil)

		err := f.files.Delete(ctx, "token", file.ID)

		assert.True(t, apperrors.HasCode(err, apperrors.ErrUnauthorized))
		f.fileRepo.AssertNotCalled(t, "SoftDelete")
	})

	t.Run("blob delete failure surfaces after the soft delete", func(t *testing.T) {
		f := newFileFixture(caller)

		file := &model.File{ID: uuid.New(), StorageID: "blob-3", OrganizationID: orgID, UploadedBy: caller.ID}
		f.fileRepo.On("GetByID", ctx, file.ID).Return(file, nil)
		f.fileRepo.On("SoftDelete", ctx, file.ID).Return(nil)
		f.blobRepo.On("Delete", ctx, "blob-3").Return(assert.AnError)

		err := f.files.Delete(ctx, "token", file.ID)

		assert.Error(t, err)
	})
}
