package usecase_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/huddlehq/huddle-backend/internal/domain/model"
	"github.com/huddlehq/huddle-backend/internal/domain/repository"
)

// MockAuthenticator is a mock implementation of Authenticator
type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Authenticate(ctx context.Context, token string) (*model.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

// authAs returns an authenticator that resolves every token to the user.
func authAs(user *model.User) *MockAuthenticator {
	auth := new(MockAuthenticator)
	auth.On("Authenticate", mock.Anything, mock.Anything).Return(user, nil)
	return auth
}

// MockSessionRepository is a mock implementation of SessionRepository
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Create(ctx context.Context, session *model.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) GetByToken(ctx context.Context, token string) (*model.Session, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Session), args.Error(1)
}

func (m *MockSessionRepository) DeleteByToken(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockSessionRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockSessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.User, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) GetByPhone(ctx context.Context, phone string) (*model.User, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.UserStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// MockOTPRepository is a mock implementation of OTPRepository
type MockOTPRepository struct {
	mock.Mock
}

func (m *MockOTPRepository) Create(ctx context.Context, otp *model.OTP) error {
	args := m.Called(ctx, otp)
	return args.Error(0)
}

func (m *MockOTPRepository) GetByPhone(ctx context.Context, phone string) (*model.OTP, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OTP), args.Error(1)
}

func (m *MockOTPRepository) DeleteByPhone(ctx context.Context, phone string) error {
	args := m.Called(ctx, phone)
	return args.Error(0)
}

func (m *MockOTPRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOTPRepository) MarkUsed(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockSMSRepository is a mock implementation of SMSRepository
type MockSMSRepository struct {
	mock.Mock
}

func (m *MockSMSRepository) SendCode(ctx context.Context, phone, code string) error {
	args := m.Called(ctx, phone, code)
	return args.Error(0)
}

// MockMailRepository is a mock implementation of MailRepository
type MockMailRepository struct {
	mock.Mock
}

func (m *MockMailRepository) SendMail(ctx context.Context, to, subject, body string) error {
	args := m.Called(ctx, to, subject, body)
	return args.Error(0)
}

// MockOrganizationRepository is a mock implementation of OrganizationRepository
type MockOrganizationRepository struct {
	mock.Mock
}

func (m *MockOrganizationRepository) Create(ctx context.Context, org *model.Organization) error {
	args := m.Called(ctx, org)
	return args.Error(0)
}

func (m *MockOrganizationRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Organization, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) GetBySlug(ctx context.Context, slug string) (*model.Organization, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) Update(ctx context.Context, org *model.Organization) error {
	args := m.Called(ctx, org)
	return args.Error(0)
}

// MockOrgMemberRepository is a mock implementation of OrgMemberRepository
type MockOrgMemberRepository struct {
	mock.Mock
}

func (m *MockOrgMemberRepository) Create(ctx context.Context, member *model.OrganizationMember) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockOrgMemberRepository) GetByOrgAndUser(ctx context.Context, orgID, userID uuid.UUID) (*model.OrganizationMember, error) {
	args := m.Called(ctx, orgID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrganizationMember), args.Error(1)
}

func (m *MockOrgMemberRepository) ListByOrg(ctx context.Context, orgID uuid.UUID) ([]model.OrganizationMember, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.OrganizationMember), args.Error(1)
}

func (m *MockOrgMemberRepository) Update(ctx context.Context, member *model.OrganizationMember) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockOrgMemberRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOrgMemberRepository) CountActiveByRole(ctx context.Context, orgID uuid.UUID, role model.OrgRole) (int64, error) {
	args := m.Called(ctx, orgID, role)
	return args.Get(0).(int64), args.Error(1)
}

// MockOrgInvitationRepository is a mock implementation of OrgInvitationRepository
type MockOrgInvitationRepository struct {
	mock.Mock
}

func (m *MockOrgInvitationRepository) Create(ctx context.Context, invitation *model.OrganizationInvitation) error {
	args := m.Called(ctx, invitation)
	return args.Error(0)
}

func (m *MockOrgInvitationRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.OrganizationInvitation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrganizationInvitation), args.Error(1)
}

func (m *MockOrgInvitationRepository) GetByToken(ctx context.Context, token string) (*model.OrganizationInvitation, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrganizationInvitation), args.Error(1)
}

func (m *MockOrgInvitationRepository) GetPendingByOrgAndEmail(ctx context.Context, orgID uuid.UUID, email string) (*model.OrganizationInvitation, error) {
	args := m.Called(ctx, orgID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrganizationInvitation), args.Error(1)
}

func (m *MockOrgInvitationRepository) ListByOrg(ctx context.Context, orgID uuid.UUID) ([]model.OrganizationInvitation, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.OrganizationInvitation), args.Error(1)
}

func (m *MockOrgInvitationRepository) Update(ctx context.Context, invitation *model.OrganizationInvitation) error {
	args := m.Called(ctx, invitation)
	return args.Error(0)
}

func (m *MockOrgInvitationRepository) ExpirePending(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

// MockWorkspaceRepository is a mock implementation of WorkspaceRepository
type MockWorkspaceRepository struct {
	mock.Mock
}

func (m *MockWorkspaceRepository) Create(ctx context.Context, workspace *model.Workspace) error {
	args := m.Called(ctx, workspace)
	return args.Error(0)
}

func (m *MockWorkspaceRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Workspace, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Workspace), args.Error(1)
}

func (m *MockWorkspaceRepository) Update(ctx context.Context, workspace *model.Workspace) error {
	args := m.Called(ctx, workspace)
	return args.Error(0)
}

// MockWorkspaceMemberRepository is a mock implementation of WorkspaceMemberRepository
type MockWorkspaceMemberRepository struct {
	mock.Mock
}

func (m *MockWorkspaceMemberRepository) Create(ctx context.Context, member *model.WorkspaceMember) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockWorkspaceMemberRepository) GetByWorkspaceAndUser(ctx context.Context, workspaceID, userID uuid.UUID) (*model.WorkspaceMember, error) {
	args := m.Called(ctx, workspaceID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WorkspaceMember), args.Error(1)
}

func (m *MockWorkspaceMemberRepository) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]model.WorkspaceMember, error) {
	args := m.Called(ctx, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.WorkspaceMember), args.Error(1)
}

func (m *MockWorkspaceMemberRepository) Update(ctx context.Context, member *model.WorkspaceMember) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockWorkspaceMemberRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockWorkspaceMemberRepository) CountAdmins(ctx context.Context, workspaceID uuid.UUID) (int64, error) {
	args := m.Called(ctx, workspaceID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockWorkspaceMemberRepository) DeleteByOrgAndUser(ctx context.Context, orgID, userID uuid.UUID) error {
	args := m.Called(ctx, orgID, userID)
	return args.Error(0)
}

// MockWorkspaceInvitationRepository is a mock implementation of WorkspaceInvitationRepository
type MockWorkspaceInvitationRepository struct {
	mock.Mock
}

func (m *MockWorkspaceInvitationRepository) Create(ctx context.Context, invitation *model.WorkspaceInvitation) error {
	args := m.Called(ctx, invitation)
	return args.Error(0)
}

func (m *MockWorkspaceInvitationRepository) GetByID(ctx context.Context, id int64) (*model.WorkspaceInvitation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WorkspaceInvitation), args.Error(1)
}

func (m *MockWorkspaceInvitationRepository) GetPendingByWorkspaceAndUser(ctx context.Context, workspaceID, userID uuid.UUID) (*model.WorkspaceInvitation, error) {
	args := m.Called(ctx, workspaceID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WorkspaceInvitation), args.Error(1)
}

func (m *MockWorkspaceInvitationRepository) Update(ctx context.Context, invitation *model.WorkspaceInvitation) error {
	args := m.Called(ctx, invitation)
	return args.Error(0)
}

func (m *MockWorkspaceInvitationRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockMessageRepository is a mock implementation of MessageRepository
type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) Create(ctx context.Context, message *model.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockMessageRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Message, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Message), args.Error(1)
}

func (m *MockMessageRepository) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]model.Message, error) {
	args := m.Called(ctx, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Message), args.Error(1)
}

func (m *MockMessageRepository) Update(ctx context.Context, message *model.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockMessageRepository) IncrementThreadCount(ctx context.Context, parentID uuid.UUID) error {
	args := m.Called(ctx, parentID)
	return args.Error(0)
}

// MockReactionRepository is a mock implementation of ReactionRepository
type MockReactionRepository struct {
	mock.Mock
}

func (m *MockReactionRepository) Create(ctx context.Context, reaction *model.Reaction) error {
	args := m.Called(ctx, reaction)
	return args.Error(0)
}

func (m *MockReactionRepository) Get(ctx context.Context, messageID, userID uuid.UUID, emoji string) (*model.Reaction, error) {
	args := m.Called(ctx, messageID, userID, emoji)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Reaction), args.Error(1)
}

func (m *MockReactionRepository) ListByMessage(ctx context.Context, messageID uuid.UUID) ([]model.Reaction, error) {
	args := m.Called(ctx, messageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Reaction), args.Error(1)
}

func (m *MockReactionRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockMessageReadRepository is a mock implementation of MessageReadRepository
type MockMessageReadRepository struct {
	mock.Mock
}

func (m *MockMessageReadRepository) Upsert(ctx context.Context, read *model.MessageRead) error {
	args := m.Called(ctx, read)
	return args.Error(0)
}

func (m *MockMessageReadRepository) ListByMessage(ctx context.Context, messageID uuid.UUID) ([]model.MessageRead, error) {
	args := m.Called(ctx, messageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.MessageRead), args.Error(1)
}

func (m *MockMessageReadRepository) ListUnreadMessageIDs(ctx context.Context, workspaceID, userID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, workspaceID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

// MockFileRepository is a mock implementation of FileRepository
type MockFileRepository struct {
	mock.Mock
}

func (m *MockFileRepository) Create(ctx context.Context, file *model.File) error {
	args := m.Called(ctx, file)
	return args.Error(0)
}

func (m *MockFileRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.File, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.File), args.Error(1)
}

func (m *MockFileRepository) GetActiveSlot(ctx context.Context, fileContext model.FileContext, orgID uuid.UUID, workspaceID, uploaderID *uuid.UUID) (*model.File, error) {
	args := m.Called(ctx, fileContext, orgID, workspaceID, uploaderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.File), args.Error(1)
}

func (m *MockFileRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockBlobRepository is a mock implementation of BlobRepository
type MockBlobRepository struct {
	mock.Mock
}

func (m *MockBlobRepository) GenerateUploadURL(ctx context.Context, storageID, contentType string) (string, error) {
	args := m.Called(ctx, storageID, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockBlobRepository) GetURL(ctx context.Context, storageID string) (string, error) {
	args := m.Called(ctx, storageID)
	return args.String(0), args.Error(1)
}

func (m *MockBlobRepository) Delete(ctx context.Context, storageID string) error {
	args := m.Called(ctx, storageID)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishWorkspaceEvent(ctx context.Context, event *repository.WorkspaceEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
