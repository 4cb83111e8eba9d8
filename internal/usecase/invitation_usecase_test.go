package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/huddlehq/huddle-backend/internal/domain/model"
	"github.com/huddlehq/huddle-backend/internal/usecase"
	apperrors "github.com/huddlehq/huddle-backend/pkg/errors"
)

type invitationFixture struct {
	orgRepo       *MockOrganizationRepository
	orgMemberRepo *MockOrgMemberRepository
	orgInvRepo    *MockOrgInvitationRepository
	wsRepo        *MockWorkspaceRepository
	wsMemberRepo  *MockWorkspaceMemberRepository
	wsInvRepo     *MockWorkspaceInvitationRepository
	userRepo      *MockUserRepository
	mailRepo      *MockMailRepository
	invitations   *usecase.InvitationUseCase
}

func newInvitationFixture(caller *model.User) *invitationFixture {
	f := &invitationFixture{
		orgRepo:       new(MockOrganizationRepository),
		orgMemberRepo: new(MockOrgMemberRepository),
		orgInvRepo:    new(MockOrgInvitationRepository),
		wsRepo:        new(MockWorkspaceRepository),
		wsMemberRepo:  new(MockWorkspaceMemberRepository),
		wsInvRepo:     new(MockWorkspaceInvitationRepository),
		userRepo:      new(MockUserRepository),
		mailRepo:      new(MockMailRepository),
	}
	f.invitations = usecase.NewInvitationUseCase(
		authAs(caller), f.orgRepo, f.orgMemberRepo, f.orgInvRepo,
		f.wsRepo, f.wsMemberRepo, f.wsInvRepo, f.userRepo, f.mailRepo,
		"https://huddle.dev/invitations", zap.NewNop(),
	)
	return f
}

func TestInvitationUseCase_InviteToOrganization(t *testing.T) {
	ctx := context.Background()
	caller := &model.User{ID: uuid.New(), Name: "Kim", Email: "kim@acme.com"}
	orgID := uuid.New()

	t.Run("creates a pending invitation and mails the link", func(t *testing.T) {
		f := newInvitationFixture(caller)

		f.orgRepo.On("GetByID", ctx, orgID).Return(activeOrg(orgID), nil)
		f.orgMemberRepo.On("GetByOrgAndUser", ctx, orgID, caller.ID).
			Return(orgMemberWith(orgID, caller.ID, model.OrgRoleAdmin), nil)
		f.userRepo.On("GetByEmail", ctx, "lee@acme.com").Return(nil, nil)
		f.orgInvRepo.On("GetPendingByOrgAndEmail", ctx, orgID, "lee@acme.com").Return(nil, nil)
		f.orgInvRepo.On("Create", ctx, mock.AnythingOfType("*model.OrganizationInvitation")).Return(nil)
		f.mailRepo.On("SendMail", ctx, "lee@acme.com", mock.AnythingOfType("string"), mock.AnythingOfType("string")).Return(nil)

		invitation, err := f.invitations.InviteToOrganization(ctx, "token", usecase.CreateOrgInvitationRequest{
			OrganizationID: orgID,
			Email:          " Lee@Acme.com ",
			Role:           model.OrgRoleMember,
		})

		assert.NoError(t, err)
		assert.Equal(t, "lee@acme.com", invitation.Email)
		assert.Equal(t, model.InvitationStatusPending, invitation.Status)
		assert.Len(t, invitation.Token, usecase.InvitationTokenLength)
		assert.WithinDuration(t, time.Now().Add(usecase.InvitationTTL), invitation.ExpiresAt, time.Minute)
		f.mailRepo.AssertExpectations(t)
	})

	t.Run("email outside the allowed domain is rejected", func(t *testing.T) {
		f := newInvitationFixture(caller)

		org := activeOrg(orgID)
		org.AllowedEmailDomain = "acme.com"
		f.orgRepo.On("GetByID", ctx, orgID).Return(org, nil)
		f.orgMemberRepo.On("GetByOrgAndUser", ctx, orgID, caller.ID).
			Return(orgMemberWith(orgID, caller.ID, model.OrgRoleAdmin), nil)

		_, err := f.invitations.InviteToOrganization(ctx, "token", usecase.CreateOrgInvitationRequest{
			OrganizationID: orgID,
			Email:          "lee@other.com",
		})

		assert.True(t, apperrors.HasCode(err, apperrors.ErrInvalidArgument))
	})

	t.Run("live pending invitation to the same email conflicts", func(t *testing.T) {
		f := newInvitationFixture(caller)

		f.orgRepo.On("GetByID", ctx, orgID).Return(activeOrg(orgID), nil)
		f.orgMemberRepo.On("GetByOrgAndUser", ctx, orgID, caller.ID).
			Return(orgMemberWith(orgID, caller.ID, model.OrgRoleAdmin), nil)
		f.userRepo.On("GetByEmail", ctx, "lee@acme.com").Return(nil, nil)
		f.orgInvRepo.On("GetPendingByOrgAndEmail", ctx, orgID, "lee@acme.com").
			Return(&model.OrganizationInvitation{
				ID:        uuid.New(),
				Status:    model.InvitationStatusPending,
				ExpiresAt: time.Now().Add(time.Hour),
			}, nil)

		_, err := f.invitations.InviteToOrganization(ctx, "token", usecase.CreateOrgInvitationRequest{
			OrganizationID: orgID,
			Email:          "lee@acme.com",
		})

		assert.True(t, apperrors.HasCode(err, apperrors.ErrConflict))
		f.orgInvRepo.AssertNotCalled(t, "Create")
	})

	t.Run("stale pending invitation is expired and replaced", func(t *testing.T) {
		f := newInvitationFixture(caller)

		stale := &model.OrganizationInvitation{
			ID:        uuid.New(),
			Status:    model.InvitationStatusPending,
			ExpiresAt: time.Now().Add(-time.Hour),
		}
		f.orgRepo.On("GetByID", ctx, orgID).Return(activeOrg(orgID), nil)
		f.orgMemberRepo.On("GetByOrgAndUser", ctx, orgID, caller.ID).
			Return(orgMemberWith(orgID, caller.ID, model.OrgRoleAdmin), nil)
		f.userRepo.On("GetByEmail", ctx, "lee@acme.com").Return(nil, nil)
		f.orgInvRepo.On("GetPendingByOrgAndEmail", ctx, orgID, "lee@acme.com").Return(stale, nil)
		f.orgInvRepo.On("Update", ctx, stale).Return(nil)
		f.orgInvRepo.On("Create", ctx, mock.AnythingOfType("*model.OrganizationInvitation")).Return(nil)
		f.mailRepo.On("SendMail", ctx, "lee@acme.com", mock.Anything, mock.Anything).Return(nil)

		invitation, err := f.invitations.InviteToOrganization(ctx, "token", usecase.CreateOrgInvitationRequest{
			OrganizationID: orgID,
			Email:          "lee@acme.com",
		})

		assert.NoError(t, err)
		assert.Equal(t, model.InvitationStatusExpired, stale.Status)
		assert.Equal(t, model.InvitationStatusPending, invitation.Status)
	})

	t.Run("mail failure surfaces to the caller", func(t *testing.T) {
		f := newInvitationFixture(caller)

		f.orgRepo.On("GetByID", ctx, orgID).Return(activeOrg(orgID), nil)
		f.orgMemberRepo.On("GetByOrgAndUser", ctx, orgID, caller.ID).
			Return(orgMemberWith(orgID, caller.ID, model.OrgRoleAdmin), nil)
		f.userRepo.On("GetByEmail", ctx, "lee@acme.com").Return(nil, nil)
		f.orgInvRepo.On("GetPendingByOrgAndEmail", ctx, orgID, "lee@acme.com").Return(nil, nil)
		f.orgInvRepo.On("Create", ctx, mock.AnythingOfType("*model.OrganizationInvitation")).Return(nil)
		f.mailRepo.On("SendMail", ctx, "lee@acme.com", mock.Anything, mock.Anything).Return(assert.AnError)

		_, err := f.invitations.InviteToOrganization(ctx, "token", usecase.CreateOrgInvitationRequest{
			OrganizationID: orgID,
			Email:          "lee@acme.com",
		})

		assert.Error(t, err)
	})
}

func TestInvitationUseCase_AcceptOrgInvitation(t *testing.T) {
	ctx := context.Background()
	caller := &model.User{ID: uuid.New(), Email: "lee@acme.com"}
	orgID := uuid.New()

	pendingInvitation := func() *model.OrganizationInvitation {
		return &model.OrganizationInvitation{
			ID:             uuid.New(),
			OrganizationID: orgID,
			Email:          "lee@acme.com",
			Token:          "inv-token",
			Role:           model.OrgRoleMember,
			Status:         model.InvitationStatusPending,
			ExpiresAt:      time.Now().Add(time.Hour),
		}
	}

	t.Run("accept creates the membership with the proposed grants", func(t *testing.T) {
		f := newInvitationFixture(caller)

		invitation := pendingInvitation()
		invitation.CanCreateWorkspaces = true
		f.orgInvRepo.On("GetByToken", ctx, "inv-token").Return(invitation, nil)
		f.orgMemberRepo.On("GetByOrgAndUser", ctx, orgID, caller.ID).Return(nil, nil)
		f.orgMemberRepo.On("Create", ctx, mock.AnythingOfType("*model.OrganizationMember")).Return(nil)
		f.orgInvRepo.On("Update", ctx, invitation).Return(nil)

		member, err := f.invitations.AcceptOrgInvitation(ctx, "token", "inv-token")

		assert.NoError(t, err)
		assert.Equal(t, model.OrgRoleMember, member.Role)
		assert.True(t, member.CanCreateWorkspaces)
		assert.Equal(t, model.InvitationStatusAccepted, invitation.Status)
		assert.Equal(t, caller.ID, *invitation.AcceptedBy)
	})

	t.Run("lazily expires a stale pending invitation", func(t *testing.T) {
		f := newInvitationFixture(caller)

		invitation := pendingInvitation()
		invitation.ExpiresAt = time.Now().Add(-time.Hour)
		f.orgInvRepo.On("GetByToken", ctx, "inv-token").Return(invitation, nil)
		f.orgInvRepo.On("Update", ctx, invitation).Return(nil)

		_, err := f.invitations.AcceptOrgInvitation(ctx, "token", "inv-token")

		assert.True(t, apperrors.HasCode(err, apperrors.ErrExpired))
		assert.Equal(t, model.InvitationStatusExpired, invitation.Status)
		f.orgMemberRepo.AssertNotCalled(t, "Create")
	})

	t.Run("wrong email identity is rejected", func(t *testing.T) {
		other := &model.User{ID: uuid.New(), Email: "mallory@evil.com"}
		f := newInvitationFixture(other)

		f.orgInvRepo.On("GetByToken", ctx, "inv-token").Return(pendingInvitation(), nil)

		_, err := f.invitations.AcceptOrgInvitation(ctx, "token", "inv-token")

		assert.True(t, apperrors.HasCode(err, apperrors.ErrUnauthorized))
	})

	t.Run("email match is case insensitive", func(t *testing.T) {
		upper := &model.User{ID: uuid.New(), Email: "LEE@ACME.COM"}
		f := newInvitationFixture(upper)

		invitation := pendingInvitation()
		f.orgInvRepo.On("GetByToken", ctx, "inv-token").Return(invitation, nil)
		f.orgMemberRepo.On("GetByOrgAndUser", ctx, orgID, upper.ID).Return(nil, nil)
		f.orgMemberRepo.On("Create", ctx, mock.AnythingOfType("*model.OrganizationMember")).Return(nil)
		f.orgInvRepo.On("Update", ctx, invitation).Return(nil)

		_, err := f.invitations.AcceptOrgInvitation(ctx, "token", "inv-token")

		assert.NoError(t, err)
	})

	t.Run("already a member settles the invitation and conflicts", func(t *testing.T) {
		f := newInvitationFixture(caller)

		invitation := pendingInvitation()
		f.orgInvRepo.On("GetByToken", ctx, "inv-token").Return(invitation, nil)
		f.orgMemberRepo.On("GetByOrgAndUser", ctx, orgID, caller.ID).
			Return(orgMemberWith(orgID, caller.ID, model.OrgRoleMember), nil)
		f.orgInvRepo.On("Update", ctx, invitation).Return(nil)

		_, err := f.invitations.AcceptOrgInvitation(ctx, "token", "inv-token")

		assert.True(t, apperrors.HasCode(err, apperrors.ErrConflict))
		assert.Equal(t, model.InvitationStatusAccepted, invitation.Status)
		f.orgMemberRepo.AssertNotCalled(t, "Create")
	})

	t.Run("settled invitation cannot be accepted again", func(t *testing.T) {
		f := newInvitationFixture(caller)

		invitation := pendingInvitation()
		invitation.Status = model.InvitationStatusDeclined
		f.orgInvRepo.On("GetByToken", ctx, "inv-token").Return(invitation, nil)

		_, err := f.invitations.AcceptOrgInvitation(ctx, "token", "inv-token")

		assert.True(t, apperrors.HasCode(err, apperrors.ErrConflict))
	})

	t.Run("dormant membership row is reactivated instead of duplicated", func(t *testing.T) {
		f := newInvitationFixture(caller)

		invitation := pendingInvitation()
		invitation.Role = model.OrgRoleMember
		invitation.CanInviteMembers = true
		suspended := orgMemberWith(orgID, caller.ID, model.OrgRoleAdmin)
		suspended.Status = model.MemberStatusSuspended
		f.orgInvRepo.On("GetByToken", ctx, "inv-token").Return(invitation, nil)
		f.orgMemberRepo.On("GetByOrgAndUser", ctx, orgID, caller.ID).Return(suspended, nil)
		f.orgMemberRepo.On("Update", ctx, suspended).Return(nil)
		f.orgInvRepo.On("Update", ctx, invitation).Return(nil)

		member, err := f.invitations.AcceptOrgInvitation(ctx, "token", "inv-token")

		assert.NoError(t, err)
		assert.Equal(t, model.MemberStatusActive, member.Status)
		assert.Equal(t, model.OrgRoleMember, member.Role)
		assert.True(t, member.CanInviteMembers)
		assert.Equal(t, model.InvitationStatusAccepted, invitation.Status)
		f.orgMemberRepo.AssertNotCalled(t, "Create")
	})
}

func TestInvitationUseCase_RevokeOrgInvitation(t *testing.T) {
	ctx := context.Background()
	caller := &model.User{ID: uuid.New()}
	orgID := uuid.New()
	invitationID := uuid.New()

	t.Run("the inviter revokes and the row is retained", func(t *testing.T) {
		f := newInvitationFixture(caller)

		invitation := &model.OrganizationInvitation{
			ID:             invitationID,
			OrganizationID: orgID,
			InvitedBy:      caller.ID,
			Status:         model.InvitationStatusPending,
			ExpiresAt:      time.Now().Add(time.Hour),
		}
		f.orgInvRepo.On("GetByID", ctx, invitationID).Return(invitation, nil)
		f.orgInvRepo.On("Update", ctx, invitation).Return(nil)

		err := f.invitations.RevokeOrgInvitation(ctx, "token", invitationID)

		assert.NoError(t, err)
		assert.Equal(t, model.InvitationStatusRevoked, invitation.Status)
	})

	t.Run("a bystander cannot revoke", func(t *testing.T) {
		f := newInvitationFixture(caller)

		invitation := &model.OrganizationInvitation{
			ID:             invitationID,
			OrganizationID: orgID,
			InvitedBy:      uuid.New(),
			Status:         model.InvitationStatusPending,
		}
		f.orgInvRepo.On("GetByID", ctx, invitationID).Return(invitation, nil)
		f.orgMemberRepo.On("GetByOrgAndUser", ctx, orgID, caller.ID).
			Return(orgMemberWith(orgID, caller.ID, model.OrgRoleMember), nil)

		err := f.invitations.RevokeOrgInvitation(ctx, "token", invitationID)

		assert.True(t, apperrors.HasCode(err, apperrors.ErrUnauthorized))
	})
}

func TestInvitationUseCase_WorkspaceInvitations(t *testing.T) {
	ctx := context.Background()
	caller := &model.User{ID: uuid.New()}
	orgID := uuid.New()
	wsID := uuid.New()
	inviteeID := uuid.New()

	workspace := &model.Workspace{ID: wsID, OrganizationID: orgID, Name: "general"}
	wsAdmin := &model.WorkspaceMember{ID: 1, WorkspaceID: wsID, UserID: caller.ID, OrganizationID: orgID, Role: model.WorkspaceRoleAdmin}

	t.Run("invites an existing organization member", func(t *testing.T) {
		f := newInvitationFixture(caller)

		f.wsRepo.On("GetByID", ctx, wsID).Return(workspace, nil)
		f.wsMemberRepo.On("GetByWorkspaceAndUser", ctx, wsID, caller.ID).Return(wsAdmin, nil)
		f.orgMemberRepo.On("GetByOrgAndUser", ctx, orgID, inviteeID).
			Return(orgMemberWith(orgID, inviteeID, model.OrgRoleMember), nil)
		f.wsMemberRepo.On("GetByWorkspaceAndUser", ctx, wsID, inviteeID).Return(nil, nil)
		f.wsInvRepo.On("GetPendingByWorkspaceAndUser", ctx, wsID, inviteeID).Return(nil, nil)
		f.wsInvRepo.On("Create", ctx, mock.AnythingOfType("*model.WorkspaceInvitation")).Return(nil)

		invitation, err := f.invitations.InviteToWorkspace(ctx, "token", usecase.InviteToWorkspaceRequest{
			WorkspaceID: wsID,
			UserID:      inviteeID,
		})

		assert.NoError(t, err)
		assert.Equal(t, model.InvitationStatusPending, invitation.Status)
		assert.Equal(t, model.WorkspaceRoleMember, invitation.Role)
	})

	t.Run("cannot invite a stranger to the organization", func(t *testing.T) {
		f := newInvitationFixture(caller)

		f.wsRepo.On("GetByID", ctx, wsID).Return(workspace, nil)
		f.wsMemberRepo.On("GetByWorkspaceAndUser", ctx, wsID, caller.ID).Return(wsAdmin, nil)
		f.orgMemberRepo.On("GetByOrgAndUser", ctx, orgID, inviteeID).Return(nil, nil)

		_, err := f.invitations.InviteToWorkspace(ctx, "token", usecase.InviteToWorkspaceRequest{
			WorkspaceID: wsID,
			UserID:      inviteeID,
		})

		assert.True(t, apperrors.HasCode(err, apperrors.ErrInvalidArgument))
	})

	t.Run("accepting creates the workspace membership", func(t *testing.T) {
		invitee := &model.User{ID: inviteeID}
		f := newInvitationFixture(invitee)

		invitation := &model.WorkspaceInvitation{
			ID:             42,
			WorkspaceID:    wsID,
			OrganizationID: orgID,
			UserID:         inviteeID,
			Role:           model.WorkspaceRoleMember,
			InvitedBy:      caller.ID,
			Status:         model.InvitationStatusPending,
		}
		f.wsInvRepo.On("GetByID", ctx, int64(42)).Return(invitation, nil)
		f.wsMemberRepo.On("Create", ctx, mock.AnythingOfType("*model.WorkspaceMember")).Return(nil)
		f.wsInvRepo.On("Update", ctx, invitation).Return(nil)

		member, err := f.invitations.RespondToWorkspaceInvitation(ctx, "token", 42, true)

		assert.NoError(t, err)
		assert.Equal(t, wsID, member.WorkspaceID)
		assert.Equal(t, model.InvitationStatusAccepted, invitation.Status)
	})

	t.Run("declining settles without creating a membership", func(t *testing.T) {
		invitee := &model.User{ID: inviteeID}
		f := newInvitationFixture(invitee)

		invitation := &model.WorkspaceInvitation{
			ID:          42,
			WorkspaceID: wsID,
			UserID:      inviteeID,
			Status:      model.InvitationStatusPending,
		}
		f.wsInvRepo.On("GetByID", ctx, int64(42)).Return(invitation, nil)
		f.wsInvRepo.On("Update", ctx, invitation).Return(nil)

		member, err := f.invitations.RespondToWorkspaceInvitation(ctx, "token", 42, false)

		assert.NoError(t, err)
		assert.Nil(t, member)
		assert.Equal(t, model.InvitationStatusDeclined, invitation.Status)
		f.wsMemberRepo.AssertNotCalled(t, "Create")
	})

	t.Run("only the invited user may respond", func(t *testing.T) {
		f := newInvitationFixture(caller)

		invitation := &model.WorkspaceInvitation{
			ID:          42,
			WorkspaceID: wsID,
			UserID:      inviteeID,
			Status:      model.InvitationStatusPending,
		}
		f.wsInvRepo.On("GetByID", ctx, int64(42)).Return(invitation, nil)

		_, err := f.invitations.RespondToWorkspaceInvitation(ctx, "token", 42, true)

		assert.True(t, apperrors.HasCode(err, apperrors.ErrUnauthorized))
	})

	t.Run("revoke hard-deletes the row", func(t *testing.T) {
		f := newInvitationFixture(caller)

		invitation := &model.WorkspaceInvitation{
			ID:          42,
			WorkspaceID: wsID,
			UserID:      inviteeID,
			InvitedBy:   caller.ID,
			Status:      model.InvitationStatusPending,
		}
		f.wsInvRepo.On("GetByID", ctx, int64(42)).Return(invitation, nil)
		f.wsInvRepo.On("Delete", ctx, int64(42)).Return(nil)

		err := f.invitations.RevokeWorkspaceInvitation(ctx, "token", 42)

		assert.NoError(t, err)
		f.wsInvRepo.AssertCalled(t, "Delete", ctx, int64(42))
		f.wsInvRepo.AssertNotCalled(t, "Update")
	})
}

func TestInvitationUseCase_SweepExpired(t *testing.T) {
	ctx := context.Background()
	caller := &model.User{ID: uuid.New()}

	t.Run("reports how many stale rows were expired", func(t *testing.T) {
		f := newInvitationFixture(caller)

		f.orgInvRepo.On("ExpirePending", ctx, mock.AnythingOfType("time.Time")).Return(int64(4), nil)

		expired, err := f.invitations.SweepExpired(ctx)

		assert.NoError(t, err)
		assert.Equal(t, int64(4), expired)
		f.orgInvRepo.AssertExpectations(t)
	})

	t.Run("storage failure surfaces", func(t *testing.T) {
		f := newInvitationFixture(caller)

		f.orgInvRepo.On("ExpirePending", ctx, mock.AnythingOfType("time.Time")).
			Return(int64(0), assert.AnError)

		_, err := f.invitations.SweepExpired(ctx)

		assert.Error(t, err)
	})
}
