package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/huddlehq/huddle-backend/internal/domain/model"
	"github.com/huddlehq/huddle-backend/internal/domain/repository"
	apperrors "github.com/huddlehq/huddle-backend/pkg/errors"
	"go.uber.org/zap"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type CreateOrgInvitationRequest struct {
	OrganizationID      uuid.UUID     `json:"organization_id"`
	Email               string        `json:"email"`
	Role                model.OrgRole `json:"role"`
	CanCreateWorkspaces bool          `json:"can_create_workspaces"`
	CanInviteMembers    bool          `json:"can_invite_members"`
	CanManageBilling    bool          `json:"can_manage_billing"`
	Message             string        `json:"message"`
}

type InviteToWorkspaceRequest struct {
	WorkspaceID uuid.UUID           `json:"workspace_id"`
	UserID      uuid.UUID           `json:"user_id"`
	Role        model.WorkspaceRole `json:"role"`
}

// InvitationUseCase runs the asynchronous membership-grant protocol for
// organizations (token + email addressed) and workspaces (existing members
// only). Expiry is observed lazily at read and accept time.
type InvitationUseCase struct {
	auth          Authenticator
	orgRepo       repository.OrganizationRepository
	orgMemberRepo repository.OrgMemberRepository
	orgInvRepo    repository.OrgInvitationRepository
	wsRepo        repository.WorkspaceRepository
	wsMemberRepo  repository.WorkspaceMemberRepository
	wsInvRepo     repository.WorkspaceInvitationRepository
	userRepo      repository.UserRepository
	mailRepo      repository.MailRepository
	inviteURL     string
	logger        *zap.Logger
}

func NewInvitationUseCase(
	auth Authenticator,
	orgRepo repository.OrganizationRepository,
	orgMemberRepo repository.OrgMemberRepository,
	orgInvRepo repository.OrgInvitationRepository,
	wsRepo repository.WorkspaceRepository,
	wsMemberRepo repository.WorkspaceMemberRepository,
	wsInvRepo repository.WorkspaceInvitationRepository,
	userRepo repository.UserRepository,
	mailRepo repository.MailRepository,
	inviteURL string,
	logger *zap.Logger,
) *InvitationUseCase {
	return &InvitationUseCase{
		auth:          auth,
		orgRepo:       orgRepo,
		orgMemberRepo: orgMemberRepo,
		orgInvRepo:    orgInvRepo,
		wsRepo:        wsRepo,
		wsMemberRepo:  wsMemberRepo,
		wsInvRepo:     wsInvRepo,
		userRepo:      userRepo,
		mailRepo:      mailRepo,
		inviteURL:     inviteURL,
		logger:        logger,
	}
}

// InviteToOrganization creates a pending invitation and mails the token to
// the invitee. Requires the invite-members capability.
func (u *InvitationUseCase) InviteToOrganization(ctx context.Context, token string, req CreateOrgInvitationRequest) (*model.OrganizationInvitation, error) {
	caller, err := u.auth.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}

	org, err := u.orgRepo.GetByID(ctx, req.OrganizationID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, apperrors.NewAppError(apperrors.ErrNotFound, "organization not found", nil)
	}

	callerMember, err := u.orgMemberRepo.GetByOrgAndUser(ctx, req.OrganizationID, caller.ID)
	if err != nil {
		return nil, err
	}
	if !HasOrgCapability(callerMember, CapabilityInviteMembers) {
		return nil, apperrors.NewAppError(apperrors.ErrUnauthorized, "missing invite-members capability", nil)
	}
	if req.Role == model.OrgRoleOwner && callerMember.Role != model.OrgRoleOwner {
		return nil, apperrors.NewAppError(apperrors.ErrUnauthorized, "only an owner may grant the owner role", nil)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !emailPattern.MatchString(email) {
		return nil, apperrors.NewAppError(apperrors.ErrInvalidArgument, "invalid email address", nil)
	}
	if org.AllowedEmailDomain != "" && !strings.HasSuffix(email, "@"+org.AllowedEmailDomain) {
		return nil, apperrors.NewAppError(apperrors.ErrInvalidArgument,
			fmt.Sprintf("email must belong to the %s domain", org.AllowedEmailDomain), nil)
	}

	// Reject if the address already belongs to an active member.
	invitee, err := u.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if invitee != nil {
		existing, err := u.orgMemberRepo.GetByOrgAndUser(ctx, req.OrganizationID, invitee.ID)
		if err != nil {
			return nil, err
		}
		if existing.IsActive() {
			return nil, apperrors.NewAppError(apperrors.ErrConflict, "user is already a member", nil)
		}
	}

	pending, err := u.orgInvRepo.GetPendingByOrgAndEmail(ctx, req.OrganizationID, email)
	if err != nil {
		return nil, err
	}
	if pending != nil {
		if !pending.IsExpired(time.Now()) {
			return nil, apperrors.NewAppError(apperrors.ErrConflict, "a pending invitation already exists", nil)
		}
		// Stale pending row: expire it and continue with a fresh one.
		pending.Status = model.InvitationStatusExpired
		if err := u.orgInvRepo.Update(ctx, pending); err != nil {
			return nil, err
		}
	}

	invToken, err := newInvitationToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate invitation token: %w", err)
	}

	invitation := &model.OrganizationInvitation{
		ID:                  uuid.New(),
		OrganizationID:      req.OrganizationID,
		Email:               email,
		Token:               invToken,
		Role:                req.Role,
		CanCreateWorkspaces: req.CanCreateWorkspaces,
		CanInviteMembers:    req.CanInviteMembers,
		CanManageBilling:    req.CanManageBilling,
		InvitedBy:           caller.ID,
		Message:             req.Message,
		Status:              model.InvitationStatusPending,
		ExpiresAt:           time.Now().Add(InvitationTTL),
	}
	if err := u.orgInvRepo.Create(ctx, invitation); err != nil {
		return nil, err
	}

	subject := fmt.Sprintf("You have been invited to join %s", org.Name)
	body := invitationEmailBody(org.Name, caller.Name, req.Message, fmt.Sprintf("%s/%s", u.inviteURL, invToken))
	if err := u.mailRepo.SendMail(ctx, email, subject, body); err != nil {
		return nil, fmt.Errorf("failed to send invitation email: %w", err)
	}

	u.logger.Info("Organization invitation created",
		zap.String("organization_id", req.OrganizationID.String()),
		zap.String("email", email))

	return invitation, nil
}

// GetOrgInvitation previews an invitation by token. No authentication: the
// token itself is the capability. Stale pending rows are expired on sight.
func (u *InvitationUseCase) GetOrgInvitation(ctx context.Context, invToken string) (*model.OrganizationInvitation, error) {
	invitation, err := u.orgInvRepo.GetByToken(ctx, invToken)
	if err != nil {
		return nil, err
	}
	if invitation == nil {
		return nil, apperrors.NewAppError(apperrors.ErrNotFound, "invitation not found", nil)
	}

	if invitation.Status == model.InvitationStatusPending && invitation.IsExpired(time.Now()) {
		invitation.Status = model.InvitationStatusExpired
		if err := u.orgInvRepo.Update(ctx, invitation); err != nil {
			return nil, err
		}
	}

	return invitation, nil
}

// AcceptOrgInvitation redeems a pending invitation for the calling user.
// The caller's email must match the invited address.
func (u *InvitationUseCase) AcceptOrgInvitation(ctx context.Context, token, invToken string) (*model.OrganizationMember, error) {
	caller, err := u.auth.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}

	invitation, err := u.orgInvRepo.GetByToken(ctx, invToken)
	if err != nil {
		return nil, err
	}
	if invitation == nil {
		return nil, apperrors.NewAppError(apperrors.ErrNotFound, "invitation not found", nil)
	}

	if invitation.Status == model.InvitationStatusPending && invitation.IsExpired(time.Now()) {
		invitation.Status = model.InvitationStatusExpired
		if err := u.orgInvRepo.Update(ctx, invitation); err != nil {
			return nil, err
		}
		return nil, apperrors.NewAppError(apperrors.ErrExpired, "invitation expired", nil)
	}
	if invitation.Status == model.InvitationStatusExpired {
		return nil, apperrors.NewAppError(apperrors.ErrExpired, "invitation expired", nil)
	}
	if invitation.Status != model.InvitationStatusPending {
		return nil, apperrors.NewAppError(apperrors.ErrConflict, "invitation is no longer pending", nil)
	}

	if !strings.EqualFold(caller.Email, invitation.Email) {
		return nil, apperrors.NewAppError(apperrors.ErrUnauthorized, "invitation was addressed to a different email", nil)
	}

	existing, err := u.orgMemberRepo.GetByOrgAndUser(ctx, invitation.OrganizationID, caller.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.IsActive() {
			// Reconcile: the invitation is settled even though membership
			// already exists through another path.
			u.markAccepted(ctx, invitation, caller.ID)
			return nil, apperrors.NewAppError(apperrors.ErrConflict, "already a member", nil)
		}

		// A dormant row exists; the unique (organization, user) index
		// forbids a second one. Reactivate it with the invitation's grants.
		existing.Role = invitation.Role
		existing.CanCreateWorkspaces = invitation.CanCreateWorkspaces
		existing.CanInviteMembers = invitation.CanInviteMembers
		existing.CanManageBilling = invitation.CanManageBilling
		existing.Status = model.MemberStatusActive
		if err := u.orgMemberRepo.Update(ctx, existing); err != nil {
			return nil, err
		}

		u.markAccepted(ctx, invitation, caller.ID)

		u.logger.Info("Organization invitation accepted",
			zap.String("organization_id", invitation.OrganizationID.String()),
			zap.String("user_id", caller.ID.String()))

		return existing, nil
	}

	member := &model.OrganizationMember{
		OrganizationID:      invitation.OrganizationID,
		UserID:              caller.ID,
		Role:                invitation.Role,
		CanCreateWorkspaces: invitation.CanCreateWorkspaces,
		CanInviteMembers:    invitation.CanInviteMembers,
		CanManageBilling:    invitation.CanManageBilling,
		Status:              model.MemberStatusActive,
	}
	if err := u.orgMemberRepo.Create(ctx, member); err != nil {
		return nil, err
	}

	u.markAccepted(ctx, invitation, caller.ID)

	u.logger.Info("Organization invitation accepted",
		zap.String("organization_id", invitation.OrganizationID.String()),
		zap.String("user_id", caller.ID.String()))

	return member, nil
}

func (u *InvitationUseCase) markAccepted(ctx context.Context, invitation *model.OrganizationInvitation, acceptorID uuid.UUID) {
	now := time.Now()
	invitation.Status = model.InvitationStatusAccepted
	invitation.AcceptedAt = &now
	invitation.AcceptedBy = &acceptorID
	if err := u.orgInvRepo.Update(ctx, invitation); err != nil {
		u.logger.Warn("Failed to mark invitation accepted",
			zap.String("invitation_id", invitation.ID.String()),
			zap.Error(err))
	}
}

// DeclineOrgInvitation settles a pending invitation as declined.
func (u *InvitationUseCase) DeclineOrgInvitation(ctx context.Context, token, invToken string) error {
	caller, err := u.auth.Authenticate(ctx, token)
	if err != nil {
		return err
	}

	invitation, err := u.orgInvRepo.GetByToken(ctx, invToken)
	if err != nil {
		return err
	}
	if invitation == nil {
		return apperrors.NewAppError(apperrors.ErrNotFound, "invitation not found", nil)
	}
	if invitation.Status != model.InvitationStatusPending {
		return apperrors.NewAppError(apperrors.ErrConflict, "invitation is no longer pending", nil)
	}
	if !strings.EqualFold(caller.Email, invitation.Email) {
		return apperrors.NewAppError(apperrors.ErrUnauthorized, "invitation was addressed to a different email", nil)
	}

	invitation.Status = model.InvitationStatusDeclined
	return u.orgInvRepo.Update(ctx, invitation)
}

// RevokeOrgInvitation withdraws a pending invitation. Permitted for the
// original inviter or any organization admin; the row is kept for audit.
func (u *InvitationUseCase) RevokeOrgInvitation(ctx context.Context, token string, invitationID uuid.UUID) error {
	caller, err := u.auth.Authenticate(ctx, token)
	if err != nil {
		return err
	}

	invitation, err := u.orgInvRepo.GetByID(ctx, invitationID)
	if err != nil {
		return err
	}
	if invitation == nil {
		return apperrors.NewAppError(apperrors.ErrNotFound, "invitation not found", nil)
	}

	if caller.ID != invitation.InvitedBy {
		callerMember, err := u.orgMemberRepo.GetByOrgAndUser(ctx, invitation.OrganizationID, caller.ID)
		if err != nil {
			return err
		}
		if !HasOrgCapability(callerMember, CapabilityIsAdmin) {
			return apperrors.NewAppError(apperrors.ErrUnauthorized, "only the inviter or an organization admin may revoke", nil)
		}
	}

	if invitation.Status != model.InvitationStatusPending {
		return apperrors.NewAppError(apperrors.ErrConflict, "invitation is no longer pending", nil)
	}

	invitation.Status = model.InvitationStatusRevoked
	return u.orgInvRepo.Update(ctx, invitation)
}

// ListOrgInvitations lists every invitation of the organization. Requires
// the invite-members capability.
func (u *InvitationUseCase) ListOrgInvitations(ctx context.Context, token string, orgID uuid.UUID) ([]model.OrganizationInvitation, error) {
	caller, err := u.auth.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}

	callerMember, err := u.orgMemberRepo.GetByOrgAndUser(ctx, orgID, caller.ID)
	if err != nil {
		return nil, err
	}
	if !HasOrgCapability(callerMember, CapabilityInviteMembers) {
		return nil, apperrors.NewAppError(apperrors.ErrUnauthorized, "missing invite-members capability", nil)
	}

	return u.orgInvRepo.ListByOrg(ctx, orgID)
}

// InviteToWorkspace invites an active organization member into a workspace.
// A workspace invitation cannot onboard a stranger to the organization.
func (u *InvitationUseCase) InviteToWorkspace(ctx context.Context, token string, req InviteToWorkspaceRequest) (*model.WorkspaceInvitation, error) {
	caller, err := u.auth.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}

	ws, err := u.wsRepo.GetByID(ctx, req.WorkspaceID)
	if err != nil {
		return nil, err
	}
	if ws == nil {
		return nil, apperrors.NewAppError(apperrors.ErrNotFound, "workspace not found", nil)
	}

	callerMember, err := u.wsMemberRepo.GetByWorkspaceAndUser(ctx, req.WorkspaceID, caller.ID)
	if err != nil {
		return nil, err
	}
	if !callerMember.IsAdmin() {
		return nil, apperrors.NewAppError(apperrors.ErrUnauthorized, "workspace admin required", nil)
	}

	orgMember, err := u.orgMemberRepo.GetByOrgAndUser(ctx, ws.OrganizationID, req.UserID)
	if err != nil {
		return nil, err
	}
	if !orgMember.IsActive() {
		return nil, apperrors.NewAppError(apperrors.ErrInvalidArgument, "invitee is not an active organization member", nil)
	}

	existing, err := u.wsMemberRepo.GetByWorkspaceAndUser(ctx, req.WorkspaceID, req.UserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.NewAppError(apperrors.ErrConflict, "user is already a workspace member", nil)
	}

	pending, err := u.wsInvRepo.GetPendingByWorkspaceAndUser(ctx, req.WorkspaceID, req.UserID)
	if err != nil {
		return nil, err
	}
	if pending != nil {
		return nil, apperrors.NewAppError(apperrors.ErrConflict, "a pending invitation already exists", nil)
	}

	role := req.Role
	if role == "" {
		role = model.WorkspaceRoleMember
	}

	invitation := &model.WorkspaceInvitation{
		WorkspaceID:    req.WorkspaceID,
		OrganizationID: ws.OrganizationID,
		UserID:         req.UserID,
		Role:           role,
		InvitedBy:      caller.ID,
		Status:         model.InvitationStatusPending,
	}
	if err := u.wsInvRepo.Create(ctx, invitation); err != nil {
		return nil, err
	}

	return invitation, nil
}

// RespondToWorkspaceInvitation accepts or declines a pending workspace
// invitation. Identity is checked by user ID, not email.
func (u *InvitationUseCase) RespondToWorkspaceInvitation(ctx context.Context, token string, invitationID int64, accept bool) (*model.WorkspaceMember, error) {
	caller, err := u.auth.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}

	invitation, err := u.wsInvRepo.GetByID(ctx, invitationID)
	if err != nil {
		return nil, err
	}
	if invitation == nil {
		return nil, apperrors.NewAppError(apperrors.ErrNotFound, "invitation not found", nil)
	}
	if invitation.UserID != caller.ID {
		return nil, apperrors.NewAppError(apperrors.ErrUnauthorized, "invitation was addressed to a different user", nil)
	}
	if invitation.Status != model.InvitationStatusPending {
		return nil, apperrors.NewAppError(apperrors.ErrConflict, "invitation is no longer pending", nil)
	}

	if !accept {
		invitation.Status = model.InvitationStatusDeclined
		if err := u.wsInvRepo.Update(ctx, invitation); err != nil {
			return nil, err
		}
		return nil, nil
	}

	member := &model.WorkspaceMember{
		WorkspaceID:     invitation.WorkspaceID,
		UserID:          caller.ID,
		OrganizationID:  invitation.OrganizationID,
		Role:            invitation.Role,
		NotificationsOn: true,
		InvitedBy:       &invitation.InvitedBy,
	}
	if err := u.wsMemberRepo.Create(ctx, member); err != nil {
		return nil, err
	}

	invitation.Status = model.InvitationStatusAccepted
	if err := u.wsInvRepo.Update(ctx, invitation); err != nil {
		return nil, err
	}

	return member, nil
}

// RevokeWorkspaceInvitation withdraws a pending workspace invitation. The
// row is hard-deleted; workspace invitations are not kept for audit.
func (u *InvitationUseCase) RevokeWorkspaceInvitation(ctx context.Context, token string, invitationID int64) error {
	caller, err := u.auth.Authenticate(ctx, token)
	if err != nil {
		return err
	}

	invitation, err := u.wsInvRepo.GetByID(ctx, invitationID)
	if err != nil {
		return err
	}
	if invitation == nil {
		return apperrors.NewAppError(apperrors.ErrNotFound, "invitation not found", nil)
	}
	if invitation.Status != model.InvitationStatusPending {
		return apperrors.NewAppError(apperrors.ErrConflict, "invitation is no longer pending", nil)
	}

	if caller.ID != invitation.InvitedBy {
		callerMember, err := u.wsMemberRepo.GetByWorkspaceAndUser(ctx, invitation.WorkspaceID, caller.ID)
		if err != nil {
			return err
		}
		if !callerMember.IsAdmin() {
			return apperrors.NewAppError(apperrors.ErrUnauthorized, "only the inviter or a workspace admin may revoke", nil)
		}
	}

	return u.wsInvRepo.Delete(ctx, invitation.ID)
}

// SweepExpired flips stale pending organization invitations to expired.
// Optional hygiene; reads and accepts already expire rows on sight.
func (u *InvitationUseCase) SweepExpired(ctx context.Context) (int64, error) {
	expired, err := u.orgInvRepo.ExpirePending(ctx, time.Now())
	if err != nil {
		return 0, err
	}
	if expired > 0 {
		u.logger.Info("Swept expired invitations", zap.Int64("expired", expired))
	}
	return expired, nil
}

func invitationEmailBody(orgName, inviterName, personalMessage, link string) string {
	var sb strings.Builder
	sb.WriteString("<html><body>")
	if inviterName != "" {
		sb.WriteString(fmt.Sprintf("<p>%s invited you to join <strong>%s</strong>.</p>", inviterName, orgName))
	} else {
		sb.WriteString(fmt.Sprintf("<p>You have been invited to join <strong>%s</strong>.</p>", orgName))
	}
	if personalMessage != "" {
		sb.WriteString(fmt.Sprintf("<blockquote>%s</blockquote>", personalMessage))
	}
	sb.WriteString(fmt.Sprintf(`<p><a href="%s">Accept the invitation</a></p>`, link))
	sb.WriteString("<p>This invitation expires in 7 days.</p>")
	sb.WriteString("</body></html>")
	return sb.String()
}
