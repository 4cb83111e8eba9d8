package usecase

import (
	"context"
	"regexp"

	"github.com/google/uuid"
	"github.com/huddlehq/huddle-backend/internal/domain/model"
	"github.com/huddlehq/huddle-backend/internal/domain/repository"
	apperrors "github.com/huddlehq/huddle-backend/pkg/errors"
	"go.uber.org/zap"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

type CreateOrganizationRequest struct {
	Name               string `json:"name"`
	Slug               string `json:"slug"`
	PublicJoin         bool   `json:"public_join"`
	AllowedEmailDomain string `json:"allowed_email_domain"`
}

type AddOrgMemberRequest struct {
	OrganizationID      uuid.UUID     `json:"organization_id"`
	UserID              uuid.UUID     `json:"user_id"`
	Role                model.OrgRole `json:"role"`
	CanCreateWorkspaces bool          `json:"can_create_workspaces"`
	CanInviteMembers    bool          `json:"can_invite_members"`
	CanManageBilling    bool          `json:"can_manage_billing"`
}

type UpdateOrgRoleRequest struct {
	OrganizationID uuid.UUID     `json:"organization_id"`
	UserID         uuid.UUID     `json:"user_id"`
	Role           model.OrgRole `json:"role"`
}

type UpdateOrgCapabilitiesRequest struct {
	OrganizationID      uuid.UUID `json:"organization_id"`
	UserID              uuid.UUID `json:"user_id"`
	CanCreateWorkspaces bool      `json:"can_create_workspaces"`
	CanInviteMembers    bool      `json:"can_invite_members"`
	CanManageBilling    bool      `json:"can_manage_billing"`
}

type CreateWorkspaceRequest struct {
	OrganizationID uuid.UUID           `json:"organization_id"`
	Name           string              `json:"name"`
	Description    string              `json:"description"`
	Type           model.WorkspaceType `json:"type"`
	Purpose        string              `json:"purpose"`
}

type UpdateWorkspaceRequest struct {
	WorkspaceID      uuid.UUID `json:"workspace_id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	Purpose          string    `json:"purpose"`
	AllowThreads     bool      `json:"allow_threads"`
	AllowFileUploads bool      `json:"allow_file_uploads"`
}

type AddWorkspaceMemberRequest struct {
	WorkspaceID uuid.UUID           `json:"workspace_id"`
	UserID      uuid.UUID           `json:"user_id"`
	Role        model.WorkspaceRole `json:"role"`
}

type UpdateWorkspaceRoleRequest struct {
	WorkspaceID uuid.UUID           `json:"workspace_id"`
	UserID      uuid.UUID           `json:"user_id"`
	Role        model.WorkspaceRole `json:"role"`
}

// MembershipUseCase owns organization and workspace membership state and the
// capability checks layered on top of it.
type MembershipUseCase struct {
	auth          Authenticator
	orgRepo       repository.OrganizationRepository
	orgMemberRepo repository.OrgMemberRepository
	wsRepo        repository.WorkspaceRepository
	wsMemberRepo  repository.WorkspaceMemberRepository
	wsInvRepo     repository.WorkspaceInvitationRepository
	userRepo      repository.UserRepository
	logger        *zap.Logger
}

func NewMembershipUseCase(
	auth Authenticator,
	orgRepo repository.OrganizationRepository,
	orgMemberRepo repository.OrgMemberRepository,
	wsRepo repository.WorkspaceRepository,
	wsMemberRepo repository.WorkspaceMemberRepository,
	wsInvRepo repository.WorkspaceInvitationRepository,
	userRepo repository.UserRepository,
	logger *zap.Logger,
) *MembershipUseCase {
	return &MembershipUseCase{
		auth:          auth,
		orgRepo:       orgRepo,
		orgMemberRepo: orgMemberRepo,
		wsRepo:        wsRepo,
		wsMemberRepo:  wsMemberRepo,
		wsInvRepo:     wsInvRepo,
		userRepo:      userRepo,
		logger:        logger,
	}
}

// requireOrgMember loads the organization and the caller's active membership
// in it, failing with NOT_FOUND / UNAUTHORIZED respectively.
func (u *MembershipUseCase) requireOrgMember(ctx context.Context, orgID, userID uuid.UUID) (*model.Organization, *model.OrganizationMember, error) {
	org, err := u.orgRepo.GetByID(ctx, orgID)
	if err != nil {
		return nil, nil, err
	}
	if org == nil {
		return nil, nil, apperrors.NewAppError(apperrors.ErrNotFound, "organization not found", nil)
	}

	member, err := u.orgMemberRepo.GetByOrgAndUser(ctx, orgID, userID)
	if err != nil {
		return nil, nil, err
	}
	if !member.IsActive() {
		return nil, nil, apperrors.NewAppError(apperrors.ErrUnauthorized, "not an active organization member", nil)
	}

	return org, member, nil
}

// requireWorkspaceMember loads the workspace and the caller's membership in it.
func (u *MembershipUseCase) requireWorkspaceMember(ctx context.Context, workspaceID, userID uuid.UUID) (*model.Workspace, *model.WorkspaceMember, error) {
	ws, err := u.wsRepo.GetByID(ctx, workspaceID)
	if err != nil {
		return nil, nil, err
	}
	if ws == nil {
		return nil, nil, apperrors.NewAppError(apperrors.ErrNotFound, "workspace not found", nil)
	}

	member, err := u.wsMemberRepo.GetByWorkspaceAndUser(ctx, workspaceID, userID)
	if err != nil {
		return nil, nil, err
	}
	if member == nil {
		return nil, nil, apperrors.NewAppError(apperrors.ErrUnauthorized, "not a workspace member", nil)
	}

	return ws, member, nil
}

// CreateOrganization registers a new tenant. The creator becomes its owner
// with every capability flag set.
func (u *MembershipUseCase) CreateOrganization(ctx context.Context, token string, req CreateOrganizationRequest) (*model.Organization, error) {
	caller, err := u.auth.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}

	if req.Name == "" {
		return nil, apperrors.NewAppError(apperrors.ErrInvalidArgument, "organization name is required", nil)
	}
	if !slugPattern.MatchString(req.Slug) {
		return nil, apperrors.NewAppError(apperrors.ErrInvalidArgument, "slug must be lowercase letters, digits and hyphens", nil)
	}

	existing, err := u.orgRepo.GetBySlug(ctx, req.Slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.NewAppError(apperrors.ErrConflict, "slug is already taken", nil)
	}

	org := &model.Organization{
		ID:                 uuid.New(),
		Name:               req.Name,
		Slug:               req.Slug,
		PlanTier:           "free",
		SubscriptionStatus: "trialing",
		MemberCap:          50,
		IsActive:           true,
		CreatedBy:          caller.ID,
		PublicJoin:         req.PublicJoin,
		AllowedEmailDomain: req.AllowedEmailDomain,
	}
	if err := u.orgRepo.Create(ctx, org); err != nil {
		return nil, err
	}

	owner := &model.OrganizationMember{
		OrganizationID:      org.ID,
		UserID:              caller.ID,
		Role:                model.OrgRoleOwner,
		CanCreateWorkspaces: true,
		CanInviteMembers:    true,
		CanManageBilling:    true,
		Status:              model.MemberStatusActive,
	}
	if err := u.orgMemberRepo.Create(ctx, owner); err != nil {
		return nil, err
	}

	u.logger.Info("Organization created",
		zap.String("organization_id", org.ID.String()),
		zap.String("slug", org.Slug))

	return org, nil
}

func (u *MembershipUseCase) GetOrganization(ctx context.Context, token string, orgID uuid.UUID) (*model.Organization, error) {
	caller, err := u.auth.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}

	org, _, err := u.requireOrgMember(ctx, orgID, caller.ID)
	if err != nil {
		return nil, err
	}
	return org, nil
}

func (u *MembershipUseCase) ListMembers(ctx context.Context, token string, orgID uuid.UUID) ([]model.OrganizationMember, error) {
	caller, err := u.auth.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}

	if _, _, err := u.requireOrgMember(ctx, orgID, caller.ID); err != nil {
		return nil, err
	}

	return u.orgMemberRepo.ListByOrg(ctx, orgID)
}

// AddMember inserts a membership row directly. Only owners may grant the
// owner role; the organization member cap is enforced here.
func (u *MembershipUseCase) AddMember(ctx context.Context, token string, req AddOrgMemberRequest) (*model.OrganizationMember, error) {
	caller, err := u.auth.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}

	org, callerMember, err := u.requireOrgMember(ctx, req.OrganizationID, caller.ID)
	if err != nil {
		return nil, err
	}
	if !HasOrgCapability(callerMember, CapabilityInviteMembers) {
		return nil, apperrors.NewAppError(apperrors.ErrUnauthorized, "missing invite-members capability", nil)
	}
	if req.Role == model.OrgRoleOwner && callerMember.Role != model.OrgRoleOwner {
		return nil, apperrors.NewAppError(apperrors.ErrUnauthorized, "only an owner may grant the owner role", nil)
	}

	target, err := u.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, apperrors.NewAppError(apperrors.ErrNotFound, "user not found", nil)
	}

	existing, err := u.orgMemberRepo.GetByOrgAndUser(ctx, req.OrganizationID, req.UserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.NewAppError(apperrors.ErrConflict, "user is already a member", nil)
	}

	members, err := u.orgMemberRepo.ListByOrg(ctx, req.OrganizationID)
	if err != nil {
		return nil, err
	}
	if org.MemberCap > 0 && len(members) >= org.MemberCap {
		return nil, apperrors.NewAppError(apperrors.ErrConflict, "organization member cap reached", nil)
	}

	member := &model.OrganizationMember{
		OrganizationID:      req.OrganizationID,
		UserID:              req.UserID,
		Role:                req.Role,
		CanCreateWorkspaces: req.CanCreateWorkspaces,
		CanInviteMembers:    req.CanInviteMembers,
		CanManageBilling:    req.CanManageBilling,
		Status:              model.MemberStatusActive,
	}
	if err := u.orgMemberRepo.Create(ctx, member); err != nil {
		return nil, err
	}

	return member, nil
}

// UpdateRole changes a member's role. Only an owner may grant the owner role.
func (u *MembershipUseCase) UpdateRole(ctx context.Context, token string, req UpdateOrgRoleRequest) (*model.OrganizationMember, error) {
	caller, err := u.auth.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}

	_, callerMember, err := u.requireOrgMember(ctx, req.OrganizationID, caller.ID)
	if err != nil {
		return nil, err
	}
	if !HasOrgCapability(callerMember, CapabilityIsAdmin) {
		return nil, apperrors.NewAppError(apperrors.ErrUnauthorized, "organization admin required", nil)
	}
	if req.Role == model.OrgRoleOwner && callerMember.Role != model.OrgRoleOwner {
		return nil, apperrors.NewAppError(apperrors.ErrUnauthorized, "only an owner may grant the owner role", nil)
	}

	member, err := u.orgMemberRepo.GetByOrgAndUser(ctx, req.OrganizationID, req.UserID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, apperrors.NewAppError(apperrors.ErrNotFound, "membership not found", nil)
	}

	member.Role = req.Role
	if err := u.orgMemberRepo.Update(ctx, member); err != nil {
		return nil, err
	}

	return member, nil
}

// UpdateCapabilities sets the additive capability flags on a membership.
func (u *MembershipUseCase) UpdateCapabilities(ctx context.Context, token string, req UpdateOrgCapabilitiesRequest) (*model.OrganizationMember, error) {
	caller, err := u.auth.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}

	_, callerMember, err := u.requireOrgMember(ctx, req.OrganizationID, caller.ID)
	if err != nil {
		return nil, err
	}
	if !HasOrgCapability(callerMember, CapabilityIsAdmin) {
		return nil, apperrors.NewAppError(apperrors.ErrUnauthorized, "organization admin required", nil)
	}

	member, err := u.orgMemberRepo.GetByOrgAndUser(ctx, req.OrganizationID, req.UserID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, apperrors.NewAppError(apperrors.ErrNotFound, "membership not found", nil)
	}

	member.CanCreateWorkspaces = req.CanCreateWorkspaces
	member.CanInviteMembers = req.CanInviteMembers
	member.CanManageBilling = req.CanManageBilling
	if err := u.orgMemberRepo.Update(ctx, member); err != nil {
		return nil, err
	}

	return member, nil
}

// RemoveMember deletes a membership. The last owner of an active
// organization cannot be removed. Removal cascades to every workspace
// membership the user holds inside the organization.
func (u *MembershipUseCase) RemoveMember(ctx context.Context, token string, orgID, userID uuid.UUID) error {
	caller, err := u.auth.Authenticate(ctx, token)
	if err != nil {
		return err
	}

	_, callerMember, err := u.requireOrgMember(ctx, orgID, caller.ID)
	if err != nil {
		return err
	}
	if caller.ID != userID && !HasOrgCapability(callerMember, CapabilityIsAdmin) {
		return apperrors.NewAppError(apperrors.ErrUnauthorized, "organization admin required", nil)
	}

	member, err := u.orgMemberRepo.GetByOrgAndUser(ctx, orgID, userID)
	if err != nil {
		return err
	}
	if member == nil {
		return apperrors.NewAppError(apperrors.ErrNotFound, "membership not found", nil)
	}

	if member.Role == model.OrgRoleOwner {
		owners, err := u.orgMemberRepo.CountActiveByRole(ctx, orgID, model.OrgRoleOwner)
		if err != nil {
			return err
		}
		if owners <= 1 {
			return apperrors.NewAppError(apperrors.ErrInvariantViolation, "cannot remove the last owner", nil)
		}
	}

	if err := u.orgMemberRepo.Delete(ctx, member.ID); err != nil {
		return err
	}

	if err := u.wsMemberRepo.DeleteByOrgAndUser(ctx, orgID, userID); err != nil {
		return err
	}

	u.logger.Info("Organization member removed",
		zap.String("organization_id", orgID.String()),
		zap.String("user_id", userID.String()))

	return nil
}

// CreateWorkspace opens a new channel in the organization. Requires the
// create-workspaces capability; the creator becomes the workspace admin.
func (u *MembershipUseCase) CreateWorkspace(ctx context.Context, token string, req CreateWorkspaceRequest) (*model.Workspace, error) {
	caller, err := u.auth.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}

	_, callerMember, err := u.requireOrgMember(ctx, req.OrganizationID, caller.ID)
	if err != nil {
		return nil, err
	}
	if !HasOrgCapability(callerMember, CapabilityCreateWorkspaces) {
		return nil, apperrors.NewAppError(apperrors.ErrUnauthorized, "missing create-workspaces capability", nil)
	}

	if req.Name == "" {
		return nil, apperrors.NewAppError(apperrors.ErrInvalidArgument, "workspace name is required", nil)
	}
	wsType := req.Type
	if wsType == "" {
		wsType = model.WorkspaceTypePublic
	}
	if wsType != model.WorkspaceTypePublic && wsType != model.WorkspaceTypePrivate {
		return nil, apperrors.NewAppError(apperrors.ErrInvalidArgument, "workspace type must be public or private", nil)
	}

	ws := &model.Workspace{
		ID:               uuid.New(),
		OrganizationID:   req.OrganizationID,
		Name:             req.Name,
		Description:      req.Description,
		Type:             wsType,
		Purpose:          req.Purpose,
		CreatedBy:        caller.ID,
		AllowThreads:     true,
		AllowFileUploads: true,
	}
	if err := u.wsRepo.Create(ctx, ws); err != nil {
		return nil, err
	}

	admin := &model.WorkspaceMember{
		WorkspaceID:     ws.ID,
		UserID:          caller.ID,
		OrganizationID:  req.OrganizationID,
		Role:            model.WorkspaceRoleAdmin,
		NotificationsOn: true,
	}
	if err := u.wsMemberRepo.Create(ctx, admin); err != nil {
		return nil, err
	}

	u.logger.Info("Workspace created",
		zap.String("workspace_id", ws.ID.String()),
		zap.String("organization_id", req.OrganizationID.String()))

	return ws, nil
}

func (u *MembershipUseCase) GetWorkspace(ctx context.Context, token string, workspaceID uuid.UUID) (*model.Workspace, error) {
	caller, err := u.auth.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}

	ws, _, err := u.requireWorkspaceMember(ctx, workspaceID, caller.ID)
	if err != nil {
		return nil, err
	}
	return ws, nil
}

// UpdateWorkspace mutates workspace settings. Workspace admin only.
func (u *MembershipUseCase) UpdateWorkspace(ctx context.Context, token string, req UpdateWorkspaceRequest) (*model.Workspace, error) {
	caller, err := u.auth.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}

	ws, callerMember, err := u.requireWorkspaceMember(ctx, req.WorkspaceID, caller.ID)
	if err != nil {
		return nil, err
	}
	if !callerMember.IsAdmin() {
		return nil, apperrors.NewAppError(apperrors.ErrUnauthorized, "workspace admin required", nil)
	}

	if req.Name != "" {
		ws.Name = req.Name
	}
	ws.Description = req.Description
	ws.Purpose = req.Purpose
	ws.AllowThreads = req.AllowThreads
	ws.AllowFileUploads = req.AllowFileUploads
	if err := u.wsRepo.Update(ctx, ws); err != nil {
		return nil, err
	}

	return ws, nil
}

// ArchiveWorkspace freezes the workspace. Workspace admin only.
func (u *MembershipUseCase) ArchiveWorkspace(ctx context.Context, token string, workspaceID uuid.UUID) error {
	caller, err := u.auth.Authenticate(ctx, token)
	if err != nil {
		return err
	}

	ws, callerMember, err := u.requireWorkspaceMember(ctx, workspaceID, caller.ID)
	if err != nil {
		return err
	}
	if !callerMember.IsAdmin() {
		return apperrors.NewAppError(apperrors.ErrUnauthorized, "workspace admin required", nil)
	}

	ws.IsArchived = true
	ws.Type = model.WorkspaceTypeArchived
	return u.wsRepo.Update(ctx, ws)
}

func (u *MembershipUseCase) ListWorkspaceMembers(ctx context.Context, token string, workspaceID uuid.UUID) ([]model.WorkspaceMember, error) {
	caller, err := u.auth.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}

	if _, _, err := u.requireWorkspaceMember(ctx, workspaceID, caller.ID); err != nil {
		return nil, err
	}

	return u.wsMemberRepo.ListByWorkspace(ctx, workspaceID)
}

// AddWorkspaceMember adds an active organization member straight into the
// workspace, recording an auto-accepted invitation row for the audit trail.
func (u *MembershipUseCase) AddWorkspaceMember(ctx context.Context, token string, req AddWorkspaceMemberRequest) (*model.WorkspaceMember, error) {
	caller, err := u.auth.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}

	ws, callerMember, err := u.requireWorkspaceMember(ctx, req.WorkspaceID, caller.ID)
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
		return nil, apperrors.NewAppError(apperrors.ErrInvalidArgument, "user is not an active organization member", nil)
	}

	existing, err := u.wsMemberRepo.GetByWorkspaceAndUser(ctx, req.WorkspaceID, req.UserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.NewAppError(apperrors.ErrConflict, "user is already a workspace member", nil)
	}

	role := req.Role
	if role == "" {
		role = model.WorkspaceRoleMember
	}

	member := &model.WorkspaceMember{
		WorkspaceID:     req.WorkspaceID,
		UserID:          req.UserID,
		OrganizationID:  ws.OrganizationID,
		Role:            role,
		NotificationsOn: true,
		InvitedBy:       &caller.ID,
	}
	if err := u.wsMemberRepo.Create(ctx, member); err != nil {
		return nil, err
	}

	record := &model.WorkspaceInvitation{
		WorkspaceID:    req.WorkspaceID,
		OrganizationID: ws.OrganizationID,
		UserID:         req.UserID,
		Role:           role,
		InvitedBy:      caller.ID,
		Status:         model.InvitationStatusAutoAccepted,
	}
	if err := u.wsInvRepo.Create(ctx, record); err != nil {
		u.logger.Warn("Failed to record auto-accepted invitation",
			zap.String("workspace_id", req.WorkspaceID.String()),
			zap.Error(err))
	}

	return member, nil
}

// UpdateWorkspaceRole changes a workspace member's role. Workspace admin only.
func (u *MembershipUseCase) UpdateWorkspaceRole(ctx context.Context, token string, req UpdateWorkspaceRoleRequest) (*model.WorkspaceMember, error) {
	caller, err := u.auth.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}

	_, callerMember, err := u.requireWorkspaceMember(ctx, req.WorkspaceID, caller.ID)
	if err != nil {
		return nil, err
	}
	if !callerMember.IsAdmin() {
		return nil, apperrors.NewAppError(apperrors.ErrUnauthorized, "workspace admin required", nil)
	}

	member, err := u.wsMemberRepo.GetByWorkspaceAndUser(ctx, req.WorkspaceID, req.UserID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, apperrors.NewAppError(apperrors.ErrNotFound, "workspace membership not found", nil)
	}

	member.Role = req.Role
	if err := u.wsMemberRepo.Update(ctx, member); err != nil {
		return nil, err
	}

	return member, nil
}

// RemoveWorkspaceMember deletes a workspace membership. The last admin of a
// workspace cannot be removed.
func (u *MembershipUseCase) RemoveWorkspaceMember(ctx context.Context, token string, workspaceID, userID uuid.UUID) error {
	caller, err := u.auth.Authenticate(ctx, token)
	if err != nil {
		return err
	}

	_, callerMember, err := u.requireWorkspaceMember(ctx, workspaceID, caller.ID)
	if err != nil {
		return err
	}
	if caller.ID != userID && !callerMember.IsAdmin() {
		return apperrors.NewAppError(apperrors.ErrUnauthorized, "workspace admin required", nil)
	}

	member, err := u.wsMemberRepo.GetByWorkspaceAndUser(ctx, workspaceID, userID)
	if err != nil {
		return err
	}
	if member == nil {
		return apperrors.NewAppError(apperrors.ErrNotFound, "workspace membership not found", nil)
	}

	if member.IsAdmin() {
		admins, err := u.wsMemberRepo.CountAdmins(ctx, workspaceID)
		if err != nil {
			return err
		}
		if admins <= 1 {
			return apperrors.NewAppError(apperrors.ErrInvariantViolation, "cannot remove the last workspace admin", nil)
		}
	}

	return u.wsMemberRepo.Delete(ctx, member.ID)
}
