package usecase

import (
	"github.com/huddlehq/huddle-backend/internal/domain/model"
)

// OrgCapability is a fine-grained organization permission. Capabilities are
// derived from the member's role and the per-member boolean flags; flags are
// additive grants beyond the role's defaults, never restrictions.
type OrgCapability string

const (
	CapabilityCreateWorkspaces OrgCapability = "createWorkspaces"
	CapabilityInviteMembers    OrgCapability = "inviteMembers"
	CapabilityManageBilling    OrgCapability = "manageBilling"
	CapabilityIsAdmin          OrgCapability = "isAdmin"
)

// HasOrgCapability is the authorization predicate every organization-scoped
// mutation runs through. The membership must be active; owner and admin
// roles satisfy everything except manageBilling, which requires the owner
// role or the explicit flag.
func HasOrgCapability(member *model.OrganizationMember, capability OrgCapability) bool {
	if !member.IsActive() {
		return false
	}

	isAdmin := member.Role == model.OrgRoleOwner || member.Role == model.OrgRoleAdmin

	switch capability {
	case CapabilityIsAdmin:
		return isAdmin
	case CapabilityCreateWorkspaces:
		return isAdmin || member.CanCreateWorkspaces
	case CapabilityInviteMembers:
		return isAdmin || member.CanInviteMembers
	case CapabilityManageBilling:
		return member.Role == model.OrgRoleOwner || member.CanManageBilling
	}

	return false
}
