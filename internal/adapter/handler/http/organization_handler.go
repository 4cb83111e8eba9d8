package http

import (
	"net/http"

	"github.com/huddlehq/huddle-backend/internal/usecase"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type OrganizationHandler struct {
	memberships *usecase.MembershipUseCase
	invitations *usecase.InvitationUseCase
	logger      *zap.Logger
}

func NewOrganizationHandler(memberships *usecase.MembershipUseCase, invitations *usecase.InvitationUseCase, logger *zap.Logger) *OrganizationHandler {
	return &OrganizationHandler{
		memberships: memberships,
		invitations: invitations,
		logger:      logger,
	}
}

func (h *OrganizationHandler) Create(c echo.Context) error {
	var req usecase.CreateOrganizationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	org, err := h.memberships.CreateOrganization(c.Request().Context(), bearerToken(c), req)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, org)
}

func (h *OrganizationHandler) Get(c echo.Context) error {
	orgID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	org, err := h.memberships.GetOrganization(c.Request().Context(), bearerToken(c), orgID)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, org)
}

func (h *OrganizationHandler) ListMembers(c echo.Context) error {
	orgID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	members, err := h.memberships.ListMembers(c.Request().Context(), bearerToken(c), orgID)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, members)
}

func (h *OrganizationHandler) AddMember(c echo.Context) error {
	orgID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	var req usecase.AddOrgMemberRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	req.OrganizationID = orgID

	member, err := h.memberships.AddMember(c.Request().Context(), bearerToken(c), req)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, member)
}

func (h *OrganizationHandler) UpdateMemberRole(c echo.Context) error {
	orgID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	userID, err := uuidParam(c, "userId")
	if err != nil {
		return err
	}

	var req usecase.UpdateOrgRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	req.OrganizationID = orgID
	req.UserID = userID

	member, err := h.memberships.UpdateRole(c.Request().Context(), bearerToken(c), req)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, member)
}

func (h *OrganizationHandler) UpdateMemberCapabilities(c echo.Context) error {
	orgID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	userID, err := uuidParam(c, "userId")
	if err != nil {
		return err
	}

	var req usecase.UpdateOrgCapabilitiesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	req.OrganizationID = orgID
	req.UserID = userID

	member, err := h.memberships.UpdateCapabilities(c.Request().Context(), bearerToken(c), req)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, member)
}

func (h *OrganizationHandler) RemoveMember(c echo.Context) error {
	orgID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	userID, err := uuidParam(c, "userId")
	if err != nil {
		return err
	}

	if err := h.memberships.RemoveMember(c.Request().Context(), bearerToken(c), orgID, userID); err != nil {
		return fail(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *OrganizationHandler) CreateInvitation(c echo.Context) error {
	orgID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	var req usecase.CreateOrgInvitationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	req.OrganizationID = orgID

	invitation, err := h.invitations.InviteToOrganization(c.Request().Context(), bearerToken(c), req)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, invitation)
}

func (h *OrganizationHandler) ListInvitations(c echo.Context) error {
	orgID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	invitations, err := h.invitations.ListOrgInvitations(c.Request().Context(), bearerToken(c), orgID)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, invitations)
}

func (h *OrganizationHandler) GetInvitation(c echo.Context) error {
	invitation, err := h.invitations.GetOrgInvitation(c.Request().Context(), c.Param("token"))
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, invitation)
}

func (h *OrganizationHandler) AcceptInvitation(c echo.Context) error {
	member, err := h.invitations.AcceptOrgInvitation(c.Request().Context(), bearerToken(c), c.Param("token"))
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, member)
}

func (h *OrganizationHandler) DeclineInvitation(c echo.Context) error {
	if err := h.invitations.DeclineOrgInvitation(c.Request().Context(), bearerToken(c), c.Param("token")); err != nil {
		return fail(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *OrganizationHandler) RevokeInvitation(c echo.Context) error {
	invitationID, err := uuidParam(c, "invitationId")
	if err != nil {
		return err
	}

	if err := h.invitations.RevokeOrgInvitation(c.Request().Context(), bearerToken(c), invitationID); err != nil {
		return fail(err)
	}
	return c.NoContent(http.StatusNoContent)
}
