package http

import (
	"net/http"
	"strconv"

	"github.com/huddlehq/huddle-backend/internal/usecase"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type WorkspaceHandler struct {
	memberships *usecase.MembershipUseCase
	invitations *usecase.InvitationUseCase
	logger      *zap.Logger
}

func NewWorkspaceHandler(memberships *usecase.MembershipUseCase, invitations *usecase.InvitationUseCase, logger *zap.Logger) *WorkspaceHandler {
	return &WorkspaceHandler{
		memberships: memberships,
		invitations: invitations,
		logger:      logger,
	}
}

func (h *WorkspaceHandler) Create(c echo.Context) error {
	var req usecase.CreateWorkspaceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	ws, err := h.memberships.CreateWorkspace(c.Request().Context(), bearerToken(c), req)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, ws)
}

func (h *WorkspaceHandler) Get(c echo.Context) error {
	workspaceID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	ws, err := h.memberships.GetWorkspace(c.Request().Context(), bearerToken(c), workspaceID)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, ws)
}

func (h *WorkspaceHandler) Update(c echo.Context) error {
	workspaceID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	var req usecase.UpdateWorkspaceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	req.WorkspaceID = workspaceID

	ws, err := h.memberships.UpdateWorkspace(c.Request().Context(), bearerToken(c), req)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, ws)
}

func (h *WorkspaceHandler) Archive(c echo.Context) error {
	workspaceID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.memberships.ArchiveWorkspace(c.Request().Context(), bearerToken(c), workspaceID); err != nil {
		return fail(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *WorkspaceHandler) ListMembers(c echo.Context) error {
	workspaceID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	members, err := h.memberships.ListWorkspaceMembers(c.Request().Context(), bearerToken(c), workspaceID)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, members)
}

func (h *WorkspaceHandler) AddMember(c echo.Context) error {
	workspaceID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	var req usecase.AddWorkspaceMemberRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	req.WorkspaceID = workspaceID

	member, err := h.memberships.AddWorkspaceMember(c.Request().Context(), bearerToken(c), req)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, member)
}

func (h *WorkspaceHandler) UpdateMemberRole(c echo.Context) error {
	workspaceID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	userID, err := uuidParam(c, "userId")
	if err != nil {
		return err
	}

	var req usecase.UpdateWorkspaceRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	req.WorkspaceID = workspaceID
	req.UserID = userID

	member, err := h.memberships.UpdateWorkspaceRole(c.Request().Context(), bearerToken(c), req)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, member)
}

func (h *WorkspaceHandler) RemoveMember(c echo.Context) error {
	workspaceID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	userID, err := uuidParam(c, "userId")
	if err != nil {
		return err
	}

	if err := h.memberships.RemoveWorkspaceMember(c.Request().Context(), bearerToken(c), workspaceID, userID); err != nil {
		return fail(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *WorkspaceHandler) CreateInvitation(c echo.Context) error {
	workspaceID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	var req usecase.InviteToWorkspaceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	req.WorkspaceID = workspaceID

	invitation, err := h.invitations.InviteToWorkspace(c.Request().Context(), bearerToken(c), req)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, invitation)
}

type respondInvitationBody struct {
	Accept bool `json:"accept"`
}

func (h *WorkspaceHandler) RespondInvitation(c echo.Context) error {
	invitationID, err := strconv.ParseInt(c.Param("invitationId"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid invitationId")
	}

	var body respondInvitationBody
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	member, err := h.invitations.RespondToWorkspaceInvitation(c.Request().Context(), bearerToken(c), invitationID, body.Accept)
	if err != nil {
		return fail(err)
	}
	if member == nil {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, member)
}

func (h *WorkspaceHandler) RevokeInvitation(c echo.Context) error {
	invitationID, err := strconv.ParseInt(c.Param("invitationId"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid invitationId")
	}

	if err := h.invitations.RevokeWorkspaceInvitation(c.Request().Context(), bearerToken(c), invitationID); err != nil {
		return fail(err)
	}
	return c.NoContent(http.StatusNoContent)
}
