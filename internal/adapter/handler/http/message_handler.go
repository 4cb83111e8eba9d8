package http

import (
	"net/http"

	"github.com/huddlehq/huddle-backend/internal/usecase"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type MessageHandler struct {
	messages *usecase.MessageUseCase
	logger   *zap.Logger
}

func NewMessageHandler(messages *usecase.MessageUseCase, logger *zap.Logger) *MessageHandler {
	return &MessageHandler{
		messages: messages,
		logger:   logger,
	}
}

func (h *MessageHandler) Send(c echo.Context) error {
	workspaceID, err := uuidParam(c, "workspaceId")
	if err != nil {
		return err
	}

	var req usecase.SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	req.WorkspaceID = workspaceID

	view, err := h.messages.Send(c.Request().Context(), bearerToken(c), req)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, view)
}

func (h *MessageHandler) List(c echo.Context) error {
	workspaceID, err := uuidParam(c, "workspaceId")
	if err != nil {
		return err
	}

	views, err := h.messages.List(c.Request().Context(), bearerToken(c), workspaceID)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, views)
}

func (h *MessageHandler) Get(c echo.Context) error {
	messageID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	view, err := h.messages.Get(c.Request().Context(), bearerToken(c), messageID)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *MessageHandler) Edit(c echo.Context) error {
	messageID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	var req usecase.EditMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	req.MessageID = messageID

	message, err := h.messages.Edit(c.Request().Context(), bearerToken(c), req)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, message)
}

func (h *MessageHandler) Remove(c echo.Context) error {
	messageID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.messages.Remove(c.Request().Context(), bearerToken(c), messageID); err != nil {
		return fail(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *MessageHandler) Pin(c echo.Context) error {
	messageID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.messages.Pin(c.Request().Context(), bearerToken(c), messageID); err != nil {
		return fail(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *MessageHandler) Unpin(c echo.Context) error {
	messageID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.messages.Unpin(c.Request().Context(), bearerToken(c), messageID); err != nil {
		return fail(err)
	}
	return c.NoContent(http.StatusNoContent)
}

type reactionBody struct {
	Emoji string `json:"emoji"`
}

func (h *MessageHandler) AddReaction(c echo.Context) error {
	messageID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	var body reactionBody
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	reaction, err := h.messages.AddReaction(c.Request().Context(), bearerToken(c), usecase.ReactionRequest{
		MessageID: messageID,
		Emoji:     body.Emoji,
	})
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, reaction)
}

func (h *MessageHandler) RemoveReaction(c echo.Context) error {
	messageID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	err = h.messages.RemoveReaction(c.Request().Context(), bearerToken(c), usecase.ReactionRequest{
		MessageID: messageID,
		Emoji:     c.QueryParam("emoji"),
	})
	if err != nil {
		return fail(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *MessageHandler) ListReactions(c echo.Context) error {
	messageID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	reactions, err := h.messages.ListReactions(c.Request().Context(), bearerToken(c), messageID)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, reactions)
}

func (h *MessageHandler) MarkRead(c echo.Context) error {
	messageID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.messages.MarkRead(c.Request().Context(), bearerToken(c), messageID); err != nil {
		return fail(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *MessageHandler) MarkWorkspaceRead(c echo.Context) error {
	workspaceID, err := uuidParam(c, "workspaceId")
	if err != nil {
		return err
	}

	count, err := h.messages.MarkWorkspaceRead(c.Request().Context(), bearerToken(c), workspaceID)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, map[string]int{"marked": count})
}

func (h *MessageHandler) ListReads(c echo.Context) error {
	messageID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	reads, err := h.messages.ListReads(c.Request().Context(), bearerToken(c), messageID)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, reads)
}
