package http

import (
	"net/http"

	"github.com/huddlehq/huddle-backend/internal/usecase"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type FileHandler struct {
	files  *usecase.FileUseCase
	logger *zap.Logger
}

func NewFileHandler(files *usecase.FileUseCase, logger *zap.Logger) *FileHandler {
	return &FileHandler{
		files:  files,
		logger: logger,
	}
}

func (h *FileHandler) GenerateUploadURL(c echo.Context) error {
	var req usecase.GenerateUploadURLRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	ticket, err := h.files.GenerateUploadURL(c.Request().Context(), bearerToken(c), req)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, ticket)
}

func (h *FileHandler) StoreMetadata(c echo.Context) error {
	var req usecase.StoreFileMetadataRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	file, err := h.files.StoreMetadata(c.Request().Context(), bearerToken(c), req)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, file)
}

func (h *FileHandler) GetURL(c echo.Context) error {
	fileID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	url, err := h.files.GetFileURL(c.Request().Context(), bearerToken(c), fileID)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"url": url})
}

func (h *FileHandler) Delete(c echo.Context) error {
	fileID, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.files.Delete(c.Request().Context(), bearerToken(c), fileID); err != nil {
		return fail(err)
	}
	return c.NoContent(http.StatusNoContent)
}
